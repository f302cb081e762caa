package integration

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fwork_backend/internal/models"
	"fwork_backend/test/helpers"
)

type notificationResp struct {
	ID     string `json:"id"`
	Type   string `json:"type"`
	Title  string `json:"title"`
	IsRead bool   `json:"isRead"`
}

type notificationListResp struct {
	Notifications []notificationResp `json:"notifications"`
	Total         int64              `json:"total"`
	UnreadCount   int64              `json:"unreadCount"`
	Page          int                `json:"page"`
	PageSize      int                `json:"pageSize"`
}

func seedNotification(t *testing.T, ts *helpers.TestServer, userID string, typ models.NotificationType, title string) *models.Notification {
	t.Helper()
	n := &models.Notification{
		UserID:  userID,
		Type:    typ,
		Title:   title,
		Message: "seeded",
	}
	require.NoError(t, ts.DB.Create(n).Error)
	return n
}

func listNotifications(t *testing.T, ts *helpers.TestServer, token, query string) notificationListResp {
	t.Helper()
	res, body := ts.SendRequest(t, http.MethodGet, "/api/v1/notifications"+query, token, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)

	var list notificationListResp
	require.NoError(t, json.Unmarshal([]byte(body), &list))
	return list
}

func TestNotificationListAndFilters(t *testing.T) {
	ts := helpers.NewTestServer(t)
	defer ts.Close()

	token, user := helpers.CreateAndLoginFreelance(t, ts)

	seedNotification(t, ts, user.ID, models.NotificationTypeMessage, "m1")
	seedNotification(t, ts, user.ID, models.NotificationTypeApplication, "a1")
	seedNotification(t, ts, user.ID, models.NotificationTypeSystem, "s1")

	list := listNotifications(t, ts, token, "")
	assert.Equal(t, int64(3), list.Total)
	assert.Equal(t, int64(3), list.UnreadCount)
	assert.Len(t, list.Notifications, 3)

	filtered := listNotifications(t, ts, token, "?type=message")
	assert.Equal(t, int64(1), filtered.Total)
	require.Len(t, filtered.Notifications, 1)
	assert.Equal(t, "m1", filtered.Notifications[0].Title)

	paged := listNotifications(t, ts, token, "?page=1&page_size=2")
	assert.Len(t, paged.Notifications, 2)
	assert.Equal(t, int64(3), paged.Total)
}

func TestMarkNotificationRead(t *testing.T) {
	ts := helpers.NewTestServer(t)
	defer ts.Close()

	token, user := helpers.CreateAndLoginFreelance(t, ts)
	n := seedNotification(t, ts, user.ID, models.NotificationTypeMessage, "unread")

	res, _ := ts.SendRequest(t, http.MethodPost, "/api/v1/notifications/"+n.ID+"/read", token, nil)
	require.Equal(t, http.StatusNoContent, res.StatusCode)

	var updated models.Notification
	require.NoError(t, ts.DB.First(&updated, "id = ?", n.ID).Error)
	assert.True(t, updated.IsRead)
	assert.NotNil(t, updated.ReadAt)

	list := listNotifications(t, ts, token, "?unread_only=true")
	assert.Equal(t, int64(0), list.Total)
}

func TestMarkAllAndMultipleRead(t *testing.T) {
	ts := helpers.NewTestServer(t)
	defer ts.Close()

	token, user := helpers.CreateAndLoginFreelance(t, ts)
	n1 := seedNotification(t, ts, user.ID, models.NotificationTypeMessage, "n1")
	n2 := seedNotification(t, ts, user.ID, models.NotificationTypeMessage, "n2")
	seedNotification(t, ts, user.ID, models.NotificationTypeMessage, "n3")

	res, _ := ts.SendRequest(t, http.MethodPost, "/api/v1/notifications/read", token, map[string]interface{}{
		"notificationIds": []string{n1.ID, n2.ID},
	})
	require.Equal(t, http.StatusNoContent, res.StatusCode)

	res, body := ts.SendRequest(t, http.MethodGet, "/api/v1/notifications/unread-count", token, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	var count struct {
		UnreadCount int64 `json:"unreadCount"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &count))
	assert.Equal(t, int64(1), count.UnreadCount)

	res, _ = ts.SendRequest(t, http.MethodPost, "/api/v1/notifications/read-all", token, nil)
	require.Equal(t, http.StatusNoContent, res.StatusCode)

	res, body = ts.SendRequest(t, http.MethodGet, "/api/v1/notifications/unread-count", token, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	require.NoError(t, json.Unmarshal([]byte(body), &count))
	assert.Equal(t, int64(0), count.UnreadCount)
}

func TestNotificationOwnershipEnforced(t *testing.T) {
	ts := helpers.NewTestServer(t)
	defer ts.Close()

	_, owner := helpers.CreateAndLoginFreelance(t, ts)
	intruderToken, _ := helpers.CreateAndLoginFreelance(t, ts)

	n := seedNotification(t, ts, owner.ID, models.NotificationTypeMessage, "private")

	res, _ := ts.SendRequest(t, http.MethodPost, "/api/v1/notifications/"+n.ID+"/read", intruderToken, nil)
	assert.Equal(t, http.StatusForbidden, res.StatusCode)

	res, _ = ts.SendRequest(t, http.MethodDelete, "/api/v1/notifications/"+n.ID, intruderToken, nil)
	assert.Equal(t, http.StatusForbidden, res.StatusCode)
}

func TestDeleteNotification(t *testing.T) {
	ts := helpers.NewTestServer(t)
	defer ts.Close()

	token, user := helpers.CreateAndLoginFreelance(t, ts)
	n := seedNotification(t, ts, user.ID, models.NotificationTypeMessage, "to delete")

	res, _ := ts.SendRequest(t, http.MethodDelete, "/api/v1/notifications/"+n.ID, token, nil)
	require.Equal(t, http.StatusNoContent, res.StatusCode)

	var count int64
	require.NoError(t, ts.DB.Model(&models.Notification{}).Where("id = ?", n.ID).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestPreferencesLifecycle(t *testing.T) {
	ts := helpers.NewTestServer(t)
	defer ts.Close()

	token, _ := helpers.CreateAndLoginFreelance(t, ts)

	// First read lazily creates the defaults.
	res, body := ts.SendRequest(t, http.MethodGet, "/api/v1/notifications/preferences", token, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)

	var prefs models.NotificationPreference
	require.NoError(t, json.Unmarshal([]byte(body), &prefs))
	assert.True(t, prefs.EmailEnabled)
	assert.True(t, prefs.EmailMessages)
	assert.False(t, prefs.EmailMarketing)

	res, body = ts.SendRequest(t, http.MethodPut, "/api/v1/notifications/preferences", token, map[string]interface{}{
		"emailMessages": false,
	})
	require.Equal(t, http.StatusOK, res.StatusCode, body)

	require.NoError(t, json.Unmarshal([]byte(body), &prefs))
	assert.False(t, prefs.EmailMessages)
	assert.True(t, prefs.EmailEnabled, "untouched fields keep their value")
}
