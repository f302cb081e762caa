package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fwork_backend/test/helpers"
)

type conversationResp struct {
	ID              string   `json:"id"`
	ProjectID       *string  `json:"projectId"`
	ParticipantIDs  []string `json:"participantIds"`
	LastMessageText string   `json:"lastMessageText"`
	UnreadCount     int64    `json:"unreadCount"`
}

type messageResp struct {
	ID             string `json:"id"`
	ConversationID string `json:"conversationId"`
	SenderID       string `json:"senderId"`
	ReceiverID     string `json:"receiverId"`
	Content        string `json:"content"`
	IsRead         bool   `json:"isRead"`
}

func startConversation(t *testing.T, ts *helpers.TestServer, token, otherID string, projectID *string) conversationResp {
	t.Helper()

	body := map[string]interface{}{"userId": otherID}
	if projectID != nil {
		body["projectId"] = *projectID
	}

	res, bodyStr := ts.SendRequest(t, http.MethodPost, "/api/v1/conversations", token, body)
	require.Contains(t, []int{http.StatusOK, http.StatusCreated}, res.StatusCode, bodyStr)

	var conv conversationResp
	require.NoError(t, json.Unmarshal([]byte(bodyStr), &conv))
	return conv
}

func sendMessage(t *testing.T, ts *helpers.TestServer, token, conversationID, content string) (int, string) {
	t.Helper()
	res, body := ts.SendRequest(t, http.MethodPost, "/api/v1/messages", token, map[string]interface{}{
		"conversationId": conversationID,
		"content":        content,
	})
	return res.StatusCode, body
}

func TestStartConversationIsIdempotentPerPair(t *testing.T) {
	ts := helpers.NewTestServer(t)
	defer ts.Close()

	aliceToken, _ := helpers.CreateAndLoginFreelance(t, ts)
	bobToken, bob := helpers.CreateAndLoginCompany(t, ts)

	res, body := ts.SendRequest(t, http.MethodPost, "/api/v1/conversations", aliceToken, map[string]interface{}{"userId": bob.ID})
	require.Equal(t, http.StatusCreated, res.StatusCode, body)
	var first conversationResp
	require.NoError(t, json.Unmarshal([]byte(body), &first))
	require.NotEmpty(t, first.ID)
	assert.Len(t, first.ParticipantIDs, 2)

	// Same pair again returns the same conversation, this time as a plain 200.
	res, body = ts.SendRequest(t, http.MethodPost, "/api/v1/conversations", aliceToken, map[string]interface{}{"userId": bob.ID})
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	var second conversationResp
	require.NoError(t, json.Unmarshal([]byte(body), &second))
	assert.Equal(t, first.ID, second.ID)

	// Reversed direction still resolves to the same conversation.
	res, body = ts.SendRequest(t, http.MethodGet, "/api/v1/conversations", bobToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)

	var list struct {
		Conversations []conversationResp `json:"conversations"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &list))
	require.Len(t, list.Conversations, 1)
	assert.Equal(t, first.ID, list.Conversations[0].ID)

	// A different project reference does not fork the conversation.
	project := helpers.CreateProject(t, ts.DB, bob.ID, "Logo design")
	third := startConversation(t, ts, aliceToken, bob.ID, &project.ID)
	assert.Equal(t, first.ID, third.ID)
}

func TestStartConversationWithSelfFails(t *testing.T) {
	ts := helpers.NewTestServer(t)
	defer ts.Close()

	token, user := helpers.CreateAndLoginFreelance(t, ts)

	res, _ := ts.SendRequest(t, http.MethodPost, "/api/v1/conversations", token, map[string]interface{}{
		"userId": user.ID,
	})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestStartConversationWithUnknownUserFails(t *testing.T) {
	ts := helpers.NewTestServer(t)
	defer ts.Close()

	token, _ := helpers.CreateAndLoginFreelance(t, ts)

	res, _ := ts.SendRequest(t, http.MethodPost, "/api/v1/conversations", token, map[string]interface{}{
		"userId": "00000000-0000-0000-0000-000000000000",
	})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestSendMessageUpdatesUnreadCount(t *testing.T) {
	ts := helpers.NewTestServer(t)
	defer ts.Close()

	aliceToken, _ := helpers.CreateAndLoginFreelance(t, ts)
	bobToken, bob := helpers.CreateAndLoginCompany(t, ts)

	conv := startConversation(t, ts, aliceToken, bob.ID, nil)

	for i := 1; i <= 3; i++ {
		status, body := sendMessage(t, ts, aliceToken, conv.ID, fmt.Sprintf("message %d", i))
		require.Equal(t, http.StatusCreated, status, body)
	}

	// Bob sees three unread messages, Alice none.
	res, body := ts.SendRequest(t, http.MethodGet, "/api/v1/conversations/"+conv.ID+"/unread", bobToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	var unread struct {
		UnreadCount int64 `json:"unreadCount"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &unread))
	assert.Equal(t, int64(3), unread.UnreadCount)

	res, body = ts.SendRequest(t, http.MethodGet, "/api/v1/conversations/unread", aliceToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	var total struct {
		TotalUnread int64 `json:"totalUnread"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &total))
	assert.Equal(t, int64(0), total.TotalUnread)

	// Reading the conversation resets Bob's counter.
	res, body = ts.SendRequest(t, http.MethodGet, "/api/v1/conversations/"+conv.ID+"/messages", bobToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)

	var msgList struct {
		Messages []messageResp `json:"messages"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &msgList))
	require.Len(t, msgList.Messages, 3)
	for _, m := range msgList.Messages {
		assert.True(t, m.IsRead, "incoming messages are marked read when listed")
		assert.Equal(t, bob.ID, m.ReceiverID)
	}

	res, body = ts.SendRequest(t, http.MethodGet, "/api/v1/conversations/"+conv.ID+"/unread", bobToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	require.NoError(t, json.Unmarshal([]byte(body), &unread))
	assert.Equal(t, int64(0), unread.UnreadCount)
}

func TestSendEmptyMessageRejected(t *testing.T) {
	ts := helpers.NewTestServer(t)
	defer ts.Close()

	aliceToken, _ := helpers.CreateAndLoginFreelance(t, ts)
	_, bob := helpers.CreateAndLoginCompany(t, ts)

	conv := startConversation(t, ts, aliceToken, bob.ID, nil)

	status, _ := sendMessage(t, ts, aliceToken, conv.ID, "   ")
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestNonParticipantCannotAccessConversation(t *testing.T) {
	ts := helpers.NewTestServer(t)
	defer ts.Close()

	aliceToken, _ := helpers.CreateAndLoginFreelance(t, ts)
	_, bob := helpers.CreateAndLoginCompany(t, ts)
	eveToken, _ := helpers.CreateAndLoginFreelance(t, ts)

	conv := startConversation(t, ts, aliceToken, bob.ID, nil)

	status, _ := sendMessage(t, ts, eveToken, conv.ID, "let me in")
	assert.Equal(t, http.StatusForbidden, status)

	res, _ := ts.SendRequest(t, http.MethodGet, "/api/v1/conversations/"+conv.ID+"/messages", eveToken, nil)
	assert.Equal(t, http.StatusForbidden, res.StatusCode)
}

func TestConversationListShowsLastMessagePreview(t *testing.T) {
	ts := helpers.NewTestServer(t)
	defer ts.Close()

	aliceToken, _ := helpers.CreateAndLoginFreelance(t, ts)
	bobToken, bob := helpers.CreateAndLoginCompany(t, ts)

	conv := startConversation(t, ts, aliceToken, bob.ID, nil)

	status, body := sendMessage(t, ts, aliceToken, conv.ID, "Bonjour, je suis intéressé par votre projet")
	require.Equal(t, http.StatusCreated, status, body)

	res, body := ts.SendRequest(t, http.MethodGet, "/api/v1/conversations", bobToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)

	var list struct {
		Conversations []conversationResp `json:"conversations"`
		TotalUnread   int64              `json:"totalUnread"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &list))
	require.Len(t, list.Conversations, 1)
	assert.Equal(t, "Bonjour, je suis intéressé par votre projet", list.Conversations[0].LastMessageText)
	assert.Equal(t, int64(1), list.Conversations[0].UnreadCount)
	assert.Equal(t, int64(1), list.TotalUnread)
}

func TestMessageNotificationDelivered(t *testing.T) {
	ts := helpers.NewTestServer(t)
	defer ts.Close()

	aliceToken, _ := helpers.CreateAndLoginFreelance(t, ts)
	bobToken, bob := helpers.CreateAndLoginCompany(t, ts)

	conv := startConversation(t, ts, aliceToken, bob.ID, nil)
	status, body := sendMessage(t, ts, aliceToken, conv.ID, "hello")
	require.Equal(t, http.StatusCreated, status, body)

	// The in-app notification is dispatched after the commit, so poll.
	require.Eventually(t, func() bool {
		res, body := ts.SendRequest(t, http.MethodGet, "/api/v1/notifications", bobToken, nil)
		if res.StatusCode != http.StatusOK {
			return false
		}
		var list struct {
			Notifications []struct {
				Type string `json:"type"`
			} `json:"notifications"`
		}
		if err := json.Unmarshal([]byte(body), &list); err != nil {
			return false
		}
		for _, n := range list.Notifications {
			if n.Type == "message" {
				return true
			}
		}
		return false
	}, 2*time.Second, 50*time.Millisecond, "receiver should get a message notification")
}
