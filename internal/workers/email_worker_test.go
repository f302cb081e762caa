package workers

import (
	"errors"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"fwork_backend/internal/email"
	"fwork_backend/internal/models"
	"fwork_backend/internal/repositories"
)

type stubProvider struct {
	err  error
	sent []string
}

func (p *stubProvider) Send(msg *email.Email) error { return p.err }

func (p *stubProvider) SendTemplate(to []string, subject, templateName string, data email.TemplateData) error {
	if p.err != nil {
		return p.err
	}
	p.sent = append(p.sent, to...)
	return nil
}

func (p *stubProvider) Validate() error { return nil }
func (p *stubProvider) Close() error    { return nil }

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.Notification{}))
	return db
}

func seedNotification(t *testing.T, db *gorm.DB) *models.Notification {
	t.Helper()
	n := &models.Notification{
		UserID:  "user-1",
		Type:    models.NotificationTypeMessage,
		Title:   "New message",
		Message: "hello",
	}
	require.NoError(t, db.Create(n).Error)
	return n
}

func TestProcessMarksEmailSent(t *testing.T) {
	db := openTestDB(t)
	notification := seedNotification(t, db)

	provider := &stubProvider{}
	worker := NewEmailWorker(db, provider, repositories.NewNotificationRepository(), 4)

	worker.process(EmailJob{
		NotificationID: notification.ID,
		To:             "user@test.com",
		Subject:        "New message",
		Template:       "new_message",
	})

	assert.Equal(t, []string{"user@test.com"}, provider.sent)

	var updated models.Notification
	require.NoError(t, db.First(&updated, "id = ?", notification.ID).Error)
	assert.True(t, updated.EmailSent)
	assert.NotNil(t, updated.EmailSentAt)
}

func TestProcessFailureLeavesEmailUnsent(t *testing.T) {
	db := openTestDB(t)
	notification := seedNotification(t, db)

	provider := &stubProvider{err: errors.New("smtp down")}
	worker := NewEmailWorker(db, provider, repositories.NewNotificationRepository(), 4)

	worker.process(EmailJob{
		NotificationID: notification.ID,
		To:             "user@test.com",
		Subject:        "New message",
		Template:       "new_message",
	})

	var updated models.Notification
	require.NoError(t, db.First(&updated, "id = ?", notification.ID).Error)
	assert.False(t, updated.EmailSent)
	assert.Nil(t, updated.EmailSentAt)
}

func TestEnqueueDropsWhenFull(t *testing.T) {
	worker := NewEmailWorker(nil, &stubProvider{}, repositories.NewNotificationRepository(), 1)

	assert.True(t, worker.Enqueue(EmailJob{To: "a@test.com"}))
	assert.False(t, worker.Enqueue(EmailJob{To: "b@test.com"}), "a full queue drops instead of blocking")
}
