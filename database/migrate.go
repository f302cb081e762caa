package database

import (
	"gorm.io/gorm"

	"fwork_backend/internal/models"
	"fwork_backend/internal/models/chat"
)

// Migrate applies the schema for every domain model. Order matters for
// the foreign keys.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.NotificationPreference{},
		&models.Project{},
		&models.ProjectApplication{},
		&models.Notification{},
		&chat.Conversation{},
		&chat.ConversationParticipant{},
		&chat.Message{},
	)
}
