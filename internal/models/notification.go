package models

import (
	"time"

	"gorm.io/datatypes"
)

type Notification struct {
	BaseModel
	UserID  string           `gorm:"not null;index" json:"userId"`
	Type    NotificationType `gorm:"type:varchar(30);not null" json:"type"`
	Title   string           `gorm:"not null" json:"title"`
	Message string           `json:"message"`
	Link    *string          `json:"link,omitempty"`
	Data    datatypes.JSON   `json:"data,omitempty"` // {"projectId": "...", "conversationId": "..."}
	IsRead  bool             `gorm:"default:false;index" json:"isRead"`
	ReadAt  *time.Time       `json:"readAt,omitempty"`

	// Email delivery is best-effort; these only record the outcome.
	EmailSent   bool       `gorm:"default:false" json:"emailSent"`
	EmailSentAt *time.Time `json:"emailSentAt,omitempty"`
}
