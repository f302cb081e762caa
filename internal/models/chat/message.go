package chat

import "time"

// Message rows are append-only; only the read flag ever changes, and only
// when the receiver opens the conversation.
type Message struct {
	ID             string `gorm:"primaryKey;type:uuid"`
	ConversationID string `gorm:"index;not null"`
	SenderID       string `gorm:"index;not null"`
	ReceiverID     string `gorm:"index;not null"`
	Content        string `gorm:"type:text;not null"`
	IsRead         bool   `gorm:"default:false;index"`
	ReadAt         *time.Time
	CreatedAt      time.Time
}
