package chat

import "time"

// ConversationParticipant holds one user's membership and unread counter for
// one conversation. The counter is only ever changed by a SQL-side increment
// or an unconditional reset to zero, never by a full-row write.
type ConversationParticipant struct {
	ID             string `gorm:"primaryKey;type:uuid"`
	ConversationID string `gorm:"not null;uniqueIndex:idx_conversation_user"`
	UserID         string `gorm:"not null;uniqueIndex:idx_conversation_user;index"`
	UnreadCount    int64  `gorm:"not null;default:0"`
	JoinedAt       time.Time
}
