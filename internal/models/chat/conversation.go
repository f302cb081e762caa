package chat

import (
	"strings"
	"time"
)

// Conversation is a 1:1 thread between two users. PairKey is the sorted
// "lowID:highID" of the participants, so the unique index guarantees a
// single conversation per pair regardless of who opened it first.
type Conversation struct {
	ID        string `gorm:"primaryKey;type:uuid"`
	PairKey   string `gorm:"uniqueIndex;not null"`
	ProjectID *string `gorm:"index"`

	// Denormalized preview for conversation lists.
	LastMessageText string `gorm:"type:varchar(160)"`
	LastMessageAt   *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time

	Participants []ConversationParticipant `gorm:"foreignKey:ConversationID"`
}

// PairKeyFor builds the canonical pair key for two user IDs. Order of the
// arguments does not matter.
func PairKeyFor(userA, userB string) string {
	if strings.Compare(userA, userB) > 0 {
		userA, userB = userB, userA
	}
	return userA + ":" + userB
}

// OtherParticipant returns the participant row that is not userID, or nil.
func (c *Conversation) OtherParticipant(userID string) *ConversationParticipant {
	for i := range c.Participants {
		if c.Participants[i].UserID != userID {
			return &c.Participants[i]
		}
	}
	return nil
}

// ParticipantFor returns userID's own participant row, or nil.
func (c *Conversation) ParticipantFor(userID string) *ConversationParticipant {
	for i := range c.Participants {
		if c.Participants[i].UserID == userID {
			return &c.Participants[i]
		}
	}
	return nil
}
