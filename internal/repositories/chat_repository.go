package repositories

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"fwork_backend/internal/models/chat"
)

var (
	ErrConversationNotFound = errors.New("conversation not found")
	ErrParticipantNotFound  = errors.New("participant not found")
)

// ConversationSummary is a conversation row joined with the requesting
// user's unread counter, for conversation lists.
type ConversationSummary struct {
	Conversation chat.Conversation `json:"conversation"`
	UnreadCount  int64             `json:"unreadCount"`
}

type ChatRepository interface {
	// Conversations
	CreateConversation(db *gorm.DB, conversation *chat.Conversation) error
	FindConversationByID(db *gorm.DB, id string) (*chat.Conversation, error)
	FindConversationByPairKey(db *gorm.DB, pairKey string) (*chat.Conversation, error)
	FindUserConversations(db *gorm.DB, userID string) ([]ConversationSummary, error)
	UpdateLastMessage(db *gorm.DB, conversationID, preview string, at time.Time) error

	// Participants / unread ledger
	IsParticipant(db *gorm.DB, conversationID, userID string) (bool, error)
	FindParticipant(db *gorm.DB, conversationID, userID string) (*chat.ConversationParticipant, error)
	IncrementUnread(db *gorm.DB, conversationID, userID string) error
	ResetUnread(db *gorm.DB, conversationID, userID string) error
	GetUnreadCount(db *gorm.DB, conversationID, userID string) (int64, error)
	GetTotalUnread(db *gorm.DB, userID string) (int64, error)

	// Messages
	CreateMessage(db *gorm.DB, message *chat.Message) error
	FindConversationMessages(db *gorm.DB, conversationID string) ([]chat.Message, error)
	MarkConversationRead(db *gorm.DB, conversationID, receiverID string) error
}

type ChatRepositoryImpl struct{}

func NewChatRepository() ChatRepository {
	return &ChatRepositoryImpl{}
}

// CreateConversation inserts the conversation row and its participant rows
// in one transaction, so the pair mapping never exists without both
// memberships. A concurrent insert for the same pair loses on the pair_key
// unique index; OnConflict DoNothing turns that into zero rows affected,
// reported as gorm.ErrDuplicatedKey so the caller can re-fetch by pair key.
func (r *ChatRepositoryImpl) CreateConversation(db *gorm.DB, conversation *chat.Conversation) error {
	return db.Transaction(func(tx *gorm.DB) error {
		result := tx.Omit(clause.Associations).
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(conversation)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrDuplicatedKey
		}

		for i := range conversation.Participants {
			conversation.Participants[i].ConversationID = conversation.ID
		}
		if len(conversation.Participants) > 0 {
			if err := tx.Create(&conversation.Participants).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *ChatRepositoryImpl) FindConversationByID(db *gorm.DB, id string) (*chat.Conversation, error) {
	var conversation chat.Conversation
	err := db.Preload("Participants").First(&conversation, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrConversationNotFound
		}
		return nil, err
	}
	return &conversation, nil
}

func (r *ChatRepositoryImpl) FindConversationByPairKey(db *gorm.DB, pairKey string) (*chat.Conversation, error) {
	var conversation chat.Conversation
	err := db.Preload("Participants").First(&conversation, "pair_key = ?", pairKey).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrConversationNotFound
		}
		return nil, err
	}
	return &conversation, nil
}

func (r *ChatRepositoryImpl) FindUserConversations(db *gorm.DB, userID string) ([]ConversationSummary, error) {
	var conversations []chat.Conversation
	err := db.
		Joins("JOIN conversation_participants cp ON cp.conversation_id = conversations.id").
		Where("cp.user_id = ?", userID).
		Preload("Participants").
		Order("conversations.last_message_at DESC NULLS LAST, conversations.created_at DESC").
		Find(&conversations).Error
	if err != nil {
		return nil, err
	}

	summaries := make([]ConversationSummary, 0, len(conversations))
	for _, c := range conversations {
		var unread int64
		if p := c.ParticipantFor(userID); p != nil {
			unread = p.UnreadCount
		}
		summaries = append(summaries, ConversationSummary{Conversation: c, UnreadCount: unread})
	}
	return summaries, nil
}

func (r *ChatRepositoryImpl) UpdateLastMessage(db *gorm.DB, conversationID, preview string, at time.Time) error {
	return db.Model(&chat.Conversation{}).
		Where("id = ?", conversationID).
		Updates(map[string]interface{}{
			"last_message_text": preview,
			"last_message_at":   at,
		}).Error
}

func (r *ChatRepositoryImpl) IsParticipant(db *gorm.DB, conversationID, userID string) (bool, error) {
	var count int64
	err := db.Model(&chat.ConversationParticipant{}).
		Where("conversation_id = ? AND user_id = ?", conversationID, userID).
		Count(&count).Error
	return count > 0, err
}

func (r *ChatRepositoryImpl) FindParticipant(db *gorm.DB, conversationID, userID string) (*chat.ConversationParticipant, error) {
	var participant chat.ConversationParticipant
	err := db.First(&participant, "conversation_id = ? AND user_id = ?", conversationID, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrParticipantNotFound
		}
		return nil, err
	}
	return &participant, nil
}

// IncrementUnread bumps the counter in SQL so concurrent messages never
// overwrite each other's updates.
func (r *ChatRepositoryImpl) IncrementUnread(db *gorm.DB, conversationID, userID string) error {
	result := db.Model(&chat.ConversationParticipant{}).
		Where("conversation_id = ? AND user_id = ?", conversationID, userID).
		UpdateColumn("unread_count", gorm.Expr("unread_count + ?", 1))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrParticipantNotFound
	}
	return nil
}

// ResetUnread sets the counter to zero unconditionally.
func (r *ChatRepositoryImpl) ResetUnread(db *gorm.DB, conversationID, userID string) error {
	return db.Model(&chat.ConversationParticipant{}).
		Where("conversation_id = ? AND user_id = ?", conversationID, userID).
		UpdateColumn("unread_count", 0).Error
}

func (r *ChatRepositoryImpl) GetUnreadCount(db *gorm.DB, conversationID, userID string) (int64, error) {
	participant, err := r.FindParticipant(db, conversationID, userID)
	if err != nil {
		return 0, err
	}
	return participant.UnreadCount, nil
}

func (r *ChatRepositoryImpl) GetTotalUnread(db *gorm.DB, userID string) (int64, error) {
	var total int64
	err := db.Model(&chat.ConversationParticipant{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(unread_count), 0)").
		Scan(&total).Error
	return total, err
}

func (r *ChatRepositoryImpl) CreateMessage(db *gorm.DB, message *chat.Message) error {
	return db.Create(message).Error
}

func (r *ChatRepositoryImpl) FindConversationMessages(db *gorm.DB, conversationID string) ([]chat.Message, error) {
	var messages []chat.Message
	err := db.Where("conversation_id = ?", conversationID).
		Order("created_at ASC").
		Find(&messages).Error
	return messages, err
}

// MarkConversationRead flips the read flag on every unread message addressed
// to receiverID. Messages the receiver sent are untouched.
func (r *ChatRepositoryImpl) MarkConversationRead(db *gorm.DB, conversationID, receiverID string) error {
	return db.Model(&chat.Message{}).
		Where("conversation_id = ? AND receiver_id = ? AND is_read = ?", conversationID, receiverID, false).
		Updates(map[string]interface{}{
			"is_read": true,
			"read_at": time.Now(),
		}).Error
}
