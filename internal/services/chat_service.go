package services

import (
	"strings"
	"time"

	"gorm.io/gorm"

	"fwork_backend/internal/logger"
	"fwork_backend/internal/models/chat"
	"fwork_backend/internal/repositories"
	"fwork_backend/internal/services/dto"
	"fwork_backend/pkg/apperrors"
)

const lastMessagePreviewLimit = 120

type ChatService interface {
	// GetOrCreateConversation returns the single conversation between the
	// two users, creating it on first contact. Safe under concurrent calls
	// for the same pair. The bool reports whether this call created it.
	GetOrCreateConversation(db *gorm.DB, userID string, req *dto.StartConversationRequest) (*dto.ConversationResponse, bool, error)

	// SendMessage stores the message, bumps the receiver's unread counter
	// and refreshes the conversation preview in one transaction.
	SendMessage(db *gorm.DB, senderID string, req *dto.SendMessageRequest) (*dto.MessageResponse, error)

	// GetConversationMessages returns the full history oldest-first and, in
	// the same transaction, marks the caller's incoming messages read and
	// resets their unread counter.
	GetConversationMessages(db *gorm.DB, conversationID, userID string) ([]*dto.MessageResponse, error)

	GetUserConversations(db *gorm.DB, userID string) (*dto.ConversationListResponse, error)
	GetUnreadCount(db *gorm.DB, conversationID, userID string) (int64, error)
	GetTotalUnread(db *gorm.DB, userID string) (int64, error)
}

type chatService struct {
	chatRepo            repositories.ChatRepository
	userRepo            repositories.UserRepository
	notificationService NotificationService
}

func NewChatService(
	chatRepo repositories.ChatRepository,
	userRepo repositories.UserRepository,
	notificationService NotificationService,
) ChatService {
	return &chatService{
		chatRepo:            chatRepo,
		userRepo:            userRepo,
		notificationService: notificationService,
	}
}

func (s *chatService) GetOrCreateConversation(db *gorm.DB, userID string, req *dto.StartConversationRequest) (*dto.ConversationResponse, bool, error) {
	if req.UserID == userID {
		return nil, false, apperrors.ErrSelfConversation
	}

	for _, id := range []string{userID, req.UserID} {
		exists, err := s.userRepo.Exists(db, id)
		if err != nil {
			return nil, false, apperrors.InternalError(err)
		}
		if !exists {
			return nil, false, apperrors.ErrInvalidOperation("chat", "Unknown conversation participant: "+id)
		}
	}

	pairKey := chat.PairKeyFor(userID, req.UserID)

	// Fast path: the pair already talked. The existing conversation wins
	// even when the new request carries a different project.
	conversation, err := s.chatRepo.FindConversationByPairKey(db, pairKey)
	if err == nil {
		return s.toConversationResponse(conversation, userID), false, nil
	}
	if err != repositories.ErrConversationNotFound {
		return nil, false, apperrors.InternalError(err)
	}

	conversation = &chat.Conversation{
		PairKey:   pairKey,
		ProjectID: req.ProjectID,
		Participants: []chat.ConversationParticipant{
			{UserID: userID},
			{UserID: req.UserID},
		},
	}

	err = s.chatRepo.CreateConversation(db, conversation)
	if err == gorm.ErrDuplicatedKey {
		// Lost the insert race; the winner's row is what we want.
		conversation, err = s.chatRepo.FindConversationByPairKey(db, pairKey)
		if err != nil {
			return nil, false, apperrors.InternalError(err)
		}
		return s.toConversationResponse(conversation, userID), false, nil
	}
	if err != nil {
		return nil, false, apperrors.InternalError(err)
	}

	return s.toConversationResponse(conversation, userID), true, nil
}

func (s *chatService) SendMessage(db *gorm.DB, senderID string, req *dto.SendMessageRequest) (*dto.MessageResponse, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, apperrors.ErrEmptyMessage
	}

	conversation, err := s.chatRepo.FindConversationByID(db, req.ConversationID)
	if err != nil {
		if err == repositories.ErrConversationNotFound {
			return nil, apperrors.ErrConversationNotFound
		}
		return nil, apperrors.InternalError(err)
	}

	sender := conversation.ParticipantFor(senderID)
	if sender == nil {
		return nil, apperrors.ErrConversationAccessDenied
	}
	receiver := conversation.OtherParticipant(senderID)
	if receiver == nil {
		return nil, apperrors.InternalError(repositories.ErrParticipantNotFound)
	}

	message := &chat.Message{
		ConversationID: conversation.ID,
		SenderID:       senderID,
		ReceiverID:     receiver.UserID,
		Content:        content,
	}

	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	if err := s.chatRepo.CreateMessage(tx, message); err != nil {
		return nil, apperrors.InternalError(err)
	}

	if err := s.chatRepo.IncrementUnread(tx, conversation.ID, receiver.UserID); err != nil {
		return nil, apperrors.InternalError(err)
	}

	if err := s.chatRepo.UpdateLastMessage(tx, conversation.ID, previewOf(content), time.Now()); err != nil {
		return nil, apperrors.InternalError(err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}

	go s.notifyNewMessage(db, senderID, receiver.UserID, conversation.ID)

	return toMessageResponse(message), nil
}

func (s *chatService) notifyNewMessage(db *gorm.DB, senderID, receiverID, conversationID string) {
	senderName := senderID
	if sender, err := s.userRepo.FindByID(db, senderID); err == nil {
		senderName = sender.Name
	}

	if err := s.notificationService.NotifyNewMessage(db, receiverID, senderName, conversationID); err != nil {
		logger.WithError(err).Warn("failed to notify about new message",
			"conversation_id", conversationID,
			"receiver_id", receiverID,
		)
	}
}

func (s *chatService) GetConversationMessages(db *gorm.DB, conversationID, userID string) ([]*dto.MessageResponse, error) {
	isParticipant, err := s.chatRepo.IsParticipant(db, conversationID, userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if !isParticipant {
		return nil, apperrors.ErrConversationAccessDenied
	}

	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	messages, err := s.chatRepo.FindConversationMessages(tx, conversationID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	if err := s.chatRepo.MarkConversationRead(tx, conversationID, userID); err != nil {
		return nil, apperrors.InternalError(err)
	}

	if err := s.chatRepo.ResetUnread(tx, conversationID, userID); err != nil {
		return nil, apperrors.InternalError(err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}

	now := time.Now()
	responses := make([]*dto.MessageResponse, 0, len(messages))
	for i := range messages {
		// Reflect the read flip we just committed.
		if messages[i].ReceiverID == userID && !messages[i].IsRead {
			messages[i].IsRead = true
			messages[i].ReadAt = &now
		}
		responses = append(responses, toMessageResponse(&messages[i]))
	}
	return responses, nil
}

func (s *chatService) GetUserConversations(db *gorm.DB, userID string) (*dto.ConversationListResponse, error) {
	summaries, err := s.chatRepo.FindUserConversations(db, userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	totalUnread, err := s.chatRepo.GetTotalUnread(db, userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	conversations := make([]*dto.ConversationResponse, 0, len(summaries))
	for i := range summaries {
		resp := s.toConversationResponse(&summaries[i].Conversation, userID)
		resp.UnreadCount = summaries[i].UnreadCount
		conversations = append(conversations, resp)
	}

	return &dto.ConversationListResponse{
		Conversations: conversations,
		TotalUnread:   totalUnread,
	}, nil
}

func (s *chatService) GetUnreadCount(db *gorm.DB, conversationID, userID string) (int64, error) {
	isParticipant, err := s.chatRepo.IsParticipant(db, conversationID, userID)
	if err != nil {
		return 0, apperrors.InternalError(err)
	}
	if !isParticipant {
		return 0, apperrors.ErrConversationAccessDenied
	}

	count, err := s.chatRepo.GetUnreadCount(db, conversationID, userID)
	if err != nil {
		return 0, apperrors.InternalError(err)
	}
	return count, nil
}

func (s *chatService) GetTotalUnread(db *gorm.DB, userID string) (int64, error) {
	total, err := s.chatRepo.GetTotalUnread(db, userID)
	if err != nil {
		return 0, apperrors.InternalError(err)
	}
	return total, nil
}

func (s *chatService) toConversationResponse(c *chat.Conversation, userID string) *dto.ConversationResponse {
	participantIDs := make([]string, 0, len(c.Participants))
	for i := range c.Participants {
		participantIDs = append(participantIDs, c.Participants[i].UserID)
	}

	var unread int64
	if p := c.ParticipantFor(userID); p != nil {
		unread = p.UnreadCount
	}

	return &dto.ConversationResponse{
		ID:              c.ID,
		ProjectID:       c.ProjectID,
		ParticipantIDs:  participantIDs,
		LastMessageText: c.LastMessageText,
		LastMessageAt:   c.LastMessageAt,
		UnreadCount:     unread,
		CreatedAt:       c.CreatedAt,
	}
}

func toMessageResponse(m *chat.Message) *dto.MessageResponse {
	return &dto.MessageResponse{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		SenderID:       m.SenderID,
		ReceiverID:     m.ReceiverID,
		Content:        m.Content,
		IsRead:         m.IsRead,
		ReadAt:         m.ReadAt,
		CreatedAt:      m.CreatedAt,
	}
}

func previewOf(content string) string {
	runes := []rune(content)
	if len(runes) <= lastMessagePreviewLimit {
		return content
	}
	return string(runes[:lastMessagePreviewLimit]) + "…"
}
