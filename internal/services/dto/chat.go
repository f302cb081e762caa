package dto

import "time"

// Requests

type StartConversationRequest struct {
	UserID    string  `json:"userId" validate:"required"`
	ProjectID *string `json:"projectId,omitempty"`
}

type SendMessageRequest struct {
	ConversationID string `json:"conversationId" validate:"required"`
	Content        string `json:"content" validate:"required,max=5000"`
}

// Responses

type ConversationResponse struct {
	ID              string     `json:"id"`
	ProjectID       *string    `json:"projectId,omitempty"`
	ParticipantIDs  []string   `json:"participantIds"`
	LastMessageText string     `json:"lastMessageText,omitempty"`
	LastMessageAt   *time.Time `json:"lastMessageAt,omitempty"`
	UnreadCount     int64      `json:"unreadCount"`
	CreatedAt       time.Time  `json:"createdAt"`
}

type MessageResponse struct {
	ID             string     `json:"id"`
	ConversationID string     `json:"conversationId"`
	SenderID       string     `json:"senderId"`
	ReceiverID     string     `json:"receiverId"`
	Content        string     `json:"content"`
	IsRead         bool       `json:"isRead"`
	ReadAt         *time.Time `json:"readAt,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
}

type ConversationListResponse struct {
	Conversations []*ConversationResponse `json:"conversations"`
	TotalUnread   int64                   `json:"totalUnread"`
}
