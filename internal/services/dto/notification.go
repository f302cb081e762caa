package dto

import (
	"time"

	"fwork_backend/internal/models"
)

type MarkMultipleReadRequest struct {
	NotificationIDs []string `json:"notificationIds" validate:"required,min=1"`
}

type UpdatePreferencesRequest struct {
	EmailEnabled      *bool   `json:"emailEnabled,omitempty"`
	EmailMessages     *bool   `json:"emailMessages,omitempty"`
	EmailApplications *bool   `json:"emailApplications,omitempty"`
	EmailProjects     *bool   `json:"emailProjects,omitempty"`
	EmailReviews      *bool   `json:"emailReviews,omitempty"`
	EmailMarketing    *bool   `json:"emailMarketing,omitempty"`
	InAppEnabled      *bool   `json:"inAppEnabled,omitempty"`
	Digest            *string `json:"digest,omitempty" validate:"omitempty,oneof=instant daily"`
}

type NotificationResponse struct {
	ID        string                  `json:"id"`
	UserID    string                  `json:"userId"`
	Type      models.NotificationType `json:"type"`
	Title     string                  `json:"title"`
	Message   string                  `json:"message"`
	Link      *string                 `json:"link,omitempty"`
	Data      map[string]interface{}  `json:"data,omitempty"`
	IsRead    bool                    `json:"isRead"`
	ReadAt    *time.Time              `json:"readAt,omitempty"`
	EmailSent bool                    `json:"emailSent"`
	CreatedAt time.Time               `json:"createdAt"`
}

type NotificationListResponse struct {
	Notifications []*NotificationResponse `json:"notifications"`
	Total         int64                   `json:"total"`
	UnreadCount   int64                   `json:"unreadCount"`
	Page          int                     `json:"page"`
	PageSize      int                     `json:"pageSize"`
}
