package handlers

import (
	"fwork_backend/internal/services"
	"fwork_backend/internal/validator"
)

// AppHandlers collects every HTTP handler group. Built once at startup
// and handed to the router.
type AppHandlers struct {
	Auth          *AuthHandler
	Projects      *ProjectHandler
	Applications  *ApplicationHandler
	Chat          *ChatHandler
	Notifications *NotificationHandler
}

func NewAppHandlers(sc *services.ServiceContainer, v *validator.Validator) *AppHandlers {
	base := NewBaseHandler(v)

	return &AppHandlers{
		Auth:          NewAuthHandler(base, sc.AuthService),
		Projects:      NewProjectHandler(base, sc.ProjectService),
		Applications:  NewApplicationHandler(base, sc.ApplicationService),
		Chat:          NewChatHandler(base, sc.ChatService),
		Notifications: NewNotificationHandler(base, sc.NotificationService),
	}
}
