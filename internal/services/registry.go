package services

import (
	"fwork_backend/internal/email"
)

// ServiceContainer holds all application services.
type ServiceContainer struct {
	AuthService         AuthService
	ProjectService      ProjectService
	ApplicationService  ApplicationService
	ChatService         ChatService
	NotificationService NotificationService
	EmailProvider       email.Provider
}
