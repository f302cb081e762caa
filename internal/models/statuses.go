package models

type UserRole string
type ProjectStatus string
type ApplicationStatus string
type NotificationType string

const (
	UserRoleFreelance UserRole = "freelance"
	UserRoleCompany   UserRole = "company"
	UserRoleAdmin     UserRole = "admin"

	ProjectStatusOpen       ProjectStatus = "open"
	ProjectStatusInProgress ProjectStatus = "in_progress"
	ProjectStatusCompleted  ProjectStatus = "completed"
	ProjectStatusCancelled  ProjectStatus = "cancelled"

	ApplicationStatusPending  ApplicationStatus = "pending"
	ApplicationStatusAccepted ApplicationStatus = "accepted"
	ApplicationStatusRejected ApplicationStatus = "rejected"

	NotificationTypeMessage     NotificationType = "message"
	NotificationTypeApplication NotificationType = "application"
	NotificationTypeProject     NotificationType = "project"
	NotificationTypeReview      NotificationType = "review"
	NotificationTypeInvitation  NotificationType = "invitation"
	NotificationTypeSystem      NotificationType = "system"
)
