package validator

import (
	"log"

	"github.com/go-playground/validator/v10"

	"fwork_backend/internal/models"
)

// registerCustomRules installs the domain status rules. Empty values pass;
// combine with 'required' where the field is mandatory.
func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	mustRegister("is-user-role", validateUserRole)
	mustRegister("is-project-status", validateProjectStatus)
	mustRegister("is-application-decision", validateApplicationDecision)
	mustRegister("is-notification-type", validateNotificationType)
}

func validateUserRole(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	switch models.UserRole(value) {
	case models.UserRoleFreelance, models.UserRoleCompany, models.UserRoleAdmin:
		return true
	default:
		return false
	}
}

func validateProjectStatus(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	switch models.ProjectStatus(value) {
	case models.ProjectStatusOpen, models.ProjectStatusInProgress, models.ProjectStatusCompleted, models.ProjectStatusCancelled:
		return true
	default:
		return false
	}
}

// Only the two terminal decisions are accepted from clients; pending is the
// initial state and never a decision.
func validateApplicationDecision(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	switch models.ApplicationStatus(value) {
	case models.ApplicationStatusAccepted, models.ApplicationStatusRejected:
		return true
	default:
		return false
	}
}

func validateNotificationType(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	switch models.NotificationType(value) {
	case models.NotificationTypeMessage, models.NotificationTypeApplication,
		models.NotificationTypeProject, models.NotificationTypeReview,
		models.NotificationTypeInvitation, models.NotificationTypeSystem:
		return true
	default:
		return false
	}
}
