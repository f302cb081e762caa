package services

import (
	"fmt"

	"gorm.io/gorm"

	"fwork_backend/internal/email"
	"fwork_backend/internal/models"
)

// Prebuilt dispatch shapes for the events the rest of the service layer
// raises. Callers treat failures as log-only; a lost notification never
// rolls back the operation that caused it.

func (s *notificationService) NotifyNewMessage(db *gorm.DB, recipientID, senderName, conversationID string) error {
	link := "/conversations/" + conversationID
	_, err := s.Dispatch(db, DispatchInput{
		UserID:  recipientID,
		Type:    models.NotificationTypeMessage,
		Title:   "New message",
		Message: fmt.Sprintf("You have a new message from %s", senderName),
		Link:    &link,
		Data: map[string]interface{}{
			"conversationId": conversationID,
			"sender":         senderName,
		},
		Email: &EmailPayload{
			Subject:  "New message on FWork",
			Template: "new_message",
			Data: email.TemplateData{
				"SenderName": senderName,
				"ActionURL":  link,
			},
		},
	})
	return err
}

func (s *notificationService) NotifyNewApplication(db *gorm.DB, companyID, freelanceName, projectID, projectTitle, applicationID string) error {
	link := "/projects/" + projectID + "/applications"
	_, err := s.Dispatch(db, DispatchInput{
		UserID:  companyID,
		Type:    models.NotificationTypeApplication,
		Title:   "New application",
		Message: fmt.Sprintf("%s applied to your project '%s'", freelanceName, projectTitle),
		Link:    &link,
		Data: map[string]interface{}{
			"projectId":     projectID,
			"applicationId": applicationID,
		},
		Email: &EmailPayload{
			Subject:  "New application for " + projectTitle,
			Template: "new_application",
			Data: email.TemplateData{
				"FreelanceName": freelanceName,
				"ProjectTitle":  projectTitle,
				"ActionURL":     link,
			},
		},
	})
	return err
}

// NotifyApplicationStatus tells a freelance their application was decided,
// with the email leg. Bulk auto-rejects go through
// NotifyApplicationsRejected instead, which stays in-app only.
func (s *notificationService) NotifyApplicationStatus(db *gorm.DB, freelanceID, projectID, projectTitle string, status models.ApplicationStatus) error {
	var title, message string
	switch status {
	case models.ApplicationStatusAccepted:
		title = "Application accepted"
		message = fmt.Sprintf("Your application for '%s' was accepted", projectTitle)
	default:
		title = "Application rejected"
		message = fmt.Sprintf("Your application for '%s' was rejected", projectTitle)
	}

	link := "/projects/" + projectID
	in := DispatchInput{
		UserID:  freelanceID,
		Type:    models.NotificationTypeApplication,
		Title:   title,
		Message: message,
		Link:    &link,
		Data: map[string]interface{}{
			"projectId": projectID,
			"status":    string(status),
		},
	}
	in.Email = &EmailPayload{
		Subject:  title,
		Template: "application_status",
		Data: email.TemplateData{
			"ProjectTitle": projectTitle,
			"Status":       string(status),
			"ActionURL":    link,
		},
	}

	_, err := s.Dispatch(db, in)
	return err
}

// NotifyApplicationsRejected stores one in-app notification per auto-rejected
// candidate in a single batch insert. No email leg.
func (s *notificationService) NotifyApplicationsRejected(db *gorm.DB, freelanceIDs []string, projectID, projectTitle string) error {
	if len(freelanceIDs) == 0 {
		return nil
	}

	link := "/projects/" + projectID
	message := fmt.Sprintf("Your application for '%s' was rejected", projectTitle)

	notifications := make([]*models.Notification, 0, len(freelanceIDs))
	for _, freelanceID := range freelanceIDs {
		notifications = append(notifications, &models.Notification{
			UserID:  freelanceID,
			Type:    models.NotificationTypeApplication,
			Title:   "Application rejected",
			Message: message,
			Link:    &link,
		})
	}

	return s.notificationRepo.CreateBulkNotifications(db, notifications)
}

func (s *notificationService) NotifyProjectStatus(db *gorm.DB, userID, projectID, projectTitle string, status models.ProjectStatus) error {
	link := "/projects/" + projectID
	_, err := s.Dispatch(db, DispatchInput{
		UserID:  userID,
		Type:    models.NotificationTypeProject,
		Title:   "Project update",
		Message: fmt.Sprintf("Project '%s' is now %s", projectTitle, status),
		Link:    &link,
		Data: map[string]interface{}{
			"projectId": projectID,
			"status":    string(status),
		},
		Email: &EmailPayload{
			Subject:  "Project update: " + projectTitle,
			Template: "generic",
			Data: email.TemplateData{
				"Title":     "Project update",
				"Message":   fmt.Sprintf("Project '%s' is now %s.", projectTitle, status),
				"ActionURL": link,
			},
		},
	})
	return err
}
