package services

import (
	"encoding/json"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"fwork_backend/internal/email"
	"fwork_backend/internal/logger"
	"fwork_backend/internal/models"
	"fwork_backend/internal/repositories"
	"fwork_backend/internal/services/dto"
	"fwork_backend/internal/workers"
	"fwork_backend/pkg/apperrors"
)

// EmailPayload describes the optional email leg of a dispatch.
type EmailPayload struct {
	To       string
	Subject  string
	Template string
	Data     email.TemplateData
}

// DispatchInput is one notification to deliver.
type DispatchInput struct {
	UserID  string
	Type    models.NotificationType
	Title   string
	Message string
	Link    *string
	Data    map[string]interface{}
	Email   *EmailPayload
}

type NotificationService interface {
	// Dispatch persists the in-app notification, then queues the email leg
	// when the recipient's preferences allow it. Only the persist step can
	// fail the call.
	Dispatch(db *gorm.DB, in DispatchInput) (*models.Notification, error)

	GetUserNotifications(db *gorm.DB, userID string, criteria repositories.NotificationCriteria) (*dto.NotificationListResponse, error)
	MarkAsRead(db *gorm.DB, userID, notificationID string) error
	MarkAllAsRead(db *gorm.DB, userID string) error
	MarkMultipleAsRead(db *gorm.DB, userID string, notificationIDs []string) error
	DeleteNotification(db *gorm.DB, userID, notificationID string) error
	GetUnreadCount(db *gorm.DB, userID string) (int64, error)

	GetPreferences(db *gorm.DB, userID string) (*models.NotificationPreference, error)
	UpdatePreferences(db *gorm.DB, userID string, req *dto.UpdatePreferencesRequest) (*models.NotificationPreference, error)

	// Event notifiers, see notifiers.go.
	NotifyNewMessage(db *gorm.DB, recipientID, senderName, conversationID string) error
	NotifyNewApplication(db *gorm.DB, companyID, freelanceName, projectID, projectTitle, applicationID string) error
	NotifyApplicationStatus(db *gorm.DB, freelanceID, projectID, projectTitle string, status models.ApplicationStatus) error
	NotifyApplicationsRejected(db *gorm.DB, freelanceIDs []string, projectID, projectTitle string) error
	NotifyProjectStatus(db *gorm.DB, userID, projectID, projectTitle string, status models.ProjectStatus) error
}

type notificationService struct {
	notificationRepo repositories.NotificationRepository
	preferenceRepo   repositories.PreferenceRepository
	userRepo         repositories.UserRepository
	emailQueue       workers.EmailQueue
}

// NewNotificationService wires the dispatcher. emailQueue may be nil; the
// email leg is then skipped entirely.
func NewNotificationService(
	notificationRepo repositories.NotificationRepository,
	preferenceRepo repositories.PreferenceRepository,
	userRepo repositories.UserRepository,
	emailQueue workers.EmailQueue,
) NotificationService {
	return &notificationService{
		notificationRepo: notificationRepo,
		preferenceRepo:   preferenceRepo,
		userRepo:         userRepo,
		emailQueue:       emailQueue,
	}
}

func (s *notificationService) Dispatch(db *gorm.DB, in DispatchInput) (*models.Notification, error) {
	notification := &models.Notification{
		UserID:  in.UserID,
		Type:    in.Type,
		Title:   in.Title,
		Message: in.Message,
		Link:    in.Link,
	}

	if in.Data != nil {
		raw, err := json.Marshal(in.Data)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		notification.Data = datatypes.JSON(raw)
	}

	// The stored row is the contract; everything after this is best-effort.
	if err := s.notificationRepo.CreateNotification(db, notification); err != nil {
		return nil, apperrors.InternalError(err)
	}

	s.sendEmailLeg(db, notification, in.Email)

	return notification, nil
}

func (s *notificationService) sendEmailLeg(db *gorm.DB, notification *models.Notification, payload *EmailPayload) {
	if payload == nil || s.emailQueue == nil {
		return
	}

	pref, err := s.preferenceRepo.FindOrCreate(db, notification.UserID)
	if err != nil {
		logger.WithError(err).Warn("failed to load notification preferences, skipping email",
			"user_id", notification.UserID)
		return
	}
	if !pref.EmailAllowedFor(notification.Type) {
		return
	}

	to := payload.To
	if to == "" {
		user, err := s.userRepo.FindByID(db, notification.UserID)
		if err != nil {
			logger.WithError(err).Warn("failed to resolve recipient email, skipping email",
				"user_id", notification.UserID)
			return
		}
		to = user.Email
	}

	s.emailQueue.Enqueue(workers.EmailJob{
		NotificationID: notification.ID,
		To:             to,
		Subject:        payload.Subject,
		Template:       payload.Template,
		Data:           payload.Data,
	})
}

func (s *notificationService) GetUserNotifications(db *gorm.DB, userID string, criteria repositories.NotificationCriteria) (*dto.NotificationListResponse, error) {
	if criteria.Page < 1 {
		criteria.Page = 1
	}
	if criteria.PageSize < 1 || criteria.PageSize > 100 {
		criteria.PageSize = 20
	}

	notifications, total, err := s.notificationRepo.FindUserNotifications(db, userID, criteria)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	unread, err := s.notificationRepo.GetUnreadCount(db, userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	responses := make([]*dto.NotificationResponse, 0, len(notifications))
	for i := range notifications {
		responses = append(responses, toNotificationResponse(&notifications[i]))
	}

	return &dto.NotificationListResponse{
		Notifications: responses,
		Total:         total,
		UnreadCount:   unread,
		Page:          criteria.Page,
		PageSize:      criteria.PageSize,
	}, nil
}

func (s *notificationService) MarkAsRead(db *gorm.DB, userID, notificationID string) error {
	if err := s.authorize(db, userID, notificationID); err != nil {
		return err
	}
	if err := s.notificationRepo.MarkAsRead(db, notificationID); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *notificationService) MarkAllAsRead(db *gorm.DB, userID string) error {
	if err := s.notificationRepo.MarkAllAsRead(db, userID); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *notificationService) MarkMultipleAsRead(db *gorm.DB, userID string, notificationIDs []string) error {
	for _, id := range notificationIDs {
		if err := s.authorize(db, userID, id); err != nil {
			return err
		}
	}
	if err := s.notificationRepo.MarkMultipleAsRead(db, notificationIDs); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *notificationService) DeleteNotification(db *gorm.DB, userID, notificationID string) error {
	if err := s.authorize(db, userID, notificationID); err != nil {
		return err
	}
	if err := s.notificationRepo.DeleteNotification(db, notificationID); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *notificationService) GetUnreadCount(db *gorm.DB, userID string) (int64, error) {
	count, err := s.notificationRepo.GetUnreadCount(db, userID)
	if err != nil {
		return 0, apperrors.InternalError(err)
	}
	return count, nil
}

func (s *notificationService) GetPreferences(db *gorm.DB, userID string) (*models.NotificationPreference, error) {
	pref, err := s.preferenceRepo.FindOrCreate(db, userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return pref, nil
}

func (s *notificationService) UpdatePreferences(db *gorm.DB, userID string, req *dto.UpdatePreferencesRequest) (*models.NotificationPreference, error) {
	pref, err := s.preferenceRepo.FindOrCreate(db, userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	if req.EmailEnabled != nil {
		pref.EmailEnabled = *req.EmailEnabled
	}
	if req.EmailMessages != nil {
		pref.EmailMessages = *req.EmailMessages
	}
	if req.EmailApplications != nil {
		pref.EmailApplications = *req.EmailApplications
	}
	if req.EmailProjects != nil {
		pref.EmailProjects = *req.EmailProjects
	}
	if req.EmailReviews != nil {
		pref.EmailReviews = *req.EmailReviews
	}
	if req.EmailMarketing != nil {
		pref.EmailMarketing = *req.EmailMarketing
	}
	if req.InAppEnabled != nil {
		pref.InAppEnabled = *req.InAppEnabled
	}
	if req.Digest != nil {
		pref.Digest = *req.Digest
	}

	if err := s.preferenceRepo.Update(db, pref); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return pref, nil
}

func (s *notificationService) authorize(db *gorm.DB, userID, notificationID string) error {
	notification, err := s.notificationRepo.FindNotificationByID(db, notificationID)
	if err != nil {
		if err == repositories.ErrNotificationNotFound {
			return apperrors.ErrNotificationNotFound
		}
		return apperrors.InternalError(err)
	}
	if notification.UserID != userID {
		return apperrors.ErrNotificationAccessDenied
	}
	return nil
}

func toNotificationResponse(n *models.Notification) *dto.NotificationResponse {
	resp := &dto.NotificationResponse{
		ID:        n.ID,
		UserID:    n.UserID,
		Type:      n.Type,
		Title:     n.Title,
		Message:   n.Message,
		Link:      n.Link,
		IsRead:    n.IsRead,
		ReadAt:    n.ReadAt,
		EmailSent: n.EmailSent,
		CreatedAt: n.CreatedAt,
	}

	if len(n.Data) > 0 {
		var data map[string]interface{}
		if err := json.Unmarshal(n.Data, &data); err == nil {
			resp.Data = data
		}
	}

	return resp
}
