package services

import (
	"gorm.io/gorm"

	"fwork_backend/internal/logger"
	"fwork_backend/internal/models"
	"fwork_backend/internal/repositories"
	"fwork_backend/internal/services/dto"
	"fwork_backend/pkg/apperrors"
)

type ApplicationService interface {
	// CreateApplication files a pending application. One per
	// (project, freelance), and only while the project is open.
	CreateApplication(db *gorm.DB, freelanceID, projectID string, req *dto.CreateApplicationRequest) (*dto.ApplicationResponse, error)

	// RespondToApplication decides a pending application. Accepting also
	// moves the project to in_progress, records the winner and rejects all
	// other pending applications, atomically.
	RespondToApplication(db *gorm.DB, companyID, applicationID string, req *dto.RespondToApplicationRequest) (*dto.ApplicationResponse, error)

	GetApplication(db *gorm.DB, callerID, applicationID string) (*dto.ApplicationResponse, error)
	GetProjectApplications(db *gorm.DB, companyID, projectID string) ([]*dto.ApplicationResponse, error)
	GetMyApplications(db *gorm.DB, freelanceID string) ([]*dto.ApplicationResponse, error)
}

type applicationService struct {
	applicationRepo     repositories.ApplicationRepository
	projectRepo         repositories.ProjectRepository
	userRepo            repositories.UserRepository
	notificationService NotificationService
}

func NewApplicationService(
	applicationRepo repositories.ApplicationRepository,
	projectRepo repositories.ProjectRepository,
	userRepo repositories.UserRepository,
	notificationService NotificationService,
) ApplicationService {
	return &applicationService{
		applicationRepo:     applicationRepo,
		projectRepo:         projectRepo,
		userRepo:            userRepo,
		notificationService: notificationService,
	}
}

func (s *applicationService) CreateApplication(db *gorm.DB, freelanceID, projectID string, req *dto.CreateApplicationRequest) (*dto.ApplicationResponse, error) {
	project, err := s.projectRepo.FindByID(db, projectID)
	if err != nil {
		if err == repositories.ErrProjectNotFound {
			return nil, apperrors.ErrProjectNotFound
		}
		return nil, apperrors.InternalError(err)
	}

	if project.CompanyID == freelanceID {
		return nil, apperrors.ErrOwnProjectApplication
	}
	if project.Status != models.ProjectStatusOpen {
		return nil, apperrors.ErrProjectNotOpen
	}

	if _, err := s.applicationRepo.FindByProjectAndFreelance(db, projectID, freelanceID); err == nil {
		return nil, apperrors.ErrApplicationExists
	} else if err != repositories.ErrApplicationNotFound {
		return nil, apperrors.InternalError(err)
	}

	application := &models.ProjectApplication{
		ProjectID:    projectID,
		FreelanceID:  freelanceID,
		Status:       models.ApplicationStatusPending,
		ProposedRate: req.ProposedRate,
		Duration:     req.Duration,
		CoverLetter:  req.CoverLetter,
	}

	if err := s.applicationRepo.Create(db, application); err != nil {
		// The unique index backs the pre-check under concurrency.
		return nil, apperrors.ErrApplicationExists.WithError(err)
	}

	go s.notifyNewApplication(db, project, application)

	return dto.NewApplicationResponse(application), nil
}

func (s *applicationService) notifyNewApplication(db *gorm.DB, project *models.Project, application *models.ProjectApplication) {
	freelanceName := application.FreelanceID
	if freelance, err := s.userRepo.FindByID(db, application.FreelanceID); err == nil {
		freelanceName = freelance.Name
	}

	err := s.notificationService.NotifyNewApplication(db,
		project.CompanyID, freelanceName, project.ID, project.Title, application.ID)
	if err != nil {
		logger.WithError(err).Warn("failed to notify about new application",
			"application_id", application.ID,
			"project_id", project.ID,
		)
	}
}

func (s *applicationService) RespondToApplication(db *gorm.DB, companyID, applicationID string, req *dto.RespondToApplicationRequest) (*dto.ApplicationResponse, error) {
	decision := models.ApplicationStatus(req.Decision)
	if decision != models.ApplicationStatusAccepted && decision != models.ApplicationStatusRejected {
		return nil, apperrors.ErrInvalidDecision
	}

	application, err := s.applicationRepo.FindByID(db, applicationID)
	if err != nil {
		if err == repositories.ErrApplicationNotFound {
			return nil, apperrors.ErrApplicationNotFound
		}
		return nil, apperrors.InternalError(err)
	}

	project := application.Project
	if project == nil {
		return nil, apperrors.InternalError(repositories.ErrProjectNotFound)
	}
	if project.CompanyID != companyID {
		return nil, apperrors.NewForbiddenError("Only the project owner can respond to applications")
	}
	if application.Status != models.ApplicationStatusPending {
		return nil, apperrors.ErrApplicationDecided
	}

	if decision == models.ApplicationStatusRejected {
		return s.reject(db, application, project)
	}
	return s.accept(db, application, project)
}

func (s *applicationService) reject(db *gorm.DB, application *models.ProjectApplication, project *models.Project) (*dto.ApplicationResponse, error) {
	rows, err := s.applicationRepo.UpdateStatusIfPending(db, application.ID, models.ApplicationStatusRejected)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if rows == 0 {
		// Decided by a concurrent request after our read.
		return nil, apperrors.ErrApplicationDecided
	}

	go func() {
		err := s.notificationService.NotifyApplicationStatus(db,
			application.FreelanceID, project.ID, project.Title,
			models.ApplicationStatusRejected)
		if err != nil {
			logger.WithError(err).Warn("failed to notify rejected applicant",
				"application_id", application.ID)
		}
	}()

	updated, err := s.applicationRepo.FindByID(db, application.ID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return dto.NewApplicationResponse(updated), nil
}

// accept runs the whole cascade in one transaction: decide the application,
// close the project to new applicants and auto-reject the rest. Either all
// of it lands or none of it does.
func (s *applicationService) accept(db *gorm.DB, application *models.ProjectApplication, project *models.Project) (*dto.ApplicationResponse, error) {
	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	rows, err := s.applicationRepo.UpdateStatusIfPending(tx, application.ID, models.ApplicationStatusAccepted)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if rows == 0 {
		return nil, apperrors.ErrApplicationDecided
	}

	rows, err = s.projectRepo.AcceptFreelance(tx, project.ID, application.FreelanceID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if rows == 0 {
		// Someone else accepted first; the deferred rollback undoes the
		// application update above.
		return nil, apperrors.ErrConflict(nil, "project", "Project already has an accepted application")
	}

	siblings, err := s.applicationRepo.FindPendingSiblings(tx, project.ID, application.ID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if _, err := s.applicationRepo.RejectPendingSiblings(tx, project.ID, application.ID); err != nil {
		return nil, apperrors.InternalError(err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}

	go s.notifyAcceptOutcome(db, application, project, siblings)

	updated, err := s.applicationRepo.FindByID(db, application.ID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return dto.NewApplicationResponse(updated), nil
}

func (s *applicationService) notifyAcceptOutcome(db *gorm.DB, accepted *models.ProjectApplication, project *models.Project, rejected []models.ProjectApplication) {
	err := s.notificationService.NotifyApplicationStatus(db,
		accepted.FreelanceID, project.ID, project.Title,
		models.ApplicationStatusAccepted)
	if err != nil {
		logger.WithError(err).Warn("failed to notify accepted applicant",
			"application_id", accepted.ID)
	}

	// Auto-rejected candidates get an in-app notification each, no email.
	freelanceIDs := make([]string, 0, len(rejected))
	for i := range rejected {
		freelanceIDs = append(freelanceIDs, rejected[i].FreelanceID)
	}
	if err := s.notificationService.NotifyApplicationsRejected(db, freelanceIDs, project.ID, project.Title); err != nil {
		logger.WithError(err).Warn("failed to notify auto-rejected applicants",
			"project_id", project.ID,
			"count", len(freelanceIDs),
		)
	}
}

func (s *applicationService) GetApplication(db *gorm.DB, callerID, applicationID string) (*dto.ApplicationResponse, error) {
	application, err := s.applicationRepo.FindByID(db, applicationID)
	if err != nil {
		if err == repositories.ErrApplicationNotFound {
			return nil, apperrors.ErrApplicationNotFound
		}
		return nil, apperrors.InternalError(err)
	}

	isOwner := application.Project != nil && application.Project.CompanyID == callerID
	if application.FreelanceID != callerID && !isOwner {
		return nil, apperrors.NewForbiddenError("Access to application denied")
	}

	return dto.NewApplicationResponse(application), nil
}

func (s *applicationService) GetProjectApplications(db *gorm.DB, companyID, projectID string) ([]*dto.ApplicationResponse, error) {
	project, err := s.projectRepo.FindByID(db, projectID)
	if err != nil {
		if err == repositories.ErrProjectNotFound {
			return nil, apperrors.ErrProjectNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	if project.CompanyID != companyID {
		return nil, apperrors.NewForbiddenError("Only the project owner can list applications")
	}

	applications, err := s.applicationRepo.FindByProject(db, projectID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	responses := make([]*dto.ApplicationResponse, 0, len(applications))
	for i := range applications {
		responses = append(responses, dto.NewApplicationResponse(&applications[i]))
	}
	return responses, nil
}

func (s *applicationService) GetMyApplications(db *gorm.DB, freelanceID string) ([]*dto.ApplicationResponse, error) {
	applications, err := s.applicationRepo.FindByFreelance(db, freelanceID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	responses := make([]*dto.ApplicationResponse, 0, len(applications))
	for i := range applications {
		responses = append(responses, dto.NewApplicationResponse(&applications[i]))
	}
	return responses, nil
}
