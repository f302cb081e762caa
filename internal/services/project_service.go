package services

import (
	"gorm.io/gorm"

	"fwork_backend/internal/logger"
	"fwork_backend/internal/models"
	"fwork_backend/internal/repositories"
	"fwork_backend/internal/services/dto"
	"fwork_backend/pkg/apperrors"
)

type ProjectService interface {
	CreateProject(db *gorm.DB, companyID string, req *dto.CreateProjectRequest) (*dto.ProjectResponse, error)
	GetProject(db *gorm.DB, projectID string) (*dto.ProjectResponse, error)
	GetCompanyProjects(db *gorm.DB, companyID string) ([]*dto.ProjectResponse, error)

	// UpdateProjectStatus lets the owner close out a project: open projects
	// can be cancelled, in-progress projects completed or cancelled.
	UpdateProjectStatus(db *gorm.DB, companyID, projectID string, req *dto.UpdateProjectStatusRequest) (*dto.ProjectResponse, error)
}

type projectService struct {
	projectRepo         repositories.ProjectRepository
	notificationService NotificationService
}

func NewProjectService(projectRepo repositories.ProjectRepository, notificationService NotificationService) ProjectService {
	return &projectService{
		projectRepo:         projectRepo,
		notificationService: notificationService,
	}
}

func (s *projectService) CreateProject(db *gorm.DB, companyID string, req *dto.CreateProjectRequest) (*dto.ProjectResponse, error) {
	project := &models.Project{
		CompanyID:   companyID,
		Title:       req.Title,
		Description: req.Description,
		Budget:      req.Budget,
		Status:      models.ProjectStatusOpen,
	}

	if err := s.projectRepo.Create(db, project); err != nil {
		return nil, apperrors.InternalError(err)
	}

	return dto.NewProjectResponse(project), nil
}

func (s *projectService) GetProject(db *gorm.DB, projectID string) (*dto.ProjectResponse, error) {
	project, err := s.projectRepo.FindByID(db, projectID)
	if err != nil {
		if err == repositories.ErrProjectNotFound {
			return nil, apperrors.ErrProjectNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	return dto.NewProjectResponse(project), nil
}

func (s *projectService) GetCompanyProjects(db *gorm.DB, companyID string) ([]*dto.ProjectResponse, error) {
	projects, err := s.projectRepo.FindByCompany(db, companyID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	responses := make([]*dto.ProjectResponse, 0, len(projects))
	for i := range projects {
		responses = append(responses, dto.NewProjectResponse(&projects[i]))
	}
	return responses, nil
}

func (s *projectService) UpdateProjectStatus(db *gorm.DB, companyID, projectID string, req *dto.UpdateProjectStatusRequest) (*dto.ProjectResponse, error) {
	project, err := s.projectRepo.FindByID(db, projectID)
	if err != nil {
		if err == repositories.ErrProjectNotFound {
			return nil, apperrors.ErrProjectNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	if project.CompanyID != companyID {
		return nil, apperrors.NewForbiddenError("Only the project owner can change its status")
	}

	target := models.ProjectStatus(req.Status)
	if !statusTransitionAllowed(project.Status, target) {
		return nil, apperrors.ErrInvalidStatus("project",
			"Cannot move project from "+string(project.Status)+" to "+string(target))
	}

	if err := s.projectRepo.UpdateStatus(db, projectID, target); err != nil {
		return nil, apperrors.InternalError(err)
	}
	project.Status = target

	if project.AcceptedFreelanceID != nil {
		go s.notifyProjectStatus(db, *project.AcceptedFreelanceID, project)
	}

	return dto.NewProjectResponse(project), nil
}

// Accepting an application is the only way into in_progress; it happens in
// the application accept transaction, not here.
func statusTransitionAllowed(from, to models.ProjectStatus) bool {
	switch from {
	case models.ProjectStatusOpen:
		return to == models.ProjectStatusCancelled
	case models.ProjectStatusInProgress:
		return to == models.ProjectStatusCompleted || to == models.ProjectStatusCancelled
	default:
		return false
	}
}

func (s *projectService) notifyProjectStatus(db *gorm.DB, freelanceID string, project *models.Project) {
	err := s.notificationService.NotifyProjectStatus(db, freelanceID, project.ID, project.Title, project.Status)
	if err != nil {
		logger.WithError(err).Warn("failed to notify about project status",
			"project_id", project.ID,
			"status", string(project.Status),
		)
	}
}
