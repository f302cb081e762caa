package repositories

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"fwork_backend/internal/models"
)

var ErrApplicationNotFound = errors.New("application not found")

type ApplicationRepository interface {
	Create(db *gorm.DB, application *models.ProjectApplication) error
	FindByID(db *gorm.DB, id string) (*models.ProjectApplication, error)
	FindByProjectAndFreelance(db *gorm.DB, projectID, freelanceID string) (*models.ProjectApplication, error)
	FindByProject(db *gorm.DB, projectID string) ([]models.ProjectApplication, error)
	FindByFreelance(db *gorm.DB, freelanceID string) ([]models.ProjectApplication, error)
	FindPendingSiblings(db *gorm.DB, projectID, excludeApplicationID string) ([]models.ProjectApplication, error)
	// UpdateStatusIfPending is the status-guarded transition out of pending.
	// Returns rows changed; 0 means the application was already decided.
	UpdateStatusIfPending(db *gorm.DB, applicationID string, status models.ApplicationStatus) (int64, error)
	RejectPendingSiblings(db *gorm.DB, projectID, excludeApplicationID string) (int64, error)
}

type ApplicationRepositoryImpl struct{}

func NewApplicationRepository() ApplicationRepository {
	return &ApplicationRepositoryImpl{}
}

func (r *ApplicationRepositoryImpl) Create(db *gorm.DB, application *models.ProjectApplication) error {
	return db.Create(application).Error
}

func (r *ApplicationRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.ProjectApplication, error) {
	var application models.ProjectApplication
	err := db.Preload("Project").First(&application, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}
	return &application, nil
}

func (r *ApplicationRepositoryImpl) FindByProjectAndFreelance(db *gorm.DB, projectID, freelanceID string) (*models.ProjectApplication, error) {
	var application models.ProjectApplication
	err := db.First(&application, "project_id = ? AND freelance_id = ?", projectID, freelanceID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}
	return &application, nil
}

func (r *ApplicationRepositoryImpl) FindByProject(db *gorm.DB, projectID string) ([]models.ProjectApplication, error) {
	var applications []models.ProjectApplication
	err := db.Where("project_id = ?", projectID).
		Preload("Freelance").
		Order("created_at DESC").
		Find(&applications).Error
	return applications, err
}

func (r *ApplicationRepositoryImpl) FindByFreelance(db *gorm.DB, freelanceID string) ([]models.ProjectApplication, error) {
	var applications []models.ProjectApplication
	err := db.Where("freelance_id = ?", freelanceID).
		Preload("Project").
		Order("created_at DESC").
		Find(&applications).Error
	return applications, err
}

func (r *ApplicationRepositoryImpl) FindPendingSiblings(db *gorm.DB, projectID, excludeApplicationID string) ([]models.ProjectApplication, error) {
	var applications []models.ProjectApplication
	err := db.Where("project_id = ? AND id <> ? AND status = ?",
		projectID, excludeApplicationID, models.ApplicationStatusPending).
		Find(&applications).Error
	return applications, err
}

func (r *ApplicationRepositoryImpl) UpdateStatusIfPending(db *gorm.DB, applicationID string, status models.ApplicationStatus) (int64, error) {
	result := db.Model(&models.ProjectApplication{}).
		Where("id = ? AND status = ?", applicationID, models.ApplicationStatusPending).
		Updates(map[string]interface{}{
			"status":       status,
			"responded_at": time.Now(),
		})
	return result.RowsAffected, result.Error
}

func (r *ApplicationRepositoryImpl) RejectPendingSiblings(db *gorm.DB, projectID, excludeApplicationID string) (int64, error) {
	result := db.Model(&models.ProjectApplication{}).
		Where("project_id = ? AND id <> ? AND status = ?",
			projectID, excludeApplicationID, models.ApplicationStatusPending).
		Updates(map[string]interface{}{
			"status":       models.ApplicationStatusRejected,
			"responded_at": time.Now(),
		})
	return result.RowsAffected, result.Error
}
