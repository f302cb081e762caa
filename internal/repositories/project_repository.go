package repositories

import (
	"errors"

	"gorm.io/gorm"

	"fwork_backend/internal/models"
)

var ErrProjectNotFound = errors.New("project not found")

type ProjectRepository interface {
	Create(db *gorm.DB, project *models.Project) error
	FindByID(db *gorm.DB, id string) (*models.Project, error)
	FindByCompany(db *gorm.DB, companyID string) ([]models.Project, error)
	// AcceptFreelance moves an open project to in_progress and records the
	// winner. Returns the number of rows changed; 0 means the project was
	// not open anymore.
	AcceptFreelance(db *gorm.DB, projectID, freelanceID string) (int64, error)
	UpdateStatus(db *gorm.DB, projectID string, status models.ProjectStatus) error
}

type ProjectRepositoryImpl struct{}

func NewProjectRepository() ProjectRepository {
	return &ProjectRepositoryImpl{}
}

func (r *ProjectRepositoryImpl) Create(db *gorm.DB, project *models.Project) error {
	return db.Create(project).Error
}

func (r *ProjectRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.Project, error) {
	var project models.Project
	err := db.First(&project, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}
	return &project, nil
}

func (r *ProjectRepositoryImpl) FindByCompany(db *gorm.DB, companyID string) ([]models.Project, error) {
	var projects []models.Project
	err := db.Where("company_id = ?", companyID).
		Order("created_at DESC").
		Find(&projects).Error
	return projects, err
}

// The status guard in the WHERE clause is what makes a double accept lose:
// the second transaction matches zero rows.
func (r *ProjectRepositoryImpl) AcceptFreelance(db *gorm.DB, projectID, freelanceID string) (int64, error) {
	result := db.Model(&models.Project{}).
		Where("id = ? AND status = ?", projectID, models.ProjectStatusOpen).
		Updates(map[string]interface{}{
			"status":                models.ProjectStatusInProgress,
			"accepted_freelance_id": freelanceID,
		})
	return result.RowsAffected, result.Error
}

func (r *ProjectRepositoryImpl) UpdateStatus(db *gorm.DB, projectID string, status models.ProjectStatus) error {
	result := db.Model(&models.Project{}).
		Where("id = ?", projectID).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProjectNotFound
	}
	return nil
}
