package repositories

import (
	"errors"

	"gorm.io/gorm"

	"fwork_backend/internal/models"
)

type PreferenceRepository interface {
	// FindOrCreate returns the user's preference row, creating it with
	// defaults on first access.
	FindOrCreate(db *gorm.DB, userID string) (*models.NotificationPreference, error)
	Update(db *gorm.DB, pref *models.NotificationPreference) error
}

type PreferenceRepositoryImpl struct{}

func NewPreferenceRepository() PreferenceRepository {
	return &PreferenceRepositoryImpl{}
}

func (r *PreferenceRepositoryImpl) FindOrCreate(db *gorm.DB, userID string) (*models.NotificationPreference, error) {
	var pref models.NotificationPreference
	err := db.First(&pref, "user_id = ?", userID).Error
	if err == nil {
		return &pref, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	created := models.DefaultNotificationPreference(userID)
	if err := db.Create(created).Error; err != nil {
		// A concurrent request may have created the row first.
		if findErr := db.First(&pref, "user_id = ?", userID).Error; findErr == nil {
			return &pref, nil
		}
		return nil, err
	}
	return created, nil
}

func (r *PreferenceRepositoryImpl) Update(db *gorm.DB, pref *models.NotificationPreference) error {
	return db.Model(&models.NotificationPreference{}).
		Where("user_id = ?", pref.UserID).
		Updates(map[string]interface{}{
			"email_enabled":      pref.EmailEnabled,
			"email_messages":     pref.EmailMessages,
			"email_applications": pref.EmailApplications,
			"email_projects":     pref.EmailProjects,
			"email_reviews":      pref.EmailReviews,
			"email_marketing":    pref.EmailMarketing,
			"in_app_enabled":     pref.InAppEnabled,
			"digest":             pref.Digest,
		}).Error
}
