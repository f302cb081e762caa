package models

// NotificationPreference gates the email leg of notification dispatch.
// Rows are created lazily with defaults the first time a user is notified.
type NotificationPreference struct {
	BaseModel
	UserID string `gorm:"not null;uniqueIndex" json:"userId"`

	EmailEnabled      bool `gorm:"default:true" json:"emailEnabled"`
	EmailMessages     bool `gorm:"default:true" json:"emailMessages"`
	EmailApplications bool `gorm:"default:true" json:"emailApplications"`
	EmailProjects     bool `gorm:"default:true" json:"emailProjects"`
	EmailReviews      bool `gorm:"default:true" json:"emailReviews"`
	EmailMarketing    bool `gorm:"default:false" json:"emailMarketing"`

	InAppEnabled bool `gorm:"default:true" json:"inAppEnabled"`

	Digest string `gorm:"type:varchar(20);default:'instant'" json:"digest"` // instant, daily
}

// DefaultNotificationPreference returns the preference row used when a user
// has never saved one. Values are set explicitly because gorm defaults do not
// apply to in-memory structs.
func DefaultNotificationPreference(userID string) *NotificationPreference {
	return &NotificationPreference{
		UserID:            userID,
		EmailEnabled:      true,
		EmailMessages:     true,
		EmailApplications: true,
		EmailProjects:     true,
		EmailReviews:      true,
		EmailMarketing:    false,
		InAppEnabled:      true,
		Digest:            "instant",
	}
}

// EmailAllowedFor reports whether the user accepts email for this
// notification type.
func (p *NotificationPreference) EmailAllowedFor(t NotificationType) bool {
	if !p.EmailEnabled {
		return false
	}
	switch t {
	case NotificationTypeMessage:
		return p.EmailMessages
	case NotificationTypeApplication:
		return p.EmailApplications
	case NotificationTypeProject, NotificationTypeInvitation:
		return p.EmailProjects
	case NotificationTypeReview:
		return p.EmailReviews
	case NotificationTypeSystem:
		return true
	default:
		return false
	}
}
