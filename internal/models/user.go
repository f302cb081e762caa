package models

type User struct {
	BaseModel
	Email        string   `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string   `gorm:"not null" json:"-"`
	Role         UserRole `gorm:"type:varchar(20);not null" json:"role"`
	Name         string   `gorm:"not null" json:"name"`

	Preference *NotificationPreference `gorm:"foreignKey:UserID" json:"-"`
}
