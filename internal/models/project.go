package models

type Project struct {
	BaseModel
	CompanyID   string        `gorm:"not null;index" json:"companyId"`
	Title       string        `gorm:"not null" json:"title"`
	Description string        `gorm:"type:text" json:"description"`
	Budget      float64       `json:"budget"`
	Status      ProjectStatus `gorm:"type:varchar(20);default:'open';index" json:"status"`

	// Set exactly once, inside the same transaction that accepts an application.
	AcceptedFreelanceID *string `gorm:"index" json:"acceptedFreelanceId,omitempty"`

	Company      *User                `gorm:"foreignKey:CompanyID" json:"company,omitempty"`
	Applications []ProjectApplication `gorm:"foreignKey:ProjectID" json:"applications,omitempty"`
}
