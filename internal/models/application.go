package models

import "time"

// ProjectApplication is a freelance's offer on a project. One row per
// (project, freelance) pair, enforced by the composite unique index.
type ProjectApplication struct {
	BaseModel
	ProjectID    string            `gorm:"not null;uniqueIndex:idx_project_freelance" json:"projectId"`
	FreelanceID  string            `gorm:"not null;uniqueIndex:idx_project_freelance" json:"freelanceId"`
	Status       ApplicationStatus `gorm:"type:varchar(20);default:'pending';index" json:"status"`
	ProposedRate float64           `json:"proposedRate"`
	Duration     string            `json:"duration"`
	CoverLetter  string            `gorm:"type:text" json:"coverLetter"`
	RespondedAt  *time.Time        `json:"respondedAt,omitempty"`

	Project   *Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	Freelance *User    `gorm:"foreignKey:FreelanceID" json:"freelance,omitempty"`
}
