package dto

import (
	"time"

	"fwork_backend/internal/models"
)

type CreateApplicationRequest struct {
	ProposedRate float64 `json:"proposedRate" validate:"required,min=0"`
	Duration     string  `json:"duration" validate:"required,max=100"`
	CoverLetter  string  `json:"coverLetter" validate:"omitempty,max=5000"`
}

type RespondToApplicationRequest struct {
	Decision string `json:"decision" validate:"required,is-application-decision"`
}

type ApplicationResponse struct {
	ID           string                   `json:"id"`
	ProjectID    string                   `json:"projectId"`
	FreelanceID  string                   `json:"freelanceId"`
	Status       models.ApplicationStatus `json:"status"`
	ProposedRate float64                  `json:"proposedRate"`
	Duration     string                   `json:"duration"`
	CoverLetter  string                   `json:"coverLetter,omitempty"`
	AppliedAt    time.Time                `json:"appliedAt"`
	RespondedAt  *time.Time               `json:"respondedAt,omitempty"`
}

func NewApplicationResponse(a *models.ProjectApplication) *ApplicationResponse {
	return &ApplicationResponse{
		ID:           a.ID,
		ProjectID:    a.ProjectID,
		FreelanceID:  a.FreelanceID,
		Status:       a.Status,
		ProposedRate: a.ProposedRate,
		Duration:     a.Duration,
		CoverLetter:  a.CoverLetter,
		AppliedAt:    a.CreatedAt,
		RespondedAt:  a.RespondedAt,
	}
}
