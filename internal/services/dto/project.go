package dto

import (
	"time"

	"fwork_backend/internal/models"
)

type CreateProjectRequest struct {
	Title       string  `json:"title" validate:"required,max=200"`
	Description string  `json:"description" validate:"omitempty,max=10000"`
	Budget      float64 `json:"budget" validate:"omitempty,min=0"`
}

type UpdateProjectStatusRequest struct {
	Status string `json:"status" validate:"required,is-project-status"`
}

type ProjectResponse struct {
	ID                  string               `json:"id"`
	CompanyID           string               `json:"companyId"`
	Title               string               `json:"title"`
	Description         string               `json:"description,omitempty"`
	Budget              float64              `json:"budget"`
	Status              models.ProjectStatus `json:"status"`
	AcceptedFreelanceID *string              `json:"acceptedFreelanceId,omitempty"`
	CreatedAt           time.Time            `json:"createdAt"`
}

func NewProjectResponse(p *models.Project) *ProjectResponse {
	return &ProjectResponse{
		ID:                  p.ID,
		CompanyID:           p.CompanyID,
		Title:               p.Title,
		Description:         p.Description,
		Budget:              p.Budget,
		Status:              p.Status,
		AcceptedFreelanceID: p.AcceptedFreelanceID,
		CreatedAt:           p.CreatedAt,
	}
}
