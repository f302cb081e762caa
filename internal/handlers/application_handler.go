package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fwork_backend/internal/middleware"
	"fwork_backend/internal/models"
	"fwork_backend/internal/services"
	"fwork_backend/internal/services/dto"
)

type ApplicationHandler struct {
	*BaseHandler
	applicationService services.ApplicationService
}

func NewApplicationHandler(base *BaseHandler, applicationService services.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{
		BaseHandler:        base,
		applicationService: applicationService,
	}
}

func (h *ApplicationHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/projects/:id/applications",
		middleware.AuthMiddleware(),
		middleware.RequireRoles(models.UserRoleFreelance),
		h.Apply,
	)
	rg.GET("/projects/:id/applications",
		middleware.AuthMiddleware(),
		middleware.RequireRoles(models.UserRoleCompany),
		h.ProjectApplications,
	)

	applications := rg.Group("/applications", middleware.AuthMiddleware())
	{
		applications.GET("/mine", middleware.RequireRoles(models.UserRoleFreelance), h.MyApplications)
		applications.GET("/:id", h.GetApplication)
		applications.POST("/:id/respond", middleware.RequireRoles(models.UserRoleCompany), h.Respond)
	}
}

func (h *ApplicationHandler) Apply(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateApplicationRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.applicationService.CreateApplication(h.GetDB(c), userID, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// Respond accepts or rejects a pending application. Accepting moves the
// project to in_progress and auto-rejects the remaining pending
// applications in the same transaction.
func (h *ApplicationHandler) Respond(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.RespondToApplicationRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.applicationService.RespondToApplication(h.GetDB(c), userID, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *ApplicationHandler) GetApplication(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	resp, err := h.applicationService.GetApplication(h.GetDB(c), userID, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *ApplicationHandler) ProjectApplications(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	applications, err := h.applicationService.GetProjectApplications(h.GetDB(c), userID, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"applications": applications})
}

func (h *ApplicationHandler) MyApplications(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	applications, err := h.applicationService.GetMyApplications(h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"applications": applications})
}
