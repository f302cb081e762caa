package routes

import (
	"github.com/gin-gonic/gin"

	"fwork_backend/internal/handlers"
)

// RegisterRoutes mounts every handler group under /api/v1.
func RegisterRoutes(ginRouter *gin.Engine, appHandlers *handlers.AppHandlers) {
	api := ginRouter.Group("/api/v1")
	{
		appHandlers.Auth.RegisterRoutes(api)
		appHandlers.Projects.RegisterRoutes(api)
		appHandlers.Applications.RegisterRoutes(api)
		appHandlers.Chat.RegisterRoutes(api)
		appHandlers.Notifications.RegisterRoutes(api)
	}

	ginRouter.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
}
