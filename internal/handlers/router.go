package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/campushub/student-portal/internal/portal"
	"github.com/campushub/student-portal/internal/utils"
)

type HandlerManager struct {
	assignmentHandler *AssignmentHandler
	sessionHandler    *SessionHandler
}

func NewHandlerManager(portalService *portal.Service, validator *utils.Validator, logger utils.Logger) *HandlerManager {
	return &HandlerManager{
		assignmentHandler: NewAssignmentHandler(portalService, logger),
		sessionHandler:    NewSessionHandler(portalService, validator, logger),
	}
}

// SetupRoutes sets up all API routes.
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "student-portal",
		})
	})

	v1 := router.Group("/api/v1")
	v1.Use(RequireUser())
	{
		v1.GET("/assignments", hm.assignmentHandler.ListAssignments)

		sessions := v1.Group("/session")
		{
			sessions.POST("/open", hm.sessionHandler.OpenSession)
			sessions.DELETE("", hm.sessionHandler.CloseSession)
			sessions.GET("", hm.sessionHandler.GetSession)
			sessions.POST("/start", hm.sessionHandler.StartSession)
			sessions.PUT("/answers", hm.sessionHandler.SetAnswer)
			sessions.PUT("/content", hm.sessionHandler.SetContent)
			sessions.POST("/submit", hm.sessionHandler.Submit)
		}
	}
}
