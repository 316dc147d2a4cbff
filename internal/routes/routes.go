package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/tavvy/atlas-backend/internal/handler"
	"github.com/tavvy/atlas-backend/internal/middleware"
	"github.com/tavvy/atlas-backend/pkg/jwt"
)

// Setup configures all API routes
func Setup(
	router *gin.Engine,
	draftHandler *handler.DraftHandler,
	jwtManager *jwt.Manager,
) {
	api := router.Group("/api/v1")

	// Draft lifecycle (all endpoints require an authenticated user)
	drafts := api.Group("/drafts", middleware.JWTAuth(jwtManager))
	drafts.POST("", draftHandler.Create)
	drafts.PATCH("/active", draftHandler.Update)
	drafts.POST("/active/flush", draftHandler.Flush)
	drafts.POST("/active/snooze", draftHandler.Snooze)
	drafts.POST("/active/submit", draftHandler.Submit)
	drafts.GET("/pending", draftHandler.Pending)
	drafts.POST("/pending/resume", draftHandler.Resume)
	drafts.POST("/pending/dismiss", draftHandler.Dismiss)
	drafts.GET("/session", draftHandler.Session)
	drafts.DELETE("/:id", draftHandler.Delete)
}
