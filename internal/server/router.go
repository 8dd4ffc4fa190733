package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// NewRouter builds the gin engine for the fasting REST API.
func NewRouter(repo *Repository) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Logger(), gin.Recovery())

	h := &handlers{repo: repo}

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	sessions := engine.Group("/sessions")
	sessions.POST("", h.createSession)
	sessions.GET("", h.recentSessions)
	sessions.GET("/active", h.activeSession)
	sessions.PATCH("/:id/end", h.endSession)
	sessions.PATCH("/:id/cancel", h.cancelSession)
	sessions.PATCH("/:id", h.updateSession)

	engine.GET("/stats", h.stats)

	fasts := engine.Group("/fasts")
	fasts.POST("", h.createSchedule)
	fasts.GET("", h.listSchedules)
	fasts.GET("/upcoming", h.upcomingSchedules)
	fasts.PATCH("/:id", h.updateSchedule)
	fasts.DELETE("/:id", h.deleteSchedule)

	weights := engine.Group("/weights")
	weights.POST("", h.createWeight)
	weights.GET("", h.listWeights)
	weights.PATCH("/:id", h.updateWeight)
	weights.DELETE("/:id", h.deleteWeight)

	metrics := engine.Group("/metrics")
	metrics.POST("", h.createMetric)
	metrics.GET("", h.listMetrics)
	metrics.PATCH("/:id", h.updateMetric)
	metrics.DELETE("/:id", h.deleteMetric)

	engine.GET("/profile", h.getProfile)
	engine.PATCH("/profile", h.updateProfile)

	return engine
}
