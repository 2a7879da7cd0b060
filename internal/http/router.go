package http

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func NewRouter(handler *Handler, authMiddleware gin.HandlerFunc, env string) *gin.Engine {
	if env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"*"},
		ExposeHeaders:   []string{"Content-Type"},
		MaxAge:          12 * time.Hour,
	}))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	protected := router.Group("/api/v1")
	protected.Use(authMiddleware)
	{
		protected.POST("/complaints", handler.createComplaint)
		protected.GET("/complaints", handler.listComplaints)
		protected.GET("/complaints/:id", handler.getComplaint)
		protected.GET("/complaints/:id/timeline", handler.getTimeline)
		protected.PATCH("/complaints/:id", handler.updateComplaint)

		protected.POST("/complaints/:id/assign-supervisor", handler.assignSupervisor)
		protected.POST("/complaints/:id/assign-officer", handler.assignOfficerDirectly)
		protected.POST("/complaints/:id/officer", handler.supervisorAssignOfficer)
		protected.POST("/complaints/:id/reassign", handler.reassign)
		protected.POST("/complaints/:id/escalate", handler.escalate)
		protected.POST("/complaints/:id/override", handler.override)
		protected.POST("/complaints/:id/resolution", handler.submitResolution)
		protected.POST("/complaints/:id/verify", handler.verifyResolution)
		protected.POST("/complaints/:id/reject", handler.rejectResolution)
		protected.POST("/complaints/:id/withdraw", handler.withdraw)
		protected.POST("/complaints/:id/comments", handler.addComment)

		protected.GET("/audit", handler.queryAudit)
	}

	return router
}
