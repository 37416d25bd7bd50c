package handlers

import (
	"net/http"
	"time"

	"village-ems/internal/middleware"
	"village-ems/internal/models"
	"village-ems/internal/store"
	"village-ems/pkg/auth"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// NewRouter wires the stub backend's routes. The surface mirrors the
// production API the dashboard client consumes.
func NewRouter(st *store.Store, jwtManager *auth.JWTManager, log *logrus.Entry) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	authHandler := NewAuthHandler(st, jwtManager)
	reportHandler := NewReportHandler(st)
	sosHandler := NewSOSHandler(st)
	noteHandler := NewNoteHandler(st)
	announcementHandler := NewAnnouncementHandler(st)
	polygonHandler := NewPolygonHandler(st)
	villageHandler := NewVillageHandler(st, log)

	api := router.Group("/api")
	{
		api.POST("/login", authHandler.Login)
		api.POST("/register", authHandler.Register)

		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware(jwtManager, st))
		{
			protected.DELETE("/logout", authHandler.Logout)
			protected.GET("/villages", villageHandler.Villages)

			privileged := protected.Group("")
			privileged.Use(middleware.RequireRole(
				models.RoleHead.String(),
				models.RoleSuper.String(),
			))
			{
				privileged.GET("/admin_only", villageHandler.AdminOnly)
				privileged.DELETE("/reports/:id", reportHandler.Delete)
				privileged.PUT("/sos_requests/:id/resolve", sosHandler.Resolve)
				privileged.DELETE("/sos_requests/cleanup", sosHandler.Cleanup)
				privileged.POST("/submit_announcement", announcementHandler.Submit)
				privileged.POST("/update_village_status", villageHandler.UpdateStatus)
				privileged.POST("/broadcast_whatsapp", villageHandler.Broadcast)
				privileged.GET("/notes", noteHandler.List)
				privileged.POST("/submit_note", noteHandler.Submit)
				privileged.POST("/polygons", polygonHandler.Save)
				privileged.DELETE("/polygons/:id", polygonHandler.Delete)
			}

			protected.GET("/reports", reportHandler.List)
			protected.POST("/reports", reportHandler.Create)
			protected.GET("/announcements", announcementHandler.List)
			protected.POST("/sos", sosHandler.Create)
			protected.GET("/sos_requests", sosHandler.List)
			protected.GET("/village_status", villageHandler.Status)
			protected.GET("/polygons", polygonHandler.List)
		}
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Endpoint not found",
			"path":  c.Request.URL.Path,
		})
	})

	return router
}
