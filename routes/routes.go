package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/pawprint-social/moderation-api/controllers"
	"github.com/pawprint-social/moderation-api/middleware"
	"github.com/pawprint-social/moderation-api/services"
	"github.com/pawprint-social/moderation-api/storage"
)

// SetupRoutes wires repositories, services and controllers onto the router.
func SetupRoutes(r *gin.Engine, db *gorm.DB, audit *services.AuditService, limiter services.CounterStore) {
	queueStore := storage.NewQueueStore(db)
	userStore := storage.NewUserStore(db)
	revisionStore := storage.NewRevisionStore(db)
	expertStore := storage.NewExpertStore(db)

	queueService := services.NewQueueService(queueStore)
	engine := services.NewDecisionEngine(queueStore, userStore, audit)
	bulk := services.NewBulkProcessor(engine, audit)
	workflow := services.NewRevisionWorkflow(revisionStore, queueService, expertStore, audit)

	moderationController := controllers.NewModerationController(queueService, engine, bulk)
	revisionController := controllers.NewRevisionController(workflow)
	reportController := controllers.NewReportController(queueService)
	auditController := controllers.NewAuditController(audit)

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Authenticated routes
	authed := r.Group("/api")
	authed.Use(middleware.AuthMiddleware())
	{
		authed.POST("/reports",
			middleware.RateLimit(limiter, "report:submit", services.RatePolicy{
				MaxAttempts: 10,
				Window:      time.Hour,
			}),
			reportController.Submit)

		authed.POST("/wiki/revisions/:id/flag",
			middleware.RateLimit(limiter, "revision:flag", services.RatePolicy{
				MaxAttempts: 10,
				Window:      time.Hour,
			}),
			revisionController.Flag)
	}

	SetupModerationRoutes(authed, moderationController, auditController)
	SetupRevisionRoutes(authed, revisionController)
}
