package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/vesselwatch/biofouling-backend/internal/handlers"
	"github.com/vesselwatch/biofouling-backend/internal/middleware"
)

type RouterConfig struct {
	AuthMiddleware     *middleware.AuthMiddleware
	HealthcheckHandler *handlers.HealthcheckHandler
	VesselHandler      *handlers.VesselHandler
	BiofoulingHandler  *handlers.BiofoulingHandler
	PredictionHandler  *handlers.PredictionHandler
	AlertHandler       *handlers.AlertHandler
	ROIHandler         *handlers.ROIHandler
	AnalyticsHandler   *handlers.AnalyticsHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	// Cors
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:80",
			"http://localhost:3000",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// ===============
	// || Public    ||
	// ===============
	router.GET("/healthcheck", cfg.HealthcheckHandler.Healthcheck)

	// ===============
	// || Protected ||
	// ===============
	protected := router.Group("/api/v1")
	protected.Use(cfg.AuthMiddleware.RequireAuth())

	// Vessels
	protected.GET("/vessels", cfg.VesselHandler.List)
	protected.POST("/vessels", cfg.VesselHandler.Create)
	protected.GET("/vessels/:id", cfg.VesselHandler.GetByID)
	protected.POST("/vessels/:id/cleanings", cfg.VesselHandler.RecordCleaning)
	protected.POST("/vessels/:id/inspections", cfg.VesselHandler.RecordInspection)
	protected.POST("/vessels/:id/voyage-sessions", cfg.VesselHandler.IngestVoyageSessions)
	protected.POST("/vessels/:id/positions", cfg.VesselHandler.IngestPositions)

	// Biofouling index
	protected.POST("/vessels/:id/biofouling/evaluate", cfg.BiofoulingHandler.Evaluate)
	protected.GET("/vessels/:id/biofouling/latest", cfg.BiofoulingHandler.Latest)
	protected.GET("/vessels/:id/biofouling/timeline", cfg.BiofoulingHandler.Timeline)

	// Predictions
	protected.GET("/vessels/:id/forecast", cfg.PredictionHandler.Forecast)

	// ROI
	protected.POST("/vessels/:id/roi", cfg.ROIHandler.Compute)

	// Alerts
	protected.GET("/alerts", cfg.AlertHandler.List)
	protected.POST("/alerts/:id/acknowledge", cfg.AlertHandler.Acknowledge)
	protected.POST("/alerts/:id/resolve", cfg.AlertHandler.Resolve)

	// Fleet
	protected.POST("/fleet/evaluate", cfg.BiofoulingHandler.EvaluateFleet)

	// Analytics
	protected.GET("/analytics/fleet-trends", cfg.AnalyticsHandler.FleetTrends)
	protected.GET("/analytics/benchmarking", cfg.AnalyticsHandler.Benchmark)

	return router
}
