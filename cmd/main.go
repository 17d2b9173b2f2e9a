package main

import (
	"fmt"
	"os"

	"github.com/vesselwatch/biofouling-backend/internal/alerts"
	"github.com/vesselwatch/biofouling-backend/internal/biofouling"
	"github.com/vesselwatch/biofouling-backend/internal/cache"
	"github.com/vesselwatch/biofouling-backend/internal/db"
	"github.com/vesselwatch/biofouling-backend/internal/handlers"
	"github.com/vesselwatch/biofouling-backend/internal/logger"
	"github.com/vesselwatch/biofouling-backend/internal/middleware"
	"github.com/vesselwatch/biofouling-backend/internal/repos"
	"github.com/vesselwatch/biofouling-backend/internal/server"
	"github.com/vesselwatch/biofouling-backend/internal/services"
	"github.com/vesselwatch/biofouling-backend/internal/utils"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Env
	log.Info("Loading environment variables from main...")
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	port := utils.GetEnv("PORT", "8080", log)
	windowDays := utils.GetEnvAsInt("EVALUATION_WINDOW_DAYS", 90, log)
	fleetLimit := utils.GetEnvAsInt("FLEET_EVALUATION_CONCURRENCY", 8, log)

	// Engines
	engineCfg := biofouling.DefaultEngineConfig()
	engine, err := biofouling.NewEngine(engineCfg, log)
	if err != nil {
		log.Fatal("Invalid engine configuration", "error", err)
	}
	ruleCfg := alerts.DefaultRuleConfig()
	ruleCfg.RapidIncreaseDelta = utils.GetEnvAsFloat("ALERT_RAPID_INCREASE_DELTA", ruleCfg.RapidIncreaseDelta, log)
	ruleCfg.TropicalExposureRatio = utils.GetEnvAsFloat("ALERT_TROPICAL_EXPOSURE_RATIO", ruleCfg.TropicalExposureRatio, log)
	ruleEngine, err := alerts.NewEngine(ruleCfg, log)
	if err != nil {
		log.Fatal("Invalid alert rule configuration", "error", err)
	}

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Fatal("Postgres init failed", "error", err)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Fatal("Postgres auto migration failed", "error", err)
	}
	thePG := postgresService.DB()

	// Redis cache (optional: evaluation recomputes on a cold cache)
	redisCache, err := cache.New(log)
	if err != nil {
		log.Warn("Redis init failed, running without cache", "error", err)
		redisCache = nil
	}

	// Repos
	log.Info("Setting up Repos from main...")
	vesselRepo := repos.NewVesselRepo(thePG, log)
	voyageRepo := repos.NewVoyageSessionRepo(thePG, log)
	positionRepo := repos.NewPositionSampleRepo(thePG, log)
	indexRepo := repos.NewBiofoulingIndexRepo(thePG, log)
	alertRepo := repos.NewAlertRepo(thePG, log)
	inspectionRepo := repos.NewInspectionRepo(thePG, log)
	cleaningRepo := repos.NewHullCleaningRepo(thePG, log)

	// Services
	log.Info("Setting up Services from main...")
	vesselService := services.NewVesselService(thePG, log, vesselRepo, voyageRepo, positionRepo, inspectionRepo, cleaningRepo)
	alertService := services.NewAlertService(thePG, log, engine, ruleEngine, alertRepo, indexRepo, inspectionRepo)
	biofoulingService := services.NewBiofoulingService(thePG, log, engine, redisCache, vesselRepo, voyageRepo, positionRepo, indexRepo, alertService, windowDays, fleetLimit)
	predictionService := services.NewPredictionService(log, engine, redisCache, indexRepo)
	roiService := services.NewROIService(log, engine, redisCache, indexRepo, predictionService)
	analyticsService := services.NewAnalyticsService(log, redisCache, vesselRepo, indexRepo)

	// Handlers
	log.Info("Setting up Handlers from main...")
	healthcheckHandler := handlers.NewHealthcheckHandler()
	vesselHandler := handlers.NewVesselHandler(vesselService)
	biofoulingHandler := handlers.NewBiofoulingHandler(biofoulingService)
	predictionHandler := handlers.NewPredictionHandler(predictionService)
	alertHandler := handlers.NewAlertHandler(alertService)
	roiHandler := handlers.NewROIHandler(roiService)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService)

	// Middleware
	authMiddleware := middleware.NewAuthMiddleware(log, jwtSecretKey)

	// Router
	router := server.NewRouter(server.RouterConfig{
		AuthMiddleware:     authMiddleware,
		HealthcheckHandler: healthcheckHandler,
		VesselHandler:      vesselHandler,
		BiofoulingHandler:  biofoulingHandler,
		PredictionHandler:  predictionHandler,
		AlertHandler:       alertHandler,
		ROIHandler:         roiHandler,
		AnalyticsHandler:   analyticsHandler,
	})

	log.Info("Starting server", "port", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatal("Server exited", "error", err)
	}
}
