package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vesselwatch/biofouling-backend/internal/biofouling"
	"github.com/vesselwatch/biofouling-backend/internal/services"
)

type AnalyticsHandler struct {
	analyticsService services.AnalyticsService
}

func NewAnalyticsHandler(analyticsService services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

// FleetTrends serves GET /analytics/fleet-trends?days=30.
func (ah *AnalyticsHandler) FleetTrends(c *gin.Context) {
	days := 30
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			RespondError(c, http.StatusBadRequest, "invalid_days", errors.New("days must be a positive integer"))
			return
		}
		days = parsed
	}
	trends, err := ah.analyticsService.FleetTrends(c.Request.Context(), days)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "fleet_trends_failed", err)
		return
	}
	RespondOK(c, gin.H{"trends": trends})
}

// Benchmark serves GET /analytics/benchmarking?vessel_id=<uuid>.
func (ah *AnalyticsHandler) Benchmark(c *gin.Context) {
	vesselID, err := uuid.Parse(c.Query("vessel_id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_vessel_id", errors.New("vessel_id must be a valid uuid"))
		return
	}
	benchmark, err := ah.analyticsService.Benchmark(c.Request.Context(), vesselID)
	if err != nil {
		var insufficient *biofouling.InsufficientDataError
		switch {
		case errors.As(err, &insufficient):
			RespondError(c, http.StatusNotFound, "insufficient_history", err)
		case errors.Is(err, gorm.ErrRecordNotFound):
			RespondError(c, http.StatusNotFound, "vessel_not_found", err)
		default:
			RespondError(c, http.StatusInternalServerError, "benchmark_failed", err)
		}
		return
	}
	RespondOK(c, gin.H{"benchmark": benchmark})
}
