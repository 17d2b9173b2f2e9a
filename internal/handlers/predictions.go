package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/vesselwatch/biofouling-backend/internal/services"
)

type PredictionHandler struct {
	predictionService services.PredictionService
}

func NewPredictionHandler(predictionService services.PredictionService) *PredictionHandler {
	return &PredictionHandler{predictionService: predictionService}
}

// Forecast serves GET /vessels/:id/forecast?days=30,60,90.
func (ph *PredictionHandler) Forecast(c *gin.Context) {
	vesselID, ok := parseVesselID(c)
	if !ok {
		return
	}
	var days []int
	if raw := c.Query("days"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			d, err := strconv.Atoi(strings.TrimSpace(part))
			if err != nil || d <= 0 {
				RespondError(c, http.StatusBadRequest, "invalid_days", errors.New("days must be positive integers"))
				return
			}
			days = append(days, d)
		}
	}
	forecast, err := ph.predictionService.Forecast(c.Request.Context(), vesselID, days)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "forecast_failed", err)
		return
	}
	RespondOK(c, gin.H{"forecast": forecast})
}
