package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vesselwatch/biofouling-backend/internal/services"
)

type BiofoulingHandler struct {
	biofoulingService services.BiofoulingService
}

func NewBiofoulingHandler(biofoulingService services.BiofoulingService) *BiofoulingHandler {
	return &BiofoulingHandler{biofoulingService: biofoulingService}
}

func (bh *BiofoulingHandler) Evaluate(c *gin.Context) {
	vesselID, ok := parseVesselID(c)
	if !ok {
		return
	}
	result, err := bh.biofoulingService.Evaluate(c.Request.Context(), vesselID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			RespondError(c, http.StatusNotFound, "vessel_not_found", err)
			return
		}
		RespondError(c, http.StatusInternalServerError, "evaluation_failed", err)
		return
	}
	RespondOK(c, result)
}

func (bh *BiofoulingHandler) Latest(c *gin.Context) {
	vesselID, ok := parseVesselID(c)
	if !ok {
		return
	}
	latest, err := bh.biofoulingService.Latest(c.Request.Context(), vesselID)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "get_latest_failed", err)
		return
	}
	if latest == nil {
		RespondError(c, http.StatusNotFound, "no_evaluation", errors.New("vessel has no index evaluation on record"))
		return
	}
	RespondOK(c, gin.H{"index": latest})
}

func (bh *BiofoulingHandler) Timeline(c *gin.Context) {
	vesselID, ok := parseVesselID(c)
	if !ok {
		return
	}
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			RespondError(c, http.StatusBadRequest, "invalid_limit", errors.New("limit must be a positive integer"))
			return
		}
		limit = parsed
	}
	timeline, err := bh.biofoulingService.Timeline(c.Request.Context(), vesselID, limit)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "get_timeline_failed", err)
		return
	}
	RespondOK(c, gin.H{"timeline": timeline})
}

func (bh *BiofoulingHandler) EvaluateFleet(c *gin.Context) {
	result, err := bh.biofoulingService.EvaluateFleet(c.Request.Context())
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "fleet_evaluation_failed", err)
		return
	}
	RespondOK(c, result)
}
