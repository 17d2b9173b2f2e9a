package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vesselwatch/biofouling-backend/internal/services"
)

type ROIHandler struct {
	roiService services.ROIService
}

func NewROIHandler(roiService services.ROIService) *ROIHandler {
	return &ROIHandler{roiService: roiService}
}

type roiRequest struct {
	FuelPricePerTon float64 `json:"fuel_price_per_ton" binding:"required,gt=0"`
	CleaningCost    float64 `json:"cleaning_cost" binding:"required,gt=0"`
}

func (rh *ROIHandler) Compute(c *gin.Context) {
	vesselID, ok := parseVesselID(c)
	if !ok {
		return
	}
	var req roiRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	result, err := rh.roiService.Compute(c.Request.Context(), vesselID, req.FuelPricePerTon, req.CleaningCost)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "roi_failed", err)
		return
	}
	RespondOK(c, gin.H{"roi": result})
}
