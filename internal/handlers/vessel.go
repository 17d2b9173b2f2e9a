package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vesselwatch/biofouling-backend/internal/services"
	"github.com/vesselwatch/biofouling-backend/internal/types"
)

type VesselHandler struct {
	vesselService services.VesselService
}

func NewVesselHandler(vesselService services.VesselService) *VesselHandler {
	return &VesselHandler{vesselService: vesselService}
}

func parseVesselID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_vessel_id", err)
		return uuid.Nil, false
	}
	return id, true
}

type createVesselRequest struct {
	Name         string   `json:"name" binding:"required"`
	VesselClass  string   `json:"vessel_class" binding:"required"`
	VesselType   string   `json:"vessel_type"`
	GrossTonnage *int     `json:"gross_tonnage"`
	LengthM      *float64 `json:"length_m"`
	BeamM        *float64 `json:"beam_m"`
	DraftM       *float64 `json:"draft_m"`
}

func (vh *VesselHandler) Create(c *gin.Context) {
	var req createVesselRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	vessel := &types.Vessel{
		Name:         req.Name,
		VesselClass:  req.VesselClass,
		VesselType:   req.VesselType,
		GrossTonnage: req.GrossTonnage,
		LengthM:      req.LengthM,
		BeamM:        req.BeamM,
		DraftM:       req.DraftM,
	}
	created, err := vh.vesselService.Create(c.Request.Context(), vessel)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "create_vessel_failed", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"vessel": created})
}

func (vh *VesselHandler) List(c *gin.Context) {
	vessels, err := vh.vesselService.List(c.Request.Context())
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "list_vessels_failed", err)
		return
	}
	RespondOK(c, gin.H{"vessels": vessels})
}

func (vh *VesselHandler) GetByID(c *gin.Context) {
	vesselID, ok := parseVesselID(c)
	if !ok {
		return
	}
	vessel, err := vh.vesselService.GetByID(c.Request.Context(), vesselID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			RespondError(c, http.StatusNotFound, "vessel_not_found", err)
			return
		}
		RespondError(c, http.StatusInternalServerError, "get_vessel_failed", err)
		return
	}
	RespondOK(c, gin.H{"vessel": vessel})
}

type recordCleaningRequest struct {
	CleanedAt time.Time `json:"cleaned_at" binding:"required"`
	Method    string    `json:"method"`
	Cost      *float64  `json:"cost"`
}

func (vh *VesselHandler) RecordCleaning(c *gin.Context) {
	vesselID, ok := parseVesselID(c)
	if !ok {
		return
	}
	var req recordCleaningRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	event := &types.HullCleaningEvent{
		VesselID:  vesselID,
		CleanedAt: req.CleanedAt,
		Method:    req.Method,
		Cost:      req.Cost,
	}
	created, err := vh.vesselService.RecordCleaning(c.Request.Context(), event)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			RespondError(c, http.StatusNotFound, "vessel_not_found", err)
			return
		}
		RespondError(c, http.StatusBadRequest, "record_cleaning_failed", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"cleaning": created})
}

type recordInspectionRequest struct {
	InspectionDate       time.Time `json:"inspection_date" binding:"required"`
	Location             string    `json:"location"`
	NormamLevelConfirmed *int      `json:"normam_level_confirmed"`
	HullConditionPct     *int      `json:"hull_condition_pct"`
	FoulingType          string    `json:"fouling_type"`
	Notes                string    `json:"notes"`
	InspectorName        string    `json:"inspector_name"`
}

func (vh *VesselHandler) RecordInspection(c *gin.Context) {
	vesselID, ok := parseVesselID(c)
	if !ok {
		return
	}
	var req recordInspectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if req.NormamLevelConfirmed != nil && (*req.NormamLevelConfirmed < 0 || *req.NormamLevelConfirmed > 4) {
		RespondError(c, http.StatusBadRequest, "invalid_request", errors.New("normam_level_confirmed must be within 0..4"))
		return
	}
	inspection := &types.Inspection{
		VesselID:             vesselID,
		InspectionDate:       req.InspectionDate,
		Location:             req.Location,
		NormamLevelConfirmed: req.NormamLevelConfirmed,
		HullConditionPct:     req.HullConditionPct,
		FoulingType:          req.FoulingType,
		Notes:                req.Notes,
		InspectorName:        req.InspectorName,
	}
	created, err := vh.vesselService.RecordInspection(c.Request.Context(), inspection)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			RespondError(c, http.StatusNotFound, "vessel_not_found", err)
			return
		}
		RespondError(c, http.StatusBadRequest, "record_inspection_failed", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"inspection": created})
}

type ingestSessionsRequest struct {
	Sessions []*types.VoyageSession `json:"sessions" binding:"required"`
}

func (vh *VesselHandler) IngestVoyageSessions(c *gin.Context) {
	vesselID, ok := parseVesselID(c)
	if !ok {
		return
	}
	var req ingestSessionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	count, err := vh.vesselService.IngestVoyageSessions(c.Request.Context(), vesselID, req.Sessions)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			RespondError(c, http.StatusNotFound, "vessel_not_found", err)
			return
		}
		RespondError(c, http.StatusBadRequest, "ingest_sessions_failed", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ingested": count})
}

type ingestPositionsRequest struct {
	Positions []*types.PositionSample `json:"positions" binding:"required"`
}

func (vh *VesselHandler) IngestPositions(c *gin.Context) {
	vesselID, ok := parseVesselID(c)
	if !ok {
		return
	}
	var req ingestPositionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	count, err := vh.vesselService.IngestPositions(c.Request.Context(), vesselID, req.Positions)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			RespondError(c, http.StatusNotFound, "vessel_not_found", err)
			return
		}
		RespondError(c, http.StatusBadRequest, "ingest_positions_failed", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ingested": count})
}
