package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vesselwatch/biofouling-backend/internal/alerts"
	"github.com/vesselwatch/biofouling-backend/internal/repos"
	"github.com/vesselwatch/biofouling-backend/internal/requestdata"
	"github.com/vesselwatch/biofouling-backend/internal/services"
	"github.com/vesselwatch/biofouling-backend/internal/types"
)

type AlertHandler struct {
	alertService services.AlertService
}

func NewAlertHandler(alertService services.AlertService) *AlertHandler {
	return &AlertHandler{alertService: alertService}
}

func (ah *AlertHandler) List(c *gin.Context) {
	filter := repos.AlertFilter{}
	if raw := c.Query("vessel_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "invalid_vessel_id", err)
			return
		}
		filter.VesselID = id
	}
	if raw := c.Query("severity"); raw != "" {
		filter.Severity = types.AlertSeverity(raw)
	}
	if raw := c.Query("status"); raw != "" {
		filter.Status = types.AlertStatus(raw)
	}
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			RespondError(c, http.StatusBadRequest, "invalid_limit", errors.New("limit must be a positive integer"))
			return
		}
		filter.Limit = parsed
	}
	if raw := c.Query("offset"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			RespondError(c, http.StatusBadRequest, "invalid_offset", errors.New("offset must be a non-negative integer"))
			return
		}
		filter.Offset = parsed
	}

	results, total, err := ah.alertService.List(c.Request.Context(), filter)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "list_alerts_failed", err)
		return
	}
	RespondOK(c, gin.H{"alerts": results, "total": total})
}

type acknowledgeRequest struct {
	Notes string `json:"notes"`
}

func (ah *AlertHandler) Acknowledge(c *gin.Context) {
	alertID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_alert_id", err)
		return
	}
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		RespondError(c, http.StatusUnauthorized, "missing_operator", errors.New("operator identity missing from request"))
		return
	}
	// notes body is optional
	var req acknowledgeRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			RespondError(c, http.StatusBadRequest, "invalid_request", err)
			return
		}
	}

	alert, err := ah.alertService.Acknowledge(c.Request.Context(), alertID, rd.OperatorID, req.Notes)
	if err != nil {
		respondAlertError(c, err)
		return
	}
	RespondOK(c, gin.H{"alert": alert})
}

func (ah *AlertHandler) Resolve(c *gin.Context) {
	alertID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_alert_id", err)
		return
	}
	alert, err := ah.alertService.Resolve(c.Request.Context(), alertID)
	if err != nil {
		respondAlertError(c, err)
		return
	}
	RespondOK(c, gin.H{"alert": alert})
}

func respondAlertError(c *gin.Context, err error) {
	var invalid *alerts.InvalidTransitionError
	if errors.As(err, &invalid) {
		RespondError(c, http.StatusConflict, "invalid_transition", err)
		return
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		RespondError(c, http.StatusNotFound, "alert_not_found", err)
		return
	}
	RespondError(c, http.StatusInternalServerError, "alert_update_failed", err)
}
