package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vesselwatch/biofouling-backend/internal/biofouling"
	"github.com/vesselwatch/biofouling-backend/internal/cache"
	"github.com/vesselwatch/biofouling-backend/internal/logger"
	"github.com/vesselwatch/biofouling-backend/internal/repos"
)

const roiTTL = 30 * time.Minute

func roiKey(vesselID uuid.UUID, fuelPrice, cleaningCost float64) string {
	return fmt.Sprintf("roi:%s:%.2f:%.2f", vesselID, fuelPrice, cleaningCost)
}

type ROIService interface {
	// Compute weighs a cleaning against the projected fuel penalty of
	// deferring it, priced with the caller's fuel and cleaning figures.
	Compute(ctx context.Context, vesselID uuid.UUID, fuelPricePerTon, cleaningCost float64) (*biofouling.ROIResult, error)
}

type roiService struct {
	log        *logger.Logger
	engine     *biofouling.Engine
	cache      *cache.Cache
	indexRepo  repos.BiofoulingIndexRepo
	prediction PredictionService
}

func NewROIService(log *logger.Logger, engine *biofouling.Engine, c *cache.Cache, indexRepo repos.BiofoulingIndexRepo, prediction PredictionService) ROIService {
	serviceLog := log.With("service", "ROIService")
	return &roiService{log: serviceLog, engine: engine, cache: c, indexRepo: indexRepo, prediction: prediction}
}

func (rs *roiService) Compute(ctx context.Context, vesselID uuid.UUID, fuelPricePerTon, cleaningCost float64) (*biofouling.ROIResult, error) {
	key := roiKey(vesselID, fuelPricePerTon, cleaningCost)
	var cached biofouling.ROIResult
	if err := rs.cache.Get(ctx, key, &cached); err == nil {
		return &cached, nil
	}

	current, err := rs.indexRepo.GetLatest(ctx, nil, vesselID)
	if err != nil {
		return nil, fmt.Errorf("failed to load latest index: %w", err)
	}

	var forecast *biofouling.ForecastResult
	if current != nil {
		forecast, err = rs.prediction.Forecast(ctx, vesselID, []int{30, 60, 90, 180, 365})
		if err != nil {
			// ROI degrades to a flat trajectory without a forecast
			rs.log.Warn("Forecast unavailable for ROI, using current index", "vessel_id", vesselID, "error", err)
			forecast = nil
		}
	}

	result := rs.engine.ComputeROI(current, fuelPricePerTon, cleaningCost, forecast)
	if result.Available {
		rs.cache.Set(ctx, key, result, roiTTL)
	}
	return &result, nil
}
