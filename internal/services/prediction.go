package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vesselwatch/biofouling-backend/internal/biofouling"
	"github.com/vesselwatch/biofouling-backend/internal/cache"
	"github.com/vesselwatch/biofouling-backend/internal/logger"
	"github.com/vesselwatch/biofouling-backend/internal/repos"
)

const forecastTTL = 30 * time.Minute

func forecastKey(vesselID uuid.UUID, days []int) string {
	parts := make([]string, len(days))
	for i, d := range days {
		parts[i] = fmt.Sprintf("%d", d)
	}
	return "forecast:" + vesselID.String() + ":" + strings.Join(parts, ",")
}

type PredictionService interface {
	// Forecast projects the vessel's index at the given day offsets from
	// its newest evaluation.
	Forecast(ctx context.Context, vesselID uuid.UUID, days []int) (*biofouling.ForecastResult, error)
}

type predictionService struct {
	log       *logger.Logger
	engine    *biofouling.Engine
	cache     *cache.Cache
	indexRepo repos.BiofoulingIndexRepo
}

func NewPredictionService(log *logger.Logger, engine *biofouling.Engine, c *cache.Cache, indexRepo repos.BiofoulingIndexRepo) PredictionService {
	serviceLog := log.With("service", "PredictionService")
	return &predictionService{log: serviceLog, engine: engine, cache: c, indexRepo: indexRepo}
}

func (ps *predictionService) Forecast(ctx context.Context, vesselID uuid.UUID, days []int) (*biofouling.ForecastResult, error) {
	if len(days) == 0 {
		days = []int{30, 60, 90}
	}
	cleaned := make([]int, 0, len(days))
	for _, d := range days {
		if d > 0 {
			cleaned = append(cleaned, d)
		}
	}
	if len(cleaned) == 0 {
		return nil, fmt.Errorf("forecast horizons must be positive day offsets")
	}
	sort.Ints(cleaned)

	key := forecastKey(vesselID, cleaned)
	var cached biofouling.ForecastResult
	if err := ps.cache.Get(ctx, key, &cached); err == nil {
		return &cached, nil
	}

	history, err := ps.indexRepo.ListRecent(ctx, nil, vesselID, forecastHistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load index history: %w", err)
	}
	points := make([]biofouling.IndexPoint, 0, len(history))
	for _, h := range history {
		points = append(points, biofouling.IndexPoint{At: h.CalculatedAt, Value: h.IndexValue})
	}

	result := ps.engine.Forecast(points, cleaned)
	ps.cache.Set(ctx, key, result, forecastTTL)
	return &result, nil
}
