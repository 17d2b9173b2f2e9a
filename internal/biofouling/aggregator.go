package biofouling

import (
	"time"

	"github.com/vesselwatch/biofouling-backend/internal/logger"
	"github.com/vesselwatch/biofouling-backend/internal/types"
)

// Engine evaluates the biofouling index, forecasts and cleaning ROI. It is
// pure computation: no storage, no transport, safe for concurrent use.
type Engine struct {
	cfg EngineConfig
	log *logger.Logger
}

func NewEngine(cfg EngineConfig, log *logger.Logger) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log != nil {
		log = log.With("component", "biofouling_engine")
	}
	return &Engine{cfg: cfg, log: log}, nil
}

func (e *Engine) Config() EngineConfig { return e.cfg }

// ComponentScores are the four raw model outputs of one evaluation.
type ComponentScores struct {
	Efficiency    ComponentScore
	Environmental ComponentScore
	Temporal      ComponentScore
	Operational   ComponentScore
}

// Contributions are the weighted component values. The index is always
// 100 times their sum.
type Contributions struct {
	Efficiency    float64 `json:"efficiency"`
	Environmental float64 `json:"environmental"`
	Temporal      float64 `json:"temporal"`
	Operational   float64 `json:"operational"`
}

type IndexResult struct {
	IndexValue    float64       `json:"index_value"`
	NormamLevel   int           `json:"normam_level"`
	Contributions Contributions `json:"contributions"`
	Scores        ComponentScores
	LowConfidence bool      `json:"low_confidence"`
	CalculatedAt  time.Time `json:"calculated_at"`
}

// ComputeScores runs the four component models over a vessel's recent
// activity.
func (e *Engine) ComputeScores(vessel *types.Vessel, sessions []*types.VoyageSession, positions []*types.PositionSample, now time.Time) ComponentScores {
	return ComponentScores{
		Efficiency:    e.EfficiencyScore(vessel, sessions),
		Environmental: e.EnvironmentalScore(positions),
		Temporal:      e.TemporalScore(vessel, now),
		Operational:   e.OperationalScore(sessions),
	}
}

// Aggregate combines component scores into the 0-100 index. Each
// contribution is clamped to [0, weight] before summing, so no single
// model can push the index out of range, and the result maps to a NORMAM
// level by the configured bounds.
func (e *Engine) Aggregate(scores ComponentScores, now time.Time) IndexResult {
	w := e.cfg.Weights
	contrib := Contributions{
		Efficiency:    clampContribution(w.Efficiency, scores.Efficiency.Score),
		Environmental: clampContribution(w.Environmental, scores.Environmental.Score),
		Temporal:      clampContribution(w.Temporal, scores.Temporal.Score),
		Operational:   clampContribution(w.Operational, scores.Operational.Score),
	}
	index := 100 * (contrib.Efficiency + contrib.Environmental + contrib.Temporal + contrib.Operational)
	if index < 0 {
		index = 0
	}
	if index > 100 {
		index = 100
	}
	return IndexResult{
		IndexValue:    index,
		NormamLevel:   e.NormamLevel(index),
		Contributions: contrib,
		Scores:        scores,
		LowConfidence: scores.Efficiency.Insufficient || scores.Environmental.Insufficient ||
			scores.Temporal.Insufficient || scores.Operational.Insufficient,
		CalculatedAt: now,
	}
}

// ComputeIndex is ComputeScores followed by Aggregate.
func (e *Engine) ComputeIndex(vessel *types.Vessel, sessions []*types.VoyageSession, positions []*types.PositionSample, now time.Time) IndexResult {
	res := e.Aggregate(e.ComputeScores(vessel, sessions, positions, now), now)
	if e.log != nil {
		e.log.Debug("Index computed",
			"vessel_id", vessel.ID,
			"index", res.IndexValue,
			"normam_level", res.NormamLevel,
			"low_confidence", res.LowConfidence)
	}
	return res
}

func clampContribution(weight, score float64) float64 {
	c := weight * clamp01(score)
	if c < 0 {
		return 0
	}
	if c > weight {
		return weight
	}
	return c
}

// NormamLevel maps an index value to its NORMAM-23 level. Values exactly
// on a bound belong to the higher level.
func (e *Engine) NormamLevel(index float64) int {
	level := 0
	for _, bound := range e.cfg.LevelBounds {
		if index >= bound {
			level++
		}
	}
	return level
}
