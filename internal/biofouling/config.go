package biofouling

import (
	"fmt"
	"math"

	"github.com/vesselwatch/biofouling-backend/internal/types"
)

// Weights for the four index components. Must sum to 1.
type Weights struct {
	Efficiency    float64
	Environmental float64
	Temporal      float64
	Operational   float64
}

// ClassBaseline is the clean-hull reference for a vessel class.
// ExpectedDailyFuelTons follows the admiralty relation
// displacement^(2/3) * speed^3 / AdmiraltyCoeff.
type ClassBaseline struct {
	EconomicSpeedKn float64
	AdmiraltyCoeff  float64
}

// ROIConfig holds the cleaning cost/benefit constants. The penalty curve
// comes from fleet measurements: each index point above CleanIndexBaseline
// adds PenaltyPerPoint of the base daily burn.
type ROIConfig struct {
	AvgDailyFuelTons       float64
	PenaltyPerPoint        float64
	CleanIndexBaseline     float64
	PostCleaningIndex      float64
	HorizonDays            int
	CleanNowBreakEvenDays  int
	MaxBreakEvenSearchDays int
}

// EngineConfig carries every tunable of the scoring, forecast and ROI
// models. Validated once at startup; evaluations never re-validate.
type EngineConfig struct {
	Weights Weights

	// LevelBounds are the lower bounds of NORMAM levels 1..4. A value
	// exactly on a bound maps to the higher level.
	LevelBounds [4]float64

	// ZoneGrowthRates weight hours of exposure per water zone
	// (index growth multipliers, tropical highest).
	ZoneGrowthRates map[string]float64

	// EnvSaturationHours is the growth-weighted hour count at which the
	// environmental score reaches 1-1/e.
	EnvSaturationHours float64

	// TemporalRatePerDay is k in 1-e^(-k*days) for the temporal score.
	TemporalRatePerDay float64

	// DefaultDaysSinceCleaning stands in when a vessel has no cleaning
	// on record; chosen conservative rather than optimistic.
	DefaultDaysSinceCleaning int

	// EfficiencyLossSaturation is the excess-burn ratio mapped to a full
	// efficiency score of 1 (0.5 = burning 50% over the clean baseline).
	EfficiencyLossSaturation float64

	// IdleSpeedThresholdKn separates idle drift from underway time.
	IdleSpeedThresholdKn float64

	// MaxPositionGapHours caps the credited gap between two consecutive
	// position samples, so reporting outages do not inflate exposure.
	MaxPositionGapHours float64

	Baselines map[string]ClassBaseline

	ForecastMinPoints int

	ROI ROIConfig
}

func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		Weights: Weights{
			Efficiency:    0.40,
			Environmental: 0.30,
			Temporal:      0.20,
			Operational:   0.10,
		},
		LevelBounds: [4]float64{20, 35, 55, 75},
		ZoneGrowthRates: map[string]float64{
			types.WaterZoneTropical:    2.5,
			types.WaterZoneSubtropical: 1.5,
			types.WaterZoneTemperate:   0.8,
		},
		EnvSaturationHours:       720,
		TemporalRatePerDay:       0.008,
		DefaultDaysSinceCleaning: 180,
		EfficiencyLossSaturation: 0.5,
		IdleSpeedThresholdKn:     1.0,
		MaxPositionGapHours:      6,
		Baselines: map[string]ClassBaseline{
			types.VesselClassAframax: {EconomicSpeedKn: 14.5, AdmiraltyCoeff: 148000},
			types.VesselClassSuezmax: {EconomicSpeedKn: 14.0, AdmiraltyCoeff: 135000},
			types.VesselClassMR2:     {EconomicSpeedKn: 14.0, AdmiraltyCoeff: 133000},
			types.VesselClassGas7k:   {EconomicSpeedKn: 15.0, AdmiraltyCoeff: 90000},
		},
		ForecastMinPoints: 3,
		ROI: ROIConfig{
			AvgDailyFuelTons:       50,
			PenaltyPerPoint:        0.003,
			CleanIndexBaseline:     20,
			PostCleaningIndex:      5,
			HorizonDays:            365,
			CleanNowBreakEvenDays:  30,
			MaxBreakEvenSearchDays: 1095,
		},
	}
}

func (c EngineConfig) Validate() error {
	sum := c.Weights.Efficiency + c.Weights.Environmental + c.Weights.Temporal + c.Weights.Operational
	if math.Abs(sum-1.0) > 1e-9 {
		return &InvalidConfigurationError{Reason: fmt.Sprintf("component weights sum to %v, want 1", sum)}
	}
	for _, w := range []float64{c.Weights.Efficiency, c.Weights.Environmental, c.Weights.Temporal, c.Weights.Operational} {
		if w < 0 {
			return &InvalidConfigurationError{Reason: "component weights must be non-negative"}
		}
	}
	prev := 0.0
	for i, b := range c.LevelBounds {
		if b <= prev || b >= 100 {
			return &InvalidConfigurationError{Reason: fmt.Sprintf("level bound %d (%v) must be ascending within (0,100)", i+1, b)}
		}
		prev = b
	}
	if c.EnvSaturationHours <= 0 || c.TemporalRatePerDay <= 0 || c.EfficiencyLossSaturation <= 0 {
		return &InvalidConfigurationError{Reason: "saturation constants must be positive"}
	}
	if c.DefaultDaysSinceCleaning <= 0 {
		return &InvalidConfigurationError{Reason: "default days since cleaning must be positive"}
	}
	if c.MaxPositionGapHours <= 0 {
		return &InvalidConfigurationError{Reason: "max position gap must be positive"}
	}
	if len(c.Baselines) == 0 {
		return &InvalidConfigurationError{Reason: "at least one class baseline required"}
	}
	for class, b := range c.Baselines {
		if b.EconomicSpeedKn <= 0 || b.AdmiraltyCoeff <= 0 {
			return &InvalidConfigurationError{Reason: fmt.Sprintf("baseline for class %q must have positive constants", class)}
		}
	}
	if c.ForecastMinPoints < 3 {
		return &InvalidConfigurationError{Reason: "forecast requires at least 3 points"}
	}
	r := c.ROI
	if r.AvgDailyFuelTons <= 0 || r.PenaltyPerPoint <= 0 {
		return &InvalidConfigurationError{Reason: "ROI fuel constants must be positive"}
	}
	if r.HorizonDays <= 0 || r.CleanNowBreakEvenDays <= 0 || r.MaxBreakEvenSearchDays < r.HorizonDays {
		return &InvalidConfigurationError{Reason: "ROI horizons misconfigured"}
	}
	if r.PostCleaningIndex < 0 || r.PostCleaningIndex >= r.CleanIndexBaseline {
		return &InvalidConfigurationError{Reason: "post-cleaning index must sit below the penalty-free baseline"}
	}
	return nil
}
