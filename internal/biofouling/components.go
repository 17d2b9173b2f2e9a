package biofouling

import (
	"math"
	"sort"
	"time"

	"github.com/vesselwatch/biofouling-backend/internal/types"
)

// ComponentScore is a raw model output in [0,1]. Insufficient marks scores
// that fell back to a default because too little data was usable; the
// aggregate carries the flag forward as LowConfidence.
type ComponentScore struct {
	Score        float64
	Insufficient bool
	Samples      int
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// EfficiencyScore compares observed fuel burn against the clean-hull
// baseline of the vessel's class. Sessions without distance, duration,
// speed, displacement or a fuel figure are skipped.
func (e *Engine) EfficiencyScore(vessel *types.Vessel, sessions []*types.VoyageSession) ComponentScore {
	baseline, ok := e.cfg.Baselines[vessel.VesselClass]
	if !ok {
		return ComponentScore{Score: 0, Insufficient: true}
	}

	var lossSum float64
	var usable int
	for _, s := range sessions {
		if s.DistanceNM <= 0 || s.DurationHours <= 0 || s.AvgSpeed <= 0 || s.Displacement <= 0 {
			continue
		}
		if s.FuelConsumedTons == nil || *s.FuelConsumedTons <= 0 {
			continue
		}
		expected := expectedFuelTons(baseline, s)
		if expected <= 0 {
			continue
		}
		loss := *s.FuelConsumedTons/expected - 1
		if loss < 0 {
			loss = 0
		}
		lossSum += loss
		usable++
	}
	if usable == 0 {
		return ComponentScore{Score: 0, Insufficient: true}
	}
	mean := lossSum / float64(usable)
	return ComponentScore{
		Score:   clamp01(mean / e.cfg.EfficiencyLossSaturation),
		Samples: usable,
	}
}

// expectedFuelTons is the admiralty-relation burn for one session:
// displacement^(2/3) * speed^3 / C, scaled to the session duration, with a
// small penalty for off-even trim.
func expectedFuelTons(b ClassBaseline, s *types.VoyageSession) float64 {
	daily := math.Pow(s.Displacement, 2.0/3.0) * math.Pow(s.AvgSpeed, 3) / b.AdmiraltyCoeff
	trimPenalty := 1 + 0.05*math.Max(0, math.Abs(s.Trim)-0.5)
	return daily * (s.DurationHours / 24) * trimPenalty
}

// EnvironmentalScore saturates with growth-weighted exposure hours:
// 1 - e^(-W/EnvSaturationHours), where W sums hours per water zone times
// that zone's growth rate.
func (e *Engine) EnvironmentalScore(positions []*types.PositionSample) ComponentScore {
	if len(positions) == 0 {
		return ComponentScore{Score: 0, Insufficient: true}
	}
	hours := e.ExposureHours(positions)
	var weighted float64
	for zone, h := range hours {
		rate, ok := e.cfg.ZoneGrowthRates[zone]
		if !ok {
			rate = e.cfg.ZoneGrowthRates[types.WaterZoneTemperate]
		}
		weighted += rate * h
	}
	return ComponentScore{
		Score:   1 - math.Exp(-weighted/e.cfg.EnvSaturationHours),
		Samples: len(positions),
	}
}

// ExposureHours buckets the time between consecutive position samples by
// the water zone of the earlier sample. Gaps beyond MaxPositionGapHours
// are credited only up to the cap.
func (e *Engine) ExposureHours(positions []*types.PositionSample) map[string]float64 {
	sorted := make([]*types.PositionSample, len(positions))
	copy(sorted, positions)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Timestamp.Before(sorted[j].Timestamp) })

	hours := make(map[string]float64, 3)
	for i := 0; i+1 < len(sorted); i++ {
		gap := sorted[i+1].Timestamp.Sub(sorted[i].Timestamp).Hours()
		if gap <= 0 {
			continue
		}
		if gap > e.cfg.MaxPositionGapHours {
			gap = e.cfg.MaxPositionGapHours
		}
		hours[sorted[i].WaterZone()] += gap
	}
	return hours
}

// TemporalScore grows with days since the last hull cleaning:
// 1 - e^(-k*days). Vessels with no cleaning on record are scored at the
// conservative default age rather than treated as clean.
func (e *Engine) TemporalScore(vessel *types.Vessel, now time.Time) ComponentScore {
	days, known := vessel.DaysSinceCleaning(now)
	if !known {
		days = e.cfg.DefaultDaysSinceCleaning
	}
	if days < 0 {
		days = 0
	}
	return ComponentScore{
		Score:        1 - math.Exp(-e.cfg.TemporalRatePerDay*float64(days)),
		Insufficient: !known,
		Samples:      days,
	}
}

// OperationalScore is the idle fraction of the observation window. Static
// vessels foul faster than vessels steaming at speed, so more idle time
// means a higher score. No sessions at all yields a flagged neutral 0.5.
func (e *Engine) OperationalScore(sessions []*types.VoyageSession) ComponentScore {
	if len(sessions) == 0 {
		return ComponentScore{Score: 0.5, Insufficient: true}
	}

	windowStart := sessions[0].StartDate
	windowEnd := sessions[0].EndDate
	var underway float64
	for _, s := range sessions {
		if s.StartDate.Before(windowStart) {
			windowStart = s.StartDate
		}
		if s.EndDate.After(windowEnd) {
			windowEnd = s.EndDate
		}
		if s.AvgSpeed >= e.cfg.IdleSpeedThresholdKn && s.DurationHours > 0 {
			underway += s.DurationHours
		}
	}
	window := windowEnd.Sub(windowStart).Hours()
	if window <= 0 {
		return ComponentScore{Score: 0.5, Insufficient: true, Samples: len(sessions)}
	}
	return ComponentScore{
		Score:   clamp01(1 - underway/window),
		Samples: len(sessions),
	}
}
