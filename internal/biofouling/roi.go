package biofouling

import (
	"sort"

	"github.com/vesselwatch/biofouling-backend/internal/types"
)

const (
	RecommendationCleanNow = "clean_now"
	RecommendationDefer    = "defer"
	RecommendationMonitor  = "monitor"
)

type ROIResult struct {
	Available               bool     `json:"available"`
	Reason                  string   `json:"reason,omitempty"`
	CurrentIndex            float64  `json:"current_index"`
	CurrentDailyPenaltyCost float64  `json:"current_daily_penalty_cost"`
	ProjectedPenaltyCost    float64  `json:"projected_penalty_cost"`
	HorizonDays             int      `json:"horizon_days"`
	CleaningCost            float64  `json:"cleaning_cost"`
	FuelPricePerTon         float64  `json:"fuel_price_per_ton"`
	BreakEvenDays           *int     `json:"break_even_days,omitempty"`
	Recommendation          string   `json:"recommendation"`
	EstimatedHorizonSavings *float64 `json:"estimated_horizon_savings,omitempty"`
}

// ComputeROI weighs the cost of a hull cleaning against the fuel penalty
// of deferring it. The penalty accrues day by day along the forecast
// trajectory when one is available, otherwise at the current index held
// constant. Break-even is the first day the accumulated penalty covers
// the cleaning cost.
func (e *Engine) ComputeROI(current *types.BiofoulingIndex, fuelPricePerTon, cleaningCost float64, fc *ForecastResult) ROIResult {
	if current == nil {
		return ROIResult{Available: false, Reason: "no index evaluation on record"}
	}
	if fuelPricePerTon <= 0 || cleaningCost <= 0 {
		return ROIResult{Available: false, Reason: "fuel price and cleaning cost must be positive"}
	}

	r := e.cfg.ROI
	traj := newPenaltyTrajectory(current.IndexValue, fc)

	dailyAt := func(day int) float64 {
		return e.dailyPenaltyCost(traj.indexAt(day), fuelPricePerTon)
	}

	res := ROIResult{
		Available:               true,
		CurrentIndex:            current.IndexValue,
		CurrentDailyPenaltyCost: dailyAt(0),
		HorizonDays:             r.HorizonDays,
		CleaningCost:            cleaningCost,
		FuelPricePerTon:         fuelPricePerTon,
	}

	var cumulative float64
	for day := 1; day <= r.MaxBreakEvenSearchDays; day++ {
		cumulative += dailyAt(day)
		if day == r.HorizonDays {
			res.ProjectedPenaltyCost = cumulative
		}
		if res.BreakEvenDays == nil && cumulative >= cleaningCost {
			d := day
			res.BreakEvenDays = &d
		}
		if res.BreakEvenDays != nil && day >= r.HorizonDays {
			break
		}
	}
	if res.ProjectedPenaltyCost > 0 {
		savings := res.ProjectedPenaltyCost - cleaningCost
		res.EstimatedHorizonSavings = &savings
	}

	worsening := fc != nil && fc.Available && fc.Increasing
	switch {
	case res.BreakEvenDays != nil && *res.BreakEvenDays <= r.CleanNowBreakEvenDays:
		res.Recommendation = RecommendationCleanNow
	case res.CurrentDailyPenaltyCost == 0 && !worsening:
		res.Recommendation = RecommendationMonitor
	case res.BreakEvenDays == nil:
		res.Recommendation = RecommendationMonitor
	default:
		res.Recommendation = RecommendationDefer
	}
	return res
}

// dailyPenaltyCost is the extra fuel cost per day at a given index:
// PenaltyPerPoint of the base daily burn per index point above the
// penalty-free baseline. A freshly cleaned hull sits below the baseline
// and pays nothing.
func (e *Engine) dailyPenaltyCost(index, fuelPricePerTon float64) float64 {
	r := e.cfg.ROI
	over := index - r.CleanIndexBaseline
	if over <= 0 {
		return 0
	}
	return r.AvgDailyFuelTons * r.PenaltyPerPoint * over * fuelPricePerTon
}

// penaltyTrajectory interpolates the projected index over day offsets.
// With no usable forecast, or a non-increasing one, the index holds at
// its current value; a worsening index never improves on its own.
type penaltyTrajectory struct {
	offsets []int
	values  []float64
}

func newPenaltyTrajectory(current float64, fc *ForecastResult) *penaltyTrajectory {
	t := &penaltyTrajectory{offsets: []int{0}, values: []float64{current}}
	if fc == nil || !fc.Available || !fc.Increasing {
		return t
	}
	pts := make([]ProjectedPoint, 0, len(fc.Projections))
	for _, p := range fc.Projections {
		if p.OffsetDays > 0 {
			pts = append(pts, p)
		}
	}
	sort.Slice(pts, func(i, j int) bool { return pts[i].OffsetDays < pts[j].OffsetDays })
	last := current
	for _, p := range pts {
		v := p.Value
		if v < last {
			v = last
		}
		t.offsets = append(t.offsets, p.OffsetDays)
		t.values = append(t.values, v)
		last = v
	}
	return t
}

func (t *penaltyTrajectory) indexAt(day int) float64 {
	n := len(t.offsets)
	if day <= 0 {
		return t.values[0]
	}
	if day >= t.offsets[n-1] {
		return t.values[n-1]
	}
	i := sort.SearchInts(t.offsets, day)
	if t.offsets[i] == day {
		return t.values[i]
	}
	lo, hi := i-1, i
	span := float64(t.offsets[hi] - t.offsets[lo])
	frac := float64(day-t.offsets[lo]) / span
	return t.values[lo] + frac*(t.values[hi]-t.values[lo])
}

// PostCleaningIndex is the index a hull settles at right after cleaning.
func (e *Engine) PostCleaningIndex() float64 { return e.cfg.ROI.PostCleaningIndex }
