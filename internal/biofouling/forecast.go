package biofouling

import (
	"math"
	"sort"
	"time"
)

// IndexPoint is one historical index observation.
type IndexPoint struct {
	At    time.Time
	Value float64
}

type ProjectedPoint struct {
	OffsetDays  int     `json:"offset_days"`
	Value       float64 `json:"value"`
	NormamLevel int     `json:"normam_level"`
}

// BoundaryCrossing is the projected date at which the index first reaches
// a NORMAM level bound above the current value.
type BoundaryCrossing struct {
	Level         int       `json:"level"`
	Boundary      float64   `json:"boundary"`
	OffsetDays    int       `json:"offset_days"`
	EstimatedDate time.Time `json:"estimated_date"`
}

type ForecastConfidence struct {
	SampleCount  int     `json:"sample_count"`
	ResidualRMSE float64 `json:"residual_rmse"`
	Model        string  `json:"model"`
	Level        string  `json:"level"`
}

type ForecastResult struct {
	Available   bool               `json:"available"`
	Reason      string             `json:"reason,omitempty"`
	BaseValue   float64            `json:"base_value"`
	BaseTime    time.Time          `json:"base_time"`
	DailyRate   float64            `json:"daily_rate"`
	Increasing  bool               `json:"increasing"`
	Projections []ProjectedPoint   `json:"projections"`
	Crossings   []BoundaryCrossing `json:"crossings"`
	Confidence  ForecastConfidence `json:"confidence"`
}

const (
	forecastModelLinear     = "linear"
	forecastModelSaturating = "saturating"
)

// trendModel fits index-vs-days and extrapolates. Both implementations
// work in days since the oldest observation.
type trendModel interface {
	name() string
	fit(xs, ys []float64) bool
	predict(x float64) float64
	// rate is the model's growth in index points per day at x.
	rate(x float64) float64
	// solve returns the x at which the model first reaches target, or
	// ok=false when it never does.
	solve(target float64) (float64, bool)
}

type linearTrend struct {
	intercept float64
	slope     float64
}

func (m *linearTrend) name() string { return forecastModelLinear }

func (m *linearTrend) fit(xs, ys []float64) bool {
	n := float64(len(xs))
	var sx, sy, sxx, sxy float64
	for i := range xs {
		sx += xs[i]
		sy += ys[i]
		sxx += xs[i] * xs[i]
		sxy += xs[i] * ys[i]
	}
	den := n*sxx - sx*sx
	if den == 0 {
		return false
	}
	m.slope = (n*sxy - sx*sy) / den
	m.intercept = (sy - m.slope*sx) / n
	return true
}

func (m *linearTrend) predict(x float64) float64 { return m.intercept + m.slope*x }
func (m *linearTrend) rate(float64) float64      { return m.slope }

func (m *linearTrend) solve(target float64) (float64, bool) {
	if m.slope <= 0 {
		return 0, false
	}
	return (target - m.intercept) / m.slope, true
}

// saturatingTrend fits v(t) = 100 - (100 - v0) * e^(-r*t), the same
// bounded-growth shape as the component models, by log-linearizing
// ln(100 - v) over t.
type saturatingTrend struct {
	v0 float64
	r  float64
}

const saturatingCeiling = 100.0

func (m *saturatingTrend) name() string { return forecastModelSaturating }

func (m *saturatingTrend) fit(xs, ys []float64) bool {
	lx := make([]float64, 0, len(xs))
	ly := make([]float64, 0, len(ys))
	for i := range ys {
		headroom := saturatingCeiling - ys[i]
		if headroom <= 0 {
			return false
		}
		lx = append(lx, xs[i])
		ly = append(ly, math.Log(headroom))
	}
	var lin linearTrend
	if !lin.fit(lx, ly) {
		return false
	}
	// ln(100-v) = ln(100-v0) - r*t
	m.r = -lin.slope
	m.v0 = saturatingCeiling - math.Exp(lin.intercept)
	return m.r > 0
}

func (m *saturatingTrend) predict(x float64) float64 {
	return saturatingCeiling - (saturatingCeiling-m.v0)*math.Exp(-m.r*x)
}

func (m *saturatingTrend) rate(x float64) float64 {
	return m.r * (saturatingCeiling - m.v0) * math.Exp(-m.r*x)
}

func (m *saturatingTrend) solve(target float64) (float64, bool) {
	if target >= saturatingCeiling || target <= m.v0 {
		return 0, false
	}
	return math.Log((saturatingCeiling-m.v0)/(saturatingCeiling-target)) / m.r, true
}

// Forecast fits the index history and projects it forward at the given
// day offsets (counted from the newest observation). It tries both trend
// shapes and keeps the one with the lower residual error.
func (e *Engine) Forecast(history []IndexPoint, horizonDays []int) ForecastResult {
	if len(history) < e.cfg.ForecastMinPoints {
		return ForecastResult{
			Available:  false,
			Reason:     "insufficient index history",
			Confidence: ForecastConfidence{SampleCount: len(history), Level: "low"},
		}
	}

	points := make([]IndexPoint, len(history))
	copy(points, history)
	sort.Slice(points, func(i, j int) bool { return points[i].At.Before(points[j].At) })

	first := points[0].At
	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	for i, p := range points {
		xs[i] = p.At.Sub(first).Hours() / 24
		ys[i] = p.Value
	}
	lastX := xs[len(xs)-1]
	if lastX <= 0 {
		return ForecastResult{
			Available:  false,
			Reason:     "index history spans no time",
			Confidence: ForecastConfidence{SampleCount: len(points), Level: "low"},
		}
	}

	model, rmse := e.selectTrend(xs, ys)
	base := points[len(points)-1]
	rate := model.rate(lastX)

	res := ForecastResult{
		Available:  true,
		BaseValue:  base.Value,
		BaseTime:   base.At,
		DailyRate:  rate,
		Increasing: rate > 0,
		Confidence: ForecastConfidence{
			SampleCount:  len(points),
			ResidualRMSE: rmse,
			Model:        model.name(),
			Level:        confidenceLevel(len(points), rmse),
		},
	}

	for _, d := range horizonDays {
		v := model.predict(lastX + float64(d))
		if v < 0 {
			v = 0
		}
		if v > 100 {
			v = 100
		}
		res.Projections = append(res.Projections, ProjectedPoint{
			OffsetDays:  d,
			Value:       v,
			NormamLevel: e.NormamLevel(v),
		})
	}

	if res.Increasing {
		for i, bound := range e.cfg.LevelBounds {
			if base.Value >= bound {
				continue
			}
			x, ok := model.solve(bound)
			if !ok {
				continue
			}
			offset := x - lastX
			if offset <= 0 {
				offset = 0
			}
			days := int(math.Ceil(offset))
			res.Crossings = append(res.Crossings, BoundaryCrossing{
				Level:         i + 1,
				Boundary:      bound,
				OffsetDays:    days,
				EstimatedDate: base.At.AddDate(0, 0, days),
			})
		}
	}

	if e.log != nil {
		e.log.Debug("Forecast fitted",
			"model", res.Confidence.Model,
			"samples", res.Confidence.SampleCount,
			"rmse", res.Confidence.ResidualRMSE,
			"daily_rate", res.DailyRate)
	}
	return res
}

func (e *Engine) selectTrend(xs, ys []float64) (trendModel, float64) {
	lin := &linearTrend{}
	lin.fit(xs, ys)
	best := trendModel(lin)
	bestRMSE := residualRMSE(lin, xs, ys)

	sat := &saturatingTrend{}
	if sat.fit(xs, ys) {
		if r := residualRMSE(sat, xs, ys); r < bestRMSE {
			best, bestRMSE = sat, r
		}
	}
	return best, bestRMSE
}

func residualRMSE(m trendModel, xs, ys []float64) float64 {
	var sse float64
	for i := range xs {
		d := ys[i] - m.predict(xs[i])
		sse += d * d
	}
	return math.Sqrt(sse / float64(len(xs)))
}

func confidenceLevel(n int, rmse float64) string {
	switch {
	case n >= 6 && rmse < 2:
		return "high"
	case n >= 4 && rmse < 5:
		return "medium"
	default:
		return "low"
	}
}
