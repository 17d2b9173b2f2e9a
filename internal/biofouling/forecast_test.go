package biofouling

import (
	"testing"
	"time"
)

func weeklySeries(start time.Time, values []float64) []IndexPoint {
	out := make([]IndexPoint, len(values))
	for i, v := range values {
		out[i] = IndexPoint{At: start.AddDate(0, 0, 7*i), Value: v}
	}
	return out
}

func TestForecastInsufficientHistory(t *testing.T) {
	engine := newTestEngine(t)
	start := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)

	res := engine.Forecast(weeklySeries(start, []float64{10, 12}), []int{30})
	if res.Available {
		t.Fatalf("two points should not produce a forecast")
	}
	if res.Reason == "" {
		t.Fatalf("unavailable forecast must carry a reason")
	}
}

// Four weekly observations rising toward the level-1 bound at 20 must
// project the crossing shortly after the last observation.
func TestForecastLevelOneCrossing(t *testing.T) {
	engine := newTestEngine(t)
	start := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)

	res := engine.Forecast(weeklySeries(start, []float64{10, 12, 15, 19}), []int{30, 60, 90})
	if !res.Available {
		t.Fatalf("forecast unavailable: %s", res.Reason)
	}
	if !res.Increasing || res.DailyRate <= 0 {
		t.Fatalf("rising series must fit an increasing trend, rate %v", res.DailyRate)
	}

	var crossing *BoundaryCrossing
	for i := range res.Crossings {
		if res.Crossings[i].Level == 1 {
			crossing = &res.Crossings[i]
		}
	}
	if crossing == nil {
		t.Fatalf("expected a level-1 crossing, got %+v", res.Crossings)
	}
	if crossing.OffsetDays < 0 || crossing.OffsetDays > 14 {
		t.Fatalf("crossing offset %d days, want within two weeks of the last observation", crossing.OffsetDays)
	}
	wantDate := res.BaseTime.AddDate(0, 0, crossing.OffsetDays)
	if !crossing.EstimatedDate.Equal(wantDate) {
		t.Fatalf("crossing date %v, want %v", crossing.EstimatedDate, wantDate)
	}
}

func TestForecastNonIncreasingHasNoCrossings(t *testing.T) {
	engine := newTestEngine(t)
	start := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name   string
		values []float64
	}{
		{name: "flat", values: []float64{30, 30, 30, 30}},
		{name: "declining", values: []float64{40, 35, 31, 28}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := engine.Forecast(weeklySeries(start, tc.values), []int{30, 60})
			if !res.Available {
				t.Fatalf("forecast unavailable: %s", res.Reason)
			}
			if res.Increasing {
				t.Fatalf("non-rising series fitted as increasing, rate %v", res.DailyRate)
			}
			if len(res.Crossings) != 0 {
				t.Fatalf("non-increasing trend must project no crossings, got %+v", res.Crossings)
			}
		})
	}
}

func TestForecastProjectionsClamped(t *testing.T) {
	engine := newTestEngine(t)
	start := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)

	res := engine.Forecast(weeklySeries(start, []float64{70, 80, 90, 95}), []int{30, 180, 365})
	if !res.Available {
		t.Fatalf("forecast unavailable: %s", res.Reason)
	}
	for _, p := range res.Projections {
		if p.Value < 0 || p.Value > 100 {
			t.Fatalf("projection at +%dd out of range: %v", p.OffsetDays, p.Value)
		}
		if p.NormamLevel < 0 || p.NormamLevel > 4 {
			t.Fatalf("projected level out of range: %d", p.NormamLevel)
		}
	}
}

func TestForecastConfidenceLevels(t *testing.T) {
	engine := newTestEngine(t)
	start := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)

	// six points on an exact line fit with zero residual
	res := engine.Forecast(weeklySeries(start, []float64{10, 12, 14, 16, 18, 20}), []int{30})
	if res.Confidence.Level != "high" {
		t.Fatalf("clean six-point series should be high confidence, got %q (rmse %v)", res.Confidence.Level, res.Confidence.ResidualRMSE)
	}

	res = engine.Forecast(weeklySeries(start, []float64{10, 30, 12, 35}), []int{30})
	if res.Confidence.Level == "high" {
		t.Fatalf("noisy four-point series should not be high confidence")
	}
}
