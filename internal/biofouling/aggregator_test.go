package biofouling

import (
	"testing"
	"time"

	"github.com/vesselwatch/biofouling-backend/internal/types"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	engine, err := NewEngine(DefaultEngineConfig(), nil)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	return engine
}

func TestAggregateBounded(t *testing.T) {
	engine := newTestEngine(t)
	now := time.Now()

	cases := []struct {
		name   string
		scores ComponentScores
	}{
		{
			name: "all_zero",
			scores: ComponentScores{},
		},
		{
			name: "all_max",
			scores: ComponentScores{
				Efficiency:    ComponentScore{Score: 1},
				Environmental: ComponentScore{Score: 1},
				Temporal:      ComponentScore{Score: 1},
				Operational:   ComponentScore{Score: 1},
			},
		},
		{
			name: "out_of_range_inputs_clamped",
			scores: ComponentScores{
				Efficiency:    ComponentScore{Score: 7.3},
				Environmental: ComponentScore{Score: -2},
				Temporal:      ComponentScore{Score: 1.01},
				Operational:   ComponentScore{Score: 0.5},
			},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := engine.Aggregate(tc.scores, now)
			if res.IndexValue < 0 || res.IndexValue > 100 {
				t.Fatalf("index %v out of [0,100]", res.IndexValue)
			}
			if res.NormamLevel < 0 || res.NormamLevel > 4 {
				t.Fatalf("level %d out of 0..4", res.NormamLevel)
			}
			w := engine.Config().Weights
			c := res.Contributions
			if c.Efficiency < 0 || c.Efficiency > w.Efficiency ||
				c.Environmental < 0 || c.Environmental > w.Environmental ||
				c.Temporal < 0 || c.Temporal > w.Temporal ||
				c.Operational < 0 || c.Operational > w.Operational {
				t.Fatalf("contribution outside [0,weight]: %+v", c)
			}
		})
	}
}

func TestNormamLevelBands(t *testing.T) {
	engine := newTestEngine(t)

	cases := []struct {
		index float64
		want  int
	}{
		{0, 0},
		{19.99, 0},
		{20, 1}, // boundary belongs to the higher level
		{34.99, 1},
		{35, 2},
		{54.99, 2},
		{55, 3},
		{74.99, 3},
		{75, 4},
		{100, 4},
	}
	for _, tc := range cases {
		if got := engine.NormamLevel(tc.index); got != tc.want {
			t.Fatalf("NormamLevel(%v) = %d, want %d", tc.index, got, tc.want)
		}
	}
}

func TestAggregateLowConfidencePropagates(t *testing.T) {
	engine := newTestEngine(t)
	now := time.Now()

	res := engine.Aggregate(ComponentScores{
		Efficiency: ComponentScore{Score: 0, Insufficient: true},
		Temporal:   ComponentScore{Score: 0.5},
	}, now)
	if !res.LowConfidence {
		t.Fatalf("expected low confidence when a component degraded")
	}

	res = engine.Aggregate(ComponentScores{
		Efficiency:    ComponentScore{Score: 0.2},
		Environmental: ComponentScore{Score: 0.2},
		Temporal:      ComponentScore{Score: 0.2},
		Operational:   ComponentScore{Score: 0.2},
	}, now)
	if res.LowConfidence {
		t.Fatalf("unexpected low confidence with full data")
	}
}

func TestConfigValidation(t *testing.T) {
	bad := DefaultEngineConfig()
	bad.Weights.Efficiency = 0.5 // weights now sum to 1.1
	if _, err := NewEngine(bad, nil); err == nil {
		t.Fatalf("expected error for weights not summing to 1")
	}

	bad = DefaultEngineConfig()
	bad.LevelBounds = [4]float64{20, 15, 55, 75}
	if _, err := NewEngine(bad, nil); err == nil {
		t.Fatalf("expected error for non-ascending level bounds")
	}

	bad = DefaultEngineConfig()
	bad.TemporalRatePerDay = 0
	_, err := NewEngine(bad, nil)
	if err == nil {
		t.Fatalf("expected error for zero temporal rate")
	}
	if _, ok := err.(*InvalidConfigurationError); !ok {
		t.Fatalf("expected *InvalidConfigurationError, got %T", err)
	}
}

// A vessel 200 days out of cleaning, operating almost entirely idle in
// tropical waters with a heavy efficiency loss, must land at NORMAM
// level 3 or higher.
func TestHeavyFoulingScenario(t *testing.T) {
	engine := newTestEngine(t)
	now := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	cleaned := now.AddDate(0, 0, -200)
	vessel := &types.Vessel{VesselClass: types.VesselClassAframax, LastCleaningDate: &cleaned}

	// dense tropical track over the whole window
	var positions []*types.PositionSample
	for d := 0; d < 90; d++ {
		for h := 0; h < 24; h += 4 {
			positions = append(positions, &types.PositionSample{
				Timestamp: now.AddDate(0, 0, -90+d).Add(time.Duration(h) * time.Hour),
				Latitude:  5.0,
				Longitude: -30.0,
			})
		}
	}

	scores := ComponentScores{
		Efficiency:    ComponentScore{Score: 0.7}, // 35% excess burn over a 0.5 saturation
		Environmental: engine.EnvironmentalScore(positions),
		Temporal:      engine.TemporalScore(vessel, now),
		Operational:   ComponentScore{Score: 0.8},
	}
	res := engine.Aggregate(scores, now)
	if res.NormamLevel < 3 {
		t.Fatalf("expected NORMAM level >= 3, got %d (index %.2f)", res.NormamLevel, res.IndexValue)
	}
}
