package biofouling

import (
	"testing"
	"time"

	"github.com/vesselwatch/biofouling-backend/internal/types"
)

func TestTemporalScoreMonotonicAndBounded(t *testing.T) {
	engine := newTestEngine(t)
	now := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)

	prev := -1.0
	for _, days := range []int{0, 10, 50, 100, 200, 500, 2000, 10000} {
		cleaned := now.AddDate(0, 0, -days)
		vessel := &types.Vessel{LastCleaningDate: &cleaned}
		score := engine.TemporalScore(vessel, now)
		if score.Score < prev {
			t.Fatalf("temporal score decreased at %d days: %v < %v", days, score.Score, prev)
		}
		if score.Score < 0 || score.Score >= 1 {
			t.Fatalf("temporal score at %d days out of [0,1): %v", days, score.Score)
		}
		prev = score.Score
	}
}

func TestTemporalScoreUnknownCleaningUsesDefault(t *testing.T) {
	engine := newTestEngine(t)
	now := time.Now()

	unknown := engine.TemporalScore(&types.Vessel{}, now)
	if !unknown.Insufficient {
		t.Fatalf("expected insufficient flag for unknown cleaning date")
	}

	cleaned := now.AddDate(0, 0, -engine.Config().DefaultDaysSinceCleaning)
	known := engine.TemporalScore(&types.Vessel{LastCleaningDate: &cleaned}, now)
	if diff := unknown.Score - known.Score; diff > 0.01 || diff < -0.01 {
		t.Fatalf("default-age score %v differs from %d-day score %v", unknown.Score, engine.Config().DefaultDaysSinceCleaning, known.Score)
	}
}

func TestEnvironmentalScoreZonesAndGapCap(t *testing.T) {
	engine := newTestEngine(t)
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	track := func(lat float64, gapHours float64, n int) []*types.PositionSample {
		out := make([]*types.PositionSample, n)
		for i := range out {
			out[i] = &types.PositionSample{
				Timestamp: base.Add(time.Duration(float64(i) * gapHours * float64(time.Hour))),
				Latitude:  lat,
			}
		}
		return out
	}

	tropical := engine.EnvironmentalScore(track(10, 4, 60))
	temperate := engine.EnvironmentalScore(track(50, 4, 60))
	if tropical.Score <= temperate.Score {
		t.Fatalf("tropical exposure %v should outgrow temperate %v", tropical.Score, temperate.Score)
	}

	// a 48h reporting outage must not be credited beyond the cap
	capped := engine.ExposureHours(track(10, 48, 3))
	if got := capped[types.WaterZoneTropical]; got != 2*engine.Config().MaxPositionGapHours {
		t.Fatalf("capped exposure = %v hours, want %v", got, 2*engine.Config().MaxPositionGapHours)
	}

	empty := engine.EnvironmentalScore(nil)
	if !empty.Insufficient || empty.Score != 0 {
		t.Fatalf("no positions should degrade to flagged zero, got %+v", empty)
	}
}

func TestWaterZoneClassification(t *testing.T) {
	cases := []struct {
		lat  float64
		want string
	}{
		{0, types.WaterZoneTropical},
		{19.9, types.WaterZoneTropical},
		{-19.9, types.WaterZoneTropical},
		{20, types.WaterZoneSubtropical},
		{-34.9, types.WaterZoneSubtropical},
		{35, types.WaterZoneTemperate},
		{-60, types.WaterZoneTemperate},
	}
	for _, tc := range cases {
		p := &types.PositionSample{Latitude: tc.lat}
		if got := p.WaterZone(); got != tc.want {
			t.Fatalf("WaterZone(lat=%v) = %q, want %q", tc.lat, got, tc.want)
		}
	}
}

func fuel(v float64) *float64 { return &v }

func TestEfficiencyScore(t *testing.T) {
	engine := newTestEngine(t)
	vessel := &types.Vessel{VesselClass: types.VesselClassAframax}
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	session := func(fuelTons *float64) *types.VoyageSession {
		return &types.VoyageSession{
			StartDate:        base,
			EndDate:          base.Add(24 * time.Hour),
			DurationHours:    24,
			DistanceNM:       340,
			AvgSpeed:         14.5,
			Displacement:     120000,
			FuelConsumedTons: fuelTons,
		}
	}

	clean := session(fuel(expectedFuelTons(engine.Config().Baselines[types.VesselClassAframax], session(nil))))
	res := engine.EfficiencyScore(vessel, []*types.VoyageSession{clean})
	if res.Insufficient {
		t.Fatalf("usable session marked insufficient")
	}
	if res.Score != 0 {
		t.Fatalf("burn at baseline should score 0, got %v", res.Score)
	}

	// 50% over baseline saturates the score
	heavy := session(fuel(1.5 * *clean.FuelConsumedTons))
	res = engine.EfficiencyScore(vessel, []*types.VoyageSession{heavy})
	if res.Score < 0.99 {
		t.Fatalf("50%% excess burn should saturate, got %v", res.Score)
	}

	// sessions without fuel data are unusable
	res = engine.EfficiencyScore(vessel, []*types.VoyageSession{session(nil)})
	if !res.Insufficient || res.Score != 0 {
		t.Fatalf("expected flagged zero without fuel data, got %+v", res)
	}

	// unknown class has no baseline
	res = engine.EfficiencyScore(&types.Vessel{VesselClass: "Panamax"}, []*types.VoyageSession{clean})
	if !res.Insufficient {
		t.Fatalf("unknown vessel class should degrade to flagged zero")
	}
}

func TestOperationalScore(t *testing.T) {
	engine := newTestEngine(t)
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	session := func(startHour, hours, speed float64) *types.VoyageSession {
		return &types.VoyageSession{
			StartDate:     base.Add(time.Duration(startHour) * time.Hour),
			EndDate:       base.Add(time.Duration(startHour+hours) * time.Hour),
			DurationHours: hours,
			AvgSpeed:      speed,
		}
	}

	// half the window underway
	res := engine.OperationalScore([]*types.VoyageSession{
		session(0, 50, 14),
		session(50, 50, 0.2), // drifting
	})
	if res.Insufficient {
		t.Fatalf("unexpected insufficient flag")
	}
	if res.Score < 0.45 || res.Score > 0.55 {
		t.Fatalf("half-idle window should score near 0.5, got %v", res.Score)
	}

	// fully underway
	res = engine.OperationalScore([]*types.VoyageSession{session(0, 100, 14)})
	if res.Score > 0.01 {
		t.Fatalf("fully underway should score near 0, got %v", res.Score)
	}

	res = engine.OperationalScore(nil)
	if !res.Insufficient || res.Score != 0.5 {
		t.Fatalf("no sessions should degrade to flagged 0.5, got %+v", res)
	}
}
