package services

import (
	"math"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/vesselwatch/biofouling-backend/internal/biofouling"
	"github.com/vesselwatch/biofouling-backend/internal/types"
)

func trendVessel(name, class string) *types.Vessel {
	return &types.Vessel{ID: uuid.New(), Name: name, VesselClass: class}
}

func trendSnapshot(v *types.Vessel, current, previous float64) vesselTrendSnapshot {
	now := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	s := vesselTrendSnapshot{
		Vessel:  v,
		Current: &types.BiofoulingIndex{VesselID: v.ID, IndexValue: current, CalculatedAt: now},
	}
	if previous >= 0 {
		s.Previous = &types.BiofoulingIndex{VesselID: v.ID, IndexValue: previous, CalculatedAt: now.AddDate(0, 0, -40)}
	}
	return s
}

func TestBuildFleetTrends(t *testing.T) {
	snapshots := []vesselTrendSnapshot{
		trendSnapshot(trendVessel("MT Atlantico", types.VesselClassAframax), 40, 30),
		trendSnapshot(trendVessel("MT Pacifico", types.VesselClassAframax), 20, 30),
		trendSnapshot(trendVessel("MT Indico", types.VesselClassSuezmax), 60, 50),
		// never evaluated, must not skew the averages
		{Vessel: trendVessel("MT Artico", types.VesselClassSuezmax)},
	}

	trends := buildFleetTrends(snapshots, 30)
	if trends.EvaluatedVessels != 3 {
		t.Fatalf("evaluated vessels %d, want 3", trends.EvaluatedVessels)
	}
	if got := trends.FleetAggregate.CurrentAvg; math.Abs(got-40) > 1e-9 {
		t.Fatalf("fleet current avg %.2f, want 40", got)
	}
	if trends.FleetAggregate.PreviousPeriodAvg == nil {
		t.Fatalf("previous period average missing")
	}
	if got := *trends.FleetAggregate.PreviousPeriodAvg; math.Abs(got-110.0/3) > 1e-9 {
		t.Fatalf("previous avg %.2f, want %.2f", got, 110.0/3)
	}
	// 40 vs 36.67 is a worsening of more than two points
	if trends.FleetAggregate.Trend != "worsening" {
		t.Fatalf("fleet trend %q, want worsening", trends.FleetAggregate.Trend)
	}

	if len(trends.ByClass) != 2 {
		t.Fatalf("class groups %d, want 2", len(trends.ByClass))
	}
	aframax := trends.ByClass[0]
	if aframax.Class != types.VesselClassAframax {
		t.Fatalf("first class %q, want aframax group", aframax.Class)
	}
	if aframax.VesselCount != 2 || math.Abs(aframax.AvgIndex-30) > 1e-9 {
		t.Fatalf("aframax group %+v", aframax)
	}
	if aframax.BestPerformer != "MT Pacifico" || aframax.WorstPerformer != "MT Atlantico" {
		t.Fatalf("aframax performers best=%q worst=%q", aframax.BestPerformer, aframax.WorstPerformer)
	}
	// class avg stayed at 30, within the stable band
	if aframax.Trend != "stable" {
		t.Fatalf("aframax trend %q, want stable", aframax.Trend)
	}
}

func TestBuildFleetTrendsWithoutHistory(t *testing.T) {
	trends := buildFleetTrends([]vesselTrendSnapshot{
		trendSnapshot(trendVessel("MT Atlantico", types.VesselClassAframax), 25, -1),
	}, 30)
	if trends.FleetAggregate.PreviousPeriodAvg != nil || trends.FleetAggregate.ChangePct != nil {
		t.Fatalf("no prior period, comparison fields must be empty: %+v", trends.FleetAggregate)
	}
	if trends.FleetAggregate.Trend != "stable" {
		t.Fatalf("trend without a prior period must be stable, got %q", trends.FleetAggregate.Trend)
	}
}

func TestBuildBenchmark(t *testing.T) {
	ref := trendSnapshot(trendVessel("MT Atlantico", types.VesselClassAframax), 30, -1)
	peers := []vesselTrendSnapshot{
		trendSnapshot(trendVessel("MT Pacifico", types.VesselClassAframax), 20, -1),
		trendSnapshot(trendVessel("MT Indico", types.VesselClassAframax), 50, -1),
		trendSnapshot(trendVessel("MT Artico", types.VesselClassAframax), 60, -1),
	}

	benchmark, err := buildBenchmark(ref, peers)
	if err != nil {
		t.Fatalf("buildBenchmark: %v", err)
	}
	if benchmark.ComparisonGroup.VesselCount != 4 {
		t.Fatalf("group size %d, want 4", benchmark.ComparisonGroup.VesselCount)
	}
	if got := benchmark.ComparisonGroup.AvgIndex; math.Abs(got-40) > 1e-9 {
		t.Fatalf("group avg %.2f, want 40", got)
	}
	if got := benchmark.ComparisonGroup.MedianIndex; math.Abs(got-40) > 1e-9 {
		t.Fatalf("group median %.2f, want 40", got)
	}
	// one peer is cleaner, so the reference ranks second of four
	if benchmark.Ranking.Position != 2 {
		t.Fatalf("position %d, want 2", benchmark.Ranking.Position)
	}
	if benchmark.Ranking.Percentile != 50 {
		t.Fatalf("percentile %d, want 50", benchmark.Ranking.Percentile)
	}
	if len(benchmark.Peers) != 3 {
		t.Fatalf("peer comparisons %d, want 3", len(benchmark.Peers))
	}
	if benchmark.Peers[0].Name != "MT Pacifico" || math.Abs(benchmark.Peers[0].Delta+10) > 1e-9 {
		t.Fatalf("cleanest peer first with delta -10, got %+v", benchmark.Peers[0])
	}
	if benchmark.Peers[2].Name != "MT Artico" || math.Abs(benchmark.Peers[2].Delta-30) > 1e-9 {
		t.Fatalf("foulest peer last with delta +30, got %+v", benchmark.Peers[2])
	}
}

func TestBuildBenchmarkRequiresHistory(t *testing.T) {
	ref := vesselTrendSnapshot{Vessel: trendVessel("MT Atlantico", types.VesselClassAframax)}
	_, err := buildBenchmark(ref, nil)
	if err == nil {
		t.Fatalf("expected an error for a vessel without evaluations")
	}
	insufficient, ok := err.(*biofouling.InsufficientDataError)
	if !ok {
		t.Fatalf("expected *biofouling.InsufficientDataError, got %T", err)
	}
	if insufficient.Required != 1 {
		t.Fatalf("required samples %d, want 1", insufficient.Required)
	}
}
