package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/vesselwatch/biofouling-backend/internal/biofouling"
	"github.com/vesselwatch/biofouling-backend/internal/cache"
	"github.com/vesselwatch/biofouling-backend/internal/logger"
	"github.com/vesselwatch/biofouling-backend/internal/repos"
	"github.com/vesselwatch/biofouling-backend/internal/types"
)

const (
	fleetTrendsTTL = time.Hour
	benchmarkTTL   = 2 * time.Hour

	// trendBandPoints is the index change below which a fleet or class
	// average counts as stable.
	trendBandPoints = 2.0
)

func fleetTrendsKey(periodDays int) string {
	return fmt.Sprintf("analytics:fleet-trends:%d", periodDays)
}

func benchmarkKey(vesselID uuid.UUID) string {
	return "analytics:benchmark:" + vesselID.String()
}

type FleetAggregate struct {
	CurrentAvg        float64  `json:"current_avg"`
	PreviousPeriodAvg *float64 `json:"previous_period_avg,omitempty"`
	ChangePct         *float64 `json:"change_pct,omitempty"`
	Trend             string   `json:"trend"`
}

type ClassTrend struct {
	Class          string  `json:"class"`
	VesselCount    int     `json:"vessel_count"`
	AvgIndex       float64 `json:"avg_index"`
	Trend          string  `json:"trend"`
	BestPerformer  string  `json:"best_performer,omitempty"`
	WorstPerformer string  `json:"worst_performer,omitempty"`
}

type FleetTrends struct {
	PeriodDays       int            `json:"period_days"`
	EvaluatedVessels int            `json:"evaluated_vessels"`
	FleetAggregate   FleetAggregate `json:"fleet_aggregate"`
	ByClass          []ClassTrend   `json:"by_class"`
}

type BenchmarkReference struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	VesselClass string    `json:"vessel_class"`
	Index       float64   `json:"index"`
}

type BenchmarkGroup struct {
	VesselCount int     `json:"vessel_count"`
	AvgIndex    float64 `json:"avg_index"`
	MedianIndex float64 `json:"median_index"`
}

type BenchmarkRanking struct {
	// Position ranks the reference within its group, 1 = cleanest hull.
	Position   int `json:"position"`
	Percentile int `json:"percentile"`
}

type PeerComparison struct {
	Name  string  `json:"name"`
	Index float64 `json:"index"`
	Delta float64 `json:"delta"`
}

type VesselBenchmark struct {
	Reference       BenchmarkReference `json:"reference"`
	ComparisonGroup BenchmarkGroup     `json:"comparison_group"`
	Ranking         BenchmarkRanking   `json:"ranking"`
	Peers           []PeerComparison   `json:"peers"`
}

type AnalyticsService interface {
	// FleetTrends aggregates index evaluations over the last periodDays,
	// compared against the preceding period, fleet-wide and per class.
	FleetTrends(ctx context.Context, periodDays int) (*FleetTrends, error)
	// Benchmark ranks a vessel's latest index against its class peers.
	Benchmark(ctx context.Context, vesselID uuid.UUID) (*VesselBenchmark, error)
}

type analyticsService struct {
	log        *logger.Logger
	cache      *cache.Cache
	vesselRepo repos.VesselRepo
	indexRepo  repos.BiofoulingIndexRepo
}

func NewAnalyticsService(log *logger.Logger, c *cache.Cache, vesselRepo repos.VesselRepo, indexRepo repos.BiofoulingIndexRepo) AnalyticsService {
	serviceLog := log.With("service", "AnalyticsService")
	return &analyticsService{log: serviceLog, cache: c, vesselRepo: vesselRepo, indexRepo: indexRepo}
}

// vesselTrendSnapshot pairs a vessel with its newest evaluation in the
// analysis period and the newest one in the period before it.
type vesselTrendSnapshot struct {
	Vessel   *types.Vessel
	Current  *types.BiofoulingIndex
	Previous *types.BiofoulingIndex
}

func (as *analyticsService) FleetTrends(ctx context.Context, periodDays int) (*FleetTrends, error) {
	if periodDays <= 0 {
		periodDays = 30
	}

	key := fleetTrendsKey(periodDays)
	var cached FleetTrends
	if err := as.cache.Get(ctx, key, &cached); err == nil {
		return &cached, nil
	}

	vessels, err := as.vesselRepo.List(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list vessels: %w", err)
	}

	now := time.Now().UTC()
	periodStart := now.AddDate(0, 0, -periodDays)
	windowStart := now.AddDate(0, 0, -2*periodDays)

	snapshots := make([]vesselTrendSnapshot, 0, len(vessels))
	for _, v := range vessels {
		history, err := as.indexRepo.ListSince(ctx, nil, v.ID, windowStart)
		if err != nil {
			return nil, fmt.Errorf("failed to load index history: %w", err)
		}
		snap := vesselTrendSnapshot{Vessel: v}
		for _, h := range history {
			if h.CalculatedAt.Before(periodStart) {
				snap.Previous = h
			} else {
				snap.Current = h
			}
		}
		snapshots = append(snapshots, snap)
	}

	trends := buildFleetTrends(snapshots, periodDays)
	as.cache.Set(ctx, key, trends, fleetTrendsTTL)
	return trends, nil
}

func buildFleetTrends(snapshots []vesselTrendSnapshot, periodDays int) *FleetTrends {
	out := &FleetTrends{PeriodDays: periodDays}

	var curSum, prevSum float64
	var curN, prevN int
	byClass := make(map[string][]vesselTrendSnapshot)
	for _, s := range snapshots {
		if s.Current == nil {
			continue
		}
		curSum += s.Current.IndexValue
		curN++
		byClass[s.Vessel.VesselClass] = append(byClass[s.Vessel.VesselClass], s)
		if s.Previous != nil {
			prevSum += s.Previous.IndexValue
			prevN++
		}
	}
	out.EvaluatedVessels = curN
	if curN == 0 {
		out.FleetAggregate.Trend = "stable"
		return out
	}

	curAvg := curSum / float64(curN)
	out.FleetAggregate.CurrentAvg = curAvg
	out.FleetAggregate.Trend = "stable"
	if prevN > 0 {
		prevAvg := prevSum / float64(prevN)
		out.FleetAggregate.PreviousPeriodAvg = &prevAvg
		if prevAvg > 0 {
			pct := (curAvg - prevAvg) / prevAvg * 100
			out.FleetAggregate.ChangePct = &pct
		}
		out.FleetAggregate.Trend = classifyTrend(curAvg, prevAvg)
	}

	classes := make([]string, 0, len(byClass))
	for class := range byClass {
		classes = append(classes, class)
	}
	sort.Strings(classes)
	for _, class := range classes {
		members := byClass[class]
		ct := ClassTrend{Class: class, VesselCount: len(members), Trend: "stable"}

		var sum, prevClassSum float64
		var prevClassN int
		best, worst := members[0], members[0]
		for _, m := range members {
			sum += m.Current.IndexValue
			if m.Current.IndexValue < best.Current.IndexValue {
				best = m
			}
			if m.Current.IndexValue > worst.Current.IndexValue {
				worst = m
			}
			if m.Previous != nil {
				prevClassSum += m.Previous.IndexValue
				prevClassN++
			}
		}
		ct.AvgIndex = sum / float64(len(members))
		ct.BestPerformer = best.Vessel.Name
		ct.WorstPerformer = worst.Vessel.Name
		if prevClassN > 0 {
			ct.Trend = classifyTrend(ct.AvgIndex, prevClassSum/float64(prevClassN))
		}
		out.ByClass = append(out.ByClass, ct)
	}
	return out
}

func classifyTrend(current, previous float64) string {
	switch delta := current - previous; {
	case delta > trendBandPoints:
		return "worsening"
	case delta < -trendBandPoints:
		return "improving"
	default:
		return "stable"
	}
}

func (as *analyticsService) Benchmark(ctx context.Context, vesselID uuid.UUID) (*VesselBenchmark, error) {
	key := benchmarkKey(vesselID)
	var cached VesselBenchmark
	if err := as.cache.Get(ctx, key, &cached); err == nil {
		return &cached, nil
	}

	reference, err := as.vesselRepo.GetByID(ctx, nil, vesselID)
	if err != nil {
		return nil, fmt.Errorf("vessel lookup failed: %w", err)
	}
	refIndex, err := as.indexRepo.GetLatest(ctx, nil, vesselID)
	if err != nil {
		return nil, fmt.Errorf("failed to load latest index: %w", err)
	}

	vessels, err := as.vesselRepo.List(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list vessels: %w", err)
	}
	peers := make([]vesselTrendSnapshot, 0)
	for _, v := range vessels {
		if v.ID == vesselID || v.VesselClass != reference.VesselClass {
			continue
		}
		latest, err := as.indexRepo.GetLatest(ctx, nil, v.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load latest index: %w", err)
		}
		if latest == nil {
			continue
		}
		peers = append(peers, vesselTrendSnapshot{Vessel: v, Current: latest})
	}

	benchmark, err := buildBenchmark(vesselTrendSnapshot{Vessel: reference, Current: refIndex}, peers)
	if err != nil {
		return nil, err
	}
	as.cache.Set(ctx, key, benchmark, benchmarkTTL)
	return benchmark, nil
}

// buildBenchmark ranks the reference vessel inside its peer group by the
// latest index value, cleanest hull first. A reference without any
// evaluation cannot be ranked.
func buildBenchmark(ref vesselTrendSnapshot, peers []vesselTrendSnapshot) (*VesselBenchmark, error) {
	if ref.Current == nil {
		return nil, &biofouling.InsufficientDataError{Subject: "vessel benchmark", Samples: 0, Required: 1}
	}

	group := make([]float64, 0, len(peers)+1)
	group = append(group, ref.Current.IndexValue)
	comparisons := make([]PeerComparison, 0, len(peers))
	for _, p := range peers {
		group = append(group, p.Current.IndexValue)
		comparisons = append(comparisons, PeerComparison{
			Name:  p.Vessel.Name,
			Index: p.Current.IndexValue,
			Delta: p.Current.IndexValue - ref.Current.IndexValue,
		})
	}
	sort.Float64s(group)
	sort.Slice(comparisons, func(i, j int) bool { return comparisons[i].Index < comparisons[j].Index })

	position := 1
	for _, v := range group {
		if v < ref.Current.IndexValue {
			position++
		}
	}
	n := len(group)
	out := &VesselBenchmark{
		Reference: BenchmarkReference{
			ID:          ref.Vessel.ID,
			Name:        ref.Vessel.Name,
			VesselClass: ref.Vessel.VesselClass,
			Index:       ref.Current.IndexValue,
		},
		ComparisonGroup: BenchmarkGroup{
			VesselCount: n,
			AvgIndex:    mean(group),
			MedianIndex: median(group),
		},
		Ranking: BenchmarkRanking{
			Position:   position,
			Percentile: 100 * (n - position) / n,
		},
		Peers: comparisons,
	}
	return out, nil
}

func mean(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// median expects values sorted ascending.
func median(values []float64) float64 {
	n := len(values)
	if n%2 == 1 {
		return values[n/2]
	}
	return (values[n/2-1] + values[n/2]) / 2
}
