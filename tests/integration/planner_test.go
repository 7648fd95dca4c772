package integration

import (
	"context"
	"testing"
	"time"

	routeplan "github.com/urban-mobility/routeplan"
	"github.com/urban-mobility/routeplan/route"
	"github.com/urban-mobility/routeplan/tests/helpers"
)

func newPlanner(t *testing.T, at time.Time) *routeplan.Planner {
	t.Helper()
	return routeplan.NewPlanner(helpers.TestConfig(), helpers.NewTestStore(t),
		helpers.TestStations(), helpers.TestSchedules(), nil).
		WithClock(helpers.FixedClock(at))
}

func TestPlanRoutes_MorningCommuteEndToEnd(t *testing.T) {
	ctx := context.Background()
	planner := newPlanner(t, helpers.MorningRush)

	q := route.RouteQuery{
		Origin:      "La Défense (Grande Arche)",
		Destination: "Châtelet",
		Preferences: route.PreferenceVector{Time: 1.0, Eco: 0.2},
		Modes:       []route.TransportMode{route.Metro, route.Walking},
		Departure:   helpers.MorningRush,
		Date:        helpers.MorningRush,
	}

	result := planner.PlanRoutes(ctx, q)
	if result.NoRouteFound {
		t.Fatalf("expected a route, got no-route: %s", result.Message)
	}
	if result.FromCache {
		t.Error("first request must be a cache miss")
	}
	// Walking is infeasible at ~9 km, leaving the single metro candidate;
	// the 25-minute band cap under the 1.3 morning factor rounds to 33.
	if len(result.Candidates) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(result.Candidates))
	}
	best := result.Candidates[0]
	if best.Legs[0].Mode != route.Metro {
		t.Errorf("expected a metro leg, got %v", best.Legs[0].Mode)
	}
	if best.TotalDurationMinutes != 33 {
		t.Errorf("expected 33 minutes during morning rush, got %d", best.TotalDurationMinutes)
	}
	if best.Legs[0].CongestionFactor != 1.3 {
		t.Errorf("expected morning metro congestion factor 1.3, got %f", best.Legs[0].CongestionFactor)
	}

	again := planner.PlanRoutes(ctx, q)
	if !again.FromCache {
		t.Error("identical repeat request must be served from cache")
	}
	if len(again.Candidates) != 1 || again.Candidates[0].TotalDurationMinutes != 33 {
		t.Errorf("cached result should match the computed one: %+v", again.Candidates)
	}
}

func TestPlanRoutes_NearbyDeparturesShareCacheEntry(t *testing.T) {
	ctx := context.Background()
	planner := newPlanner(t, helpers.MorningRush)

	at := func(h, m int) route.RouteQuery {
		dep := time.Date(2025, 3, 18, h, m, 0, 0, time.UTC)
		return route.RouteQuery{
			Origin:      "La Défense (Grande Arche)",
			Destination: "Gare de Lyon",
			Preferences: route.PreferenceVector{Time: 1.0},
			Modes:       []route.TransportMode{route.RER},
			Departure:   dep,
			Date:        dep,
		}
	}

	first := planner.PlanRoutes(ctx, at(8, 3))
	if first.FromCache {
		t.Fatal("first request must compute")
	}
	sameBucket := planner.PlanRoutes(ctx, at(8, 11))
	if !sameBucket.FromCache {
		t.Error("08:03 and 08:11 share a 15-minute bucket and must share the cache entry")
	}
	nextBucket := planner.PlanRoutes(ctx, at(8, 20))
	if nextBucket.FromCache {
		t.Error("08:20 is a different bucket and must recompute")
	}
}

func TestPlanRoutes_Validation(t *testing.T) {
	ctx := context.Background()
	planner := newPlanner(t, helpers.Midday)

	same := planner.PlanRoutes(ctx, route.RouteQuery{
		Origin:      "Châtelet",
		Destination: "Châtelet",
		Modes:       []route.TransportMode{route.Metro},
	})
	if !same.NoRouteFound || same.Message != "origin and destination cannot be the same" {
		t.Errorf("unexpected result for identical endpoints: %+v", same)
	}

	noModes := planner.PlanRoutes(ctx, route.RouteQuery{
		Origin:      "Châtelet",
		Destination: "Gare de Lyon",
	})
	if !noModes.NoRouteFound || noModes.Message != "select at least one transport mode" {
		t.Errorf("unexpected result for empty modes: %+v", noModes)
	}
}

func TestPlanRoutes_NoFeasibleModeIsNoRoute(t *testing.T) {
	ctx := context.Background()
	planner := newPlanner(t, helpers.Midday)

	result := planner.PlanRoutes(ctx, route.RouteQuery{
		Origin:      "La Défense (Grande Arche)",
		Destination: "Châtelet",
		Modes:       []route.TransportMode{route.Walking},
	})
	if !result.NoRouteFound {
		t.Error("walking-only over ~9 km must report no route found")
	}
	if result.Message == "" {
		t.Error("no-route results carry an explanatory message")
	}
}

func TestPlanRoutes_AccessibleProfileFiltersBus(t *testing.T) {
	ctx := context.Background()
	planner := newPlanner(t, helpers.Midday)

	result := planner.PlanRoutes(ctx, route.RouteQuery{
		Origin:      "La Défense (Grande Arche)",
		Destination: "Châtelet",
		Preferences: route.PreferenceVector{Time: 0.7, Accessibility: 1.0, RequireAccessible: true},
		Modes:       []route.TransportMode{route.Metro, route.Bus},
	})
	if result.NoRouteFound {
		t.Fatalf("expected the metro candidate to survive: %s", result.Message)
	}
	for _, c := range result.Candidates {
		if c.Legs[0].Mode == route.Bus {
			t.Error("bus falls below the accessibility floor and must be filtered")
		}
	}
}

func TestPlanRoutes_RecordsPopularity(t *testing.T) {
	ctx := context.Background()
	planner := newPlanner(t, helpers.Midday)

	q := route.RouteQuery{
		Origin:      "La Défense (Grande Arche)",
		Destination: "Châtelet",
		Preferences: route.PreferenceVector{Time: 1.0},
		Modes:       []route.TransportMode{route.Metro},
	}
	planner.PlanRoutes(ctx, q)
	planner.PlanRoutes(ctx, q)

	top, err := planner.Tracker().TopN(ctx, 1)
	if err != nil {
		t.Fatalf("TopN failed: %v", err)
	}
	if len(top) != 1 || top[0].Count != 2 {
		t.Errorf("both requests, hit and miss alike, must be counted: %+v", top)
	}
}

func TestPlanRoutes_EcoProfilePrefersTram(t *testing.T) {
	ctx := context.Background()
	planner := newPlanner(t, helpers.Midday)

	result := planner.PlanRoutes(ctx, route.RouteQuery{
		Origin:      "La Défense (Grande Arche)",
		Destination: "Châtelet",
		Preferences: route.PreferenceVector{Time: 0.3, Eco: 1.0},
		Modes:       []route.TransportMode{route.Tram, route.Bus},
	})
	if result.NoRouteFound {
		t.Fatalf("expected candidates: %s", result.Message)
	}
	if len(result.Candidates) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(result.Candidates))
	}
	if result.Candidates[0].Legs[0].Mode != route.Tram {
		t.Errorf("eco-dominant preferences should rank tram over bus, got %v first",
			result.Candidates[0].Legs[0].Mode)
	}
}

func TestCacheStats_ReflectsPlannedRoutes(t *testing.T) {
	ctx := context.Background()
	planner := newPlanner(t, helpers.Midday)

	planner.PlanRoutes(ctx, route.RouteQuery{
		Origin:      "La Défense (Grande Arche)",
		Destination: "Châtelet",
		Preferences: route.PreferenceVector{Time: 1.0},
		Modes:       []route.TransportMode{route.Metro},
	})

	report := planner.CacheStats(ctx)
	routes := report.Categories["routes"]
	if routes.Total != 1 || routes.Valid != 1 {
		t.Errorf("expected one valid routes entry, got %+v", routes)
	}
	if report.MemoryEntries == 0 {
		t.Error("memory tier should hold the freshly computed entry")
	}
}
