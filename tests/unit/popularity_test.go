package unit

import (
	"context"
	"testing"
	"time"

	"github.com/urban-mobility/routeplan/cache"
	"github.com/urban-mobility/routeplan/tests/helpers"
)

func TestPopularity_RecordAndTopN(t *testing.T) {
	ctx := context.Background()
	tracker := cache.NewPopularityTracker(helpers.NewTestStore(t)).
		WithClock(helpers.FixedClock(helpers.Midday))

	for i := 0; i < 3; i++ {
		tracker.Record(ctx, "La Défense (Grande Arche)", "Châtelet")
	}
	tracker.Record(ctx, "Châtelet", "La Défense (Grande Arche)")
	tracker.Record(ctx, "Esplanade de La Défense", "Gare de Lyon")
	tracker.Record(ctx, "Esplanade de La Défense", "Gare de Lyon")

	top, err := tracker.TopN(ctx, 2)
	if err != nil {
		t.Fatalf("TopN failed: %v", err)
	}
	if len(top) != 2 {
		t.Fatalf("expected 2 records, got %d", len(top))
	}
	if top[0].Origin != "La Défense (Grande Arche)" || top[0].Count != 3 {
		t.Errorf("expected La Défense -> Châtelet with count 3 first, got %+v", top[0])
	}
	if top[1].Origin != "Esplanade de La Défense" || top[1].Count != 2 {
		t.Errorf("expected Esplanade -> Gare de Lyon with count 2 second, got %+v", top[1])
	}
}

func TestPopularity_DirectionsAreDistinct(t *testing.T) {
	ctx := context.Background()
	tracker := cache.NewPopularityTracker(helpers.NewTestStore(t)).
		WithClock(helpers.FixedClock(helpers.Midday))

	tracker.Record(ctx, "A", "B")
	tracker.Record(ctx, "B", "A")

	top, err := tracker.TopN(ctx, 10)
	if err != nil {
		t.Fatalf("TopN failed: %v", err)
	}
	if len(top) != 2 {
		t.Errorf("A->B and B->A must be separate counters, got %d records", len(top))
	}
}

func TestPopularity_TiesBrokenByRecency(t *testing.T) {
	ctx := context.Background()
	tracker := cache.NewPopularityTracker(helpers.NewTestStore(t))

	tracker.WithClock(helpers.FixedClock(helpers.Midday))
	tracker.Record(ctx, "A", "B")
	tracker.WithClock(helpers.FixedClock(helpers.Midday.Add(time.Hour)))
	tracker.Record(ctx, "C", "D")

	top, err := tracker.TopN(ctx, 10)
	if err != nil {
		t.Fatalf("TopN failed: %v", err)
	}
	if len(top) != 2 || top[0].Origin != "C" {
		t.Errorf("tie on count should rank the more recent pair first, got %+v", top)
	}
}

func TestPopularity_EmptyStore(t *testing.T) {
	tracker := cache.NewPopularityTracker(helpers.NewTestStore(t))
	top, err := tracker.TopN(context.Background(), 5)
	if err != nil {
		t.Fatalf("TopN on empty store failed: %v", err)
	}
	if len(top) != 0 {
		t.Errorf("expected no records, got %d", len(top))
	}
}

func TestPopularity_MalformedObjectResets(t *testing.T) {
	ctx := context.Background()
	durable := helpers.NewTestStore(t)
	if err := durable.Put(ctx, "cache/popular_routes/popularity.json", []byte("garbage"), "application/json"); err != nil {
		t.Fatalf("seed write failed: %v", err)
	}

	tracker := cache.NewPopularityTracker(durable).WithClock(helpers.FixedClock(helpers.Midday))
	tracker.Record(ctx, "A", "B")

	top, err := tracker.TopN(ctx, 5)
	if err != nil {
		t.Fatalf("TopN failed: %v", err)
	}
	if len(top) != 1 || top[0].Count != 1 {
		t.Errorf("corrupt counters should be rebuilt from scratch, got %+v", top)
	}
}
