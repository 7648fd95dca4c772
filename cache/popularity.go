package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/urban-mobility/routeplan/blob"
)

// popularityObjectKey is the single durable object holding all counters.
const popularityObjectKey = "cache/popular_routes/popularity.json"

// PopularityRecord counts requests for one directed origin/destination pair.
// Counters are monotonically incremented, never decremented; they live for
// the lifetime of the durable store.
type PopularityRecord struct {
	Origin        string    `json:"origin"`
	Destination   string    `json:"destination"`
	Count         int       `json:"count"`
	LastRequested time.Time `json:"last_requested"`
}

type popularityObject struct {
	Timestamp time.Time                   `json:"timestamp"`
	Routes    map[string]PopularityRecord `json:"routes"`
}

// PopularityTracker tracks route request frequency in one durable object via
// read-modify-write. Concurrent writers from other processes can lose
// individual increments; approximate counts are acceptable here, and the
// pair cardinality in the service area keeps the object small.
type PopularityTracker struct {
	durable blob.Store
	now     func() time.Time

	mu sync.Mutex
}

func NewPopularityTracker(durable blob.Store) *PopularityTracker {
	return &PopularityTracker{durable: durable, now: time.Now}
}

// WithClock overrides the tracker clock. Test hook.
func (t *PopularityTracker) WithClock(now func() time.Time) *PopularityTracker {
	t.now = now
	return t
}

func pairKey(origin, destination string) string {
	return origin + "|" + destination
}

// Record increments the counter for origin -> destination. The reverse
// direction is a distinct key. Failures are logged and swallowed: popularity
// tracking must never fail a route request.
func (t *PopularityTracker) Record(ctx context.Context, origin, destination string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	obj, err := t.load(ctx)
	if err != nil {
		log.Printf("popularity: load failed, dropping increment: %v", err)
		return
	}

	key := pairKey(origin, destination)
	rec, ok := obj.Routes[key]
	if !ok {
		rec = PopularityRecord{Origin: origin, Destination: destination}
	}
	rec.Count++
	rec.LastRequested = now
	obj.Routes[key] = rec
	obj.Timestamp = now

	data, err := json.Marshal(obj)
	if err != nil {
		log.Printf("popularity: encode failed: %v", err)
		return
	}
	if err := t.durable.Put(ctx, popularityObjectKey, data, "application/json"); err != nil {
		log.Printf("popularity: write failed, dropping increment: %v", err)
	}
}

// TopN returns the n most requested pairs, highest count first, ties broken
// by most recent request.
func (t *PopularityTracker) TopN(ctx context.Context, n int) ([]PopularityRecord, error) {
	obj, err := t.load(ctx)
	if err != nil {
		return nil, fmt.Errorf("popularity: %w", err)
	}

	records := make([]PopularityRecord, 0, len(obj.Routes))
	for _, rec := range obj.Routes {
		records = append(records, rec)
	}
	sort.Slice(records, func(i, j int) bool {
		if records[i].Count != records[j].Count {
			return records[i].Count > records[j].Count
		}
		return records[i].LastRequested.After(records[j].LastRequested)
	})

	if n >= 0 && len(records) > n {
		records = records[:n]
	}
	return records, nil
}

func (t *PopularityTracker) load(ctx context.Context) (popularityObject, error) {
	obj := popularityObject{Routes: map[string]PopularityRecord{}}
	data, err := t.durable.Get(ctx, popularityObjectKey)
	if err != nil {
		if errors.Is(err, blob.ErrNotFound) {
			return obj, nil
		}
		return obj, err
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		// Corrupt counters are rebuilt from scratch rather than trusted.
		log.Printf("popularity: malformed object, resetting: %v", err)
		return popularityObject{Routes: map[string]PopularityRecord{}}, nil
	}
	if obj.Routes == nil {
		obj.Routes = map[string]PopularityRecord{}
	}
	return obj, nil
}
