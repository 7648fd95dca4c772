// Package routeplan is the route-planning support layer for the urban
// mobility dashboard: ranked multi-modal route candidates behind a two-tier
// query cache. It is consumed as a library; the dashboard layer owns all
// presentation.
package routeplan

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/urban-mobility/routeplan/blob"
	"github.com/urban-mobility/routeplan/cache"
	"github.com/urban-mobility/routeplan/config"
	"github.com/urban-mobility/routeplan/route"
)

// Result is what every route request resolves to: a ranked, possibly empty
// candidate list, or an explicit no-route outcome with a message. Callers
// branch on NoRouteFound; they never see an error for cache trouble.
type Result struct {
	Candidates   []route.RouteCandidate `json:"candidates"`
	NoRouteFound bool                   `json:"no_route_found"`
	Message      string                 `json:"message,omitempty"`
	FromCache    bool                   `json:"from_cache"`
}

// Planner is the cache-wrapped planning entry point.
type Planner struct {
	cfg     config.AppConfig
	store   *cache.Store
	tracker *cache.PopularityTracker
	synth   *route.Synthesizer
	maint   *cache.Maintenance
	flight  singleflight.Group
	now     func() time.Time
}

// NewPlanner wires the planner to an injected durable tier and its read-only
// table inputs. status may be nil when no live feed is configured.
func NewPlanner(cfg config.AppConfig, durable blob.Store, stations []route.Station,
	schedules []route.ScheduleRow, status route.StatusSource) *Planner {
	store := cache.NewStore(durable, cfg.Cache)
	synth := route.NewSynthesizer(route.NewStationIndex(stations), schedules, status,
		cfg.Planner.WalkingCutoffKM, cfg.Planner.WalkingMaxMinutes)
	return &Planner{
		cfg:     cfg,
		store:   store,
		tracker: cache.NewPopularityTracker(durable),
		synth:   synth,
		maint:   cache.NewMaintenance(store),
		now:     time.Now,
	}
}

// WithClock overrides the planner clock and the cache store clock. Test hook.
func (p *Planner) WithClock(now func() time.Time) *Planner {
	p.now = now
	p.store.WithClock(now)
	p.tracker.WithClock(now)
	return p
}

// Store exposes the underlying cache store to maintenance collaborators.
func (p *Planner) Store() *cache.Store { return p.store }

// Tracker exposes the popularity tracker.
func (p *Planner) Tracker() *cache.PopularityTracker { return p.tracker }

// Maintenance exposes sweep/stats for the maintenance runner.
func (p *Planner) Maintenance() *cache.Maintenance { return p.maint }

// PlanRoutes resolves a route query: validation, cache lookup, and on miss a
// synthesize+rank compute whose result is written back and attributed to the
// popularity tracker. Concurrent misses for the same fingerprint are
// collapsed onto one compute via singleflight.
func (p *Planner) PlanRoutes(ctx context.Context, q route.RouteQuery) Result {
	if q.Origin == q.Destination {
		return Result{NoRouteFound: true, Message: "origin and destination cannot be the same"}
	}
	if len(q.Modes) == 0 {
		return Result{NoRouteFound: true, Message: "select at least one transport mode"}
	}
	if q.Date.IsZero() {
		q.Date = p.now()
	}

	fingerprint := cache.Fingerprint(q, p.cfg.Planner.TimeBucketMinutes)

	p.tracker.Record(ctx, q.Origin, q.Destination)

	if payload, ok := p.store.Get(ctx, cache.Routes, fingerprint); ok {
		var candidates []route.RouteCandidate
		if err := json.Unmarshal(payload, &candidates); err == nil {
			log.Printf("route cache hit: %s -> %s", q.Origin, q.Destination)
			return resultFor(candidates, true)
		}
		log.Printf("route cache: malformed payload for %s, recomputing", fingerprint)
	}

	v, _, _ := p.flight.Do(fingerprint, func() (any, error) {
		return p.computeAndStore(ctx, q, fingerprint), nil
	})
	return resultFor(v.([]route.RouteCandidate), false)
}

// computeAndStore synthesizes and ranks fresh candidates, caching non-empty
// results. Also the pre-warming entry, which bypasses popularity recording.
func (p *Planner) computeAndStore(ctx context.Context, q route.RouteQuery, fingerprint string) []route.RouteCandidate {
	departAt := q.Departure
	if departAt.IsZero() {
		departAt = p.now()
	}

	candidates := p.synth.Synthesize(q, departAt)
	ranked := route.Rank(candidates, q.Preferences, p.cfg.Planner.AccessibilityMinimum)
	if len(ranked) == 0 {
		return nil
	}

	payload, err := json.Marshal(ranked)
	if err != nil {
		log.Printf("route cache: cannot encode result for %s: %v", fingerprint, err)
		return ranked
	}
	p.store.Put(ctx, cache.Routes, fingerprint, payload)
	return ranked
}

func resultFor(candidates []route.RouteCandidate, fromCache bool) Result {
	if len(candidates) == 0 {
		return Result{NoRouteFound: true, Message: "no routes available for the selected transport modes"}
	}
	return Result{Candidates: candidates, FromCache: fromCache}
}

// CacheStats reports per-category durable usage plus the in-process tier
// size.
func (p *Planner) CacheStats(ctx context.Context) cache.StatsReport {
	return p.maint.Stats(ctx)
}

// CachedFetch runs a named upstream request through the api_responses cache
// category. On a miss fetch is invoked; its failure surfaces to the caller
// unchanged while the cache stays untouched.
func (p *Planner) CachedFetch(ctx context.Context, name string, params map[string]string,
	fetch func(ctx context.Context) ([]byte, error)) ([]byte, error) {
	fingerprint := cache.FingerprintParams(name, params)
	if payload, ok := p.store.Get(ctx, cache.APIResponses, fingerprint); ok {
		return payload, nil
	}

	payload, err := fetch(ctx)
	if err != nil {
		return nil, err
	}
	p.store.Put(ctx, cache.APIResponses, fingerprint, payload)
	return payload, nil
}
