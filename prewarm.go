package routeplan

import (
	"context"
	"fmt"
	"log"

	"github.com/urban-mobility/routeplan/cache"
	"github.com/urban-mobility/routeplan/route"
	"github.com/urban-mobility/routeplan/traveltime"
)

// PreferenceProfile is one representative preference vector used when
// pre-warming popular routes.
type PreferenceProfile struct {
	Name        string
	Preferences route.PreferenceVector
}

// DefaultProfiles are the dashboard's representative rider profiles.
func DefaultProfiles() []PreferenceProfile {
	return []PreferenceProfile{
		{Name: "speed_focused", Preferences: route.PreferenceVector{
			Time: 1.0, Transfer: 0.2, Comfort: 0.3, Cost: 0.1, Eco: 0.1, Accessibility: 0.1,
		}},
		{Name: "eco_friendly", Preferences: route.PreferenceVector{
			Time: 0.6, Transfer: 0.3, Comfort: 0.4, Cost: 0.3, Eco: 1.0, Accessibility: 0.1,
		}},
		{Name: "accessible", Preferences: route.PreferenceVector{
			Time: 0.7, Transfer: 0.8, Comfort: 0.9, Cost: 0.2, Eco: 0.3, Accessibility: 1.0,
			RequireAccessible: true,
		}},
		{Name: "budget_conscious", Preferences: route.PreferenceVector{
			Time: 0.5, Transfer: 0.4, Comfort: 0.3, Cost: 1.0, Eco: 0.4, Accessibility: 0.1,
		}},
	}
}

// DefaultModeSets are the common transport-mode combinations riders select.
func DefaultModeSets() [][]route.TransportMode {
	return [][]route.TransportMode{
		{route.Metro, route.RER},
		{route.Metro, route.RER, route.Bus},
		{route.RER},
		{route.Metro},
		{route.Bus},
		{route.Metro, route.RER, route.Transilien},
	}
}

// PrewarmReport summarizes one pre-warming pass.
type PrewarmReport struct {
	PairsConsidered int
	Checked         int
	Warmed          int
	CapReached      bool
}

// Prewarmer proactively computes and caches results for the most popular
// origin/destination pairs before they are requested again.
type Prewarmer struct {
	planner  *Planner
	profiles []PreferenceProfile
	modeSets [][]route.TransportMode
	matrix   *traveltime.Matrix
}

// NewPrewarmer builds a pre-warmer with the default profile and mode-set
// grids. matrix may be nil; when present it only annotates logging.
func NewPrewarmer(planner *Planner, matrix *traveltime.Matrix) *Prewarmer {
	return &Prewarmer{
		planner:  planner,
		profiles: DefaultProfiles(),
		modeSets: DefaultModeSets(),
		matrix:   matrix,
	}
}

// Run pre-warms the top-N popular pairs across the profile × mode-set grid.
// Total work is capped by config to avoid combinatorial blow-up. Pre-warm
// computes do not count toward popularity.
func (w *Prewarmer) Run(ctx context.Context) (PrewarmReport, error) {
	var report PrewarmReport

	top, err := w.planner.Tracker().TopN(ctx, w.planner.cfg.Prewarm.TopN)
	if err != nil {
		return report, fmt.Errorf("prewarm: %w", err)
	}
	report.PairsConsidered = len(top)
	limit := w.planner.cfg.Prewarm.MaxCombinations

	for _, pair := range top {
		for _, modes := range w.modeSets {
			for _, profile := range w.profiles {
				if report.Checked >= limit {
					report.CapReached = true
					return report, nil
				}
				report.Checked++

				q := route.RouteQuery{
					Origin:      pair.Origin,
					Destination: pair.Destination,
					Preferences: profile.Preferences,
					Modes:       modes,
					Date:        w.planner.now(),
				}
				fingerprint := cache.Fingerprint(q, w.planner.cfg.Planner.TimeBucketMinutes)
				if _, ok := w.planner.Store().Get(ctx, cache.Routes, fingerprint); ok {
					continue
				}

				if w.matrix != nil {
					if minutes, ok := w.matrix.Estimate(pair.Origin, pair.Destination); ok {
						log.Printf("pre-warming %s -> %s (%s, est. %d min)",
							pair.Origin, pair.Destination, profile.Name, minutes)
					}
				}
				if ranked := w.planner.computeAndStore(ctx, q, fingerprint); len(ranked) > 0 {
					report.Warmed++
				}
			}
		}
	}
	return report, nil
}
