package route

import (
	"sort"
	"strings"
	"time"
)

// TransportMode is the closed set of modes the synthesizer knows how to model.
type TransportMode string

const (
	Metro      TransportMode = "metro"
	RER        TransportMode = "rer"
	Bus        TransportMode = "bus"
	Tram       TransportMode = "tram"
	Transilien TransportMode = "transilien"
	Walking    TransportMode = "walking"
)

// AllModes lists every supported transport mode.
func AllModes() []TransportMode {
	return []TransportMode{Metro, RER, Bus, Tram, Transilien, Walking}
}

// ParseMode normalizes a transport-type label from external tables or user
// input into a TransportMode. Plural and UI spellings from the upstream
// feeds are accepted.
func ParseMode(s string) (TransportMode, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "metro", "metros":
		return Metro, true
	case "rer", "rers":
		return RER, true
	case "bus", "buses":
		return Bus, true
	case "tram", "tramway":
		return Tram, true
	case "transilien":
		return Transilien, true
	case "walking", "walk":
		return Walking, true
	}
	return "", false
}

// SortedModes returns a sorted copy of modes with duplicates removed.
// Fingerprinting relies on this for order-independence.
func SortedModes(modes []TransportMode) []TransportMode {
	seen := map[TransportMode]struct{}{}
	out := make([]TransportMode, 0, len(modes))
	for _, m := range modes {
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// PreferenceVector holds the caller's ranking weights in [0,1]. Weights only
// reorder candidates; RequireAccessible is the single filtering preference.
type PreferenceVector struct {
	Time              float64 `json:"time_pref"`
	Transfer          float64 `json:"transfer_pref"`
	Comfort           float64 `json:"comfort_pref"`
	Cost              float64 `json:"cost_pref"`
	Eco               float64 `json:"eco_pref"`
	Accessibility     float64 `json:"accessibility_pref"`
	RequireAccessible bool    `json:"accessibility"`
}

// RouteQuery describes one route request. Immutable once constructed; it is
// passed by value and never retained.
type RouteQuery struct {
	Origin      string
	Destination string
	Preferences PreferenceVector
	Modes       []TransportMode
	// Departure is the requested departure instant; the zero value means
	// "leave now".
	Departure time.Time
	// Date is the request date. The planner fills it when zero.
	Date time.Time
}

// HasDeparture reports whether an explicit departure time was requested.
func (q RouteQuery) HasDeparture() bool { return !q.Departure.IsZero() }

// RouteLeg is one single-mode segment of a journey.
type RouteLeg struct {
	Mode             TransportMode `json:"transport_type"`
	Line             string        `json:"line"`
	FromStation      string        `json:"from_station"`
	ToStation        string        `json:"to_station"`
	DepartureTime    string        `json:"departure_time"`
	ArrivalTime      string        `json:"arrival_time"`
	DurationMinutes  int           `json:"duration_minutes"`
	DistanceKM       float64       `json:"distance_km"`
	CongestionFactor float64       `json:"congestion_factor"`
	EmissionsGrams   float64       `json:"emissions_g"`
	CostEuros        float64       `json:"cost_euros"`
	Direction        string        `json:"direction"`
}

// RouteCandidate is a fully assembled, scorable route option.
type RouteCandidate struct {
	Legs                 []RouteLeg `json:"legs"`
	TotalDurationMinutes int        `json:"total_duration_minutes"`
	Transfers            int        `json:"num_transfers"`
	TotalEmissionsGrams  float64    `json:"total_emissions_g"`
	CostEuros            float64    `json:"cost_euros"`
	AccessibilityScore   float64    `json:"accessibility_score"`
}

// finalize recomputes the derived totals from the legs. Transfers count
// non-walking legs minus one, floored at zero.
func (c *RouteCandidate) finalize() {
	c.TotalDurationMinutes = 0
	c.TotalEmissionsGrams = 0
	c.CostEuros = 0
	transit := 0
	for _, leg := range c.Legs {
		c.TotalDurationMinutes += leg.DurationMinutes
		c.TotalEmissionsGrams += leg.EmissionsGrams
		c.CostEuros += leg.CostEuros
		if leg.Mode != Walking {
			transit++
		}
	}
	c.Transfers = transit - 1
	if c.Transfers < 0 {
		c.Transfers = 0
	}
}
