package route

import (
	"math"
	"time"

	"github.com/urban-mobility/routeplan/utils"
)

// StatusSource reports live service disruption for a mode. Implementations
// live in the livestatus package; a nil source means no live data.
type StatusSource interface {
	Disrupted(mode TransportMode) bool
}

// disruptionPenalty is the extra multiplier applied when live status reports
// a non-normal state for a mode.
const disruptionPenalty = 1.2

// defaultDistanceKM is used when either endpoint is missing from the
// stations table.
const defaultDistanceKM = 2.5

type modeModel struct {
	distanceFactor float64
	fixedOverhead  float64
	minMinutes     float64
	maxMinutes     float64
	emissionsPerKM float64
	fareEuros      float64
	accessibility  float64
	line           string
	direction      string
}

// Heuristic per-mode linear duration models, clamped to realistic bands.
var modeModels = map[TransportMode]modeModel{
	Metro: {
		distanceFactor: 2.5, fixedOverhead: 5, minMinutes: 8, maxMinutes: 25,
		emissionsPerKM: 4, fareEuros: 1.90, accessibility: 0.95,
		line: "1", direction: "Direction Château de Vincennes",
	},
	RER: {
		distanceFactor: 2.0, fixedOverhead: 8, minMinutes: 10, maxMinutes: 30,
		emissionsPerKM: 6, fareEuros: 1.90, accessibility: 0.90,
		line: "A", direction: "Direction Marne-la-Vallée",
	},
	Bus: {
		distanceFactor: 4.0, fixedOverhead: 10, minMinutes: 12, maxMinutes: 40,
		emissionsPerKM: 70, fareEuros: 1.90, accessibility: 0.75,
		line: "144", direction: "Direction Pont de Neuilly",
	},
	Tram: {
		distanceFactor: 3.2, fixedOverhead: 7, minMinutes: 10, maxMinutes: 30,
		emissionsPerKM: 3, fareEuros: 1.90, accessibility: 0.80,
		line: "T2", direction: "Direction Porte de Versailles",
	},
	Transilien: {
		distanceFactor: 3.0, fixedOverhead: 12, minMinutes: 15, maxMinutes: 35,
		emissionsPerKM: 8, fareEuros: 3.65, accessibility: 0.85,
		line: "L", direction: "Direction La Défense",
	},
	Walking: {
		emissionsPerKM: 0, fareEuros: 0, accessibility: 1.0,
	},
}

// walkingMinutesPerKM is the inverse of the ~5 km/h walking speed.
const walkingMinutesPerKM = 12.0

// congestionFactor returns the time-of-day multiplier for a mode. Buses are
// the most congestion-sensitive; walking never slows down.
func congestionFactor(mode TransportMode, hour int) float64 {
	morning := hour >= 7 && hour <= 9
	evening := hour >= 17 && hour <= 19

	switch mode {
	case Metro:
		if morning {
			return 1.3
		}
		if evening {
			return 1.4
		}
		return 1.0
	case RER, Tram:
		if morning || evening {
			return 1.2
		}
		return 1.0
	case Bus:
		if morning {
			return 1.8
		}
		if evening {
			return 1.6
		}
		return 1.1
	case Transilien:
		return 1.1
	default:
		return 1.0
	}
}

// Synthesizer builds one candidate route leg per requested transport mode.
type Synthesizer struct {
	stations          *StationIndex
	schedules         []ScheduleRow
	status            StatusSource
	walkingCutoffKM   float64
	walkingMaxMinutes int
}

// NewSynthesizer wires the synthesizer to its read-only inputs. status may
// be nil when no live feed is configured.
func NewSynthesizer(stations *StationIndex, schedules []ScheduleRow, status StatusSource,
	walkingCutoffKM float64, walkingMaxMinutes int) *Synthesizer {
	if stations == nil {
		stations = NewStationIndex(nil)
	}
	return &Synthesizer{
		stations:          stations,
		schedules:         schedules,
		status:            status,
		walkingCutoffKM:   walkingCutoffKM,
		walkingMaxMinutes: walkingMaxMinutes,
	}
}

// Synthesize produces candidates for every requested mode at the reference
// departure instant. A mode yielding no feasible leg is omitted, not an
// error; the caller decides whether an empty result is NoRouteFound.
func (s *Synthesizer) Synthesize(q RouteQuery, departAt time.Time) []RouteCandidate {
	distanceKM := s.distanceBetween(q.Origin, q.Destination)

	var out []RouteCandidate
	for _, mode := range SortedModes(q.Modes) {
		leg, ok := s.buildLeg(mode, q.Origin, q.Destination, departAt, distanceKM)
		if !ok {
			continue
		}
		cand := RouteCandidate{
			Legs:               []RouteLeg{leg},
			AccessibilityScore: modeModels[mode].accessibility,
		}
		cand.finalize()
		out = append(out, cand)
	}
	return out
}

func (s *Synthesizer) distanceBetween(origin, destination string) float64 {
	from, okFrom := s.stations.Find(origin)
	to, okTo := s.stations.Find(destination)
	if !okFrom || !okTo {
		return defaultDistanceKM
	}
	return utils.HaversineKM(from.Lat, from.Lon, to.Lat, to.Lon)
}

func (s *Synthesizer) buildLeg(mode TransportMode, origin, destination string,
	departAt time.Time, distanceKM float64) (RouteLeg, bool) {
	model := modeModels[mode]

	if mode == Walking {
		minutes := int(math.Round(distanceKM * walkingMinutesPerKM))
		if distanceKM > s.walkingCutoffKM || minutes > s.walkingMaxMinutes {
			return RouteLeg{}, false
		}
		arrival := departAt.Add(time.Duration(minutes) * time.Minute)
		return RouteLeg{
			Mode:             Walking,
			FromStation:      origin,
			ToStation:        destination,
			DepartureTime:    utils.ClockString(departAt),
			ArrivalTime:      utils.ClockString(arrival),
			DurationMinutes:  minutes,
			DistanceKM:       distanceKM,
			CongestionFactor: 1.0,
			Direction:        "Walk directly to " + destination,
		}, true
	}

	base := distanceKM*model.distanceFactor + model.fixedOverhead
	if base < model.minMinutes {
		base = model.minMinutes
	}
	if base > model.maxMinutes {
		base = model.maxMinutes
	}

	factor := congestionFactor(mode, departAt.Hour())
	if s.status != nil && s.status.Disrupted(mode) {
		factor *= disruptionPenalty
	}

	minutes := int(math.Round(base * factor))
	arrival := departAt.Add(time.Duration(minutes) * time.Minute)

	line, direction := model.line, model.direction
	if l, d, ok := s.lineFromSchedules(mode); ok {
		line, direction = l, d
	}

	return RouteLeg{
		Mode:             mode,
		Line:             line,
		FromStation:      origin,
		ToStation:        destination,
		DepartureTime:    utils.ClockString(departAt),
		ArrivalTime:      utils.ClockString(arrival),
		DurationMinutes:  minutes,
		DistanceKM:       distanceKM,
		CongestionFactor: factor,
		EmissionsGrams:   distanceKM * model.emissionsPerKM,
		CostEuros:        model.fareEuros,
		Direction:        direction,
	}, true
}

// lineFromSchedules prefers a real line/direction from the schedules table
// over the built-in defaults.
func (s *Synthesizer) lineFromSchedules(mode TransportMode) (line, direction string, ok bool) {
	for _, row := range s.schedules {
		m, parsed := ParseMode(row.TransportType)
		if !parsed || m != mode || row.Line == "" {
			continue
		}
		return row.Line, row.Direction, true
	}
	return "", "", false
}
