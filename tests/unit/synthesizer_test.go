package unit

import (
	"testing"

	"github.com/urban-mobility/routeplan/livestatus"
	"github.com/urban-mobility/routeplan/route"
	"github.com/urban-mobility/routeplan/tests/helpers"
)

func newSynthesizer(status route.StatusSource) *route.Synthesizer {
	return route.NewSynthesizer(route.NewStationIndex(helpers.TestStations()),
		helpers.TestSchedules(), status, 4.0, 60)
}

func TestSynthesize_OneCandidatePerFeasibleMode(t *testing.T) {
	synth := newSynthesizer(nil)
	q := route.RouteQuery{
		Origin:      "La Défense (Grande Arche)",
		Destination: "Châtelet",
		Modes:       []route.TransportMode{route.Metro, route.RER, route.Bus},
	}

	candidates := synth.Synthesize(q, helpers.Midday)
	if len(candidates) != 3 {
		t.Fatalf("expected 3 candidates, got %d", len(candidates))
	}
	for _, c := range candidates {
		if len(c.Legs) != 1 {
			t.Errorf("expected single-leg candidate, got %d legs", len(c.Legs))
		}
		if c.Transfers != 0 {
			t.Errorf("single transit leg means 0 transfers, got %d", c.Transfers)
		}
		if c.TotalDurationMinutes <= 0 {
			t.Errorf("candidate duration must be positive: %+v", c)
		}
	}
}

func TestSynthesize_WalkingCutoff(t *testing.T) {
	synth := newSynthesizer(nil)

	// La Défense to Châtelet is roughly 9 km, far beyond the 4 km cutoff.
	far := synth.Synthesize(route.RouteQuery{
		Origin:      "La Défense (Grande Arche)",
		Destination: "Châtelet",
		Modes:       []route.TransportMode{route.Walking},
	}, helpers.Midday)
	if len(far) != 0 {
		t.Errorf("walking beyond the cutoff must yield no candidate, got %d", len(far))
	}

	// Esplanade to the Grande Arche is under a kilometre.
	near := synth.Synthesize(route.RouteQuery{
		Origin:      "Esplanade de La Défense",
		Destination: "La Défense (Grande Arche)",
		Modes:       []route.TransportMode{route.Walking},
	}, helpers.Midday)
	if len(near) != 1 {
		t.Fatalf("short walk should be feasible, got %d candidates", len(near))
	}
	leg := near[0].Legs[0]
	if leg.Mode != route.Walking {
		t.Errorf("expected walking leg, got %v", leg.Mode)
	}
	if leg.DurationMinutes < 5 || leg.DurationMinutes > 20 {
		t.Errorf("walking duration out of plausible range: %d minutes", leg.DurationMinutes)
	}
	if leg.EmissionsGrams != 0 || leg.CostEuros != 0 {
		t.Errorf("walking must be free and zero-emission: %+v", leg)
	}
}

func TestSynthesize_BusRushHourCongestion(t *testing.T) {
	synth := newSynthesizer(nil)
	q := route.RouteQuery{
		Origin:      "La Défense (Grande Arche)",
		Destination: "Châtelet",
		Modes:       []route.TransportMode{route.Bus},
	}

	// The distance saturates the bus duration band at 40 base minutes.
	rush := synth.Synthesize(q, helpers.MorningRush)
	mid := synth.Synthesize(q, helpers.Midday)
	if len(rush) != 1 || len(mid) != 1 {
		t.Fatal("expected one bus candidate for each departure time")
	}
	if got := rush[0].TotalDurationMinutes; got != 72 {
		t.Errorf("morning-rush bus should take 40 x 1.8 = 72 minutes, got %d", got)
	}
	if got := mid[0].TotalDurationMinutes; got != 44 {
		t.Errorf("midday bus should take 40 x 1.1 = 44 minutes, got %d", got)
	}
	if rush[0].Legs[0].CongestionFactor <= mid[0].Legs[0].CongestionFactor {
		t.Error("rush-hour congestion factor must exceed the midday one")
	}
}

func TestSynthesize_DisruptionPenalty(t *testing.T) {
	q := route.RouteQuery{
		Origin:      "La Défense (Grande Arche)",
		Destination: "Châtelet",
		Modes:       []route.TransportMode{route.Metro},
	}

	normal := newSynthesizer(nil).Synthesize(q, helpers.Midday)

	rows := helpers.TestSchedules()
	rows[0].Status = "perturbée"
	disrupted := route.NewSynthesizer(route.NewStationIndex(helpers.TestStations()),
		rows, livestatus.NewTableSource(rows), 4.0, 60).Synthesize(q, helpers.Midday)

	if len(normal) != 1 || len(disrupted) != 1 {
		t.Fatal("expected one metro candidate in both cases")
	}
	if normal[0].TotalDurationMinutes != 25 {
		t.Errorf("undisrupted metro at the band cap should take 25 minutes, got %d",
			normal[0].TotalDurationMinutes)
	}
	if disrupted[0].TotalDurationMinutes != 30 {
		t.Errorf("disrupted metro should take 25 x 1.2 = 30 minutes, got %d",
			disrupted[0].TotalDurationMinutes)
	}
}

func TestSynthesize_UnknownStationsUseFallbackDistance(t *testing.T) {
	synth := newSynthesizer(nil)
	candidates := synth.Synthesize(route.RouteQuery{
		Origin:      "Nowhere",
		Destination: "Elsewhere",
		Modes:       []route.TransportMode{route.Metro},
	}, helpers.Midday)

	if len(candidates) != 1 {
		t.Fatal("unknown stations still plan against the fallback distance")
	}
	// 2.5 km fallback: 2.5 x 2.5 + 5 = 11.25 minutes at factor 1.0.
	if got := candidates[0].TotalDurationMinutes; got != 11 {
		t.Errorf("expected 11 minutes on the fallback distance, got %d", got)
	}
}

func TestSynthesize_LineFromScheduleTable(t *testing.T) {
	synth := newSynthesizer(nil)
	candidates := synth.Synthesize(route.RouteQuery{
		Origin:      "La Défense (Grande Arche)",
		Destination: "Châtelet",
		Modes:       []route.TransportMode{route.Tram},
	}, helpers.Midday)

	if len(candidates) != 1 {
		t.Fatal("expected one tram candidate")
	}
	if got := candidates[0].Legs[0].Line; got != "T2" {
		t.Errorf("expected line T2 from the schedules table, got %q", got)
	}
}

func TestSynthesize_TransilienFlatFare(t *testing.T) {
	synth := newSynthesizer(nil)
	candidates := synth.Synthesize(route.RouteQuery{
		Origin:      "La Défense (Grande Arche)",
		Destination: "Châtelet",
		Modes:       []route.TransportMode{route.Metro, route.Transilien},
	}, helpers.Midday)

	if len(candidates) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(candidates))
	}
	fares := map[route.TransportMode]float64{}
	for _, c := range candidates {
		fares[c.Legs[0].Mode] = c.CostEuros
	}
	if fares[route.Metro] != 1.90 {
		t.Errorf("metro fare should be 1.90, got %f", fares[route.Metro])
	}
	if fares[route.Transilien] != 3.65 {
		t.Errorf("transilien fare should be 3.65, got %f", fares[route.Transilien])
	}
}
