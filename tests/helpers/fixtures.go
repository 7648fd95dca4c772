package helpers

import (
	"testing"
	"time"

	"github.com/urban-mobility/routeplan/blob"
	"github.com/urban-mobility/routeplan/config"
	"github.com/urban-mobility/routeplan/route"
)

// TestStations returns a small stations table around La Défense plus two
// central Paris stations. Coordinates are real.
func TestStations() []route.Station {
	return []route.Station{
		{Name: "La Défense (Grande Arche)", Lat: 48.8917, Lon: 2.2385, Accessible: true},
		{Name: "Esplanade de La Défense", Lat: 48.8885, Lon: 2.2497, Accessible: true},
		{Name: "Châtelet", Lat: 48.8583, Lon: 2.3470, Accessible: false},
		{Name: "Gare de Lyon", Lat: 48.8443, Lon: 2.3735, Accessible: true},
	}
}

// TestSchedules returns a schedules/status table with all lines running
// normally.
func TestSchedules() []route.ScheduleRow {
	return []route.ScheduleRow{
		{TransportType: "metro", Line: "1", Direction: "Château de Vincennes", Status: "normal"},
		{TransportType: "rer", Line: "A", Direction: "Boissy-Saint-Léger", Status: "normal"},
		{TransportType: "bus", Line: "73", Direction: "Musée d'Orsay", Status: "normal"},
		{TransportType: "tram", Line: "T2", Direction: "Pont de Bezons", Status: "normal"},
		{TransportType: "transilien", Line: "L", Direction: "Saint-Lazare", Status: "normal"},
	}
}

// NewTestStore returns a filesystem blob store rooted in a per-test temp dir.
func NewTestStore(t *testing.T) *blob.FSStore {
	t.Helper()
	return blob.NewFSStore(t.TempDir())
}

// TestConfig returns the default application config pointed at nothing; tests
// inject their own durable store.
func TestConfig() config.AppConfig {
	return config.Default()
}

// FixedClock returns a clock function pinned to the given instant.
func FixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

// MorningRush is a weekday instant inside the 7-9h congestion window.
var MorningRush = time.Date(2025, 3, 18, 8, 15, 0, 0, time.UTC)

// Midday is a weekday instant outside both congestion windows.
var Midday = time.Date(2025, 3, 18, 14, 0, 0, 0, time.UTC)
