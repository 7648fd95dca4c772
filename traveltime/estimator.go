package traveltime

import (
	"context"
	"fmt"
	"log"
	"math"
	"strings"
	"time"

	"github.com/urban-mobility/routeplan/cache"
	"github.com/urban-mobility/routeplan/route"
	"github.com/urban-mobility/routeplan/utils"
)

// matrixFingerprint addresses the single current matrix object; each build
// replaces it wholesale.
const matrixFingerprint = "matrix_latest"

// Mode-average speeds in km/h, fastest available wins. Walking is the
// no-schedule-data fallback.
const (
	metroSpeedKMH   = 35.0
	railSpeedKMH    = 40.0
	busSpeedKMH     = 20.0
	walkingSpeedKMH = 5.0
)

// Estimator builds the hub-station travel-time matrix.
type Estimator struct {
	store       *cache.Store
	hubKeywords []string
	now         func() time.Time
}

func NewEstimator(store *cache.Store, hubKeywords []string) *Estimator {
	return &Estimator{store: store, hubKeywords: hubKeywords, now: time.Now}
}

// WithClock overrides the estimator clock. Test hook.
func (e *Estimator) WithClock(now func() time.Time) *Estimator {
	e.now = now
	return e
}

// Build computes estimates for every ordered hub-station pair and replaces
// the stored matrix. Returns the number of pairs written.
func (e *Estimator) Build(ctx context.Context, stations []route.Station, schedules []route.ScheduleRow) (int, error) {
	hubs := e.selectHubs(stations)
	if len(hubs) == 0 {
		return 0, fmt.Errorf("travel-time matrix: no hub stations matched %v", e.hubKeywords)
	}

	speed, minMinutes := e.speedFromSchedules(schedules)
	computedAt := e.now().Unix()

	edges := make([]Edge, 0, len(hubs)*(len(hubs)-1))
	for _, from := range hubs {
		for _, to := range hubs {
			if from.Name == to.Name {
				continue
			}
			edges = append(edges, Edge{
				Origin:      from.Name,
				Destination: to.Name,
				Minutes:     estimateMinutes(from, to, speed, minMinutes),
				ComputedAt:  computedAt,
			})
		}
	}

	data, err := EncodeMatrix(edges)
	if err != nil {
		return 0, err
	}
	e.store.Put(ctx, cache.TravelTimes, matrixFingerprint, data)
	log.Printf("travel-time matrix rebuilt: %d pairs over %d hub stations", len(edges), len(hubs))
	return len(edges), nil
}

// Load returns the current matrix, or false when none is cached.
func (e *Estimator) Load(ctx context.Context) (*Matrix, bool) {
	data, ok := e.store.Get(ctx, cache.TravelTimes, matrixFingerprint)
	if !ok {
		return nil, false
	}
	m, err := DecodeMatrix(data)
	if err != nil {
		log.Printf("travel-time matrix: %v", err)
		return nil, false
	}
	return m, true
}

// selectHubs keeps stations whose name contains any hub keyword,
// case-insensitively.
func (e *Estimator) selectHubs(stations []route.Station) []route.Station {
	var hubs []route.Station
	for _, s := range stations {
		for _, kw := range e.hubKeywords {
			if strings.Contains(strings.ToLower(s.Name), strings.ToLower(kw)) {
				hubs = append(hubs, s)
				break
			}
		}
	}
	return hubs
}

// speedFromSchedules picks the fastest mode class present in the schedule
// hints; with no schedule data at all the walking fallback applies.
func (e *Estimator) speedFromSchedules(schedules []route.ScheduleRow) (kmh float64, minMinutes int32) {
	if len(schedules) == 0 {
		return walkingSpeedKMH, 10
	}
	hasMetro, hasRail := false, false
	for _, row := range schedules {
		mode, ok := route.ParseMode(row.TransportType)
		if !ok {
			continue
		}
		switch mode {
		case route.Metro:
			hasMetro = true
		case route.RER, route.Transilien:
			hasRail = true
		}
	}
	switch {
	case hasMetro:
		return metroSpeedKMH, 2
	case hasRail:
		return railSpeedKMH, 3
	default:
		return busSpeedKMH, 5
	}
}

func estimateMinutes(from, to route.Station, kmh float64, minMinutes int32) int32 {
	distanceKM := utils.HaversineKM(from.Lat, from.Lon, to.Lat, to.Lon)
	minutes := int32(math.Round(distanceKM / kmh * 60))
	if minutes < minMinutes {
		return minMinutes
	}
	return minutes
}
