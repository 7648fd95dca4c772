package livestatus

import (
	"context"
	"fmt"
	"sync"
	"time"

	gtfsrtpb "github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"google.golang.org/protobuf/proto"

	"github.com/urban-mobility/routeplan/route"
)

// AlertSource derives disruption state from a GTFS-RT ServiceAlerts feed.
// Refresh is expected to be driven periodically by the owner; between
// refreshes Disrupted serves the last snapshot.
type AlertSource struct {
	fetcher   *Fetcher
	url       string
	lineModes map[string]route.TransportMode
	now       func() time.Time

	mu        sync.RWMutex
	disrupted map[route.TransportMode]bool
}

// NewAlertSource builds an alert source. The schedules table supplies the
// line -> transport-type mapping for alerts that name a route id without a
// GTFS route_type.
func NewAlertSource(fetcher *Fetcher, url string, schedules []route.ScheduleRow) *AlertSource {
	lineModes := map[string]route.TransportMode{}
	for _, row := range schedules {
		if mode, ok := route.ParseMode(row.TransportType); ok && row.Line != "" {
			lineModes[row.Line] = mode
		}
	}
	return &AlertSource{
		fetcher:   fetcher,
		url:       url,
		lineModes: lineModes,
		now:       time.Now,
		disrupted: map[route.TransportMode]bool{},
	}
}

// WithClock overrides the clock used for alert active-period checks.
func (a *AlertSource) WithClock(now func() time.Time) *AlertSource {
	a.now = now
	return a
}

// Refresh fetches the feed and rebuilds the disruption snapshot. Retries
// exhausting returns a *FetchError; the previous snapshot stays in place so
// planning continues best-effort.
func (a *AlertSource) Refresh(ctx context.Context) error {
	data, err := a.fetcher.Get(ctx, a.url)
	if err != nil {
		return err
	}

	var feed gtfsrtpb.FeedMessage
	if err := proto.Unmarshal(data, &feed); err != nil {
		return fmt.Errorf("parse service alerts: %w", err)
	}

	disrupted := a.parseFeed(&feed)

	a.mu.Lock()
	a.disrupted = disrupted
	a.mu.Unlock()
	return nil
}

func (a *AlertSource) Disrupted(mode route.TransportMode) bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.disrupted[mode]
}

func (a *AlertSource) parseFeed(feed *gtfsrtpb.FeedMessage) map[route.TransportMode]bool {
	now := a.now().Unix()
	disrupted := map[route.TransportMode]bool{}

	for _, entity := range feed.Entity {
		alert := entity.Alert
		if alert == nil {
			continue
		}
		if alert.Effect != nil && *alert.Effect == gtfsrtpb.Alert_NO_EFFECT {
			continue
		}
		if !alertActiveAt(alert, now) {
			continue
		}
		for _, informed := range alert.InformedEntity {
			for _, mode := range a.modesForEntity(informed) {
				disrupted[mode] = true
			}
		}
	}
	return disrupted
}

func alertActiveAt(alert *gtfsrtpb.Alert, now int64) bool {
	if len(alert.ActivePeriod) == 0 {
		return true
	}
	for _, period := range alert.ActivePeriod {
		start := int64(0)
		if period.Start != nil {
			start = int64(*period.Start)
		}
		end := int64(1<<62 - 1)
		if period.End != nil {
			end = int64(*period.End)
		}
		if now >= start && now <= end {
			return true
		}
	}
	return false
}

// modesForEntity resolves an informed entity to transport modes, preferring
// the GTFS route_type and falling back to the line mapping.
func (a *AlertSource) modesForEntity(informed *gtfsrtpb.EntitySelector) []route.TransportMode {
	if informed.RouteType != nil {
		switch *informed.RouteType {
		case 0:
			return []route.TransportMode{route.Tram}
		case 1:
			return []route.TransportMode{route.Metro}
		case 2:
			// Heavy rail covers both regional classes in this network.
			return []route.TransportMode{route.RER, route.Transilien}
		case 3:
			return []route.TransportMode{route.Bus}
		}
	}
	if informed.RouteId != nil {
		if mode, ok := a.lineModes[*informed.RouteId]; ok {
			return []route.TransportMode{mode}
		}
	}
	return nil
}
