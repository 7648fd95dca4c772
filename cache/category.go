package cache

import (
	"time"

	"github.com/urban-mobility/routeplan/config"
)

// Category is the closed set of cache partitions. Each category owns a key
// prefix and a TTL; an unknown category cannot be constructed.
type Category int

const (
	Routes Category = iota
	Stations
	Schedules
	APIResponses
	PopularRoutes
	TravelTimes
)

// Categories lists every cache category, in sweep order.
func Categories() []Category {
	return []Category{Routes, Stations, Schedules, APIResponses, PopularRoutes, TravelTimes}
}

func (c Category) String() string {
	switch c {
	case Routes:
		return "routes"
	case Stations:
		return "stations"
	case Schedules:
		return "schedules"
	case APIResponses:
		return "api_responses"
	case PopularRoutes:
		return "popular_routes"
	case TravelTimes:
		return "travel_times"
	}
	return "unknown"
}

// Policy is the per-category storage policy resolved at construction time.
type Policy struct {
	Prefix      string
	TTL         time.Duration
	Binary      bool // payload stored as raw columnar bytes beside a JSON metadata object
	ContentType string
}

// PoliciesFromConfig maps the closed category set onto the configured TTLs.
func PoliciesFromConfig(cfg config.CacheConfig) map[Category]Policy {
	minutes := func(m int) time.Duration { return time.Duration(m) * time.Minute }
	return map[Category]Policy{
		Routes:        {Prefix: "cache/routes/", TTL: minutes(cfg.RoutesTTLMinutes), ContentType: "application/json"},
		Stations:      {Prefix: "cache/stations/", TTL: minutes(cfg.StationsTTLMinutes), ContentType: "application/json"},
		Schedules:     {Prefix: "cache/schedules/", TTL: minutes(cfg.SchedulesTTLMinutes), ContentType: "application/json"},
		APIResponses:  {Prefix: "cache/api_responses/", TTL: minutes(cfg.APIResponsesTTLMinutes), ContentType: "application/json"},
		PopularRoutes: {Prefix: "cache/popular_routes/", TTL: minutes(cfg.PopularRoutesTTLMinutes), ContentType: "application/json"},
		TravelTimes:   {Prefix: "cache/travel_times/", TTL: minutes(cfg.TravelTimesTTLMinutes), Binary: true, ContentType: "application/octet-stream"},
	}
}
