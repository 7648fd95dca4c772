package livestatus

import (
	"strings"

	"github.com/urban-mobility/routeplan/route"
)

// TableSource derives disruption state from the traffic-status table: any
// row for a mode with a status other than "normal" marks it disrupted.
type TableSource struct {
	disrupted map[route.TransportMode]bool
}

func NewTableSource(rows []route.ScheduleRow) *TableSource {
	disrupted := map[route.TransportMode]bool{}
	for _, row := range rows {
		mode, ok := route.ParseMode(row.TransportType)
		if !ok {
			continue
		}
		status := strings.ToLower(strings.TrimSpace(row.Status))
		if status != "" && status != "normal" {
			disrupted[mode] = true
		}
	}
	return &TableSource{disrupted: disrupted}
}

func (s *TableSource) Disrupted(mode route.TransportMode) bool {
	return s.disrupted[mode]
}

// Combined reports a mode disrupted when any underlying source does. Nil
// sources are skipped, so a missing live feed degrades gracefully.
type Combined struct {
	sources []route.StatusSource
}

func NewCombined(sources ...route.StatusSource) *Combined {
	kept := make([]route.StatusSource, 0, len(sources))
	for _, s := range sources {
		if s != nil {
			kept = append(kept, s)
		}
	}
	return &Combined{sources: kept}
}

func (c *Combined) Disrupted(mode route.TransportMode) bool {
	for _, s := range c.sources {
		if s.Disrupted(mode) {
			return true
		}
	}
	return false
}
