package route

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/parquet-go/parquet-go"
)

// Station is one row of the stations reference table, produced by the
// external ETL jobs and consumed read-only here.
type Station struct {
	Name       string  `parquet:"name" json:"name"`
	Lat        float64 `parquet:"lat" json:"lat"`
	Lon        float64 `parquet:"lon" json:"lon"`
	Accessible bool    `parquet:"accessible" json:"accessible"`
}

// ScheduleRow is one row of the schedules/traffic-status table.
type ScheduleRow struct {
	TransportType string `parquet:"transport_type" json:"transport_type"`
	Line          string `parquet:"line" json:"line"`
	Direction     string `parquet:"direction" json:"direction"`
	Status        string `parquet:"status" json:"status"`
}

// StationIndex provides name lookup over the stations table.
type StationIndex struct {
	stations []Station
}

func NewStationIndex(stations []Station) *StationIndex {
	return &StationIndex{stations: stations}
}

func (idx *StationIndex) Len() int { return len(idx.stations) }

// All returns the underlying station rows.
func (idx *StationIndex) All() []Station { return idx.stations }

// Find looks a station up by name, trying an exact case-insensitive match
// before falling back to the first substring match.
func (idx *StationIndex) Find(name string) (Station, bool) {
	lower := strings.ToLower(name)
	for _, s := range idx.stations {
		if strings.ToLower(s.Name) == lower {
			return s, true
		}
	}
	for _, s := range idx.stations {
		if strings.Contains(strings.ToLower(s.Name), lower) {
			return s, true
		}
	}
	return Station{}, false
}

// ReadStationsParquet decodes a stations table from Parquet bytes.
func ReadStationsParquet(data []byte) ([]Station, error) {
	rows, err := parquet.Read[Station](bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("read stations parquet: %w", err)
	}
	return rows, nil
}

// ReadSchedulesParquet decodes a schedules/status table from Parquet bytes.
func ReadSchedulesParquet(data []byte) ([]ScheduleRow, error) {
	rows, err := parquet.Read[ScheduleRow](bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("read schedules parquet: %w", err)
	}
	return rows, nil
}
