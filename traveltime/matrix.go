package traveltime

import (
	"bytes"
	"fmt"

	"github.com/parquet-go/parquet-go"
)

// Edge is one row of the travel-time matrix: an estimate for a single
// ordered hub-station pair.
type Edge struct {
	Origin      string `parquet:"origin"`
	Destination string `parquet:"destination"`
	Minutes     int32  `parquet:"estimated_minutes"`
	ComputedAt  int64  `parquet:"computed_at"` // unix seconds
}

// Matrix is the decoded travel-time matrix with pair lookup.
type Matrix struct {
	edges  []Edge
	byPair map[string]int32
}

func newMatrix(edges []Edge) *Matrix {
	byPair := make(map[string]int32, len(edges))
	for _, e := range edges {
		byPair[e.Origin+"|"+e.Destination] = e.Minutes
	}
	return &Matrix{edges: edges, byPair: byPair}
}

// Len returns the number of ordered pairs in the matrix.
func (m *Matrix) Len() int { return len(m.edges) }

// Edges returns the raw matrix rows.
func (m *Matrix) Edges() []Edge { return m.edges }

// Estimate returns the estimated minutes for an ordered pair, if present.
func (m *Matrix) Estimate(origin, destination string) (int, bool) {
	minutes, ok := m.byPair[origin+"|"+destination]
	return int(minutes), ok
}

// EncodeMatrix serializes matrix rows as Parquet.
func EncodeMatrix(edges []Edge) ([]byte, error) {
	var buf bytes.Buffer
	if err := parquet.Write(&buf, edges); err != nil {
		return nil, fmt.Errorf("encode travel-time matrix: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeMatrix parses Parquet bytes back into a Matrix.
func DecodeMatrix(data []byte) (*Matrix, error) {
	edges, err := parquet.Read[Edge](bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("decode travel-time matrix: %w", err)
	}
	return newMatrix(edges), nil
}
