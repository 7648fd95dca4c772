// Package traveltime precomputes a pairwise travel-time matrix among hub
// stations. The matrix is a cheap fallback hint for pre-warming heuristics,
// never the authoritative duration in a served route. It is rebuilt
// wholesale on each build cycle and stored in the travel_times cache
// category as columnar Parquet.
package traveltime
