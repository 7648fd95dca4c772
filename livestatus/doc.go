// Package livestatus augments route synthesis with live service state.
//
// Disruption can come from two inputs: the traffic-status table maintained
// by the external ETL jobs, and an optional GTFS-RT ServiceAlerts feed
// fetched through a retrying HTTP helper. Either source marking a mode
// non-normal triggers the synthesizer's disruption penalty. When every
// source is unavailable the planner still produces a best-effort result
// with default congestion and no penalty.
package livestatus
