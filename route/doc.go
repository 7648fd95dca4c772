// Package route contains the route synthesis and ranking engine.
//
// The synthesizer builds one candidate leg per requested transport mode from
// a heuristic distance/speed model with time-of-day congestion multipliers;
// it does not traverse an authoritative timetable graph. The ranker orders
// candidates against the caller's preference vector. Both are pure with
// respect to storage: caching lives entirely in the cache package.
package route
