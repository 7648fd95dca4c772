// Package utils provides internal utility functions for the route planner.
// This package is not intended to be imported by external code.
//
// It contains:
//   - Great-circle distance calculation
//   - Clock-time formatting and time-bucket flooring
//   - Shared constants
package utils
