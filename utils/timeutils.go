package utils

import "time"

// ClockString formats a time as HH:MM, the clock-time representation used
// throughout route legs and cache keys.
func ClockString(t time.Time) string {
	return t.Format("15:04")
}

// FloorToBucket floors a time to the start of its bucketMinutes-wide window.
// Two departures inside the same window share a bucket.
func FloorToBucket(t time.Time, bucketMinutes int) time.Time {
	if bucketMinutes <= 0 {
		return t
	}
	floored := (t.Minute() / bucketMinutes) * bucketMinutes
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), floored, 0, 0, t.Location())
}

// Iso8601Now returns the current time in ISO8601 format
func Iso8601Now() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// DateString returns just the date portion in YYYY-MM-DD format
func DateString(t time.Time) string {
	return t.Format("2006-01-02")
}
