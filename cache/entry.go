package cache

import (
	"encoding/json"
	"time"
)

// Entry is the durable representation of one cached value. Entries are never
// mutated in place; a refresh overwrites the whole object.
type Entry struct {
	Fingerprint string          `json:"cache_key"`
	Category    string          `json:"category"`
	Timestamp   time.Time       `json:"timestamp"`
	TTLMinutes  int             `json:"ttl_minutes"`
	Payload     json.RawMessage `json:"payload,omitempty"`
}

// ValidAt reports whether the entry is still fresh at the given instant.
// Validity is always derived from the timestamp, never cached as a flag.
func (e Entry) ValidAt(now time.Time) bool {
	if e.Timestamp.IsZero() || e.TTLMinutes <= 0 {
		return false
	}
	return now.Sub(e.Timestamp) < time.Duration(e.TTLMinutes)*time.Minute
}

// decodeEntry parses a durable-tier object. Malformed data is reported so
// the caller can treat it as a miss.
func decodeEntry(data []byte) (Entry, error) {
	var e Entry
	if err := json.Unmarshal(data, &e); err != nil {
		return Entry{}, err
	}
	return e, nil
}
