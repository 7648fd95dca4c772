package cache

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"
)

// CategoryStats describes durable-tier usage for one category.
type CategoryStats struct {
	Total      int `json:"total_entries"`
	Valid      int `json:"valid_entries"`
	Expired    int `json:"expired_entries"`
	TTLMinutes int `json:"ttl_minutes"`
}

// StatsReport is the observability snapshot returned by Stats.
type StatsReport struct {
	Categories    map[string]CategoryStats `json:"categories"`
	TotalValid    int                      `json:"total_valid_entries"`
	MemoryEntries int                      `json:"memory_entries"`
	GeneratedAt   time.Time                `json:"generated_at"`
}

// Maintenance sweeps expired durable entries and reports usage statistics.
// It runs independently of request traffic.
type Maintenance struct {
	store *Store
}

func NewMaintenance(store *Store) *Maintenance {
	return &Maintenance{store: store}
}

// Sweep deletes every durable entry past its TTL, across all categories.
// Returns the number of deleted entries. Pre-warming is driven separately;
// popularity counters are never swept — they are cumulative, not cached.
func (m *Maintenance) Sweep(ctx context.Context) (int, error) {
	now := m.store.now()
	deleted := 0

	for _, c := range Categories() {
		policy := m.store.Policy(c)
		keys, err := m.store.Durable().List(ctx, policy.Prefix)
		if err != nil {
			return deleted, fmt.Errorf("sweep %s: %w", c, err)
		}

		for _, key := range keys {
			if !strings.HasSuffix(key, ".json") || key == popularityObjectKey {
				continue
			}
			fingerprint := strings.TrimSuffix(strings.TrimPrefix(key, policy.Prefix), ".json")

			raw, err := m.store.Durable().Get(ctx, key)
			if err != nil {
				log.Printf("maintenance: cannot read %s: %v", key, err)
				continue
			}
			entry, err := decodeEntry(raw)
			if err == nil && entry.ValidAt(now) {
				continue
			}
			// Expired, or malformed and not to be trusted either way.
			m.store.Evict(ctx, c, fingerprint)
			deleted++
		}
	}
	return deleted, nil
}

// Stats reports valid/expired durable entry counts per category plus the
// in-process tier size. Observability only, no side effects.
func (m *Maintenance) Stats(ctx context.Context) StatsReport {
	now := m.store.now()
	report := StatsReport{
		Categories:    map[string]CategoryStats{},
		MemoryEntries: m.store.MemoryLen(),
		GeneratedAt:   now,
	}

	for _, c := range Categories() {
		policy := m.store.Policy(c)
		stats := CategoryStats{TTLMinutes: int(policy.TTL / time.Minute)}

		keys, err := m.store.Durable().List(ctx, policy.Prefix)
		if err != nil {
			log.Printf("maintenance: cannot list %s: %v", c, err)
			report.Categories[c.String()] = stats
			continue
		}

		for _, key := range keys {
			if !strings.HasSuffix(key, ".json") || key == popularityObjectKey {
				continue
			}
			stats.Total++
			raw, err := m.store.Durable().Get(ctx, key)
			if err != nil {
				stats.Expired++
				continue
			}
			entry, err := decodeEntry(raw)
			if err == nil && entry.ValidAt(now) {
				stats.Valid++
			} else {
				stats.Expired++
			}
		}

		report.Categories[c.String()] = stats
		report.TotalValid += stats.Valid
	}
	return report
}
