package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/urban-mobility/routeplan/blob"
	"github.com/urban-mobility/routeplan/config"
)

// Store is the two-tier cache: a bounded in-process map in front of the
// durable object store. Safe for concurrent use; no lock is held across
// durable-tier I/O.
type Store struct {
	durable  blob.Store
	policies map[Category]Policy
	capacity int
	now      func() time.Time

	mu  sync.Mutex
	mem map[string]memEntry
}

type memEntry struct {
	payload   []byte
	expiresAt time.Time
}

// NewStore builds a cache store over the injected durable tier.
func NewStore(durable blob.Store, cfg config.CacheConfig) *Store {
	capacity := cfg.MemoryCapacity
	if capacity <= 0 {
		capacity = 100
	}
	return &Store{
		durable:  durable,
		policies: PoliciesFromConfig(cfg),
		capacity: capacity,
		now:      time.Now,
		mem:      map[string]memEntry{},
	}
}

// WithClock overrides the store clock. Test hook.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

// Policy returns the storage policy for a category.
func (s *Store) Policy(c Category) Policy { return s.policies[c] }

// Durable exposes the underlying durable tier for collaborators that manage
// their own objects (popularity tracking, maintenance).
func (s *Store) Durable() blob.Store { return s.durable }

// MemoryLen reports the current in-process tier size.
func (s *Store) MemoryLen() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.mem)
}

func memKey(c Category, fingerprint string) string {
	return c.String() + "/" + fingerprint
}

func (p Policy) dataKey(fingerprint string) string {
	if p.Binary {
		return p.Prefix + fingerprint + ".parquet"
	}
	return p.Prefix + fingerprint + ".json"
}

// metaKey is the JSON metadata object written beside binary payloads so TTL
// checks never need to decode the columnar data.
func (p Policy) metaKey(fingerprint string) string {
	return p.Prefix + fingerprint + ".json"
}

// Get returns the cached payload, or false on any kind of miss: absent,
// expired, malformed, or durable tier unavailable.
func (s *Store) Get(ctx context.Context, c Category, fingerprint string) ([]byte, bool) {
	now := s.now()
	key := memKey(c, fingerprint)

	s.mu.Lock()
	if m, ok := s.mem[key]; ok {
		if now.Before(m.expiresAt) {
			payload := m.payload
			s.mu.Unlock()
			return payload, true
		}
		delete(s.mem, key)
	}
	s.mu.Unlock()

	policy := s.policies[c]
	raw, err := s.durable.Get(ctx, policy.metaKey(fingerprint))
	if err != nil {
		if !errors.Is(err, blob.ErrNotFound) {
			log.Printf("cache: durable read failed for %s/%s, treating as miss: %v", c, fingerprint, err)
		}
		return nil, false
	}

	entry, err := decodeEntry(raw)
	if err != nil {
		log.Printf("cache: malformed entry %s/%s, treating as miss: %v", c, fingerprint, err)
		return nil, false
	}
	if !entry.ValidAt(now) {
		return nil, false
	}

	payload := []byte(entry.Payload)
	if policy.Binary {
		payload, err = s.durable.Get(ctx, policy.dataKey(fingerprint))
		if err != nil {
			log.Printf("cache: binary payload read failed for %s/%s: %v", c, fingerprint, err)
			return nil, false
		}
	}

	s.promote(key, payload, entry.Timestamp.Add(time.Duration(entry.TTLMinutes)*time.Minute))
	return payload, true
}

// Put writes the payload to both tiers with timestamp = now. Durable-tier
// failures are logged and swallowed; the in-process tier is still updated so
// the caller's own process benefits from the write.
func (s *Store) Put(ctx context.Context, c Category, fingerprint string, payload []byte) {
	now := s.now()
	policy := s.policies[c]

	entry := Entry{
		Fingerprint: fingerprint,
		Category:    c.String(),
		Timestamp:   now,
		TTLMinutes:  int(policy.TTL / time.Minute),
	}
	if !policy.Binary {
		entry.Payload = json.RawMessage(payload)
	}

	meta, err := json.Marshal(entry)
	if err != nil {
		log.Printf("cache: cannot encode entry %s/%s: %v", c, fingerprint, err)
		return
	}

	if policy.Binary {
		if err := s.durable.Put(ctx, policy.dataKey(fingerprint), payload, policy.ContentType); err != nil {
			log.Printf("cache: durable write failed for %s/%s: %v", c, fingerprint, err)
		}
	}
	if err := s.durable.Put(ctx, policy.metaKey(fingerprint), meta, "application/json"); err != nil {
		log.Printf("cache: durable write failed for %s/%s: %v", c, fingerprint, err)
	}

	s.promote(memKey(c, fingerprint), payload, now.Add(policy.TTL))
}

// Evict removes an entry from both tiers.
func (s *Store) Evict(ctx context.Context, c Category, fingerprint string) {
	s.mu.Lock()
	delete(s.mem, memKey(c, fingerprint))
	s.mu.Unlock()

	policy := s.policies[c]
	if policy.Binary {
		if err := s.durable.Delete(ctx, policy.dataKey(fingerprint)); err != nil {
			log.Printf("cache: evict failed for %s/%s: %v", c, fingerprint, err)
		}
	}
	if err := s.durable.Delete(ctx, policy.metaKey(fingerprint)); err != nil {
		log.Printf("cache: evict failed for %s/%s: %v", c, fingerprint, err)
	}
}

// promote inserts into the in-process tier, evicting the entry with the
// soonest expiry when full. Expiry-soonest-first suits the read-heavy,
// short-TTL workload better than strict LRU bookkeeping would.
func (s *Store) promote(key string, payload []byte, expiresAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.mem[key]; !exists && len(s.mem) >= s.capacity {
		var victim string
		var soonest time.Time
		for k, m := range s.mem {
			if victim == "" || m.expiresAt.Before(soonest) {
				victim = k
				soonest = m.expiresAt
			}
		}
		if victim != "" {
			delete(s.mem, victim)
		}
	}
	s.mem[key] = memEntry{payload: payload, expiresAt: expiresAt}
}
