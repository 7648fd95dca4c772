package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"

	"github.com/urban-mobility/routeplan/route"
	"github.com/urban-mobility/routeplan/utils"
)

// noDepartureBucket is the literal bucket value used when the query has no
// explicit departure time.
const noDepartureBucket = "now"

// canonicalQuery is the canonical JSON-equivalent representation hashed into
// a fingerprint. Field order is fixed by the struct; map-free, so encoding
// is deterministic across processes.
type canonicalQuery struct {
	Date          string                 `json:"date"`
	DepartureTime string                 `json:"departure_time"`
	Destination   string                 `json:"destination"`
	Origin        string                 `json:"origin"`
	Preferences   route.PreferenceVector `json:"preferences"`
	Modes         []string               `json:"transport_modes"`
}

// Fingerprint derives the deterministic cache key for a route query. The
// departure time is floored to its bucketMinutes window so near-identical
// requests collapse onto one key; transport modes are deduplicated and
// sorted so mode order never changes the key. Pure function, no I/O.
func Fingerprint(q route.RouteQuery, bucketMinutes int) string {
	bucket := noDepartureBucket
	if q.HasDeparture() {
		bucket = utils.ClockString(utils.FloorToBucket(q.Departure, bucketMinutes))
	}

	modes := route.SortedModes(q.Modes)
	names := make([]string, len(modes))
	for i, m := range modes {
		names[i] = string(m)
	}

	canon := canonicalQuery{
		Date:          utils.DateString(q.Date),
		DepartureTime: bucket,
		Destination:   q.Destination,
		Origin:        q.Origin,
		Preferences:   q.Preferences,
		Modes:         names,
	}
	return hashJSON(canon)
}

// FingerprintParams derives a cache key for an arbitrary named request,
// used for the api_responses category.
func FingerprintParams(name string, params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	type kv struct {
		Key   string `json:"key"`
		Value string `json:"value"`
	}
	canon := struct {
		API    string `json:"api"`
		Params []kv   `json:"params"`
	}{API: name}
	for _, k := range keys {
		canon.Params = append(canon.Params, kv{Key: k, Value: params[k]})
	}
	return hashJSON(canon)
}

func hashJSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		// Canonical structs contain no unmarshalable types; this is
		// unreachable in practice.
		panic(err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
