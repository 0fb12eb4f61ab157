// Package cache provides the persistent suburb→coordinate store used by the
// geocoder. Entries are keyed by normalized suburb identity and carry a
// provenance tag so cache statistics can attribute each coordinate to the
// source that produced it. Puts are in-memory only; persistence happens
// wholesale on Flush, which batch callers invoke once at end-of-batch.
package cache

import (
	"fmt"
	"strings"
	"time"
)

// Entry is one cached coordinate with provenance and creation time.
type Entry struct {
	Latitude  float64   `json:"lat"`
	Longitude float64   `json:"lng"`
	Source    string    `json:"source"`
	CachedAt  time.Time `json:"timestamp"`
}

// Stats summarizes cache contents by provenance.
type Stats struct {
	TotalEntries int            `json:"total_entries"`
	Sources      map[string]int `json:"sources"`
}

// Repository is the keyed coordinate store. Implementations are not safe for
// concurrent use; resolution is strictly sequential.
type Repository interface {
	// Get returns the entry for a key, if present.
	Get(key string) (Entry, bool)
	// Put stages an entry in memory. It is not persisted until Flush.
	Put(key string, entry Entry)
	// Flush persists the full cache to the backing store.
	Flush() error
	// Len returns the number of cached entries.
	Len() int
	// Stats summarizes entries by source tag.
	Stats() Stats
	// Clear drops all entries, in memory and in the backing store.
	Clear() error
	// Close releases any backing resources.
	Close() error
}

// Key builds the normalized cache key for a suburb: UPPER(name)_postcode_state.
func Key(suburb string, postcode int, state string) string {
	return strings.ToUpper(fmt.Sprintf("%s_%d_%s", strings.TrimSpace(suburb), postcode, state))
}

func statsFor(entries map[string]Entry) Stats {
	s := Stats{TotalEntries: len(entries), Sources: map[string]int{}}
	for _, e := range entries {
		source := e.Source
		if source == "" {
			source = "unknown"
		}
		s.Sources[source]++
	}
	return s
}
