package geocode

import "context"

// Result holds the coordinates a provider resolved for a query.
type Result struct {
	Latitude  float64
	Longitude float64
	PlaceName string
	Relevance float64
}

// Provider is a forward-geocoding backend. A nil-result, nil-error return
// means the provider had no match; errors are reserved for transport and
// protocol failures.
type Provider interface {
	// Name identifies the provider in cache provenance tags and stats.
	Name() string

	// Geocode resolves a free-text query to coordinates.
	Geocode(ctx context.Context, query string) (*Result, error)

	// Available reports whether the provider is configured and reachable.
	Available(ctx context.Context) bool
}
