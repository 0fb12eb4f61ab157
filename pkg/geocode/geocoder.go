package geocode

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/arbordata/saaddr/internal/cache"
)

// Stats counts resolution outcomes by layer.
type Stats struct {
	CacheHits    int `json:"cache_hits"`
	APICalls     int `json:"api_calls"`
	FallbackUsed int `json:"fallback_used"`
	Errors       int `json:"errors"`
}

// Total returns the number of recorded resolution outcomes.
func (s Stats) Total() int {
	return s.CacheHits + s.APICalls + s.FallbackUsed + s.Errors
}

// Rates expresses Stats as percentages of total outcomes.
type Rates struct {
	Stats
	TotalRequests int     `json:"total_requests"`
	CacheHitRate  float64 `json:"cache_hit_rate"`
	APIRate       float64 `json:"api_success_rate"`
	FallbackRate  float64 `json:"fallback_rate"`
	ErrorRate     float64 `json:"error_rate"`
}

// StatsProvider exposes resolution statistics without tying callers to the
// concrete geocoder.
type StatsProvider interface {
	GeocodingStats() Rates
}

// Geocoder resolves suburbs to coordinates through the layered chain. It is
// not safe for concurrent use; batch resolution is sequential.
type Geocoder struct {
	repo     cache.Repository
	provider Provider
	fallback *Fallback
	clock    clockwork.Clock
	delay    time.Duration

	// pace is set after a provider call so the next provider call waits,
	// keeping inter-call spacing without penalizing cache hits.
	pace  bool
	stats Stats
}

// Option configures a Geocoder.
type Option func(*Geocoder)

// WithProvider sets the primary forward-geocoding provider.
func WithProvider(p Provider) Option {
	return func(g *Geocoder) {
		g.provider = p
	}
}

// WithFallback sets the offline coordinate estimator.
func WithFallback(f *Fallback) Option {
	return func(g *Geocoder) {
		g.fallback = f
	}
}

// WithCallDelay sets the minimum spacing between consecutive provider calls.
func WithCallDelay(d time.Duration) Option {
	return func(g *Geocoder) {
		g.delay = d
	}
}

// WithClock injects the clock used for call spacing.
func WithClock(c clockwork.Clock) Option {
	return func(g *Geocoder) {
		g.clock = c
	}
}

// New creates a Geocoder over the given coordinate cache.
func New(repo cache.Repository, opts ...Option) *Geocoder {
	g := &Geocoder{
		repo:  repo,
		clock: clockwork.NewRealClock(),
		delay: 100 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Resolve returns coordinates for a suburb, walking cache, provider,
// fallback, and the Adelaide default in order. The returned source names the
// layer that produced the coordinate. Fallback offsets draw from rng so
// seeded callers get reproducible coordinates; a nil rng gets a clock seed.
func (g *Geocoder) Resolve(ctx context.Context, rng *rand.Rand, suburb string, postcode int, state string) (lat, lng float64, source string, err error) {
	if suburb == "" || postcode == 0 {
		return 0, 0, "", eris.New("geocode: suburb and postcode are required")
	}
	if state == "" {
		state = "SA"
	}
	key := cache.Key(suburb, postcode, state)

	if entry, ok := g.repo.Get(key); ok {
		g.stats.CacheHits++
		zap.L().Debug("cache hit", zap.String("suburb", suburb))
		return entry.Latitude, entry.Longitude, entry.Source, nil
	}

	if g.provider != nil && g.provider.Available(ctx) {
		if result, perr := g.callProvider(ctx, suburb, postcode, state); perr != nil {
			g.stats.Errors++
			zap.L().Warn("provider geocoding failed",
				zap.String("suburb", suburb), zap.Error(perr))
		} else if result != nil {
			g.stats.APICalls++
			g.put(key, result.Latitude, result.Longitude, g.provider.Name())
			return result.Latitude, result.Longitude, g.provider.Name(), nil
		}
	}

	if g.fallback != nil {
		if rng == nil {
			rng = rand.New(rand.NewSource(time.Now().UnixNano()))
		}
		fLat, fLng := g.fallback.Coordinates(rng, suburb, postcode)
		g.stats.FallbackUsed++
		g.put(key, fLat, fLng, g.fallback.Name())
		zap.L().Debug("fallback coordinates used", zap.String("suburb", suburb))
		return fLat, fLng, g.fallback.Name(), nil
	}

	zap.L().Warn("no coordinates found, using default", zap.String("suburb", suburb))
	g.put(key, AdelaideLat, AdelaideLng, "default")
	return AdelaideLat, AdelaideLng, "default", nil
}

// callProvider paces consecutive provider calls and issues the forward
// geocode for "<suburb>, <state> <postcode>, Australia".
func (g *Geocoder) callProvider(ctx context.Context, suburb string, postcode int, state string) (*Result, error) {
	if g.pace && g.delay > 0 {
		select {
		case <-ctx.Done():
			return nil, eris.Wrap(ctx.Err(), "geocode: pacing wait")
		case <-g.clock.After(g.delay):
		}
	}
	g.pace = true

	return g.provider.Geocode(ctx, formatQuery(suburb, postcode, state))
}

func formatQuery(suburb string, postcode int, state string) string {
	return fmt.Sprintf("%s, %s %d, Australia", suburb, state, postcode)
}

func (g *Geocoder) put(key string, lat, lng float64, source string) {
	g.repo.Put(key, cache.Entry{
		Latitude:  lat,
		Longitude: lng,
		Source:    source,
		CachedAt:  time.Now().UTC(),
	})
}

// GeocodingStats implements StatsProvider.
func (g *Geocoder) GeocodingStats() Rates {
	r := Rates{Stats: g.stats, TotalRequests: g.stats.Total()}
	if r.TotalRequests == 0 {
		return r
	}
	total := float64(r.TotalRequests)
	r.CacheHitRate = float64(g.stats.CacheHits) / total * 100
	r.APIRate = float64(g.stats.APICalls) / total * 100
	r.FallbackRate = float64(g.stats.FallbackUsed) / total * 100
	r.ErrorRate = float64(g.stats.Errors) / total * 100
	return r
}

// ResetStats clears resolution counters.
func (g *Geocoder) ResetStats() {
	g.stats = Stats{}
}

// FlushCache persists staged cache entries. Batch callers invoke this once
// per batch.
func (g *Geocoder) FlushCache() error {
	return eris.Wrap(g.repo.Flush(), "geocode: flush cache")
}

// CacheStats summarizes the backing coordinate cache.
func (g *Geocoder) CacheStats() cache.Stats {
	return g.repo.Stats()
}
