package generator

import (
	"context"
	"math/rand"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/arbordata/saaddr/internal/model"
	"github.com/arbordata/saaddr/internal/population"
	"github.com/arbordata/saaddr/internal/sampler"
	"github.com/arbordata/saaddr/pkg/geocode"
)

// DefaultJitterKm is the coordinate scatter radius applied to each address
// so addresses within one suburb do not stack on its centre point.
const DefaultJitterKm = 1.5

// Request describes one generation batch.
type Request struct {
	Count   int
	Weights model.WeightConfig
	// Seed fixes the random stream for reproducible batches. Zero means
	// seed from the clock.
	Seed int64
}

// Batch is the outcome of one generation run.
type Batch struct {
	Addresses []model.GeneratedAddress
	Requested int
	Failed    int
	Elapsed   time.Duration
	Geocoding geocode.Rates
}

// Totals tracks lifetime generation counts across batches.
type Totals struct {
	Batches   int
	Requested int
	Generated int
	Failed    int
}

// Generator drives the sampling and assembly pipeline. It owns its random
// source per batch; nothing touches the global rand state.
type Generator struct {
	pop      *population.Population
	geocoder *geocode.Geocoder
	sampler  *sampler.Sampler
	streets  *StreetGenerator
	jitterKm float64
	totals   Totals
}

// Option configures a Generator.
type Option func(*Generator)

// WithJitter sets the coordinate scatter radius in kilometres.
func WithJitter(km float64) Option {
	return func(g *Generator) {
		g.jitterKm = km
	}
}

// WithStreetGenerator overrides the street address source.
func WithStreetGenerator(s *StreetGenerator) Option {
	return func(g *Generator) {
		g.streets = s
	}
}

// New creates a Generator over a population and geocoder.
func New(pop *population.Population, geocoder *geocode.Geocoder, opts ...Option) *Generator {
	g := &Generator{
		pop:      pop,
		geocoder: geocoder,
		sampler:  sampler.New(),
		streets:  NewStreetGenerator(),
		jitterKm: DefaultJitterKm,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate produces one batch of synthetic addresses. A non-positive count
// yields an empty batch rather than an error. Individual address failures
// are counted, not fatal; the batch errors only when the weights are invalid
// or no suburb carries positive weight. The coordinate cache is flushed once
// per batch.
func (g *Generator) Generate(ctx context.Context, req Request) (*Batch, error) {
	started := time.Now()

	if req.Count <= 0 {
		zap.L().Warn("non-positive count requested, returning empty batch",
			zap.Int("count", req.Count))
		return &Batch{Requested: req.Count}, nil
	}
	if err := req.Weights.Validate(); err != nil {
		return nil, eris.Wrap(err, "generator: invalid weights")
	}

	candidates := sampler.Compute(g.pop.Records(), req.Weights)
	if len(candidates) == 0 {
		return nil, eris.Wrap(sampler.ErrEmptyPopulation, "generator: no suburb matches the weight configuration")
	}

	seed := req.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	drawn := g.sampler.Sample(candidates, req.Count, rng)
	batch := &Batch{Requested: req.Count, Addresses: make([]model.GeneratedAddress, 0, len(drawn))}

	for _, suburb := range drawn {
		if ctx.Err() != nil {
			return nil, eris.Wrap(ctx.Err(), "generator: batch cancelled")
		}

		addr, err := g.generateOne(ctx, rng, suburb)
		if err != nil {
			batch.Failed++
			zap.L().Warn("address generation failed",
				zap.String("suburb", suburb.Name), zap.Error(err))
			continue
		}
		batch.Addresses = append(batch.Addresses, addr)
	}

	if err := g.geocoder.FlushCache(); err != nil {
		zap.L().Warn("cache flush failed", zap.Error(err))
	}

	batch.Elapsed = time.Since(started)
	batch.Geocoding = g.geocoder.GeocodingStats()
	g.totals.Batches++
	g.totals.Requested += batch.Requested
	g.totals.Generated += len(batch.Addresses)
	g.totals.Failed += batch.Failed

	zap.L().Info("batch complete",
		zap.Int("requested", batch.Requested),
		zap.Int("generated", len(batch.Addresses)),
		zap.Int("failed", batch.Failed),
		zap.Duration("elapsed", batch.Elapsed))
	return batch, nil
}

func (g *Generator) generateOne(ctx context.Context, rng *rand.Rand, suburb model.SampledSuburb) (model.GeneratedAddress, error) {
	street := g.streets.Generate(rng, model.AreaTypeFor(suburb.Remoteness))

	lat, lng, _, err := g.geocoder.Resolve(ctx, rng, suburb.Name, suburb.Postcode, "SA")
	if err != nil {
		return model.GeneratedAddress{}, eris.Wrap(err, "generator: resolve coordinates")
	}
	lat, lng = geocode.Jitter(rng, lat, lng, g.jitterKm)

	return Assemble(street, suburb, lat, lng)
}

// Totals returns lifetime counters across all batches.
func (g *Generator) Totals() Totals { return g.totals }

// GeocodingStats exposes the underlying resolver statistics.
func (g *Generator) GeocodingStats() geocode.Rates { return g.geocoder.GeocodingStats() }
