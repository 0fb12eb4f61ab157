package main

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/arbordata/saaddr/internal/cache"
	"github.com/arbordata/saaddr/internal/generator"
	"github.com/arbordata/saaddr/internal/lookup"
	"github.com/arbordata/saaddr/internal/population"
	"github.com/arbordata/saaddr/internal/sampler"
	"github.com/arbordata/saaddr/pkg/geocode"
)

// env bundles the wired pipeline for a command invocation.
type env struct {
	pop      *population.Population
	repo     cache.Repository
	geocoder *geocode.Geocoder
	gen      *generator.Generator
	presets  *sampler.Presets
	lookups  *lookup.Service
	pool     *pgxpool.Pool
}

func (e *env) Close() {
	if err := e.repo.Close(); err != nil {
		zap.L().Warn("cache close failed", zap.Error(err))
	}
	if e.pool != nil {
		e.pool.Close()
	}
}

// initEnv loads the population and wires cache, geocoder, generator,
// presets, and (when a Mapbox token is configured) the lookup service.
func initEnv(ctx context.Context) (*env, error) {
	pop, err := population.Load(ctx, cfg.Data.File)
	if err != nil {
		return nil, eris.Wrap(err, "load population")
	}

	e := &env{pop: pop}
	if err := e.initCache(ctx); err != nil {
		return nil, err
	}

	var provider *geocode.MapboxProvider
	if cfg.Mapbox.Token != "" {
		opts := []geocode.MapboxOption{geocode.WithRateLimit(cfg.Mapbox.RatePerSecond)}
		if cfg.Mapbox.BaseURL != "" {
			opts = append(opts, geocode.WithBaseURL(cfg.Mapbox.BaseURL))
		}
		provider = geocode.NewMapbox(cfg.Mapbox.Token, opts...)
		e.lookups = lookup.New(provider, pop)
	} else {
		zap.L().Info("no mapbox token configured, using offline fallback only")
	}

	geocoderOpts := []geocode.Option{
		geocode.WithFallback(geocode.NewFallback()),
		geocode.WithCallDelay(time.Duration(cfg.Generate.CallDelayMs) * time.Millisecond),
	}
	if provider != nil {
		geocoderOpts = append(geocoderOpts, geocode.WithProvider(provider))
	}
	e.geocoder = geocode.New(e.repo, geocoderOpts...)

	e.gen = generator.New(pop, e.geocoder, generator.WithJitter(cfg.Generate.JitterKm))

	e.presets = sampler.NewPresets()
	if cfg.Data.Presets != "" {
		if err := e.presets.LoadFile(cfg.Data.Presets); err != nil {
			return nil, eris.Wrap(err, "load presets")
		}
	}

	return e, nil
}

func (e *env) initCache(ctx context.Context) error {
	var err error
	switch cfg.Cache.Driver {
	case "file", "":
		e.repo, err = cache.NewFile(cfg.Cache.Path)
	case "sqlite":
		e.repo, err = cache.NewSQLite(cfg.Cache.Path)
	case "postgres":
		e.pool, err = pgxpool.New(ctx, cfg.Cache.DatabaseURL)
		if err != nil {
			return eris.Wrap(err, "connect postgres")
		}
		e.repo, err = cache.NewPostgres(ctx, e.pool)
	default:
		return eris.Errorf("unknown cache driver %q (file, sqlite, postgres)", cfg.Cache.Driver)
	}
	return err
}
