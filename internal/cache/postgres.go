package cache

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Pool is the subset of pgxpool.Pool the cache needs. pgxmock satisfies it.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepository backs the coordinate cache with a shared Postgres table,
// for deployments where several hosts generate against one cache.
type PostgresRepository struct {
	pool    Pool
	entries map[string]Entry
	pending map[string]Entry
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS coordinate_cache (
	key       TEXT PRIMARY KEY,
	latitude  DOUBLE PRECISION NOT NULL,
	longitude DOUBLE PRECISION NOT NULL,
	source    TEXT NOT NULL,
	cached_at TIMESTAMPTZ NOT NULL
)`

// NewPostgres opens a Postgres-backed cache over an existing pool.
func NewPostgres(ctx context.Context, pool Pool) (*PostgresRepository, error) {
	if _, err := pool.Exec(ctx, postgresMigration); err != nil {
		return nil, eris.Wrap(err, "cache: postgres migrate")
	}

	r := &PostgresRepository{pool: pool, entries: map[string]Entry{}, pending: map[string]Entry{}}
	if err := r.loadAll(ctx); err != nil {
		return nil, err
	}

	zap.L().Info("coordinate cache loaded",
		zap.String("driver", "postgres"), zap.Int("entries", len(r.entries)))
	return r, nil
}

func (r *PostgresRepository) loadAll(ctx context.Context) error {
	rows, err := r.pool.Query(ctx, `SELECT key, latitude, longitude, source, cached_at FROM coordinate_cache`)
	if err != nil {
		return eris.Wrap(err, "cache: postgres load")
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		var e Entry
		if err := rows.Scan(&key, &e.Latitude, &e.Longitude, &e.Source, &e.CachedAt); err != nil {
			return eris.Wrap(err, "cache: postgres scan")
		}
		r.entries[key] = e
	}
	return eris.Wrap(rows.Err(), "cache: postgres rows")
}

// Get implements Repository.
func (r *PostgresRepository) Get(key string) (Entry, bool) {
	e, ok := r.entries[key]
	return e, ok
}

// Put implements Repository. Staged until Flush.
func (r *PostgresRepository) Put(key string, entry Entry) {
	r.entries[key] = entry
	r.pending[key] = entry
}

// Flush implements Repository, upserting each staged entry.
func (r *PostgresRepository) Flush() error {
	if len(r.pending) == 0 {
		return nil
	}

	ctx := context.Background()
	for key, e := range r.pending {
		_, err := r.pool.Exec(ctx, `
			INSERT INTO coordinate_cache (key, latitude, longitude, source, cached_at)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (key) DO UPDATE SET
				latitude = EXCLUDED.latitude,
				longitude = EXCLUDED.longitude,
				source = EXCLUDED.source,
				cached_at = EXCLUDED.cached_at`,
			key, e.Latitude, e.Longitude, e.Source, e.CachedAt,
		)
		if err != nil {
			return eris.Wrapf(err, "cache: postgres upsert %s", key)
		}
	}

	zap.L().Debug("coordinate cache flushed",
		zap.String("driver", "postgres"), zap.Int("entries", len(r.pending)))
	r.pending = map[string]Entry{}
	return nil
}

// Len implements Repository.
func (r *PostgresRepository) Len() int { return len(r.entries) }

// Stats implements Repository.
func (r *PostgresRepository) Stats() Stats { return statsFor(r.entries) }

// Clear implements Repository.
func (r *PostgresRepository) Clear() error {
	if _, err := r.pool.Exec(context.Background(), `DELETE FROM coordinate_cache`); err != nil {
		return eris.Wrap(err, "cache: postgres clear")
	}
	r.entries = map[string]Entry{}
	r.pending = map[string]Entry{}
	return nil
}

// Close implements Repository. Pool lifetime is owned by the caller.
func (r *PostgresRepository) Close() error { return nil }
