package cache

import (
	"database/sql"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// SQLiteRepository backs the coordinate cache with a local SQLite database.
// All entries are held in memory; Flush upserts staged puts in a single
// transaction, preserving the flush-on-demand contract.
type SQLiteRepository struct {
	db      *sql.DB
	entries map[string]Entry
	pending map[string]Entry
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS coordinate_cache (
	key       TEXT PRIMARY KEY,
	latitude  REAL NOT NULL,
	longitude REAL NOT NULL,
	source    TEXT NOT NULL,
	cached_at DATETIME NOT NULL
);
`

// NewSQLite opens (or creates) a SQLite-backed cache at the given DSN.
func NewSQLite(dsn string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "cache: sqlite open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "cache: sqlite exec %s", pragma)
		}
	}
	if _, err := db.Exec(sqliteMigration); err != nil {
		db.Close()
		return nil, eris.Wrap(err, "cache: sqlite migrate")
	}

	r := &SQLiteRepository{db: db, entries: map[string]Entry{}, pending: map[string]Entry{}}
	if err := r.loadAll(); err != nil {
		db.Close()
		return nil, err
	}

	zap.L().Info("coordinate cache loaded",
		zap.String("driver", "sqlite"), zap.Int("entries", len(r.entries)))
	return r, nil
}

func (r *SQLiteRepository) loadAll() error {
	rows, err := r.db.Query(`SELECT key, latitude, longitude, source, cached_at FROM coordinate_cache`)
	if err != nil {
		return eris.Wrap(err, "cache: sqlite load")
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		var e Entry
		if err := rows.Scan(&key, &e.Latitude, &e.Longitude, &e.Source, &e.CachedAt); err != nil {
			return eris.Wrap(err, "cache: sqlite scan")
		}
		r.entries[key] = e
	}
	return eris.Wrap(rows.Err(), "cache: sqlite rows")
}

// Get implements Repository.
func (r *SQLiteRepository) Get(key string) (Entry, bool) {
	e, ok := r.entries[key]
	return e, ok
}

// Put implements Repository. Staged until Flush.
func (r *SQLiteRepository) Put(key string, entry Entry) {
	r.entries[key] = entry
	r.pending[key] = entry
}

// Flush implements Repository, upserting staged entries in one transaction.
func (r *SQLiteRepository) Flush() error {
	if len(r.pending) == 0 {
		return nil
	}

	tx, err := r.db.Begin()
	if err != nil {
		return eris.Wrap(err, "cache: sqlite begin")
	}
	stmt, err := tx.Prepare(`
		INSERT INTO coordinate_cache (key, latitude, longitude, source, cached_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (key) DO UPDATE SET
			latitude = excluded.latitude,
			longitude = excluded.longitude,
			source = excluded.source,
			cached_at = excluded.cached_at`)
	if err != nil {
		tx.Rollback()
		return eris.Wrap(err, "cache: sqlite prepare")
	}
	defer stmt.Close()

	for key, e := range r.pending {
		if _, err := stmt.Exec(key, e.Latitude, e.Longitude, e.Source, e.CachedAt); err != nil {
			tx.Rollback()
			return eris.Wrapf(err, "cache: sqlite upsert %s", key)
		}
	}
	if err := tx.Commit(); err != nil {
		return eris.Wrap(err, "cache: sqlite commit")
	}

	zap.L().Debug("coordinate cache flushed",
		zap.String("driver", "sqlite"), zap.Int("entries", len(r.pending)))
	r.pending = map[string]Entry{}
	return nil
}

// Len implements Repository.
func (r *SQLiteRepository) Len() int { return len(r.entries) }

// Stats implements Repository.
func (r *SQLiteRepository) Stats() Stats { return statsFor(r.entries) }

// Clear implements Repository.
func (r *SQLiteRepository) Clear() error {
	if _, err := r.db.Exec(`DELETE FROM coordinate_cache`); err != nil {
		return eris.Wrap(err, "cache: sqlite clear")
	}
	r.entries = map[string]Entry{}
	r.pending = map[string]Entry{}
	return nil
}

// Close implements Repository.
func (r *SQLiteRepository) Close() error { return r.db.Close() }
