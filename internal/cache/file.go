package cache

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// FileRepository is the default backend: a JSON flat file loaded at startup
// and rewritten wholesale on Flush. A missing file means an empty cache.
type FileRepository struct {
	path    string
	entries map[string]Entry
}

// NewFile opens a file-backed cache at path, loading existing entries.
func NewFile(path string) (*FileRepository, error) {
	r := &FileRepository{path: path, entries: map[string]Entry{}}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			zap.L().Info("coordinate cache file not found, starting empty", zap.String("path", path))
			return r, nil
		}
		return nil, eris.Wrapf(err, "cache: read %s", path)
	}

	if err := json.Unmarshal(data, &r.entries); err != nil {
		// A corrupt cache is not fatal; regenerate from scratch.
		zap.L().Warn("coordinate cache file unreadable, starting empty",
			zap.String("path", path), zap.Error(err))
		r.entries = map[string]Entry{}
		return r, nil
	}

	zap.L().Info("coordinate cache loaded",
		zap.String("path", path), zap.Int("entries", len(r.entries)))
	return r, nil
}

// Get implements Repository.
func (r *FileRepository) Get(key string) (Entry, bool) {
	e, ok := r.entries[key]
	return e, ok
}

// Put implements Repository. In-memory only; call Flush to persist.
func (r *FileRepository) Put(key string, entry Entry) {
	r.entries[key] = entry
}

// Flush implements Repository by rewriting the whole file.
func (r *FileRepository) Flush() error {
	if dir := filepath.Dir(r.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return eris.Wrapf(err, "cache: create dir %s", dir)
		}
	}

	data, err := json.MarshalIndent(r.entries, "", "  ")
	if err != nil {
		return eris.Wrap(err, "cache: marshal entries")
	}
	if err := os.WriteFile(r.path, data, 0o644); err != nil {
		return eris.Wrapf(err, "cache: write %s", r.path)
	}

	zap.L().Debug("coordinate cache flushed",
		zap.String("path", r.path), zap.Int("entries", len(r.entries)))
	return nil
}

// Len implements Repository.
func (r *FileRepository) Len() int { return len(r.entries) }

// Stats implements Repository.
func (r *FileRepository) Stats() Stats { return statsFor(r.entries) }

// Clear implements Repository, removing the backing file as well.
func (r *FileRepository) Clear() error {
	r.entries = map[string]Entry{}
	if err := os.Remove(r.path); err != nil && !os.IsNotExist(err) {
		return eris.Wrapf(err, "cache: remove %s", r.path)
	}
	return nil
}

// Close implements Repository. The file handle is not held open.
func (r *FileRepository) Close() error { return nil }
