package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

func TestKeyNormalization(t *testing.T) {
	tests := []struct {
		name     string
		suburb   string
		postcode int
		state    string
		want     string
	}{
		{"uppercases", "Adelaide", 5000, "SA", "ADELAIDE_5000_SA"},
		{"already upper", "COOBER PEDY", 5723, "SA", "COOBER PEDY_5723_SA"},
		{"trims whitespace", "  Glenelg ", 5045, "sa", "GLENELG_5045_SA"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Key(tt.suburb, tt.postcode, tt.state))
		})
	}
}

func TestStatsGroupsBySource(t *testing.T) {
	entries := map[string]Entry{
		"A_5000_SA": {Source: "mapbox"},
		"B_5001_SA": {Source: "mapbox"},
		"C_5002_SA": {Source: "fallback"},
		"D_5003_SA": {},
	}

	s := statsFor(entries)
	assert.Equal(t, 4, s.TotalEntries)
	assert.Equal(t, 2, s.Sources["mapbox"])
	assert.Equal(t, 1, s.Sources["fallback"])
	assert.Equal(t, 1, s.Sources["unknown"])
}

func TestFileRepositoryRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache", "coords.json")

	r, err := NewFile(path)
	require.NoError(t, err)

	entry := Entry{Latitude: -34.9285, Longitude: 138.6007, Source: "mapbox", CachedAt: time.Now().UTC().Truncate(time.Second)}
	r.Put("ADELAIDE_5000_SA", entry)
	require.NoError(t, r.Flush())
	require.NoError(t, r.Close())

	reopened, err := NewFile(path)
	require.NoError(t, err)
	got, ok := reopened.Get("ADELAIDE_5000_SA")
	require.True(t, ok)
	assert.Equal(t, entry, got)
	assert.Equal(t, 1, reopened.Len())
}

func TestFileRepositoryMissingFileStartsEmpty(t *testing.T) {
	r, err := NewFile(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)
	assert.Equal(t, 0, r.Len())
}

func TestFileRepositoryCorruptFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "coords.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	r, err := NewFile(path)
	require.NoError(t, err)
	assert.Equal(t, 0, r.Len())
}

func TestFileRepositoryPutWithoutFlushNotPersisted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "coords.json")

	r, err := NewFile(path)
	require.NoError(t, err)
	r.Put("ADELAIDE_5000_SA", Entry{Latitude: -34.9, Longitude: 138.6, Source: "mapbox"})

	// No Flush: a fresh open must not see the staged entry.
	reopened, err := NewFile(path)
	require.NoError(t, err)
	assert.Equal(t, 0, reopened.Len())
}

func TestFileRepositoryClearRemovesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "coords.json")

	r, err := NewFile(path)
	require.NoError(t, err)
	r.Put("A_5000_SA", Entry{Latitude: 1, Longitude: 2, Source: "default"})
	require.NoError(t, r.Flush())

	require.NoError(t, r.Clear())
	assert.Equal(t, 0, r.Len())
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}
