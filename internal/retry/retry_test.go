package retry

import (
	"context"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

func fastConfig() Config {
	return Config{MaxAttempts: 3, InitialBackoff: time.Millisecond, ShouldRetry: Always}
}

func TestDoSucceedsFirstAttempt(t *testing.T) {
	calls := 0
	val, err := Do(context.Background(), fastConfig(), "test", func(context.Context) (int, error) {
		calls++
		return 42, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 42, val)
	assert.Equal(t, 1, calls)
}

func TestDoRetriesUntilSuccess(t *testing.T) {
	calls := 0
	val, err := Do(context.Background(), fastConfig(), "test", func(context.Context) (string, error) {
		calls++
		if calls < 3 {
			return "", eris.New("boom")
		}
		return "ok", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", val)
	assert.Equal(t, 3, calls)
}

func TestDoExhaustsAttempts(t *testing.T) {
	calls := 0
	_, err := Do(context.Background(), fastConfig(), "test", func(context.Context) (int, error) {
		calls++
		return 0, eris.New("boom")
	})
	require.Error(t, err)
	assert.Equal(t, 3, calls)
}

func TestDoStopsOnPermanentError(t *testing.T) {
	cfg := Config{MaxAttempts: 3, InitialBackoff: time.Millisecond}
	calls := 0
	_, err := Do(context.Background(), cfg, "test", func(context.Context) (int, error) {
		calls++
		return 0, eris.New("bad request")
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls, "permanent errors are not retried")
}

func TestDoRetriesTransientError(t *testing.T) {
	cfg := Config{MaxAttempts: 2, InitialBackoff: time.Millisecond}
	calls := 0
	_, err := Do(context.Background(), cfg, "test", func(context.Context) (int, error) {
		calls++
		return 0, MarkTransient(eris.New("status 503"), 503)
	})
	require.Error(t, err)
	assert.Equal(t, 2, calls)
}

func TestDoStopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	_, err := Do(ctx, fastConfig(), "test", func(context.Context) (int, error) {
		calls++
		cancel()
		return 0, eris.New("boom")
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"marked", MarkTransient(eris.New("too many requests"), 429), true},
		{"wrapped marker", eris.Wrap(MarkTransient(eris.New("x"), 503), "outer"), true},
		{"connection reset", eris.New("read tcp: connection reset by peer"), true},
		{"plain error", eris.New("invalid token"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsTransient(tt.err))
		})
	}
}

func TestTransientStatus(t *testing.T) {
	for _, code := range []int{408, 429, 500, 502, 503, 504} {
		assert.True(t, TransientStatus(code), "status %d", code)
	}
	for _, code := range []int{200, 204, 301, 400, 401, 403, 404, 422} {
		assert.False(t, TransientStatus(code), "status %d", code)
	}
}
