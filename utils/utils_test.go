package utils

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetryWithBackoffSucceedsAfterFailures(t *testing.T) {
	calls := 0
	err := RetryWithBackoff(context.Background(), 3, time.Millisecond, func(context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("timeout")
		}
		return nil
	}, NewNopLogger())
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestRetryWithBackoffGivesUp(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	err := RetryWithBackoff(context.Background(), 2, time.Millisecond, func(context.Context) error {
		calls++
		return boom
	}, NewNopLogger())
	assert.ErrorIs(t, err, boom)
	assert.ErrorContains(t, err, "all 2 attempts failed")
	assert.Equal(t, 2, calls)
}

func TestRetryWithBackoffStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := RetryWithBackoff(ctx, 5, time.Hour, func(context.Context) error {
		calls++
		cancel()
		return errors.New("fail")
	}, NewNopLogger())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerTo(&buf, LevelWarn)
	logger.Debug("hidden debug")
	logger.Info("hidden info")
	logger.Warn("seat %d skipped", 7)
	logger.Error("failed")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "[WARN]")
	assert.Contains(t, out, "seat 7 skipped")
	assert.Contains(t, out, "[ERROR]")
}

func TestParseLevel(t *testing.T) {
	tests := map[string]Level{
		"debug":   LevelDebug,
		"":        LevelInfo,
		"INFO":    LevelInfo,
		"warning": LevelWarn,
		"error":   LevelError,
	}
	for in, want := range tests {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestURLTracker(t *testing.T) {
	tr := NewURLTracker()
	assert.True(t, tr.Add("a"))
	assert.False(t, tr.Add("a"))
	assert.True(t, tr.Add("b"))
	assert.Equal(t, 2, tr.Count())

	tr.Forget("a")
	assert.True(t, tr.Add("a"))
}

func TestRateLimiterHonoursContext(t *testing.T) {
	rl := NewRateLimiter(60_000)
	require.NoError(t, rl.Wait(context.Background()), "first call does not wait")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, rl.Wait(ctx), context.DeadlineExceeded)
}
