package service

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlogUseCaseObserver_Levels(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	obs := NewSlogUseCaseObserver(logger)
	ctx := context.Background()

	obs.ObserveUseCase(ctx, UseCaseEvent{
		Name:     "move-event",
		Duration: 12 * time.Millisecond,
		Fields:   map[string]any{"id": "evt-1", "day": "Thu"},
	})
	line := buf.String()
	assert.Contains(t, line, "level=DEBUG")
	assert.Contains(t, line, "use_case=move-event")
	assert.Contains(t, line, "duration_ms=12")
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("day=")), bytes.Index(buf.Bytes(), []byte("id=")),
		"fields are logged in key order")

	buf.Reset()
	obs.ObserveUseCase(ctx, UseCaseEvent{Name: "delete-event", Err: errInjected})
	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), `error="injected failure"`)
}

func TestNewSlogUseCaseObserver_NilLogger(t *testing.T) {
	assert.IsType(t, NoopUseCaseObserver{}, NewSlogUseCaseObserver(nil))
}

func TestObserve_CapturesNamedError(t *testing.T) {
	obs := &recordingObserver{}
	run := func() (err error) {
		defer observe(context.Background(), obs, "delete-ticket", time.Now(), map[string]any{"id": "CC-1"}, &err)
		return errInjected
	}

	require.ErrorIs(t, run(), errInjected)
	require.Len(t, obs.events, 1)
	assert.Equal(t, "delete-ticket", obs.events[0].Name)
	assert.False(t, obs.events[0].Success())
	assert.ErrorIs(t, obs.events[0].Err, errInjected)
}
