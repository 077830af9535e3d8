package logger

import (
	"bytes"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	mu       sync.Mutex
	messages []string
}

func (r *recordingNotifier) SendMessageWithLevel(text string, _ slog.Level) {
	r.mu.Lock()
	r.messages = append(r.messages, text)
	r.mu.Unlock()
}

func TestTelegramHandlerForwardsOnlyAboveLevel(t *testing.T) {
	var buf bytes.Buffer
	base := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	n := &recordingNotifier{}
	log := slog.New(NewTelegramHandler(base, n, slog.LevelError))

	log.Info("registration saved", slog.String("team", "Alpha"))
	log.With(slog.String("mod", "storage")).Error("persisting state", slog.String("error", "disk full"))

	require.Len(t, n.messages, 1)
	assert.Contains(t, n.messages[0], "ERROR persisting state")
	assert.Contains(t, n.messages[0], "mod: storage")
	assert.Contains(t, n.messages[0], "error: disk full")
	assert.Contains(t, buf.String(), "registration saved")
	assert.Contains(t, buf.String(), "persisting state")
}

func TestTelegramHandlerGroupPrefix(t *testing.T) {
	base := slog.NewTextHandler(&bytes.Buffer{}, nil)
	n := &recordingNotifier{}
	log := slog.New(NewTelegramHandler(base, n, slog.LevelWarn)).WithGroup("sweeper")

	log.Warn("sweep cut short")

	require.Len(t, n.messages, 1)
	assert.Contains(t, n.messages[0], "WARN sweeper.sweep cut short")
}
