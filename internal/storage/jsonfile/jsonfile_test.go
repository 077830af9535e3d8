package jsonfile

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
	"tourneybot/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sampleSnapshot(now time.Time) *entity.Snapshot {
	snap := entity.NewSnapshot(now)
	snap.Pending[entity.PendingKey(7, entity.TrackH2H)] = &entity.Registration{
		UserID:    7,
		Username:  "Ivan_Petrov",
		Track:     entity.TrackH2H,
		TeamName:  "Йошкар-Ола [Тигры]",
		Rating:    38,
		CreatedAt: now,
		Status:    entity.StatusPending,
	}
	snap.Players[entity.TrackVSA]["alice_w"] = &entity.Player{
		Username:     "Alice_W",
		TeamName:     "Alpha <Squad>",
		Rating:       42,
		Track:        entity.TrackVSA,
		ConfirmedAt:  now.Add(time.Minute),
		RegisteredAt: now,
	}
	last := now
	snap.Counters = entity.Counters{TotalRegistrations: 2, ConfirmedRegistrations: 1, LastRegistration: &last}
	return snap
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", DefaultFileName)
	store := New(path, discard())
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	want := sampleSnapshot(now)

	require.NoError(t, store.Save(context.Background(), want))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "Йошкар-Ола [Тигры]", "non-ASCII text must be stored unescaped")
	assert.Contains(t, string(raw), "Alpha <Squad>")

	got, err := store.Load(context.Background())
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, want.Pending, got.Pending)
	assert.Equal(t, want.Players, got.Players)
	assert.Equal(t, want.Counters.TotalRegistrations, got.Counters.TotalRegistrations)
	require.NotNil(t, got.Counters.LastRegistration)
	assert.True(t, want.Counters.LastRegistration.Equal(*got.Counters.LastRegistration))
}

func TestLoadMissingFile(t *testing.T) {
	store := New(filepath.Join(t.TempDir(), "nope.json"), discard())

	snap, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, snap)
}

func TestLoadCorruptFileIsPreserved(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultFileName)
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
	store := New(path, discard())

	snap, err := store.Load(context.Background())
	require.Error(t, err)
	assert.Nil(t, snap)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, strings.HasPrefix(entries[0].Name(), DefaultFileName+".corrupt-"))
}

func TestSaveReplacesWithoutLeftovers(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultFileName)
	store := New(path, discard())
	now := time.Now().UTC()

	require.NoError(t, store.Save(context.Background(), entity.NewSnapshot(now)))
	require.NoError(t, store.Save(context.Background(), sampleSnapshot(now)))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, DefaultFileName, entries[0].Name())
}
