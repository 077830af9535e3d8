package storage

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"
	"tourneybot/entity"
	"tourneybot/lib/clock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryPersister keeps the last saved snapshot; failSave makes the next saves fail.
type memoryPersister struct {
	mu       sync.Mutex
	saved    *entity.Snapshot
	saves    int
	failSave error
	loadErr  error
}

func (m *memoryPersister) Load(_ context.Context) (*entity.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	if m.saved == nil {
		return nil, nil
	}
	return m.saved.Clone(), nil
}

func (m *memoryPersister) Save(_ context.Context, snapshot *entity.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failSave != nil {
		return m.failSave
	}
	m.saved = snapshot.Clone()
	m.saves++
	return nil
}

var start = time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestStore(t *testing.T) (*Store, *memoryPersister, *clock.Manual) {
	t.Helper()
	p := &memoryPersister{}
	clk := clock.NewManual(start)
	return New(context.Background(), p, clk, discard()), p, clk
}

func TestSaveThenConfirm(t *testing.T) {
	ctx := context.Background()
	s, p, clk := newTestStore(t)

	require.NoError(t, s.SavePending(ctx, 1, "@Alice_W", entity.TrackVSA, "Alpha", 42))
	clk.Advance(time.Minute)

	player, err := s.Confirm(ctx, 1, entity.TrackVSA)
	require.NoError(t, err)
	assert.Equal(t, "Alice_W", player.Username)
	assert.Equal(t, "Alpha", player.TeamName)
	assert.Equal(t, 42, player.Rating)
	assert.Equal(t, start, player.RegisteredAt)
	assert.Equal(t, start.Add(time.Minute), player.ConfirmedAt)

	assert.Empty(t, s.Pending())
	confirmed := s.Confirmed()
	require.Len(t, confirmed[entity.TrackVSA], 1)
	assert.Empty(t, confirmed[entity.TrackH2H])

	stats := s.Statistics()
	assert.Equal(t, 1, stats.Tracks[entity.TrackVSA].Confirmed)
	assert.Equal(t, 0, stats.Pending)
	assert.Equal(t, 1, stats.Lifetime.TotalRegistrations)
	assert.Equal(t, 1, stats.Lifetime.ConfirmedRegistrations)

	assert.Equal(t, 2, p.saves)
	assert.Contains(t, p.saved.Players[entity.TrackVSA], "alice_w")
}

func TestSavePendingRejectsDuplicates(t *testing.T) {
	ctx := context.Background()
	s, p, _ := newTestStore(t)

	require.NoError(t, s.SavePending(ctx, 1, "alice_w", entity.TrackVSA, "Alpha", 42))
	before := s.Snapshot()

	err := s.SavePending(ctx, 1, "alice_w", entity.TrackVSA, "Beta", 10)
	assert.ErrorIs(t, err, ErrAlreadyPending)
	assert.Equal(t, before, s.Snapshot())
	assert.Equal(t, 1, p.saves)

	// the other track is independent
	require.NoError(t, s.SavePending(ctx, 1, "alice_w", entity.TrackH2H, "Alpha", 30))
	assert.Len(t, s.PendingFor(1), 2)

	_, err = s.Confirm(ctx, 1, entity.TrackVSA)
	require.NoError(t, err)
	err = s.SavePending(ctx, 1, "ALICE_W", entity.TrackVSA, "Gamma", 5)
	assert.ErrorIs(t, err, ErrAlreadyConfirmed)
}

func TestConfirmRejectAreTerminal(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name  string
		first func(s *Store) error
	}{
		{"confirm first", func(s *Store) error {
			_, err := s.Confirm(ctx, 5, entity.TrackH2H)
			return err
		}},
		{"reject first", func(s *Store) error {
			_, err := s.Reject(ctx, 5, entity.TrackH2H)
			return err
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _, _ := newTestStore(t)
			require.NoError(t, s.SavePending(ctx, 5, "bob_b", entity.TrackH2H, "Bravo", 70))
			require.NoError(t, tt.first(s))

			_, err := s.Confirm(ctx, 5, entity.TrackH2H)
			assert.ErrorIs(t, err, ErrPendingNotFound)
			_, err = s.Reject(ctx, 5, entity.TrackH2H)
			assert.ErrorIs(t, err, ErrPendingNotFound)
		})
	}
}

func TestRejectKeepsConfirmedSide(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestStore(t)
	require.NoError(t, s.SavePending(ctx, 5, "bob_b", entity.TrackH2H, "Bravo", 70))

	reg, err := s.Reject(ctx, 5, entity.TrackH2H)
	require.NoError(t, err)
	assert.Equal(t, "Bravo", reg.TeamName)
	assert.Empty(t, s.Pending())
	assert.Empty(t, s.Confirmed()[entity.TrackH2H])
}

func TestConfirmConflict(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestStore(t)

	// two user ids carrying the same handle, e.g. after a username change
	require.NoError(t, s.SavePending(ctx, 1, "same_name", entity.TrackVSA, "Alpha", 1))
	require.NoError(t, s.SavePending(ctx, 2, "Same_Name", entity.TrackVSA, "Beta", 2))
	_, err := s.Confirm(ctx, 1, entity.TrackVSA)
	require.NoError(t, err)

	_, err = s.Confirm(ctx, 2, entity.TrackVSA)
	assert.ErrorIs(t, err, ErrConfirmConflict)
	assert.Len(t, s.Pending(), 1, "pending entry must survive a failed confirm")
}

func TestPersistenceFailureLeavesStateUnchanged(t *testing.T) {
	ctx := context.Background()
	s, p, _ := newTestStore(t)
	require.NoError(t, s.SavePending(ctx, 1, "alice_w", entity.TrackVSA, "Alpha", 42))
	before := s.Snapshot()

	p.failSave = errors.New("disk full")

	err := s.SavePending(ctx, 2, "bob_b", entity.TrackVSA, "Bravo", 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, p.failSave)
	_, err = s.Confirm(ctx, 1, entity.TrackVSA)
	require.Error(t, err)
	require.Error(t, s.ClearAll(ctx))

	assert.Equal(t, before, s.Snapshot())
	assert.Len(t, s.Pending(), 1)
}

func TestRestore(t *testing.T) {
	ctx := context.Background()
	s, p, clk := newTestStore(t)
	require.NoError(t, s.SavePending(ctx, 1, "alice_w", entity.TrackVSA, "Альфа", 42))

	restored := New(ctx, p, clk, discard())
	assert.Equal(t, s.Pending(), restored.Pending())

	p.loadErr = errors.New("unexpected end of JSON input")
	empty := New(ctx, p, clk, discard())
	assert.Empty(t, empty.Pending())
	assert.Equal(t, 0, empty.Statistics().Users)
}

func TestExpirePending(t *testing.T) {
	ctx := context.Background()
	s, _, clk := newTestStore(t)
	require.NoError(t, s.SavePending(ctx, 1, "alice_w", entity.TrackVSA, "Alpha", 42))

	clk.Set(start.Add(23 * time.Hour))
	removed, err := s.ExpirePending(ctx, 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 0, removed)
	assert.Len(t, s.Pending(), 1)

	clk.Set(start.Add(25 * time.Hour))
	removed, err = s.ExpirePending(ctx, 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.Empty(t, s.Pending())
	assert.Equal(t, 1, s.Statistics().Lifetime.TotalRegistrations)

	removed, err = s.ExpirePending(ctx, 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 0, removed)
}

func TestExpirePendingStopsAtDeadline(t *testing.T) {
	s, _, clk := newTestStore(t)
	for i := int64(1); i <= 3; i++ {
		require.NoError(t, s.SavePending(context.Background(), i, "user_"+string(rune('a'+i)), entity.TrackVSA, "Team", 1))
	}
	clk.Advance(48 * time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	removed, err := s.ExpirePending(ctx, 24*time.Hour)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, removed)
	assert.Len(t, s.Pending(), 3)

	removed, err = s.ExpirePending(context.Background(), 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 3, removed)
}

func TestRemoveConfirmedAndClear(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestStore(t)
	require.NoError(t, s.SavePending(ctx, 1, "alice_w", entity.TrackVSA, "Alpha", 42))
	_, err := s.Confirm(ctx, 1, entity.TrackVSA)
	require.NoError(t, err)

	_, err = s.RemoveConfirmed(ctx, entity.TrackH2H, "alice_w")
	assert.ErrorIs(t, err, ErrPlayerNotFound)

	p, err := s.RemoveConfirmed(ctx, entity.TrackVSA, "@ALICE_W")
	require.NoError(t, err)
	assert.Equal(t, "Alpha", p.TeamName)
	assert.Empty(t, s.Confirmed()[entity.TrackVSA])

	require.NoError(t, s.SavePending(ctx, 2, "bob_b", entity.TrackH2H, "Bravo", 3))
	require.NoError(t, s.ClearAll(ctx))
	stats := s.Statistics()
	assert.Equal(t, 0, stats.Pending)
	assert.Equal(t, 0, stats.Users)
	assert.Equal(t, 0, stats.Lifetime.TotalRegistrations)
}

func TestStatisticsDistinctUsers(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestStore(t)
	require.NoError(t, s.SavePending(ctx, 1, "alice_w", entity.TrackVSA, "Alpha", 42))
	require.NoError(t, s.SavePending(ctx, 1, "alice_w", entity.TrackH2H, "Alpha", 40))
	require.NoError(t, s.SavePending(ctx, 2, "bob_b", entity.TrackH2H, "Bravo", 3))
	_, err := s.Confirm(ctx, 1, entity.TrackVSA)
	require.NoError(t, err)

	stats := s.Statistics()
	assert.Equal(t, 2, stats.Users)
	assert.Equal(t, 2, stats.Pending)
	assert.Equal(t, entity.TrackStatistics{Total: 1, Confirmed: 1, Pending: 0}, stats.Tracks[entity.TrackVSA])
	assert.Equal(t, entity.TrackStatistics{Total: 2, Confirmed: 0, Pending: 2}, stats.Tracks[entity.TrackH2H])
	require.NotNil(t, stats.LastRegistration)
}

func TestFindPendingIgnoresCase(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestStore(t)
	require.NoError(t, s.SavePending(ctx, 1, "Alice_W", entity.TrackH2H, "Alpha", 42))
	require.NoError(t, s.SavePending(ctx, 1, "Alice_W", entity.TrackVSA, "Alpha", 40))

	found := s.FindPending("@alice_w")
	require.Len(t, found, 2)
	assert.Empty(t, s.FindPending(""))
}

func TestReadersGetCopies(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestStore(t)
	require.NoError(t, s.SavePending(ctx, 1, "alice_w", entity.TrackVSA, "Alpha", 42))

	list := s.Pending()
	list[0].TeamName = "mutated"
	snap := s.Snapshot()
	snap.Pending[entity.PendingKey(1, entity.TrackVSA)].Rating = 99

	assert.Equal(t, "Alpha", s.Pending()[0].TeamName)
	assert.Equal(t, 42, s.Pending()[0].Rating)
}

func TestSweeperSweep(t *testing.T) {
	s, _, clk := newTestStore(t)
	require.NoError(t, s.SavePending(context.Background(), 1, "alice_w", entity.TrackVSA, "Alpha", 42))
	clk.Advance(25 * time.Hour)

	w := NewSweeper(s, SweeperConfig{}, discard())
	assert.Equal(t, 1, w.Sweep())
	assert.Empty(t, s.Pending())

	w.Stop() // not started: must not block
	w.Start()
	w.Stop()
}

func TestSweeperConcurrentStop(t *testing.T) {
	s, _, _ := newTestStore(t)
	w := NewSweeper(s, SweeperConfig{Interval: time.Hour}, discard())
	w.Start()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w.Stop()
		}()
	}
	wg.Wait()
	w.Stop()
}
