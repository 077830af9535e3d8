// Package storage is the sole owner of pending and confirmed registrations.
//
// Every mutation runs under the write lock on a clone of the current state:
// the clone is changed, handed to the Persister, and only swapped in once the
// save succeeded. Readers take the read lock and get deep copies, so nobody
// observes a half-applied or unpersisted change.
package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"
	"tourneybot/entity"
	"tourneybot/lib/clock"
	"tourneybot/lib/sl"
)

var (
	ErrAlreadyPending   = errors.New("pending registration already exists for this track")
	ErrAlreadyConfirmed = errors.New("already registered for this track")
	ErrPendingNotFound  = errors.New("pending registration not found")
	ErrConfirmConflict  = errors.New("confirmed entry already exists for this username and track")
	ErrPlayerNotFound   = errors.New("confirmed player not found")
)

// errSkip aborts a mutation without persisting and without reporting an error.
var errSkip = errors.New("skip")

// Persister writes and restores the whole state document.
// Implemented by storage/jsonfile and internal/database.
type Persister interface {
	// Load returns nil, nil when nothing has been persisted yet.
	Load(ctx context.Context) (*entity.Snapshot, error)
	Save(ctx context.Context, snapshot *entity.Snapshot) error
}

type Store struct {
	mu        sync.RWMutex
	state     *entity.Snapshot
	persister Persister
	clock     clock.Clock
	log       *slog.Logger
}

// New restores the last persisted snapshot. A missing snapshot or a failed
// restore both start empty; the failure is logged at error level.
func New(ctx context.Context, persister Persister, clk clock.Clock, log *slog.Logger) *Store {
	s := &Store{
		persister: persister,
		clock:     clk,
		log:       log.With(sl.Module("storage")),
	}
	s.state = entity.NewSnapshot(clk.Now())

	snapshot, err := persister.Load(ctx)
	switch {
	case err != nil:
		s.log.Error("restoring state failed, starting empty", sl.Err(err))
	case snapshot == nil:
		s.log.Info("no saved state, starting empty")
	default:
		snapshot.Normalize()
		s.state = snapshot
		s.log.With(
			slog.Int("pending", len(snapshot.Pending)),
			slog.Int("vsa", len(snapshot.Players[entity.TrackVSA])),
			slog.Int("h2h", len(snapshot.Players[entity.TrackH2H])),
		).Info("state restored")
	}
	return s
}

// mutate applies fn to a clone and persists it; state is swapped only on success.
func (s *Store) mutate(ctx context.Context, op string, fn func(next *entity.Snapshot, now time.Time) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	next := s.state.Clone()
	if err := fn(next, now); err != nil {
		return err
	}
	next.UpdatedAt = now
	if err := s.persister.Save(ctx, next); err != nil {
		return fmt.Errorf("%s: persisting state: %w", op, err)
	}
	s.state = next
	return nil
}

// SavePending stages a registration for admin confirmation. It fails without
// mutation when the user already holds a pending or confirmed entry on the track.
func (s *Store) SavePending(ctx context.Context, userID int64, username string, track entity.Track, teamName string, rating int) error {
	username = normalizeHandle(username)
	err := s.mutate(ctx, "save pending", func(next *entity.Snapshot, now time.Time) error {
		key := entity.PendingKey(userID, track)
		if _, ok := next.Pending[key]; ok {
			return ErrAlreadyPending
		}
		if _, ok := next.Players[track][entity.NormalizeUsername(username)]; ok {
			return ErrAlreadyConfirmed
		}
		reg := &entity.Registration{
			UserID:    userID,
			Username:  username,
			Track:     track,
			TeamName:  teamName,
			Rating:    rating,
			CreatedAt: now,
			Status:    entity.StatusPending,
		}
		if err := reg.Validate(); err != nil {
			return fmt.Errorf("invalid registration: %w", err)
		}
		next.Pending[key] = reg
		next.Counters.TotalRegistrations++
		last := now
		next.Counters.LastRegistration = &last
		return nil
	})
	if err != nil {
		return err
	}
	s.log.With(
		sl.User(userID, username),
		sl.Track(track),
		slog.String("team", teamName),
		slog.Int("rating", rating),
	).Info("pending registration saved")
	return nil
}

// Confirm moves the pending entry of (userID, track) to the confirmed players.
func (s *Store) Confirm(ctx context.Context, userID int64, track entity.Track) (*entity.Player, error) {
	var player *entity.Player
	err := s.mutate(ctx, "confirm", func(next *entity.Snapshot, now time.Time) error {
		key := entity.PendingKey(userID, track)
		reg, ok := next.Pending[key]
		if !ok {
			return ErrPendingNotFound
		}
		playerKey := entity.NormalizeUsername(reg.Username)
		if _, exists := next.Players[track][playerKey]; exists {
			return ErrConfirmConflict
		}
		player = entity.PlayerFromRegistration(reg, now)
		next.Players[track][playerKey] = player
		delete(next.Pending, key)
		next.Counters.ConfirmedRegistrations++
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.With(
		sl.User(userID, player.Username),
		sl.Track(track),
	).Info("registration confirmed")
	cp := *player
	return &cp, nil
}

// Reject deletes the pending entry of (userID, track).
func (s *Store) Reject(ctx context.Context, userID int64, track entity.Track) (*entity.Registration, error) {
	var removed *entity.Registration
	err := s.mutate(ctx, "reject", func(next *entity.Snapshot, _ time.Time) error {
		key := entity.PendingKey(userID, track)
		reg, ok := next.Pending[key]
		if !ok {
			return ErrPendingNotFound
		}
		removed = reg
		delete(next.Pending, key)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.With(
		sl.User(userID, removed.Username),
		sl.Track(track),
	).Info("registration rejected")
	cp := *removed
	return &cp, nil
}

// RemoveConfirmed deletes a confirmed player; username matching ignores case and a leading @.
func (s *Store) RemoveConfirmed(ctx context.Context, track entity.Track, username string) (*entity.Player, error) {
	var removed *entity.Player
	err := s.mutate(ctx, "remove confirmed", func(next *entity.Snapshot, _ time.Time) error {
		key := entity.NormalizeUsername(username)
		p, ok := next.Players[track][key]
		if !ok {
			return ErrPlayerNotFound
		}
		removed = p
		delete(next.Players[track], key)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.With(
		slog.String("username", removed.Username),
		sl.Track(track),
	).Info("confirmed player removed")
	cp := *removed
	return &cp, nil
}

// ClearAll empties the store and persists the empty document. Irreversible.
func (s *Store) ClearAll(ctx context.Context) error {
	err := s.mutate(ctx, "clear", func(next *entity.Snapshot, now time.Time) error {
		created := next.CreatedAt
		*next = *entity.NewSnapshot(now)
		next.CreatedAt = created
		return nil
	})
	if err != nil {
		return err
	}
	s.log.Warn("all tournament data cleared")
	return nil
}

// ExpirePending deletes pending entries older than maxAge. Each entry is
// removed under its own lock acquisition so foreground calls interleave; the
// sweep stops at the context deadline and is safe to rerun.
func (s *Store) ExpirePending(ctx context.Context, maxAge time.Duration) (int, error) {
	cutoff := s.clock.Now().Add(-maxAge)

	s.mu.RLock()
	keys := make([]string, 0)
	for key, reg := range s.state.Pending {
		if reg.CreatedAt.Before(cutoff) {
			keys = append(keys, key)
		}
	}
	s.mu.RUnlock()
	sort.Strings(keys)

	removed := 0
	for _, key := range keys {
		if err := ctx.Err(); err != nil {
			return removed, err
		}
		var expired *entity.Registration
		err := s.mutate(ctx, "expire", func(next *entity.Snapshot, _ time.Time) error {
			reg, ok := next.Pending[key]
			if !ok || !reg.CreatedAt.Before(cutoff) {
				return errSkip
			}
			expired = reg
			delete(next.Pending, key)
			return nil
		})
		if errors.Is(err, errSkip) {
			continue
		}
		if err != nil {
			return removed, err
		}
		removed++
		s.log.With(
			sl.User(expired.UserID, expired.Username),
			sl.Track(expired.Track),
		).Info("expired pending registration removed")
	}
	return removed, nil
}

func normalizeHandle(username string) string {
	if len(username) > 0 && username[0] == '@' {
		return username[1:]
	}
	return username
}
