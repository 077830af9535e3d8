package storage

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
	"tourneybot/lib/sl"
)

const (
	DefaultSweepInterval = time.Hour
	DefaultPendingMaxAge = 24 * time.Hour
	DefaultSweepBudget   = 30 * time.Second
)

type SweeperConfig struct {
	Interval time.Duration
	MaxAge   time.Duration
	Budget   time.Duration
}

// Sweeper periodically expires stale pending registrations in the background.
type Sweeper struct {
	store    *Store
	config   SweeperConfig
	log      *slog.Logger
	started  atomic.Bool
	stopOnce sync.Once
	stopCh   chan struct{}
	done     chan struct{}
}

func NewSweeper(store *Store, cfg SweeperConfig, log *slog.Logger) *Sweeper {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultSweepInterval
	}
	if cfg.MaxAge <= 0 {
		cfg.MaxAge = DefaultPendingMaxAge
	}
	if cfg.Budget <= 0 {
		cfg.Budget = DefaultSweepBudget
	}
	return &Sweeper{
		store:  store,
		config: cfg,
		log:    log.With(sl.Module("sweeper")),
		stopCh: make(chan struct{}),
		done:   make(chan struct{}),
	}
}

func (w *Sweeper) Start() {
	if !w.started.CompareAndSwap(false, true) {
		return
	}
	w.log.With(
		slog.Duration("interval", w.config.Interval),
		slog.Duration("max_age", w.config.MaxAge),
	).Info("starting pending registrations sweeper")
	go func() {
		defer close(w.done)
		ticker := time.NewTicker(w.config.Interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				w.Sweep()
			case <-w.stopCh:
				return
			}
		}
	}()
}

// Stop waits for a running sweep to finish. Safe to call more than once and
// from several goroutines.
func (w *Sweeper) Stop() {
	if !w.started.Load() {
		return
	}
	w.stopOnce.Do(func() { close(w.stopCh) })
	<-w.done
}

// Sweep runs one expiry pass bounded by the configured budget.
// Entries left over when the budget runs out are picked up by the next pass.
func (w *Sweeper) Sweep() int {
	ctx, cancel := context.WithTimeout(context.Background(), w.config.Budget)
	defer cancel()

	removed, err := w.store.ExpirePending(ctx, w.config.MaxAge)
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		w.log.With(slog.Int("removed", removed)).Warn("sweep budget exhausted, continuing next run")
	case err != nil:
		w.log.With(slog.Int("removed", removed)).Error("expiring pending registrations", sl.Err(err))
	case removed > 0:
		w.log.With(slog.Int("removed", removed)).Info("expired pending registrations")
	}
	return removed
}
