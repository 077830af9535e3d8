// Package core is the facade the HTTP API talks to.
package core

import (
	"context"
	"fmt"
	"log/slog"
	"tourneybot/entity"
	"tourneybot/internal/export"
	"tourneybot/internal/workflow"
	"tourneybot/lib/clock"
	"tourneybot/lib/sl"
)

type AuthService interface {
	AdminByToken(token string) (*entity.Identity, error)
}

// Store is the read side plus the destructive operations of the registration store.
type Store interface {
	export.Source
	Confirmed() map[entity.Track][]entity.Player
	Pending() []entity.Registration
	Statistics() entity.Statistics
	RemoveConfirmed(ctx context.Context, track entity.Track, username string) (*entity.Player, error)
	ClearAll(ctx context.Context) error
}

// Decisions applies admin decisions and notifies the registrant. Implemented by workflow.Controller.
type Decisions interface {
	ApplyConfirm(ctx context.Context, admin entity.Identity, userID int64, track entity.Track) (*entity.Player, error)
	ApplyReject(ctx context.Context, admin entity.Identity, userID int64, track entity.Track) (*entity.Registration, error)
}

// Registrations is the body of GET /v1/registrations.
type Registrations struct {
	Pending []entity.Registration            `json:"pending"`
	Players map[entity.Track][]entity.Player `json:"players"`
}

type Core struct {
	store     Store
	decisions Decisions
	auth      AuthService
	clock     clock.Clock
	log       *slog.Logger
}

var _ Decisions = (*workflow.Controller)(nil)

func New(store Store, decisions Decisions, clk clock.Clock, log *slog.Logger) *Core {
	if store == nil {
		panic("registration store is nil")
	}
	return &Core{
		store:     store,
		decisions: decisions,
		clock:     clk,
		log:       log.With(sl.Module("core")),
	}
}

func (c *Core) SetAuthService(auth AuthService) {
	c.auth = auth
}

func (c *Core) AuthenticateByToken(token string) (*entity.Identity, error) {
	if c.auth == nil {
		return nil, fmt.Errorf("auth service not connected")
	}
	return c.auth.AdminByToken(token)
}

func (c *Core) Statistics() entity.Statistics {
	return c.store.Statistics()
}

func (c *Core) Registrations() *Registrations {
	return &Registrations{
		Pending: c.store.Pending(),
		Players: c.store.Confirmed(),
	}
}

func (c *Core) ExportJSON() (*export.Document, error) {
	return export.JSON(export.Collect(c.store, c.clock.Now()))
}

func (c *Core) ExportRoster() (*export.Document, error) {
	return export.Roster(export.Collect(c.store, c.clock.Now()))
}

func (c *Core) ConfirmPending(ctx context.Context, admin entity.Identity, userID int64, track entity.Track) (*entity.Player, error) {
	if c.decisions == nil {
		return nil, fmt.Errorf("decision service not connected")
	}
	return c.decisions.ApplyConfirm(ctx, admin, userID, track)
}

func (c *Core) RejectPending(ctx context.Context, admin entity.Identity, userID int64, track entity.Track) (*entity.Registration, error) {
	if c.decisions == nil {
		return nil, fmt.Errorf("decision service not connected")
	}
	return c.decisions.ApplyReject(ctx, admin, userID, track)
}

func (c *Core) RemovePlayer(ctx context.Context, admin entity.Identity, track entity.Track, username string) (*entity.Player, error) {
	player, err := c.store.RemoveConfirmed(ctx, track, username)
	if err != nil {
		return nil, err
	}
	c.log.With(
		slog.String("admin", admin.String()),
		slog.String("username", player.Username),
		sl.Track(track),
	).Info("player removed via api")
	return player, nil
}

func (c *Core) ClearAll(ctx context.Context, admin entity.Identity) error {
	if err := c.store.ClearAll(ctx); err != nil {
		return err
	}
	c.log.With(slog.String("admin", admin.String())).Warn("tournament data cleared via api")
	return nil
}
