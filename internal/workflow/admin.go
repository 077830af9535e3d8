package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"tourneybot/entity"
	"tourneybot/internal/export"
	"tourneybot/internal/locale"
	"tourneybot/internal/storage"
	"tourneybot/internal/validation"
	"tourneybot/lib/clock"
	"tourneybot/lib/sl"
)

const clearToken = "confirm"

func (c *Controller) requireAdmin(ctx context.Context, ev Event) error {
	if !c.IsAdmin(ctx, ev.Identity()) {
		return ErrDenied
	}
	return nil
}

// ConfirmUser confirms every pending entry of username, one per track.
func (c *Controller) ConfirmUser(ctx context.Context, ev Event, username string) (resp Response) {
	defer c.recoverPanic(ev, "confirm user", &resp)
	return c.decideUser(ctx, ev, username, true)
}

// RejectUser rejects every pending entry of username, one per track.
func (c *Controller) RejectUser(ctx context.Context, ev Event, username string) (resp Response) {
	defer c.recoverPanic(ev, "reject user", &resp)
	return c.decideUser(ctx, ev, username, false)
}

func (c *Controller) decideUser(ctx context.Context, ev Event, target string, confirm bool) Response {
	op := "reject user"
	if confirm {
		op = "confirm user"
	}
	if err := c.requireAdmin(ctx, ev); err != nil {
		return c.failure(ev, op, err)
	}
	if strings.TrimSpace(target) == "" {
		if confirm {
			return c.text(ev, locale.UsageConfirm)
		}
		return c.text(ev, locale.UsageReject)
	}
	username, err := validation.Username(target)
	if err != nil {
		return c.failure(ev, op, err)
	}

	pending := c.store.FindPending(username)
	if len(pending) == 0 {
		return c.text(ev, locale.NoPending, username)
	}

	lines := make([]string, 0, len(pending))
	for _, reg := range pending {
		var line string
		if confirm {
			line, err = c.confirmOne(ctx, ev, reg.UserID, reg.Track)
		} else {
			line, err = c.rejectOne(ctx, ev, reg.UserID, reg.Track)
		}
		if err != nil {
			// entries decided before the failure stay decided and their owners were notified
			lines = append(lines, c.failure(ev, op, err).Text)
			break
		}
		lines = append(lines, line)
	}
	return Response{Text: strings.Join(lines, "\n")}
}

// ConfirmPending handles the inline Confirm button of a pending entry.
func (c *Controller) ConfirmPending(ctx context.Context, ev Event, userID int64, track entity.Track) (resp Response) {
	defer c.recoverPanic(ev, "confirm pending", &resp)
	if err := c.requireAdmin(ctx, ev); err != nil {
		return c.failure(ev, "confirm pending", err)
	}
	line, err := c.confirmOne(ctx, ev, userID, track)
	if err != nil {
		return c.failure(ev, "confirm pending", err)
	}
	return Response{Text: line}
}

// RejectPending handles the inline Reject button of a pending entry.
func (c *Controller) RejectPending(ctx context.Context, ev Event, userID int64, track entity.Track) (resp Response) {
	defer c.recoverPanic(ev, "reject pending", &resp)
	if err := c.requireAdmin(ctx, ev); err != nil {
		return c.failure(ev, "reject pending", err)
	}
	line, err := c.rejectOne(ctx, ev, userID, track)
	if err != nil {
		return c.failure(ev, "reject pending", err)
	}
	return Response{Text: line}
}

// confirmOne returns the admin-facing line for expected outcomes and an error
// only for unexpected failures.
func (c *Controller) confirmOne(ctx context.Context, ev Event, userID int64, track entity.Track) (string, error) {
	player, err := c.ApplyConfirm(ctx, ev.Identity(), userID, track)
	switch {
	case errors.Is(err, storage.ErrPendingNotFound):
		return locale.Text(ev.Language, locale.AlreadyDecided), nil
	case errors.Is(err, storage.ErrConfirmConflict):
		reg := c.pendingOf(userID, track)
		return locale.Text(ev.Language, locale.ConfirmConflict, reg.Username, track.Title()), nil
	case err != nil:
		return "", err
	}
	return locale.Text(ev.Language, locale.AdminConfirmed, player.Username, track.Title(), player.TeamName, player.Rating), nil
}

func (c *Controller) rejectOne(ctx context.Context, ev Event, userID int64, track entity.Track) (string, error) {
	reg, err := c.ApplyReject(ctx, ev.Identity(), userID, track)
	switch {
	case errors.Is(err, storage.ErrPendingNotFound):
		return locale.Text(ev.Language, locale.AlreadyDecided), nil
	case err != nil:
		return "", err
	}
	return locale.Text(ev.Language, locale.AdminRejected, reg.Username, track.Title()), nil
}

func (c *Controller) pendingOf(userID int64, track entity.Track) entity.Registration {
	for _, reg := range c.store.PendingFor(userID) {
		if reg.Track == track {
			return reg
		}
	}
	return entity.Registration{UserID: userID, Track: track}
}

// ApplyConfirm moves a pending entry to the confirmed players and tells the
// registrant. The caller must already be authorized.
func (c *Controller) ApplyConfirm(ctx context.Context, admin entity.Identity, userID int64, track entity.Track) (*entity.Player, error) {
	player, err := c.store.Confirm(ctx, userID, track)
	if err != nil {
		c.logDecision(admin, "confirm", userID, track, err)
		return nil, err
	}
	c.logDecision(admin, "confirm", userID, track, nil)
	lang := c.sessions.Language(userID, c.options.AdminLanguage)
	c.notifier.NotifyUser(userID, locale.Text(lang, locale.UserConfirmed, track.Title(), player.TeamName, player.Rating))
	return player, nil
}

// ApplyReject deletes a pending entry and tells the registrant. The caller must already be authorized.
func (c *Controller) ApplyReject(ctx context.Context, admin entity.Identity, userID int64, track entity.Track) (*entity.Registration, error) {
	reg, err := c.store.Reject(ctx, userID, track)
	if err != nil {
		c.logDecision(admin, "reject", userID, track, err)
		return nil, err
	}
	c.logDecision(admin, "reject", userID, track, nil)
	lang := c.sessions.Language(userID, c.options.AdminLanguage)
	c.notifier.NotifyUser(userID, locale.Text(lang, locale.UserRejected, track.Title()))
	return reg, nil
}

func (c *Controller) logDecision(admin entity.Identity, decision string, userID int64, track entity.Track, err error) {
	log := c.log.With(
		slog.String("admin", admin.String()),
		slog.String("decision", decision),
		slog.Int64("user_id", userID),
		sl.Track(track),
	)
	switch {
	case err == nil:
		log.Info("admin decision applied")
	case errors.Is(err, storage.ErrPendingNotFound):
		log.Info("pending registration not found")
	case errors.Is(err, storage.ErrConfirmConflict):
		log.Warn("confirm conflicts with existing player", sl.Err(err))
	}
}

// Roster lists pending entries and confirmed players per track.
func (c *Controller) Roster(ctx context.Context, ev Event) (resp Response) {
	defer c.recoverPanic(ev, "roster", &resp)
	if err := c.requireAdmin(ctx, ev); err != nil {
		return c.failure(ev, "roster", err)
	}
	pending := c.store.Pending()
	confirmed := c.store.Confirmed()

	empty := len(pending) == 0
	for _, players := range confirmed {
		empty = empty && len(players) == 0
	}
	if empty {
		return c.text(ev, locale.RosterEmpty)
	}

	var b strings.Builder
	for _, track := range entity.AllTracks() {
		players := confirmed[track]
		b.WriteString(locale.Text(ev.Language, locale.RosterConfirmed, track.Title(), len(players)))
		b.WriteString("\n")
		for i, p := range players {
			b.WriteString(fmt.Sprintf("%d. @%s: \"%s\", %d\n", i+1, p.Username, p.TeamName, p.Rating))
		}
		b.WriteString("\n")
	}
	b.WriteString(locale.Text(ev.Language, locale.RosterPending, len(pending)))
	b.WriteString("\n")
	for _, r := range pending {
		b.WriteString(fmt.Sprintf("• @%s, %s: \"%s\", %d (%s)\n",
			r.Username, r.Track.Title(), r.TeamName, r.Rating, clock.Display(&r.CreatedAt)))
	}
	return Response{Text: strings.TrimRight(b.String(), "\n")}
}

func (c *Controller) Stats(ctx context.Context, ev Event) (resp Response) {
	defer c.recoverPanic(ev, "stats", &resp)
	if err := c.requireAdmin(ctx, ev); err != nil {
		return c.failure(ev, "stats", err)
	}
	stats := c.store.Statistics()

	lines := []string{locale.Text(ev.Language, locale.Stats,
		stats.Users,
		stats.Pending,
		clock.Display(stats.LastRegistration),
		stats.Lifetime.TotalRegistrations,
		stats.Lifetime.ConfirmedRegistrations,
	)}
	for _, track := range entity.AllTracks() {
		ts := stats.Tracks[track]
		lines = append(lines, locale.Text(ev.Language, locale.StatsTrack, track.Title(), ts.Confirmed, ts.Pending))
	}
	return Response{Text: strings.Join(lines, "\n")}
}

// Export returns the JSON dump and the XLSX roster as documents.
func (c *Controller) Export(ctx context.Context, ev Event) (resp Response) {
	defer c.recoverPanic(ev, "export", &resp)
	if err := c.requireAdmin(ctx, ev); err != nil {
		return c.failure(ev, "export", err)
	}
	docs, err := export.All(c.store, c.now())
	if err != nil {
		return c.failure(ev, "export", err)
	}
	c.log.With(slog.String("admin", ev.Identity().String())).Info("data exported")
	return Response{
		Text:      locale.Text(ev.Language, locale.ExportCaption),
		Documents: docs,
	}
}

// Clear deletes everything, but only when arg is literally "confirm"; otherwise it warns.
func (c *Controller) Clear(ctx context.Context, ev Event, arg string) (resp Response) {
	defer c.recoverPanic(ev, "clear", &resp)
	if err := c.requireAdmin(ctx, ev); err != nil {
		return c.failure(ev, "clear", err)
	}
	if strings.TrimSpace(arg) != clearToken {
		return c.text(ev, locale.ClearWarning)
	}
	if err := c.store.ClearAll(ctx); err != nil {
		return c.failure(ev, "clear", err)
	}
	c.log.With(slog.String("admin", ev.Identity().String())).Warn("tournament data cleared by admin")
	return c.text(ev, locale.Cleared)
}

// RemovePlayer drops every pending and confirmed entry of a username on all tracks.
func (c *Controller) RemovePlayer(ctx context.Context, ev Event, target string) (resp Response) {
	defer c.recoverPanic(ev, "remove player", &resp)
	if err := c.requireAdmin(ctx, ev); err != nil {
		return c.failure(ev, "remove player", err)
	}
	if strings.TrimSpace(target) == "" {
		return c.text(ev, locale.UsageRemove)
	}
	username, err := validation.Username(target)
	if err != nil {
		return c.failure(ev, "remove player", err)
	}
	removed, err := c.RemoveUser(ctx, ev.Identity(), username)
	if err != nil {
		return c.failure(ev, "remove player", err)
	}
	if removed == 0 {
		return c.text(ev, locale.PlayerNotFound, username)
	}
	return c.text(ev, locale.PlayerRemoved, username, removed)
}

// RemoveUser returns the number of deleted entries. The caller must already be authorized.
func (c *Controller) RemoveUser(ctx context.Context, admin entity.Identity, username string) (int, error) {
	removed := 0
	for _, reg := range c.store.FindPending(username) {
		_, err := c.store.Reject(ctx, reg.UserID, reg.Track)
		if errors.Is(err, storage.ErrPendingNotFound) {
			continue
		}
		if err != nil {
			return removed, err
		}
		removed++
	}
	for _, track := range entity.AllTracks() {
		_, err := c.store.RemoveConfirmed(ctx, track, username)
		if errors.Is(err, storage.ErrPlayerNotFound) {
			continue
		}
		if err != nil {
			return removed, err
		}
		removed++
	}
	c.log.With(
		slog.String("admin", admin.String()),
		slog.String("username", username),
		slog.Int("removed", removed),
	).Info("player removed")
	return removed, nil
}
