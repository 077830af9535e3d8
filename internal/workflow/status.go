package workflow

import (
	"context"
	"strings"
	"tourneybot/entity"
	"tourneybot/internal/locale"
)

// Status shows the caller's staged team name and their entries on every track.
func (c *Controller) Status(_ context.Context, ev Event) (resp Response) {
	defer c.recoverPanic(ev, "status", &resp)

	var lines []string
	if session, ok := c.sessions.Get(ev.UserID); ok {
		lines = append(lines, locale.Text(ev.Language, locale.StatusStaged, session.TeamName))
	}
	for _, reg := range c.store.PendingFor(ev.UserID) {
		lines = append(lines, locale.Text(ev.Language, locale.StatusPending, reg.Track.Title(), reg.TeamName, reg.Rating))
	}
	if ev.Username != "" {
		for _, track := range entity.AllTracks() {
			if p, ok := c.store.ConfirmedPlayer(track, ev.Username); ok {
				lines = append(lines, locale.Text(ev.Language, locale.StatusConfirmed, track.Title(), p.TeamName, p.Rating))
			}
		}
	}
	if len(lines) == 0 {
		return c.text(ev, locale.StatusNothing)
	}
	return Response{Text: locale.Text(ev.Language, locale.StatusHeader) + "\n" + strings.Join(lines, "\n")}
}
