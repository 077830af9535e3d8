// Package workflow drives registrations from a user's first message to an
// administrator's decision.
//
// A user stages a team name, then sends a rating per track; each rating
// becomes a pending registration in the store. Administrators confirm or
// reject pending entries by username, by inline button or through the HTTP
// API. Every exported handler returns a Response and never an error: failures
// are mapped to user-facing texts here, so the transport only renders.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"
	"tourneybot/entity"
	"tourneybot/internal/export"
	"tourneybot/internal/interpreter"
	"tourneybot/internal/locale"
	"tourneybot/internal/storage"
	"tourneybot/internal/validation"
	"tourneybot/lib/clock"
	"tourneybot/lib/sl"
)

// ErrDenied is returned when a non-administrator calls an admin-only operation.
var ErrDenied = errors.New("administrators only")

// Store is the subset of storage.Store the workflow needs.
type Store interface {
	SavePending(ctx context.Context, userID int64, username string, track entity.Track, teamName string, rating int) error
	Confirm(ctx context.Context, userID int64, track entity.Track) (*entity.Player, error)
	Reject(ctx context.Context, userID int64, track entity.Track) (*entity.Registration, error)
	RemoveConfirmed(ctx context.Context, track entity.Track, username string) (*entity.Player, error)
	ClearAll(ctx context.Context) error
	Pending() []entity.Registration
	PendingFor(userID int64) []entity.Registration
	FindPending(username string) []entity.Registration
	Confirmed() map[entity.Track][]entity.Player
	ConfirmedPlayer(track entity.Track, username string) (entity.Player, bool)
	Statistics() entity.Statistics
	Snapshot() *entity.Snapshot
}

// AdminPolicy is the single authorization decision of the bot.
// Implemented by impl/auth and bot.ChatRoleAdmins.
type AdminPolicy interface {
	IsAdmin(ctx context.Context, who entity.Identity) bool
}

// Notifier delivers messages outside of the current conversation.
// Implemented by the Telegram bot.
type Notifier interface {
	NotifyAdmins(text string, keyboard Keyboard)
	NotifyUser(userID int64, text string)
}

// Event is one inbound text message.
type Event struct {
	UserID   int64
	ChatID   int64
	Username string
	Text     string
	Language interpreter.Language
}

func (e Event) Identity() entity.Identity {
	return entity.Identity{UserID: e.UserID, ChatID: e.ChatID, Username: e.Username}
}

// Response is what the transport sends back to the originating chat.
type Response struct {
	Text      string
	Keyboard  Keyboard
	Documents []export.Document
}

type Options struct {
	// AdminLanguage is used for notifications sent to administrators.
	AdminLanguage interpreter.Language
}

type Controller struct {
	store    Store
	sessions *Sessions
	admins   AdminPolicy
	notifier Notifier
	clock    clock.Clock
	options  Options
	log      *slog.Logger
}

func New(store Store, admins AdminPolicy, clk clock.Clock, opts Options, log *slog.Logger) *Controller {
	if opts.AdminLanguage == "" {
		opts.AdminLanguage = interpreter.LangEN
	}
	return &Controller{
		store:    store,
		sessions: NewSessions(),
		admins:   admins,
		notifier: nopNotifier{},
		clock:    clk,
		options:  opts,
		log:      log.With(sl.Module("workflow")),
	}
}

// SetNotifier is called once the transport is up; until then notifications are dropped.
func (c *Controller) SetNotifier(n Notifier) {
	if n == nil {
		n = nopNotifier{}
	}
	c.notifier = n
}

func (c *Controller) Sessions() *Sessions {
	return c.sessions
}

func (c *Controller) IsAdmin(ctx context.Context, who entity.Identity) bool {
	if c.admins == nil {
		return false
	}
	return c.admins.IsAdmin(ctx, who)
}

// HandleMessage interprets free text and applies the resulting command.
// Unrecognized text gets the help message.
func (c *Controller) HandleMessage(ctx context.Context, ev Event) (resp Response) {
	defer c.recoverPanic(ev, "handle message", &resp)
	c.sessions.SetLanguage(ev.UserID, ev.Language)

	cmd, ok := interpreter.Parse(ev.Text, ev.Language)
	if !ok {
		return c.text(ev, locale.Help, locale.Examples(ev.Language))
	}
	c.log.With(
		sl.User(ev.UserID, ev.Username),
		slog.String("command", cmd.Kind.String()),
	).Debug("command recognized")

	switch cmd.Kind {
	case interpreter.KindTeamName:
		return c.stageTeamName(ev, cmd.TeamName)
	case interpreter.KindRating:
		return c.submitRating(ctx, ev, cmd.Track, cmd.Rating)
	case interpreter.KindConfirm:
		return c.ConfirmUser(ctx, ev, cmd.Username)
	case interpreter.KindReject:
		return c.RejectUser(ctx, ev, cmd.Username)
	}
	return c.text(ev, locale.Help, locale.Examples(ev.Language))
}

func (c *Controller) stageTeamName(ev Event, name string) Response {
	name, err := validation.TeamName(name)
	if err != nil {
		return c.failure(ev, "stage team name", err)
	}
	c.sessions.Stage(ev.UserID, name, c.clock.Now())
	c.log.With(
		sl.User(ev.UserID, ev.Username),
		slog.String("team", name),
	).Debug("team name staged")
	return c.text(ev, locale.TeamSaved, name)
}

func (c *Controller) submitRating(ctx context.Context, ev Event, track entity.Track, rating int) Response {
	session, ok := c.sessions.Get(ev.UserID)
	if !ok || session.TeamName == "" {
		return c.text(ev, locale.TeamRequired)
	}
	rating, err := validation.Rating(rating)
	if err != nil {
		return c.failure(ev, "submit rating", err)
	}
	if ev.Username == "" {
		return c.text(ev, locale.UsernameRequired)
	}

	err = c.store.SavePending(ctx, ev.UserID, ev.Username, track, session.TeamName, rating)
	switch {
	case errors.Is(err, storage.ErrAlreadyPending):
		return c.text(ev, locale.AlreadyPending, track.Title())
	case errors.Is(err, storage.ErrAlreadyConfirmed):
		return c.text(ev, locale.AlreadyConfirmed, track.Title())
	case err != nil:
		return c.failure(ev, "save pending", err)
	}

	c.notifyNewPending(ev, track, session.TeamName, rating)
	return c.text(ev, locale.AwaitingConfirm, track.Title(), session.TeamName, rating)
}

func (c *Controller) notifyNewPending(ev Event, track entity.Track, teamName string, rating int) {
	lang := c.options.AdminLanguage
	text := locale.Text(lang, locale.NewPending, track.Title(), ev.Identity().String(), teamName, rating)
	keyboard := Keyboard{{
		{Text: locale.Text(lang, locale.ButtonConfirm), Data: CallbackData(CallbackConfirm, ev.UserID, track)},
		{Text: locale.Text(lang, locale.ButtonReject), Data: CallbackData(CallbackReject, ev.UserID, track)},
	}}
	c.notifier.NotifyAdmins(text, keyboard)
}

// Start greets the user; administrators also get the list of admin commands.
func (c *Controller) Start(ctx context.Context, ev Event) Response {
	c.sessions.SetLanguage(ev.UserID, ev.Language)
	resp := c.text(ev, locale.Welcome, locale.Examples(ev.Language))
	if c.IsAdmin(ctx, ev.Identity()) {
		resp.Text += "\n\n" + locale.Text(ev.Language, locale.AdminHelp)
	}
	return resp
}

func (c *Controller) Help(ctx context.Context, ev Event) Response {
	return c.Start(ctx, ev)
}

// Cancel forgets the staged team name; pending registrations are not touched.
func (c *Controller) Cancel(ev Event) Response {
	if c.sessions.Clear(ev.UserID) {
		return c.text(ev, locale.Cancelled)
	}
	return c.text(ev, locale.NothingToCancel)
}

func (c *Controller) text(ev Event, key locale.Key, args ...any) Response {
	return Response{Text: locale.Text(ev.Language, key, args...)}
}

// failure maps an error to the user-facing response and logs it at a severity
// matching its kind. Only unexpected errors are logged at error level.
func (c *Controller) failure(ev Event, op string, err error) Response {
	log := c.log.With(sl.User(ev.UserID, ev.Username), slog.String("op", op))

	if f, ok := validation.AsFailure(err); ok {
		log.With(slog.String("field", f.Field), slog.String("code", f.Code)).Debug("validation failed")
		return c.text(ev, locale.InvalidInput, locale.Reason(ev.Language, f))
	}
	if errors.Is(err, ErrDenied) {
		log.Debug("admin command denied")
		return c.text(ev, locale.AdminsOnly)
	}
	log.Error("operation failed", sl.Err(err))
	return c.text(ev, locale.GenericError)
}

func (c *Controller) recoverPanic(ev Event, op string, resp *Response) {
	if r := recover(); r != nil {
		c.log.With(
			sl.User(ev.UserID, ev.Username),
			slog.String("op", op),
			slog.String("stack", string(debug.Stack())),
		).Error(fmt.Sprintf("panic: %v", r))
		*resp = c.text(ev, locale.GenericError)
	}
}

func (c *Controller) now() time.Time {
	return c.clock.Now()
}

type nopNotifier struct{}

func (nopNotifier) NotifyAdmins(string, Keyboard) {}
func (nopNotifier) NotifyUser(int64, string)      {}
