// Package bot is the Telegram transport of the registration workflow.
//
// Architecture overview:
//   - tgbot.go     TgBot struct, lifecycle (Start/Stop), admin chat registry
//   - commands.go  user commands and free-text messages: /start, /help, /status, /cancel
//   - admin.go     admin commands: /roster, /stats, /export, /clear, /confirm, /reject, /delplayer
//   - callbacks.go inline Confirm/Reject buttons of new registrations
//   - menus.go     per-role command menus via Telegram's BotCommandScope API
//   - messaging.go notifications: new registrations, decisions, log alerts
//   - digest.go    DigestBuffer batching warnings into periodic admin digests
//   - roles.go     ChatRoleAdmins, admin rights from a chat's creator/administrators
//   - helpers.go   sending responses, documents and splitting long texts
//
// Every handler builds a workflow.Event from the update, calls the controller
// and renders the returned Response; no registration logic lives here.
package bot

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
	"tourneybot/entity"
	"tourneybot/internal/interpreter"
	"tourneybot/internal/ratelimit"
	"tourneybot/internal/workflow"
	"tourneybot/lib/sl"

	tgbotapi "github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/PaulSonOfLars/gotgbot/v2/ext"
	"github.com/PaulSonOfLars/gotgbot/v2/ext/handlers"
	"github.com/PaulSonOfLars/gotgbot/v2/ext/handlers/filters/callbackquery"
	"github.com/PaulSonOfLars/gotgbot/v2/ext/handlers/filters/message"
)

const handlerTimeout = 15 * time.Second

// BotConfig holds Telegram-specific configuration loaded from the YAML config file.
type BotConfig struct {
	DefaultLanguage   interpreter.Language
	AdminChatIDs      []int64
	RateLimit         int
	DigestIntervalMin int
}

// Controller is the workflow the bot renders. Implemented by workflow.Controller.
type Controller interface {
	HandleMessage(ctx context.Context, ev workflow.Event) workflow.Response
	Start(ctx context.Context, ev workflow.Event) workflow.Response
	Help(ctx context.Context, ev workflow.Event) workflow.Response
	Status(ctx context.Context, ev workflow.Event) workflow.Response
	Cancel(ev workflow.Event) workflow.Response
	Roster(ctx context.Context, ev workflow.Event) workflow.Response
	Stats(ctx context.Context, ev workflow.Event) workflow.Response
	Export(ctx context.Context, ev workflow.Event) workflow.Response
	Clear(ctx context.Context, ev workflow.Event, arg string) workflow.Response
	ConfirmUser(ctx context.Context, ev workflow.Event, username string) workflow.Response
	RejectUser(ctx context.Context, ev workflow.Event, username string) workflow.Response
	RemovePlayer(ctx context.Context, ev workflow.Event, username string) workflow.Response
	ConfirmPending(ctx context.Context, ev workflow.Event, userID int64, track entity.Track) workflow.Response
	RejectPending(ctx context.Context, ev workflow.Event, userID int64, track entity.Track) workflow.Response
	IsAdmin(ctx context.Context, who entity.Identity) bool
}

// TgBot is the central Telegram bot instance.
type TgBot struct {
	log        *slog.Logger
	api        *tgbotapi.Bot
	ctrl       Controller
	mu         sync.RWMutex       // guards adminChats and updater
	adminChats map[int64]struct{} // configured admin chats plus admins seen since start
	limiter    *ratelimit.Limiter[int64]
	updater    *ext.Updater
	digest     *DigestBuffer
	config     BotConfig
}

func NewTgBot(apiKey string, log *slog.Logger, cfg BotConfig) (*TgBot, error) {
	if cfg.DefaultLanguage == "" {
		cfg.DefaultLanguage = interpreter.LangEN
	}
	if cfg.DigestIntervalMin == 0 {
		cfg.DigestIntervalMin = 60
	}

	tgBot := &TgBot{
		log:        log.With(sl.Module("tgbot")),
		adminChats: make(map[int64]struct{}),
		limiter:    ratelimit.PerMinute[int64](cfg.RateLimit),
		config:     cfg,
	}
	for _, id := range cfg.AdminChatIDs {
		if id != 0 {
			tgBot.adminChats[id] = struct{}{}
		}
	}

	api, err := tgbotapi.NewBot(apiKey, nil)
	if err != nil {
		return nil, fmt.Errorf("creating api instance: %v", err)
	}
	tgBot.api = api

	interval := time.Duration(cfg.DigestIntervalMin) * time.Minute
	tgBot.digest = NewDigestBuffer(tgBot, interval)

	return tgBot, nil
}

// SetController must be called before Start.
func (t *TgBot) SetController(ctrl Controller) {
	t.ctrl = ctrl
}

func (t *TgBot) Start() error {
	if t.ctrl == nil {
		return fmt.Errorf("controller not set")
	}
	t.digest.StartTicker()

	dispatcher := ext.NewDispatcher(&ext.DispatcherOpts{
		Error: func(b *tgbotapi.Bot, ctx *ext.Context, err error) ext.DispatcherAction {
			t.log.Error("handling update:", sl.Err(err))
			return ext.DispatcherActionNoop
		},
		MaxRoutines: ext.DefaultMaxRoutines,
	})
	updater := ext.NewUpdater(dispatcher, nil)
	t.mu.Lock()
	t.updater = updater
	t.mu.Unlock()

	// User commands
	dispatcher.AddHandler(handlers.NewCommand("start", t.limited(t.start)))
	dispatcher.AddHandler(handlers.NewCommand("help", t.limited(t.help)))
	dispatcher.AddHandler(handlers.NewCommand("status", t.limited(t.status)))
	dispatcher.AddHandler(handlers.NewCommand("cancel", t.limited(t.cancel)))

	// Admin commands
	dispatcher.AddHandler(handlers.NewCommand("roster", t.roster))
	dispatcher.AddHandler(handlers.NewCommand("list", t.roster))
	dispatcher.AddHandler(handlers.NewCommand("stats", t.stats))
	dispatcher.AddHandler(handlers.NewCommand("export", t.export))
	dispatcher.AddHandler(handlers.NewCommand("clear", t.clear))
	dispatcher.AddHandler(handlers.NewCommand("confirm", t.confirm))
	dispatcher.AddHandler(handlers.NewCommand("reject", t.reject))
	dispatcher.AddHandler(handlers.NewCommand("delplayer", t.removePlayer))

	// Callback query handlers
	dispatcher.AddHandler(handlers.NewCallback(callbackquery.Prefix(workflow.CallbackConfirm), t.onDecisionCallback))
	dispatcher.AddHandler(handlers.NewCallback(callbackquery.Prefix(workflow.CallbackReject), t.onDecisionCallback))

	// Everything else is natural language
	dispatcher.AddHandler(handlers.NewMessage(message.Text, t.limited(t.onText)))

	// Set default bot command menu and admin menus of the known admin chats
	t.setDefaultCommands()
	t.syncAdminMenus()

	err := updater.StartPolling(t.api, &ext.PollingOpts{
		DropPendingUpdates: true,
		GetUpdatesOpts: &tgbotapi.GetUpdatesOpts{
			Timeout: 9,
			RequestOpts: &tgbotapi.RequestOpts{
				Timeout: time.Second * 10,
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to start polling: %w", err)
	}

	t.log.With(slog.String("username", t.api.Username)).Info("telegram bot started")
	updater.Idle()
	return nil
}

func (t *TgBot) Stop() {
	if t.digest != nil {
		t.digest.Stop()
	}
	t.mu.RLock()
	updater := t.updater
	t.mu.RUnlock()
	if updater != nil {
		t.log.Info("stopping telegram bot")
		updater.Stop()
	}
}

// rememberAdmin adds the chat of an admin to the notification targets and
// gives it the admin command menu.
func (t *TgBot) rememberAdmin(chatId int64) {
	t.mu.Lock()
	_, known := t.adminChats[chatId]
	t.adminChats[chatId] = struct{}{}
	t.mu.Unlock()

	if !known {
		t.log.With(slog.Int64("chat_id", chatId)).Info("admin chat registered")
		t.setAdminCommands(chatId)
	}
}

func (t *TgBot) adminChatIds() []int64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	ids := make([]int64, 0, len(t.adminChats))
	for id := range t.adminChats {
		ids = append(ids, id)
	}
	return ids
}

func (t *TgBot) context() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), handlerTimeout)
}
