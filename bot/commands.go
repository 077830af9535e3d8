package bot

import (
	"log/slog"
	"tourneybot/internal/interpreter"
	"tourneybot/internal/locale"

	tgbotapi "github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/PaulSonOfLars/gotgbot/v2/ext"
	"github.com/PaulSonOfLars/gotgbot/v2/ext/handlers"
)

// limited drops updates of senders above the per-user message rate.
func (t *TgBot) limited(next handlers.Response) handlers.Response {
	return func(b *tgbotapi.Bot, ctx *ext.Context) error {
		user := ctx.EffectiveUser
		if user == nil {
			return nil
		}
		if !t.limiter.Allow(user.Id) {
			t.log.With(slog.Int64("user_id", user.Id)).Debug("rate limited")
			ev := t.eventFrom(ctx)
			t.plainResponse(ev.ChatID, locale.Text(ev.Language, locale.RateLimited))
			return nil
		}
		return next(b, ctx)
	}
}

func (t *TgBot) start(_ *tgbotapi.Bot, ctx *ext.Context) error {
	ev := t.eventFrom(ctx)
	reqCtx, cancel := t.context()
	defer cancel()

	if t.ctrl.IsAdmin(reqCtx, ev.Identity()) {
		t.rememberAdmin(ev.ChatID)
	}
	t.respond(ev.ChatID, t.ctrl.Start(reqCtx, ev))
	return nil
}

func (t *TgBot) help(_ *tgbotapi.Bot, ctx *ext.Context) error {
	ev := t.eventFrom(ctx)
	reqCtx, cancel := t.context()
	defer cancel()

	t.respond(ev.ChatID, t.ctrl.Help(reqCtx, ev))
	return nil
}

func (t *TgBot) status(_ *tgbotapi.Bot, ctx *ext.Context) error {
	ev := t.eventFrom(ctx)
	reqCtx, cancel := t.context()
	defer cancel()

	t.respond(ev.ChatID, t.ctrl.Status(reqCtx, ev))
	return nil
}

func (t *TgBot) cancel(_ *tgbotapi.Bot, ctx *ext.Context) error {
	ev := t.eventFrom(ctx)
	t.respond(ev.ChatID, t.ctrl.Cancel(ev))
	return nil
}

// onText feeds every non-command text message to the interpreter.
func (t *TgBot) onText(_ *tgbotapi.Bot, ctx *ext.Context) error {
	ev := t.eventFrom(ctx)
	if ev.Text == "" {
		return nil
	}
	// group chats only hear recognized commands, not the help fallback
	if chat := ctx.EffectiveChat; chat != nil && chat.Type != "private" {
		if _, ok := interpreter.Parse(ev.Text, ev.Language); !ok {
			return nil
		}
	}
	reqCtx, cancel := t.context()
	defer cancel()

	resp := t.ctrl.HandleMessage(reqCtx, ev)
	if resp.Text == "" && len(resp.Documents) == 0 {
		return nil
	}
	t.respond(ev.ChatID, resp)
	return nil
}
