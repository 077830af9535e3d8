package bot

import (
	"context"
	"tourneybot/internal/workflow"

	tgbotapi "github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/PaulSonOfLars/gotgbot/v2/ext"
	"github.com/PaulSonOfLars/gotgbot/v2/ext/handlers"
)

// adminCommand wraps a controller call that takes the command argument.
// Authorization stays in the controller; a sender that passes it is
// remembered as a notification target.
func (t *TgBot) adminCommand(call func(ctx context.Context, ev workflow.Event, arg string) workflow.Response) handlers.Response {
	return func(_ *tgbotapi.Bot, ctx *ext.Context) error {
		ev := t.eventFrom(ctx)
		reqCtx, cancel := t.context()
		defer cancel()

		if t.ctrl.IsAdmin(reqCtx, ev.Identity()) {
			t.rememberAdmin(ev.ChatID)
		}
		t.respond(ev.ChatID, call(reqCtx, ev, commandArg(ev.Text)))
		return nil
	}
}

func (t *TgBot) roster(b *tgbotapi.Bot, ctx *ext.Context) error {
	return t.adminCommand(func(ctx context.Context, ev workflow.Event, _ string) workflow.Response {
		return t.ctrl.Roster(ctx, ev)
	})(b, ctx)
}

func (t *TgBot) stats(b *tgbotapi.Bot, ctx *ext.Context) error {
	return t.adminCommand(func(ctx context.Context, ev workflow.Event, _ string) workflow.Response {
		return t.ctrl.Stats(ctx, ev)
	})(b, ctx)
}

func (t *TgBot) export(b *tgbotapi.Bot, ctx *ext.Context) error {
	return t.adminCommand(func(ctx context.Context, ev workflow.Event, _ string) workflow.Response {
		return t.ctrl.Export(ctx, ev)
	})(b, ctx)
}

// clear requires "/clear confirm"; a bare /clear only shows the warning.
func (t *TgBot) clear(b *tgbotapi.Bot, ctx *ext.Context) error {
	return t.adminCommand(t.ctrl.Clear)(b, ctx)
}

func (t *TgBot) confirm(b *tgbotapi.Bot, ctx *ext.Context) error {
	return t.adminCommand(t.ctrl.ConfirmUser)(b, ctx)
}

func (t *TgBot) reject(b *tgbotapi.Bot, ctx *ext.Context) error {
	return t.adminCommand(t.ctrl.RejectUser)(b, ctx)
}

// removePlayer handles "/delplayer @username": the player is dropped from both tracks.
func (t *TgBot) removePlayer(b *tgbotapi.Bot, ctx *ext.Context) error {
	return t.adminCommand(t.ctrl.RemovePlayer)(b, ctx)
}
