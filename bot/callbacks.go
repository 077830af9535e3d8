package bot

import (
	"fmt"
	"log/slog"
	"tourneybot/internal/locale"
	"tourneybot/internal/workflow"
	"tourneybot/lib/sl"

	tgbotapi "github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/PaulSonOfLars/gotgbot/v2/ext"
)

// maxCallbackAnswerLen is Telegram's limit for callback query notifications.
const maxCallbackAnswerLen = 200

// onDecisionCallback handles the inline Confirm/Reject buttons attached to
// new registration notifications. The outcome replaces the buttons, so a
// decided entry cannot be clicked twice from the same message.
func (t *TgBot) onDecisionCallback(_ *tgbotapi.Bot, ctx *ext.Context) error {
	cq := ctx.CallbackQuery
	ev := t.eventFrom(ctx)
	if ev.ChatID == 0 {
		ev.ChatID = cq.From.Id
	}

	prefix, userID, track, err := workflow.ParseCallback(cq.Data)
	if err != nil {
		t.log.With(slog.String("data", cq.Data)).Warn("invalid callback", sl.Err(err))
		_, _ = cq.Answer(t.api, &tgbotapi.AnswerCallbackQueryOpts{
			Text: locale.Text(ev.Language, locale.InvalidInput),
		})
		return nil
	}

	reqCtx, cancel := t.context()
	defer cancel()

	if !t.ctrl.IsAdmin(reqCtx, ev.Identity()) {
		_, _ = cq.Answer(t.api, &tgbotapi.AnswerCallbackQueryOpts{
			Text:      locale.Text(ev.Language, locale.AdminsOnly),
			ShowAlert: true,
		})
		return nil
	}
	t.rememberAdmin(cq.From.Id)

	var resp workflow.Response
	switch prefix {
	case workflow.CallbackConfirm:
		resp = t.ctrl.ConfirmPending(reqCtx, ev, userID, track)
	default:
		resp = t.ctrl.RejectPending(reqCtx, ev, userID, track)
	}

	_, _ = cq.Answer(t.api, &tgbotapi.AnswerCallbackQueryOpts{
		Text: truncate(resp.Text, maxCallbackAnswerLen),
	})

	// Update the message to show result instead of buttons
	if msg := cq.Message; msg != nil {
		if im, ok := msg.(tgbotapi.Message); ok {
			_, _, err = t.api.EditMessageText(
				fmt.Sprintf("%s\n\n%s", im.Text, resp.Text),
				&tgbotapi.EditMessageTextOpts{
					ChatId:    im.Chat.Id,
					MessageId: im.MessageId,
				},
			)
			if err != nil {
				t.log.With(slog.Int64("chat_id", im.Chat.Id)).Debug("editing decision message", sl.Err(err))
			}
		}
	}
	return nil
}

func truncate(text string, maxRunes int) string {
	runes := []rune(text)
	if len(runes) <= maxRunes {
		return text
	}
	return string(runes[:maxRunes-1]) + "…"
}
