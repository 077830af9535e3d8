package bot

import (
	"bytes"
	"log/slog"
	"strings"
	"tourneybot/internal/export"
	"tourneybot/internal/interpreter"
	"tourneybot/internal/workflow"
	"tourneybot/lib/sl"

	tgbotapi "github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/PaulSonOfLars/gotgbot/v2/ext"
)

const maxTelegramMessageLen = 4096

// plainResponse sends text without a parse mode; team names are user input
// and must reach the chat verbatim.
func (t *TgBot) plainResponse(chatId int64, text string) {
	if text == "" {
		t.log.With("id", chatId).Debug("empty message")
		return
	}
	for _, part := range splitMessage(text, maxTelegramMessageLen) {
		_, err := t.api.SendMessage(chatId, part, &tgbotapi.SendMessageOpts{})
		if err != nil {
			t.log.With(slog.Int64("id", chatId)).Warn("sending message", sl.Err(err))
			return
		}
	}
}

// sendWithKeyboard sends a message with an inline keyboard attached.
func (t *TgBot) sendWithKeyboard(chatId int64, text string, keyboard tgbotapi.InlineKeyboardMarkup) {
	if text == "" {
		return
	}
	_, err := t.api.SendMessage(chatId, text, &tgbotapi.SendMessageOpts{
		ReplyMarkup: keyboard,
	})
	if err != nil {
		t.log.With(slog.Int64("id", chatId)).Warn("sending message with keyboard", sl.Err(err))
	}
}

func (t *TgBot) sendDocument(chatId int64, doc export.Document, caption string) {
	file := tgbotapi.InputFileByReader(doc.Name, bytes.NewReader(doc.Data))
	_, err := t.api.SendDocument(chatId, file, &tgbotapi.SendDocumentOpts{
		Caption: caption,
	})
	if err != nil {
		t.log.With(
			slog.Int64("id", chatId),
			slog.String("file", doc.Name),
		).Error("sending document", sl.Err(err))
	}
}

// respond renders a workflow response into the originating chat.
func (t *TgBot) respond(chatId int64, resp workflow.Response) {
	if len(resp.Keyboard) > 0 {
		t.sendWithKeyboard(chatId, resp.Text, inlineKeyboard(resp.Keyboard))
	} else {
		t.plainResponse(chatId, resp.Text)
	}
	for i, doc := range resp.Documents {
		caption := ""
		if i == 0 && resp.Text == "" {
			caption = doc.Name
		}
		t.sendDocument(chatId, doc, caption)
	}
}

func inlineKeyboard(kb workflow.Keyboard) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(kb))
	for _, row := range kb {
		buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, b := range row {
			buttons = append(buttons, tgbotapi.InlineKeyboardButton{
				Text:         b.Text,
				CallbackData: b.Data,
			})
		}
		rows = append(rows, buttons)
	}
	return tgbotapi.InlineKeyboardMarkup{InlineKeyboard: rows}
}

// eventFrom builds a workflow event from the sender of an update.
func (t *TgBot) eventFrom(ctx *ext.Context) workflow.Event {
	ev := workflow.Event{Language: t.config.DefaultLanguage}
	if user := ctx.EffectiveUser; user != nil {
		ev.UserID = user.Id
		ev.Username = user.Username
		if user.LanguageCode != "" {
			ev.Language = interpreter.LanguageFromCode(user.LanguageCode)
		}
	}
	if chat := ctx.EffectiveChat; chat != nil {
		ev.ChatID = chat.Id
	}
	if msg := ctx.EffectiveMessage; msg != nil && ctx.CallbackQuery == nil {
		ev.Text = msg.Text
	}
	return ev
}

// commandArg returns everything after the command word, e.g. "@alice" for "/confirm @alice".
func commandArg(text string) string {
	_, rest, found := strings.Cut(strings.TrimSpace(text), " ")
	if !found {
		return ""
	}
	return strings.TrimSpace(rest)
}

func splitMessage(text string, maxLen int) []string {
	if len(text) <= maxLen {
		return []string{text}
	}
	var parts []string
	for len(text) > 0 {
		if len(text) <= maxLen {
			parts = append(parts, text)
			break
		}
		// Try to split at newline
		cutAt := maxLen
		nlIdx := strings.LastIndex(text[:maxLen], "\n")
		if nlIdx > 0 {
			cutAt = nlIdx + 1
		} else {
			cutAt = runeBoundary(text, maxLen)
		}
		parts = append(parts, text[:cutAt])
		text = text[cutAt:]
	}
	return parts
}

// runeBoundary moves a byte offset back to the start of a UTF-8 sequence.
func runeBoundary(text string, at int) int {
	for at > 0 && at < len(text) && text[at]&0xC0 == 0x80 {
		at--
	}
	if at == 0 {
		return len(text)
	}
	return at
}
