package bot

import (
	"fmt"
	"log/slog"
	"tourneybot/internal/workflow"
	"tourneybot/lib/logger"
)

var (
	_ workflow.Notifier    = (*TgBot)(nil)
	_ logger.AdminNotifier = (*TgBot)(nil)
	_ Controller           = (*workflow.Controller)(nil)
)

// NotifyAdmins sends a message to every known admin chat. Implements workflow.Notifier.
func (t *TgBot) NotifyAdmins(text string, keyboard workflow.Keyboard) {
	ids := t.adminChatIds()
	if len(ids) == 0 {
		t.log.Warn("no admin chats to notify")
		return
	}
	for _, id := range ids {
		if len(keyboard) > 0 {
			t.sendWithKeyboard(id, text, inlineKeyboard(keyboard))
		} else {
			t.plainResponse(id, text)
		}
	}
}

// NotifyUser sends a message to a registrant's private chat. Implements workflow.Notifier.
func (t *TgBot) NotifyUser(userID int64, text string) {
	t.plainResponse(userID, text)
}

// SendMessageWithLevel receives log records from the slog handler.
// Errors reach admins immediately; lower levels are batched into the digest.
func (t *TgBot) SendMessageWithLevel(text string, level slog.Level) {
	if level >= slog.LevelError {
		t.sendAlert(fmt.Sprintf("%s %s", level.String(), text))
		return
	}
	for _, id := range t.adminChatIds() {
		t.digest.Add(id, text, level)
	}
}

// sendAlert bypasses NotifyAdmins so that a missing admin chat is not logged
// again through the same handler.
func (t *TgBot) sendAlert(text string) {
	for _, id := range t.adminChatIds() {
		t.plainResponse(id, text)
	}
}
