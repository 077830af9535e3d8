package bot

import (
	"tourneybot/internal/interpreter"
	"tourneybot/internal/locale"

	tgbotapi "github.com/PaulSonOfLars/gotgbot/v2"
)

// Per-role command lists for Telegram's menu button (the "/" icon in the chat input).
// Descriptions are localized; the Russian list is registered under the "ru"
// language code, English is the fallback for every other client language.

var userCommands = []struct {
	command string
	key     locale.Key
}{
	{"start", locale.CommandStart},
	{"status", locale.CommandStatus},
	{"cancel", locale.CommandCancel},
	{"help", locale.CommandHelp},
}

var adminCommands = []struct {
	command string
	key     locale.Key
}{
	{"roster", locale.CommandRoster},
	{"stats", locale.CommandStats},
	{"confirm", locale.CommandConfirm},
	{"reject", locale.CommandReject},
	{"delplayer", locale.CommandRemovePlayer},
	{"export", locale.CommandExport},
	{"clear", locale.CommandClear},
}

func commandMenu(lang interpreter.Language, admin bool) []tgbotapi.BotCommand {
	commands := make([]tgbotapi.BotCommand, 0, len(userCommands)+len(adminCommands))
	for _, c := range userCommands {
		commands = append(commands, tgbotapi.BotCommand{Command: c.command, Description: locale.Text(lang, c.key)})
	}
	if admin {
		for _, c := range adminCommands {
			commands = append(commands, tgbotapi.BotCommand{Command: c.command, Description: locale.Text(lang, c.key)})
		}
	}
	return commands
}

// setDefaultCommands sets the default bot menu for registrants.
func (t *TgBot) setDefaultCommands() {
	t.setCommands(tgbotapi.BotCommandScopeDefault{}, false)
}

// setAdminCommands extends the menu of one admin chat with the admin commands.
func (t *TgBot) setAdminCommands(chatId int64) {
	t.setCommands(tgbotapi.BotCommandScopeChat{ChatId: chatId}, true)
}

func (t *TgBot) setCommands(scope tgbotapi.BotCommandScope, admin bool) {
	_, err := t.api.SetMyCommands(commandMenu(interpreter.LangEN, admin), &tgbotapi.SetMyCommandsOpts{
		Scope: scope,
	})
	if err != nil {
		t.log.Warn("setting commands", "admin", admin, "error", err)
	}
	_, err = t.api.SetMyCommands(commandMenu(interpreter.LangRU, admin), &tgbotapi.SetMyCommandsOpts{
		Scope:        scope,
		LanguageCode: string(interpreter.LangRU),
	})
	if err != nil {
		t.log.Warn("setting localized commands", "admin", admin, "error", err)
	}
}

// syncAdminMenus sets admin command menus for the configured admin chats.
func (t *TgBot) syncAdminMenus() {
	for _, chatId := range t.adminChatIds() {
		t.setAdminCommands(chatId)
	}
}
