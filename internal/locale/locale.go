// Package locale holds the user-facing texts in every supported language.
package locale

import (
	"fmt"
	"strings"
	"tourneybot/internal/interpreter"
	"tourneybot/internal/validation"
)

type Key string

const (
	Welcome             Key = "welcome"
	Help                Key = "help"
	AdminHelp           Key = "admin_help"
	TeamSaved           Key = "team_saved"
	TeamRequired        Key = "team_required"
	UsernameRequired    Key = "username_required"
	AwaitingConfirm     Key = "awaiting_confirmation"
	AlreadyPending      Key = "already_pending"
	AlreadyConfirmed    Key = "already_confirmed"
	InvalidInput        Key = "invalid_input"
	AdminsOnly          Key = "admins_only"
	NoPending           Key = "no_pending"
	ConfirmConflict     Key = "confirm_conflict"
	AdminConfirmed      Key = "admin_confirmed"
	AdminRejected       Key = "admin_rejected"
	UserConfirmed       Key = "user_confirmed"
	UserRejected        Key = "user_rejected"
	NewPending          Key = "new_pending"
	GenericError        Key = "generic_error"
	ClearWarning        Key = "clear_warning"
	Cleared             Key = "cleared"
	Cancelled           Key = "cancelled"
	NothingToCancel     Key = "nothing_to_cancel"
	StatusHeader        Key = "status_header"
	StatusStaged        Key = "status_staged"
	StatusNothing       Key = "status_nothing"
	StatusPending       Key = "status_pending"
	StatusConfirmed     Key = "status_confirmed"
	RosterPending       Key = "roster_pending"
	RosterConfirmed     Key = "roster_confirmed"
	RosterEmpty         Key = "roster_empty"
	Stats               Key = "stats"
	StatsTrack          Key = "stats_track"
	PlayerRemoved       Key = "player_removed"
	PlayerNotFound      Key = "player_not_found"
	RateLimited         Key = "rate_limited"
	UsageConfirm        Key = "usage_confirm"
	UsageReject         Key = "usage_reject"
	UsageRemove         Key = "usage_remove"
	ExportCaption       Key = "export_caption"
	ButtonConfirm       Key = "button_confirm"
	ButtonReject        Key = "button_reject"
	AlreadyDecided      Key = "already_decided"
	CommandStart        Key = "cmd_start"
	CommandHelp         Key = "cmd_help"
	CommandStatus       Key = "cmd_status"
	CommandCancel       Key = "cmd_cancel"
	CommandRoster       Key = "cmd_roster"
	CommandStats        Key = "cmd_stats"
	CommandExport       Key = "cmd_export"
	CommandClear        Key = "cmd_clear"
	CommandConfirm      Key = "cmd_confirm"
	CommandReject       Key = "cmd_reject"
	CommandRemovePlayer Key = "cmd_delplayer"
)

var tables = map[interpreter.Language]map[Key]string{
	interpreter.LangEN: english,
	interpreter.LangRU: russian,
}

// Text formats the message for lang, falling back to English when the key is missing.
func Text(lang interpreter.Language, key Key, args ...any) string {
	format, ok := tables[lang][key]
	if !ok {
		format, ok = english[key]
	}
	if !ok {
		return string(key)
	}
	if len(args) == 0 {
		return format
	}
	return fmt.Sprintf(format, args...)
}

// Reason localizes a validation failure by its code; unknown codes use the English reason.
func Reason(lang interpreter.Language, f *validation.Failure) string {
	if f == nil {
		return ""
	}
	if lang == interpreter.LangRU {
		if text, ok := russianReasons[f.Field+"."+f.Code]; ok {
			return text
		}
	}
	return f.Reason
}

// Examples renders the example phrases of lang as a bullet list.
func Examples(lang interpreter.Language) string {
	var b strings.Builder
	for _, e := range interpreter.Examples(lang) {
		b.WriteString("• ")
		b.WriteString(e)
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
