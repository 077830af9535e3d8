package locale

var english = map[Key]string{
	Welcome: "Welcome to the tournament registration!\n\n" +
		"Register in two steps: first send your team name, then your rating for a track (VSA or H2H).\n\n" +
		"Examples:\n%s",
	Help:             "I did not understand that. Try one of these:\n%s\n\n/status shows your registrations, /cancel forgets the staged team name.",
	AdminHelp:        "Admin commands:\n/roster - pending and confirmed players\n/stats - statistics\n/export - download the data\n/confirm @user, /reject @user - decide on a registration\n/delplayer @user - remove a player\n/clear confirm - delete everything",
	TeamSaved:        "Team name \"%s\" saved. Now send your rating, for example \"Bot, my VSA rating 42\".",
	TeamRequired:     "Set your team name first, for example \"Bot, my nick TeamAwesome\".",
	UsernameRequired: "Registration needs a Telegram username. Set one in Telegram settings and try again.",
	AwaitingConfirm:  "%s registration received: team \"%s\", rating %d. Waiting for administrator confirmation.",
	AlreadyPending:   "You already have a %s registration waiting for confirmation.",
	AlreadyConfirmed: "You are already registered for %s.",
	InvalidInput:     "❌ %s",
	AdminsOnly:       "This command is for administrators only.",
	NoPending:        "No pending registration found for @%s.",
	ConfirmConflict:  "@%s already has a confirmed %s entry, the registration was left pending.",
	AdminConfirmed:   "✅ @%s confirmed for %s: team \"%s\", rating %d.",
	AdminRejected:    "🚫 @%s rejected for %s.",
	UserConfirmed:    "✅ Your %s registration is confirmed: team \"%s\", rating %d. Good luck!",
	UserRejected:     "Your %s registration was rejected. Contact the administrators if this is a mistake.",
	NewPending:       "New %s registration from %s: team \"%s\", rating %d.",
	GenericError:     "An error occurred, please try again later.",
	ClearWarning:     "⚠️ This deletes ALL registrations and cannot be undone. Send /clear confirm to proceed.",
	Cleared:          "All tournament data has been cleared.",
	Cancelled:        "Staged team name forgotten.",
	NothingToCancel:  "Nothing to cancel.",
	StatusHeader:     "Your registration status:",
	StatusStaged:     "Staged team name: \"%s\"",
	StatusNothing:    "You have no registrations yet.",
	StatusPending:    "%s: \"%s\", rating %d, waiting for confirmation",
	StatusConfirmed:  "%s: \"%s\", rating %d, confirmed",
	RosterPending:    "Pending (%d):",
	RosterConfirmed:  "%s confirmed (%d):",
	RosterEmpty:      "No registrations yet.",
	Stats:            "📊 Statistics\nUsers: %d\nPending: %d\nLast registration: %s\nRegistrations received: %d, confirmed: %d",
	StatsTrack:       "%s: %d confirmed, %d pending",
	PlayerRemoved:    "@%s removed (%d entries).",
	PlayerNotFound:   "@%s is not registered.",
	RateLimited:      "Too many messages, slow down a little.",
	UsageConfirm:     "Usage: /confirm @username",
	UsageReject:      "Usage: /reject @username",
	UsageRemove:      "Usage: /delplayer @username",
	ExportCaption:    "Tournament data export",
	ButtonConfirm:    "✅ Confirm",
	ButtonReject:     "🚫 Reject",
	AlreadyDecided:   "Already handled.",

	CommandStart:        "Start registration",
	CommandHelp:         "How to register",
	CommandStatus:       "My registrations",
	CommandCancel:       "Forget staged team name",
	CommandRoster:       "Pending and confirmed players",
	CommandStats:        "Registration statistics",
	CommandExport:       "Export data",
	CommandClear:        "Delete all data",
	CommandConfirm:      "Confirm a registration",
	CommandReject:       "Reject a registration",
	CommandRemovePlayer: "Remove a player",
}
