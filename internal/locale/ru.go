package locale

var russian = map[Key]string{
	Welcome: "Добро пожаловать на регистрацию турнира!\n\n" +
		"Регистрация в два шага: сначала название команды, затем рекорд для трека (VSA или H2H).\n\n" +
		"Примеры:\n%s",
	Help:             "Не понял сообщение. Попробуйте так:\n%s\n\n/status покажет ваши заявки, /cancel сбросит сохранённое название.",
	AdminHelp:        "Команды администратора:\n/roster - заявки и участники\n/stats - статистика\n/export - выгрузка данных\n/confirm @user, /reject @user - решение по заявке\n/delplayer @user - удалить участника\n/clear confirm - удалить всё",
	TeamSaved:        "Название команды «%s» сохранено. Теперь отправьте рекорд, например «Бот, мой рекорд в VSA 42».",
	TeamRequired:     "Сначала укажите название команды, например «Бот, мой ник TeamAwesome».",
	UsernameRequired: "Для регистрации нужен username в Telegram. Укажите его в настройках и попробуйте снова.",
	AwaitingConfirm:  "Заявка %s принята: команда «%s», рекорд %d. Ожидайте подтверждения администратора.",
	AlreadyPending:   "У вас уже есть заявка %s, ожидающая подтверждения.",
	AlreadyConfirmed: "Вы уже зарегистрированы в %s.",
	InvalidInput:     "❌ %s",
	AdminsOnly:       "Эта команда доступна только администраторам.",
	NoPending:        "Заявка от @%s не найдена.",
	ConfirmConflict:  "У @%s уже есть подтверждённая запись %s, заявка оставлена без изменений.",
	AdminConfirmed:   "✅ @%s подтверждён в %s: команда «%s», рекорд %d.",
	AdminRejected:    "🚫 Заявка @%s в %s отклонена.",
	UserConfirmed:    "✅ Ваша регистрация в %s подтверждена: команда «%s», рекорд %d. Удачи!",
	UserRejected:     "Ваша заявка в %s отклонена. Если это ошибка, свяжитесь с администраторами.",
	NewPending:       "Новая заявка %s от %s: команда «%s», рекорд %d.",
	GenericError:     "Произошла ошибка, попробуйте позже.",
	ClearWarning:     "⚠️ Будут удалены ВСЕ данные без возможности восстановления. Отправьте /clear confirm для подтверждения.",
	Cleared:          "Все данные турнира удалены.",
	Cancelled:        "Сохранённое название команды сброшено.",
	NothingToCancel:  "Нечего отменять.",
	StatusHeader:     "Статус ваших заявок:",
	StatusStaged:     "Сохранённое название: «%s»",
	StatusNothing:    "У вас пока нет заявок.",
	StatusPending:    "%s: «%s», рекорд %d, ожидает подтверждения",
	StatusConfirmed:  "%s: «%s», рекорд %d, подтверждено",
	RosterPending:    "Ожидают подтверждения (%d):",
	RosterConfirmed:  "%s подтверждены (%d):",
	RosterEmpty:      "Заявок пока нет.",
	Stats:            "📊 Статистика\nУчастников: %d\nОжидают: %d\nПоследняя регистрация: %s\nВсего заявок: %d, подтверждено: %d",
	StatsTrack:       "%s: подтверждено %d, ожидают %d",
	PlayerRemoved:    "@%s удалён (записей: %d).",
	PlayerNotFound:   "@%s не зарегистрирован.",
	RateLimited:      "Слишком много сообщений, подождите немного.",
	UsageConfirm:     "Использование: /confirm @username",
	UsageReject:      "Использование: /reject @username",
	UsageRemove:      "Использование: /delplayer @username",
	ExportCaption:    "Выгрузка данных турнира",
	ButtonConfirm:    "✅ Подтвердить",
	ButtonReject:     "🚫 Отклонить",
	AlreadyDecided:   "Уже обработано.",

	CommandStart:        "Начать регистрацию",
	CommandHelp:         "Как зарегистрироваться",
	CommandStatus:       "Мои заявки",
	CommandCancel:       "Сбросить название команды",
	CommandRoster:       "Заявки и участники",
	CommandStats:        "Статистика регистраций",
	CommandExport:       "Выгрузка данных",
	CommandClear:        "Удалить все данные",
	CommandConfirm:      "Подтвердить заявку",
	CommandReject:       "Отклонить заявку",
	CommandRemovePlayer: "Удалить участника",
}

// russianReasons is keyed by "<field>.<code>" of a validation failure.
var russianReasons = map[string]string{
	"team_name.empty":            "Название команды не может быть пустым",
	"team_name.too_short":        "Название команды должно быть не короче 2 символов",
	"team_name.too_long":         "Название команды не может быть длиннее 50 символов",
	"team_name.invalid_chars":    "Название команды содержит недопустимые символы",
	"team_name.double_space":     "Название команды не может содержать несколько пробелов подряд",
	"team_name.reserved":         "Название команды содержит запрещённые слова",
	"rating.not_number":          "Рекорд должен быть числом",
	"rating.negative":            "Рекорд не может быть отрицательным",
	"rating.too_high":            "Рекорд не может превышать 100",
	"username.empty":             "Имя пользователя не может быть пустым",
	"username.too_short":         "Имя пользователя должно быть не короче 5 символов",
	"username.too_long":          "Имя пользователя не может быть длиннее 32 символов",
	"username.invalid_chars":     "Имя пользователя может содержать только буквы, цифры и подчёркивание",
	"username.must_start_letter": "Имя пользователя должно начинаться с буквы",
}
