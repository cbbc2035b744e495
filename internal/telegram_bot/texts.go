package telegram_bot

// User-facing texts. Templates take fmt verbs.
const (
	promptSuggest     = "Что хотите предложить?"
	promptDeleteBook  = "Какую книгу удалить? (номер из списка)"
	promptRandom      = "Введите диапазон, например 2-10"
	promptAddGenre    = "Введите название жанра:"
	promptDeleteGenre = "Введите номер жанра для удаления:"
	promptActiveGenre = "Какой жанр сделать (не)активным?"
	promptSaveBook    = "Какую книгу сохранить в историю? (номер из списка или 'номер ММ-ГГГГ')"
	promptSaveGenre   = "Какой жанр сохранить в историю? (номер из списка или 'номер ММ-ГГГГ')"
	promptInitUsers   = "Пришлите CSV со строкой заголовка (как в members.*.csv).\n" +
		"Можно просто вставить текст CSV сюда.\n\n" +
		"Для отмены отправьте `-`."

	textHistorySelectYear = "Выберите год:"
	textChatsHeader       = "Список чатов:"

	textUsersTitle         = "Пользователи"
	textUsersSelectGroup   = "Выберите групповой чат через /chats (сейчас выбран ЛС)."
	textUsersNeedAdmin     = "Чтобы удалять пользователей, вы должны быть админом в выбранном чате."
	textUsersChoose        = "Выберите пользователя:"
	textUsersEmpty         = "Пусто."
	textUsersKickConfirm   = "Удалить %s из чата '%s'?"
	textUsersKickForbidden = "У бота нет прав удалять участников в этом чате."
	textUsersKickFailed    = "Не удалось удалить пользователя: %s"
	textUsersKicked        = "Пользователь удалён."
	textResetUsersConfirm  = "Удалить все данные о пользователях для чата '%s'?"
	textResetUsersDone     = "Удалено записей: %d"
	textImportDone         = "Импорт в '%s' завершён.\nДобавлено: %d\nПропущено (уже были по user_id): %d"

	errAdminOnly   = "Эта команда доступна только администраторам"
	errPrivateOnly = "Эта команда доступна только в ЛС"
	errEmpty       = "Пустое сообщение. Попробуйте ещё раз: %s"
	errTooLong     = "Слишком длинно. Сократите и отправьте снова: %s"
	errNotNumber   = "Значение должно быть числом. Попробуйте ещё раз: %s"
	errPositive    = "Значение должно быть положительным числом. Попробуйте ещё раз: %s"
	errBadFormat   = "Неверный формат"
	errSaveBook    = "Ошибка при сохранении предложения"
	errSaveGenre   = "Ошибка при сохранении жанра"

	textNewList = "%s\nНовый список:\n\n%s"

	textClearConfirm   = "Вы уверены, что хотите очистить весь список предложений?"
	textClearCancelled = "Очистка списка отменена"

	textChooseConfirm   = "Выбрать книгу из списка?"
	textChosenBook      = "Выбранная книга:\n\n%d. %s"
	textChooseCancelled = "Выбор книги отменен"

	textResetGenresConfirm   = "Вы уверены, что хотите перевести все жанры в активное состояние?"
	textResetGenresCancelled = "Сброс жанров отменен"

	textPollCancelled     = "Создание опроса отменено"
	textPollBookPreview   = "Создать опрос 'Книга %s'?"
	textPollGenrePreview  = "Создать опрос 'Жанр %s'?"
	textPollBookQuestion  = "Книга %s?"
	textPollGenreQuestion = "Жанр %s?"
	textPollNoGenres      = "Нет жанров с used=0"
	textPollTooManyGenres = "Слишком много жанров в списке (%d). Максимум 12 вариантов для опроса."

	textLikeVotePreview = "В списке %d книг — это больше 12, поэтому классический опрос создать нельзя.\n" +
		"Сделать голосование лайками (каждая книга отдельным сообщением)?\n\n" +
		"Создать 'Книга %s (лайки 👍)'?"
	textLikeVoteAnnounce = "Книга %s: вариантов больше 12, поэтому голосуем лайками 👍.\n"
	textLikeVoteOption   = "%d. %s"

	textUnknownCommand = "Неизвестная команда. Используйте /help для помощи."
	textStart          = "👋 Привет, %s!\n\n" +
		"Я бот книжного клуба: веду список предложенных книг и жанров, запускаю опросы и храню историю выбора.\n\n" +
		"Используйте /help для списка команд."
	textHelpHeader = "📚 Команды:\n\n"

	buttonConfirm = "Подтвердить"
	buttonCancel  = "Отмена"
	buttonYes     = "Да"
	buttonNo      = "Нет"
	buttonBack    = "⬅️ Назад"

	selectedMark      = "✅ "
	unknownGroupTitle = "Unknown"
)

const (
	maxSuggestionLength = 500
	maxGenreLength      = 200
	maxPollOptions      = 12
)
