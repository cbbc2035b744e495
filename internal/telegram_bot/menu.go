package telegram_bot

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	cmdStart       = "start"
	cmdHelp        = "help"
	cmdSuggest     = "suggest"
	cmdList        = "list"
	cmdDelete      = "delete"
	cmdRandom      = "random"
	cmdChooseBook  = "choosebook"
	cmdClear       = "clear"
	cmdGenres      = "genres"
	cmdAddGenre    = "addgenre"
	cmdDeleteGenre = "deletegenre"
	cmdActiveGenre = "activegenre"
	cmdResetGenres = "resetgenres"
	cmdPollBook    = "pollbook"
	cmdPollGenre   = "pollgenre"
	cmdPolls       = "polls"
	cmdHistory     = "history"
	cmdSaveBook    = "save_book"
	cmdSaveGenre   = "save_genre"
	cmdChats       = "chats"
	cmdInitUsers   = "init_users"
	cmdUsers       = "users"
	cmdResetUsers  = "reset_users"
)

var descriptions = map[string]string{
	cmdStart:       "Приветствие",
	cmdHelp:        "Список команд",
	cmdSuggest:     "Предложить книгу",
	cmdList:        "Показать список предложений",
	cmdDelete:      "Удалить книгу из списка",
	cmdRandom:      "Случайное число",
	cmdChooseBook:  "Выбрать случайную книгу из списка",
	cmdClear:       "Очистить список предложений",
	cmdGenres:      "Показать список жанров",
	cmdAddGenre:    "Добавить жанр",
	cmdDeleteGenre: "Удалить жанр",
	cmdActiveGenre: "Изменить активность жанра",
	cmdResetGenres: "Сбросить все жанры в активное состояние",
	cmdPollBook:    "Создать опрос с книгами",
	cmdPollGenre:   "Создать опрос с жанрами",
	cmdPolls:       "Показать опросы",
	cmdHistory:     "История выбранных книг и жанров",
	cmdSaveBook:    "Сохранить книгу в историю",
	cmdSaveGenre:   "Сохранить жанр в историю",
	cmdChats:       "Показать список чатов",
	cmdInitUsers:   "Импортировать пользователей из CSV",
	cmdUsers:       "Пользователи (удаление по неактивности)",
	cmdResetUsers:  "Сбросить список пользователей для выбранного чата",
}

func botCommands(names ...string) []tgbotapi.BotCommand {
	commands := make([]tgbotapi.BotCommand, 0, len(names))
	for _, name := range names {
		commands = append(commands, tgbotapi.BotCommand{Command: name, Description: descriptions[name]})
	}
	return commands
}

// Menus shown per scope.
var (
	groupMemberCommands = botCommands(cmdSuggest, cmdList, cmdDelete, cmdChooseBook, cmdGenres, cmdPollBook, cmdPolls)

	groupAdminCommands = botCommands(cmdSuggest, cmdList, cmdDelete, cmdRandom, cmdChooseBook, cmdClear,
		cmdGenres, cmdAddGenre, cmdDeleteGenre, cmdActiveGenre, cmdResetGenres, cmdPollBook, cmdPollGenre,
		cmdPolls, cmdHistory, cmdSaveBook, cmdSaveGenre)

	privateCommands = botCommands(cmdStart, cmdHelp, cmdSuggest, cmdList, cmdDelete, cmdClear, cmdGenres,
		cmdAddGenre, cmdDeleteGenre, cmdActiveGenre, cmdResetGenres, cmdPolls, cmdHistory, cmdSaveBook,
		cmdSaveGenre, cmdChats, cmdInitUsers, cmdUsers, cmdResetUsers)
)

// RegisterCommands publishes the command menus for group members, group
// administrators and private chats.
func (b *Bot) RegisterCommands(ctx context.Context) error {
	menus := []struct {
		scope    tgbotapi.BotCommandScope
		commands []tgbotapi.BotCommand
	}{
		{tgbotapi.NewBotCommandScopeAllGroupChats(), groupMemberCommands},
		{tgbotapi.NewBotCommandScopeAllChatAdministrators(), groupAdminCommands},
		{tgbotapi.NewBotCommandScopeAllPrivateChats(), privateCommands},
	}
	for _, m := range menus {
		if err := b.msg.SetCommands(ctx, m.scope, m.commands); err != nil {
			return fmt.Errorf("set commands for scope %s: %w", m.scope.Type, err)
		}
	}
	return nil
}
