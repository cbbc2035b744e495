package telegram_bot

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"bookclub/internal/callback"
	"bookclub/internal/service"
	"bookclub/internal/session"
)

func (b *Bot) handleCommand(ctx context.Context, message *tgbotapi.Message) {
	cc := b.resolve(message.Chat, message.From)

	b.logger.Debug("Command received",
		zap.String("command", message.Command()),
		zap.Int64("chat_id", cc.conversationID),
		zap.Int64("user_id", cc.userID),
		zap.Int64("target_chat_id", cc.target),
	)

	switch message.Command() {
	case cmdStart:
		b.handleStart(ctx, message)
	case cmdHelp:
		b.handleHelp(ctx, message)
	case cmdSuggest:
		b.prompt(ctx, message, cc, session.ActionSuggest, promptSuggest)
	case cmdList:
		b.handleList(ctx, message, cc)
	case cmdDelete:
		b.prompt(ctx, message, cc, session.ActionDeleteBook, promptDeleteBook)
	case cmdRandom:
		b.prompt(ctx, message, cc, session.ActionRandom, promptRandom)
	case cmdChooseBook:
		b.handleChooseBook(ctx, message, cc)
	case cmdClear:
		b.handleManaged(ctx, message, cc, func() {
			b.reply(ctx, message, textClearConfirm, confirmKeyboard(callback.Books, callback.ActionClear, buttonConfirm, buttonCancel))
		})
	case cmdGenres:
		b.handleGenres(ctx, message, cc)
	case cmdAddGenre:
		b.handleManaged(ctx, message, cc, func() {
			b.prompt(ctx, message, cc, session.ActionAddGenre, promptAddGenre)
		})
	case cmdDeleteGenre:
		b.handleManaged(ctx, message, cc, func() {
			b.prompt(ctx, message, cc, session.ActionDeleteGenre, promptDeleteGenre)
		})
	case cmdActiveGenre:
		b.handleManaged(ctx, message, cc, func() {
			b.prompt(ctx, message, cc, session.ActionActiveGenre, promptActiveGenre)
		})
	case cmdResetGenres:
		b.handleManaged(ctx, message, cc, func() {
			b.reply(ctx, message, textResetGenresConfirm, confirmKeyboard(callback.Genres, callback.ActionReset, buttonYes, buttonNo))
		})
	case cmdPollBook:
		b.handlePollBook(ctx, message, cc)
	case cmdPollGenre:
		b.handleManaged(ctx, message, cc, func() { b.handlePollGenre(ctx, message, cc) })
	case cmdPolls:
		b.handlePolls(ctx, message, cc)
	case cmdHistory:
		b.handleManaged(ctx, message, cc, func() { b.handleHistory(ctx, message, cc) })
	case cmdSaveBook:
		b.handleManaged(ctx, message, cc, func() { b.handleSaveBook(ctx, message, cc) })
	case cmdSaveGenre:
		b.handleManaged(ctx, message, cc, func() { b.handleSaveGenre(ctx, message, cc) })
	case cmdChats:
		b.handlePrivate(ctx, message, func() { b.handleChats(ctx, message, cc) })
	case cmdInitUsers:
		b.handlePrivate(ctx, message, func() {
			b.handleManaged(ctx, message, cc, func() {
				b.prompt(ctx, message, cc, session.ActionInitUsers, promptInitUsers)
			})
		})
	case cmdUsers:
		b.handlePrivate(ctx, message, func() { b.handleUsers(ctx, message, cc) })
	case cmdResetUsers:
		b.handlePrivate(ctx, message, func() {
			b.handleManaged(ctx, message, cc, func() { b.handleResetUsers(ctx, message, cc) })
		})
	default:
		if message.Chat.IsPrivate() {
			b.reply(ctx, message, textUnknownCommand, nil)
		}
	}
}

// handleManaged runs next only for users allowed to modify the target chat.
func (b *Bot) handleManaged(ctx context.Context, message *tgbotapi.Message, cc chatContext, next func()) {
	if !b.canManage(ctx, cc) {
		b.reply(ctx, message, errAdminOnly, nil)
		return
	}
	next()
}

func (b *Bot) handlePrivate(ctx context.Context, message *tgbotapi.Message, next func()) {
	if !message.Chat.IsPrivate() {
		b.reply(ctx, message, errPrivateOnly, nil)
		return
	}
	next()
}

func (b *Bot) handleStart(ctx context.Context, message *tgbotapi.Message) {
	b.reply(ctx, message, fmt.Sprintf(textStart, message.From.FirstName), nil)
}

func (b *Bot) handleHelp(ctx context.Context, message *tgbotapi.Message) {
	commands := groupMemberCommands
	if message.Chat.IsPrivate() {
		commands = privateCommands
	}
	var sb strings.Builder
	sb.WriteString(textHelpHeader)
	for _, c := range commands {
		fmt.Fprintf(&sb, "/%s - %s\n", c.Command, c.Description)
	}
	b.reply(ctx, message, strings.TrimRight(sb.String(), "\n"), nil)
}

// withTitle prefixes text with the target chat's name in private chats.
func (b *Bot) withTitle(cc chatContext, text string) string {
	if !cc.private {
		return text
	}
	return b.targetTitle(cc) + "\n\n" + text
}

func (b *Bot) handleList(ctx context.Context, message *tgbotapi.Message, cc chatContext) {
	b.reply(ctx, message, b.withTitle(cc, b.books.ListBooks(cc.target)), nil)
}

func (b *Bot) handleGenres(ctx context.Context, message *tgbotapi.Message, cc chatContext) {
	b.reply(ctx, message, b.withTitle(cc, b.genres.ListGenres(cc.target)), nil)
}

func (b *Bot) handlePolls(ctx context.Context, message *tgbotapi.Message, cc chatContext) {
	b.reply(ctx, message, b.withTitle(cc, b.books.ListPolls(cc.target, "")), nil)
}

func (b *Bot) handleChooseBook(ctx context.Context, message *tgbotapi.Message, cc chatContext) {
	if !b.books.HasBooks(cc.target) {
		b.reply(ctx, message, service.ListEmpty, nil)
		return
	}
	b.reply(ctx, message, textChooseConfirm, confirmKeyboard(callback.Books, callback.ActionChoose, buttonConfirm, buttonCancel))
}

func (b *Bot) handlePollBook(ctx context.Context, message *tgbotapi.Message, cc chatContext) {
	titles, month := b.books.BooksForPoll(cc.target)
	if len(titles) == 0 {
		b.reply(ctx, message, service.ListEmpty, nil)
		return
	}
	keyboard := confirmKeyboard(callback.Poll, callback.ActionBook, buttonConfirm, buttonCancel)
	if len(titles) > maxPollOptions {
		b.reply(ctx, message, fmt.Sprintf(textLikeVotePreview, len(titles), month), keyboard)
		return
	}
	b.reply(ctx, message, fmt.Sprintf(textPollBookPreview, month), keyboard)
}

func (b *Bot) handlePollGenre(ctx context.Context, message *tgbotapi.Message, cc chatContext) {
	titles, month := b.genres.GenresForPoll(cc.target)
	if len(titles) == 0 {
		b.reply(ctx, message, textPollNoGenres, nil)
		return
	}
	if len(titles) > maxPollOptions {
		b.reply(ctx, message, fmt.Sprintf(textPollTooManyGenres, len(titles)), nil)
		return
	}
	b.reply(ctx, message, fmt.Sprintf(textPollGenrePreview, month), confirmKeyboard(callback.Poll, callback.ActionGenre, buttonConfirm, buttonCancel))
}

func (b *Bot) handleHistory(ctx context.Context, message *tgbotapi.Message, cc chatContext) {
	years := b.history.Years(cc.target)
	if len(years) == 0 {
		b.reply(ctx, message, service.HistoryEmpty, nil)
		return
	}
	b.reply(ctx, message, textHistorySelectYear, historyYearsKeyboard(years))
}

func (b *Bot) handleSaveBook(ctx context.Context, message *tgbotapi.Message, cc chatContext) {
	if !b.books.HasBooks(cc.target) {
		b.reply(ctx, message, service.ListEmpty, nil)
		return
	}
	b.prompt(ctx, message, cc, session.ActionSaveBook, b.books.ListBooks(cc.target)+"\n\n"+promptSaveBook)
}

func (b *Bot) handleSaveGenre(ctx context.Context, message *tgbotapi.Message, cc chatContext) {
	if !b.genres.HasGenres(cc.target) {
		b.reply(ctx, message, service.GenresEmpty, nil)
		return
	}
	b.prompt(ctx, message, cc, session.ActionSaveGenre, b.genres.ListGenres(cc.target)+"\n\n"+promptSaveGenre)
}

func (b *Bot) handleChats(ctx context.Context, message *tgbotapi.Message, cc chatContext) {
	selected := b.selectChat(cc, b.sessions.Selected(cc.key()))
	b.reply(ctx, message, textChatsHeader, chatsKeyboard(cc.conversationID, selected, b.chats.ActiveGroups()))
}

// selectChat normalizes a requested selection against the active groups and
// stores the result.
func (b *Bot) selectChat(cc chatContext, requested *int64) int64 {
	selected := b.chats.NormalizeSelectedChatID(cc.conversationID, requested, b.chats.ActiveGroups())
	b.sessions.SetSelected(cc.key(), selected)
	return selected
}

func (b *Bot) handleUsers(ctx context.Context, message *tgbotapi.Message, cc chatContext) {
	if cc.target == cc.conversationID {
		b.reply(ctx, message, textUsersSelectGroup, nil)
		return
	}
	b.reply(ctx, message, b.usersHeader(cc), usersFiltersKeyboard())
}

func (b *Bot) handleResetUsers(ctx context.Context, message *tgbotapi.Message, cc chatContext) {
	if cc.target == cc.conversationID {
		b.reply(ctx, message, textUsersSelectGroup, nil)
		return
	}
	b.reply(ctx, message, fmt.Sprintf(textResetUsersConfirm, b.targetTitle(cc)),
		confirmKeyboard(callback.Users, callback.ActionReset, buttonYes, buttonNo))
}

func (b *Bot) usersHeader(cc chatContext) string {
	return textUsersTitle + ": " + b.targetTitle(cc)
}
