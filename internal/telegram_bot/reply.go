package telegram_bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"bookclub/internal/session"
)

// handleReply continues a prompted command. Only a reply to the recorded
// prompt is consumed, and consuming it always clears the pending action.
func (b *Bot) handleReply(ctx context.Context, message *tgbotapi.Message) {
	cc := b.resolve(message.Chat, message.From)
	action, ok := b.sessions.Match(cc.key(), message.ReplyToMessage.MessageID)
	if !ok {
		return
	}
	defer b.sessions.ClearPending(cc.key())

	text := strings.TrimSpace(message.Text)
	if text == session.CancelText {
		return
	}

	b.logger.Debug("Reply consumed", zap.String("action", string(action)), zap.Int64("target_chat_id", cc.target))

	switch action {
	case session.ActionInitUsers:
		b.handleManaged(ctx, message, cc, func() { b.replyInitUsers(ctx, message, cc, text) })
	case session.ActionRandom:
		b.replyRandom(ctx, message, text)
	case session.ActionDeleteBook:
		b.replyDeleteBook(ctx, message, cc, text)
	case session.ActionSuggest:
		b.replySuggest(ctx, message, cc, text)
	case session.ActionAddGenre:
		b.handleManaged(ctx, message, cc, func() { b.replyAddGenre(ctx, message, cc, text) })
	case session.ActionDeleteGenre:
		b.handleManaged(ctx, message, cc, func() { b.replyDeleteGenre(ctx, message, cc, text) })
	case session.ActionActiveGenre:
		b.handleManaged(ctx, message, cc, func() { b.replyActiveGenre(ctx, message, cc, text) })
	case session.ActionSaveBook:
		b.handleManaged(ctx, message, cc, func() { b.replySaveBook(ctx, message, cc, text) })
	case session.ActionSaveGenre:
		b.handleManaged(ctx, message, cc, func() { b.replySaveGenre(ctx, message, cc, text) })
	}
}

// replyInputError reports a validation failure. Anything else is unexpected.
func (b *Bot) replyInputError(ctx context.Context, message *tgbotapi.Message, err error) {
	var inputErr *inputError
	if errors.As(err, &inputErr) {
		b.reply(ctx, message, inputErr.text, nil)
		return
	}
	b.logger.Error("Unexpected input error", zap.Error(err))
	b.reply(ctx, message, errBadFormat, nil)
}

func (b *Bot) replyInitUsers(ctx context.Context, message *tgbotapi.Message, cc chatContext, text string) {
	ok, msg, users := b.users.ParseMembersCSV(text)
	if !ok {
		b.reply(ctx, message, msg, nil)
		return
	}
	inserted, skipped := b.users.ImportUsersIfMissing(cc.target, users)
	b.reply(ctx, message, fmt.Sprintf(textImportDone, b.targetTitle(cc), inserted, skipped), nil)
}

func (b *Bot) replyRandom(ctx context.Context, message *tgbotapi.Message, text string) {
	lo, hi, err := parseRange(text)
	if err != nil {
		b.reply(ctx, message, errBadFormat, nil)
		return
	}
	b.reply(ctx, message, strconv.FormatInt(lo+b.randInt(hi-lo+1), 10), nil)
}

func (b *Bot) replyDeleteBook(ctx context.Context, message *tgbotapi.Message, cc chatContext, text string) {
	idx, err := parseIndex(text, "/"+cmdDelete)
	if err != nil {
		b.replyInputError(ctx, message, err)
		return
	}
	isAdmin := b.canManage(ctx, cc)
	ok, msg := b.books.DeleteBook(cc.target, idx, cc.userID, isAdmin)
	if !ok {
		b.reply(ctx, message, msg, nil)
		return
	}
	b.reply(ctx, message, fmt.Sprintf(textNewList, msg, b.books.ListBooks(cc.target)), nil)
}

func (b *Bot) replySuggest(ctx context.Context, message *tgbotapi.Message, cc chatContext, text string) {
	if err := validateText(text, maxSuggestionLength, "/"+cmdSuggest); err != nil {
		b.replyInputError(ctx, message, err)
		return
	}
	if !b.books.AddSuggestion(cc.target, cc.userID, usernameOf(message.From), text, int64(message.MessageID)) {
		b.reply(ctx, message, errSaveBook, nil)
		return
	}
	b.reply(ctx, message, b.books.ListBooks(cc.target), nil)
}

func (b *Bot) replyAddGenre(ctx context.Context, message *tgbotapi.Message, cc chatContext, text string) {
	if err := validateText(text, maxGenreLength, "/"+cmdAddGenre); err != nil {
		b.replyInputError(ctx, message, err)
		return
	}
	if !b.genres.AddGenre(cc.target, text, int64(message.MessageID)) {
		b.reply(ctx, message, errSaveGenre, nil)
		return
	}
	b.reply(ctx, message, b.genres.ListGenres(cc.target), nil)
}

func (b *Bot) replyDeleteGenre(ctx context.Context, message *tgbotapi.Message, cc chatContext, text string) {
	idx, err := parseIndex(text, "/"+cmdDeleteGenre)
	if err != nil {
		b.replyInputError(ctx, message, err)
		return
	}
	b.replyGenreChange(ctx, message, cc, b.genres.DeleteGenre, idx)
}

func (b *Bot) replyActiveGenre(ctx context.Context, message *tgbotapi.Message, cc chatContext, text string) {
	idx, err := parseIndex(text, "/"+cmdActiveGenre)
	if err != nil {
		b.replyInputError(ctx, message, err)
		return
	}
	b.replyGenreChange(ctx, message, cc, b.genres.ToggleGenreActive, idx)
}

func (b *Bot) replyGenreChange(ctx context.Context, message *tgbotapi.Message, cc chatContext,
	change func(chatID int64, index int) (bool, string), idx int) {
	ok, msg := change(cc.target, idx)
	if !ok {
		b.reply(ctx, message, msg, nil)
		return
	}
	b.reply(ctx, message, fmt.Sprintf(textNewList, msg, b.genres.ListGenres(cc.target)), nil)
}

func (b *Bot) replySaveBook(ctx context.Context, message *tgbotapi.Message, cc chatContext, text string) {
	idx, monthYear, err := parseIndexAndMonthYear(text, "/"+cmdSaveBook)
	if err != nil {
		b.replyInputError(ctx, message, err)
		return
	}
	_, msg := b.history.SaveBookFromIndex(cc.target, idx, monthYear)
	b.reply(ctx, message, msg, nil)
}

func (b *Bot) replySaveGenre(ctx context.Context, message *tgbotapi.Message, cc chatContext, text string) {
	idx, monthYear, err := parseIndexAndMonthYear(text, "/"+cmdSaveGenre)
	if err != nil {
		b.replyInputError(ctx, message, err)
		return
	}
	_, msg := b.history.SaveGenreFromIndex(cc.target, idx, monthYear)
	b.reply(ctx, message, msg, nil)
}
