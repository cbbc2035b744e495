package telegram_bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"bookclub/internal/callback"
	"bookclub/internal/models"
	"bookclub/internal/service"
)

// handleCallbackQuery processes inline keyboard presses.
func (b *Bot) handleCallbackQuery(ctx context.Context, query *tgbotapi.CallbackQuery) {
	if query.Message != nil {
		b.recordActivity(query.Message.Chat, query.From)
	}

	if err := b.msg.AnswerCallback(ctx, query.ID, ""); err != nil {
		b.logger.Error("Failed to send callback response", zap.Error(err))
	}
	if query.Message == nil || query.Message.Chat == nil || query.From == nil {
		return
	}

	cmd, err := callback.Decode(query.Data)
	if err != nil {
		b.logger.Warn("Ignoring callback", zap.String("data", query.Data), zap.Error(err))
		return
	}

	cc := b.resolve(query.Message.Chat, query.From)
	b.logger.Debug("Callback received",
		zap.String("data", query.Data),
		zap.Int64("user_id", cc.userID),
		zap.Int64("target_chat_id", cc.target),
	)

	message := query.Message
	switch cmd.Domain {
	case callback.Books:
		b.onBooks(ctx, message, cc, cmd)
	case callback.Genres:
		b.onGenres(ctx, message, cc, cmd)
	case callback.Poll:
		b.onPoll(ctx, message, cc, cmd)
	case callback.Chats:
		b.onChats(ctx, message, cc, cmd)
	case callback.History:
		b.onHistory(ctx, message, cc, cmd)
	case callback.Users:
		b.onUsers(ctx, message, cc, cmd)
	}
}

func (b *Bot) onBooks(ctx context.Context, message *tgbotapi.Message, cc chatContext, cmd callback.Command) {
	switch cmd.Action {
	case callback.ActionClear:
		if !cmd.Confirmed() {
			b.edit(ctx, message, textClearCancelled, nil)
			return
		}
		if !b.canManage(ctx, cc) {
			b.edit(ctx, message, errAdminOnly, nil)
			return
		}
		b.edit(ctx, message, b.books.ClearBooks(cc.target), nil)
	case callback.ActionChoose:
		if !cmd.Confirmed() {
			b.edit(ctx, message, textChooseCancelled, nil)
			return
		}
		number, book, ok := b.books.ChooseRandomBook(cc.target)
		if !ok {
			b.edit(ctx, message, service.ListEmpty, nil)
			return
		}
		b.edit(ctx, message, fmt.Sprintf(textChosenBook, number, book), nil)
	}
}

func (b *Bot) onGenres(ctx context.Context, message *tgbotapi.Message, cc chatContext, cmd callback.Command) {
	if !cmd.Confirmed() {
		b.edit(ctx, message, textResetGenresCancelled, nil)
		return
	}
	if !b.canManage(ctx, cc) {
		b.edit(ctx, message, errAdminOnly, nil)
		return
	}
	ok, msg := b.genres.ResetAllGenresActive(cc.target)
	if !ok {
		b.edit(ctx, message, msg, nil)
		return
	}
	b.edit(ctx, message, msg+"\n\n"+b.genres.ListGenres(cc.target), nil)
}

func (b *Bot) onPoll(ctx context.Context, message *tgbotapi.Message, cc chatContext, cmd callback.Command) {
	switch cmd.Action {
	case callback.ActionBook:
		if !cmd.Confirmed() {
			b.edit(ctx, message, textPollCancelled, nil)
			return
		}
		titles, month := b.books.BooksForPoll(cc.target)
		if len(titles) == 0 {
			b.edit(ctx, message, service.ListEmpty, nil)
			return
		}
		b.deleteMessage(ctx, message)
		if len(titles) > maxPollOptions {
			b.sendLikeVote(ctx, cc.target, month, titles)
			return
		}
		b.createPoll(ctx, cc.target, fmt.Sprintf(textPollBookQuestion, month), titles, true)
	case callback.ActionGenre:
		if !b.canManage(ctx, cc) {
			b.edit(ctx, message, errAdminOnly, nil)
			return
		}
		if !cmd.Confirmed() {
			b.edit(ctx, message, textPollCancelled, nil)
			return
		}
		titles, month := b.genres.GenresForPoll(cc.target)
		if len(titles) == 0 {
			b.edit(ctx, message, textPollNoGenres, nil)
			return
		}
		if len(titles) > maxPollOptions {
			b.edit(ctx, message, fmt.Sprintf(textPollTooManyGenres, len(titles)), nil)
			return
		}
		b.deleteMessage(ctx, message)
		b.createPoll(ctx, cc.target, fmt.Sprintf(textPollGenreQuestion, month), titles, false)
	}
}

// createPoll posts a public poll and stores it as active.
func (b *Bot) createPoll(ctx context.Context, chatID int64, question string, options []string, multipleAnswers bool) {
	ref, err := b.msg.SendPoll(ctx, chatID, question, options, false, multipleAnswers)
	if err != nil {
		b.logger.Error("Failed to send poll", zap.Int64("chat_id", chatID), zap.String("question", question), zap.Error(err))
		return
	}
	if ref.PollID == "" {
		return
	}
	messageID := int64(ref.MessageID)
	if !b.books.SavePoll(chatID, ref.PollID, question, options, &messageID) {
		b.logger.Error("Failed to save poll", zap.Int64("chat_id", chatID), zap.String("poll_id", ref.PollID))
	}
}

// sendLikeVote replaces a poll when there are too many options: one message
// per book, members vote with reactions.
func (b *Bot) sendLikeVote(ctx context.Context, chatID int64, month string, titles []string) {
	b.send(ctx, chatID, fmt.Sprintf(textLikeVoteAnnounce, month), SendOptions{})
	for i, title := range titles {
		b.send(ctx, chatID, fmt.Sprintf(textLikeVoteOption, i+1, title), SendOptions{})
		if b.likeVotePause <= 0 {
			continue
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(b.likeVotePause):
		}
	}
}

func (b *Bot) onChats(ctx context.Context, message *tgbotapi.Message, cc chatContext, cmd callback.Command) {
	if !cc.private {
		b.edit(ctx, message, errPrivateOnly, nil)
		return
	}
	requested := cc.conversationID
	if cmd.Arg != callback.ArgPrivate {
		requested = cmd.ID()
	}
	selected := b.selectChat(cc, &requested)
	b.edit(ctx, message, textChatsHeader, chatsKeyboard(cc.conversationID, selected, b.chats.ActiveGroups()))
}

func (b *Bot) onHistory(ctx context.Context, message *tgbotapi.Message, cc chatContext, cmd callback.Command) {
	if !b.canManage(ctx, cc) {
		b.edit(ctx, message, errAdminOnly, nil)
		return
	}
	text, ok := b.history.YearText(cc.target, int(cmd.ID()))
	if ok {
		b.edit(ctx, message, text, nil)
		return
	}
	years := b.history.Years(cc.target)
	if len(years) == 0 {
		b.edit(ctx, message, service.HistoryEmpty, nil)
		return
	}
	b.edit(ctx, message, textHistorySelectYear, historyYearsKeyboard(years))
}

func (b *Bot) onUsers(ctx context.Context, message *tgbotapi.Message, cc chatContext, cmd callback.Command) {
	if !cc.private {
		b.edit(ctx, message, errPrivateOnly, nil)
		return
	}
	if cc.target == cc.conversationID {
		b.edit(ctx, message, textUsersSelectGroup, nil)
		return
	}
	header := b.usersHeader(cc)

	switch cmd.Action {
	case callback.ActionBack, callback.ActionCancel:
		b.edit(ctx, message, header, usersFiltersKeyboard())
	case callback.ActionReset:
		if !cmd.Confirmed() {
			b.edit(ctx, message, header, usersFiltersKeyboard())
			return
		}
		if !b.canManage(ctx, cc) {
			b.edit(ctx, message, errAdminOnly, nil)
			return
		}
		deleted := b.users.ClearUsersForChat(cc.target)
		b.edit(ctx, message, fmt.Sprintf(textResetUsersDone, deleted), usersFiltersKeyboard())
	case callback.ActionFilter:
		b.onUsersFilter(ctx, message, cc, header, cmd)
	case callback.ActionUser:
		userID := cmd.ID()
		label := service.LabelForUser(userID, b.users.FindUsernameForChat(cc.target, userID))
		b.edit(ctx, message, fmt.Sprintf(textUsersKickConfirm, label, b.targetTitle(cc)), usersKickKeyboard(userID))
	case callback.ActionConfirm:
		b.onUsersKick(ctx, message, cc, cmd.ID())
	}
}

func (b *Bot) onUsersFilter(ctx context.Context, message *tgbotapi.Message, cc chatContext, header string, cmd callback.Command) {
	months := 0
	if cmd.Arg != callback.ArgAll {
		months = int(cmd.ID())
	}
	text := header + "\n\n" + service.SubtitleForInactiveMonths(months) + "\n\n"

	users := b.users.UsersForChat(cc.target, months)
	if len(users) == 0 {
		b.edit(ctx, message, text+textUsersEmpty, usersFiltersKeyboard())
		return
	}
	b.edit(ctx, message, text+textUsersChoose, usersListKeyboard(users, func(u models.UserActivity) string {
		return b.users.FormatLastActivity(u.LastActivityAt)
	}))
}

// onUsersKick removes a member from the target chat. The caller must
// administer that chat; owning the private chat is not enough.
func (b *Bot) onUsersKick(ctx context.Context, message *tgbotapi.Message, cc chatContext, userID int64) {
	if !b.access.IsAdmin(ctx, cc.target, cc.userID) {
		b.edit(ctx, message, textUsersNeedAdmin, usersFiltersKeyboard())
		return
	}
	if err := b.msg.KickMember(ctx, cc.target, userID); err != nil {
		b.logger.Warn("Failed to kick member", zap.Int64("chat_id", cc.target), zap.Int64("user_id", userID), zap.Error(err))
		b.edit(ctx, message, kickErrorText(err), usersFiltersKeyboard())
		return
	}
	b.activity.Forget(cc.target, userID)
	b.users.DeleteUserForChat(cc.target, userID)
	b.edit(ctx, message, textUsersKicked, usersFiltersKeyboard())
}

func kickErrorText(err error) string {
	var apiErr *APIError
	switch {
	case errors.Is(err, ErrBotForbidden):
		return textUsersKickForbidden
	case errors.Is(err, ErrBadRequest) && errors.As(err, &apiErr):
		return fmt.Sprintf(textUsersKickFailed, strings.TrimPrefix(apiErr.Description, "Bad Request: "))
	default:
		return fmt.Sprintf(textUsersKickFailed, err.Error())
	}
}
