package telegram_bot

import (
	"context"
	"math/rand/v2"
	"runtime/debug"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"bookclub/internal/access"
	"bookclub/internal/service"
	"bookclub/internal/session"
)

// ActivityRecorder buffers "user was active in chat" signals.
type ActivityRecorder interface {
	Record(chatID, userID int64, username *string)
	// Forget drops buffered activity so a removed member is not written back.
	Forget(chatID, userID int64)
}

// Services are the domain services the bot drives.
type Services struct {
	Books   *service.BookService
	Genres  *service.GenreService
	History *service.HistoryService
	Groups  *service.GroupsService
	Chats   *service.ChatsService
	Users   *service.UsersService
}

// Bot routes Telegram updates to the book club commands. Updates are handled
// one at a time in arrival order.
type Bot struct {
	msg      Messenger
	access   *access.Checker
	sessions *session.Store
	activity ActivityRecorder
	logger   *zap.Logger

	books   *service.BookService
	genres  *service.GenreService
	history *service.HistoryService
	groups  *service.GroupsService
	chats   *service.ChatsService
	users   *service.UsersService

	randInt       func(n int64) int64
	likeVotePause time.Duration
}

func NewBot(msg Messenger, services Services, sessions *session.Store, activity ActivityRecorder, logger *zap.Logger) *Bot {
	return &Bot{
		msg:           msg,
		access:        access.NewChecker(msg, logger),
		sessions:      sessions,
		activity:      activity,
		logger:        logger,
		books:         services.Books,
		genres:        services.Genres,
		history:       services.History,
		groups:        services.Groups,
		chats:         services.Chats,
		users:         services.Users,
		randInt:       rand.Int64N,
		likeVotePause: 50 * time.Millisecond,
	}
}

// Start consumes updates until ctx is cancelled or the source closes.
func (b *Bot) Start(ctx context.Context, source UpdateSource, timeoutSeconds int) error {
	updates := source.Updates(timeoutSeconds)

	b.logger.Info("Telegram bot started, waiting for updates...")

	for {
		select {
		case <-ctx.Done():
			b.logger.Info("Telegram bot shutting down...")
			source.StopUpdates()
			return nil
		case update, ok := <-updates:
			if !ok {
				b.logger.Info("Telegram update channel closed")
				return nil
			}
			b.HandleUpdate(ctx, update)
		}
	}
}

// HandleUpdate dispatches one update. A panicking handler is logged and does
// not stop the loop.
func (b *Bot) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("Update handler panicked",
				zap.Int("update_id", update.UpdateID),
				zap.Any("panic", r),
				zap.ByteString("stack", debug.Stack()),
			)
		}
	}()

	switch {
	case update.MyChatMember != nil:
		b.handleMyChatMember(update.MyChatMember)
	case update.CallbackQuery != nil:
		b.handleCallbackQuery(ctx, update.CallbackQuery)
	case update.Poll != nil:
		b.handlePollUpdate(update.Poll)
	case update.Message != nil:
		b.handleMessage(ctx, update.Message)
	}
}

func (b *Bot) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	if message.Chat == nil {
		return
	}
	b.recordActivity(message.Chat, message.From)

	if len(message.NewChatMembers) > 0 || message.LeftChatMember != nil {
		b.handleMembershipMessage(message)
		return
	}
	if message.From == nil {
		return
	}
	if message.IsCommand() {
		b.handleCommand(ctx, message)
		return
	}
	if message.ReplyToMessage != nil && message.Text != "" {
		b.handleReply(ctx, message)
	}
}

func (b *Bot) handlePollUpdate(poll *tgbotapi.Poll) {
	if !poll.IsClosed {
		return
	}
	b.books.ClosePollByID(poll.ID)
}

// chatContext is where a command was issued and which chat it operates on.
type chatContext struct {
	conversationID int64
	userID         int64
	private        bool
	target         int64
}

func (c chatContext) key() session.Key {
	return session.Key{ConversationID: c.conversationID, UserID: c.userID}
}

func (b *Bot) resolve(chat *tgbotapi.Chat, user *tgbotapi.User) chatContext {
	cc := chatContext{conversationID: chat.ID, userID: user.ID, private: chat.IsPrivate()}
	cc.target = b.sessions.Target(cc.key(), chat.ID, cc.private)
	return cc
}

func (b *Bot) canManage(ctx context.Context, cc chatContext) bool {
	return b.access.CanManage(ctx, cc.private, cc.conversationID, cc.target, cc.userID)
}

// targetTitle names the target chat for headers shown in private chats.
func (b *Bot) targetTitle(cc chatContext) string {
	return b.chats.ChatTitle(cc.conversationID, cc.target)
}

// reply answers a message. Group replies quote the original.
func (b *Bot) reply(ctx context.Context, message *tgbotapi.Message, text string, keyboard *tgbotapi.InlineKeyboardMarkup) {
	opts := SendOptions{Keyboard: keyboard}
	if !message.Chat.IsPrivate() {
		opts.ReplyTo = message.MessageID
	}
	b.send(ctx, message.Chat.ID, text, opts)
}

// prompt asks for a ForceReply answer and remembers the prompt.
func (b *Bot) prompt(ctx context.Context, message *tgbotapi.Message, cc chatContext, action session.Action, text string) {
	sentID, err := b.msg.SendText(ctx, message.Chat.ID, text, SendOptions{ReplyTo: message.MessageID, ForceReply: true})
	if err != nil {
		b.logger.Error("Failed to send prompt", zap.Int64("chat_id", message.Chat.ID), zap.String("action", string(action)), zap.Error(err))
		return
	}
	b.sessions.SetPending(cc.key(), action, sentID)
}

func (b *Bot) send(ctx context.Context, chatID int64, text string, opts SendOptions) {
	if _, err := b.msg.SendText(ctx, chatID, text, opts); err != nil {
		b.logger.Error("Failed to send message", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

func (b *Bot) edit(ctx context.Context, message *tgbotapi.Message, text string, keyboard *tgbotapi.InlineKeyboardMarkup) {
	if err := b.msg.EditText(ctx, message.Chat.ID, message.MessageID, text, keyboard); err != nil {
		b.logger.Error("Failed to edit message", zap.Int64("chat_id", message.Chat.ID), zap.Int("message_id", message.MessageID), zap.Error(err))
	}
}

func (b *Bot) deleteMessage(ctx context.Context, message *tgbotapi.Message) {
	if err := b.msg.DeleteMessage(ctx, message.Chat.ID, message.MessageID); err != nil {
		b.logger.Warn("Failed to delete message", zap.Int64("chat_id", message.Chat.ID), zap.Int("message_id", message.MessageID), zap.Error(err))
	}
}

func usernameOf(user *tgbotapi.User) *string {
	if user == nil || user.UserName == "" {
		return nil
	}
	name := user.UserName
	return &name
}

func isGroupChat(chat *tgbotapi.Chat) bool {
	return chat != nil && (chat.IsGroup() || chat.IsSuperGroup())
}
