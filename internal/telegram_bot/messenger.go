package telegram_bot

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Sentinels wrapped by APIError for 403 (the bot lacks rights or was blocked)
// and 400 answers.
var (
	ErrBotForbidden = errors.New("telegram: forbidden")
	ErrBadRequest   = errors.New("telegram: bad request")
)

// APIError is a failed Bot API call.
type APIError struct {
	Code        int
	Description string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("telegram api error %d: %s", e.Code, e.Description)
}

func (e *APIError) Unwrap() error {
	switch e.Code {
	case http.StatusForbidden:
		return ErrBotForbidden
	case http.StatusBadRequest:
		return ErrBadRequest
	default:
		return nil
	}
}

// SendOptions tune an outgoing text message.
type SendOptions struct {
	ReplyTo    int
	ForceReply bool
	Keyboard   *tgbotapi.InlineKeyboardMarkup
}

// PollRef identifies a poll the bot has posted.
type PollRef struct {
	PollID    string
	MessageID int
}

// Messenger is the part of the Bot API the handlers use.
type Messenger interface {
	SendText(ctx context.Context, chatID int64, text string, opts SendOptions) (int, error)
	EditText(ctx context.Context, chatID int64, messageID int, text string, keyboard *tgbotapi.InlineKeyboardMarkup) error
	AnswerCallback(ctx context.Context, callbackID, text string) error
	SendPoll(ctx context.Context, chatID int64, question string, options []string, anonymous, multipleAnswers bool) (PollRef, error)
	DeleteMessage(ctx context.Context, chatID int64, messageID int) error
	MemberRole(ctx context.Context, chatID, userID int64) (string, error)
	KickMember(ctx context.Context, chatID, userID int64) error
	SetCommands(ctx context.Context, scope tgbotapi.BotCommandScope, commands []tgbotapi.BotCommand) error
}

// UpdateSource delivers inbound updates.
type UpdateSource interface {
	Updates(timeoutSeconds int) tgbotapi.UpdatesChannel
	StopUpdates()
}

// Client implements Messenger and UpdateSource on top of tgbotapi.
type Client struct {
	api    *tgbotapi.BotAPI
	logger *zap.Logger
}

// NewClient authorizes the token against the Bot API.
func NewClient(token string, logger *zap.Logger) (*Client, error) {
	botAPI, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create Telegram bot API: %w", err)
	}
	logger.Info("Telegram bot authorized", zap.String("username", botAPI.Self.UserName))
	return &Client{api: botAPI, logger: logger}, nil
}

func (c *Client) Username() string {
	return c.api.Self.UserName
}

func (c *Client) Updates(timeoutSeconds int) tgbotapi.UpdatesChannel {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = timeoutSeconds
	u.AllowedUpdates = []string{"message", "callback_query", "poll", "my_chat_member"}
	return c.api.GetUpdatesChan(u)
}

func (c *Client) StopUpdates() {
	c.api.StopReceivingUpdates()
}

func (c *Client) SendText(_ context.Context, chatID int64, text string, opts SendOptions) (int, error) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyToMessageID = opts.ReplyTo
	switch {
	case opts.Keyboard != nil:
		msg.ReplyMarkup = *opts.Keyboard
	case opts.ForceReply:
		msg.ReplyMarkup = tgbotapi.ForceReply{ForceReply: true, Selective: true}
	}
	sent, err := c.api.Send(msg)
	if err != nil {
		return 0, translateError(err)
	}
	return sent.MessageID, nil
}

func (c *Client) EditText(_ context.Context, chatID int64, messageID int, text string, keyboard *tgbotapi.InlineKeyboardMarkup) error {
	var edit tgbotapi.EditMessageTextConfig
	if keyboard != nil {
		edit = tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, text, *keyboard)
	} else {
		edit = tgbotapi.NewEditMessageText(chatID, messageID, text)
	}
	if _, err := c.api.Send(edit); err != nil {
		return translateError(err)
	}
	return nil
}

func (c *Client) AnswerCallback(_ context.Context, callbackID, text string) error {
	if _, err := c.api.Request(tgbotapi.NewCallback(callbackID, text)); err != nil {
		return translateError(err)
	}
	return nil
}

func (c *Client) SendPoll(_ context.Context, chatID int64, question string, options []string, anonymous, multipleAnswers bool) (PollRef, error) {
	poll := tgbotapi.NewPoll(chatID, question, options...)
	poll.IsAnonymous = anonymous
	poll.AllowsMultipleAnswers = multipleAnswers
	sent, err := c.api.Send(poll)
	if err != nil {
		return PollRef{}, translateError(err)
	}
	ref := PollRef{MessageID: sent.MessageID}
	if sent.Poll != nil {
		ref.PollID = sent.Poll.ID
	}
	return ref, nil
}

func (c *Client) DeleteMessage(_ context.Context, chatID int64, messageID int) error {
	if _, err := c.api.Request(tgbotapi.NewDeleteMessage(chatID, messageID)); err != nil {
		return translateError(err)
	}
	return nil
}

func (c *Client) MemberRole(_ context.Context, chatID, userID int64) (string, error) {
	member, err := c.api.GetChatMember(tgbotapi.GetChatMemberConfig{
		ChatConfigWithUser: tgbotapi.ChatConfigWithUser{ChatID: chatID, UserID: userID},
	})
	if err != nil {
		return "", translateError(err)
	}
	return member.Status, nil
}

// KickMember removes a user without leaving them banned.
func (c *Client) KickMember(_ context.Context, chatID, userID int64) error {
	member := tgbotapi.ChatMemberConfig{ChatID: chatID, UserID: userID}
	if _, err := c.api.Request(tgbotapi.BanChatMemberConfig{ChatMemberConfig: member}); err != nil {
		return translateError(err)
	}
	if _, err := c.api.Request(tgbotapi.UnbanChatMemberConfig{ChatMemberConfig: member, OnlyIfBanned: true}); err != nil {
		return translateError(err)
	}
	return nil
}

func (c *Client) SetCommands(_ context.Context, scope tgbotapi.BotCommandScope, commands []tgbotapi.BotCommand) error {
	if _, err := c.api.Request(tgbotapi.NewSetMyCommandsWithScope(scope, commands...)); err != nil {
		return translateError(err)
	}
	return nil
}

func translateError(err error) error {
	var tgErr *tgbotapi.Error
	if errors.As(err, &tgErr) {
		return &APIError{Code: tgErr.Code, Description: tgErr.Message}
	}
	return err
}
