package telegram_bot

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"bookclub/internal/repository"
	"bookclub/internal/service"
	"bookclub/internal/session"
)

const (
	privateChatID int64 = 100
	groupChatID   int64 = -200
	aliceID       int64 = 100
	bobID         int64 = 101
)

type sentMessage struct {
	ChatID int64
	ID     int
	Text   string
	Opts   SendOptions
}

type editedMessage struct {
	ChatID    int64
	MessageID int
	Text      string
	Keyboard  *tgbotapi.InlineKeyboardMarkup
}

type sentPoll struct {
	ChatID          int64
	Question        string
	Options         []string
	Anonymous       bool
	MultipleAnswers bool
}

type memberKey struct {
	chatID int64
	userID int64
}

// fakeMessenger records every outgoing call.
type fakeMessenger struct {
	nextID   int
	sent     []sentMessage
	edits    []editedMessage
	polls    []sentPoll
	deleted  []int
	answered []string
	kicked   []memberKey
	commands map[string][]tgbotapi.BotCommand

	roles   map[memberKey]string
	roleErr error
	kickErr error
}

func newFakeMessenger() *fakeMessenger {
	return &fakeMessenger{
		nextID:   1000,
		roles:    make(map[memberKey]string),
		commands: make(map[string][]tgbotapi.BotCommand),
	}
}

func (f *fakeMessenger) SendText(_ context.Context, chatID int64, text string, opts SendOptions) (int, error) {
	f.nextID++
	f.sent = append(f.sent, sentMessage{ChatID: chatID, ID: f.nextID, Text: text, Opts: opts})
	return f.nextID, nil
}

func (f *fakeMessenger) EditText(_ context.Context, chatID int64, messageID int, text string, keyboard *tgbotapi.InlineKeyboardMarkup) error {
	f.edits = append(f.edits, editedMessage{ChatID: chatID, MessageID: messageID, Text: text, Keyboard: keyboard})
	return nil
}

func (f *fakeMessenger) AnswerCallback(_ context.Context, callbackID, _ string) error {
	f.answered = append(f.answered, callbackID)
	return nil
}

func (f *fakeMessenger) SendPoll(_ context.Context, chatID int64, question string, options []string, anonymous, multipleAnswers bool) (PollRef, error) {
	f.nextID++
	f.polls = append(f.polls, sentPoll{ChatID: chatID, Question: question, Options: options, Anonymous: anonymous, MultipleAnswers: multipleAnswers})
	return PollRef{PollID: "poll-" + question, MessageID: f.nextID}, nil
}

func (f *fakeMessenger) DeleteMessage(_ context.Context, _ int64, messageID int) error {
	f.deleted = append(f.deleted, messageID)
	return nil
}

func (f *fakeMessenger) MemberRole(_ context.Context, chatID, userID int64) (string, error) {
	if f.roleErr != nil {
		return "", f.roleErr
	}
	if role, ok := f.roles[memberKey{chatID, userID}]; ok {
		return role, nil
	}
	return service.StatusMember, nil
}

func (f *fakeMessenger) KickMember(_ context.Context, chatID, userID int64) error {
	if f.kickErr != nil {
		return f.kickErr
	}
	f.kicked = append(f.kicked, memberKey{chatID, userID})
	return nil
}

func (f *fakeMessenger) SetCommands(_ context.Context, scope tgbotapi.BotCommandScope, commands []tgbotapi.BotCommand) error {
	f.commands[scope.Type] = commands
	return nil
}

func (f *fakeMessenger) lastSent(t *testing.T) sentMessage {
	t.Helper()
	require.NotEmpty(t, f.sent)
	return f.sent[len(f.sent)-1]
}

func (f *fakeMessenger) lastEdit(t *testing.T) editedMessage {
	t.Helper()
	require.NotEmpty(t, f.edits)
	return f.edits[len(f.edits)-1]
}

type recordedActivity struct {
	chatID   int64
	userID   int64
	username *string
}

type fakeActivity struct {
	records   []recordedActivity
	forgotten []memberKey
}

func (f *fakeActivity) Record(chatID, userID int64, username *string) {
	f.records = append(f.records, recordedActivity{chatID: chatID, userID: userID, username: username})
}

func (f *fakeActivity) Forget(chatID, userID int64) {
	f.forgotten = append(f.forgotten, memberKey{chatID, userID})
}

type testBot struct {
	*Bot
	msg      *fakeMessenger
	activity *fakeActivity
	services Services
	db       *sqlx.DB
	nextID   int
}

// newTestBot wires the bot against a fresh SQLite file with the clock fixed
// at 10 March 2026.
func newTestBot(t *testing.T) *testBot {
	t.Helper()
	logger := zap.NewNop()
	db, err := repository.NewSQLiteDB(filepath.Join(t.TempDir(), "bot.sqlite3"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, repository.MigrateDB(db, logger))

	now := func() time.Time { return time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC) }
	suggestions := repository.NewSuggestionRepository(db, logger)
	genres := repository.NewGenreRepository(db, logger)
	groups := repository.NewGroupRepository(db, logger)

	services := Services{
		Books:   service.NewBookService(suggestions, repository.NewPollRepository(db, logger), now, logger),
		Genres:  service.NewGenreService(genres, now, logger),
		History: service.NewHistoryService(repository.NewHistoryRepository(db, logger), suggestions, genres, now, logger),
		Groups:  service.NewGroupsService(groups, logger),
		Chats:   service.NewChatsService(groups),
		Users:   service.NewUsersService(repository.NewUserActivityRepository(db, logger), time.UTC, logger),
	}

	msg := newFakeMessenger()
	activity := &fakeActivity{}
	bot := NewBot(msg, services, session.NewStore(), activity, logger)
	bot.likeVotePause = 0
	bot.randInt = func(n int64) int64 { return n - 1 }

	return &testBot{Bot: bot, msg: msg, activity: activity, services: services, db: db, nextID: 1}
}

func privateChat() *tgbotapi.Chat {
	return &tgbotapi.Chat{ID: privateChatID, Type: "private"}
}

func groupChat() *tgbotapi.Chat {
	return &tgbotapi.Chat{ID: groupChatID, Type: "supergroup", Title: "Клуб"}
}

func user(id int64, username string) *tgbotapi.User {
	return &tgbotapi.User{ID: id, UserName: username, FirstName: strings.ToUpper(username)}
}

func (tb *testBot) message(chat *tgbotapi.Chat, from *tgbotapi.User, text string) *tgbotapi.Message {
	tb.nextID++
	return &tgbotapi.Message{MessageID: tb.nextID, Chat: chat, From: from, Text: text}
}

// command sends "/name" and returns the command message.
func (tb *testBot) command(chat *tgbotapi.Chat, from *tgbotapi.User, name string) *tgbotapi.Message {
	msg := tb.message(chat, from, "/"+name)
	msg.Entities = []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(name) + 1}}
	tb.HandleUpdate(context.Background(), tgbotapi.Update{Message: msg})
	return msg
}

// replyTo answers messageID with text.
func (tb *testBot) replyTo(chat *tgbotapi.Chat, from *tgbotapi.User, messageID int, text string) {
	msg := tb.message(chat, from, text)
	msg.ReplyToMessage = &tgbotapi.Message{MessageID: messageID, Chat: chat}
	tb.HandleUpdate(context.Background(), tgbotapi.Update{Message: msg})
}

// promptAndReply runs a prompted command and answers its prompt.
func (tb *testBot) promptAndReply(t *testing.T, chat *tgbotapi.Chat, from *tgbotapi.User, name, text string) sentMessage {
	t.Helper()
	tb.command(chat, from, name)
	prompt := tb.msg.lastSent(t)
	require.True(t, prompt.Opts.ForceReply, "expected a ForceReply prompt for /%s, got %q", name, prompt.Text)
	tb.replyTo(chat, from, prompt.ID, text)
	return tb.msg.lastSent(t)
}

func (tb *testBot) press(chat *tgbotapi.Chat, from *tgbotapi.User, data string) *tgbotapi.Message {
	tb.nextID++
	message := &tgbotapi.Message{MessageID: tb.nextID, Chat: chat}
	tb.HandleUpdate(context.Background(), tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		ID:      "cb",
		From:    from,
		Message: message,
		Data:    data,
	}})
	return message
}

func (tb *testBot) makeAdmin(chatID, userID int64) {
	tb.msg.roles[memberKey{chatID, userID}] = service.StatusAdministrator
}

func keyboardData(kb *tgbotapi.InlineKeyboardMarkup) []string {
	var out []string
	if kb == nil {
		return out
	}
	for _, row := range kb.InlineKeyboard {
		for _, b := range row {
			if b.CallbackData != nil {
				out = append(out, *b.CallbackData)
			}
		}
	}
	return out
}

func keyboardLabels(kb *tgbotapi.InlineKeyboardMarkup) []string {
	var out []string
	if kb == nil {
		return out
	}
	for _, row := range kb.InlineKeyboard {
		for _, b := range row {
			out = append(out, b.Text)
		}
	}
	return out
}

type fakeSource struct {
	updates chan tgbotapi.Update
	stopped bool
}

func (s *fakeSource) Updates(int) tgbotapi.UpdatesChannel { return s.updates }
func (s *fakeSource) StopUpdates()                        { s.stopped = true }

func TestBot_StartProcessesUntilCancelled(t *testing.T) {
	tb := newTestBot(t)
	source := &fakeSource{updates: make(chan tgbotapi.Update)}
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- tb.Start(ctx, source, 60) }()

	source.updates <- tgbotapi.Update{Message: &tgbotapi.Message{
		MessageID: 1,
		Chat:      privateChat(),
		From:      user(aliceID, "alice"),
		Text:      "/list",
		Entities:  []tgbotapi.MessageEntity{{Type: "bot_command", Length: 5}},
	}}
	cancel()
	require.NoError(t, <-done)
	assert.True(t, source.stopped)
	require.Len(t, tb.msg.sent, 1)
	assert.Equal(t, service.PrivateChatTitle+"\n\n"+service.ListEmpty, tb.msg.sent[0].Text)
}

func TestBot_StartReturnsWhenSourceCloses(t *testing.T) {
	tb := newTestBot(t)
	source := &fakeSource{updates: make(chan tgbotapi.Update)}
	close(source.updates)
	assert.NoError(t, tb.Start(context.Background(), source, 60))
}

func TestBot_PanicIsRecoveredAndPendingCleared(t *testing.T) {
	tb := newTestBot(t)
	tb.books = nil

	tb.command(privateChat(), user(aliceID, "alice"), cmdSuggest)
	prompt := tb.msg.lastSent(t)

	assert.NotPanics(t, func() {
		tb.replyTo(privateChat(), user(aliceID, "alice"), prompt.ID, "Дюна")
	})
	rec := tb.sessions.Get(session.Key{ConversationID: privateChatID, UserID: aliceID})
	assert.Equal(t, session.ActionNone, rec.PendingAction)
}

func TestBot_RegisterCommands(t *testing.T) {
	tb := newTestBot(t)
	require.NoError(t, tb.RegisterCommands(context.Background()))

	names := func(scope string) []string {
		var out []string
		for _, c := range tb.msg.commands[scope] {
			out = append(out, c.Command)
			assert.NotEmpty(t, c.Description, c.Command)
		}
		return out
	}
	assert.NotContains(t, names("all_group_chats"), cmdClear)
	assert.Contains(t, names("all_chat_administrators"), cmdPollGenre)
	assert.Contains(t, names("all_private_chats"), cmdChats)
	assert.NotContains(t, names("all_group_chats"), cmdChats)
}
