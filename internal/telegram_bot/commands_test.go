package telegram_bot

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"bookclub/internal/service"
)

func TestCommands_PrivateOnly(t *testing.T) {
	for _, name := range []string{cmdChats, cmdInitUsers, cmdUsers, cmdResetUsers} {
		t.Run(name, func(t *testing.T) {
			tb := newTestBot(t)
			msg := tb.command(groupChat(), user(aliceID, "alice"), name)

			got := tb.msg.lastSent(t)
			assert.Equal(t, errPrivateOnly, got.Text)
			assert.Equal(t, msg.MessageID, got.Opts.ReplyTo, "group replies quote the command")
		})
	}
}

func TestCommands_ManageRequiredInGroups(t *testing.T) {
	for _, name := range []string{cmdClear, cmdAddGenre, cmdDeleteGenre, cmdActiveGenre, cmdResetGenres, cmdPollGenre, cmdHistory, cmdSaveBook, cmdSaveGenre} {
		t.Run(name, func(t *testing.T) {
			tb := newTestBot(t)
			tb.command(groupChat(), user(bobID, "bob"), name)
			assert.Equal(t, errAdminOnly, tb.msg.lastSent(t).Text)
		})
	}
}

func TestCommands_RoleLookupFailureDenies(t *testing.T) {
	tb := newTestBot(t)
	tb.msg.roleErr = errors.New("network down")
	tb.makeAdmin(groupChatID, bobID)

	tb.command(groupChat(), user(bobID, "bob"), cmdClear)
	assert.Equal(t, errAdminOnly, tb.msg.lastSent(t).Text)
}

func TestCommands_ListsAndHelp(t *testing.T) {
	tb := newTestBot(t)
	alice := user(aliceID, "alice")

	tb.command(groupChat(), alice, cmdList)
	assert.Equal(t, service.ListEmpty, tb.msg.lastSent(t).Text)

	tb.command(privateChat(), alice, cmdGenres)
	assert.Equal(t, service.PrivateChatTitle+"\n\n"+service.GenresEmpty, tb.msg.lastSent(t).Text)

	tb.command(privateChat(), alice, cmdSaveGenre)
	assert.Equal(t, service.GenresEmpty, tb.msg.lastSent(t).Text)

	tb.command(privateChat(), alice, cmdHelp)
	help := tb.msg.lastSent(t).Text
	assert.Contains(t, help, "/chats - Показать список чатов")
	assert.Contains(t, help, "/suggest - Предложить книгу")

	tb.command(privateChat(), alice, cmdStart)
	assert.Contains(t, tb.msg.lastSent(t).Text, "ALICE")

	tb.command(privateChat(), alice, "nope")
	assert.Equal(t, textUnknownCommand, tb.msg.lastSent(t).Text)

	sentBefore := len(tb.msg.sent)
	tb.command(groupChat(), alice, "nope")
	assert.Len(t, tb.msg.sent, sentBefore, "unknown commands in groups may belong to other bots")
}
