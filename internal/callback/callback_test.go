package callback

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode_KnownRoutes(t *testing.T) {
	cases := map[string]Command{
		"books:clear:confirm":  {Books, ActionClear, ArgConfirm},
		"books:choose:cancel":  {Books, ActionChoose, ArgCancel},
		"genres:reset:confirm": {Genres, ActionReset, ArgConfirm},
		"poll:genre:cancel":    {Poll, ActionGenre, ArgCancel},
		"chats:select:private": {Chats, ActionSelect, ArgPrivate},
		"chats:select:-100123": {Chats, ActionSelect, "-100123"},
		"history:year:2026":    {History, ActionYear, "2026"},
		"users:filter:all":     {Users, ActionFilter, ArgAll},
		"users:filter:3":       {Users, ActionFilter, "3"},
		"users:user:55":        {Users, ActionUser, "55"},
		"users:confirm:55":     {Users, ActionConfirm, "55"},
		"users:cancel":         {Users, ActionCancel, ""},
		"users:back":           {Users, ActionBack, ""},
		"users:reset:cancel":   {Users, ActionReset, ArgCancel},
	}
	for data, want := range cases {
		t.Run(data, func(t *testing.T) {
			got, err := Decode(data)
			require.NoError(t, err)
			assert.Equal(t, want, got)
			assert.Equal(t, data, got.String())
		})
	}
}

func TestDecode_Rejects(t *testing.T) {
	unknown := []string{"", "books", "books:burn:confirm", "suggest:x:y", "a:b:c:d", "users:reset"}
	for _, data := range unknown {
		_, err := Decode(data)
		assert.Error(t, err, data)
	}

	_, err := Decode("books:burn:confirm")
	assert.ErrorIs(t, err, ErrUnknownCommand)

	bad := []string{"books:clear:maybe", "history:year:abc", "users:filter:0", "users:filter:-1",
		"chats:select:me", "users:cancel:1", "users:user:"}
	for _, data := range bad {
		_, err := Decode(data)
		assert.ErrorIs(t, err, ErrBadArgument, data)
	}
}

func TestCommandHelpers(t *testing.T) {
	cmd := WithID(Users, ActionConfirm, 77)
	assert.Equal(t, "users:confirm:77", cmd.String())
	assert.Equal(t, int64(77), cmd.ID())
	assert.True(t, New(Books, ActionClear, ArgConfirm).Confirmed())
	assert.False(t, New(Books, ActionClear, ArgCancel).Confirmed())
}
