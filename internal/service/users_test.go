package service

import (
	"strings"
	"testing"
	"time"

	"bookclub/internal/models"
	"bookclub/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newUsersService(t *testing.T) *UsersService {
	return NewUsersService(repository.NewUserActivityRepository(newTestDB(t), zap.NewNop()), time.UTC, zap.NewNop())
}

func TestUsersService_ParseMembersCSV(t *testing.T) {
	s := newUsersService(t)
	csvText := "\ufeffuser_id,username,first_name,is_bot\n" +
		"111,anna,Anna,0\n" +
		"222,,Bob,false\n" +
		"333,robot,Bot,TRUE\n" +
		"444,helper,Bot,y\n" +
		",nobody,,0\n" +
		"abc,broken,,0\n" +
		"555\n"

	ok, msg, users := s.ParseMembersCSV(csvText)
	require.True(t, ok, msg)
	require.Len(t, users, 3)
	assert.Equal(t, int64(111), users[0].UserID)
	require.NotNil(t, users[0].Username)
	assert.Equal(t, "anna", *users[0].Username)
	assert.Nil(t, users[1].Username)
	assert.Equal(t, int64(555), users[2].UserID)
}

func TestUsersService_ParseMembersCSVErrors(t *testing.T) {
	s := newUsersService(t)

	ok, msg, _ := s.ParseMembersCSV("id,username\n1,a\n")
	assert.False(t, ok)
	assert.Equal(t, "Не вижу колонку `user_id` в CSV.", msg)

	ok, msg, _ = s.ParseMembersCSV("user_id,is_bot\n1,1\nx,0\n")
	assert.False(t, ok)
	assert.Equal(t, "В CSV не найдено ни одной строки с корректным `user_id`.", msg)

	ok, msg, _ = s.ParseMembersCSV("user_id\n" + strings.Repeat("1\n", MaxCSVLength))
	assert.False(t, ok)
	assert.Equal(t, "Слишком длинно. Сократите и отправьте снова: /init_users", msg)

	ok, _, _ = s.ParseMembersCSV("")
	assert.False(t, ok)
}

func TestUsersService_ImportAndLookup(t *testing.T) {
	s := newUsersService(t)

	inserted, skipped := s.ImportUsersIfMissing(1, []models.ImportedUser{{UserID: 111, Username: strPtr("anna")}})
	assert.Equal(t, 1, inserted)
	assert.Equal(t, 0, skipped)

	inserted, skipped = s.ImportUsersIfMissing(2, []models.ImportedUser{{UserID: 111}})
	assert.Equal(t, 0, inserted)
	assert.Equal(t, 1, skipped)

	name := s.FindUsernameForChat(1, 111)
	require.NotNil(t, name)
	assert.Equal(t, "anna", *name)
	assert.Nil(t, s.FindUsernameForChat(2, 111))

	assert.True(t, s.TouchMember(2, 5, nil))
	assert.Len(t, s.UsersForChat(2, 0), 1)
	assert.True(t, s.DeleteUserForChat(2, 5))
	assert.Equal(t, 1, s.ClearUsersForChat(1))
}

func TestUsersService_Labels(t *testing.T) {
	s := newUsersService(t)
	assert.Equal(t, "Все", SubtitleForInactiveMonths(0))
	assert.Equal(t, "Неактивные 3 мес.", SubtitleForInactiveMonths(3))
	assert.Equal(t, "anna", LabelForUser(1, strPtr("anna")))
	assert.Equal(t, "id:7", LabelForUser(7, nil))

	ts := time.Date(2026, 3, 4, 5, 6, 0, 0, time.UTC)
	assert.Equal(t, "04.03.2026 05:06", s.FormatLastActivity(&ts))
	assert.Equal(t, "—", s.FormatLastActivity(nil))
}
