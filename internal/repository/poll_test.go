package repository

import (
	"testing"

	"bookclub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestPollRepository_Lifecycle(t *testing.T) {
	repo := NewPollRepository(newTestDB(t), zap.NewNop())
	msgID := int64(77)

	require.True(t, repo.AddPoll(1, "p1", "Книга мая?", []string{"Дюна", "Солярис"}, &msgID))
	require.True(t, repo.AddPoll(1, "p2", "Жанр мая?", []string{"Фэнтези"}, nil))

	poll := repo.GetPollByPollID(1, "p1")
	require.NotNil(t, poll)
	assert.Equal(t, []string{"Дюна", "Солярис"}, poll.Options())
	assert.Equal(t, models.PollStatusActive, poll.Status)
	require.NotNil(t, poll.MessageID)
	assert.Equal(t, int64(77), *poll.MessageID)
	assert.Nil(t, poll.ClosedAt)

	all := repo.GetPolls(1, "")
	require.Len(t, all, 2)
	assert.Equal(t, "p2", all[0].PollID, "newest first")

	require.True(t, repo.ClosePoll(1, "p1"))
	assert.False(t, repo.ClosePoll(1, "p1"), "already closed")

	closed := repo.GetPolls(1, models.PollStatusClosed)
	require.Len(t, closed, 1)
	assert.NotNil(t, closed[0].ClosedAt)
	assert.Len(t, repo.GetPolls(1, models.PollStatusActive), 1)

	found := repo.FindPoll("p2")
	require.NotNil(t, found)
	assert.Equal(t, int64(1), found.ChatID)
	assert.Nil(t, repo.FindPoll("missing"))
	assert.Nil(t, repo.GetPollByPollID(2, "p1"))
}
