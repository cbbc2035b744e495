package service

import (
	"testing"

	"bookclub/internal/models"
	"bookclub/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestGroupsService_MembershipTransitions(t *testing.T) {
	repo := repository.NewGroupRepository(newTestDB(t), zap.NewNop())
	s := NewGroupsService(repo, zap.NewNop())
	chats := NewChatsService(repo)

	assert.True(t, s.ApplyBotMembershipUpdate(-1, "Club", models.GroupTypeSupergroup, StatusAdministrator))
	require.Len(t, s.ActiveGroups(), 1)

	assert.False(t, s.ApplyBotMembershipUpdate(-1, "Club", models.GroupTypeSupergroup, StatusRestricted))
	require.Len(t, chats.ActiveGroups(), 1)

	assert.True(t, s.ApplyBotMembershipUpdate(-1, "Club", models.GroupTypeSupergroup, StatusKicked))
	assert.Empty(t, s.ActiveGroups())
	assert.NotNil(t, repo.GetGroup(-1), "soft removed")

	assert.True(t, s.ApplyBotMembershipUpdate(-1, "Club", models.GroupTypeSupergroup, StatusMember))
	assert.Len(t, s.ActiveGroups(), 1)
}

func TestChatsService_NormalizeAndTitle(t *testing.T) {
	repo := repository.NewGroupRepository(newTestDB(t), zap.NewNop())
	chats := NewChatsService(repo)
	require.True(t, repo.AddOrUpdateGroup(-5, "Club", models.GroupTypeGroup, true))
	require.True(t, repo.AddOrUpdateGroup(-6, "Gone", models.GroupTypeGroup, true))
	require.True(t, repo.RemoveGroup(-6))
	active := chats.ActiveGroups()

	gone, club := int64(-6), int64(-5)
	assert.Equal(t, int64(42), chats.NormalizeSelectedChatID(42, nil, active))
	assert.Equal(t, int64(42), chats.NormalizeSelectedChatID(42, &gone, active))
	assert.Equal(t, club, chats.NormalizeSelectedChatID(42, &club, active))

	assert.Equal(t, PrivateChatTitle, chats.ChatTitle(42, 42))
	assert.Equal(t, "Club", chats.ChatTitle(42, -5))
	assert.Equal(t, "-77", chats.ChatTitle(42, -77))
}

func TestGroupsService_GroupsIncludeInactive(t *testing.T) {
	repo := repository.NewGroupRepository(newTestDB(t), zap.NewNop())
	s := NewGroupsService(repo, zap.NewNop())
	require.True(t, s.ApplyBotMembershipUpdate(-1, "Club", models.GroupTypeGroup, StatusMember))
	require.True(t, s.ApplyBotMembershipUpdate(-2, "Old", models.GroupTypeGroup, StatusMember))
	require.True(t, s.ApplyBotMembershipUpdate(-2, "Old", models.GroupTypeGroup, StatusLeft))

	assert.Len(t, s.Groups(false), 1)
	assert.Len(t, s.Groups(true), 2)
}
