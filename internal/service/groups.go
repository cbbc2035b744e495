package service

import (
	"bookclub/internal/models"
	"bookclub/internal/repository"

	"go.uber.org/zap"
)

// Telegram chat member statuses.
const (
	StatusCreator       = "creator"
	StatusAdministrator = "administrator"
	StatusMember        = "member"
	StatusRestricted    = "restricted"
	StatusLeft          = "left"
	StatusKicked        = "kicked"
)

type GroupsService struct {
	groups repository.GroupRepository
	logger *zap.Logger
}

func NewGroupsService(groups repository.GroupRepository, logger *zap.Logger) *GroupsService {
	return &GroupsService{groups: groups, logger: logger}
}

// ApplyBotMembershipUpdate syncs the groups table with the bot's new status
// in a chat. Statuses other than member/administrator/left/kicked are ignored.
func (s *GroupsService) ApplyBotMembershipUpdate(chatID int64, title, chatType, newStatus string) bool {
	switch newStatus {
	case StatusMember, StatusAdministrator:
		s.logger.Info("Bot joined group", zap.Int64("chat_id", chatID), zap.String("status", newStatus))
		return s.groups.AddOrUpdateGroup(chatID, title, chatType, true)
	case StatusLeft, StatusKicked:
		s.logger.Info("Bot left group", zap.Int64("chat_id", chatID), zap.String("status", newStatus))
		return s.groups.RemoveGroup(chatID)
	default:
		return false
	}
}

func (s *GroupsService) ActiveGroups() []models.Group {
	return s.groups.GetAllGroups(true)
}

// Groups lists known groups; inactive ones only when includeInactive is set.
func (s *GroupsService) Groups(includeInactive bool) []models.Group {
	return s.groups.GetAllGroups(!includeInactive)
}
