package service

import (
	"strconv"

	"bookclub/internal/models"
	"bookclub/internal/repository"
)

const PrivateChatTitle = "Приватная беседа"

// ChatsService resolves which chat a private conversation operates on.
type ChatsService struct {
	groups repository.GroupRepository
}

func NewChatsService(groups repository.GroupRepository) *ChatsService {
	return &ChatsService{groups: groups}
}

func (s *ChatsService) ActiveGroups() []models.Group {
	return s.groups.GetAllGroups(true)
}

// NormalizeSelectedChatID falls back to the private chat when nothing is
// selected or the selected group is no longer active.
func (s *ChatsService) NormalizeSelectedChatID(privateChatID int64, selected *int64, active []models.Group) int64 {
	if selected == nil || *selected == privateChatID {
		return privateChatID
	}
	for _, g := range active {
		if g.ChatID == *selected {
			return *selected
		}
	}
	return privateChatID
}

// ChatTitle names the selected chat for headers shown in private chats.
func (s *ChatsService) ChatTitle(privateChatID, selectedChatID int64) string {
	if selectedChatID == privateChatID {
		return PrivateChatTitle
	}
	if g := s.groups.GetGroup(selectedChatID); g != nil {
		return g.Title
	}
	return strconv.FormatInt(selectedChatID, 10)
}
