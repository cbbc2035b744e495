package telegram_bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"bookclub/internal/models"
)

// handleMyChatMember tracks the groups the bot belongs to.
func (b *Bot) handleMyChatMember(update *tgbotapi.ChatMemberUpdated) {
	chat := update.Chat
	if !isGroupChat(&chat) {
		return
	}
	title := chat.Title
	if title == "" {
		title = unknownGroupTitle
	}
	chatType := models.GroupTypeGroup
	if chat.IsSuperGroup() {
		chatType = models.GroupTypeSupergroup
	}
	b.groups.ApplyBotMembershipUpdate(chat.ID, title, chatType, update.NewChatMember.Status)
}

// handleMembershipMessage keeps user_activity in step with join and leave
// service messages. Joins are written immediately, bypassing the buffer.
func (b *Bot) handleMembershipMessage(message *tgbotapi.Message) {
	if !isGroupChat(message.Chat) {
		return
	}
	chatID := message.Chat.ID
	for i := range message.NewChatMembers {
		member := &message.NewChatMembers[i]
		if member.IsBot {
			continue
		}
		b.users.TouchMember(chatID, member.ID, usernameOf(member))
	}
	if left := message.LeftChatMember; left != nil {
		b.activity.Forget(chatID, left.ID)
		b.users.DeleteUserForChat(chatID, left.ID)
		b.logger.Debug("Member left", zap.Int64("chat_id", chatID), zap.Int64("user_id", left.ID))
	}
}

// recordActivity buffers activity for human users in groups.
func (b *Bot) recordActivity(chat *tgbotapi.Chat, user *tgbotapi.User) {
	if !isGroupChat(chat) || user == nil || user.IsBot {
		return
	}
	b.activity.Record(chat.ID, user.ID, usernameOf(user))
}
