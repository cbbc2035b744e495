package access

import (
	"context"

	"go.uber.org/zap"
)

// RoleLookup returns a user's Telegram member status in a chat
// ("creator", "administrator", "member", "left", ...).
type RoleLookup interface {
	MemberRole(ctx context.Context, chatID, userID int64) (string, error)
}

// Checker evaluates who may run mutating commands against a chat.
type Checker struct {
	roles  RoleLookup
	logger *zap.Logger
}

func NewChecker(roles RoleLookup, logger *zap.Logger) *Checker {
	return &Checker{roles: roles, logger: logger}
}

// IsAdmin is true for administrators and the creator of chatID. Lookup
// failures count as "not admin".
func (c *Checker) IsAdmin(ctx context.Context, chatID, userID int64) bool {
	role, err := c.roles.MemberRole(ctx, chatID, userID)
	if err != nil {
		c.logger.Warn("Member role lookup failed", zap.Int64("chat_id", chatID), zap.Int64("user_id", userID), zap.Error(err))
		return false
	}
	return role == "administrator" || role == "creator"
}

// CanManage allows a user to modify the target chat when working on their own
// private chat from that private chat, or when they administer the target.
func (c *Checker) CanManage(ctx context.Context, private bool, conversationID, targetChatID, userID int64) bool {
	if private && targetChatID == conversationID {
		return true
	}
	return c.IsAdmin(ctx, targetChatID, userID)
}
