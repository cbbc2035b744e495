package repository

import (
	"database/sql"
	"errors"

	"bookclub/internal/models"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// GroupRepository tracks the group chats the bot belongs to. Groups are
// deactivated, never deleted.
type GroupRepository interface {
	AddOrUpdateGroup(chatID int64, title, chatType string, isActive bool) bool
	RemoveGroup(chatID int64) bool
	GetGroup(chatID int64) *models.Group
	GetAllGroups(activeOnly bool) []models.Group
}

type groupRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewGroupRepository(db *sqlx.DB, logger *zap.Logger) GroupRepository {
	return &groupRepository{db: db, logger: logger}
}

func (r *groupRepository) AddOrUpdateGroup(chatID int64, title, chatType string, isActive bool) bool {
	query := `INSERT INTO groups (chat_id, title, type, is_active, added_at, updated_at)
	          VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
	          ON CONFLICT(chat_id) DO UPDATE SET
	              title = excluded.title,
	              type = excluded.type,
	              is_active = excluded.is_active,
	              updated_at = CURRENT_TIMESTAMP`
	if _, err := r.db.Exec(query, chatID, title, chatType, boolToInt(isActive)); err != nil {
		r.logger.Error("Failed to save group", zap.Int64("chat_id", chatID), zap.Error(err))
		return false
	}
	return true
}

func (r *groupRepository) RemoveGroup(chatID int64) bool {
	res, err := r.db.Exec(`UPDATE groups SET is_active = 0, updated_at = CURRENT_TIMESTAMP WHERE chat_id = ?`, chatID)
	if err != nil {
		r.logger.Error("Failed to deactivate group", zap.Int64("chat_id", chatID), zap.Error(err))
		return false
	}
	return affected(res) > 0
}

func (r *groupRepository) GetGroup(chatID int64) *models.Group {
	var group models.Group
	query := `SELECT chat_id, title, type, is_active, added_at, updated_at FROM groups WHERE chat_id = ?`
	if err := r.db.Get(&group, query, chatID); err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			r.logger.Error("Failed to get group", zap.Int64("chat_id", chatID), zap.Error(err))
		}
		return nil
	}
	return &group
}

func (r *groupRepository) GetAllGroups(activeOnly bool) []models.Group {
	var groups []models.Group
	query := `SELECT chat_id, title, type, is_active, added_at, updated_at FROM groups`
	if activeOnly {
		query += ` WHERE is_active = 1`
	}
	query += ` ORDER BY added_at DESC, chat_id ASC`
	if err := r.db.Select(&groups, query); err != nil {
		r.logger.Error("Failed to list groups", zap.Error(err))
		return nil
	}
	return groups
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
