package repository

import (
	"database/sql"
	"errors"

	"bookclub/internal/models"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// SuggestionRepository stores the book list of each chat. Index arguments are
// 1-based positions in creation order.
type SuggestionRepository interface {
	AddSuggestion(chatID, userID int64, username *string, text string, sourceMessageID int64) bool
	GetSuggestions(chatID int64) []models.Suggestion
	GetSuggestionByIndex(chatID int64, index int) *models.Suggestion
	CountSuggestions(chatID int64) int
	DeleteSuggestion(chatID, suggestionID int64) bool
	ClearSuggestions(chatID int64) int
}

type suggestionRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewSuggestionRepository(db *sqlx.DB, logger *zap.Logger) SuggestionRepository {
	return &suggestionRepository{db: db, logger: logger}
}

func (r *suggestionRepository) AddSuggestion(chatID, userID int64, username *string, text string, sourceMessageID int64) bool {
	query := `INSERT INTO suggestions (chat_id, user_id, username, text, source_message_id) VALUES (?, ?, ?, ?, ?)`
	if _, err := r.db.Exec(query, chatID, userID, username, text, sourceMessageID); err != nil {
		r.logger.Error("Failed to add suggestion", zap.Int64("chat_id", chatID), zap.Error(err))
		return false
	}
	return true
}

func (r *suggestionRepository) GetSuggestions(chatID int64) []models.Suggestion {
	var suggestions []models.Suggestion
	query := `SELECT id, chat_id, user_id, username, text, source_message_id, created_at
	          FROM suggestions WHERE chat_id = ? ORDER BY created_at ASC, id ASC`
	if err := r.db.Select(&suggestions, query, chatID); err != nil {
		r.logger.Error("Failed to get suggestions", zap.Int64("chat_id", chatID), zap.Error(err))
		return nil
	}
	return suggestions
}

func (r *suggestionRepository) GetSuggestionByIndex(chatID int64, index int) *models.Suggestion {
	if index < 1 {
		return nil
	}
	var suggestion models.Suggestion
	query := `SELECT id, chat_id, user_id, username, text, source_message_id, created_at
	          FROM suggestions WHERE chat_id = ? ORDER BY created_at ASC, id ASC LIMIT 1 OFFSET ?`
	err := r.db.Get(&suggestion, query, chatID, index-1)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			r.logger.Error("Failed to get suggestion by index", zap.Int64("chat_id", chatID), zap.Int("index", index), zap.Error(err))
		}
		return nil
	}
	return &suggestion
}

func (r *suggestionRepository) CountSuggestions(chatID int64) int {
	var count int
	if err := r.db.Get(&count, `SELECT COUNT(*) FROM suggestions WHERE chat_id = ?`, chatID); err != nil {
		r.logger.Error("Failed to count suggestions", zap.Int64("chat_id", chatID), zap.Error(err))
		return 0
	}
	return count
}

func (r *suggestionRepository) DeleteSuggestion(chatID, suggestionID int64) bool {
	res, err := r.db.Exec(`DELETE FROM suggestions WHERE chat_id = ? AND id = ?`, chatID, suggestionID)
	if err != nil {
		r.logger.Error("Failed to delete suggestion", zap.Int64("chat_id", chatID), zap.Int64("id", suggestionID), zap.Error(err))
		return false
	}
	return affected(res) > 0
}

func (r *suggestionRepository) ClearSuggestions(chatID int64) int {
	res, err := r.db.Exec(`DELETE FROM suggestions WHERE chat_id = ?`, chatID)
	if err != nil {
		r.logger.Error("Failed to clear suggestions", zap.Int64("chat_id", chatID), zap.Error(err))
		return 0
	}
	return int(affected(res))
}

func affected(res sql.Result) int64 {
	n, err := res.RowsAffected()
	if err != nil {
		return 0
	}
	return n
}
