package repository

import (
	"database/sql"
	"errors"

	"bookclub/internal/models"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// GenreRepository stores genres ordered by their explicit position.
type GenreRepository interface {
	AddGenre(chatID int64, title string, sourceMessageID int64) bool
	GetGenres(chatID int64) []models.Genre
	GetGenreByIndex(chatID int64, index int) *models.Genre
	DeleteGenre(chatID, genreID int64) bool
	ToggleGenreActive(chatID, genreID int64) (ok bool, active bool)
	ResetAllGenresActive(chatID int64) int
}

type genreRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewGenreRepository(db *sqlx.DB, logger *zap.Logger) GenreRepository {
	return &genreRepository{db: db, logger: logger}
}

func (r *genreRepository) AddGenre(chatID int64, title string, sourceMessageID int64) bool {
	tx, err := r.db.Beginx()
	if err != nil {
		r.logger.Error("Failed to begin add genre", zap.Int64("chat_id", chatID), zap.Error(err))
		return false
	}
	defer tx.Rollback() //nolint:errcheck

	// positions come from a per-chat high-water mark and are never handed out twice
	_, err = tx.Exec(`INSERT INTO genre_positions (chat_id, last_position)
	                  SELECT ?, COALESCE(MAX(position), 0) + 1 FROM genres WHERE chat_id = ?
	                  ON CONFLICT(chat_id) DO UPDATE SET last_position = genre_positions.last_position + 1`, chatID, chatID)
	if err != nil {
		r.logger.Error("Failed to allocate genre position", zap.Int64("chat_id", chatID), zap.Error(err))
		return false
	}
	var position int
	if err := tx.Get(&position, `SELECT last_position FROM genre_positions WHERE chat_id = ?`, chatID); err != nil {
		r.logger.Error("Failed to read genre position", zap.Int64("chat_id", chatID), zap.Error(err))
		return false
	}

	query := `INSERT INTO genres (chat_id, title, source_message_id, position, used) VALUES (?, ?, ?, ?, 0)`
	if _, err := tx.Exec(query, chatID, title, sourceMessageID, position); err != nil {
		r.logger.Error("Failed to add genre", zap.Int64("chat_id", chatID), zap.Error(err))
		return false
	}
	if err := tx.Commit(); err != nil {
		r.logger.Error("Failed to commit genre", zap.Int64("chat_id", chatID), zap.Error(err))
		return false
	}
	return true
}

func (r *genreRepository) GetGenres(chatID int64) []models.Genre {
	var genres []models.Genre
	query := `SELECT id, chat_id, title, created_at, source_message_id, position, used
	          FROM genres WHERE chat_id = ? ORDER BY position ASC, id ASC`
	if err := r.db.Select(&genres, query, chatID); err != nil {
		r.logger.Error("Failed to get genres", zap.Int64("chat_id", chatID), zap.Error(err))
		return nil
	}
	return genres
}

func (r *genreRepository) GetGenreByIndex(chatID int64, index int) *models.Genre {
	if index < 1 {
		return nil
	}
	var genre models.Genre
	query := `SELECT id, chat_id, title, created_at, source_message_id, position, used
	          FROM genres WHERE chat_id = ? ORDER BY position ASC, id ASC LIMIT 1 OFFSET ?`
	err := r.db.Get(&genre, query, chatID, index-1)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			r.logger.Error("Failed to get genre by index", zap.Int64("chat_id", chatID), zap.Int("index", index), zap.Error(err))
		}
		return nil
	}
	return &genre
}

func (r *genreRepository) DeleteGenre(chatID, genreID int64) bool {
	res, err := r.db.Exec(`DELETE FROM genres WHERE chat_id = ? AND id = ?`, chatID, genreID)
	if err != nil {
		r.logger.Error("Failed to delete genre", zap.Int64("chat_id", chatID), zap.Int64("id", genreID), zap.Error(err))
		return false
	}
	return affected(res) > 0
}

func (r *genreRepository) ToggleGenreActive(chatID, genreID int64) (bool, bool) {
	var used int
	query := `UPDATE genres SET used = 1 - used WHERE chat_id = ? AND id = ? RETURNING used`
	err := r.db.Get(&used, query, chatID, genreID)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			r.logger.Error("Failed to toggle genre", zap.Int64("chat_id", chatID), zap.Int64("id", genreID), zap.Error(err))
		}
		return false, false
	}
	return true, used == 0
}

func (r *genreRepository) ResetAllGenresActive(chatID int64) int {
	res, err := r.db.Exec(`UPDATE genres SET used = 0 WHERE chat_id = ?`, chatID)
	if err != nil {
		r.logger.Error("Failed to reset genres", zap.Int64("chat_id", chatID), zap.Error(err))
		return 0
	}
	return int(affected(res))
}
