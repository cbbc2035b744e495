package repository

import (
	"database/sql"
	"encoding/json"
	"errors"

	"bookclub/internal/models"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

type PollRepository interface {
	AddPoll(chatID int64, pollID, question string, options []string, messageID *int64) bool
	// GetPolls returns the chat's polls newest first; an empty status means any.
	GetPolls(chatID int64, status string) []models.Poll
	GetPollByPollID(chatID int64, pollID string) *models.Poll
	// FindPoll looks a poll up by its Telegram id alone, as poll updates carry no chat.
	FindPoll(pollID string) *models.Poll
	ClosePoll(chatID int64, pollID string) bool
}

type pollRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewPollRepository(db *sqlx.DB, logger *zap.Logger) PollRepository {
	return &pollRepository{db: db, logger: logger}
}

const pollColumns = `id, chat_id, poll_id, question, options, message_id, status, created_at, closed_at`

func (r *pollRepository) AddPoll(chatID int64, pollID, question string, options []string, messageID *int64) bool {
	if options == nil {
		options = []string{}
	}
	encoded, err := json.Marshal(options)
	if err != nil {
		r.logger.Error("Failed to encode poll options", zap.Error(err))
		return false
	}
	query := `INSERT INTO polls (chat_id, poll_id, question, options, message_id, status) VALUES (?, ?, ?, ?, ?, ?)`
	if _, err := r.db.Exec(query, chatID, pollID, question, string(encoded), messageID, models.PollStatusActive); err != nil {
		r.logger.Error("Failed to add poll", zap.Int64("chat_id", chatID), zap.String("poll_id", pollID), zap.Error(err))
		return false
	}
	return true
}

func (r *pollRepository) GetPolls(chatID int64, status string) []models.Poll {
	var (
		polls []models.Poll
		err   error
	)
	if status == "" {
		err = r.db.Select(&polls, `SELECT `+pollColumns+` FROM polls WHERE chat_id = ? ORDER BY created_at DESC, id DESC`, chatID)
	} else {
		err = r.db.Select(&polls, `SELECT `+pollColumns+` FROM polls WHERE chat_id = ? AND status = ? ORDER BY created_at DESC, id DESC`, chatID, status)
	}
	if err != nil {
		r.logger.Error("Failed to get polls", zap.Int64("chat_id", chatID), zap.Error(err))
		return nil
	}
	return polls
}

func (r *pollRepository) GetPollByPollID(chatID int64, pollID string) *models.Poll {
	var poll models.Poll
	err := r.db.Get(&poll, `SELECT `+pollColumns+` FROM polls WHERE chat_id = ? AND poll_id = ?`, chatID, pollID)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			r.logger.Error("Failed to get poll", zap.String("poll_id", pollID), zap.Error(err))
		}
		return nil
	}
	return &poll
}

func (r *pollRepository) FindPoll(pollID string) *models.Poll {
	var poll models.Poll
	err := r.db.Get(&poll, `SELECT `+pollColumns+` FROM polls WHERE poll_id = ? ORDER BY id DESC LIMIT 1`, pollID)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			r.logger.Error("Failed to find poll", zap.String("poll_id", pollID), zap.Error(err))
		}
		return nil
	}
	return &poll
}

func (r *pollRepository) ClosePoll(chatID int64, pollID string) bool {
	query := `UPDATE polls SET status = ?, closed_at = CURRENT_TIMESTAMP WHERE chat_id = ? AND poll_id = ? AND status = ?`
	res, err := r.db.Exec(query, models.PollStatusClosed, chatID, pollID, models.PollStatusActive)
	if err != nil {
		r.logger.Error("Failed to close poll", zap.Int64("chat_id", chatID), zap.String("poll_id", pollID), zap.Error(err))
		return false
	}
	return affected(res) > 0
}
