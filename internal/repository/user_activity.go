package repository

import (
	"fmt"

	"bookclub/internal/models"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// UserActivityRepository stores per-chat member activity.
type UserActivityRepository interface {
	// GetUsersForChat lists members sorted by username (case-insensitive) then id.
	// inactiveMonths > 0 keeps only members whose last activity is older than that.
	GetUsersForChat(chatID int64, inactiveMonths int) []models.UserActivity
	// InsertIfMissingByUserID imports users whose user_id is not yet known in any chat.
	InsertIfMissingByUserID(chatID int64, users []models.ImportedUser) (inserted, skipped int)
	UpsertUserActivity(chatID, userID int64, username *string) bool
	UpsertUserActivityMany(rows []models.ActivityRow) (int, error)
	DeleteUserActivity(chatID, userID int64) bool
	ClearUserActivity(chatID int64) int
}

type userActivityRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewUserActivityRepository(db *sqlx.DB, logger *zap.Logger) UserActivityRepository {
	return &userActivityRepository{db: db, logger: logger}
}

const upsertActivityQuery = `INSERT INTO user_activity (chat_id, user_id, username, first_seen_at, last_activity_at)
	VALUES (?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
	ON CONFLICT(chat_id, user_id) DO UPDATE SET
	    username = COALESCE(excluded.username, user_activity.username),
	    last_activity_at = CURRENT_TIMESTAMP`

func (r *userActivityRepository) GetUsersForChat(chatID int64, inactiveMonths int) []models.UserActivity {
	var (
		users []models.UserActivity
		err   error
	)
	if inactiveMonths <= 0 {
		query := `SELECT chat_id, user_id, username, first_seen_at, last_activity_at
		          FROM user_activity WHERE chat_id = ?
		          ORDER BY COALESCE(username, '') COLLATE NOCASE ASC, user_id ASC`
		err = r.db.Select(&users, query, chatID)
	} else {
		query := `SELECT chat_id, user_id, username, first_seen_at, last_activity_at
		          FROM user_activity
		          WHERE chat_id = ?
		            AND datetime(COALESCE(last_activity_at, first_seen_at)) < datetime('now', ?)
		          ORDER BY COALESCE(username, '') COLLATE NOCASE ASC, user_id ASC`
		err = r.db.Select(&users, query, chatID, fmt.Sprintf("-%d months", inactiveMonths))
	}
	if err != nil {
		r.logger.Error("Failed to get users", zap.Int64("chat_id", chatID), zap.Error(err))
		return nil
	}
	return users
}

func (r *userActivityRepository) InsertIfMissingByUserID(chatID int64, users []models.ImportedUser) (int, int) {
	// collapse duplicates, first username wins
	unique := make(map[int64]*string, len(users))
	ids := make([]int64, 0, len(users))
	for _, u := range users {
		if _, ok := unique[u.UserID]; ok {
			continue
		}
		unique[u.UserID] = u.Username
		ids = append(ids, u.UserID)
	}
	if len(ids) == 0 {
		return 0, 0
	}

	query, args, err := sqlx.In(`SELECT DISTINCT user_id FROM user_activity WHERE user_id IN (?)`, ids)
	if err != nil {
		r.logger.Error("Failed to build import lookup", zap.Error(err))
		return 0, 0
	}
	var existingIDs []int64
	if err := r.db.Select(&existingIDs, r.db.Rebind(query), args...); err != nil {
		r.logger.Error("Failed to look up existing users", zap.Int64("chat_id", chatID), zap.Error(err))
		return 0, 0
	}
	existing := make(map[int64]struct{}, len(existingIDs))
	for _, id := range existingIDs {
		existing[id] = struct{}{}
	}

	tx, err := r.db.Beginx()
	if err != nil {
		r.logger.Error("Failed to begin import", zap.Error(err))
		return 0, 0
	}
	defer tx.Rollback() //nolint:errcheck

	inserted := 0
	for _, id := range ids {
		if _, ok := existing[id]; ok {
			continue
		}
		_, err := tx.Exec(`INSERT INTO user_activity (chat_id, user_id, username, first_seen_at, last_activity_at)
		                   VALUES (?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`, chatID, id, unique[id])
		if err != nil {
			r.logger.Error("Failed to import user", zap.Int64("chat_id", chatID), zap.Int64("user_id", id), zap.Error(err))
			return 0, 0
		}
		inserted++
	}
	if err := tx.Commit(); err != nil {
		r.logger.Error("Failed to commit import", zap.Error(err))
		return 0, 0
	}
	return inserted, len(ids) - inserted
}

func (r *userActivityRepository) UpsertUserActivity(chatID, userID int64, username *string) bool {
	if _, err := r.db.Exec(upsertActivityQuery, chatID, userID, username); err != nil {
		r.logger.Error("Failed to upsert user activity", zap.Int64("chat_id", chatID), zap.Int64("user_id", userID), zap.Error(err))
		return false
	}
	return true
}

// UpsertUserActivityMany writes all rows in one transaction. The error is
// returned so the flush loop can log it; nothing is retried.
func (r *userActivityRepository) UpsertUserActivityMany(rows []models.ActivityRow) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	tx, err := r.db.Beginx()
	if err != nil {
		return 0, fmt.Errorf("begin activity batch: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.Preparex(upsertActivityQuery)
	if err != nil {
		return 0, fmt.Errorf("prepare activity batch: %w", err)
	}
	defer stmt.Close()

	for _, row := range rows {
		if _, err := stmt.Exec(row.ChatID, row.UserID, row.Username); err != nil {
			return 0, fmt.Errorf("upsert activity %d/%d: %w", row.ChatID, row.UserID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit activity batch: %w", err)
	}
	return len(rows), nil
}

func (r *userActivityRepository) DeleteUserActivity(chatID, userID int64) bool {
	res, err := r.db.Exec(`DELETE FROM user_activity WHERE chat_id = ? AND user_id = ?`, chatID, userID)
	if err != nil {
		r.logger.Error("Failed to delete user activity", zap.Int64("chat_id", chatID), zap.Int64("user_id", userID), zap.Error(err))
		return false
	}
	return affected(res) > 0
}

func (r *userActivityRepository) ClearUserActivity(chatID int64) int {
	res, err := r.db.Exec(`DELETE FROM user_activity WHERE chat_id = ?`, chatID)
	if err != nil {
		r.logger.Error("Failed to clear user activity", zap.Int64("chat_id", chatID), zap.Error(err))
		return 0
	}
	return int(affected(res))
}
