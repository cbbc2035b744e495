package repository

import (
	"sort"
	"strconv"
	"strings"

	"bookclub/internal/models"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// HistoryRepository keeps the monthly book/genre record of a chat. Book and
// genre are written independently and never clobber each other.
type HistoryRepository interface {
	UpsertHistoryBook(chatID int64, monthYear, book string) bool
	UpsertHistoryGenre(chatID int64, monthYear, genre string) bool
	GetHistoryYears(chatID int64) []int
	GetHistoryForYear(chatID int64, year int) []models.HistoryMonth
}

type historyRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewHistoryRepository(db *sqlx.DB, logger *zap.Logger) HistoryRepository {
	return &historyRepository{db: db, logger: logger}
}

func (r *historyRepository) UpsertHistoryBook(chatID int64, monthYear, book string) bool {
	query := `INSERT INTO history (chat_id, month_year, book, genre) VALUES (?, ?, ?, '')
	          ON CONFLICT(chat_id, month_year) DO UPDATE SET book = excluded.book`
	if _, err := r.db.Exec(query, chatID, monthYear, book); err != nil {
		r.logger.Error("Failed to save history book", zap.Int64("chat_id", chatID), zap.String("month_year", monthYear), zap.Error(err))
		return false
	}
	return true
}

func (r *historyRepository) UpsertHistoryGenre(chatID int64, monthYear, genre string) bool {
	query := `INSERT INTO history (chat_id, month_year, book, genre) VALUES (?, ?, '', ?)
	          ON CONFLICT(chat_id, month_year) DO UPDATE SET genre = excluded.genre`
	if _, err := r.db.Exec(query, chatID, monthYear, genre); err != nil {
		r.logger.Error("Failed to save history genre", zap.Int64("chat_id", chatID), zap.String("month_year", monthYear), zap.Error(err))
		return false
	}
	return true
}

func (r *historyRepository) GetHistoryYears(chatID int64) []int {
	seen := make(map[int]struct{})
	for _, e := range r.entries(chatID) {
		if _, year, ok := parseMonthYear(e.monthYear); ok && !e.empty() {
			seen[year] = struct{}{}
		}
	}
	years := make([]int, 0, len(seen))
	for y := range seen {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}

func (r *historyRepository) GetHistoryForYear(chatID int64, year int) []models.HistoryMonth {
	var months []models.HistoryMonth
	for _, e := range r.entries(chatID) {
		m, y, ok := parseMonthYear(e.monthYear)
		if !ok || y != year || e.empty() {
			continue
		}
		months = append(months, models.HistoryMonth{Month: m, Genre: e.genre, Book: e.book})
	}
	sort.SliceStable(months, func(i, j int) bool { return months[i].Month < months[j].Month })
	return months
}

type historyRow struct {
	monthYear string
	book      string
	genre     string
}

func (h historyRow) empty() bool {
	return h.book == "" && h.genre == ""
}

func (r *historyRepository) entries(chatID int64) []historyRow {
	var raw []models.HistoryEntry
	if err := r.db.Select(&raw, `SELECT chat_id, month_year, book, genre FROM history WHERE chat_id = ?`, chatID); err != nil {
		r.logger.Error("Failed to read history", zap.Int64("chat_id", chatID), zap.Error(err))
		return nil
	}
	rows := make([]historyRow, 0, len(raw))
	for _, e := range raw {
		rows = append(rows, historyRow{
			monthYear: strings.TrimSpace(e.MonthYear),
			book:      trimPtr(e.Book),
			genre:     trimPtr(e.Genre),
		})
	}
	return rows
}

// parseMonthYear splits a "<month>_<year>" key. Anything else is rejected.
func parseMonthYear(key string) (month, year int, ok bool) {
	m, y, found := strings.Cut(key, "_")
	if !found {
		return 0, 0, false
	}
	month, err := strconv.Atoi(strings.TrimSpace(m))
	if err != nil {
		return 0, 0, false
	}
	year, err = strconv.Atoi(strings.TrimSpace(y))
	if err != nil {
		return 0, 0, false
	}
	return month, year, true
}

func trimPtr(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
