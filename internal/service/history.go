package service

import (
	"fmt"
	"strings"

	"bookclub/internal/models"
	"bookclub/internal/repository"

	"go.uber.org/zap"
)

const HistoryEmpty = "История пуста"

// HistoryService records which book and genre a chat picked for a month.
// Indexes refer to the lists as they are at call time.
type HistoryService struct {
	history     repository.HistoryRepository
	suggestions repository.SuggestionRepository
	genres      repository.GenreRepository
	now         Clock
	logger      *zap.Logger
}

func NewHistoryService(history repository.HistoryRepository, suggestions repository.SuggestionRepository,
	genres repository.GenreRepository, now Clock, logger *zap.Logger) *HistoryService {
	return &HistoryService{history: history, suggestions: suggestions, genres: genres, now: now, logger: logger}
}

func (s *HistoryService) Years(chatID int64) []int {
	return s.history.GetHistoryYears(chatID)
}

func (s *HistoryService) Year(chatID int64, year int) []models.HistoryMonth {
	return s.history.GetHistoryForYear(chatID, year)
}

// YearText renders "<Месяц> - <жанр> - <книга>" lines. ok is false when the
// year has no entries.
func (s *HistoryService) YearText(chatID int64, year int) (string, bool) {
	months := s.history.GetHistoryForYear(chatID, year)
	if len(months) == 0 {
		return "", false
	}
	lines := make([]string, 0, len(months))
	for _, m := range months {
		lines = append(lines, fmt.Sprintf("%s - %s - %s", MonthNominative(m.Month), orDash(m.Genre), orDash(m.Book)))
	}
	return strings.Join(lines, "\n"), true
}

// SaveBookFromIndex stores the current book at index for monthYear, or for the
// poll month when monthYear is empty.
func (s *HistoryService) SaveBookFromIndex(chatID int64, index int, monthYear string) (bool, string) {
	book := s.suggestions.GetSuggestionByIndex(chatID, index)
	if book == nil {
		return false, fmt.Sprintf("Книга с номером %d не найдена", index)
	}
	monthYear = s.keyOrDefault(monthYear)
	if !s.history.UpsertHistoryBook(chatID, monthYear, book.Text) {
		return false, "Ошибка при сохранении истории"
	}
	return true, fmt.Sprintf("Сохранил книгу в историю за %s: %s", monthYear, book.Text)
}

func (s *HistoryService) SaveGenreFromIndex(chatID int64, index int, monthYear string) (bool, string) {
	genre := s.genres.GetGenreByIndex(chatID, index)
	if genre == nil {
		return false, fmt.Sprintf("Жанр с номером %d не найден", index)
	}
	monthYear = s.keyOrDefault(monthYear)
	if !s.history.UpsertHistoryGenre(chatID, monthYear, genre.Title) {
		return false, "Ошибка при сохранении истории"
	}
	return true, fmt.Sprintf("Сохранил жанр в историю за %s: %s", monthYear, genre.Title)
}

func (s *HistoryService) keyOrDefault(monthYear string) string {
	if monthYear != "" {
		return monthYear
	}
	return MonthYearKey(s.now())
}

func orDash(v string) string {
	if v == "" {
		return "—"
	}
	return v
}
