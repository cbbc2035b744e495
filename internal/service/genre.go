package service

import (
	"fmt"
	"strings"

	"bookclub/internal/models"
	"bookclub/internal/repository"

	"go.uber.org/zap"
)

const GenresEmpty = "Список жанров пуст"

type GenreService struct {
	genres repository.GenreRepository
	now    Clock
	logger *zap.Logger
}

func NewGenreService(genres repository.GenreRepository, now Clock, logger *zap.Logger) *GenreService {
	return &GenreService{genres: genres, now: now, logger: logger}
}

func (s *GenreService) AddGenre(chatID int64, title string, sourceMessageID int64) bool {
	return s.genres.AddGenre(chatID, title, sourceMessageID)
}

func (s *GenreService) Genres(chatID int64) []models.Genre {
	return s.genres.GetGenres(chatID)
}

func (s *GenreService) HasGenres(chatID int64) bool {
	return len(s.genres.GetGenres(chatID)) > 0
}

// ListGenres renders the numbered list; 🟢 marks active genres, ⚪ used ones.
func (s *GenreService) ListGenres(chatID int64) string {
	genres := s.genres.GetGenres(chatID)
	if len(genres) == 0 {
		return GenresEmpty
	}
	lines := make([]string, 0, len(genres))
	for i, g := range genres {
		indicator := "⚪"
		if g.Active() {
			indicator = "🟢"
		}
		lines = append(lines, fmt.Sprintf("%d. %s %s", i+1, g.Title, indicator))
	}
	return strings.Join(lines, "\n")
}

func (s *GenreService) DeleteGenre(chatID int64, index int) (bool, string) {
	genre := s.genres.GetGenreByIndex(chatID, index)
	if genre == nil {
		return false, fmt.Sprintf("Жанр с номером %d не найден", index)
	}
	if !s.genres.DeleteGenre(chatID, genre.ID) {
		return false, "Ошибка при удалении жанра"
	}
	return true, "Удалил жанр"
}

// GenresForPoll returns titles of active genres only and the poll month name.
func (s *GenreService) GenresForPoll(chatID int64) ([]string, string) {
	var titles []string
	for _, g := range s.genres.GetGenres(chatID) {
		if g.Active() {
			titles = append(titles, g.Title)
		}
	}
	month, _ := PollMonth(s.now())
	return titles, MonthGenitive(month)
}

func (s *GenreService) ToggleGenreActive(chatID int64, index int) (bool, string) {
	genre := s.genres.GetGenreByIndex(chatID, index)
	if genre == nil {
		return false, fmt.Sprintf("Жанр с номером %d не найден", index)
	}
	ok, active := s.genres.ToggleGenreActive(chatID, genre.ID)
	if !ok {
		return false, "Ошибка при изменении активности жанра"
	}
	state := "неактивным"
	if active {
		state = "активным"
	}
	return true, fmt.Sprintf("Жанр '%s' теперь %s", genre.Title, state)
}

func (s *GenreService) ResetAllGenresActive(chatID int64) (bool, string) {
	count := s.genres.ResetAllGenresActive(chatID)
	if count == 0 {
		return false, "Нет жанров для обновления"
	}
	return true, fmt.Sprintf("Все жанры (%d) переведены в активное состояние", count)
}
