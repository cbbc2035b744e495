package service

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"bookclub/internal/models"
	"bookclub/internal/repository"

	"go.uber.org/zap"
)

const ListEmpty = "Список предложений пуст"

type BookService struct {
	suggestions repository.SuggestionRepository
	polls       repository.PollRepository
	now         Clock
	intn        func(n int) int
	logger      *zap.Logger
}

func NewBookService(suggestions repository.SuggestionRepository, polls repository.PollRepository, now Clock, logger *zap.Logger) *BookService {
	return &BookService{
		suggestions: suggestions,
		polls:       polls,
		now:         now,
		intn:        rand.IntN,
		logger:      logger,
	}
}

func (s *BookService) AddSuggestion(chatID, userID int64, username *string, text string, sourceMessageID int64) bool {
	return s.suggestions.AddSuggestion(chatID, userID, username, text, sourceMessageID)
}

func (s *BookService) Suggestions(chatID int64) []models.Suggestion {
	return s.suggestions.GetSuggestions(chatID)
}

func (s *BookService) ListBooks(chatID int64) string {
	suggestions := s.suggestions.GetSuggestions(chatID)
	if len(suggestions) == 0 {
		return ListEmpty
	}
	lines := make([]string, 0, len(suggestions))
	for i, sg := range suggestions {
		lines = append(lines, fmt.Sprintf("%d. %s (от %s)", i+1, sg.Text, sg.Author()))
	}
	return strings.Join(lines, "\n")
}

func (s *BookService) HasBooks(chatID int64) bool {
	return s.suggestions.CountSuggestions(chatID) > 0
}

func (s *BookService) ClearBooks(chatID int64) string {
	count := s.suggestions.ClearSuggestions(chatID)
	s.logger.Info("Suggestions cleared", zap.Int64("chat_id", chatID), zap.Int("count", count))
	return fmt.Sprintf("Удалено предложений: %d", count)
}

// DeleteBook removes the book at a 1-based index. Only its author or a chat
// admin may do so.
func (s *BookService) DeleteBook(chatID int64, index int, userID int64, isAdmin bool) (bool, string) {
	suggestion := s.suggestions.GetSuggestionByIndex(chatID, index)
	if suggestion == nil {
		return false, fmt.Sprintf("Книга с номером %d не найдена", index)
	}
	if suggestion.UserID != userID && !isAdmin {
		return false, fmt.Sprintf("Вы можете удалять только свои книги. Эта книга предложена пользователем %s", suggestion.Author())
	}
	if !s.suggestions.DeleteSuggestion(chatID, suggestion.ID) {
		return false, "Ошибка при удалении книги"
	}
	return true, "Удалил книгу"
}

// ChooseRandomBook draws one suggestion uniformly. ok is false for an empty list.
func (s *BookService) ChooseRandomBook(chatID int64) (number int, book string, ok bool) {
	suggestions := s.suggestions.GetSuggestions(chatID)
	if len(suggestions) == 0 {
		return 0, "", false
	}
	i := s.intn(len(suggestions))
	sg := suggestions[i]
	return i + 1, fmt.Sprintf("%s (от %s)", sg.Text, sg.Author()), true
}

// BooksForPoll returns the plain titles (no authors) and the genitive name of
// the poll month.
func (s *BookService) BooksForPoll(chatID int64) ([]string, string) {
	suggestions := s.suggestions.GetSuggestions(chatID)
	titles := make([]string, 0, len(suggestions))
	for _, sg := range suggestions {
		titles = append(titles, sg.Text)
	}
	month, _ := PollMonth(s.now())
	return titles, MonthGenitive(month)
}

func (s *BookService) SavePoll(chatID int64, pollID, question string, options []string, messageID *int64) bool {
	return s.polls.AddPoll(chatID, pollID, question, options, messageID)
}

func (s *BookService) Polls(chatID int64, status string) []models.Poll {
	return s.polls.GetPolls(chatID, status)
}

func (s *BookService) ListPolls(chatID int64, status string) string {
	polls := s.polls.GetPolls(chatID, status)
	if len(polls) == 0 {
		if status != "" {
			return fmt.Sprintf("Список опросов со статусом '%s' пуст", status)
		}
		return "Список опросов пуст"
	}
	lines := make([]string, 0, len(polls))
	for i, p := range polls {
		marker := "🔴"
		if p.Status == models.PollStatusActive {
			marker = "🟢"
		}
		lines = append(lines, fmt.Sprintf("%d. %s %s (%d вариантов) - %s", i+1, marker, p.Question, len(p.Options()), p.Status))
	}
	return strings.Join(lines, "\n")
}

func (s *BookService) ClosePoll(chatID int64, pollID string) (bool, string) {
	if s.polls.ClosePoll(chatID, pollID) {
		return true, "Опрос закрыт"
	}
	return false, "Опрос не найден или уже закрыт"
}

// ClosePollByID closes a stored poll when Telegram reports it closed. Unknown
// polls are ignored.
func (s *BookService) ClosePollByID(pollID string) bool {
	poll := s.polls.FindPoll(pollID)
	if poll == nil {
		return false
	}
	ok, _ := s.ClosePoll(poll.ChatID, pollID)
	if ok {
		s.logger.Info("Poll closed", zap.Int64("chat_id", poll.ChatID), zap.String("poll_id", pollID))
	}
	return ok
}
