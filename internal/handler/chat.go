package handler

import (
	"net/http"
	"strconv"

	"bookclub/internal/models"
	"bookclub/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ChatHandler interface {
	GetSuggestions(c *gin.Context)
	GetGenres(c *gin.Context)
	GetHistoryYears(c *gin.Context)
	GetHistoryYear(c *gin.Context)
	GetPolls(c *gin.Context)
}

type chatHandler struct {
	books   *service.BookService
	genres  *service.GenreService
	history *service.HistoryService
	logger  *zap.Logger
}

func NewChatHandler(books *service.BookService, genres *service.GenreService, history *service.HistoryService, logger *zap.Logger) ChatHandler {
	return &chatHandler{books: books, genres: genres, history: history, logger: logger}
}

// chatID parses the :id path parameter and writes a 400 on failure.
func chatID(c *gin.Context, logger *zap.Logger) (int64, bool) {
	idStr := c.Param("id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		logger.Debug("Invalid chat ID", zap.String("id", idStr), zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid chat ID"})
		return 0, false
	}
	return id, true
}

// GetSuggestions handles GET /api/chats/:id/suggestions
func (h *chatHandler) GetSuggestions(c *gin.Context) {
	id, ok := chatID(c, h.logger)
	if !ok {
		return
	}
	suggestions := h.books.Suggestions(id)
	if suggestions == nil {
		suggestions = []models.Suggestion{}
	}
	c.JSON(http.StatusOK, gin.H{"chat_id": id, "suggestions": suggestions})
}

// GetGenres handles GET /api/chats/:id/genres
func (h *chatHandler) GetGenres(c *gin.Context) {
	id, ok := chatID(c, h.logger)
	if !ok {
		return
	}
	genres := h.genres.Genres(id)
	if genres == nil {
		genres = []models.Genre{}
	}
	c.JSON(http.StatusOK, gin.H{"chat_id": id, "genres": genres})
}

// GetHistoryYears handles GET /api/chats/:id/history
func (h *chatHandler) GetHistoryYears(c *gin.Context) {
	id, ok := chatID(c, h.logger)
	if !ok {
		return
	}
	years := h.history.Years(id)
	if years == nil {
		years = []int{}
	}
	c.JSON(http.StatusOK, gin.H{"chat_id": id, "years": years})
}

// GetHistoryYear handles GET /api/chats/:id/history/:year
func (h *chatHandler) GetHistoryYear(c *gin.Context) {
	id, ok := chatID(c, h.logger)
	if !ok {
		return
	}
	yearStr := c.Param("year")
	year, err := strconv.Atoi(yearStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid year"})
		return
	}

	months := h.history.Year(id, year)
	if len(months) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "No history for year"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"chat_id": id, "year": year, "months": months})
}

// GetPolls handles GET /api/chats/:id/polls?status=active|closed
func (h *chatHandler) GetPolls(c *gin.Context) {
	id, ok := chatID(c, h.logger)
	if !ok {
		return
	}
	status := c.Query("status")
	switch status {
	case "", models.PollStatusActive, models.PollStatusClosed:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid poll status"})
		return
	}

	polls := h.books.Polls(id, status)
	out := make([]pollView, 0, len(polls))
	for _, p := range polls {
		out = append(out, pollView{Poll: p, Options: p.Options()})
	}
	c.JSON(http.StatusOK, gin.H{"chat_id": id, "polls": out})
}

// pollView exposes the decoded option list next to the stored row.
type pollView struct {
	models.Poll
	Options []string `json:"options"`
}
