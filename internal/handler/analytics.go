package handler

import (
	"net/http"

	"bookclub/internal/models"
	"bookclub/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AnalyticsHandler interface {
	GetChatStats(c *gin.Context)
}

type analyticsHandler struct {
	books  *service.BookService
	genres *service.GenreService
	users  *service.UsersService
	logger *zap.Logger
}

func NewAnalyticsHandler(books *service.BookService, genres *service.GenreService, users *service.UsersService, logger *zap.Logger) AnalyticsHandler {
	return &analyticsHandler{
		books:  books,
		genres: genres,
		users:  users,
		logger: logger,
	}
}

// ChatStats summarizes the club state of one chat.
type ChatStats struct {
	ChatID       int64 `json:"chat_id"`
	Suggestions  int   `json:"suggestions"`
	Genres       int   `json:"genres"`
	ActiveGenres int   `json:"active_genres"`
	ActivePolls  int   `json:"active_polls"`
	ClosedPolls  int   `json:"closed_polls"`
	Members      int   `json:"members"`
}

// GetChatStats handles GET /api/chats/:id/stats
func (h *analyticsHandler) GetChatStats(c *gin.Context) {
	id, ok := chatID(c, h.logger)
	if !ok {
		return
	}

	stats := ChatStats{ChatID: id}
	stats.Suggestions = len(h.books.Suggestions(id))
	for _, g := range h.genres.Genres(id) {
		stats.Genres++
		if g.Active() {
			stats.ActiveGenres++
		}
	}
	stats.ActivePolls = len(h.books.Polls(id, models.PollStatusActive))
	stats.ClosedPolls = len(h.books.Polls(id, models.PollStatusClosed))
	stats.Members = len(h.users.UsersForChat(id, 0))

	c.JSON(http.StatusOK, stats)
}
