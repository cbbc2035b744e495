package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"bookclub/internal/handler"
	"bookclub/internal/middleware"
	"bookclub/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const shutdownTimeout = 5 * time.Second

// Services are the read paths the admin API exposes. They are the same
// instances the bot uses.
type Services struct {
	Books   *service.BookService
	Genres  *service.GenreService
	History *service.HistoryService
	Groups  *service.GroupsService
	Users   *service.UsersService
}

type Server struct {
	router         *gin.Engine
	addr           string
	services       Services
	tokens         *service.TokenService
	allowedOrigins []string
	log            *zap.Logger
}

func NewServer(addr string, services Services, tokens *service.TokenService, allowedOrigins []string, log *zap.Logger) *Server {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(log))

	s := &Server{
		router:         router,
		addr:           addr,
		services:       services,
		tokens:         tokens,
		allowedOrigins: allowedOrigins,
		log:            log,
	}

	s.setupRoutes()

	return s
}

func (s *Server) setupRoutes() {
	groupHandler := handler.NewGroupHandler(s.services.Groups, s.log)
	chatHandler := handler.NewChatHandler(s.services.Books, s.services.Genres, s.services.History, s.log)
	analyticsHandler := handler.NewAnalyticsHandler(s.services.Books, s.services.Genres, s.services.Users, s.log)

	s.router.Use(cors.New(cors.Config{
		AllowOrigins: s.allowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodOptions},
		AllowHeaders: []string{"Authorization", "Content-Type"},
		MaxAge:       12 * time.Hour,
	}))

	// Ping route for health check
	s.router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	authRequired := s.router.Group("/api")
	authRequired.Use(middleware.AuthMiddleware(s.tokens, s.log))
	{
		authRequired.GET("/whoami", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"subject": c.GetString(middleware.SubjectKey),
				"role":    c.GetString(middleware.RoleKey),
			})
		})
		authRequired.GET("/groups", groupHandler.GetGroups)

		chats := authRequired.Group("/chats/:id")
		chats.GET("/suggestions", chatHandler.GetSuggestions)
		chats.GET("/genres", chatHandler.GetGenres)
		chats.GET("/history", chatHandler.GetHistoryYears)
		chats.GET("/history/:year", chatHandler.GetHistoryYear)
		chats.GET("/polls", chatHandler.GetPolls)
		chats.GET("/stats", analyticsHandler.GetChatStats)
	}
}

// Handler exposes the router, mostly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("Admin API starting", zap.String("address", s.addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("admin api: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.log.Info("Shutting down admin API...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("admin api shutdown: %w", err)
	}
	s.log.Info("Admin API exited")
	return nil
}
