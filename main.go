package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"bookclub/internal/activity"
	"bookclub/internal/config"
	"bookclub/internal/logging"
	"bookclub/internal/repository"
	"bookclub/internal/server"
	"bookclub/internal/service"
	"bookclub/internal/session"
	"bookclub/internal/telegram_bot"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const defaultConfigPath = "configs/config.yml"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

type rootOptions struct {
	configPath string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	runCmd := newRunCmd(opts)

	rootCmd := &cobra.Command{
		Use:          "bookclub-bot",
		Short:        "Telegram book club bot",
		SilenceUsage: true,
		RunE:         runCmd.RunE,
	}
	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", defaultConfigPath, "Path to configuration file")

	rootCmd.AddCommand(runCmd, newMigrateCmd(opts), newImportUsersCmd(opts), newTokenCmd(opts))
	return rootCmd
}

// app holds what every sub-command needs: config, logger and a migrated store.
type app struct {
	cfg    *config.Config
	logger *zap.Logger
	db     *sqlx.DB
}

func openApp(configPath string) (*app, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	logger, err := logging.NewLogger(cfg.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	db, err := repository.NewSQLiteDB(cfg.Database.Path, logger)
	if err != nil {
		_ = logger.Sync()
		return nil, err
	}

	if err := repository.MigrateDB(db, logger); err != nil {
		_ = db.Close()
		_ = logger.Sync()
		return nil, err
	}

	return &app{cfg: cfg, logger: logger, db: db}, nil
}

func (a *app) Close() {
	if err := a.db.Close(); err != nil {
		a.logger.Error("Failed to close database", zap.Error(err))
	}
	_ = a.logger.Sync()
}

// repositories and services are built once per process and shared by the bot
// and the admin API.
type wiring struct {
	activity repository.UserActivityRepository
	bot      telegram_bot.Services
	api      server.Services
}

func (a *app) wire() wiring {
	loc := a.cfg.Location()
	clock := service.NewClock(loc)

	suggestions := repository.NewSuggestionRepository(a.db, a.logger)
	genres := repository.NewGenreRepository(a.db, a.logger)
	polls := repository.NewPollRepository(a.db, a.logger)
	history := repository.NewHistoryRepository(a.db, a.logger)
	groups := repository.NewGroupRepository(a.db, a.logger)
	activityRepo := repository.NewUserActivityRepository(a.db, a.logger)

	bot := telegram_bot.Services{
		Books:   service.NewBookService(suggestions, polls, clock, a.logger),
		Genres:  service.NewGenreService(genres, clock, a.logger),
		History: service.NewHistoryService(history, suggestions, genres, clock, a.logger),
		Groups:  service.NewGroupsService(groups, a.logger),
		Chats:   service.NewChatsService(groups),
		Users:   service.NewUsersService(activityRepo, loc, a.logger),
	}
	return wiring{
		activity: activityRepo,
		bot:      bot,
		api: server.Services{
			Books:   bot.Books,
			Genres:  bot.Genres,
			History: bot.History,
			Groups:  bot.Groups,
			Users:   bot.Users,
		},
	}
}

func newRunCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Migrate the store and serve the bot (and the admin API when enabled)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBot(cmd.Context(), opts.configPath)
		},
	}
}

func runBot(ctx context.Context, configPath string) error {
	a, err := openApp(configPath)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.cfg.RequireToken(); err != nil {
		a.logger.Error("Cannot start bot", zap.Error(err))
		return err
	}

	w := a.wire()

	client, err := telegram_bot.NewClient(a.cfg.Telegram.Token, a.logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	buffer := activity.NewBuffer(w.activity, a.cfg.FlushInterval(), a.logger)
	flushed := buffer.Start(ctx)

	bot := telegram_bot.NewBot(client, w.bot, session.NewStore(), buffer, a.logger)
	if err := bot.RegisterCommands(ctx); err != nil {
		a.logger.Warn("Failed to register command menus", zap.Error(err))
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		// The bot also returns when Telegram closes the update channel; stop the rest then.
		defer stop()
		return bot.Start(gctx, client, a.cfg.Telegram.UpdateTimeoutSeconds)
	})
	if a.cfg.AdminAPI.Enabled {
		tokens := service.NewTokenService(a.cfg.AdminAPI.JWTSecret, a.cfg.TokenTTL(), a.logger)
		srv := server.NewServer(a.cfg.AdminAPI.Port, w.api, tokens, a.cfg.AdminAPI.AllowedOrigins, a.logger)
		g.Go(func() error {
			return srv.Run(gctx)
		})
	}

	err = g.Wait()
	stop()
	<-flushed

	if err != nil {
		a.logger.Error("Application stopped with error", zap.Error(err))
		return err
	}
	a.logger.Info("Application stopped.")
	return nil
}

func newMigrateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(opts.configPath)
			if err != nil {
				return err
			}
			defer a.Close()
			fmt.Fprintf(cmd.OutOrStdout(), "database %s is up to date\n", a.cfg.Database.Path)
			return nil
		},
	}
}

func newImportUsersCmd(opts *rootOptions) *cobra.Command {
	var (
		chatID int64
		file   string
	)
	cmd := &cobra.Command{
		Use:   "import-users",
		Short: "Import a members CSV (user_id, username, is_bot) into a chat",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(opts.configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			data, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", file, err)
			}
			return importUsers(cmd.OutOrStdout(), a.wire().bot.Users, chatID, string(data))
		},
	}
	cmd.Flags().Int64Var(&chatID, "chat", 0, "Target group chat id")
	cmd.Flags().StringVar(&file, "file", "", "Path to the members CSV")
	_ = cmd.MarkFlagRequired("chat")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

var errImportRejected = errors.New("csv rejected")

func importUsers(out io.Writer, users *service.UsersService, chatID int64, csvText string) error {
	ok, msg, parsed := users.ParseMembersCSV(csvText)
	if !ok {
		return fmt.Errorf("%w: %s", errImportRejected, msg)
	}
	inserted, skipped := users.ImportUsersIfMissing(chatID, parsed)
	fmt.Fprintf(out, "chat %d: inserted %d, skipped %d\n", chatID, inserted, skipped)
	return nil
}

func newTokenCmd(opts *rootOptions) *cobra.Command {
	var subject string
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint an admin API bearer token",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(opts.configPath)
			if err != nil {
				return err
			}
			logger, err := logging.NewLogger(cfg.Log.Level)
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			tokens := service.NewTokenService(cfg.AdminAPI.JWTSecret, cfg.TokenTTL(), logger)
			token, expiresAt, err := tokens.Issue(subject)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\nexpires at %s\n", token, expiresAt.Format("2006-01-02 15:04:05 MST"))
			return nil
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "admin", "Token subject")
	return cmd
}
