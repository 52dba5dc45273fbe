package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"sentence-quiz/internal/app"
	"sentence-quiz/internal/config"
	"sentence-quiz/internal/events"
	"sentence-quiz/internal/infra/memory"
	pgstore "sentence-quiz/internal/infra/postgres"
	redisstore "sentence-quiz/internal/infra/redis"
	"sentence-quiz/internal/infra/sqlite"
	"sentence-quiz/internal/infra/yamlfile"
	"sentence-quiz/internal/logging"
	transport "sentence-quiz/internal/transport/http"
)

const defaultBankFile = "config/banks.yaml"

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logger := logging.New(cfg.Log.Level, cfg.Log.Format, os.Stdout)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	loader, closeLoader, err := openBankLoader(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeLoader()

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis ping: %w", err)
		}
	}
	sessionTTL := config.TTLDuration(cfg.Redis.TTL, 30*time.Minute)
	resultTTL := config.TTLDuration(cfg.Session.ResultTTL, 24*time.Hour)
	bankTTL := config.TTLDuration(cfg.Bank.TTL, 10*time.Minute)

	var (
		banks    app.BankRepository
		sessions app.SessionRepository
		results  app.ResultStore
	)
	if redisClient != nil {
		banks = redisstore.NewBankRepository(redisClient, loader, bankTTL)
		sessions = redisstore.NewSessionStore(redisClient, sessionTTL)
		results = redisstore.NewResultStore(redisClient, resultTTL)
	} else {
		banks = memory.NewBankRepository(loader, bankTTL)
		sessions = memory.NewSessionStore()
		results = memory.NewResultStore(resultTTL)
	}

	// a nil *events.Publisher must not reach the service as a non-nil interface
	var publisher app.CompletionPublisher
	if cfg.Events.Enabled {
		pubsub := events.NewGoChannel(logger)
		completions := events.NewPublisher(pubsub, cfg.Events.Topic, logger)
		defer completions.Close()
		publisher = completions

		go func() {
			err := events.Consume(ctx, pubsub, cfg.Events.Topic, func(ctx context.Context, e events.SessionCompleted) error {
				logger.InfoContext(ctx, "completion event",
					"session_id", e.SessionID,
					"bank_id", e.BankID,
					"score", e.Score,
					"total", e.Total,
					"tier", e.Tier)
				return nil
			})
			if err != nil {
				logger.Error("completion consumer stopped", "error", err)
			}
		}()
	}

	service := app.NewSessionService(sessions, banks, results, publisher, app.Options{
		QuestionSeconds: cfg.Session.QuestionSeconds,
		TickInterval:    config.TTLDuration(cfg.Session.TickInterval, time.Second),
		Logger:          logger,
	})

	server := &http.Server{
		Addr:              ":" + finalPort,
		Handler:           transport.NewRouter(service, logger, cfg.Server.AllowedOrigins),
		ReadHeaderTimeout: 15 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("starting sentence quiz", "port", finalPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("serve: %w", err)
		}
	case <-ctx.Done():
		logger.Info("shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// openBankLoader picks the bank source: Postgres, then SQLite, then the YAML file.
func openBankLoader(ctx context.Context, cfg config.Config, logger *slog.Logger) (memory.BankLoader, func(), error) {
	switch {
	case cfg.Postgres.URL != "":
		if err := runMigrations(ctx, cfg.Postgres.URL, logger); err != nil {
			return nil, nil, err
		}
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("loading banks from postgres")
		return pgstore.NewBankStore(pool), pool.Close, nil

	case cfg.SQLite.Path != "":
		store, err := sqlite.Open(ctx, cfg.SQLite.Path)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("loading banks from sqlite", "path", cfg.SQLite.Path)
		return store, func() { _ = store.Close() }, nil

	default:
		path := cfg.Bank.File
		if path == "" {
			path = defaultBankFile
		}
		loader, err := yamlfile.Load(path)
		if err != nil {
			return nil, nil, fmt.Errorf("load bank file: %w", err)
		}
		logger.Info("loading banks from file", "path", path, "banks", len(loader.Banks()))
		return loader, func() {}, nil
	}
}
