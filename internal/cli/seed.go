package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"sentence-quiz/internal/config"
	"sentence-quiz/internal/domain"
	pgstore "sentence-quiz/internal/infra/postgres"
	redisstore "sentence-quiz/internal/infra/redis"
	"sentence-quiz/internal/infra/sqlite"
	"sentence-quiz/internal/infra/yamlfile"
	"sentence-quiz/internal/logging"
)

type bankStore interface {
	LoadBank(ctx context.Context, bankID string) (domain.Bank, error)
	SaveBank(ctx context.Context, bank domain.Bank) error
}

// NewSeedCmd imports question banks from a YAML file into the configured database.
func NewSeedCmd(configPath *string) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Validate and import question banks from a YAML file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd.Context(), *configPath, file)
		},
	}
	cmd.Flags().StringVar(&file, "file", defaultBankFile, "YAML file with question banks")
	return cmd
}

func runSeed(ctx context.Context, configPath, file string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logger := logging.New(cfg.Log.Level, cfg.Log.Format, os.Stdout)

	loader, err := yamlfile.Load(file)
	if err != nil {
		return fmt.Errorf("load %s: %w", file, err)
	}
	banks := loader.Banks()

	// validate everything before writing anything
	var errs []error
	for _, bank := range banks {
		if err := domain.ValidateBank(bank); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return err
	}

	var saver bankStore
	switch {
	case cfg.Postgres.URL != "":
		if err := runMigrations(ctx, cfg.Postgres.URL, logger); err != nil {
			return err
		}
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
		saver = pgstore.NewBankStore(pool)
	case cfg.SQLite.Path != "":
		store, err := sqlite.Open(ctx, cfg.SQLite.Path)
		if err != nil {
			return err
		}
		defer store.Close()
		saver = store
	default:
		return errors.New("seed needs postgres.url or sqlite.path")
	}

	// running servers on Redis must stop serving the cached copies
	var cache *redisstore.BankRepository
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer client.Close()
		cache = redisstore.NewBankRepository(client, saver, config.TTLDuration(cfg.Bank.TTL, 10*time.Minute))
	}

	for _, bank := range banks {
		if err := saver.SaveBank(ctx, bank); err != nil {
			return fmt.Errorf("save bank %s: %w", bank.ID, err)
		}
		if cache != nil {
			if err := cache.Invalidate(ctx, bank.ID); err != nil {
				return fmt.Errorf("invalidate cached bank %s: %w", bank.ID, err)
			}
		}
		logger.Info("seeded bank", "bank_id", bank.ID, "questions", len(bank.Questions))
	}
	return nil
}
