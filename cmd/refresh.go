package cmd

import (
	"context"
	"fmt"

	"country-catalog/core/config"
	"country-catalog/core/database"
	"country-catalog/core/logger"
	"country-catalog/core/storage"
	"country-catalog/feature/countries"
	"country-catalog/feature/countries/reconcile"
	"country-catalog/feature/countries/source"
	"country-catalog/feature/countries/summary"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// refreshCmd runs one refresh pipeline execution and exits.
var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Run one catalog refresh and exit",
	Long: `Fetches the external country and exchange-rate sources, reconciles them
into the catalog inside a single transaction, and regenerates the summary
artifact. Useful for cron-less deployments and for seeding a fresh database.`,
	RunE: runRefresh,
}

func init() {
	RootCmd.AddCommand(refreshCmd)
}

func runRefresh(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer l.Sync()

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	repo := countries.NewRepository(db)
	if err := repo.Migrate(); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	var store storage.Client
	if cfg.Summary.Backend == "s3" {
		store, err = storage.NewClient(cfg.Storage)
		if err != nil {
			return fmt.Errorf("failed to create storage client: %w", err)
		}
	}
	cache, err := summary.NewCache(cfg.Summary, store, cfg.Storage.Bucket)
	if err != nil {
		return fmt.Errorf("failed to create summary cache: %w", err)
	}

	projector := summary.NewProjector(repo, cache, l)
	gateway := source.NewGateway(cfg.Source)
	svc := countries.NewService(gateway, repo, projector, reconcile.NewRand(), l)

	l.Info("Starting catalog refresh")
	result, err := svc.Refresh(context.Background())
	if err != nil {
		return fmt.Errorf("refresh failed: %w", err)
	}

	l.Info("Catalog refresh completed",
		zap.Int("processed", result.Processed),
		zap.String("last_refreshed_at", result.LastRefreshedAt),
	)
	return nil
}
