package cmd

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"country-catalog/core/config"
	"country-catalog/core/database"
	"country-catalog/core/logger"
	"country-catalog/core/middleware/auth"
	"country-catalog/core/middleware/rayid"
	"country-catalog/core/storage"
	"country-catalog/feature/countries"
	"country-catalog/feature/countries/reconcile"
	"country-catalog/feature/countries/source"
	"country-catalog/feature/countries/summary"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the country catalog server",
	Long:  `Starts the HTTP server and, when configured, the periodic refresh scheduler.`,
	Run: func(cmd *cobra.Command, args []string) {
		// 1. Load Configuration
		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		// 2. Initialize Logger
		logg, err := logger.New(&cfg.Log)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		// 3. Connect to Database
		db, err := database.Connect(cfg.Database)
		if err != nil {
			logg.Fatal("Failed to connect to database", zap.Error(err))
		}

		repo := countries.NewRepository(db)
		if err := repo.Migrate(); err != nil {
			logg.Fatal("Failed to migrate database", zap.Error(err))
		}

		// 4. Initialize the summary artifact cache. The object-storage client
		// is only needed for the s3 backend.
		var store storage.Client
		if cfg.Summary.Backend == "s3" {
			store, err = storage.NewClient(cfg.Storage)
			if err != nil {
				logg.Fatal("Failed to create storage client", zap.Error(err))
			}
		}
		cache, err := summary.NewCache(cfg.Summary, store, cfg.Storage.Bucket)
		if err != nil {
			logg.Fatal("Failed to create summary cache", zap.Error(err))
		}

		// 5. Wire the feature
		projector := summary.NewProjector(repo, cache, logg)
		gateway := source.NewGateway(cfg.Source)
		svc := countries.NewService(gateway, repo, projector, reconcile.NewRand(), logg)
		handler := countries.NewHandler(svc, logg)

		// 6. Initialize Fiber App
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true, // We log our own startup message
		})

		// RayID must be first to trace everything
		app.Use(rayid.New())

		// Request logging middleware (Zap + RayID)
		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		// Mutating routes require the API key when one is configured.
		var guard fiber.Handler
		if cfg.Server.ApiKey != "" {
			guard = auth.New(auth.Config{ApiKey: cfg.Server.ApiKey})
		}
		handler.RegisterRoutes(app, guard)

		// 7. Periodic refresh (optional)
		var scheduler *countries.Scheduler
		if cfg.Server.RefreshCron != "" {
			scheduler = countries.NewScheduler(svc, logg)
			if err := scheduler.Start(cfg.Server.RefreshCron); err != nil {
				logg.Fatal("Failed to start refresh scheduler", zap.Error(err))
			}
		}

		// 8. Start Server
		go func() {
			logg.Info("Starting server", zap.String("port", cfg.Server.Port))
			if err := app.Listen(":" + cfg.Server.Port); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// 9. Graceful Shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		if scheduler != nil {
			scheduler.Stop()
		}
		_ = app.Shutdown()
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
