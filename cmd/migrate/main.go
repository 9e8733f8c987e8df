package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/kapu/zenith-go/internal/config"
	"github.com/kapu/zenith-go/internal/service/database"
	"github.com/kapu/zenith-go/internal/util"
	"go.uber.org/zap"
)

func main() {
	direction := flag.String("direction", "up", "migration direction: up, down or version")
	steps := flag.Int("steps", 1, "number of migrations to roll back with -direction=down (0 = all)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := util.NewLogger(cfg.Logging.Level, cfg.Logging.File, cfg.Logging.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	databaseURL := cfg.Postgres.URL()

	switch *direction {
	case "up":
		if err := database.RunMigrations(databaseURL); err != nil {
			logger.Fatal("Migration failed", zap.Error(err))
		}
	case "down":
		if err := database.RollbackMigrations(databaseURL, *steps); err != nil {
			logger.Fatal("Rollback failed", zap.Error(err), zap.Int("steps", *steps))
		}
	case "version":
	default:
		logger.Fatal("Unknown direction", zap.String("direction", *direction))
	}

	version, dirty, err := database.MigrationVersion(databaseURL)
	if err != nil {
		logger.Fatal("Failed to read migration version", zap.Error(err))
	}
	logger.Info("Schema version",
		zap.Uint("version", version),
		zap.Bool("dirty", dirty),
	)
}
