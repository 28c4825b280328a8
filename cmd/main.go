package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"shop-service/internal/model"
	"shop-service/pkg/config"
	"shop-service/pkg/database"
	"shop-service/pkg/logger"
	"shop-service/prometheus"
)

const serviceName = "shop-service"

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "shop",
		Short:        "E-commerce REST backend",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
	root.AddCommand(newServeCommand(), newMigrateCommand(), newCreateAdminCommand())
	return root
}

// bootstrap loads configuration, initializes logging and metrics and opens
// the database.
func bootstrap() (*config.Config, *gorm.DB, error) {
	cfg, err := config.Load(serviceName)
	if err != nil {
		return nil, nil, fmt.Errorf("load configuration: %w", err)
	}

	if err := logger.InitLogger(&logger.LogConfig{
		Level:       cfg.Log.Level,
		Environment: cfg.Server.Env,
		ServiceName: cfg.ServiceName,
	}); err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}
	log := logger.GetLogger()
	log.Info("Configuration loaded", cfg.LogConfig()...)

	prometheus.InitMetrics(cfg)
	log.Info("Prometheus metrics initialized", zap.String("metrics_prefix", cfg.Metrics.Prefix))

	db, err := database.InitDB(&cfg.DB)
	if err != nil {
		return nil, nil, err
	}
	log.Info("Database connection established", zap.String("driver", cfg.DB.Driver))
	return cfg, db, nil
}

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, db, err := bootstrap()
			if err != nil {
				return err
			}
			defer logger.Sync()
			defer database.Close(db)

			if err := database.MigrateModels(db, model.Models()...); err != nil {
				return err
			}
			logger.GetLogger().Info("Database migrated")
			return nil
		},
	}
}
