package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"shop-service/internal/model"
	"shop-service/internal/repository"
	"shop-service/internal/server"
	"shop-service/pkg/database"
	"shop-service/pkg/jwtutil"
	"shop-service/pkg/logger"
	"shop-service/pkg/storage"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, db, err := bootstrap()
	if err != nil {
		return err
	}
	log := logger.GetLogger()
	defer logger.Sync()
	defer database.Close(db)

	if err := database.MigrateModels(db, model.Models()...); err != nil {
		return err
	}

	blobs, err := storage.New(cfg.Storage)
	if err != nil {
		return err
	}
	log.Info("Blob storage ready", zap.String("driver", cfg.Storage.Driver))

	tokens := jwtutil.NewJWTUtil(jwtutil.JWTConfig{
		SigningKey:      cfg.JWT.SigningKey,
		ExpirationHours: cfg.JWT.ExpirationHours,
	})

	e := server.New(cfg, server.Deps{
		Store:  repository.NewStore(db),
		Blobs:  blobs,
		Tokens: tokens,
	})

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("Starting server", zap.String("port", cfg.Server.Port))
		if err := e.Start(":" + cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			log.Error("Server error", zap.Error(err))
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
