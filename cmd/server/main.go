package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"notquiteparadise/internal/engine"
	"notquiteparadise/internal/infrastructure/storage"
	"notquiteparadise/internal/server"
	"notquiteparadise/internal/version"
	"notquiteparadise/pkg/logger"
)

func main() {
	cfg, err := engine.LoadConfig()
	if err != nil {
		logger.Log.WithError(err).Fatal("Invalid configuration")
	}

	// Флаги перекрывают окружение.
	var (
		resume bool
		noSave bool
	)
	flag.Int64Var(&cfg.Seed, "seed", cfg.Seed, "World seed (0 for random)")
	flag.StringVar(&cfg.Port, "port", cfg.Port, "HTTP port")
	flag.StringVar(&cfg.SnapshotPath, "snapshot", cfg.SnapshotPath, "Path to sqlite snapshot database")
	flag.BoolVar(&resume, "resume", false, "Resume from the latest snapshot")
	flag.BoolVar(&noSave, "no-save", false, "Do not save a snapshot on shutdown")
	flag.Parse()

	logger.Init(cfg.Log)
	logger.Log.Info("Starting Not Quite Paradise...")
	logger.Log.Info(version.String())

	snapshots, err := storage.Open(cfg.SnapshotPath)
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to open snapshot store")
	}
	defer func() {
		if err := snapshots.Close(); err != nil {
			logger.Log.WithError(err).Warn("Failed to close snapshot store")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	game, err := loadGame(ctx, cfg, snapshots, resume)
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to create game")
	}

	gameService := engine.NewService(game, snapshots)
	srv := server.New(gameService, cfg.Port)

	go func() {
		if err := srv.Run(ctx); err != nil {
			logger.Log.WithError(err).Error("Server error")
			stop()
		}
	}()

	err = gameService.Run(ctx)
	stop()
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, engine.ErrGameExited) {
		logger.Log.WithError(err).Error("Game loop failed")
	}

	logger.Log.Info("Shutting down...")

	if !noSave {
		saveCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if _, err := gameService.Save(saveCtx); err != nil {
			logger.Log.WithError(err).Error("Failed to save snapshot")
		}
	}

	logger.Log.Info("Done.")
}

func loadGame(ctx context.Context, cfg engine.Config, snapshots *storage.SnapshotStore, resume bool) (*engine.Game, error) {
	if resume {
		snap, err := snapshots.Latest(ctx)
		switch {
		case err == nil:
			logger.Log.WithField("snapshot_id", snap.ID).Info("Resuming from snapshot")
			return engine.RestoreGame(cfg, snap, nil)
		case errors.Is(err, storage.ErrSnapshotNotFound):
			logger.Log.Warn("No snapshot to resume, starting a new game")
		default:
			return nil, err
		}
	}
	return engine.BuildGame(cfg)
}
