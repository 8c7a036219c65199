package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/mpetrov/stagtrip/internal/allocation"
	"github.com/mpetrov/stagtrip/internal/api"
	"github.com/mpetrov/stagtrip/internal/auth"
	"github.com/mpetrov/stagtrip/internal/config"
	"github.com/mpetrov/stagtrip/internal/ledger"
	"github.com/mpetrov/stagtrip/internal/storage/sqlite"
	"github.com/mpetrov/stagtrip/pkg/logging"
)

func main() {
	logging.Setup()

	// A .env file is a development convenience; production sets real
	// environment variables.
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, using system environment")
	}

	cfg, err := config.New()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		slog.Error("failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("storage initialized", "database", cfg.DBPath)

	engine := allocation.NewEngine(store)
	dispatcher := allocation.NewDispatcher(engine, cfg.RecomputeBuffer)
	dispatcher.Start()
	defer dispatcher.Shutdown()

	// Self-heal allocations that drifted from manual edits or
	// recomputations that failed before the last shutdown.
	engine.RecomputeAll(context.Background())

	authenticator := auth.NewPasswordAuthenticator(store, cfg.AdminEmail)
	jwtManager := auth.NewJWTManager(cfg.JwtSecret, time.Duration(cfg.TokenTTLHours)*time.Hour)
	ledger := ledger.New(store)

	server := api.NewServer(store, authenticator, jwtManager, dispatcher, ledger)

	slog.Info("server starting", "address", cfg.ServerAddr)
	if err := http.ListenAndServe(cfg.ServerAddr, server.Routes()); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
