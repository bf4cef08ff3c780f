package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"volunteerhub/internal/adapter/repo"
	"volunteerhub/internal/checklist"
	"volunteerhub/internal/domain"
	"volunteerhub/internal/http/handlers"
	httpapi "volunteerhub/internal/http/httpapi"
	"volunteerhub/internal/infra"
	"volunteerhub/internal/providers/caspio"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	client, err := caspio.NewClient(caspio.Options{
		BaseURL:        cfg.RecordStoreBaseURL,
		Token:          cfg.RecordStoreToken,
		RequestTimeout: cfg.RecordStoreTimeout,
		Logger:         &logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build record store client")
	}

	checklistCfg, err := checklist.LoadConfig(cfg.ChecklistConfigPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load checklist configuration")
	}

	// The audit database is optional; without it write-backs simply go
	// unaudited.
	ctx := context.Background()
	var audit domain.AuditRepository
	if cfg.DatabaseURL != "" {
		dbpool, err := infra.NewDBPool(ctx, cfg)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect audit database")
		}
		defer dbpool.Close()
		audit = repo.NewAuditRepository(dbpool)
	} else {
		logger.Info().Msg("audit database not configured, write-back audit disabled")
	}

	engine, err := checklist.New(checklist.Options{
		Store:  client,
		Config: checklistCfg,
		Logger: &logger,
		Audit:  audit,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build checklist engine")
	}

	app := handlers.NewApp(engine, audit, logger)
	router := httpapi.NewRouter(app, cfg)
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Str("addr", server.Addr()).Msg("API listening")
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
