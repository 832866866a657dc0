package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ratify/ratify-web/internal/api"
	"github.com/ratify/ratify-web/internal/api/handler"
	"github.com/ratify/ratify-web/internal/api/middleware"
	"github.com/ratify/ratify-web/internal/core/service"
	"github.com/ratify/ratify-web/internal/infrastructure/apiclient"
	mongodb "github.com/ratify/ratify-web/internal/infrastructure/db/mongo"
	redisdb "github.com/ratify/ratify-web/internal/infrastructure/db/redis"
	"github.com/ratify/ratify-web/internal/infrastructure/http/handlers"
	"github.com/ratify/ratify-web/internal/infrastructure/queue"
	"github.com/ratify/ratify-web/internal/infrastructure/seal"
	"github.com/ratify/ratify-web/internal/pkg/config"
	"github.com/ratify/ratify-web/internal/session"
	"github.com/ratify/ratify-web/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "ratify-web",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Storage ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo unavailable")
	}
	defer func() { _ = mongoClient.Disconnect(context.Background()) }()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	if err != nil {
		log.Fatal().Err(err).Msg("redis unavailable")
	}
	defer rdb.Close()

	prefs := mongodb.NewPreferenceRepository(db)
	if err := prefs.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("preference indexes")
	}

	sealer, generated, err := seal.New(cfg.Session.SealKey)
	if err != nil {
		log.Fatal().Err(err).Msg("SESSION_SEAL_KEY is invalid")
	}
	if generated {
		log.Warn().Msg("SESSION_SEAL_KEY not set, stored sessions will not survive a restart")
	}
	vault := redisdb.NewTokenVault(rdb, sealer, cfg.Session.TokenTTL)

	// --- Remote API ---
	client := apiclient.New(apiclient.Config{
		BaseURL:   cfg.API.BaseURL,
		Timeout:   cfg.API.Timeout,
		RateLimit: cfg.API.RateLimit,
		RateBurst: cfg.API.RateBurst,
	}, log)

	// --- Services ---
	authService := service.NewAuthService(apiclient.NewAuthAPI(client), log,
		service.WithTokenReadTimeout(cfg.Session.TokenReadTimeout))
	contractService := service.NewContractService(apiclient.NewContractAPI(client), authService, log)

	prefQueue := queue.NewDispatcher(0, prefs, log)
	settingsService := service.NewSettingsService(prefQueue, log)

	sessions := session.NewManager(vault, authService, settingsService, log,
		session.WithIdleTTL(cfg.Session.IdleTTL))

	// --- HTTP ---
	e, err := api.NewRouter(api.Deps{
		Sessions: sessions,
		Cookie: middleware.SessionConfig{
			CookieName: cfg.Session.CookieName,
			Secure:     cfg.Session.Secure,
			MaxAge:     cfg.Session.TokenTTL,
		},
		Auth:      handler.NewAuthHandler(authService, cfg.ResetRedirectDelay, log),
		Agreement: handler.NewAgreementHandler(contractService, cfg.ConfettiDuration, log),
		Signers:   handler.NewSignerHandler(contractService, log),
		Settings:  handler.NewSettingsHandler(settingsService, log),
		Checks: map[string]handlers.Check{
			"mongodb": handlers.MongoCheck(db),
			"redis":   handlers.RedisCheck(rdb),
		},
		Log: log,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("router")
	}

	// --- Background workers ---
	workers, cancelWorkers := context.WithCancel(context.Background())
	prefQueue.Start(workers)
	sweeperDone := make(chan struct{})
	go func() {
		sessions.Run(workers, 0)
		close(sweeperDone)
	}()

	go func() {
		log.Info().Str("port", cfg.Port).Str("api", cfg.API.BaseURL).Msg("ratify-web listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}

	cancelWorkers()
	<-sweeperDone
	prefQueue.Wait()
	log.Info().Msg("bye")
}
