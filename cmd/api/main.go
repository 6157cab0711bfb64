package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"bdportal/api/internal/authclient"
	"bdportal/api/internal/cache"
	"bdportal/api/internal/config"
	"bdportal/api/internal/handlers"
	"bdportal/api/internal/jobs"
	"bdportal/api/internal/log"
	"bdportal/api/internal/server"
	"bdportal/api/internal/session"
	"bdportal/api/internal/upstream"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := log.New(cfg.Environment)

	ctx := context.Background()

	redisClient, err := cache.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect redis")
	}

	contentClient := upstream.New(cfg.Upstream.APIBaseURL, cfg.Upstream.Timeout, logger)
	authClient := authclient.New(cfg.Upstream.APIBaseURL, cfg.Auth.ProviderURL, cfg.Upstream.Timeout, logger)

	sessions := session.NewRegistry(
		authClient,
		func(sid string) session.Store {
			return session.NewRedisStore(redisClient, sid, cfg.Auth.SessionTTL)
		},
		cfg.Auth.PublicOrigin+cfg.Auth.CallbackPath,
		cfg.Auth.SessionTTL,
		logger,
	)

	handlerSet := handlers.NewHandlerSet(logger, cfg, contentClient, redisClient, sessions)
	httpServer := server.NewHTTPServer(cfg, logger, handlerSet)

	warmer := jobs.NewWarmer(cache.NewPayloadCache(redisClient, logger), contentClient, cfg, logger)
	if err := warmer.Start(); err != nil {
		logger.Error().Err(err).Msg("cache warmer start failed")
	}

	go func() {
		if err := httpServer.Start(); err != nil {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	waitForShutdown(logger, httpServer, warmer, sessions, redisClient)
}

func waitForShutdown(
	logger zerolog.Logger,
	srv *server.HTTPServer,
	warmer *jobs.Warmer,
	sessions *session.Registry,
	redisClient *redis.Client,
) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
		if err := srv.Shutdown(context.Background()); err != nil {
			logger.Error().Err(err).Msg("forced shutdown failed")
		}
	}

	warmer.Stop()
	sessions.Close()

	if err := redisClient.Close(); err != nil {
		logger.Error().Err(err).Msg("redis close error")
	}

	logger.Info().Msg("server exited cleanly")
}
