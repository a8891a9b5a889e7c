package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/soldoriente/evolution-bridge/config"
	"github.com/soldoriente/evolution-bridge/evolution"
	"github.com/soldoriente/evolution-bridge/groq"
	"github.com/soldoriente/evolution-bridge/processor"
	"github.com/soldoriente/evolution-bridge/redis"
	"github.com/soldoriente/evolution-bridge/reqlog"
	"github.com/soldoriente/evolution-bridge/server"
	"github.com/soldoriente/evolution-bridge/storage"
	"github.com/soldoriente/evolution-bridge/supabase"
)

func main() {
	cfg := config.Load()

	httpClient := http.Client{}

	evolutionClient := evolution.NewClient(httpClient)
	groqClient := groq.NewClient(cfg.GroqAPIKey, httpClient)
	supabaseClient := supabase.NewClient(cfg.SupabaseURL, cfg.SupabaseServiceKey, httpClient)

	var (
		uploader   processor.StorageClientInterface
		minioCheck server.HealthChecker
	)
	if cfg.MinIOEndpoint != "" {
		storageClient, err := storage.NewClient(
			cfg.MinIOEndpoint,
			cfg.MinIOAccessKey,
			cfg.MinIOSecretKey,
			cfg.MinIOUseSSL,
			cfg.MinIORegion,
			cfg.MinIOBucket,
		)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create MinIO client")
		}
		uploader = storageClient
		minioCheck = storageClient
	}

	var (
		cacheClient processor.CacheClientInterface
		redisPing   server.Pinger
	)
	if cfg.CacheEnabled() {
		redisClient := redis.NewClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		cacheClient = &redisClient
		redisPing = &redisClient
	}

	messageProcessor := processor.NewMessageProcessor(
		&evolutionClient,
		&groqClient,
		uploader,
		&supabaseClient,
		cacheClient,
	)

	requestLog := reqlog.NewStore()

	srv := server.New(
		messageProcessor,
		requestLog,
		&supabaseClient,
		&supabaseClient,
		minioCheck,
		redisPing,
	)

	go srv.Start(cfg.Port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server shutdown failed")
	} else {
		log.Info().Msg("Server stopped")
	}
}
