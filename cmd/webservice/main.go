package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alimikegami/e-commerce/storefront-service/config"
	"github.com/alimikegami/e-commerce/storefront-service/internal/app"
	"github.com/alimikegami/e-commerce/storefront-service/internal/infrastructure/database/mongodb"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	config := config.CreateNewConfig()

	logger := zerolog.New(os.Stdout).With().Timestamp().Str("service", config.ServiceName).Logger()
	level, err := zerolog.ParseLevel(config.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = logger

	if config.JWTConfig.Secret == "" {
		log.Fatal().Msg("JWT_SECRET must be set")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := mongodb.ConnectToMongoDB(ctx, config.MongoDBConfig.URI(), config.MongoDBConfig.DBName)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to the database")
	}

	defer func() {
		if err := db.Client().Disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("Failed to disconnect from the database")
		}
	}()

	indexCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	err = mongodb.EnsureIndexes(indexCtx, db)
	cancel()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create indexes")
	}

	server := app.App{
		DB:     db,
		Config: config,
	}

	if err := server.Build(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to build the application")
	}

	if err := server.SeedAdmin(log.Logger.WithContext(ctx)); err != nil {
		log.Error().Err(err).Msg("Failed to seed the administrator account")
	}

	go func() {
		if err := server.Start(ctx); err != nil {
			log.Error().Err(err).Msg("Server stopped")
			stop()
		}
	}()

	log.Info().Str("port", config.ServicePort).Msg("Server started")
	<-ctx.Done()

	if err := server.StopServer(); err != nil {
		log.Error().Err(err).Msg("Failed to shut down cleanly")
	}
}
