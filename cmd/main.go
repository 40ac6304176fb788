package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hooplab/courtside/cache"
	"github.com/hooplab/courtside/config"
	"github.com/hooplab/courtside/db"
	"github.com/hooplab/courtside/handlers"
	"github.com/hooplab/courtside/live"
	"github.com/hooplab/courtside/repositories"
	"github.com/hooplab/courtside/routes"
	"github.com/hooplab/courtside/scheduler"
	"github.com/hooplab/courtside/services"
	"github.com/hooplab/courtside/storage"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		}
	}()
	logger.Info("database connection established")

	// Leaders cache: Redis when configured, in-process otherwise.
	var leadersCache cache.LeadersCache
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		defer redisClient.Close()
		leadersCache = cache.NewRedisLeadersCache(redisClient, cfg.LeadersCacheTTL)
		logger.Info("redis leaders cache initialized", slog.String("addr", cfg.RedisAddr))
	} else {
		leadersCache = cache.NewMemoryLeadersCache(cfg.LeadersCacheTTL)
		logger.Info("in-memory leaders cache initialized")
	}

	// Photo storage is optional; without it photo endpoints degrade.
	var uploader storage.FileUploader
	if cfg.R2Configured() {
		uploader, err = storage.NewR2Uploader(storage.R2Config{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicBaseURL:   cfg.R2PublicBaseURL,
		})
		if err != nil {
			logger.Error("failed to initialize R2 uploader", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("R2 uploader initialized")
	} else {
		logger.Info("object storage not configured, photo features disabled")
	}

	hub := live.NewHub(logger)
	go hub.Run()
	logger.Info("live hub started")

	userRepo := repositories.NewPostgresUserRepository(dbConn)
	playerRepo := repositories.NewPostgresPlayerRepository(dbConn)
	teamRepo := repositories.NewPostgresTeamRepository(dbConn)
	tournamentRepo := repositories.NewPostgresTournamentRepository(dbConn)
	gameRepo := repositories.NewPostgresGameRepository(dbConn)
	eventRepo := repositories.NewPostgresStatEventRepository(dbConn)
	precomputedRepo := repositories.NewPostgresPrecomputedLeaderRepository(dbConn)
	personalGameRepo := repositories.NewPostgresPersonalGameRepository(dbConn)

	authService := services.NewAuthService(userRepo)
	playersService := services.NewPlayersService(playerRepo, uploader)
	tournamentsService := services.NewTournamentsService(tournamentRepo, gameRepo, teamRepo)
	statEventsService := services.NewStatEventsService(eventRepo, gameRepo)
	personalGamesService := services.NewPersonalGamesService(personalGameRepo)
	gameStatsService := services.NewPlayerGameStatsService(playerRepo, gameRepo, eventRepo, teamRepo, logger)
	leadersService := services.NewTournamentLeadersService(
		gameRepo, eventRepo, precomputedRepo, playerRepo, teamRepo,
		leadersCache, uploader, logger,
	)

	refresher := scheduler.NewLeadersRefresher(leadersService, tournamentRepo, playerRepo, precomputedRepo, logger)
	if err := refresher.Start(cfg.LeadersRefreshInterval); err != nil {
		logger.Error("failed to start leaders refresher", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := refresher.Stop(); err != nil {
			logger.Error("failed to stop leaders refresher", slog.Any("error", err))
		}
	}()
	logger.Info("leaders refresher started", slog.Duration("interval", cfg.LeadersRefreshInterval))

	router := routes.InitRoutes(routes.Handlers{
		Auth:          handlers.NewAuthHandler(authService, cfg.JWTSecret),
		Tournaments:   handlers.NewTournamentHandler(tournamentsService),
		Leaders:       handlers.NewLeadersHandler(leadersService),
		Players:       handlers.NewPlayerHandler(playersService, gameStatsService),
		PersonalGames: handlers.NewPersonalGameHandler(personalGamesService, playersService),
		StatEvents:    handlers.NewStatEventHandler(statEventsService, hub),
		Live:          handlers.NewLiveHandler(hub, logger),
	}, cfg.JWTSecret, cfg.CORSAllowedOrigins)
	logger.Info("routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		}
		logger.Info("server shutdown complete")
	}
}
