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

	"github.com/tcs-suzini/club-backend/config"
	"github.com/tcs-suzini/club-backend/db"
	"github.com/tcs-suzini/club-backend/handlers"
	"github.com/tcs-suzini/club-backend/live"
	"github.com/tcs-suzini/club-backend/middleware"
	"github.com/tcs-suzini/club-backend/repositories"
	"github.com/tcs-suzini/club-backend/routes"
	"github.com/tcs-suzini/club-backend/services"
	"github.com/tcs-suzini/club-backend/storage"
)

// repoSet groups every repository behind one of the two storage backends.
type repoSet struct {
	backend string

	users            repositories.UserRepository
	achievements     repositories.AchievementRepository
	grants           repositories.UserAchievementRepository
	tournaments      repositories.TournamentRepository
	matches          repositories.MatchRepository
	news             repositories.NewsRepository
	trainings        repositories.TrainingRepository
	referentRequests repositories.ReferentRequestRepository
}

func memoryRepos() *repoSet {
	return &repoSet{
		backend:          "memory",
		users:            repositories.NewMemoryUserRepository(),
		achievements:     repositories.NewMemoryAchievementRepository(),
		grants:           repositories.NewMemoryUserAchievementRepository(),
		tournaments:      repositories.NewMemoryTournamentRepository(),
		matches:          repositories.NewMemoryMatchRepository(),
		news:             repositories.NewMemoryNewsRepository(),
		trainings:        repositories.NewMemoryTrainingRepository(),
		referentRequests: repositories.NewMemoryReferentRequestRepository(),
	}
}

// connectStore picks the storage backend: MongoDB when MONGO_URL is set and
// reachable, the in-memory store otherwise.
func connectStore(cfg *config.Config, logger *slog.Logger) *repoSet {
	if cfg.MongoURL == "" {
		logger.Warn("MONGO_URL not set, using in-memory store")
		return memoryRepos()
	}

	client, err := db.Connect(cfg.MongoURL, 5*time.Second)
	if err != nil {
		logger.Warn("mongodb unreachable, falling back to in-memory store", slog.Any("error", err))
		return memoryRepos()
	}

	database := client.Database(cfg.DBName)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := repositories.EnsureUserIndexes(ctx, database); err != nil {
		logger.Error("failed to ensure user indexes", slog.Any("error", err))
	}
	if err := repositories.EnsureGrantIndexes(ctx, database); err != nil {
		logger.Error("failed to ensure achievement indexes", slog.Any("error", err))
	}

	logger.Info("mongodb connection established", slog.String("database", cfg.DBName))
	return &repoSet{
		backend:          "mongodb",
		users:            repositories.NewMongoUserRepository(database),
		achievements:     repositories.NewMongoAchievementRepository(database),
		grants:           repositories.NewMongoUserAchievementRepository(database),
		tournaments:      repositories.NewMongoTournamentRepository(database),
		matches:          repositories.NewMongoMatchRepository(database),
		news:             repositories.NewMongoNewsRepository(database),
		trainings:        repositories.NewMongoTrainingRepository(database),
		referentRequests: repositories.NewMongoReferentRequestRepository(database),
	}
}

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	repos := connectStore(cfg, logger)
	logger.Info("storage backend selected", slog.String("backend", repos.backend))

	// Image uploads are optional: without R2 credentials the news image
	// endpoint answers 503 and everything else works.
	var uploader storage.Uploader
	r2cfg := storage.R2UploaderConfig{
		AccountID:       cfg.R2AccountID,
		AccessKeyID:     cfg.R2AccessKeyID,
		SecretAccessKey: cfg.R2SecretAccessKey,
		BucketName:      cfg.R2BucketName,
		PublicBaseURL:   cfg.R2PublicBaseURL,
	}
	if r2cfg.Configured() {
		uploader, err = storage.NewR2Uploader(r2cfg)
		if err != nil {
			logger.Error("failed to initialize R2 uploader", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("R2 uploader initialized", slog.String("bucket", cfg.R2BucketName))
	} else {
		logger.Warn("R2 uploader not configured, image uploads disabled")
	}

	hub := live.NewHub(logger)
	go hub.Run()

	tokens := services.NewTokenService(cfg.JWTSecretKey)
	mailer := services.NewEmailService(cfg, logger)

	authService := services.NewAuthService(repos.users, repos.referentRequests, tokens, mailer, cfg.ReferentSecretCode, logger)
	achievementService := services.NewAchievementService(repos.users, repos.achievements, repos.grants)
	userService := services.NewUserService(repos.users, repos.achievements, repos.grants)
	tournamentService := services.NewTournamentService(repos.tournaments, repos.users, achievementService, logger)
	matchService := services.NewMatchService(repos.matches, repos.tournaments, hub)
	newsService := services.NewNewsService(repos.news, uploader)
	trainingService := services.NewTrainingService(repos.trainings)
	logger.Info("services initialized")

	seedCtx, seedCancel := context.WithTimeout(context.Background(), 15*time.Second)
	if err := services.Seed(seedCtx, repos.achievements, repos.trainings, repos.users, cfg.AdminEmail, cfg.AdminPassword, logger); err != nil {
		seedCancel()
		logger.Error("failed to seed initial data", slog.Any("error", err))
		os.Exit(1)
	}
	seedCancel()

	scheduler, err := services.StartScheduler(tournamentService, repos.referentRequests, logger)
	if err != nil {
		logger.Error("failed to start scheduler", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := scheduler.Shutdown(); err != nil {
			logger.Error("scheduler shutdown failed", slog.Any("error", err))
		}
	}()

	authenticator := middleware.NewAuthenticator(tokens, repos.users)

	router := routes.InitRoutes(routes.Deps{
		Auth:          handlers.NewAuthHandler(authService, logger),
		Users:         handlers.NewUserHandler(userService, logger),
		Tournaments:   handlers.NewTournamentHandler(tournamentService, logger),
		Matches:       handlers.NewMatchHandler(matchService, logger),
		News:          handlers.NewNewsHandler(newsService, logger),
		Trainings:     handlers.NewTrainingHandler(trainingService, logger),
		Referent:      handlers.NewReferentHandler(userService, logger),
		Achievements:  handlers.NewAchievementHandler(achievementService),
		Health:        handlers.NewHealthHandler(repos.backend),
		WebSocket:     handlers.NewWebSocketHandler(hub, logger),
		Authenticator: authenticator,
		CORSOrigins:   cfg.CORSOrigins,
	})
	logger.Info("routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
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
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if err := server.Close(); err != nil {
				logger.Error("forced close failed", slog.Any("error", err))
			}
		}
	}

	logger.Info("server stopped")
}
