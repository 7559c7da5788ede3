package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pagoda8/Walking-Buddy-sub000/internal/chat"
	"github.com/pagoda8/Walking-Buddy-sub000/internal/config"
	"github.com/pagoda8/Walking-Buddy-sub000/internal/handlers"
	"github.com/pagoda8/Walking-Buddy-sub000/internal/middleware"
	"github.com/pagoda8/Walking-Buddy-sub000/internal/pending"
	"github.com/pagoda8/Walking-Buddy-sub000/internal/push"
	"github.com/pagoda8/Walking-Buddy-sub000/internal/repository"
	"github.com/pagoda8/Walking-Buddy-sub000/internal/services"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func Run() {
	// Load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Setup logger
	setupLogger(cfg.Log.Level)

	// Connect to database
	db, err := pgxpool.New(context.Background(), cfg.Database.DSN())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	if err := db.Ping(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to ping database")
	}
	log.Info().Msg("Database connection established")

	// Connect to Redis for pending-operation tokens
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Fatal().Err(err).Msg("Failed to ping Redis")
	}
	tracker := pending.New(redisClient)

	// External collaborators
	chatClient := chat.NewClient(cfg.Chat)
	pushNotifier, err := push.NewNotifier(cfg.APNs)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create push notifier")
	}
	uploader, err := services.NewS3Uploader(cfg.AWS)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create S3 uploader")
	}

	// Initialize repositories
	profileRepo := repository.NewProfileRepository(db)
	friendListRepo := repository.NewFriendListRepository(db)
	friendRequestRepo := repository.NewFriendRequestRepository(db)
	challengeRequestRepo := repository.NewChallengeRequestRepository(db)
	challengeRepo := repository.NewChallengeRepository(db)
	achievementRepo := repository.NewAchievementRepository(db)
	photoRepo := repository.NewPhotoRepository(db)
	collectedRepo := repository.NewCollectedPhotoRepository(db)

	// Initialize services
	achievementService := services.NewAchievementService(achievementRepo)
	profileService := services.NewProfileService(profileRepo, friendListRepo, achievementRepo, chatClient, cfg.JWT.Secret)
	friendService := services.NewFriendService(profileRepo, friendListRepo, friendRequestRepo)
	challengeService := services.NewChallengeService(
		friendListRepo, challengeRequestRepo, challengeRepo, profileRepo, achievementService, tracker,
	)
	photoService := services.NewPhotoService(
		photoRepo, collectedRepo, profileRepo, challengeRepo, achievementService, uploader,
	)
	hub := services.NewHub()

	// Initialize handlers
	notifier := handlers.NewNotifier(hub, pushNotifier, profileService)
	authHandler := handlers.NewAuthHandler(profileService)
	profileHandler := handlers.NewProfileHandler(profileService, achievementService)
	friendHandler := handlers.NewFriendHandler(friendService, profileService, notifier)
	challengeHandler := handlers.NewChallengeHandler(challengeService, notifier)
	photoHandler := handlers.NewPhotoHandler(photoService, notifier)
	wsHandler := handlers.NewWebSocketHandler(hub, profileService)

	// Setup router
	r := chi.NewRouter()

	// Middleware
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(corsMiddleware)

	// Routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public routes
		r.Post("/auth/signin", authHandler.SignIn)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(profileService))

			r.Post("/auth/signout", authHandler.SignOut)

			r.Get("/profiles/me", profileHandler.GetMe)
			r.Post("/profiles/onboarding", profileHandler.CompleteOnboarding)
			r.Put("/profiles/push-token", profileHandler.UpdatePushToken)
			r.Get("/profiles/{id}", profileHandler.GetByID)

			r.Get("/friends", friendHandler.ListFriends)
			r.Delete("/friends/{id}", friendHandler.Unfriend)
			r.Get("/friends/requests", friendHandler.ListRequests)
			r.Post("/friends/requests", friendHandler.SendRequest)
			r.Post("/friends/requests/accept", friendHandler.AcceptRequest)
			r.Post("/friends/requests/deny", friendHandler.DenyRequest)

			r.Get("/challenges", challengeHandler.ListActive)
			r.Get("/challenges/requests", challengeHandler.ListRequests)
			r.Post("/challenges/requests", challengeHandler.SendRequest)
			r.Post("/challenges/requests/{id}/accept", challengeHandler.AcceptRequest)
			r.Post("/challenges/requests/{id}/deny", challengeHandler.DenyRequest)

			r.Get("/achievements", profileHandler.ListAchievements)

			r.Post("/photos/upload", photoHandler.Upload)
			r.Get("/photos/nearby", photoHandler.Nearby)
			r.Post("/photos/{id}/collect", photoHandler.Collect)
		})
	})

	// WebSocket route
	r.Get("/ws", wsHandler.HandleWebSocket)

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("host", cfg.Server.Host).
			Int("port", cfg.Server.Port).
			Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	if err := redisClient.Close(); err != nil {
		log.Error().Err(err).Msg("Failed to close Redis client")
	}

	log.Info().Msg("Server exited")
}

// setupLogger configures zerolog logger
func setupLogger(level string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

// corsMiddleware handles CORS
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
