package main

import (
	"log"
	"net/http"
	"os"

	"github.com/chirpysocial/backend/internal/api"
	"github.com/chirpysocial/backend/internal/auth"
	"github.com/chirpysocial/backend/internal/cache"
	"github.com/chirpysocial/backend/internal/chirps"
	"github.com/chirpysocial/backend/internal/config"
	"github.com/chirpysocial/backend/internal/db"
	"github.com/chirpysocial/backend/internal/health"
	"github.com/chirpysocial/backend/internal/logger"
	"github.com/chirpysocial/backend/internal/metrics"
	"github.com/chirpysocial/backend/internal/middleware"
	"github.com/chirpysocial/backend/internal/webhooks"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.SetDefault(logger.New(os.Stdout, logger.ParseLevel(os.Getenv("LOG_LEVEL")), ""))

	database, err := db.New(cfg.DBURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	redisCache, err := cache.New(cfg.RedisAddr)
	if err != nil {
		log.Fatalf("Failed to connect to redis: %v", err)
	}
	defer redisCache.Close()

	userRepo := db.NewUserRepository(database)
	tokenRepo := db.NewTokenRepository(database)
	chirpRepo := db.NewChirpRepository(database)

	authService := auth.NewService(userRepo, tokenRepo, cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	authHandlers := auth.NewHandlers(authService)
	chirpHandlers := chirps.NewHandlers(chirpRepo, redisCache)
	webhookHandlers := webhooks.NewHandlers(userRepo, cfg.PolkaKey)

	hits := metrics.NewHits(redisCache)
	adminHandlers := api.NewAdminHandlers(hits, userRepo, cfg.Platform)
	healthChecker := health.NewChecker(database, redisCache)

	router := api.NewRouter(authHandlers, authService, chirpHandlers, webhookHandlers, adminHandlers, healthChecker, hits, "./app")

	handler := middleware.Chain(router,
		middleware.RequestID,
		middleware.Logging(logger.Default().WithComponent("http")),
		middleware.CORS([]string{"*"}),
	)

	log.Printf("Starting server on %s", cfg.ServerAddr)
	if err := http.ListenAndServe(cfg.ServerAddr, handler); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
