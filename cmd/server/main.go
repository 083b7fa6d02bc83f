package main // Entry point package

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"tablebook/internal/config"
	"tablebook/internal/database"
	"tablebook/internal/handler"
	"tablebook/internal/middleware"
	"tablebook/internal/queue"
	"tablebook/internal/repository"
	"tablebook/internal/router"
)

func main() {
	// Load .env if present; real deployments export variables directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}

	// Redis is optional: a nil client disables caching and rate limiting.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; response cache and rate limiter disabled")
	}

	tableRepo := repository.NewTableRepo(db)
	reservationRepo := repository.NewReservationRepo(db)
	userRepo := repository.NewUserRepo(db)
	tokenRepo := repository.NewTokenRepo(db)

	authHandler := handler.NewAuthHandler(cfg, userRepo, tokenRepo)
	tableHandler := handler.NewTableHandler(tableRepo, reservationRepo)
	reservationHandler := handler.NewReservationHandler(tableRepo, reservationRepo)
	statsHandler := handler.NewStatsHandler(reservationRepo)
	staffUserHandler := handler.NewStaffUserHandler(cfg, userRepo, tokenRepo)

	e := echo.New()
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())

	ratelimit := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authHandler, cfg.JWTSecret)
	router.RegisterPublic(e, tableHandler, reservationHandler, cfg.JWTSecret, ratelimit, cache)
	router.RegisterStaff(e, tableHandler, reservationHandler, statsHandler, staffUserHandler, cfg.JWTSecret)

	// Audit log consumer; runs its own reconnect loop forever.
	go func() {
		if err := queue.StartReservationConsumer(); err != nil {
			log.Printf("reservation-consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
