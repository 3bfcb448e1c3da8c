package main // Entry point package

import (
	"log"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/rmartelo/cine-admin/internal/config"
	"github.com/rmartelo/cine-admin/internal/database"
	"github.com/rmartelo/cine-admin/internal/handler"
	"github.com/rmartelo/cine-admin/internal/middleware"
	"github.com/rmartelo/cine-admin/internal/queue"
	"github.com/rmartelo/cine-admin/internal/repository"
	"github.com/rmartelo/cine-admin/internal/router"
)

func main() {
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	h := handler.New(
		repository.NewMovieRepo(db),
		repository.NewRoomRepo(db),
		repository.NewShowtimeRepo(db),
		repository.NewScreeningRepo(db),
	)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())

	// Redis is optional: when unreachable both middlewares degrade to
	// pass-through.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis: unavailable, response cache and rate limiting disabled")
	}
	rl := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	rc := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	router.RegisterRoutes(e)
	router.RegisterAPI(e, h, rl, rc)

	// Audit trail: consume schedule.changed events in the background.
	go func() {
		if err := queue.StartScheduleConsumer(); err != nil {
			log.Printf("schedule-consumer: stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
