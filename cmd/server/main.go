package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/TEJASVISJAIN/fcb-hyderabad-backend/internal/config"
	"github.com/TEJASVISJAIN/fcb-hyderabad-backend/internal/database"
	"github.com/TEJASVISJAIN/fcb-hyderabad-backend/internal/handler"
	"github.com/TEJASVISJAIN/fcb-hyderabad-backend/internal/jobs"
	"github.com/TEJASVISJAIN/fcb-hyderabad-backend/internal/middleware"
	"github.com/TEJASVISJAIN/fcb-hyderabad-backend/internal/queue"
	"github.com/TEJASVISJAIN/fcb-hyderabad-backend/internal/repository"
	"github.com/TEJASVISJAIN/fcb-hyderabad-backend/internal/router"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis backs rate limiting and the response cache. A nil client just
	// turns both middlewares into pass-throughs.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable, rate limiting and response caching disabled")
	}

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	events := repository.NewEventRepo(db)
	locks := repository.NewSeatLockRepo(db)
	bookings := repository.NewBookingRepo(db)
	blogs := repository.NewBlogRepo(db)
	products := repository.NewProductRepo(db)
	carts := repository.NewCartRepo(db)
	orders := repository.NewOrderRepo(db)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.RateLimit(config.LoadRateLimitConfig(), rdb))
	e.Use(middleware.ResponseCache(config.LoadCacheConfig(), rdb))

	router.RegisterRoutes(e, cfg.UploadDir)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, users, tokens, carts), cfg.JWTSecret)
	router.RegisterEvents(e, handler.NewEventHandler(cfg, events, bookings), handler.NewSeatLockHandler(events, locks, cfg.LockTTL), cfg.JWTSecret)
	router.RegisterBookings(e, handler.NewBookingHandler(cfg, events, bookings, locks), cfg.JWTSecret)
	router.RegisterContent(e, handler.NewBlogHandler(blogs), cfg.JWTSecret)
	router.RegisterShop(e, handler.NewProductHandler(products), handler.NewCartHandler(carts, products), handler.NewOrderHandler(cfg, orders, products, carts), cfg.JWTSecret)

	sweeper := jobs.NewSweeper(locks, cfg.SweepInterval)
	sweeper.Start()
	defer sweeper.Stop()

	// Notification consumers reconnect on their own; a dead broker must not
	// keep the API from serving.
	go func() {
		if err := queue.StartBookingConsumer(); err != nil {
			log.Printf("booking consumer stopped: %v", err)
		}
	}()
	go func() {
		if err := queue.StartOrderConsumer(); err != nil {
			log.Printf("order consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
