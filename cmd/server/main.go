package main // Entry point for the booking API server

import (
    "log" // Logging library

    "github.com/joho/godotenv"    // Loads .env files in local development
    "github.com/labstack/echo/v4" // Echo web framework

    "github.com/iliyamo/stage-slot-booking/internal/booking"    // Booking lifecycle engine
    "github.com/iliyamo/stage-slot-booking/internal/clock"      // Time source
    "github.com/iliyamo/stage-slot-booking/internal/config"     // Environment config loader
    "github.com/iliyamo/stage-slot-booking/internal/database"   // MySQL connection
    "github.com/iliyamo/stage-slot-booking/internal/handler"    // HTTP handlers
    "github.com/iliyamo/stage-slot-booking/internal/middleware" // Rate limiting and response cache
    "github.com/iliyamo/stage-slot-booking/internal/queue"      // Notification consumer
    "github.com/iliyamo/stage-slot-booking/internal/repository" // MySQL repositories
    "github.com/iliyamo/stage-slot-booking/internal/router"     // Route registration
    queue_publisher "github.com/iliyamo/stage-slot-booking/internal/service"
)

func main() {
    // .env is optional; real deployments set variables in the environment.
    if err := godotenv.Load(); err != nil {
        log.Printf("no .env file loaded: %v", err)
    }
    cfg := config.Load()

    db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
    if err != nil {
        log.Fatalf("database: %v", err)
    }
    defer db.Close()

    runner := repository.NewRunner(db)
    persons := repository.NewPersonRepo(db)
    tokens := repository.NewTokenRepo(db)
    venues := repository.NewVenueRepo(db)
    calendars := repository.NewCalendarRepo(db)
    slots := repository.NewSlotRepo(db)
    bookings := repository.NewBookingRepo(db)
    chats := repository.NewChatRepo(db)
    reviews := repository.NewReviewRepo(db)
    sanctions := repository.NewSanctionRepo(db)
    bands := repository.NewBandRepo(db)

    clk := clock.NewSystem()
    events := queue_publisher.New(cfg.RabbitURL)

    calendarSvc := booking.NewCalendarService(runner, calendars, clk)
    bookingSvc := booking.NewBookingService(runner, slots, bookings, chats, bands, events, clk)
    reviewSvc := booking.NewReviewService(runner, reviews, bookings, clk)

    authH := handler.NewAuthHandler(cfg, runner, persons, sanctions, tokens)
    calH := handler.NewCalendarHandler(calendarSvc, calendars, venues)
    bkH := handler.NewBookingHandler(bookingSvc, bookings, bands)
    rvH := handler.NewReviewHandler(reviewSvc, reviews, persons)
    chH := handler.NewChatHandler(chats, bookings)
    bdH := handler.NewBandHandler(bands)
    pubH := handler.NewPublicHandler(venues, calendars)

    // The consumer writes booking notifications to a local log file.  It
    // reconnects on broker failure and never takes the API down with it.
    if cfg.RabbitURL != "" {
        go func() {
            if err := queue.StartNotificationConsumer(cfg.RabbitURL); err != nil {
                log.Printf("notification consumer stopped: %v", err)
            }
        }()
    }

    e := echo.New()
    router.RegisterRoutes(e)
    router.RegisterAuth(e, authH, cfg.JWTSecret)
    router.RegisterBooking(e, cfg.JWTSecret, calH, bkH, rvH, chH, bdH)

    // Public browse endpoints sit behind the Redis token bucket and the
    // response cache.  Authenticated routes are never cached.
    rdb := config.NewRedisClient()
    router.RegisterPublic(e, pubH,
        middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb),
        middleware.NewRedisCache(config.LoadCacheConfig(), rdb),
    )

    addr := ":" + cfg.Port
    log.Printf("listening on %s (env=%s)", addr, cfg.Env)
    if err := e.Start(addr); err != nil {
        log.Fatal(err)
    }
}
