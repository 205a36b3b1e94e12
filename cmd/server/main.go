package main

import (
    "log"

    "github.com/joho/godotenv"
    "github.com/labstack/echo/v4"

    "github.com/iliyamo/restaurant-reservation/internal/booking"
    "github.com/iliyamo/restaurant-reservation/internal/config"
    "github.com/iliyamo/restaurant-reservation/internal/database"
    "github.com/iliyamo/restaurant-reservation/internal/handler"
    "github.com/iliyamo/restaurant-reservation/internal/middleware"
    "github.com/iliyamo/restaurant-reservation/internal/pricing"
    "github.com/iliyamo/restaurant-reservation/internal/queue"
    "github.com/iliyamo/restaurant-reservation/internal/repository"
    "github.com/iliyamo/restaurant-reservation/internal/router"
)

func main() {
    _ = godotenv.Load() // .env is optional; real env always wins

    cfg := config.Load()

    db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
    if err != nil {
        log.Fatalf("database: %v", err)
    }
    defer db.Close()

    rdb := config.NewRedisClient()
    if rdb == nil {
        log.Println("redis unavailable; rate limiting and caching disabled")
    }

    // Repositories.
    userRepo := repository.NewUserRepo(db)
    guestRepo := repository.NewGuestRepo(db)
    tableRepo := repository.NewTableRepo(db)
    reservationRepo := repository.NewReservationRepo(db)
    catalogRepo := repository.NewCatalogRepo(db)
    orderRepo := repository.NewOrderRepo(db)

    // Booking and pricing cores.
    hours := booking.Hours{
        Opening:      cfg.OpeningHour,
        Closing:      cfg.ClosingHour,
        SlotDuration: cfg.SlotDuration,
    }
    schedule := booking.NewSchedule(hours, tableRepo, reservationRepo)
    allocator := booking.NewAllocator(hours, tableRepo, reservationRepo, cfg.DefaultStatus)
    pricer := pricing.NewPricer(catalogRepo)

    // Handlers.
    authH := handler.NewAuthHandler(cfg, userRepo)
    reservationH := handler.NewReservationHandler(cfg, schedule, allocator, reservationRepo, tableRepo)
    tableH := handler.NewTableHandler(tableRepo)
    dishH := handler.NewDishHandler(catalogRepo)
    orderH := handler.NewOrderHandler(cfg, orderRepo, pricer)
    guestH := handler.NewGuestHandler(guestRepo)

    e := echo.New()
    e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
    cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

    router.RegisterRoutes(e)
    router.RegisterAuth(e, authH, cfg.JWTSecret)
    router.RegisterPublic(e, reservationH, tableH, dishH, orderH, cache)
    router.RegisterCustomer(e, reservationH, orderH, cfg.JWTSecret)
    router.RegisterAdmin(e, reservationH, tableH, orderH, guestH, cfg.JWTSecret)

    go func() {
        if err := queue.StartReservationConsumer(); err != nil {
            log.Printf("reservation consumer stopped: %v", err)
        }
    }()

    addr := ":" + cfg.Port
    log.Printf("listening on %s (env=%s)", addr, cfg.Env)
    if err := e.Start(addr); err != nil {
        log.Fatal(err)
    }
}
