package main // Entry point for the booking expiry sweeper

import (
    "context"
    "log"
    "os"
    "os/signal"
    "syscall"
    "time"

    "github.com/joho/godotenv"

    "github.com/iliyamo/stage-slot-booking/internal/booking"
    "github.com/iliyamo/stage-slot-booking/internal/clock"
    "github.com/iliyamo/stage-slot-booking/internal/config"
    "github.com/iliyamo/stage-slot-booking/internal/database"
    "github.com/iliyamo/stage-slot-booking/internal/repository"
)

// The sweeper runs alongside the API server against the same database.
// Each pass expires bookings that sat in PENDING past their deadline,
// frees their slots and records a strike against the party that let the
// request rot.  Row locks make a pass safe to run while the server is
// accepting and rejecting the same bookings.
func main() {
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
    bookings := repository.NewBookingRepo(db)
    slots := repository.NewSlotRepo(db)
    bands := repository.NewBandRepo(db)
    sanctionRepo := repository.NewSanctionRepo(db)

    clk := clock.NewSystem()
    sanctions := booking.NewSanctionService(runner, sanctionRepo, clk)
    sweeper := booking.NewSweeper(runner, bookings, slots, bands, sanctions, clk)

    interval := time.Duration(cfg.SweepEveryMin) * time.Minute
    log.Printf("sweeping every %s", interval)

    ticker := time.NewTicker(interval)
    defer ticker.Stop()

    quit := make(chan os.Signal, 1)
    signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

    // First pass immediately on startup, then on every tick.
    runPass(sweeper)
    for {
        select {
        case <-ticker.C:
            runPass(sweeper)
        case sig := <-quit:
            log.Printf("received %s, stopping", sig)
            return
        }
    }
}

func runPass(s *booking.Sweeper) {
    ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
    defer cancel()

    report, err := s.SweepExpiredBookings(ctx)
    if err != nil {
        log.Printf("sweep failed: %v", err)
        return
    }
    log.Printf("sweep done: expired=%d strikes=%d", len(report.Expired), len(report.Strikes))
    for _, out := range report.Strikes {
        if out.Frozen {
            log.Printf("person %d frozen at %d strikes", out.PersonID, out.StrikeCount)
        } else if out.Warned {
            log.Printf("person %d warned at %d strikes", out.PersonID, out.StrikeCount)
        }
    }
    for _, ferr := range report.StrikeFailures {
        log.Printf("strike not recorded: %v", ferr)
    }
}
