// Command server boots the booking backend: configuration, logging, tracing,
// storage, the background hold sweeper, and the HTTP API.
//
// @title       Screen Booking API
// @version     1.0
// @description Screen reservation, payment session, and reconciliation backend.
// @BasePath    /api/v1
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/joho/godotenv/autoload"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/slotcast/go-booking-backend/internal/config"
	httpapi "github.com/slotcast/go-booking-backend/internal/http"
	"github.com/slotcast/go-booking-backend/internal/observability"
	"github.com/slotcast/go-booking-backend/internal/repo"
	"github.com/slotcast/go-booking-backend/internal/services"
	"github.com/slotcast/go-booking-backend/internal/sysutil"
	"github.com/slotcast/go-booking-backend/pkg/payment"
)

// version is stamped at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cfg := config.MustLoad()
	version = sysutil.FirstNonEmpty(os.Getenv("APP_VERSION"), version)

	// Logging
	sysutil.SetLogLevel(cfg.LogLevel)
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Tracing
	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, version)
	if err != nil {
		log.Fatal().Err(err).Msg("otel setup failed")
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownOTel(sctx); err != nil {
			log.Warn().Err(err).Msg("otel shutdown failed")
		}
	}()

	// Storage
	db, err := repo.OpenSQLite(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("open database failed")
	}
	if err := repo.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("migrate failed")
	}

	// Redis (rate limit counters)
	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid REDIS_URL")
	}
	rdb := redis.NewClient(redisOpts)
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Warn().Err(err).Msg("redis close failed")
		}
	}()

	// Payment provider (stub in this deployment; swap behind the interface)
	provider := &payment.StubProvider{CheckoutBase: cfg.Payment.CheckoutBase}

	// Background sweeper: expire stale holds, complete elapsed bookings.
	// DISABLE_SWEEPER is an escape hatch for multi-replica deployments that
	// run the sweep from a single dedicated instance.
	if !sysutil.IsTruthy(os.Getenv("DISABLE_SWEEPER")) {
		sweeper := services.NewReservationService(db, cfg.Currency, cfg.HoldTTL)
		go runSweeper(ctx, sweeper, cfg.SweepInterval)
	}

	// HTTP
	gin.SetMode(cfg.GinMode)
	r := gin.New()
	httpapi.RegisterRoutes(r, db, rdb, provider, cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Str("version", version).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutdown signal received")

	sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	log.Info().Msg("server stopped")
}

// runSweeper periodically reclaims expired holds and closes out elapsed
// reservations until the context is cancelled.
func runSweeper(ctx context.Context, svc *services.ReservationService, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			expired, completed, err := svc.Sweep(ctx)
			if err != nil {
				log.Warn().Err(err).Msg("sweep failed")
				continue
			}
			if expired > 0 || completed > 0 {
				log.Info().
					Int64("expired", expired).
					Int64("completed", completed).
					Msg("sweep")
			}
		}
	}
}
