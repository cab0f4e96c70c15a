package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prasetya/wholesale-coupon-guard/internal/config"
	httphandler "github.com/prasetya/wholesale-coupon-guard/internal/delivery/http"
	"github.com/prasetya/wholesale-coupon-guard/internal/delivery/kafka"
	"github.com/prasetya/wholesale-coupon-guard/internal/domain"
	"github.com/prasetya/wholesale-coupon-guard/internal/hooks"
	"github.com/prasetya/wholesale-coupon-guard/internal/platform"
	"github.com/prasetya/wholesale-coupon-guard/internal/repository"
	"github.com/prasetya/wholesale-coupon-guard/internal/session"
	"github.com/prasetya/wholesale-coupon-guard/internal/usecase"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
	"github.com/twmb/franz-go/pkg/kgo"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := initDB(cfg)
	if err != nil {
		zlog.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()

	if err := repository.RunMigrations(pool, "db/migrations"); err != nil {
		zlog.Fatal().Err(err).Msg("failed to run migrations")
	}

	store := repository.New(pool)

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDatabase(),
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		zlog.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer rdb.Close()

	sessions := session.NewStore(rdb, time.Duration(cfg.SessionTTLMinutes())*time.Minute)

	var publisher usecase.RemovalPublisher
	var kafkaClient *kgo.Client
	if cfg.EventDrivenEnabled == "true" {
		kafkaClient, err = kgo.NewClient(
			kgo.SeedBrokers(strings.Split(cfg.KafkaBrokers, ",")...),
			kgo.ClientID(cfg.KafkaClientID),
		)
		if err != nil {
			zlog.Fatal().Err(err).Msg("failed to create kafka client")
		}
		if err := kafka.EnsureTopics(ctx, kafkaClient, cfg); err != nil {
			zlog.Warn().Err(err).Msg("failed to ensure kafka topics")
		}
		publisher = kafka.NewPublisher(kafkaClient)
	} else {
		publisher = kafka.NewNoopPublisher()
	}

	gate := platform.NewGate()
	guard := usecase.NewCheckoutGuard(gate, sessions, store, publisher)

	dispatcher := hooks.NewRegistry()
	dispatcher.Register(hooks.PlatformInit, 10, func(ctx context.Context, payload any) error {
		info, ok := payload.(platform.Info)
		if !ok {
			return fmt.Errorf("unexpected payload for %s: %T", hooks.PlatformInit, payload)
		}
		gate.Check(info)
		return nil
	})
	// Early priority: coupons must be stripped before any later
	// validator finalizes totals.
	dispatcher.Register(hooks.CheckoutValidate, 5, func(ctx context.Context, payload any) error {
		sub, ok := payload.(domain.CheckoutSubmission)
		if !ok {
			return fmt.Errorf("unexpected payload for %s: %T", hooks.CheckoutValidate, payload)
		}
		return guard.ValidateCheckout(ctx, sub)
	})

	if err := dispatcher.Fire(ctx, hooks.PlatformInit, platform.Info{
		Name:    cfg.PlatformName,
		Version: cfg.PlatformVersion,
	}); err != nil {
		zlog.Fatal().Err(err).Msg("platform init failed")
	}

	handler := httphandler.NewHandler(dispatcher, sessions, store, gate)

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())

	handler.Routes(r)

	srv := &http.Server{
		Addr:    ":" + cfg.AppPort,
		Handler: r,
	}

	wg := sync.WaitGroup{}
	wg.Add(1)
	go func() {
		defer wg.Done()
		zlog.Info().Str("port", cfg.AppPort).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zlog.Error().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	zlog.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlog.Error().Err(err).Msg("http shutdown error")
	}

	if kafkaClient != nil {
		kafkaClient.Close()
	}

	wg.Wait()
	zlog.Info().Msg("shutdown complete")
}

func initDB(cfg *config.Config) (*pgxpool.Pool, error) {
	connStr := fmt.Sprintf(
		"postgresql://%s:%s@%s:%s/%s?sslmode=%s",
		cfg.DBUser,
		cfg.DBPassword,
		cfg.DBHost,
		cfg.DBPort,
		cfg.DBName,
		cfg.DBSSLMode,
	)

	pool, err := pgxpool.New(context.Background(), connStr)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	if err := pool.Ping(context.Background()); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	return pool, nil
}
