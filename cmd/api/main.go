package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	authhttp "github.com/agrochain/agrochain/internal/auth/adapters/http"
	authpostgres "github.com/agrochain/agrochain/internal/auth/adapters/postgres"
	authapp "github.com/agrochain/agrochain/internal/auth/app"
	"github.com/agrochain/agrochain/internal/auth/token"
	"github.com/agrochain/agrochain/internal/config"
	cropshttp "github.com/agrochain/agrochain/internal/crops/adapters/http"
	cropspostgres "github.com/agrochain/agrochain/internal/crops/adapters/postgres"
	cropsredis "github.com/agrochain/agrochain/internal/crops/adapters/redis"
	cropsapp "github.com/agrochain/agrochain/internal/crops/app"
	cropsports "github.com/agrochain/agrochain/internal/crops/ports"
	"github.com/agrochain/agrochain/internal/database"
	idempostgres "github.com/agrochain/agrochain/internal/idempotency/postgres"
	"github.com/agrochain/agrochain/internal/kafka"
	ordersadapters "github.com/agrochain/agrochain/internal/orders/adapters"
	ordershttp "github.com/agrochain/agrochain/internal/orders/adapters/http"
	orderspostgres "github.com/agrochain/agrochain/internal/orders/adapters/postgres"
	ordersapp "github.com/agrochain/agrochain/internal/orders/app"
	ordersmetrics "github.com/agrochain/agrochain/internal/orders/metrics"
	orderports "github.com/agrochain/agrochain/internal/orders/ports"
	"github.com/agrochain/agrochain/internal/telemetry"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

func main() {
	// Missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := telemetry.NewLogger(telemetry.ParseLevel(cfg.Telemetry.LogLevel))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tel, err := telemetry.Initialize(ctx, telemetry.Config{
		ServiceName:    cfg.Service.Name,
		ServiceVersion: cfg.Service.Version,
		Environment:    cfg.Service.Environment,
		OTLPEndpoint:   cfg.Telemetry.OTLPEndpoint,
		EnableTracing:  cfg.Telemetry.EnableTracing,
		EnableMetrics:  cfg.Telemetry.EnableMetrics,
		SampleRate:     cfg.Telemetry.SampleRate,
	})
	if err != nil {
		logger.Error("failed to initialize telemetry", "error", err)
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tel.Shutdown(shutdownCtx); err != nil {
			logger.Error("telemetry shutdown failed", "error", err)
		}
	}()

	pool, err := database.NewPool(ctx, cfg.Database.URL)
	if err != nil {
		logger.Error("failed to create database pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if cfg.Database.AutoMigrate {
		logger.Info("running database migrations", "path", cfg.Database.MigrationsPath)
		if err := database.RunMigrations(cfg.Database.URL, cfg.Database.MigrationsPath); err != nil {
			logger.Error("failed to run migrations", "error", err)
			os.Exit(1)
		}
		logger.Info("migrations completed successfully")
	}

	meter := tel.MeterProvider().Meter("github.com/agrochain/agrochain/cmd/api")

	dbMetrics, err := database.NewMetrics(meter)
	if err != nil {
		logger.Error("failed to create database metrics", "error", err)
		os.Exit(1)
	}

	kafkaMetrics, err := kafka.NewMetrics(meter)
	if err != nil {
		logger.Error("failed to create kafka metrics", "error", err)
		os.Exit(1)
	}

	orderMetrics, err := ordersmetrics.NewMetrics(tel.MeterProvider())
	if err != nil {
		logger.Error("failed to create order metrics", "error", err)
		os.Exit(1)
	}

	tokens := token.NewIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	authMW := authhttp.RequireAuth(tokens)

	userRepo := authpostgres.NewRepository(pool)
	authService := authapp.NewService(userRepo, tokens, logger)

	var listingCache cropsports.ListingCache
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
		if err := client.Ping(ctx).Err(); err != nil {
			logger.Error("failed to connect to redis", "error", err, "addr", cfg.Redis.Addr)
			os.Exit(1)
		}
		defer client.Close()
		listingCache = cropsredis.NewCache(client)
		logger.Info("listing cache enabled", "addr", cfg.Redis.Addr)
	}

	cropRepo := cropspostgres.NewRepository(pool)
	cropsService := cropsapp.NewService(cropRepo, listingCache, logger)

	var eventBus orderports.EventBus
	if len(cfg.Kafka.Brokers) > 0 {
		producer := kafka.NewEventBus(cfg.Kafka.Brokers, cfg.Kafka.Topic, cfg.Service.Name)
		defer producer.Close()
		eventBus = ordersadapters.NewObservableEventBus(producer, kafkaMetrics)
		logger.Info("order events enabled", "brokers", cfg.Kafka.Brokers, "topic", cfg.Kafka.Topic)
	} else {
		eventBus = kafka.NewNoopEventBus()
	}

	orderRepo := ordersadapters.NewObservableRepository(orderspostgres.NewRepository(pool), dbMetrics)
	idemStore := idempostgres.NewStore(pool)
	ordersService := ordersapp.NewService(orderRepo, eventBus, idemStore, listingCache, logger, orderMetrics)

	router := chi.NewRouter()
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(requestLogging(logger))
	router.Use(chimiddleware.Recoverer)
	router.Use(chimiddleware.Timeout(30 * time.Second))

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if err := database.CheckHealth(r.Context(), pool); err != nil {
			respondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not ready", "error": err.Error()})
			return
		}
		respondJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	})

	authhttp.NewHandler(authService).Register(router, authMW)
	cropshttp.NewHandler(cropsService).Register(router, authMW)
	ordershttp.NewHandler(ordersService).Register(router, authMW)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("http server starting", "port", cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownGrace)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	} else {
		logger.Info("http server stopped")
	}
}

func requestLogging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.InfoContext(r.Context(), "http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration", time.Since(start),
				"request_id", chimiddleware.GetReqID(r.Context()),
			)
		})
	}
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
