package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"kuic/config"
	"kuic/db"
	"kuic/logging"
	"kuic/metrics"
	"kuic/middleware"
	"kuic/mq"
	"kuic/ratelim"
	"kuic/rdx"
	"kuic/routes"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// load .env if present
	envErr := godotenv.Load()

	if err := logging.Init(os.Getenv("APP_ENV")); err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logging.Sync()
	if envErr != nil {
		logging.Info("no .env file found; using system environment")
	}

	cfg, err := config.Load(config.Path())
	if err != nil {
		logging.Fatal("load config", "error", err)
	}

	if err := run(cfg); err != nil {
		logging.Fatal("server stopped", "error", err)
	}
	logging.Info("server stopped cleanly")
}

func run(cfg *config.Config) error {
	ctx := context.Background()
	reg := metrics.NewRegistry()

	var repos *db.Repositories
	switch cfg.Store.Driver {
	case config.DriverMemory:
		logging.Warn("using in-memory store; data is lost on restart")
		repos = db.NewMemoryRepositories(reg)
	default:
		store, err := db.Connect(ctx, cfg.Store.URI, cfg.Store.Database)
		if err != nil {
			return err
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := store.Close(ctx); err != nil {
				logging.Error("close mongo", "error", err)
			}
		}()
		if err := db.EnsureIndexes(ctx, store); err != nil {
			return err
		}
		logging.Info("connected to mongo", "database", cfg.Store.Database)
		repos = db.NewMongoRepositories(store, reg)
	}

	var publisher mq.Publisher = mq.Nop{}
	if cfg.Redis.URL != "" {
		client, err := rdx.Connect(ctx, cfg.Redis.URL)
		if err != nil {
			return err
		}
		defer func() {
			if err := client.Close(); err != nil {
				logging.Error("close redis", "error", err)
			}
		}()
		publisher = mq.NewRedisPublisher(client, cfg.Events.Channel)
		logging.Info("publishing content changes", "channel", cfg.Events.Channel)
	}

	limiter := ratelim.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	stop := make(chan struct{})
	defer close(stop)
	if limiter.Enabled() {
		go limiter.Run(time.Minute, stop)
	}

	if cfg.Auth.JWTSecret == "" {
		logging.Warn("ADMIN_JWT_SECRET not set; write routes are open")
	}

	router := routes.New(routes.Deps{
		Repos:     repos,
		Publisher: publisher,
		Metrics:   reg,
		Limiter:   limiter,
		JWTSecret: cfg.Auth.JWTSecret,
		Timeout:   cfg.StoreTimeout(),
	})

	// CORS → request id → security headers → logging → router
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORS.Origins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
	})
	handler := corsHandler.Handler(middleware.RequestID(middleware.SecurityHeaders(middleware.Logging(router))))

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadTimeout:       7 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info("server listening", "addr", server.Addr, "driver", cfg.Store.Driver)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// wait for interrupt or SIGTERM
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		logging.Info("shutdown signal received", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
