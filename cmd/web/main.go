package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	healthgrpc "restaurante/internal/clients/health/grpc"
	"restaurante/internal/clients/restaurante"
	"restaurante/internal/config"
	"restaurante/internal/lib/logger/sl"
	"restaurante/internal/web"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/joho/godotenv"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func main() {
	loadLocalEnv()

	cfg := config.MustLoadWeb("./config/web.yaml")
	log := setupLogger(cfg.Env)

	log.Info("starting booking web client", slog.String("env", cfg.Env), slog.String("api", cfg.APIClient.BaseURL))

	if cfg.PageTimeout <= 0 || cfg.PageTimeout >= cfg.HTTPServer.Timeout {
		log.Error("page_timeout must be positive and below http_server.timeout",
			slog.Duration("page_timeout", cfg.PageTimeout),
			slog.Duration("write_timeout", cfg.HTTPServer.Timeout),
		)
		os.Exit(1)
	}

	apiClient := restaurante.New(log, cfg.APIClient.BaseURL, cfg.APIClient.Timeout, nil)

	// * API health grpc client
	healthClient, err := healthgrpc.New(
		context.Background(),
		log,
		cfg.HealthClient.Address,
		healthgrpc.ServiceName,
		cfg.HealthClient.Timeout,
		cfg.HealthClient.RetriesCount,
	)
	if err != nil {
		log.Error("failed to init grpc health client", sl.Err(err))
		os.Exit(1)
	}
	defer healthClient.Close()

	pages := web.New(log, apiClient, web.Options{
		UserID:             cfg.UserID,
		LoginRedirectDelay: cfg.LoginRedirectDelay,
		PageTimeout:        cfg.PageTimeout,
	})

	// * Routing
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/", pages.Redirect)
	r.Get("/healthz", web.Health(log, healthClient))
	r.Get("/*", pages.ServeHTTP)
	r.Post("/*", pages.ServeHTTP)

	srv := &http.Server{
		Addr:         cfg.HTTPServer.Address,
		Handler:      r,
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	go func() {
		log.Info("HTTP server starting", slog.String("addr", cfg.HTTPServer.Address))

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", sl.Err(err))
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGTERM, syscall.SIGINT)

	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", sl.Err(err))
	}

	log.Info("booking web client gracefully stopped")
}

func loadLocalEnv() {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found; relying on existing environment")
	}
}

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	default:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	}

	return log
}
