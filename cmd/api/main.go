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

	grpcapp "restaurante/internal/app/grpc"
	"restaurante/internal/config"
	addmenuitem "restaurante/internal/http-server/handlers/add_menu_item"
	createreservation "restaurante/internal/http-server/handlers/create_reservation"
	createtable "restaurante/internal/http-server/handlers/create_table"
	createuser "restaurante/internal/http-server/handlers/create_user"
	listmenu "restaurante/internal/http-server/handlers/list_menu"
	listtables "restaurante/internal/http-server/handlers/list_tables"
	menubycategory "restaurante/internal/http-server/handlers/menu_by_category"
	tablereservations "restaurante/internal/http-server/handlers/table_reservations"
	"restaurante/internal/http-server/middleware/cors"
	"restaurante/internal/lib/logger/sl"
	"restaurante/internal/rabbitmq"
	"restaurante/internal/services/menu"
	"restaurante/internal/services/reservations"
	"restaurante/internal/services/tables"
	"restaurante/internal/services/users"
	"restaurante/internal/storage/postgres"
	"restaurante/internal/storage/redis"

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

	cfg := config.MustLoadAPI("./config/api.yaml")
	log := setupLogger(cfg.Env)

	log.Info("starting booking api", slog.String("env", cfg.Env))

	// * gRPC health, NOT_SERVING until storage is up
	grpcApp := grpcapp.New(log, cfg.GRPC.Port)
	go grpcApp.MustRun()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// * RabbitMQ
	rabbitMQClient, err := rabbitmq.New(cfg.RabbitMQ.URL, cfg.RabbitMQ.QueueName)
	if err != nil {
		log.Error("failed to init RabbitMQ", sl.Err(err))
		os.Exit(1)
	}
	defer rabbitMQClient.Close()

	// * Postgres
	postgresRepo, err := postgres.Connect(ctx, cfg.Postgres)
	if err != nil {
		log.Error("failed to connect to postgres", sl.Err(err))
		os.Exit(1)
	}
	defer postgresRepo.Close()

	// * Redis
	redisRepo, err := redis.New(ctx, cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		log.Error("failed to connect to redis", sl.Err(err))
		os.Exit(1)
	}
	defer redisRepo.Close()

	grpcApp.SetServing(true)

	userService := users.New(log, postgresRepo, postgresRepo, postgresRepo)
	tableService := tables.New(log, postgresRepo)
	reservationService := reservations.New(log, postgresRepo, postgresRepo, postgresRepo, rabbitMQClient)
	menuService := menu.New(log, redisRepo)

	// * Routing
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.New(cfg.AllowedOrigins))

	// * Handlers
	r.Route("/api", func(r chi.Router) {
		r.Post("/usuarios", createuser.New(log, userService))

		r.Get("/mesas", listtables.New(log, tableService))
		r.Post("/mesas", createtable.New(log, tableService))
		r.Get("/mesas/{id}/reservas", tablereservations.New(log, reservationService))

		r.Post("/reservas", createreservation.New(log, reservationService))

		r.Get("/cardapio", listmenu.New(log, menuService))
		r.Post("/cardapio", addmenuitem.New(log, menuService))
		r.Get("/cardapio/categoria/{categoria}", menubycategory.New(log, menuService))
	})

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

	grpcApp.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", sl.Err(err))
	}

	log.Info("booking api gracefully stopped")
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
