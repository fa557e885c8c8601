package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/EmpoweredVote/attendance-monitor/internal/config"
	"github.com/EmpoweredVote/attendance-monitor/internal/dashboard"
	"github.com/EmpoweredVote/attendance-monitor/internal/logging"
	"github.com/EmpoweredVote/attendance-monitor/internal/middleware"
)

func HealthHandler(w http.ResponseWriter, r *http.Request) {
	response := "Server is up!"
	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprintln(w, response)
}

func main() {
	_ = godotenv.Load(".env.local")

	cfg, err := config.LoadFromEnv()
	if err != nil {
		log.Fatal(err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	d, err := dashboard.Init(context.Background(), cfg, logger)
	if err != nil {
		logger.Fatal("Failed to load dashboard inputs", zap.Error(err))
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestIDMiddleware)
	r.Use(middleware.LoggingMiddleware(logger))
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))
	if cfg.RateLimitRPS > 0 {
		r.Use(middleware.RateLimitMiddleware(rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst)))
	}

	r.Get("/health", HealthHandler)

	r.Group(func(r chi.Router) {
		if cfg.AuthEnabled() {
			r.Use(middleware.BasicAuthMiddleware(cfg.DashboardUser, cfg.DashboardPasswordHash))
		}
		r.Mount("/", d.SetupRoutes())
	})

	logger.Info("Server listening", zap.String("port", cfg.Port))

	if err := http.ListenAndServe("0.0.0.0:"+cfg.Port, r); err != nil {
		logger.Fatal("Server stopped", zap.Error(err))
	}
}
