package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"github.com/kanopolanes/lakehub-backend/internal/api/middleware"
	"github.com/kanopolanes/lakehub-backend/internal/api/rest"
	"github.com/kanopolanes/lakehub-backend/internal/config"
	"github.com/kanopolanes/lakehub-backend/internal/pkg/logger"
	"github.com/kanopolanes/lakehub-backend/internal/repository"
	"github.com/kanopolanes/lakehub-backend/internal/service"
	"github.com/kanopolanes/lakehub-backend/internal/upstream"
)

// fallbackConfig mirrors the viper defaults for when the config file is
// present but unreadable. Every timeout must be set here too or the HTTP
// server runs without limits on this path.
func fallbackConfig() *config.Config {
	return &config.Config{
		Port:               3001,
		DatabasePath:       "./lakehub.db",
		LogLevel:           "info",
		AllowedOrigins:     []string{"*"},
		AlertCheckMinutes:  1,
		RequestTimeoutSec:  15,
		ShutdownTimeoutSec: 10,
	}
}

func main() {
	log := logger.StdLogger()
	log.Info("lakehub backend starting")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		log.Warn("failed to load config, using defaults", "error", err)
		cfg = fallbackConfig()
	}
	log.Info("configuration loaded", "port", cfg.Port, "db", cfg.DatabasePath)

	repo, err := repository.NewSQLiteRepository(cfg.DatabasePath)
	if err != nil {
		log.Error("failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer repo.Close()

	if err := repo.InitSchema(ctx); err != nil {
		log.Error("failed to initialize schema", "error", err)
		os.Exit(1)
	}
	log.Info("database initialized")

	// Upstream adapters and services
	ambient := upstream.NewAmbientClient(cfg.AmbientAPIKey, cfg.AmbientAppKey)
	usgs := upstream.NewUSGSClient()
	openMeteo := upstream.NewOpenMeteoClient()
	nws := upstream.NewNWSClient()
	fishing := upstream.NewFishingClient()

	settings := service.NewSettings(repo, log)
	lakeService := service.NewLakeService(usgs, settings, log)
	forecastService := service.NewForecastService(openMeteo, nws, settings, log)
	fishingService := service.NewFishingService(fishing, log)

	weatherCollector := service.NewWeatherCollector(ambient, repo, settings, log)
	lakeCollector := service.NewLakeCollector(lakeService, repo, settings, log)
	alertEvaluator := service.NewAlertEvaluator(repo, cfg.AlertCheckMinutes, log)
	retention := service.NewRetentionService(repo, settings, log)

	// HTTP router
	router := mux.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.StructuredLog)
	router.Use(middleware.Metrics)
	router.Use(middleware.Recovery)

	healthz := rest.NewHealthzHandler(repo)
	router.HandleFunc("/healthz/live", healthz.Live).Methods("GET")
	router.HandleFunc("/healthz/ready", healthz.Ready).Methods("GET")
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	apiRouter := router.PathPrefix("/api").Subrouter()
	handler := rest.NewHandler(repo, ambient, lakeService, forecastService, fishingService,
		settings, cfg.DatabasePath, log, weatherCollector, lakeCollector, alertEvaluator, retention)
	rest.SetupRoutes(apiRouter, handler)

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      c.Handler(router),
		ReadTimeout:  time.Duration(cfg.RequestTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.RequestTimeoutSec) * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("server listening", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Background services: collectors run one cycle immediately on start.
	weatherCollector.Start(ctx)
	lakeCollector.Start(ctx)
	alertEvaluator.Start(ctx)
	retention.Start(ctx)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")

	weatherCollector.Stop()
	lakeCollector.Stop()
	alertEvaluator.Stop()
	retention.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(),
		time.Duration(cfg.ShutdownTimeoutSec)*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("server forced to shutdown", "error", err)
	}

	log.Info("server exited")
}
