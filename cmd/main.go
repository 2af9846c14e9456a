package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/PinJun0711/Thunderbolts/internal/api"
	"github.com/PinJun0711/Thunderbolts/internal/config"
	"github.com/PinJun0711/Thunderbolts/internal/database"
	"github.com/PinJun0711/Thunderbolts/internal/events"
	"github.com/PinJun0711/Thunderbolts/internal/forecast"
	"github.com/PinJun0711/Thunderbolts/internal/kitchen"
	"github.com/PinJun0711/Thunderbolts/internal/logger"
	"github.com/PinJun0711/Thunderbolts/internal/monitoring"
	"github.com/gin-gonic/gin"
)

var (
	port        = flag.Int("port", 0, "API server port (overrides config)")
	metricsPort = flag.Int("metrics-port", 0, "Metrics server port (overrides config)")
	configFile  = flag.String("config", "configs/config.yaml", "Path to configuration file")
)

func main() {
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *metricsPort != 0 {
		cfg.Metrics.Port = *metricsPort
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Format)
	log.Info("configuration loaded", "config", cfg.Redacted())

	if err := run(cfg, log); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *slog.Logger) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Initialize store
	store, err := database.Open(ctx, cfg.Store, log)
	if err != nil {
		return fmt.Errorf("failed to initialize store: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Warn("store close error", "error", err)
		}
	}()

	// Initialize forecaster
	forecaster, err := initializeForecaster(cfg.Forecast, log)
	if err != nil {
		return err
	}

	// Initialize metrics and the live feed
	collector := monitoring.NewMetricsCollector()
	monitor := monitoring.NewMonitor(collector)
	hub := api.NewHub(log)
	defer hub.Close()

	publishers := events.Multi{hub}
	if cfg.Events.AMQPURL != "" {
		bus, err := events.DialAMQP(cfg.Events.AMQPURL)
		if err != nil {
			return fmt.Errorf("failed to connect to message bus: %w", err)
		}
		defer bus.Close()
		publishers = append(publishers, bus)
		log.Info("publishing kitchen events", "exchange", events.Exchange)
	}

	svc := kitchen.NewService(store.Orders(), store.Menu(), store.Stock(),
		kitchen.WithForecaster(forecaster),
		kitchen.WithPublisher(publishers),
		kitchen.WithRecorder(monitor),
		kitchen.WithLogger(log),
	)

	gin.SetMode(gin.ReleaseMode)
	kitchenAPI := api.NewKitchenAPI(svc, monitor, hub, cfg.Server.StaticDir, log)

	var metricsServer *http.Server
	if cfg.Metrics.Enabled {
		metricsServer = startMetricsServer(cfg.Metrics, collector, log)
	}

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           kitchenAPI.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting API server", "port", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("API server error: %w", err)
		}
	case <-ctx.Done():
	}

	log.Info("shutting down servers")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Warn("API server shutdown error", "error", err)
	}
	if metricsServer != nil {
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			log.Warn("metrics server shutdown error", "error", err)
		}
	}
	return nil
}

func initializeForecaster(cfg config.ForecastConfig, log *slog.Logger) (forecast.Forecaster, error) {
	if cfg.Provider != config.ForecastOpenAI {
		return forecast.Heuristic{}, nil
	}
	llm, err := forecast.NewOpenAI(cfg.Model, cfg.OpenAIKey, log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize forecaster: %w", err)
	}
	log.Info("forecasting with language model", "model", cfg.Model)
	return llm, nil
}

func startMetricsServer(cfg config.MetricsConfig, collector *monitoring.MetricsCollector, log *slog.Logger) *http.Server {
	metricsRouter := gin.New()
	metricsRouter.Use(gin.Recovery())
	metricsRouter.GET(cfg.Path, gin.WrapH(collector.Handler()))

	metricsServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           metricsRouter,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("starting metrics server", "port", cfg.Port, "path", cfg.Path)
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("metrics server error", "error", err)
		}
	}()
	return metricsServer
}
