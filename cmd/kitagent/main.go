// Command kitagent runs one end-to-end game session: it loads the
// static catalog, wires the round orchestrator (C8) to the evaluation
// server and the optional cache/persistence backends, serves the
// monitoring REST surface, and drives the orchestrator to completion
// or a graceful stop. Generalized from the teacher's
// order_service/main.go startup sequence (initLogger → loadConfig →
// initDatabase → initRedis → initHTTPServer → startServer).
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"iaros/kitlogistics/internal/cache"
	"iaros/kitlogistics/internal/catalog"
	"iaros/kitlogistics/internal/config"
	"iaros/kitlogistics/internal/logging"
	"iaros/kitlogistics/internal/monitoring"
	"iaros/kitlogistics/internal/orchestrator"
	"iaros/kitlogistics/internal/persistence"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config document")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("kitagent: failed to load config: %v", err)
	}

	logger, err := logging.New(logging.Config{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		ServiceName: "kitagent",
		Environment: cfg.Environment,
	})
	if err != nil {
		log.Fatalf("kitagent: failed to build logger: %v", err)
	}
	defer logger.Sync()

	kitMeta, err := cfg.Catalog.KitMeta()
	if err != nil {
		logger.Fatal("invalid kit class configuration", zap.Error(err))
	}
	cat, err := catalog.LoadFromConfig(cfg.Catalog.AirportsCSV, cfg.Catalog.AircraftCSV, cfg.Catalog.FlightPlanCSV, kitMeta)
	if err != nil {
		logger.Fatal("failed to load static catalog", zap.Error(err))
	}
	for _, w := range cat.Warnings {
		logger.Warn("catalog default applied", zap.String("detail", w))
	}

	orc := orchestrator.New(cat, cfg, logger)
	mon := monitoring.New(orc, cfg.Monitoring.Port, cfg.Monitoring.DebugPort, logger)

	if cfg.Cache.Enabled {
		c, err := cache.New(cfg.Cache.URL)
		if err != nil {
			logger.Fatal("failed to connect to cache", zap.Error(err))
		}
		defer c.Close()
		orc.SetCache(c)
		logger.Info("round decision cache enabled", zap.String("url", cfg.Cache.URL))
	}

	if cfg.Persistence.Enabled {
		store, err := persistence.Open(cfg.Persistence.DSN, persistence.PoolConfig{})
		if err != nil {
			logger.Fatal("failed to open persistence store", zap.Error(err))
		}
		defer store.Close()
		orc.SetPersistence(store)
		mon.SetPersistence(store)
		logger.Info("round/anomaly ledger enabled")
	}

	mon.Start()
	logger.Info("monitoring surface started",
		zap.Int("port", cfg.Monitoring.Port), zap.Int("debug_port", cfg.Monitoring.DebugPort))

	ctx, cancel := context.WithCancel(context.Background())

	runErr := make(chan error, 1)
	go func() {
		runErr <- orc.Run(ctx)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		logger.Info("received shutdown signal, stopping orchestrator", zap.String("signal", sig.String()))
		cancel()
		if err := <-runErr; err != nil {
			logger.Error("orchestrator stopped with error", zap.Error(err))
		}
	case err := <-runErr:
		cancel()
		if err != nil {
			logger.Error("orchestrator finished with error", zap.Error(err))
		} else {
			logger.Info("orchestrator completed the full game horizon")
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := mon.Shutdown(shutdownCtx); err != nil {
		logger.Error("monitoring surface forced to shutdown", zap.Error(err))
	}

	fmt.Fprintln(os.Stdout, "kitagent: shutdown complete")
}
