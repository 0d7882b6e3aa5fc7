/*
main.go - Award eligibility service entry point

STARTUP SEQUENCE:
  1. Load .env (optional) and layered configuration
  2. Build the zap logger at the configured level
  3. Open the SQLite store and run schema migration
  4. Load the decoration policy (file or built-in defaults)
  5. Wire calculators, dispatcher, handlers, and router
  6. Start the periodic recalculation scheduler
  7. Serve HTTP until SIGINT/SIGTERM, then drain

SEE ALSO:
  - config/config.go: Configuration sources and precedence
  - api/server.go: Route definitions
*/
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/meritdesk/awards-engine/api"
	"github.com/meritdesk/awards-engine/config"
	"github.com/meritdesk/awards-engine/dispatch"
	"github.com/meritdesk/awards-engine/factory"
	"github.com/meritdesk/awards-engine/person"
	"github.com/meritdesk/awards-engine/store/sqlite"
	"github.com/meritdesk/awards-engine/unit"
)

func main() {
	// .env is a developer convenience; absence is not an error.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	logger, err := buildLogger(cfg.LogLevel)
	if err != nil {
		panic("failed to build logger: " + err.Error())
	}
	defer logger.Sync()

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		logger.Fatal("failed to open store", zap.String("path", cfg.DBPath), zap.Error(err))
	}
	defer store.Close()

	policy := factory.Default()
	if cfg.PolicyPath != "" {
		policy, err = factory.NewPolicyFactory().LoadFile(cfg.PolicyPath)
		if err != nil {
			logger.Fatal("failed to load decoration policy",
				zap.String("path", cfg.PolicyPath), zap.Error(err))
		}
		logger.Info("decoration policy loaded", zap.String("path", cfg.PolicyPath))
	}

	personCalc := person.NewCalculator(store)
	unitCalc := unit.NewCalculator(store)
	policy.Apply(personCalc, unitCalc)

	dispatcher := dispatch.NewDispatcher(personCalc, unitCalc, logger)
	handler := api.NewHandler(store, dispatcher, logger)
	router := api.NewRouter(handler)

	scheduler := api.NewRecalcScheduler(dispatcher, logger)
	scheduler.Interval = cfg.SchedulerInterval
	scheduler.Enabled = cfg.SchedulerEnabled
	scheduler.Start()
	defer scheduler.Stop()

	server := &http.Server{
		Addr:    cfg.Addr,
		Handler: router,
	}

	go func() {
		logger.Info("http server listening", zap.String("addr", cfg.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", zap.Error(err))
	}
}

func buildLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}
	cfg.Level = lvl
	return cfg.Build()
}
