package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	_ "github.com/lib/pq"

	"github.com/lumiere-academy/backend/config"
	"github.com/lumiere-academy/backend/internal/app"
	"github.com/lumiere-academy/backend/pkg/logger"
)

var osExit = os.Exit

var newApp = app.NewApp

// runScan performs a single inactivity scan, for hosts that schedule it externally
func runScan(cfg *config.Config, appLogger logger.Logger, timeout time.Duration) error {
	appInstance := newApp(cfg, app.WithLogger(appLogger))

	steps := []func() error{
		appInstance.InitTracing,
		appInstance.InitDB,
		appInstance.InitMailer,
		appInstance.InitRepositories,
		appInstance.InitServices,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			appLogger.WithField("error", err.Error()).Error("Failed to initialize scanner")
			return err
		}
	}

	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := appInstance.Shutdown(ctx); err != nil {
			appLogger.WithField("error", err.Error()).Warn("Scanner cleanup failed")
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	result, err := appInstance.GetInactivityScanner().Scan(ctx)
	if err != nil {
		appLogger.WithField("error", err.Error()).Error("Inactivity scan failed")
		return err
	}

	appLogger.WithFields(map[string]interface{}{
		"workflows_scanned":  result.WorkflowsScanned,
		"contacts_triggered": result.ContactsTriggered,
		"contacts_skipped":   result.ContactsSkipped,
		"failures":           result.Failures,
	}).Info("Inactivity scan completed")

	if result.Failures > 0 {
		return fmt.Errorf("inactivity scan completed with %d failures", result.Failures)
	}
	return nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	timeout := cfg.Automation.InactivityWindow
	if timeout <= 0 || timeout > 30*time.Minute {
		timeout = 30 * time.Minute
	}

	if err := runScan(cfg, logger.NewLoggerWithLevel(cfg.LogLevel), timeout); err != nil {
		osExit(1)
	}
}
