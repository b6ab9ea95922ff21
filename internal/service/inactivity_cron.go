package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/lumiere-academy/backend/internal/domain"
	"github.com/lumiere-academy/backend/pkg/logger"
)

// cronLogger adapts logger.Logger to the cron.Logger interface
type cronLogger struct {
	logger logger.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.WithFields(keyValueFields(keysAndValues)).Debug(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.WithFields(keyValueFields(keysAndValues)).WithField("error", err.Error()).Error(msg)
}

func keyValueFields(keysAndValues []interface{}) map[string]interface{} {
	fields := make(map[string]interface{}, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		fields[fmt.Sprint(keysAndValues[i])] = keysAndValues[i+1]
	}
	return fields
}

// InactivityCron runs the inactivity scan on a cron schedule. Overlapping runs are skipped.
type InactivityCron struct {
	scanner  domain.InactivityScanner
	schedule string
	timeout  time.Duration
	logger   logger.Logger
	cron     *cron.Cron
	mu       sync.Mutex
	running  bool
}

// NewInactivityCron validates schedule (standard 5-field cron syntax) and builds the job
func NewInactivityCron(scanner domain.InactivityScanner, schedule string, timeout time.Duration, log logger.Logger) (*InactivityCron, error) {
	if _, err := cron.ParseStandard(schedule); err != nil {
		return nil, fmt.Errorf("invalid inactivity scan schedule: %w", err)
	}

	cl := cronLogger{logger: log}
	return &InactivityCron{
		scanner:  scanner,
		schedule: schedule,
		timeout:  timeout,
		logger:   log,
		cron: cron.New(
			cron.WithLocation(time.UTC),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
	}, nil
}

// Start registers the scan job and starts the cron loop
func (c *InactivityCron) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.running {
		c.logger.Warn("Inactivity cron already running")
		return nil
	}

	if _, err := c.cron.AddFunc(c.schedule, c.runScan); err != nil {
		return fmt.Errorf("failed to schedule inactivity scan: %w", err)
	}
	c.cron.Start()
	c.running = true

	c.logger.WithField("schedule", c.schedule).Info("Inactivity cron started")
	return nil
}

// Stop stops the cron loop and waits for a running scan until ctx is done
func (c *InactivityCron) Stop(ctx context.Context) {
	c.mu.Lock()
	if !c.running {
		c.mu.Unlock()
		return
	}
	c.running = false
	c.mu.Unlock()

	done := c.cron.Stop()
	select {
	case <-done.Done():
		c.logger.Info("Inactivity cron stopped")
	case <-ctx.Done():
		c.logger.Warn("Inactivity cron stop timeout exceeded")
	}
}

func (c *InactivityCron) runScan() {
	ctx := context.Background()
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	if _, err := c.scanner.Scan(ctx); err != nil {
		c.logger.WithField("error", err.Error()).Error("Scheduled inactivity scan failed")
	}
}
