package service

import (
	"context"
	"sync"
	"time"

	"github.com/lumiere-academy/backend/internal/domain"
	"github.com/lumiere-academy/backend/pkg/logger"
	"github.com/lumiere-academy/backend/pkg/tracing"
)

// ExecutionScheduler periodically resumes executions whose delay has elapsed
type ExecutionScheduler struct {
	executionRepo domain.WorkflowExecutionRepository
	runner        domain.WorkflowRunner
	logger        logger.Logger
	interval      time.Duration
	batchSize     int
	lease         time.Duration
	now           func() time.Time
	stopChan      chan struct{}
	stoppedChan   chan struct{}
	mu            sync.Mutex
	running       bool
}

// claimLeaseIntervals is how many scheduler intervals a claimed execution may go
// without progress before another worker takes it over
const claimLeaseIntervals = 10

// NewExecutionScheduler creates a new execution scheduler
func NewExecutionScheduler(
	executionRepo domain.WorkflowExecutionRepository,
	runner domain.WorkflowRunner,
	log logger.Logger,
	interval time.Duration,
	batchSize int,
) *ExecutionScheduler {
	return &ExecutionScheduler{
		executionRepo: executionRepo,
		runner:        runner,
		logger:        log,
		interval:      interval,
		batchSize:     batchSize,
		lease:         claimLeaseIntervals * interval,
		now:           func() time.Time { return time.Now().UTC() },
		stopChan:      make(chan struct{}),
		stoppedChan:   make(chan struct{}),
	}
}

// Start begins resuming due executions in the background
func (s *ExecutionScheduler) Start(ctx context.Context) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		s.logger.Warn("Execution scheduler already running")
		return
	}
	s.running = true
	s.mu.Unlock()

	s.logger.WithField("interval", s.interval.String()).
		WithField("batch_size", s.batchSize).
		Info("Starting execution scheduler")

	go s.run(ctx)
}

// Stop gracefully stops the scheduler
func (s *ExecutionScheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.mu.Unlock()

	s.logger.Info("Stopping execution scheduler...")
	close(s.stopChan)

	select {
	case <-s.stoppedChan:
		s.logger.Info("Execution scheduler stopped successfully")
	case <-time.After(5 * time.Second):
		s.logger.Warn("Execution scheduler stop timeout exceeded")
	}
}

func (s *ExecutionScheduler) run(ctx context.Context) {
	defer close(s.stoppedChan)
	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	// Execute immediately on start
	s.processBatch(ctx)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Execution scheduler context cancelled")
			return
		case <-s.stopChan:
			s.logger.Info("Execution scheduler received stop signal")
			return
		case <-ticker.C:
			s.processBatch(ctx)
		}
	}
}

func (s *ExecutionScheduler) processBatch(ctx context.Context) {
	startTime := time.Now()

	processed, err := s.ProcessBatch(ctx)
	elapsed := time.Since(startTime)

	if err != nil {
		s.logger.WithField("error", err.Error()).
			WithField("elapsed", elapsed.String()).
			Error("Failed to process scheduled executions")
	} else if processed > 0 {
		s.logger.WithField("processed", processed).
			WithField("elapsed", elapsed.String()).
			Info("Processed scheduled executions")
	}
}

// ProcessBatch claims and resumes up to batchSize due executions, including claimed
// executions that stopped making progress for longer than the lease. An execution
// claimed by another worker is skipped; a failed resume is logged and the batch continues.
func (s *ExecutionScheduler) ProcessBatch(ctx context.Context) (processed int, err error) {
	// codecov:ignore:start
	ctx, span := tracing.StartServiceSpan(ctx, "ExecutionScheduler", "ProcessBatch")
	defer func() { tracing.EndSpan(span, err) }()
	// codecov:ignore:end

	now := s.now()
	staleBefore := now.Add(-s.lease)
	due, err := s.executionRepo.ListDue(ctx, now, staleBefore, s.batchSize)
	if err != nil {
		return 0, err
	}

	for _, execution := range due {
		if ctx.Err() != nil {
			return processed, ctx.Err()
		}

		if execution.Status == domain.ExecutionStatusPending {
			s.logger.WithField("execution_id", execution.ID).Warn("Reclaiming stalled workflow execution")
		}

		claimed, err := s.executionRepo.ClaimScheduled(ctx, execution.ID, now, staleBefore)
		if err != nil {
			s.logger.WithFields(map[string]interface{}{
				"execution_id": execution.ID,
				"error":        err.Error(),
			}).Error("Failed to claim scheduled execution")
			continue
		}
		if !claimed {
			continue
		}

		if _, err := s.runner.Resume(ctx, execution.ID); err != nil {
			s.logger.WithFields(map[string]interface{}{
				"execution_id": execution.ID,
				"workflow_id":  execution.WorkflowID,
				"error":        err.Error(),
			}).Warn("Resumed execution did not complete")
		}
		processed++
	}

	return processed, nil
}

// IsRunning returns whether the scheduler is currently running
func (s *ExecutionScheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}
