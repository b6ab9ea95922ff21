package app

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"contrib.go.opencensus.io/integrations/ocsql"

	"github.com/lumiere-academy/backend/config"
	"github.com/lumiere-academy/backend/internal/database"
	"github.com/lumiere-academy/backend/internal/domain"
	httpHandler "github.com/lumiere-academy/backend/internal/http"
	"github.com/lumiere-academy/backend/internal/http/middleware"
	"github.com/lumiere-academy/backend/internal/repository"
	"github.com/lumiere-academy/backend/internal/service"
	"github.com/lumiere-academy/backend/pkg/logger"
	"github.com/lumiere-academy/backend/pkg/mailer"
	"github.com/lumiere-academy/backend/pkg/ratelimiter"
	"github.com/lumiere-academy/backend/pkg/templating"
	"github.com/lumiere-academy/backend/pkg/tracing"
)

// AppInterface defines the interface for the App
type AppInterface interface {
	Initialize() error
	Start() error
	Shutdown(ctx context.Context) error

	GetConfig() *config.Config
	GetLogger() logger.Logger
	GetMux() *http.ServeMux
	GetDB() *sql.DB
	GetMailer() mailer.Mailer
	GetRunner() domain.WorkflowRunner
	GetInactivityScanner() domain.InactivityScanner

	IsServerCreated() bool
	WaitForServerStart(ctx context.Context) bool

	InitTracing() error
	InitDB() error
	InitMailer() error
	InitRateLimiter() error
	InitRepositories() error
	InitServices() error
	InitHandlers() error

	SetShutdownTimeout(timeout time.Duration)
	GetActiveRequestCount() int64
	GetShutdownContext() context.Context
}

// App encapsulates the application dependencies and configuration
type App struct {
	config          *config.Config
	logger          logger.Logger
	db              *sql.DB
	mailer          mailer.Mailer
	limiter         ratelimiter.Limiter
	stopLimiter     func()
	tracingShutdown tracing.Shutdown

	// Repositories
	contactRepo     domain.ContactRepository
	contactListRepo domain.ContactListRepository
	templateRepo    domain.EmailTemplateRepository
	workflowRepo    domain.WorkflowRepository
	executionRepo   domain.WorkflowExecutionRepository
	claimRepo       domain.TriggerClaimRepository
	formRepo        domain.FormRepository

	// Services
	runner             *service.WorkflowRunner
	contactService     *service.ContactService
	templateService    *service.TemplateService
	workflowService    *service.WorkflowService
	formService        *service.FormService
	inactivityScanner  *service.InactivityScanService
	executionScheduler *service.ExecutionScheduler
	inactivityCron     *service.InactivityCron

	// HTTP handlers
	mux    *http.ServeMux
	server *http.Server

	// Server synchronization
	serverMu      sync.RWMutex
	serverStarted chan struct{}

	// Graceful shutdown management
	shutdownCtx     context.Context
	shutdownCancel  context.CancelFunc
	activeRequests  int64          // atomic counter for active HTTP requests
	requestWg       sync.WaitGroup // wait group for active requests
	shutdownTimeout time.Duration
}

// AppOption defines a functional option for configuring the App
type AppOption func(*App)

// WithMockDB configures the app to use a mock database
func WithMockDB(db *sql.DB) AppOption {
	return func(a *App) {
		a.db = db
	}
}

// WithMockMailer configures the app to use a mock mailer
func WithMockMailer(m mailer.Mailer) AppOption {
	return func(a *App) {
		a.mailer = m
	}
}

// WithLimiter replaces the rate limiter built from the configuration
func WithLimiter(l ratelimiter.Limiter) AppOption {
	return func(a *App) {
		a.limiter = l
	}
}

// WithLogger sets a custom logger
func WithLogger(logger logger.Logger) AppOption {
	return func(a *App) {
		a.logger = logger
	}
}

// NewApp creates a new application instance
func NewApp(cfg *config.Config, opts ...AppOption) AppInterface {
	shutdownCtx, shutdownCancel := context.WithCancel(context.Background())

	shutdownTimeout := cfg.Server.ShutdownTimeout
	if shutdownTimeout <= 0 {
		shutdownTimeout = 30 * time.Second
	}

	app := &App{
		config:          cfg,
		logger:          logger.NewLoggerWithLevel(cfg.LogLevel),
		mux:             http.NewServeMux(),
		serverStarted:   make(chan struct{}),
		shutdownCtx:     shutdownCtx,
		shutdownCancel:  shutdownCancel,
		shutdownTimeout: shutdownTimeout,
	}

	for _, opt := range opts {
		opt(app)
	}

	return app
}

// InitTracing initializes OpenCensus tracing and metrics exporters
func (a *App) InitTracing() error {
	shutdown, err := tracing.InitTracing(&a.config.Tracing, a.logger)
	if err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}
	a.tracingShutdown = shutdown
	return nil
}

// InitDB initializes the database connection and schema
func (a *App) InitDB() error {
	if a.db != nil {
		return nil
	}

	password := a.config.Database.Password
	maskedPassword := ""
	if len(password) > 0 {
		maskedPassword = fmt.Sprintf("%c...%c", password[0], password[len(password)-1])
	}
	a.logger.WithFields(map[string]interface{}{
		"host":     a.config.Database.Host,
		"port":     a.config.Database.Port,
		"user":     a.config.Database.User,
		"sslmode":  a.config.Database.SSLMode,
		"password": maskedPassword,
		"dbname":   a.config.Database.DBName,
	}).Info("Connecting to database")

	if err := database.EnsureDatabaseExists(database.GetPostgresDSN(&a.config.Database), a.config.Database.DBName); err != nil {
		return fmt.Errorf("failed to ensure database exists: %w", err)
	}

	driverName, err := database.DriverName(a.config.Tracing.Enabled)
	if err != nil {
		return err
	}

	db, err := database.Connect(&a.config.Database, driverName)
	if err != nil {
		return err
	}

	if err := database.InitializeDatabase(db); err != nil {
		db.Close()
		return fmt.Errorf("failed to initialize database schema: %w", err)
	}

	a.db = db
	return nil
}

// InitMailer builds the configured mail provider
func (a *App) InitMailer() error {
	if a.mailer != nil {
		return nil
	}

	m, err := mailer.New(&mailer.Config{
		Provider:     a.config.Mailer.Provider,
		FromEmail:    a.config.Mailer.FromEmail,
		FromName:     a.config.Mailer.FromName,
		SMTPHost:     a.config.Mailer.SMTPHost,
		SMTPPort:     a.config.Mailer.SMTPPort,
		SMTPUsername: a.config.Mailer.SMTPUsername,
		SMTPPassword: a.config.Mailer.SMTPPassword,
		SESRegion:    a.config.Mailer.SESRegion,
		SESAccessKey: a.config.Mailer.SESAccessKey,
		SESSecretKey: a.config.Mailer.SESSecretKey,
	}, a.logger)
	if err != nil {
		return fmt.Errorf("failed to initialize mailer: %w", err)
	}

	a.mailer = m
	a.logger.WithField("provider", a.config.Mailer.Provider).Info("Mailer initialized")
	return nil
}

// InitRateLimiter uses Redis when an address is configured so every replica
// shares the forms.submit window, and process memory otherwise
func (a *App) InitRateLimiter() error {
	if a.limiter != nil {
		return nil
	}

	maxAttempts := a.config.RateLimit.FormSubmitMax
	window := a.config.RateLimit.FormSubmitWindow

	if a.config.Redis.Addr != "" {
		client, err := ratelimiter.NewRedisClient(context.Background(), a.config.Redis.Addr, a.config.Redis.Password, a.config.Redis.DB)
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		limiter := ratelimiter.NewRedisLimiter(client)
		limiter.SetPolicy(httpHandler.FormSubmitNamespace, maxAttempts, window)

		a.limiter = limiter
		a.stopLimiter = func() { _ = client.Close() }
		a.logger.WithField("addr", a.config.Redis.Addr).Info("Using redis rate limiter")
		return nil
	}

	limiter := ratelimiter.NewMemoryLimiter()
	limiter.SetPolicy(httpHandler.FormSubmitNamespace, maxAttempts, window)

	a.limiter = limiter
	a.stopLimiter = limiter.Stop
	a.logger.Warn("REDIS_ADDR is empty, using in-memory rate limiter")
	return nil
}

// InitRepositories initializes all repositories
func (a *App) InitRepositories() error {
	if a.db == nil {
		return fmt.Errorf("database must be initialized before repositories")
	}

	a.contactRepo = repository.NewContactRepository(a.db)
	a.contactListRepo = repository.NewContactListRepository(a.db)
	a.templateRepo = repository.NewEmailTemplateRepository(a.db)
	a.workflowRepo = repository.NewWorkflowRepository(a.db)
	a.executionRepo = repository.NewWorkflowExecutionRepository(a.db)
	a.claimRepo = repository.NewTriggerClaimRepository(a.db)
	a.formRepo = repository.NewFormRepository(a.db)

	return nil
}

// InitServices initializes the runner, its trigger sources and the admin services
func (a *App) InitServices() error {
	if a.mailer == nil {
		return fmt.Errorf("mailer must be initialized before services")
	}

	automation := a.config.Automation

	a.runner = service.NewWorkflowRunner(
		a.workflowRepo,
		a.executionRepo,
		a.contactRepo,
		a.contactListRepo,
		a.templateRepo,
		a.mailer,
		templating.NewRenderer(),
		automation.AdminNotificationEmail,
		a.logger,
	)

	a.contactService = service.NewContactService(a.contactRepo, a.workflowRepo, a.runner, a.logger)
	a.templateService = service.NewTemplateService(a.templateRepo, a.logger)
	a.workflowService = service.NewWorkflowService(a.workflowRepo, a.executionRepo, a.logger)
	a.formService = service.NewFormService(a.formRepo, a.workflowRepo, a.runner, a.logger)

	a.inactivityScanner = service.NewInactivityScanService(
		a.workflowRepo,
		a.contactRepo,
		a.executionRepo,
		a.claimRepo,
		a.runner,
		automation.InactivityWindow,
		a.logger,
	)

	a.executionScheduler = service.NewExecutionScheduler(
		a.executionRepo,
		a.runner,
		a.logger,
		automation.SchedulerInterval,
		automation.SchedulerBatchSize,
	)

	if automation.InactivityScanSchedule != "" {
		cron, err := service.NewInactivityCron(a.inactivityScanner, automation.InactivityScanSchedule, automation.InactivityWindow, a.logger)
		if err != nil {
			return err
		}
		a.inactivityCron = cron
	}

	return nil
}

// InitHandlers registers the HTTP routes
func (a *App) InitHandlers() error {
	a.mux = http.NewServeMux()

	getJWTSecret := func() ([]byte, error) {
		if len(a.config.Security.JWTSecret) == 0 {
			return nil, fmt.Errorf("JWT_SECRET is not configured")
		}
		return a.config.Security.JWTSecret, nil
	}

	trustedProxies, err := httpHandler.ParseTrustedProxies(a.config.RateLimit.TrustedProxies)
	if err != nil {
		return fmt.Errorf("failed to parse trusted proxies: %w", err)
	}

	httpHandler.NewWorkflowHandler(a.workflowService, a.runner, a.inactivityScanner, getJWTSecret, a.logger).RegisterRoutes(a.mux)
	httpHandler.NewFormHandler(a.formService, a.limiter, a.config.RateLimit.FormSubmitWindow, trustedProxies, a.logger).RegisterRoutes(a.mux)
	httpHandler.NewContactHandler(a.contactService, getJWTSecret, a.logger).RegisterRoutes(a.mux)
	httpHandler.NewTemplateHandler(a.templateService, getJWTSecret, a.logger).RegisterRoutes(a.mux)

	var pinger httpHandler.Pinger
	if a.db != nil {
		pinger = a.db
	}
	httpHandler.NewHealthHandler(pinger, a.config.Version).RegisterRoutes(a.mux)

	return nil
}

// Handler returns the mux wrapped with the shutdown, tracing and CORS middlewares
func (a *App) Handler() http.Handler {
	var handler http.Handler = a.mux

	handler = a.gracefulShutdownMiddleware(handler)

	if a.config.Tracing.Enabled {
		handler = middleware.TracingMiddleware(handler)
	}

	return middleware.CORSMiddleware(a.config.Server.AllowedOrigins)(handler)
}

// Start starts the background workers and the HTTP server
func (a *App) Start() error {
	addr := fmt.Sprintf("%s:%d", a.config.Server.Host, a.config.Server.Port)
	a.logger.WithField("address", addr).Info("Server starting")

	a.serverMu.Lock()
	if a.serverStarted != nil {
		select {
		case <-a.serverStarted:
		default:
			close(a.serverStarted)
		}
	}
	a.serverStarted = make(chan struct{})

	a.server = &http.Server{
		Addr:              addr,
		Handler:           a.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverStarted := a.serverStarted
	a.serverMu.Unlock()

	close(serverStarted)

	if a.executionScheduler != nil {
		a.executionScheduler.Start(a.shutdownCtx)
	}
	if a.inactivityCron != nil {
		if err := a.inactivityCron.Start(); err != nil {
			return fmt.Errorf("failed to start inactivity cron: %w", err)
		}
	}

	return a.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("Starting graceful shutdown...")

	a.shutdownCancel()

	a.serverMu.RLock()
	server := a.server
	a.serverMu.RUnlock()

	if server == nil {
		a.logger.Info("No server to shutdown")
		return a.cleanupResources(ctx)
	}

	a.logger.WithField("active_requests", a.getActiveRequestCount()).Info("Active requests at shutdown start")

	shutdownTimeout := a.shutdownTimeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < shutdownTimeout {
			shutdownTimeout = remaining - time.Second
			if shutdownTimeout < 0 {
				shutdownTimeout = 0
			}
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	serverShutdownDone := make(chan error, 1)
	go func() {
		serverShutdownDone <- server.Shutdown(shutdownCtx)
	}()

	requestsDone := make(chan struct{})
	go func() {
		a.requestWg.Wait()
		close(requestsDone)
	}()

	var shutdownErr error
	select {
	case err := <-serverShutdownDone:
		shutdownErr = err
		a.logger.Info("HTTP server shutdown completed")
	case <-shutdownCtx.Done():
		a.logger.Warn("Shutdown timeout reached")
		shutdownErr = fmt.Errorf("shutdown timeout exceeded")
	}

	if shutdownErr == nil {
		select {
		case <-requestsDone:
		case <-time.After(2 * time.Second):
			if count := a.getActiveRequestCount(); count > 0 {
				a.logger.WithField("active_requests", count).Warn("Some requests still active, proceeding with shutdown")
			}
		}
	}

	if cleanupErr := a.cleanupResources(shutdownCtx); cleanupErr != nil {
		a.logger.WithField("error", cleanupErr.Error()).Error("Error during resource cleanup")
		if shutdownErr == nil {
			shutdownErr = cleanupErr
		}
	}

	if shutdownErr != nil {
		a.logger.WithField("error", shutdownErr.Error()).Error("Graceful shutdown completed with errors")
	} else {
		a.logger.Info("Graceful shutdown completed successfully")
	}

	return shutdownErr
}

// cleanupResources stops the workers, then closes the limiter, exporters and database
func (a *App) cleanupResources(ctx context.Context) error {
	if a.inactivityCron != nil {
		a.inactivityCron.Stop(ctx)
	}
	if a.executionScheduler != nil {
		a.executionScheduler.Stop()
	}

	if a.stopLimiter != nil {
		a.stopLimiter()
	}

	if a.tracingShutdown != nil {
		if err := a.tracingShutdown(ctx); err != nil {
			a.logger.WithField("error", err.Error()).Warn("Failed to shut down tracing exporters")
		}
	}

	if a.db != nil {
		if a.config.Tracing.Enabled {
			if err := ocsql.RecordStats(a.db, 5*time.Second); err != nil {
				a.logger.WithField("error", err.Error()).Error("Failed to record final database stats for tracing")
			}
		}

		a.logger.Info("Closing database connection")
		if err := a.db.Close(); err != nil {
			a.logger.WithField("error", err.Error()).Error("Error closing database connection")
			return err
		}
	}

	return nil
}

// IsServerCreated safely checks if the server has been created
func (a *App) IsServerCreated() bool {
	a.serverMu.RLock()
	defer a.serverMu.RUnlock()
	return a.server != nil
}

// WaitForServerStart waits for the server to be created.
// Returns false if the context expired first.
func (a *App) WaitForServerStart(ctx context.Context) bool {
	a.serverMu.RLock()
	started := a.serverStarted
	a.serverMu.RUnlock()

	if started == nil {
		<-ctx.Done()
		return false
	}

	select {
	case <-started:
		return a.IsServerCreated()
	case <-ctx.Done():
		return false
	}
}

// Initialize sets up all components of the application
func (a *App) Initialize() error {
	a.logger.WithField("version", a.config.Version).Info("Starting Lumiere backend")

	steps := []func() error{
		a.InitTracing,
		a.InitDB,
		a.InitMailer,
		a.InitRateLimiter,
		a.InitRepositories,
		a.InitServices,
		a.InitHandlers,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}

	a.logger.Info("Application successfully initialized")
	return nil
}

func (a *App) GetConfig() *config.Config {
	return a.config
}

func (a *App) GetLogger() logger.Logger {
	return a.logger
}

func (a *App) GetMux() *http.ServeMux {
	return a.mux
}

func (a *App) GetDB() *sql.DB {
	return a.db
}

func (a *App) GetMailer() mailer.Mailer {
	return a.mailer
}

func (a *App) GetRunner() domain.WorkflowRunner {
	return a.runner
}

func (a *App) GetInactivityScanner() domain.InactivityScanner {
	return a.inactivityScanner
}

func (a *App) incrementActiveRequests() {
	atomic.AddInt64(&a.activeRequests, 1)
	a.requestWg.Add(1)
}

func (a *App) decrementActiveRequests() {
	atomic.AddInt64(&a.activeRequests, -1)
	a.requestWg.Done()
}

func (a *App) getActiveRequestCount() int64 {
	return atomic.LoadInt64(&a.activeRequests)
}

// GetActiveRequestCount returns the current number of active requests
func (a *App) GetActiveRequestCount() int64 {
	return a.getActiveRequestCount()
}

// SetShutdownTimeout sets the timeout for graceful shutdown
func (a *App) SetShutdownTimeout(timeout time.Duration) {
	a.shutdownTimeout = timeout
}

// GetShutdownContext returns the context cancelled when shutdown starts
func (a *App) GetShutdownContext() context.Context {
	return a.shutdownCtx
}

func (a *App) isShuttingDown() bool {
	select {
	case <-a.shutdownCtx.Done():
		return true
	default:
		return false
	}
}

// gracefulShutdownMiddleware rejects new requests once shutdown started and tracks the rest
func (a *App) gracefulShutdownMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a.isShuttingDown() {
			httpHandler.WriteJSONError(w, "Server is shutting down", http.StatusServiceUnavailable)
			return
		}

		a.incrementActiveRequests()
		defer a.decrementActiveRequests()

		next.ServeHTTP(w, r)
	})
}

var _ AppInterface = (*App)(nil)
