package app

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumiere-academy/backend/config"
	"github.com/lumiere-academy/backend/pkg/logger"
	pkgmocks "github.com/lumiere-academy/backend/pkg/mocks"
	"github.com/lumiere-academy/backend/pkg/ratelimiter"
)

func createTestConfig() *config.Config {
	return &config.Config{
		Environment: "test",
		Version:     config.VERSION,
		Database: config.DatabaseConfig{
			User:     "postgres_test",
			Password: "postgres_test",
			Host:     "localhost",
			Port:     5432,
			DBName:   "lumiere_test",
		},
		Server: config.ServerConfig{
			Host: "localhost",
			Port: 8080,
		},
		Security: config.SecurityConfig{
			JWTSecret: []byte("test-jwt-secret-key-32-bytes-min"),
		},
		Mailer: config.MailerConfig{
			Provider:  "console",
			FromEmail: "contact@lumiere.academy",
			FromName:  "Lumiere Academy",
		},
		Automation: config.AutomationConfig{
			AdminNotificationEmail: "admin@lumiere.academy",
			InactivityWindow:       24 * time.Hour,
			SchedulerInterval:      time.Minute,
			SchedulerBatchSize:     50,
		},
		RateLimit: config.RateLimitConfig{
			FormSubmitMax:    5,
			FormSubmitWindow: time.Minute,
		},
	}
}

func setupTestLogger(ctrl *gomock.Controller) *pkgmocks.MockLogger {
	mockLogger := pkgmocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Debug(gomock.Any()).AnyTimes()
	mockLogger.EXPECT().Info(gomock.Any()).AnyTimes()
	mockLogger.EXPECT().Warn(gomock.Any()).AnyTimes()
	mockLogger.EXPECT().Error(gomock.Any()).AnyTimes()
	mockLogger.EXPECT().WithField(gomock.Any(), gomock.Any()).Return(mockLogger).AnyTimes()
	mockLogger.EXPECT().WithFields(gomock.Any()).Return(mockLogger).AnyTimes()
	return mockLogger
}

// setupTestDBMock creates a mock DB expecting to be closed on shutdown
func setupTestDBMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	mock.ExpectClose()
	return db, mock
}

func newTestApp(t *testing.T, cfg *config.Config, opts ...AppOption) (*App, sqlmock.Sqlmock) {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	db, mock := setupTestDBMock(t)
	base := []AppOption{
		WithMockDB(db),
		WithMockMailer(pkgmocks.NewMockMailer(ctrl)),
		WithLogger(setupTestLogger(ctrl)),
	}
	return NewApp(cfg, append(base, opts...)...).(*App), mock
}

func TestNewApp(t *testing.T) {
	cfg := createTestConfig()

	app := NewApp(cfg).(*App)

	assert.Equal(t, cfg, app.GetConfig())
	assert.NotNil(t, app.GetLogger())
	assert.NotNil(t, app.GetMux())
	assert.Nil(t, app.GetDB())
	assert.Nil(t, app.GetMailer())
	assert.Equal(t, 30*time.Second, app.shutdownTimeout)
	assert.False(t, app.IsServerCreated())
	assert.NoError(t, app.GetShutdownContext().Err())
}

func TestNewApp_WithOptions(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	cfg := createTestConfig()
	cfg.Server.ShutdownTimeout = 5 * time.Second

	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mockMailer := pkgmocks.NewMockMailer(ctrl)
	mockLogger := setupTestLogger(ctrl)
	limiter := pkgmocks.NewMockLimiter(ctrl)

	app := NewApp(cfg,
		WithMockDB(db),
		WithMockMailer(mockMailer),
		WithLogger(mockLogger),
		WithLimiter(limiter),
	).(*App)

	assert.Equal(t, db, app.GetDB())
	assert.Equal(t, mockMailer, app.GetMailer())
	assert.Equal(t, mockLogger, app.GetLogger())
	assert.Equal(t, limiter, app.limiter)
	assert.Equal(t, 5*time.Second, app.shutdownTimeout)

	app.SetShutdownTimeout(time.Second)
	assert.Equal(t, time.Second, app.shutdownTimeout)
}

func TestApp_InitRepositories_RequiresDB(t *testing.T) {
	app := NewApp(createTestConfig(), WithLogger(logger.NewTestLogger(t))).(*App)

	err := app.InitRepositories()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database must be initialized")
}

func TestApp_InitServices_RequiresMailer(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	app := NewApp(createTestConfig(), WithMockDB(db), WithLogger(logger.NewTestLogger(t))).(*App)
	require.NoError(t, app.InitRepositories())

	err = app.InitServices()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mailer must be initialized")
}

func TestApp_InitMailer_Console(t *testing.T) {
	app := NewApp(createTestConfig(), WithLogger(logger.NewTestLogger(t))).(*App)

	require.NoError(t, app.InitMailer())
	assert.NotNil(t, app.GetMailer())
}

func TestApp_InitMailer_UnknownProvider(t *testing.T) {
	cfg := createTestConfig()
	cfg.Mailer.Provider = "pigeon"
	app := NewApp(cfg, WithLogger(logger.NewTestLogger(t))).(*App)

	err := app.InitMailer()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to initialize mailer")
}

func TestApp_InitRateLimiter_Memory(t *testing.T) {
	app := NewApp(createTestConfig(), WithLogger(logger.NewTestLogger(t))).(*App)

	require.NoError(t, app.InitRateLimiter())
	defer app.stopLimiter()

	limiter, ok := app.limiter.(*ratelimiter.MemoryLimiter)
	require.True(t, ok)

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		allowed, err := limiter.Allow(ctx, "forms.submit", "203.0.113.9")
		require.NoError(t, err)
		assert.True(t, allowed)
	}
	allowed, err := limiter.Allow(ctx, "forms.submit", "203.0.113.9")
	require.NoError(t, err)
	assert.False(t, allowed)
}

func TestApp_InitRateLimiter_Redis(t *testing.T) {
	mr := miniredis.RunT(t)

	cfg := createTestConfig()
	cfg.Redis.Addr = mr.Addr()
	cfg.RateLimit.FormSubmitMax = 1

	app := NewApp(cfg, WithLogger(logger.NewTestLogger(t))).(*App)
	require.NoError(t, app.InitRateLimiter())
	defer app.stopLimiter()

	_, ok := app.limiter.(*ratelimiter.RedisLimiter)
	require.True(t, ok)

	ctx := context.Background()
	allowed, err := app.limiter.Allow(ctx, "forms.submit", "203.0.113.9")
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, err = app.limiter.Allow(ctx, "forms.submit", "203.0.113.9")
	require.NoError(t, err)
	assert.False(t, allowed)
}

func TestApp_InitRateLimiter_RedisUnreachable(t *testing.T) {
	cfg := createTestConfig()
	cfg.Redis.Addr = "127.0.0.1:1"

	app := NewApp(cfg, WithLogger(logger.NewTestLogger(t))).(*App)

	err := app.InitRateLimiter()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to connect to redis")
}

func TestApp_InitServices_InactivityCron(t *testing.T) {
	t.Run("valid schedule", func(t *testing.T) {
		cfg := createTestConfig()
		cfg.Automation.InactivityScanSchedule = "0 * * * *"
		app, _ := newTestApp(t, cfg)

		require.NoError(t, app.InitRepositories())
		require.NoError(t, app.InitServices())
		assert.NotNil(t, app.inactivityCron)
		assert.NotNil(t, app.GetRunner())
		assert.NotNil(t, app.GetInactivityScanner())
	})

	t.Run("invalid schedule", func(t *testing.T) {
		cfg := createTestConfig()
		cfg.Automation.InactivityScanSchedule = "whenever"
		app, _ := newTestApp(t, cfg)

		require.NoError(t, app.InitRepositories())
		err := app.InitServices()
		require.Error(t, err)
	})

	t.Run("no schedule", func(t *testing.T) {
		app, _ := newTestApp(t, createTestConfig())

		require.NoError(t, app.InitRepositories())
		require.NoError(t, app.InitServices())
		assert.Nil(t, app.inactivityCron)
	})
}

func TestApp_Initialize_RegistersRoutes(t *testing.T) {
	app, mock := newTestApp(t, createTestConfig())
	require.NoError(t, app.Initialize())

	handler := app.Handler()

	t.Run("health", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "ok", body["status"])
		assert.Equal(t, config.VERSION, body["version"])
	})

	t.Run("admin routes require a token", func(t *testing.T) {
		for _, path := range []string{
			"/api/workflows.list",
			"/api/workflows.execute",
			"/api/contacts.get",
			"/api/templates.list",
		} {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
			assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
		}
	})

	t.Run("cors preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/forms.submit", nil)
		req.Header.Set("Origin", "https://lumiere.academy")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, app.Shutdown(ctx))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApp_InitHandlers_MissingJWTSecret(t *testing.T) {
	cfg := createTestConfig()
	cfg.Security.JWTSecret = nil
	app, _ := newTestApp(t, cfg)
	require.NoError(t, app.Initialize())

	rec := httptest.NewRecorder()
	app.GetMux().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/workflows.list", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestApp_InitHandlers_InvalidTrustedProxy(t *testing.T) {
	cfg := createTestConfig()
	cfg.RateLimit.TrustedProxies = []string{"load-balancer"}
	app, _ := newTestApp(t, cfg)

	err := app.InitHandlers()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "trusted proxies")
}

func TestApp_GracefulShutdownMiddleware(t *testing.T) {
	app, _ := newTestApp(t, createTestConfig())

	var sawActive int64
	handler := app.gracefulShutdownMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sawActive = app.GetActiveRequestCount()
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(1), sawActive)
	assert.Equal(t, int64(0), app.GetActiveRequestCount())

	app.shutdownCancel()

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "Server is shutting down")
}

func TestApp_Shutdown_WithoutServer(t *testing.T) {
	app, mock := newTestApp(t, createTestConfig())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	require.NoError(t, app.Shutdown(ctx))
	assert.Error(t, app.GetShutdownContext().Err())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApp_StartAndShutdown(t *testing.T) {
	cfg := createTestConfig()
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = 0
	app, mock := newTestApp(t, cfg)
	require.NoError(t, app.Initialize())

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Start()
	}()

	waitCtx, waitCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer waitCancel()
	require.True(t, app.WaitForServerStart(waitCtx))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, app.Shutdown(ctx))

	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, http.ErrServerClosed)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop")
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApp_WaitForServerStart_Timeout(t *testing.T) {
	app := NewApp(createTestConfig(), WithLogger(logger.NewTestLogger(t)))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.False(t, app.WaitForServerStart(ctx))
}
