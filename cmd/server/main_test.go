package main

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Ainterview-4/Big-Leap/internal/models"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func prepareServerGlobals(t *testing.T) {
	t.Helper()
	resetServerGlobals()
	t.Cleanup(resetServerGlobals)
}

func setServerEnv(t *testing.T, port string) {
	t.Helper()
	t.Setenv("APP_ENV", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("POSTGRES_USER", "user")
	t.Setenv("POSTGRES_PASSWORD", "pass")
	t.Setenv("POSTGRES_DB", "db")
	t.Setenv("PORT", port)
	t.Setenv("DB_CONNECT_ATTEMPTS", "1")
	t.Setenv("DB_CONNECT_DELAY", "10ms")
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("QUESTION_PROVIDER", "template")
}

func sqliteOpener(name string) func(string) (*gorm.DB, error) {
	return func(string) (*gorm.DB, error) {
		return gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{})
	}
}

func serveHealth(listened *string, served *bool) func(*http.Server) error {
	return func(srv *http.Server) error {
		*listened = srv.Addr
		rec := httptest.NewRecorder()
		srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		*served = rec.Body.String() == "ok"
		return nil
	}
}

func TestConnectWithRetrySuccess(t *testing.T) {
	prepareServerGlobals(t)

	var calls int32
	gormOpen = func(dsn string) (*gorm.DB, error) {
		atomic.AddInt32(&calls, 1)
		return gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	}

	db, err := connectWithRetry("dsn", 3, time.Millisecond, zap.NewNop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if atomic.LoadInt32(&calls) != 1 {
		t.Fatalf("expected single connection attempt, got %d", calls)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql DB: %v", err)
	}
	sqlDB.Close()
}

func TestConnectWithRetryFailure(t *testing.T) {
	prepareServerGlobals(t)

	var calls int32
	gormOpen = func(string) (*gorm.DB, error) {
		atomic.AddInt32(&calls, 1)
		return nil, errors.New("connect failed")
	}

	_, err := connectWithRetry("dsn", 3, time.Millisecond, zap.NewNop())
	if err == nil {
		t.Fatalf("expected error but got nil")
	}
	if atomic.LoadInt32(&calls) != 3 {
		t.Fatalf("expected 3 attempts, got %d", calls)
	}
}

func TestConnectWithRetryRecovers(t *testing.T) {
	prepareServerGlobals(t)

	var calls int32
	gormOpen = func(dsn string) (*gorm.DB, error) {
		if atomic.AddInt32(&calls, 1) < 2 {
			return nil, errors.New("not yet")
		}
		return gorm.Open(sqlite.Open("file:retry-recovers?mode=memory&cache=shared"), &gorm.Config{})
	}

	db, err := connectWithRetry("dsn", 3, time.Millisecond, zap.NewNop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if atomic.LoadInt32(&calls) != 2 {
		t.Fatalf("expected 2 attempts, got %d", calls)
	}
	sqlDB, _ := db.DB()
	sqlDB.Close()
}

func TestConnectWithRetryPingFailure(t *testing.T) {
	prepareServerGlobals(t)

	gormOpen = func(string) (*gorm.DB, error) {
		db, err := gorm.Open(sqlite.Open("file:ping-fail?mode=memory&cache=shared"), &gorm.Config{})
		if err != nil {
			return nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.Close()
		return db, nil
	}

	if _, err := connectWithRetry("dsn", 2, time.Millisecond, zap.NewNop()); err == nil {
		t.Fatalf("expected error due to ping failure")
	}
}

func TestRunSuccess(t *testing.T) {
	prepareServerGlobals(t)
	setServerEnv(t, "")

	var listened string
	served := false
	httpListenServe = serveHealth(&listened, &served)
	gormOpen = sqliteOpener("run-success")

	if err := run(); err != nil {
		t.Fatalf("run returned error: %v", err)
	}
	if listened != ":5001" {
		t.Fatalf("expected listen addr :5001, got %s", listened)
	}
	if !served {
		t.Fatalf("expected health endpoint to respond")
	}
}

func TestRunWithoutObjectStorage(t *testing.T) {
	prepareServerGlobals(t)
	setServerEnv(t, "")
	t.Setenv("STORAGE_DRIVER", "s3")
	t.Setenv("S3_ENDPOINT", "")

	var listened string
	served := false
	httpListenServe = serveHealth(&listened, &served)
	gormOpen = sqliteOpener("run-no-storage")

	if err := run(); err != nil {
		t.Fatalf("run returned error: %v", err)
	}
	if !served {
		t.Fatalf("expected health endpoint to respond")
	}
}

func TestRunInvalidConfig(t *testing.T) {
	prepareServerGlobals(t)
	setServerEnv(t, "")
	t.Setenv("STORAGE_DRIVER", "ftp")

	gormOpen = func(string) (*gorm.DB, error) {
		t.Fatalf("database must not be opened with invalid config")
		return nil, nil
	}

	if err := run(); err == nil {
		t.Fatalf("expected config error from run")
	}
}

func TestRunConnectFailure(t *testing.T) {
	prepareServerGlobals(t)
	setServerEnv(t, "")

	gormOpen = func(string) (*gorm.DB, error) {
		return nil, errors.New("connect failed")
	}

	if err := run(); err == nil {
		t.Fatalf("expected error from run when connection fails")
	}
}

func TestRunListenFailure(t *testing.T) {
	prepareServerGlobals(t)
	setServerEnv(t, "")

	gormOpen = sqliteOpener("run-listen")
	httpListenServe = func(*http.Server) error {
		return errors.New("listen failed")
	}

	if err := run(); err == nil {
		t.Fatalf("expected listen error from run")
	}
}

func TestRunServerClosedIsNotAnError(t *testing.T) {
	prepareServerGlobals(t)
	setServerEnv(t, "")

	gormOpen = sqliteOpener("run-closed")
	httpListenServe = func(*http.Server) error {
		return http.ErrServerClosed
	}

	if err := run(); err != nil {
		t.Fatalf("expected clean exit, got %v", err)
	}
}

func TestRunAutoMigrateFailure(t *testing.T) {
	prepareServerGlobals(t)
	setServerEnv(t, "")

	gormOpen = sqliteOpener("run-migrate")
	runAutoMigrate = func(*gorm.DB, ...interface{}) error {
		return errors.New("migrate failed")
	}

	if err := run(); err == nil {
		t.Fatalf("expected migrate error from run")
	}
}

func TestRunMigratesAllModels(t *testing.T) {
	prepareServerGlobals(t)
	setServerEnv(t, "")

	gormOpen = sqliteOpener("run-models")
	httpListenServe = func(*http.Server) error { return nil }
	var migrated int
	runAutoMigrate = func(db *gorm.DB, dst ...interface{}) error {
		migrated = len(dst)
		return db.AutoMigrate(dst...)
	}

	if err := run(); err != nil {
		t.Fatalf("run returned error: %v", err)
	}
	if migrated != len(models.All()) {
		t.Fatalf("expected %d models migrated, got %d", len(models.All()), migrated)
	}
}

func TestRunLoggerFailure(t *testing.T) {
	prepareServerGlobals(t)
	t.Setenv("APP_ENV", "")

	newLogger = func(...zap.Option) (*zap.Logger, error) { return nil, errors.New("logger boom") }

	if err := run(); err == nil {
		t.Fatalf("expected logger error from run")
	}
}

func TestBuildLoggerDevelopment(t *testing.T) {
	prepareServerGlobals(t)
	t.Setenv("APP_ENV", "Development")

	devUsed := false
	newDevLogger = func(...zap.Option) (*zap.Logger, error) {
		devUsed = true
		return zap.NewNop(), nil
	}
	newLogger = func(...zap.Option) (*zap.Logger, error) {
		t.Fatalf("production logger must not be built in development")
		return nil, nil
	}

	if _, err := buildLogger(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !devUsed {
		t.Fatalf("expected development logger")
	}
}

func TestMainFunction(t *testing.T) {
	prepareServerGlobals(t)
	setServerEnv(t, "9090")

	gormOpen = sqliteOpener("main-test")
	var listened string
	served := false
	httpListenServe = serveHealth(&listened, &served)

	main()

	if listened != ":9090" {
		t.Fatalf("expected main to listen on :9090, got %s", listened)
	}
	if !served {
		t.Fatalf("expected health endpoint to be served")
	}
}

func TestMainHandlesError(t *testing.T) {
	prepareServerGlobals(t)
	setServerEnv(t, "")

	newLogger = func(...zap.Option) (*zap.Logger, error) { return zap.NewNop(), nil }
	gormOpen = func(string) (*gorm.DB, error) { return nil, errors.New("connect failed") }

	var captured error
	exitCalled := false
	exitFunc = func(int) { exitCalled = true }
	logFatalFn = func(err error) {
		captured = err
		exitFunc(1)
	}

	main()

	if captured == nil {
		t.Fatalf("expected logFatalFn to capture error")
	}
	if !exitCalled {
		t.Fatalf("expected exitFunc to be invoked")
	}
}

func TestDefaultLogFatal(t *testing.T) {
	prepareServerGlobals(t)

	var code int
	exitFunc = func(c int) { code = c }

	defaultLogFatal(errors.New("boom"))

	if code != 1 {
		t.Fatalf("expected exit code 1, got %d", code)
	}
}

func TestDefaultGormOpen(t *testing.T) {
	prepareServerGlobals(t)

	newDialector = func(string) gorm.Dialector { return sqlite.Open("file:default-gorm?mode=memory&cache=shared") }

	db, err := defaultGormOpen("ignored")
	if err != nil {
		t.Fatalf("defaultGormOpen returned error: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql DB: %v", err)
	}
	sqlDB.Close()
}
