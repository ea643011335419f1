package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Ainterview-4/Big-Leap/internal/config"
	"github.com/Ainterview-4/Big-Leap/internal/events"
	"github.com/Ainterview-4/Big-Leap/internal/handlers"
	"github.com/Ainterview-4/Big-Leap/internal/jobs"
	"github.com/Ainterview-4/Big-Leap/internal/metrics"
	"github.com/Ainterview-4/Big-Leap/internal/models"
	"github.com/Ainterview-4/Big-Leap/internal/questions"
	"github.com/Ainterview-4/Big-Leap/internal/repositories"
	"github.com/Ainterview-4/Big-Leap/internal/routers"
	"github.com/Ainterview-4/Big-Leap/internal/scoring"
	"github.com/Ainterview-4/Big-Leap/internal/services"
	"github.com/Ainterview-4/Big-Leap/internal/storage"
	"github.com/Ainterview-4/Big-Leap/internal/utils"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

var (
	newLogger       func(...zap.Option) (*zap.Logger, error)
	newDevLogger    func(...zap.Option) (*zap.Logger, error)
	exitFunc        func(int)
	logFatalFn      func(error)
	newDialector    func(string) gorm.Dialector
	gormOpen        func(string) (*gorm.DB, error)
	runAutoMigrate  func(*gorm.DB, ...interface{}) error
	httpListenServe func(*http.Server) error
	shutdownContext func() (context.Context, context.CancelFunc)
)

func init() {
	resetServerGlobals()
}

func resetServerGlobals() {
	newLogger = zap.NewProduction
	newDevLogger = zap.NewDevelopment
	exitFunc = os.Exit
	logFatalFn = defaultLogFatal
	newDialector = func(dsn string) gorm.Dialector { return postgres.Open(dsn) }
	gormOpen = defaultGormOpen
	runAutoMigrate = func(db *gorm.DB, dst ...interface{}) error { return db.AutoMigrate(dst...) }
	httpListenServe = func(srv *http.Server) error { return srv.ListenAndServe() }
	shutdownContext = func() (context.Context, context.CancelFunc) {
		return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	}
}

func defaultGormOpen(dsn string) (*gorm.DB, error) {
	return gorm.Open(newDialector(dsn), &gorm.Config{TranslateError: true})
}

func defaultLogFatal(err error) {
	log.Printf("server exited: %v", err)
	exitFunc(1)
}

// connectWithRetry opens the database and pings it, retrying a fixed number
// of times with a fixed delay.
func connectWithRetry(dsn string, attempts int, delay time.Duration, logger *zap.Logger) (*gorm.DB, error) {
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		db, err := gormOpen(dsn)
		if err == nil {
			err = ping(db)
			if err == nil {
				return db, nil
			}
		}
		lastErr = err
		logger.Warn("database connection failed",
			zap.Int("attempt", attempt), zap.Int("maxAttempts", attempts), zap.Error(err))
		if attempt < attempts {
			time.Sleep(delay)
		}
	}
	return nil, fmt.Errorf("database unreachable after %d attempts: %w", attempts, lastErr)
}

func ping(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return err
	}
	return nil
}

func buildLogger() (*zap.Logger, error) {
	if strings.EqualFold(os.Getenv("APP_ENV"), "development") {
		return newDevLogger()
	}
	return newLogger()
}

func buildObjectStore(cfg *config.Config, logger *zap.Logger) (storage.ObjectStore, error) {
	if cfg.StorageDriver == "memory" {
		logger.Warn("using in-memory object storage; uploads are lost on restart")
		return storage.NewMemoryStore(), nil
	}
	if !cfg.S3.Configured() {
		logger.Warn("object storage is not configured; CV uploads are disabled")
		return nil, nil
	}
	store, err := storage.NewS3Store(storage.S3Config{
		Endpoint:  cfg.S3.Endpoint,
		Region:    cfg.S3.Region,
		AccessKey: cfg.S3.AccessKey,
		SecretKey: cfg.S3.SecretKey,
		Bucket:    cfg.S3.Bucket,
		UseSSL:    cfg.S3.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to init object storage: %w", err)
	}
	return store, nil
}

func buildQuestionGenerator(ctx context.Context, cfg *config.Config, logger *zap.Logger) (questions.Generator, error) {
	templates, err := questions.NewTemplateGenerator()
	if err != nil {
		return nil, fmt.Errorf("failed to load question templates: %w", err)
	}
	if cfg.QuestionProvider != "gemini" {
		return templates, nil
	}
	gemini, err := questions.NewGeminiGenerator(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, templates, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to init gemini client: %w", err)
	}
	logger.Info("question generation via gemini", zap.String("model", cfg.GeminiModel))
	return gemini, nil
}

func buildMailer(cfg *config.Config, logger *zap.Logger) services.Mailer {
	mailer := utils.NewSMTPMailer(utils.SMTPCfg{
		Host: cfg.SMTP.Host,
		Port: cfg.SMTP.Port,
		User: cfg.SMTP.User,
		Pass: cfg.SMTP.Pass,
		From: cfg.SMTP.From,
	})
	if !mailer.Configured() {
		logger.Warn("SMTP is not configured; password reset mails are not sent")
		return nil
	}
	return mailer
}

func run() error {
	logger, err := buildLogger()
	if err != nil {
		return fmt.Errorf("failed to init logger: %w", err)
	}
	defer logger.Sync()

	if err := config.LoadDotEnv(); err != nil {
		return err
	}
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	ctx, stop := shutdownContext()
	defer stop()

	db, err := connectWithRetry(cfg.DatabaseURL, cfg.DBConnectAttempts, cfg.DBConnectDelay, logger)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql DB: %w", err)
	}
	defer sqlDB.Close()

	if err := runAutoMigrate(db, models.All()...); err != nil {
		return fmt.Errorf("auto-migrate failed: %w", err)
	}

	store, err := buildObjectStore(cfg, logger)
	if err != nil {
		return err
	}
	generator, err := buildQuestionGenerator(ctx, cfg, logger)
	if err != nil {
		return err
	}

	var publisher events.Publisher = events.NopPublisher{}
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		defer rdb.Close()
		publisher = events.NewRedisPublisher(rdb, logger)
		logger.Info("session events published to redis", zap.String("addr", cfg.RedisAddr))
	}

	userRepo := &repositories.UserRepository{DB: db}
	tokenRepo := &repositories.TokenRepository{DB: db}
	cvRepo := &repositories.CVRepository{DB: db}
	interviewRepo := &repositories.InterviewRepository{DB: db}

	authService := services.NewAuthService(userRepo, tokenRepo, buildMailer(cfg, logger), cfg.JWTSecret, cfg.JWTTTL, cfg.ResetTTL, logger)
	cvService := services.NewCVService(cvRepo, store, cfg.S3.PublicBaseURL, logger)
	interviewService := services.NewInterviewService(interviewRepo, cvRepo, generator, scoring.HeuristicScorer{}, publisher, logger)

	cleanup := jobs.NewTokenCleanupJob(tokenRepo, jobs.CleanupConfig{
		Schedule: cfg.TokenCleanupSchedule,
		Enabled:  cfg.TokenCleanupSchedule != "off",
	}, logger)
	if err := cleanup.Start(); err != nil {
		return err
	}
	defer cleanup.Stop()

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer, middleware.Timeout(60*time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(metrics.Middleware)

	routers.HealthRoutes(r, handlers.NewHealthHandler(sqlDB, logger))
	routers.MetricsRoutes(r, metrics.Handler())
	routers.AuthRoutes(r, handlers.NewAuthHandler(authService, logger), cfg.JWTSecret)
	routers.UserRoutes(r, handlers.NewUserHandler(authService, logger), cfg.JWTSecret)
	routers.CVRoutes(r, handlers.NewCVHandler(cvService, cfg.MaxUploadBytes, logger), cfg.JWTSecret)
	routers.InterviewRoutes(r, handlers.NewInterviewHandler(interviewService, logger), cfg.JWTSecret)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		errCh <- httpListenServe(srv)
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		return nil
	}
}

func main() {
	if err := run(); err != nil {
		logFatalFn(err)
	}
}
