package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// ExpiredTokenStore deletes reset tokens that expired before a given instant.
type ExpiredTokenStore interface {
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

// CleanupConfig contains configuration for the token cleanup job
type CleanupConfig struct {
	Schedule string        // Cron schedule (e.g., "@hourly" or "0 3 * * *")
	Enabled  bool          // Whether to schedule the job at all
	Timeout  time.Duration // Upper bound for a single run
}

// TokenCleanupJob periodically removes expired password reset tokens.
type TokenCleanupJob struct {
	tokens ExpiredTokenStore
	config CleanupConfig
	logger *zap.Logger
	cron   *cron.Cron
	now    func() time.Time
}

// NewTokenCleanupJob creates a new cleanup job
func NewTokenCleanupJob(tokens ExpiredTokenStore, config CleanupConfig, logger *zap.Logger) *TokenCleanupJob {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}
	return &TokenCleanupJob{
		tokens: tokens,
		config: config,
		logger: logger,
		cron:   cron.New(),
		now:    time.Now,
	}
}

// Start schedules the job
func (j *TokenCleanupJob) Start() error {
	if !j.config.Enabled {
		j.logger.Info("token cleanup is disabled, skipping scheduler")
		return nil
	}

	_, err := j.cron.AddFunc(j.config.Schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), j.config.Timeout)
		defer cancel()
		if _, err := j.RunOnce(ctx); err != nil {
			j.logger.Error("token cleanup failed", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule token cleanup: %w", err)
	}

	j.cron.Start()
	j.logger.Info("token cleanup scheduled", zap.String("schedule", j.config.Schedule))
	return nil
}

// Stop stops the scheduler and waits for a running cleanup to finish.
func (j *TokenCleanupJob) Stop() {
	if j.cron != nil {
		<-j.cron.Stop().Done()
		j.logger.Info("token cleanup stopped")
	}
}

// RunOnce deletes every token that is expired now.
func (j *TokenCleanupJob) RunOnce(ctx context.Context) (int64, error) {
	removed, err := j.tokens.DeleteExpired(ctx, j.now())
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired tokens: %w", err)
	}
	if removed > 0 {
		j.logger.Info("expired tokens removed", zap.Int64("count", removed))
	}
	return removed, nil
}
