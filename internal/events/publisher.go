// Package events announces interview lifecycle changes on Redis pub/sub.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// SessionCompletedChannel carries one SessionCompleted message per evaluated session.
const SessionCompletedChannel = "interview_session_completed"

type SessionCompleted struct {
	SessionID    string    `json:"sessionId"`
	InterviewID  string    `json:"interviewId"`
	UserID       string    `json:"userId"`
	Score        int       `json:"score"`
	MessageCount int       `json:"messageCount"`
	CompletedAt  time.Time `json:"completedAt"`
}

type Publisher interface {
	PublishSessionCompleted(ctx context.Context, evt SessionCompleted) error
}

// RedisPublisher publishes events as JSON on Redis channels.
type RedisPublisher struct {
	rdb    *redis.Client
	logger *zap.Logger
}

func NewRedisPublisher(rdb *redis.Client, logger *zap.Logger) *RedisPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisPublisher{rdb: rdb, logger: logger}
}

func (p *RedisPublisher) PublishSessionCompleted(ctx context.Context, evt SessionCompleted) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal session completed: %w", err)
	}
	if err := p.rdb.Publish(ctx, SessionCompletedChannel, payload).Err(); err != nil {
		p.logger.Error("failed to publish session completed",
			zap.String("sessionId", evt.SessionID), zap.Error(err))
		return err
	}
	p.logger.Debug("published session completed", zap.String("sessionId", evt.SessionID))
	return nil
}

// NopPublisher drops every event. Used when Redis is not configured.
type NopPublisher struct{}

func (NopPublisher) PublishSessionCompleted(context.Context, SessionCompleted) error { return nil }
