package services

import (
	"context"
	"time"

	"github.com/Ainterview-4/Big-Leap/internal/models"
)

// UserRepository captures the user persistence operations required by services.
type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, userID string) (*models.User, error)
	UpdateName(ctx context.Context, userID, name string) (*models.User, error)
	UpdatePasswordHash(ctx context.Context, userID, hash string) error
}

// TokenRepository captures the reset token persistence operations.
type TokenRepository interface {
	Create(ctx context.Context, token *models.Token) error
	GetByToken(ctx context.Context, tokenStr string) (*models.Token, error)
	DeleteByToken(ctx context.Context, tokenStr string) error
	DeleteByUserAndPurpose(ctx context.Context, userID string, purpose models.TokenPurpose) error
}

// CVRepository captures the CV persistence operations.
type CVRepository interface {
	CreateCV(ctx context.Context, cv *models.CV) error
	ListCVs(ctx context.Context, userID string) ([]models.CV, error)
	GetCV(ctx context.Context, id, userID string) (*models.CV, error)
}

// InterviewRepository captures the interview aggregate persistence operations.
type InterviewRepository interface {
	CreateInterview(ctx context.Context, interview *models.Interview) error
	ListInterviews(ctx context.Context, userID string) ([]models.Interview, error)
	GetInterview(ctx context.Context, id, userID string) (*models.Interview, error)
	CreateSession(ctx context.Context, session *models.InterviewSession) error
	GetSession(ctx context.Context, id, userID string) (*models.InterviewSession, error)
	RecordTurn(ctx context.Context, sessionID string, expected int, answer, prompt *models.InterviewMessage) error
	CompleteSession(ctx context.Context, sessionID string, expected, score int, feedback string, endedAt time.Time) error
}

// Mailer delivers plain-text mail.
type Mailer interface {
	SendEmail(to, subject, body string) error
}
