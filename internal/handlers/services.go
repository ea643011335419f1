package handlers

import (
	"context"

	"github.com/Ainterview-4/Big-Leap/internal/models"
	"github.com/Ainterview-4/Big-Leap/internal/services"
)

// AuthService captures the account operations required by handlers.
type AuthService interface {
	Register(ctx context.Context, in services.RegisterInput) (*models.User, error)
	Login(ctx context.Context, email, password string) (*services.LoginResult, error)
	GetProfile(ctx context.Context, userID string) (*models.User, error)
	UpdateName(ctx context.Context, userID, name string) (*models.User, error)
	ChangePassword(ctx context.Context, userID, current, next string) error
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, password string) error
}

// CVService captures the CV operations required by handlers.
type CVService interface {
	Upload(ctx context.Context, in services.UploadInput) (*models.CV, error)
	List(ctx context.Context, ownerID string) ([]models.CV, error)
	Get(ctx context.Context, ownerID, cvID string) (*models.CV, error)
	Optimize(ctx context.Context, ownerID, cvID, jobDescription string) (*services.OptimizeResult, error)
}

// InterviewService captures the interview session operations required by handlers.
type InterviewService interface {
	Create(ctx context.Context, ownerID string, in services.CreateInterviewInput) (*models.Interview, error)
	List(ctx context.Context, ownerID string) ([]models.Interview, error)
	Get(ctx context.Context, ownerID, interviewID string) (*models.Interview, error)
	Start(ctx context.Context, ownerID, interviewID string, cvID *string) (*models.InterviewSession, error)
	Answer(ctx context.Context, ownerID, sessionID, answer string) (*services.AnswerResult, error)
	Evaluate(ctx context.Context, ownerID, sessionID string) (*services.EvaluateResult, error)
	GetSession(ctx context.Context, ownerID, sessionID string) (*models.InterviewSession, error)
}
