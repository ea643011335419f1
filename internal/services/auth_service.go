package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Ainterview-4/Big-Leap/internal/models"
	"github.com/Ainterview-4/Big-Leap/internal/repositories"
	"github.com/Ainterview-4/Big-Leap/internal/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type RegisterInput struct {
	Email    string
	Password string
	Name     string
}

type LoginResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// AuthService owns credentials: registration, login, password changes and resets.
type AuthService struct {
	Users     UserRepository
	Tokens    TokenRepository
	Mailer    Mailer
	JWTSecret string
	TokenTTL  time.Duration
	ResetTTL  time.Duration
	Logger    *zap.Logger

	now           func() time.Time
	hashPassword  func(password string) ([]byte, error)
	checkPassword func(hash, password []byte) error

	// compared against on unknown emails so both login failures cost one bcrypt check
	dummyOnce sync.Once
	dummyHash []byte
}

func NewAuthService(users UserRepository, tokens TokenRepository, mailer Mailer, secret string, tokenTTL, resetTTL time.Duration, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		Users:     users,
		Tokens:    tokens,
		Mailer:    mailer,
		JWTSecret: secret,
		TokenTTL:  tokenTTL,
		ResetTTL:  resetTTL,
		Logger:    logger,
		now:       time.Now,
		hashPassword: func(password string) ([]byte, error) {
			return bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		},
		checkPassword: bcrypt.CompareHashAndPassword,
	}
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	email := utils.NormalizeEmail(in.Email)
	name := strings.TrimSpace(in.Name)
	if email == "" || in.Password == "" || name == "" {
		return nil, models.NewValidationError("Email, password and name are required", nil)
	}

	if _, err := s.Users.GetUserByEmail(ctx, email); err == nil {
		return nil, models.NewEmailExistsError()
	} else if !errors.Is(err, repositories.ErrUserNotFound) {
		return nil, models.NewDatabaseError(err)
	}

	hash, err := s.hash(in.Password)
	if err != nil {
		return nil, err
	}
	user := &models.User{Email: email, PasswordHash: hash, Name: name}
	if err := s.Users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrEmailTaken) {
			return nil, models.NewEmailExistsError()
		}
		return nil, models.NewDatabaseError(err)
	}
	s.Logger.Info("user registered", zap.String("userId", user.ID))
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = utils.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, models.NewValidationError("Email and password are required", nil)
	}

	user, err := s.Users.GetUserByEmail(ctx, email)
	if errors.Is(err, repositories.ErrUserNotFound) {
		_ = s.checkPassword(s.dummyPasswordHash(), []byte(password))
		return nil, models.NewInvalidCredentialsError()
	}
	if err != nil {
		return nil, models.NewDatabaseError(err)
	}
	if s.checkPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, models.NewInvalidCredentialsError()
	}

	token, err := utils.SignToken(s.JWTSecret, user.ID, s.TokenTTL, s.now())
	if errors.Is(err, utils.ErrMissingSecret) {
		return nil, models.NewConfigError("JWT secret is not configured")
	}
	if err != nil {
		return nil, models.NewServerError("Failed to sign token", err)
	}
	return &LoginResult{Token: token, User: user}, nil
}

func (s *AuthService) GetProfile(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.Users.GetUserByID(ctx, userID)
	if errors.Is(err, repositories.ErrUserNotFound) {
		return nil, models.NewNotFoundError("User not found")
	}
	if err != nil {
		return nil, models.NewDatabaseError(err)
	}
	return user, nil
}

func (s *AuthService) UpdateName(ctx context.Context, userID, name string) (*models.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, models.NewValidationError("Name is required", nil)
	}
	user, err := s.Users.UpdateName(ctx, userID, name)
	if errors.Is(err, repositories.ErrUserNotFound) {
		return nil, models.NewNotFoundError("User not found")
	}
	if err != nil {
		return nil, models.NewDatabaseError(err)
	}
	return user, nil
}

func (s *AuthService) ChangePassword(ctx context.Context, userID, current, next string) error {
	if current == "" || next == "" {
		return models.NewValidationError("Current and new password are required", nil)
	}
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return err
	}
	if s.checkPassword([]byte(user.PasswordHash), []byte(current)) != nil {
		apiErr := models.NewInvalidCredentialsError()
		apiErr.Message = "Current password is incorrect"
		return apiErr
	}
	return s.setPassword(ctx, userID, next)
}

// RequestPasswordReset issues a reset token when the email belongs to a user.
// The outcome is the same whether or not the account exists.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	email = utils.NormalizeEmail(email)
	if email == "" {
		return models.NewValidationError("Email is required", nil)
	}

	user, err := s.Users.GetUserByEmail(ctx, email)
	if errors.Is(err, repositories.ErrUserNotFound) {
		s.Logger.Debug("password reset requested for unknown email")
		return nil
	}
	if err != nil {
		return models.NewDatabaseError(err)
	}

	if err := s.Tokens.DeleteByUserAndPurpose(ctx, user.ID, models.TokenPurposePasswordReset); err != nil {
		return models.NewDatabaseError(err)
	}
	token := &models.Token{
		UserID:    user.ID,
		Token:     uuid.NewString(),
		Purpose:   models.TokenPurposePasswordReset,
		ExpiresAt: s.now().Add(s.ResetTTL),
	}
	if err := s.Tokens.Create(ctx, token); err != nil {
		return models.NewDatabaseError(err)
	}

	if s.Mailer == nil {
		s.Logger.Info("password reset token issued without mailer", zap.String("userId", user.ID))
		return nil
	}
	body := fmt.Sprintf("Hi %s,\n\nUse this code to reset your password: %s\nIt expires in %s.\n",
		user.Name, token.Token, s.ResetTTL.Round(time.Minute))
	if err := s.Mailer.SendEmail(user.Email, "Password reset", body); err != nil {
		s.Logger.Warn("failed to send password reset email", zap.String("userId", user.ID), zap.Error(err))
	}
	return nil
}

// ResetPassword consumes a reset token and sets a new password.
func (s *AuthService) ResetPassword(ctx context.Context, tokenStr, password string) error {
	tokenStr = strings.TrimSpace(tokenStr)
	if tokenStr == "" || password == "" {
		return models.NewValidationError("Token and new password are required", nil)
	}

	token, err := s.Tokens.GetByToken(ctx, tokenStr)
	if errors.Is(err, repositories.ErrTokenNotFound) {
		return models.NewInvalidTokenError()
	}
	if err != nil {
		return models.NewDatabaseError(err)
	}
	if token.Purpose != models.TokenPurposePasswordReset {
		return models.NewInvalidTokenError()
	}
	if token.Expired(s.now()) {
		if err := s.Tokens.DeleteByToken(ctx, tokenStr); err != nil {
			s.Logger.Warn("failed to delete expired reset token", zap.Error(err))
		}
		return models.NewInvalidTokenError()
	}

	if err := s.setPassword(ctx, token.UserID, password); err != nil {
		return err
	}
	if err := s.Tokens.DeleteByToken(ctx, tokenStr); err != nil {
		return models.NewDatabaseError(err)
	}
	return nil
}

func (s *AuthService) setPassword(ctx context.Context, userID, password string) error {
	hash, err := s.hash(password)
	if err != nil {
		return err
	}
	err = s.Users.UpdatePasswordHash(ctx, userID, hash)
	if errors.Is(err, repositories.ErrUserNotFound) {
		return models.NewNotFoundError("User not found")
	}
	if err != nil {
		return models.NewDatabaseError(err)
	}
	return nil
}

// dummyPasswordHash is built with the same cost as real hashes.
func (s *AuthService) dummyPasswordHash() []byte {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = s.hashPassword(uuid.NewString())
	})
	return s.dummyHash
}

func (s *AuthService) hash(password string) (string, error) {
	hash, err := s.hashPassword(password)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", models.NewValidationError("Password must be at most 72 bytes", nil)
	}
	if err != nil {
		return "", models.NewServerError("Failed to hash password", err)
	}
	return string(hash), nil
}
