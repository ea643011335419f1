package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/Ainterview-4/Big-Leap/internal/models"

	"gorm.io/gorm"
)

var ErrTokenNotFound = errors.New("token not found")

type TokenRepository struct {
	DB *gorm.DB
}

func (r *TokenRepository) Create(ctx context.Context, token *models.Token) error {
	return r.DB.WithContext(ctx).Create(token).Error
}

func (r *TokenRepository) GetByToken(ctx context.Context, tokenStr string) (*models.Token, error) {
	var t models.Token
	err := r.DB.WithContext(ctx).Where("token = ?", tokenStr).First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTokenNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TokenRepository) DeleteByToken(ctx context.Context, tokenStr string) error {
	return r.DB.WithContext(ctx).Where("token = ?", tokenStr).Delete(&models.Token{}).Error
}

func (r *TokenRepository) DeleteByUserAndPurpose(ctx context.Context, userID string, purpose models.TokenPurpose) error {
	return r.DB.WithContext(ctx).Where("user_id = ? AND purpose = ?", userID, purpose).Delete(&models.Token{}).Error
}

// DeleteExpired removes tokens that expired at or before the given time.
func (r *TokenRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	tx := r.DB.WithContext(ctx).Where("expires_at <= ?", before).Delete(&models.Token{})
	return tx.RowsAffected, tx.Error
}
