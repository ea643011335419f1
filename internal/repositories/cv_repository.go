package repositories

import (
	"context"
	"errors"

	"github.com/Ainterview-4/Big-Leap/internal/models"

	"gorm.io/gorm"
)

type CVRepository struct {
	DB *gorm.DB
}

func (r *CVRepository) CreateCV(ctx context.Context, cv *models.CV) error {
	return r.DB.WithContext(ctx).Create(cv).Error
}

// ListCVs returns the owner's CVs, newest first.
func (r *CVRepository) ListCVs(ctx context.Context, userID string) ([]models.CV, error) {
	cvs := []models.CV{}
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&cvs).Error
	return cvs, err
}

// GetCV returns ErrNotFound when the CV does not exist or belongs to someone else.
func (r *CVRepository) GetCV(ctx context.Context, id, userID string) (*models.CV, error) {
	var cv models.CV
	err := r.DB.WithContext(ctx).First(&cv, "id = ? AND user_id = ?", id, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &cv, nil
}
