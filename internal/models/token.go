package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TokenPurpose string

const TokenPurposePasswordReset TokenPurpose = "password_reset"

// Token is a single-use secret mailed to a user, e.g. for a password reset.
type Token struct {
	ID        string       `gorm:"primaryKey;type:varchar(36)"`
	UserID    string       `gorm:"index;not null"`
	Token     string       `gorm:"uniqueIndex;not null"`
	Purpose   TokenPurpose `gorm:"index;not null"`
	ExpiresAt time.Time    `gorm:"index;not null"`
	CreatedAt time.Time
}

func (t *Token) BeforeCreate(_ *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

// Expired reports whether the token is no longer usable at now.
func (t *Token) Expired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}
