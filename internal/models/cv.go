package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CV is an uploaded résumé document and the location it was stored at.
type CV struct {
	ID         string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID     string    `gorm:"index;not null" json:"userId"`
	FileName   string    `gorm:"not null" json:"fileName"`
	MimeType   string    `gorm:"not null" json:"mimeType"`
	SizeBytes  int64     `gorm:"not null" json:"sizeBytes"`
	StorageKey string    `gorm:"uniqueIndex;not null" json:"storageKey"`
	URL        string    `gorm:"column:url;not null" json:"url"`
	CreatedAt  time.Time `gorm:"index" json:"createdAt"`
}

func (CV) TableName() string { return "cvs" }

func (c *CV) BeforeCreate(_ *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
