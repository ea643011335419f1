package services

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"strings"
	"time"

	"github.com/Ainterview-4/Big-Leap/internal/metrics"
	"github.com/Ainterview-4/Big-Leap/internal/models"
	"github.com/Ainterview-4/Big-Leap/internal/repositories"
	"github.com/Ainterview-4/Big-Leap/internal/storage"
	"github.com/Ainterview-4/Big-Leap/internal/utils"

	"go.uber.org/zap"
)

var allowedCVTypes = map[string]bool{
	"application/pdf": true,
	"text/plain":      true,
}

type UploadInput struct {
	OwnerID  string
	FileName string
	MimeType string
	Content  []byte
}

type OptimizeResult struct {
	OriginalCVID     string   `json:"originalCvId"`
	OptimizedContent string   `json:"optimizedContent"`
	Suggestions      []string `json:"suggestions"`
}

// CVService stores uploaded CVs in object storage and records them.
type CVService struct {
	CVs           CVRepository
	Store         storage.ObjectStore
	PublicBaseURL string
	Logger        *zap.Logger

	now func() time.Time
}

// NewCVService builds the service. store may be nil when object storage is
// not configured; uploads then fail with CONFIG_ERROR.
func NewCVService(cvs CVRepository, store storage.ObjectStore, publicBaseURL string, logger *zap.Logger) *CVService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CVService{
		CVs:           cvs,
		Store:         store,
		PublicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		Logger:        logger,
		now:           time.Now,
	}
}

func (s *CVService) Upload(ctx context.Context, in UploadInput) (*models.CV, error) {
	if len(in.Content) == 0 {
		return nil, models.NewValidationError("No file uploaded", nil)
	}
	mimeType := normalizeMimeType(in.MimeType)
	if !allowedCVTypes[mimeType] {
		return nil, models.NewValidationError("Only PDF or TXT allowed", map[string]string{"mimeType": in.MimeType})
	}
	if s.Store == nil {
		return nil, models.NewConfigError("Object storage is not configured")
	}

	name := strings.TrimSpace(in.FileName)
	if name == "" {
		name = "file"
	}
	key := fmt.Sprintf("cv/%s/%d_%s", in.OwnerID, s.now().UnixMilli(), utils.SanitizeFileName(name))
	if err := s.Store.Put(ctx, key, in.Content, mimeType); err != nil {
		return nil, models.NewServerError("Failed to store file", err)
	}

	cv := &models.CV{
		UserID:     in.OwnerID,
		FileName:   name,
		MimeType:   mimeType,
		SizeBytes:  int64(len(in.Content)),
		StorageKey: key,
		URL:        s.objectURL(key),
	}
	if err := s.CVs.CreateCV(ctx, cv); err != nil {
		if delErr := s.Store.Delete(ctx, key); delErr != nil {
			s.Logger.Warn("failed to remove orphaned object", zap.String("key", key), zap.Error(delErr))
		}
		return nil, models.NewDatabaseError(err)
	}
	metrics.ObserveUpload(cv.SizeBytes)
	s.Logger.Info("cv uploaded", zap.String("userId", in.OwnerID), zap.String("key", key), zap.Int64("size", cv.SizeBytes))
	return cv, nil
}

func (s *CVService) List(ctx context.Context, ownerID string) ([]models.CV, error) {
	cvs, err := s.CVs.ListCVs(ctx, ownerID)
	if err != nil {
		return nil, models.NewDatabaseError(err)
	}
	return cvs, nil
}

func (s *CVService) Get(ctx context.Context, ownerID, cvID string) (*models.CV, error) {
	cv, err := s.CVs.GetCV(ctx, cvID, ownerID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, models.NewNotFoundError("CV not found")
	}
	if err != nil {
		return nil, models.NewDatabaseError(err)
	}
	return cv, nil
}

// Optimize returns generic improvement suggestions for an owned CV.
func (s *CVService) Optimize(ctx context.Context, ownerID, cvID, jobDescription string) (*OptimizeResult, error) {
	if strings.TrimSpace(cvID) == "" {
		return nil, models.NewValidationError("cvId is required", nil)
	}
	cv, err := s.Get(ctx, ownerID, cvID)
	if err != nil {
		return nil, err
	}
	s.Logger.Debug("cv optimize requested", zap.String("cvId", cv.ID), zap.Int("jobDescriptionLength", len(jobDescription)))
	return &OptimizeResult{
		OriginalCVID:     cv.ID,
		OptimizedContent: "AI-optimized content would appear here.",
		Suggestions: []string{
			"Use more action verbs.",
			"Quantify your achievements.",
			"Align keywords with the job description.",
		},
	}, nil
}

func (s *CVService) objectURL(key string) string {
	if s.PublicBaseURL != "" {
		return s.PublicBaseURL + "/" + key
	}
	return s.Store.URL(key)
}

func normalizeMimeType(raw string) string {
	mediaType, _, err := mime.ParseMediaType(raw)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(raw))
	}
	return mediaType
}
