package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/Ainterview-4/Big-Leap/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrNotFound = errors.New("record not found")
	// ErrStaleSession means the session changed between read and write.
	ErrStaleSession = errors.New("session changed concurrently")
)

type InterviewRepository struct {
	DB *gorm.DB
}

func (r *InterviewRepository) CreateInterview(ctx context.Context, interview *models.Interview) error {
	return r.DB.WithContext(ctx).Omit(clause.Associations).Create(interview).Error
}

// ListInterviews returns the owner's interviews, newest first.
func (r *InterviewRepository) ListInterviews(ctx context.Context, userID string) ([]models.Interview, error) {
	interviews := []models.Interview{}
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&interviews).Error
	return interviews, err
}

// GetInterview loads an interview with its sessions, filtered by owner.
func (r *InterviewRepository) GetInterview(ctx context.Context, id, userID string) (*models.Interview, error) {
	var interview models.Interview
	err := r.DB.WithContext(ctx).
		Preload("Sessions", func(db *gorm.DB) *gorm.DB {
			return db.Order("started_at DESC")
		}).
		First(&interview, "id = ? AND user_id = ?", id, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &interview, nil
}

func (r *InterviewRepository) CreateSession(ctx context.Context, session *models.InterviewSession) error {
	return r.DB.WithContext(ctx).Omit(clause.Associations).Create(session).Error
}

// GetSession loads a session with its interview, CV and transcript, filtered by owner.
func (r *InterviewRepository) GetSession(ctx context.Context, id, userID string) (*models.InterviewSession, error) {
	var session models.InterviewSession
	err := r.DB.WithContext(ctx).
		Preload("Interview").
		Preload("CV").
		Preload("Messages", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		First(&session, "id = ? AND user_id = ?", id, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// RecordTurn appends an answer and the follow-up prompt and advances the
// question counter, all in one transaction. expected is the counter value the
// caller read; if the session moved on or left IN_PROGRESS meanwhile nothing
// is written and ErrStaleSession is returned.
func (r *InterviewRepository) RecordTurn(ctx context.Context, sessionID string, expected int, answer, prompt *models.InterviewMessage) error {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.InterviewSession{}).
			Where("id = ? AND status = ? AND current_question = ?", sessionID, models.SessionStatusInProgress, expected).
			UpdateColumn("current_question", gorm.Expr("current_question + ?", 1))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrStaleSession
		}

		answer.SessionID, answer.Position = sessionID, expected*2
		prompt.SessionID, prompt.Position = sessionID, expected*2+1
		if err := tx.Create(answer).Error; err != nil {
			return err
		}
		return tx.Create(prompt).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrStaleSession
	}
	return err
}

// CompleteSession stores the evaluation and closes the session. It follows the
// same optimistic rule as RecordTurn.
func (r *InterviewRepository) CompleteSession(ctx context.Context, sessionID string, expected, score int, feedback string, endedAt time.Time) error {
	res := r.DB.WithContext(ctx).Model(&models.InterviewSession{}).
		Where("id = ? AND status = ? AND current_question = ?", sessionID, models.SessionStatusInProgress, expected).
		Updates(map[string]interface{}{
			"status":   models.SessionStatusCompleted,
			"score":    score,
			"feedback": feedback,
			"ended_at": endedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStaleSession
	}
	return nil
}
