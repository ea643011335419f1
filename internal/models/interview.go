package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type InterviewStatus string

const InterviewStatusDraft InterviewStatus = "DRAFT"

type SessionStatus string

const (
	SessionStatusInProgress SessionStatus = "IN_PROGRESS"
	SessionStatusCompleted  SessionStatus = "COMPLETED"
)

type MessageRole string

const (
	MessageRoleUser      MessageRole = "user"
	MessageRoleAssistant MessageRole = "assistant"
)

// DefaultInterviewLanguage is used when an interview is created without a language.
const DefaultInterviewLanguage = "tr"

// Interview is a practice interview definition owned by a single user.
type Interview struct {
	ID        string             `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID    string             `gorm:"index;not null" json:"userId"`
	Title     string             `gorm:"not null" json:"title"`
	Role      *string            `json:"role"`
	Company   *string            `json:"company"`
	Level     *string            `json:"level"`
	Language  string             `gorm:"not null;default:tr" json:"language"`
	Status    InterviewStatus    `gorm:"not null;default:DRAFT" json:"status"`
	CreatedAt time.Time          `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt"`
	Sessions  []InterviewSession `gorm:"foreignKey:InterviewID" json:"sessions,omitempty"`
}

func (i *Interview) BeforeCreate(_ *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}

// InterviewSession is one attempt at an interview. CurrentQuestion counts
// accepted answers; Score and Feedback stay empty until the session is evaluated.
type InterviewSession struct {
	ID              string             `gorm:"primaryKey;type:varchar(36)" json:"id"`
	InterviewID     string             `gorm:"index;not null" json:"interviewId"`
	UserID          string             `gorm:"index;not null" json:"userId"`
	CVID            *string            `gorm:"column:cv_id;index" json:"cvId"`
	Status          SessionStatus      `gorm:"not null;index" json:"status"`
	CurrentQuestion int                `gorm:"not null;default:0" json:"currentQuestion"`
	Score           *int               `json:"score"`
	Feedback        *string            `gorm:"type:text" json:"feedback"`
	StartedAt       time.Time          `gorm:"not null" json:"startedAt"`
	EndedAt         *time.Time         `json:"endedAt"`
	Interview       *Interview         `gorm:"foreignKey:InterviewID" json:"interview,omitempty"`
	CV              *CV                `gorm:"foreignKey:CVID" json:"cv,omitempty"`
	Messages        []InterviewMessage `gorm:"foreignKey:SessionID" json:"messages,omitempty"`
}

func (s *InterviewSession) BeforeCreate(_ *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// InterviewMessage is one entry of a session transcript. Position is the
// append order inside the session and is unique per session.
type InterviewMessage struct {
	ID        string      `gorm:"primaryKey;type:varchar(36)" json:"id"`
	SessionID string      `gorm:"not null;uniqueIndex:idx_session_position" json:"sessionId"`
	Role      MessageRole `gorm:"not null" json:"role"`
	Content   string      `gorm:"type:text;not null" json:"content"`
	Position  int         `gorm:"not null;uniqueIndex:idx_session_position" json:"position"`
	Score     *int        `json:"score,omitempty"`
	CreatedAt time.Time   `json:"createdAt"`
}

func (m *InterviewMessage) BeforeCreate(_ *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

// All lists every persisted model in migration order.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Token{},
		&CV{},
		&Interview{},
		&InterviewSession{},
		&InterviewMessage{},
	}
}
