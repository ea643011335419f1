package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/Ainterview-4/Big-Leap/internal/events"
	"github.com/Ainterview-4/Big-Leap/internal/metrics"
	"github.com/Ainterview-4/Big-Leap/internal/models"
	"github.com/Ainterview-4/Big-Leap/internal/questions"
	"github.com/Ainterview-4/Big-Leap/internal/repositories"
	"github.com/Ainterview-4/Big-Leap/internal/scoring"
	"github.com/Ainterview-4/Big-Leap/internal/utils"

	"go.uber.org/zap"
)

type CreateInterviewInput struct {
	Title    string  `json:"title"`
	Role     *string `json:"role"`
	Company  *string `json:"company"`
	Level    *string `json:"level"`
	Language string  `json:"language"`
}

type AnswerResult struct {
	SessionID     string       `json:"sessionId"`
	QuestionIndex int          `json:"questionIndex"`
	NextQuestion  string       `json:"nextQuestion"`
	Score         int          `json:"score"`
	Band          scoring.Band `json:"band"`
	Feedback      string       `json:"feedback"`
}

type EvaluateResult struct {
	SessionID string               `json:"sessionId"`
	Status    models.SessionStatus `json:"status"`
	Score     int                  `json:"score"`
	Feedback  string               `json:"feedback"`
}

// InterviewService runs the session state machine:
// IN_PROGRESS accepts answers until evaluate moves it to COMPLETED.
type InterviewService struct {
	Interviews InterviewRepository
	CVs        CVRepository
	Questions  questions.Generator
	Scorer     scoring.Scorer
	Events     events.Publisher
	Logger     *zap.Logger

	now func() time.Time
}

func NewInterviewService(interviews InterviewRepository, cvs CVRepository, gen questions.Generator, scorer scoring.Scorer, pub events.Publisher, logger *zap.Logger) *InterviewService {
	if scorer == nil {
		scorer = scoring.HeuristicScorer{}
	}
	if pub == nil {
		pub = events.NopPublisher{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InterviewService{
		Interviews: interviews,
		CVs:        cvs,
		Questions:  gen,
		Scorer:     scorer,
		Events:     pub,
		Logger:     logger,
		now:        time.Now,
	}
}

func (s *InterviewService) Create(ctx context.Context, ownerID string, in CreateInterviewInput) (*models.Interview, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, models.NewValidationError("Title is required", nil)
	}
	language := strings.ToLower(strings.TrimSpace(in.Language))
	if language == "" {
		language = models.DefaultInterviewLanguage
	}

	interview := &models.Interview{
		UserID:   ownerID,
		Title:    title,
		Role:     utils.OptionalString(in.Role),
		Company:  utils.OptionalString(in.Company),
		Level:    utils.OptionalString(in.Level),
		Language: language,
		Status:   models.InterviewStatusDraft,
	}
	if err := s.Interviews.CreateInterview(ctx, interview); err != nil {
		return nil, models.NewDatabaseError(err)
	}
	return interview, nil
}

func (s *InterviewService) List(ctx context.Context, ownerID string) ([]models.Interview, error) {
	interviews, err := s.Interviews.ListInterviews(ctx, ownerID)
	if err != nil {
		return nil, models.NewDatabaseError(err)
	}
	return interviews, nil
}

func (s *InterviewService) Get(ctx context.Context, ownerID, interviewID string) (*models.Interview, error) {
	interview, err := s.Interviews.GetInterview(ctx, interviewID, ownerID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, models.NewNotFoundError("Interview not found")
	}
	if err != nil {
		return nil, models.NewDatabaseError(err)
	}
	return interview, nil
}

// Start opens a new IN_PROGRESS session, optionally linked to one of the
// owner's CVs.
func (s *InterviewService) Start(ctx context.Context, ownerID, interviewID string, cvID *string) (*models.InterviewSession, error) {
	interview, err := s.Get(ctx, ownerID, interviewID)
	if err != nil {
		return nil, err
	}
	if interview.UserID != ownerID {
		return nil, models.NewNotFoundError("Interview not found")
	}

	cvID = utils.OptionalString(cvID)
	if cvID != nil {
		_, err := s.CVs.GetCV(ctx, *cvID, ownerID)
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, models.NewNotFoundError("CV not found")
		}
		if err != nil {
			return nil, models.NewDatabaseError(err)
		}
	}

	session := &models.InterviewSession{
		InterviewID:     interview.ID,
		UserID:          interview.UserID,
		CVID:            cvID,
		Status:          models.SessionStatusInProgress,
		CurrentQuestion: 0,
		StartedAt:       s.now(),
	}
	if err := s.Interviews.CreateSession(ctx, session); err != nil {
		return nil, models.NewDatabaseError(err)
	}
	s.Logger.Info("interview session started",
		zap.String("sessionId", session.ID), zap.String("interviewId", interview.ID))
	return session, nil
}

// Answer accepts one answer, grades it and asks the next question.
func (s *InterviewService) Answer(ctx context.Context, ownerID, sessionID, answer string) (*AnswerResult, error) {
	session, err := s.GetSession(ctx, ownerID, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status != models.SessionStatusInProgress {
		return nil, models.NewInvalidStateError("Session is not in progress", map[string]string{"status": string(session.Status)})
	}
	text := strings.TrimSpace(answer)
	if text == "" {
		return nil, models.NewValidationError("Answer is required", nil)
	}

	grade := s.Scorer.Score(text)
	index := session.CurrentQuestion + 1
	next, err := s.Questions.NextQuestion(ctx, questionContext(session, index, text))
	if err != nil {
		return nil, models.NewServerError("Failed to generate next question", err)
	}

	score := grade.Score
	userMsg := &models.InterviewMessage{Role: models.MessageRoleUser, Content: text, Score: &score}
	promptMsg := &models.InterviewMessage{Role: models.MessageRoleAssistant, Content: next}
	if err := s.Interviews.RecordTurn(ctx, session.ID, session.CurrentQuestion, userMsg, promptMsg); err != nil {
		if errors.Is(err, repositories.ErrStaleSession) {
			metrics.ObserveConflict()
			return nil, models.NewConflictError("Session was updated by another request, please retry")
		}
		return nil, models.NewDatabaseError(err)
	}
	metrics.ObserveAnswer(grade.Score)

	return &AnswerResult{
		SessionID:     session.ID,
		QuestionIndex: index,
		NextQuestion:  next,
		Score:         grade.Score,
		Band:          grade.Band,
		Feedback:      grade.Feedback,
	}, nil
}

// Evaluate closes the session. The session score is the rounded mean of the
// per-answer scores; evaluating a COMPLETED session is INVALID_STATE.
func (s *InterviewService) Evaluate(ctx context.Context, ownerID, sessionID string) (*EvaluateResult, error) {
	session, err := s.GetSession(ctx, ownerID, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status != models.SessionStatusInProgress {
		return nil, models.NewInvalidStateError("Session is already completed", map[string]string{"status": string(session.Status)})
	}

	score := meanAnswerScore(session.Messages)
	feedback := buildFeedback(score, len(session.Messages), session.CV)
	endedAt := s.now()

	err = s.Interviews.CompleteSession(ctx, session.ID, session.CurrentQuestion, score, feedback, endedAt)
	if errors.Is(err, repositories.ErrStaleSession) {
		metrics.ObserveConflict()
		return nil, models.NewConflictError("Session was updated by another request, please retry")
	}
	if err != nil {
		return nil, models.NewDatabaseError(err)
	}
	metrics.ObserveSession(score)

	evt := events.SessionCompleted{
		SessionID:    session.ID,
		InterviewID:  session.InterviewID,
		UserID:       session.UserID,
		Score:        score,
		MessageCount: len(session.Messages),
		CompletedAt:  endedAt,
	}
	if err := s.Events.PublishSessionCompleted(ctx, evt); err != nil {
		s.Logger.Warn("session completed event not published", zap.String("sessionId", session.ID), zap.Error(err))
	}

	return &EvaluateResult{
		SessionID: session.ID,
		Status:    models.SessionStatusCompleted,
		Score:     score,
		Feedback:  feedback,
	}, nil
}

// GetSession returns the owner's session with its transcript, interview and CV.
func (s *InterviewService) GetSession(ctx context.Context, ownerID, sessionID string) (*models.InterviewSession, error) {
	session, err := s.Interviews.GetSession(ctx, sessionID, ownerID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, models.NewNotFoundError("Session not found")
	}
	if err != nil {
		return nil, models.NewDatabaseError(err)
	}
	return session, nil
}

func questionContext(session *models.InterviewSession, index int, lastAnswer string) questions.Context {
	qc := questions.Context{Index: index, LastAnswer: lastAnswer, Language: models.DefaultInterviewLanguage}
	if session.Interview != nil {
		qc.Language = session.Interview.Language
		qc.Title = session.Interview.Title
		qc.Role = deref(session.Interview.Role)
		qc.Company = deref(session.Interview.Company)
		qc.Level = deref(session.Interview.Level)
	}
	if session.CV != nil {
		qc.CVFileName = session.CV.FileName
	}
	return qc
}

func meanAnswerScore(messages []models.InterviewMessage) int {
	total, n := 0, 0
	for _, m := range messages {
		if m.Role == models.MessageRoleUser && m.Score != nil {
			total += *m.Score
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return int(math.Round(float64(total) / float64(n)))
}

func buildFeedback(score, messageCount int, cv *models.CV) string {
	lines := []string{
		"İletişim: İyi",
		"Teknik seviye: Orta",
		"Genel izlenim: Pozitif",
		fmt.Sprintf("Mesaj sayısı: %d", messageCount),
		"Değerlendirme: " + scoring.FeedbackFor(scoring.BandFor(score)),
	}
	if cv != nil {
		lines = append(lines,
			"CV referansı: "+cv.FileName,
			"Not: Değerlendirme CV ile uyum hedeflenerek yapılmıştır.",
		)
	}
	return strings.Join(lines, "\n")
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
