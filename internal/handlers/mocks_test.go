package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Ainterview-4/Big-Leap/internal/middleware"
	"github.com/Ainterview-4/Big-Leap/internal/models"
	"github.com/Ainterview-4/Big-Leap/internal/services"

	"github.com/go-chi/chi/v5"
)

type mockAuthService struct {
	registerFn       func(services.RegisterInput) (*models.User, error)
	loginFn          func(string, string) (*services.LoginResult, error)
	getProfileFn     func(string) (*models.User, error)
	updateNameFn     func(string, string) (*models.User, error)
	changePasswordFn func(string, string, string) error
	requestResetFn   func(string) error
	resetPasswordFn  func(string, string) error
}

func (m *mockAuthService) Register(_ context.Context, in services.RegisterInput) (*models.User, error) {
	if m.registerFn == nil {
		panic("unexpected call to Register")
	}
	return m.registerFn(in)
}

func (m *mockAuthService) Login(_ context.Context, email, password string) (*services.LoginResult, error) {
	if m.loginFn == nil {
		panic("unexpected call to Login")
	}
	return m.loginFn(email, password)
}

func (m *mockAuthService) GetProfile(_ context.Context, userID string) (*models.User, error) {
	if m.getProfileFn == nil {
		panic("unexpected call to GetProfile")
	}
	return m.getProfileFn(userID)
}

func (m *mockAuthService) UpdateName(_ context.Context, userID, name string) (*models.User, error) {
	if m.updateNameFn == nil {
		panic("unexpected call to UpdateName")
	}
	return m.updateNameFn(userID, name)
}

func (m *mockAuthService) ChangePassword(_ context.Context, userID, current, next string) error {
	if m.changePasswordFn == nil {
		panic("unexpected call to ChangePassword")
	}
	return m.changePasswordFn(userID, current, next)
}

func (m *mockAuthService) RequestPasswordReset(_ context.Context, email string) error {
	if m.requestResetFn == nil {
		panic("unexpected call to RequestPasswordReset")
	}
	return m.requestResetFn(email)
}

func (m *mockAuthService) ResetPassword(_ context.Context, token, password string) error {
	if m.resetPasswordFn == nil {
		panic("unexpected call to ResetPassword")
	}
	return m.resetPasswordFn(token, password)
}

type mockCVService struct {
	uploadFn   func(services.UploadInput) (*models.CV, error)
	listFn     func(string) ([]models.CV, error)
	getFn      func(string, string) (*models.CV, error)
	optimizeFn func(string, string, string) (*services.OptimizeResult, error)
}

func (m *mockCVService) Upload(_ context.Context, in services.UploadInput) (*models.CV, error) {
	if m.uploadFn == nil {
		panic("unexpected call to Upload")
	}
	return m.uploadFn(in)
}

func (m *mockCVService) List(_ context.Context, ownerID string) ([]models.CV, error) {
	if m.listFn == nil {
		panic("unexpected call to List")
	}
	return m.listFn(ownerID)
}

func (m *mockCVService) Get(_ context.Context, ownerID, cvID string) (*models.CV, error) {
	if m.getFn == nil {
		panic("unexpected call to Get")
	}
	return m.getFn(ownerID, cvID)
}

func (m *mockCVService) Optimize(_ context.Context, ownerID, cvID, jd string) (*services.OptimizeResult, error) {
	if m.optimizeFn == nil {
		panic("unexpected call to Optimize")
	}
	return m.optimizeFn(ownerID, cvID, jd)
}

type mockInterviewService struct {
	createFn     func(string, services.CreateInterviewInput) (*models.Interview, error)
	listFn       func(string) ([]models.Interview, error)
	getFn        func(string, string) (*models.Interview, error)
	startFn      func(string, string, *string) (*models.InterviewSession, error)
	answerFn     func(string, string, string) (*services.AnswerResult, error)
	evaluateFn   func(string, string) (*services.EvaluateResult, error)
	getSessionFn func(string, string) (*models.InterviewSession, error)
}

func (m *mockInterviewService) Create(_ context.Context, ownerID string, in services.CreateInterviewInput) (*models.Interview, error) {
	if m.createFn == nil {
		panic("unexpected call to Create")
	}
	return m.createFn(ownerID, in)
}

func (m *mockInterviewService) List(_ context.Context, ownerID string) ([]models.Interview, error) {
	if m.listFn == nil {
		panic("unexpected call to List")
	}
	return m.listFn(ownerID)
}

func (m *mockInterviewService) Get(_ context.Context, ownerID, id string) (*models.Interview, error) {
	if m.getFn == nil {
		panic("unexpected call to Get")
	}
	return m.getFn(ownerID, id)
}

func (m *mockInterviewService) Start(_ context.Context, ownerID, id string, cvID *string) (*models.InterviewSession, error) {
	if m.startFn == nil {
		panic("unexpected call to Start")
	}
	return m.startFn(ownerID, id, cvID)
}

func (m *mockInterviewService) Answer(_ context.Context, ownerID, sessionID, answer string) (*services.AnswerResult, error) {
	if m.answerFn == nil {
		panic("unexpected call to Answer")
	}
	return m.answerFn(ownerID, sessionID, answer)
}

func (m *mockInterviewService) Evaluate(_ context.Context, ownerID, sessionID string) (*services.EvaluateResult, error) {
	if m.evaluateFn == nil {
		panic("unexpected call to Evaluate")
	}
	return m.evaluateFn(ownerID, sessionID)
}

func (m *mockInterviewService) GetSession(_ context.Context, ownerID, sessionID string) (*models.InterviewSession, error) {
	if m.getSessionFn == nil {
		panic("unexpected call to GetSession")
	}
	return m.getSessionFn(ownerID, sessionID)
}

type testEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string          `json:"code"`
		Message string          `json:"message"`
		Details json.RawMessage `json:"details"`
	} `json:"error"`
}

// newRequest builds a request with chi URL params and an optional caller.
func newRequest(method, target string, body io.Reader, userID string, params map[string]string) *http.Request {
	req := httptest.NewRequest(method, target, body)
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	if userID != "" {
		ctx = middleware.WithCaller(ctx, middleware.Caller{UserID: userID})
	}
	return req.WithContext(ctx)
}

func jsonBody(t *testing.T, v any) io.Reader {
	t.Helper()
	raw, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("failed to marshal body: %v", err)
	}
	return bytes.NewReader(raw)
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) testEnvelope {
	t.Helper()
	var env testEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("failed to decode envelope %q: %v", rec.Body.String(), err)
	}
	return env
}

func expectError(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) testEnvelope {
	t.Helper()
	if rec.Code != status {
		t.Fatalf("expected status %d, got %d: %s", status, rec.Code, rec.Body.String())
	}
	env := decodeEnvelope(t, rec)
	if env.Success || env.Error == nil || env.Error.Code != code {
		t.Fatalf("expected error code %s, got %s", code, rec.Body.String())
	}
	return env
}

func expectSuccess(t *testing.T, rec *httptest.ResponseRecorder, status int, dst any) {
	t.Helper()
	if rec.Code != status {
		t.Fatalf("expected status %d, got %d: %s", status, rec.Code, rec.Body.String())
	}
	env := decodeEnvelope(t, rec)
	if !env.Success || env.Error != nil {
		t.Fatalf("expected success envelope, got %s", rec.Body.String())
	}
	if dst != nil {
		if err := json.Unmarshal(env.Data, dst); err != nil {
			t.Fatalf("failed to decode data: %v", err)
		}
	}
}
