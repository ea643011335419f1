package routers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/Ainterview-4/Big-Leap/internal/handlers"
	"github.com/Ainterview-4/Big-Leap/internal/questions"
	"github.com/Ainterview-4/Big-Leap/internal/repositories"
	"github.com/Ainterview-4/Big-Leap/internal/scoring"
	"github.com/Ainterview-4/Big-Leap/internal/services"
	"github.com/Ainterview-4/Big-Leap/internal/storage"
	"github.com/Ainterview-4/Big-Leap/internal/testhelpers"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const flowSecret = "flow-test-secret-flow-test-secret"

type flowEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code string `json:"code"`
	} `json:"error"`
}

type flowClient struct {
	t     *testing.T
	srv   *httptest.Server
	token string
	store *storage.MemoryStore
}

func newFlowClient(t *testing.T) *flowClient {
	t.Helper()
	db := testhelpers.SetupTestDB(t)
	users := &repositories.UserRepository{DB: db}
	tokens := &repositories.TokenRepository{DB: db}
	cvs := &repositories.CVRepository{DB: db}
	interviews := &repositories.InterviewRepository{DB: db}
	store := storage.NewMemoryStore()
	gen, err := questions.NewTemplateGenerator()
	require.NoError(t, err)

	authSvc := services.NewAuthService(users, tokens, nil, flowSecret, time.Hour, time.Hour, nil)
	cvSvc := services.NewCVService(cvs, store, "", nil)
	interviewSvc := services.NewInterviewService(interviews, cvs, gen, scoring.HeuristicScorer{}, nil, nil)

	r := chi.NewRouter()
	AuthRoutes(r, handlers.NewAuthHandler(authSvc, nil), flowSecret)
	UserRoutes(r, handlers.NewUserHandler(authSvc, nil), flowSecret)
	CVRoutes(r, handlers.NewCVHandler(cvSvc, 0, nil), flowSecret)
	InterviewRoutes(r, handlers.NewInterviewHandler(interviewSvc, nil), flowSecret)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return &flowClient{t: t, srv: srv, store: store}
}

func (c *flowClient) do(method, path string, body any, wantStatus int, dst any) flowEnvelope {
	c.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(c.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, c.srv.URL+path, reader)
	require.NoError(c.t, err)
	req.Header.Set("Content-Type", "application/json")
	return c.send(req, wantStatus, dst)
}

func (c *flowClient) send(req *http.Request, wantStatus int, dst any) flowEnvelope {
	c.t.Helper()
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()

	var env flowEnvelope
	require.NoError(c.t, json.NewDecoder(resp.Body).Decode(&env))
	require.Equal(c.t, wantStatus, resp.StatusCode, "%s %s", req.Method, req.URL.Path)
	if dst != nil {
		require.NoError(c.t, json.Unmarshal(env.Data, dst))
	}
	return env
}

func TestInterviewFlowEndToEnd(t *testing.T) {
	c := newFlowClient(t)

	c.do(http.MethodPost, "/api/auth/register", map[string]string{"email": "A@B.com", "password": "secret123", "name": "Ann"}, http.StatusCreated, nil)

	var login struct {
		Token string `json:"token"`
	}
	c.do(http.MethodPost, "/api/auth/login", map[string]string{"email": "a@b.com", "password": "secret123"}, http.StatusOK, &login)
	require.NotEmpty(t, login.Token)

	// guarded routes reject anonymous callers
	env := c.do(http.MethodGet, "/api/interviews", nil, http.StatusUnauthorized, nil)
	assert.Equal(t, "UNAUTHORIZED", env.Error.Code)
	c.token = login.Token

	var interview struct {
		ID string `json:"id"`
	}
	c.do(http.MethodPost, "/api/interviews", map[string]string{"title": "Backend"}, http.StatusCreated, &interview)

	var session struct {
		ID              string `json:"id"`
		CurrentQuestion int    `json:"currentQuestion"`
	}
	c.do(http.MethodPost, "/api/interviews/"+interview.ID+"/sessions", map[string]any{"cvId": nil}, http.StatusCreated, &session)
	assert.Equal(t, 0, session.CurrentQuestion)

	var turn services.AnswerResult
	c.do(http.MethodPost, "/api/interviews/sessions/"+session.ID+"/answer",
		map[string]string{"answer": "I built a caching layer that reduced latency, for example in the checkout service"},
		http.StatusOK, &turn)
	assert.Equal(t, 25, turn.Score)
	assert.Equal(t, 1, turn.QuestionIndex)
	assert.NotEmpty(t, turn.NextQuestion)

	var result services.EvaluateResult
	c.do(http.MethodPost, "/api/interviews/sessions/"+session.ID+"/evaluate", nil, http.StatusOK, &result)
	assert.Equal(t, "COMPLETED", string(result.Status))
	assert.Equal(t, 25, result.Score)

	env = c.do(http.MethodPost, "/api/interviews/sessions/"+session.ID+"/answer", map[string]string{"answer": "late"}, http.StatusBadRequest, nil)
	assert.Equal(t, "INVALID_STATE", env.Error.Code)
	env = c.do(http.MethodPost, "/api/interviews/sessions/"+session.ID+"/evaluate", nil, http.StatusBadRequest, nil)
	assert.Equal(t, "INVALID_STATE", env.Error.Code)

	var full struct {
		CurrentQuestion int `json:"currentQuestion"`
		Messages        []struct {
			Role string `json:"role"`
		} `json:"messages"`
	}
	c.do(http.MethodGet, "/api/interviews/sessions/"+session.ID, nil, http.StatusOK, &full)
	assert.Equal(t, 1, full.CurrentQuestion)
	require.Len(t, full.Messages, 2)
	assert.Equal(t, "user", full.Messages[0].Role)
	assert.Equal(t, "assistant", full.Messages[1].Role)
}

func TestCrossTenantReadsAreNotFound(t *testing.T) {
	c := newFlowClient(t)
	var login struct {
		Token string `json:"token"`
	}

	c.do(http.MethodPost, "/api/auth/register", map[string]string{"email": "alice@x.com", "password": "pw", "name": "Alice"}, http.StatusCreated, nil)
	c.do(http.MethodPost, "/api/auth/login", map[string]string{"email": "alice@x.com", "password": "pw"}, http.StatusOK, &login)
	c.token = login.Token
	var interview struct {
		ID string `json:"id"`
	}
	c.do(http.MethodPost, "/api/interviews", map[string]string{"title": "Alice only"}, http.StatusCreated, &interview)

	c.token = ""
	c.do(http.MethodPost, "/api/auth/register", map[string]string{"email": "bob@x.com", "password": "pw", "name": "Bob"}, http.StatusCreated, nil)
	c.do(http.MethodPost, "/api/auth/login", map[string]string{"email": "bob@x.com", "password": "pw"}, http.StatusOK, &login)
	c.token = login.Token

	env := c.do(http.MethodGet, "/api/interviews/"+interview.ID, nil, http.StatusNotFound, nil)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)
	env = c.do(http.MethodPost, "/api/interviews/"+interview.ID+"/sessions", nil, http.StatusNotFound, nil)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)
}

func TestUploadRejectsImageOverHTTP(t *testing.T) {
	c := newFlowClient(t)
	var login struct {
		Token string `json:"token"`
	}
	c.do(http.MethodPost, "/api/auth/register", map[string]string{"email": "a@b.com", "password": "pw", "name": "Ann"}, http.StatusCreated, nil)
	c.do(http.MethodPost, "/api/auth/login", map[string]string{"email": "a@b.com", "password": "pw"}, http.StatusOK, &login)
	c.token = login.Token

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="file"; filename="photo.png"`)
	header.Set("Content-Type", "image/png")
	part, err := mw.CreatePart(header)
	require.NoError(t, err)
	part.Write([]byte{0x89, 'P', 'N', 'G'})
	require.NoError(t, mw.Close())

	req, err := http.NewRequest(http.MethodPost, c.srv.URL+"/api/cv/upload", body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	env := c.send(req, http.StatusBadRequest, nil)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
	assert.Equal(t, 0, c.store.Puts())
}
