package handlers

import (
	"net/http"

	"github.com/Ainterview-4/Big-Leap/internal/services"
	"github.com/Ainterview-4/Big-Leap/internal/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// InterviewHandler exposes interviews and their sessions.
type InterviewHandler struct {
	Interviews InterviewService
	Logger     *zap.Logger
}

func NewInterviewHandler(interviews InterviewService, logger *zap.Logger) *InterviewHandler {
	return &InterviewHandler{Interviews: interviews, Logger: nopIfNil(logger)}
}

type startSessionRequest struct {
	CVID *string `json:"cvId"`
}

type answerRequest struct {
	Answer string `json:"answer"`
}

func (h *InterviewHandler) CreateHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	var req services.CreateInterviewInput
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(h.Logger, w, r, err)
		return
	}
	interview, err := h.Interviews.Create(r.Context(), userID, req)
	if err != nil {
		writeError(h.Logger, w, r, err)
		return
	}
	utils.Success(w, http.StatusCreated, interview)
}

func (h *InterviewHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	interviews, err := h.Interviews.List(r.Context(), userID)
	if err != nil {
		writeError(h.Logger, w, r, err)
		return
	}
	utils.Success(w, http.StatusOK, interviews)
}

func (h *InterviewHandler) GetHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	interview, err := h.Interviews.Get(r.Context(), userID, chi.URLParam(r, "interviewId"))
	if err != nil {
		writeError(h.Logger, w, r, err)
		return
	}
	utils.Success(w, http.StatusOK, interview)
}

func (h *InterviewHandler) StartSessionHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	var req startSessionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(h.Logger, w, r, err)
		return
	}
	session, err := h.Interviews.Start(r.Context(), userID, chi.URLParam(r, "interviewId"), req.CVID)
	if err != nil {
		writeError(h.Logger, w, r, err)
		return
	}
	utils.Success(w, http.StatusCreated, session)
}

func (h *InterviewHandler) AnswerHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	var req answerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(h.Logger, w, r, err)
		return
	}
	res, err := h.Interviews.Answer(r.Context(), userID, chi.URLParam(r, "sessionId"), req.Answer)
	if err != nil {
		writeError(h.Logger, w, r, err)
		return
	}
	utils.Success(w, http.StatusOK, res)
}

func (h *InterviewHandler) EvaluateHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	res, err := h.Interviews.Evaluate(r.Context(), userID, chi.URLParam(r, "sessionId"))
	if err != nil {
		writeError(h.Logger, w, r, err)
		return
	}
	utils.Success(w, http.StatusOK, res)
}

func (h *InterviewHandler) GetSessionHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	session, err := h.Interviews.GetSession(r.Context(), userID, chi.URLParam(r, "sessionId"))
	if err != nil {
		writeError(h.Logger, w, r, err)
		return
	}
	utils.Success(w, http.StatusOK, session)
}
