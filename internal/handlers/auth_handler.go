package handlers

import (
	"net/http"
	"strings"

	"github.com/Ainterview-4/Big-Leap/internal/services"
	"github.com/Ainterview-4/Big-Leap/internal/utils"

	"go.uber.org/zap"
)

const resetRequestedMessage = "If an account exists for this email, a password reset link has been sent."

// AuthHandler manages authentication endpoints.
type AuthHandler struct {
	Auth   AuthService
	Logger *zap.Logger
}

func NewAuthHandler(auth AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{Auth: auth, Logger: nopIfNil(logger)}
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	FullName string `json:"full_name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type resetRequest struct {
	Email string `json:"email"`
}

type resetConfirmRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func (h *AuthHandler) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(h.Logger, w, r, err)
		return
	}
	name := req.Name
	if strings.TrimSpace(name) == "" {
		name = req.FullName
	}

	user, err := h.Auth.Register(r.Context(), services.RegisterInput{Email: req.Email, Password: req.Password, Name: name})
	if err != nil {
		writeError(h.Logger, w, r, err)
		return
	}
	utils.Success(w, http.StatusCreated, user)
}

func (h *AuthHandler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(h.Logger, w, r, err)
		return
	}
	res, err := h.Auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(h.Logger, w, r, err)
		return
	}
	utils.Success(w, http.StatusOK, res)
}

// RequestResetHandler always answers with the same message so callers cannot
// probe which emails are registered.
func (h *AuthHandler) RequestResetHandler(w http.ResponseWriter, r *http.Request) {
	var req resetRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(h.Logger, w, r, err)
		return
	}
	if err := h.Auth.RequestPasswordReset(r.Context(), req.Email); err != nil {
		writeError(h.Logger, w, r, err)
		return
	}
	utils.Success(w, http.StatusOK, messageResponse{Message: resetRequestedMessage})
}

func (h *AuthHandler) ConfirmResetHandler(w http.ResponseWriter, r *http.Request) {
	var req resetConfirmRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(h.Logger, w, r, err)
		return
	}
	if err := h.Auth.ResetPassword(r.Context(), req.Token, req.Password); err != nil {
		writeError(h.Logger, w, r, err)
		return
	}
	utils.Success(w, http.StatusOK, messageResponse{Message: "Password has been reset"})
}

// MeHandler echoes the authenticated user id.
func (h *AuthHandler) MeHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	utils.Success(w, http.StatusOK, map[string]string{"userId": userID})
}
