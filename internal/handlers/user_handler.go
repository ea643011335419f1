package handlers

import (
	"net/http"

	"github.com/Ainterview-4/Big-Leap/internal/utils"

	"go.uber.org/zap"
)

// UserHandler serves the caller's own profile.
type UserHandler struct {
	Auth   AuthService
	Logger *zap.Logger
}

func NewUserHandler(auth AuthService, logger *zap.Logger) *UserHandler {
	return &UserHandler{Auth: auth, Logger: nopIfNil(logger)}
}

type updateProfileRequest struct {
	Name string `json:"name"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func (h *UserHandler) GetProfileHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	user, err := h.Auth.GetProfile(r.Context(), userID)
	if err != nil {
		writeError(h.Logger, w, r, err)
		return
	}
	utils.Success(w, http.StatusOK, user)
}

func (h *UserHandler) UpdateProfileHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	var req updateProfileRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(h.Logger, w, r, err)
		return
	}
	user, err := h.Auth.UpdateName(r.Context(), userID, req.Name)
	if err != nil {
		writeError(h.Logger, w, r, err)
		return
	}
	utils.Success(w, http.StatusOK, user)
}

func (h *UserHandler) ChangePasswordHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	var req changePasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(h.Logger, w, r, err)
		return
	}
	if err := h.Auth.ChangePassword(r.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		writeError(h.Logger, w, r, err)
		return
	}
	utils.Success(w, http.StatusOK, messageResponse{Message: "Password updated"})
}
