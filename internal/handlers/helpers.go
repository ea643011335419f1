package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/Ainterview-4/Big-Leap/internal/middleware"
	"github.com/Ainterview-4/Big-Leap/internal/models"
	"github.com/Ainterview-4/Big-Leap/internal/utils"

	"go.uber.org/zap"
)

const maxJSONBodyBytes = 1 << 20

// decodeJSON reads the request body into dst. An empty body leaves dst untouched.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	body := http.MaxBytesReader(w, r.Body, maxJSONBodyBytes)
	if err := json.NewDecoder(body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return models.NewValidationError("Invalid JSON body", nil)
	}
	return nil
}

// callerID returns the authenticated user id or writes UNAUTHORIZED.
func callerID(w http.ResponseWriter, r *http.Request) (string, bool) {
	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		utils.JSONError(w, http.StatusUnauthorized, models.CodeUnauthorized, "Invalid or expired token")
		return "", false
	}
	return caller.UserID, true
}

// writeError renders err and logs server-side failures.
func writeError(logger *zap.Logger, w http.ResponseWriter, r *http.Request, err error) {
	apiErr := utils.Fail(w, err)
	if apiErr.Status == 0 || apiErr.Status >= http.StatusInternalServerError {
		logger.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("code", apiErr.Code),
			zap.Error(err),
		)
	}
}

func nopIfNil(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
