package utils

import (
	"encoding/json"
	"net/http"

	"github.com/Ainterview-4/Big-Leap/internal/models"
)

// Envelope is the body of every API response.
type Envelope struct {
	Success bool             `json:"success"`
	Data    any              `json:"data"`
	Error   *models.APIError `json:"error"`
}

// JSON writes a JSON response with status code
func JSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		json.NewEncoder(w).Encode(payload)
	}
}

// Success wraps data in a successful envelope.
func Success(w http.ResponseWriter, status int, data any) {
	JSON(w, status, Envelope{Success: true, Data: data})
}

// JSONError writes a failed envelope with the given code and message.
func JSONError(w http.ResponseWriter, status int, code, message string) {
	JSON(w, status, Envelope{Error: &models.APIError{Code: code, Message: message}})
}

// Fail renders err as a failed envelope. Errors that are not an APIError
// become SERVER_ERROR. The rendered error is returned so callers can log it.
func Fail(w http.ResponseWriter, err error) *models.APIError {
	apiErr := models.AsAPIError(err)
	if apiErr == nil {
		apiErr = models.NewServerError("Internal server error", err)
	}
	status := apiErr.Status
	if status == 0 {
		status = http.StatusInternalServerError
	}
	JSON(w, status, Envelope{Error: apiErr})
	return apiErr
}
