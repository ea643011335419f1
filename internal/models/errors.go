package models

import (
	"errors"
	"net/http"
)

// Error codes returned in the response envelope.
const (
	CodeValidation         = "VALIDATION_ERROR"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeNotFound           = "NOT_FOUND"
	CodeInvalidState       = "INVALID_STATE"
	CodeEmailExists        = "EMAIL_EXISTS"
	CodeConflict           = "CONFLICT"
	CodeFileTooLarge       = "FILE_TOO_LARGE"
	CodeInvalidToken       = "INVALID_TOKEN"
	CodeConfig             = "CONFIG_ERROR"
	CodeServer             = "SERVER_ERROR"
	CodeDatabase           = "DATABASE_ERROR"
)

// APIError is a business failure raised where it is detected and rendered
// once by the HTTP layer.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
	Status  int    `json:"-"`
	Err     error  `json:"-"`
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return e.Code + ": " + e.Message + " (" + e.Err.Error() + ")"
	}
	return e.Code + ": " + e.Message
}

func (e *APIError) Unwrap() error { return e.Err }

// AsAPIError returns err as an *APIError, or nil when it is some other error.
func AsAPIError(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return nil
}

func NewValidationError(message string, details any) *APIError {
	return &APIError{Code: CodeValidation, Message: message, Details: details, Status: http.StatusBadRequest}
}

func NewUnauthorizedError(message string) *APIError {
	return &APIError{Code: CodeUnauthorized, Message: message, Status: http.StatusUnauthorized}
}

func NewInvalidCredentialsError() *APIError {
	return &APIError{Code: CodeInvalidCredentials, Message: "Email or password incorrect", Status: http.StatusUnauthorized}
}

func NewNotFoundError(message string) *APIError {
	return &APIError{Code: CodeNotFound, Message: message, Status: http.StatusNotFound}
}

func NewInvalidStateError(message string, details any) *APIError {
	return &APIError{Code: CodeInvalidState, Message: message, Details: details, Status: http.StatusBadRequest}
}

func NewEmailExistsError() *APIError {
	return &APIError{Code: CodeEmailExists, Message: "Email already registered", Status: http.StatusConflict}
}

func NewConflictError(message string) *APIError {
	return &APIError{Code: CodeConflict, Message: message, Status: http.StatusConflict}
}

func NewFileTooLargeError(limit int64) *APIError {
	return &APIError{
		Code:    CodeFileTooLarge,
		Message: "File is too large",
		Details: map[string]int64{"maxBytes": limit},
		Status:  http.StatusRequestEntityTooLarge,
	}
}

func NewInvalidTokenError() *APIError {
	return &APIError{Code: CodeInvalidToken, Message: "Reset token is invalid or expired", Status: http.StatusBadRequest}
}

func NewConfigError(message string) *APIError {
	return &APIError{Code: CodeConfig, Message: message, Status: http.StatusInternalServerError}
}

func NewServerError(message string, err error) *APIError {
	return &APIError{Code: CodeServer, Message: message, Status: http.StatusInternalServerError, Err: err}
}

func NewDatabaseError(err error) *APIError {
	return &APIError{Code: CodeDatabase, Message: "Database operation failed", Status: http.StatusInternalServerError, Err: err}
}
