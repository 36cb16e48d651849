package shared

import (
	"errors"
	"net/http"
)

// Severity buckets for user-facing notifications.
const (
	SeveritySuccess = "success"
	SeverityInfo    = "info"
	SeverityWarning = "warning"
	SeverityError   = "error"
)

// AppError carries an HTTP status, a user-facing message and the wrapped
// cause. Services return these; the HTTP layer unwraps them with GetAppError.
type AppError struct {
	StatusCode int         `json:"-"`
	Message    string      `json:"message"`
	Severity   string      `json:"severity"`
	Data       interface{} `json:"data,omitempty"`
	Err        error       `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func (e *AppError) WithData(data interface{}) *AppError {
	e.Data = data
	return e
}

func newAppError(status int, severity string, err error, message string) *AppError {
	return &AppError{
		StatusCode: status,
		Message:    message,
		Severity:   severity,
		Err:        err,
	}
}

func NewBadRequestError(err error, message string) *AppError {
	return newAppError(http.StatusBadRequest, SeverityWarning, err, message)
}

func NewNotFoundError(err error, message string) *AppError {
	return newAppError(http.StatusNotFound, SeverityWarning, err, message)
}

func NewUnauthorizedError(err error, message string) *AppError {
	return newAppError(http.StatusUnauthorized, SeverityWarning, err, message)
}

func NewConflictError(err error, message string) *AppError {
	return newAppError(http.StatusConflict, SeverityWarning, err, message)
}

// NewTooManyRequestsError marks provider rate limiting; distinct from quota
// exhaustion which uses NewServiceUnavailableError.
func NewTooManyRequestsError(err error, message string) *AppError {
	return newAppError(http.StatusTooManyRequests, SeverityWarning, err, message)
}

func NewServiceUnavailableError(err error, message string) *AppError {
	return newAppError(http.StatusServiceUnavailable, SeverityInfo, err, message)
}

func NewInternalError(err error, message string) *AppError {
	return newAppError(http.StatusInternalServerError, SeverityError, err, message)
}

func GetAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
