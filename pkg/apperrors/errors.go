package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError is what services hand to the HTTP layer. Code and Message reach
// the client; Err stays server-side unless debug output is enabled.
type AppError struct {
	Code     ErrorCode
	Domain   string
	Message  string
	Details  interface{}
	Err      error
	HTTPCode int
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Domain, e.Message)
	}
	return fmt.Sprintf("%s: %s: %v", e.Domain, e.Message, e.Err)
}

func (e *AppError) Unwrap() error { return e.Err }

func (e *AppError) WithDetails(details interface{}) *AppError {
	e.Details = details
	return e
}

func New(code ErrorCode, domain, message string, httpCode int) *AppError {
	return &AppError{Code: code, Domain: domain, Message: message, HTTPCode: httpCode}
}

// Wrap attaches a cause; err may be nil.
func Wrap(err error, code ErrorCode, domain, message string, httpCode int) *AppError {
	appErr := New(code, domain, message, httpCode)
	appErr.Err = err
	return appErr
}

// AsAppError finds the first AppError in err's chain.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

func InternalError(err error) *AppError {
	return Wrap(err, CodeInternalError, "system", "Internal server error", http.StatusInternalServerError)
}

func DatabaseError(err error) *AppError {
	return Wrap(err, CodeDatabaseError, "database", "Database operation failed", http.StatusInternalServerError)
}

// ValidationError carries field -> message pairs, reported under "errors".
func ValidationError(fields interface{}) *AppError {
	return New(CodeValidationFailed, "validation", "Validation failed", http.StatusBadRequest).WithDetails(fields)
}

func NewBadRequestError(message string) *AppError {
	return New(CodeValidationFailed, "request", message, http.StatusBadRequest)
}

func NewUnauthorizedError(message string) *AppError {
	return New(CodeUnauthorized, "auth", message, http.StatusUnauthorized)
}
