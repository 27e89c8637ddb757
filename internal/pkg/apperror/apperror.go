package apperror

import "fmt"

const (
	CodeInvalidInput  = "INVALID_INPUT"
	CodeUnauthorized  = "UNAUTHORIZED"
	CodeForbidden     = "FORBIDDEN"
	CodeNotFound      = "NOT_FOUND"
	CodeConflict      = "CONFLICT"
	CodeUnavailable   = "UPSTREAM_UNAVAILABLE"
	CodeInternalError = "INTERNAL_ERROR"
)

// AppError is the sentinel error shape shared by every feature package.
// Handlers map it to the response envelope via ToHTTP.
type AppError struct {
	Code       string
	Message    string
	HTTPStatus int
}

func New(code, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}
