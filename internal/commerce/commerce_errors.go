package commerce

import (
	"fmt"
	"net/http"

	"go-storefront/internal/pkg/apperror"
)

var (
	ErrUpstreamUnavailable = apperror.New(
		apperror.CodeUnavailable,
		"Commerce API is unreachable",
		http.StatusBadGateway,
	)

	ErrSessionExpired = apperror.New(
		apperror.CodeUnauthorized,
		"Your session has expired, please login again",
		http.StatusUnauthorized,
	)
)

// APIError carries a non-2xx response from the commerce API, including any
// field-keyed validation messages the upstream returned.
type APIError struct {
	Status  int               `json:"status"`
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("commerce api: %d %s", e.Status, e.Message)
}
