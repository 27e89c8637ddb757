package auth

import (
	"net/http"

	"go-storefront/internal/pkg/apperror"
)

var (
	ErrInvalidCredentials = apperror.New(apperror.CodeUnauthorized, "invalid email or password", http.StatusUnauthorized)
	ErrNotAuthenticated   = apperror.New(apperror.CodeUnauthorized, "not authenticated", http.StatusUnauthorized)
	ErrEmailTaken         = apperror.New(apperror.CodeConflict, "email already registered", http.StatusConflict)
)
