package checkout

import (
	"net/http"

	"go-storefront/internal/pkg/apperror"
)

var (
	ErrCartEmpty      = apperror.New(apperror.CodeInvalidInput, "cart is empty", http.StatusBadRequest)
	ErrInvalidAddress = apperror.New(apperror.CodeInvalidInput, "shipping address is invalid", http.StatusBadRequest)
	ErrInvalidStep    = apperror.New(apperror.CodeInvalidInput, "invalid checkout step", http.StatusBadRequest)
	ErrRateNotFound   = apperror.New(apperror.CodeNotFound, "shipping rate not found", http.StatusNotFound)
	ErrOrderFailed    = apperror.New(apperror.CodeUnavailable, "order could not be placed", http.StatusBadGateway)
)
