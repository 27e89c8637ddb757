package cart

import (
	"net/http"

	"go-storefront/internal/pkg/apperror"
)

var (
	ErrVariantNotFound = apperror.New(
		apperror.CodeNotFound,
		"Product variant not found",
		http.StatusNotFound,
	)

	ErrItemNotFound = apperror.New(
		apperror.CodeNotFound,
		"Cart item not found",
		http.StatusNotFound,
	)

	ErrInvalidPromoCode = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid promo code",
		http.StatusBadRequest,
	)
)
