package catalog

import (
	"net/http"

	"go-storefront/internal/pkg/apperror"
)

var ErrProductNotFound = apperror.New(apperror.CodeNotFound, "product not found", http.StatusNotFound)
