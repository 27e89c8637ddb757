package catalog

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-storefront/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	if service == nil {
		panic("catalog: service is required")
	}
	return &Handler{service: service}
}

func (h *Handler) GetProduct(c *gin.Context) {
	product, err := h.service.GetProduct(c.Request.Context(), c.Param("productId"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, product)
}

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	products := r.Group("/products")
	{
		products.GET("/:productId", handler.GetProduct)
	}
}
