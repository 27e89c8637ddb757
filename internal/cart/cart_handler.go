package cart

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-storefront/internal/catalog"
	"go-storefront/internal/pkg/response"
)

// SessionCart resolves the request's cart store; the session middleware
// provides the implementation.
type SessionCart func(c *gin.Context) *Store

type Handler struct {
	catalog *catalog.Service
	cartFor SessionCart
}

func NewHandler(catalogSvc *catalog.Service, cartFor SessionCart) *Handler {
	if catalogSvc == nil {
		panic("cart: catalog service is required")
	}
	if cartFor == nil {
		panic("cart: session cart resolver is required")
	}
	return &Handler{catalog: catalogSvc, cartFor: cartFor}
}

func (h *Handler) Detail(c *gin.Context) {
	store := h.cartFor(c)
	response.Success(c, http.StatusOK, Snapshot(store))
}

func (h *Handler) AddItem(c *gin.Context) {
	var req AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "BAD_REQUEST", "invalid request body", err.Error())
		return
	}

	product, err := h.catalog.GetProduct(c.Request.Context(), req.ProductID)
	if err != nil {
		response.FromError(c, err)
		return
	}

	store := h.cartFor(c)
	if err := store.AddItem(c.Request.Context(), product, req.VariantID, req.Quantity); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, Snapshot(store))
}

func (h *Handler) UpdateQuantity(c *gin.Context) {
	itemID := c.Param("itemId")

	var req UpdateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "BAD_REQUEST", "invalid request body", err.Error())
		return
	}

	store := h.cartFor(c)
	if err := store.UpdateQuantity(c.Request.Context(), itemID, req.Quantity); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, Snapshot(store))
}

func (h *Handler) RemoveItem(c *gin.Context) {
	store := h.cartFor(c)
	if err := store.RemoveItem(c.Request.Context(), c.Param("itemId")); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, Snapshot(store))
}

func (h *Handler) ApplyPromo(c *gin.Context) {
	var req PromoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "BAD_REQUEST", "invalid request body", err.Error())
		return
	}

	store := h.cartFor(c)
	if err := store.ApplyPromoCode(c.Request.Context(), req.Code); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, Snapshot(store))
}

func (h *Handler) RemovePromo(c *gin.Context) {
	store := h.cartFor(c)
	store.RemovePromoCode(c.Request.Context())
	response.Success(c, http.StatusOK, Snapshot(store))
}

func (h *Handler) Clear(c *gin.Context) {
	store := h.cartFor(c)
	store.ClearCart(c.Request.Context())
	response.Success(c, http.StatusOK, Snapshot(store))
}
