package checkout

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-storefront/internal/cart"
	"go-storefront/internal/pkg/response"
	"go-storefront/internal/pricing"
)

// SessionStores resolves the request's checkout flow and cart store; the
// session middleware provides the implementation.
type SessionStores func(c *gin.Context) (*Flow, *cart.Store)

type Handler struct {
	storesFor SessionStores
}

func NewHandler(storesFor SessionStores) *Handler {
	if storesFor == nil {
		panic("checkout: session store resolver is required")
	}
	return &Handler{storesFor: storesFor}
}

func (h *Handler) Detail(c *gin.Context) {
	flow, cartStore := h.storesFor(c)
	response.Success(c, http.StatusOK, BuildResponse(flow, cartStore))
}

func (h *Handler) UpdateAddress(c *gin.Context) {
	var update AddressUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		response.Error(c, http.StatusBadRequest, "BAD_REQUEST", "invalid request body", err.Error())
		return
	}

	flow, cartStore := h.storesFor(c)
	flow.UpdateShippingAddress(update)
	response.Success(c, http.StatusOK, BuildResponse(flow, cartStore))
}

func (h *Handler) SubmitAddress(c *gin.Context) {
	flow, _ := h.storesFor(c)
	result := flow.SubmitShippingAddress()
	if !result.Success {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", ErrInvalidAddress.Message, result.Errors)
		return
	}
	response.Success(c, http.StatusOK, result)
}

func (h *Handler) ShippingRates(c *gin.Context) {
	flow, _ := h.storesFor(c)
	rates, err := flow.FetchShippingRates(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, rates)
}

func (h *Handler) SelectRate(c *gin.Context) {
	var req SelectRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "BAD_REQUEST", "invalid request body", err.Error())
		return
	}

	flow, cartStore := h.storesFor(c)
	if err := flow.SelectShippingRate(req.RateID); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, BuildResponse(flow, cartStore))
}

func (h *Handler) CalculateTax(c *gin.Context) {
	flow, cartStore := h.storesFor(c)
	if err := flow.CalculateTax(c.Request.Context()); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, BuildResponse(flow, cartStore))
}

func (h *Handler) GoToStep(c *gin.Context) {
	var req GoToStepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "BAD_REQUEST", "invalid request body", err.Error())
		return
	}

	flow, cartStore := h.storesFor(c)
	if err := flow.GoToStep(Step(req.Step)); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, BuildResponse(flow, cartStore))
}

func (h *Handler) GoBack(c *gin.Context) {
	flow, cartStore := h.storesFor(c)
	flow.GoBack()
	response.Success(c, http.StatusOK, BuildResponse(flow, cartStore))
}

// SubmitOrder places the order from the visitor's cart. On success the cart
// is cleared and the flow keeps the order id for the confirmation page.
func (h *Handler) SubmitOrder(c *gin.Context) {
	flow, cartStore := h.storesFor(c)
	state := flow.State()

	cartState := cartStore.State()
	items := cart.ToWire(cartState.Items)
	if len(items) == 0 {
		response.FromError(c, ErrCartEmpty)
		return
	}

	shippingCost := pricing.FlatShippingRate
	if state.SelectedRate != nil {
		shippingCost = state.SelectedRate.Price
	}
	priced := make([]pricing.Item, 0, len(cartState.Items))
	for _, it := range cartState.Items {
		priced = append(priced, pricing.Item{UnitPrice: it.UnitPrice, Quantity: it.Quantity})
	}
	totals := pricing.Calculate(priced, cartState.PromoDiscount, shippingCost, pricing.TaxRate)

	result := flow.SubmitOrder(c.Request.Context(), items, totals)
	if !result.Success {
		response.Error(c, http.StatusBadGateway, "ORDER_ERROR", result.Error, nil)
		return
	}

	cartStore.ClearCart(c.Request.Context())
	response.Success(c, http.StatusCreated, result)
}

func (h *Handler) Reset(c *gin.Context) {
	flow, cartStore := h.storesFor(c)
	flow.Reset()
	response.Success(c, http.StatusOK, BuildResponse(flow, cartStore))
}
