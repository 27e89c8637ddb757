package checkout

import (
	"github.com/shopspring/decimal"

	"go-storefront/internal/cart"
	"go-storefront/internal/commerce"
	"go-storefront/internal/pricing"
)

type SelectRateRequest struct {
	RateID string `json:"rateId" binding:"required"`
}

type GoToStepRequest struct {
	Step int `json:"step"`
}

// CheckoutResponse is the checkout page payload. Totals are derived from
// the cart plus the selected shipping rate; Tax carries the upstream quote
// when one has been fetched.
type CheckoutResponse struct {
	Step            int                     `json:"step"`
	CompletedSteps  []int                   `json:"completedSteps"`
	ShippingAddress commerce.Address        `json:"shippingAddress"`
	ShippingRates   []commerce.ShippingRate `json:"shippingRates"`
	SelectedRate    *commerce.ShippingRate  `json:"selectedRate,omitempty"`
	Tax             decimal.Decimal         `json:"tax"`
	Errors          map[string]string       `json:"errors,omitempty"`
	OrderID         string                  `json:"orderId,omitempty"`
	Totals          pricing.Totals          `json:"totals"`
}

// BuildResponse assembles the payload from the flow and the visitor's cart.
func BuildResponse(flow *Flow, cartStore *cart.Store) CheckoutResponse {
	state := flow.State()
	cartState := cartStore.State()

	shippingCost := pricing.FlatShippingRate
	if state.SelectedRate != nil {
		shippingCost = state.SelectedRate.Price
	}

	items := make([]pricing.Item, 0, len(cartState.Items))
	for _, it := range cartState.Items {
		items = append(items, pricing.Item{UnitPrice: it.UnitPrice, Quantity: it.Quantity})
	}
	totals := pricing.Calculate(items, cartState.PromoDiscount, shippingCost, pricing.TaxRate)

	completed := make([]int, 0, len(state.CompletedSteps))
	for _, step := range state.CompletedSteps {
		completed = append(completed, int(step))
	}

	return CheckoutResponse{
		Step:            int(state.CurrentStep),
		CompletedSteps:  completed,
		ShippingAddress: state.ShippingAddress,
		ShippingRates:   state.ShippingRates,
		SelectedRate:    state.SelectedRate,
		Tax:             state.Tax,
		Errors:          state.Errors,
		OrderID:         state.OrderID,
		Totals:          totals,
	}
}
