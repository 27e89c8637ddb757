package cart

import (
	"go-storefront/internal/pricing"
)

type AddItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
	VariantID string `json:"variantId" binding:"required"`
	Quantity  int32  `json:"quantity"`
}

// UpdateQuantityRequest carries the new quantity. No binding rule on the
// field: the store treats anything below 1 as a no-op, so zero and negative
// values are accepted and simply leave the cart unchanged.
type UpdateQuantityRequest struct {
	Quantity int32 `json:"quantity"`
}

type PromoRequest struct {
	Code string `json:"code" binding:"required"`
}

// CartResponse is the cart page payload: the line items plus totals derived
// on every read.
type CartResponse struct {
	Items       []LineItem      `json:"items"`
	PromoCode   string          `json:"promoCode,omitempty"`
	ItemLoading map[string]bool `json:"itemLoading,omitempty"`
	Totals      pricing.Totals  `json:"totals"`
}

// Snapshot assembles the response from the store's current state.
func Snapshot(s *Store) CartResponse {
	state := s.State()

	items := make([]pricing.Item, 0, len(state.Items))
	for _, it := range state.Items {
		items = append(items, pricing.Item{UnitPrice: it.UnitPrice, Quantity: it.Quantity})
	}
	totals := pricing.Calculate(items, state.PromoDiscount, pricing.FlatShippingRate, pricing.TaxRate)

	return CartResponse{
		Items:       state.Items,
		PromoCode:   state.PromoCode,
		ItemLoading: state.ItemLoading,
		Totals:      totals,
	}
}
