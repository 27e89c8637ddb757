package pricing

import "github.com/shopspring/decimal"

// Pricing constants for the storefront. Shipping is a flat rate waived at
// the free-shipping threshold; tax applies to the discounted subtotal.
var (
	FreeShippingThreshold = decimal.NewFromInt(50)
	FlatShippingRate      = decimal.NewFromInt(5)
	TaxRate               = decimal.NewFromFloat(0.08)
)

type Item struct {
	UnitPrice decimal.Decimal
	Quantity  int32
}

type Totals struct {
	Subtotal             decimal.Decimal `json:"subtotal"`
	Discount             decimal.Decimal `json:"discount"`
	Shipping             decimal.Decimal `json:"shipping"`
	Tax                  decimal.Decimal `json:"tax"`
	Total                decimal.Decimal `json:"total"`
	ItemCount            int32           `json:"itemCount"`
	FreeShippingEligible bool            `json:"freeShippingEligible"`
	AmountToFreeShipping decimal.Decimal `json:"amountToFreeShipping"`
}

// Calculate derives order totals from the cart alone. It holds no state and
// is safe to recompute on every request.
//
// The discount is deliberately not clamped to the subtotal; a promo larger
// than the cart yields a negative pre-tax amount, matching the upstream
// promo contract.
func Calculate(items []Item, promoDiscount, shippingCost, taxRate decimal.Decimal) Totals {
	subtotal := decimal.Zero
	var itemCount int32
	for _, it := range items {
		qty := decimal.NewFromInt32(it.Quantity)
		subtotal = subtotal.Add(it.UnitPrice.Mul(qty))
		itemCount += it.Quantity
	}

	eligible := subtotal.GreaterThanOrEqual(FreeShippingThreshold)
	shipping := shippingCost
	if eligible {
		shipping = decimal.Zero
	}

	remaining := FreeShippingThreshold.Sub(subtotal)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}

	taxable := subtotal.Sub(promoDiscount)
	tax := taxable.Mul(taxRate)

	return Totals{
		Subtotal:             subtotal,
		Discount:             promoDiscount,
		Shipping:             shipping,
		Tax:                  tax,
		Total:                taxable.Add(tax).Add(shipping),
		ItemCount:            itemCount,
		FreeShippingEligible: eligible,
		AmountToFreeShipping: remaining,
	}
}
