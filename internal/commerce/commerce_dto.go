package commerce

import "github.com/shopspring/decimal"

// Wire types for the remote commerce API. These mirror the JSON contract of
// the upstream service; the stores keep their own state types and convert.

type CartItem struct {
	ID           string          `json:"id"`
	ProductID    string          `json:"productId"`
	VariantID    string          `json:"variantId"`
	Name         string          `json:"name"`
	Image        string          `json:"image"`
	VariantLabel string          `json:"variantLabel"`
	Quantity     int32           `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unitPrice"`
}

type CartSnapshot struct {
	Items         []CartItem      `json:"items"`
	PromoCode     string          `json:"promoCode,omitempty"`
	PromoDiscount decimal.Decimal `json:"promoDiscount"`
}

type AddItemRequest struct {
	ProductID string `json:"productId"`
	VariantID string `json:"variantId"`
	Quantity  int32  `json:"quantity"`
}

type PromoResult struct {
	Discount decimal.Decimal `json:"discount"`
}

type Address struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Address1  string `json:"address1"`
	Address2  string `json:"address2"`
	City      string `json:"city"`
	State     string `json:"state"`
	ZipCode   string `json:"zipCode"`
	Country   string `json:"country"`
}

type ShippingRate struct {
	ID       string          `json:"id"`
	Label    string          `json:"label"`
	Price    decimal.Decimal `json:"price"`
	Estimate string          `json:"estimate"`
}

type TaxResult struct {
	Amount decimal.Decimal `json:"amount"`
}

type OrderPayload struct {
	Items          []CartItem      `json:"items"`
	Address        Address         `json:"address"`
	ShippingRateID string          `json:"shippingRateId"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	Discount       decimal.Decimal `json:"discount"`
	Shipping       decimal.Decimal `json:"shipping"`
	Tax            decimal.Decimal `json:"tax"`
	Total          decimal.Decimal `json:"total"`
}

type OrderResult struct {
	OrderID string `json:"orderId"`
}

type Product struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Tagline  string    `json:"tagline"`
	Images   []string  `json:"images"`
	Variants []Variant `json:"variants"`
}

type Variant struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Price   decimal.Decimal `json:"price"`
	InStock bool            `json:"inStock"`
}

type User struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

type Session struct {
	User  *User  `json:"user"`
	Token string `json:"token,omitempty"`
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}
