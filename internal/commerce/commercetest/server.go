// Package commercetest provides an in-memory commerce API used by tests and
// by the cmd/mockapi demo backend. It mirrors the contract the HTTP client
// expects: known promo codes, SF- prefixed order ids, 401 for guest carts.
package commercetest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"go-storefront/internal/commerce"
)

var PromoCodes = map[string]decimal.Decimal{
	"FRESH5":    decimal.NewFromInt(5),
	"WELCOME10": decimal.NewFromInt(10),
}

type Backend struct {
	mu       sync.Mutex
	mux      *http.ServeMux
	products map[string]commerce.Product
	users    map[string]commerce.RegisterRequest
	tokens   map[string]string // token -> email
	carts    map[string]*commerce.CartSnapshot
	orderSeq int
}

func NewBackend() *Backend {
	b := &Backend{
		products: map[string]commerce.Product{},
		users:    map[string]commerce.RegisterRequest{},
		tokens:   map[string]string{},
		carts:    map[string]*commerce.CartSnapshot{},
	}
	b.AddProduct(DefaultProduct())
	b.routes()
	return b
}

func (b *Backend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mux.ServeHTTP(w, r)
}

func (b *Backend) AddProduct(p commerce.Product) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.products[p.ID] = p
}

// DefaultProduct is the single-SKU catalog the storefront demo ships with.
func DefaultProduct() commerce.Product {
	return commerce.Product{
		ID:      "sneakerfresh-odor-pack",
		Name:    "SneakerFresh Odor Pack",
		Tagline: "Natural odor elimination that lasts 2+ years",
		Images:  []string{"/images/product-main.jpg"},
		Variants: []commerce.Variant{
			{ID: "single", Name: "Single Pair", Price: decimal.RequireFromString("24.99"), InStock: true},
			{ID: "double", Name: "2-Pack", Price: decimal.RequireFromString("44.99"), InStock: true},
			{ID: "family", Name: "Family 4-Pack", Price: decimal.RequireFromString("79.99"), InStock: true},
		},
	}
}

func (b *Backend) routes() {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /cart", b.authed(b.handleGetCart))
	mux.HandleFunc("POST /cart/items", b.authed(b.handleAddItem))
	mux.HandleFunc("PATCH /cart/items/{id}", b.authed(b.handleUpdateQuantity))
	mux.HandleFunc("DELETE /cart/items/{id}", b.authed(b.handleRemoveItem))
	mux.HandleFunc("POST /cart/promo", b.authed(b.handleApplyPromo))
	mux.HandleFunc("DELETE /cart/promo", b.authed(b.handleRemovePromo))

	mux.HandleFunc("GET /checkout/validate", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"valid": true})
	})
	mux.HandleFunc("POST /checkout/shipping-rates", b.handleShippingRates)
	mux.HandleFunc("POST /checkout/calculate-tax", b.authed(b.handleCalculateTax))
	mux.HandleFunc("POST /orders", b.handleCreateOrder)

	mux.HandleFunc("GET /products/{id}", b.handleGetProduct)

	mux.HandleFunc("GET /auth/session", b.handleSession)
	mux.HandleFunc("POST /auth/login", b.handleLogin)
	mux.HandleFunc("POST /auth/register", b.handleRegister)
	mux.HandleFunc("POST /auth/logout", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	})
	mux.HandleFunc("POST /auth/password-reset", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	})

	b.mux = mux
}

// ==================== cart ====================

func (b *Backend) authed(next func(http.ResponseWriter, *http.Request, string)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		b.mu.Lock()
		email, ok := b.tokens[token]
		b.mu.Unlock()
		if token == "" || !ok {
			writeError(w, http.StatusUnauthorized, "Not authenticated", nil)
			return
		}
		next(w, r, email)
	}
}

func (b *Backend) cartFor(email string) *commerce.CartSnapshot {
	snap, ok := b.carts[email]
	if !ok {
		snap = &commerce.CartSnapshot{PromoDiscount: decimal.Zero}
		b.carts[email] = snap
	}
	return snap
}

func (b *Backend) handleGetCart(w http.ResponseWriter, r *http.Request, email string) {
	b.mu.Lock()
	snap := *b.cartFor(email)
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, snap)
}

func (b *Backend) handleAddItem(w http.ResponseWriter, r *http.Request, email string) {
	var req commerce.AddItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	product, ok := b.products[req.ProductID]
	if !ok {
		writeError(w, http.StatusNotFound, "Product not found", nil)
		return
	}

	snap := b.cartFor(email)
	for i, it := range snap.Items {
		if it.ProductID == req.ProductID && it.VariantID == req.VariantID {
			snap.Items[i].Quantity += req.Quantity
			writeJSON(w, http.StatusOK, snap)
			return
		}
	}

	var variant commerce.Variant
	for _, v := range product.Variants {
		if v.ID == req.VariantID {
			variant = v
		}
	}
	snap.Items = append(snap.Items, commerce.CartItem{
		ID:           uuid.NewString(),
		ProductID:    req.ProductID,
		VariantID:    req.VariantID,
		Name:         product.Name,
		VariantLabel: variant.Name,
		Quantity:     req.Quantity,
		UnitPrice:    variant.Price,
	})
	writeJSON(w, http.StatusOK, snap)
}

func (b *Backend) handleUpdateQuantity(w http.ResponseWriter, r *http.Request, email string) {
	var req struct {
		Quantity int32 `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	snap := b.cartFor(email)
	for i, it := range snap.Items {
		if it.ID == r.PathValue("id") {
			snap.Items[i].Quantity = req.Quantity
			writeJSON(w, http.StatusOK, snap)
			return
		}
	}
	writeError(w, http.StatusNotFound, "Cart item not found", nil)
}

func (b *Backend) handleRemoveItem(w http.ResponseWriter, r *http.Request, email string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	snap := b.cartFor(email)
	for i, it := range snap.Items {
		if it.ID == r.PathValue("id") {
			snap.Items = append(snap.Items[:i], snap.Items[i+1:]...)
			writeJSON(w, http.StatusOK, snap)
			return
		}
	}
	writeError(w, http.StatusNotFound, "Cart item not found", nil)
}

func (b *Backend) handleApplyPromo(w http.ResponseWriter, r *http.Request, email string) {
	var req struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	discount, ok := PromoCodes[strings.ToUpper(strings.TrimSpace(req.Code))]
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid promo code", nil)
		return
	}

	b.mu.Lock()
	snap := b.cartFor(email)
	snap.PromoCode = strings.ToUpper(strings.TrimSpace(req.Code))
	snap.PromoDiscount = discount
	b.mu.Unlock()

	writeJSON(w, http.StatusOK, commerce.PromoResult{Discount: discount})
}

func (b *Backend) handleRemovePromo(w http.ResponseWriter, r *http.Request, email string) {
	b.mu.Lock()
	snap := b.cartFor(email)
	snap.PromoCode = ""
	snap.PromoDiscount = decimal.Zero
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// ==================== checkout ====================

func (b *Backend) handleShippingRates(w http.ResponseWriter, r *http.Request) {
	var addr commerce.Address
	if err := json.NewDecoder(r.Body).Decode(&addr); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}
	writeJSON(w, http.StatusOK, []commerce.ShippingRate{
		{ID: "standard", Label: "Standard Shipping", Price: decimal.RequireFromString("5.00"), Estimate: "5-7 business days"},
		{ID: "express", Label: "Express Shipping", Price: decimal.RequireFromString("14.99"), Estimate: "2-3 business days"},
	})
}

// Flat 8% jurisdiction regardless of address.
func (b *Backend) handleCalculateTax(w http.ResponseWriter, r *http.Request, email string) {
	var addr commerce.Address
	if err := json.NewDecoder(r.Body).Decode(&addr); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	b.mu.Lock()
	snap := b.cartFor(email)
	taxable := decimal.Zero.Sub(snap.PromoDiscount)
	for _, it := range snap.Items {
		taxable = taxable.Add(it.UnitPrice.Mul(decimal.NewFromInt32(it.Quantity)))
	}
	b.mu.Unlock()

	writeJSON(w, http.StatusOK, commerce.TaxResult{
		Amount: taxable.Mul(decimal.RequireFromString("0.08")),
	})
}

func (b *Backend) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var payload commerce.OrderPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}
	if len(payload.Items) == 0 {
		writeError(w, http.StatusBadRequest, "Cart is empty", nil)
		return
	}

	b.mu.Lock()
	b.orderSeq++
	orderID := fmt.Sprintf("SF-%06d", b.orderSeq)
	b.mu.Unlock()

	writeJSON(w, http.StatusCreated, commerce.OrderResult{OrderID: orderID})
}

// ==================== catalog ====================

func (b *Backend) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	p, ok := b.products[r.PathValue("id")]
	b.mu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, "Product not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// ==================== auth ====================

func (b *Backend) handleSession(w http.ResponseWriter, r *http.Request) {
	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	b.mu.Lock()
	email, ok := b.tokens[token]
	user := b.users[email]
	b.mu.Unlock()

	if !ok {
		writeError(w, http.StatusUnauthorized, "Session expired", nil)
		return
	}
	writeJSON(w, http.StatusOK, commerce.Session{
		User:  &commerce.User{FirstName: user.FirstName, LastName: user.LastName, Email: user.Email},
		Token: token,
	})
}

func (b *Backend) handleLogin(w http.ResponseWriter, r *http.Request) {
	var creds commerce.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	user, ok := b.users[creds.Email]
	if !ok || user.Password != creds.Password {
		writeError(w, http.StatusUnauthorized, "Invalid email or password", nil)
		return
	}

	token := uuid.NewString()
	b.tokens[token] = creds.Email
	writeJSON(w, http.StatusOK, commerce.Session{
		User:  &commerce.User{FirstName: user.FirstName, LastName: user.LastName, Email: user.Email},
		Token: token,
	})
}

func (b *Backend) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req commerce.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.users[req.Email]; exists {
		writeError(w, http.StatusBadRequest, "Email already registered", map[string]string{
			"email": "Email already registered",
		})
		return
	}

	b.users[req.Email] = req
	token := uuid.NewString()
	b.tokens[token] = req.Email
	writeJSON(w, http.StatusCreated, commerce.Session{
		User:  &commerce.User{FirstName: req.FirstName, LastName: req.LastName, Email: req.Email},
		Token: token,
	})
}

// ==================== helpers ====================

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string, fields map[string]string) {
	writeJSON(w, status, map[string]any{
		"message": message,
		"errors":  fields,
	})
}
