package commerce

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"go-storefront/internal/pkg/bus"
)

//go:generate mockgen -source=commerce_client.go -destination=../mock/commerce/commerce_client_mock.go -package=mock
type Client interface {
	// Cart
	GetCart(ctx context.Context) (CartSnapshot, error)
	AddItem(ctx context.Context, req AddItemRequest) error
	UpdateQuantity(ctx context.Context, itemID string, quantity int32) error
	RemoveItem(ctx context.Context, itemID string) error
	ApplyPromo(ctx context.Context, code string) (PromoResult, error)
	RemovePromo(ctx context.Context) error

	// Checkout
	ValidateCart(ctx context.Context) error
	GetShippingRates(ctx context.Context, address Address) ([]ShippingRate, error)
	CalculateTax(ctx context.Context, address Address) (decimal.Decimal, error)
	CreateOrder(ctx context.Context, payload OrderPayload) (OrderResult, error)

	// Catalog
	GetProduct(ctx context.Context, productID string) (Product, error)

	// Auth
	GetSession(ctx context.Context) (Session, error)
	Login(ctx context.Context, creds Credentials) (Session, error)
	Register(ctx context.Context, req RegisterRequest) (Session, error)
	Logout(ctx context.Context) error
	RequestPasswordReset(ctx context.Context, email string) error
}

type httpClient struct {
	baseURL string
	http    *http.Client
	signals *bus.Bus

	mu    sync.RWMutex
	token string
}

// NewHTTPClient talks to the remote commerce API at baseURL. A 401 from any
// endpoint is published as a session-expired signal on signals before the
// error is returned to the caller.
func NewHTTPClient(baseURL string, signals *bus.Bus) Client {
	return &httpClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
		signals: signals,
	}
}

func (c *httpClient) setToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *httpClient) do(ctx context.Context, method, endpoint string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	c.mu.RLock()
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	c.mu.RUnlock()

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return c.readError(resp)
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *httpClient) readError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode, Message: "An error occurred"}

	var payload struct {
		Message string            `json:"message"`
		Errors  map[string]string `json:"errors"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil {
		if payload.Message != "" {
			apiErr.Message = payload.Message
		}
		apiErr.Errors = payload.Errors
	}

	if resp.StatusCode == http.StatusUnauthorized {
		c.setToken("")
		c.signals.Publish(bus.TopicSessionExpired)
	}

	return apiErr
}

// ==================== CART ====================

func (c *httpClient) GetCart(ctx context.Context) (CartSnapshot, error) {
	var snap CartSnapshot
	err := c.do(ctx, http.MethodGet, "/cart", nil, &snap)
	return snap, err
}

func (c *httpClient) AddItem(ctx context.Context, req AddItemRequest) error {
	return c.do(ctx, http.MethodPost, "/cart/items", req, nil)
}

func (c *httpClient) UpdateQuantity(ctx context.Context, itemID string, quantity int32) error {
	body := map[string]int32{"quantity": quantity}
	return c.do(ctx, http.MethodPatch, "/cart/items/"+itemID, body, nil)
}

func (c *httpClient) RemoveItem(ctx context.Context, itemID string) error {
	return c.do(ctx, http.MethodDelete, "/cart/items/"+itemID, nil, nil)
}

func (c *httpClient) ApplyPromo(ctx context.Context, code string) (PromoResult, error) {
	var res PromoResult
	err := c.do(ctx, http.MethodPost, "/cart/promo", map[string]string{"code": code}, &res)
	return res, err
}

func (c *httpClient) RemovePromo(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/cart/promo", nil, nil)
}

// ==================== CHECKOUT ====================

func (c *httpClient) ValidateCart(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/checkout/validate", nil, nil)
}

func (c *httpClient) GetShippingRates(ctx context.Context, address Address) ([]ShippingRate, error) {
	var rates []ShippingRate
	err := c.do(ctx, http.MethodPost, "/checkout/shipping-rates", address, &rates)
	return rates, err
}

func (c *httpClient) CalculateTax(ctx context.Context, address Address) (decimal.Decimal, error) {
	var res TaxResult
	if err := c.do(ctx, http.MethodPost, "/checkout/calculate-tax", address, &res); err != nil {
		return decimal.Zero, err
	}
	return res.Amount, nil
}

func (c *httpClient) CreateOrder(ctx context.Context, payload OrderPayload) (OrderResult, error) {
	var res OrderResult
	err := c.do(ctx, http.MethodPost, "/orders", payload, &res)
	return res, err
}

// ==================== CATALOG ====================

func (c *httpClient) GetProduct(ctx context.Context, productID string) (Product, error) {
	var p Product
	err := c.do(ctx, http.MethodGet, "/products/"+productID, nil, &p)
	return p, err
}

// ==================== AUTH ====================

func (c *httpClient) GetSession(ctx context.Context) (Session, error) {
	var s Session
	err := c.do(ctx, http.MethodGet, "/auth/session", nil, &s)
	return s, err
}

func (c *httpClient) Login(ctx context.Context, creds Credentials) (Session, error) {
	var s Session
	if err := c.do(ctx, http.MethodPost, "/auth/login", creds, &s); err != nil {
		return Session{}, err
	}
	c.setToken(s.Token)
	return s, nil
}

func (c *httpClient) Register(ctx context.Context, req RegisterRequest) (Session, error) {
	var s Session
	if err := c.do(ctx, http.MethodPost, "/auth/register", req, &s); err != nil {
		return Session{}, err
	}
	c.setToken(s.Token)
	return s, nil
}

func (c *httpClient) Logout(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, "/auth/logout", nil, nil)
	c.setToken("")
	return err
}

func (c *httpClient) RequestPasswordReset(ctx context.Context, email string) error {
	return c.do(ctx, http.MethodPost, "/auth/password-reset", map[string]string{"email": email}, nil)
}
