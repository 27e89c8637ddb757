package cart_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"go-storefront/internal/cart"
	"go-storefront/internal/catalog"
	"go-storefront/internal/commerce"
	mock "go-storefront/internal/mock/commerce"
	"go-storefront/internal/storage"
)

type envelope struct {
	Success bool              `json:"success"`
	Data    cart.CartResponse `json:"data"`
}

func setupRouter(t *testing.T) (*gin.Engine, *mock.MockClient, *cart.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ctrl := gomock.NewController(t)
	client := mock.NewMockClient(ctrl)

	blob, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)
	store := cart.NewStore(cart.Deps{Client: client, Storage: blob})

	catalogSvc := catalog.NewService(catalog.Deps{Client: client})
	handler := cart.NewHandler(catalogSvc, func(_ *gin.Context) *cart.Store { return store })

	r := gin.New()
	api := r.Group("/api/v1")
	cart.RegisterRoutes(api, handler)
	return r, client, store
}

func doJSON(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCartHandler_Detail(t *testing.T) {
	t.Run("empty_cart", func(t *testing.T) {
		r, _, _ := setupRouter(t)

		w := doJSON(r, http.MethodGet, "/api/v1/cart", "")

		assert.Equal(t, http.StatusOK, w.Code)
		var resp envelope
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		assert.Empty(t, resp.Data.Items)
		assert.Equal(t, int32(0), resp.Data.Totals.ItemCount)
	})
}

func TestCartHandler_AddItem(t *testing.T) {
	t.Run("success_returns_snapshot_with_totals", func(t *testing.T) {
		r, client, store := setupRouter(t)
		client.EXPECT().GetProduct(gomock.Any(), "sneakerfresh-odor-pack").
			Return(testProduct(), nil)
		client.EXPECT().AddItem(gomock.Any(), gomock.Any()).Return(nil)

		w := doJSON(r, http.MethodPost, "/api/v1/cart/items",
			`{"productId":"sneakerfresh-odor-pack","variantId":"double","quantity":1}`)
		store.Wait()

		assert.Equal(t, http.StatusCreated, w.Code)
		var resp envelope
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp.Data.Items, 1)
		assert.Equal(t, "double", resp.Data.Items[0].VariantID)
		assert.True(t, dec("44.99").Equal(resp.Data.Totals.Subtotal))
		assert.True(t, dec("5.01").Equal(resp.Data.Totals.AmountToFreeShipping))
	})

	t.Run("malformed_body", func(t *testing.T) {
		r, _, _ := setupRouter(t)

		w := doJSON(r, http.MethodPost, "/api/v1/cart/items", `{"productId":`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("zero_quantity_leaves_cart_empty", func(t *testing.T) {
		r, client, _ := setupRouter(t)
		client.EXPECT().GetProduct(gomock.Any(), "sneakerfresh-odor-pack").
			Return(testProduct(), nil)

		w := doJSON(r, http.MethodPost, "/api/v1/cart/items",
			`{"productId":"sneakerfresh-odor-pack","variantId":"single","quantity":0}`)

		assert.Equal(t, http.StatusCreated, w.Code)
		var resp envelope
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Empty(t, resp.Data.Items)
	})

	t.Run("unknown_variant", func(t *testing.T) {
		r, client, _ := setupRouter(t)
		client.EXPECT().GetProduct(gomock.Any(), "sneakerfresh-odor-pack").
			Return(testProduct(), nil)

		w := doJSON(r, http.MethodPost, "/api/v1/cart/items",
			`{"productId":"sneakerfresh-odor-pack","variantId":"crate","quantity":1}`)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestCartHandler_UpdateQuantity(t *testing.T) {
	t.Run("unknown_item", func(t *testing.T) {
		r, _, _ := setupRouter(t)

		w := doJSON(r, http.MethodPatch, "/api/v1/cart/items/nope", `{"quantity":2}`)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("updates_and_returns_snapshot", func(t *testing.T) {
		r, client, store := setupRouter(t)
		client.EXPECT().GetProduct(gomock.Any(), "sneakerfresh-odor-pack").
			Return(testProduct(), nil)
		client.EXPECT().AddItem(gomock.Any(), gomock.Any()).Return(nil)
		client.EXPECT().UpdateQuantity(gomock.Any(), gomock.Any(), int32(3)).Return(nil)

		doJSON(r, http.MethodPost, "/api/v1/cart/items",
			`{"productId":"sneakerfresh-odor-pack","variantId":"single","quantity":1}`)
		itemID := store.State().Items[0].ID

		w := doJSON(r, http.MethodPatch, "/api/v1/cart/items/"+itemID, `{"quantity":3}`)
		store.Wait()

		assert.Equal(t, http.StatusOK, w.Code)
		var resp envelope
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, int32(3), resp.Data.Items[0].Quantity)
	})

	t.Run("zero_quantity_leaves_item_unchanged", func(t *testing.T) {
		r, client, store := setupRouter(t)
		client.EXPECT().GetProduct(gomock.Any(), "sneakerfresh-odor-pack").
			Return(testProduct(), nil)
		client.EXPECT().AddItem(gomock.Any(), gomock.Any()).Return(nil)

		doJSON(r, http.MethodPost, "/api/v1/cart/items",
			`{"productId":"sneakerfresh-odor-pack","variantId":"single","quantity":2}`)
		itemID := store.State().Items[0].ID

		w := doJSON(r, http.MethodPatch, "/api/v1/cart/items/"+itemID, `{"quantity":0}`)
		store.Wait()

		assert.Equal(t, http.StatusOK, w.Code)
		var resp envelope
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp.Data.Items, 1)
		assert.Equal(t, int32(2), resp.Data.Items[0].Quantity)
	})
}

func TestCartHandler_Promo(t *testing.T) {
	t.Run("invalid_code", func(t *testing.T) {
		r, client, _ := setupRouter(t)
		client.EXPECT().ApplyPromo(gomock.Any(), "NOPE").
			Return(commerce.PromoResult{}, &commerce.APIError{Status: 400, Message: "Invalid promo code"})

		w := doJSON(r, http.MethodPost, "/api/v1/cart/promo", `{"code":"NOPE"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("valid_code_lands_in_totals", func(t *testing.T) {
		r, client, store := setupRouter(t)
		client.EXPECT().GetProduct(gomock.Any(), "sneakerfresh-odor-pack").
			Return(testProduct(), nil)
		client.EXPECT().AddItem(gomock.Any(), gomock.Any()).Return(nil)
		client.EXPECT().ApplyPromo(gomock.Any(), "FRESH5").
			Return(commerce.PromoResult{Discount: dec("5")}, nil)

		doJSON(r, http.MethodPost, "/api/v1/cart/items",
			`{"productId":"sneakerfresh-odor-pack","variantId":"double","quantity":1}`)
		w := doJSON(r, http.MethodPost, "/api/v1/cart/promo", `{"code":"FRESH5"}`)
		store.Wait()

		assert.Equal(t, http.StatusOK, w.Code)
		var resp envelope
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "FRESH5", resp.Data.PromoCode)
		assert.True(t, dec("5").Equal(resp.Data.Totals.Discount))
	})
}

func TestCartHandler_Clear(t *testing.T) {
	r, client, store := setupRouter(t)
	client.EXPECT().GetProduct(gomock.Any(), "sneakerfresh-odor-pack").
		Return(testProduct(), nil)
	client.EXPECT().AddItem(gomock.Any(), gomock.Any()).Return(nil)

	doJSON(r, http.MethodPost, "/api/v1/cart/items",
		`{"productId":"sneakerfresh-odor-pack","variantId":"single","quantity":2}`)
	store.Wait()

	w := doJSON(r, http.MethodDelete, "/api/v1/cart", "")

	assert.Equal(t, http.StatusOK, w.Code)
	var resp envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Data.Items)
}
