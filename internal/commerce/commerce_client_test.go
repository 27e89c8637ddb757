package commerce_test

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-storefront/internal/commerce"
	"go-storefront/internal/commerce/commercetest"
	"go-storefront/internal/pkg/bus"
)

func newTestClient(t *testing.T) (commerce.Client, *bus.Bus) {
	t.Helper()
	srv := httptest.NewServer(commercetest.NewBackend())
	t.Cleanup(srv.Close)

	signals := bus.New()
	return commerce.NewHTTPClient(srv.URL, signals), signals
}

func register(t *testing.T, client commerce.Client) commerce.Session {
	t.Helper()
	sess, err := client.Register(context.Background(), commerce.RegisterRequest{
		FirstName: "Mike",
		LastName:  "T",
		Email:     "mike@example.com",
		Password:  "hunter22",
	})
	require.NoError(t, err)
	return sess
}

func TestClient_GuestCartIsUnauthorized(t *testing.T) {
	client, signals := newTestClient(t)
	ctx := context.Background()

	expired := false
	signals.Subscribe(bus.TopicSessionExpired, func() { expired = true })

	_, err := client.GetCart(ctx)

	var apiErr *commerce.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 401, apiErr.Status)
	assert.True(t, expired, "401 should publish the session-expired signal")
}

func TestClient_CartRoundTrip(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()
	register(t, client)

	err := client.AddItem(ctx, commerce.AddItemRequest{
		ProductID: "sneakerfresh-odor-pack",
		VariantID: "double",
		Quantity:  2,
	})
	require.NoError(t, err)

	snap, err := client.GetCart(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Items, 1)
	assert.Equal(t, int32(2), snap.Items[0].Quantity)
	assert.Equal(t, "2-Pack", snap.Items[0].VariantLabel)
	assert.True(t, decimal.RequireFromString("44.99").Equal(snap.Items[0].UnitPrice))

	err = client.UpdateQuantity(ctx, snap.Items[0].ID, 5)
	require.NoError(t, err)

	err = client.RemoveItem(ctx, snap.Items[0].ID)
	require.NoError(t, err)

	snap, err = client.GetCart(ctx)
	require.NoError(t, err)
	assert.Empty(t, snap.Items)
}

func TestClient_ApplyPromo(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()
	register(t, client)

	t.Run("known_code", func(t *testing.T) {
		res, err := client.ApplyPromo(ctx, "FRESH5")
		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(5).Equal(res.Discount))
	})

	t.Run("unknown_code", func(t *testing.T) {
		_, err := client.ApplyPromo(ctx, "BOGUS")
		var apiErr *commerce.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, 400, apiErr.Status)
		assert.Equal(t, "Invalid promo code", apiErr.Message)
	})
}

func TestClient_CheckoutEndpoints(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()
	register(t, client)

	require.NoError(t, client.AddItem(ctx, commerce.AddItemRequest{
		ProductID: "sneakerfresh-odor-pack",
		VariantID: "single",
		Quantity:  1,
	}))

	rates, err := client.GetShippingRates(ctx, commerce.Address{ZipCode: "10001"})
	require.NoError(t, err)
	require.Len(t, rates, 2)
	assert.Equal(t, "standard", rates[0].ID)

	tax, err := client.CalculateTax(ctx, commerce.Address{State: "NY"})
	require.NoError(t, err)
	// 24.99 * 0.08
	assert.True(t, decimal.RequireFromString("1.9992").Equal(tax), "tax = %s", tax)

	snap, err := client.GetCart(ctx)
	require.NoError(t, err)

	order, err := client.CreateOrder(ctx, commerce.OrderPayload{Items: snap.Items})
	require.NoError(t, err)
	assert.Regexp(t, `^SF-\d{6}$`, order.OrderID)
}

func TestClient_UpstreamUnreachable(t *testing.T) {
	client := commerce.NewHTTPClient("http://127.0.0.1:1", bus.New())

	_, err := client.GetCart(context.Background())

	assert.ErrorIs(t, err, commerce.ErrUpstreamUnavailable)
}
