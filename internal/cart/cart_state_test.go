package cart

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func item(id, productID, variantID string, qty int32) LineItem {
	return LineItem{
		ID:        id,
		ProductID: productID,
		VariantID: variantID,
		Quantity:  qty,
		UnitPrice: decimal.RequireFromString("24.99"),
	}
}

func TestReduce_AddItem(t *testing.T) {
	t.Run("appends_new_line", func(t *testing.T) {
		s := reduce(initialState(), addItem{item: item("a", "p1", "single", 1)})

		assert.Len(t, s.Items, 1)
		assert.Equal(t, int32(1), s.Items[0].Quantity)
	})

	t.Run("merges_same_product_variant_pair", func(t *testing.T) {
		s := initialState()
		s = reduce(s, addItem{item: item("a", "p1", "single", 1)})
		s = reduce(s, addItem{item: item("b", "p1", "single", 2)})
		s = reduce(s, addItem{item: item("c", "p1", "single", 3)})

		assert.Len(t, s.Items, 1)
		assert.Equal(t, "a", s.Items[0].ID, "first line's id survives the merge")
		assert.Equal(t, int32(6), s.Items[0].Quantity)
	})

	t.Run("distinct_variants_stay_separate", func(t *testing.T) {
		s := initialState()
		s = reduce(s, addItem{item: item("a", "p1", "single", 1)})
		s = reduce(s, addItem{item: item("b", "p1", "double", 1)})

		assert.Len(t, s.Items, 2)
	})

	t.Run("does_not_mutate_previous_state", func(t *testing.T) {
		before := reduce(initialState(), addItem{item: item("a", "p1", "single", 1)})
		_ = reduce(before, addItem{item: item("b", "p1", "single", 4)})

		assert.Equal(t, int32(1), before.Items[0].Quantity)
	})
}

func TestReduce_UpdateAndRemove(t *testing.T) {
	base := reduce(initialState(), addItem{item: item("a", "p1", "single", 2)})

	t.Run("update_quantity", func(t *testing.T) {
		s := reduce(base, updateQuantity{id: "a", quantity: 5})
		assert.Equal(t, int32(5), s.Items[0].Quantity)
	})

	t.Run("update_unknown_id_is_noop", func(t *testing.T) {
		s := reduce(base, updateQuantity{id: "zzz", quantity: 5})
		assert.Equal(t, int32(2), s.Items[0].Quantity)
	})

	t.Run("remove_prunes_loading_entry", func(t *testing.T) {
		s := reduce(base, setItemLoading{id: "a", loading: true})
		s = reduce(s, removeItem{id: "a"})

		assert.Empty(t, s.Items)
		assert.NotContains(t, s.ItemLoading, "a")
	})
}

func TestReduce_ItemLoading(t *testing.T) {
	s := reduce(initialState(), setItemLoading{id: "a", loading: true})
	assert.True(t, s.ItemLoading["a"])

	// clearing prunes the entry entirely so long sessions don't accumulate
	// ids of removed items
	s = reduce(s, setItemLoading{id: "a", loading: false})
	assert.NotContains(t, s.ItemLoading, "a")
}

func TestReduce_Promo(t *testing.T) {
	s := reduce(initialState(), applyPromo{code: "FRESH5", discount: decimal.NewFromInt(5)})
	assert.Equal(t, "FRESH5", s.PromoCode)
	assert.True(t, decimal.NewFromInt(5).Equal(s.PromoDiscount))

	s = reduce(s, removePromo{})
	assert.Empty(t, s.PromoCode)
	assert.True(t, s.PromoDiscount.IsZero())
}

func TestReduce_Clear(t *testing.T) {
	s := reduce(initialState(), addItem{item: item("a", "p1", "single", 2)})
	s = reduce(s, applyPromo{code: "FRESH5", discount: decimal.NewFromInt(5)})

	s = reduce(s, clearCart{})

	assert.Empty(t, s.Items)
	assert.Empty(t, s.PromoCode)
	assert.True(t, s.PromoDiscount.IsZero())
	assert.Empty(t, s.ItemLoading)
}
