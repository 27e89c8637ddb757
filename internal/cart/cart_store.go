package cart

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"go-storefront/internal/commerce"
	"go-storefront/internal/storage"
)

const syncTimeout = 10 * time.Second

// Store is the single source of truth for one visitor's cart. Mutations are
// applied optimistically to local state, persisted to durable storage, and
// then synced to the remote commerce API on a best-effort basis: sync
// failures are logged and swallowed, local state is never rolled back.
//
// ApplyPromoCode is the one exception: the discount only lands after the
// remote validator confirms it, since an unconfirmed discount would corrupt
// checkout totals.
type Store struct {
	client  commerce.Client
	storage storage.Store
	logger  *zap.Logger

	mu    sync.Mutex
	state State

	syncs sync.WaitGroup
}

type Deps struct {
	Client  commerce.Client
	Storage storage.Store
	Logger  *zap.Logger
}

func NewStore(deps Deps) *Store {
	if deps.Client == nil {
		panic("commerce client cannot be nil")
	}
	if deps.Storage == nil {
		panic("storage cannot be nil")
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	return &Store{
		client:  deps.Client,
		storage: deps.Storage,
		logger:  deps.Logger,
		state:   initialState(),
	}
}

// persistedCart is the durable blob written under storage.CartKey.
type persistedCart struct {
	Items         []LineItem      `json:"items"`
	PromoCode     string          `json:"promoCode,omitempty"`
	PromoDiscount decimal.Decimal `json:"promoDiscount"`
}

// Init loads the cart: remote first (logged-in visitors), durable local copy
// as fallback (guests), empty otherwise. A corrupt local blob is discarded.
func (s *Store) Init(ctx context.Context) {
	snap, err := s.client.GetCart(ctx)
	if err == nil {
		s.dispatch(setCart{
			items:         fromWireItems(snap.Items),
			promoCode:     snap.PromoCode,
			promoDiscount: snap.PromoDiscount,
		})
		return
	}
	s.logger.Debug("remote cart unavailable, trying local copy", zap.Error(err))

	data, ok, err := s.storage.Load(ctx, storage.CartKey)
	if err != nil || !ok {
		return
	}

	var stored persistedCart
	if err := json.Unmarshal(data, &stored); err != nil {
		s.logger.Warn("discarding corrupt stored cart", zap.Error(err))
		return
	}

	s.dispatch(setCart{
		items:         stored.Items,
		promoCode:     stored.PromoCode,
		promoDiscount: stored.PromoDiscount,
	})
}

// AddItem snapshots the variant and merges it into the cart. Adding the same
// (product, variant) pair again increments the existing line's quantity;
// below 1 it is a no-op, like UpdateQuantity.
func (s *Store) AddItem(ctx context.Context, product commerce.Product, variantID string, quantity int32) error {
	if quantity < 1 {
		return nil
	}

	var variant *commerce.Variant
	for i := range product.Variants {
		if product.Variants[i].ID == variantID {
			variant = &product.Variants[i]
		}
	}
	if variant == nil {
		return ErrVariantNotFound
	}

	image := ""
	if len(product.Images) > 0 {
		image = product.Images[0]
	}

	s.dispatch(addItem{item: LineItem{
		ID:           uuid.NewString(),
		ProductID:    product.ID,
		VariantID:    variantID,
		Name:         product.Name,
		Image:        image,
		VariantLabel: variant.Name,
		Quantity:     quantity,
		UnitPrice:    variant.Price,
	}})

	s.syncRemote("add_item", "", func(ctx context.Context) error {
		return s.client.AddItem(ctx, commerce.AddItemRequest{
			ProductID: product.ID,
			VariantID: variantID,
			Quantity:  quantity,
		})
	})
	return nil
}

// UpdateQuantity is a no-op below 1; the stored quantity never drops under
// the floor.
func (s *Store) UpdateQuantity(ctx context.Context, itemID string, quantity int32) error {
	if quantity < 1 {
		return nil
	}
	if !s.hasItem(itemID) {
		return ErrItemNotFound
	}

	s.dispatch(setItemLoading{id: itemID, loading: true})
	s.dispatch(updateQuantity{id: itemID, quantity: quantity})

	s.syncRemote("update_quantity", itemID, func(ctx context.Context) error {
		return s.client.UpdateQuantity(ctx, itemID, quantity)
	})
	return nil
}

func (s *Store) RemoveItem(ctx context.Context, itemID string) error {
	if !s.hasItem(itemID) {
		return ErrItemNotFound
	}

	s.dispatch(setItemLoading{id: itemID, loading: true})
	s.dispatch(removeItem{id: itemID})

	s.syncRemote("remove_item", itemID, func(ctx context.Context) error {
		return s.client.RemoveItem(ctx, itemID)
	})
	return nil
}

// ApplyPromoCode is NOT optimistic: the discount is stored only after the
// remote validator accepts the code. Failure leaves prior promo state
// untouched and is surfaced to the caller.
func (s *Store) ApplyPromoCode(ctx context.Context, code string) error {
	res, err := s.client.ApplyPromo(ctx, code)
	if err != nil {
		var apiErr *commerce.APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusBadRequest {
			return ErrInvalidPromoCode
		}
		return err
	}

	s.dispatch(applyPromo{code: code, discount: res.Discount})
	return nil
}

func (s *Store) RemovePromoCode(ctx context.Context) {
	s.dispatch(removePromo{})
	s.syncRemote("remove_promo", "", s.client.RemovePromo)
}

// ClearCart resets to the empty state and erases the persisted copy. Used
// after order completion.
func (s *Store) ClearCart(ctx context.Context) {
	s.dispatch(clearCart{})
}

// ==================== derived accessors ====================

// State returns a copy safe for the caller to read.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.state
	st.Items = append([]LineItem(nil), s.state.Items...)
	st.ItemLoading = cloneLoading(s.state.ItemLoading)
	return st
}

func (s *Store) ItemCount() int32 {
	s.mu.Lock()
	defer s.mu.Unlock()

	var count int32
	for _, it := range s.state.Items {
		count += it.Quantity
	}
	return count
}

func (s *Store) Subtotal() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return subtotal(s.state.Items)
}

// CartTotal is the subtotal after discount; shipping and tax are derived by
// the pricing calculator, not here.
func (s *Store) CartTotal() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return subtotal(s.state.Items).Sub(s.state.PromoDiscount)
}

func subtotal(items []LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.UnitPrice.Mul(decimal.NewFromInt32(it.Quantity)))
	}
	return total
}

// Wait blocks until all in-flight remote syncs resolve.
func (s *Store) Wait() {
	s.syncs.Wait()
}

// ==================== internals ====================

func (s *Store) hasItem(itemID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, it := range s.state.Items {
		if it.ID == itemID {
			return true
		}
	}
	return false
}

// dispatch runs the pure reducer under the lock, then mirrors the result to
// durable storage: present whenever the cart holds items or a promo, absent
// otherwise.
func (s *Store) dispatch(cmd Command) {
	s.mu.Lock()
	s.state = reduce(s.state, cmd)
	st := s.state
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), syncTimeout)
	defer cancel()

	if len(st.Items) == 0 && st.PromoCode == "" {
		if err := s.storage.Delete(ctx, storage.CartKey); err != nil {
			s.logger.Warn("failed to remove stored cart", zap.Error(err))
		}
		return
	}

	data, err := json.Marshal(persistedCart{
		Items:         st.Items,
		PromoCode:     st.PromoCode,
		PromoDiscount: st.PromoDiscount,
	})
	if err != nil {
		s.logger.Warn("failed to encode cart for storage", zap.Error(err))
		return
	}
	if err := s.storage.Save(ctx, storage.CartKey, data); err != nil {
		s.logger.Warn("failed to persist cart", zap.Error(err))
	}
}

// syncRemote runs the best-effort remote tail of a mutation. Failures are
// logged, never surfaced; when itemID is set its loading flag is cleared on
// completion either way.
func (s *Store) syncRemote(op, itemID string, fn func(context.Context) error) {
	s.syncs.Add(1)
	go func() {
		defer s.syncs.Done()

		ctx, cancel := context.WithTimeout(context.Background(), syncTimeout)
		defer cancel()

		if err := fn(ctx); err != nil {
			s.logger.Warn("cart sync failed", zap.String("op", op), zap.Error(err))
		}
		if itemID != "" {
			s.dispatch(setItemLoading{id: itemID, loading: false})
		}
	}()
}

// ToWire converts line items to their commerce API shape, used when handing
// the cart to checkout's order payload.
func ToWire(items []LineItem) []commerce.CartItem {
	out := make([]commerce.CartItem, 0, len(items))
	for _, it := range items {
		out = append(out, commerce.CartItem{
			ID:           it.ID,
			ProductID:    it.ProductID,
			VariantID:    it.VariantID,
			Name:         it.Name,
			Image:        it.Image,
			VariantLabel: it.VariantLabel,
			Quantity:     it.Quantity,
			UnitPrice:    it.UnitPrice,
		})
	}
	return out
}

func fromWireItems(items []commerce.CartItem) []LineItem {
	out := make([]LineItem, 0, len(items))
	for _, it := range items {
		out = append(out, LineItem{
			ID:           it.ID,
			ProductID:    it.ProductID,
			VariantID:    it.VariantID,
			Name:         it.Name,
			Image:        it.Image,
			VariantLabel: it.VariantLabel,
			Quantity:     it.Quantity,
			UnitPrice:    it.UnitPrice,
		})
	}
	return out
}
