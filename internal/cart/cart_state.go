package cart

import "github.com/shopspring/decimal"

// LineItem is one row of the cart: a product variant snapshot taken at
// add-time plus the requested quantity.
type LineItem struct {
	ID           string          `json:"id"`
	ProductID    string          `json:"productId"`
	VariantID    string          `json:"variantId"`
	Name         string          `json:"name"`
	Image        string          `json:"image"`
	VariantLabel string          `json:"variantLabel"`
	Quantity     int32           `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unitPrice"`
}

// State is the cart's full in-memory state. Insertion order of Items is
// significant for display. ItemLoading tracks in-flight per-item syncs;
// entries are pruned once the sync resolves, never left at false.
type State struct {
	Items         []LineItem
	PromoCode     string
	PromoDiscount decimal.Decimal
	ItemLoading   map[string]bool
}

func initialState() State {
	return State{
		PromoDiscount: decimal.Zero,
		ItemLoading:   map[string]bool{},
	}
}

// Command is the tagged union of cart state transitions. All mutation flows
// through reduce; the Store wrapper owns side effects (remote sync, storage).
type Command interface{ isCommand() }

type setCart struct {
	items         []LineItem
	promoCode     string
	promoDiscount decimal.Decimal
}

type addItem struct{ item LineItem }

type updateQuantity struct {
	id       string
	quantity int32
}

type removeItem struct{ id string }

type setItemLoading struct {
	id      string
	loading bool
}

type applyPromo struct {
	code     string
	discount decimal.Decimal
}

type removePromo struct{}

type clearCart struct{}

func (setCart) isCommand()        {}
func (addItem) isCommand()        {}
func (updateQuantity) isCommand() {}
func (removeItem) isCommand()     {}
func (setItemLoading) isCommand() {}
func (applyPromo) isCommand()     {}
func (removePromo) isCommand()    {}
func (clearCart) isCommand()      {}

// reduce is pure: no I/O, no clock, no mutation of the input state.
func reduce(s State, cmd Command) State {
	switch c := cmd.(type) {
	case setCart:
		s.Items = append([]LineItem(nil), c.items...)
		s.PromoCode = c.promoCode
		s.PromoDiscount = c.promoDiscount
		return s

	case addItem:
		for i, it := range s.Items {
			if it.ProductID == c.item.ProductID && it.VariantID == c.item.VariantID {
				items := append([]LineItem(nil), s.Items...)
				items[i].Quantity += c.item.Quantity
				s.Items = items
				return s
			}
		}
		s.Items = append(append([]LineItem(nil), s.Items...), c.item)
		return s

	case updateQuantity:
		items := append([]LineItem(nil), s.Items...)
		for i := range items {
			if items[i].ID == c.id {
				items[i].Quantity = c.quantity
			}
		}
		s.Items = items
		return s

	case removeItem:
		items := make([]LineItem, 0, len(s.Items))
		for _, it := range s.Items {
			if it.ID != c.id {
				items = append(items, it)
			}
		}
		s.Items = items
		s.ItemLoading = pruneLoading(s.ItemLoading, c.id)
		return s

	case setItemLoading:
		if c.loading {
			loading := cloneLoading(s.ItemLoading)
			loading[c.id] = true
			s.ItemLoading = loading
		} else {
			s.ItemLoading = pruneLoading(s.ItemLoading, c.id)
		}
		return s

	case applyPromo:
		s.PromoCode = c.code
		s.PromoDiscount = c.discount
		return s

	case removePromo:
		s.PromoCode = ""
		s.PromoDiscount = decimal.Zero
		return s

	case clearCart:
		return initialState()

	default:
		return s
	}
}

func cloneLoading(m map[string]bool) map[string]bool {
	out := make(map[string]bool, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func pruneLoading(m map[string]bool, id string) map[string]bool {
	out := cloneLoading(m)
	delete(out, id)
	return out
}
