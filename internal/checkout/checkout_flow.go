package checkout

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"go-storefront/internal/commerce"
	"go-storefront/internal/pricing"
)

// Flow drives one visitor's checkout from shipping details to a placed
// order. Submitting the shipping step advances the flow; all other step
// changes are explicit navigation, never side effects.
type Flow struct {
	client commerce.Client
	logger *zap.Logger

	mu    sync.Mutex
	state State
}

type Deps struct {
	Client commerce.Client
	Logger *zap.Logger
}

func NewFlow(deps Deps) *Flow {
	if deps.Client == nil {
		panic("checkout: commerce client is required")
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	return &Flow{
		client: deps.Client,
		logger: deps.Logger,
		state:  initialState(),
	}
}

// SubmitShippingResult reports the outcome of a shipping-step submission.
// Errors is field-keyed and empty on success.
type SubmitShippingResult struct {
	Success bool              `json:"success"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// SubmitOrderResult reports the outcome of an order submission.
type SubmitOrderResult struct {
	Success bool   `json:"success"`
	OrderID string `json:"orderId,omitempty"`
	Error   string `json:"error,omitempty"`
}

// UpdateShippingAddress merges a partial edit into the shipping address and
// clears any previous validation errors, so a correction is not nagged about
// until the next submit.
func (f *Flow) UpdateShippingAddress(update AddressUpdate) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state = reduce(f.state, mergeAddress{update: update})
}

// SubmitShippingAddress validates the shipping step. On success the step is
// marked complete and the flow advances to payment; on failure the flow
// stays put and the result carries per-field messages.
func (f *Flow) SubmitShippingAddress() SubmitShippingResult {
	f.mu.Lock()
	defer f.mu.Unlock()

	errs := ValidateShippingAddress(f.state.ShippingAddress)
	if len(errs) > 0 {
		f.state = reduce(f.state, setErrors{errors: errs})
		return SubmitShippingResult{Success: false, Errors: errs}
	}

	f.state = reduce(f.state, setErrors{errors: map[string]string{}})
	f.state = reduce(f.state, completeStep{step: StepShipping})
	f.state = reduce(f.state, setStep{step: StepPayment})
	return SubmitShippingResult{Success: true}
}

// SelectShippingRate records one of the fetched rates. It never moves the
// step; navigation stays with GoToStep.
func (f *Flow) SelectShippingRate(rateID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, rate := range f.state.ShippingRates {
		if rate.ID == rateID {
			f.state = reduce(f.state, selectRate{rate: rate})
			return nil
		}
	}
	return ErrRateNotFound
}

// GoToStep jumps directly to any step in range.
func (f *Flow) GoToStep(step Step) error {
	if step < StepShipping || step > StepReview {
		return ErrInvalidStep
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.state = reduce(f.state, setStep{step: step})
	return nil
}

// GoBack steps back one step; at the shipping step it is a no-op.
func (f *Flow) GoBack() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state.CurrentStep > StepShipping {
		f.state = reduce(f.state, setStep{step: f.state.CurrentStep - 1})
	}
}

// Reset discards the whole checkout session, address included.
func (f *Flow) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state = reduce(f.state, reset{})
}

// FetchShippingRates asks the commerce API for rates to the current address.
// The previously selected rate is kept only if it still exists.
func (f *Flow) FetchShippingRates(ctx context.Context) ([]commerce.ShippingRate, error) {
	f.mu.Lock()
	address := f.state.ShippingAddress
	f.state = reduce(f.state, setLoading{flag: flagCalculatingShipping, value: true})
	f.mu.Unlock()

	rates, err := f.client.GetShippingRates(ctx, address)

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		f.state = reduce(f.state, setLoading{flag: flagCalculatingShipping, value: false})
		f.logger.Warn("fetching shipping rates failed", zap.Error(err))
		return nil, err
	}

	f.state = reduce(f.state, setRates{rates: rates})
	if f.state.SelectedRate != nil {
		still := false
		for _, rate := range rates {
			if rate.ID == f.state.SelectedRate.ID {
				still = true
				break
			}
		}
		if !still {
			f.state.SelectedRate = nil
		}
	}
	return rates, nil
}

// CalculateTax asks the commerce API for tax on the current cart shipped to
// the current address and records the amount for the review totals.
func (f *Flow) CalculateTax(ctx context.Context) error {
	f.mu.Lock()
	address := f.state.ShippingAddress
	f.state = reduce(f.state, setLoading{flag: flagCalculatingTax, value: true})
	f.mu.Unlock()

	amount, err := f.client.CalculateTax(ctx, address)

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		f.state = reduce(f.state, setLoading{flag: flagCalculatingTax, value: false})
		f.logger.Warn("tax calculation failed", zap.Error(err))
		return err
	}
	f.state = reduce(f.state, setTax{amount: amount})
	return nil
}

// SubmitOrder revalidates the cart upstream, then places the order. The cart
// itself is untouched here; clearing it after a successful order is the
// caller's responsibility.
func (f *Flow) SubmitOrder(ctx context.Context, items []commerce.CartItem, totals pricing.Totals) SubmitOrderResult {
	if len(items) == 0 {
		return SubmitOrderResult{Success: false, Error: ErrCartEmpty.Message}
	}

	f.mu.Lock()
	address := f.state.ShippingAddress
	rateID := ""
	if f.state.SelectedRate != nil {
		rateID = f.state.SelectedRate.ID
	}
	f.state = reduce(f.state, setLoading{flag: flagSubmittingOrder, value: true})
	f.state = reduce(f.state, setLoading{flag: flagValidatingCart, value: true})
	f.mu.Unlock()

	err := f.client.ValidateCart(ctx)

	f.mu.Lock()
	f.state = reduce(f.state, setLoading{flag: flagValidatingCart, value: false})
	f.mu.Unlock()

	if err != nil {
		f.finishSubmit()
		f.logger.Warn("cart validation failed", zap.Error(err))
		return SubmitOrderResult{Success: false, Error: submitError(err)}
	}

	payload := commerce.OrderPayload{
		Items:          items,
		Address:        address,
		ShippingRateID: rateID,
		Subtotal:       totals.Subtotal,
		Discount:       totals.Discount,
		Shipping:       totals.Shipping,
		Tax:            totals.Tax,
		Total:          totals.Total,
	}

	result, err := f.client.CreateOrder(ctx, payload)
	if err != nil {
		f.finishSubmit()
		f.logger.Warn("order submission failed", zap.Error(err))
		return SubmitOrderResult{Success: false, Error: submitError(err)}
	}

	f.mu.Lock()
	f.state = reduce(f.state, setOrderID{orderID: result.OrderID})
	f.mu.Unlock()

	f.logger.Info("order placed", zap.String("orderId", result.OrderID))
	return SubmitOrderResult{Success: true, OrderID: result.OrderID}
}

// State returns a copy safe for the caller to hold.
func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()

	s := f.state
	s.CompletedSteps = append([]Step(nil), f.state.CompletedSteps...)
	s.ShippingRates = append([]commerce.ShippingRate(nil), f.state.ShippingRates...)
	if f.state.SelectedRate != nil {
		rate := *f.state.SelectedRate
		s.SelectedRate = &rate
	}
	s.Errors = make(map[string]string, len(f.state.Errors))
	for k, v := range f.state.Errors {
		s.Errors[k] = v
	}
	return s
}

func (f *Flow) finishSubmit() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state = reduce(f.state, setLoading{flag: flagSubmittingOrder, value: false})
}

func submitError(err error) string {
	var apiErr *commerce.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return ErrOrderFailed.Message
}
