package checkout

import (
	"github.com/shopspring/decimal"

	"go-storefront/internal/commerce"
)

// Step indexes the checkout progression.
type Step int

const (
	StepShipping Step = iota
	StepPayment
	StepReview
)

func (s Step) String() string {
	switch s {
	case StepShipping:
		return "shipping"
	case StepPayment:
		return "payment"
	case StepReview:
		return "review"
	default:
		return "unknown"
	}
}

// State is one checkout session. OrderID doubles as the terminal marker;
// the flow never auto-transitions on it, acting on it is the caller's job.
type State struct {
	CurrentStep    Step
	CompletedSteps []Step

	ShippingAddress commerce.Address
	ShippingRates   []commerce.ShippingRate
	SelectedRate    *commerce.ShippingRate

	Tax decimal.Decimal

	IsValidatingCart      bool
	IsCalculatingShipping bool
	IsCalculatingTax      bool
	IsSubmittingOrder     bool

	Errors  map[string]string
	OrderID string
}

func initialState() State {
	return State{
		CurrentStep:     StepShipping,
		ShippingAddress: commerce.Address{Country: "US"},
		Tax:             decimal.Zero,
		Errors:          map[string]string{},
	}
}

// AddressUpdate carries a partial edit of the shipping address; nil fields
// are left untouched by the merge.
type AddressUpdate struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Email     *string `json:"email"`
	Phone     *string `json:"phone"`
	Address1  *string `json:"address1"`
	Address2  *string `json:"address2"`
	City      *string `json:"city"`
	State     *string `json:"state"`
	ZipCode   *string `json:"zipCode"`
	Country   *string `json:"country"`
}

type Command interface{ isCommand() }

type setStep struct{ step Step }
type completeStep struct{ step Step }
type mergeAddress struct{ update AddressUpdate }
type setRates struct{ rates []commerce.ShippingRate }
type selectRate struct{ rate commerce.ShippingRate }
type setTax struct{ amount decimal.Decimal }
type loadingFlag int

const (
	flagValidatingCart loadingFlag = iota
	flagCalculatingShipping
	flagCalculatingTax
	flagSubmittingOrder
)

type setLoading struct {
	flag  loadingFlag
	value bool
}
type setErrors struct{ errors map[string]string }
type setOrderID struct{ orderID string }
type reset struct{}

func (setStep) isCommand()      {}
func (completeStep) isCommand() {}
func (mergeAddress) isCommand() {}
func (setRates) isCommand()     {}
func (selectRate) isCommand()   {}
func (setTax) isCommand()       {}
func (setLoading) isCommand()   {}
func (setErrors) isCommand()    {}
func (setOrderID) isCommand()   {}
func (reset) isCommand()        {}

func reduce(s State, cmd Command) State {
	switch c := cmd.(type) {
	case setStep:
		s.CurrentStep = c.step
		return s

	case completeStep:
		for _, done := range s.CompletedSteps {
			if done == c.step {
				return s
			}
		}
		s.CompletedSteps = append(append([]Step(nil), s.CompletedSteps...), c.step)
		return s

	case mergeAddress:
		s.ShippingAddress = applyUpdate(s.ShippingAddress, c.update)
		s.Errors = map[string]string{}
		return s

	case setRates:
		s.ShippingRates = append([]commerce.ShippingRate(nil), c.rates...)
		s.IsCalculatingShipping = false
		return s

	case selectRate:
		rate := c.rate
		s.SelectedRate = &rate
		return s

	case setTax:
		s.Tax = c.amount
		s.IsCalculatingTax = false
		return s

	case setLoading:
		switch c.flag {
		case flagValidatingCart:
			s.IsValidatingCart = c.value
		case flagCalculatingShipping:
			s.IsCalculatingShipping = c.value
		case flagCalculatingTax:
			s.IsCalculatingTax = c.value
		case flagSubmittingOrder:
			s.IsSubmittingOrder = c.value
		}
		return s

	case setErrors:
		s.Errors = c.errors
		return s

	case setOrderID:
		s.OrderID = c.orderID
		s.IsSubmittingOrder = false
		return s

	case reset:
		return initialState()

	default:
		return s
	}
}

func applyUpdate(addr commerce.Address, u AddressUpdate) commerce.Address {
	if u.FirstName != nil {
		addr.FirstName = *u.FirstName
	}
	if u.LastName != nil {
		addr.LastName = *u.LastName
	}
	if u.Email != nil {
		addr.Email = *u.Email
	}
	if u.Phone != nil {
		addr.Phone = *u.Phone
	}
	if u.Address1 != nil {
		addr.Address1 = *u.Address1
	}
	if u.Address2 != nil {
		addr.Address2 = *u.Address2
	}
	if u.City != nil {
		addr.City = *u.City
	}
	if u.State != nil {
		addr.State = *u.State
	}
	if u.ZipCode != nil {
		addr.ZipCode = *u.ZipCode
	}
	if u.Country != nil {
		addr.Country = *u.Country
	}
	return addr
}
