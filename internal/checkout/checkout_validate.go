package checkout

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"go-storefront/internal/commerce"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// shippingAddressRules mirrors the fields an order needs before shipping
// can be quoted. Phone, address2 and country are optional.
type shippingAddressRules struct {
	FirstName string `validate:"required"`
	LastName  string `validate:"required"`
	Email     string `validate:"required,email"`
	Address1  string `validate:"required"`
	City      string `validate:"required"`
	State     string `validate:"required"`
	ZipCode   string `validate:"required"`
}

var addressFieldMessages = map[string]struct {
	key      string
	required string
	invalid  string
}{
	"FirstName": {key: "firstName", required: "First name is required"},
	"LastName":  {key: "lastName", required: "Last name is required"},
	"Email":     {key: "email", required: "Email is required", invalid: "Invalid email address"},
	"Address1":  {key: "address1", required: "Address is required"},
	"City":      {key: "city", required: "City is required"},
	"State":     {key: "state", required: "State is required"},
	"ZipCode":   {key: "zipCode", required: "ZIP code is required"},
}

// ValidateShippingAddress returns a field-keyed message map, empty when the
// address is acceptable. Whitespace-only values count as missing.
func ValidateShippingAddress(addr commerce.Address) map[string]string {
	rules := shippingAddressRules{
		FirstName: strings.TrimSpace(addr.FirstName),
		LastName:  strings.TrimSpace(addr.LastName),
		Email:     strings.TrimSpace(addr.Email),
		Address1:  strings.TrimSpace(addr.Address1),
		City:      strings.TrimSpace(addr.City),
		State:     strings.TrimSpace(addr.State),
		ZipCode:   strings.TrimSpace(addr.ZipCode),
	}

	errors := map[string]string{}
	err := validate.Struct(rules)
	if err == nil {
		return errors
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		errors["address"] = "Invalid shipping address"
		return errors
	}

	for _, fe := range verrs {
		msg, known := addressFieldMessages[fe.Field()]
		if !known {
			continue
		}
		if fe.Tag() == "required" {
			errors[msg.key] = msg.required
		} else if msg.invalid != "" {
			errors[msg.key] = msg.invalid
		} else {
			errors[msg.key] = msg.required
		}
	}
	return errors
}
