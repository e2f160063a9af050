// Package draftorder assembles storefront draft orders from product form submissions.
package draftorder

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/mattjoyce/shoprelay/internal/properties"
)

// TaxField is the form key carrying the tax amount to charge.
const TaxField = "properties[Y6 - Taxes à payer]"

// TaxTitle names the synthetic tax line item.
const TaxTitle = "Taxes"

// ErrInvalidForm wraps every input validation failure.
var ErrInvalidForm = errors.New("invalid order form")

// Request is the body of a draft order creation call.
type Request struct {
	LineItems []LineItem `json:"line_items"`
}

// LineItem is one entry of a draft order. Variant items reference a product
// variant; custom items carry their own title and price.
type LineItem struct {
	VariantID  string             `json:"variant_id,omitempty"`
	Title      string             `json:"title,omitempty"`
	Price      string             `json:"price,omitempty"`
	Taxable    *bool              `json:"taxable,omitempty"`
	Quantity   json.Number        `json:"quantity"`
	Properties []properties.Entry `json:"properties"`
}

// orderInput is the validated subset of top-level form fields.
type orderInput struct {
	ID       string `form:"id" validate:"required"`
	Quantity string `form:"quantity" validate:"required,number"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Use form tag names for field names in errors
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		return strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
	})
	return v
}

// Build turns a product form submission into a two-item draft order: the
// selected variant with its options, and a non-taxable "Taxes" item priced
// from TaxField with the tax-classified options.
func Build(form properties.Form) (Request, error) {
	in := orderInput{
		ID:       strings.TrimSpace(form.Get("id")),
		Quantity: strings.TrimSpace(form.Get("quantity")),
	}
	if err := validate.Struct(in); err != nil {
		return Request{}, fmt.Errorf("%w: %s", ErrInvalidForm, describe(err))
	}

	// "02" passes the digit check but is not a JSON number literal.
	quantity, err := strconv.Atoi(in.Quantity)
	if err != nil {
		return Request{}, fmt.Errorf("%w: quantity %q is out of range", ErrInvalidForm, in.Quantity)
	}

	price, err := taxPrice(form)
	if err != nil {
		return Request{}, err
	}

	// The tax amount is charged as the price; it is not repeated as an option.
	options := form.Without(TaxField)
	notTaxable := false

	return Request{
		LineItems: []LineItem{
			{
				VariantID:  in.ID,
				Quantity:   json.Number(strconv.Itoa(quantity)),
				Properties: properties.Extract(options, false),
			},
			{
				Title:      TaxTitle,
				Price:      price,
				Taxable:    &notTaxable,
				Quantity:   json.Number("1"),
				Properties: properties.Extract(options, true),
			},
		},
	}, nil
}

// taxPrice reads TaxField as a two-decimal amount. Absent or blank means 0.00.
func taxPrice(form properties.Form) (string, error) {
	raw := strings.TrimSpace(form.Get(TaxField))
	if raw == "" {
		return decimal.Zero.StringFixed(2), nil
	}
	// Accept a decimal comma as typed by French storefront customers.
	amount, err := decimal.NewFromString(strings.Replace(raw, ",", ".", 1))
	if err != nil {
		return "", fmt.Errorf("%w: tax amount %q is not a number", ErrInvalidForm, raw)
	}
	if amount.IsNegative() {
		return "", fmt.Errorf("%w: tax amount %q is negative", ErrInvalidForm, raw)
	}
	return amount.StringFixed(2), nil
}

func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		switch e.Tag() {
		case "required":
			msgs = append(msgs, e.Field()+" is required")
		case "number":
			msgs = append(msgs, e.Field()+" must be a whole number")
		default:
			msgs = append(msgs, e.Field()+" is invalid")
		}
	}
	return strings.Join(msgs, "; ")
}
