// Package checkout turns a cart and delivery details into the order message
// handed off to the store's chat line.
package checkout

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"attar-store/internal/domain"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var ErrEmptyCart = errors.New("cart is empty")

const (
	separator    = "-----------------------------"
	handoffBase  = "https://wa.me/"
	closingLine  = "Please confirm availability and payment details."
	defaultStore = "Darul Attar"
)

var validate = validator.New()

// DeliveryDetails are the customer fields collected at checkout
type DeliveryDetails struct {
	Name    string `json:"name" validate:"required"`
	Address string `json:"address" validate:"required"`
	Phone   string `json:"phone" validate:"required"`
}

// Trimmed returns the details with surrounding whitespace removed
func (d DeliveryDetails) Trimmed() DeliveryDetails {
	return DeliveryDetails{
		Name:    strings.TrimSpace(d.Name),
		Address: strings.TrimSpace(d.Address),
		Phone:   strings.TrimSpace(d.Phone),
	}
}

// FieldErrors flags each delivery field that failed validation
type FieldErrors struct {
	Name    bool `json:"name"`
	Address bool `json:"address"`
	Phone   bool `json:"phone"`
}

// Any reports whether at least one field is flagged
func (f FieldErrors) Any() bool {
	return f.Name || f.Address || f.Phone
}

// ValidationError is returned when delivery details are incomplete
type ValidationError struct {
	Fields FieldErrors
}

func (e *ValidationError) Error() string {
	var missing []string
	if e.Fields.Name {
		missing = append(missing, "name")
	}
	if e.Fields.Address {
		missing = append(missing, "address")
	}
	if e.Fields.Phone {
		missing = append(missing, "phone")
	}
	return "missing delivery details: " + strings.Join(missing, ", ")
}

// Validate trims the details and flags every blank field
func Validate(details DeliveryDetails) (DeliveryDetails, error) {
	trimmed := details.Trimmed()

	err := validate.Struct(trimmed)
	if err == nil {
		return trimmed, nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return trimmed, fmt.Errorf("failed to validate delivery details: %w", err)
	}

	var fields FieldErrors
	for _, fe := range verrs {
		switch fe.StructField() {
		case "Name":
			fields.Name = true
		case "Address":
			fields.Address = true
		case "Phone":
			fields.Phone = true
		}
	}
	return trimmed, &ValidationError{Fields: fields}
}

// Options customise the composed message
type Options struct {
	StoreName      string
	CurrencySymbol string
	Number         string
}

// DefaultOptions matches the store's own chat line
func DefaultOptions() Options {
	return Options{
		StoreName:      defaultStore,
		CurrencySymbol: "₹",
		Number:         "919578994377",
	}
}

// Compose builds the order message. Details are validated first; nothing is
// composed for incomplete details or an empty cart.
func Compose(lines []domain.LineItem, total decimal.Decimal, details DeliveryDetails, opts Options) (string, error) {
	details, err := Validate(details)
	if err != nil {
		return "", err
	}
	if len(lines) == 0 {
		return "", ErrEmptyCart
	}

	items := make([]string, len(lines))
	for i, item := range lines {
		items[i] = fmt.Sprintf("• %d x %s (%s) - %s%s",
			item.Quantity, item.Name, item.Size, opts.CurrencySymbol, item.Subtotal().StringFixed(2))
	}

	parts := []string{
		fmt.Sprintf("👋 *New Order Request - %s*", opts.StoreName),
		separator,
		"*Customer Details:*",
		"📝 Name: " + details.Name,
		"📍 Address: " + details.Address,
		"📞 Phone: " + details.Phone,
		separator,
		"*Order Summary:*",
		strings.Join(items, "\n"),
		separator,
		fmt.Sprintf("*Total Payable: %s%s*", opts.CurrencySymbol, total.StringFixed(2)),
		separator,
		closingLine,
	}
	return strings.Join(parts, "\n"), nil
}

// uriComponent restores the characters a URI component leaves unescaped
var uriComponent = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// EncodeMessage percent-encodes text as a URI component
func EncodeMessage(message string) string {
	return uriComponent.Replace(url.QueryEscape(message))
}

// HandoffURL is the chat link that opens a conversation pre-filled with message
func HandoffURL(number, message string) string {
	return handoffBase + number + "?text=" + EncodeMessage(message)
}

// Handoff is a composed order ready to be opened in the chat app
type Handoff struct {
	Message string `json:"message"`
	URL     string `json:"url"`
}

// Prepare composes the message for a cart and wraps it in a handoff link
func Prepare(lines []domain.LineItem, total decimal.Decimal, details DeliveryDetails, opts Options) (Handoff, error) {
	message, err := Compose(lines, total, details, opts)
	if err != nil {
		return Handoff{}, err
	}
	return Handoff{Message: message, URL: HandoffURL(opts.Number, message)}, nil
}
