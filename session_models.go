package checkout

import (
	"encoding/json"

	"github.com/google/uuid"
)

// CheckoutSessionRequest describes the payment a hosted checkout session is
// created for. Amounts are integer minor units of Currency.
type CheckoutSessionRequest struct {
	// Unique caller-supplied identifier correlating the session, redirects,
	// and webhook notifications. See [NewRequestID].
	RequestID string `json:"requestId" validate:"required"`
	// Lowercase 3-letter ISO-4217 code.
	Currency string `json:"currency" validate:"required,currency"`
	// Total amount in minor units.
	Amount int64 `json:"amount" validate:"required,gt=0"`
	// Endpoint notified once the payment settles.
	WebhookURL *string `json:"webhookUrl,omitempty" validate:"omitempty,http_url"`
	// Where the hosted page redirects the buyer on success.
	SuccessRedirectURL *string `json:"successRedirectUrl,omitempty" validate:"omitempty,http_url"`
	// Where the hosted page redirects the buyer on failure.
	ErrorRedirectURL *string `json:"errorRedirectUrl,omitempty" validate:"omitempty,http_url"`
	// Line items displayed on the hosted page.
	OrderDetails []OrderDetail `json:"orderDetails" validate:"required,min=1,dive"`
	// Optional shipping information.
	DeliveryDetails *DeliveryDetails `json:"deliveryDetails,omitempty" validate:"omitempty"`
}

// OrderDetail is a single line item of the order.
type OrderDetail struct {
	// Display name of the item.
	Name string `json:"name" validate:"required"`
	// Number of units.
	Quantity int `json:"quantity" validate:"required,gt=0"`
	// Unit price in minor units.
	Amount int64 `json:"amount" validate:"required,gt=0"`
	// Optional thumbnail rendered next to the item.
	ImageURL *string `json:"imageUrl,omitempty" validate:"omitempty,http_url"`
}

// DeliveryDetails carries the buyer's shipping information.
type DeliveryDetails struct {
	Name        string  `json:"name" validate:"required"`
	Email       string  `json:"email" validate:"required,email"`
	PhoneNumber *string `json:"phoneNumber,omitempty"`
	Address     Address `json:"address" validate:"required"`
}

// Address is a postal address attached to delivery details.
type Address struct {
	LineOne    string  `json:"lineOne" validate:"required"`
	LineTwo    *string `json:"lineTwo,omitempty"`
	City       string  `json:"city" validate:"required"`
	PostalCode string  `json:"postalCode" validate:"required"`
	Country    string  `json:"country" validate:"required,len=2,uppercase"`
}

// CheckoutSessionResponse is the API's answer to a session creation call.
type CheckoutSessionResponse struct {
	// Server-assigned session identifier.
	SessionID string `json:"sessionId"`
	// Echo of the caller-supplied request identifier.
	RequestID string `json:"requestId"`
	// Hosted checkout page URL to present to the buyer.
	URL string `json:"url"`
	// Amount restated by the server as a decimal.
	Amount json.Number `json:"amount"`
	// Settlement currency.
	Currency string `json:"currency"`
	// Crypto asset the buyer pays with.
	Coin string `json:"coin"`
}

// NewRequestID returns a fresh request identifier. Request ids only need to
// be unique per account; any caller-generated scheme works equally well.
func NewRequestID() string {
	return "req_" + uuid.NewString()
}
