package checkout

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/oapi-codegen/runtime"

	"github.com/coinpath/checkout-go/signature"
)

// WebhookSignatureHeader carries the hex HMAC-SHA256 digest of the delivery
// body, keyed with the account's secret key.
const WebhookSignatureHeader = "signature"

// WebhookEventType enumerates the payment notifications delivered to the
// webhookUrl registered on a session.
type WebhookEventType string

const (
	WebhookEventTypePaymentCompleted WebhookEventType = "payment_completed"
	WebhookEventTypePaymentFailed    WebhookEventType = "payment_failed"
	WebhookEventTypePaymentExpired   WebhookEventType = "payment_expired"
)

// WebhookEvent is one webhook delivery.
type WebhookEvent struct {
	Type WebhookEventType `json:"type"`
	Data WebhookPayload   `json:"data"`
}

// WebhookPayload holds the event data. Every event carries the
// [PaymentUpdate] core shape; settlement providers may extend it with
// additional fields, which survive round-trips untouched.
type WebhookPayload struct {
	union json.RawMessage
}

// PaymentUpdate is the core payload shape shared by all payment events.
type PaymentUpdate struct {
	SessionID string      `json:"sessionId"`
	RequestID string      `json:"requestId"`
	Status    string      `json:"status"`
	Amount    json.Number `json:"amount,omitempty"`
	Currency  string      `json:"currency,omitempty"`
	Coin      string      `json:"coin,omitempty"`
}

// AsPaymentUpdate returns the payload data as a PaymentUpdate.
func (t WebhookPayload) AsPaymentUpdate() (PaymentUpdate, error) {
	var body PaymentUpdate
	err := json.Unmarshal(t.union, &body)
	return body, err
}

// FromPaymentUpdate overwrites any payload data with the provided PaymentUpdate.
func (t *WebhookPayload) FromPaymentUpdate(v PaymentUpdate) error {
	b, err := json.Marshal(v)
	t.union = b
	return err
}

// MergePaymentUpdate performs a merge with any existing payload data, using
// the provided PaymentUpdate.
func (t *WebhookPayload) MergePaymentUpdate(v PaymentUpdate) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}

	merged, err := runtime.JSONMerge(t.union, b)
	t.union = merged
	return err
}

// MarshalJSON serializes the underlying payload data.
func (t WebhookPayload) MarshalJSON() ([]byte, error) {
	return t.union.MarshalJSON()
}

// UnmarshalJSON loads the raw payload data.
func (t *WebhookPayload) UnmarshalJSON(b []byte) error {
	return t.union.UnmarshalJSON(b)
}

// ParseWebhook verifies sig against payload using the account's secret key
// and decodes the delivery. It never accepts an unverified payload; handlers
// should respond 401 when the returned error wraps a signature failure.
func ParseWebhook(payload []byte, sig string, secretKey []byte) (*WebhookEvent, error) {
	verifier := signature.HMACVerifier{Key: secretKey}
	if err := verifier.Verify(payload, sig); err != nil {
		return nil, fmt.Errorf("checkout: verify webhook: %w", err)
	}
	var event WebhookEvent
	if err := decodeJSONStrict(bytes.NewReader(payload), &event); err != nil {
		return nil, fmt.Errorf("checkout: decode webhook: %w", err)
	}
	switch event.Type {
	case WebhookEventTypePaymentCompleted, WebhookEventTypePaymentFailed, WebhookEventTypePaymentExpired:
	default:
		return nil, fmt.Errorf("checkout: unknown webhook event type %q", event.Type)
	}
	return &event, nil
}
