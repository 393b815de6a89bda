// Package checkout is the Go client SDK for the CoinPath hosted checkout
// API. It creates signed checkout sessions, drives the checkout flow state
// machine that host applications render against, and consumes the webhook
// notifications the platform delivers once a payment settles.
//
// # Sessions
//
// Build a [Client] with [NewClient] (or [ConfigFromEnv] for environment
// based configuration) and call [Client.CreateSession] to obtain the hosted
// page URL. Every request is signed with the account's secret key; the
// signing scheme lives in the signature subpackage.
//
// # Checkout flow
//
// A [Flow] wraps one checkout attempt: it moves through
// Idle → Loading → Ready → Completed (or Error), publishes every state via
// [Flow.Updates], and invokes the result callback exactly once per attempt.
// Feed the URLs the embedded browser navigates to into
// [Flow.HandleNavigation] so redirects back from the hosted page resolve the
// attempt.
//
// # Webhooks
//
// [ParseWebhook] verifies the delivery signature and decodes the event
// payload; see [WebhookEvent] and [PaymentUpdate].
package checkout
