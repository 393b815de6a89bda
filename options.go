package checkout

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// Option customizes client behavior.
type Option func(*Client)

// WithHTTPClient swaps the underlying HTTP client. The caller owns timeout
// configuration when overriding; the default client uses a 30 second
// timeout for the whole exchange.
func WithHTTPClient(hc *http.Client) Option {
	if hc == nil {
		panic("checkout: http client must not be nil")
	}
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger attaches a zerolog logger for request and outcome logs. The
// client is silent without one.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) {
		c.log = log
	}
}

// withClock provides deterministic signing timestamps in tests.
func withClock(fn func() time.Time) Option {
	return func(c *Client) {
		c.signer.Clock = fn
	}
}

// withNonce provides deterministic nonces in tests.
func withNonce(fn func() (string, error)) Option {
	return func(c *Client) {
		c.signer.Nonce = fn
	}
}
