// Package signature implements the request signing scheme of the hosted
// checkout API: every call carries an HMAC-SHA256 signature over the
// requesting host, HTTP method, timestamp, nonce, and key id, plus a keyed
// hash of the request body. The same primitives verify webhook deliveries.
package signature

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"time"
)

// Header names attached to every signed request.
const (
	HeaderKeyID       = "key-id"
	HeaderTimestamp   = "timestamp"
	HeaderNonce       = "nonce"
	HeaderSignature   = "signature"
	HeaderBodyHash    = "body-hash"
	HeaderContentType = "content-type"
)

const (
	nonceAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	nonceLength   = 13

	contentTypeJSON = "application/json"
)

// Signer produces the authentication headers for a single API request.
type Signer struct {
	KeyID     string
	SecretKey string

	// Clock overrides the time source. Nil means time.Now.
	Clock func() time.Time
	// Nonce overrides nonce generation. Nil means a random draw from
	// [a-z0-9]{13} via crypto/rand.
	Nonce func() (string, error)
}

// Sign returns the headers authenticating a request of the given method to
// the given host carrying body. An empty body is hashed as the empty string.
//
// The signing string is the literal concatenation host+method+timestamp+
// nonce+keyId with no delimiters; both the signature and the body hash are
// lowercase hex HMAC-SHA256 digests keyed with the secret key.
func (s *Signer) Sign(host, method string, body []byte) (map[string]string, error) {
	if s.KeyID == "" || s.SecretKey == "" {
		return nil, errors.New("signature: signer requires a key id and a secret key")
	}
	nonce, err := s.nonce()
	if err != nil {
		return nil, fmt.Errorf("signature: generate nonce: %w", err)
	}
	timestamp := strconv.FormatInt(s.now().Unix(), 10)
	signingString := host + method + timestamp + nonce + s.KeyID
	return map[string]string{
		HeaderKeyID:       s.KeyID,
		HeaderTimestamp:   timestamp,
		HeaderNonce:       nonce,
		HeaderSignature:   hmacHex([]byte(s.SecretKey), []byte(signingString)),
		HeaderBodyHash:    hmacHex([]byte(s.SecretKey), body),
		HeaderContentType: contentTypeJSON,
	}, nil
}

func (s *Signer) now() time.Time {
	if s.Clock != nil {
		return s.Clock()
	}
	return time.Now()
}

func (s *Signer) nonce() (string, error) {
	if s.Nonce != nil {
		return s.Nonce()
	}
	return randomNonce()
}

func randomNonce() (string, error) {
	buf := make([]byte, nonceLength)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i, b := range buf {
		buf[i] = nonceAlphabet[int(b)%len(nonceAlphabet)]
	}
	return string(buf), nil
}

func hmacHex(key, payload []byte) string {
	mac := hmac.New(sha256.New, key)
	_, _ = mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

// Verifier validates the authenticity of webhook payloads.
type Verifier interface {
	Verify(payload []byte, signature string) error
}

// VerifierFunc lifts bare functions into [Verifier].
type VerifierFunc func(payload []byte, signature string) error

// Verify delegates to the wrapped function.
func (f VerifierFunc) Verify(payload []byte, signature string) error {
	return f(payload, signature)
}

// HMACVerifier validates signatures produced by taking the lowercase hex
// HMAC-SHA256 of the raw payload.
type HMACVerifier struct {
	Key []byte
}

// Verify implements [Verifier] by recomputing the expected HMAC digest.
func (v HMACVerifier) Verify(payload []byte, signature string) error {
	if len(v.Key) == 0 {
		return errors.New("signature: HMACVerifier requires a non-empty key")
	}
	mac := hmac.New(sha256.New, v.Key)
	if _, err := mac.Write(payload); err != nil {
		return fmt.Errorf("signature: compute signature: %w", err)
	}
	decoded, err := hex.DecodeString(signature)
	if err != nil {
		return fmt.Errorf("signature: decode signature: %w", err)
	}
	if !hmac.Equal(decoded, mac.Sum(nil)) {
		return errors.New("signature: invalid signature")
	}
	return nil
}

// SignPayload returns the lowercase hex HMAC-SHA256 digest of payload, the
// emitting counterpart of [HMACVerifier] for webhook senders and fixtures.
func SignPayload(key, payload []byte) string {
	return hmacHex(key, payload)
}
