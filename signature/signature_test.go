package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"testing"
	"time"
)

var hexDigest = regexp.MustCompile(`^[0-9a-f]{64}$`)

func fixedSigner(nonce string) *Signer {
	return &Signer{
		KeyID:     "key_123",
		SecretKey: "super-secret",
		Clock: func() time.Time {
			return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		},
		Nonce: func() (string, error) {
			return nonce, nil
		},
	}
}

func hmacFixture(key, payload string) string {
	mac := hmac.New(sha256.New, []byte(key))
	_, _ = mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestSignKnownVector(t *testing.T) {
	t.Parallel()

	s := fixedSigner("abc1234567890")
	headers, err := s.Sign("https://api.sandbox.coinpath.io", "POST", []byte(`{"a":1}`))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	timestamp := headers[HeaderTimestamp]
	if want := "1748779200"; timestamp != want {
		t.Fatalf("expected timestamp %s got %s", want, timestamp)
	}
	signingString := "https://api.sandbox.coinpath.io" + "POST" + timestamp + "abc1234567890" + "key_123"
	if want, got := hmacFixture("super-secret", signingString), headers[HeaderSignature]; want != got {
		t.Fatalf("expected signature %s got %s", want, got)
	}
	if want, got := hmacFixture("super-secret", `{"a":1}`), headers[HeaderBodyHash]; want != got {
		t.Fatalf("expected body hash %s got %s", want, got)
	}
	if want, got := "key_123", headers[HeaderKeyID]; want != got {
		t.Fatalf("expected key id %s got %s", want, got)
	}
	if want, got := "application/json", headers[HeaderContentType]; want != got {
		t.Fatalf("expected content type %s got %s", want, got)
	}
}

func TestSignBodyHashDeterministicSignatureNot(t *testing.T) {
	t.Parallel()

	body := []byte(`{"requestId":"req-1","amount":100}`)
	s := &Signer{KeyID: "key_123", SecretKey: "super-secret"}

	first, err := s.Sign("https://api.sandbox.coinpath.io", "POST", body)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	second, err := s.Sign("https://api.sandbox.coinpath.io", "POST", body)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if first[HeaderBodyHash] != second[HeaderBodyHash] {
		t.Fatalf("body hash must be deterministic: %s vs %s", first[HeaderBodyHash], second[HeaderBodyHash])
	}
	if first[HeaderSignature] == second[HeaderSignature] {
		t.Fatalf("signature must vary across calls, got %s twice", first[HeaderSignature])
	}
}

func TestSignDigestShape(t *testing.T) {
	t.Parallel()

	s := &Signer{KeyID: "key_123", SecretKey: "super-secret"}
	headers, err := s.Sign("https://api.sandbox.coinpath.io", "POST", nil)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if !hexDigest.MatchString(headers[HeaderSignature]) {
		t.Fatalf("signature is not a 64-char lowercase hex digest: %q", headers[HeaderSignature])
	}
	if !hexDigest.MatchString(headers[HeaderBodyHash]) {
		t.Fatalf("body hash is not a 64-char lowercase hex digest: %q", headers[HeaderBodyHash])
	}
}

func TestSignEmptyBodyHashesEmptyString(t *testing.T) {
	t.Parallel()

	s := fixedSigner("abc1234567890")
	headers, err := s.Sign("https://api.sandbox.coinpath.io", "POST", nil)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if want, got := hmacFixture("super-secret", ""), headers[HeaderBodyHash]; want != got {
		t.Fatalf("expected empty-body hash %s got %s", want, got)
	}
}

func TestSignRequiresCredentials(t *testing.T) {
	t.Parallel()

	s := &Signer{}
	if _, err := s.Sign("https://api.sandbox.coinpath.io", "POST", nil); err == nil {
		t.Fatal("expected error for signer without credentials")
	}
}

func TestRandomNonceShapeAndDistinctness(t *testing.T) {
	t.Parallel()

	pattern := regexp.MustCompile(`^[a-z0-9]{13}$`)
	seen := make(map[string]struct{}, 100)
	for i := 0; i < 100; i++ {
		nonce, err := randomNonce()
		if err != nil {
			t.Fatalf("nonce: %v", err)
		}
		if !pattern.MatchString(nonce) {
			t.Fatalf("nonce %q does not match ^[a-z0-9]{13}$", nonce)
		}
		if _, dup := seen[nonce]; dup {
			t.Fatalf("nonce %q repeated", nonce)
		}
		seen[nonce] = struct{}{}
	}
}

func TestHMACVerifier(t *testing.T) {
	t.Parallel()

	key := []byte("webhook-secret")
	payload := []byte(`{"type":"payment_completed"}`)
	sig := SignPayload(key, payload)

	v := HMACVerifier{Key: key}
	if err := v.Verify(payload, sig); err != nil {
		t.Fatalf("expected valid signature, got %v", err)
	}
	if err := v.Verify([]byte(`{"type":"tampered"}`), sig); err == nil {
		t.Fatal("expected tampered payload to fail verification")
	}
	if err := v.Verify(payload, "not-hex"); err == nil {
		t.Fatal("expected malformed signature to fail verification")
	}
	if err := (HMACVerifier{}).Verify(payload, sig); err == nil {
		t.Fatal("expected empty key to fail verification")
	}
}
