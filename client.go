package checkout

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	canonicaljson "github.com/gibson042/canonicaljson-go"
	"github.com/rs/zerolog"

	"github.com/coinpath/checkout-go/signature"
)

const (
	sessionPath    = "/api/v1/hosted-checkout"
	defaultTimeout = 30 * time.Second

	errorBodyLimit = 4096
)

// Client creates hosted checkout sessions. Construct it with [NewClient];
// the zero value fails every call with [ErrNotConfigured]. A Client is safe
// for concurrent use.
type Client struct {
	cfg        Config
	httpClient *http.Client
	signer     *signature.Signer
	log        zerolog.Logger
}

// NewClient validates cfg and builds a ready-to-use client. Initialization
// errors are returned eagerly so misconfiguration surfaces at construction,
// not on the first payment.
func NewClient(cfg Config, opts ...Option) (*Client, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	c := &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: defaultTimeout},
		signer: &signature.Signer{
			KeyID:     cfg.KeyID,
			SecretKey: cfg.SecretKey,
		},
		log: zerolog.Nop(),
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(c)
	}
	return c, nil
}

// CreateSession serializes req, signs it, and performs a single POST to the
// hosted checkout endpoint. There is no retry and no caching; every call
// creates a new session server-side.
//
// Non-2xx responses surface as [*APIError], malformed 2xx bodies as
// [*ParseError], and transport failures as wrapped errors from the HTTP
// client.
func (c *Client) CreateSession(ctx context.Context, req CheckoutSessionRequest) (*CheckoutSessionResponse, error) {
	if c == nil || c.signer == nil {
		return nil, ErrNotConfigured
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	body, err := canonicaljson.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("checkout: marshal session request: %w", err)
	}
	host, err := c.cfg.host()
	if err != nil {
		return nil, err
	}
	headers, err := c.signer.Sign(host, http.MethodPost, body)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.baseURL()+sessionPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("checkout: build session request: %w", err)
	}
	for name, value := range headers {
		httpReq.Header.Set(name, value)
	}

	c.log.Debug().Str("requestId", req.RequestID).Str("currency", req.Currency).Int64("amount", req.Amount).Msg("creating checkout session")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("checkout: create session: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		apiErr := readAPIError(resp)
		c.log.Debug().Str("requestId", req.RequestID).Int("status", apiErr.StatusCode).Msg("checkout session rejected")
		return nil, apiErr
	}

	var session CheckoutSessionResponse
	if err := decodeJSON(resp.Body, &session); err != nil {
		return nil, &ParseError{Err: err}
	}
	if session.SessionID == "" || session.URL == "" {
		return nil, &ParseError{Err: errors.New("response missing sessionId or url")}
	}

	c.log.Debug().Str("requestId", req.RequestID).Str("sessionId", session.SessionID).Msg("checkout session created")
	return &session, nil
}

// readAPIError drains a non-2xx response into an [*APIError], picking up the
// structured error payload when the body carries one.
func readAPIError(resp *http.Response) *APIError {
	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyLimit))
	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		Body:       string(bytes.TrimSpace(snippet)),
	}
	var payload struct {
		Type    ErrorType `json:"type"`
		Message string    `json:"message"`
	}
	if err := json.Unmarshal(snippet, &payload); err == nil {
		apiErr.Type = payload.Type
		apiErr.Message = payload.Message
	}
	return apiErr
}
