package checkout

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"sync"
)

// failureReason is the fixed reason attached to error redirects; the hosted
// page does not propagate a server-side reason to the client.
const failureReason = "Payment failed"

// defaultSuccessStatus fills in for success redirects lacking a status
// query parameter.
const defaultSuccessStatus = "completed"

// UIState is the sealed set of presentation states a [Flow] moves through.
// Exactly one state is active at a time.
type UIState interface {
	isUIState()
}

// StateIdle is the initial state; nothing to render.
type StateIdle struct{}

// StateLoading indicates session creation is in flight.
type StateLoading struct{}

// StateReady carries the hosted page URL to present to the buyer.
type StateReady struct {
	URL string
}

// StateCompleted is terminal for the attempt; Result says how it ended.
type StateCompleted struct {
	Result Result
}

// StateError indicates session creation failed; the host renders Message
// with retry and cancel actions.
type StateError struct {
	Err     error
	Message string
}

func (StateIdle) isUIState()      {}
func (StateLoading) isUIState()   {}
func (StateReady) isUIState()     {}
func (StateCompleted) isUIState() {}
func (StateError) isUIState()     {}

// Result is the sealed set of terminal checkout outcomes.
type Result interface {
	isResult()
}

// ResultSuccess reports a settled payment.
type ResultSuccess struct {
	RequestID string
	Status    string
}

// ResultFailed reports a payment the hosted page redirected onto the error
// path. RequestID may be empty when the redirect lacks the parameter.
type ResultFailed struct {
	RequestID string
	Reason    string
}

// ResultCancelled reports that the buyer abandoned the checkout.
type ResultCancelled struct{}

// ResultError reports that the session could not be created.
type ResultError struct {
	Err     error
	Message string
}

func (ResultSuccess) isResult()   {}
func (ResultFailed) isResult()    {}
func (ResultCancelled) isResult() {}
func (ResultError) isResult()     {}

// FlowOption customizes a [Flow].
type FlowOption func(*Flow)

// OnResult registers the callback receiving the terminal outcome. It fires
// at most once per checkout attempt, on the goroutine that resolved the
// attempt.
func OnResult(fn func(Result)) FlowOption {
	return func(f *Flow) {
		f.onResult = fn
	}
}

// Flow drives one checkout attempt through
// Idle → Loading → Ready → Completed, or Loading → Error with manual retry.
// All state lives in a single mutex-guarded cell: the flow is the only
// writer, the presentation layer reads via [Flow.State] and [Flow.Updates].
type Flow struct {
	client *Client

	mu         sync.Mutex
	state      UIState
	lastReq    *CheckoutSessionRequest
	attempt    uint64
	resultSent bool
	onResult   func(Result)
	watchers   []chan UIState
}

// NewFlow builds a flow in the Idle state.
func NewFlow(client *Client, opts ...FlowOption) *Flow {
	if client == nil {
		panic("checkout: flow requires a client")
	}
	f := &Flow{
		client: client,
		state:  StateIdle{},
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(f)
	}
	return f
}

// State returns the current presentation state.
func (f *Flow) State() UIState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Updates returns a channel receiving every state transition. The channel is
// buffered; a receiver that falls behind misses intermediate states and
// should fall back to [Flow.State] for the latest.
func (f *Flow) Updates() <-chan UIState {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch := make(chan UIState, 16)
	f.watchers = append(f.watchers, ch)
	return ch
}

// Start begins a fresh checkout attempt: the flow transitions to Loading and
// session creation runs on its own goroutine so callers never block. Starting
// over a Completed, Error, or Idle flow implicitly resets it; starting while
// a previous attempt is still loading returns [ErrAttemptInFlight].
func (f *Flow) Start(ctx context.Context, req CheckoutSessionRequest) error {
	f.mu.Lock()
	if _, loading := f.state.(StateLoading); loading {
		f.mu.Unlock()
		return ErrAttemptInFlight
	}
	f.attempt++
	attempt := f.attempt
	r := req
	f.lastReq = &r
	f.resultSent = false
	f.set(StateLoading{})
	f.mu.Unlock()

	go f.createSession(ctx, attempt, r)
	return nil
}

// Retry repeats the last failed attempt. Only valid in the Error state.
func (f *Flow) Retry(ctx context.Context) error {
	f.mu.Lock()
	_, failed := f.state.(StateError)
	if !failed || f.lastReq == nil {
		f.mu.Unlock()
		return ErrNothingToRetry
	}
	f.attempt++
	attempt := f.attempt
	req := *f.lastReq
	f.resultSent = false
	f.set(StateLoading{})
	f.mu.Unlock()

	go f.createSession(ctx, attempt, req)
	return nil
}

func (f *Flow) createSession(ctx context.Context, attempt uint64, req CheckoutSessionRequest) {
	resp, err := f.client.CreateSession(ctx, req)

	f.mu.Lock()
	if f.attempt != attempt {
		// Superseded by cancel, reset, or a newer attempt.
		f.mu.Unlock()
		return
	}
	if err != nil {
		msg := errorMessage(err)
		f.set(StateError{Err: err, Message: msg})
		notify := f.consumeResult(ResultError{Err: err, Message: msg})
		f.mu.Unlock()
		notify()
		return
	}
	f.set(StateReady{URL: resp.URL})
	f.mu.Unlock()
}

// HandleNavigation feeds a URL the embedded browser navigated to into the
// flow and reports whether it resolved the attempt. Only meaningful in the
// Ready state; intermediate hosted-page navigations are ignored.
//
// Classification is a deliberate unanchored substring search over the whole
// URL: "/success" with a requestId query parameter completes the attempt
// successfully, "/error" completes it as failed. The API does not specify
// path-anchored matching, so a matching substring anywhere counts.
func (f *Flow) HandleNavigation(rawURL string) bool {
	f.mu.Lock()
	if _, ready := f.state.(StateReady); !ready {
		f.mu.Unlock()
		return false
	}
	res, ok := classifyNavigation(rawURL)
	if !ok {
		f.mu.Unlock()
		return false
	}
	f.attempt++
	f.set(StateCompleted{Result: res})
	notify := f.consumeResult(res)
	f.mu.Unlock()
	notify()
	return true
}

// HandleCancel forces Completed(Cancelled) from any non-terminal state,
// abandoning whatever the flow was doing. An in-flight session creation is
// left to finish on its own and its outcome dropped.
func (f *Flow) HandleCancel() {
	f.mu.Lock()
	if _, done := f.state.(StateCompleted); done {
		f.mu.Unlock()
		return
	}
	f.attempt++
	res := ResultCancelled{}
	f.set(StateCompleted{Result: res})
	notify := f.consumeResult(res)
	f.mu.Unlock()
	notify()
}

// Reset returns the flow to Idle, clearing the cached request and URL.
func (f *Flow) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.attempt++
	f.lastReq = nil
	f.resultSent = false
	f.set(StateIdle{})
}

// set records the state and broadcasts it. Callers hold f.mu.
func (f *Flow) set(state UIState) {
	f.state = state
	for _, ch := range f.watchers {
		select {
		case ch <- state:
		default:
		}
	}
}

// consumeResult claims the attempt's one result delivery and returns the
// callback to run after the lock is released. Callers hold f.mu.
func (f *Flow) consumeResult(res Result) func() {
	if f.resultSent || f.onResult == nil {
		f.resultSent = true
		return func() {}
	}
	f.resultSent = true
	cb := f.onResult
	return func() { cb(res) }
}

func classifyNavigation(rawURL string) (Result, bool) {
	requestID, status := navigationParams(rawURL)
	if strings.Contains(rawURL, "/success") && requestID != "" {
		if status == "" {
			status = defaultSuccessStatus
		}
		return ResultSuccess{RequestID: requestID, Status: status}, true
	}
	if strings.Contains(rawURL, "/error") {
		return ResultFailed{RequestID: requestID, Reason: failureReason}, true
	}
	return nil, false
}

func navigationParams(rawURL string) (requestID, status string) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", ""
	}
	query := parsed.Query()
	return query.Get("requestId"), query.Get("status")
}

func errorMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			return apiErr.Message
		}
		return "The checkout service rejected the request"
	}
	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		return "The checkout service returned an unexpected response"
	}
	return "Unable to reach the checkout service"
}
