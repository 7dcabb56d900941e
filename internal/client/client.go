// Package client talks to a running study plan gateway.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/alexanderramin/studyplan/internal/contract"
	"github.com/alexanderramin/studyplan/internal/domain"
	"github.com/alexanderramin/studyplan/internal/intelligence"
)

// DefaultBaseURL is the gateway address used when none is configured.
const DefaultBaseURL = "http://localhost:3001"

// maxResponseBytes bounds how much of a gateway response is read.
const maxResponseBytes = 8 << 20

// TransportError reports that the gateway itself could not be reached or
// answered with something other than a plan result.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Client calls the gateway's HTTP API.
type Client struct {
	baseURL  string
	http     *http.Client
	messages intelligence.Messages
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithMessages sets the locale strings used for transport failures.
func WithMessages(m intelligence.Messages) Option {
	return func(c *Client) { c.messages = m }
}

// New creates a Client for the gateway at baseURL.
func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     &http.Client{Transport: newTransport()},
		messages: intelligence.MessagesFor(intelligence.LocaleEnglish),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// newTransport clones the default transport and only shortens the dial
// timeout.
func newTransport() *http.Transport {
	tr := http.DefaultTransport.(*http.Transport).Clone()
	tr.DialContext = (&net.Dialer{
		Timeout:   5 * time.Second,
		KeepAlive: 30 * time.Second,
	}).DialContext
	return tr
}

// Messages returns the locale strings the client reports failures with.
func (c *Client) Messages() intelligence.Messages { return c.messages }

// FetchMessage calls GET /api/message and returns the liveness message.
func (c *Client) FetchMessage(ctx context.Context) (string, error) {
	status, body, err := c.do(ctx, http.MethodGet, "/api/message", nil)
	if err != nil {
		return "", &TransportError{Op: "message", Err: err}
	}
	if status != http.StatusOK {
		return "", &TransportError{Op: "message", Err: fmt.Errorf("gateway returned status %d", status)}
	}

	var resp contract.MessageResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", &TransportError{Op: "message", Err: fmt.Errorf("decoding response: %w", err)}
	}
	return resp.Message, nil
}

// GeneratePlan submits req to POST /api/plan. A gateway-reported error is
// returned as a failed PlanResult with a nil error; the error return is
// always a *TransportError.
func (c *Client) GeneratePlan(ctx context.Context, req contract.PlanRequest) (domain.PlanResult, error) {
	data, err := json.Marshal(req)
	if err != nil {
		return domain.PlanResult{}, &TransportError{Op: "plan", Err: fmt.Errorf("marshaling request: %w", err)}
	}

	status, body, err := c.do(ctx, http.MethodPost, "/api/plan", data)
	if err != nil {
		return domain.PlanResult{}, &TransportError{Op: "plan", Err: err}
	}

	result, ok := contract.DecodePlanResult(body)
	if !ok {
		return domain.PlanResult{}, &TransportError{Op: "plan", Err: fmt.Errorf("unexpected response with status %d", status)}
	}
	return result, nil
}

// Submit is GeneratePlan with transport failures folded into a failed
// PlanResult carrying the local generic message.
func (c *Client) Submit(ctx context.Context, req contract.PlanRequest) domain.PlanResult {
	result, err := c.GeneratePlan(ctx, req)
	if err != nil {
		return domain.NewPlanFailure(c.messages.TransportFailed)
	}
	return result
}

func (c *Client) do(ctx context.Context, method, path string, payload []byte) (int, []byte, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	httpReq, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return 0, nil, fmt.Errorf("creating request: %w", err)
	}
	if payload != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	httpReq.Header.Set("Accept", "application/json")

	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		return 0, nil, err
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseBytes))
	if err != nil {
		return 0, nil, fmt.Errorf("reading response: %w", err)
	}
	return httpResp.StatusCode, respBody, nil
}

// IsTransportError reports whether err is a *TransportError.
func IsTransportError(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
