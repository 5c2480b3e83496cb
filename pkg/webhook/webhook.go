// Package webhook delivers entity lifecycle events to the HTTP endpoints
// registered for them.
package webhook

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/taskmill/taskmill/pkg/config"
	"github.com/taskmill/taskmill/pkg/version"
)

// Default headers sent with every delivery.
const (
	EventHeader    = "X-Taskmill-Event"
	DeliveryHeader = "X-Taskmill-Delivery"
)

// DefaultMaxResponseBytes caps the response body kept from a delivery.
const DefaultMaxResponseBytes int64 = 64 << 10

// Fallback bounds used when a caller passes no timeout. A delivery never
// runs without a deadline.
const (
	DefaultTimeout     = 10 * time.Second
	DefaultTestTimeout = 5 * time.Second
)

// DeliveryError is a delivery that got no HTTP response.
type DeliveryError struct {
	URL string
	Err error
}

// Error implements error.
func (e *DeliveryError) Error() string {
	return fmt.Sprintf("delivery to %s failed: %v", e.URL, e.Err)
}

// Unwrap returns the underlying transport error.
func (e *DeliveryError) Unwrap() error {
	return e.Err
}

// Response is what came back from a delivery.
type Response struct {
	DeliveryID string
	StatusCode int
	Body       string
	Duration   time.Duration
}

// Sender posts signed payloads to webhooks.
type Sender struct {
	client           *http.Client
	userAgent        string
	maxResponseBytes int64
	blockPrivate     bool
}

// NewSender returns a Sender configured by cfg.
func NewSender(cfg config.WebhookConfig) *Sender {
	dialer := &net.Dialer{
		Timeout:   10 * time.Second,
		KeepAlive: 30 * time.Second,
	}
	if cfg.BlockPrivateNetworks {
		dialer.Control = dialControl
	}

	maxBytes := cfg.MaxResponseBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxResponseBytes
	}

	v := version.Version
	if v == "" {
		v = "dev"
	}

	return &Sender{
		client: &http.Client{
			Transport: &http.Transport{
				Proxy:                 http.ProxyFromEnvironment,
				DialContext:           dialer.DialContext,
				MaxIdleConns:          100,
				IdleConnTimeout:       90 * time.Second,
				TLSHandshakeTimeout:   10 * time.Second,
				ExpectContinueTimeout: 1 * time.Second,
			},
			// Redirects are not followed; the redirect response is the outcome.
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		userAgent:        "Taskmill-Webhook/" + v,
		maxResponseBytes: maxBytes,
		blockPrivate:     cfg.BlockPrivateNetworks,
	}
}

// Headers builds the headers of a delivery of body to h. Defaults come
// first, then the webhook's own headers verbatim (keys are not
// canonicalized), then the signature when h has a secret.
func (s *Sender) Headers(h Hook, event string, deliveryID string, body []byte) http.Header {
	headers := http.Header{}
	headers.Set("Content-Type", "application/json")
	headers.Set("User-Agent", s.userAgent)
	headers.Set(EventHeader, event)
	headers.Set(DeliveryHeader, deliveryID)

	seen := map[string]bool{}
	for _, hdr := range h.Headers {
		if hdr.Key == "" {
			continue
		}
		lower := strings.ToLower(hdr.Key)
		if !seen[lower] {
			seen[lower] = true
			deleteFold(headers, hdr.Key)
		}
		headers[hdr.Key] = append(headers[hdr.Key], hdr.Value)
	}

	if h.Secret != "" {
		deleteFold(headers, SignatureHeader)
		headers.Set(SignatureHeader, Sign(h.Secret, body))
	}

	return headers
}

// deleteFold removes every header whose key equals key case-insensitively.
func deleteFold(headers http.Header, key string) {
	for k := range headers {
		if strings.EqualFold(k, key) {
			delete(headers, k)
		}
	}
}

// Send posts body to h and waits at most timeout for the response. A
// received response of any status is not an error. A *DeliveryError is
// returned when no response arrived.
func (s *Sender) Send(ctx context.Context, h Hook, event string, body []byte, timeout time.Duration) (Response, error) {
	res := Response{DeliveryID: uuid.NewString()}
	start := time.Now()

	fail := func(err error) (Response, error) {
		res.Duration = time.Since(start)
		return res, &DeliveryError{URL: h.URL, Err: err}
	}

	if err := ValidateURL(h.URL); err != nil {
		return fail(err)
	}
	if s.blockPrivate {
		if err := ValidateHost(hostnameOf(h.URL)); err != nil {
			return fail(err)
		}
	}

	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.URL, bytes.NewReader(body))
	if err != nil {
		return fail(err)
	}
	req.Header = s.Headers(h, event, res.DeliveryID, body)

	resp, err := s.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fail(fmt.Errorf("no response within %s: %w", timeout, err))
		}
		return fail(err)
	}
	defer resp.Body.Close() // nolint: errcheck

	res.StatusCode = resp.StatusCode
	b, err := io.ReadAll(io.LimitReader(resp.Body, s.maxResponseBytes))
	res.Body = string(b)
	if err != nil && res.Body == "" {
		res.Body = err.Error()
	}
	res.Duration = time.Since(start)

	return res, nil
}
