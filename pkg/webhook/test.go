package webhook

import (
	"context"
	"encoding/json"
	"time"
)

// TestMessage is the message carried by test payloads.
const TestMessage = "This is a test webhook payload."

// TestResult is the outcome of a test delivery.
type TestResult struct {
	Success  bool    `json:"success"`
	Status   *int    `json:"status,omitempty"`
	Response *string `json:"response,omitempty"`
	Error    *string `json:"error,omitempty"`
}

type testPayload struct {
	Test      bool   `json:"test"`
	Timestamp string `json:"timestamp"`
	WebhookID int64  `json:"webhook_id"`
	Event     string `json:"event"`
	Message   string `json:"message"`
}

// NewTestPayload returns the synthetic payload sent by test deliveries.
func NewTestPayload(h Hook, now time.Time) ([]byte, error) {
	return json.Marshal(testPayload{
		Test:      true,
		Timestamp: now.Format(time.RFC3339),
		WebhookID: h.ID,
		Event:     h.Action.String(),
		Message:   TestMessage,
	})
}

// Test sends a synthetic payload to h, enabled or not, with the same
// headers and signature as a real delivery. Unlike dispatch, it writes
// nothing to the delivery log: the caller gets the outcome directly.
// Success is true whenever an HTTP response arrived, whatever its status.
func (s *Sender) Test(ctx context.Context, h Hook, timeout time.Duration) TestResult {
	body, err := NewTestPayload(h, time.Now())
	if err != nil {
		msg := err.Error()
		return TestResult{Error: &msg}
	}

	if timeout <= 0 {
		timeout = DefaultTestTimeout
	}
	res, err := s.Send(ctx, h, h.Action.String(), body, timeout)
	if err != nil {
		msg := err.Error()
		return TestResult{Error: &msg}
	}

	status := res.StatusCode
	return TestResult{
		Success:  true,
		Status:   &status,
		Response: &res.Body,
	}
}
