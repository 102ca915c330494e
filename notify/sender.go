package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

// Error codes that mean a device token will never be deliverable again.
const (
	CodeNotRegistered = "messaging/registration-token-not-registered"
	CodeInvalidToken  = "messaging/invalid-registration-token"
)

// Message is a push notification addressed to many devices.
type Message struct {
	Tokens []string          `json:"tokens"`
	Title  string            `json:"title"`
	Body   string            `json:"body"`
	Tag    string            `json:"tag"`
	Data   map[string]string `json:"data"`
}

// Response is the delivery result for one token, in Message.Tokens order.
type Response struct {
	Success bool   `json:"success"`
	Code    string `json:"code,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Sender delivers a multicast message.
type Sender interface {
	Send(ctx context.Context, msg Message) ([]Response, error)
}

// WebhookSender posts messages to a push relay that fans them out to the
// device platforms and answers with one Response per token.
type WebhookSender struct {
	URL    string
	Client *http.Client
}

func NewWebhookSender(url string) *WebhookSender {
	return &WebhookSender{URL: url, Client: &http.Client{Timeout: 10 * time.Second}}
}

func (s *WebhookSender) Send(ctx context.Context, msg Message) ([]Response, error) {
	payload, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("failed to encode push message: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.URL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build relay request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("push relay unreachable: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("push relay returned %d: %s", resp.StatusCode, bytes.TrimSpace(body))
	}

	var out struct {
		Responses []Response `json:"responses"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("invalid relay response: %w", err)
	}
	if len(out.Responses) != len(msg.Tokens) {
		return nil, fmt.Errorf("relay answered %d results for %d tokens", len(out.Responses), len(msg.Tokens))
	}
	return out.Responses, nil
}

// LogSender only logs. It is used when no relay is configured.
type LogSender struct{}

func (LogSender) Send(_ context.Context, msg Message) ([]Response, error) {
	log.Printf("INFO: [Notify] push relay not configured; %q to %d device(s) not sent", msg.Title, len(msg.Tokens))
	out := make([]Response, len(msg.Tokens))
	for i := range out {
		out[i].Success = true
	}
	return out, nil
}
