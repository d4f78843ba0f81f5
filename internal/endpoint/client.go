package endpoint

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/abhisek/quizgen/internal/llm"
)

// maxResponseBytes bounds how much of a response body is read.
const maxResponseBytes = 8 << 20

// RequestIDHeader carries the caller's correlation id.
const RequestIDHeader = "X-Request-Id"

// ClientConfig configures a Client.
type ClientConfig struct {
	// URL is the full endpoint URL.
	URL string

	// Token is sent as a bearer token. Optional.
	Token string

	// Timeout bounds a single request. Default: 120s.
	Timeout time.Duration

	// HTTPClient overrides the transport. Timeout is ignored when set.
	HTTPClient *http.Client
}

// Client calls a remote generation endpoint.
type Client struct {
	url   string
	token string
	http  *http.Client
}

// NewClient creates a Client.
func NewClient(cfg ClientConfig) *Client {
	hc := cfg.HTTPClient
	if hc == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 120 * time.Second
		}
		hc = &http.Client{Timeout: timeout}
	}
	return &Client{url: cfg.URL, token: cfg.Token, http: hc}
}

// Complete posts p and returns the decoded envelope. Every non-nil error is
// one of *StatusError, *ErrInvalidEnvelope, *RemoteError or a transport
// error. A returned envelope always has Success set.
func (c *Client) Complete(ctx context.Context, p Payload) (*Envelope, error) {
	body, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if id := llm.RequestIDFrom(ctx); id != "" {
		req.Header.Set(RequestIDHeader, id)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("post %s: %w", c.url, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Message: errorMessage(raw)}
	}

	env, err := decodeEnvelope(raw)
	if err != nil {
		return nil, err
	}
	if !env.Success {
		return nil, &RemoteError{Message: env.Error}
	}
	return env, nil
}

// errorMessage extracts a diagnostic from a failed response body.
func errorMessage(body []byte) string {
	var env struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &env) == nil && env.Error != "" {
		return env.Error
	}
	msg := strings.TrimSpace(string(body))
	if len(msg) > 200 {
		msg = msg[:200] + "..."
	}
	return msg
}
