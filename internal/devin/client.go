// Package devin talks to the Devin API: it creates analysis/resolution
// sessions, polls them to a terminal state under a wall-clock budget, and
// decodes the structured payload a finished session reports.
package devin

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

// DefaultBaseURL is the production Devin API endpoint.
const DefaultBaseURL = "https://api.devin.ai"

// sessionURLBase is where a session can be inspected in a browser.
const sessionURLBase = "https://app.devin.ai/sessions/"

// Client is a minimal Devin API client. It holds no per-session state;
// session IDs live only for the duration of one Wait call.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *log.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API endpoint (useful for testing).
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger sets the logger used for polling progress messages.
func WithLogger(l *log.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// NewClient creates a Devin API client authenticated with the given token.
func NewClient(token string, opts ...Option) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		token:      token,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     log.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SessionStatus is the session state reported by the API. StructuredOutput
// is kept raw: a terminal session may report a JSON object, a JSON-encoded
// string, or nothing at all, and decoding is the Result Decoder's job.
type SessionStatus struct {
	SessionID        string          `json:"session_id"`
	StatusEnum       string          `json:"status_enum"`
	StructuredOutput json.RawMessage `json:"structured_output"`
}

type createSessionRequest struct {
	Prompt   string `json:"prompt"`
	Unlisted bool   `json:"unlisted"`
}

type createSessionResponse struct {
	SessionID string `json:"session_id"`
}

// CreateSession submits a prompt and returns the new session ID.
// Analysis sessions are kept unlisted.
func (c *Client) CreateSession(ctx context.Context, prompt string) (string, error) {
	payload, err := json.Marshal(createSessionRequest{Prompt: prompt, Unlisted: true})
	if err != nil {
		return "", fmt.Errorf("failed to encode session request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/sessions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(req)

	body, err := c.do(req)
	if err != nil {
		return "", fmt.Errorf("failed to create Devin session: %w", err)
	}

	var resp createSessionResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("failed to parse session response: %w", err)
	}
	if resp.SessionID == "" {
		return "", fmt.Errorf("session response missing session_id")
	}

	return resp.SessionID, nil
}

// GetSession fetches the current status of a session.
func (c *Client) GetSession(ctx context.Context, sessionID string) (*SessionStatus, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/session/"+sessionID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(req)

	body, err := c.do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch session status: %w", err)
	}

	var status SessionStatus
	if err := json.Unmarshal(body, &status); err != nil {
		return nil, fmt.Errorf("failed to parse session status: %w", err)
	}

	return &status, nil
}

// SessionURL returns the browser URL for a session ID.
func SessionURL(sessionID string) string {
	return sessionURLBase + sessionID
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("API error (status %d): %s", resp.StatusCode, truncateBody(body))
	}

	return body, nil
}

func truncateBody(body []byte) string {
	const max = 500
	if len(body) > max {
		return string(body[:max]) + "..."
	}
	return string(body)
}
