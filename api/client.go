// Package api is the HTTP client for the todo app backend: the chat
// endpoint the AI assistant sits behind, and the task CRUD endpoints.
// Every call is a single attempt; the caller decides what a failure means.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"todui/config"
)

// Error is the one failure type the transport raises. StatusCode carries
// the HTTP status (0 when the request never reached the backend) and
// Message is already user-facing.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	return e.Message
}

// Fixed user-facing messages for the statuses the backend uses deliberately.
const (
	loginRequiredMessage = "Please log in to use the chat."
	accessDeniedMessage  = "Access denied."
	unavailableMessage   = "AI assistant is temporarily unavailable."
	sendFailedMessage    = "Failed to send message."
)

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = config.DefaultAPIURL
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: http.DefaultClient,
	}
}

// BaseURL returns the backend base URL the client was built with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// newRequest builds an authenticated JSON request against the backend.
func (c *Client) newRequest(ctx context.Context, method, path string, body any, token string) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", "Bearer "+token)
	return req, nil
}

// errorDetail is the JSON error body the backend sends on non-2xx.
type errorDetail struct {
	Detail string `json:"detail"`
}

// classifyStatus maps a non-2xx response to an Error. 401/403/503 carry
// fixed client-side messages; anything else uses the backend's detail
// field when one can be parsed, or the generic fallback.
func classifyStatus(status int, body []byte, fallback string) *Error {
	switch status {
	case http.StatusUnauthorized:
		return &Error{StatusCode: status, Message: loginRequiredMessage}
	case http.StatusForbidden:
		return &Error{StatusCode: status, Message: accessDeniedMessage}
	case http.StatusServiceUnavailable:
		return &Error{StatusCode: status, Message: unavailableMessage}
	}

	var detail errorDetail
	if err := json.Unmarshal(body, &detail); err == nil && detail.Detail != "" {
		return &Error{StatusCode: status, Message: detail.Detail}
	}
	return &Error{StatusCode: status, Message: fallback}
}

// doJSON executes a request and decodes a 2xx JSON response into out
// (which may be nil for responses without a meaningful body).
func (c *Client) doJSON(req *http.Request, out any, fallback string) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &Error{StatusCode: 0, Message: fallback}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{StatusCode: resp.StatusCode, Message: fallback}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if config.DebugLog != nil {
			config.DebugLog.Printf("[api] %s %s -> %d", req.Method, req.URL.Path, resp.StatusCode)
		}
		return classifyStatus(resp.StatusCode, body, fallback)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &Error{StatusCode: resp.StatusCode, Message: fallback}
	}
	return nil
}
