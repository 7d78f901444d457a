// Package api wraps the Distress Management REST backend. One Client owns
// the transport: it attaches the session bearer token to every outgoing
// request and centrally handles session expiry, so screens only deal with
// typed operations and typed errors.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Session is the injected capability holding the bearer token. It is read
// before every request and cleared when the backend rejects the session.
type Session interface {
	Token() string
	Save(token string) error
	Clear() error
}

// Client talks to the backend API. Safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	session    Session
	logger     *log.Logger
	onExpired  func()
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying transport.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithSessionExpired sets the callback invoked after any 401 response has
// cleared the session. The console uses it to force the login screen.
func WithSessionExpired(fn func()) Option {
	return func(c *Client) { c.onExpired = fn }
}

// NewClient constructs a client for the given base URL, e.g.
// "http://localhost:8080/api".
func NewClient(baseURL string, sess Session, logger *log.Logger, opts ...Option) *Client {
	if logger == nil {
		logger = log.New(log.Writer(), "[api] ", log.LstdFlags)
	}
	c := &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		httpClient: &http.Client{Timeout: 60 * time.Second},
		session:    sess,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetSessionExpiredFunc installs the expiry callback after construction.
// The console is built after the client, so wiring happens in two steps.
func (c *Client) SetSessionExpiredFunc(fn func()) {
	c.onExpired = fn
}

// Error is a non-2xx server response. Message carries the server-supplied
// payload message when one was present.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: status %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api: status %d", e.Status)
}

// ErrorMessage extracts a display string from err: the server-supplied
// message when err is an *Error carrying one, otherwise the given fallback.
func ErrorMessage(err error, fallback string) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

// serverMessage pulls a human-readable message out of an error payload.
// The backend uses both {"message": ...} and {"error": ...} shapes.
func serverMessage(data []byte) string {
	var payload struct {
		Message string `json:"message"`
		Err     string `json:"error"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return ""
	}
	if payload.Message != "" {
		return payload.Message
	}
	return payload.Err
}

// do performs one request. Before sending it reads the session token and,
// when present, attaches it as a bearer Authorization header. A 401 response
// clears the session and fires the expiry callback before the error is
// returned to the caller.
func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("api: build request %s %s: %w", method, path, err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if tok := c.session.Token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("api: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)

	if resp.StatusCode == http.StatusUnauthorized {
		c.logger.Printf("session rejected on %s %s; clearing token", method, path)
		if err := c.session.Clear(); err != nil {
			c.logger.Printf("session clear failed: %v", err)
		}
		if c.onExpired != nil {
			c.onExpired()
		}
		return &Error{Status: resp.StatusCode, Message: serverMessage(data)}
	}
	if resp.StatusCode/100 != 2 {
		return &Error{Status: resp.StatusCode, Message: serverMessage(data)}
	}

	if out != nil && len(bytes.TrimSpace(data)) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("api: decode %s %s: %w", method, path, err)
		}
	}
	return nil
}

// doJSON marshals in (when non-nil) as the JSON request body.
func (c *Client) doJSON(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("api: encode %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(data)
	}
	return c.do(ctx, method, path, body, "application/json", out)
}
