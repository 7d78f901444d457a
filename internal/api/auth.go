package api

import (
	"context"
	"fmt"
	"net/http"
)

// Login authenticates against the backend. On success the returned token is
// persisted to the session before the response is handed back.
func (c *Client) Login(ctx context.Context, creds Credentials) (*LoginResponse, error) {
	var out LoginResponse
	if err := c.doJSON(ctx, http.MethodPost, "/auth/login", creds, &out); err != nil {
		return nil, err
	}
	if out.Token != "" {
		if err := c.session.Save(out.Token); err != nil {
			return nil, fmt.Errorf("api: persist session: %w", err)
		}
	}
	return &out, nil
}

// Register creates a backend account. It does not establish a session.
func (c *Client) Register(ctx context.Context, reg Registration) error {
	return c.doJSON(ctx, http.MethodPost, "/auth/register", reg, nil)
}

// Logout ends the local session. No server call is required; clearing the
// stored token is sufficient for the session to be considered ended.
func (c *Client) Logout() error {
	return c.session.Clear()
}
