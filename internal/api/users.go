package api

import (
	"context"
	"fmt"
	"net/http"
)

// ListUsers returns all backend accounts.
func (c *Client) ListUsers(ctx context.Context) ([]User, error) {
	var out []User
	if err := c.doJSON(ctx, http.MethodGet, "/users", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetUser fetches one account.
func (c *Client) GetUser(ctx context.Context, id int64) (*User, error) {
	var out *User
	if err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/users/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateUser replaces an account record.
func (c *Client) UpdateUser(ctx context.Context, id int64, upd User) (*User, error) {
	var out User
	if err := c.doJSON(ctx, http.MethodPut, fmt.Sprintf("/users/%d", id), upd, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteUser removes an account.
func (c *Client) DeleteUser(ctx context.Context, id int64) error {
	return c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/users/%d", id), nil, nil)
}
