package api

import (
	"context"
	"fmt"
	"net/http"
)

// ListCases fetches one page of cases. Pagination is server-side; every
// page/limit change is a fresh fetch, never a client-side slice.
func (c *Client) ListCases(ctx context.Context, page, limit int) ([]Case, error) {
	var out []Case
	path := fmt.Sprintf("/cases?page=%d&limit=%d", page, limit)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetCase fetches a single case with its progress notes. A 2xx response with
// a null body yields (nil, nil): the caller renders a not-found state.
func (c *Client) GetCase(ctx context.Context, id int64) (*Case, error) {
	var out *Case
	if err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/cases/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateCase submits a new case and returns the created record, including
// its server-assigned id and reference number.
func (c *Client) CreateCase(ctx context.Context, nc Case) (*Case, error) {
	var out Case
	if err := c.doJSON(ctx, http.MethodPost, "/cases", nc, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateCase replaces the case record.
func (c *Client) UpdateCase(ctx context.Context, id int64, upd Case) (*Case, error) {
	var out Case
	if err := c.doJSON(ctx, http.MethodPut, fmt.Sprintf("/cases/%d", id), upd, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteCase removes a case.
func (c *Client) DeleteCase(ctx context.Context, id int64) error {
	return c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/cases/%d", id), nil, nil)
}

// UpdateStatus patches only the workflow status label.
func (c *Client) UpdateStatus(ctx context.Context, id int64, status string) error {
	body := map[string]string{"status": status}
	return c.doJSON(ctx, http.MethodPatch, fmt.Sprintf("/cases/%d/status", id), body, nil)
}

// AddProgressNote appends a free-text note to the case history.
func (c *Client) AddProgressNote(ctx context.Context, id int64, note string) error {
	body := map[string]string{"note": note}
	return c.doJSON(ctx, http.MethodPost, fmt.Sprintf("/cases/%d/progress-notes", id), body, nil)
}
