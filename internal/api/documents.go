package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
)

// documentField is the multipart form field name the backend expects.
const documentField = "document"

// UploadDocument sends one attachment as a multipart request tagged to the
// case. Callers uploading several files do so one at a time; the client does
// not batch or parallelize.
func (c *Client) UploadDocument(ctx context.Context, caseID int64, name string, r io.Reader) (*Document, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(documentField, filepath.Base(name))
	if err != nil {
		return nil, fmt.Errorf("api: multipart form: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, fmt.Errorf("api: read attachment %s: %w", name, err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("api: finalize multipart: %w", err)
	}

	var out Document
	path := fmt.Sprintf("/cases/%d/documents", caseID)
	if err := c.do(ctx, http.MethodPost, path, &buf, mw.FormDataContentType(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UploadDocumentFile opens path and uploads it via UploadDocument.
func (c *Client) UploadDocumentFile(ctx context.Context, caseID int64, path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("api: open attachment: %w", err)
	}
	defer f.Close()
	return c.UploadDocument(ctx, caseID, filepath.Base(path), f)
}

// ListDocuments returns the attachments recorded for a case.
func (c *Client) ListDocuments(ctx context.Context, caseID int64) ([]Document, error) {
	var out []Document
	path := fmt.Sprintf("/cases/%d/documents", caseID)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteDocument removes one attachment.
func (c *Client) DeleteDocument(ctx context.Context, caseID, documentID int64) error {
	path := fmt.Sprintf("/cases/%d/documents/%d", caseID, documentID)
	return c.doJSON(ctx, http.MethodDelete, path, nil, nil)
}
