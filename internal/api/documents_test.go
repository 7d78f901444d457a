package api

import (
	"bytes"
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/h2non/gock.v1"
)

func TestUploadDocumentMultipartFieldName(t *testing.T) {
	defer gock.Off()

	gock.New("http://backend.test").
		Post("/api/cases/42/documents").
		AddMatcher(func(req *http.Request, _ *gock.Request) (bool, error) {
			if !strings.HasPrefix(req.Header.Get("Content-Type"), "multipart/form-data") {
				return false, nil
			}
			body, err := readBody(req)
			if err != nil {
				return false, err
			}
			// The file must ride under the "document" form field.
			return bytes.Contains(body, []byte(`name="document"`)) &&
				bytes.Contains(body, []byte(`filename="evidence.pdf"`)) &&
				bytes.Contains(body, []byte("pdf-bytes")), nil
		}).
		Reply(201).
		JSON(Document{ID: 5, CaseID: 42, FileName: "evidence.pdf"})

	c := newTestClient(&memSession{token: "tok"})

	doc, err := c.UploadDocument(context.Background(), 42, "evidence.pdf", strings.NewReader("pdf-bytes"))
	require.NoError(t, err)
	assert.Equal(t, int64(5), doc.ID)
	assert.True(t, gock.IsDone())
}

func TestUploadDocumentServerError(t *testing.T) {
	defer gock.Off()

	gock.New("http://backend.test").
		Post("/api/cases/42/documents").
		Reply(500).
		JSON(map[string]string{"message": "storage unavailable"})

	c := newTestClient(&memSession{token: "tok"})

	_, err := c.UploadDocument(context.Background(), 42, "a.pdf", strings.NewReader("x"))
	require.Error(t, err)
	assert.Equal(t, "storage unavailable", ErrorMessage(err, "upload failed"))
}

func TestListAndDeleteDocuments(t *testing.T) {
	defer gock.Off()

	gock.New("http://backend.test").
		Get("/api/cases/42/documents").
		Reply(200).
		JSON([]Document{{ID: 5, FileName: "evidence.pdf"}})

	gock.New("http://backend.test").
		Delete("/api/cases/42/documents/5").
		Reply(204)

	c := newTestClient(&memSession{token: "tok"})

	docs, err := c.ListDocuments(context.Background(), 42)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "evidence.pdf", docs[0].FileName)

	require.NoError(t, c.DeleteDocument(context.Background(), 42, 5))
	assert.True(t, gock.IsDone())
}
