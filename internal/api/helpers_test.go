package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"gopkg.in/h2non/gock.v1"
)

// matchJSONField matches when the JSON request body carries field == want.
// The body is restored so further matchers (and gock itself) can re-read it.
func matchJSONField(field, want string) gock.MatchFunc {
	return func(req *http.Request, _ *gock.Request) (bool, error) {
		if req.Body == nil {
			return false, nil
		}
		body, err := io.ReadAll(req.Body)
		if err != nil {
			return false, err
		}
		req.Body = io.NopCloser(bytes.NewReader(body))
		var m map[string]interface{}
		if err := json.Unmarshal(body, &m); err != nil {
			return false, nil
		}
		got, _ := m[field].(string)
		return got == want, nil
	}
}

// readBody drains and restores the request body for content inspection.
func readBody(req *http.Request) ([]byte, error) {
	if req.Body == nil {
		return nil, nil
	}
	body, err := io.ReadAll(req.Body)
	if err != nil {
		return nil, err
	}
	req.Body = io.NopCloser(bytes.NewReader(body))
	return body, nil
}
