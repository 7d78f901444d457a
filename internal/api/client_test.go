package api

import (
	"context"
	"io"
	"log"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/h2non/gock.v1"
)

const testBase = "http://backend.test/api"

// memSession is an in-memory Session for tests.
type memSession struct {
	token  string
	clears int
}

func (m *memSession) Token() string           { return m.token }
func (m *memSession) Save(token string) error { m.token = token; return nil }
func (m *memSession) Clear() error            { m.token = ""; m.clears++; return nil }

func newTestClient(sess Session, opts ...Option) *Client {
	hc := &http.Client{}
	gock.InterceptClient(hc)
	logger := log.New(io.Discard, "", 0)
	opts = append([]Option{WithHTTPClient(hc)}, opts...)
	return NewClient(testBase, sess, logger, opts...)
}

func TestBearerHeaderAttachedWhenTokenPresent(t *testing.T) {
	defer gock.Off()

	gock.New("http://backend.test").
		Get("/api/cases").
		MatchHeader("Authorization", "Bearer tok-1").
		Reply(200).
		JSON([]Case{})

	sess := &memSession{token: "tok-1"}
	c := newTestClient(sess)

	_, err := c.ListCases(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.True(t, gock.IsDone())
}

func TestNoBearerHeaderWithoutToken(t *testing.T) {
	defer gock.Off()

	gock.New("http://backend.test").
		Get("/api/cases").
		AddMatcher(func(req *http.Request, _ *gock.Request) (bool, error) {
			return req.Header.Get("Authorization") == "", nil
		}).
		Reply(200).
		JSON([]Case{})

	c := newTestClient(&memSession{})

	_, err := c.ListCases(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.True(t, gock.IsDone())
}

func TestRequestIDAttached(t *testing.T) {
	defer gock.Off()

	gock.New("http://backend.test").
		Get("/api/cases").
		AddMatcher(func(req *http.Request, _ *gock.Request) (bool, error) {
			return req.Header.Get("X-Request-ID") != "", nil
		}).
		Reply(200).
		JSON([]Case{})

	c := newTestClient(&memSession{})

	_, err := c.ListCases(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.True(t, gock.IsDone())
}

func TestUnauthorizedClearsSessionAndFiresCallback(t *testing.T) {
	defer gock.Off()

	gock.New("http://backend.test").
		Get("/api/cases/9").
		Reply(401).
		JSON(map[string]string{"error": "token expired"})

	sess := &memSession{token: "stale"}
	expired := 0
	c := newTestClient(sess, WithSessionExpired(func() { expired++ }))

	_, err := c.GetCase(context.Background(), 9)
	require.Error(t, err)

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "token expired", apiErr.Message)

	assert.Equal(t, "", sess.token, "session token should be cleared")
	assert.Equal(t, 1, sess.clears)
	assert.Equal(t, 1, expired, "expiry callback should fire exactly once")
}

func TestUnauthorizedOnAnyEndpointClearsSession(t *testing.T) {
	defer gock.Off()

	gock.New("http://backend.test").
		Patch("/api/cases/3/status").
		Reply(401)

	sess := &memSession{token: "stale"}
	c := newTestClient(sess)

	err := c.UpdateStatus(context.Background(), 3, "Closed")
	require.Error(t, err)
	assert.Equal(t, "", sess.token)
}

func TestLoginPersistsToken(t *testing.T) {
	defer gock.Off()

	gock.New("http://backend.test").
		Post("/api/auth/login").
		JSON(Credentials{Username: "desk", Password: "pw"}).
		Reply(200).
		JSON(LoginResponse{Token: "fresh-token"})

	sess := &memSession{}
	c := newTestClient(sess)

	resp, err := c.Login(context.Background(), Credentials{Username: "desk", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "fresh-token", resp.Token)
	assert.Equal(t, "fresh-token", sess.token, "token persisted before returning")
}

func TestLoginFailureDoesNotTouchSession(t *testing.T) {
	defer gock.Off()

	gock.New("http://backend.test").
		Post("/api/auth/login").
		Reply(403).
		JSON(map[string]string{"message": "bad credentials"})

	sess := &memSession{}
	c := newTestClient(sess)

	_, err := c.Login(context.Background(), Credentials{Username: "desk", Password: "nope"})
	require.Error(t, err)
	assert.Equal(t, "bad credentials", ErrorMessage(err, "fallback"))
	assert.Equal(t, "", sess.token)
}

func TestLogoutClearsLocalSessionWithoutServerCall(t *testing.T) {
	// No gock mocks registered: any network call would fail the test via the
	// intercepted transport.
	defer gock.Off()

	sess := &memSession{token: "tok"}
	c := newTestClient(sess)

	require.NoError(t, c.Logout())
	assert.Equal(t, "", sess.token)
}

func TestErrorMessageFallback(t *testing.T) {
	defer gock.Off()

	gock.New("http://backend.test").
		Get("/api/cases").
		Reply(500).
		BodyString("internal error, no json")

	c := newTestClient(&memSession{})

	_, err := c.ListCases(context.Background(), 1, 10)
	require.Error(t, err)
	assert.Equal(t, "Error fetching cases", ErrorMessage(err, "Error fetching cases"))
}
