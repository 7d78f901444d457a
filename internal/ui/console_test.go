package ui

import (
	"context"
	"fmt"
	"io"
	"log"
	"testing"

	"github.com/rivo/tview"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/welfaredesk/distress-console/internal/api"
	"github.com/welfaredesk/distress-console/internal/attach"
)

// stubService implements CaseService with canned responses and call
// recording for state-machine tests.
type stubService struct {
	listCalls   []string // "page/limit" per call
	listCases   []api.Case
	listErr     error
	getCalls    int
	getCase     *api.Case
	getErr      error
	createCalls int
	created     *api.Case
	createErr   error
	statusCalls []string
	statusErr   error
	noteCalls   []string
	noteErr     error
	uploadCalls []string // attachment paths, in call order
	uploadErrAt int      // 1-based index of the upload call that fails; 0 = never
	loginCalls  int
	loginErr    error
	logoutCalls int
}

func (s *stubService) Login(ctx context.Context, creds api.Credentials) (*api.LoginResponse, error) {
	s.loginCalls++
	if s.loginErr != nil {
		return nil, s.loginErr
	}
	return &api.LoginResponse{Token: "tok"}, nil
}

func (s *stubService) Logout() error {
	s.logoutCalls++
	return nil
}

func (s *stubService) ListCases(ctx context.Context, page, limit int) ([]api.Case, error) {
	s.listCalls = append(s.listCalls, listKey(page, limit))
	if s.listErr != nil {
		return nil, s.listErr
	}
	if len(s.listCases) > limit {
		return s.listCases[:limit], nil
	}
	return s.listCases, nil
}

func (s *stubService) GetCase(ctx context.Context, id int64) (*api.Case, error) {
	s.getCalls++
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.getCase, nil
}

func (s *stubService) CreateCase(ctx context.Context, nc api.Case) (*api.Case, error) {
	s.createCalls++
	if s.createErr != nil {
		return nil, s.createErr
	}
	if s.created != nil {
		return s.created, nil
	}
	out := nc
	out.ID = 100
	return &out, nil
}

func (s *stubService) UpdateStatus(ctx context.Context, id int64, status string) error {
	s.statusCalls = append(s.statusCalls, status)
	return s.statusErr
}

func (s *stubService) AddProgressNote(ctx context.Context, id int64, note string) error {
	s.noteCalls = append(s.noteCalls, note)
	return s.noteErr
}

func (s *stubService) UploadDocumentFile(ctx context.Context, caseID int64, path string) (*api.Document, error) {
	s.uploadCalls = append(s.uploadCalls, path)
	if s.uploadErrAt > 0 && len(s.uploadCalls) == s.uploadErrAt {
		return nil, &api.Error{Status: 500, Message: "storage unavailable"}
	}
	return &api.Document{ID: int64(len(s.uploadCalls))}, nil
}

func listKey(page, limit int) string {
	return fmt.Sprintf("%d/%d", page, limit)
}

// newTestConsole builds a console wired for synchronous execution: spawn and
// post invoke directly on the calling goroutine.
func newTestConsole(t *testing.T, svc CaseService, picker *attach.Picker) *Console {
	t.Helper()
	c := NewConsole(context.Background(), svc, picker, log.New(io.Discard, "", 0))
	c.spawn = func(f func()) { f() }
	c.post = func(f func()) { f() }
	return c
}

func newTestPicker(t *testing.T, dir string) *attach.Picker {
	t.Helper()
	p, err := attach.NewPicker(dir, log.New(io.Discard, "", 0))
	require.NoError(t, err)
	return p
}

func TestLoginSubmitNavigatesToList(t *testing.T) {
	svc := &stubService{}
	c := newTestConsole(t, svc, nil)

	c.ShowLogin("Session expired. Please sign in again.")
	c.login.form.GetFormItem(0).(*tview.InputField).SetText("amina")
	c.login.form.GetFormItem(1).(*tview.InputField).SetText("pw")
	c.login.submit()

	assert.Equal(t, 1, svc.loginCalls)
	// Success lands on the case list, which fetches its first page.
	assert.Equal(t, []string{"1/10"}, svc.listCalls)
	// The password field never keeps its content.
	assert.Equal(t, "", c.login.form.GetFormItem(1).(*tview.InputField).GetText())
}

func TestLoginFailureShowsServerMessage(t *testing.T) {
	svc := &stubService{loginErr: &api.Error{Status: 403, Message: "bad credentials"}}
	c := newTestConsole(t, svc, nil)

	c.ShowLogin("")
	c.login.form.GetFormItem(0).(*tview.InputField).SetText("amina")
	c.login.form.GetFormItem(1).(*tview.InputField).SetText("nope")
	c.login.submit()

	assert.Equal(t, 1, svc.loginCalls)
	assert.Empty(t, svc.listCalls)
	assert.Contains(t, c.login.message.GetText(true), "bad credentials")
	assert.False(t, c.login.busy)
}

func TestLoginEmptyFieldsBlockSubmit(t *testing.T) {
	svc := &stubService{}
	c := newTestConsole(t, svc, nil)

	c.ShowLogin("")
	c.login.submit()

	assert.Equal(t, 0, svc.loginCalls)
	assert.Contains(t, c.login.message.GetText(true), "required")
}

func TestSignOutReturnsToLogin(t *testing.T) {
	svc := &stubService{listCases: []api.Case{{ID: 1}}}
	c := newTestConsole(t, svc, nil)

	c.ShowList()
	c.signOut()

	assert.Equal(t, 1, svc.logoutCalls)
	assert.Contains(t, c.login.message.GetText(true), "Signed out")
}

func TestSessionExpiredSwitchesToLogin(t *testing.T) {
	svc := &stubService{}
	c := newTestConsole(t, svc, nil)

	c.SessionExpired()

	name, _ := c.pages.GetFrontPage()
	assert.Equal(t, pageLogin, name)
	assert.Contains(t, c.login.message.GetText(true), "Session expired")
}
