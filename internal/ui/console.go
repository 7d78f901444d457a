// Package ui implements the terminal console: a case list, a case detail
// screen, the intake form, and a login screen, all talking to the backend
// through one API client. Every screen refetches from the server when it
// opens; nothing is cached across navigations.
package ui

import (
	"context"
	"fmt"
	"log"

	"github.com/rivo/tview"

	"github.com/welfaredesk/distress-console/internal/api"
	"github.com/welfaredesk/distress-console/internal/attach"
)

// CaseService is the slice of the backend API the console screens consume.
// *api.Client satisfies it; tests substitute stubs.
type CaseService interface {
	Login(ctx context.Context, creds api.Credentials) (*api.LoginResponse, error)
	Logout() error
	ListCases(ctx context.Context, page, limit int) ([]api.Case, error)
	GetCase(ctx context.Context, id int64) (*api.Case, error)
	CreateCase(ctx context.Context, nc api.Case) (*api.Case, error)
	UpdateStatus(ctx context.Context, id int64, status string) error
	AddProgressNote(ctx context.Context, id int64, note string) error
	UploadDocumentFile(ctx context.Context, caseID int64, path string) (*api.Document, error)
}

// Page names for the console's tview.Pages.
const (
	pageLogin  = "login"
	pageCases  = "cases"
	pageDetail = "detail"
	pageIntake = "intake"
)

// Console is the terminal application shell. It owns the pages, the status
// bar, the theme, and navigation between screens.
type Console struct {
	app    *tview.Application
	svc    CaseService
	picker *attach.Picker
	logger *log.Logger

	theme        Theme
	themeName    string
	hasTrueColor bool

	layout    *tview.Flex
	pages     *tview.Pages
	statusBar *tview.TextView

	list   *CaseList
	detail *CaseDetail
	intake *IntakeForm
	login  *loginScreen

	ctx     context.Context
	cancel  context.CancelFunc
	running bool

	// spawn runs a network call off the UI thread; post marshals a render
	// back onto it. Tests replace both with direct invocation so fetch
	// flows run synchronously.
	spawn func(func())
	post  func(func())
}

// NewConsole creates the console shell and all screens.
func NewConsole(ctx context.Context, svc CaseService, picker *attach.Picker, logger *log.Logger) *Console {
	if logger == nil {
		logger = log.New(log.Writer(), "[ui] ", log.LstdFlags)
	}
	uiCtx, cancel := context.WithCancel(ctx)

	c := &Console{
		app:          tview.NewApplication(),
		svc:          svc,
		picker:       picker,
		logger:       logger,
		ctx:          uiCtx,
		cancel:       cancel,
		hasTrueColor: detectTrueColor(),
	}
	// Limited palettes render the hex themes poorly; start high-contrast there.
	c.themeName = "dark"
	if !c.hasTrueColor {
		c.themeName = "high-contrast"
	}
	c.theme = themeByName(c.themeName)
	c.spawn = func(f func()) { go f() }
	c.post = func(f func()) { c.app.QueueUpdateDraw(f) }

	c.statusBar = tview.NewTextView()
	c.statusBar.SetDynamicColors(true)

	c.list = newCaseList(c)
	c.detail = newCaseDetail(c)
	c.intake = newIntakeForm(c)
	c.login = newLoginScreen(c)

	c.pages = tview.NewPages().
		AddPage(pageCases, c.list.view, true, true).
		AddPage(pageDetail, c.detail.view, true, false).
		AddPage(pageIntake, c.intake.view, true, false).
		AddPage(pageLogin, c.login.view, true, false)

	c.layout = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(c.pages, 0, 1, true).
		AddItem(c.statusBar, 1, 0, false)

	if picker != nil {
		picker.SetChangeFunc(func() {
			c.post(func() { c.intake.renderAttachments() })
		})
	}

	c.applyTheme()
	return c
}

// Start runs the console until the context is cancelled or the operator
// quits. The initial case list loads in the background so the screen is
// responsive immediately.
func (c *Console) Start(ctx context.Context) error {
	c.logger.Println("Starting console")

	c.app.SetRoot(c.layout, true)
	c.app.SetFocus(c.list.table)
	c.list.refresh()

	go func() {
		select {
		case <-ctx.Done():
			c.logger.Println("External context cancelled, stopping console")
		case <-c.ctx.Done():
			c.logger.Println("Console context cancelled")
		}
		c.cancel()
		c.app.Stop()
	}()

	c.running = true
	err := c.app.Run()
	c.running = false
	c.logger.Printf("app.Run() returned with error: %v", err)
	return err
}

// Stop stops the console.
func (c *Console) Stop() {
	c.logger.Println("Stopping console")
	c.running = false
	c.cancel()
	c.app.Stop()
}

// ShowList switches to the case list and refetches the current page.
func (c *Console) ShowList() {
	c.pages.SwitchToPage(pageCases)
	c.app.SetFocus(c.list.table)
	c.list.refresh()
}

// ShowDetail opens the detail screen for one case.
func (c *Console) ShowDetail(id int64) {
	c.pages.SwitchToPage(pageDetail)
	c.app.SetFocus(c.detail.statusInput)
	c.detail.open(id)
}

// ShowIntake opens a fresh intake form.
func (c *Console) ShowIntake() {
	c.intake.reset()
	c.pages.SwitchToPage(pageIntake)
	c.app.SetFocus(c.intake.form)
}

// ShowLogin forces the login screen, discarding whatever was in progress.
func (c *Console) ShowLogin(message string) {
	c.login.setMessage(message)
	c.pages.SwitchToPage(pageLogin)
	c.app.SetFocus(c.login.form)
}

// SessionExpired is the API client's 401 hook. It may fire from any fetch
// goroutine, so the page switch is marshalled onto the UI thread.
func (c *Console) SessionExpired() {
	c.logger.Println("Session expired; returning to login")
	c.post(func() {
		c.ShowLogin("Session expired. Please sign in again.")
	})
}

// signOut ends the local session and returns to the login screen. Matching
// the backend contract, no server call is needed for the session to end.
func (c *Console) signOut() {
	if err := c.svc.Logout(); err != nil {
		c.logger.Printf("logout: %v", err)
	}
	c.ShowLogin("Signed out.")
}

// setStatus updates the status bar. Safe only on the UI thread.
func (c *Console) setStatus(format string, args ...interface{}) {
	c.statusBar.SetText(fmt.Sprintf(format, args...))
}

// cycleTheme rotates through the palettes.
func (c *Console) cycleTheme() {
	for i, name := range themeOrder {
		if name == c.themeName {
			c.themeName = themeOrder[(i+1)%len(themeOrder)]
			break
		}
	}
	c.theme = themeByName(c.themeName)
	c.applyTheme()
	c.setStatus("[%s]Theme: %s[-]", c.theme.TagMuted, c.themeName)
}

// applyTheme recolors the shell and every screen.
func (c *Console) applyTheme() {
	c.statusBar.SetBackgroundColor(c.theme.Surface)
	c.statusBar.SetTextColor(c.theme.TextMuted)
	c.list.applyTheme()
	c.detail.applyTheme()
	c.intake.applyTheme()
	c.login.applyTheme()
}

// loginScreen drives api.Login and returns to the case list on success.
type loginScreen struct {
	ui      *Console
	view    *tview.Flex
	form    *tview.Form
	message *tview.TextView
	busy    bool
}

func newLoginScreen(ui *Console) *loginScreen {
	s := &loginScreen{ui: ui}

	s.message = tview.NewTextView()
	s.message.SetDynamicColors(true)
	s.message.SetTextAlign(tview.AlignCenter)

	s.form = tview.NewForm().
		AddInputField("Username", "", 32, nil, nil).
		AddPasswordField("Password", "", 32, '*', nil)
	s.form.AddButton("Sign In", s.submit)
	s.form.AddButton("Quit", func() { s.ui.Stop() })
	s.form.SetBorder(true)
	s.form.SetTitle(" Distress Console / Sign In ")
	s.form.SetTitleAlign(tview.AlignLeft)

	s.view = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(s.message, 2, 0, false).
		AddItem(s.form, 0, 1, true)

	return s
}

func (s *loginScreen) setMessage(msg string) {
	if msg == "" {
		s.message.SetText("")
		return
	}
	s.message.SetText(fmt.Sprintf("[%s]%s[-]", s.ui.theme.TagWarning, msg))
}

func (s *loginScreen) submit() {
	if s.busy {
		return
	}
	username := s.form.GetFormItem(0).(*tview.InputField).GetText()
	password := s.form.GetFormItem(1).(*tview.InputField).GetText()
	if username == "" || password == "" {
		s.setMessage("Username and password are required")
		return
	}

	s.busy = true
	s.setMessage("Signing in...")
	s.ui.spawn(func() {
		_, err := s.ui.svc.Login(s.ui.ctx, api.Credentials{Username: username, Password: password})
		s.ui.post(func() {
			s.busy = false
			if err != nil {
				s.setMessage(api.ErrorMessage(err, "Login failed"))
				return
			}
			s.form.GetFormItem(1).(*tview.InputField).SetText("")
			s.setMessage("")
			s.ui.ShowList()
		})
	})
}

func (s *loginScreen) applyTheme() {
	t := s.ui.theme
	s.form.SetBackgroundColor(t.Bg)
	s.form.SetFieldBackgroundColor(t.SelectionBg)
	s.form.SetFieldTextColor(t.TextPrimary)
	s.form.SetLabelColor(t.TextMuted)
	s.form.SetButtonBackgroundColor(t.SelectionBg)
	s.form.SetButtonTextColor(t.TextPrimary)
	s.form.SetBorderColor(t.Border)
	s.form.SetTitleColor(t.Header)
	s.message.SetBackgroundColor(t.Bg)
	s.view.SetBackgroundColor(t.Bg)
}
