package ui

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/welfaredesk/distress-console/internal/api"
)

// CaseDetail shows one case with its progress notes and hosts the two
// mutation forms: status update and note add. Each successful mutation
// triggers a full refetch; the screen never patches local state.
type CaseDetail struct {
	ui          *Console
	view        *tview.Flex
	info        *tview.TextView
	alert       *tview.TextView
	statusInput *tview.InputField
	noteInput   *tview.InputField

	caseID   int64
	loading  bool
	fetchErr string // replaces the content area entirely
	alertMsg string // inline banner; content stays visible
	notFound bool
	data     *api.Case
}

func newCaseDetail(ui *Console) *CaseDetail {
	v := &CaseDetail{ui: ui}

	v.info = tview.NewTextView()
	v.info.SetDynamicColors(true)
	v.info.SetWordWrap(true)
	v.info.SetScrollable(true)
	v.info.SetBorder(true)
	v.info.SetTitle(" Case Details ")
	v.info.SetTitleAlign(tview.AlignLeft)

	v.alert = tview.NewTextView()
	v.alert.SetDynamicColors(true)

	v.statusInput = tview.NewInputField().
		SetLabel("Update status: ").
		SetFieldWidth(0)
	v.statusInput.SetDoneFunc(func(key tcell.Key) {
		switch key {
		case tcell.KeyEnter:
			v.submitStatus()
		case tcell.KeyEscape:
			v.ui.ShowList()
		case tcell.KeyTab:
			v.ui.app.SetFocus(v.noteInput)
		}
	})

	v.noteInput = tview.NewInputField().
		SetLabel("Add note: ").
		SetFieldWidth(0)
	v.noteInput.SetDoneFunc(func(key tcell.Key) {
		switch key {
		case tcell.KeyEnter:
			v.submitNote()
		case tcell.KeyEscape:
			v.ui.ShowList()
		case tcell.KeyTab:
			v.ui.app.SetFocus(v.statusInput)
		}
	})

	v.view = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(v.info, 0, 1, false).
		AddItem(v.alert, 1, 0, false).
		AddItem(v.statusInput, 1, 0, true).
		AddItem(v.noteInput, 1, 0, false)

	return v
}

// open targets the screen at a case and fetches it.
func (v *CaseDetail) open(id int64) {
	v.caseID = id
	v.alertMsg = ""
	v.refresh()
}

// refresh re-enters the loading state and refetches the case.
func (v *CaseDetail) refresh() {
	v.loading = true
	v.fetchErr = ""
	v.notFound = false
	v.render()
	v.ui.spawn(v.reload)
}

// reload fetches the case and posts the render back to the UI thread.
func (v *CaseDetail) reload() {
	id := v.caseID
	data, err := v.ui.svc.GetCase(v.ui.ctx, id)
	v.ui.post(func() {
		if id != v.caseID {
			return // a different case was opened while this fetch was in flight
		}
		v.loading = false
		if err != nil {
			v.fetchErr = api.ErrorMessage(err, "Failed to fetch case details")
			v.data = nil
			v.render()
			return
		}
		v.data = data
		v.notFound = data == nil
		v.render()
	})
}

// submitStatus patches the workflow status. Whitespace-only input is a
// no-op: the submit control is effectively disabled until there is text.
func (v *CaseDetail) submitStatus() {
	status := strings.TrimSpace(v.statusInput.GetText())
	if status == "" {
		return
	}
	id := v.caseID
	v.ui.spawn(func() {
		err := v.ui.svc.UpdateStatus(v.ui.ctx, id, status)
		if err != nil {
			v.ui.post(func() {
				// Keep the field content so the operator can retry.
				v.showAlert(api.ErrorMessage(err, "Failed to update status"))
			})
			return
		}
		v.ui.post(func() {
			v.statusInput.SetText("")
			v.alertMsg = ""
		})
		v.reload()
	})
}

// submitNote appends a progress note with the same contract as submitStatus.
func (v *CaseDetail) submitNote() {
	note := strings.TrimSpace(v.noteInput.GetText())
	if note == "" {
		return
	}
	id := v.caseID
	v.ui.spawn(func() {
		err := v.ui.svc.AddProgressNote(v.ui.ctx, id, note)
		if err != nil {
			v.ui.post(func() {
				v.showAlert(api.ErrorMessage(err, "Failed to add note"))
			})
			return
		}
		v.ui.post(func() {
			v.noteInput.SetText("")
			v.alertMsg = ""
		})
		v.reload()
	})
}

func (v *CaseDetail) showAlert(msg string) {
	v.alertMsg = msg
	v.renderAlert()
}

func (v *CaseDetail) renderAlert() {
	if v.alertMsg == "" {
		v.alert.SetText("")
		return
	}
	v.alert.SetText(fmt.Sprintf(" [%s]%s[-]", v.ui.theme.TagError, v.alertMsg))
}

// render draws the content area for the current state. A fetch error
// replaces the content entirely; a mutation error shows inline above the
// still-visible content.
func (v *CaseDetail) render() {
	v.renderAlert()

	t := v.ui.theme
	switch {
	case v.loading:
		v.info.SetText(fmt.Sprintf("[%s]Loading...[-]", t.TagMuted))
	case v.fetchErr != "":
		v.info.SetText(fmt.Sprintf("[%s]%s[-]", t.TagError, v.fetchErr))
	case v.notFound:
		v.info.SetText(fmt.Sprintf("[%s]Case not found[-]", t.TagMuted))
	default:
		v.info.SetText(v.composeContent())
	}
}

// composeContent renders the case fields and its notes in server order.
func (v *CaseDetail) composeContent() string {
	t := v.ui.theme
	c := v.data

	status := c.Status
	if status == "" {
		status = api.DefaultStatus
	}
	stage := c.Stage
	if stage == "" {
		stage = api.DefaultStage
	}

	var sb strings.Builder
	field := func(label, value string) {
		if value != "" {
			fmt.Fprintf(&sb, "[%s]%s:[-] %s\n", t.TagMuted, label, value)
		}
	}
	field("Reference Number", c.ReferenceNumber)
	field("Subject", c.Subject)
	field("Status", status)
	field("Stage", stage)
	field("Sender", c.SenderName)
	field("Distressed Person", c.DistressedPersonName)
	field("Country of Origin", c.CountryOfOrigin)
	field("Nature of Case", c.NatureOfCase)
	field("Received", formatReceived(c.ReceivingDate))
	if c.CaseDetails != "" {
		fmt.Fprintf(&sb, "\n%s\n", c.CaseDetails)
	}

	fmt.Fprintf(&sb, "\n[%s]Progress Notes[-]\n", t.TagAccent)
	if len(c.ProgressNotes) == 0 {
		fmt.Fprintf(&sb, "[%s]No notes yet[-]\n", t.TagMuted)
	}
	for _, n := range c.ProgressNotes {
		fmt.Fprintf(&sb, "• %s\n  [%s]%s[-]\n", n.Note, t.TagMuted, formatTimestamp(n.CreatedAt))
	}
	return sb.String()
}

func (v *CaseDetail) applyTheme() {
	t := v.ui.theme
	v.info.SetBackgroundColor(t.Bg)
	v.info.SetBorderColor(t.Border)
	v.info.SetTitleColor(t.Header)
	v.alert.SetBackgroundColor(t.Bg)
	for _, in := range []*tview.InputField{v.statusInput, v.noteInput} {
		in.SetLabelColor(t.TextMuted)
		in.SetFieldBackgroundColor(t.SelectionBg)
		in.SetFieldTextColor(t.TextPrimary)
		in.SetBackgroundColor(t.Bg)
	}
	v.view.SetBackgroundColor(t.Bg)
}
