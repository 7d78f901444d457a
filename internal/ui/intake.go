package ui

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/welfaredesk/distress-console/internal/api"
)

// Form item indices; validation and submission read fields by position.
const (
	fieldSender = iota
	fieldSubject
	fieldCountry
	fieldPerson
	fieldNature
	fieldDetails
)

// IntakeForm collects a new case and optional attachments. Submission
// creates the case first, then uploads the picked files one at a time in
// pick order; the first failed upload aborts the rest but never rolls the
// created case back.
type IntakeForm struct {
	ui         *Console
	view       *tview.Flex
	form       *tview.Form
	attachList *tview.List
	alert      *tview.TextView

	openedAt   time.Time
	submitting bool
}

func newIntakeForm(ui *Console) *IntakeForm {
	f := &IntakeForm{ui: ui}

	f.alert = tview.NewTextView()
	f.alert.SetDynamicColors(true)

	f.form = tview.NewForm()
	f.form.SetBorder(true)
	f.form.SetTitle(" New Distress Case ")
	f.form.SetTitleAlign(tview.AlignLeft)
	f.buildFormItems()
	f.form.SetCancelFunc(func() { f.ui.ShowList() })

	f.attachList = tview.NewList()
	f.attachList.ShowSecondaryText(false)
	f.attachList.SetBorder(true)
	f.attachList.SetTitleAlign(tview.AlignLeft)
	f.attachList.SetSelectedFunc(func(index int, mainText, secondaryText string, shortcut rune) {
		f.toggleAttachment(index)
	})
	f.attachList.SetInputCapture(func(ev *tcell.EventKey) *tcell.EventKey {
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyTab {
			f.ui.app.SetFocus(f.form)
			return nil
		}
		return ev
	})

	f.view = tview.NewFlex().SetDirection(tview.FlexColumn).
		AddItem(tview.NewFlex().SetDirection(tview.FlexRow).
			AddItem(f.alert, 1, 0, false).
			AddItem(f.form, 0, 1, true), 0, 2, true).
		AddItem(f.attachList, 0, 1, false)

	return f
}

func (f *IntakeForm) buildFormItems() {
	f.form.Clear(true)
	f.form.
		AddInputField("Sender Name", "", 40, nil, nil).
		AddInputField("Subject", "", 40, nil, nil).
		AddInputField("Country of Origin", "", 40, nil, nil).
		AddInputField("Distressed Person Name", "", 40, nil, nil).
		AddDropDown("Nature of Case", api.Natures, -1, nil).
		AddTextArea("Case Details", "", 40, 5, 0, nil)
	f.form.AddButton("Submit Case", f.submit)
	f.form.AddButton("Attachments", func() { f.ui.app.SetFocus(f.attachList) })
	f.form.AddButton("Cancel", func() { f.ui.ShowList() })
}

// reset prepares a fresh form. The receiving date is captured now, when the
// form opens, and is not operator-editable.
func (f *IntakeForm) reset() {
	f.openedAt = time.Now()
	f.submitting = false
	f.buildFormItems()
	f.clearAlert()
	if f.ui.picker != nil {
		if err := f.ui.picker.Refresh(); err != nil {
			f.ui.logger.Printf("attachment refresh: %v", err)
		}
		f.ui.picker.ClearPicks()
	}
	f.renderAttachments()
	f.applyTheme()
}

// values validates the required fields and assembles the create payload with
// the fixed initial workflow values.
func (f *IntakeForm) values() (api.Case, error) {
	text := func(i int) string {
		return strings.TrimSpace(f.form.GetFormItem(i).(*tview.InputField).GetText())
	}
	_, nature := f.form.GetFormItem(fieldNature).(*tview.DropDown).GetCurrentOption()
	details := strings.TrimSpace(f.form.GetFormItem(fieldDetails).(*tview.TextArea).GetText())

	c := api.Case{
		SenderName:           text(fieldSender),
		Subject:              text(fieldSubject),
		CountryOfOrigin:      text(fieldCountry),
		DistressedPersonName: text(fieldPerson),
		NatureOfCase:         nature,
		CaseDetails:          details,
		Status:               api.DefaultStatus,
		Stage:                api.DefaultStage,
	}
	if c.SenderName == "" || c.Subject == "" || c.CountryOfOrigin == "" ||
		c.DistressedPersonName == "" || c.NatureOfCase == "" || c.CaseDetails == "" {
		return api.Case{}, errors.New("All fields are required")
	}
	rd := f.openedAt
	c.ReceivingDate = &rd
	return c, nil
}

// submit runs the create-then-upload sequence. Uploads are strictly
// sequential in pick order; upload N+1 does not start until N resolves.
func (f *IntakeForm) submit() {
	if f.submitting {
		return
	}
	c, err := f.values()
	if err != nil {
		f.showAlert(err.Error())
		return
	}

	var files []string
	if f.ui.picker != nil {
		files = f.ui.picker.Picked()
	}

	f.clearAlert()
	f.setPhase("creating")
	f.ui.spawn(func() {
		created, err := f.ui.svc.CreateCase(f.ui.ctx, c)
		if err != nil {
			f.ui.post(func() {
				f.setPhase("")
				f.showAlert(api.ErrorMessage(err, "Error creating case"))
			})
			return
		}

		if len(files) > 0 {
			f.ui.post(func() { f.setPhase("uploading") })
			for _, path := range files {
				if _, err := f.ui.svc.UploadDocumentFile(f.ui.ctx, created.ID, path); err != nil {
					// The case stays created; only the remaining uploads are
					// abandoned.
					f.ui.logger.Printf("upload %s: %v", filepath.Base(path), err)
					f.ui.post(func() {
						f.setPhase("")
						f.showAlert("Error uploading files. Please try again.")
					})
					return
				}
			}
		}

		f.ui.post(func() {
			f.setPhase("")
			if f.ui.picker != nil {
				f.ui.picker.ClearPicks()
			}
			f.ui.ShowDetail(created.ID)
		})
	})
}

// setPhase toggles the in-flight flag and reflects the active phase on the
// submit control.
func (f *IntakeForm) setPhase(phase string) {
	f.submitting = phase != ""
	btn := f.form.GetButton(0)
	if btn == nil {
		return
	}
	switch phase {
	case "creating":
		btn.SetLabel("Creating...")
	case "uploading":
		btn.SetLabel("Uploading...")
	default:
		btn.SetLabel("Submit Case")
	}
}

func (f *IntakeForm) toggleAttachment(index int) {
	if f.ui.picker == nil {
		return
	}
	files := f.ui.picker.Files()
	if index < 0 || index >= len(files) {
		return
	}
	f.ui.picker.Toggle(files[index])
	f.renderAttachments()
}

// renderAttachments rebuilds the staging list. Called on open, on toggle,
// and from the staging-directory watcher.
func (f *IntakeForm) renderAttachments() {
	if f.ui.picker == nil {
		return
	}
	current := f.attachList.GetCurrentItem()
	f.attachList.Clear()

	files := f.ui.picker.Files()
	for _, path := range files {
		marker := "[ ]"
		if f.ui.picker.IsPicked(path) {
			marker = "[x]"
		}
		f.attachList.AddItem(fmt.Sprintf("%s %s", marker, filepath.Base(path)), "", 0, nil)
	}
	if len(files) == 0 {
		f.attachList.AddItem("(drop files into the staging directory)", "", 0, nil)
	}
	if current >= 0 && current < f.attachList.GetItemCount() {
		f.attachList.SetCurrentItem(current)
	}

	picked := len(f.ui.picker.Picked())
	f.attachList.SetTitle(fmt.Sprintf(" Attachments (%d selected) ", picked))
}

func (f *IntakeForm) showAlert(msg string) {
	f.alert.SetText(fmt.Sprintf(" [%s]%s[-]", f.ui.theme.TagError, msg))
}

func (f *IntakeForm) clearAlert() {
	f.alert.SetText("")
}

func (f *IntakeForm) applyTheme() {
	t := f.ui.theme
	f.form.SetBackgroundColor(t.Bg)
	f.form.SetFieldBackgroundColor(t.SelectionBg)
	f.form.SetFieldTextColor(t.TextPrimary)
	f.form.SetLabelColor(t.TextMuted)
	f.form.SetButtonBackgroundColor(t.SelectionBg)
	f.form.SetButtonTextColor(t.TextPrimary)
	f.form.SetBorderColor(t.Border)
	f.form.SetTitleColor(t.Header)
	f.attachList.SetBackgroundColor(t.Bg)
	f.attachList.SetBorderColor(t.Border)
	f.attachList.SetTitleColor(t.Header)
	f.attachList.SetMainTextColor(t.TextPrimary)
	f.attachList.SetSelectedBackgroundColor(t.SelectionBg)
	f.attachList.SetSelectedTextColor(t.SelectionFg)
	f.alert.SetBackgroundColor(t.Bg)
	f.view.SetBackgroundColor(t.Bg)
}
