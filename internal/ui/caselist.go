package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/welfaredesk/distress-console/internal/api"
)

// pageSizes are the fixed page-size options, cycled with '+'.
var pageSizes = []int{10, 25, 50}

var listHeaders = []string{"Reference", "Sender", "Received", "Subject", "Status", "Stage"}

// CaseList renders one server page of cases. Changing the page or the page
// size always refetches from the server; the table never slices client-side.
type CaseList struct {
	ui     *Console
	view   *tview.Flex
	table  *tview.Table
	footer *tview.TextView

	page     int
	pageSize int
	loading  bool
	errMsg   string
	rows     []caseRow
}

func newCaseList(ui *Console) *CaseList {
	v := &CaseList{ui: ui, page: 1, pageSize: pageSizes[0]}

	v.table = tview.NewTable()
	v.table.SetTitle(" Distress Cases ")
	v.table.SetTitleAlign(tview.AlignLeft)
	v.table.SetBorder(true)
	v.table.SetSelectable(true, false)
	// Pin header row so it stays visible when selecting/scrolling.
	v.table.SetFixed(1, 0)
	v.table.SetSelectedFunc(func(row, col int) {
		v.openRow(row)
	})
	v.table.SetInputCapture(v.handleInput)

	v.footer = tview.NewTextView()
	v.footer.SetDynamicColors(true)

	v.view = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(v.table, 0, 1, true).
		AddItem(v.footer, 1, 0, false)

	return v
}

func (v *CaseList) handleInput(ev *tcell.EventKey) *tcell.EventKey {
	if ev.Key() != tcell.KeyRune {
		return ev
	}
	switch ev.Rune() {
	case 'q':
		v.ui.Stop()
	case 'n':
		v.ui.ShowIntake()
	case 'r':
		v.refresh()
	case '[':
		v.setPage(-1)
	case ']':
		v.setPage(1)
	case '+':
		v.cyclePageSize()
	case 't':
		v.ui.cycleTheme()
	case 's':
		v.ui.signOut()
	default:
		return ev
	}
	return nil
}

// openRow navigates to the case behind a table row; row 0 is the header.
func (v *CaseList) openRow(row int) {
	if row < 1 || row-1 >= len(v.rows) {
		return
	}
	v.ui.ShowDetail(v.rows[row-1].id)
}

// refresh re-enters the loading state and fetches the current page.
func (v *CaseList) refresh() {
	v.loading = true
	v.errMsg = ""
	v.renderLoading()
	v.ui.spawn(v.reload)
}

// reload performs the fetch and posts the render back to the UI thread.
func (v *CaseList) reload() {
	page, size := v.page, v.pageSize
	cases, err := v.ui.svc.ListCases(v.ui.ctx, page, size)
	v.ui.post(func() {
		v.loading = false
		if err != nil {
			v.errMsg = api.ErrorMessage(err, "Error fetching cases")
			v.renderError()
			return
		}
		rows := make([]caseRow, 0, len(cases))
		for _, it := range cases {
			rows = append(rows, rowFromCase(it))
		}
		v.rows = rows
		v.renderRows()
	})
}

// setPage moves one page in either direction; page numbers start at 1.
func (v *CaseList) setPage(delta int) {
	next := v.page + delta
	if next < 1 || next == v.page {
		return
	}
	v.page = next
	v.refresh()
}

// cyclePageSize advances through the fixed page-size options and returns to
// the first page, since the old offset is meaningless under a new size.
func (v *CaseList) cyclePageSize() {
	for i, s := range pageSizes {
		if s == v.pageSize {
			v.pageSize = pageSizes[(i+1)%len(pageSizes)]
			break
		}
	}
	v.page = 1
	v.refresh()
}

func (v *CaseList) renderHeader() {
	for col, h := range listHeaders {
		v.table.SetCell(0, col, tview.NewTableCell(h).
			SetTextColor(v.ui.theme.TableHeader).
			SetBackgroundColor(v.ui.theme.TableHeaderBg).
			SetAttributes(tcell.AttrBold).
			SetSelectable(false))
	}
}

func (v *CaseList) renderLoading() {
	v.table.Clear()
	v.renderHeader()
	v.table.SetCell(1, 0, tview.NewTableCell("Loading...").
		SetTextColor(v.ui.theme.TableRowMuted))
	v.renderFooter()
}

func (v *CaseList) renderError() {
	v.table.Clear()
	v.renderHeader()
	v.table.SetCell(1, 0, tview.NewTableCell(v.errMsg).
		SetTextColor(v.ui.theme.Error))
	v.renderFooter()
}

func (v *CaseList) renderRows() {
	v.table.Clear()
	v.renderHeader()

	if len(v.rows) == 0 {
		v.table.SetCell(1, 0, tview.NewTableCell("No cases found").
			SetTextColor(v.ui.theme.TableRowMuted))
		v.renderFooter()
		return
	}

	for i, r := range v.rows {
		cells := []string{r.referenceNumber, r.senderName, r.receivingDate, r.subject, r.status, r.stage}
		for col, text := range cells {
			cell := tview.NewTableCell(text).SetTextColor(v.ui.theme.TableRow)
			if text == "" {
				cell.SetText("-").SetTextColor(v.ui.theme.TableRowMuted)
			}
			v.table.SetCell(i+1, col, cell)
		}
	}
	v.table.Select(1, 0)
	v.renderFooter()
}

func (v *CaseList) renderFooter() {
	t := v.ui.theme
	v.footer.SetText(fmt.Sprintf(
		" [%s]Page %d · %d/page[-]  [%s]Enter[-]:open [%s]n[-]:new [%s]r[-]:refresh [%s][ ][-]:page [%s]+[-]:size [%s]s[-]:sign out [%s]q[-]:quit",
		t.TagMuted, v.page, v.pageSize,
		t.TagAccent, t.TagAccent, t.TagAccent, t.TagAccent, t.TagAccent, t.TagAccent, t.TagAccent))
}

func (v *CaseList) applyTheme() {
	t := v.ui.theme
	v.table.SetBackgroundColor(t.Bg)
	v.table.SetBorderColor(t.Border)
	v.table.SetTitleColor(t.Header)
	v.table.SetSelectedStyle(tcell.StyleDefault.Background(t.SelectionBg).Foreground(t.SelectionFg))
	v.footer.SetBackgroundColor(t.Surface)
	v.view.SetBackgroundColor(t.Bg)
	v.renderFooter()
}
