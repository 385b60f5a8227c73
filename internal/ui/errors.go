package ui

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/fatih/color"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"pta/internal/domain"
	"pta/internal/storage"
)

// ErrorViewer displays test failures in an interactive TUI
type ErrorViewer struct {
	storage storage.Storage
}

// NewErrorViewer creates a new ErrorViewer; resolved marks are written back through st.
func NewErrorViewer(st storage.Storage) *ErrorViewer {
	return &ErrorViewer{storage: st}
}

// View displays test failures in an interactive TUI
func (ev *ErrorViewer) View(results *domain.TestResultsOutput) error {
	if len(results.Details) == 0 {
		color.Green("✓ No test failures found!")
		return nil
	}

	fv := newFailureView(ev, results)
	if err := fv.app.SetRoot(fv.layout(), true).SetFocus(fv.list).Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

// failureView is the state of one viewer session.
type failureView struct {
	ev      *ErrorViewer
	results *domain.TestResultsOutput

	app     *tview.Application
	list    *tview.List
	header  *tview.TextView
	stats   *tview.TextView
	details *tview.TextView
}

func newFailureView(ev *ErrorViewer, results *domain.TestResultsOutput) *failureView {
	fv := &failureView{
		ev:      ev,
		results: results,
		app:     tview.NewApplication(),
		list: tview.NewList().
			ShowSecondaryText(false).
			SetHighlightFullLine(true),
		header: tview.NewTextView().
			SetTextAlign(tview.AlignCenter).
			SetDynamicColors(true),
		stats: tview.NewTextView().
			SetDynamicColors(true).
			SetWrap(false),
		details: tview.NewTextView().
			SetDynamicColors(true).
			SetWrap(true).
			SetWordWrap(true),
	}

	for i, failure := range results.Details {
		fv.list.AddItem(listItemText(failure, i+1, failure.Resolved), "", 0, nil)
	}
	fv.list.SetMainTextColor(tview.Styles.PrimaryTextColor).
		SetSelectedTextColor(tcell.ColorWhite).
		SetSelectedBackgroundColor(tcell.ColorDarkCyan)

	fv.list.SetChangedFunc(func(int, string, string, rune) { fv.showCurrent() })
	fv.list.SetInputCapture(fv.onListKey)
	fv.details.SetInputCapture(fv.onDetailsKey)

	fv.refreshHeader()
	fv.showCurrent()
	return fv
}

// layout puts the list on the left third and stats plus details on the right.
func (fv *failureView) layout() tview.Primitive {
	right := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(fv.stats, 3, 0, false).
		AddItem(tview.NewFlex().
			AddItem(fv.details, 0, 1, false).
			AddItem(tview.NewBox(), 2, 0, false), 0, 1, false)

	body := tview.NewFlex().
		AddItem(fv.list, 0, 1, true).
		AddItem(right, 0, 2, false)

	return tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(fv.header, 1, 0, false).
		AddItem(tview.NewBox(), 1, 0, false).
		AddItem(body, 0, 1, true)
}

func (fv *failureView) onListKey(event *tcell.EventKey) *tcell.EventKey {
	switch event.Key() {
	case tcell.KeyEnter, tcell.KeyRight:
		fv.app.SetFocus(fv.details)
		return nil
	case tcell.KeyCtrlC:
		fv.app.Stop()
		return nil
	case tcell.KeyRune:
		switch event.Rune() {
		case 'r', 'R':
			fv.toggleResolved(fv.list.GetCurrentItem())
			return nil
		case 'q':
			fv.app.Stop()
			return nil
		}
	}
	return event
}

func (fv *failureView) onDetailsKey(event *tcell.EventKey) *tcell.EventKey {
	switch event.Key() {
	case tcell.KeyLeft, tcell.KeyEsc:
		fv.app.SetFocus(fv.list)
		return nil
	case tcell.KeyCtrlC:
		fv.app.Stop()
		return nil
	}
	return event
}

// toggleResolved flips the resolved mark and writes the report back.
func (fv *failureView) toggleResolved(index int) {
	if index < 0 || index >= len(fv.results.Details) {
		return
	}
	failure := &fv.results.Details[index]
	failure.Resolved = !failure.Resolved
	fv.list.SetItemText(index, listItemText(*failure, index+1, failure.Resolved), "")
	fv.refreshHeader()
	fv.showCurrent()

	if fv.ev.storage == nil {
		return
	}
	if err := fv.ev.storage.SaveOutput(fv.results); err != nil {
		slog.Error("save resolved status", "error", err)
	}
}

func (fv *failureView) refreshHeader() {
	unresolved := 0
	for _, f := range fv.results.Details {
		if !f.Resolved {
			unresolved++
		}
	}
	fv.header.SetText(fmt.Sprintf(" Test Failures (%d total, %d unresolved) | ↑↓ navigate, [yellow]R[white] mark resolved, → details, ← back, q quit ",
		len(fv.results.Details), unresolved))
}

func (fv *failureView) showCurrent() {
	index := fv.list.GetCurrentItem()
	if index < 0 || index >= len(fv.results.Details) {
		return
	}
	failure := fv.results.Details[index]
	fv.stats.SetText(fv.ev.formatFailureStats(failure, index+1))
	fv.details.SetText(fv.ev.formatFailureDetails(failure))
}

func listItemText(failure domain.TestFailure, number int, resolved bool) string {
	testName := failure.TestName
	if testName == "" {
		testName = fmt.Sprintf("Test %d", number)
	}
	testName = tview.Escape(testName)
	if resolved {
		return fmt.Sprintf("[gray]✓ [yellow]%d.[gray] %s[white]", number, testName)
	}
	return fmt.Sprintf("[yellow]%d.[white] %s", number, testName)
}

// formatFailureDetails formats a test failure for display using tview color tags ([red], [cyan], etc.)
func (ev *ErrorViewer) formatFailureDetails(failure domain.TestFailure) string {
	var builder strings.Builder

	label := failure.Status
	if st, err := domain.ParseStatus(failure.Status); err == nil {
		label = st.String()
	}
	fmt.Fprintf(&builder, "[red]✗ %s: %s[white]\n\n", tview.Escape(label), tview.Escape(failure.TestName))
	fmt.Fprintf(&builder, "[cyan]File: %s[white]\n", tview.Escape(failure.FilePath))
	fmt.Fprintf(&builder, "[cyan]Duration: %.3fs[white]\n\n", failure.Seconds)

	if failure.Message != "" {
		fmt.Fprintf(&builder, "[yellow]Message:[white]\n%s\n\n", tview.Escape(failure.Message))
	}
	if failure.Output != "" {
		fmt.Fprintf(&builder, "[yellow]Captured Output:[white]\n%s\n", tview.Escape(failure.Output))
	}
	return builder.String()
}

// formatFailureStats formats the stats header for a test failure
func (ev *ErrorViewer) formatFailureStats(failure domain.TestFailure, number int) string {
	path := failure.FilePath
	if path == "" {
		path = "Unknown path"
	}
	testCase := failure.TestName
	if testCase == "" {
		testCase = fmt.Sprintf("Test %d", number)
	}
	return fmt.Sprintf("[cyan]path:[white] [yellow]%s[white]::[yellow]%s[white]\n", tview.Escape(path), tview.Escape(testCase))
}
