package main

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	ltable "github.com/charmbracelet/lipgloss/table"

	"github.com/feelsunbreeze/skyward_gpa_tui/internal/grades"
)

// streamUI is the headless login.UI: status lines go to errOut, the report is
// kept for printing once the runner returns.
type streamUI struct {
	mu         sync.Mutex
	errOut     io.Writer
	report     *grades.Report
	lastStatus string
	alerts     int
}

func (u *streamUI) ShowLogin()   {}
func (u *streamUI) ShowLoading() {}

func (u *streamUI) ShowResults(report grades.Report) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.report = &report
}

func (u *streamUI) SetStatus(message string, percent int, isError bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	line := fmt.Sprintf("[%3d%%] %s", percent, message)
	if isError {
		line = "[fail] " + message
	}
	if line == u.lastStatus {
		return
	}
	u.lastStatus = line
	_, _ = fmt.Fprintln(u.errOut, line)
}

func (u *streamUI) Alert(message string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.alerts++
	_, _ = fmt.Fprintln(u.errOut, message)
}

func renderReport(report grades.Report) string {
	sectionStyle := lipgloss.NewStyle().Bold(true).MarginTop(1)

	current := fmt.Sprintf("Current Unweighted GPA: %.2f\nCurrent Weighted GPA:   %.2f",
		report.CurrentUnweighted, report.CurrentWeighted)
	if report.CurrentPeriod != "" {
		current = fmt.Sprintf("Current period: %s\n%s", report.CurrentPeriod, current)
	}

	parts := []string{
		current,
		sectionStyle.Render("Grades"),
		renderStaticTable(report.Grades),
		sectionStyle.Render("Unweighted GPA"),
		renderStaticTable(report.Unweighted),
		sectionStyle.Render("Weighted GPA"),
		renderStaticTable(report.Weighted),
		sectionStyle.Render("Weighted GPA History"),
		renderChart(report.Chart, -1),
	}
	return strings.Join(parts, "\n") + "\n"
}

func renderStaticTable(t grades.Table) string {
	if t.Empty() {
		return t.Placeholder
	}

	headerStyle := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)

	return ltable.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(NAVY)).
		Headers(t.Headers...).
		Rows(t.Rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == ltable.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		String()
}
