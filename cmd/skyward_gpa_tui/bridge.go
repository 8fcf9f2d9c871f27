package main

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/feelsunbreeze/skyward_gpa_tui/internal/grades"
)

type ShowViewMsg struct {
	View ViewType
}

type StatusMsg struct {
	Message string
	Percent int
	IsError bool
}

type ResultsMsg struct {
	Report grades.Report
}

type AlertMsg struct {
	Text string
}

type SubmitDoneMsg struct {
	Err error
}

// programUI forwards runner calls into the bubbletea event loop, which
// applies them one at a time in the order they were sent.
type programUI struct {
	mu      sync.Mutex
	program *tea.Program
}

func (u *programUI) attach(p *tea.Program) {
	u.mu.Lock()
	u.program = p
	u.mu.Unlock()
}

func (u *programUI) send(msg tea.Msg) {
	u.mu.Lock()
	p := u.program
	u.mu.Unlock()
	if p != nil {
		p.Send(msg)
	}
}

func (u *programUI) ShowLogin()   { u.send(ShowViewMsg{View: LoginView}) }
func (u *programUI) ShowLoading() { u.send(ShowViewMsg{View: LoadingView}) }

func (u *programUI) ShowResults(report grades.Report) {
	u.send(ResultsMsg{Report: report})
}

func (u *programUI) SetStatus(message string, percent int, isError bool) {
	u.send(StatusMsg{Message: message, Percent: percent, IsError: isError})
}

func (u *programUI) Alert(message string) {
	u.send(AlertMsg{Text: message})
}
