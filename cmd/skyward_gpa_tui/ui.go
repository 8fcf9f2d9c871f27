package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/feelsunbreeze/skyward_gpa_tui/internal/grades"
	"github.com/feelsunbreeze/skyward_gpa_tui/internal/login"
	"github.com/feelsunbreeze/skyward_gpa_tui/internal/portal"
)

const (
	WHITE      = lipgloss.Color("#FFFFFF")
	NAVY       = lipgloss.Color("#1C3764")
	BRICK      = lipgloss.Color("#A23422")
	GREY       = lipgloss.Color("#626262")
	RED        = lipgloss.Color("#FF5555")
	LIGHT_BLUE = lipgloss.Color("#8BE9FD")
)

type ViewType int

const (
	LoginView ViewType = iota
	LoadingView
	ResultView
)

const (
	fieldUsername = iota
	fieldPassword
	fieldRememberMe
	fieldLoginButton
	fieldCount
)

type submitter interface {
	Submit(ctx context.Context, credentials portal.Credentials) error
}

type credentialStore interface {
	Save(portal.Credentials) error
	Load() (portal.Credentials, error)
	Delete() error
}

type model struct {
	width        int
	height       int
	currentView  ViewType
	Credentials  portal.Credentials
	rememberMe   bool
	focusedField int
	showPassword bool
	submitting   bool
	alert        string
	status       StatusMsg

	spinner       spinner.Model
	progress      progress.Model
	errorProgress progress.Model

	report       *grades.Report
	tables       []table.Model
	focusedTable int
	chartCursor  int

	ctx    context.Context
	cancel context.CancelFunc
	runner submitter
	store  credentialStore
}

func NewModel(runner submitter, store credentialStore) model {
	creds, err := store.Load()

	startView := LoginView
	var shouldAutoLogin bool
	if err == nil && creds.Complete() {
		startView = LoadingView
		shouldAutoLogin = true
	}

	s := spinner.New()
	s.Style = lipgloss.NewStyle().Foreground(NAVY)
	s.Spinner = spinner.Points

	ctx, cancel := context.WithCancel(context.Background())

	return model{
		currentView:   startView,
		Credentials:   creds,
		focusedField:  fieldUsername,
		rememberMe:    shouldAutoLogin,
		submitting:    shouldAutoLogin,
		spinner:       s,
		progress:      progress.New(progress.WithSolidFill(string(NAVY)), progress.WithWidth(40)),
		errorProgress: progress.New(progress.WithSolidFill(string(RED)), progress.WithWidth(40)),
		ctx:           ctx,
		cancel:        cancel,
		runner:        runner,
		store:         store,
	}
}

func (m model) Init() tea.Cmd {
	if m.currentView == LoadingView && m.submitting {
		return tea.Batch(m.spinner.Tick, m.submitCmd())
	}
	return m.spinner.Tick
}

func (m model) submitCmd() tea.Cmd {
	runner, ctx, creds := m.runner, m.ctx, m.Credentials
	return func() tea.Msg {
		return SubmitDoneMsg{Err: runner.Submit(ctx, creds)}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case spinner.TickMsg:
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case ShowViewMsg:
		m.currentView = msg.View
		if msg.View == LoadingView {
			m.status = StatusMsg{}
		}

	case StatusMsg:
		m.status = msg

	case ResultsMsg:
		m.setReport(msg.Report)
		m.currentView = ResultView

	case AlertMsg:
		m.alert = msg.Text

	case SubmitDoneMsg:
		m.submitting = false
		if msg.Err != nil {
			break
		}
		if m.rememberMe {
			_ = m.store.Save(m.Credentials)
		} else {
			_ = m.store.Delete()
		}

	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	}

	return m, nil
}

func (m model) quit() (tea.Model, tea.Cmd) {
	m.cancel()
	return m, tea.Quit
}

func (m model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m.quit()
	}
	// alerts block every other key until dismissed
	if m.alert != "" {
		switch msg.String() {
		case "enter", "esc", " ":
			m.alert = ""
		}
		return m, nil
	}

	switch m.currentView {
	case LoginView:
		return m.handleLoginKeys(msg)
	case LoadingView:
		return m.handleLoadingKeys(msg)
	case ResultView:
		return m.handleResultKeys(msg)
	default:
		return m, nil
	}
}

func (m model) handleLoadingKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m.quit()
	}
	return m, nil
}

func (m model) handleLoginKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.showPassword = !m.showPassword

	case "tab", "down":
		m.focusedField = (m.focusedField + 1) % fieldCount

	case "shift+tab", "up":
		m.focusedField = (m.focusedField - 1 + fieldCount) % fieldCount

	case "enter":
		switch m.focusedField {
		case fieldRememberMe:
			m.rememberMe = !m.rememberMe
		case fieldUsername:
			m.focusedField = fieldPassword
		case fieldPassword, fieldLoginButton:
			return m.submit()
		}

	case " ":
		if m.focusedField == fieldRememberMe {
			m.rememberMe = !m.rememberMe
		} else if m.focusedField == fieldLoginButton {
			return m.submit()
		}

	case "backspace":
		if m.focusedField == fieldUsername && len(m.Credentials.Username) > 0 {
			m.Credentials.Username = m.Credentials.Username[:len(m.Credentials.Username)-1]
		} else if m.focusedField == fieldPassword && len(m.Credentials.Password) > 0 {
			m.Credentials.Password = m.Credentials.Password[:len(m.Credentials.Password)-1]
		}

	default:
		if msg.Type != tea.KeyRunes {
			return m, nil
		}
		if m.focusedField == fieldUsername {
			m.Credentials.Username += string(msg.Runes)
		} else if m.focusedField == fieldPassword {
			m.Credentials.Password += string(msg.Runes)
		} else if msg.String() == "q" {
			return m.quit()
		}
	}
	return m, nil
}

// submit validates locally so the alert shows without a round trip through
// the runner; the runner repeats the check for headless callers.
func (m model) submit() (tea.Model, tea.Cmd) {
	if m.submitting {
		return m, nil
	}
	if !m.Credentials.Complete() {
		m.alert = login.MissingCredentialsAlert
		return m, nil
	}
	m.submitting = true
	return m, tea.Batch(m.spinner.Tick, m.submitCmd())
}

func (m model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m.quit()
	case "tab":
		if len(m.tables) > 0 {
			m.tables[m.focusedTable].Blur()
			m.focusedTable = (m.focusedTable + 1) % len(m.tables)
			m.tables[m.focusedTable].Focus()
		}
	case "left", "h":
		if m.chartCursor > 0 {
			m.chartCursor--
		}
	case "right", "l":
		if m.report != nil && m.chartCursor < len(m.report.Chart.Series)-1 {
			m.chartCursor++
		}
	case "up", "k", "down", "j":
		if len(m.tables) > 0 {
			var cmd tea.Cmd
			m.tables[m.focusedTable], cmd = m.tables[m.focusedTable].Update(msg)
			return m, cmd
		}
	case "r":
		m.resetToLogin()
	}
	return m, nil
}

func (m *model) setReport(report grades.Report) {
	m.report = &report
	m.tables = nil
	for _, t := range []grades.Table{report.Grades, report.Unweighted, report.Weighted} {
		if t.Empty() {
			continue
		}
		m.tables = append(m.tables, newTable(t))
	}
	m.focusedTable = 0
	if len(m.tables) > 0 {
		m.tables[0].Focus()
	}
	m.chartCursor = max(len(report.Chart.Series)-1, 0)
}

func (m *model) resetToLogin() {
	_ = m.store.Delete()
	m.rememberMe = false
	m.currentView = LoginView
	m.Credentials = portal.Credentials{}
	m.focusedField = fieldUsername
	m.report = nil
	m.tables = nil
	m.status = StatusMsg{}
}

func newTable(t grades.Table) table.Model {
	columns := make([]table.Column, len(t.Headers))
	for i, header := range t.Headers {
		width := lipgloss.Width(header)
		for _, row := range t.Rows {
			width = max(width, lipgloss.Width(row[i]))
		}
		columns[i] = table.Column{Title: header, Width: width + 1}
	}

	rows := make([]table.Row, len(t.Rows))
	for i, row := range t.Rows {
		rows[i] = table.Row(row)
	}

	tbl := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithHeight(min(max(len(rows), 1)+2, 14)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(NAVY).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(WHITE).
		Background(NAVY).
		Bold(true)
	tbl.SetStyles(s)

	return tbl
}

func (m model) View() string {
	switch m.currentView {
	case LoginView:
		return m.renderLogin()
	case LoadingView:
		return m.renderLoading()
	case ResultView:
		return m.renderResults()
	default:
		return "Unknown view"
	}
}

func (m model) renderAlert() string {
	alertStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(RED).
		Foreground(WHITE).
		Padding(1, 3).
		Width(50).
		Align(lipgloss.Center)

	helpStyle := lipgloss.NewStyle().
		Foreground(GREY).
		MarginTop(1)

	content := lipgloss.JoinVertical(lipgloss.Center,
		lipgloss.NewStyle().Bold(true).Foreground(RED).Render("⚠ Alert"),
		"",
		m.alert,
		helpStyle.Render("• Enter: OK"),
	)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, alertStyle.Render(content))
}

func (m model) renderLogin() string {
	if m.alert != "" {
		return m.renderAlert()
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(LIGHT_BLUE).
		MarginBottom(2)

	labelStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(WHITE)

	inputStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(WHITE).
		Padding(0, 1).
		Width(30).
		MarginBottom(1)

	focusedInputStyle := inputStyle.
		BorderForeground(NAVY)

	checkboxStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(WHITE)

	focusedStyle := checkboxStyle.
		Foreground(NAVY)

	buttonStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(WHITE).
		Padding(0, 2).
		Margin(1, 0).
		Border(lipgloss.RoundedBorder())

	focusedButtonStyle := buttonStyle.
		Background(NAVY)

	helpStyle := lipgloss.NewStyle().
		Foreground(GREY)

	title := titleStyle.Render("Skyward GPA Calculator")

	var usernameInput string
	usernameValue := m.Credentials.Username
	if m.focusedField == fieldUsername {
		usernameValue += "│"
		usernameInput = focusedInputStyle.Render(usernameValue)
	} else {
		if usernameValue == "" {
			usernameValue = "Enter your Skyward username"
		}
		usernameInput = inputStyle.Render(usernameValue)
	}
	usernameField := lipgloss.JoinVertical(lipgloss.Left, labelStyle.Render("Username:"), usernameInput)

	var passwordInput string
	var passwordValue string
	if m.showPassword {
		passwordValue = m.Credentials.Password
	} else {
		passwordValue = strings.Repeat("*", len(m.Credentials.Password))
	}
	if m.focusedField == fieldPassword {
		passwordValue += "│"
		passwordInput = focusedInputStyle.Render(passwordValue)
	} else {
		if len(m.Credentials.Password) == 0 {
			passwordValue = "Enter your password"
		}
		passwordInput = inputStyle.Render(passwordValue)
	}
	passwordField := lipgloss.JoinVertical(lipgloss.Left, labelStyle.Render("Password:"), passwordInput)

	checkboxChar := "○"
	if m.rememberMe {
		checkboxChar = "●"
	}

	var rememberMeField string
	if m.focusedField == fieldRememberMe {
		rememberMeField = focusedStyle.Render(fmt.Sprintf("%s Remember me", checkboxChar))
	} else {
		rememberMeField = checkboxStyle.Render(fmt.Sprintf("%s Remember me", checkboxChar))
	}

	var loginButton string
	if m.focusedField == fieldLoginButton {
		loginButton = focusedButtonStyle.Render("Calculate GPA")
	} else {
		loginButton = buttonStyle.Render("Calculate GPA")
	}

	helpText := helpStyle.Render("• ↑/↓: Navigate • Esc: Show password • Enter/Space: Select • Ctrl+C: Quit")

	content := lipgloss.JoinVertical(lipgloss.Center, title, usernameField, passwordField, rememberMeField, loginButton, "", helpText)

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

func (m model) renderLoading() string {
	reasonStyle := lipgloss.NewStyle().
		Foreground(WHITE).
		Bold(true).
		MarginBottom(1)

	helpStyle := lipgloss.NewStyle().
		Foreground(GREY).
		MarginTop(1)

	message := m.status.Message
	if message == "" {
		message = login.ConnectingStatus
	}

	var bar string
	if m.status.IsError {
		reasonStyle = reasonStyle.Foreground(RED)
		bar = m.errorProgress.ViewAs(1)
	} else {
		bar = m.progress.ViewAs(float64(m.status.Percent) / 100)
	}

	content := lipgloss.JoinVertical(lipgloss.Center,
		reasonStyle.Render("🎓 Calculating your GPA, please wait"),
		m.spinner.View(),
		message,
		bar,
		helpStyle.Render("This can take a minute while your gradebook is read"),
		helpStyle.Render("• Q: Quit"),
	)

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

func (m model) renderResults() string {
	if m.report == nil {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			lipgloss.NewStyle().Foreground(RED).Render("No results available"))
	}
	report := m.report

	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(LIGHT_BLUE).
		MarginBottom(1)

	sectionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(WHITE).
		MarginTop(1)

	placeholderStyle := lipgloss.NewStyle().
		Foreground(GREY)

	helpStyle := lipgloss.NewStyle().
		Foreground(GREY).
		MarginTop(1)

	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		gpaCard("Current Unweighted GPA", report.CurrentUnweighted, NAVY),
		"  ",
		gpaCard("Current Weighted GPA", report.CurrentWeighted, BRICK),
	)

	tableIndex := 0
	section := func(title string, t grades.Table) string {
		if t.Empty() {
			return lipgloss.JoinVertical(lipgloss.Left, sectionStyle.Render(title), placeholderStyle.Render(t.Placeholder))
		}
		view := m.tables[tableIndex].View()
		tableIndex++
		return lipgloss.JoinVertical(lipgloss.Left, sectionStyle.Render(title), view)
	}

	gradesSection := section("Grades", report.Grades)
	gpaSections := lipgloss.JoinHorizontal(lipgloss.Top,
		section("Unweighted GPA", report.Unweighted),
		"    ",
		section("Weighted GPA", report.Weighted),
	)

	chart := lipgloss.JoinVertical(lipgloss.Left,
		sectionStyle.Render("Weighted GPA History"),
		renderChart(report.Chart, m.chartCursor),
	)

	title := "📊 GPA Results"
	if report.CurrentPeriod != "" {
		title = fmt.Sprintf("📊 GPA Results - %s", report.CurrentPeriod)
	}

	content := lipgloss.JoinVertical(lipgloss.Center,
		headerStyle.Render(title),
		cards,
		gradesSection,
		gpaSections,
		chart,
		helpStyle.Render("• Tab: Switch table • ↑/↓: Scroll • ←/→: Chart points • R: Log out • Q: Quit"),
	)

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

func gpaCard(title string, gpa float64, accent lipgloss.Color) string {
	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.ThickBorder(), false, false, false, true).
		BorderForeground(accent).
		Padding(0, 2).
		Width(28)

	value := lipgloss.NewStyle().Bold(true).Foreground(accent).Render(fmt.Sprintf("%.2f", gpa))
	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().Foreground(WHITE).Render(title),
		value,
	))
}
