package main

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feelsunbreeze/skyward_gpa_tui/internal/grades"
	"github.com/feelsunbreeze/skyward_gpa_tui/internal/login"
	"github.com/feelsunbreeze/skyward_gpa_tui/internal/portal"
)

type fakeSubmitter struct {
	got []portal.Credentials
	err error
}

func (f *fakeSubmitter) Submit(_ context.Context, creds portal.Credentials) error {
	f.got = append(f.got, creds)
	return f.err
}

type memoryStore struct {
	creds   *portal.Credentials
	deleted int
}

func (s *memoryStore) Save(c portal.Credentials) error {
	s.creds = &c
	return nil
}

func (s *memoryStore) Load() (portal.Credentials, error) {
	if s.creds == nil {
		return portal.Credentials{}, errors.New("no creds")
	}
	return *s.creds, nil
}

func (s *memoryStore) Delete() error {
	s.creds = nil
	s.deleted++
	return nil
}

func update(t *testing.T, m model, msg tea.Msg) (model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(model)
	require.True(t, ok)
	return nm, cmd
}

func typeText(t *testing.T, m model, text string) model {
	for _, r := range text {
		m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func sampleReport() grades.Report {
	return grades.Build(grades.Result{
		Periods: []string{"Q1", "Q2"},
		Classes: []grades.ClassGrades{
			{Name: "AP Calc", Grades: map[string]float64{"Q1": 95, "Q2": 97}},
			{Name: "Biology", Grades: map[string]float64{"Q1": 90}},
		},
		Unweighted: map[string]float64{"Q1": 5.25},
		Weighted:   map[string]float64{"Q1": 6.25, "Q2": 6.5},
	})
}

func TestLoginRequiresBothFields(t *testing.T) {
	runner := &fakeSubmitter{}
	m := NewModel(runner, &memoryStore{})
	m = typeText(t, m, "jdoe")
	m.focusedField = fieldLoginButton

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
	assert.Equal(t, login.MissingCredentialsAlert, m.alert)
	assert.Equal(t, LoginView, m.currentView)
	assert.False(t, m.submitting)
	assert.Empty(t, runner.got)
	assert.Contains(t, m.View(), login.MissingCredentialsAlert)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	assert.NotEmpty(t, m.alert, "alert must block other keys")

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Empty(t, m.alert)
}

func TestLoginSubmits(t *testing.T) {
	runner := &fakeSubmitter{}
	m := NewModel(runner, &memoryStore{})

	m = typeText(t, m, "jdoe")
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m = typeText(t, m, "secret!")
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyBackspace})

	assert.Equal(t, portal.Credentials{Username: "jdoe", Password: "secret"}, m.Credentials)

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.True(t, m.submitting)

	msg := m.submitCmd()()
	assert.Equal(t, SubmitDoneMsg{}, msg)
	assert.Equal(t, []portal.Credentials{{Username: "jdoe", Password: "secret"}}, runner.got)

	_, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd, "second submit while in flight is ignored")
}

func TestRunnerMessagesDriveViews(t *testing.T) {
	m := NewModel(&fakeSubmitter{}, &memoryStore{})

	m, _ = update(t, m, ShowViewMsg{View: LoadingView})
	assert.Equal(t, LoadingView, m.currentView)
	assert.Contains(t, m.View(), login.ConnectingStatus)

	m, _ = update(t, m, StatusMsg{Message: "Extracting grades...", Percent: 50})
	assert.Contains(t, m.View(), "Extracting grades...")

	m, _ = update(t, m, StatusMsg{Message: "Error occurred: boom", Percent: 100, IsError: true})
	assert.Contains(t, m.View(), "Error occurred: boom")

	m, _ = update(t, m, ShowViewMsg{View: LoginView})
	m, _ = update(t, m, AlertMsg{Text: "Error: boom"})
	assert.Equal(t, LoginView, m.currentView)
	assert.Contains(t, m.View(), "Error: boom")
}

func TestResultsView(t *testing.T) {
	m := NewModel(&fakeSubmitter{}, &memoryStore{})

	m, _ = update(t, m, ResultsMsg{Report: sampleReport()})

	assert.Equal(t, ResultView, m.currentView)
	require.Len(t, m.tables, 3)
	assert.Equal(t, 1, m.chartCursor)

	view := m.View()
	assert.Contains(t, view, "AP Calc")
	assert.Contains(t, view, "GPA: 6.50")
	assert.Contains(t, view, "Maximum GPA (7.00)")

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	assert.Equal(t, 0, m.chartCursor)
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	assert.Equal(t, 0, m.chartCursor)
	assert.Contains(t, m.View(), "GPA: 6.25")

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, 1, m.focusedTable)
}

func TestResultsViewPlaceholders(t *testing.T) {
	m := NewModel(&fakeSubmitter{}, &memoryStore{})

	m, _ = update(t, m, ResultsMsg{Report: grades.Build(grades.Result{Periods: []string{"Q1"}})})

	assert.Empty(t, m.tables)
	view := m.View()
	assert.Contains(t, view, grades.NoGradesText)
	assert.Contains(t, view, grades.NoGPAText)
}

func TestRememberMe(t *testing.T) {
	store := &memoryStore{}
	m := NewModel(&fakeSubmitter{}, store)
	m.Credentials = portal.Credentials{Username: "jdoe", Password: "pw"}
	m.rememberMe = true

	m, _ = update(t, m, SubmitDoneMsg{Err: errors.New("boom")})
	assert.Nil(t, store.creds)

	m, _ = update(t, m, SubmitDoneMsg{})
	require.NotNil(t, store.creds)
	assert.Equal(t, "jdoe", store.creds.Username)

	auto := NewModel(&fakeSubmitter{}, store)
	assert.Equal(t, LoadingView, auto.currentView)
	assert.True(t, auto.submitting)
	assert.NotNil(t, auto.Init())

	m.currentView = ResultView
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	assert.Equal(t, LoginView, m.currentView)
	assert.Nil(t, store.creds)
	assert.Empty(t, m.Credentials.Username)
}
