package login

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feelsunbreeze/skyward_gpa_tui/internal/grades"
	"github.com/feelsunbreeze/skyward_gpa_tui/internal/portal"
)

type status struct {
	message string
	percent int
	isError bool
}

type fakeUI struct {
	mu       sync.Mutex
	login    bool
	loading  bool
	results  bool
	report   *grades.Report
	statuses []status
	alerts   []string
	calls    []string
}

func newFakeUI() *fakeUI {
	return &fakeUI{login: true}
}

func (f *fakeUI) ShowLogin() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.login, f.loading, f.results = true, false, false
	f.calls = append(f.calls, "login")
}

func (f *fakeUI) ShowLoading() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.login, f.loading, f.results = false, true, false
	f.calls = append(f.calls, "loading")
}

func (f *fakeUI) ShowResults(report grades.Report) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.login, f.loading, f.results = false, false, true
	f.report = &report
	f.calls = append(f.calls, "results")
}

func (f *fakeUI) SetStatus(message string, percent int, isError bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statuses = append(f.statuses, status{message, percent, isError})
	f.calls = append(f.calls, "status")
}

func (f *fakeUI) Alert(message string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.alerts = append(f.alerts, message)
	f.calls = append(f.calls, "alert")
}

func (f *fakeUI) lastStatus() status {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.statuses[len(f.statuses)-1]
}

type fakeBackend struct {
	result       grades.Result
	err          error
	events       []portal.ProgressEvent
	progressErr  error
	waitForPolls int32

	progressCalls  atomic.Int32
	calculateCalls atomic.Int32
	sessionID      atomic.Value
}

func (f *fakeBackend) Calculate(ctx context.Context, _ portal.Credentials, sessionID string) (grades.Result, error) {
	f.calculateCalls.Add(1)
	f.sessionID.Store(sessionID)
	deadline := time.After(2 * time.Second)
	for f.progressCalls.Load() < f.waitForPolls {
		select {
		case <-deadline:
			return grades.Result{}, errors.New("poller never ran")
		case <-time.After(time.Millisecond):
		}
	}
	return f.result, f.err
}

func (f *fakeBackend) Progress(context.Context, string) ([]portal.ProgressEvent, error) {
	f.progressCalls.Add(1)
	return f.events, f.progressErr
}

func newTestRunner(backend Backend, ui UI) *Runner {
	return NewRunner(backend, ui, Options{
		PollInterval: 2 * time.Millisecond,
		Now:          func() time.Time { return time.UnixMilli(1700000000000) },
	})
}

func TestSubmitRejectsMissingCredentials(t *testing.T) {
	backend := &fakeBackend{}
	ui := newFakeUI()

	err := newTestRunner(backend, ui).Submit(context.Background(), portal.Credentials{Username: "jdoe"})

	assert.ErrorIs(t, err, ErrMissingCredentials)
	assert.Equal(t, []string{MissingCredentialsAlert}, ui.alerts)
	assert.Equal(t, []string{"alert"}, ui.calls)
	assert.True(t, ui.login)
	assert.Zero(t, backend.calculateCalls.Load())
	assert.Zero(t, backend.progressCalls.Load())
}

func TestSubmitSuccess(t *testing.T) {
	backend := &fakeBackend{
		result: grades.Result{
			Periods:    []string{"Q1"},
			Classes:    []grades.ClassGrades{{Name: "AP Calc", Grades: map[string]float64{"Q1": 97}}},
			Unweighted: map[string]float64{"Q1": 5.7},
			Weighted:   map[string]float64{"Q1": 7.7},
		},
		events: []portal.ProgressEvent{
			{Message: "Logging in...", Progress: 20},
			{Message: "Extracting grades...", Progress: 50},
		},
		waitForPolls: 2,
	}
	ui := newFakeUI()

	err := newTestRunner(backend, ui).Submit(context.Background(), portal.Credentials{Username: "jdoe", Password: "pw"})
	require.NoError(t, err)

	assert.Equal(t, "jdoe_1700000000000", backend.sessionID.Load())
	assert.True(t, ui.results)
	assert.False(t, ui.login)
	assert.False(t, ui.loading)
	assert.Empty(t, ui.alerts)
	require.NotNil(t, ui.report)
	assert.Equal(t, "Q1", ui.report.CurrentPeriod)
	assert.Equal(t, 7.7, ui.report.CurrentWeighted)

	assert.Equal(t, status{ConnectingStatus, 5, false}, ui.statuses[0])
	assert.Contains(t, ui.statuses, status{"Extracting grades...", 50, false})
	assert.NotContains(t, ui.statuses, status{"Logging in...", 20, false})
	assert.Equal(t, status{PreparingStatus, 95, false}, ui.lastStatus())
	assert.Equal(t, "results", ui.calls[len(ui.calls)-1])
}

func TestSubmitFailureRevertsToLogin(t *testing.T) {
	backend := &fakeBackend{
		err:          &portal.Error{Code: portal.ErrNetworkIssue, Message: "failed to reach server"},
		waitForPolls: 2,
	}
	ui := newFakeUI()

	err := newTestRunner(backend, ui).Submit(context.Background(), portal.Credentials{Username: "jdoe", Password: "pw"})
	require.Error(t, err)

	pollsAtReturn := backend.progressCalls.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, pollsAtReturn, backend.progressCalls.Load(), "poller kept running")

	assert.True(t, ui.login)
	assert.False(t, ui.loading)
	assert.False(t, ui.results)
	assert.Equal(t, []string{"Error: failed to reach server"}, ui.alerts)
	assert.Equal(t, status{"Error occurred: failed to reach server", 100, true}, ui.lastStatus())

	tail := ui.calls[len(ui.calls)-3:]
	assert.Equal(t, []string{"status", "login", "alert"}, tail)
}

func TestSubmitApplicationErrorTreatedLikeNetworkError(t *testing.T) {
	backend := &fakeBackend{err: &portal.Error{Code: portal.ErrServer, Message: "Invalid login"}}
	ui := newFakeUI()

	err := newTestRunner(backend, ui).Submit(context.Background(), portal.Credentials{Username: "jdoe", Password: "pw"})

	var portalErr *portal.Error
	require.True(t, errors.As(err, &portalErr))
	assert.Equal(t, portal.ErrServer, portalErr.Code)
	assert.True(t, ui.login)
	assert.Equal(t, []string{"Error: Invalid login"}, ui.alerts)
}

func TestPollFailuresAreSwallowed(t *testing.T) {
	backend := &fakeBackend{
		result:       grades.Result{Periods: []string{"Q1"}},
		progressErr:  errors.New("connection refused"),
		waitForPolls: 3,
	}
	ui := newFakeUI()

	err := newTestRunner(backend, ui).Submit(context.Background(), portal.Credentials{Username: "jdoe", Password: "pw"})
	require.NoError(t, err)

	assert.Empty(t, ui.alerts)
	assert.Len(t, ui.statuses, 2)
	assert.True(t, ui.results)
}

func TestEmptyProgressLeavesStatus(t *testing.T) {
	backend := &fakeBackend{
		result:       grades.Result{Periods: []string{"Q1"}},
		events:       []portal.ProgressEvent{},
		waitForPolls: 2,
	}
	ui := newFakeUI()

	require.NoError(t, newTestRunner(backend, ui).Submit(context.Background(), portal.Credentials{Username: "jdoe", Password: "pw"}))
	assert.Equal(t, []status{{ConnectingStatus, 5, false}, {PreparingStatus, 95, false}}, ui.statuses)
}
