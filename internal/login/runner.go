package login

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/feelsunbreeze/skyward_gpa_tui/internal/grades"
	"github.com/feelsunbreeze/skyward_gpa_tui/internal/portal"
)

var ErrMissingCredentials = errors.New("please enter both username and password")

const (
	MissingCredentialsAlert = "Please enter both username and password"
	ConnectingStatus        = "Connecting to Skyward..."
	PreparingStatus         = "Preparing results..."
)

// UI is the display the runner drives. Calls may come from several
// goroutines; implementations serialise them.
type UI interface {
	ShowLogin()
	ShowLoading()
	ShowResults(report grades.Report)
	SetStatus(message string, percent int, isError bool)
	Alert(message string)
}

type Backend interface {
	Calculate(ctx context.Context, credentials portal.Credentials, sessionID string) (grades.Result, error)
	Progress(ctx context.Context, sessionID string) ([]portal.ProgressEvent, error)
}

type Options struct {
	PollInterval time.Duration
	PrepareDelay time.Duration
	ErrorDelay   time.Duration
	Now          func() time.Time
	Logger       *slog.Logger
}

type Runner struct {
	backend Backend
	ui      UI
	opts    Options
}

func NewRunner(backend Backend, ui UI, opts Options) *Runner {
	if opts.PollInterval <= 0 {
		opts.PollInterval = 500 * time.Millisecond
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Runner{backend: backend, ui: ui, opts: opts}
}

// Submit performs one login attempt and leaves the UI either on the results
// or back on the login form. It returns the error shown to the user, if any.
func (r *Runner) Submit(ctx context.Context, credentials portal.Credentials) error {
	if !credentials.Complete() {
		r.ui.Alert(MissingCredentialsAlert)
		return ErrMissingCredentials
	}

	r.ui.ShowLoading()
	r.ui.SetStatus(ConnectingStatus, 5, false)

	sessionID := portal.NewSessionID(credentials.Username, r.opts.Now())
	logger := r.opts.Logger.With("session", sessionID)
	logger.Info("submitting credentials")

	result, err := r.calculate(ctx, credentials, sessionID, logger)
	if err != nil {
		logger.Error("calculate failed", "error", err)
		r.ui.SetStatus("Error occurred: "+err.Error(), 100, true)
		sleep(ctx, r.opts.ErrorDelay)
		r.ui.ShowLogin()
		r.ui.Alert("Error: " + err.Error())
		return err
	}

	r.ui.SetStatus(PreparingStatus, 95, false)
	sleep(ctx, r.opts.PrepareDelay)

	r.ui.ShowResults(grades.Build(result))
	logger.Info("results ready", "classes", len(result.Classes), "periods", len(result.Periods))
	return nil
}

// calculate runs the compute request with the progress poller as a child
// task. The poller is stopped and joined before calculate returns, whatever
// the outcome, so no poll write can land after the caller's own status.
func (r *Runner) calculate(ctx context.Context, credentials portal.Credentials, sessionID string, logger *slog.Logger) (grades.Result, error) {
	pollCtx, stopPolling := context.WithCancel(ctx)
	defer stopPolling()

	g, pollCtx := errgroup.WithContext(pollCtx)
	g.Go(func() error {
		r.poll(pollCtx, sessionID, logger)
		return nil
	})

	result, err := r.backend.Calculate(ctx, credentials, sessionID)

	stopPolling()
	_ = g.Wait()
	return result, err
}

func (r *Runner) poll(ctx context.Context, sessionID string, logger *slog.Logger) {
	ticker := time.NewTicker(r.opts.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.pollOnce(ctx, sessionID, logger)
		}
	}
}

func (r *Runner) pollOnce(ctx context.Context, sessionID string, logger *slog.Logger) {
	events, err := r.backend.Progress(ctx, sessionID)
	if err != nil {
		if ctx.Err() == nil {
			logger.Warn("progress poll failed", "error", err)
		}
		return
	}
	if len(events) == 0 || ctx.Err() != nil {
		return
	}
	latest := events[len(events)-1]
	r.ui.SetStatus(latest.Message, latest.Progress, false)
}

func sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
