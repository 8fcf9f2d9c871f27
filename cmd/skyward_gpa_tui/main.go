package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/feelsunbreeze/skyward_gpa_tui/internal/config"
	"github.com/feelsunbreeze/skyward_gpa_tui/internal/logging"
	"github.com/feelsunbreeze/skyward_gpa_tui/internal/login"
	"github.com/feelsunbreeze/skyward_gpa_tui/internal/portal"
)

type app struct {
	cfg    config.Config
	client *portal.Client
	logger *slog.Logger
	closer io.Closer
}

func loadApp(configPath, serverURL string) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if serverURL != "" {
		cfg.ServerURL = serverURL
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}

	logger, closer := logging.New(cfg.LogFile, cfg.LogLevel)
	client, err := portal.NewClient(cfg.ServerURL, nil, logger)
	if err != nil {
		_ = closer.Close()
		return nil, err
	}
	return &app{cfg: cfg, client: client, logger: logger, closer: closer}, nil
}

func (a *app) Close() error {
	return a.closer.Close()
}

func (a *app) newRunner(ui login.UI) *login.Runner {
	return login.NewRunner(a.client, ui, login.Options{
		PollInterval: a.cfg.PollInterval,
		PrepareDelay: a.cfg.PrepareDelay,
		ErrorDelay:   a.cfg.ErrorDelay,
		Logger:       a.logger,
	})
}

func StartTUI(a *app) error {
	store, err := portal.DefaultCredentialStore()
	if err != nil {
		return err
	}

	ui := &programUI{}
	p := tea.NewProgram(NewModel(a.newRunner(ui), store), tea.WithAltScreen())
	ui.attach(p)

	_, err = p.Run()
	return err
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath, serverURL string

	root := &cobra.Command{
		Use:           "skyward_gpa_tui",
		Short:         "Skyward GPA calculator for the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			a, err := loadApp(configPath, serverURL)
			if err != nil {
				return err
			}
			defer a.Close()
			return StartTUI(a)
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default: user config dir)")
	root.PersistentFlags().StringVar(&serverURL, "server", "", "GPA server URL, overrides the config file")

	root.AddCommand(newFetchCmd(&configPath, &serverURL))
	return root
}

func newFetchCmd(configPath, serverURL *string) *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Calculate GPAs without the interactive UI and print the report",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if password == "" {
				password = os.Getenv("SKYWARD_PASSWORD")
			}

			a, err := loadApp(*configPath, *serverURL)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			ui := &streamUI{errOut: cmd.ErrOrStderr()}
			err = a.newRunner(ui).Submit(ctx, portal.Credentials{Username: username, Password: password})
			if err != nil {
				if errors.Is(err, login.ErrMissingCredentials) {
					return fmt.Errorf("--username and --password (or SKYWARD_PASSWORD) are required")
				}
				return fmt.Errorf("failed to calculate GPA: %w", err)
			}
			if ui.report == nil {
				return fmt.Errorf("failed to calculate GPA: no results received")
			}

			_, err = fmt.Fprint(cmd.OutOrStdout(), renderReport(*ui.report))
			return err
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "Skyward username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Skyward password (or set SKYWARD_PASSWORD)")
	return cmd
}
