package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/VasupariSaikumar/EmployerReportsViewer/internal/client/config"
	"github.com/VasupariSaikumar/EmployerReportsViewer/internal/client/filter"
	"github.com/VasupariSaikumar/EmployerReportsViewer/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type rootOptions struct {
	version string
	in      io.Reader
	out     io.Writer
	errOut  io.Writer
	clock   filter.Clock
}

type Option func(*rootOptions)

// WithInput replaces stdin for prompts and the REPL.
func WithInput(r io.Reader) Option { return func(o *rootOptions) { o.in = r } }

// WithOutput replaces stdout and stderr.
func WithOutput(out, errOut io.Writer) Option {
	return func(o *rootOptions) { o.out, o.errOut = out, errOut }
}

// WithVersion sets the string printed by --version.
func WithVersion(v string) Option { return func(o *rootOptions) { o.version = v } }

// WithClock fixes "now" for date filters.
func WithClock(c filter.Clock) Option { return func(o *rootOptions) { o.clock = c } }

// session carries the App built by PersistentPreRunE to the subcommands.
type session struct {
	opts   rootOptions
	config *config.Config
	logger *logging.SlogLogger
	app    *App
}

// Execute runs the command line in args and releases the App afterwards.
func Execute(ctx context.Context, args []string, opts ...Option) error {
	s := &session{opts: rootOptions{in: os.Stdin, out: os.Stdout, errOut: os.Stderr}}
	for _, opt := range opts {
		opt(&s.opts)
	}

	root := newRootCmd(s)
	root.SetArgs(args)
	root.SetIn(s.opts.in)
	root.SetOut(s.opts.out)
	root.SetErr(s.opts.errOut)

	err := root.ExecuteContext(ctx)
	if s.app != nil {
		if cerr := s.app.Close(context.Background()); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

func newRootCmd(s *session) *cobra.Command {
	root := &cobra.Command{
		Use:     "reportsviewer",
		Version: s.opts.version,
		Short:   "Employer attendance reports viewer",
		Long: `reportsviewer reads employee attendance records from a Supabase
(PostgREST) or PostgreSQL backend and shows them filtered by employee and
date window. Backend credentials are kept in a local settings database.`,
		PersistentPreRunE: s.setup,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}
	config.RegisterFlags(root.PersistentFlags())

	root.AddCommand(
		newReportCmd(s),
		newEmployeesCmd(s),
		newSettingsCmd(s),
		newExportCmd(s),
		newReplCmd(s),
		newServeCmd(s),
	)
	return root
}

func (s *session) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(viper.New(), cmd.Flags())
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	s.config = cfg

	logger, err := logging.New(s.opts.errOut, cfg.LogFormat, cfg.LogLevel)
	if err != nil {
		return err
	}
	s.logger = logger

	app, err := NewApp(cmd.Context(), cfg, logger, s.opts.clock, s.opts.in, s.opts.out)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	s.app = app
	return nil
}
