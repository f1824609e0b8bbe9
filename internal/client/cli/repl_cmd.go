package cli

import (
	"bufio"
	"errors"
	"fmt"

	"github.com/VasupariSaikumar/EmployerReportsViewer/internal/client/reports"
	"github.com/spf13/cobra"
)

func newReplCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Interactive report browser",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app := s.app
			ctx := cmd.Context()

			printlnFn("Employer Reports Viewer (type 'help' for commands)")
			if err := app.Refresh(ctx); err != nil {
				if errors.Is(err, reports.ErrNotConfigured) {
					printlnFn(reports.MsgNotConfigured + " (reportsviewer settings set)")
				} else {
					printlnFn(fmt.Sprintf("Error: %v", err))
				}
			}

			runREPL(ctx, app, app.status, bufio.NewScanner(app.reader))
			return nil
		},
	}
}
