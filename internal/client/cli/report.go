package cli

import (
	"fmt"
	"strings"

	"github.com/VasupariSaikumar/EmployerReportsViewer/internal/client/filter"
	"github.com/spf13/cobra"
)

// selectionFlags are shared by report and export.
type selectionFlags struct {
	employee string
	bucket   string
}

func (f *selectionFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.employee, "employee", "e", "", "employee id (default: all employees)")
	cmd.Flags().StringVarP(&f.bucket, "filter", "f", "all", "date window: all, today, week, month")
}

func (f *selectionFlags) parse() (*string, filter.DateBucket, error) {
	bucket, err := filter.ParseDateBucket(f.bucket)
	if err != nil {
		return nil, "", err
	}
	emp := strings.TrimSpace(f.employee)
	if emp == "" || strings.EqualFold(emp, "all") {
		return nil, bucket, nil
	}
	return &emp, bucket, nil
}

func newReportCmd(s *session) *cobra.Command {
	var (
		sel    selectionFlags
		format string
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print attendance records",
		Long: `Loads every attendance record from the backend and prints those matching
--employee and --filter, newest punch-in first.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			switch format {
			case FormatTable, FormatSimple, FormatJSON:
			default:
				return fmt.Errorf("unknown output format %q", format)
			}
			emp, bucket, err := sel.parse()
			if err != nil {
				return err
			}

			app := s.app
			st, err := app.load(cmd.Context(), emp, bucket)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if err := printRecords(out, format, st.FilteredRecords, app.loc()); err != nil {
				return err
			}
			if format != FormatJSON && len(st.FilteredRecords) > 0 {
				printStats(out, st.Stats)
			}
			return nil
		},
	}
	sel.register(cmd)
	cmd.Flags().StringVarP(&format, "format", "o", FormatTable, "output format: table, simple, json")
	return cmd
}

func newEmployeesCmd(s *session) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "employees",
		Short: "List distinct employee ids",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app := s.app
			creds, err := app.credentials(cmd.Context())
			if err != nil {
				return err
			}
			ids, err := app.repo.GetUniqueEmployeeIDs(cmd.Context(), creds)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return printJSON(out, ids)
			}
			if len(ids) == 0 {
				fmt.Fprintln(out, "No employees found")
				return nil
			}
			for _, id := range ids {
				fmt.Fprintln(out, id)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print as a JSON array")
	return cmd
}
