package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/VasupariSaikumar/EmployerReportsViewer/internal/client/export"
	"github.com/VasupariSaikumar/EmployerReportsViewer/internal/filex"
	"github.com/spf13/cobra"
)

func newExportCmd(s *session) *cobra.Command {
	var (
		sel    selectionFlags
		path   string
		format string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write filtered records to an XLSX or CSV file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if format == "" {
				format = formatFromPath(path)
			}
			if format != export.FormatXLSX && format != export.FormatCSV {
				return fmt.Errorf("unsupported export format %q", format)
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

			if _, err := filex.EnsureParentDir(path, 0o755); err != nil {
				return err
			}
			f, err := os.Create(path)
			if err != nil {
				return err
			}
			if err := export.Write(f, format, st.FilteredRecords, app.engine.Now()); err != nil {
				_ = f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d records to %s\n", len(st.FilteredRecords), path)
			return nil
		},
	}
	sel.register(cmd)
	cmd.Flags().StringVar(&path, "out", "", "output file")
	cmd.Flags().StringVar(&format, "format", "", "xlsx or csv (default: from the file extension)")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}

func formatFromPath(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return export.FormatCSV
	}
	return export.FormatXLSX
}
