package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSettingsCmd(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Manage backend credentials",
	}
	cmd.AddCommand(
		newSettingsShowCmd(s),
		newSettingsSetCmd(s),
		newSettingsClearCmd(s),
		newSettingsTestCmd(s),
	)
	return cmd
}

func newSettingsShowCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the stored URL and masked key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return s.app.Settings(cmd.Context())
		},
	}
}

func newSettingsSetCmd(s *session) *cobra.Command {
	var (
		url, key string
		test     bool
	)

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Save the backend URL and secret key",
		Long: `Saves the backend URL and secret key. Values missing from the flags are
prompted for; the key is read without echo on a terminal.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app := s.app
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			var err error
			if !cmd.Flags().Changed("url") {
				if url, err = GetSimpleText(app.reader, "Supabase URL", out); err != nil {
					return err
				}
			}
			if !cmd.Flags().Changed("key") {
				if key, err = GetSecret(app.reader, "Secret key", out); err != nil {
					return err
				}
			}

			app.settings.UpdateEndpoint(url)
			app.settings.UpdateSecretKey(key)
			if err := app.settings.Save(ctx); err != nil {
				return err
			}
			fmt.Fprintln(out, successColor.Sprint("Settings saved"))

			if test {
				return app.runConnectionTest(ctx)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&url, "url", "", "backend URL (https://<project>.supabase.co or postgres://...)")
	cmd.Flags().StringVar(&key, "key", "", "backend API key or database password")
	cmd.Flags().BoolVar(&test, "test", false, "test the connection after saving")
	return cmd
}

func newSettingsClearCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Forget the stored credentials",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := s.app.ClearSettings(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Settings cleared")
			return nil
		},
	}
}

func newSettingsTestCmd(s *session) *cobra.Command {
	var url, key string

	cmd := &cobra.Command{
		Use:   "test",
		Short: "Test the backend connection",
		Long:  `Tests the stored credentials, or the ones given with --url/--key without saving them.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app := s.app
			ctx := cmd.Context()
			if err := app.settings.Load(ctx); err != nil {
				return err
			}
			if cmd.Flags().Changed("url") {
				app.settings.UpdateEndpoint(url)
			}
			if cmd.Flags().Changed("key") {
				app.settings.UpdateSecretKey(key)
			}
			return app.runConnectionTest(ctx)
		},
	}
	cmd.Flags().StringVar(&url, "url", "", "backend URL to test instead of the stored one")
	cmd.Flags().StringVar(&key, "key", "", "key to test instead of the stored one")
	return cmd
}
