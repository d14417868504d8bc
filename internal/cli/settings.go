package cli

import (
	"fmt"
	"io"

	"clickbreak/internal/core/model"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newSettingsCmd(opts *options) *cobra.Command {
	settingsCmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change user settings",
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the saved settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(opts)
			if err != nil {
				return err
			}
			settings, err := store.Load()
			if err != nil {
				return fmt.Errorf("load settings: %w", err)
			}
			printSettings(cmd.OutOrStdout(), store.Path(), settings)
			return nil
		},
	}

	var (
		name string
		goal int
	)
	setCmd := &cobra.Command{
		Use:   "set",
		Short: "Change the saved settings",
		Example: `  clickbreak settings set --name Ada
  clickbreak settings set --goal 500`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("name") && !cmd.Flags().Changed("goal") {
				return fmt.Errorf("nothing to change: pass --name and/or --goal")
			}

			store, err := openStore(opts)
			if err != nil {
				return err
			}
			settings, err := store.Load()
			if err != nil {
				return fmt.Errorf("load settings: %w", err)
			}
			if cmd.Flags().Changed("name") {
				settings.DisplayName = name
			}
			if cmd.Flags().Changed("goal") {
				settings.ClickGoal = goal
			}

			settings = settings.Normalized()
			if err := settings.Validate(); err != nil {
				return err
			}
			if err := store.Save(settings); err != nil {
				return err
			}

			green := color.New(color.FgGreen, color.Bold)
			green.Fprintln(cmd.OutOrStdout(), "Settings saved")
			printSettings(cmd.OutOrStdout(), store.Path(), settings)
			return nil
		},
	}
	setCmd.Flags().StringVar(&name, "name", "", "Display name")
	setCmd.Flags().IntVar(&goal, "goal", 0, "Clicks before a break (positive)")

	settingsCmd.AddCommand(showCmd, setCmd)
	return settingsCmd
}

func printSettings(out io.Writer, path string, settings model.Settings) {
	cyan := color.New(color.FgCyan, color.Bold)
	yellow := color.New(color.FgYellow)

	cyan.Fprintln(out, "ClickBreak settings")
	fmt.Fprintf(out, "  %-14s %s\n", "Display name:", settings.DisplayName)
	fmt.Fprintf(out, "  %-14s %d\n", "Click goal:", settings.ClickGoal)
	yellow.Fprintf(out, "  %-14s %s\n", "File:", path)
}
