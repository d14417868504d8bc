package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const appName = "ClickBreak"

var version = "dev"

// options holds the global flags shared by every command.
type options struct {
	configPath   string
	settingsPath string
}

// newRootCmd builds the command tree. The root command runs the desktop app.
func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "clickbreak",
		Short: "ClickBreak - a click counter that makes you take breaks",
		Long: `ClickBreak counts your mouse clicks and, once you reach your click goal,
covers the screen with a 15 minute break countdown. Clicks are counted inside the
ClickBreak window and, optionally, system-wide.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDesktop(cmd, opts)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "Path to runtime configuration file (default <config dir>/ClickBreak/config.yaml)")
	flags.StringVar(&opts.settingsPath, "settings-file", "", "Path to the user settings file (default <config dir>/ClickBreak/settings.yaml)")
	flags.String("log-level", "", "Log level: debug, info, warn, error")
	flags.String("log-format", "", "Log format: text or json")
	flags.Bool("system-wide", false, "Count clicks outside the ClickBreak window")

	rootCmd.AddCommand(newTUICmd(opts), newSettingsCmd(opts))
	return rootCmd
}

// Execute runs the CLI and exits non-zero on error.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
