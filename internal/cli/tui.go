package cli

import (
	"clickbreak/internal/quotes"
	"clickbreak/internal/tui"
	"github.com/spf13/cobra"
)

func newTUICmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run ClickBreak in the terminal",
		Long:  `Run ClickBreak as a terminal application. Mouse presses inside the terminal count as clicks.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := bootstrap(cmd, opts)
			if err != nil {
				return err
			}
			defer rt.close()

			rt.session.Start()
			return tui.Run(rt.session, quotes.NewPicker(nil))
		},
	}
}
