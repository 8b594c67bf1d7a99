package cli

import (
	"daylist-cli/internal/session"
	"daylist-cli/internal/tui"

	"github.com/spf13/cobra"
)

func newTUICmd(app *App) *cobra.Command {
	var date string
	var hideLow bool

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Interactive day list (space to grab, arrows to move, space to drop)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkDate(date); err != nil {
				return writeErr(cmd, err)
			}
			c, err := newClient(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			items, err := c.ListTasks(cmd.Context(), date)
			if err != nil {
				return writeErr(cmd, err)
			}

			if !cmd.Flags().Changed("hide-low") {
				if cfg := loadConfig(); cfg.TUI != nil {
					hideLow = cfg.TUI.HideLow
				}
			}

			st := session.NewState(date, items)
			return tui.Run(tui.Options{
				State:   st,
				Persist: &session.Persistor{State: st, Remote: c},
				Loader:  c,
				HideLow: hideLow,
			})
		},
	}

	cmd.Flags().StringVar(&date, "date", today(), "Day (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&hideLow, "hide-low", false, "Start with low-priority tasks hidden (default: config tui.hideLow)")
	return cmd
}
