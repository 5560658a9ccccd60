package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"fleet-dashboard/internal/service"
	"fleet-dashboard/internal/tui"
)

func newStatusCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Print the fleet table once",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open(false)
			if err != nil {
				return err
			}
			defer s.Close()

			if err := refreshed(cmd, s); err != nil {
				return err
			}
			view := s.panel.View()

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, tui.RenderOverall(view.Overall, tui.DefaultTheme))
			fmt.Fprintln(out, tui.RenderTable(view.Rows, tui.DefaultTheme, tui.TableOptions{}))
			if len(view.Routers) > 0 {
				fmt.Fprintln(out, tui.RenderRouters(view.Routers, tui.DefaultTheme, 0))
			}
			if len(view.Logs) > 0 {
				fmt.Fprintln(out, tui.RenderLogs(view.Logs, tui.DefaultTheme, 0))
			}
			for _, row := range view.Rows {
				if row.ConfigError != "" {
					fmt.Fprintf(out, "%s: %s\n", row.Name, row.ConfigError)
				}
			}
			if e := view.LastError; e != nil {
				fmt.Fprintf(out, "warning: %s: %s\n", e.Message, e.Details)
			}
			fmt.Fprintf(out, "%d nodes, fetched %s\n", len(view.Rows), view.FetchedAt.Format(time.RFC3339))
			return nil
		},
	}
}

// refreshed loads the snapshot dispatch commands resolve node names
// against.
func refreshed(cmd *cobra.Command, s *session) error {
	_, err := s.panel.Refresh(cmd.Context())
	if err != nil && !errors.Is(err, service.ErrStaleCycle) {
		return err
	}
	return nil
}
