package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"fleet-dashboard/pkg/utils"
)

func newLogsCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "logs <node>",
		Short: "Print a node's log file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			if err := utils.ValidateNodeName(name); err != nil {
				return err
			}
			s, err := opts.open(false)
			if err != nil {
				return err
			}
			defer s.Close()

			if err := refreshed(cmd, s); err != nil {
				return err
			}
			if err := s.panel.OpenLog(cmd.Context(), name); err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), s.panel.LogState().Content)
			return nil
		},
	}
}
