package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"fleet-dashboard/internal/model"
	"fleet-dashboard/internal/pkg/labels"
	"fleet-dashboard/pkg/utils"
)

func actionNames() string {
	names := make([]string, 0, len(model.Actions()))
	for _, a := range model.Actions() {
		names = append(names, a.String())
	}
	return strings.Join(names, ", ")
}

func parseAction(s *session, name string) (model.Action, error) {
	action, ok := labels.NewResolver(s.logger.Logger).Action(name)
	if !ok {
		return 0, fmt.Errorf("unknown action %q (valid: %s)", name, actionNames())
	}
	return action, nil
}

func newDispatchCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "dispatch <node> <action>",
		Short: "Send a transition command to one node",
		Long:  "Send a transition command to one node. Actions: " + actionNames() + ".",
		Args:  cobra.ExactArgs(2),
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

			action, err := parseAction(s, args[1])
			if err != nil {
				return err
			}
			if err := refreshed(cmd, s); err != nil {
				return err
			}
			if err := s.panel.Dispatch(cmd.Context(), name, action); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s sent to %s\n", action, name)
			if entry, ok := s.panel.Snapshot().Find(name); ok {
				badge := model.StatusBadge(entry.Node)
				if badge.Busy {
					fmt.Fprintf(cmd.OutOrStdout(), "%s is transitioning\n", name)
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "%s is %s\n", name, badge.Text)
				}
			}
			return nil
		},
	}
}

func newDispatchAllCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "dispatch-all <action>",
		Short: "Send a transition command to every node",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open(false)
			if err != nil {
				return err
			}
			defer s.Close()

			action, err := parseAction(s, args[0])
			if err != nil {
				return err
			}
			if err := refreshed(cmd, s); err != nil {
				return err
			}
			results, err := s.panel.DispatchAll(cmd.Context(), action)
			if err != nil {
				return err
			}

			failed := 0
			out := cmd.OutOrStdout()
			for _, r := range results {
				if r.Success {
					fmt.Fprintf(out, "%-20s ok\n", r.Node)
					continue
				}
				failed++
				fmt.Fprintf(out, "%-20s failed: %s\n", r.Node, r.Error)
			}
			if failed > 0 {
				return fmt.Errorf("%s failed on %d of %d nodes", action, failed, len(results))
			}
			return nil
		},
	}
}
