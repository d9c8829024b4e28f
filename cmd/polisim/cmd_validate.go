package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a roster file without running a simulation",
		Long: `Parse and validate a roster: field ranges, duplicate ids, ideal vector
dimensions, and that every edge and party names a declared member.

Examples:
  polisim validate -c congress.toml
  polisim validate -c congress.db --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")

			g, roster, err := loadRoster(cmd)
			if err != nil {
				return err
			}

			if jsonOut {
				return writeJSON(cmd.OutOrStdout(), map[string]interface{}{
					"valid":     true,
					"dimension": g.Dimension(),
					"members":   g.Len(),
					"parties":   len(roster.Parties),
					"edges":     len(roster.Edges),
				})
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Roster OK: %d members, %d parties, %d edges (dimension %d)\n",
				g.Len(), len(roster.Parties), len(roster.Edges), g.Dimension())
			return nil
		},
	}

	addRosterFlag(cmd)
	return cmd
}
