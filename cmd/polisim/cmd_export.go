package main

import (
	"fmt"

	"github.com/nvandessel/polisim/internal/loader"
	"github.com/spf13/cobra"
)

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Convert a roster to another format",
		Long: `Validate a roster and write it to --out in the format implied by the
extension (.toml, .yaml, .json or .db). Use it to dump a roster database
back to an editable file or to convert between text formats.

Examples:
  polisim export -c congress.db --out congress.toml
  polisim export -c congress.yaml --out congress.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")
			outPath, _ := cmd.Flags().GetString("out")

			if _, err := loader.FormatFromPath(outPath); err != nil {
				return err
			}

			g, roster, err := loadRoster(cmd)
			if err != nil {
				return err
			}

			if err := loader.WriteFile(cmd.Context(), outPath, roster); err != nil {
				return err
			}

			if jsonOut {
				return writeJSON(cmd.OutOrStdout(), map[string]interface{}{
					"status":  "exported",
					"out":     outPath,
					"members": g.Len(),
				})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d members to %s\n", g.Len(), outPath)
			return nil
		},
	}

	addRosterFlag(cmd)
	cmd.Flags().String("out", "", "Output roster file")
	_ = cmd.MarkFlagRequired("out")

	return cmd
}
