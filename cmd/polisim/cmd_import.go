package main

import (
	"fmt"

	"github.com/nvandessel/polisim/internal/loader"
	"github.com/nvandessel/polisim/internal/store"
	"github.com/spf13/cobra"
)

func newImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Store a roster file in a SQLite database",
		Long: `Validate a roster file and save it into a SQLite roster database, replacing
any roster already stored there. The database can then be passed to --config
like any other roster file.

Examples:
  polisim import -c congress.toml --db congress.db
  polisim run -c congress.db`,
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")
			dbPath, _ := cmd.Flags().GetString("db")

			if format, err := loader.FormatFromPath(dbPath); err != nil || format != loader.FormatSQLite {
				return fmt.Errorf("--db must be a .db, .sqlite or .sqlite3 file, got %q", dbPath)
			}

			g, roster, err := loadRoster(cmd)
			if err != nil {
				return err
			}

			s, err := store.Open(dbPath)
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.SaveRoster(cmd.Context(), roster); err != nil {
				return err
			}

			if jsonOut {
				return writeJSON(cmd.OutOrStdout(), map[string]interface{}{
					"status":  "imported",
					"db":      s.Path(),
					"members": g.Len(),
					"parties": len(roster.Parties),
					"edges":   len(roster.Edges),
				})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d members, %d parties, %d edges into %s\n",
				g.Len(), len(roster.Parties), len(roster.Edges), s.Path())
			return nil
		},
	}

	addRosterFlag(cmd)
	cmd.Flags().String("db", "", "Target SQLite database")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}
