package main

import (
	"fmt"

	"github.com/nvandessel/polisim/internal/mcp"
	"github.com/spf13/cobra"
)

func newMCPServerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp-server",
		Short: "Serve simulations over the Model Context Protocol (stdio)",
		Long: `Start an MCP server on stdin/stdout exposing the polisim_simulate,
polisim_validate and polisim_graph tools. Roster paths given to the tools
are resolved inside --root; paths escaping it are rejected.

Tool calls are recorded in <root>/.polisim/audit.jsonl.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			root, _ := cmd.Flags().GetString("root")

			settings, err := loadSettings(cmd)
			if err != nil {
				return err
			}

			server, err := mcp.NewServer(&mcp.Config{
				Name:     "polisim",
				Version:  version,
				Root:     root,
				Settings: settings,
				Logger:   newLogger(cmd, settings),
			})
			if err != nil {
				return fmt.Errorf("failed to create MCP server: %w", err)
			}
			defer server.Close()

			return server.Run(cmd.Context())
		},
	}

	cmd.Flags().String("root", ".", "Directory roster paths are resolved against")
	return cmd
}
