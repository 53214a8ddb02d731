package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/augmentorium/augmentorium/internal/config"
	"github.com/augmentorium/augmentorium/internal/coordinator"
	"github.com/augmentorium/augmentorium/internal/mcpserver"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server for semantic code search over stdio",
	RunE:  runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

// runMCP loads config, syncs every configured project, and serves the MCP
// tools over stdio until a shutdown signal arrives, covering every project
// the root config names rather than a single project bound at startup.
func runMCP(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	loader := config.NewLoader(cfgFile)
	cfg, err := loader.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	co := coordinator.New(loader, cfg)
	if err := co.Sync(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: initial project sync failed: %v\n", err)
	}
	defer co.StopAll()

	s := mcpserver.New(co)
	fmt.Fprintf(os.Stderr, "mcp: serving %d project(s) over stdio\n", len(cfg.Projects))
	return mcpserver.Serve(ctx, s)
}
