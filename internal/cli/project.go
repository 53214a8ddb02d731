package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/augmentorium/augmentorium/internal/config"
	"github.com/augmentorium/augmentorium/internal/coordinator"
	"github.com/augmentorium/augmentorium/internal/model"
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Manage registered projects",
}

var projectAddCmd = &cobra.Command{
	Use:   "add [root-path]",
	Short: "Register a project against the running config and index it once",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectAdd,
}

var projectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every registered project and its root path",
	RunE:  runProjectList,
}

var projectRemoveCmd = &cobra.Command{
	Use:   "remove [name]",
	Short: "Stop and unregister a project",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectRemove,
}

var projectAddName string

func init() {
	projectAddCmd.Flags().StringVar(&projectAddName, "name", "", "project name (default: the root path's base name)")
	projectCmd.AddCommand(projectAddCmd, projectListCmd, projectRemoveCmd)
	rootCmd.AddCommand(projectCmd)
}

// runProjectAdd mirrors the HTTP API's POST /api/projects/ as a one-shot CLI
// call: it registers the project in-memory, runs one full index, prints the
// resulting stats, then exits.
func runProjectAdd(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	root := args[0]

	loader := config.NewLoader(cfgFile)
	cfg, err := loader.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	co := coordinator.New(loader, cfg)
	if err := co.Sync(ctx); err != nil {
		return fmt.Errorf("sync existing projects: %w", err)
	}
	defer co.StopAll()

	name := projectAddName
	if name == "" {
		abs, err := filepath.Abs(root)
		if err != nil {
			return fmt.Errorf("resolve %s: %w", root, err)
		}
		name = filepath.Base(abs)
	}

	p, err := co.AddProject(ctx, name, root)
	if err != nil {
		return err
	}

	for {
		stats, err := co.Stats(p.Name)
		if err != nil {
			return err
		}
		if stats.Status.State != model.StateIndexing {
			fmt.Printf("%s: %d chunks, %d nodes, %d edges (%s)\n", p.Name, stats.ChunkCount, stats.NodeCount, stats.EdgeCount, stats.Status.State)
			return nil
		}
		time.Sleep(200 * time.Millisecond)
	}
}

func runProjectList(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	loader := config.NewLoader(cfgFile)
	cfg, err := loader.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	co := coordinator.New(loader, cfg)
	if err := co.Sync(ctx); err != nil {
		return fmt.Errorf("sync projects: %w", err)
	}
	defer co.StopAll()

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tROOT")
	for _, p := range co.Projects() {
		fmt.Fprintf(tw, "%s\t%s\n", p.Name, p.Root)
	}
	return tw.Flush()
}

func runProjectRemove(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	name := args[0]

	loader := config.NewLoader(cfgFile)
	cfg, err := loader.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	co := coordinator.New(loader, cfg)
	if err := co.Sync(ctx); err != nil {
		return fmt.Errorf("sync projects: %w", err)
	}
	co.RemoveProject(name)
	co.StopAll()
	fmt.Printf("removed %s\n", name)
	return nil
}
