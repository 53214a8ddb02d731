package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/augmentorium/augmentorium/internal/config"
	"github.com/augmentorium/augmentorium/internal/coordinator"
	"github.com/augmentorium/augmentorium/internal/model"
)

var (
	indexQuiet bool
	indexWatch bool
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Index every configured project once, then exit (or keep watching with --watch)",
	RunE:  runIndex,
}

func init() {
	indexCmd.Flags().BoolVar(&indexQuiet, "quiet", false, "suppress the progress bar")
	indexCmd.Flags().BoolVar(&indexWatch, "watch", false, "keep watching for file changes after the initial index")
	rootCmd.AddCommand(indexCmd)
}

// runIndex loads the root config, syncs every configured project (spawning
// one full index per project), waits for all of them to settle, and prints
// a summary, covering every project the root config names rather than a
// single project.
func runIndex(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	loader := config.NewLoader(cfgFile)
	cfg, err := loader.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if err := checkEmbeddingProvider(ctx, cfg); err != nil {
		return err
	}

	co := coordinator.New(loader, cfg)
	if err := co.Sync(ctx); err != nil {
		return fmt.Errorf("sync projects: %w", err)
	}

	names := make([]string, 0, len(cfg.Projects))
	for name := range cfg.Projects {
		names = append(names, name)
	}

	var bar *progressbarCloser
	if !indexQuiet {
		bar = newIndexingSpinner(len(names))
	}

	pending := make(map[string]bool, len(names))
	for _, name := range names {
		pending[name] = true
	}

	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()
	deadline := time.After(10 * time.Minute)

waitLoop:
	for len(pending) > 0 {
		select {
		case <-ctx.Done():
			break waitLoop
		case <-deadline:
			fmt.Fprintln(os.Stderr, "timed out waiting for indexing to settle")
			break waitLoop
		case <-ticker.C:
			for name := range pending {
				stats, err := co.Stats(name)
				if err != nil {
					continue
				}
				if stats.Status.State != model.StateIndexing {
					delete(pending, name)
					if bar != nil {
						bar.Add(1)
					}
				}
			}
		}
	}
	if bar != nil {
		bar.Close()
	}

	for _, name := range names {
		stats, err := co.Stats(name)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", name, err)
			continue
		}
		fmt.Printf("%s: %d chunks, %d nodes, %d edges (%s)\n", name, stats.ChunkCount, stats.NodeCount, stats.EdgeCount, stats.Status.State)
	}

	if indexWatch {
		<-ctx.Done()
	}
	co.StopAll()
	return nil
}
