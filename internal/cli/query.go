package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/augmentorium/augmentorium/internal/config"
	"github.com/augmentorium/augmentorium/internal/coordinator"
	"github.com/augmentorium/augmentorium/internal/query"
)

var (
	queryProject  string
	queryNResults int
	queryMinScore float32
	queryFileName string
	queryJSON     bool
)

var queryCmd = &cobra.Command{
	Use:   "query [text]",
	Short: "Run one query against a registered project and print the results",
	Args:  cobra.ExactArgs(1),
	RunE:  runQuery,
}

func init() {
	queryCmd.Flags().StringVar(&queryProject, "project", "", "registered project name (required)")
	queryCmd.Flags().IntVar(&queryNResults, "n-results", 0, "maximum number of results (default: config default)")
	queryCmd.Flags().Float32Var(&queryMinScore, "min-score", 0, "minimum similarity score")
	queryCmd.Flags().StringVar(&queryFileName, "file-name", "", "restrict results to one file name or path")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "print the raw JSON response instead of a text summary")
	queryCmd.MarkFlagRequired("project")
	rootCmd.AddCommand(queryCmd)
}

// runQuery loads config, syncs every configured project, and runs a single
// Query Engine pass against the named one — a one-shot equivalent of the
// HTTP API's POST /api/query/.
func runQuery(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	text := args[0]

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
	defer co.StopAll()

	resp, err := co.Query(ctx, queryProject, query.Request{
		Text:     text,
		NResults: queryNResults,
		MinScore: queryMinScore,
		FileName: queryFileName,
	})
	if err != nil {
		return err
	}

	if queryJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}

	fmt.Println(resp.Context)
	fmt.Printf("\n(%d results", len(resp.Results))
	if resp.Truncated {
		fmt.Printf(", %d truncated", resp.TruncatedCount)
	}
	fmt.Println(")")
	return nil
}
