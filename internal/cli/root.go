// Package cli implements the augmentorium command-line entrypoint: a
// persistent --config flag bound through viper's AutomaticEnv/OnInitialize
// idiom, one file per subcommand, each registering itself onto rootCmd
// from its own init().
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "augmentorium",
	Short: "A code-aware retrieval-augmented generation backend",
	Long: `augmentorium indexes a codebase into a vector store and a call/reference
graph, then serves semantic search over both through an HTTP API, an MCP
server, or the command line directly.`,
}

// Execute runs the root command; called once from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "root config file (default: ./augmentorium.yaml)")
	viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
}

func initConfig() {
	if cfgFile == "" {
		cfgFile = "augmentorium.yaml"
	}
}
