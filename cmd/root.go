package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kayz/shopmate/internal/debug"
	"github.com/kayz/shopmate/internal/logger"
)

var (
	logLevel string
	cfgPath  string
)

var rootCmd = &cobra.Command{
	Use:   "shopmate",
	Short: "shopmate shopping assistant runtime",
	Long: `shopmate answers shopping questions by fusing a local product catalog
with live marketplace search into ranked, cited recommendations.

Modes:
  shopmate serve    Run the HTTP API and web UI
  shopmate mcp      Expose the pipeline as MCP tools over stdio
  shopmate ask      Answer a single query and exit`,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if debug.Enabled && !cmd.Flags().Changed("log") {
			logLevel = "debug"
		}
		level, err := logger.ParseLevel(logLevel)
		if err != nil {
			return err
		}
		logger.SetLevel(level)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "info",
		"Log level: trace, debug, info, warn, error, fatal, panic")
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "",
		"Path to the config file (default: .shopmate.yaml next to the binary, then ~/.shopmate/config.yaml)")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
