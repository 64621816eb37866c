package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/kayz/shopmate/internal/persist"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recently answered queries",
	Run:   runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Number of entries to show")
}

func runHistory(cmd *cobra.Command, args []string) {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if cfg.History.Path == "" {
		fmt.Fprintln(os.Stderr, "History is disabled: set history.path in the config file")
		os.Exit(1)
	}

	store, err := persist.NewStore(cfg.History.Path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	exchanges, err := store.RecentExchanges(historyLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if len(exchanges) == 0 {
		fmt.Println("No queries answered yet.")
		return
	}

	for _, ex := range exchanges {
		fmt.Printf("%s  %s\n", ex.CreatedAt.Format(time.RFC3339), ex.Query)
		if ex.Error != "" {
			fmt.Printf("    error: %s\n", ex.Error)
			continue
		}
		fmt.Printf("    %s\n", ex.Answer)
	}
}
