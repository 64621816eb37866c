package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/kayz/shopmate/internal/agent"
	"github.com/kayz/shopmate/internal/persist"
)

var (
	askTimeout int
	askVerbose bool
)

var askCmd = &cobra.Command{
	Use:   "ask [query]",
	Short: "Answer a single shopping query and exit",
	Args:  cobra.MinimumNArgs(1),
	Run:   runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)
	askCmd.Flags().IntVar(&askTimeout, "timeout", 60, "Overall timeout in seconds")
	askCmd.Flags().BoolVarP(&askVerbose, "verbose", "v", false, "Print the per-stage pipeline log")
}

func runAsk(cmd *cobra.Command, args []string) {
	a, err := buildApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer a.close()

	query := strings.Join(args, " ")
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(askTimeout)*time.Second)
	defer cancel()

	st := a.pipeline.Run(ctx, query)
	resp := agent.BuildResponse(st)

	if a.history != nil {
		ex := &persist.Exchange{RequestID: st.RequestID, Query: resp.Query, Answer: resp.Answer}
		if resp.Error != nil {
			ex.Error = *resp.Error
		}
		for _, res := range resp.Results {
			ex.Results = append(ex.Results, persist.StoredResult{
				Title:  res.Title,
				URL:    res.URL,
				Price:  res.Price,
				Score:  res.Score,
				Source: res.Source,
				Rank:   res.Rank,
			})
		}
		_ = a.history.SaveExchange(ex)
	}

	if resp.Error != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", *resp.Error)
	}
	fmt.Println(resp.Answer)

	if len(resp.Citations) > 0 {
		fmt.Println()
		for _, c := range resp.Citations {
			line := fmt.Sprintf("[%d] %s", c.Index, c.Title)
			if c.Price != nil {
				line += fmt.Sprintf(" — $%.2f", *c.Price)
			}
			if c.URL != "" {
				line += " " + c.URL
			}
			fmt.Println(line)
		}
	}

	if askVerbose {
		fmt.Println()
		for _, line := range resp.Log {
			fmt.Println(line)
		}
	}

	if resp.Error != nil {
		os.Exit(1)
	}
}
