package cmd

import (
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/kayz/shopmate/internal/logger"
	"github.com/kayz/shopmate/internal/tools"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Expose the shopping pipeline as MCP tools over stdio",
	Run:   runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) {
	a, err := buildApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer a.close()

	s := server.NewMCPServer("shopmate", appVersion)
	tools.Register(s, tools.Deps{
		Runner:         a.pipeline,
		Catalog:        a.catalog,
		Web:            a.web,
		AllowedDomains: a.cfg.Retrieval.AllowedDomains,
		TopK:           a.cfg.Retrieval.TopK,
	})

	logger.Info("shopmate MCP server ready on stdio")
	if err := server.ServeStdio(s); err != nil {
		logger.Fatal("mcp server error: %v", err)
	}
}
