// Package tools exposes the shopping pipeline over the Model Context
// Protocol so MCP clients can call it as tools.
package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/kayz/shopmate/internal/agent"
	"github.com/kayz/shopmate/internal/catalog"
	"github.com/kayz/shopmate/internal/logger"
)

// QueryRunner answers one shopping query end to end.
type QueryRunner interface {
	Run(ctx context.Context, query string) *agent.ConversationState
}

// Deps are the collaborators the MCP tools call into. Nothing here is
// global: the caller owns construction and lifetime.
type Deps struct {
	Runner         QueryRunner
	Catalog        catalog.Searcher
	Web            agent.WebSearcher
	AllowedDomains []string
	TopK           int
}

// Register adds the shopping tools to the MCP server.
func Register(s *server.MCPServer, deps Deps) {
	if deps.TopK <= 0 {
		deps.TopK = 5
	}

	shopQueryTool := mcp.NewTool("shop_query",
		mcp.WithDescription("Answer a shopping question with ranked, cited product recommendations from the catalog and live marketplace search"),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("The shopping question, e.g. 'eco stainless steel cleaner under $15'"),
		),
	)
	s.AddTool(shopQueryTool, shopQueryHandler(deps))

	catalogSearchTool := mcp.NewTool("catalog_search",
		mcp.WithDescription("Semantic search over the indexed product catalog only"),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Free-text product description"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of results"),
		),
	)
	s.AddTool(catalogSearchTool, catalogSearchHandler(deps))

	webSearchTool := mcp.NewTool("web_search",
		mcp.WithDescription("Live marketplace web search restricted to the allowed shopping domains"),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Free-text product description"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of results"),
		),
	)
	s.AddTool(webSearchTool, webSearchHandler(deps))
}

func shopQueryHandler(deps Deps) func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query, ok := request.Params.Arguments["query"].(string)
		if !ok || query == "" {
			return mcp.NewToolResultText("error: query must be a non-empty string"), nil
		}
		if deps.Runner == nil {
			return mcp.NewToolResultText("error: pipeline is not configured"), nil
		}

		logger.Debug("mcp shop_query: %s", query)
		st := deps.Runner.Run(ctx, query)
		return jsonResult(agent.BuildResponse(st))
	}
}

func catalogSearchHandler(deps Deps) func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query, ok := request.Params.Arguments["query"].(string)
		if !ok || query == "" {
			return mcp.NewToolResultText("error: query must be a non-empty string"), nil
		}
		if deps.Catalog == nil {
			return mcp.NewToolResultText("error: catalog is not configured"), nil
		}

		limit := intArg(request.Params.Arguments, "limit", deps.TopK)
		hits, err := deps.Catalog.Search(ctx, query, limit)
		if err != nil {
			logger.Warn("mcp catalog_search failed: %v", err)
			return mcp.NewToolResultText(fmt.Sprintf("error: catalog search failed: %v", err)), nil
		}
		return jsonResult(hits)
	}
}

func webSearchHandler(deps Deps) func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query, ok := request.Params.Arguments["query"].(string)
		if !ok || query == "" {
			return mcp.NewToolResultText("error: query must be a non-empty string"), nil
		}
		if deps.Web == nil {
			return mcp.NewToolResultText("error: web search is not configured"), nil
		}

		limit := intArg(request.Params.Arguments, "limit", deps.TopK)
		resp, err := deps.Web.Search(ctx, query, deps.AllowedDomains, limit)
		if err != nil {
			logger.Warn("mcp web_search failed: %v", err)
			return mcp.NewToolResultText(fmt.Sprintf("error: web search failed: %v", err)), nil
		}
		return jsonResult(resp)
	}
}

// intArg reads a numeric argument; JSON numbers arrive as float64.
func intArg(args map[string]interface{}, name string, fallback int) int {
	raw, ok := args[name].(float64)
	if !ok || raw <= 0 {
		return fallback
	}
	return int(raw)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultText(fmt.Sprintf("error: failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
