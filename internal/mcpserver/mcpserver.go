// Package mcpserver exposes the Query Engine and Graph Store over MCP,
// following a pattern of one composable AddXTool function per tool, a
// handler factory closing over its dependency, argument parsing off
// request.Params.Arguments.(map[string]interface{}), and JSON-text results
// via mcp.NewToolResultText — with a project-scoped "project" argument
// every tool here takes, since one coordinator serves many projects.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/augmentorium/augmentorium/internal/coordinator"
	"github.com/augmentorium/augmentorium/internal/query"
)

// New builds an MCP server with every augment_* tool registered against co.
func New(co *coordinator.Coordinator) *server.MCPServer {
	s := server.NewMCPServer(
		"augmentorium-mcp",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	addAugmentQueryTool(s, co)
	addAugmentGraphTool(s, co)
	addAugmentFilesTool(s, co)

	return s
}

// Serve runs s on stdio until ctx is cancelled or an interrupt/TERM signal
// arrives, whichever comes first.
func Serve(ctx context.Context, s *server.MCPServer) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	errCh := make(chan error, 1)
	go func() {
		log.Printf("mcpserver: starting on stdio")
		if err := server.ServeStdio(s); err != nil {
			errCh <- fmt.Errorf("mcp server: %w", err)
		}
	}()

	select {
	case <-sigCh:
		log.Printf("mcpserver: received shutdown signal")
		return nil
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func argsMap(request mcp.CallToolRequest) (map[string]interface{}, bool) {
	m, ok := request.Params.Arguments.(map[string]interface{})
	return m, ok
}

func stringArg(args map[string]interface{}, key string) string {
	s, _ := args[key].(string)
	return s
}

func intArg(args map[string]interface{}, key string, def int) int {
	if v, ok := args[key].(float64); ok {
		return int(v)
	}
	return def
}

func floatArg(args map[string]interface{}, key string, def float32) float32 {
	if v, ok := args[key].(float64); ok {
		return float32(v)
	}
	return def
}

func boolArg(args map[string]interface{}, key string, def bool) bool {
	if v, ok := args[key].(bool); ok {
		return v
	}
	return def
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal mcp response: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}

// addAugmentQueryTool registers augment_query: the full Query Engine
// pipeline (semantic search, graph/related-files enrichment, context
// assembly) scoped to one project.
func addAugmentQueryTool(s *server.MCPServer, co *coordinator.Coordinator) {
	tool := mcp.NewTool(
		"augment_query",
		mcp.WithDescription("Search a project's indexed codebase with semantic search, returning ranked code chunks enriched with graph relationships, related files, and an assembled context block."),
		mcp.WithString("project", mcp.Required(), mcp.Description("Registered project name")),
		mcp.WithString("query", mcp.Required(), mcp.Description("Natural language or code search query")),
		mcp.WithNumber("n_results", mcp.Description("Maximum number of results to return")),
		mcp.WithNumber("min_score", mcp.Description("Minimum similarity score a result must meet")),
		mcp.WithString("file_name", mcp.Description("Restrict results to one file name or path")),
		mcp.WithBoolean("include_metadata", mcp.Description("Include per-result metadata (name, node type, docstring) in the assembled context")),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	)

	s.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, ok := argsMap(request)
		if !ok {
			return mcp.NewToolResultError("invalid arguments format"), nil
		}
		project := stringArg(args, "project")
		text := stringArg(args, "query")
		if project == "" || text == "" {
			return mcp.NewToolResultError("project and query parameters are required"), nil
		}

		resp, err := co.Query(ctx, project, query.Request{
			Text:            text,
			NResults:        intArg(args, "n_results", 0),
			MinScore:        floatArg(args, "min_score", 0),
			FileName:        stringArg(args, "file_name"),
			IncludeMetadata: boolArg(args, "include_metadata", false),
		})
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return jsonResult(resp)
	})
}

// addAugmentGraphTool registers augment_graph: a bounded-depth neighbor
// traversal from a node id or file name.
func addAugmentGraphTool(s *server.MCPServer, co *coordinator.Coordinator) {
	tool := mcp.NewTool(
		"augment_graph",
		mcp.WithDescription("Explore structural code relationships (imports, includes, inheritance) within a project's call/reference graph, starting from a node id or file name."),
		mcp.WithString("project", mcp.Required(), mcp.Description("Registered project name")),
		mcp.WithString("node_id", mcp.Description("Graph node id to start from; mutually exclusive with file_name")),
		mcp.WithString("file_name", mcp.Description("File path whose graph nodes to start from; mutually exclusive with node_id")),
		mcp.WithNumber("depth", mcp.Description("Traversal depth (default 1)")),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	)

	s.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, ok := argsMap(request)
		if !ok {
			return mcp.NewToolResultError("invalid arguments format"), nil
		}
		project := stringArg(args, "project")
		nodeID := stringArg(args, "node_id")
		fileName := stringArg(args, "file_name")
		if project == "" || (nodeID == "" && fileName == "") {
			return mcp.NewToolResultError("project and one of node_id/file_name are required"), nil
		}
		depth := intArg(args, "depth", 1)

		nodeIDs := []string{nodeID}
		if nodeID == "" {
			nodes, err := co.NodesByFilePath(project, fileName)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			nodeIDs = nodeIDs[:0]
			for _, n := range nodes {
				nodeIDs = append(nodeIDs, n.ID)
			}
		}

		seen := make(map[string]bool)
		var neighbors []any
		for _, id := range nodeIDs {
			ns, err := co.Neighbors(project, id, depth)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			for _, n := range ns {
				key := n.Direction + "|" + n.RelationType + "|" + n.NeighborID
				if seen[key] {
					continue
				}
				seen[key] = true
				neighbors = append(neighbors, n)
			}
		}
		return jsonResult(map[string]any{"neighbors": neighbors})
	})
}

// addAugmentFilesTool registers augment_files: the indexed file listing and
// per-project stats.
func addAugmentFilesTool(s *server.MCPServer, co *coordinator.Coordinator) {
	tool := mcp.NewTool(
		"augment_files",
		mcp.WithDescription("List the files a project has indexed, along with its chunk/node/edge counts and indexer state."),
		mcp.WithString("project", mcp.Required(), mcp.Description("Registered project name")),
		mcp.WithNumber("max_files", mcp.Description("Cap on the number of file paths returned (default: all)")),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	)

	s.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, ok := argsMap(request)
		if !ok {
			return mcp.NewToolResultError("invalid arguments format"), nil
		}
		project := stringArg(args, "project")
		if project == "" {
			return mcp.NewToolResultError("project parameter is required"), nil
		}

		files, err := co.Files(ctx, project, intArg(args, "max_files", 0))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		stats, err := co.Stats(project)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return jsonResult(map[string]any{"files": files, "stats": stats})
	})
}
