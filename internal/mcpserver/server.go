// Package mcpserver provides an MCP (Model Context Protocol) server that
// exposes the Raido catalog to LLM consumers via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/raido/internal/catalogservice"
)

// Server wraps the MCP server with Raido tools.
type Server struct {
	mcp *server.MCPServer
	svc *catalogservice.Service
}

// New creates a new MCP server with all Raido tools registered.
func New(svc *catalogservice.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"Raido",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("search_catalog",
		mcp.WithDescription("Search the catalog for items matching every term of the query "+
			"(case-insensitive substring match over title, description, and category names)."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
	), s.searchCatalog)

	s.mcp.AddTool(mcp.NewTool("list_categories",
		mcp.WithDescription("List all top-level categories with their slugs, item counts, and subcategories."),
	), s.listCategories)

	s.mcp.AddTool(mcp.NewTool("get_category",
		mcp.WithDescription("Get a single category (with its items) by slug. "+
			"Subcategory slugs are namespaced, e.g. tools-editors."),
		mcp.WithString("slug", mcp.Required(), mcp.Description("Category slug")),
	), s.getCategory)

	s.mcp.AddTool(mcp.NewTool("sync_catalog",
		mcp.WithDescription("Run a sync cycle against the upstream document. "+
			"Pass force=true to bypass the freshness fingerprint."),
		mcp.WithBoolean("force", mcp.Description("Bypass the stored fingerprint")),
	), s.syncCatalog)

	// Resource: source format contract.
	s.mcp.AddResource(
		mcp.NewResource("raido://source-format", "Source Format Contract",
			mcp.WithResourceDescription("The awesome-list Markdown grammar the catalog parser understands."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readSourceFormatResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) searchCatalog(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	results, err := s.svc.Search(ctx, query, 20)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(results) == 0 {
		return mcp.NewToolResultText("no matches"), nil
	}
	out, _ := json.MarshalIndent(results, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) listCategories(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tree, err := s.svc.Categories(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	type childSummary struct {
		Title string `json:"title"`
		Slug  string `json:"slug"`
		Items int    `json:"items"`
	}
	type summary struct {
		Title    string         `json:"title"`
		Slug     string         `json:"slug"`
		Items    int            `json:"items"`
		Children []childSummary `json:"children,omitempty"`
	}

	summaries := make([]summary, 0, len(tree))
	for _, cat := range tree {
		s := summary{Title: cat.Title, Slug: cat.Slug, Items: len(cat.Items)}
		for _, child := range cat.Children {
			s.Children = append(s.Children, childSummary{
				Title: child.Title,
				Slug:  child.Slug,
				Items: len(child.Items),
			})
		}
		summaries = append(summaries, s)
	}

	out, _ := json.MarshalIndent(summaries, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) getCategory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	slug, err := req.RequireString("slug")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	node, err := s.svc.Category(ctx, slug)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", slug)), nil
	}
	out, _ := json.MarshalIndent(node, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) syncCatalog(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	force := req.GetBool("force", false)

	res, err := s.svc.Sync(ctx, force)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if !res.Stored {
		return mcp.NewToolResultText("catalog unchanged"), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("stored catalog with %d items", res.Catalog.Meta.TotalItems)), nil
}

func (s *Server) readSourceFormatResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "raido://source-format",
			MIMEType: "text/markdown",
			Text:     SourceFormatContract,
		},
	}, nil
}
