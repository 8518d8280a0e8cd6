package mcpserver

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/starford/raido/internal/catalogservice"
	"github.com/starford/raido/internal/fetch"
	"github.com/starford/raido/internal/syncer"
	"github.com/starford/raido/internal/testutil"
)

func testServer(t *testing.T, synced bool) *Server {
	t.Helper()

	path := filepath.Join(t.TempDir(), "list.md")
	if err := os.WriteFile(path, []byte(testutil.FixtureDoc), 0o644); err != nil {
		t.Fatal(err)
	}

	logger := slog.New(slog.DiscardHandler)
	db := testutil.TestDB(t)
	svc := catalogservice.New(db, syncer.New(fetch.NewFileSource(path), db, logger), logger)

	if synced {
		if _, err := svc.Sync(context.Background(), false); err != nil {
			t.Fatalf("sync: %v", err)
		}
	}
	return New(svc)
}

func callTool(t *testing.T, srv *Server, name string, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	// mcp-go doesn't expose a direct "call tool" test helper, so the handler
	// functions are invoked directly.
	var result *mcp.CallToolResult
	var err error

	switch name {
	case "search_catalog":
		result, err = srv.searchCatalog(ctx, req)
	case "list_categories":
		result, err = srv.listCategories(ctx, req)
	case "get_category":
		result, err = srv.getCategory(ctx, req)
	case "sync_catalog":
		result, err = srv.syncCatalog(ctx, req)
	default:
		t.Fatalf("unknown tool: %s", name)
	}

	if err != nil {
		t.Fatalf("tool %s error: %v", name, err)
	}
	return result
}

func resultText(r *mcp.CallToolResult) string {
	if len(r.Content) > 0 {
		if tc, ok := r.Content[0].(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func TestSearchCatalog(t *testing.T) {
	srv := testServer(t, true)

	r := callTool(t, srv, "search_catalog", map[string]interface{}{"query": "text editor"})
	text := resultText(r)
	if !strings.Contains(text, "Vim") || !strings.Contains(text, "Helix") {
		t.Errorf("result = %q", text)
	}
	if strings.Contains(text, "VSCode") {
		t.Errorf("conjunctive match leaked VSCode: %q", text)
	}
}

func TestSearchCatalog_NoMatches(t *testing.T) {
	srv := testServer(t, true)

	r := callTool(t, srv, "search_catalog", map[string]interface{}{"query": "zzz"})
	if resultText(r) != "no matches" {
		t.Errorf("result = %q", resultText(r))
	}
}

func TestSearchCatalog_MissingQuery(t *testing.T) {
	srv := testServer(t, true)

	r := callTool(t, srv, "search_catalog", map[string]interface{}{})
	if !r.IsError {
		t.Error("expected error result for missing query")
	}
}

func TestListCategories(t *testing.T) {
	srv := testServer(t, true)

	r := callTool(t, srv, "list_categories", map[string]interface{}{})
	text := resultText(r)
	for _, want := range []string{"tools", "libraries", "tools-editors"} {
		if !strings.Contains(text, want) {
			t.Errorf("missing %q in %q", want, text)
		}
	}
}

func TestGetCategory(t *testing.T) {
	srv := testServer(t, true)

	r := callTool(t, srv, "get_category", map[string]interface{}{"slug": "tools-editors"})
	text := resultText(r)
	if !strings.Contains(text, "Helix") {
		t.Errorf("result = %q", text)
	}
}

func TestGetCategory_Missing(t *testing.T) {
	srv := testServer(t, true)

	r := callTool(t, srv, "get_category", map[string]interface{}{"slug": "nope"})
	if !r.IsError {
		t.Error("expected error result")
	}
}

func TestSyncCatalog(t *testing.T) {
	srv := testServer(t, false)

	r := callTool(t, srv, "sync_catalog", map[string]interface{}{})
	if got := resultText(r); got != "stored catalog with 4 items" {
		t.Errorf("result = %q", got)
	}

	// Unchanged source on the second run.
	r = callTool(t, srv, "sync_catalog", map[string]interface{}{})
	if got := resultText(r); got != "catalog unchanged" {
		t.Errorf("second run = %q", got)
	}

	// Force bypasses the fingerprint and stores again.
	r = callTool(t, srv, "sync_catalog", map[string]interface{}{"force": true})
	if got := resultText(r); got != "stored catalog with 4 items" {
		t.Errorf("forced run = %q", got)
	}
}

func TestToolsBeforeSync(t *testing.T) {
	srv := testServer(t, false)

	r := callTool(t, srv, "search_catalog", map[string]interface{}{"query": "vim"})
	if !r.IsError {
		t.Error("search before sync should be an error result")
	}
	r = callTool(t, srv, "list_categories", map[string]interface{}{})
	if !r.IsError {
		t.Error("list before sync should be an error result")
	}
}

func TestSourceFormatResource(t *testing.T) {
	srv := testServer(t, false)

	contents, err := srv.readSourceFormatResource(context.Background(), mcp.ReadResourceRequest{})
	if err != nil {
		t.Fatalf("read resource: %v", err)
	}
	if len(contents) != 1 {
		t.Fatalf("contents = %d", len(contents))
	}
	tc, ok := contents[0].(mcp.TextResourceContents)
	if !ok {
		t.Fatalf("unexpected content type %T", contents[0])
	}
	if !strings.Contains(tc.Text, "##") {
		t.Error("contract should describe heading grammar")
	}
}
