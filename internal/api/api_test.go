package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/starford/raido/internal/catalog"
	"github.com/starford/raido/internal/catalogservice"
	"github.com/starford/raido/internal/fetch"
	"github.com/starford/raido/internal/syncer"
	"github.com/starford/raido/internal/testutil"
)

type testEnv struct {
	server *httptest.Server
	svc    *catalogservice.Service
}

// newTestEnv starts an API server backed by a temp database and a file source
// with the fixture document. When synced is true the catalog is loaded before
// the first request.
func newTestEnv(t *testing.T, synced bool) *testEnv {
	t.Helper()

	path := filepath.Join(t.TempDir(), "list.md")
	if err := os.WriteFile(path, []byte(testutil.FixtureDoc), 0o644); err != nil {
		t.Fatal(err)
	}

	logger := slog.New(slog.DiscardHandler)
	db := testutil.TestDB(t)
	sy := syncer.New(fetch.NewFileSource(path), db, logger)
	svc := catalogservice.New(db, sy, logger)

	if synced {
		if _, err := svc.Sync(context.Background(), false); err != nil {
			t.Fatalf("sync: %v", err)
		}
	}

	srv := httptest.NewServer(NewRouter(svc, false, "", nil))
	t.Cleanup(srv.Close)
	return &testEnv{server: srv, svc: svc}
}

func (e *testEnv) get(t *testing.T, path string) *http.Response {
	t.Helper()
	resp, err := http.Get(e.server.URL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

func TestGetCatalog(t *testing.T) {
	env := newTestEnv(t, true)

	resp := env.get(t, "/catalog")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	c := decode[catalog.Catalog](t, resp)
	if c.Meta.TotalItems != 4 {
		t.Errorf("totalItems = %d, want 4", c.Meta.TotalItems)
	}
	if len(c.Tree) != 2 || len(c.List) != 4 {
		t.Errorf("tree = %d, list = %d", len(c.Tree), len(c.List))
	}
}

func TestGetCatalog_BeforeSync(t *testing.T) {
	env := newTestEnv(t, false)

	resp := env.get(t, "/catalog")
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
}

func TestListCategories(t *testing.T) {
	env := newTestEnv(t, true)

	resp := env.get(t, "/categories")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	body := decode[CategoryListResponse](t, resp)
	if body.Total != 2 {
		t.Errorf("total = %d, want 2", body.Total)
	}
	if body.Categories[0].Slug != "tools" {
		t.Errorf("first slug = %q", body.Categories[0].Slug)
	}
}

func TestGetCategory(t *testing.T) {
	env := newTestEnv(t, true)

	resp := env.get(t, "/categories/tools-editors")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	node := decode[catalog.Category](t, resp)
	if node.Title != "Editors" || len(node.Items) != 1 {
		t.Errorf("node = %+v", node)
	}
}

func TestGetCategory_NotFound(t *testing.T) {
	env := newTestEnv(t, true)

	resp := env.get(t, "/categories/nope")
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
}

func TestSearch(t *testing.T) {
	env := newTestEnv(t, true)

	resp := env.get(t, "/search?q=text+editor")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	body := decode[SearchResponse](t, resp)
	if body.Total != 2 {
		t.Fatalf("total = %d, want 2", body.Total)
	}
	for _, item := range body.Results {
		if item.Title != "Vim" && item.Title != "Helix" {
			t.Errorf("unexpected match %q", item.Title)
		}
	}
}

func TestSearch_MissingQuery(t *testing.T) {
	env := newTestEnv(t, true)

	resp := env.get(t, "/search")
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestSearch_Limit(t *testing.T) {
	env := newTestEnv(t, true)

	resp := env.get(t, "/search?q=editor&limit=1")
	body := decode[SearchResponse](t, resp)
	if body.Total != 1 {
		t.Fatalf("total = %d, want 1", body.Total)
	}
}

func TestSearch_NoMatchesIsEmptyArray(t *testing.T) {
	env := newTestEnv(t, true)

	resp := env.get(t, "/search?q=zzz")
	body := decode[SearchResponse](t, resp)
	if body.Results == nil || body.Total != 0 {
		t.Fatalf("results = %v, total = %d", body.Results, body.Total)
	}
}

func TestTriggerSync(t *testing.T) {
	env := newTestEnv(t, false)

	resp, err := http.Post(env.server.URL+"/sync", "", nil)
	if err != nil {
		t.Fatalf("POST /sync: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	body := decode[SyncResponse](t, resp)
	if !body.Stored {
		t.Error("expected stored = true")
	}
	if body.Items != 4 {
		t.Errorf("items = %d, want 4", body.Items)
	}

	// The catalog is now readable.
	catResp := env.get(t, "/catalog")
	defer catResp.Body.Close()
	if catResp.StatusCode != http.StatusOK {
		t.Fatalf("catalog after sync: status = %d", catResp.StatusCode)
	}
}

func TestAuth(t *testing.T) {
	path := filepath.Join(t.TempDir(), "list.md")
	if err := os.WriteFile(path, []byte(testutil.FixtureDoc), 0o644); err != nil {
		t.Fatal(err)
	}
	logger := slog.New(slog.DiscardHandler)
	db := testutil.TestDB(t)
	svc := catalogservice.New(db, syncer.New(fetch.NewFileSource(path), db, logger), logger)

	srv := httptest.NewServer(NewRouter(svc, true, "secret", nil))
	defer srv.Close()

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"no token", "", http.StatusUnauthorized},
		{"wrong token", "Bearer nope", http.StatusUnauthorized},
		{"valid token", "Bearer secret", http.StatusNotFound}, // empty store, auth passes
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, _ := http.NewRequest(http.MethodGet, srv.URL+"/catalog", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				t.Fatal(err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != tt.want {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.want)
			}
		})
	}
}
