// Package testutil provides shared test helpers for databases and fixture catalogs.
package testutil

import (
	"os"
	"testing"

	"github.com/starford/raido/internal/catalog"
	"github.com/starford/raido/internal/store"
)

// FixtureDoc is a small but structurally complete awesome-list document used
// across test suites.
const FixtureDoc = `# Awesome Things

Intro text that the parser ignores.

## Tools

- [VSCode](https://code.visualstudio.com/) - Free and open source code editor
- [Vim](https://www.vim.org/) - Highly configurable text editor

### Editors

- [Helix](https://helix-editor.com/) - Fast text editor

## Libraries

- [chi](https://github.com/go-chi/chi) - Lightweight HTTP router
`

// TestDB creates a temporary SQLite store that is automatically cleaned up.
func TestDB(t *testing.T) *store.DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "raido-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := store.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestCatalog parses FixtureDoc into a catalog.
func TestCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.Parse([]byte(FixtureDoc))
	if err != nil {
		t.Fatalf("parse fixture: %v", err)
	}
	return c
}
