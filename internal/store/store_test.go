package store

import (
	"encoding/json"
	"errors"
	"os"
	"testing"

	"github.com/starford/raido/internal/apperr"
	"github.com/starford/raido/internal/catalog"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	f, err := os.CreateTemp("", "raido-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	f.Close()
	t.Cleanup(func() { os.Remove(f.Name()) })

	db, err := Open(f.Name())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestGet_NoCatalog(t *testing.T) {
	db := testDB(t)
	if _, err := db.Get(); !errors.Is(err, apperr.ErrNoCatalog) {
		t.Errorf("err = %v, want ErrNoCatalog", err)
	}
}

func TestPutAndGet(t *testing.T) {
	db := testDB(t)
	c, err := catalog.Parse([]byte("## Tools\n- [A](https://a.example) - Editor\n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if err := db.Put(c); err != nil {
		t.Fatalf("Put: %v", err)
	}

	raw, err := db.Get()
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	got, ok := catalog.Normalize(raw)
	if !ok {
		t.Fatal("stored payload not recognizable")
	}
	if got.Meta.TotalItems != 1 || len(got.Tree) != 1 {
		t.Errorf("round-trip catalog = %+v", got.Meta)
	}
}

func TestPut_ReplacesPrevious(t *testing.T) {
	db := testDB(t)
	first, _ := catalog.Parse([]byte("## A\n- [One](https://one.example)\n"))
	second, _ := catalog.Parse([]byte("## B\n- [Two](https://two.example)\n- [Three](https://three.example)\n"))

	if err := db.Put(first); err != nil {
		t.Fatalf("Put first: %v", err)
	}
	if err := db.Put(second); err != nil {
		t.Fatalf("Put second: %v", err)
	}

	raw, err := db.Get()
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	var decoded catalog.Catalog
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.Meta.TotalItems != 2 {
		t.Errorf("totalItems = %d, want 2 (replaced)", decoded.Meta.TotalItems)
	}
}

func TestFingerprint_EmptyWhenUnset(t *testing.T) {
	db := testDB(t)
	fp, err := db.Fingerprint()
	if err != nil {
		t.Fatalf("Fingerprint: %v", err)
	}
	if fp != "" {
		t.Errorf("fingerprint = %q, want empty", fp)
	}
}

func TestFingerprint_RoundTrip(t *testing.T) {
	db := testDB(t)
	if err := db.PutFingerprint(`"etag-abc"`); err != nil {
		t.Fatalf("PutFingerprint: %v", err)
	}
	fp, err := db.Fingerprint()
	if err != nil {
		t.Fatalf("Fingerprint: %v", err)
	}
	if fp != `"etag-abc"` {
		t.Errorf("fingerprint = %q", fp)
	}

	// Overwrite.
	if err := db.PutFingerprint(`"etag-def"`); err != nil {
		t.Fatalf("PutFingerprint: %v", err)
	}
	fp, _ = db.Fingerprint()
	if fp != `"etag-def"` {
		t.Errorf("fingerprint after overwrite = %q", fp)
	}
}
