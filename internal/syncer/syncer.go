// Package syncer runs the conditional fetch/parse/persist cycle that keeps
// the stored catalog in step with the upstream document.
package syncer

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/starford/raido/internal/apperr"
	"github.com/starford/raido/internal/catalog"
	"github.com/starford/raido/internal/fetch"
)

// Store is the persistence surface the cycle needs. *store.DB satisfies it;
// tests substitute fakes.
type Store interface {
	Get() ([]byte, error)
	Put(*catalog.Catalog) error
	Fingerprint() (string, error)
	PutFingerprint(string) error
}

// Result describes the outcome of one cycle.
type Result struct {
	// Stored is false when the cycle ended as a no-op (content unchanged).
	Stored bool
	// Catalog is the freshly built catalog when Stored is true, nil otherwise.
	Catalog *catalog.Catalog
	// Fingerprint is the freshness token in effect after the cycle.
	Fingerprint string
}

// Syncer orchestrates sync cycles over a source and a store.
type Syncer struct {
	source fetch.Source
	store  Store
	logger *slog.Logger

	// mu rejects overlapping cycles from concurrent triggers (scheduler,
	// watcher, API) rather than letting them race on persist.
	mu sync.Mutex
}

// New creates a Syncer.
func New(source fetch.Source, store Store, logger *slog.Logger) *Syncer {
	return &Syncer{source: source, store: store, logger: logger}
}

// Sync runs one cycle:
//
//  1. fetch with the stored fingerprint (omitted when force is set)
//  2. not modified + catalog persisted: no-op
//  3. not modified + nothing persisted: one forced retry to self-heal
//  4. parse; a tokenization failure aborts with the previous catalog intact
//  5. persist the catalog, then and only then the fingerprint
//
// The catalog-before-fingerprint order is an invariant: recording a
// fingerprint for unpersisted content would make later cycles treat missing
// content as fresh.
func (s *Syncer) Sync(ctx context.Context, force bool) (*Result, error) {
	if !s.mu.TryLock() {
		return nil, apperr.ErrSyncRunning
	}
	defer s.mu.Unlock()

	previous, err := s.store.Fingerprint()
	if err != nil {
		return nil, err
	}

	payload, err := s.source.Fetch(ctx, previous, force)
	if err != nil {
		return nil, fmt.Errorf("syncer: fetch: %w", err)
	}

	if !payload.Modified {
		if s.hasCatalog() {
			s.logger.Debug("sync: not modified", slog.String("fingerprint", previous))
			return &Result{Stored: false, Fingerprint: previous}, nil
		}
		// Upstream says unchanged but nothing is persisted (first run or a
		// prior failed cycle). Refetch without the validator.
		s.logger.Warn("sync: not modified but no catalog persisted, refetching")
		payload, err = s.source.Fetch(ctx, "", true)
		if err != nil {
			return nil, fmt.Errorf("syncer: forced refetch: %w", err)
		}
	}

	built, err := catalog.Parse(payload.Text)
	if err != nil {
		return nil, fmt.Errorf("syncer: %w", err)
	}

	if err := s.store.Put(built); err != nil {
		return nil, fmt.Errorf("syncer: persist catalog: %w", err)
	}
	if payload.Fingerprint != "" {
		if err := s.store.PutFingerprint(payload.Fingerprint); err != nil {
			return nil, fmt.Errorf("syncer: persist fingerprint: %w", err)
		}
	}

	s.logger.Info("sync: stored catalog",
		slog.Int("items", built.Meta.TotalItems),
		slog.Int("categories", len(built.Tree)),
		slog.String("fingerprint", payload.Fingerprint))

	return &Result{Stored: true, Catalog: built, Fingerprint: payload.Fingerprint}, nil
}

func (s *Syncer) hasCatalog() bool {
	raw, err := s.store.Get()
	if err != nil {
		return false
	}
	_, ok := catalog.Normalize(raw)
	return ok
}
