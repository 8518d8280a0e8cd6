// Package catalogservice holds the current catalog in memory and coordinates
// reads, searches, and sync cycles for the API and MCP surfaces.
package catalogservice

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/starford/raido/internal/apperr"
	"github.com/starford/raido/internal/catalog"
	"github.com/starford/raido/internal/syncer"
)

// Service serves catalog reads from memory. The catalog value is swapped
// wholesale after a successful sync and never mutated, so readers only need
// the lock for the pointer itself.
type Service struct {
	store  syncer.Store
	syncer *syncer.Syncer
	logger *slog.Logger

	mu      sync.RWMutex
	current *catalog.Catalog
}

// New creates a service. Call Load before serving to pick up a previously
// persisted catalog.
func New(store syncer.Store, sy *syncer.Syncer, logger *slog.Logger) *Service {
	return &Service{store: store, syncer: sy, logger: logger}
}

// Load restores the in-memory catalog from the store, repairing older-shaped
// values through the normalizer. A missing or unrecognizable stored value is
// not an error; the service simply starts empty.
func (s *Service) Load() error {
	raw, err := s.store.Get()
	if err != nil {
		if errors.Is(err, apperr.ErrNoCatalog) {
			s.logger.Info("catalog: nothing persisted yet")
			return nil
		}
		return err
	}

	c, ok := catalog.Normalize(raw)
	if !ok {
		s.logger.Warn("catalog: stored value unrecognizable, starting empty")
		return nil
	}

	s.mu.Lock()
	s.current = c
	s.mu.Unlock()

	s.logger.Info("catalog: loaded",
		slog.Int("items", c.Meta.TotalItems),
		slog.Int("categories", len(c.Tree)))
	return nil
}

// Current returns the in-memory catalog, or apperr.ErrNoCatalog when nothing
// has been synced yet.
func (s *Service) Current(_ context.Context) (*catalog.Catalog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil, apperr.ErrNoCatalog
	}
	return s.current, nil
}

// Categories returns the top-level category tree.
func (s *Service) Categories(ctx context.Context) ([]catalog.Category, error) {
	c, err := s.Current(ctx)
	if err != nil {
		return nil, err
	}
	return c.Tree, nil
}

// Category returns the category with the given slug (top-level or namespaced
// child slug).
func (s *Service) Category(ctx context.Context, slug string) (*catalog.Category, error) {
	c, err := s.Current(ctx)
	if err != nil {
		return nil, err
	}
	node, ok := c.Find(slug)
	if !ok {
		return nil, apperr.ErrNotFound
	}
	return node, nil
}

// Search runs the term-conjunctive matcher over the current catalog.
func (s *Service) Search(ctx context.Context, query string, limit int) ([]catalog.Item, error) {
	c, err := s.Current(ctx)
	if err != nil {
		return nil, err
	}
	return catalog.Search(c, query, limit), nil
}

// Sync runs one sync cycle and, when it stored a new catalog, swaps it in.
func (s *Service) Sync(ctx context.Context, force bool) (*syncer.Result, error) {
	res, err := s.syncer.Sync(ctx, force)
	if err != nil {
		return nil, err
	}
	if res.Stored {
		s.mu.Lock()
		s.current = res.Catalog
		s.mu.Unlock()
	}
	return res, nil
}
