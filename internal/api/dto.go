package api

import "github.com/starford/raido/internal/catalog"

// CatalogResponse is the full catalog payload.
type CatalogResponse = catalog.Catalog

// CategoryListResponse wraps the top-level category tree.
type CategoryListResponse struct {
	Categories []catalog.Category `json:"categories"`
	Total      int                `json:"total"`
}

// SearchResponse wraps search results.
type SearchResponse struct {
	Results []catalog.Item `json:"results"`
	Total   int            `json:"total"`
}

// SyncResponse describes the outcome of a sync trigger.
type SyncResponse struct {
	Stored      bool   `json:"stored"`
	Items       int    `json:"items"`
	Fingerprint string `json:"fingerprint,omitempty"`
}
