package catalog

import (
	"encoding/json"
	"time"
)

// envelope is the permissive decode target for stored catalog values. It
// covers both the canonical shape and the legacy one (hierarchy under
// "categories", timestamp at the top level, no flat list).
type envelope struct {
	Tree       []Category    `json:"tree"`
	Categories []Category    `json:"categories"`
	List       []Item        `json:"list"`
	Meta       *metaEnvelope `json:"meta"`
	UpdatedAt  string        `json:"updatedAt"`
}

type metaEnvelope struct {
	UpdatedAt  string `json:"updatedAt"`
	TotalItems *int   `json:"totalItems"`
	Version    *int   `json:"version"`
}

// Normalize repairs an arbitrary decoded value into the canonical Catalog
// shape. It accepts either a "tree" or a legacy "categories" hierarchy; when
// neither is present and non-empty the value is unrecognizable and Normalize
// reports false. A missing or empty flat list is rebuilt by pre-order
// flatten; metadata fields are reused when plausible and defaulted otherwise.
//
// Normalize never fails for structurally plausible JSON; only values lacking
// any hierarchy field are rejected.
func Normalize(raw []byte) (*Catalog, bool) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, false
	}

	tree := env.Tree
	if len(tree) == 0 {
		tree = env.Categories
	}
	if len(tree) == 0 {
		return nil, false
	}

	list := env.List
	if len(list) == 0 {
		list = Flatten(tree)
	}

	return &Catalog{
		Tree: tree,
		List: list,
		Meta: Meta{
			UpdatedAt:  normalizeUpdatedAt(env),
			TotalItems: normalizeTotal(env.Meta, len(list)),
			Version:    normalizeVersion(env.Meta),
		},
	}, true
}

func normalizeUpdatedAt(env envelope) time.Time {
	candidates := []string{env.UpdatedAt}
	if env.Meta != nil {
		candidates = []string{env.Meta.UpdatedAt, env.UpdatedAt}
	}
	for _, c := range candidates {
		if c == "" {
			continue
		}
		if ts, err := time.Parse(time.RFC3339, c); err == nil {
			return ts
		}
	}
	return time.Now().UTC()
}

func normalizeTotal(meta *metaEnvelope, listLen int) int {
	if meta != nil && meta.TotalItems != nil && *meta.TotalItems >= 0 {
		return *meta.TotalItems
	}
	return listLen
}

func normalizeVersion(meta *metaEnvelope) int {
	if meta != nil && meta.Version != nil && *meta.Version > 0 {
		return *meta.Version
	}
	return SchemaVersion
}
