// Package catalog defines the normalized awesome-list catalog: a category
// tree with typed link items, a flat search list, and schema metadata.
package catalog

import "time"

// SchemaVersion tags the canonical catalog shape. It is bumped when the
// persisted layout changes, so older stored values can be recognized and
// repaired by Normalize.
const SchemaVersion = 2

// Item is a single curated resource.
type Item struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category"`
	Subcategory string `json:"subcategory,omitempty"`
}

// Category is a node in the hierarchy. Second-level slugs are namespaced by
// the parent title so identically named subcategories under different parents
// do not collide.
type Category struct {
	Title    string     `json:"title"`
	Slug     string     `json:"slug"`
	Items    []Item     `json:"items"`
	Children []Category `json:"children,omitempty"`
}

// Meta carries catalog-level bookkeeping.
type Meta struct {
	UpdatedAt  time.Time `json:"updatedAt"`
	TotalItems int       `json:"totalItems"`
	Version    int       `json:"version"`
}

// Catalog is the complete parse result. It is produced wholesale on every
// sync cycle and never mutated in place.
type Catalog struct {
	Tree []Category `json:"tree"`
	List []Item     `json:"list"`
	Meta Meta       `json:"meta"`
}

// Flatten returns every item reachable from tree in pre-order, depth-first,
// children in document order. This is the traversal that defines List.
func Flatten(tree []Category) []Item {
	var out []Item
	for i := range tree {
		out = append(out, tree[i].Items...)
		out = append(out, Flatten(tree[i].Children)...)
	}
	return out
}

// Find returns the category with the given slug, searching top-level nodes
// first and then their children, in document order.
func (c *Catalog) Find(slugValue string) (*Category, bool) {
	for i := range c.Tree {
		if c.Tree[i].Slug == slugValue {
			return &c.Tree[i], true
		}
		for j := range c.Tree[i].Children {
			if c.Tree[i].Children[j].Slug == slugValue {
				return &c.Tree[i].Children[j], true
			}
		}
	}
	return nil, false
}
