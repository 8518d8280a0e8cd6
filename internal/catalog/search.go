package catalog

import "strings"

// Search returns the items whose haystack (title, description, category,
// subcategory, lowercased and space-joined) contains every whitespace-split
// term of query as a substring. Matches come back in list order, capped at
// limit when limit is positive. There is no ranking: for a fixed catalog and
// query the result is fully deterministic.
//
// An empty or whitespace-only query matches nothing.
func Search(c *Catalog, query string, limit int) []Item {
	terms := strings.Fields(strings.ToLower(query))
	if len(terms) == 0 {
		return nil
	}

	var out []Item
	for _, item := range c.List {
		if matches(item, terms) {
			out = append(out, item)
			if limit > 0 && len(out) >= limit {
				break
			}
		}
	}
	return out
}

func matches(item Item, terms []string) bool {
	hay := strings.ToLower(haystack(item))
	for _, term := range terms {
		if !strings.Contains(hay, term) {
			return false
		}
	}
	return true
}

func haystack(item Item) string {
	parts := []string{item.Title}
	if item.Description != "" {
		parts = append(parts, item.Description)
	}
	parts = append(parts, item.Category)
	if item.Subcategory != "" {
		parts = append(parts, item.Subcategory)
	}
	return strings.Join(parts, " ")
}
