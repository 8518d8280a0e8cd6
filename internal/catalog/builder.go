package catalog

import (
	"regexp"
	"strings"
	"time"

	"github.com/starford/raido/internal/parser"
	"github.com/starford/raido/internal/slug"
)

// descSepRe matches one leading list separator (hyphen, en dash, or em dash)
// with optional surrounding whitespace.
var descSepRe = regexp.MustCompile(`^\s*[-\x{2013}\x{2014}]\s*`)

// Builder assembles a Catalog from the parser's event sequence.
//
// Position in the tree is tracked with arena indices rather than pointers
// into the growing slices: cat is the index of the open top-level category
// (-1 when none), child the index of the open subcategory within it (-1 when
// none). A level-2 heading opens a category and closes any subcategory; a
// level-3 heading opens a subcategory under the current category.
type Builder struct {
	tree  []Category
	list  []Item
	cat   int
	child int
}

// NewBuilder returns a Builder with no open category.
func NewBuilder() *Builder {
	return &Builder{cat: -1, child: -1}
}

// Apply feeds one event into the builder. Malformed fragments (empty heading
// text, subcategories with no parent, lists before the first category) are
// dropped without error.
func (b *Builder) Apply(ev parser.Event) {
	switch ev.Kind {
	case parser.KindHeading:
		b.applyHeading(ev)
	case parser.KindLinkList:
		b.applyList(ev.Entries)
	}
}

func (b *Builder) applyHeading(ev parser.Event) {
	title := strings.TrimSpace(ev.Text)
	if title == "" {
		return
	}

	switch ev.Level {
	case 2:
		b.tree = append(b.tree, Category{
			Title: title,
			Slug:  slug.Make(title),
			Items: []Item{},
		})
		b.cat = len(b.tree) - 1
		b.child = -1

	case 3:
		if b.cat < 0 {
			// Subcategory with no parent: its items attach nowhere.
			return
		}
		parent := &b.tree[b.cat]
		parent.Children = append(parent.Children, Category{
			Title: title,
			Slug:  slug.Make(parent.Title + "-" + title),
			Items: []Item{},
		})
		b.child = len(parent.Children) - 1
	}
}

func (b *Builder) applyList(entries []parser.LinkEntry) {
	if b.cat < 0 {
		// Items before the first top-level heading are not recoverable.
		return
	}

	parent := &b.tree[b.cat]
	target := &parent.Items
	sub := ""
	if b.child >= 0 {
		target = &parent.Children[b.child].Items
		sub = parent.Children[b.child].Title
	}

	for _, entry := range entries {
		title := strings.TrimSpace(entry.Title)
		if title == "" || entry.URL == "" {
			continue
		}
		item := Item{
			Title:       title,
			URL:         entry.URL,
			Description: description(entry.TrailingText),
			Category:    parent.Title,
			Subcategory: sub,
		}
		*target = append(*target, item)
		b.list = append(b.list, item)
	}
}

// Catalog finalizes the build, stamping metadata from now.
func (b *Builder) Catalog(now time.Time) *Catalog {
	return &Catalog{
		Tree: b.tree,
		List: b.list,
		Meta: Meta{
			UpdatedAt:  now,
			TotalItems: len(b.list),
			Version:    SchemaVersion,
		},
	}
}

// Parse converts raw awesome-list Markdown into a canonical Catalog. It
// returns an error only when the source cannot be tokenized; structural
// anomalies inside an otherwise parseable document are dropped best-effort.
func Parse(source []byte) (*Catalog, error) {
	events, err := parser.Scan(source)
	if err != nil {
		return nil, err
	}
	b := NewBuilder()
	for _, ev := range events {
		b.Apply(ev)
	}
	return b.Catalog(time.Now().UTC()), nil
}

// description strips a single leading separator from the text that followed
// the link and trims the remainder. Empty results stay empty so the field is
// omitted from JSON.
func description(trailing string) string {
	return strings.TrimSpace(descSepRe.ReplaceAllString(trailing, ""))
}
