// Package parser scans awesome-list Markdown and emits typed block events.
package parser

import (
	"fmt"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// EventKind discriminates the structural events produced by Scan.
type EventKind int

const (
	// KindHeading is a level-2 or level-3 heading.
	KindHeading EventKind = iota
	// KindLinkList is one contiguous bullet-list block of link entries.
	KindLinkList
)

// LinkEntry is a single bullet item whose first inline element is a link.
type LinkEntry struct {
	Title        string
	URL          string
	TrailingText string
}

// Event is one structural block, in document order.
type Event struct {
	Kind    EventKind
	Level   int         // heading level (2 or 3), headings only
	Text    string      // heading text, headings only
	Entries []LinkEntry // link lists only
}

var engine = goldmark.New(goldmark.WithExtensions(extension.GFM, extension.Linkify))

// Scan tokenizes source and returns the ordered event sequence.
//
// Only level-2/3 headings and bullet lists contribute events; everything else
// is plain content. Bullet items that do not start with a link are dropped
// silently, list block boundaries follow Markdown block structure (blank lines
// between bullets do not split a list). Scan returns an error only when the
// input cannot be tokenized at all.
func Scan(source []byte) (events []Event, err error) {
	if !utf8.Valid(source) {
		return nil, fmt.Errorf("parser: source is not valid UTF-8")
	}

	// goldmark reports tokenizer-level failures by panicking; convert that
	// into the error path so callers can abort the sync cycle.
	defer func() {
		if r := recover(); r != nil {
			events = nil
			err = fmt.Errorf("parser: tokenize: %v", r)
		}
	}()

	doc := engine.Parser().Parse(text.NewReader(source))

	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Heading:
			if node.Level != 2 && node.Level != 3 {
				continue
			}
			events = append(events, Event{
				Kind:  KindHeading,
				Level: node.Level,
				Text:  inlineText(node, source),
			})

		case *ast.List:
			entries := listEntries(node, source)
			events = append(events, Event{Kind: KindLinkList, Entries: entries})
		}
	}

	return events, nil
}

// listEntries collects the link entries of one list block. Items without a
// leading link, or whose link has no destination, are skipped.
func listEntries(list *ast.List, source []byte) []LinkEntry {
	var entries []LinkEntry
	for li := list.FirstChild(); li != nil; li = li.NextSibling() {
		if entry, ok := itemEntry(li, source); ok {
			entries = append(entries, entry)
		}
	}
	return entries
}

// itemEntry extracts the entry from a single list item. The item's first
// block holds the inline content; its first inline node must be the link.
func itemEntry(item ast.Node, source []byte) (LinkEntry, bool) {
	block := item.FirstChild()
	if block == nil {
		return LinkEntry{}, false
	}

	first := block.FirstChild()
	var entry LinkEntry
	var after ast.Node

	switch link := first.(type) {
	case *ast.Link:
		entry.Title = inlineText(link, source)
		entry.URL = string(link.Destination)
		after = link.NextSibling()
	case *ast.AutoLink:
		url := string(link.URL(source))
		entry.Title = url
		entry.URL = url
		after = link.NextSibling()
	default:
		return LinkEntry{}, false
	}

	if entry.URL == "" {
		return LinkEntry{}, false
	}

	var trailing []byte
	for n := after; n != nil; n = n.NextSibling() {
		trailing = append(trailing, inlineText(n, source)...)
	}
	entry.TrailingText = string(trailing)

	return entry, true
}

// inlineText concatenates the text of every inline node under n, in order.
func inlineText(n ast.Node, source []byte) string {
	var buf []byte
	switch t := n.(type) {
	case *ast.Text:
		return string(t.Segment.Value(source))
	case *ast.String:
		return string(t.Value)
	}
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		buf = append(buf, inlineText(child, source)...)
	}
	return string(buf)
}
