// Package fetch retrieves the raw awesome-list document from its source and
// reports content freshness through opaque fingerprints.
package fetch

import "context"

// Payload is the result of one fetch attempt.
type Payload struct {
	// Text is the raw Markdown document. Empty when Modified is false.
	Text []byte
	// Fingerprint is the freshness token for this content (ETag,
	// Last-Modified, or a content checksum, depending on the source).
	Fingerprint string
	// Modified reports whether the content changed since the previous
	// fingerprint. When false the source skipped the body transfer.
	Modified bool
}

// Source abstracts document retrieval with conditional-request semantics.
type Source interface {
	// Fetch retrieves the document. previous is the fingerprint stored after
	// the last successful sync; when force is true the source ignores it and
	// always returns the full content.
	Fetch(ctx context.Context, previous string, force bool) (*Payload, error)
}
