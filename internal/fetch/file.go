package fetch

import (
	"context"
	"fmt"
	"os"

	"github.com/starford/raido/internal/checksum"
)

// FileSource reads the document from a local Markdown file. It exists for
// development and offline use; freshness is detected by content checksum
// since files carry no conditional-request validator.
type FileSource struct {
	path string
}

// NewFileSource creates a source for the given file path.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Fetch implements Source.
func (s *FileSource) Fetch(_ context.Context, previous string, force bool) (*Payload, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("fetch: read %s: %w", s.path, err)
	}

	cs := checksum.Sum(data)
	if !force && previous != "" && cs == previous {
		return &Payload{Fingerprint: cs, Modified: false}, nil
	}

	return &Payload{Text: data, Fingerprint: cs, Modified: true}, nil
}
