package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/starford/raido/internal/checksum"
)

// maxDocumentSize caps the body read. Awesome lists are single Markdown
// documents; anything past this is a misconfigured source.
const maxDocumentSize = 16 << 20

// HTTPSource fetches the document over HTTP using conditional requests.
// The previous fingerprint is sent as If-None-Match; a 304 response reports
// not-modified without transferring the body.
type HTTPSource struct {
	url       string
	userAgent string
	client    *http.Client
}

// NewHTTPSource creates a source for the given document URL.
func NewHTTPSource(url, userAgent string) *HTTPSource {
	return &HTTPSource{
		url:       url,
		userAgent: userAgent,
		client:    &http.Client{Timeout: 30 * time.Second},
	}
}

// Fetch implements Source.
func (s *HTTPSource) Fetch(ctx context.Context, previous string, force bool) (*Payload, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch: build request: %w", err)
	}
	if s.userAgent != "" {
		req.Header.Set("User-Agent", s.userAgent)
	}
	if previous != "" && !force {
		req.Header.Set("If-None-Match", previous)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %s: %w", s.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotModified {
		return &Payload{Fingerprint: previous, Modified: false}, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch: %s: unexpected status %d", s.url, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize))
	if err != nil {
		return nil, fmt.Errorf("fetch: read body: %w", err)
	}

	return &Payload{
		Text:        body,
		Fingerprint: fingerprint(resp, body),
		Modified:    true,
	}, nil
}

// fingerprint prefers the server's ETag, then Last-Modified, then falls back
// to a checksum of the body for servers that send neither validator.
func fingerprint(resp *http.Response, body []byte) string {
	if etag := resp.Header.Get("ETag"); etag != "" {
		return etag
	}
	if lm := resp.Header.Get("Last-Modified"); lm != "" {
		return lm
	}
	return checksum.Sum(body)
}
