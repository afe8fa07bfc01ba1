// Package mediawiki streams pages out of a MediaWiki XML export
// (Special:Export or a database dump).
package mediawiki

import (
	"compress/bzip2"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/heartmarshall/termbridge/internal/domain"
)

// MainNamespace is the namespace of ordinary articles.
const MainNamespace = 0

// Page is one <page> element of the export.
type Page struct {
	Title    string   `xml:"title"`
	NS       int      `xml:"ns"`
	Revision Revision `xml:"revision"`
}

// Revision holds the wikitext of the exported revision.
type Revision struct {
	Text string `xml:"text"`
}

// Text returns the page's wikitext.
func (p Page) Text() string {
	return p.Revision.Text
}

// Reader decodes pages one at a time.
type Reader struct {
	dec *xml.Decoder
}

// NewReader returns a Reader over an export document.
func NewReader(r io.Reader) *Reader {
	return &Reader{dec: xml.NewDecoder(r)}
}

// Next returns the next page. It returns io.EOF after the last page.
func (r *Reader) Next() (Page, error) {
	for {
		tok, err := r.dec.Token()
		if errors.Is(err, io.EOF) {
			return Page{}, io.EOF
		}
		if err != nil {
			return Page{}, domain.Malformed("xml export", err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "page" {
			continue
		}

		var p Page
		if err := r.dec.DecodeElement(&p, &start); err != nil {
			return Page{}, domain.Malformed("xml page", err)
		}
		return p, nil
	}
}

// Open opens an export by location: an http(s) URL or a local path.
// Locations ending in .bz2 are decompressed on the fly.
func Open(ctx context.Context, location string, client *http.Client) (io.ReadCloser, error) {
	var rc io.ReadCloser

	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		if client == nil {
			client = http.DefaultClient
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
		if err != nil {
			return nil, fmt.Errorf("mediawiki: create request: %w", err)
		}
		resp, err := client.Do(req)
		if err != nil {
			return nil, domain.CollaboratorFailed("export "+location, err)
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			if resp.StatusCode == http.StatusNotFound {
				return nil, domain.Absent("export "+location, nil)
			}
			return nil, domain.CollaboratorFailed("export "+location,
				fmt.Errorf("unexpected status %d", resp.StatusCode))
		}
		rc = resp.Body
	} else {
		f, err := os.Open(location)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil, domain.Absent("export "+location, err)
			}
			return nil, fmt.Errorf("mediawiki: open %s: %w", location, err)
		}
		rc = f
	}

	if strings.HasSuffix(location, ".bz2") {
		return &bzipReadCloser{Reader: bzip2.NewReader(rc), closer: rc}, nil
	}
	return rc, nil
}

type bzipReadCloser struct {
	io.Reader
	closer io.Closer
}

func (b *bzipReadCloser) Close() error {
	return b.closer.Close()
}
