// Package web implements driven.Fetcher over HTTP. HTML pages are reduced to
// their article text before being saved; other content is saved as is.
package web

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/custodia-labs/overlap-cli/internal/core/domain"
	"github.com/custodia-labs/overlap-cli/internal/core/ports/driven"
	"github.com/custodia-labs/overlap-cli/internal/extractors/html"
)

// UserAgent is sent with every request.
const UserAgent = "overlap-cli"

// Ensure Fetcher implements the interface.
var _ driven.Fetcher = (*Fetcher)(nil)

// Fetcher downloads sources over HTTP(S).
type Fetcher struct {
	client   *http.Client
	maxBytes int64
}

// Option configures the Fetcher.
type Option func(*Fetcher)

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(f *Fetcher) {
		f.client = c
	}
}

// New creates a fetcher with the given timeout and size limit.
// Non-positive values select the defaults.
func New(timeout time.Duration, maxBytes int64, opts ...Option) *Fetcher {
	if timeout <= 0 {
		timeout = domain.DefaultFetchTimeout
	}
	if maxBytes <= 0 {
		maxBytes = domain.DefaultFetchMaxBytes
	}
	f := &Fetcher{
		client:   &http.Client{Timeout: timeout},
		maxBytes: maxBytes,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch downloads rawURL into destDir. The file is named after the last
// path segment of the URL; HTML pages are saved as extracted text with a
// .txt extension.
func (f *Fetcher) Fetch(ctx context.Context, rawURL, destDir string) (domain.FetchResult, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return domain.FetchResult{}, fmt.Errorf("%w: invalid url %q", domain.ErrFetchFailed, rawURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return domain.FetchResult{}, fmt.Errorf("%w: %v", domain.ErrFetchFailed, err)
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return domain.FetchResult{}, fmt.Errorf("%w: %v", domain.ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return domain.FetchResult{}, fmt.Errorf("%w: %s returned status %d", domain.ErrFetchFailed, u, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return domain.FetchResult{}, fmt.Errorf("%w: reading body: %v", domain.ErrFetchFailed, err)
	}
	if int64(len(body)) > f.maxBytes {
		return domain.FetchResult{}, fmt.Errorf("%w: %s exceeds %d bytes", domain.ErrFetchFailed, u, f.maxBytes)
	}

	mimeType := contentType(resp.Header.Get("Content-Type"), body)
	name := FileName(u)

	if isHTML(mimeType) {
		body = []byte(html.Text(string(body), u))
		name = strings.TrimSuffix(name, filepath.Ext(name)) + ".txt"
		mimeType = "text/plain"
	} else if filepath.Ext(name) == "" {
		name += extensionFor(mimeType)
	}

	dest := filepath.Join(destDir, name)
	if err := writeAtomic(destDir, dest, body); err != nil {
		return domain.FetchResult{}, fmt.Errorf("%w: %v", domain.ErrFetchFailed, err)
	}

	return domain.FetchResult{
		URL:      u.String(),
		Path:     dest,
		MIMEType: mimeType,
		Bytes:    int64(len(body)),
	}, nil
}

// FileName derives a local file name from the last URL path segment,
// falling back to the host name.
func FileName(u *url.URL) string {
	name := path.Base(u.Path)
	if name == "/" || name == "." || name == "" {
		name = u.Hostname()
	}
	name = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', 0:
			return '_'
		}
		return r
	}, name)
	if name == "" || name == ".." {
		name = "download"
	}
	return name
}

func contentType(header string, body []byte) string {
	if header != "" {
		if mt, _, err := mime.ParseMediaType(header); err == nil {
			return mt
		}
	}
	mt, _, _ := mime.ParseMediaType(http.DetectContentType(body))
	return mt
}

func isHTML(mimeType string) bool {
	return mimeType == "text/html" || mimeType == "application/xhtml+xml"
}

func extensionFor(mimeType string) string {
	switch mimeType {
	case "application/pdf":
		return ".pdf"
	case "text/plain":
		return ".txt"
	case "text/markdown":
		return ".md"
	}
	if exts, err := mime.ExtensionsByType(mimeType); err == nil && len(exts) > 0 {
		return exts[0]
	}
	return ""
}

// writeAtomic writes data to a temporary file in dir and renames it over
// dest, so a failed download never leaves a partial file.
func writeAtomic(dir, dest string, data []byte) (err error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".fetch-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = os.Rename(tmp.Name(), dest); err != nil {
		return fmt.Errorf("saving %s: %w", dest, err)
	}
	return nil
}
