// Package source fetches the raw CSV text of a dataset from a base location,
// either an HTTP(S) URL prefix or a local directory.
package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Source returns the raw text of a named data file.
type Source interface {
	Fetch(ctx context.Context, filename string) (string, error)
}

// FetchError reports a non-success HTTP response.
type FetchError struct {
	URL    string
	Status int
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: http %d", e.URL, e.Status)
}

// New picks an HTTPSource for http(s) bases and a DirSource otherwise.
func New(base string, timeout time.Duration) Source {
	if strings.HasPrefix(base, "http://") || strings.HasPrefix(base, "https://") {
		return NewHTTPSource(base, &http.Client{Timeout: timeout})
	}
	return DirSource{Dir: base}
}

// HTTPSource fetches files relative to BaseURL.
type HTTPSource struct {
	BaseURL string
	Client  *http.Client
}

// NewHTTPSource returns an HTTPSource whose base always ends with a slash.
func NewHTTPSource(baseURL string, client *http.Client) *HTTPSource {
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPSource{BaseURL: baseURL, Client: client}
}

// Fetch issues a single GET. There is no retry.
func (s *HTTPSource) Fetch(ctx context.Context, filename string) (string, error) {
	url := s.BaseURL + strings.TrimPrefix(filename, "/")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("build request for %s: %w", url, err)
	}

	resp, err := s.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &FetchError{URL: url, Status: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", url, err)
	}
	return string(body), nil
}

// DirSource reads files from a local directory.
type DirSource struct {
	Dir string
}

// Fetch reads Dir/filename. Names that would escape Dir are rejected.
func (s DirSource) Fetch(_ context.Context, filename string) (string, error) {
	if !filepath.IsLocal(filepath.FromSlash(filename)) {
		return "", fmt.Errorf("read %s: path escapes data directory", filename)
	}
	data, err := os.ReadFile(filepath.Join(s.Dir, filepath.FromSlash(filename)))
	if err != nil {
		return "", fmt.Errorf("read %s: %w", filename, err)
	}
	return string(data), nil
}
