// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
)

// Fetcher retrieves the document named by a reference.
// The URI has no fragment.
//
// The loader returns a Fetcher's errors unchanged,
// and does not retry.
type Fetcher interface {
	Fetch(ctx context.Context, uri *url.URL) ([]byte, error)
}

// FetcherFunc adapts a function to the [Fetcher] interface.
type FetcherFunc func(ctx context.Context, uri *url.URL) ([]byte, error)

// Fetch calls f.
func (f FetcherFunc) Fetch(ctx context.Context, uri *url.URL) ([]byte, error) {
	return f(ctx, uri)
}

// ErrNotFound is returned by the fetchers of this package
// when there is no document at a URI.
var ErrNotFound = errors.New("jsonschema: document not found")

// DefaultFetcher fetches http and https URIs with [HTTPFetcher].
// It does not read files: add a [FileFetcher] to a [SchemeFetcher]
// for that.
var DefaultFetcher Fetcher = SchemeFetcher{
	"http":  HTTPFetcher{},
	"https": HTTPFetcher{},
}

// HTTPFetcher fetches documents with HTTP GET.
type HTTPFetcher struct {
	// Client is the client to use.
	// If nil, a client with a 30 second timeout is used.
	Client *http.Client
}

var defaultClient = &http.Client{Timeout: 30 * time.Second}

// Fetch implements [Fetcher].
func (f HTTPFetcher) Fetch(ctx context.Context, uri *url.URL) ([]byte, error) {
	client := f.Client
	if client == nil {
		client = defaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/schema+json, application/json;q=0.9, */*;q=0.1")

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: GET %s: %s", ErrNotFound, uri, resp.Status)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("jsonschema: GET %s: %s", uri, resp.Status)
	}
	return io.ReadAll(resp.Body)
}

// FileFetcher reads documents named by file URIs.
// Files whose names end in .yaml or .yml are converted to JSON.
type FileFetcher struct {
	// Dir, if not empty, is the directory the paths of URIs
	// are relative to. Paths that leave it are rejected.
	Dir string
}

// Fetch implements [Fetcher].
func (f FileFetcher) Fetch(ctx context.Context, uri *url.URL) ([]byte, error) {
	if uri.Scheme != "file" {
		return nil, fmt.Errorf("jsonschema: FileFetcher can't fetch %q", uri)
	}
	path := filepath.FromSlash(uri.Path)
	if f.Dir != "" {
		rel := strings.TrimPrefix(uri.Path, "/")
		if !filepath.IsLocal(filepath.FromSlash(rel)) {
			return nil, fmt.Errorf("jsonschema: %q is outside %s", uri, f.Dir)
		}
		path = filepath.Join(f.Dir, filepath.FromSlash(rel))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %v", ErrNotFound, err)
		}
		return nil, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		js, err := yaml.YAMLToJSON(data)
		if err != nil {
			return nil, fmt.Errorf("jsonschema: converting %s from YAML: %w", path, err)
		}
		return js, nil
	}
	return data, nil
}

// MapFetcher serves documents from memory.
// The keys are URIs without fragments.
type MapFetcher map[string][]byte

// Fetch implements [Fetcher].
func (m MapFetcher) Fetch(ctx context.Context, uri *url.URL) ([]byte, error) {
	data, ok := m[uri.String()]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, uri)
	}
	return data, nil
}

// SchemeFetcher chooses a Fetcher by the scheme of the URI.
type SchemeFetcher map[string]Fetcher

// Fetch implements [Fetcher].
func (sf SchemeFetcher) Fetch(ctx context.Context, uri *url.URL) ([]byte, error) {
	f, ok := sf[uri.Scheme]
	if !ok {
		return nil, fmt.Errorf("jsonschema: no fetcher for scheme %q of %s", uri.Scheme, uri)
	}
	return f.Fetch(ctx, uri)
}
