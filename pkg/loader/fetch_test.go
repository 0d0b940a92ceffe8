// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package loader

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/altshiftab/legacyschema/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPFetcher(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/schema.json":
			w.Header().Set("Content-Type", "application/schema+json")
			w.Write([]byte(`{"type":"string"}`))
		case "/broken.json":
			http.Error(w, "oops", http.StatusInternalServerError)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	ctx := context.Background()
	f := HTTPFetcher{Client: srv.Client()}

	data, err := f.Fetch(ctx, mustParse(t, srv.URL+"/schema.json"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"string"}`, string(data))

	_, err = f.Fetch(ctx, mustParse(t, srv.URL+"/missing.json"))
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.Fetch(ctx, mustParse(t, srv.URL+"/broken.json"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)

	l := New(WithFetcher(f))
	s, err := l.LoadURI(ctx, srv.URL+"/schema.json")
	require.NoError(t, err)
	pt, ok := s.Types()
	require.True(t, ok)
	assert.Equal(t, []string{"string"}, pt.Names())
}

func TestFileFetcherYAML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "person.yaml"), []byte(`
type: object
properties:
  name:
    type: string
  age:
    $ref: "defs.json#/definitions/age"
required: [name]
`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "defs.json"),
		[]byte(`{"definitions":{"age":{"type":"integer","minimum":0}}}`), 0o644))

	l := New(WithFetcher(SchemeFetcher{"file": FileFetcher{Dir: dir}}))
	s, err := l.LoadURI(context.Background(), "file:///person.yaml")
	require.NoError(t, err)

	var names []string
	for pair := s.PropertySchemas().Oldest(); pair != nil; pair = pair.Next() {
		names = append(names, pair.Key)
	}
	assert.ElementsMatch(t, []string{"name", "age"}, names)

	age, _ := s.PropertySchemas().Get("age")
	ref, _ := age.Ref()
	require.NotNil(t, ref.Schema())
	assert.Equal(t, "file:///defs.json#/definitions/age", ref.Schema().Location.AbsoluteURI())

	_, err = l.LoadURI(context.Background(), "file:///nope.json")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFileFetcherConfined(t *testing.T) {
	parent := t.TempDir()
	dir := filepath.Join(parent, "schemas")
	require.NoError(t, os.Mkdir(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(parent, "secret.json"), []byte(`{}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ok.json"), []byte(`{}`), 0o644))

	ctx := context.Background()
	f := FileFetcher{Dir: dir}
	_, err := f.Fetch(ctx, mustParse(t, "file:///ok.json"))
	require.NoError(t, err)
	for _, uri := range []string{"file:///../secret.json", "file:///a/../../secret.json"} {
		_, err := f.Fetch(ctx, mustParse(t, uri))
		assert.ErrorContains(t, err, "is outside", uri)
	}

	// Resolving a $ref drops the dot segments above the root.
	l := New(WithFetcher(SchemeFetcher{"file": f}))
	_, err = l.LoadBytes(ctx, []byte(`{"$ref": "file:///../secret.json"}`))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDefaultFetcherNoFiles(t *testing.T) {
	_, err := DefaultFetcher.Fetch(context.Background(), mustParse(t, "file:///etc/passwd"))
	assert.ErrorContains(t, err, `no fetcher for scheme "file"`)

	_, err = New().LoadBytes(context.Background(), []byte(`{"$ref": "file:///etc/passwd"}`))
	assert.ErrorContains(t, err, `no fetcher for scheme "file"`)
}

func TestSchemeFetcherUnknownScheme(t *testing.T) {
	_, err := SchemeFetcher{}.Fetch(context.Background(), &url.URL{Scheme: "ftp", Host: "example.com"})
	assert.ErrorContains(t, err, `no fetcher for scheme "ftp"`)
}

func TestMapFetcherDraft3(t *testing.T) {
	l := New(
		WithDraft(types.Draft3),
		WithFetcher(MapFetcher{"urn:example:base": []byte(`{"disallow":"null"}`)}),
	)
	s, err := l.LoadURI(context.Background(), "urn:example:base")
	require.NoError(t, err)
	_, ok := s.Keyword("disallow")
	assert.True(t, ok)
}
