// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package loader

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"testing"

	"github.com/altshiftab/legacyschema/pkg/jsonvalue"
	"github.com/altshiftab/legacyschema/pkg/types"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, s string) *url.URL {
	t.Helper()
	u, err := url.Parse(s)
	require.NoError(t, err)
	return u
}

func loadString(t *testing.T, l *Loader, s string) *types.Schema {
	t.Helper()
	schema, err := l.LoadBytes(context.Background(), []byte(s))
	require.NoError(t, err, s)
	return schema
}

func TestLoadRoundTrip(t *testing.T) {
	for _, s := range []string{
		`{}`,
		`{"type":"string","minLength":1,"maxLength":10,"pattern":"^a"}`,
		`{"type":["string","null"],"enum":["a",null,1.50]}`,
		`{"minimum":1,"exclusiveMinimum":true,"maximum":10}`,
		`{"exclusiveMaximum":false}`,
		`{"items":[{"type":"string"},{}],"additionalItems":false}`,
		`{"additionalItems":{"type":"number"}}`,
		`{"properties":{"a":{"$ref":"#/definitions/x"}},"definitions":{"x":{"type":"integer"}}}`,
		`{"patternProperties":{"^x-":{}},"additionalProperties":false}`,
		`{"dependencies":{"a":["b","c"],"d":{"required":["e"]}}}`,
		`{"allOf":[{}],"anyOf":[{"type":"null"}],"oneOf":[{},{"not":{}}]}`,
		`{"x-vendor":{"nested":[1,2,3]},"title":"t","default":{"a":1}}`,
		`{"$schema":"http://json-schema.org/draft-03/schema#","type":["string",{"type":"number"}],"disallow":"null","extends":{},"properties":{"a":{"required":true}},"dependencies":{"a":"b"},"divisibleBy":3}`,
		`{"$schema":"http://json-schema.org/draft-06/schema#","exclusiveMinimum":0,"const":{"a":[1]},"contains":true,"propertyNames":{"maxLength":3},"items":false,"examples":[1]}`,
		`true`,
	} {
		t.Run(s, func(t *testing.T) {
			l := New(WithDraft(draftOf(s)))
			schema := loadString(t, l, s)

			data, err := schema.MarshalJSON()
			require.NoError(t, err)
			got, err := jsonvalue.Decode(data)
			require.NoError(t, err)
			want, err := jsonvalue.Decode([]byte(s))
			require.NoError(t, err)
			assert.True(t, jsonvalue.Equal(got, want), "round trip of %s produced %s", s, data)
		})
	}
}

// draftOf returns the draft to load s with when it has no "$schema".
func draftOf(s string) types.Draft {
	if s == "true" {
		return types.Draft6
	}
	return types.Draft4
}

func TestLoadFolding(t *testing.T) {
	l := New()

	s := loadString(t, l, `{"minimum":3,"exclusiveMinimum":true}`)
	require.Len(t, s.Parts, 2)
	assert.Same(t, &types.MinimumKeyword, s.Parts[0].Keyword)
	assert.Equal(t, types.PartLimit{Limit: "3", Exclusive: true, Form: types.LimitBoolean}, s.Parts[0].Value)
	assert.Same(t, &types.ImplicitTypeKeyword, s.Parts[1].Keyword)
	assert.Equal(t, types.PartStrings{"number"}, s.Parts[1].Value)

	s = loadString(t, New(WithDraft(types.Draft6)), `{"exclusiveMinimum":3}`)
	assert.Equal(t, types.PartLimit{Limit: "3", Exclusive: true, Form: types.LimitNumeric}, s.Parts[0].Value)

	s = loadString(t, l, `{"additionalItems":false,"items":[{}]}`)
	require.Len(t, s.Parts, 2)
	items, ok := s.Parts[0].Value.(types.PartItems)
	require.True(t, ok)
	assert.True(t, items.IsTuple)
	assert.Len(t, items.Tuple, 1)
	isBool, isTrue := items.Additional.IsBoolSchema()
	assert.True(t, isBool)
	assert.False(t, isTrue)
}

func TestLoadSelfReference(t *testing.T) {
	s := loadString(t, New(), `{"properties":{"next":{"$ref":"#"}}}`)
	next, ok := s.PropertySchemas().Get("next")
	require.True(t, ok)
	ref, ok := next.Ref()
	require.True(t, ok)
	assert.Same(t, s, ref.Schema())
}

func TestLoadSharedTarget(t *testing.T) {
	s := loadString(t, New(), `{
		"properties": {
			"a": {"$ref": "#/definitions/pos"},
			"b": {"$ref": "#/definitions/pos"}
		},
		"definitions": {"pos": {"minimum": 0}}
	}`)
	props := s.PropertySchemas()
	a, _ := props.Get("a")
	b, _ := props.Get("b")
	ra, _ := a.Ref()
	rb, _ := b.Ref()
	require.NotNil(t, ra.Schema())
	assert.Same(t, ra.Schema(), rb.Schema())
	assert.Equal(t, "#/definitions/pos", ra.Schema().Location.Pointer())
}

func TestLoadLogsTreeSize(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	loadString(t, New(WithLogger(logger)), `{
		"properties": {
			"a": {"$ref": "#/definitions/pos"},
			"b": {"$ref": "#/definitions/pos"}
		},
		"definitions": {"pos": {"minimum": 0}}
	}`)
	var summary map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var rec map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &rec), line)
		if rec["msg"] == "jsonschema: schema loaded" {
			summary = rec
		}
	}
	require.NotNil(t, summary, buf.String())
	assert.EqualValues(t, 4, summary["nodes"])
	assert.EqualValues(t, 2, summary["refs"])
	assert.EqualValues(t, 2, summary["slots"])
}

func TestLoadIDScopes(t *testing.T) {
	l := New(
		WithBaseURI(mustParse(t, "http://example.com/root.json")),
		WithFetcher(FetcherFunc(func(ctx context.Context, uri *url.URL) ([]byte, error) {
			return nil, fmt.Errorf("unexpected fetch of %s", uri)
		})),
	)
	s := loadString(t, l, `{
		"id": "http://example.com/root.json",
		"properties": {
			"a": {"$ref": "item.json"},
			"b": {"$ref": "#foo"},
			"c": {"$ref": "item.json#/definitions/x"}
		},
		"definitions": {
			"item": {
				"id": "item.json",
				"type": "integer",
				"definitions": {"x": {"type": "string"}}
			},
			"named": {"id": "#foo", "type": "null"}
		}
	}`)
	props := s.PropertySchemas()

	a, _ := props.Get("a")
	ra, _ := a.Ref()
	require.NotNil(t, ra.Schema())
	assert.Equal(t, "http://example.com/item.json", ra.URI)
	assert.Equal(t, "#/definitions/item", ra.Schema().Location.Pointer())

	b, _ := props.Get("b")
	rb, _ := b.Ref()
	assert.Equal(t, "#/definitions/named", rb.Schema().Location.Pointer())

	c, _ := props.Get("c")
	rc, _ := c.Ref()
	assert.Equal(t, "#/definitions/item/definitions/x", rc.Schema().Location.Pointer())
	assert.Equal(t, "http://example.com/item.json#/definitions/x", rc.Schema().Location.AbsoluteURI())
}

func TestLoadRelativeIDWithoutBase(t *testing.T) {
	l := New(WithFetcher(FetcherFunc(func(ctx context.Context, uri *url.URL) ([]byte, error) {
		return nil, fmt.Errorf("unexpected fetch of %s", uri)
	})))
	s := loadString(t, l, `{
		"definitions": {
			"a": {
				"id": "sub/",
				"definitions": {"b": {"type": "integer"}},
				"properties": {"v": {"$ref": "#/definitions/b"}}
			}
		},
		"$ref": "#/definitions/a"
	}`)
	r, ok := s.Ref()
	require.True(t, ok)
	a := r.Schema()
	require.NotNil(t, a)
	assert.Equal(t, "sub/#", a.Location.AbsoluteURI())

	v, ok := a.PropertySchemas().Get("v")
	require.True(t, ok)
	rv, _ := v.Ref()
	assert.Equal(t, "sub/#/definitions/b", rv.URI)
	require.NotNil(t, rv.Schema())
	assert.Equal(t, "#/definitions/a/definitions/b", rv.Schema().Location.Pointer())
}

func TestLoadRemote(t *testing.T) {
	fetcher := MapFetcher{
		"http://example.com/defs.json": []byte(`{
			"definitions": {
				"name": {"type": "string", "minLength": 1},
				"names": {"type": "array", "items": {"$ref": "#/definitions/name"}}
			}
		}`),
	}
	l := New(WithFetcher(fetcher), WithBaseURI(mustParse(t, "http://example.com/main.json")))
	s := loadString(t, l, `{"properties":{"names":{"$ref":"defs.json#/definitions/names"}}}`)

	names, _ := s.PropertySchemas().Get("names")
	ref, _ := names.Ref()
	target := ref.Schema()
	require.NotNil(t, target)
	assert.Equal(t, "http://example.com/defs.json", target.Location.Document.String())
	assert.Equal(t, "http://example.com/defs.json#/definitions/names", target.Location.AbsoluteURI())
}

func TestLoadURI(t *testing.T) {
	fetcher := MapFetcher{
		"http://example.com/a.json": []byte(`{"definitions":{"b":{"type":"boolean"}}}`),
	}
	l := New(WithFetcher(fetcher))

	s, err := l.LoadURI(context.Background(), "http://example.com/a.json#/definitions/b")
	require.NoError(t, err)
	assert.Equal(t, "#/definitions/b", s.Location.Pointer())

	_, err = l.LoadURI(context.Background(), "http://example.com/missing.json")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLoadMetaSchemas(t *testing.T) {
	fetcher := FetcherFunc(func(ctx context.Context, uri *url.URL) ([]byte, error) {
		return nil, fmt.Errorf("unexpected fetch of %s", uri)
	})
	l := New(WithFetcher(fetcher))
	for _, uri := range []string{
		"http://json-schema.org/draft-03/schema#",
		"http://json-schema.org/draft-04/schema#",
		"http://json-schema.org/draft-06/schema#",
	} {
		s, err := l.LoadURI(context.Background(), uri)
		require.NoError(t, err, uri)
		assert.NotEmpty(t, s.Parts, uri)
	}

	s := loadString(t, l, `{"properties":{"schema":{"$ref":"http://json-schema.org/draft-04/schema#"}}}`)
	schema, _ := s.PropertySchemas().Get("schema")
	ref, _ := schema.Ref()
	require.NotNil(t, ref.Schema())
	_, ok := ref.Schema().Keyword("properties")
	assert.True(t, ok)
}

func TestLoadResolutionDepth(t *testing.T) {
	chain := func(n int) MapFetcher {
		m := MapFetcher{}
		for i := 0; i < n; i++ {
			m[fmt.Sprintf("http://example.com/d%d.json", i)] = fmt.Appendf(nil, `{"$ref":"d%d.json"}`, i+1)
		}
		m[fmt.Sprintf("http://example.com/d%d.json", n)] = []byte(`{"type":"string"}`)
		return m
	}

	// Loading d0 loads d1 through d10 as nested references.
	l := New(WithFetcher(chain(10)))
	_, err := l.LoadURI(context.Background(), "http://example.com/d0.json")
	require.NoError(t, err)

	l = New(WithFetcher(chain(11)))
	_, err = l.LoadURI(context.Background(), "http://example.com/d0.json")
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrResolutionDepth)
	var rde *types.ResolutionDepthError
	require.ErrorAs(t, err, &rde)
	assert.Equal(t, DefaultMaxRefDepth, rde.Depth)
	assert.Equal(t, "http://example.com/d11.json", rde.URI)

	l = New(WithFetcher(chain(3)), WithMaxRefDepth(2))
	_, err = l.LoadURI(context.Background(), "http://example.com/d0.json")
	assert.ErrorIs(t, err, types.ErrResolutionDepth)
}

func TestLoadFetchErrorUnchanged(t *testing.T) {
	errBoom := errors.New("boom")
	l := New(WithFetcher(FetcherFunc(func(context.Context, *url.URL) ([]byte, error) {
		return nil, errBoom
	})))
	_, err := l.LoadBytes(context.Background(), []byte(`{"$ref":"http://example.com/x.json"}`))
	assert.Same(t, errBoom, err)
}

func TestLoadErrors(t *testing.T) {
	for _, tt := range []struct {
		schema  string
		draft   types.Draft
		pointer string
		msg     string
	}{
		{`{"minLength":"3"}`, types.Draft4, "#/minLength", "expected number, found string"},
		{`{"minLength":-1}`, types.Draft4, "#/minLength", "non-negative integer"},
		{`{"maxItems":1.5}`, types.Draft4, "#/maxItems", "non-negative integer"},
		{`{"multipleOf":0}`, types.Draft4, "#/multipleOf", "greater than 0"},
		{`{"properties":{"a":{"type":"strin"}}}`, types.Draft4, "#/properties/a/type", `unknown type "strin"`},
		{`{"properties":{"a":true}}`, types.Draft4, "#/properties/a", "expected object, found boolean"},
		{`{"allOf":[]}`, types.Draft4, "#/allOf", "at least one schema"},
		{`{"pattern":"("}`, types.Draft4, "#/pattern", "invalid regular expression"},
		{`{"patternProperties":{"[":{}}}`, types.Draft4, "#/patternProperties", "invalid regular expression"},
		{`{"required":["a",1]}`, types.Draft4, "#/required/1", "expected string, found number"},
		{`{"dependencies":{"a":"b"}}`, types.Draft4, "#/dependencies/a", "expected array or schema"},
		{`{"items":[{},3]}`, types.Draft4, "#/items/1", "expected schema, found number"},
		{`{"type":["string",{}]}`, types.Draft4, "#/type/1", "expected string, found object"},
		{`{"exclusiveMinimum":true}`, types.Draft6, "#/exclusiveMinimum", "expected number, found boolean"},
		{`{"$ref":"#/definitions/missing"}`, types.Draft4, "#/$ref", "can't resolve reference"},
		{`{"$schema":"http://json-schema.org/draft-07/schema#"}`, types.Draft4, "#/$schema", "unsupported schema version"},
		{`3`, types.Draft4, "#", "expected schema, found number"},
		{`true`, types.Draft4, "#", "expected object, found boolean"},
	} {
		t.Run(tt.schema, func(t *testing.T) {
			_, err := New(WithDraft(tt.draft)).LoadBytes(context.Background(), []byte(tt.schema))
			require.Error(t, err)
			var se *types.SchemaError
			require.ErrorAs(t, err, &se)
			assert.Equal(t, tt.pointer, se.Location.Pointer())
			assert.Contains(t, err.Error(), tt.msg)
			assert.True(t, strings.HasPrefix(err.Error(), tt.pointer+": "), err.Error())
		})
	}
}

func TestLoadInvalidJSON(t *testing.T) {
	_, err := New().LoadBytes(context.Background(), []byte(`{"type":`))
	assert.Error(t, err)
}
