// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package types

import (
	"errors"
	"net/url"
	"testing"

	"github.com/altshiftab/legacyschema/pkg/jsonpointer"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParseURL(t *testing.T, s string) *url.URL {
	t.Helper()
	u, err := url.Parse(s)
	require.NoError(t, err)
	return u
}

func TestArena(t *testing.T) {
	var a Arena
	h1 := a.Reserve()
	h2 := a.Reserve()
	assert.Equal(t, 2, a.Len())
	assert.Nil(t, a.Node(h1))
	assert.Equal(t, []Handle{h1, h2}, a.Unfilled())

	s := &Schema{}
	require.NoError(t, a.Set(h1, s))
	assert.Same(t, s, a.Node(h1))
	assert.Equal(t, []Handle{h2}, a.Unfilled())

	assert.Error(t, a.Set(h1, s), "filled twice")
	assert.Error(t, a.Set(h2, nil), "nil")
	assert.Error(t, a.Set(Handle(7), s), "out of range")
	assert.Nil(t, a.Node(Handle(-1)))
}

func TestLocation(t *testing.T) {
	root := NewLocation(mustParseURL(t, "http://example.com/root.json#ignored"))
	assert.Equal(t, "http://example.com/root.json#", root.AbsoluteURI())
	assert.Equal(t, "#", root.Pointer())

	child := root.WithChildPath(nil, "properties", "a")
	assert.Equal(t, "http://example.com/root.json#/properties/a", child.AbsoluteURI())
	assert.Equal(t, "http://example.com/root.json#/properties/a/minimum", child.URI("minimum"))
	assert.Equal(t, child.AbsoluteURI(), child.CanonicalURI())

	// An id with a path starts a new scope.
	scoped := root.WithChildPath(nil, "definitions", "item").WithScope(mustParseURL(t, "http://example.com/item.json"))
	assert.Equal(t, "http://example.com/item.json#", scoped.AbsoluteURI())
	assert.Equal(t, "http://example.com/root.json#/definitions/item", scoped.CanonicalURI())
	below := scoped.WithChildPath(nil, "items")
	assert.Equal(t, "http://example.com/item.json#/items", below.AbsoluteURI())
	assert.Equal(t, "#/definitions/item/items", below.Pointer())

	u, err := below.Resolve("other.json#/x")
	require.NoError(t, err)
	assert.Equal(t, "http://example.com/other.json#/x", u.String())

	// A plain name fragment identifies only its own node.
	named := root.WithChildPath(nil, "definitions", "foo").WithScope(mustParseURL(t, "http://example.com/root.json#foo"))
	assert.Equal(t, "http://example.com/root.json#foo", named.AbsoluteURI())
	assert.Equal(t, "http://example.com/root.json#/definitions/foo/type", named.URI("type"))

	// Documents loaded without a URI have bare fragments.
	anon := NewLocation(nil).WithChildPath(nil, "not")
	assert.Equal(t, "#/not", anon.AbsoluteURI())
	u, err = anon.Resolve("#/definitions/a")
	require.NoError(t, err)
	assert.Equal(t, "#/definitions/a", u.String())

	// A relative id in such a document stays relative.
	rel := anon.WithScope(mustParseURL(t, "sub/"))
	for ref, want := range map[string]string{
		"#/definitions/b":     "sub/#/definitions/b",
		"other.json":          "sub/other.json",
		"../x.json":           "x.json",
		"http://example.com/": "http://example.com/",
	} {
		u, err := rel.Resolve(ref)
		require.NoError(t, err)
		assert.Equal(t, want, u.String(), ref)
	}
}

func TestSchemaError(t *testing.T) {
	loc := NewLocation(nil).WithChildPath(nil, "properties", "a")
	err := loc.Errorf("minLength", "expected %s, found %s", "integer", "string")
	assert.Equal(t, "#/properties/a: expected integer, found string", err.Error())

	cause := errors.New("boom")
	wrapped := err.Wrap(cause)
	assert.ErrorIs(t, wrapped, cause)
	assert.Equal(t, "#/properties/a: expected integer, found string: boom", wrapped.Error())
	assert.Nil(t, err.Err, "Wrap must not modify its receiver")
}

func TestResolutionDepthError(t *testing.T) {
	var err error = &ResolutionDepthError{URI: "http://example.com/d11.json", Depth: 10}
	assert.ErrorIs(t, err, ErrResolutionDepth)
	assert.Contains(t, err.Error(), "exceeded 10 nested references")
	assert.Contains(t, err.Error(), "d11.json")
}

func typeSchema(names ...string) *Schema {
	pt := PartTypes{Single: len(names) == 1}
	for _, n := range names {
		pt.Entries = append(pt.Entries, TypeEntry{Name: n})
	}
	return &Schema{Parts: []Part{MakePart(&TypeKeyword, pt)}}
}

func TestEqual(t *testing.T) {
	a := &Schema{Parts: []Part{
		MakePart(&MinLengthKeyword, PartInt(1)),
		MakePart(&NotKeyword, PartSchema{S: typeSchema("string")}),
	}}
	b := &Schema{
		Location: NewLocation(nil).WithChildPath(nil, "elsewhere"),
		Parts: []Part{
			MakePart(&NotKeyword, PartSchema{S: typeSchema("string")}),
			MakePart(&MinLengthKeyword, PartInt(1)),
			MakePart(&ImplicitTypeKeyword, PartStrings{"string"}),
		},
	}
	assert.True(t, a.Equal(b), "order, location and generated parts are ignored")

	c := &Schema{Parts: []Part{
		MakePart(&MinLengthKeyword, PartInt(1)),
		MakePart(&NotKeyword, PartSchema{S: typeSchema("number")}),
	}}
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(nil))
	assert.True(t, (*Schema)(nil).Equal(nil))

	limit := func(n string, exclusive bool) *Schema {
		return &Schema{Parts: []Part{MakePart(&MinimumKeyword, PartLimit{Limit: json.Number(n), Exclusive: exclusive, Form: LimitBoolean})}}
	}
	assert.True(t, limit("0", true).Equal(limit("0", true)))
	assert.False(t, limit("0", true).Equal(limit("1", true)))
	assert.False(t, limit("0", true).Equal(limit("0", false)))
}

func TestWalk(t *testing.T) {
	shared := typeSchema("string")
	props := NewSchemaMap()
	props.Set("a", shared)
	props.Set("b", shared)
	root := &Schema{Parts: []Part{
		MakePart(&PropertiesKeyword, PartMapSchema{M: props}),
		MakePart(&AllOfKeyword, PartSchemas{typeSchema("object"), typeSchema("null")}),
	}}
	root.Parts = append(root.Parts, MakePart(&NotKeyword, PartSchema{S: root}))

	var seen []*Schema
	root.Walk(func(s *Schema) bool {
		seen = append(seen, s)
		return true
	})
	assert.Len(t, seen, 4, "shared and cyclic nodes are visited once")
	assert.Same(t, root, seen[0])
	assert.Same(t, shared, seen[1])

	n := 0
	root.Walk(func(*Schema) bool {
		n++
		return n < 2
	})
	assert.Equal(t, 2, n)
}

func TestMarshalJSON(t *testing.T) {
	props := NewSchemaMap()
	props.Set("b", typeSchema("string"))
	props.Set("a", typeSchema("integer", "null"))
	deps := NewDependencyMap()
	deps.Set("a", Dependency{Properties: []string{"b"}, Single: true})

	s := &Schema{Parts: []Part{
		MakePart(&PropertiesKeyword, PartMapSchema{M: props}),
		MakePart(&MaximumKeyword, PartLimit{Limit: "10", Exclusive: true, Form: LimitBoolean}),
		MakePart(&DependenciesKeyword, PartDependencies{M: deps}),
		MakePart(&ItemsKeyword, PartItems{Tuple: []*Schema{typeSchema("string")}, IsTuple: true, Additional: &Schema{
			Parts: []Part{MakePart(&BoolKeyword, PartBool(false))},
		}}),
		MakePart(&RefKeyword, PartRef{Ref: "#/definitions/x"}),
		MakePart(&ImplicitTypeKeyword, PartStrings{"object"}),
	}}
	data, err := s.MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"properties": {"b": {"type": "string"}, "a": {"type": ["integer", "null"]}},
		"maximum": 10,
		"exclusiveMaximum": true,
		"dependencies": {"a": "b"},
		"items": [{"type": "string"}],
		"additionalItems": false,
		"$ref": "#/definitions/x"
	}`, string(data))
	// Properties keep document order.
	assert.Regexp(t, `"b":.*"a":`, string(data))
}

func TestInferTypes(t *testing.T) {
	for _, tc := range []struct {
		parts []Part
		want  []string
	}{
		{nil, nil},
		{[]Part{MakePart(&MinLengthKeyword, PartInt(1))}, []string{"string"}},
		{[]Part{
			MakePart(&RequiredKeyword, PartStrings{"a"}),
			MakePart(&MaximumKeyword, PartLimit{Limit: "1"}),
		}, []string{"number", "object"}},
		{[]Part{
			MakePart(&MinLengthKeyword, PartInt(1)),
			MakePart(&TypeKeyword, PartTypes{Single: true, Entries: []TypeEntry{{Name: "integer"}}}),
		}, nil},
		{[]Part{MakePart(&TitleKeyword, PartString("t"))}, nil},
	} {
		assert.Equal(t, tc.want, InferTypes(tc.parts))
	}
}

func TestVocabulary(t *testing.T) {
	assert.Same(t, Draft4Vocabulary, DefaultVocabulary())
	for _, s := range []string{
		"http://json-schema.org/draft-06/schema#",
		"http://json-schema.org/draft-06/schema",
		"https://json-schema.org/draft-06/schema#",
	} {
		assert.Same(t, Draft6Vocabulary, LookupVocabulary(s), s)
	}
	assert.Nil(t, LookupVocabulary("http://json-schema.org/draft-07/schema#"))

	assert.Same(t, &Draft3RequiredKeyword, Draft3Vocabulary.Keywords["required"])
	assert.Same(t, &RequiredKeyword, Draft4Vocabulary.Keywords["required"])
	assert.Contains(t, Draft6Vocabulary.Keywords, "const")
	assert.NotContains(t, Draft4Vocabulary.Keywords, "const")
	assert.NotContains(t, Draft3Vocabulary.Keywords, "allOf")
	assert.Same(t, &DollarIDKeyword, Draft6Vocabulary.ID)
}

func TestValidationErrorTree(t *testing.T) {
	leaf := func(ptr, msg string) *ValidationError {
		p, err := jsonpointer.ParseFragment(ptr)
		require.NoError(t, err)
		return &ValidationError{Pointer: p, Message: msg, Keyword: "type"}
	}
	a := leaf("#/a", "first")
	b := leaf("#/b", "second")
	inner := &ValidationError{Message: "2 schema violations found", Causes: []*ValidationError{a, b}}
	top := &ValidationError{Message: "3 schema violations found", Causes: []*ValidationError{inner, leaf("#/c", "third")}}

	assert.Equal(t, 3, top.Violations())
	assert.Equal(t, []string{"#/a: first", "#/b: second", "#/c: third"}, top.AllMessages())
	assert.Equal(t, "#: 3 schema violations found", top.Error())

	var found *ValidationError
	require.True(t, errors.As(error(top), &found))
	assert.Same(t, top, found)
	assert.ErrorIs(t, top, b)
	assert.True(t, IsValidationError(top))
	assert.False(t, IsValidationError(errors.New("x")))
}
