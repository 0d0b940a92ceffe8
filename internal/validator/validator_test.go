// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package validator

import (
	"context"
	"testing"

	"github.com/altshiftab/legacyschema/pkg/jsonvalue"
	"github.com/altshiftab/legacyschema/pkg/loader"
	"github.com/altshiftab/legacyschema/pkg/types"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func load(t *testing.T, draft types.Draft, schema string) *types.Schema {
	t.Helper()
	s, err := loader.New(loader.WithDraft(draft)).LoadBytes(context.Background(), []byte(schema))
	require.NoError(t, err, schema)
	return s
}

func decode(t *testing.T, instance string) any {
	t.Helper()
	v, err := jsonvalue.Decode([]byte(instance))
	require.NoError(t, err, instance)
	return v
}

// validationError validates and requires a [*types.ValidationError].
func validationError(t *testing.T, s *types.Schema, instance string) *types.ValidationError {
	t.Helper()
	err := Validate(s, decode(t, instance), nil)
	require.Error(t, err, instance)
	ve, ok := err.(*types.ValidationError)
	require.True(t, ok, "got %T: %v", err, err)
	return ve
}

func TestValidate(t *testing.T) {
	type instance struct {
		json  string
		valid bool
	}
	for _, tt := range []struct {
		draft     types.Draft
		schema    string
		instances []instance
	}{
		{types.Draft4, `{"type":"integer"}`, []instance{{`1.0`, true}, {`1.5`, false}, {`"1"`, false}}},
		{types.Draft4, `{"type":["string","null"]}`, []instance{{`null`, true}, {`"a"`, true}, {`1`, false}}},
		{types.Draft4, `{"minimum":5,"exclusiveMinimum":true}`, []instance{{`5`, false}, {`6`, true}, {`"x"`, true}}},
		{types.Draft4, `{"maximum":5}`, []instance{{`5`, true}, {`5.0001`, false}, {`1e400`, false}, {`-1e400`, true}}},
		{types.Draft4, `{"maximum":1e309}`, []instance{{`1e308`, true}, {`1e400`, false}}},
		{types.Draft4, `{"type":"integer"}`, []instance{{`1e400`, true}, {`1.5e400`, true}, {`1e-400`, false}}},
		{types.Draft6, `{"exclusiveMaximum":5}`, []instance{{`5`, false}, {`4.9`, true}}},
		{types.Draft4, `{"multipleOf":0.1}`, []instance{{`0.3`, true}, {`0.35`, false}}},
		{types.Draft4, `{"minLength":2,"maxLength":3}`, []instance{{`"é"`, false}, {`"éé"`, true}, {`"abcd"`, false}, {`5`, true}}},
		{types.Draft4, `{"pattern":"b"}`, []instance{{`"abc"`, true}, {`"ac"`, false}}},
		{types.Draft4, `{"enum":[1,"a",{"x":[null]}]}`, []instance{{`1.0`, true}, {`"a"`, true}, {`{"x":[null]}`, true}, {`2`, false}}},
		{types.Draft4, `{"uniqueItems":true}`, []instance{
			{`[1,2]`, true},
			{`[1,1.0]`, true},
			{`[1.0,1,1.00]`, false},
			{`[{"a":1},{"a":1}]`, false},
			{`[[1],[2]]`, true},
			{`["1",1]`, true},
		}},
		{types.Draft4, `{"items":[{"type":"string"}],"additionalItems":false}`, []instance{{`["a"]`, true}, {`["a",1]`, false}, {`[1]`, false}}},
		{types.Draft4, `{"items":[{}],"additionalItems":{"type":"string"}}`, []instance{{`[1,"a"]`, true}, {`[1,2]`, false}}},
		{types.Draft4, `{"items":{"type":"string"}}`, []instance{{`["a","b"]`, true}, {`["a",1]`, false}}},
		{types.Draft4, `{"minItems":1,"maxItems":2}`, []instance{{`[]`, false}, {`[1,2,3]`, false}, {`[1]`, true}}},
		{types.Draft4, `{"required":["a"]}`, []instance{{`{}`, false}, {`{"a":null}`, true}, {`[]`, true}}},
		{types.Draft4, `{"properties":{"a":{"type":"string"}},"additionalProperties":false}`, []instance{{`{"a":"x"}`, true}, {`{"b":1}`, false}}},
		{types.Draft4, `{"patternProperties":{"^x-":{"type":"integer"}},"additionalProperties":false}`, []instance{{`{"x-a":1}`, true}, {`{"x-a":"s"}`, false}, {`{"y":1}`, false}}},
		{types.Draft4, `{"additionalProperties":{"type":"boolean"}}`, []instance{{`{"a":true}`, true}, {`{"a":1}`, false}}},
		{types.Draft4, `{"dependencies":{"a":["b"]}}`, []instance{{`{"a":1}`, false}, {`{"a":1,"b":2}`, true}, {`{"b":1}`, true}}},
		{types.Draft4, `{"dependencies":{"a":{"required":["c"]}}}`, []instance{{`{"a":1}`, false}, {`{"a":1,"c":1}`, true}}},
		{types.Draft4, `{"minProperties":1,"maxProperties":1}`, []instance{{`{}`, false}, {`{"a":1,"b":2}`, false}, {`{"a":1}`, true}}},
		{types.Draft4, `{"not":{"type":"string"}}`, []instance{{`"a"`, false}, {`1`, true}}},
		{types.Draft4, `{"anyOf":[{"type":"string"},{"minimum":3}]}`, []instance{{`1`, false}, {`4`, true}, {`"a"`, true}}},
		{types.Draft4, `{"allOf":[{"type":"string"},{"maxLength":1}]}`, []instance{{`"a"`, true}, {`"ab"`, false}, {`1`, false}}},
		{types.Draft6, `{"const":{"a":[1]}}`, []instance{{`{"a":[1.0]}`, true}, {`{"a":[2]}`, false}}},
		{types.Draft6, `{"contains":{"type":"string"}}`, []instance{{`[1,"a"]`, true}, {`[1]`, false}, {`[]`, false}}},
		{types.Draft6, `{"propertyNames":{"maxLength":2}}`, []instance{{`{"ab":1}`, true}, {`{"abc":1}`, false}}},
		{types.Draft6, `{"items":false}`, []instance{{`[]`, true}, {`[1]`, false}}},
		{types.Draft6, `false`, []instance{{`1`, false}, {`null`, false}}},
		{types.Draft6, `true`, []instance{{`1`, true}, {`{"a":[]}`, true}}},
		{types.Draft3, `{"type":"any"}`, []instance{{`1`, true}, {`null`, true}}},
		{types.Draft3, `{"disallow":["string"]}`, []instance{{`"a"`, false}, {`1`, true}}},
		{types.Draft3, `{"properties":{"a":{"required":true}}}`, []instance{{`{}`, false}, {`{"a":1}`, true}}},
		{types.Draft3, `{"divisibleBy":3}`, []instance{{`9`, true}, {`10`, false}}},
		{types.Draft3, `{"extends":{"minimum":3}}`, []instance{{`2`, false}, {`3`, true}}},
		{types.Draft3, `{"type":["null",{"minimum":3}]}`, []instance{{`4`, true}, {`2`, false}, {`null`, true}}},
		{types.Draft3, `{"dependencies":{"a":"b"}}`, []instance{{`{"a":1}`, false}, {`{"a":1,"b":1}`, true}}},
		{types.Draft4, `{"properties":{"next":{"$ref":"#"}},"type":"object"}`, []instance{{`{"next":{"next":{}}}`, true}, {`{"next":{"next":1}}`, false}}},
		{types.Draft4, `{"$ref":"#"}`, []instance{{`1`, true}}},
		{types.Draft4, `{"anyOf":[{"$ref":"#"}]}`, []instance{{`1`, true}}},
	} {
		s := load(t, tt.draft, tt.schema)
		for _, inst := range tt.instances {
			err := Validate(s, decode(t, inst.json), nil)
			if inst.valid {
				assert.NoError(t, err, "%s against %s", inst.json, tt.schema)
			} else {
				assert.Error(t, err, "%s against %s", inst.json, tt.schema)
				assert.True(t, types.IsValidationError(err), "%s against %s: %v", inst.json, tt.schema, err)
			}
		}
	}
}

func TestValidateRectangle(t *testing.T) {
	s := load(t, types.Draft4, `{
		"properties": {"rectangle": {"$ref": "#/definitions/Rectangle"}},
		"definitions": {
			"size": {"type": "number", "minimum": 0},
			"Rectangle": {
				"properties": {
					"a": {"$ref": "#/definitions/size"},
					"b": {"$ref": "#/definitions/size"}
				}
			}
		}
	}`)
	ve := validationError(t, s, `{"rectangle":{"a":-5,"b":"asd"}}`)

	assert.Equal(t, "#/rectangle", ve.Pointer.Fragment())
	assert.Equal(t, "2 schema violations found", ve.Message)
	assert.Empty(t, ve.Keyword)
	assert.Equal(t, 2, ve.Violations())
	require.Len(t, ve.Causes, 2)

	a, b := ve.Causes[0], ve.Causes[1]
	assert.Equal(t, "#/rectangle/a", a.Pointer.Fragment())
	assert.Equal(t, "minimum", a.Keyword)
	assert.Equal(t, "-5 is not greater or equal to 0", a.Message)
	assert.Equal(t, "#/definitions/size/minimum", a.SchemaLocation)

	assert.Equal(t, "#/rectangle/b", b.Pointer.Fragment())
	assert.Equal(t, "type", b.Keyword)
	assert.Equal(t, "expected type: number, found: string", b.Message)

	assert.Equal(t, []string{
		"#/rectangle/a: -5 is not greater or equal to 0",
		"#/rectangle/b: expected type: number, found: string",
	}, ve.AllMessages())
}

func TestValidateOneOf(t *testing.T) {
	s := load(t, types.Draft4, `{"oneOf":[{"multipleOf":5},{"multipleOf":3}]}`)

	assert.NoError(t, Validate(s, decode(t, `20`), nil))

	ve := validationError(t, s, `30`)
	assert.Equal(t, "oneOf", ve.Keyword)
	assert.Equal(t, "2 subschemas matched instead of one", ve.Message)

	ve = validationError(t, s, `7`)
	assert.Equal(t, "oneOf", ve.Keyword)
	assert.Equal(t, "no subschema matched out of the total 2 subschemas", ve.Message)
	require.Len(t, ve.Causes, 2)
	assert.Equal(t, "7 is not a multiple of 5", ve.Causes[0].Message)
	assert.Equal(t, "7 is not a multiple of 3", ve.Causes[1].Message)
}

func TestValidateAllOfWrapsSingleCause(t *testing.T) {
	s := load(t, types.Draft4, `{"allOf":[{"type":"string"},{"minLength":1}]}`)
	ve := validationError(t, s, `""`)
	assert.Equal(t, "allOf", ve.Keyword)
	assert.Equal(t, "only 1 subschema matches out of 2", ve.Message)
	require.Len(t, ve.Causes, 1)
	assert.Equal(t, "minLength", ve.Causes[0].Keyword)
	assert.Equal(t, "expected minLength: 1, actual: 0", ve.Causes[0].Message)
}

func TestValidateAggregatesSiblings(t *testing.T) {
	s := load(t, types.Draft4, `{"type":"object","required":["a","b"],"maxProperties":0}`)
	ve := validationError(t, s, `{"c":1}`)
	assert.Equal(t, "3 schema violations found", ve.Message)
	assert.Equal(t, "#", ve.SchemaLocation)
	require.Len(t, ve.Causes, 3)
	assert.Equal(t, "required key [a] not found", ve.Causes[0].Message)
	assert.Equal(t, "required key [b] not found", ve.Causes[1].Message)
	assert.Equal(t, "maximum size: [0], found: [1]", ve.Causes[2].Message)

	// A nested aggregate counts its leaves.
	s = load(t, types.Draft4, `{"properties":{"p":{"required":["a","b"]}},"minProperties":2}`)
	ve = validationError(t, s, `{"p":{}}`)
	assert.Equal(t, "3 schema violations found", ve.Message)
	require.Len(t, ve.Causes, 2)
	assert.Equal(t, "#/p", ve.Causes[0].Pointer.Fragment())
	assert.Len(t, ve.Causes[0].Causes, 2)
}

func TestValidateMessages(t *testing.T) {
	for _, tt := range []struct {
		draft    types.Draft
		schema   string
		instance string
		keyword  string
		message  string
	}{
		{types.Draft4, `{"enum":[1,2]}`, `3`, "enum", "3 is not a valid enum value"},
		{types.Draft6, `{"const":"a"}`, `"b"`, "const", `"b" does not match the const value "a"`},
		{types.Draft4, `{"type":["string","null"]}`, `1`, "type", "expected type: one of string, null, found: number"},
		{types.Draft4, `{"minimum":2,"exclusiveMinimum":true}`, `2`, "minimum", "2 is not greater than 2"},
		{types.Draft4, `{"maximum":2,"exclusiveMaximum":true}`, `2`, "maximum", "2 is not less than 2"},
		{types.Draft4, `{"maximum":2}`, `3`, "maximum", "3 is not less or equal to 2"},
		{types.Draft6, `{"exclusiveMinimum":2}`, `1.5`, "exclusiveMinimum", "1.5 is not greater than 2"},
		{types.Draft4, `{"maxLength":1}`, `"ab"`, "maxLength", "expected maxLength: 1, actual: 2"},
		{types.Draft4, `{"pattern":"^a"}`, `"b"`, "pattern", "string [b] does not match pattern ^a"},
		{types.Draft4, `{"not":{}}`, `1`, "not", "subject must not be valid against schema"},
		{types.Draft4, `{"uniqueItems":true}`, `[1,1]`, "uniqueItems", "array items are not unique"},
		{types.Draft4, `{"items":[{}],"additionalItems":false}`, `[1,2]`, "additionalItems", "expected maximum item count: 1, found: 2"},
		{types.Draft4, `{"minItems":2}`, `[1]`, "minItems", "expected minimum item count: 2, found: 1"},
		{types.Draft4, `{"additionalProperties":false}`, `{"x":1}`, "additionalProperties", "extraneous key [x] is not permitted"},
		{types.Draft4, `{"dependencies":{"a":["b"]}}`, `{"a":1}`, "dependencies", "property [b] is required"},
		{types.Draft4, `{"minProperties":1}`, `{}`, "minProperties", "minimum size: [1], found: [0]"},
		{types.Draft3, `{"disallow":"integer"}`, `1`, "disallow", "type number is disallowed"},
		{types.Draft6, `{"contains":{"type":"null"}}`, `[1]`, "contains", "expected at least one array item to match 'contains' schema"},
		{types.Draft6, `false`, `1`, "", "false schema always fails"},
	} {
		ve := validationError(t, load(t, tt.draft, tt.schema), tt.instance)
		assert.Equal(t, tt.keyword, ve.Keyword, tt.schema)
		assert.Equal(t, tt.message, ve.Message, tt.schema)
		assert.Empty(t, ve.Causes, tt.schema)
	}
}

func TestValidateFormat(t *testing.T) {
	s := load(t, types.Draft4, `{"format":"ipv4"}`)
	ve := validationError(t, s, `"999.1.1.1"`)
	assert.Equal(t, "format", ve.Keyword)

	assert.NoError(t, Validate(s, decode(t, `"999.1.1.1"`), &types.ValidateOpts{SkipFormat: true}))
	assert.NoError(t, Validate(s, decode(t, `"10.0.0.1"`), nil))

	// Unknown formats always match.
	s = load(t, types.Draft4, `{"format":"x-custom"}`)
	assert.NoError(t, Validate(s, decode(t, `"anything"`), nil))
}

func TestValidateGoValues(t *testing.T) {
	type person struct {
		Name string `json:"name"`
		Age  int    `json:"age"`
	}
	s := load(t, types.Draft4, `{
		"required": ["name"],
		"properties": {
			"name": {"minLength": 1},
			"age": {"type": "integer", "minimum": 0}
		}
	}`)
	assert.NoError(t, Validate(s, person{Name: "Ada", Age: 36}, nil))

	err := Validate(s, person{Age: -1}, nil)
	require.Error(t, err)
	var ve *types.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, 2, ve.Violations())

	assert.NoError(t, Validate(s, map[string]any{"name": "x", "age": 3}, nil))
}

func TestValidationErrorJSON(t *testing.T) {
	s := load(t, types.Draft4, `{"properties":{"a":{"type":"string"},"b":{"type":"string"}}}`)
	ve := validationError(t, s, `{"a":1,"b":2}`)

	data, err := json.Marshal(ve)
	require.NoError(t, err)

	var got struct {
		Message            string  `json:"message"`
		Keyword            *string `json:"keyword"`
		PointerToViolation string  `json:"pointerToViolation"`
		Causes             []struct {
			Message            string  `json:"message"`
			Keyword            *string `json:"keyword"`
			PointerToViolation string  `json:"pointerToViolation"`
			SchemaLocation     string  `json:"schemaLocation"`
		} `json:"causes"`
	}
	require.NoError(t, json.Unmarshal(data, &got))

	assert.Equal(t, "#: 2 schema violations found", got.Message)
	assert.Nil(t, got.Keyword)
	assert.Equal(t, "#", got.PointerToViolation)
	require.Len(t, got.Causes, 2)
	require.NotNil(t, got.Causes[0].Keyword)
	assert.Equal(t, "type", *got.Causes[0].Keyword)
	assert.Equal(t, "#/a", got.Causes[0].PointerToViolation)
	assert.Equal(t, "#/properties/a/type", got.Causes[0].SchemaLocation)
	assert.Equal(t, "#/a: expected type: string, found: number", got.Causes[0].Message)
}
