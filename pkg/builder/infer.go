// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package builder

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/big"
	"reflect"
	"slices"
	"strings"
	"time"

	"github.com/altshiftab/legacyschema/pkg/types"
)

// InferOpts contains options to pass when inferring a JSON schema.
type InferOpts struct {
	// Types maps types to the schema to infer for values of those types.
	// This overrides any default inferences;
	// mapping to nil uses the default behavior for that type.
	Types map[reflect.Type]*types.Schema

	// If IgnoreInvalidTypes is true, fields that can't be represented
	// in a JSON schema are ignored. For example, fields of
	// function type.
	IgnoreInvalidTypes bool
}

// Infer adds schema elements to b designed to validate JSON values
// that unmarshal into values of the given type.
//
// The default translation is:
//
//   - Strings become "type":"string".
//   - Bools become "type":"boolean".
//   - Integer types become "type":"integer",
//     bounded by the range of the type.
//   - Floating point types become "type":"number".
//   - Slice and array types become "type":"array",
//     with an "items" schema inferred from the element type.
//     An array type will have "minItems" and "maxItems" set to the
//     length of the array.
//   - Maps with a string key become "type":"object",
//     with an "additionalProperties" schema inferred
//     from the value type.
//   - Structs have "type":"object", and include "properties"
//     for each exported field using the JSON name of the field.
//     Fields ignored by the JSON marshaler are ignored here.
//     Fields whose JSON attributes include neither "omitempty" nor "omitzero"
//     are required: listed in "required", or marked with
//     "required": true in draft 3.
//     No other properties are permitted.
//   - Interface types are accepted but add nothing to the schema.
//   - Pointers add "null" to the type.
//
// Infer will look at jsonschema struct field tags.
// The tag may start with keyword=value pairs separated by commas.
// If the tag, or the trailing part of the tag, does not contain =,
// that will set the "description" property.
// Recognized tag keywords are:
//
//	enum=A,enum=B,... sets the "enum" property to the listed values
func Infer[T any](b *Builder, opts *InferOpts) (*Builder, error) {
	return InferType(b, reflect.TypeFor[T](), opts)
}

// InferType is like [Infer] but takes a [reflect.Type] rather than
// a type argument.
func InferType(b *Builder, typ reflect.Type, opts *InferOpts) (*Builder, error) {
	return inferType(b, typ, make(map[reflect.Type]bool), opts)
}

// inferType implements Infer, using a map to detect type cycles.
func inferType(b *Builder, typ reflect.Type, seen map[reflect.Type]bool, opts *InferOpts) (*Builder, error) {
	isPointer := false
	for typ.Kind() == reflect.Pointer {
		if opts != nil {
			if s, ok := opts.Types[typ]; ok && s != nil {
				return addParts(b, s, isPointer), nil
			}
		}
		isPointer = true
		typ = typ.Elem()
	}

	if typ.Name() != "" {
		if seen[typ] {
			return nil, fmt.Errorf("type cycle at %s", typ)
		}
		seen[typ] = true
		defer delete(seen, typ)
	}

	if opts != nil {
		if s, ok := opts.Types[typ]; ok && s != nil {
			return addParts(b, s, isPointer), nil
		}
	}

	switch typ {
	case reflect.TypeFor[time.Time](), reflect.TypeFor[slog.Level](), reflect.TypeFor[big.Rat](), reflect.TypeFor[big.Float]():
		return b.AddType("string"), nil
	case reflect.TypeFor[big.Int]():
		return b.AddType("null", "string"), nil
	}

	addType := ""
	switch typ.Kind() {
	case reflect.Bool:
		addType = "boolean"

	case reflect.Int, reflect.Int64:
		addType = "integer"

	case reflect.Uint, reflect.Uint64, reflect.Uintptr:
		addType = "integer"
		b.AddMinimum(0)

	case reflect.Int8:
		addType = "integer"
		b.AddMinimum(math.MinInt8).AddMaximum(math.MaxInt8)

	case reflect.Uint8:
		addType = "integer"
		b.AddMinimum(0).AddMaximum(math.MaxUint8)

	case reflect.Int16:
		addType = "integer"
		b.AddMinimum(math.MinInt16).AddMaximum(math.MaxInt16)

	case reflect.Uint16:
		addType = "integer"
		b.AddMinimum(0).AddMaximum(math.MaxUint16)

	case reflect.Int32:
		addType = "integer"
		b.AddMinimum(math.MinInt32).AddMaximum(math.MaxInt32)

	case reflect.Uint32:
		addType = "integer"
		b.AddMinimum(0).AddMaximum(math.MaxUint32)

	case reflect.Float32, reflect.Float64:
		addType = "number"

	case reflect.String:
		addType = "string"

	case reflect.Interface:
		// Nothing to do.

	case reflect.Map:
		addType = "object"
		if typ.Key().Kind() != reflect.String {
			if opts != nil && opts.IgnoreInvalidTypes {
				return b, nil
			}
			return nil, fmt.Errorf("unsupported map key type %s", typ.Key())
		}
		be, err := inferType(b.NewSubBuilder(), typ.Elem(), seen, opts)
		if err != nil {
			return nil, fmt.Errorf("map value schema: %v", err)
		}
		s, err := be.Build()
		if err != nil {
			return nil, fmt.Errorf("map value schema: %v", err)
		}
		if len(s.Parts) > 0 {
			b.SchemaOfAdditionalProperties(s)
		}

	case reflect.Slice, reflect.Array:
		addType = "array"
		be, err := inferType(b.NewSubBuilder(), typ.Elem(), seen, opts)
		if err != nil {
			return nil, fmt.Errorf("slice/array element schema: %v", err)
		}
		s, err := be.Build()
		if err != nil {
			return nil, fmt.Errorf("slice/array element schema: %v", err)
		}
		if len(s.Parts) > 0 {
			b.AddItemsSchema(s)
		}
		if typ.Kind() == reflect.Array {
			ln := int64(typ.Len())
			b.AddMinItems(ln).AddMaxItems(ln)
		}

	case reflect.Struct:
		addType = "object"
		if err := inferStruct(b, typ, seen, opts); err != nil {
			return nil, err
		}

	default:
		if opts != nil && opts.IgnoreInvalidTypes {
			return b, nil
		}
		return nil, fmt.Errorf("unsupported jsonschema type %s", typ)
	}

	if addType != "" {
		if isPointer {
			b.AddType("null", addType)
		} else {
			b.AddType(addType)
		}
	}
	return b, nil
}

// inferStruct adds "properties", "required" and a false
// "additionalProperties" for the fields of a struct type.
func inferStruct(b *Builder, typ reflect.Type, seen map[reflect.Type]bool, opts *InferOpts) error {
	properties := types.NewSchemaMap()
	var required []string
	fields := reflect.VisibleFields(typ)
	for i := 0; i < len(fields); i++ {
		field := fields[i]

		// We can ignore anonymous fields,
		// unless they have an entry in opts.Types.
		if field.Anonymous {
			if opts == nil {
				continue
			}
			s, ok := opts.Types[field.Type]
			if !ok || s == nil {
				continue
			}
			if err := embeddedProperties(s, properties); err != nil {
				return err
			}

			// Since we have a schema, skip the promoted fields.
			index := field.Index
			indLen := len(index)
			for i++; i < len(fields); i++ {
				if len(fields[i].Index) <= indLen {
					break
				}
				if !slices.Equal(fields[i].Index[:indLen], index) {
					break
				}
			}
			i-- // undone by fields loop increment
			continue
		}

		name, omit, optional := fieldJSON(&field)
		if omit {
			continue
		}

		bf, err := inferType(b.NewSubBuilder(), field.Type, seen, opts)
		if err != nil {
			return fmt.Errorf("field %s.%s schema: %v", typ, field.Name, err)
		}
		if tag, ok := field.Tag.Lookup("jsonschema"); ok {
			if err := addFieldTag(bf, tag); err != nil {
				return fmt.Errorf("field %s.%s: %v", typ, field.Name, err)
			}
		}
		if !optional && b.v.Draft == types.Draft3 {
			bf.AddRequiredFlag()
		}
		bs, err := bf.Build()
		if err != nil {
			return fmt.Errorf("field %s.%s schema: %v", typ, field.Name, err)
		}
		properties.Set(name, bs)

		if !optional {
			required = append(required, name)
		}
	}

	if properties.Len() > 0 {
		b.AddProperties(properties)
	}
	if len(required) > 0 && b.v.Draft != types.Draft3 {
		b.AddRequired(required...)
	}

	// No unknown fields may be specified.
	b.AdditionalProperties(false)
	return nil
}

// embeddedProperties copies the properties of the schema given
// for an embedded field. The schema may only have type "object"
// and "properties".
func embeddedProperties(s *types.Schema, properties *types.SchemaMap) error {
	sawType := false
	for _, part := range s.Parts {
		if part.Keyword.Generated {
			continue
		}
		switch part.Keyword.Name {
		case "$schema":
			// ignore
		case "type":
			pt := part.Value.(types.PartTypes)
			if names := pt.Names(); len(names) != 1 || names[0] != "object" {
				return fmt.Errorf(`custom schema for embedded field must have type "object", got %v`, names)
			}
			sawType = true
		case "properties":
			m := part.Value.(types.PartMapSchema).M
			for pair := m.Oldest(); pair != nil; pair = pair.Next() {
				properties.Set(pair.Key, pair.Value)
			}
		default:
			return fmt.Errorf(`override for embedded field can only have "type" and "properties"; this has %q`, part.Keyword.Name)
		}
	}
	if !sawType {
		return errors.New(`custom schema for embedded field must have type "object", no type given`)
	}
	return nil
}

// fieldJSON reports some characteristics of the JSON encoding
// for a struct field.
func fieldJSON(sf *reflect.StructField) (name string, omit, optional bool) {
	if !sf.IsExported() {
		// Omit unexported field.
		return "", true, false
	}

	tag, ok := sf.Tag.Lookup("json")
	if !ok {
		// No tag means use the field name as the JSON name.
		return sf.Name, false, false
	}

	if tag == "-" {
		// Omit field.
		return "", true, false
	}

	// Fetch the JSON name from the tag.
	name, opts, _ := strings.Cut(tag, ",")
	if name == "" {
		name = sf.Name
	}

	// The field is optional if it has a omitzero or omitempty tag.
	for opts != "" {
		var opt string
		opt, opts, _ = strings.Cut(opts, ",")
		if opt == "omitzero" || opt == "omitempty" {
			optional = true
			break
		}
	}

	return name, false, optional
}

// addParts adds the parts of s to b.
// If addNull is true then any existing "type" attribute
// is modified to also permit "null".
func addParts(b *Builder, s *types.Schema, addNull bool) *Builder {
	parts := s.Parts
	if addNull {
		for i, part := range parts {
			if part.Keyword.Name != "type" {
				continue
			}
			pt := part.Value.(types.PartTypes)
			if slices.Contains(pt.Names(), "null") {
				break
			}
			parts = slices.Clone(parts)
			pt.Entries = append([]types.TypeEntry{{Name: "null"}}, pt.Entries...)
			pt.Single = false
			parts[i].Value = pt
			break
		}
	}
	// Generated parts are recomputed by Build.
	parts = slices.DeleteFunc(slices.Clone(parts), func(p types.Part) bool {
		return p.Keyword.Generated && p.Keyword != &types.BoolKeyword
	})
	return b.AddSchemaParts(parts)
}

// addFieldTag parses the jsonschema field tag and adds elements to b.
func addFieldTag(b *Builder, tag string) error {
	if tag == "" {
		return errors.New("empty jsonschema tag")
	}

	var enums []any
	for tag != "" {
		keyword, tail, ok := strings.Cut(tag, "=")

		if !ok || strings.ContainsAny(keyword, " \t") {
			b.AddDescription(tag)
			break
		}

		var val string
		val, tag, _ = strings.Cut(tail, ",")

		switch keyword {
		case "enum":
			if val == "" {
				return errors.New("missing enum value in jsonschema tag")
			}
			enums = append(enums, val)
		default:
			return fmt.Errorf("unrecognized jsonschema tag %q", keyword)
		}
	}

	if len(enums) > 0 {
		b.AddEnum(enums...)
	}
	return nil
}
