// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package builder defines a [Builder] type that may be used
// to build a [types.Schema] step by step.
//
// The [Infer] and [InferType] functions may be used with a Builder
// to build a schema from a Go type.
package builder

import (
	"errors"
	"fmt"

	"github.com/altshiftab/legacyschema/pkg/jsonvalue"
	"github.com/altshiftab/legacyschema/pkg/types"
	"github.com/goccy/go-json"
)

// Builder is a JSON schema builder.
// Builder provides a list of methods that may be used to add
// new elements to the schema.
// This should be used by programs that need to create a JSON schema
// from scratch, rather than loading it from a JSON representation.
//
// A Builder checks the same rules the loader checks. The first
// violation is reported by [Builder.Build]; methods called after
// it have no effect.
//
// When using Builder there is no support for references to other
// schemas via "$ref".
type Builder struct {
	v     *types.Vocabulary
	parts []types.Part
	err   error

	// "additionalProperties" and "additionalItems" are each
	// described by a flag and a schema, folded by Build.
	additionalProperties    *bool
	schemaOfAdditionalProps *types.Schema
	additionalItems         *bool
	schemaOfAdditionalItems *types.Schema
}

// New returns a new [Builder] to build a [*types.Schema]
// described by the [*types.Vocabulary] v.
// If v is nil the default vocabulary is used.
func New(v *types.Vocabulary) *Builder {
	if v == nil {
		v = types.DefaultVocabulary()
	}
	return &Builder{v: v}
}

// NewSubBuilder returns a new Builder with the same vocabulary,
// for a schema that will be part of some larger schema.
func (b *Builder) NewSubBuilder() *Builder {
	return New(b.v)
}

// Vocabulary returns the vocabulary of b.
func (b *Builder) Vocabulary() *types.Vocabulary {
	return b.v
}

// Build builds and returns the schema.
// It reports the first misuse of b, if any.
func (b *Builder) Build() (*types.Schema, error) {
	if b.err != nil {
		return nil, b.err
	}
	parts := b.parts

	if b.additionalProperties != nil || b.schemaOfAdditionalProps != nil {
		s, err := b.fold("additionalProperties", b.additionalProperties, b.schemaOfAdditionalProps)
		if err != nil {
			return nil, err
		}
		parts = append(parts, types.MakePart(&types.AdditionalPropertiesKeyword, types.PartSchema{S: s}))
	}

	if b.additionalItems != nil || b.schemaOfAdditionalItems != nil {
		s, err := b.fold("additionalItems", b.additionalItems, b.schemaOfAdditionalItems)
		if err != nil {
			return nil, err
		}
		parts = b.withAdditionalItems(parts, s)
	}

	parts = append([]types.Part(nil), parts...)
	if implicit := types.InferTypes(parts); implicit != nil {
		parts = append(parts, types.MakePart(&types.ImplicitTypeKeyword, types.PartStrings(implicit)))
	}
	return &types.Schema{Parts: parts}, nil
}

// MustBuild is like [Builder.Build] but panics on error.
func (b *Builder) MustBuild() *types.Schema {
	s, err := b.Build()
	if err != nil {
		panic(err)
	}
	return s
}

// fold combines the flag and schema of an "additional" keyword.
func (b *Builder) fold(keyword string, allowed *bool, schema *types.Schema) (*types.Schema, error) {
	if allowed != nil && !*allowed {
		if schema != nil {
			return nil, fmt.Errorf("jsonschema: %s can't be false and also have a schema", keyword)
		}
		return b.BoolSchema(false), nil
	}
	if schema != nil {
		return schema, nil
	}
	return b.BoolSchema(true), nil
}

// withAdditionalItems sets the Additional field of the items part,
// adding one if there is none.
func (b *Builder) withAdditionalItems(parts []types.Part, s *types.Schema) []types.Part {
	ret := append([]types.Part(nil), parts...)
	for i, p := range ret {
		if items, ok := p.Value.(types.PartItems); ok {
			items.Additional = s
			ret[i].Value = items
			return ret
		}
	}
	return append(ret, types.MakePart(&types.ItemsKeyword, types.PartItems{Additional: s}))
}

// BoolSchema returns a newly built schema.
// If acceptAll is true the schema accepts all instance values,
// if false it accepts none.
// This is the JSON schema true and false values.
func (b *Builder) BoolSchema(acceptAll bool) *types.Schema {
	return &types.Schema{
		Parts: []types.Part{types.MakePart(&types.BoolKeyword, types.PartBool(acceptAll))},
	}
}

// setErr records the first error.
func (b *Builder) setErr(err error) {
	if b.err == nil {
		b.err = err
	}
}

// keyword returns the keyword of b's vocabulary with the given name,
// recording an error if there is none.
func (b *Builder) keyword(name string) *types.Keyword {
	kw, ok := b.v.Keywords[name]
	if !ok {
		b.setErr(fmt.Errorf("jsonschema: %s has no keyword %q", b.v.Name, name))
		return nil
	}
	return kw
}

// add appends a part if b has no error and kw
// takes an argument of type want.
func (b *Builder) add(kw *types.Keyword, want types.ArgType, pv types.PartValue) *Builder {
	if b.err != nil || kw == nil {
		return b
	}
	if kw.Drafts&b.v.Draft == 0 {
		b.setErr(fmt.Errorf("jsonschema: keyword %q is not part of %s", kw.Name, b.v.Name))
		return b
	}
	if kw.ArgType != want && kw.ArgType != types.ArgTypeAny {
		b.setErr(fmt.Errorf("jsonschema: Add%s called for %s which expects %s", want, kw.Name, kw.ArgType))
		return b
	}
	b.parts = append(b.parts, types.MakePart(kw, pv))
	return b
}

// checkSchemas records an error if any of schemas is nil.
func (b *Builder) checkSchemas(kw *types.Keyword, schemas ...*types.Schema) bool {
	for i, s := range schemas {
		if s == nil {
			b.setErr(fmt.Errorf("jsonschema: %s schema %d is nil", kw.Name, i))
			return false
		}
		if isBool, _ := s.IsBoolSchema(); isBool && b.v.Draft != types.Draft6 &&
			kw != &types.AdditionalPropertiesKeyword && kw != &types.AdditionalItemsKeyword {
			b.setErr(fmt.Errorf("jsonschema: %s does not permit boolean schemas for %s", b.v.Name, kw.Name))
			return false
		}
	}
	return true
}

// AddBool adds a keyword whose argument is a bool.
func (b *Builder) AddBool(keyword *types.Keyword, v bool) *Builder {
	return b.add(keyword, types.ArgTypeBool, types.PartBool(v))
}

// AddString adds a keyword whose argument is a string.
func (b *Builder) AddString(keyword *types.Keyword, s string) *Builder {
	return b.add(keyword, types.ArgTypeString, types.PartString(s))
}

// AddStrings adds a keyword whose argument is an array of strings.
func (b *Builder) AddStrings(keyword *types.Keyword, s []string) *Builder {
	return b.add(keyword, types.ArgTypeStrings, types.PartStrings(s))
}

// AddInt adds a keyword whose argument is a non-negative int.
func (b *Builder) AddInt(keyword *types.Keyword, i int64) *Builder {
	if i < 0 {
		b.setErr(fmt.Errorf("jsonschema: %s must be non-negative, got %d", keyword.Name, i))
		return b
	}
	return b.add(keyword, types.ArgTypeInt, types.PartInt(i))
}

// AddNumber adds a keyword whose argument is a number greater than 0,
// such as "multipleOf".
func (b *Builder) AddNumber(keyword *types.Keyword, f float64) *Builder {
	if !(f > 0) {
		b.setErr(fmt.Errorf("jsonschema: %s must be greater than 0, got %v", keyword.Name, f))
		return b
	}
	lex, _ := jsonvalue.Lexical(f)
	return b.add(keyword, types.ArgTypeNumber, types.PartNumber(lex))
}

// AddLimit adds a bound keyword.
func (b *Builder) AddLimit(keyword *types.Keyword, limit types.PartLimit) *Builder {
	return b.add(keyword, types.ArgTypeLimit, limit)
}

// AddAny adds a keyword whose argument has any type.
func (b *Builder) AddAny(keyword *types.Keyword, v any) *Builder {
	return b.add(keyword, types.ArgTypeAny, types.PartAny{V: v})
}

// AddArray adds a keyword whose argument is an array, such as "enum".
func (b *Builder) AddArray(keyword *types.Keyword, vals []any) *Builder {
	return b.add(keyword, types.ArgTypeArray, types.PartArray(vals))
}

// AddSchema adds a keyword whose argument is a schema.
func (b *Builder) AddSchema(keyword *types.Keyword, s *types.Schema) *Builder {
	if !b.checkSchemas(keyword, s) {
		return b
	}
	return b.add(keyword, types.ArgTypeSchema, types.PartSchema{S: s})
}

// AddSchemas adds a keyword whose argument is a list of schemas.
// The list may not be empty.
func (b *Builder) AddSchemas(keyword *types.Keyword, schemas []*types.Schema) *Builder {
	if len(schemas) == 0 {
		b.setErr(fmt.Errorf("jsonschema: %s requires at least one schema", keyword.Name))
		return b
	}
	if !b.checkSchemas(keyword, schemas...) {
		return b
	}
	return b.add(keyword, types.ArgTypeSchemas, types.PartSchemas(schemas))
}

// AddSchemaOrSchemas adds a keyword whose argument is
// either a single schema or an array of schemas.
func (b *Builder) AddSchemaOrSchemas(keyword *types.Keyword, pv types.PartSchemaOrSchemas) *Builder {
	if (pv.Schema == nil) == (pv.Schemas == nil) {
		b.setErr(fmt.Errorf("jsonschema: %s needs exactly one of a schema or a list of schemas", keyword.Name))
		return b
	}
	if pv.Schema != nil && !b.checkSchemas(keyword, pv.Schema) || !b.checkSchemas(keyword, pv.Schemas...) {
		return b
	}
	return b.add(keyword, types.ArgTypeSchemaOrSchemas, pv)
}

// AddMapSchema adds a keyword whose argument is a mapping
// from strings to schemas.
func (b *Builder) AddMapSchema(keyword *types.Keyword, m *types.SchemaMap) *Builder {
	for pair := m.Oldest(); pair != nil; pair = pair.Next() {
		if !b.checkSchemas(keyword, pair.Value) {
			return b
		}
	}
	return b.add(keyword, types.ArgTypeMapSchema, types.PartMapSchema{M: m})
}

// AddSchemaParts adds a list of parts.
func (b *Builder) AddSchemaParts(parts []types.Part) *Builder {
	if b.err == nil {
		b.parts = append(b.parts, parts...)
	}
	return b
}

// AddSchemaKeyword adds "$schema" naming b's draft.
func (b *Builder) AddSchemaKeyword() *Builder {
	return b.AddString(&types.SchemaKeyword, b.v.Schema)
}

// AddID adds the draft's identifier keyword.
func (b *Builder) AddID(id string) *Builder {
	return b.AddString(b.v.ID, id)
}

// AddTitle adds "title".
func (b *Builder) AddTitle(s string) *Builder {
	return b.AddString(&types.TitleKeyword, s)
}

// AddDescription adds "description".
func (b *Builder) AddDescription(s string) *Builder {
	return b.AddString(&types.DescriptionKeyword, s)
}

// AddDefault adds "default".
func (b *Builder) AddDefault(v any) *Builder {
	return b.AddAny(&types.DefaultKeyword, v)
}

// AddType adds "type" with the given simple type names.
func (b *Builder) AddType(names ...string) *Builder {
	if len(names) == 0 {
		b.setErr(errors.New("jsonschema: type requires at least one name"))
		return b
	}
	pt := types.PartTypes{Single: len(names) == 1}
	for _, n := range names {
		pt.Entries = append(pt.Entries, types.TypeEntry{Name: n})
	}
	return b.add(b.keyword("type"), types.ArgTypeTypes, pt)
}

// AddEnum adds "enum".
func (b *Builder) AddEnum(vals ...any) *Builder {
	norm, err := jsonvalue.Normalize(vals)
	if err != nil {
		b.setErr(fmt.Errorf("jsonschema: enum: %w", err))
		return b
	}
	return b.AddArray(&types.EnumKeyword, norm.([]any))
}

// AddMinimum adds an inclusive lower bound.
func (b *Builder) AddMinimum(f float64) *Builder {
	return b.AddLimit(&types.MinimumKeyword, types.PartLimit{Limit: number(f)})
}

// AddMaximum adds an inclusive upper bound.
func (b *Builder) AddMaximum(f float64) *Builder {
	return b.AddLimit(&types.MaximumKeyword, types.PartLimit{Limit: number(f)})
}

// AddExclusiveMinimum adds an exclusive lower bound,
// in the form used by b's draft.
func (b *Builder) AddExclusiveMinimum(f float64) *Builder {
	if b.v.Draft == types.Draft6 {
		return b.AddLimit(&types.ExclusiveMinimumKeyword, types.PartLimit{Limit: number(f), Exclusive: true, Form: types.LimitNumeric})
	}
	return b.AddLimit(&types.MinimumKeyword, types.PartLimit{Limit: number(f), Exclusive: true, Form: types.LimitBoolean})
}

// AddExclusiveMaximum adds an exclusive upper bound,
// in the form used by b's draft.
func (b *Builder) AddExclusiveMaximum(f float64) *Builder {
	if b.v.Draft == types.Draft6 {
		return b.AddLimit(&types.ExclusiveMaximumKeyword, types.PartLimit{Limit: number(f), Exclusive: true, Form: types.LimitNumeric})
	}
	return b.AddLimit(&types.MaximumKeyword, types.PartLimit{Limit: number(f), Exclusive: true, Form: types.LimitBoolean})
}

// AddMultipleOf adds "multipleOf", or "divisibleBy" in draft 3.
func (b *Builder) AddMultipleOf(f float64) *Builder {
	if b.v.Draft == types.Draft3 {
		return b.AddNumber(&types.DivisibleByKeyword, f)
	}
	return b.AddNumber(&types.MultipleOfKeyword, f)
}

// AddMinLength adds "minLength".
func (b *Builder) AddMinLength(n int64) *Builder {
	return b.AddInt(&types.MinLengthKeyword, n)
}

// AddMaxLength adds "maxLength".
func (b *Builder) AddMaxLength(n int64) *Builder {
	return b.AddInt(&types.MaxLengthKeyword, n)
}

// AddPattern adds "pattern".
func (b *Builder) AddPattern(re string) *Builder {
	return b.AddString(&types.PatternKeyword, re)
}

// AddFormat adds "format".
func (b *Builder) AddFormat(name string) *Builder {
	return b.AddString(&types.FormatKeyword, name)
}

// AddItemsSchema adds "items" applying s to every element.
func (b *Builder) AddItemsSchema(s *types.Schema) *Builder {
	if !b.checkSchemas(&types.ItemsKeyword, s) {
		return b
	}
	return b.add(&types.ItemsKeyword, types.ArgTypeItems, types.PartItems{All: s})
}

// AddTupleItems adds "items" applying schemas positionally.
func (b *Builder) AddTupleItems(schemas ...*types.Schema) *Builder {
	if !b.checkSchemas(&types.ItemsKeyword, schemas...) {
		return b
	}
	return b.add(&types.ItemsKeyword, types.ArgTypeItems, types.PartItems{Tuple: schemas, IsTuple: true})
}

// AdditionalItems sets whether elements past the end
// of tuple "items" are permitted.
func (b *Builder) AdditionalItems(allowed bool) *Builder {
	b.additionalItems = &allowed
	return b
}

// SchemaOfAdditionalItems sets the schema of elements past
// the end of tuple "items". It can't be combined with
// AdditionalItems(false).
func (b *Builder) SchemaOfAdditionalItems(s *types.Schema) *Builder {
	if b.checkSchemas(&types.AdditionalItemsKeyword, s) {
		b.schemaOfAdditionalItems = s
	}
	return b
}

// AddMinItems adds "minItems".
func (b *Builder) AddMinItems(n int64) *Builder {
	return b.AddInt(&types.MinItemsKeyword, n)
}

// AddMaxItems adds "maxItems".
func (b *Builder) AddMaxItems(n int64) *Builder {
	return b.AddInt(&types.MaxItemsKeyword, n)
}

// AddUniqueItems adds "uniqueItems".
func (b *Builder) AddUniqueItems(unique bool) *Builder {
	return b.AddBool(&types.UniqueItemsKeyword, unique)
}

// AddContains adds the draft 6 "contains".
func (b *Builder) AddContains(s *types.Schema) *Builder {
	return b.AddSchema(&types.ContainsKeyword, s)
}

// AddProperties adds "properties".
func (b *Builder) AddProperties(m *types.SchemaMap) *Builder {
	return b.AddMapSchema(&types.PropertiesKeyword, m)
}

// AddPatternProperties adds "patternProperties".
func (b *Builder) AddPatternProperties(m *types.SchemaMap) *Builder {
	return b.AddMapSchema(&types.PatternPropertiesKeyword, m)
}

// AdditionalProperties sets whether properties matched by neither
// "properties" nor "patternProperties" are permitted.
func (b *Builder) AdditionalProperties(allowed bool) *Builder {
	b.additionalProperties = &allowed
	return b
}

// SchemaOfAdditionalProperties sets the schema of properties
// matched by neither "properties" nor "patternProperties".
// It can't be combined with AdditionalProperties(false).
func (b *Builder) SchemaOfAdditionalProperties(s *types.Schema) *Builder {
	if b.checkSchemas(&types.AdditionalPropertiesKeyword, s) {
		b.schemaOfAdditionalProps = s
	}
	return b
}

// AddRequired adds the draft 4/6 "required" list.
// In draft 3 required properties are marked with [Builder.AddRequiredFlag].
func (b *Builder) AddRequired(names ...string) *Builder {
	return b.AddStrings(b.keyword("required"), names)
}

// AddRequiredFlag adds the draft 3 "required": true
// to a property schema.
func (b *Builder) AddRequiredFlag() *Builder {
	return b.AddBool(b.keyword("required"), true)
}

// AddMinProperties adds "minProperties".
func (b *Builder) AddMinProperties(n int64) *Builder {
	return b.AddInt(&types.MinPropertiesKeyword, n)
}

// AddMaxProperties adds "maxProperties".
func (b *Builder) AddMaxProperties(n int64) *Builder {
	return b.AddInt(&types.MaxPropertiesKeyword, n)
}

// AddPropertyNames adds the draft 6 "propertyNames".
func (b *Builder) AddPropertyNames(s *types.Schema) *Builder {
	return b.AddSchema(&types.PropertyNamesKeyword, s)
}

// AddDependencies adds "dependencies".
func (b *Builder) AddDependencies(m *types.DependencyMap) *Builder {
	for pair := m.Oldest(); pair != nil; pair = pair.Next() {
		dep := pair.Value
		if (dep.Schema == nil) == (dep.Properties == nil) {
			b.setErr(fmt.Errorf("jsonschema: dependency %q needs exactly one of properties or a schema", pair.Key))
			return b
		}
		if dep.Single && b.v.Draft != types.Draft3 {
			b.setErr(fmt.Errorf("jsonschema: %s does not permit a single property dependency", b.v.Name))
			return b
		}
	}
	return b.add(&types.DependenciesKeyword, types.ArgTypeDependencies, types.PartDependencies{M: m})
}

// AddPropertyDependency adds a dependency requiring mustBePresent
// whenever ifPresent is present. Calls for the same ifPresent
// are merged.
func (b *Builder) AddPropertyDependency(ifPresent string, mustBePresent ...string) *Builder {
	for i, p := range b.parts {
		if pd, ok := p.Value.(types.PartDependencies); ok {
			dep, _ := pd.M.Get(ifPresent)
			if dep.Schema != nil {
				b.setErr(fmt.Errorf("jsonschema: dependency %q already has a schema", ifPresent))
				return b
			}
			dep.Properties = append(dep.Properties, mustBePresent...)
			pd.M.Set(ifPresent, dep)
			b.parts[i].Value = pd
			return b
		}
	}
	m := types.NewDependencyMap()
	m.Set(ifPresent, types.Dependency{Properties: append([]string(nil), mustBePresent...)})
	return b.AddDependencies(m)
}

// AddAllOf adds "allOf", or "extends" in draft 3.
func (b *Builder) AddAllOf(schemas ...*types.Schema) *Builder {
	if b.v.Draft == types.Draft3 {
		return b.AddSchemaOrSchemas(&types.ExtendsKeyword, types.PartSchemaOrSchemas{Schemas: schemas})
	}
	return b.AddSchemas(&types.AllOfKeyword, schemas)
}

// AddAnyOf adds "anyOf".
func (b *Builder) AddAnyOf(schemas ...*types.Schema) *Builder {
	return b.AddSchemas(&types.AnyOfKeyword, schemas)
}

// AddOneOf adds "oneOf".
func (b *Builder) AddOneOf(schemas ...*types.Schema) *Builder {
	return b.AddSchemas(&types.OneOfKeyword, schemas)
}

// AddNot adds "not".
func (b *Builder) AddNot(s *types.Schema) *Builder {
	return b.AddSchema(&types.NotKeyword, s)
}

// number returns the JSON form of f.
func number(f float64) json.Number {
	lex, _ := jsonvalue.Lexical(f)
	return json.Number(lex)
}
