// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package types

// schemaValue is what a keyword whose argument is a schema accepts
// in every draft. Draft 6 also accepts true and false.
const schemaValue = ValueObject

// Meta keywords.
var (
	// SchemaKeyword is a keyword to hold the schema version.
	SchemaKeyword = Keyword{Name: "$schema", ArgType: ArgTypeString, Accepts: ValueString, Drafts: AllDrafts, Family: FamilyMeta}
	// IDKeyword is the draft 3/4 spelling of the schema identifier.
	IDKeyword = Keyword{Name: "id", ArgType: ArgTypeString, Accepts: ValueString, Drafts: Draft3 | Draft4, Family: FamilyMeta}
	// DollarIDKeyword is the draft 6 spelling of the schema identifier.
	DollarIDKeyword    = Keyword{Name: "$id", ArgType: ArgTypeString, Accepts: ValueString, Drafts: Draft6, Family: FamilyMeta}
	RefKeyword         = Keyword{Name: "$ref", ArgType: ArgTypeRef, Accepts: ValueString, Drafts: AllDrafts, Family: FamilyMeta}
	TitleKeyword       = Keyword{Name: "title", ArgType: ArgTypeString, Accepts: ValueString, Drafts: AllDrafts, Family: FamilyMeta}
	DescriptionKeyword = Keyword{Name: "description", ArgType: ArgTypeString, Accepts: ValueString, Drafts: AllDrafts, Family: FamilyMeta}
	DefaultKeyword     = Keyword{Name: "default", ArgType: ArgTypeAny, Accepts: ValueAny, Drafts: AllDrafts, Family: FamilyMeta}
	ExamplesKeyword    = Keyword{Name: "examples", ArgType: ArgTypeArray, Accepts: ValueArray, Drafts: Draft6, Family: FamilyMeta}
	DefinitionsKeyword = Keyword{Name: "definitions", ArgType: ArgTypeMapSchema, Accepts: ValueObject, Drafts: AllDrafts, Family: FamilyMeta}
)

// BoolKeyword is not a real keyword, but is used to represent the
// special schema values "true" and "false".
var BoolKeyword = Keyword{
	Name:      "$bool",
	ArgType:   ArgTypeBool,
	Accepts:   ValueBoolean,
	Drafts:    AllDrafts,
	Family:    FamilyGeneric,
	Generated: true,
}

// ImplicitTypeKeyword is added by the loader to a schema that has no
// "type" keyword but does have type-specific keywords. Its value is a
// [PartStrings] listing the instance types those keywords apply to.
var ImplicitTypeKeyword = Keyword{
	Name:      "$$implicitType",
	ArgType:   ArgTypeStrings,
	Drafts:    AllDrafts,
	Family:    FamilyMeta,
	Generated: true,
}

// Generic keywords.
var (
	// TypeKeyword is "type" in drafts 4 and 6,
	// which takes a type name or an array of type names.
	TypeKeyword = Keyword{Name: "type", ArgType: ArgTypeTypes, Accepts: ValueString | ValueArray, Drafts: Draft4 | Draft6}
	// Draft3TypeKeyword is "type" in draft 3,
	// where the array may also hold schemas.
	Draft3TypeKeyword = Keyword{Name: "type", ArgType: ArgTypeTypes, Accepts: ValueString | ValueArray, Drafts: Draft3}
	DisallowKeyword   = Keyword{Name: "disallow", ArgType: ArgTypeTypes, Accepts: ValueString | ValueArray, Drafts: Draft3}
	EnumKeyword       = Keyword{Name: "enum", ArgType: ArgTypeArray, Accepts: ValueArray, Drafts: AllDrafts}
	ConstKeyword      = Keyword{Name: "const", ArgType: ArgTypeAny, Accepts: ValueAny, Drafts: Draft6}
)

// Combinators.
var (
	AllOfKeyword   = Keyword{Name: "allOf", ArgType: ArgTypeSchemas, Accepts: ValueArray, Drafts: Draft4 | Draft6, Family: FamilyCombinator}
	AnyOfKeyword   = Keyword{Name: "anyOf", ArgType: ArgTypeSchemas, Accepts: ValueArray, Drafts: Draft4 | Draft6, Family: FamilyCombinator}
	OneOfKeyword   = Keyword{Name: "oneOf", ArgType: ArgTypeSchemas, Accepts: ValueArray, Drafts: Draft4 | Draft6, Family: FamilyCombinator}
	NotKeyword     = Keyword{Name: "not", ArgType: ArgTypeSchema, Accepts: schemaValue, Drafts: Draft4 | Draft6, Family: FamilyCombinator}
	ExtendsKeyword = Keyword{Name: "extends", ArgType: ArgTypeSchemaOrSchemas, Accepts: schemaValue | ValueArray, Drafts: Draft3, Family: FamilyCombinator}
)

// Number keywords.
var (
	MinimumKeyword = Keyword{Name: "minimum", ArgType: ArgTypeLimit, Accepts: ValueNumber, Drafts: AllDrafts, Family: FamilyNumber}
	MaximumKeyword = Keyword{Name: "maximum", ArgType: ArgTypeLimit, Accepts: ValueNumber, Drafts: AllDrafts, Family: FamilyNumber}
	// ExclusiveMinimumFlagKeyword is the draft 3/4 boolean companion
	// of "minimum". It only appears in a schema on its own if
	// "minimum" is absent; otherwise it is folded into the [PartLimit].
	ExclusiveMinimumFlagKeyword = Keyword{Name: "exclusiveMinimum", ArgType: ArgTypeBool, Accepts: ValueBoolean, Drafts: Draft3 | Draft4, Family: FamilyNumber}
	ExclusiveMaximumFlagKeyword = Keyword{Name: "exclusiveMaximum", ArgType: ArgTypeBool, Accepts: ValueBoolean, Drafts: Draft3 | Draft4, Family: FamilyNumber}
	// ExclusiveMinimumKeyword is the draft 6 numeric bound.
	ExclusiveMinimumKeyword = Keyword{Name: "exclusiveMinimum", ArgType: ArgTypeLimit, Accepts: ValueNumber, Drafts: Draft6, Family: FamilyNumber}
	ExclusiveMaximumKeyword = Keyword{Name: "exclusiveMaximum", ArgType: ArgTypeLimit, Accepts: ValueNumber, Drafts: Draft6, Family: FamilyNumber}
	MultipleOfKeyword       = Keyword{Name: "multipleOf", ArgType: ArgTypeNumber, Accepts: ValueNumber, Drafts: Draft4 | Draft6, Family: FamilyNumber}
	DivisibleByKeyword      = Keyword{Name: "divisibleBy", ArgType: ArgTypeNumber, Accepts: ValueNumber, Drafts: Draft3, Family: FamilyNumber}
)

// String keywords.
var (
	MinLengthKeyword = Keyword{Name: "minLength", ArgType: ArgTypeInt, Accepts: ValueNumber, Drafts: AllDrafts, Family: FamilyString}
	MaxLengthKeyword = Keyword{Name: "maxLength", ArgType: ArgTypeInt, Accepts: ValueNumber, Drafts: AllDrafts, Family: FamilyString}
	PatternKeyword   = Keyword{Name: "pattern", ArgType: ArgTypeString, Accepts: ValueString, Drafts: AllDrafts, Family: FamilyString}
	FormatKeyword    = Keyword{Name: "format", ArgType: ArgTypeString, Accepts: ValueString, Drafts: AllDrafts, Family: FamilyString}
)

// Array keywords.
var (
	ItemsKeyword = Keyword{Name: "items", ArgType: ArgTypeItems, Accepts: schemaValue | ValueArray, Drafts: AllDrafts, Family: FamilyArray}
	// AdditionalItemsKeyword is folded into the [PartItems] of "items".
	AdditionalItemsKeyword = Keyword{Name: "additionalItems", ArgType: ArgTypeSchema, Accepts: schemaValue | ValueBoolean, Drafts: AllDrafts, Family: FamilyArray}
	MinItemsKeyword        = Keyword{Name: "minItems", ArgType: ArgTypeInt, Accepts: ValueNumber, Drafts: AllDrafts, Family: FamilyArray}
	MaxItemsKeyword        = Keyword{Name: "maxItems", ArgType: ArgTypeInt, Accepts: ValueNumber, Drafts: AllDrafts, Family: FamilyArray}
	UniqueItemsKeyword     = Keyword{Name: "uniqueItems", ArgType: ArgTypeBool, Accepts: ValueBoolean, Drafts: AllDrafts, Family: FamilyArray}
	ContainsKeyword        = Keyword{Name: "contains", ArgType: ArgTypeSchema, Accepts: schemaValue, Drafts: Draft6, Family: FamilyArray}
)

// Object keywords.
var (
	PropertiesKeyword           = Keyword{Name: "properties", ArgType: ArgTypeMapSchema, Accepts: ValueObject, Drafts: AllDrafts, Family: FamilyObject}
	PatternPropertiesKeyword    = Keyword{Name: "patternProperties", ArgType: ArgTypeMapSchema, Accepts: ValueObject, Drafts: AllDrafts, Family: FamilyObject}
	AdditionalPropertiesKeyword = Keyword{Name: "additionalProperties", ArgType: ArgTypeSchema, Accepts: schemaValue | ValueBoolean, Drafts: AllDrafts, Family: FamilyObject}
	// RequiredKeyword is the draft 4/6 list of required properties.
	RequiredKeyword = Keyword{Name: "required", ArgType: ArgTypeStrings, Accepts: ValueArray, Drafts: Draft4 | Draft6, Family: FamilyObject}
	// Draft3RequiredKeyword marks a property schema as required
	// by the enclosing "properties".
	Draft3RequiredKeyword = Keyword{Name: "required", ArgType: ArgTypeBool, Accepts: ValueBoolean, Drafts: Draft3, Family: FamilyMeta}
	MinPropertiesKeyword  = Keyword{Name: "minProperties", ArgType: ArgTypeInt, Accepts: ValueNumber, Drafts: Draft4 | Draft6, Family: FamilyObject}
	MaxPropertiesKeyword  = Keyword{Name: "maxProperties", ArgType: ArgTypeInt, Accepts: ValueNumber, Drafts: Draft4 | Draft6, Family: FamilyObject}
	DependenciesKeyword   = Keyword{Name: "dependencies", ArgType: ArgTypeDependencies, Accepts: ValueObject, Drafts: AllDrafts, Family: FamilyObject}
	PropertyNamesKeyword  = Keyword{Name: "propertyNames", ArgType: ArgTypeSchema, Accepts: schemaValue, Drafts: Draft6, Family: FamilyObject}
)

// allKeywords is every keyword that appears in JSON.
var allKeywords = []*Keyword{
	&SchemaKeyword,
	&IDKeyword,
	&DollarIDKeyword,
	&RefKeyword,
	&TitleKeyword,
	&DescriptionKeyword,
	&DefaultKeyword,
	&ExamplesKeyword,
	&DefinitionsKeyword,
	&TypeKeyword,
	&Draft3TypeKeyword,
	&DisallowKeyword,
	&EnumKeyword,
	&ConstKeyword,
	&AllOfKeyword,
	&AnyOfKeyword,
	&OneOfKeyword,
	&NotKeyword,
	&ExtendsKeyword,
	&MinimumKeyword,
	&MaximumKeyword,
	&ExclusiveMinimumFlagKeyword,
	&ExclusiveMaximumFlagKeyword,
	&ExclusiveMinimumKeyword,
	&ExclusiveMaximumKeyword,
	&MultipleOfKeyword,
	&DivisibleByKeyword,
	&MinLengthKeyword,
	&MaxLengthKeyword,
	&PatternKeyword,
	&FormatKeyword,
	&ItemsKeyword,
	&AdditionalItemsKeyword,
	&MinItemsKeyword,
	&MaxItemsKeyword,
	&UniqueItemsKeyword,
	&ContainsKeyword,
	&PropertiesKeyword,
	&PatternPropertiesKeyword,
	&AdditionalPropertiesKeyword,
	&RequiredKeyword,
	&Draft3RequiredKeyword,
	&MinPropertiesKeyword,
	&MaxPropertiesKeyword,
	&DependenciesKeyword,
	&PropertyNamesKeyword,
}

// UnknownKeyword returns a keyword for a name that no draft defines.
func UnknownKeyword(name string) *Keyword {
	return &Keyword{
		Name:    name,
		ArgType: ArgTypeAny,
		Accepts: ValueAny,
		Drafts:  AllDrafts,
		Family:  FamilyMeta,
		Unknown: true,
	}
}

// AcceptedTypes returns the JSON value types the keyword accepts in draft d.
func (k *Keyword) AcceptedTypes(d Draft) ValueType {
	vt := k.Accepts
	if d == Draft6 && k.Accepts&schemaValue != 0 {
		switch k.ArgType {
		case ArgTypeSchema, ArgTypeItems, ArgTypeSchemaOrSchemas:
			vt |= ValueBoolean
		}
	}
	return vt
}
