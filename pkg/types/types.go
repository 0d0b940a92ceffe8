// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package types defines the JSON schema model for drafts 3, 4 and 6.
//
// A [Schema] is an immutable list of [Part] values, each pairing a
// [Keyword] with a typed [PartValue]. Schemas are normally produced
// by the loader package, which also resolves "$ref" references;
// the builder package constructs them in code.
package types

import (
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Schema is a JSON schema node.
// Do not modify a Schema after it has been returned by the loader;
// loaded schemas are shared between concurrent validations.
type Schema struct {
	// Where the node was loaded from.
	Location Location
	// The keywords of this node, in document order.
	Parts []Part
}

// String returns a somewhat readable representation of a Schema.
// The format differs from JSON output, and also includes internal
// information not stored in JSON.
func (s *Schema) String() string {
	var sb strings.Builder
	sb.WriteString("Schema{")
	for i, part := range s.Parts {
		if i > 0 {
			sb.WriteString(", ")
		}
		val := any(part.Value)
		switch v := part.Value.(type) {
		case PartBool, PartString, PartStrings, PartInt, PartNumber, PartLimit:
		case PartRef:
			// Don't follow references; they can be cyclic.
			val = v.Ref
		default:
			val = "<" + part.Keyword.ArgType.String() + ">"
		}
		fmt.Fprintf(&sb, "{%s %v}", part.Keyword.Name, val)
	}
	sb.WriteByte('}')
	return sb.String()
}

// Part is one part of a JSON schema.
// This is a keyword, such as "id" or "properties",
// along with the value associated with that keyword in the schema.
type Part struct {
	Keyword *Keyword
	Value   PartValue
}

// MakePart builds a Part.
func MakePart(keyword *Keyword, value PartValue) Part {
	return Part{
		Keyword: keyword,
		Value:   value,
	}
}

// Keyword is a schema keyword.
type Keyword struct {
	// Name is the keyword, such as allOf, minLength, and so forth.
	Name string

	// ArgType is the type of argument expected.
	ArgType ArgType

	// Accepts is the set of JSON value types the keyword accepts.
	// Keywords whose argument is a schema also accept true and false
	// in draft 6; the loader adds those.
	Accepts ValueType

	// Drafts is the set of drafts that recognize the keyword.
	Drafts Draft

	// Family is the kind of instance the keyword constrains.
	Family Family

	// Generated is true if this keyword is not represented in JSON,
	// but is added to record additional information.
	// If this is true the keyword should be ignored by anything
	// that wants to treat the Schema as a JSON object.
	Generated bool

	// Unknown is true for keywords that no draft defines.
	// They are kept so that the schema round-trips
	// and so that a "$ref" can point into them.
	Unknown bool
}

// Equal reports whether two keywords are equal.
func (k1 Keyword) Equal(k2 Keyword) bool {
	return k1.Name == k2.Name && k1.ArgType == k2.ArgType && k1.Generated == k2.Generated
}

// PartValue is the value of a JSON schema element.
// This is accessed via a type switch.
// The possible types are
//   - [PartBool]
//   - [PartString]
//   - [PartStrings]
//   - [PartInt]
//   - [PartNumber]
//   - [PartLimit]
//   - [PartTypes]
//   - [PartAny]
//   - [PartArray]
//   - [PartSchema]
//   - [PartSchemas]
//   - [PartSchemaOrSchemas]
//   - [PartMapSchema]
//   - [PartItems]
//   - [PartDependencies]
//   - [PartRef]
type PartValue interface {
	partValue() // restrict to types defined in this package
}

// PartBool is a schema part value that is a bool.
// With the [BoolKeyword] it is a whole schema:
// true matches every value and false matches none.
type PartBool bool

// PartString is a schema part value that is a string.
// For example, the schema keyword "pattern" has a string
// value that must be a regexp that must match the instance value.
type PartString string

// PartStrings is a schema part value that is a list of strings.
// For example, the schema keyword "required" takes a list of strings
// where each string is a property that the instance is required to have.
type PartStrings []string

// PartInt is a schema part value that is a non-negative integer.
// For example, the schema keyword "minLength" specifies
// the minimum length of a string.
type PartInt int64

// PartNumber is a schema part value that is a number,
// kept in the form it had in the document.
// For example, the schema keyword "multipleOf".
type PartNumber json.Number

// LimitForm records how the exclusiveness of a bound was written.
type LimitForm int

const (
	// LimitPlain is a "minimum" or "maximum" with no companion.
	LimitPlain LimitForm = iota
	// LimitBoolean is a draft 3/4 bound together with its boolean
	// "exclusiveMinimum" or "exclusiveMaximum" companion.
	LimitBoolean
	// LimitNumeric is a draft 6 "exclusiveMinimum" or
	// "exclusiveMaximum", which carries the bound itself.
	LimitNumeric
)

// PartLimit is a numeric bound along with whether it is exclusive.
// The draft 3/4 encoding ("minimum" plus a boolean "exclusiveMinimum")
// and the draft 6 encoding (numeric "exclusiveMinimum") both
// produce a PartLimit, so validation treats them the same way.
type PartLimit struct {
	Limit     json.Number
	Exclusive bool
	Form      LimitForm
}

// TypeEntry is one element of a "type" or "disallow" value.
// Exactly one of the fields is set. Only draft 3 permits schemas.
type TypeEntry struct {
	Name   string
	Schema *Schema
}

// PartTypes is the value of the "type" keyword,
// and of the draft 3 "disallow" keyword.
// Single is true if the document used a single value
// rather than an array.
type PartTypes struct {
	Single  bool
	Entries []TypeEntry
}

// Names returns the simple type names in p.
func (p PartTypes) Names() []string {
	var names []string
	for _, e := range p.Entries {
		if e.Schema == nil {
			names = append(names, e.Name)
		}
	}
	return names
}

// PartAny is a schema part value that is an arbitrary JSON value.
// For example, the schema keywords "default" and "const".
type PartAny struct {
	V any
}

// PartArray is a schema part value that is a JSON array.
// For example, the schema keyword "enum".
type PartArray []any

// PartSchema is a schema part value that is a reference to a schema.
// For example, the schema keyword "not" refers to a schema;
// the instance matches if it does not match that schema.
type PartSchema struct {
	S *Schema
}

// PartSchemas is a schema part value that is a list of schemas.
// For example, the schema keyword "allOf" matches an instance
// if the instance matches each schema in the list.
type PartSchemas []*Schema

// PartSchemaOrSchemas is either a single schema (like [PartSchema])
// or a list of schemas (like [PartSchemas]). This is used for the
// draft 3 keyword "extends". Exactly one of the fields will be nil.
type PartSchemaOrSchemas struct {
	Schema  *Schema
	Schemas []*Schema
}

// SchemaMap is a mapping from names to schemas that keeps
// the order of the document.
type SchemaMap = orderedmap.OrderedMap[string, *Schema]

// NewSchemaMap returns an empty [SchemaMap].
func NewSchemaMap() *SchemaMap {
	return orderedmap.New[string, *Schema]()
}

// PartMapSchema is a schema part value that is a map from strings to schemas.
// For example, the schema keyword "properties" has a mapping
// from field names to schemas, and matches an instance if the
// corresponding instance fields match the schemas.
type PartMapSchema struct {
	M *SchemaMap
}

// PartItems is the value of the "items" keyword,
// folded together with its "additionalItems" companion.
//
// If IsTuple is false, All applies to every element (it may be nil
// if only "additionalItems" was written). If IsTuple is true,
// Tuple applies positionally and Additional, if not nil, applies
// to the elements past the end of Tuple.
type PartItems struct {
	All        *Schema
	Tuple      []*Schema
	IsTuple    bool
	Additional *Schema
}

// Dependency is one value of the "dependencies" keyword:
// either a list of property names or a schema.
type Dependency struct {
	Properties []string
	Schema     *Schema
	// Single is true for the draft 3 form
	// that names one property as a string.
	Single bool
}

// DependencyMap is an ordered mapping from property name to [Dependency].
type DependencyMap = orderedmap.OrderedMap[string, Dependency]

// NewDependencyMap returns an empty [DependencyMap].
func NewDependencyMap() *DependencyMap {
	return orderedmap.New[string, Dependency]()
}

// PartDependencies is the value of the "dependencies" keyword.
type PartDependencies struct {
	M *DependencyMap
}

// PartRef is the value of the "$ref" keyword.
// The target is stored in an [Arena] slot,
// which the loader fills in once the target has been loaded.
type PartRef struct {
	// The reference as written in the document.
	Ref string
	// The reference resolved against the resolution scope.
	URI string
	// The slot holding the target.
	Target Handle
	Arena  *Arena
}

// Schema returns the target of the reference,
// or nil if it has not been resolved.
func (r PartRef) Schema() *Schema {
	if r.Arena == nil {
		return nil
	}
	return r.Arena.Node(r.Target)
}

// Define a partValue method for each permitted Part type.
// This implements the [PartValue] interface.

func (PartBool) partValue()            {}
func (PartString) partValue()          {}
func (PartStrings) partValue()         {}
func (PartInt) partValue()             {}
func (PartNumber) partValue()          {}
func (PartLimit) partValue()           {}
func (PartTypes) partValue()           {}
func (PartAny) partValue()             {}
func (PartArray) partValue()           {}
func (PartSchema) partValue()          {}
func (PartSchemas) partValue()         {}
func (PartSchemaOrSchemas) partValue() {}
func (PartMapSchema) partValue()       {}
func (PartItems) partValue()           {}
func (PartDependencies) partValue()    {}
func (PartRef) partValue()             {}

// ArgType is an enumeration of the possible schema part types.
type ArgType int

const (
	ArgTypeBool ArgType = iota + 1
	ArgTypeString
	ArgTypeStrings
	ArgTypeInt
	ArgTypeNumber
	ArgTypeLimit
	ArgTypeTypes
	ArgTypeAny
	ArgTypeArray
	ArgTypeSchema
	ArgTypeSchemas
	ArgTypeSchemaOrSchemas
	ArgTypeMapSchema
	ArgTypeItems
	ArgTypeDependencies
	ArgTypeRef
)

var argTypeNames = map[ArgType]string{
	ArgTypeBool:            "Bool",
	ArgTypeString:          "String",
	ArgTypeStrings:         "Strings",
	ArgTypeInt:             "Int",
	ArgTypeNumber:          "Number",
	ArgTypeLimit:           "Limit",
	ArgTypeTypes:           "Types",
	ArgTypeAny:             "Any",
	ArgTypeArray:           "Array",
	ArgTypeSchema:          "Schema",
	ArgTypeSchemas:         "Schemas",
	ArgTypeSchemaOrSchemas: "SchemaOrSchemas",
	ArgTypeMapSchema:       "MapSchema",
	ArgTypeItems:           "Items",
	ArgTypeDependencies:    "Dependencies",
	ArgTypeRef:             "Ref",
}

// String returns the name of the argument type.
func (t ArgType) String() string {
	if n, ok := argTypeNames[t]; ok {
		return n
	}
	return fmt.Sprintf("ArgType(%d)", int(t))
}

// Draft is a set of JSON schema drafts.
type Draft uint8

const (
	Draft3 Draft = 1 << iota
	Draft4
	Draft6

	AllDrafts = Draft3 | Draft4 | Draft6
)

// String returns a name such as "draft-04".
func (d Draft) String() string {
	switch d {
	case Draft3:
		return "draft-03"
	case Draft4:
		return "draft-04"
	case Draft6:
		return "draft-06"
	}
	var names []string
	for _, one := range []Draft{Draft3, Draft4, Draft6} {
		if d&one != 0 {
			names = append(names, one.String())
		}
	}
	return strings.Join(names, "|")
}

// ValueType is a set of JSON value types, as accepted by a keyword.
type ValueType uint8

const (
	ValueObject ValueType = 1 << iota
	ValueArray
	ValueString
	ValueNumber
	ValueTrue
	ValueFalse
	ValueNull

	ValueBoolean = ValueTrue | ValueFalse
	ValueAny     = ValueObject | ValueArray | ValueString | ValueNumber | ValueBoolean | ValueNull
)

// String returns the names of the types in the set.
func (vt ValueType) String() string {
	if vt == ValueBoolean {
		return "boolean"
	}
	var names []string
	for i, n := range []string{"object", "array", "string", "number", "true", "false", "null"} {
		if vt&(1<<i) != 0 {
			names = append(names, n)
		}
	}
	return strings.Join(names, " or ")
}

// Family is the kind of instance a keyword constrains.
type Family uint8

const (
	// FamilyGeneric keywords apply to any instance.
	FamilyGeneric Family = iota
	FamilyString
	FamilyNumber
	FamilyArray
	FamilyObject
	// FamilyCombinator keywords combine the results of subschemas.
	FamilyCombinator
	// FamilyMeta keywords do not affect validation.
	FamilyMeta
)

// InstanceType returns the JSON type name a family applies to,
// or "" for the families that apply to any instance.
func (f Family) InstanceType() string {
	switch f {
	case FamilyString:
		return "string"
	case FamilyNumber:
		return "number"
	case FamilyArray:
		return "array"
	case FamilyObject:
		return "object"
	}
	return ""
}

// LookupKeyword returns the value associated with a keyword in the schema.
// The bool result reports whether the keyword is present at all.
func (s *Schema) LookupKeyword(keyword string) (PartValue, bool) {
	for _, part := range s.Parts {
		if !part.Keyword.Generated && part.Keyword.Name == keyword {
			return part.Value, true
		}
	}
	return nil, false
}
