// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package types

import (
	"slices"

	"github.com/altshiftab/legacyschema/pkg/jsonvalue"
	"github.com/goccy/go-json"
)

// Equal reports whether s and o have the same keywords with equal
// values. Locations are not compared, so identical subschemas found
// in different places are equal. Keyword order is not significant.
// References are equal if they have the same resolved URI;
// their targets are not compared.
func (s *Schema) Equal(o *Schema) bool {
	if s == o {
		return true
	}
	if s == nil || o == nil {
		return false
	}
	sp, op := visibleParts(s), visibleParts(o)
	if len(sp) != len(op) {
		return false
	}
	for _, a := range sp {
		i := slices.IndexFunc(op, func(b Part) bool {
			return a.Keyword.Name == b.Keyword.Name
		})
		if i < 0 {
			return false
		}
		b := op[i]
		if a.Keyword.ArgType != b.Keyword.ArgType || !partValueEqual(a.Value, b.Value) {
			return false
		}
	}
	return true
}

func visibleParts(s *Schema) []Part {
	var ret []Part
	for _, p := range s.Parts {
		if !p.Keyword.Generated || p.Keyword == &BoolKeyword {
			ret = append(ret, p)
		}
	}
	return ret
}

func partValueEqual(a, b PartValue) bool {
	switch av := a.(type) {
	case PartBool:
		bv, ok := b.(PartBool)
		return ok && av == bv
	case PartString:
		bv, ok := b.(PartString)
		return ok && av == bv
	case PartStrings:
		bv, ok := b.(PartStrings)
		return ok && slices.Equal(av, bv)
	case PartInt:
		bv, ok := b.(PartInt)
		return ok && av == bv
	case PartNumber:
		bv, ok := b.(PartNumber)
		return ok && jsonvalue.Equal(json.Number(av), json.Number(bv))
	case PartLimit:
		bv, ok := b.(PartLimit)
		return ok && av.Exclusive == bv.Exclusive && av.Form == bv.Form &&
			jsonvalue.Equal(av.Limit, bv.Limit)
	case PartTypes:
		bv, ok := b.(PartTypes)
		return ok && av.Single == bv.Single &&
			slices.EqualFunc(av.Entries, bv.Entries, func(x, y TypeEntry) bool {
				return x.Name == y.Name && x.Schema.Equal(y.Schema)
			})
	case PartAny:
		bv, ok := b.(PartAny)
		return ok && jsonvalue.Equal(av.V, bv.V)
	case PartArray:
		bv, ok := b.(PartArray)
		return ok && jsonvalue.Equal([]any(av), []any(bv))
	case PartSchema:
		bv, ok := b.(PartSchema)
		return ok && av.S.Equal(bv.S)
	case PartSchemas:
		bv, ok := b.(PartSchemas)
		return ok && schemasEqual(av, bv)
	case PartSchemaOrSchemas:
		bv, ok := b.(PartSchemaOrSchemas)
		return ok && av.Schema.Equal(bv.Schema) && schemasEqual(av.Schemas, bv.Schemas)
	case PartMapSchema:
		bv, ok := b.(PartMapSchema)
		if !ok || av.M.Len() != bv.M.Len() {
			return false
		}
		for pair := av.M.Oldest(); pair != nil; pair = pair.Next() {
			other, ok := bv.M.Get(pair.Key)
			if !ok || !pair.Value.Equal(other) {
				return false
			}
		}
		return true
	case PartItems:
		bv, ok := b.(PartItems)
		return ok && av.IsTuple == bv.IsTuple && av.All.Equal(bv.All) &&
			schemasEqual(av.Tuple, bv.Tuple) && av.Additional.Equal(bv.Additional)
	case PartDependencies:
		bv, ok := b.(PartDependencies)
		if !ok || av.M.Len() != bv.M.Len() {
			return false
		}
		for pair := av.M.Oldest(); pair != nil; pair = pair.Next() {
			other, ok := bv.M.Get(pair.Key)
			if !ok || !slices.Equal(pair.Value.Properties, other.Properties) ||
				!pair.Value.Schema.Equal(other.Schema) {
				return false
			}
		}
		return true
	case PartRef:
		bv, ok := b.(PartRef)
		return ok && av.URI == bv.URI
	default:
		return false
	}
}

func schemasEqual(a, b []*Schema) bool {
	return slices.EqualFunc(a, b, (*Schema).Equal)
}
