// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package validator

import (
	"fmt"

	"github.com/altshiftab/legacyschema/internal/recache"
	"github.com/altshiftab/legacyschema/internal/validerr"
	"github.com/altshiftab/legacyschema/pkg/jsonpointer"
	"github.com/altshiftab/legacyschema/pkg/jsonvalue"
	"github.com/altshiftab/legacyschema/pkg/types"
)

// validateProperties checks each named property that is present.
// A missing property is an error if its draft 3 schema says
// "required": true.
func (st *state) validateProperties(s *types.Schema, arg types.PartMapSchema, obj any, ptr jsonpointer.Pointer, errs *[]*types.ValidationError) {
	for pair := arg.M.Oldest(); pair != nil; pair = pair.Next() {
		name, sub := pair.Key, pair.Value
		val, ok := jsonvalue.Get(obj, name)
		if !ok {
			if sub.IsDraft3Required() {
				validerr.AddError(errs, validerr.New(s, ptr, "required", "required key [%s] not found", name))
			}
			continue
		}
		validerr.AddError(errs, st.validate(sub, val, ptr.Child(name)))
	}
}

// validatePatternProperties checks every property against each
// pattern that matches its name, in instance order.
func (st *state) validatePatternProperties(arg types.PartMapSchema, obj any, ptr jsonpointer.Pointer, errs *[]*types.ValidationError) {
	for name, val := range jsonvalue.Members(obj) {
		for pair := arg.M.Oldest(); pair != nil; pair = pair.Next() {
			re, err := recache.Compile(pair.Key)
			if err != nil {
				st.err = fmt.Errorf("jsonschema: patternProperties: %w", err)
				return
			}
			if re.MatchString(name) {
				validerr.AddError(errs, st.validate(pair.Value, val, ptr.Child(name)))
			}
		}
	}
}

// validateAdditionalProperties checks the properties that are
// matched by neither "properties" nor "patternProperties".
func (st *state) validateAdditionalProperties(s *types.Schema, arg types.PartSchema, obj any, ptr jsonpointer.Pointer, errs *[]*types.ValidationError) {
	props := s.PropertySchemas()
	var patterns *types.SchemaMap
	if v, ok := s.LookupKeyword(types.PatternPropertiesKeyword.Name); ok {
		patterns = v.(types.PartMapSchema).M
	}
	isBool, isTrue := arg.S.IsBoolSchema()
	if isBool && isTrue {
		return
	}

	for name, val := range jsonvalue.Members(obj) {
		if props != nil {
			if _, ok := props.Get(name); ok {
				continue
			}
		}
		if st.matchesAnyPattern(patterns, name) {
			continue
		}
		if isBool {
			validerr.AddError(errs, validerr.New(s, ptr, "additionalProperties", "extraneous key [%s] is not permitted", name))
			continue
		}
		validerr.AddError(errs, st.validate(arg.S, val, ptr.Child(name)))
	}
}

func (st *state) matchesAnyPattern(patterns *types.SchemaMap, name string) bool {
	if patterns == nil {
		return false
	}
	for pair := patterns.Oldest(); pair != nil; pair = pair.Next() {
		re, err := recache.Compile(pair.Key)
		if err != nil {
			st.err = fmt.Errorf("jsonschema: patternProperties: %w", err)
			return false
		}
		if re.MatchString(name) {
			return true
		}
	}
	return false
}

// validateRequired handles the "required" list of drafts 4 and 6.
func validateRequired(s *types.Schema, arg types.PartStrings, obj any, ptr jsonpointer.Pointer, errs *[]*types.ValidationError) {
	for _, name := range arg {
		if _, ok := jsonvalue.Get(obj, name); !ok {
			validerr.AddError(errs, validerr.New(s, ptr, "required", "required key [%s] not found", name))
		}
	}
}

func validatePropertyCount(s *types.Schema, kw *types.Keyword, arg types.PartInt, obj any, ptr jsonpointer.Pointer) *types.ValidationError {
	n := int64(jsonvalue.Len(obj))
	switch {
	case kw == &types.MinPropertiesKeyword && n < int64(arg):
		return validerr.New(s, ptr, kw.Name, "minimum size: [%d], found: [%d]", int64(arg), n)
	case kw == &types.MaxPropertiesKeyword && n > int64(arg):
		return validerr.New(s, ptr, kw.Name, "maximum size: [%d], found: [%d]", int64(arg), n)
	}
	return nil
}

// validateDependencies handles both forms of "dependencies".
// If the named property is present, a property dependency requires
// the listed properties, and a schema dependency requires the
// whole object to match the schema.
func (st *state) validateDependencies(s *types.Schema, arg types.PartDependencies, obj any, ptr jsonpointer.Pointer, errs *[]*types.ValidationError) {
	for pair := arg.M.Oldest(); pair != nil; pair = pair.Next() {
		if _, ok := jsonvalue.Get(obj, pair.Key); !ok {
			continue
		}
		dep := pair.Value
		if dep.Schema != nil {
			validerr.AddError(errs, st.validate(dep.Schema, obj, ptr))
			continue
		}
		for _, name := range dep.Properties {
			if _, ok := jsonvalue.Get(obj, name); !ok {
				validerr.AddError(errs, validerr.New(s, ptr, "dependencies", "property [%s] is required", name))
			}
		}
	}
}

// validatePropertyNames checks each property name as a string.
func (st *state) validatePropertyNames(arg types.PartSchema, obj any, ptr jsonpointer.Pointer, errs *[]*types.ValidationError) {
	for name := range jsonvalue.Members(obj) {
		validerr.AddError(errs, st.validate(arg.S, name, ptr.Child(name)))
	}
}
