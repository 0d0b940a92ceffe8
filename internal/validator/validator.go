// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package validator checks JSON values against loaded schemas.
package validator

import (
	"errors"
	"fmt"
	"math/big"
	"strings"
	"unicode/utf8"

	"github.com/altshiftab/legacyschema/internal/recache"
	"github.com/altshiftab/legacyschema/internal/validerr"
	"github.com/altshiftab/legacyschema/pkg/format"
	"github.com/altshiftab/legacyschema/pkg/jsonpointer"
	"github.com/altshiftab/legacyschema/pkg/jsonvalue"
	"github.com/altshiftab/legacyschema/pkg/types"
)

// maxDepth bounds the nesting of schema evaluation.
const maxDepth = 1000

// Validate reports whether instance satisfies s.
// If it does, this returns nil.
// If it does not, this returns a [*types.ValidationError]
// describing every violation.
// A non-nil error with a different type indicates some error
// during validation processing.
//
// The instance is normally a value decoded by [jsonvalue.Decode].
// Other Go values are converted using their json tags.
func Validate(s *types.Schema, instance any, opts *types.ValidateOpts) error {
	v, err := jsonvalue.Normalize(instance)
	if err != nil {
		return fmt.Errorf("jsonschema: can't convert instance of type %T: %w", instance, err)
	}

	st := &state{
		formats: opts.FormatRegistry(),
		active:  make(map[activeKey]bool),
	}
	if opts != nil {
		st.skipFormat = opts.SkipFormat
	}

	ve := st.validate(s, v, jsonpointer.Root)
	if st.err != nil {
		return st.err
	}
	if ve != nil {
		return ve
	}
	return nil
}

// state is the state of one call to [Validate].
type state struct {
	formats    *format.Registry
	skipFormat bool

	// The (schema, instance location) pairs being evaluated.
	active map[activeKey]bool
	// Depth of evaluation. Used to avoid runaway recursion.
	depth int
	// An error that stopped validation.
	err error
}

type activeKey struct {
	node *types.Schema
	ptr  string
}

// validate checks the instance value at ptr against s.
// A pair already being evaluated succeeds,
// so that a cyclic reference terminates.
func (st *state) validate(s *types.Schema, instance any, ptr jsonpointer.Pointer) *types.ValidationError {
	if st.err != nil || s == nil {
		return nil
	}
	key := activeKey{node: s, ptr: ptr.String()}
	if st.active[key] {
		return nil
	}
	if st.depth >= maxDepth {
		st.err = errors.New("jsonschema: recursion while validating schema too deep")
		return nil
	}
	st.active[key] = true
	st.depth++
	defer func() {
		delete(st.active, key)
		st.depth--
	}()

	// Keywords next to "$ref" are ignored.
	if ref, ok := s.Ref(); ok {
		target := ref.Schema()
		if target == nil {
			st.err = fmt.Errorf("jsonschema: reference %q was never resolved", ref.URI)
			return nil
		}
		return st.validate(target, instance, ptr)
	}

	kind := jsonvalue.KindOf(instance).String()
	var errs []*types.ValidationError
	for _, part := range s.Parts {
		// Type-specific keywords only constrain values of that type.
		if it := part.Keyword.Family.InstanceType(); it != "" && it != kind {
			continue
		}
		st.validatePart(s, part, instance, ptr, &errs)
	}
	return validerr.Collect(s, ptr, errs)
}

// validatePart checks one keyword of s, adding any errors to errs.
func (st *state) validatePart(s *types.Schema, part types.Part, instance any, ptr jsonpointer.Pointer, errs *[]*types.ValidationError) {
	add := func(err *types.ValidationError) {
		validerr.AddError(errs, err)
	}

	switch v := part.Value.(type) {
	case types.PartBool:
		switch part.Keyword {
		case &types.BoolKeyword:
			if !v {
				add(validerr.New(s, ptr, "", "false schema always fails"))
			}
		case &types.UniqueItemsKeyword:
			// Numbers compare as written here, unlike in "enum":
			// [1, 1.0] is unique, [1.0, 1.00] is not.
			if v {
				add(validateUniqueItems(s, instance.([]any), ptr))
			}
		}

	case types.PartTypes:
		switch part.Keyword {
		case &types.TypeKeyword, &types.Draft3TypeKeyword:
			add(st.validateType(s, v, instance, ptr))
		case &types.DisallowKeyword:
			add(st.validateDisallow(s, v, instance, ptr))
		}

	case types.PartArray:
		if part.Keyword == &types.EnumKeyword {
			add(validateEnum(s, v, instance, ptr))
		}

	case types.PartAny:
		if part.Keyword == &types.ConstKeyword {
			add(validateConst(s, v, instance, ptr))
		}

	case types.PartSchemas:
		switch part.Keyword {
		case &types.AllOfKeyword:
			add(st.validateAllOf(s, part.Keyword.Name, v, instance, ptr))
		case &types.AnyOfKeyword:
			add(st.validateAnyOf(s, v, instance, ptr))
		case &types.OneOfKeyword:
			add(st.validateOneOf(s, v, instance, ptr))
		}

	case types.PartSchemaOrSchemas:
		if part.Keyword == &types.ExtendsKeyword {
			subs := v.Schemas
			if v.Schema != nil {
				subs = []*types.Schema{v.Schema}
			}
			add(st.validateAllOf(s, part.Keyword.Name, subs, instance, ptr))
		}

	case types.PartSchema:
		switch part.Keyword {
		case &types.NotKeyword:
			add(st.validateNot(s, v, instance, ptr))
		case &types.ContainsKeyword:
			add(st.validateContains(s, v, instance.([]any), ptr))
		case &types.AdditionalPropertiesKeyword:
			st.validateAdditionalProperties(s, v, instance, ptr, errs)
		case &types.PropertyNamesKeyword:
			st.validatePropertyNames(v, instance, ptr, errs)
		}

	case types.PartLimit:
		add(validateLimit(s, part.Keyword, v, instance, ptr))

	case types.PartNumber:
		add(validateMultipleOf(s, part.Keyword.Name, v, instance, ptr))

	case types.PartInt:
		switch part.Keyword {
		case &types.MinLengthKeyword, &types.MaxLengthKeyword:
			add(validateLength(s, part.Keyword, v, instance.(string), ptr))
		case &types.MinItemsKeyword, &types.MaxItemsKeyword:
			add(validateItemCount(s, part.Keyword, v, instance.([]any), ptr))
		case &types.MinPropertiesKeyword, &types.MaxPropertiesKeyword:
			add(validatePropertyCount(s, part.Keyword, v, instance, ptr))
		}

	case types.PartString:
		switch part.Keyword {
		case &types.PatternKeyword:
			add(st.validatePattern(s, v, instance.(string), ptr))
		case &types.FormatKeyword:
			add(st.validateFormat(s, v, instance.(string), ptr))
		}

	case types.PartStrings:
		if part.Keyword == &types.RequiredKeyword {
			validateRequired(s, v, instance, ptr, errs)
		}

	case types.PartItems:
		st.validateItems(s, v, instance.([]any), ptr, errs)

	case types.PartMapSchema:
		switch part.Keyword {
		case &types.PropertiesKeyword:
			st.validateProperties(s, v, instance, ptr, errs)
		case &types.PatternPropertiesKeyword:
			st.validatePatternProperties(v, instance, ptr, errs)
		}

	case types.PartDependencies:
		st.validateDependencies(s, v, instance, ptr, errs)
	}
}

// typeMatches reports whether instance has the simple type name.
func typeMatches(name string, instance any) bool {
	switch name {
	case "any":
		return true
	case "integer":
		return jsonvalue.KindOf(instance) == jsonvalue.KindNumber && jsonvalue.IsInteger(instance)
	}
	return jsonvalue.KindOf(instance).String() == name
}

// matchesTypeEntry reports whether instance matches one entry of
// "type" or "disallow". A draft 3 schema entry matches if the
// instance is valid against it.
func (st *state) matchesTypeEntry(e types.TypeEntry, instance any, ptr jsonpointer.Pointer) bool {
	if e.Schema != nil {
		return st.validate(e.Schema, instance, ptr) == nil
	}
	return typeMatches(e.Name, instance)
}

func (st *state) validateType(s *types.Schema, arg types.PartTypes, instance any, ptr jsonpointer.Pointer) *types.ValidationError {
	for _, e := range arg.Entries {
		if st.matchesTypeEntry(e, instance, ptr) {
			return nil
		}
	}
	found := jsonvalue.KindOf(instance).String()
	names := arg.Names()
	if len(arg.Entries) == 1 && len(names) == 1 {
		return validerr.New(s, ptr, "type", "expected type: %s, found: %s", names[0], found)
	}
	return validerr.New(s, ptr, "type", "expected type: one of %s, found: %s", strings.Join(names, ", "), found)
}

func (st *state) validateDisallow(s *types.Schema, arg types.PartTypes, instance any, ptr jsonpointer.Pointer) *types.ValidationError {
	for _, e := range arg.Entries {
		if st.matchesTypeEntry(e, instance, ptr) {
			return validerr.New(s, ptr, "disallow", "type %s is disallowed", jsonvalue.KindOf(instance))
		}
	}
	return nil
}

// validateEnum compares numbers by value, so that 24.3 matches 24.30.
// Compare [validateUniqueItems].
func validateEnum(s *types.Schema, arg types.PartArray, instance any, ptr jsonpointer.Pointer) *types.ValidationError {
	for _, e := range arg {
		if jsonvalue.Equal(instance, e) {
			return nil
		}
	}
	return validerr.New(s, ptr, "enum", "%s is not a valid enum value", display(instance))
}

// validateConst compares numbers by value, like validateEnum.
func validateConst(s *types.Schema, arg types.PartAny, instance any, ptr jsonpointer.Pointer) *types.ValidationError {
	if jsonvalue.Equal(instance, arg.V) {
		return nil
	}
	return validerr.New(s, ptr, "const", "%s does not match the const value %s", display(instance), display(arg.V))
}

// validateAllOf handles "allOf" and the draft 3 "extends".
// The causes are the failures of the subschemas, in order.
func (st *state) validateAllOf(s *types.Schema, keyword string, subs []*types.Schema, instance any, ptr jsonpointer.Pointer) *types.ValidationError {
	var causes []*types.ValidationError
	for _, sub := range subs {
		validerr.AddError(&causes, st.validate(sub, instance, ptr))
	}
	if len(causes) == 0 {
		return nil
	}
	return validerr.Wrap(s, ptr, keyword, causes, "only %d subschema matches out of %d", len(subs)-len(causes), len(subs))
}

// validateAnyOf reports the failure of every subschema
// if none of them match.
func (st *state) validateAnyOf(s *types.Schema, subs types.PartSchemas, instance any, ptr jsonpointer.Pointer) *types.ValidationError {
	var causes []*types.ValidationError
	for _, sub := range subs {
		err := st.validate(sub, instance, ptr)
		if err == nil {
			return nil
		}
		causes = append(causes, err)
	}
	return validerr.Wrap(s, ptr, "anyOf", causes, "no subschema matched out of the total %d subschemas", len(subs))
}

func (st *state) validateOneOf(s *types.Schema, subs types.PartSchemas, instance any, ptr jsonpointer.Pointer) *types.ValidationError {
	var causes []*types.ValidationError
	for _, sub := range subs {
		validerr.AddError(&causes, st.validate(sub, instance, ptr))
	}
	switch matched := len(subs) - len(causes); matched {
	case 1:
		return nil
	case 0:
		return validerr.Wrap(s, ptr, "oneOf", causes, "no subschema matched out of the total %d subschemas", len(subs))
	default:
		return validerr.Wrap(s, ptr, "oneOf", causes, "%d subschemas matched instead of one", matched)
	}
}

func (st *state) validateNot(s *types.Schema, arg types.PartSchema, instance any, ptr jsonpointer.Pointer) *types.ValidationError {
	if st.validate(arg.S, instance, ptr) != nil {
		return nil
	}
	return validerr.New(s, ptr, "not", "subject must not be valid against schema")
}

// validateLimit handles the four bound keywords.
// A [types.PartLimit] is exclusive for the draft 6 keywords
// and for a draft 3/4 bound with its boolean companion set.
func validateLimit(s *types.Schema, kw *types.Keyword, arg types.PartLimit, instance any, ptr jsonpointer.Pointer) *types.ValidationError {
	val, ok := jsonvalue.Rat(instance)
	if !ok {
		return nil
	}
	limit, ok := new(big.Rat).SetString(string(arg.Limit))
	if !ok {
		return nil
	}
	num := display(instance)
	c := val.Cmp(limit)

	switch kw {
	case &types.MinimumKeyword, &types.ExclusiveMinimumKeyword:
		if arg.Exclusive && c <= 0 {
			return validerr.New(s, ptr, kw.Name, "%s is not greater than %s", num, arg.Limit)
		}
		if c < 0 {
			return validerr.New(s, ptr, kw.Name, "%s is not greater or equal to %s", num, arg.Limit)
		}
	case &types.MaximumKeyword, &types.ExclusiveMaximumKeyword:
		if arg.Exclusive && c >= 0 {
			return validerr.New(s, ptr, kw.Name, "%s is not less than %s", num, arg.Limit)
		}
		if c > 0 {
			return validerr.New(s, ptr, kw.Name, "%s is not less or equal to %s", num, arg.Limit)
		}
	}
	return nil
}

// validateMultipleOf handles "multipleOf" and the draft 3 "divisibleBy".
// The division is exact, so 0.3 is a multiple of 0.1.
func validateMultipleOf(s *types.Schema, keyword string, arg types.PartNumber, instance any, ptr jsonpointer.Pointer) *types.ValidationError {
	val, ok := jsonvalue.Rat(instance)
	if !ok {
		return nil
	}
	div, ok := new(big.Rat).SetString(string(arg))
	if !ok || div.Sign() == 0 {
		return nil
	}
	if new(big.Rat).Quo(val, div).IsInt() {
		return nil
	}
	return validerr.New(s, ptr, keyword, "%s is not a multiple of %s", display(instance), string(arg))
}

// validateLength counts characters, not bytes.
func validateLength(s *types.Schema, kw *types.Keyword, arg types.PartInt, str string, ptr jsonpointer.Pointer) *types.ValidationError {
	n := int64(utf8.RuneCountInString(str))
	switch {
	case kw == &types.MinLengthKeyword && n < int64(arg):
		return validerr.New(s, ptr, kw.Name, "expected minLength: %d, actual: %d", int64(arg), n)
	case kw == &types.MaxLengthKeyword && n > int64(arg):
		return validerr.New(s, ptr, kw.Name, "expected maxLength: %d, actual: %d", int64(arg), n)
	}
	return nil
}

// validatePattern succeeds if the pattern matches anywhere in str.
func (st *state) validatePattern(s *types.Schema, arg types.PartString, str string, ptr jsonpointer.Pointer) *types.ValidationError {
	re, err := recache.Compile(string(arg))
	if err != nil {
		st.err = fmt.Errorf("jsonschema: %s: %w", s.Location.URI("pattern"), err)
		return nil
	}
	if re.MatchString(str) {
		return nil
	}
	return validerr.New(s, ptr, "pattern", "string [%s] does not match pattern %s", str, string(arg))
}

func (st *state) validateFormat(s *types.Schema, arg types.PartString, str string, ptr jsonpointer.Pointer) *types.ValidationError {
	if st.skipFormat {
		return nil
	}
	if err := st.formats.Check(string(arg), str); err != nil {
		return validerr.New(s, ptr, "format", "%s", err.Error())
	}
	return nil
}

// display returns the JSON text of v, for use in messages.
func display(v any) string {
	b, err := jsonvalue.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}
