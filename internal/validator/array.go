// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package validator

import (
	"github.com/altshiftab/legacyschema/internal/validerr"
	"github.com/altshiftab/legacyschema/pkg/jsonpointer"
	"github.com/altshiftab/legacyschema/pkg/jsonvalue"
	"github.com/altshiftab/legacyschema/pkg/types"
)

// validateItems handles "items" along with "additionalItems".
// A single schema applies to every element. A list of schemas
// applies positionally, and "additionalItems" applies to the
// elements past the end of the list.
func (st *state) validateItems(s *types.Schema, arg types.PartItems, arr []any, ptr jsonpointer.Pointer, errs *[]*types.ValidationError) {
	if !arg.IsTuple {
		if arg.All == nil {
			return
		}
		for i, e := range arr {
			validerr.AddError(errs, st.validate(arg.All, e, ptr.Index(i)))
		}
		return
	}

	for i, sub := range arg.Tuple {
		if i >= len(arr) {
			break
		}
		validerr.AddError(errs, st.validate(sub, arr[i], ptr.Index(i)))
	}

	if arg.Additional == nil || len(arr) <= len(arg.Tuple) {
		return
	}
	if isBool, isTrue := arg.Additional.IsBoolSchema(); isBool {
		if !isTrue {
			validerr.AddError(errs, validerr.New(s, ptr, "additionalItems", "expected maximum item count: %d, found: %d", len(arg.Tuple), len(arr)))
		}
		return
	}
	for i := len(arg.Tuple); i < len(arr); i++ {
		validerr.AddError(errs, st.validate(arg.Additional, arr[i], ptr.Index(i)))
	}
}

func validateItemCount(s *types.Schema, kw *types.Keyword, arg types.PartInt, arr []any, ptr jsonpointer.Pointer) *types.ValidationError {
	n := int64(len(arr))
	switch {
	case kw == &types.MinItemsKeyword && n < int64(arg):
		return validerr.New(s, ptr, kw.Name, "expected minimum item count: %d, found: %d", int64(arg), n)
	case kw == &types.MaxItemsKeyword && n > int64(arg):
		return validerr.New(s, ptr, kw.Name, "expected maximum item count: %d, found: %d", int64(arg), n)
	}
	return nil
}

// validateUniqueItems compares numbers by how they are written:
// 1 and 1.0 are distinct elements, while 1.0 and 1.00 are duplicates.
// [validateEnum] compares by value instead.
func validateUniqueItems(s *types.Schema, arr []any, ptr jsonpointer.Pointer) *types.ValidationError {
	for i := range arr {
		for j := i + 1; j < len(arr); j++ {
			if jsonvalue.LexicallyEqual(arr[i], arr[j]) {
				return validerr.New(s, ptr, "uniqueItems", "array items are not unique")
			}
		}
	}
	return nil
}

func (st *state) validateContains(s *types.Schema, arg types.PartSchema, arr []any, ptr jsonpointer.Pointer) *types.ValidationError {
	for i, e := range arr {
		if st.validate(arg.S, e, ptr.Index(i)) == nil {
			return nil
		}
	}
	return validerr.New(s, ptr, "contains", "expected at least one array item to match 'contains' schema")
}
