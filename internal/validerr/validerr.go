// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package validerr builds the [types.ValidationError] trees
// returned by a failure to validate.
package validerr

import (
	"fmt"

	"github.com/altshiftab/legacyschema/pkg/jsonpointer"
	"github.com/altshiftab/legacyschema/pkg/types"
)

// New returns a leaf error for a keyword of node,
// for the instance value at ptr.
// The keyword is "" for the false schema.
// The message is formatted from args, which are also kept as the model.
func New(node *types.Schema, ptr jsonpointer.Pointer, keyword string, format string, args ...any) *types.ValidationError {
	loc := node.Location.AbsoluteURI()
	if keyword != "" {
		loc = node.Location.URI(keyword)
	}
	return &types.ValidationError{
		ViolatedSchema: node,
		Pointer:        ptr,
		Message:        fmt.Sprintf(format, args...),
		Keyword:        keyword,
		SchemaLocation: loc,
		Model:          args,
	}
}

// AddError adds err to errs. A nil err is ignored.
func AddError(errs *[]*types.ValidationError, err *types.ValidationError) {
	if err == nil {
		return
	}
	*errs = append(*errs, err)
}

// Collect returns the result of validating the instance value at ptr
// against node, given the errors of the node's keywords.
// With no errors it returns nil. A single error is returned as is.
// Several errors are wrapped in an aggregate at the node's location.
func Collect(node *types.Schema, ptr jsonpointer.Pointer, errs []*types.ValidationError) *types.ValidationError {
	switch len(errs) {
	case 0:
		return nil
	case 1:
		return errs[0]
	}
	n := count(errs)
	return &types.ValidationError{
		ViolatedSchema: node,
		Pointer:        ptr,
		Message:        fmt.Sprintf("%d schema violations found", n),
		SchemaLocation: node.Location.AbsoluteURI(),
		Causes:         errs,
		Model:          []any{n},
	}
}

// Wrap returns an error for a keyword of node that always holds
// causes, even a single one, such as the error of a combinator.
func Wrap(node *types.Schema, ptr jsonpointer.Pointer, keyword string, causes []*types.ValidationError, format string, args ...any) *types.ValidationError {
	ve := New(node, ptr, keyword, format, args...)
	ve.Causes = causes
	return ve
}

// count returns the number of leaf errors in errs.
func count(errs []*types.ValidationError) int {
	n := 0
	for _, e := range errs {
		n += e.Violations()
	}
	return n
}
