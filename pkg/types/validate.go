// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package types

import (
	"errors"

	"github.com/altshiftab/legacyschema/pkg/format"
	"github.com/altshiftab/legacyschema/pkg/jsonpointer"
	"github.com/goccy/go-json"
)

// ValidateOpts describes validation options.
// The zero value is the default.
type ValidateOpts struct {
	// The checkers for the "format" keyword.
	// If nil, [format.Default] is used.
	// Formats with no registered checker always match.
	Formats *format.Registry

	// Whether to ignore the "format" keyword.
	SkipFormat bool
}

// FormatRegistry returns the registry to use for "format".
func (o *ValidateOpts) FormatRegistry() *format.Registry {
	if o == nil || o.Formats == nil {
		return format.Default()
	}
	return o.Formats
}

// ValidationError is returned by validation when an instance
// does not satisfy a schema. It is a tree: an error that
// aggregates other errors lists them in Causes.
//
// A ValidationError is built once by a validation call
// and is not modified afterward.
type ValidationError struct {
	// The schema node whose keyword was violated.
	ViolatedSchema *Schema
	// The location of the failing value within the instance.
	Pointer jsonpointer.Pointer
	// A description of the failure, without the pointer.
	Message string
	// The violated keyword, or "" for the false schema
	// and for an aggregate of several keywords of one node.
	Keyword string
	// The absolute URI of the violated keyword within the schema.
	SchemaLocation string
	// The errors this error aggregates, in schema order.
	Causes []*ValidationError
	// The values the message was formatted from.
	Model []any
}

// Error returns the message prefixed by the instance pointer,
// as in "#/rectangle/a: expected type: number, found: string".
func (e *ValidationError) Error() string {
	return e.Pointer.Fragment() + ": " + e.Message
}

// Unwrap returns the causes, so that [errors.As] can find
// a particular cause.
func (e *ValidationError) Unwrap() []error {
	if len(e.Causes) == 0 {
		return nil
	}
	errs := make([]error, len(e.Causes))
	for i, c := range e.Causes {
		errs[i] = c
	}
	return errs
}

// AllMessages returns the messages of the leaf errors of the tree,
// depth first, in schema order.
func (e *ValidationError) AllMessages() []string {
	if len(e.Causes) == 0 {
		return []string{e.Error()}
	}
	var ret []string
	for _, c := range e.Causes {
		ret = append(ret, c.AllMessages()...)
	}
	return ret
}

// Violations returns the number of leaf errors of the tree.
func (e *ValidationError) Violations() int {
	if len(e.Causes) == 0 {
		return 1
	}
	n := 0
	for _, c := range e.Causes {
		n += c.Violations()
	}
	return n
}

// validationErrorJSON is the wire form of a [ValidationError].
type validationErrorJSON struct {
	Message            string             `json:"message"`
	Keyword            *string            `json:"keyword"`
	PointerToViolation *string            `json:"pointerToViolation"`
	SchemaLocation     string             `json:"schemaLocation,omitempty"`
	Causes             []*ValidationError `json:"causes"`
}

// MarshalJSON encodes e as an object with the members
// "message", "keyword", "pointerToViolation", "schemaLocation"
// and "causes". "keyword" is null for an aggregate error.
func (e *ValidationError) MarshalJSON() ([]byte, error) {
	ptr := e.Pointer.Fragment()
	w := validationErrorJSON{
		Message:            e.Error(),
		PointerToViolation: &ptr,
		SchemaLocation:     e.SchemaLocation,
		Causes:             e.Causes,
	}
	if e.Keyword != "" {
		kw := e.Keyword
		w.Keyword = &kw
	}
	if w.Causes == nil {
		w.Causes = []*ValidationError{}
	}
	return json.Marshal(w)
}

// IsValidationError reports whether err is or wraps a validation error.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
