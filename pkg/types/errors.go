// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package types

import (
	"errors"
	"fmt"
)

// SchemaError reports a malformed schema document:
// a keyword value of the wrong type, a forbidden combination
// of keywords, or a reference that can't be resolved.
type SchemaError struct {
	// Where in the schema document the problem is.
	Location Location
	// The keyword involved, if any.
	Keyword string
	// A description of the problem.
	Message string
	// The underlying error, if any.
	Err error
}

// Error returns the message prefixed by the document pointer,
// as in "#/properties/a: ...".
func (e *SchemaError) Error() string {
	msg := e.Message
	if e.Err != nil {
		if msg == "" {
			msg = e.Err.Error()
		} else {
			msg += ": " + e.Err.Error()
		}
	}
	return e.Location.Pointer() + ": " + msg
}

// Unwrap returns the underlying error.
func (e *SchemaError) Unwrap() error {
	return e.Err
}

// Wrap returns a copy of e with err as the underlying error.
func (e *SchemaError) Wrap(err error) *SchemaError {
	ret := *e
	ret.Err = err
	return &ret
}

// ErrResolutionDepth is matched by [*ResolutionDepthError]
// when using [errors.Is].
var ErrResolutionDepth = errors.New("jsonschema: reference resolution too deep")

// ResolutionDepthError is returned when resolving a reference requires
// loading more nested references than the loader permits.
// It indicates a resolver fault rather than a malformed document.
type ResolutionDepthError struct {
	// The reference being resolved when the limit was reached.
	URI string
	// The limit.
	Depth int
}

// Error implements the error interface.
func (e *ResolutionDepthError) Error() string {
	return fmt.Sprintf("%v: exceeded %d nested references while resolving %q", ErrResolutionDepth, e.Depth, e.URI)
}

// Is reports whether target is [ErrResolutionDepth].
func (e *ResolutionDepthError) Is(target error) bool {
	return target == ErrResolutionDepth
}
