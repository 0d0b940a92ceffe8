// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package types

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/altshiftab/legacyschema/pkg/jsonpointer"
)

// Location is where a schema node was found.
// It is computed once, when the node is loaded.
type Location struct {
	// Document is the URI of the document holding the node,
	// without a fragment. It may be empty for documents
	// loaded without a URI.
	Document *url.URL
	// Scope is the resolution scope: the nearest enclosing "id"
	// or "$id", or Document if there is none.
	Scope *url.URL
	// Path is the pointer to the node from Scope.
	Path jsonpointer.Pointer
	// DocPath is the pointer to the node from the document root.
	// Unlike Path it is not reset by "id".
	DocPath jsonpointer.Pointer
}

// NewLocation returns the location of the root of the document at uri.
// uri may be nil.
func NewLocation(uri *url.URL) Location {
	doc := withoutFragment(uri)
	return Location{
		Document: doc,
		Scope:    doc,
	}
}

// WithChildPath returns the location of a node below l.
// If newScope is not nil it becomes the resolution scope,
// and Path is made relative to it.
// l is not modified.
func (l Location) WithChildPath(newScope *url.URL, segs ...string) Location {
	ret := l
	ret.DocPath = l.DocPath.Append(segs...)
	if newScope != nil {
		ret.Scope = newScope
		ret.Path = jsonpointer.New(segs...)
	} else {
		ret.Path = l.Path.Append(segs...)
	}
	return ret
}

// WithScope returns l re-anchored to a new resolution scope,
// as for an "id" keyword found in the node at l.
func (l Location) WithScope(scope *url.URL) Location {
	return l.WithChildPath(scope)
}

// anonymous stands in for the URI of a document loaded without one,
// so that relative identifiers and references in it resolve alike.
var anonymous = &url.URL{Scheme: "jsonschema-anonymous", Host: "document", Path: "/"}

// Resolve resolves a reference against the resolution scope.
// If the scope is relative, as in a document loaded without a URI,
// the result is relative to that document.
func (l Location) Resolve(ref string) (*url.URL, error) {
	u, err := url.Parse(ref)
	if err != nil {
		return nil, err
	}
	if l.Scope != nil && l.Scope.IsAbs() {
		return l.Scope.ResolveReference(u), nil
	}
	base := anonymous
	if l.Scope != nil {
		base = anonymous.ResolveReference(l.Scope)
	}
	r := base.ResolveReference(u)
	if r.Scheme != anonymous.Scheme || r.Host != anonymous.Host {
		return r, nil
	}
	r.Scheme, r.Host = "", ""
	r.Path = strings.TrimPrefix(r.Path, "/")
	r.RawPath = ""
	return r, nil
}

// AbsoluteURI returns the resolution scope with the path appended
// as a fragment. If the scope itself has a fragment, as from a
// draft 4 "id": "#name", a node below it is identified by its
// document path instead.
func (l Location) AbsoluteURI() string {
	return l.URI()
}

// URI is like AbsoluteURI, but with extra path segments appended.
// It is used to identify a keyword within a node.
func (l Location) URI(segs ...string) string {
	if l.Scope != nil && l.Scope.Fragment != "" {
		if l.Path.IsRoot() && len(segs) == 0 {
			return l.Scope.String()
		}
		return join(l.Document, l.DocPath.Append(segs...))
	}
	return join(l.Scope, l.Path.Append(segs...))
}

// CanonicalURI returns the document URI with the document path
// as a fragment. It is unique for every node of a load.
func (l Location) CanonicalURI() string {
	return join(l.Document, l.DocPath)
}

// Pointer returns the document path in fragment form, as "#/a/b".
func (l Location) Pointer() string {
	return l.DocPath.Fragment()
}

// Errorf returns a [*SchemaError] at l.
func (l Location) Errorf(keyword string, format string, args ...any) *SchemaError {
	return &SchemaError{
		Location: l,
		Keyword:  keyword,
		Message:  fmt.Sprintf(format, args...),
	}
}

// join returns base with p as its fragment.
func join(base *url.URL, p jsonpointer.Pointer) string {
	if base == nil {
		return p.Fragment()
	}
	u := *base
	u.Fragment = ""
	u.RawFragment = ""
	return u.String() + p.Fragment()
}

func withoutFragment(u *url.URL) *url.URL {
	if u == nil {
		return nil
	}
	ret := *u
	ret.Fragment = ""
	ret.RawFragment = ""
	return &ret
}
