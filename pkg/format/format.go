// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package format defines checkers for the "format" keyword.
//
// A [Registry] maps format names to checkers. Formats with no
// registered checker always match, as the drafts permit.
// [Default] holds the built-in checkers.
package format

import (
	"fmt"
	"sort"
	"sync"

	"github.com/puzpuzpuz/xsync/v4"
)

// Checker reports whether s is valid for a format.
// It returns nil if s is valid, or an error describing the problem.
type Checker func(s string) error

// Registry is a set of named format checkers.
// It is safe for concurrent use.
type Registry struct {
	checkers *xsync.MapOf[string, Checker]
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{checkers: xsync.NewMapOf[string, Checker]()}
}

// Register adds a checker for the named format,
// replacing any existing checker.
func (r *Registry) Register(name string, c Checker) {
	if c == nil {
		panic(fmt.Sprintf("format: nil checker for %q", name))
	}
	r.checkers.Store(name, c)
}

// Unregister removes the checker for the named format.
func (r *Registry) Unregister(name string) {
	r.checkers.Delete(name)
}

// Lookup returns the checker for the named format.
func (r *Registry) Lookup(name string) (Checker, bool) {
	return r.checkers.Load(name)
}

// Check checks s against the named format.
// An unknown format always matches.
func (r *Registry) Check(name, s string) error {
	c, ok := r.Lookup(name)
	if !ok {
		return nil
	}
	return c(s)
}

// Names returns the registered format names, sorted.
func (r *Registry) Names() []string {
	var names []string
	r.checkers.Range(func(name string, _ Checker) bool {
		names = append(names, name)
		return true
	})
	sort.Strings(names)
	return names
}

// Clone returns a copy of r that can be changed independently.
func (r *Registry) Clone() *Registry {
	ret := NewRegistry()
	r.checkers.Range(func(name string, c Checker) bool {
		ret.checkers.Store(name, c)
		return true
	})
	return ret
}

// Default returns the registry of built-in checkers.
// Changes to it affect every validation that uses it;
// use [Registry.Clone] to customize.
var Default = sync.OnceValue(func() *Registry {
	r := NewRegistry()
	r.Register("date", checkDate)
	r.Register("date-time", checkDateTime)
	r.Register("time", checkTime)
	r.Register("utc-millisec", checkUTCMillisec)
	r.Register("email", checkEmail)
	r.Register("hostname", checkHostname)
	r.Register("host-name", checkHostname)
	r.Register("ipv4", checkIPv4)
	r.Register("ip-address", checkIPv4)
	r.Register("ipv6", checkIPv6)
	r.Register("uri", checkURI)
	r.Register("uri-reference", checkURIReference)
	r.Register("uri-template", checkURITemplate)
	r.Register("json-pointer", checkJSONPointer)
	r.Register("regex", checkRegex)
	r.Register("uuid", checkUUID)
	return r
})
