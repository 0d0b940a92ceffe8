// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package recache caches compiled regular expressions.
// Schemas tend to repeat the same few patterns,
// and a pattern is compiled once per process.
package recache

import (
	"regexp"

	"github.com/puzpuzpuz/xsync/v4"
)

var cache = xsync.NewMapOf[string, *regexp.Regexp]()

// Compile returns the compiled form of pattern.
// Failed compilations are not cached.
func Compile(pattern string) (*regexp.Regexp, error) {
	if re, ok := cache.Load(pattern); ok {
		return re, nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	cache.Store(pattern, re)
	return re, nil
}

// MustCompile is like Compile but panics if the pattern is invalid.
// Use it for patterns the loader has already checked.
func MustCompile(pattern string) *regexp.Regexp {
	re, err := Compile(pattern)
	if err != nil {
		panic("recache: " + err.Error())
	}
	return re
}
