// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package schemacache is a simple in-process cache keyed by URI.
//
// A [Cache] is used by one load operation and is not safe for
// concurrent use. A [ConcurrentCache] holds process-wide values
// that never change once stored, such as the meta-schemas.
package schemacache

import (
	"sync"
)

// Cache maps URIs to values.
// The zero value is an empty cache.
type Cache[V any] struct {
	m     map[string]V
	order []string
}

// Load checks the cache for a URI.
func (c *Cache[V]) Load(uri string) (V, bool) {
	v, ok := c.m[uri]
	return v, ok
}

// Store stores a value in the cache.
// It returns the value to use, which is the existing one
// if the URI has already been cached.
func (c *Cache[V]) Store(uri string, v V) V {
	if old, ok := c.m[uri]; ok {
		return old
	}

	if c.m == nil {
		c.m = make(map[string]V)
	}

	c.m[uri] = v
	c.order = append(c.order, uri)
	return v
}

// Len returns the number of cached URIs.
func (c *Cache[V]) Len() int {
	return len(c.m)
}

// Keys returns the cached URIs in the order they were stored.
func (c *Cache[V]) Keys() []string {
	return append([]string(nil), c.order...)
}

// ConcurrentCache is a cache that permits concurrent access.
type ConcurrentCache[V any] struct {
	cache Cache[V]
	mu    sync.Mutex
}

// Load checks the cache for a URI.
func (cc *ConcurrentCache[V]) Load(uri string) (V, bool) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.cache.Load(uri)
}

// Store stores a value in the cache.
// It returns the value to use, which may differ
// if some other goroutine already cached it.
func (cc *ConcurrentCache[V]) Store(uri string, v V) V {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.cache.Store(uri, v)
}
