// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package types

import (
	"iter"
	"strconv"

	"github.com/altshiftab/legacyschema/pkg/jsonpointer"
)

// Children returns an iterator over the immediate subschemas,
// in document order. References are not followed.
// The first iterator value is the pointer of the subschema
// relative to s, the second is the subschema itself.
func (s *Schema) Children() iter.Seq2[jsonpointer.Pointer, *Schema] {
	return func(yield func(jsonpointer.Pointer, *Schema) bool) {
		for _, part := range s.Parts {
			if part.Keyword.Generated {
				continue
			}
			name := part.Keyword.Name

			switch v := part.Value.(type) {
			case PartSchema:
				if !yield(jsonpointer.New(name), v.S) {
					return
				}

			case PartSchemas:
				for i, sub := range v {
					if !yield(jsonpointer.New(name, strconv.Itoa(i)), sub) {
						return
					}
				}

			case PartSchemaOrSchemas:
				if v.Schema != nil {
					if !yield(jsonpointer.New(name), v.Schema) {
						return
					}
				}
				for i, sub := range v.Schemas {
					if !yield(jsonpointer.New(name, strconv.Itoa(i)), sub) {
						return
					}
				}

			case PartTypes:
				for i, e := range v.Entries {
					if e.Schema == nil {
						continue
					}
					p := jsonpointer.New(name, strconv.Itoa(i))
					if v.Single {
						p = jsonpointer.New(name)
					}
					if !yield(p, e.Schema) {
						return
					}
				}

			case PartMapSchema:
				for pair := v.M.Oldest(); pair != nil; pair = pair.Next() {
					if !yield(jsonpointer.New(name, pair.Key), pair.Value) {
						return
					}
				}

			case PartItems:
				if v.All != nil {
					if !yield(jsonpointer.New(name), v.All) {
						return
					}
				}
				for i, sub := range v.Tuple {
					if !yield(jsonpointer.New(name, strconv.Itoa(i)), sub) {
						return
					}
				}
				if v.Additional != nil {
					if !yield(jsonpointer.New(AdditionalItemsKeyword.Name), v.Additional) {
						return
					}
				}

			case PartDependencies:
				for pair := v.M.Oldest(); pair != nil; pair = pair.Next() {
					if pair.Value.Schema == nil {
						continue
					}
					if !yield(jsonpointer.New(name, pair.Key), pair.Value.Schema) {
						return
					}
				}
			}
		}
	}
}

// Refs returns an iterator over the "$ref" values of s itself.
func (s *Schema) Refs() iter.Seq[PartRef] {
	return func(yield func(PartRef) bool) {
		for _, part := range s.Parts {
			if r, ok := part.Value.(PartRef); ok {
				if !yield(r) {
					return
				}
			}
		}
	}
}

// Walk calls fn for s and every schema below it, depth first.
// References are not followed, and a node reachable by more
// than one path is visited once. Walk stops if fn returns false.
func (s *Schema) Walk(fn func(*Schema) bool) {
	seen := make(map[*Schema]bool)
	var walk func(*Schema) bool
	walk = func(n *Schema) bool {
		if n == nil || seen[n] {
			return true
		}
		seen[n] = true
		if !fn(n) {
			return false
		}
		for _, c := range n.Children() {
			if !walk(c) {
				return false
			}
		}
		return true
	}
	walk(s)
}
