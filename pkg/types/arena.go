// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package types

import "fmt"

// Handle identifies a slot in an [Arena].
type Handle int

// Arena holds the targets of the references of one load.
// A reference stores a [Handle] rather than a pointer to its target,
// so that a reference can be created before its target exists,
// and so that cyclic references need no patching of schema nodes.
//
// An Arena is filled by a single load and is read-only afterward.
type Arena struct {
	slots []*Schema
}

// Reserve allocates an empty slot.
func (a *Arena) Reserve() Handle {
	a.slots = append(a.slots, nil)
	return Handle(len(a.slots) - 1)
}

// Set fills the slot h. A slot may only be filled once.
func (a *Arena) Set(h Handle, s *Schema) error {
	if int(h) < 0 || int(h) >= len(a.slots) {
		return fmt.Errorf("jsonschema: arena handle %d out of range", h)
	}
	if a.slots[h] != nil {
		return fmt.Errorf("jsonschema: arena slot %d already filled", h)
	}
	if s == nil {
		return fmt.Errorf("jsonschema: arena slot %d filled with nil", h)
	}
	a.slots[h] = s
	return nil
}

// Node returns the schema in slot h, or nil if it is empty.
func (a *Arena) Node(h Handle) *Schema {
	if int(h) < 0 || int(h) >= len(a.slots) {
		return nil
	}
	return a.slots[h]
}

// Len returns the number of slots.
func (a *Arena) Len() int {
	return len(a.slots)
}

// Unfilled returns the handles of the empty slots.
func (a *Arena) Unfilled() []Handle {
	var ret []Handle
	for i, s := range a.slots {
		if s == nil {
			ret = append(ret, Handle(i))
		}
	}
	return ret
}
