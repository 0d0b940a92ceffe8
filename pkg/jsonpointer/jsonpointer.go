// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package jsonpointer implements RFC 6901 JSON pointers.
//
// A [Pointer] is an immutable sequence of unescaped segments.
// It converts to and from the string form ("/a/b/0") and the
// URI fragment form ("#/a/b/0").
package jsonpointer

import (
	"bytes"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/altshiftab/legacyschema/pkg/jsonvalue"
)

var (
	escaper   = strings.NewReplacer("~", "~0", "/", "~1")
	unescaper = strings.NewReplacer("~1", "/", "~0", "~")
)

// Pointer is a JSON pointer. The zero value refers to the root.
type Pointer struct {
	segs []string
}

// Root is the pointer to the whole document.
var Root = Pointer{}

// New returns a pointer made of the given unescaped segments.
func New(segs ...string) Pointer {
	if len(segs) == 0 {
		return Root
	}
	return Pointer{segs: append([]string(nil), segs...)}
}

// Parse parses a JSON pointer string such as "/a/b~1c/0".
// The empty string is the root pointer.
func Parse(s string) (Pointer, error) {
	if s == "" {
		return Root, nil
	}
	if s[0] != '/' {
		return Root, fmt.Errorf("jsonpointer: %q does not begin with '/'", s)
	}
	segs := strings.Split(s[1:], "/")
	for i, seg := range segs {
		if err := checkEscapes(seg); err != nil {
			return Root, fmt.Errorf("jsonpointer: %q: %w", s, err)
		}
		segs[i] = unescaper.Replace(seg)
	}
	return Pointer{segs: segs}, nil
}

// ParseFragment parses the URI fragment form of a JSON pointer.
// The leading '#' is optional. The fragment is percent-decoded
// before it is parsed.
func ParseFragment(frag string) (Pointer, error) {
	frag = strings.TrimPrefix(frag, "#")
	s, err := url.PathUnescape(frag)
	if err != nil {
		return Root, fmt.Errorf("jsonpointer: fragment %q: %w", frag, err)
	}
	return Parse(s)
}

// checkEscapes reports an error if a '~' in seg is not followed by '0' or '1'.
func checkEscapes(seg string) error {
	for i := 0; i < len(seg); i++ {
		if seg[i] != '~' {
			continue
		}
		if i+1 >= len(seg) || (seg[i+1] != '0' && seg[i+1] != '1') {
			return fmt.Errorf("invalid escape at offset %d", i)
		}
		i++
	}
	return nil
}

// Child returns p extended by one segment. p is not modified.
func (p Pointer) Child(seg string) Pointer {
	segs := make([]string, len(p.segs)+1)
	copy(segs, p.segs)
	segs[len(p.segs)] = seg
	return Pointer{segs: segs}
}

// Index returns p extended by an array index.
func (p Pointer) Index(i int) Pointer {
	return p.Child(strconv.Itoa(i))
}

// Append returns p extended by all of q's segments.
func (p Pointer) Append(segs ...string) Pointer {
	if len(segs) == 0 {
		return p
	}
	out := make([]string, 0, len(p.segs)+len(segs))
	out = append(out, p.segs...)
	out = append(out, segs...)
	return Pointer{segs: out}
}

// Segments returns a copy of the unescaped segments.
func (p Pointer) Segments() []string {
	return append([]string(nil), p.segs...)
}

// Len returns the number of segments.
func (p Pointer) Len() int {
	return len(p.segs)
}

// IsRoot reports whether p refers to the whole document.
func (p Pointer) IsRoot() bool {
	return len(p.segs) == 0
}

// Last returns the final segment, or "" for the root.
func (p Pointer) Last() string {
	if len(p.segs) == 0 {
		return ""
	}
	return p.segs[len(p.segs)-1]
}

// Parent returns p without its final segment.
// The parent of the root is the root.
func (p Pointer) Parent() Pointer {
	if len(p.segs) <= 1 {
		return Root
	}
	return Pointer{segs: p.segs[:len(p.segs)-1:len(p.segs)-1]}
}

// HasPrefix reports whether q is a prefix of p.
func (p Pointer) HasPrefix(q Pointer) bool {
	if len(q.segs) > len(p.segs) {
		return false
	}
	for i, s := range q.segs {
		if p.segs[i] != s {
			return false
		}
	}
	return true
}

// Equal reports whether p and q have the same segments.
func (p Pointer) Equal(q Pointer) bool {
	return len(p.segs) == len(q.segs) && p.HasPrefix(q)
}

// String returns the RFC 6901 string form, such as "/a/b~1c/0".
func (p Pointer) String() string {
	var sb strings.Builder
	for _, seg := range p.segs {
		sb.WriteByte('/')
		sb.WriteString(escaper.Replace(seg))
	}
	return sb.String()
}

// Fragment returns the URI fragment form, such as "#/a/b~1c/0".
// Each segment is percent-encoded after '~' escaping.
func (p Pointer) Fragment() string {
	var sb strings.Builder
	sb.WriteByte('#')
	for _, seg := range p.segs {
		sb.WriteByte('/')
		sb.WriteString(url.PathEscape(escaper.Replace(seg)))
	}
	return sb.String()
}

// MarshalJSON encodes p as its fragment form.
func (p Pointer) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	jsonvalue.AppendString(&buf, p.Fragment())
	return buf.Bytes(), nil
}

// Deref returns the value within doc to which p refers.
func Deref(doc any, p Pointer) (any, error) {
	v := doc
	for i, seg := range p.segs {
		switch jsonvalue.KindOf(v) {
		case jsonvalue.KindObject:
			mv, ok := jsonvalue.Get(v, seg)
			if !ok {
				return nil, fmt.Errorf("when dereferencing pointer %q key %q not present", p, seg)
			}
			v = mv

		case jsonvalue.KindArray:
			arr := v.([]any)
			idx, err := arrayIndex(seg)
			if err != nil {
				return nil, fmt.Errorf("when dereferencing pointer %q: %w", p, err)
			}
			if idx >= len(arr) {
				return nil, fmt.Errorf("when dereferencing pointer %q array index %d out of range (length %d)", p, idx, len(arr))
			}
			v = arr[idx]

		default:
			return nil, fmt.Errorf("when dereferencing pointer %q segment %d: cannot index into %s", p, i, jsonvalue.KindOf(v))
		}
	}
	return v, nil
}

func arrayIndex(seg string) (int, error) {
	if seg == "-" {
		return 0, fmt.Errorf("the array segment '-' is not supported")
	}
	if len(seg) > 1 && seg[0] == '0' {
		return 0, fmt.Errorf("array index %q has leading zeroes", seg)
	}
	idx, err := strconv.Atoi(seg)
	if err != nil || idx < 0 {
		return 0, fmt.Errorf("got token %q, expected array index", seg)
	}
	return idx, nil
}
