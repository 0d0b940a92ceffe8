// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package jsonvalue is the generic JSON value model used by the schema
// loader and the validator.
//
// A decoded value is one of
//   - nil (JSON null)
//   - bool
//   - [json.Number], which keeps the lexical form of the number
//   - string
//   - []any
//   - *[Object], which keeps its members in document order
//
// Values built by Go code may also use float64, the Go integer types
// and map[string]any; every function in this package accepts those too.
package jsonvalue

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"iter"
	"maps"
	"slices"

	"github.com/goccy/go-json"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Object is a JSON object that remembers the order of its members.
type Object = orderedmap.OrderedMap[string, any]

// NewObject returns an empty [Object].
func NewObject() *Object {
	return orderedmap.New[string, any]()
}

// Kind is the kind of a JSON value.
type Kind int

const (
	KindInvalid Kind = iota
	KindNull
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

var kindNames = [...]string{
	KindInvalid: "invalid",
	KindNull:    "null",
	KindBool:    "boolean",
	KindNumber:  "number",
	KindString:  "string",
	KindArray:   "array",
	KindObject:  "object",
}

// String returns the JSON schema name of the kind.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// KindOf returns the kind of v.
func KindOf(v any) Kind {
	switch v := v.(type) {
	case nil:
		return KindNull
	case bool:
		return KindBool
	case json.Number, float64, float32, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64:
		return KindNumber
	case string:
		return KindString
	case []any:
		return KindArray
	case *Object:
		if v == nil {
			return KindNull
		}
		return KindObject
	case map[string]any:
		return KindObject
	default:
		return KindInvalid
	}
}

// Decode parses JSON text into a value.
// Objects keep their member order and numbers keep their lexical form.
func Decode(data []byte) (any, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, errors.New("jsonvalue: empty JSON document")
	}
	if err := checkSyntax(data); err != nil {
		return nil, fmt.Errorf("jsonvalue: invalid JSON document: %w", err)
	}
	return decodeRaw(data)
}

// checkSyntax reports whether data holds exactly one JSON value.
// Numbers are kept as text, so that numbers outside the float64
// range are accepted.
func checkSyntax(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return err
	}
	if err := dec.Decode(&v); err != io.EOF {
		return errors.New("data after top-level value")
	}
	return nil
}

// decodeRaw decodes one JSON value that is already known to be valid.
func decodeRaw(raw []byte) (any, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, errors.New("jsonvalue: unexpected end of JSON input")
	}

	switch raw[0] {
	case '{':
		members := orderedmap.New[string, json.RawMessage]()
		if err := members.UnmarshalJSON(raw); err != nil {
			return nil, fmt.Errorf("jsonvalue: decode object: %w", err)
		}
		obj := orderedmap.New[string, any]()
		for pair := members.Oldest(); pair != nil; pair = pair.Next() {
			v, err := decodeRaw(pair.Value)
			if err != nil {
				return nil, err
			}
			obj.Set(pair.Key, v)
		}
		return obj, nil

	case '[':
		var elems []json.RawMessage
		if err := json.Unmarshal(raw, &elems); err != nil {
			return nil, fmt.Errorf("jsonvalue: decode array: %w", err)
		}
		arr := make([]any, 0, len(elems))
		for _, e := range elems {
			v, err := decodeRaw(e)
			if err != nil {
				return nil, err
			}
			arr = append(arr, v)
		}
		return arr, nil

	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, fmt.Errorf("jsonvalue: decode string: %w", err)
		}
		return s, nil

	case 't':
		return true, nil

	case 'f':
		return false, nil

	case 'n':
		return nil, nil

	default:
		return json.Number(string(raw)), nil
	}
}

// Get returns the member of the object v with the given name.
// The bool result is false if v is not an object or has no such member.
func Get(v any, name string) (any, bool) {
	switch v := v.(type) {
	case *Object:
		if v == nil {
			return nil, false
		}
		return v.Get(name)
	case map[string]any:
		m, ok := v[name]
		return m, ok
	}
	return nil, false
}

// Len returns the number of members of an object or elements of an array.
// It returns 0 for other kinds.
func Len(v any) int {
	switch v := v.(type) {
	case *Object:
		if v == nil {
			return 0
		}
		return v.Len()
	case map[string]any:
		return len(v)
	case []any:
		return len(v)
	}
	return 0
}

// Members returns an iterator over the members of an object.
// Members of an [Object] are visited in document order;
// members of a map[string]any are visited in sorted order.
// The iterator is empty if v is not an object.
func Members(v any) iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		switch v := v.(type) {
		case *Object:
			if v == nil {
				return
			}
			for pair := v.Oldest(); pair != nil; pair = pair.Next() {
				if !yield(pair.Key, pair.Value) {
					return
				}
			}
		case map[string]any:
			for _, k := range slices.Sorted(maps.Keys(v)) {
				if !yield(k, v[k]) {
					return
				}
			}
		}
	}
}

// Names returns the member names of an object in iteration order.
func Names(v any) []string {
	var names []string
	for name := range Members(v) {
		names = append(names, name)
	}
	return names
}
