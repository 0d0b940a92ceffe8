// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package jsonvalue

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/goccy/go-json"
)

// Marshal returns the JSON encoding of v.
// Objects are written in member order and numbers in their lexical form.
func Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := Append(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Append writes the JSON encoding of v to buf.
func Append(buf *bytes.Buffer, v any) error {
	switch v := v.(type) {
	case nil:
		buf.WriteString("null")
	case bool:
		buf.WriteString(strconv.FormatBool(v))
	case json.Number:
		buf.WriteString(string(v))
	case string:
		AppendString(buf, v)
	case []any:
		buf.WriteByte('[')
		for i, e := range v {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := Append(buf, e); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case *Object, map[string]any:
		buf.WriteByte('{')
		first := true
		for name, mv := range Members(v) {
			if !first {
				buf.WriteByte(',')
			}
			first = false
			AppendString(buf, name)
			buf.WriteByte(':')
			if err := Append(buf, mv); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	default:
		if KindOf(v) == KindNumber {
			s, _ := Lexical(v)
			buf.WriteString(s)
			return nil
		}
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("jsonvalue: marshal %T: %w", v, err)
		}
		buf.Write(b)
	}
	return nil
}

// AppendString writes s to buf as a JSON string.
func AppendString(buf *bytes.Buffer, s string) {
	b, err := json.Marshal(s)
	if err != nil {
		// Marshaling a string can't fail.
		panic(err)
	}
	buf.Write(b)
}

// Normalize converts a Go value to the value model.
// A value that already belongs to it is returned unchanged.
// Anything else, such as a struct, is encoded using its json tags
// and decoded again.
func Normalize(v any) (any, error) {
	if isValue(v) {
		return v, nil
	}
	data, err := Marshal(v)
	if err != nil {
		return nil, err
	}
	return Decode(data)
}

// isValue reports whether v and everything in it belongs to the value model.
func isValue(v any) bool {
	switch KindOf(v) {
	case KindInvalid:
		return false
	case KindArray:
		for _, e := range v.([]any) {
			if !isValue(e) {
				return false
			}
		}
	case KindObject:
		for _, mv := range Members(v) {
			if !isValue(mv) {
				return false
			}
		}
	}
	return true
}
