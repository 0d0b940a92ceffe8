// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package jsonvalue

import (
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// Rat returns the exact rational value of a number.
// The bool result is false if v is not a finite number.
func Rat(v any) (*big.Rat, bool) {
	var s string
	switch v := v.(type) {
	case json.Number:
		s = string(v)
	case float64:
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return nil, false
		}
		s = strconv.FormatFloat(v, 'g', -1, 64)
	case float32:
		return Rat(float64(v))
	case int:
		return new(big.Rat).SetInt64(int64(v)), true
	case int8:
		return new(big.Rat).SetInt64(int64(v)), true
	case int16:
		return new(big.Rat).SetInt64(int64(v)), true
	case int32:
		return new(big.Rat).SetInt64(int64(v)), true
	case int64:
		return new(big.Rat).SetInt64(v), true
	case uint:
		return new(big.Rat).SetUint64(uint64(v)), true
	case uint8:
		return new(big.Rat).SetUint64(uint64(v)), true
	case uint16:
		return new(big.Rat).SetUint64(uint64(v)), true
	case uint32:
		return new(big.Rat).SetUint64(uint64(v)), true
	case uint64:
		return new(big.Rat).SetUint64(v), true
	default:
		return nil, false
	}
	r, ok := new(big.Rat).SetString(s)
	return r, ok
}

// IsInteger reports whether v is a number with no fractional part.
// 1.0 is an integer; 1.5 is not.
func IsInteger(v any) bool {
	r, ok := Rat(v)
	return ok && r.IsInt()
}

// Lexical returns the textual form of a number as it appeared in the
// document. Numbers that were not decoded from text are formatted in
// their shortest form.
func Lexical(v any) (string, bool) {
	switch v := v.(type) {
	case json.Number:
		return string(v), true
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(v), 'g', -1, 32), true
	}
	if r, ok := Rat(v); ok {
		return r.RatString(), true
	}
	return "", false
}

// Equal reports whether a and b are the same JSON value.
// Numbers are compared by their numeric value, so 1, 1.0 and 1.00
// are equal. Object member order is not significant.
func Equal(a, b any) bool {
	return equal(a, b, numericallyEqual)
}

// LexicallyEqual is like [Equal], but a number written as an integer
// literal is never equal to one written with a fraction or an exponent.
// 1 and 1.0 are different; 1.0 and 1.00 are the same decimal.
func LexicallyEqual(a, b any) bool {
	return equal(a, b, lexicallyEqual)
}

func numericallyEqual(a, b any) bool {
	ra, oka := Rat(a)
	rb, okb := Rat(b)
	return oka && okb && ra.Cmp(rb) == 0
}

func lexicallyEqual(a, b any) bool {
	la, oka := Lexical(a)
	lb, okb := Lexical(b)
	return oka && okb && isDecimal(la) == isDecimal(lb) && numericallyEqual(a, b)
}

// isDecimal reports whether a number literal has a fraction or an exponent.
func isDecimal(lit string) bool {
	return strings.ContainsAny(lit, ".eE")
}

func equal(a, b any, numEq func(a, b any) bool) bool {
	ka, kb := KindOf(a), KindOf(b)
	if ka != kb {
		return false
	}

	switch ka {
	case KindNull:
		return true
	case KindBool:
		return a.(bool) == b.(bool)
	case KindNumber:
		return numEq(a, b)
	case KindString:
		return a.(string) == b.(string)
	case KindArray:
		aa, ba := a.([]any), b.([]any)
		if len(aa) != len(ba) {
			return false
		}
		for i := range aa {
			if !equal(aa[i], ba[i], numEq) {
				return false
			}
		}
		return true
	case KindObject:
		if Len(a) != Len(b) {
			return false
		}
		for name, av := range Members(a) {
			bv, ok := Get(b, name)
			if !ok || !equal(av, bv, numEq) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
