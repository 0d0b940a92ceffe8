// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package format

import (
	"fmt"
	"regexp/syntax"

	"github.com/altshiftab/legacyschema/pkg/jsonpointer"
)

// checkJSONPointer requires a RFC6901 JSON pointer.
func checkJSONPointer(s string) error {
	if _, err := jsonpointer.Parse(s); err != nil {
		return fmt.Errorf("%q is not a valid JSON pointer", s)
	}
	return nil
}

// checkRegex requires a regexp that the "pattern" keyword can use.
func checkRegex(s string) error {
	if _, err := syntax.Parse(s, syntax.Perl); err != nil {
		return fmt.Errorf("%q is not a valid regexp (note that only Go style regexps are supported)", s)
	}
	return nil
}

// checkUUID requires a RFC4122 UUID in its hyphenated form.
func checkUUID(s string) error {
	const layout = "xxxxxxxx-xxxx-xxxx-xxxx-xxxxxxxxxxxx"
	if len(s) != len(layout) {
		return fmt.Errorf("%q is not a valid UUID", s)
	}
	for i := range len(layout) {
		c := s[i]
		if layout[i] == '-' {
			if c != '-' {
				return fmt.Errorf("%q is not a valid UUID", s)
			}
			continue
		}
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return fmt.Errorf("%q is not a valid UUID", s)
		}
	}
	return nil
}
