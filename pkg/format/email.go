// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package format

import (
	"fmt"
	"net/mail"
	"strings"
)

// checkEmail requires a RFC5321 mailbox without a display name.
// The syntax is checked by net/mail, which is likely to agree
// with what users expect.
func checkEmail(s string) error {
	// RFC5321 permits IPv6 literals as "IPv6:literal" but net/mail
	// doesn't parse that.
	addr, err := mail.ParseAddress(strings.Replace(s, "[IPv6:", "[", 1))
	if err != nil || addr.Name != "" || addr.Address == "" {
		return fmt.Errorf("%q is not a valid email address", s)
	}

	// Internationalized domains are not permitted.
	if idx := strings.LastIndex(addr.Address, "@"); idx >= 0 {
		domain := addr.Address[idx+1:]
		if domain == "" || (domain[0] != '[' && !isNonIDNDomain(domain)) {
			return fmt.Errorf("%q is not a valid email address", s)
		}
	}
	return nil
}

// isNonIDNDomain reports whether s might be a non-internationalized
// domain name.
func isNonIDNDomain(s string) bool {
	for i := range len(s) {
		c := s[i]
		switch {
		case c >= 'A' && c <= 'Z':
		case c >= 'a' && c <= 'z':
		case c >= '0' && c <= '9':
		case c == '.', c == '-':
		default:
			return false
		}
	}
	return true
}
