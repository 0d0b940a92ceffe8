// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package format

import (
	"fmt"
	"net/netip"
	"net/url"
	"strings"
)

// checkURI requires an absolute URI.
func checkURI(s string) error {
	uri, err := url.Parse(s)
	if err != nil {
		return fmt.Errorf("%q is not a valid URI: %v", s, err)
	}
	if !uri.IsAbs() {
		return fmt.Errorf("%q is not an absolute URI", s)
	}
	if !isPlausibleURI(uri) {
		return fmt.Errorf("%q is not a valid URI", s)
	}
	return nil
}

// checkURIReference requires a URI, which may be relative.
func checkURIReference(s string) error {
	// Avoid parsing what looks like a UNC path as a relative URI.
	if strings.HasPrefix(s, `\\`) {
		return fmt.Errorf(`%q starts with \\`, s)
	}
	uri, err := url.Parse(s)
	if err != nil {
		return fmt.Errorf("%q is not a valid URI reference: %v", s, err)
	}
	if !isPlausibleURI(uri) {
		return fmt.Errorf("%q is not a valid URI reference", s)
	}
	return nil
}

// isPlausibleURI applies the checks that url.Parse leaves out.
func isPlausibleURI(uri *url.URL) bool {
	// An IPv6 address should be in square brackets;
	// otherwise the colons can confuse the parse.
	if addr, err := netip.ParseAddr(uri.Host); err == nil && addr.Is6() {
		return false
	}
	if strings.Contains(uri.Fragment, `\`) {
		return false
	}
	for i := range len(uri.RawPath) {
		c := uri.RawPath[i]
		if ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9') {
			continue
		}
		switch c {
		case '-', '_', '.', '~', '@', '&', '=', '+', '$', '/', ';', ',', '(', ')', '#', '%', ':':
			continue
		default:
			return false
		}
	}
	return true
}

// checkURITemplate requires a RFC6570 URI template:
// literals with balanced, non-nested expressions.
func checkURITemplate(s string) error {
	for {
		open := strings.IndexAny(s, "{}")
		if open < 0 {
			return nil
		}
		if s[open] == '}' {
			return fmt.Errorf("unmatched '}' in URI template")
		}
		s = s[open+1:]
		end := strings.IndexAny(s, "{}")
		if end < 0 || s[end] == '{' {
			return fmt.Errorf("unterminated expression in URI template")
		}
		expr := strings.TrimLeft(s[:end], "+#./;?&=,!@|")
		if expr == "" {
			return fmt.Errorf("empty expression in URI template")
		}
		for v := range strings.SplitSeq(expr, ",") {
			v = strings.TrimSuffix(v, "*")
			if name, _, ok := strings.Cut(v, ":"); ok {
				v = name
			}
			if v == "" || strings.ContainsAny(v, " \"'<>\\^`|") {
				return fmt.Errorf("invalid variable %q in URI template", v)
			}
		}
		s = s[end+1:]
	}
}
