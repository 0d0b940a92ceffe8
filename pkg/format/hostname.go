// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package format

import (
	"fmt"
	"net/netip"
	"strings"
	"sync"

	"golang.org/x/net/idna"
)

// hostnameProfile returns the IDNA profile used to check
// the labels of a hostname.
var hostnameProfile = sync.OnceValue(func() *idna.Profile {
	return idna.New(idna.ValidateForRegistration())
})

// checkHostname requires a RFC1123 hostname.
// Non-ASCII names and underscores are rejected.
func checkHostname(s string) error {
	if s == "" || len(s) > 253 || strings.Contains(s, "_") {
		return fmt.Errorf("%q is not a valid hostname", s)
	}
	for label := range strings.SplitSeq(strings.TrimSuffix(s, "."), ".") {
		if label == "" || len(label) > 63 || label[0] == '-' || label[len(label)-1] == '-' {
			return fmt.Errorf("%q is not a valid hostname", s)
		}
		for i := range len(label) {
			if c := label[i]; !isLetterDigit(c) && c != '-' {
				return fmt.Errorf("%q is not a valid hostname", s)
			}
		}
	}
	if _, err := hostnameProfile().ToASCII(strings.TrimSuffix(s, ".")); err != nil {
		return fmt.Errorf("%q is not a valid hostname: %v", s, err)
	}
	return nil
}

func isLetterDigit(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9')
}

// checkIPv4 requires a dotted-quad IPv4 address.
func checkIPv4(s string) error {
	addr, err := netip.ParseAddr(s)
	if err != nil || !addr.Is4() {
		return fmt.Errorf("%q is not a valid IPv4 address", s)
	}
	return nil
}

// checkIPv6 requires an IPv6 address without a zone.
func checkIPv6(s string) error {
	addr, err := netip.ParseAddr(s)
	if err != nil || !addr.Is6() || addr.Zone() != "" {
		return fmt.Errorf("%q is not a valid IPv6 address", s)
	}
	return nil
}
