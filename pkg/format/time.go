// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package format

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// dateLen is the length of a RFC3339 full-date.
const dateLen = len("2006-01-02")

// checkDateTime requires a RFC3339 date-time.
func checkDateTime(s string) error {
	// date-time = full-date "T" full-time
	if len(s) <= dateLen || (s[dateLen] != 'T' && s[dateLen] != 't') {
		return fmt.Errorf("%q is not a valid date-time", s)
	}
	if checkDate(s[:dateLen]) != nil || !isValidTime(s[dateLen+1:], true) {
		return fmt.Errorf("%q is not a valid date-time", s)
	}
	return nil
}

// checkDate requires a RFC3339 full-date, YYYY-MM-DD.
func checkDate(s string) error {
	if len(s) != dateLen || s[4] != '-' || s[7] != '-' {
		return fmt.Errorf("%q is not a valid date", s)
	}
	year, err1 := atoi(s[:4])
	month, err2 := atoi(s[5:7])
	mday, err3 := atoi(s[8:])
	if err1 != nil || err2 != nil || err3 != nil || month < 1 || month > 12 || mday < 1 {
		return fmt.Errorf("%q is not a valid date", s)
	}
	// time.Date normalizes out-of-range days, such as February 30.
	if _, m, d := time.Date(year, time.Month(month), mday, 0, 0, 0, 0, time.UTC).Date(); m != time.Month(month) || d != mday {
		return fmt.Errorf("%q is not a valid date", s)
	}
	return nil
}

// checkTime requires a time of day, hh:mm:ss, as in draft 3.
// A fraction and an offset are permitted.
func checkTime(s string) error {
	if !isValidTime(s, false) {
		return fmt.Errorf("%q is not a valid time", s)
	}
	return nil
}

// checkUTCMillisec requires a number of milliseconds.
// The draft 3 format applies to numbers; a string is accepted
// if it is a decimal number.
func checkUTCMillisec(s string) error {
	if _, err := strconv.ParseFloat(s, 64); err != nil {
		return fmt.Errorf("%q is not a valid utc-millisec", s)
	}
	return nil
}

// isValidTime reports whether s is hh:mm:ss with an optional
// fraction followed by an offset. The offset is optional unless
// needOffset is set.
func isValidTime(s string, needOffset bool) bool {
	// partial-time   = time-hour ":" time-minute ":" time-second [time-secfrac]
	// time-offset    = "Z" / ("+" / "-") time-hour ":" time-minute
	if len(s) < 8 || s[2] != ':' || s[5] != ':' {
		return false
	}
	hour, err1 := atoi(s[:2])
	minute, err2 := atoi(s[3:5])
	second, err3 := atoi(s[6:8])
	if err1 != nil || err2 != nil || err3 != nil || hour > 23 || minute > 59 || second > 60 {
		return false
	}

	s = s[8:]
	if rest, ok := strings.CutPrefix(s, "."); ok {
		n := len(rest) - len(strings.TrimLeft(rest, "0123456789"))
		if n == 0 {
			return false
		}
		s = rest[n:]
	}

	offset := 0
	switch {
	case s == "":
		if needOffset {
			return false
		}
	case s == "Z" || s == "z":
	case len(s) == 6 && (s[0] == '+' || s[0] == '-') && s[3] == ':':
		oh, err1 := atoi(s[1:3])
		om, err2 := atoi(s[4:])
		if err1 != nil || err2 != nil || oh > 23 || om > 59 {
			return false
		}
		offset = oh*60 + om
		if s[0] == '+' {
			offset = -offset
		}
	default:
		return false
	}

	if second == 60 {
		// A leap second is only valid at 23:59:60 UTC.
		utc := ((hour*60+minute+offset)%(24*60) + 24*60) % (24 * 60)
		if utc != 23*60+59 {
			return false
		}
	}
	return true
}

// atoi parses a string of ASCII digits.
func atoi(s string) (int, error) {
	for i := range len(s) {
		if s[i] < '0' || s[i] > '9' {
			return 0, fmt.Errorf("bad digit %q", s[i])
		}
	}
	return strconv.Atoi(s)
}
