package protocol

import (
	"strconv"
	"strings"
)

// The extractors implement a small fixed grammar: find the keyword, skip
// filler until the first digit or leading sign, then consume a greedy
// run of digits (plus dots for the float variant) and parse the result.
// Downstream state transitions depend on these exact rules, so they are
// deliberately not regexes: a leading sign is only accepted as the very
// first captured character, the run stops at the first non-matching
// byte, and no thousands separators or exponents are recognized.

// IntAfter returns the first integer literal following key in src.
// The second return is false when the keyword is absent, no digit is
// ever found, or the captured run fails to parse (e.g. a bare sign).
func IntAfter(src, key string) (int, bool) {
	idx := strings.Index(src, key)
	if idx < 0 {
		return 0, false
	}
	rest := src[idx+len(key):]

	var b strings.Builder
	started := false
	for i := 0; i < len(rest); i++ {
		c := rest[i]
		if !started {
			if isDigit(c) || c == '+' || c == '-' {
				b.WriteByte(c)
				started = true
			}
			continue
		}
		if !isDigit(c) {
			break
		}
		b.WriteByte(c)
	}

	if b.Len() == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(b.String())
	if err != nil {
		return 0, false
	}
	return n, true
}

// FloatAfter is the floating-point variant of IntAfter. A dot may start
// the literal and any number of dots are consumed; a capture with more
// than one dot fails the final parse and counts as not found.
func FloatAfter(src, key string) (float64, bool) {
	idx := strings.Index(src, key)
	if idx < 0 {
		return 0, false
	}
	rest := src[idx+len(key):]

	var b strings.Builder
	started := false
	for i := 0; i < len(rest); i++ {
		c := rest[i]
		if !started {
			if isDigit(c) || c == '.' || c == '+' || c == '-' {
				b.WriteByte(c)
				started = true
			}
			continue
		}
		if !isDigit(c) && c != '.' {
			break
		}
		b.WriteByte(c)
	}

	if b.Len() == 0 {
		return 0, false
	}
	f, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
