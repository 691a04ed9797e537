// Package numeric provides tolerant parsing for user-typed numeric fields.
package numeric

import (
	"math"
	"strconv"
	"strings"
)

// Parse converts an arbitrary input string to a finite number. Non-numeric or
// empty input yields 0. A valid numeric prefix is honored even when followed
// by garbage ("12.5abc" parses as 12.5). Parse never fails.
func Parse(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
		return f
	}
	prefix := numericPrefix(s)
	if prefix == "" {
		return 0
	}
	f, err := strconv.ParseFloat(prefix, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0
	}
	return f
}

// ParseInt parses like Parse and rounds to the nearest integer.
func ParseInt(s string) int {
	return int(math.Round(Parse(s)))
}

// numericPrefix returns the longest leading substring of s that still parses
// as a decimal number, or "".
func numericPrefix(s string) string {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	digits := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
		digits++
	}
	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			i++
			digits++
		}
	}
	if digits == 0 {
		return ""
	}
	// Optional exponent; only kept when complete.
	if j := i; j < len(s) && (s[j] == 'e' || s[j] == 'E') {
		j++
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		expDigits := 0
		for j < len(s) && s[j] >= '0' && s[j] <= '9' {
			j++
			expDigits++
		}
		if expDigits > 0 {
			i = j
		}
	}
	return s[:i]
}
