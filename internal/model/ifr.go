package model

import (
	"math"
	"slices"
	"strconv"
	"strings"
)

// validIFRClasses is the fixed allow-list of IFR application codes.
var validIFRClasses = map[int]struct{}{
	111: {}, 112: {}, 113: {}, 114: {}, 115: {}, 116: {}, 117: {}, 118: {}, 119: {},
	160: {}, 170: {}, 190: {}, 200: {},
}

// IsValidIFRClass reports whether code belongs to the IFR allow-list.
func IsValidIFRClass(code int) bool {
	_, ok := validIFRClasses[code]
	return ok
}

// ValidIFRClasses returns the allow-list in ascending order.
func ValidIFRClasses() []int {
	out := make([]int, 0, len(validIFRClasses))
	for c := range validIFRClasses {
		out = append(out, c)
	}
	slices.Sort(out)
	return out
}

// UnifiedClass picks the single IFR class attributed to a profession.
// Level 2 wins over level 1 when both are valid; codes outside the
// allow-list are ignored.
func UnifiedClass(l1, l2 Optional[int]) Optional[int] {
	if c, ok := l2.Get(); ok && IsValidIFRClass(c) {
		return l2
	}
	if c, ok := l1.Get(); ok && IsValidIFRClass(c) {
		return l1
	}
	return None[int]()
}

// ParseFlag maps the localized yes/no encoding of the matching table.
// Only "si" (with or without accent) is true.
func ParseFlag(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "si", "sì":
		return true
	default:
		return false
	}
}

// ParseCode coerces a spreadsheet cell to a nullable integer code.
// Empty and non-numeric cells are absent; fractional values keep only
// their integer part.
func ParseCode(s string) Optional[int] {
	s = strings.TrimSpace(s)
	if s == "" {
		return None[int]()
	}
	if n, err := strconv.Atoi(s); err == nil {
		return Some(n)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return None[int]()
	}
	return Some(int(math.Trunc(f)))
}
