package codegen

import (
	"math"
	"strconv"

	"github.com/teranos/kirgen/kir"
)

// maxExactInt bounds the integers that a float64 holds exactly
const maxExactInt = 1 << 53

// FormatNumber renders a JSON number. Integers up to 2^53 in magnitude print
// without a decimal point; everything else uses the shortest representation
// that parses back to the same float64.
func FormatNumber(v kir.Value) string {
	if v.IsInteger() && math.Abs(v.Num) <= maxExactInt {
		return strconv.FormatInt(int64(v.Num), 10)
	}
	return strconv.FormatFloat(v.Num, 'g', -1, 64)
}

// IsIdentifier reports whether s is an ASCII identifier that is not one of
// the given reserved words
func IsIdentifier(s string, reserved map[string]bool) bool {
	if s == "" || reserved[s] {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '_', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}
