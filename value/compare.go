package value

import (
	"cmp"
	"math"
	"strings"
	"unicode"
	"unicode/utf8"
)

// kindRank orders kinds for Compare. Int and Float share a rank.
func kindRank(k Kind) int {
	switch k {
	case KindNull, KindInvalid:
		return 0
	case KindBool:
		return 1
	case KindInt, KindFloat:
		return 2
	case KindString:
		return 3
	case KindArray:
		return 4
	default:
		return 5
	}
}

// Compare returns -1, 0 or +1 according to the total order
// Null < Bool < numbers < String < Array. NaN sorts before every other number.
func Compare(a, b Value) int {
	ra, rb := kindRank(a.Kind), kindRank(b.Kind)
	if ra != rb {
		return cmp.Compare(ra, rb)
	}

	switch ra {
	case 0:
		return 0
	case 1:
		switch {
		case a.B == b.B:
			return 0
		case !a.B:
			return -1
		default:
			return 1
		}
	case 2:
		if a.Kind == KindInt && b.Kind == KindInt {
			return cmp.Compare(a.I64, b.I64)
		}
		fa, _ := a.Float64()
		fb, _ := b.Float64()
		return compareFloat(fa, fb)
	case 3:
		return strings.Compare(a.s.Value(), b.s.Value())
	default:
		n := min(len(a.A), len(b.A))
		for i := 0; i < n; i++ {
			if c := Compare(a.A[i], b.A[i]); c != 0 {
				return c
			}
		}
		return cmp.Compare(len(a.A), len(b.A))
	}
}

func compareFloat(a, b float64) int {
	an, bn := math.IsNaN(a), math.IsNaN(b)
	switch {
	case an && bn:
		return 0
	case an:
		return -1
	case bn:
		return 1
	}
	return cmp.Compare(a, b)
}

// Equal reports whether a and b are the same value. Numbers compare numerically.
func Equal(a, b Value) bool {
	return Compare(a, b) == 0
}

// EqualFold is Equal with case-insensitive string comparison.
func EqualFold(a, b Value) bool {
	if a.Kind == KindString && b.Kind == KindString {
		return strings.EqualFold(a.s.Value(), b.s.Value())
	}
	return Equal(a, b)
}

// Less reports whether a sorts before b.
func Less(a, b Value) bool {
	return Compare(a, b) < 0
}

// NaturalCompare compares strings treating runs of digits as numbers,
// so "Visit 2" sorts before "Visit 10". Letters compare case-insensitively first
// and fall back to a plain comparison to keep the order total.
func NaturalCompare(a, b string) int {
	ia, ib := 0, 0
	for ia < len(a) && ib < len(b) {
		ra, wa := utf8.DecodeRuneInString(a[ia:])
		rb, wb := utf8.DecodeRuneInString(b[ib:])

		if isDigit(ra) && isDigit(rb) {
			ja := digitRun(a, ia)
			jb := digitRun(b, ib)
			if c := compareDigits(a[ia:ja], b[ib:jb]); c != 0 {
				return c
			}
			ia, ib = ja, jb
			continue
		}

		la, lb := unicode.ToLower(ra), unicode.ToLower(rb)
		if la != lb {
			return cmp.Compare(la, lb)
		}
		ia += wa
		ib += wb
	}

	if c := cmp.Compare(len(a)-ia, len(b)-ib); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}

// NaturalCompareValues applies NaturalCompare to strings and Compare to everything else.
func NaturalCompareValues(a, b Value) int {
	if a.Kind == KindString && b.Kind == KindString {
		return NaturalCompare(a.s.Value(), b.s.Value())
	}
	return Compare(a, b)
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func digitRun(s string, i int) int {
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	return i
}

// compareDigits compares two runs of ASCII digits by numeric value.
func compareDigits(a, b string) int {
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")
	if c := cmp.Compare(len(a), len(b)); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}
