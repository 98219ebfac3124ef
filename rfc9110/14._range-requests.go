package rfc9110

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrUnsatisfiable is returned for a Range that selects no bytes of the representation,
// or that cannot be parsed.
var ErrUnsatisfiable = errors.New("range not satisfiable")

// Range is a resolved byte range, inclusive on both ends.
type Range struct {
	Start int64
	End   int64
}

// Length returns the number of bytes in the range.
func (r Range) Length() int64 {
	return r.End - r.Start + 1
}

// ContentRange returns the Content-Range field value for the range.
func (r Range) ContentRange(size int64) string {
	return fmt.Sprintf("bytes %d-%d/%d", r.Start, r.End, size)
}

// UnsatisfiedContentRange returns the Content-Range field value sent with a 416 response.
//
// §     For byte ranges, a sender SHOULD indicate the complete length of the
// §     representation from which the range has been extracted [...]
// §
// §    unsatisfied-range = "*/" complete-length
func UnsatisfiedContentRange(size int64) string {
	return fmt.Sprintf("bytes */%d", size)
}

// Full returns the range covering a whole representation.
func Full(size int64) Range {
	return Range{Start: 0, End: size - 1}
}

// §  14.1.2.  Byte Ranges
// §
// §     A byte range request can specify a single range of bytes or a set of
// §     ranges within a single representation.
// §
// §    ranges-specifier = range-unit "=" range-set
// §    range-set        = 1#range-spec
// §    range-spec       = int-range
// §                     / suffix-range
// §                     / other-range
// §
// §    int-range     = first-pos "-" [ last-pos ]
// §    first-pos     = 1*DIGIT
// §    last-pos      = 1*DIGIT
// §
// §    suffix-range  = "-" suffix-length
// §    suffix-length = 1*DIGIT
// §
// §     A client can limit the number of bytes requested without knowing the
// §     size of the selected representation.  If the last-pos value is
// §     absent [...] the byte range is interpreted as the remainder of the
// §     representation (i.e., the server replaces the value of last-pos with
// §     a value that is one less than the current length of the selected
// §     representation).
// §
// §     A client can request the last N bytes (N > 0) of the selected
// §     representation using a suffix-range.  If the selected representation
// §     is shorter than the specified suffix-length, the entire
// §     representation is used.

// ParseRange resolves a Range header value against a representation of the given size.
// Only the first range-spec of a range-set is used.
//
// Unlike the general rule, an explicit last-pos past the end of the representation
// is not clamped: ranges ending at or after size are unsatisfiable.
func ParseRange(header string, size int64) (Range, error) {
	unit, set, ok := strings.Cut(strings.TrimSpace(header), "=")
	if !ok || !strings.EqualFold(strings.TrimSpace(unit), "bytes") {
		return Range{}, ErrUnsatisfiable
	}
	spec, _, _ := strings.Cut(set, ",")
	first, last, ok := strings.Cut(strings.TrimSpace(spec), "-")
	if !ok {
		return Range{}, ErrUnsatisfiable
	}

	var r Range
	switch {
	case first == "" && last == "":
		return Range{}, ErrUnsatisfiable
	case first == "":
		// suffix-range
		n, err := parsePos(last)
		if err != nil || n == 0 {
			return Range{}, ErrUnsatisfiable
		}
		if n > size {
			n = size
		}
		r = Range{Start: size - n, End: size - 1}
	default:
		start, err := parsePos(first)
		if err != nil {
			return Range{}, ErrUnsatisfiable
		}
		end := size - 1
		if last != "" {
			if end, err = parsePos(last); err != nil {
				return Range{}, ErrUnsatisfiable
			}
		}
		r = Range{Start: start, End: end}
	}

	if r.Start > r.End || r.End >= size {
		return r, ErrUnsatisfiable
	}
	return r, nil
}

func parsePos(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.ContainsAny(s, "+-") {
		return 0, fmt.Errorf("invalid byte position %q", s)
	}
	return strconv.ParseInt(s, 10, 64)
}
