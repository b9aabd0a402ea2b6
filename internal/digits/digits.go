// Package digits implements the digit-sum job run by the digitsum command:
// every whitespace separated segment of the input is a string of decimal
// digits, and the result is the sum of all digits of all segments.
package digits

import (
	"context"
	"fmt"
	"strings"
)

// SampleData is the input used when none is given.
const SampleData = "124 5 4 354325 3587 49 357 77 68 93275  9315 84572 93457 943257 943 2852 947 6827 657 9657638 78"

// DigitError reports a rune that is not a decimal digit.
type DigitError struct {
	Segment string
	Rune    rune
	Offset  int
}

func (e *DigitError) Error() string {
	return fmt.Sprintf("digits: %q at offset %d of segment %q is not a digit", e.Rune, e.Offset, e.Segment)
}

// Segments splits data on whitespace. Runs of whitespace do not produce
// empty segments.
func Segments(data string) []string {
	return strings.Fields(data)
}

// Sum returns the sum of the decimal digits of s.
func Sum(s string) (uint64, error) {
	var total uint64
	for i, r := range s {
		if r < '0' || r > '9' {
			return 0, &DigitError{Segment: s, Rune: r, Offset: i}
		}
		total += uint64(r - '0')
	}
	return total, nil
}

// SumSegments is a mapreduce.TransformFunc summing the digits of every
// segment of a chunk. It stops early if ctx is done.
func SumSegments(ctx context.Context, segments []string) (uint64, error) {
	var total uint64
	for _, seg := range segments {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		n, err := Sum(seg)
		if err != nil {
			return 0, err
		}
		total += n
	}
	return total, nil
}

// Add is the reduce function of the job.
func Add(acc, v uint64) uint64 {
	return acc + v
}
