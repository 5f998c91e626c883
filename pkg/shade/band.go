// 8 Oct 2026

// Package shade turns scores into colour bands and cuts an alignment
// into pages for printing. It knows nothing about real colours. That
// is left to the painters.
package shade

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Band is one of five score bands, 0 is the worst.
type Band uint8

const NBand = 5

// Ranges are the lower bounds of bands 1 to 4. Band 0 is everything
// below Ranges[0] and band 4 has no upper bound.
type Ranges [NBand - 1]float32

// DefaultRanges are the borders if nobody sets anything else.
var DefaultRanges = Ranges{0.5, 0.7, 0.8, 0.9}

var ErrRanges = errors.New("need four ascending colour range values")

// Classify puts a score into a band. Each lower bound is inclusive.
func (r Ranges) Classify(score float32) Band {
	var b Band
	for _, t := range r {
		if score >= t {
			b++
		}
	}
	return b
}

// Validate checks the borders are finite and do not go down.
func (r Ranges) Validate() error {
	for i, t := range r {
		if math.IsNaN(float64(t)) || math.IsInf(float64(t), 0) {
			return fmt.Errorf("value %d is %v: %w", i, t, ErrRanges)
		}
		if i > 0 && t < r[i-1] {
			return fmt.Errorf("%v comes after %v: %w", t, r[i-1], ErrRanges)
		}
	}
	return nil
}

// ParseRanges reads ranges as typed in the shell, "0.3 0.45 0.6 0.88".
// Commas and brackets are allowed, so "[0.3, 0.45, 0.6, 0.88]" works too.
func ParseRanges(words []string) (Ranges, error) {
	var r Ranges
	junk := func(c rune) bool { return c == ',' || c == '[' || c == ']' || c == ' ' || c == '\t' }
	fields := strings.FieldsFunc(strings.Join(words, " "), junk)
	if len(fields) != len(r) {
		return r, fmt.Errorf("got %d values: %w", len(fields), ErrRanges)
	}
	for i, s := range fields {
		x, err := strconv.ParseFloat(s, 32)
		if err != nil {
			return r, fmt.Errorf("%q: %w", s, ErrRanges)
		}
		r[i] = float32(x)
	}
	return r, r.Validate()
}

// String gives the borders the way ParseRanges reads them.
func (r Ranges) String() string {
	s := make([]string, len(r))
	for i, t := range r {
		s[i] = fmtScore(t)
	}
	return strings.Join(s, " ")
}

func fmtScore(x float32) string { return strconv.FormatFloat(float64(x), 'g', -1, 32) }

// LegendEntry is one box of the colour key.
type LegendEntry struct {
	Text string
	Band Band
}

// Legend is the colour key, "< 0.5 | .. 0.7 | .. 0.8 | .. 0.9 | > 0.9".
func Legend(r Ranges) []LegendEntry {
	l := make([]LegendEntry, NBand)
	l[0] = LegendEntry{"< " + fmtScore(r[0]), 0}
	for i := 1; i < NBand-1; i++ {
		l[i] = LegendEntry{".. " + fmtScore(r[i]), Band(i)}
	}
	l[NBand-1] = LegendEntry{"> " + fmtScore(r[NBand-2]), NBand - 1}
	return l
}
