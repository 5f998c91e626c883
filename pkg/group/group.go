// 4 Oct 2026

// Package group turns the user's description of groups of sequences
// into a list of index sets. Groups may overlap and need not cover
// every sequence.
package group

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Partition is an ordered list of groups. Each group is a list of
// sequence indices, numbered from zero.
type Partition [][]int

var (
	ErrSpec  = errors.New("malformed group specification")
	ErrIndex = errors.New("sequence index out of range")
)

// Normalize copies raw into a Partition. If raw is empty, every one of
// the nseq sequences gets a group of its own. Nothing is deduplicated
// or checked.
func Normalize(raw [][]int, nseq int) Partition {
	if len(raw) == 0 {
		p := make(Partition, nseq)
		for i := range p {
			p[i] = []int{i}
		}
		return p
	}
	p := make(Partition, len(raw))
	for i, g := range raw {
		p[i] = append([]int(nil), g...)
	}
	return p
}

// Range returns lo, lo+1, ... hi, like lo..hi in the shell.
func Range(lo, hi int) []int {
	if hi < lo {
		return nil
	}
	r := make([]int, 0, hi-lo+1)
	for i := lo; i <= hi; i++ {
		r = append(r, i)
	}
	return r
}

// Validate checks every index refers to one of nseq sequences.
func (p Partition) Validate(nseq int) error {
	for ig, g := range p {
		for _, i := range g {
			if i < 0 || i >= nseq {
				return fmt.Errorf("group %d has %d, but there are %d sequences: %w", ig, i, nseq, ErrIndex)
			}
		}
	}
	return nil
}

// Outgroup is every group except number ig, joined in order.
// Duplicates are kept if groups overlap.
func (p Partition) Outgroup(ig int) []int {
	var out []int
	for i, g := range p {
		if i != ig {
			out = append(out, g...)
		}
	}
	return out
}

// Covered says which of nseq sequences belong to at least one group.
// Indices out of range are ignored.
func (p Partition) Covered(nseq int) []bool {
	c := make([]bool, nseq)
	for _, g := range p {
		for _, i := range g {
			if i >= 0 && i < nseq {
				c[i] = true
			}
		}
	}
	return c
}

// String writes a partition in the form Parse reads. Runs of three or
// more consecutive indices are written as ranges.
func (p Partition) String() string {
	grps := make([]string, len(p))
	for ig, g := range p {
		var b strings.Builder
		for i := 0; i < len(g); {
			j := i
			for j+1 < len(g) && g[j+1] == g[j]+1 {
				j++
			}
			if b.Len() > 0 {
				b.WriteByte(',')
			}
			switch {
			case j-i >= 2:
				fmt.Fprintf(&b, "%d..%d", g[i], g[j])
			default:
				j = i
				b.WriteString(strconv.Itoa(g[i]))
			}
			i = j + 1
		}
		grps[ig] = b.String()
	}
	return strings.Join(grps, " ")
}

// White space next to a comma does not separate groups.
var commaSpace = regexp.MustCompile(`[ \t\n]*,[ \t\n]*`)

// Parse reads a text description of groups. Groups are separated by
// ";" or white space, members of a group by ",". A member may be a
// number or an inclusive range written "lo..hi" or "lo-hi".
//
//	0..4 5,6,7 8..14 15
//	0-4; 5,6,7; 8-14; 15
func Parse(spec string) ([][]int, error) {
	f := func(r rune) bool { return r == ';' || r == ' ' || r == '\t' || r == '\n' }
	var raw [][]int
	spec = commaSpace.ReplaceAllString(spec, ",")
	for _, gtxt := range strings.FieldsFunc(spec, f) {
		var g []int
		for _, mem := range strings.Split(gtxt, ",") {
			m, err := parseMember(mem)
			if err != nil {
				return nil, fmt.Errorf("group %d \"%s\": %w", len(raw), gtxt, err)
			}
			g = append(g, m...)
		}
		raw = append(raw, g)
	}
	return raw, nil
}

// parseMember reads "7", "3..9" or "3-9".
func parseMember(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("empty member: %w", ErrSpec)
	}
	lo, hi, isRange := strings.Cut(s, "..")
	if !isRange {
		lo, hi, isRange = strings.Cut(s, "-")
	}
	a, err := strconv.Atoi(lo)
	if err != nil || a < 0 {
		return nil, fmt.Errorf("bad index \"%s\": %w", lo, ErrSpec)
	}
	if !isRange {
		return []int{a}, nil
	}
	b, err := strconv.Atoi(hi)
	if err != nil || b < 0 {
		return nil, fmt.Errorf("bad index \"%s\": %w", hi, ErrSpec)
	}
	if b < a {
		return nil, fmt.Errorf("descending range %d..%d: %w", a, b, ErrSpec)
	}
	return Range(a, b), nil
}
