// 8 Oct 2026

package shade

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/andrew-torda/rscan/pkg/group"
	"github.com/andrew-torda/rscan/pkg/scan"
)

// Alignment is what the renderer needs from the sequences.
type Alignment interface {
	NSeq() int
	GetLen() int
	Base(i, pos int) byte
	Label(i int) string
}

// Layout is the shape of a page.
type Layout struct {
	WindowLen  int // columns per page
	LabelWidth int // runes for "index. label"
}

var DefaultLayout = Layout{WindowLen: 80, LabelWidth: 20}

var ErrLayout = errors.New("bad page layout")

// Validate wants at least one column per page.
func (l Layout) Validate() error {
	if l.WindowLen < 1 {
		return fmt.Errorf("window length %d: %w", l.WindowLen, ErrLayout)
	}
	if l.LabelWidth < 0 {
		return fmt.Errorf("label width %d: %w", l.LabelWidth, ErrLayout)
	}
	return nil
}

type LineKind uint8

const (
	Ruler LineKind = iota
	Sequence
)

// Cell is one base and the band its score falls in.
type Cell struct {
	Base byte
	Band Band
}

// Line is either a ruler, with only Text, or a sequence with its label
// in Text and one Cell per column.
type Line struct {
	Kind  LineKind
	Text  string
	Seq   int // index of the sequence, -1 for rulers
	Group int
	Cells []Cell
}

// Page is one window of columns, Lo up to but not including Hi.
type Page struct {
	Num    int // from 1
	Lo, Hi int
	Lines  []Line
}

// ruler is LabelWidth blanks, then a '|' every ten columns and '-'
// elsewhere, counting from 1, then the number of the last column.
func ruler(labelWidth, lo, hi int) string {
	var b strings.Builder
	b.WriteString(strings.Repeat(" ", labelWidth))
	for pos := lo + 1; pos <= hi; pos++ {
		if pos%10 == 0 {
			b.WriteByte('|')
		} else {
			b.WriteByte('-')
		}
	}
	b.WriteString(strconv.Itoa(hi))
	return b.String()
}

// label is "index. label", cut or padded to exactly width runes.
func label(i int, s string, width int) string {
	r := []rune(norm.NFC.String(fmt.Sprintf("%d. %s", i, s)))
	if len(r) >= width {
		return string(r[:width])
	}
	return string(r) + strings.Repeat(" ", width-len(r))
}

// Render cuts the alignment into pages. Within a page, each group gets
// a ruler and then one line per member, in group order. Sequences in no
// group are never printed.
func Render(aln Alignment, groups group.Partition, scores *scan.Scores, ranges Ranges, layout Layout) ([]Page, error) {
	if err := layout.Validate(); err != nil {
		return nil, err
	}
	if err := ranges.Validate(); err != nil {
		return nil, err
	}
	nseq, ncol := aln.NSeq(), aln.GetLen()
	if scores == nil || scores.NSeq() != nseq || scores.Len() != ncol {
		return nil, fmt.Errorf("scores do not match the alignment of %d x %d", nseq, ncol)
	}
	if err := groups.Validate(nseq); err != nil {
		return nil, err
	}
	for ig, g := range groups {
		for _, s := range g {
			if !scores.Covered(s) {
				return nil, fmt.Errorf("sequence %d in group %d was never scored", s, ig)
			}
		}
	}

	labels := make([]string, nseq)
	for i := range labels {
		labels[i] = label(i, aln.Label(i), layout.LabelWidth)
	}

	w := layout.WindowLen
	pages := make([]Page, 0, (ncol+w-1)/w)
	for lo := 0; lo < ncol; lo += w {
		hi := min(lo+w, ncol)
		page := Page{Num: len(pages) + 1, Lo: lo, Hi: hi}
		rulerTxt := ruler(layout.LabelWidth, lo, hi)
		for ig, g := range groups {
			page.Lines = append(page.Lines, Line{Kind: Ruler, Text: rulerTxt, Seq: -1, Group: ig})
			for _, s := range g {
				cells := make([]Cell, hi-lo)
				for pos := lo; pos < hi; pos++ {
					cells[pos-lo] = Cell{Base: aln.Base(s, pos), Band: ranges.Classify(scores.At(s, pos))}
				}
				page.Lines = append(page.Lines, Line{Kind: Sequence, Text: labels[s], Seq: s, Group: ig, Cells: cells})
			}
		}
		pages = append(pages, page)
	}
	return pages, nil
}

// Bases is the line's sequence as text.
func (l *Line) Bases() string {
	b := make([]byte, len(l.Cells))
	for i, c := range l.Cells {
		b[i] = c.Base
	}
	return string(b)
}
