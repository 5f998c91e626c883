// 10 Oct 2026

// Package paint puts rendered pages onto a terminal or into a picture.
package paint

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/andrew-torda/rscan/pkg/shade"
)

// Mode says when to use colour.
type Mode uint8

const (
	Auto   Mode = iota // colour if writing to a terminal and NO_COLOR is not set
	Always             // even into a file
	Never
)

// ANSI paints pages as coloured text.
type ANSI struct {
	Out  io.Writer
	Mode Mode
}

type palette struct {
	band  [shade.NBand]*color.Color
	ruler *color.Color
	label *color.Color
}

func newPalette() *palette {
	return &palette{
		band: [shade.NBand]*color.Color{
			color.New(color.FgBlue),
			color.New(color.FgWhite, color.BgBlue),
			color.New(color.FgWhite, color.BgGreen),
			color.New(color.FgWhite, color.BgYellow),
			color.New(color.FgWhite, color.BgRed),
		},
		ruler: color.New(color.FgMagenta),
		label: color.New(color.FgBlue),
	}
}

// isTerminal says if w is a file going to a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func (a *ANSI) palette() *palette {
	p := newPalette()
	all := append([]*color.Color{p.ruler, p.label}, p.band[:]...)
	for _, c := range all {
		switch {
		case a.Mode == Never:
			c.DisableColor()
		case a.Mode == Always:
			c.EnableColor()
		case !isTerminal(a.Out):
			c.DisableColor()
		} // else fatih/color decides, which honours NO_COLOR
	}
	return p
}

// Legend writes the colour key, "| < 0.5 | .. 0.7 ... | > 0.9 |".
func (a *ANSI) Legend(legend []shade.LegendEntry) error {
	p := a.palette()
	return a.legend(p, legend)
}

func (a *ANSI) legend(p *palette, legend []shade.LegendEntry) error {
	for i, e := range legend {
		s := "| " + e.Text + " "
		if i == len(legend)-1 {
			s += "|"
		}
		if _, err := p.band[e.Band].Fprint(a.Out, s); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(a.Out)
	return err
}

// line writes a sequence, with one escape sequence per run of bases in
// the same band.
func (a *ANSI) line(p *palette, l *shade.Line) error {
	if l.Kind == shade.Ruler {
		_, err := p.ruler.Fprintln(a.Out, l.Text)
		return err
	}
	if _, err := p.label.Fprint(a.Out, l.Text); err != nil {
		return err
	}
	for i := 0; i < len(l.Cells); {
		j := i
		buf := make([]byte, 0, len(l.Cells)-i)
		for ; j < len(l.Cells) && l.Cells[j].Band == l.Cells[i].Band; j++ {
			buf = append(buf, l.Cells[j].Base)
		}
		if _, err := p.band[l.Cells[i].Band].Fprint(a.Out, string(buf)); err != nil {
			return err
		}
		i = j
	}
	_, err := fmt.Fprintln(a.Out)
	return err
}

// Paint writes the legend, then each page with a "Page #n" heading and
// a blank line after it.
func (a *ANSI) Paint(pages []shade.Page, legend []shade.LegendEntry) error {
	p := a.palette()
	if err := a.legend(p, legend); err != nil {
		return err
	}
	for i := range pages {
		if _, err := fmt.Fprintf(a.Out, "Page #%d\n", pages[i].Num); err != nil {
			return err
		}
		for j := range pages[i].Lines {
			if err := a.line(p, &pages[i].Lines[j]); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(a.Out); err != nil {
			return err
		}
	}
	return nil
}
