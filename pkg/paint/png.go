// 11 Oct 2026

package paint

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"unicode/utf8"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/math/fixed"

	"github.com/andrew-torda/rscan/pkg/shade"
)

const (
	fontSize = 12
	dpi      = 72
	margin   = 4
)

var (
	white   = color.RGBA{0xff, 0xff, 0xff, 0xff}
	blue    = color.RGBA{0x1f, 0x3f, 0xcf, 0xff}
	green   = color.RGBA{0x1f, 0x9f, 0x3f, 0xff}
	yellow  = color.RGBA{0xcf, 0xaf, 0x1f, 0xff}
	red     = color.RGBA{0xcf, 0x1f, 0x1f, 0xff}
	magenta = color.RGBA{0xaf, 0x1f, 0xaf, 0xff}
	black   = color.RGBA{0, 0, 0, 0xff}
)

// ink and paper for each band, as on the terminal.
var bandInk = [shade.NBand][2]color.Color{
	{blue, white}, {white, blue}, {white, green}, {white, yellow}, {white, red},
}

// cell is one character on a fixed grid.
type cell struct {
	r        rune
	ink, bkg color.Color
}

// grid lays the pages out as characters before anything is drawn.
func grid(pages []shade.Page, legend []shade.LegendEntry) [][]cell {
	var rows [][]cell
	text := func(row []cell, s string, ink, bkg color.Color) []cell {
		for _, r := range s {
			row = append(row, cell{r, ink, bkg})
		}
		return row
	}
	var row []cell
	for i, e := range legend {
		s := "| " + e.Text + " "
		if i == len(legend)-1 {
			s += "|"
		}
		row = text(row, s, bandInk[e.Band][0], bandInk[e.Band][1])
	}
	rows = append(rows, row)
	for _, p := range pages {
		rows = append(rows, text(nil, fmt.Sprintf("Page #%d", p.Num), black, white))
		for _, l := range p.Lines {
			if l.Kind == shade.Ruler {
				rows = append(rows, text(nil, l.Text, magenta, white))
				continue
			}
			row := text(nil, l.Text, blue, white)
			for _, c := range l.Cells {
				row = append(row, cell{rune(c.Base), bandInk[c.Band][0], bandInk[c.Band][1]})
			}
			rows = append(rows, row)
		}
		rows = append(rows, nil)
	}
	return rows
}

// Picture draws the pages in Go Mono, one coloured box per character.
func Picture(pages []shade.Page, legend []shade.LegendEntry) (*image.RGBA, error) {
	f, err := truetype.Parse(gomono.TTF)
	if err != nil {
		return nil, fmt.Errorf("parsing font: %w", err)
	}
	face := truetype.NewFace(f, &truetype.Options{Size: fontSize, DPI: dpi})
	defer face.Close()
	adv, ok := face.GlyphAdvance('M')
	if !ok {
		return nil, fmt.Errorf("font has no M")
	}
	metrics := face.Metrics()
	cw, ch := adv.Ceil(), metrics.Height.Ceil()

	rows := grid(pages, legend)
	ncol := 0
	for _, r := range rows {
		ncol = max(ncol, len(r))
	}
	img := image.NewRGBA(image.Rect(0, 0, ncol*cw+2*margin, len(rows)*ch+2*margin))
	draw.Draw(img, img.Bounds(), image.NewUniform(white), image.Point{}, draw.Src)

	c := freetype.NewContext()
	c.SetDPI(dpi)
	c.SetFont(f)
	c.SetFontSize(fontSize)
	c.SetClip(img.Bounds())
	c.SetDst(img)
	c.SetHinting(font.HintingFull)

	for y, row := range rows {
		top := margin + y*ch
		baseline := fixed.I(top) + metrics.Ascent
		for x, cl := range row {
			left := margin + x*cw
			box := image.Rect(left, top, left+cw, top+ch)
			if cl.bkg != white {
				draw.Draw(img, box, image.NewUniform(cl.bkg), image.Point{}, draw.Src)
			}
			if cl.r == ' ' || !utf8.ValidRune(cl.r) {
				continue
			}
			c.SetSrc(image.NewUniform(cl.ink))
			if _, err := c.DrawString(string(cl.r), fixed.Point26_6{X: fixed.I(left), Y: baseline}); err != nil {
				return nil, err
			}
		}
	}
	return img, nil
}

// WritePNG draws the pages and encodes them as PNG.
func WritePNG(w io.Writer, pages []shade.Page, legend []shade.LegendEntry) error {
	img, err := Picture(pages, legend)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}
