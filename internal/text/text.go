// Package text splits header strings into words and lays them out so each
// word can be faded on its own.
package text

import (
	"image"
	"image/color"
	"image/draw"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/ivlev/spotlight/internal/timeline"
)

// Split breaks a header into its words
func Split(s string) []string {
	return strings.Fields(s)
}

// NewFace loads the bundled Go Bold font at the given pixel size
func NewFace(size float64) (font.Face, error) {
	f, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, err
	}
	return opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

// Word is one word of a header with its own opacity
type Word struct {
	Text  string
	Dot   image.Point // Baseline origin relative to the header
	Width int

	opacity float64
}

func (w *Word) SetOpacity(o float64) {
	w.opacity = o
}

func (w *Word) Opacity() float64 {
	return w.opacity
}

// Header is a block of centered lines of words
type Header struct {
	Words []*Word
	Size  image.Point

	face font.Face
}

// NewHeader lays out s in lines no wider than maxWidth (a single long word may exceed it).
// The face must not be shared with another goroutine.
func NewHeader(s string, face font.Face, maxWidth int) *Header {
	h := &Header{face: face}
	tokens := Split(s)
	if len(tokens) == 0 {
		return h
	}

	space := font.MeasureString(face, " ").Ceil()
	metrics := face.Metrics()
	lineHeight := metrics.Height.Ceil()
	ascent := metrics.Ascent.Ceil()

	var lines [][]*Word
	var lineWidths []int
	var line []*Word
	width := 0
	for _, tok := range tokens {
		w := &Word{Text: tok, Width: font.MeasureString(face, tok).Ceil(), opacity: 1}
		next := w.Width
		if len(line) > 0 {
			next = width + space + w.Width
		}
		if len(line) > 0 && next > maxWidth {
			lines = append(lines, line)
			lineWidths = append(lineWidths, width)
			line, width = nil, 0
			next = w.Width
		}
		line = append(line, w)
		width = next
	}
	lines = append(lines, line)
	lineWidths = append(lineWidths, width)

	for _, lw := range lineWidths {
		if lw > h.Size.X {
			h.Size.X = lw
		}
	}
	h.Size.Y = lineHeight * len(lines)

	for i, words := range lines {
		x := (h.Size.X - lineWidths[i]) / 2
		y := ascent + i*lineHeight
		for _, w := range words {
			w.Dot = image.Pt(x, y)
			x += w.Width + space
			h.Words = append(h.Words, w)
		}
	}
	return h
}

// Targets exposes the words as timeline render targets
func (h *Header) Targets() []timeline.Word {
	targets := make([]timeline.Word, len(h.Words))
	for i, w := range h.Words {
		targets[i] = w
	}
	return targets
}

// Draw renders every visible word with its top-left corner at origin
func (h *Header) Draw(dst draw.Image, origin image.Point, c color.RGBA) {
	for _, w := range h.Words {
		a := clamp01(w.opacity)
		if a == 0 {
			continue
		}
		d := font.Drawer{
			Dst:  dst,
			Src:  image.NewUniform(color.NRGBA{R: c.R, G: c.G, B: c.B, A: uint8(a*float64(c.A) + 0.5)}),
			Face: h.face,
			Dot:  fixed.P(origin.X+w.Dot.X, origin.Y+w.Dot.Y),
		}
		d.DrawString(w.Text)
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
