package renderer

import (
	"fmt"
	"image"
	"image/color"
	"sort"
	"strconv"
	"strings"

	"github.com/skip2/go-qrcode"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"

	"github.com/ivlev/spotlight/internal/system"
	"github.com/ivlev/spotlight/internal/text"
	"github.com/ivlev/spotlight/internal/timeline"
)

// Options control how a Scene is drawn
type Options struct {
	Perspective  float64
	ImageSize    float64 // Image element width at scale 1
	Background   color.RGBA
	TextColor    color.RGBA
	Interpolator draw.Interpolator
}

// DefaultOptions mirror the defaults of the config package
func DefaultOptions() Options {
	return Options{
		Perspective:  2000,
		ImageSize:    300,
		Background:   color.RGBA{R: 15, G: 15, B: 15, A: 255},
		TextColor:    color.RGBA{R: 255, G: 255, B: 255, A: 255},
		Interpolator: draw.ApproxBiLinear,
	}
}

// Scene holds the render targets of one timeline and draws them into frames.
// A Scene and the font face it uses belong to a single goroutine.
type Scene struct {
	Size   image.Point
	Images []*Sprite
	Cover  *Sprite
	Intro  *text.Header
	Outro  *text.Header

	opts  Options
	order []*Sprite
}

// NewScene builds sprites and headers for a viewport. cover may be nil.
func NewScene(size image.Point, images []image.Image, cover image.Image, intro, outro string, face font.Face, opts Options) *Scene {
	if opts.Interpolator == nil {
		opts.Interpolator = draw.ApproxBiLinear
	}
	s := &Scene{Size: size, opts: opts}

	s.Images = make([]*Sprite, len(images))
	for i, img := range images {
		s.Images[i] = NewSprite(img, opts.ImageSize)
	}
	if cover != nil {
		s.Cover = NewCoverSprite(cover, size)
	}

	maxWidth := size.X * 3 / 4
	s.Intro = text.NewHeader(intro, face, maxWidth)
	s.Outro = text.NewHeader(outro, face, maxWidth)
	s.order = make([]*Sprite, 0, len(images)+1)
	return s
}

// Viewport is the scene size in timeline units
func (s *Scene) Viewport() timeline.Viewport {
	return timeline.Viewport{Width: float64(s.Size.X), Height: float64(s.Size.Y)}
}

func (s *Scene) Options() Options {
	return s.opts
}

// Bind hands the scene's targets to a driver
func (s *Scene) Bind(d *timeline.Driver) error {
	elements := make([]timeline.Element, len(s.Images))
	for i, sp := range s.Images {
		elements[i] = sp
	}
	var cover timeline.Element
	if s.Cover != nil {
		cover = s.Cover
	}
	return d.Initialize(s.Viewport(), elements, cover, s.Intro.Targets(), s.Outro.Targets())
}

// Resize adopts a new viewport size and relays the driver out for it.
// Header wrapping keeps the width chosen in NewScene.
func (s *Scene) Resize(size image.Point, d *timeline.Driver) error {
	if size == s.Size {
		return nil
	}
	s.Size = size
	if s.Cover != nil {
		s.Cover.SrcRect = coverCrop(s.Cover.Image.Bounds(), size)
		s.Cover.Base = size
	}
	return d.Resize(s.Viewport())
}

// Render draws the current state back to front: sprites by depth, then both headers
func (s *Scene) Render(dst *image.RGBA) {
	system.Fill(dst, s.opts.Background)

	s.order = s.order[:0]
	if s.Cover != nil {
		s.order = append(s.order, s.Cover)
	}
	s.order = append(s.order, s.Images...)
	sort.SliceStable(s.order, func(i, j int) bool {
		return s.order[i].transform.Z < s.order[j].transform.Z
	})

	for _, sp := range s.order {
		r, ok := Project(sp.transform, sp.Base, s.opts.Perspective, s.Size)
		if !ok {
			continue
		}
		s.opts.Interpolator.Scale(dst, r, sp.Image, sp.SrcRect, draw.Over, nil)
	}

	s.drawHeader(dst, s.Intro)
	s.drawHeader(dst, s.Outro)
}

func (s *Scene) drawHeader(dst *image.RGBA, h *text.Header) {
	origin := image.Pt((s.Size.X-h.Size.X)/2, (s.Size.Y-h.Size.Y)/2)
	h.Draw(dst, origin, s.opts.TextColor)
}

// Stamp draws a QR code with label into the bottom-right corner
func Stamp(dst *image.RGBA, label string, size int) error {
	q, err := qrcode.New(label, qrcode.Low)
	if err != nil {
		return fmt.Errorf("qr stamp: %w", err)
	}
	img := q.Image(size)
	b := dst.Bounds()
	r := image.Rect(b.Max.X-size, b.Max.Y-size, b.Max.X, b.Max.Y)
	draw.Draw(dst, r, img, img.Bounds().Min, draw.Src)
	return nil
}

// ParseHexColor parses #rgb or #rrggbb
func ParseHexColor(s string) (color.RGBA, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid color %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
}
