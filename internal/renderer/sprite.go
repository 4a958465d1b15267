package renderer

import (
	"image"
	"math"

	"github.com/ivlev/spotlight/internal/timeline"
)

// Sprite is a picture placed by the timeline
type Sprite struct {
	Image   image.Image
	SrcRect image.Rectangle // Part of Image that is drawn
	Base    image.Point     // Size at scale 1 on the z=0 plane

	transform timeline.Keyframe
}

// NewSprite sizes a picture to width pixels, keeping its aspect ratio
func NewSprite(img image.Image, width float64) *Sprite {
	b := img.Bounds()
	height := width
	if b.Dx() > 0 {
		height = width * float64(b.Dy()) / float64(b.Dx())
	}
	return &Sprite{
		Image:     img,
		SrcRect:   b,
		Base:      image.Pt(int(math.Round(width)), int(math.Round(height))),
		transform: timeline.StartKeyframe(),
	}
}

// NewCoverSprite fills the viewport with the center of a picture, cropping the overflow
func NewCoverSprite(img image.Image, vp image.Point) *Sprite {
	return &Sprite{
		Image:     img,
		SrcRect:   coverCrop(img.Bounds(), vp),
		Base:      vp,
		transform: timeline.StartKeyframe(),
	}
}

func (s *Sprite) SetTransform(k timeline.Keyframe) {
	s.transform = k
}

func (s *Sprite) Transform() timeline.Keyframe {
	return s.transform
}

// coverCrop returns the largest centered part of src with the aspect ratio of vp
func coverCrop(src image.Rectangle, vp image.Point) image.Rectangle {
	if src.Empty() || vp.X <= 0 || vp.Y <= 0 {
		return src
	}
	sw, sh := float64(src.Dx()), float64(src.Dy())
	target := float64(vp.X) / float64(vp.Y)

	if sw/sh > target {
		w := int(math.Round(sh * target))
		x := src.Min.X + (src.Dx()-w)/2
		return image.Rect(x, src.Min.Y, x+w, src.Max.Y)
	}
	h := int(math.Round(sw / target))
	y := src.Min.Y + (src.Dy()-h)/2
	return image.Rect(src.Min.X, y, src.Max.X, y+h)
}
