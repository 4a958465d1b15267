package analyzer

import (
	"image"

	"golang.org/x/image/draw"
)

type subImager interface {
	SubImage(r image.Rectangle) image.Image
}

// Trim cuts img down to its detected content plus pad pixels on each side.
// A nil detector or a page with no content returns img unchanged.
func Trim(img image.Image, d Detector, pad int) (image.Image, error) {
	if d == nil {
		return img, nil
	}
	blocks, err := d.Detect(img)
	if err != nil {
		return nil, err
	}
	content := ContentBounds(blocks)
	if content.Empty() {
		return img, nil
	}
	content = content.Inset(-pad).Intersect(img.Bounds())
	if content == img.Bounds() {
		return img, nil
	}

	if s, ok := img.(subImager); ok {
		return s.SubImage(content), nil
	}
	dst := image.NewRGBA(image.Rectangle{Max: content.Size()})
	draw.Draw(dst, dst.Bounds(), img, content.Min, draw.Src)
	return dst, nil
}
