package renderer

import (
	"image"
	"math"

	"github.com/ivlev/spotlight/internal/timeline"
)

// maxMagnification culls elements that are about to pass through the viewer
const maxMagnification = 40.0

// Project maps an element transform to a screen rectangle.
// The viewer sits at z=perspective looking at the z=0 plane through the viewport center;
// base is the element size at scale 1 on that plane.
func Project(k timeline.Keyframe, base image.Point, perspective float64, vp image.Point) (image.Rectangle, bool) {
	if k.Scale <= 0 || k.Z >= perspective {
		return image.Rectangle{}, false
	}

	f := perspective / (perspective - k.Z)
	if f > maxMagnification {
		return image.Rectangle{}, false
	}

	w := float64(base.X) * k.Scale * f
	h := float64(base.Y) * k.Scale * f
	cx := float64(vp.X)/2 + k.X*f
	cy := float64(vp.Y)/2 + k.Y*f

	r := image.Rect(
		int(math.Round(cx-w/2)),
		int(math.Round(cy-h/2)),
		int(math.Round(cx+w/2)),
		int(math.Round(cy+h/2)),
	)
	if r.Empty() || !r.Overlaps(image.Rectangle{Max: vp}) {
		return image.Rectangle{}, false
	}
	return r, true
}
