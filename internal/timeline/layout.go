package timeline

import (
	"errors"
	"fmt"
)

// MobileBreakpoint is the viewport width below which the mobile layout is used
const MobileBreakpoint = 1000.0

const (
	startZ   = -1000.0
	endZ     = 2000.0
	endScale = 1.0

	mobileScatter  = 2.5
	desktopScatter = 0.5
)

var (
	// ErrTooManyImages is returned when there are more image elements than scatter directions
	ErrTooManyImages = errors.New("timeline: more images than scatter directions")
	// ErrInvalidViewport is returned for empty viewports or negative element counts
	ErrInvalidViewport = errors.New("timeline: invalid viewport")
)

// Keyframe represents the spatial state of an element at one end of the timeline
type Keyframe struct {
	X     float64 `yaml:"x"`
	Y     float64 `yaml:"y"`
	Z     float64 `yaml:"z"`
	Scale float64 `yaml:"scale"`
}

// Direction is the bearing an image scatters toward
type Direction struct {
	X, Y float64
}

// ScatterDirections holds one direction per image element, in element order
var ScatterDirections = [...]Direction{
	{X: 1.3, Y: 0.7},
	{X: -1.5, Y: 1.0},
	{X: 1.1, Y: -1.3},
	{X: -1.7, Y: -0.8},
	{X: 0.8, Y: 1.5},

	{X: -1.0, Y: -1.4},
	{X: 1.6, Y: 0.3},
	{X: -0.7, Y: 1.7},
	{X: 1.2, Y: -1.6},
	{X: -1.4, Y: 0.9},

	{X: 1.8, Y: -0.5},
	{X: -1.1, Y: -1.8},
	{X: 0.9, Y: 1.8},
	{X: -1.9, Y: 0.4},
	{X: 1.0, Y: -1.9},

	{X: -0.8, Y: 1.9},
	{X: 1.7, Y: -1.0},
	{X: -1.3, Y: -1.2},
	{X: 0.7, Y: 2.0},
	{X: 1.25, Y: -0.2},
}

// MaxImages is the number of image elements the scatter table can serve
const MaxImages = len(ScatterDirections)

// Viewport is the size of the pinned region in pixels
type Viewport struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// Mobile reports whether the viewport uses the mobile layout
func (v Viewport) Mobile() bool {
	return v.Width < MobileBreakpoint
}

// Layout is the keyframe table for one viewport
type Layout struct {
	Viewport Viewport
	Mobile   bool
	Start    []Keyframe
	End      []Keyframe
}

// Len returns the number of image elements in the layout
func (l *Layout) Len() int {
	return len(l.Start)
}

// StartKeyframe is where every image and the cover begin: centered, far back, invisible
func StartKeyframe() Keyframe {
	return Keyframe{X: 0, Y: 0, Z: startZ, Scale: 0}
}

// ResolveLayout computes start and end keyframes for n image elements
func ResolveLayout(vp Viewport, n int) (*Layout, error) {
	if vp.Width <= 0 || vp.Height <= 0 || n < 0 {
		return nil, fmt.Errorf("%w: %gx%g, %d images", ErrInvalidViewport, vp.Width, vp.Height, n)
	}
	if n > MaxImages {
		return nil, fmt.Errorf("%w: %d > %d", ErrTooManyImages, n, MaxImages)
	}

	mobile := vp.Mobile()
	m := desktopScatter
	if mobile {
		m = mobileScatter
	}

	l := &Layout{
		Viewport: vp,
		Mobile:   mobile,
		Start:    make([]Keyframe, n),
		End:      make([]Keyframe, n),
	}
	for i := 0; i < n; i++ {
		dir := ScatterDirections[i]
		l.Start[i] = StartKeyframe()
		l.End[i] = Keyframe{
			X:     dir.X * vp.Width * m,
			Y:     dir.Y * vp.Height * m,
			Z:     endZ,
			Scale: endScale,
		}
	}
	return l, nil
}
