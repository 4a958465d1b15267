package preview

import (
	"image"

	"github.com/ivlev/spotlight/internal/renderer"
	"github.com/ivlev/spotlight/internal/scroll"
	"github.com/ivlev/spotlight/internal/system"
	"github.com/ivlev/spotlight/internal/timeline"
)

// Viewer scrolls a scene through its pinned region the way a page would.
// It is driven from a single goroutine (the window's update loop).
type Viewer struct {
	scene    *renderer.Scene
	driver   *timeline.Driver
	smoother *scroll.Smoother
	pin      *scroll.Pin
	frame    *image.RGBA
	progress float64
}

// NewViewer binds scene to a fresh driver. lerp configures scroll inertia.
func NewViewer(scene *renderer.Scene, lerp float64) (*Viewer, error) {
	v := &Viewer{
		scene:    scene,
		driver:   timeline.NewDriver(),
		smoother: scroll.NewSmoother(lerp),
	}
	if err := scene.Bind(v.driver); err != nil {
		return nil, err
	}
	v.resetPin()
	v.pin.Update(0)
	return v, nil
}

func (v *Viewer) resetPin() {
	v.pin = scroll.NewPin(0, scroll.PinDistance(float64(v.scene.Size.Y)))
	v.pin.OnUpdate = v.apply
}

func (v *Viewer) apply(p float64) {
	v.progress = p
	v.driver.OnProgress(p)
}

// Scroll moves the target position by dy pixels, clamped to the page
func (v *Viewer) Scroll(dy float64) {
	v.smoother.SetTarget(v.clamp(v.smoother.Target() + dy))
}

// JumpTo places the page at y without inertia
func (v *Viewer) JumpTo(y float64) {
	v.smoother.Jump(v.clamp(y))
	v.pin.Update(v.smoother.Current())
}

// Update advances scroll inertia by dt seconds
func (v *Viewer) Update(dt float64) {
	v.pin.Update(v.smoother.Step(dt))
}

// Resize relays the timeline out for a new window size, keeping the relative position
func (v *Viewer) Resize(size image.Point) error {
	if size == v.scene.Size {
		return nil
	}
	if err := v.scene.Resize(size, v.driver); err != nil {
		return err
	}

	p := v.progress
	v.resetPin()
	v.JumpTo(p * v.pin.Distance)

	if v.frame != nil {
		system.PutFrame(v.frame)
		v.frame = nil
	}
	return nil
}

// Render draws the current state into a frame owned by the viewer
func (v *Viewer) Render() *image.RGBA {
	if v.frame == nil {
		v.frame = system.GetFrame(image.Rectangle{Max: v.scene.Size}, v.scene.Options().Background)
	}
	v.scene.Render(v.frame)
	return v.frame
}

// ScrollY is the settled-or-not current page position
func (v *Viewer) ScrollY() float64 {
	return v.smoother.Current()
}

// Progress is the last value applied to the timeline
func (v *Viewer) Progress() float64 {
	return v.progress
}

// Size is the current viewport
func (v *Viewer) Size() image.Point {
	return v.scene.Size
}

func (v *Viewer) clamp(y float64) float64 {
	return min(max(y, 0), v.pin.Distance)
}
