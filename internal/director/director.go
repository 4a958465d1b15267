package director

import (
	"math"

	"github.com/ivlev/spotlight/internal/scroll"
	"github.com/ivlev/spotlight/internal/timeline"
)

// Director turns a scroll script into per-frame progress values
type Director struct {
	ViewportHeight float64
	FPS            int
	Smoothing      float64 // Smoother lerp; 0 disables inertial scrolling
}

// NewDirector creates a new Director with default settings
func NewDirector(viewportHeight float64, fps int) *Director {
	return &Director{
		ViewportHeight: viewportHeight,
		FPS:            fps,
		Smoothing:      scroll.DefaultLerp,
	}
}

// FrameCount returns how many frames the script lasts
func (d *Director) FrameCount(script *Script) int {
	return int(math.Round(script.Duration * float64(d.FPS)))
}

// Sample walks the script frame by frame through a smoothed scroll position and a pin
func (d *Director) Sample(script *Script) []float64 {
	n := d.FrameCount(script)
	if n <= 0 {
		return nil
	}

	distance := scroll.PinDistance(d.ViewportHeight)
	smoother := scroll.NewSmoother(d.Smoothing)
	smoother.Jump(script.ProgressAt(0) * distance)

	progress := make([]float64, n)
	pin := scroll.NewPin(0, distance)
	current := 0
	pin.OnUpdate = func(p float64) {
		progress[current] = p
	}

	dt := 1 / float64(d.FPS)
	for i := 0; i < n; i++ {
		current = i
		if i > 0 {
			progress[i] = progress[i-1]
		}
		smoother.SetTarget(script.ProgressAt(float64(i)*dt) * distance)
		pin.Update(smoother.Step(dt))
	}

	return progress
}

// Dump evaluates the timeline at steps+1 evenly spaced progress values
func Dump(vp timeline.Viewport, images, introWords, outroWords int, steps int) (*StateDump, error) {
	l, err := timeline.ResolveLayout(vp, images)
	if err != nil {
		return nil, err
	}

	if steps < 1 {
		steps = 1
	}
	dump := &StateDump{
		Version:  "1.0",
		Viewport: vp,
		Mobile:   l.Mobile,
		Frames:   make([]timeline.Frame, 0, steps+1),
	}
	for i := 0; i <= steps; i++ {
		dump.Frames = append(dump.Frames, timeline.Evaluate(l, float64(i)/float64(steps), introWords, outroWords))
	}
	return dump, nil
}
