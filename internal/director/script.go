package director

import "github.com/ivlev/spotlight/internal/timeline"

// Easing names accepted in scripts
const (
	EaseLinear     = "linear"
	EaseInOutCubic = "in-out-cubic"
	EaseHold       = "hold"
)

// Script describes how the viewer scrolls through the pinned region over time
type Script struct {
	Version   string     `yaml:"version"`
	Duration  float64    `yaml:"duration"` // Total duration in seconds
	Keyframes []Keyframe `yaml:"keyframes"`
}

// Keyframe is a scroll position at a specific time
type Keyframe struct {
	Time     float64 `yaml:"time"`           // Time offset in seconds
	Progress float64 `yaml:"progress"`       // Scroll progress through the pinned region
	Ease     string  `yaml:"ease,omitempty"` // Easing toward the next keyframe
}

// StateDump is the evaluated timeline sampled at regular progress steps
type StateDump struct {
	Version  string            `yaml:"version"`
	Viewport timeline.Viewport `yaml:"viewport"`
	Mobile   bool              `yaml:"mobile"`
	Frames   []timeline.Frame  `yaml:"frames"`
}

// DefaultScript scrolls from the top to the bottom of the pinned region at constant speed
func DefaultScript(duration float64) *Script {
	return &Script{
		Version:  "1.0",
		Duration: duration,
		Keyframes: []Keyframe{
			{Time: 0, Progress: 0, Ease: EaseLinear},
			{Time: duration, Progress: 1},
		},
	}
}

// Stretch rescales keyframe times so the script lasts exactly duration seconds
func (s *Script) Stretch(duration float64) {
	if s.Duration <= 0 || duration <= 0 {
		return
	}
	factor := duration / s.Duration
	for i := range s.Keyframes {
		s.Keyframes[i].Time *= factor
	}
	s.Duration = duration
}
