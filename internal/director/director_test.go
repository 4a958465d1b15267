package director

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/ivlev/spotlight/internal/timeline"
)

func TestProgressAt(t *testing.T) {
	script := &Script{
		Duration: 6,
		Keyframes: []Keyframe{
			{Time: 0.0, Progress: 0.0, Ease: EaseLinear},
			{Time: 2.0, Progress: 0.5, Ease: EaseHold},
			{Time: 4.0, Progress: 0.6},
			{Time: 6.0, Progress: 1.0},
		},
	}

	tests := []struct {
		time     float64
		expected float64
	}{
		{-1.0, 0.0}, // Before first keyframe
		{0.0, 0.0},
		{1.0, 0.25}, // Linear segment
		{2.0, 0.5},
		{3.0, 0.5}, // Hold segment
		{5.0, 0.8}, // Cubic midpoint is exact
		{6.0, 1.0},
		{9.0, 1.0}, // After last keyframe
	}

	for _, tt := range tests {
		got := script.ProgressAt(tt.time)
		if math.Abs(got-tt.expected) > 1e-9 {
			t.Errorf("At time %.1f: expected progress %.3f, got %.3f", tt.time, tt.expected, got)
		}
	}

	// cubic easing starts slower than linear
	if got := script.ProgressAt(4.5); got >= 0.7 {
		t.Errorf("Expected eased progress below linear 0.7, got %.3f", got)
	}
}

func TestProgressAtEmpty(t *testing.T) {
	if got := (&Script{}).ProgressAt(1); got != 0 {
		t.Errorf("Expected 0 for empty script, got %f", got)
	}
}

func TestSampleWithoutSmoothing(t *testing.T) {
	d := NewDirector(1080, 30)
	d.Smoothing = 0

	progress := d.Sample(DefaultScript(2))
	if len(progress) != 60 {
		t.Fatalf("Expected 60 frames, got %d", len(progress))
	}
	for i, p := range progress {
		want := float64(i) / 60
		if math.Abs(p-want) > 1e-9 {
			t.Errorf("Frame %d: expected %.4f, got %.4f", i, want, p)
		}
	}
}

func TestSampleSmoothedLags(t *testing.T) {
	d := NewDirector(1080, 60)
	progress := d.Sample(DefaultScript(4))

	prev := -1.0
	for i, p := range progress {
		if p < prev {
			t.Fatalf("Frame %d: progress went backwards (%f < %f)", i, p, prev)
		}
		if p < 0 || p > 1 {
			t.Fatalf("Frame %d: progress %f out of range", i, p)
		}
		linear := float64(i) / float64(len(progress))
		if i > 0 && p > linear+1e-9 {
			t.Fatalf("Frame %d: smoothed progress %f ahead of target %f", i, p, linear)
		}
		prev = p
	}
}

func TestScriptWriteRead(t *testing.T) {
	script := &Script{
		Version:  "1.0",
		Duration: 5.0,
		Keyframes: []Keyframe{
			{Time: 2.5, Progress: 0.4},
			{Time: 0.0, Progress: 0.0, Ease: EaseLinear},
			{Time: 7.0, Progress: 1.0},
		},
	}

	tmpFile := filepath.Join(t.TempDir(), "script.yaml")
	if err := WriteScript(script, tmpFile); err != nil {
		t.Fatalf("WriteScript failed: %v", err)
	}

	read, err := ReadScript(tmpFile)
	if err != nil {
		t.Fatalf("ReadScript failed: %v", err)
	}

	if read.Version != script.Version {
		t.Errorf("Version mismatch: expected %s, got %s", script.Version, read.Version)
	}
	if read.Keyframes[0].Time != 0 || read.Keyframes[2].Time != 7 {
		t.Errorf("Keyframes should be sorted by time: %+v", read.Keyframes)
	}
	if read.Duration != 7 {
		t.Errorf("Duration should be extended to the last keyframe, got %f", read.Duration)
	}
}

func TestReadScriptRejectsEmpty(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "empty.yaml")
	if err := WriteScript(&Script{Version: "1.0"}, tmpFile); err != nil {
		t.Fatalf("WriteScript failed: %v", err)
	}
	if _, err := ReadScript(tmpFile); err == nil {
		t.Error("Expected error for script without keyframes")
	}
}

func TestDump(t *testing.T) {
	dump, err := Dump(timeline.Viewport{Width: 1920, Height: 1080}, 20, 5, 3, 20)
	if err != nil {
		t.Fatalf("Dump failed: %v", err)
	}
	if len(dump.Frames) != 21 {
		t.Fatalf("Expected 21 frames, got %d", len(dump.Frames))
	}
	first := dump.Frames[0]
	if len(first.Images) != 20 || len(first.Intro) != 5 || len(first.Outro) != 3 {
		t.Fatalf("Unexpected frame shape: %d images, %d intro, %d outro", len(first.Images), len(first.Intro), len(first.Outro))
	}
	if first.Images[0] != timeline.StartKeyframe() {
		t.Errorf("Expected start keyframe at p=0, got %+v", first.Images[0])
	}

	out := filepath.Join(t.TempDir(), "dump.yaml")
	if err := WriteStateDump(dump, out); err != nil {
		t.Fatalf("WriteStateDump failed: %v", err)
	}

	if _, err := Dump(timeline.Viewport{Width: 1920, Height: 1080}, 21, 0, 0, 10); err == nil {
		t.Error("Expected configuration fault for 21 images")
	}
}

func TestStretch(t *testing.T) {
	script := DefaultScript(4)
	script.Keyframes = append(script.Keyframes[:1], Keyframe{Time: 2, Progress: 0.5}, script.Keyframes[1])

	script.Stretch(10)

	if script.Duration != 10 {
		t.Errorf("Duration = %f, want 10", script.Duration)
	}
	want := []float64{0, 5, 10}
	for i, kf := range script.Keyframes {
		if math.Abs(kf.Time-want[i]) > 1e-9 {
			t.Errorf("keyframe %d time = %f, want %f", i, kf.Time, want[i])
		}
	}
	if got := script.ProgressAt(5); math.Abs(got-0.5) > 1e-9 {
		t.Errorf("ProgressAt(5) = %f, want 0.5", got)
	}

	script.Stretch(0)
	if script.Duration != 10 {
		t.Errorf("Stretch(0) changed duration to %f", script.Duration)
	}
}

func TestEaseInOutCubic(t *testing.T) {
	tests := []struct {
		t, want float64
	}{
		{0, 0},
		{0.25, 0.0625},
		{0.5, 0.5},
		{0.75, 0.9375},
		{1, 1},
	}
	for _, tt := range tests {
		if got := easeInOutCubic(tt.t); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("easeInOutCubic(%f) = %f, want %f", tt.t, got, tt.want)
		}
	}
}
