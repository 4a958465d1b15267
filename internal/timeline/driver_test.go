package timeline

import (
	"errors"
	"testing"
)

type fakeElement struct {
	state Keyframe
	sets  int
}

func (e *fakeElement) SetTransform(k Keyframe) {
	e.state = k
	e.sets++
}

type fakeWord struct {
	opacity float64
}

func (w *fakeWord) SetOpacity(o float64) {
	w.opacity = o
}

func newTargets(images, words int) ([]Element, []*fakeElement, []Word, []*fakeWord, []Word, []*fakeWord) {
	els := make([]Element, images)
	fakes := make([]*fakeElement, images)
	for i := range els {
		fakes[i] = &fakeElement{}
		els[i] = fakes[i]
	}
	mkWords := func() ([]Word, []*fakeWord) {
		ws := make([]Word, words)
		fw := make([]*fakeWord, words)
		for i := range ws {
			fw[i] = &fakeWord{opacity: -1}
			ws[i] = fw[i]
		}
		return ws, fw
	}
	intro, introFakes := mkWords()
	outro, outroFakes := mkWords()
	return els, fakes, intro, introFakes, outro, outroFakes
}

var desktop = Viewport{Width: 1920, Height: 1080}

func TestDriverInitializeResets(t *testing.T) {
	els, fakes, intro, introFakes, outro, outroFakes := newTargets(MaxImages, 4)
	cover := &fakeElement{state: Keyframe{Z: 42, Scale: 3}}

	d := NewDriver()
	if err := d.Initialize(desktop, els, cover, intro, outro); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	if !d.Ready() {
		t.Fatal("Driver should be ready after Initialize")
	}

	for i, f := range fakes {
		if f.state != StartKeyframe() {
			t.Errorf("Image %d not reset: %+v", i, f.state)
		}
	}
	if cover.state != StartKeyframe() {
		t.Errorf("Cover not reset: %+v", cover.state)
	}
	for i, w := range introFakes {
		if w.opacity != 1 {
			t.Errorf("Intro word %d: expected opacity 1, got %f", i, w.opacity)
		}
	}
	for i, w := range outroFakes {
		if w.opacity != 0 {
			t.Errorf("Outro word %d: expected opacity 0, got %f", i, w.opacity)
		}
	}
}

func TestDriverTooManyImages(t *testing.T) {
	els, _, _, _, _, _ := newTargets(MaxImages+1, 0)
	d := NewDriver()
	if err := d.Initialize(desktop, els, nil, nil, nil); !errors.Is(err, ErrTooManyImages) {
		t.Fatalf("Expected ErrTooManyImages, got %v", err)
	}
	if d.Ready() {
		t.Error("Driver must not be ready after a configuration fault")
	}
	d.OnProgress(0.5) // no-op, must not panic
}

func TestDriverScenarioStart(t *testing.T) {
	els, fakes, _, _, _, _ := newTargets(MaxImages, 0)
	d := NewDriver()
	if err := d.Initialize(desktop, els, nil, nil, nil); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	d.OnProgress(0)
	for i, f := range fakes {
		if !nearKeyframe(f.state, Keyframe{X: 0, Y: 0, Z: -1000, Scale: 0}) {
			t.Errorf("Image %d at p=0: %+v", i, f.state)
		}
	}
}

func TestDriverScenarioEndExtrapolates(t *testing.T) {
	els, fakes, _, _, _, _ := newTargets(MaxImages, 0)
	d := NewDriver()
	if err := d.Initialize(desktop, els, nil, nil, nil); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	d.OnProgress(1)

	l := d.Layout()
	start, end := l.Start[0], l.End[0]
	want := Keyframe{
		X: end.X + 3*(end.X-start.X),
		Y: end.Y + 3*(end.Y-start.Y),
		Z: end.Z + 3*(end.Z-start.Z),
	}
	got := fakes[0].state
	if !near(got.X, want.X) || !near(got.Y, want.Y) || !near(got.Z, want.Z) {
		t.Errorf("Image 0 at p=1: expected %+v, got %+v", want, got)
	}
	if !near(got.X, 4992) || !near(got.Z, 11000) {
		t.Errorf("Image 0 at p=1: expected x=4992 z=11000, got %+v", got)
	}
	// scale runs at local*2 on desktop
	if !near(got.Scale, 8) {
		t.Errorf("Image 0 at p=1: expected scale 8, got %f", got.Scale)
	}
}

func TestDriverHeadersOutsideWindows(t *testing.T) {
	els, _, intro, introFakes, outro, outroFakes := newTargets(3, 6)
	cover := &fakeElement{}
	d := NewDriver()
	if err := d.Initialize(desktop, els, cover, intro, outro); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	d.OnProgress(0.5)
	for i := range introFakes {
		if introFakes[i].opacity != 1 {
			t.Errorf("Intro word %d: expected 1, got %f", i, introFakes[i].opacity)
		}
		if outroFakes[i].opacity != 0 {
			t.Errorf("Outro word %d: expected 0, got %f", i, outroFakes[i].opacity)
		}
	}
	if !nearKeyframe(cover.state, StartKeyframe()) {
		t.Errorf("Cover should still be at start at p=0.5, got %+v", cover.state)
	}

	d.OnProgress(1)
	for i := range introFakes {
		if introFakes[i].opacity != 0 {
			t.Errorf("Intro word %d: expected 0 at p=1, got %f", i, introFakes[i].opacity)
		}
		if outroFakes[i].opacity != 1 {
			t.Errorf("Outro word %d: expected 1 at p=1, got %f", i, outroFakes[i].opacity)
		}
	}
}

func TestDriverResize(t *testing.T) {
	els, fakes, _, _, _, _ := newTargets(5, 0)
	d := NewDriver()
	if err := d.Initialize(desktop, els, nil, nil, nil); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	d.OnProgress(0.4)

	d.Invalidate()
	if d.Ready() || d.Layout() != nil {
		t.Fatal("Driver should drop its layout on Invalidate")
	}
	before := fakes[0].sets
	d.OnProgress(0.9)
	if fakes[0].sets != before {
		t.Error("OnProgress must not touch targets while invalidated")
	}

	mobile := Viewport{Width: 390, Height: 844}
	if err := d.Relayout(mobile); err != nil {
		t.Fatalf("Relayout failed: %v", err)
	}
	if fakes[0].state != StartKeyframe() {
		t.Errorf("Relayout should reset targets, got %+v", fakes[0].state)
	}
	if !d.Layout().Mobile {
		t.Error("Expected mobile layout after resize")
	}

	d.OnProgress(0.1)
	// image 0: local 0.4, mobile scale multiplier 4
	if !near(fakes[0].state.Scale, 1.6) {
		t.Errorf("Expected mobile scale 1.6, got %f", fakes[0].state.Scale)
	}

	if err := d.Resize(desktop); err != nil {
		t.Fatalf("Resize failed: %v", err)
	}
	if d.Layout().Mobile {
		t.Error("Expected desktop layout after second resize")
	}
}

func TestDriverEvaluateMatchesOnProgress(t *testing.T) {
	els, fakes, intro, introFakes, outro, outroFakes := newTargets(MaxImages, 5)
	cover := &fakeElement{}
	d := NewDriver()
	if err := d.Initialize(desktop, els, cover, intro, outro); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	for _, p := range []float64{0, 0.2, 0.61, 0.7, 0.85, 0.93, 1} {
		f := d.Evaluate(p)
		d.OnProgress(p)
		for i := range fakes {
			if !nearKeyframe(f.Images[i], fakes[i].state) {
				t.Errorf("p=%.2f image %d: Evaluate %+v, OnProgress %+v", p, i, f.Images[i], fakes[i].state)
			}
		}
		if !nearKeyframe(f.Cover, cover.state) {
			t.Errorf("p=%.2f cover: Evaluate %+v, OnProgress %+v", p, f.Cover, cover.state)
		}
		for k := range introFakes {
			if !near(f.Intro[k], introFakes[k].opacity) || !near(f.Outro[k], outroFakes[k].opacity) {
				t.Errorf("p=%.2f word %d: opacity mismatch", p, k)
			}
		}
	}
}

func TestDriverEmptyHeaders(t *testing.T) {
	d := NewDriver()
	if err := d.Initialize(desktop, nil, nil, nil, nil); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	d.OnProgress(0.7)
	f := d.Evaluate(0.7)
	if len(f.Intro) != 0 || len(f.Outro) != 0 || len(f.Images) != 0 {
		t.Errorf("Expected empty frame, got %+v", f)
	}
}
