package timeline

// Element is a render target for an image or the cover
type Element interface {
	SetTransform(Keyframe)
}

// Word is a render target for one word of a header
type Word interface {
	SetOpacity(float64)
}

// Frame is the complete visual state of the timeline at one progress value
type Frame struct {
	Progress float64    `yaml:"progress"`
	Images   []Keyframe `yaml:"images"`
	Cover    Keyframe   `yaml:"cover"`
	Intro    []float64  `yaml:"intro"`
	Outro    []float64  `yaml:"outro"`
}

// Driver owns the keyframe table and the injected render targets,
// and applies the timeline to them on every progress update.
// A Driver is not safe for concurrent use.
type Driver struct {
	layout *Layout
	valid  bool

	images []Element
	cover  Element
	intro  []Word
	outro  []Word

	scaleMul float64
}

// NewDriver creates an empty Driver. Call Initialize before OnProgress.
func NewDriver() *Driver {
	return &Driver{}
}

// Initialize binds the render targets and lays them out for the viewport.
// cover may be nil; headers may be empty.
func (d *Driver) Initialize(vp Viewport, images []Element, cover Element, intro, outro []Word) error {
	d.images = images
	d.cover = cover
	d.intro = intro
	d.outro = outro
	d.Invalidate()
	return d.Relayout(vp)
}

// Invalidate drops the keyframe table. OnProgress does nothing until Relayout succeeds.
func (d *Driver) Invalidate() {
	d.layout = nil
	d.valid = false
}

// Relayout recomputes the keyframe table and resets every target to its initial state
func (d *Driver) Relayout(vp Viewport) error {
	l, err := ResolveLayout(vp, len(d.images))
	if err != nil {
		return err
	}
	d.layout = l
	d.scaleMul = ScaleMultiplier(l.Mobile)
	d.reset()
	d.valid = true
	return nil
}

// Resize runs the two-phase invalidate/relayout protocol
func (d *Driver) Resize(vp Viewport) error {
	d.Invalidate()
	return d.Relayout(vp)
}

// Layout returns the current keyframe table, or nil while invalidated
func (d *Driver) Layout() *Layout {
	return d.layout
}

// Ready reports whether a layout is in place
func (d *Driver) Ready() bool {
	return d.valid
}

func (d *Driver) reset() {
	for i, img := range d.images {
		img.SetTransform(d.layout.Start[i])
	}
	if d.cover != nil {
		d.cover.SetTransform(StartKeyframe())
	}
	for _, w := range d.intro {
		w.SetOpacity(FadeOut.before())
	}
	for _, w := range d.outro {
		w.SetOpacity(FadeIn.before())
	}
}

// OnProgress applies the timeline state for progress p to every target
func (d *Driver) OnProgress(p float64) {
	if !d.valid {
		return
	}
	for i, img := range d.images {
		img.SetTransform(Interpolate(d.layout.Start[i], d.layout.End[i], ImageProgress(p, i), d.scaleMul))
	}
	if d.cover != nil {
		d.cover.SetTransform(CoverTransform(CoverProgress(p)))
	}
	RevealWords(p, d.intro, IntroWindow, FadeOut)
	RevealWords(p, d.outro, OutroWindow, FadeIn)
}

// Evaluate computes the state for progress p without touching the targets
func (d *Driver) Evaluate(p float64) Frame {
	return Evaluate(d.layout, p, len(d.intro), len(d.outro))
}

// Evaluate computes the full timeline state for progress p.
// A nil layout yields a frame without images.
func Evaluate(l *Layout, p float64, introWords, outroWords int) Frame {
	f := Frame{
		Progress: p,
		Cover:    CoverTransform(CoverProgress(p)),
		Intro:    make([]float64, introWords),
		Outro:    make([]float64, outroWords),
	}
	if l != nil {
		scaleMul := ScaleMultiplier(l.Mobile)
		f.Images = make([]Keyframe, l.Len())
		for i := range f.Images {
			f.Images[i] = Interpolate(l.Start[i], l.End[i], ImageProgress(p, i), scaleMul)
		}
	}
	Opacities(f.Intro, p, IntroWindow, FadeOut)
	Opacities(f.Outro, p, OutroWindow, FadeIn)
	return f
}
