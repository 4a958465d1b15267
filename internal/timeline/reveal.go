package timeline

// FadeRange is the width of one word's transition, in windowed progress units
const FadeRange = 0.1

// Window is the range of global progress in which a header transitions
type Window struct {
	Start float64 `yaml:"start"`
	End   float64 `yaml:"end"`
}

var (
	// IntroWindow is where the intro header fades out
	IntroWindow = Window{Start: 0.6, End: 0.75}
	// OutroWindow is where the outro header fades in
	OutroWindow = Window{Start: 0.8, End: 0.95}
)

// Mode selects the direction of a word transition
type Mode int

const (
	// FadeOut takes words from opaque to transparent
	FadeOut Mode = iota
	// FadeIn takes words from transparent to opaque
	FadeIn
)

func (m Mode) String() string {
	if m == FadeIn {
		return "fade-in"
	}
	return "fade-out"
}

// before is the opacity every word has until the window opens
func (m Mode) before() float64 {
	if m == FadeIn {
		return 0
	}
	return 1
}

// after is the opacity every word has once the window has closed
func (m Mode) after() float64 {
	return 1 - m.before()
}

// WordOpacity returns the opacity of word k out of total at global progress p
func WordOpacity(p float64, k, total int, w Window, mode Mode) float64 {
	if total <= 0 || p < w.Start {
		return mode.before()
	}
	if p > w.End {
		return mode.after()
	}

	wp := (p - w.Start) / (w.End - w.Start)
	wt := float64(k) / float64(total)

	switch {
	case wp >= wt+FadeRange:
		return mode.after()
	case wp <= wt:
		return mode.before()
	}

	ramp := (wp - wt) / FadeRange
	if mode == FadeIn {
		return ramp
	}
	return 1 - ramp
}

// Opacities fills dst with the opacity of each of its words at progress p
func Opacities(dst []float64, p float64, w Window, mode Mode) {
	for k := range dst {
		dst[k] = WordOpacity(p, k, len(dst), w, mode)
	}
}

// RevealWords applies word opacities for progress p. Empty sequences are a no-op.
func RevealWords(p float64, words []Word, w Window, mode Mode) {
	for k, word := range words {
		word.SetOpacity(WordOpacity(p, k, len(words), w, mode))
	}
}
