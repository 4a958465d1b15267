package text

import (
	"image"
	"image/color"
	"testing"

	"github.com/ivlev/spotlight/internal/timeline"
)

func TestSplit(t *testing.T) {
	got := Split("  Every   frame\ttells a\nstory ")
	want := []string{"Every", "frame", "tells", "a", "story"}
	if len(got) != len(want) {
		t.Fatalf("Expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Word %d: expected %q, got %q", i, want[i], got[i])
		}
	}
	if len(Split("   ")) != 0 {
		t.Error("Blank header should have no words")
	}
}

func TestNewHeaderWraps(t *testing.T) {
	face, err := NewFace(24)
	if err != nil {
		t.Fatalf("NewFace failed: %v", err)
	}

	h := NewHeader("one two three four five six seven eight", face, 150)
	if len(h.Words) != 8 {
		t.Fatalf("Expected 8 words, got %d", len(h.Words))
	}

	lineHeight := face.Metrics().Height.Ceil()
	if h.Size.Y < 2*lineHeight {
		t.Errorf("Expected wrapping onto several lines, height %d", h.Size.Y)
	}
	if h.Size.X > 150 {
		t.Errorf("Header wider than max width: %d", h.Size.X)
	}

	// reading order: each word is right of the previous one or on a lower line
	for i := 1; i < len(h.Words); i++ {
		prev, cur := h.Words[i-1], h.Words[i]
		if cur.Dot.Y < prev.Dot.Y || (cur.Dot.Y == prev.Dot.Y && cur.Dot.X <= prev.Dot.X) {
			t.Errorf("Word %d (%s) out of reading order", i, cur.Text)
		}
	}

	for _, w := range h.Words {
		if w.Opacity() != 1 {
			t.Errorf("Word %s should start opaque", w.Text)
		}
	}
}

func TestEmptyHeader(t *testing.T) {
	face, err := NewFace(24)
	if err != nil {
		t.Fatal(err)
	}
	h := NewHeader("", face, 100)
	if len(h.Words) != 0 || len(h.Targets()) != 0 || h.Size != (image.Point{}) {
		t.Errorf("Expected empty header, got %+v", h)
	}
	h.Draw(image.NewRGBA(image.Rect(0, 0, 10, 10)), image.Point{}, color.RGBA{A: 255})
}

func TestDrawRespectsOpacity(t *testing.T) {
	face, err := NewFace(32)
	if err != nil {
		t.Fatal(err)
	}
	h := NewHeader("Hi", face, 500)

	drawn := func() int {
		dst := image.NewRGBA(image.Rect(0, 0, h.Size.X+4, h.Size.Y+4))
		h.Draw(dst, image.Pt(2, 2), color.RGBA{R: 255, G: 255, B: 255, A: 255})
		count := 0
		for i := 3; i < len(dst.Pix); i += 4 {
			if dst.Pix[i] != 0 {
				count++
			}
		}
		return count
	}

	if drawn() == 0 {
		t.Fatal("Opaque word should paint pixels")
	}

	timeline.RevealWords(1, h.Targets(), timeline.IntroWindow, timeline.FadeOut)
	if h.Words[0].Opacity() != 0 {
		t.Fatalf("Expected intro word faded out, got %f", h.Words[0].Opacity())
	}
	if drawn() != 0 {
		t.Error("Transparent word must not paint")
	}
}
