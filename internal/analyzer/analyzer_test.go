package analyzer

import (
	"image"
	"image/color"
	"testing"
)

// page returns a white page with black rectangles drawn on it
func page(w, h int, rects ...image.Rectangle) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 255
	}
	for _, r := range rects {
		for y := r.Min.Y; y < r.Max.Y; y++ {
			for x := r.Min.X; x < r.Max.X; x++ {
				img.SetGray(x, y, color.Gray{Y: 0})
			}
		}
	}
	return img
}

func TestEdgeDetector(t *testing.T) {
	img := page(200, 200, image.Rect(50, 50, 150, 150))

	blocks, err := NewEdgeDetector().Detect(img)
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	if len(blocks) != 1 {
		t.Fatalf("Expected one block, got %d: %v", len(blocks), blocks)
	}

	r := blocks[0].Rect
	if r.Min.X > 50 || r.Min.Y > 50 || r.Max.X < 150 || r.Max.Y < 150 {
		t.Errorf("Block %v does not cover the rectangle", r)
	}
	if r.Min.X < 40 || r.Min.Y < 40 || r.Max.X > 160 || r.Max.Y > 160 {
		t.Errorf("Block %v is too loose", r)
	}
}

func TestEdgeDetectorDownscales(t *testing.T) {
	img := page(1000, 600, image.Rect(100, 100, 300, 200), image.Rect(600, 400, 900, 500))

	blocks, err := NewEdgeDetector().Detect(img)
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	if len(blocks) != 2 {
		t.Fatalf("Expected two blocks, got %d: %v", len(blocks), blocks)
	}

	bounds := ContentBounds(blocks)
	if !image.Rect(100, 100, 900, 500).In(bounds) {
		t.Errorf("Content bounds %v miss the drawn rectangles", bounds)
	}
	if !bounds.In(img.Bounds()) {
		t.Errorf("Content bounds %v leave the page", bounds)
	}
}

func TestEdgeDetectorBlankPage(t *testing.T) {
	blocks, err := NewEdgeDetector().Detect(page(300, 300))
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	if len(blocks) != 0 {
		t.Errorf("Expected no blocks on a blank page, got %v", blocks)
	}
}

func TestTrim(t *testing.T) {
	img := page(400, 400, image.Rect(100, 120, 300, 280))

	trimmed, err := Trim(img, NewEdgeDetector(), 10)
	if err != nil {
		t.Fatalf("Trim failed: %v", err)
	}
	b := trimmed.Bounds()
	if !image.Rect(100, 120, 300, 280).In(b) {
		t.Errorf("Trimmed bounds %v cut into content", b)
	}
	if b.Dx() >= 400 || b.Dy() >= 400 {
		t.Errorf("Trimmed bounds %v were not reduced", b)
	}

	same, err := Trim(img, nil, 10)
	if err != nil || same != image.Image(img) {
		t.Errorf("Trim with no detector should return the input unchanged")
	}

	blank := page(100, 100)
	if got, _ := Trim(blank, NewEdgeDetector(), 0); got.Bounds() != blank.Bounds() {
		t.Errorf("Trim of a blank page changed bounds to %v", got.Bounds())
	}
}

func TestDetectorRegistry(t *testing.T) {
	tests := []struct {
		variant string
		wantNil bool
		wantErr bool
	}{
		{"edges", false, false},
		{"", true, false},
		{"none", true, false},
		{"ocr", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.variant, func(t *testing.T) {
			detector, err := NewDetector(tt.variant)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewDetector(%q) error = %v, wantErr %v", tt.variant, err, tt.wantErr)
			}
			if (detector == nil) != tt.wantNil {
				t.Errorf("NewDetector(%q) = %v, wantNil %v", tt.variant, detector, tt.wantNil)
			}
		})
	}
}
