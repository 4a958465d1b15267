package analyzer

import "image"

// Block is a connected region of content found on a page
type Block struct {
	Rect image.Rectangle
	Area int // Pixels of the region that carried edges
}

// Detector finds content regions in a picture
type Detector interface {
	Detect(img image.Image) ([]Block, error)
}

// ContentBounds returns the union of all block rectangles
func ContentBounds(blocks []Block) image.Rectangle {
	var r image.Rectangle
	for _, b := range blocks {
		r = r.Union(b.Rect)
	}
	return r
}
