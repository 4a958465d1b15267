package analyzer

import (
	"image"
	"math"

	"golang.org/x/image/draw"
)

// EdgeDetector finds content as clusters of Sobel edges on a downscaled copy of the page
type EdgeDetector struct {
	WorkSize      int     // Longest side of the analysis copy
	EdgeThreshold float64 // Gradient magnitude threshold
	Dilate        int     // Radius used to merge nearby edges into blocks
	MinBlockArea  int     // Smallest block kept, in analysis pixels
}

func NewEdgeDetector() *EdgeDetector {
	return &EdgeDetector{
		WorkSize:      256,
		EdgeThreshold: 30,
		Dilate:        3,
		MinBlockArea:  12,
	}
}

// Detect returns blocks in the coordinates of img
func (d *EdgeDetector) Detect(img image.Image) ([]Block, error) {
	b := img.Bounds()
	if b.Empty() {
		return nil, nil
	}

	scale := 1.0
	if long := max(b.Dx(), b.Dy()); d.WorkSize > 0 && long > d.WorkSize {
		scale = float64(d.WorkSize) / float64(long)
	}
	w := max(1, int(math.Round(float64(b.Dx())*scale)))
	h := max(1, int(math.Round(float64(b.Dy())*scale)))

	gray := image.NewGray(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(gray, gray.Bounds(), img, b, draw.Src, nil)

	mask := sobel(gray, d.EdgeThreshold)
	mask = dilate(mask, w, h, d.Dilate)

	var blocks []Block
	for _, c := range components(mask, w, h) {
		if c.Area < d.MinBlockArea {
			continue
		}
		c.Rect = image.Rect(
			b.Min.X+int(math.Floor(float64(c.Rect.Min.X)/scale)),
			b.Min.Y+int(math.Floor(float64(c.Rect.Min.Y)/scale)),
			b.Min.X+int(math.Ceil(float64(c.Rect.Max.X)/scale)),
			b.Min.Y+int(math.Ceil(float64(c.Rect.Max.Y)/scale)),
		).Intersect(b)
		blocks = append(blocks, c)
	}
	return blocks, nil
}

// sobel marks pixels whose gradient magnitude exceeds threshold
func sobel(g *image.Gray, threshold float64) []bool {
	w, h := g.Rect.Dx(), g.Rect.Dy()
	mask := make([]bool, w*h)
	at := func(x, y int) float64 {
		return float64(g.Pix[y*g.Stride+x])
	}

	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			gx := at(x+1, y-1) + 2*at(x+1, y) + at(x+1, y+1) -
				at(x-1, y-1) - 2*at(x-1, y) - at(x-1, y+1)
			gy := at(x-1, y+1) + 2*at(x, y+1) + at(x+1, y+1) -
				at(x-1, y-1) - 2*at(x, y-1) - at(x+1, y-1)
			mask[y*w+x] = math.Hypot(gx, gy) > threshold
		}
	}
	return mask
}

// dilate grows the mask by r pixels in both directions, one axis at a time
func dilate(mask []bool, w, h, r int) []bool {
	if r <= 0 {
		return mask
	}
	tmp := make([]bool, len(mask))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			for k := max(0, x-r); k <= min(w-1, x+r); k++ {
				if mask[y*w+k] {
					tmp[y*w+x] = true
					break
				}
			}
		}
	}
	out := make([]bool, len(mask))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			for k := max(0, y-r); k <= min(h-1, y+r); k++ {
				if tmp[k*w+x] {
					out[y*w+x] = true
					break
				}
			}
		}
	}
	return out
}

// components labels 4-connected regions of the mask
func components(mask []bool, w, h int) []Block {
	visited := make([]bool, len(mask))
	var blocks []Block
	var stack []int

	for start := range mask {
		if !mask[start] || visited[start] {
			continue
		}
		visited[start] = true
		stack = append(stack[:0], start)
		x0, y0 := start%w, start/w
		r := image.Rect(x0, y0, x0+1, y0+1)
		area := 0

		for len(stack) > 0 {
			i := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			x, y := i%w, i/w
			area++
			r = r.Union(image.Rect(x, y, x+1, y+1))

			for _, n := range [4]int{i - 1, i + 1, i - w, i + w} {
				switch {
				case n < 0 || n >= len(mask):
					continue
				case (n == i-1 && x == 0) || (n == i+1 && x == w-1):
					continue
				case mask[n] && !visited[n]:
					visited[n] = true
					stack = append(stack, n)
				}
			}
		}
		blocks = append(blocks, Block{Rect: r, Area: area})
	}
	return blocks
}
