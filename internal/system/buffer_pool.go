package system

import (
	"image"
	"image/color"
	"sync"
)

// FramePool переиспользует кадры *image.RGBA одного размера,
// чтобы не нагружать GC при рендеринге тысяч кадров.
type FramePool struct {
	pools map[image.Rectangle]*sync.Pool
	mu    sync.RWMutex
}

var globalPool = NewFramePool()

func NewFramePool() *FramePool {
	return &FramePool{pools: make(map[image.Rectangle]*sync.Pool)}
}

// GetFrame возвращает кадр из глобального пула, залитый цветом bg
func GetFrame(rect image.Rectangle, bg color.RGBA) *image.RGBA {
	img := globalPool.Get(rect)
	Fill(img, bg)
	return img
}

// PutFrame возвращает кадр в глобальный пул
func PutFrame(img *image.RGBA) {
	globalPool.Put(img)
}

func (p *FramePool) Get(rect image.Rectangle) *image.RGBA {
	p.mu.RLock()
	pool, exists := p.pools[rect]
	p.mu.RUnlock()

	if !exists {
		p.mu.Lock()
		// Double check
		pool, exists = p.pools[rect]
		if !exists {
			pool = &sync.Pool{
				New: func() any {
					return image.NewRGBA(rect)
				},
			}
			p.pools[rect] = pool
		}
		p.mu.Unlock()
	}

	return pool.Get().(*image.RGBA)
}

func (p *FramePool) Put(img *image.RGBA) {
	if img == nil {
		return
	}
	p.mu.RLock()
	pool, exists := p.pools[img.Rect]
	p.mu.RUnlock()

	if exists {
		pool.Put(img)
	}
}

// Fill заливает кадр одним цветом построчным копированием
func Fill(img *image.RGBA, c color.RGBA) {
	w := img.Rect.Dx()
	if w == 0 || img.Rect.Dy() == 0 {
		return
	}
	row := img.Pix[:w*4]
	for x := 0; x < w; x++ {
		row[x*4+0] = c.R
		row[x*4+1] = c.G
		row[x*4+2] = c.B
		row[x*4+3] = c.A
	}
	for y := 1; y < img.Rect.Dy(); y++ {
		copy(img.Pix[y*img.Stride:y*img.Stride+w*4], row)
	}
}
