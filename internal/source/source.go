package source

import (
	"context"
	"fmt"
	"image"

	"github.com/gen2brain/go-fitz"
	"golang.org/x/sync/errgroup"

	"github.com/ivlev/spotlight/internal/system"
)

// Source provides the pictures used as image elements
type Source interface {
	Count() int
	Dimensions(index int) (width, height float64, err error)
	Image(index int) (image.Image, error)
	Close() error
}

// Open picks a PDF or image source by the path's extension
func Open(path string, dpi int) (Source, error) {
	if system.HasExtension(path, system.PDFExtensions) {
		return NewFitzPDFSource(path, dpi)
	}
	return NewImageSource(path)
}

// LoadAll decodes up to limit images concurrently, keeping source order
func LoadAll(ctx context.Context, src Source, limit, workers int) ([]image.Image, error) {
	n := src.Count()
	if limit > 0 && n > limit {
		n = limit
	}

	images := make([]image.Image, n)
	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i := 0; i < n; i++ {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			img, err := src.Image(i)
			if err != nil {
				return fmt.Errorf("image %d: %w", i, err)
			}
			images[i] = img
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return images, nil
}

type FitzPDFSource struct {
	doc  *fitz.Document
	path string
	dpi  int
}

func NewFitzPDFSource(path string, dpi int) (*FitzPDFSource, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, err
	}
	return &FitzPDFSource{doc: doc, path: path, dpi: dpi}, nil
}

func (f *FitzPDFSource) Count() int {
	return f.doc.NumPage()
}

func (f *FitzPDFSource) Dimensions(index int) (float64, float64, error) {
	rect, err := f.doc.Bound(index)
	if err != nil {
		return 0, 0, err
	}
	return float64(rect.Dx()), float64(rect.Dy()), nil
}

// Image renders one page. Each call opens its own document so pages can render in parallel.
func (f *FitzPDFSource) Image(index int) (image.Image, error) {
	workerDoc, err := fitz.New(f.path)
	if err != nil {
		return nil, err
	}
	defer workerDoc.Close()
	return workerDoc.ImageDPI(index, float64(f.dpi))
}

func (f *FitzPDFSource) Close() error {
	return f.doc.Close()
}
