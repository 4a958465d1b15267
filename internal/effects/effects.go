package effects

import (
	"fmt"
	"strings"

	"github.com/ivlev/spotlight/internal/config"
)

type Effect interface {
	GenerateFilter(params config.SegmentParams) string
}

// DefaultEffect fades the whole video in and out. Only the first and last
// segments get a fade; the segments in between pass through untouched.
type DefaultEffect struct{}

func (e *DefaultEffect) GenerateFilter(p config.SegmentParams) string {
	var filters []string

	fade := p.FadeDuration
	if d := p.Duration(); fade > d {
		fade = d
	}

	if fade > 0 {
		if p.SegmentIndex == 0 {
			filters = append(filters, fmt.Sprintf("fade=t=in:st=0:d=%f", fade))
		}
		if p.SegmentIndex == p.SegmentCount-1 {
			filters = append(filters, fmt.Sprintf("fade=t=out:st=%f:d=%f", p.Duration()-fade, fade))
		}
	}

	filters = append(filters, "format=yuv420p")
	return strings.Join(filters, ",")
}
