package timeline

import "math"

const (
	// StaggerStep is the progress delay between consecutive images
	StaggerStep = 0.03
	// ImageRate speeds up each image's local progress relative to the global one
	ImageRate = 4.0

	// CoverDelay is the global progress at which the cover starts moving
	CoverDelay = 0.7
	// CoverRate speeds up the cover's local progress
	CoverRate = 4.0

	mobileScaleMultiplier  = 4.0
	desktopScaleMultiplier = 2.0
)

// ImageProgress returns the local progress of image i at global progress p.
// The result is clamped below at 0 but not above 1.
func ImageProgress(p float64, i int) float64 {
	return math.Max(0, (p-float64(i)*StaggerStep)*ImageRate)
}

// CoverProgress returns the local progress of the cover element at global progress p
func CoverProgress(p float64) float64 {
	return math.Max(0, (p-CoverDelay)*CoverRate)
}

// ScaleMultiplier is how much faster scale runs than position and depth
func ScaleMultiplier(mobile bool) float64 {
	if mobile {
		return mobileScaleMultiplier
	}
	return desktopScaleMultiplier
}
