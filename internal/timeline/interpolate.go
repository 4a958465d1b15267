package timeline

import "math"

// Lerp performs linear interpolation between a and b.
// t is not clamped: values above 1 extrapolate past b.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Interpolate evaluates an image element between its keyframes.
// Position and depth follow local; scale follows local*scaleMul, so it lands first.
func Interpolate(start, end Keyframe, local, scaleMul float64) Keyframe {
	return Keyframe{
		X:     Lerp(start.X, end.X, local),
		Y:     Lerp(start.Y, end.Y, local),
		Z:     Lerp(start.Z, end.Z, local),
		Scale: Lerp(start.Scale, end.Scale, local*scaleMul),
	}
}

// CoverTransform returns the cover element's state for cover progress cp.
// The cover stays centered; depth moves up from -1000 and scale saturates at 1.
func CoverTransform(cp float64) Keyframe {
	return Keyframe{
		X:     0,
		Y:     0,
		Z:     startZ + 1000*cp,
		Scale: math.Min(1, cp*2),
	}
}
