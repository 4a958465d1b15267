package director

import "github.com/ivlev/spotlight/internal/timeline"

// ProgressAt calculates scroll progress at a given time by interpolating between keyframes
func (s *Script) ProgressAt(currentTime float64) float64 {
	keyframes := s.Keyframes
	if len(keyframes) == 0 {
		return 0
	}

	// If before first keyframe, use first keyframe
	if currentTime <= keyframes[0].Time {
		return keyframes[0].Progress
	}

	// If after last keyframe, use last keyframe
	if currentTime >= keyframes[len(keyframes)-1].Time {
		return keyframes[len(keyframes)-1].Progress
	}

	// Find surrounding keyframes
	var prevKf, nextKf Keyframe
	for i := 0; i < len(keyframes)-1; i++ {
		if currentTime >= keyframes[i].Time && currentTime < keyframes[i+1].Time {
			prevKf = keyframes[i]
			nextKf = keyframes[i+1]
			break
		}
	}

	timeDelta := nextKf.Time - prevKf.Time
	if timeDelta == 0 {
		return nextKf.Progress
	}
	t := ease(prevKf.Ease, (currentTime-prevKf.Time)/timeDelta)

	return timeline.Lerp(prevKf.Progress, nextKf.Progress, t)
}

func ease(name string, t float64) float64 {
	switch name {
	case EaseLinear:
		return t
	case EaseHold:
		return 0
	default:
		return easeInOutCubic(t)
	}
}

// easeInOutCubic accelerates through the first half and mirrors it in the second
func easeInOutCubic(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	u := 2 - 2*t
	return 1 - u*u*u/2
}
