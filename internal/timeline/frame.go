package timeline

import "math"

// DurationToFrame converts a duration in seconds to a frame count,
// rounding up so a clip's trailing partial frame is never dropped.
func DurationToFrame(seconds float64, fps int) int {
	if seconds <= 0 || fps <= 0 {
		return 0
	}
	f := seconds * float64(fps)
	// An exact multiple that picked up binary rounding noise must not
	// be ceiled into an extra frame.
	if r := math.Round(f); math.Abs(f-r) < floatDrift {
		return int(r)
	}
	return int(math.Ceil(f))
}

// FrameToDuration converts a frame count to a duration in seconds.
func FrameToDuration(frames, fps int) float64 {
	if frames <= 0 || fps <= 0 {
		return 0
	}
	return float64(frames) / float64(fps)
}
