package timeline

import "math"

// DefaultFPS is the frame rate the ruler math assumes when the caller
// has no project-specific rate.
const DefaultFPS = 30

// Scale regime thresholds. At or above frameScaleMin each tick is one
// frame; at or above secondScaleMin each tick is one second; below
// that each tick is six seconds.
const (
	frameScaleMin  = 70
	secondScaleMin = 30
)

// framesPerTick and secondsPerCoarseTick are the divisors compounded
// by GridPixel/GridFrame as the zoom coarsens.
const (
	framesPerTick        = 30
	secondsPerCoarseTick = 6
)

// defaultGridSize is used for any scale decade without a table entry.
const defaultGridSize = 10

// Tick width tables, keyed by the scale's decade.
var (
	frameGrid  = map[int]int{100: 100, 90: 50, 80: 20, 70: 10}
	secondGrid = map[int]int{60: 80, 50: 40, 40: 20, 30: 10}
	coarseGrid = map[int]int{20: 40, 10: 25, 0: 10}
)

// floatDrift absorbs binary rounding when a pixel offset produced by
// GridPixel is fed back through GridFrame. Real pointer offsets are
// orders of magnitude away from the guard.
const floatDrift = 1e-9

// GridSize returns the pixel width of the smallest ruler tick at the
// given zoom scale.
func GridSize(scale int) int {
	decade := scale / 10 * 10
	var table map[int]int
	switch {
	case scale >= frameScaleMin:
		table = frameGrid
	case scale >= secondScaleMin:
		table = secondGrid
	default:
		table = coarseGrid
	}
	if px, ok := table[decade]; ok {
		return px
	}
	return defaultGridSize
}

// GridPixel returns the pixel width spanned by frame frames at the
// given scale. Below the frame regime a tick covers 30 frames, and
// below the second regime it covers six seconds on top of that, so
// both divisors compound.
func GridPixel(scale, frame int) float64 {
	px := float64(GridSize(scale) * frame)
	if scale < frameScaleMin {
		px /= framesPerTick
	}
	if scale < secondScaleMin {
		px /= secondsPerCoarseTick
	}
	return px
}

// GridFrame maps a pixel offset back to a frame index. It is the
// left-inverse of GridPixel at tick-aligned frames; offsets inside a
// tick floor to the tick's first frame.
func GridFrame(offsetPx float64, scale, frameStep int) int {
	v := offsetPx
	if scale < frameScaleMin {
		v *= float64(frameStep)
	}
	if scale < secondScaleMin {
		v *= secondsPerCoarseTick
	}
	frame := math.Floor(v/float64(GridSize(scale)) + floatDrift)
	if frame < 0 {
		return 0
	}
	return int(frame)
}

// Step returns the playhead stepping unit: frame-accurate above scale
// 60, a fixed coarse step of 10 otherwise.
func Step(scale, frameStep int) int {
	if scale > 60 {
		return frameStep
	}
	return 10
}
