// Package timeline holds the coordinate math for the editor's ruler
// and playhead: conversions between zoom scale, grid pixel size, frame
// index, pixel offset, and display labels.
//
// Everything here is a pure function over its arguments. The rendering
// path calls these on every pointer move and repaint, so none of them
// allocate or touch shared state.
//
// # Zoom regimes
//
// The integer scale (0-100) is bucketed into three regimes:
//
//	scale >= 70   frame-level ticks (one tick per frame)
//	30 <= s < 70  second-level ticks (one tick per second)
//	scale < 30    six-second ticks
//
// GridPixel and GridFrame compound the 30 frames-per-tick and
// 6 seconds-per-tick divisors as the regimes coarsen, so a frame index
// maps to the same on-screen position regardless of how the caller
// arrived at it.
package timeline
