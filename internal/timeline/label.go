package timeline

import (
	"fmt"
	"math"
)

// LongLabel renders the primary time label for the count-th long tick
// at the given scale. Coarser zooms widen the interval each long tick
// represents: a minute below the second regime, ten seconds below the
// frame regime, one unit otherwise.
func LongLabel(count, scale int) string {
	seconds := count
	switch {
	case scale < secondScaleMin:
		seconds *= 60
	case scale < frameScaleMin:
		seconds *= 10
	}
	return formatSeconds(seconds)
}

// FormatTime renders a millisecond duration as a clock label with
// ceiling-rounded seconds.
func FormatTime(ms int64) string {
	return formatSeconds(int(math.Ceil(float64(ms) / 1000)))
}

// formatSeconds produces H:MM:SS, dropping the hour segment when zero.
func formatSeconds(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := seconds % 3600 / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}

// ShortLabel renders the per-frame label between long ticks. Coarse
// zooms draw no frame labels at all, and the first frame of each step
// is suppressed so it never collides with the long label above it.
// The "f" suffix only fits at the widest zooms.
func ShortLabel(count, step, scale int) string {
	if scale < frameScaleMin || step <= 0 {
		return ""
	}
	index := count%step + 1
	if index == 1 {
		return ""
	}
	if scale > 80 {
		return fmt.Sprintf("%02df", index)
	}
	return fmt.Sprintf("%02d", index)
}
