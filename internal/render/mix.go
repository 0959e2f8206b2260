package render

import "math"

// Fade scales every arc's opacity by level (0..1) in place and returns f.
func Fade(f Frame, level float64) Frame {
	if level >= 1 {
		return f
	}
	if !(level > 0) {
		level = 0
	}
	for i := range f {
		f[i].Opacity = uint8(math.Round(float64(f[i].Opacity) * level))
	}
	return f
}
