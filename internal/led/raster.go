package led

import (
	"math"

	"github.com/coreman2200/arcprogress/internal/layout"
	"github.com/coreman2200/arcprogress/internal/palette"
	"github.com/coreman2200/arcprogress/internal/render"
)

// InArc reports whether angle (degrees) lies on the arc from start spanning
// sweep. Negative sweeps run the other way; |sweep| >= 360 covers the ring.
func InArc(angle, start, sweep float64) bool {
	if math.Abs(sweep) >= 360 {
		return true
	}
	if sweep < 0 {
		start += sweep
		sweep = -sweep
	}
	d := math.Mod(angle-start, 360)
	if d < 0 {
		d += 360
	}
	return d <= sweep
}

// Rasterize lights every pixel of ring i that falls on arc i, in the arc's
// colour scaled by its opacity and brightness. dst is reused when it is
// large enough.
func Rasterize(dst []byte, f render.Frame, l layout.Layout, colors []palette.RGB, brightness float64) []byte {
	n := l.Count() * 3
	if cap(dst) < n {
		dst = make([]byte, n)
	}
	dst = dst[:n]
	for i := range dst {
		dst[i] = 0
	}
	brightness = math.Max(0, math.Min(1, brightness))
	rings := min(l.Rings, len(f))
	for r := 0; r < rings; r++ {
		arc := f[r]
		if arc.Opacity == 0 {
			continue
		}
		c := palette.RGB{R: 255, G: 255, B: 255}
		if r < len(colors) {
			c = colors[r]
		}
		k := float64(arc.Opacity) / 255 * brightness
		pr := byte(math.Round(float64(c.R) * k))
		pg := byte(math.Round(float64(c.G) * k))
		pb := byte(math.Round(float64(c.B) * k))
		for p := 0; p < l.PixelsPerRing; p++ {
			if !InArc(l.PixelAngle(p), arc.StartAngle, arc.SweepAngle) {
				continue
			}
			idx := l.Index(r, p) * 3
			dst[idx], dst[idx+1], dst[idx+2] = pr, pg, pb
		}
	}
	return dst
}
