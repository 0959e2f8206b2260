package profile

import (
	"math"

	"github.com/coreman2200/arcprogress/internal/sequence"
)

// The wavefront starts half a ring-count beyond the last arc and sweeps
// inward to half a ring-count before the first.
func rippleFrom(n int) float64 { return float64(n) + float64(n)/2 }
func rippleTo(n int) float64   { return -float64(n) / 2 }

// rippleChannel only uses its track for timing; the front comes from
// RippleFront.
type rippleChannel struct {
	index, count int
	bounds       Bounds
	cycle        sequence.Track
}

func (r rippleChannel) Eval(elapsedMs float64) uint8 {
	return RippleOpacity(r.index, r.count, RippleFront(r.count, r.cycle.Phase(elapsedMs)), r.bounds)
}

// RippleFront returns the wavefront position for n arcs at phase f in [0,1].
func RippleFront(n int, f float64) float64 {
	from, to := rippleFrom(n), rippleTo(n)
	return from + (to-from)*f
}

// RippleOpacity is the opacity of arc i of n when the wavefront sits at
// front. Arcs within n/2 of the front brighten toward b.Initial; the rest
// stay at b.Target.
func RippleOpacity(i, n int, front float64, b Bounds) uint8 {
	if n <= 0 {
		return b.Target
	}
	x := float64(i) - front
	p := float64(n) / 20
	half := float64(n) / 2
	shape := 1 - math.Pow(math.Abs(x), p)/math.Pow(half, p)
	in, tg := float64(b.Initial), float64(b.Target)
	v := tg + math.Round((in-tg)*shape)
	if v < tg {
		v = tg
	}
	return clampByte(v)
}
