package sequence

import (
	"math"
	"time"

	"github.com/coreman2200/arcprogress/internal/easing"
)

// RepeatMode decides how a Track continues after each cycle.
type RepeatMode int

const (
	// Restart jumps back to the first keyframe every cycle.
	Restart RepeatMode = iota
	// Reverse plays every odd cycle backwards (ping-pong).
	Reverse
)

func (m RepeatMode) String() string {
	if m == Reverse {
		return "reverse"
	}
	return "restart"
}

// Track is an infinitely repeating keyframe sequence. Values are spread over
// len(Values)-1 equal segments of the eased cycle fraction.
//
// Track holds no playback state; Eval is a pure function of elapsed time.
type Track struct {
	Values   []float64
	Curve    easing.Curve
	Repeat   RepeatMode
	Duration time.Duration
}

// NewTrack is a shorthand for a Track literal.
func NewTrack(d time.Duration, curve easing.Curve, repeat RepeatMode, values ...float64) Track {
	return Track{Values: values, Curve: curve, Repeat: repeat, Duration: d}
}

// DurationMs returns the cycle length in milliseconds.
func (tr Track) DurationMs() float64 {
	return float64(tr.Duration) / float64(time.Millisecond)
}

// Phase returns the raw (uneased) cycle fraction at elapsedMs, mirrored on
// odd cycles when the track reverses. Negative time is treated as 0.
func (tr Track) Phase(elapsedMs float64) float64 {
	d := tr.DurationMs()
	if d <= 0 || !(elapsedMs > 0) {
		return 0
	}
	cycle := math.Floor(elapsedMs / d)
	f := math.Mod(elapsedMs, d) / d
	if tr.Repeat == Reverse && math.Mod(cycle, 2) == 1 {
		f = 1 - f
	}
	return f
}

// Eval returns the track value at elapsedMs since the track started.
func (tr Track) Eval(elapsedMs float64) float64 {
	if len(tr.Values) == 0 {
		return 0
	}
	if tr.DurationMs() <= 0 {
		return tr.Values[0]
	}
	return Interpolate(tr.Values, tr.Curve.Apply(tr.Phase(elapsedMs)))
}

// Interpolate maps fraction f across values as len(values)-1 equal linear
// segments. Fractions outside [0,1] extrapolate along the first or last
// segment.
func Interpolate(values []float64, f float64) float64 {
	n := len(values)
	switch n {
	case 0:
		return 0
	case 1:
		return values[0]
	}
	segs := n - 1
	pos := f * float64(segs)
	idx := int(math.Floor(pos))
	if idx < 0 {
		idx = 0
	}
	if idx > segs-1 {
		idx = segs - 1
	}
	local := pos - float64(idx)
	a, b := values[idx], values[idx+1]
	return a + (b-a)*local
}

// ChangeFilter suppresses reports that moved less than MinDelta from the
// last reported value. A zero MinDelta reports every value.
type ChangeFilter struct {
	MinDelta float64

	last   float64
	primed bool
}

// Report returns v when it moved far enough, otherwise the previous report.
func (c *ChangeFilter) Report(v float64) float64 {
	if !c.primed || c.MinDelta <= 0 || math.Abs(v-c.last) >= c.MinDelta {
		c.last = v
		c.primed = true
	}
	return c.last
}

// Reset forgets the last report.
func (c *ChangeFilter) Reset() {
	c.last = 0
	c.primed = false
}
