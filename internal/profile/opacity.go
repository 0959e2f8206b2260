package profile

import (
	"math"
	"time"

	"github.com/coreman2200/arcprogress/internal/easing"
	"github.com/coreman2200/arcprogress/internal/sequence"
)

// Bounds are the two opacity levels every opacity profile swings between.
type Bounds struct {
	Initial uint8 `json:"initial" yaml:"initial"`
	Target  uint8 `json:"target" yaml:"target"`
}

// DefaultBounds is fully opaque down to 50.
var DefaultBounds = Bounds{Initial: 255, Target: 50}

var opacityDurations = map[OpacityID]time.Duration{
	None:     0,
	Blinking: 2000 * time.Millisecond,
	Shiny:    1000 * time.Millisecond,
	Aura:     1000 * time.Millisecond,
	Ripple:   2000 * time.Millisecond,
}

// OpacityDuration returns the cycle length of an opacity profile.
func OpacityDuration(id OpacityID) time.Duration { return opacityDurations[id] }

// OpacityChannel yields one arc's opacity over time.
type OpacityChannel interface {
	Eval(elapsedMs float64) uint8
}

type trackOpacity struct{ tr sequence.Track }

// Eval truncates toward zero, then clamps into a byte.
func (o trackOpacity) Eval(elapsedMs float64) uint8 {
	return clampByte(math.Trunc(o.tr.Eval(elapsedMs)))
}

// BuildOpacityChannel builds the channel for arc i of n under opacity id.
// Unknown ids behave as None.
func BuildOpacityChannel(id OpacityID, i, n int, b Bounds) OpacityChannel {
	in, tg := float64(b.Initial), float64(b.Target)
	d := OpacityDuration(id)
	fi := float64(i)
	switch id {
	case Blinking:
		return trackOpacity{sequence.NewTrack(d, easing.AccelDecel(), sequence.Restart, in, tg, in)}
	case Shiny:
		return trackOpacity{sequence.NewTrack(d, easing.DecelerateBy(1+0.8*(fi+1)), sequence.Reverse, in, tg, in)}
	case Aura:
		return trackOpacity{sequence.NewTrack(d, easing.AnticipateBy(1+0.8*(fi+1)), sequence.Reverse, in, tg, in, tg)}
	case Ripple:
		return rippleChannel{
			index:  i,
			count:  n,
			bounds: b,
			cycle:  sequence.NewTrack(d, easing.LinearCurve(), sequence.Restart),
		}
	default:
		return trackOpacity{sequence.NewTrack(0, easing.LinearCurve(), sequence.Restart, in, in)}
	}
}

func clampByte(v float64) uint8 {
	switch {
	case math.IsNaN(v) || v <= 0:
		return 0
	case v >= 255:
		return 255
	}
	return uint8(v)
}
