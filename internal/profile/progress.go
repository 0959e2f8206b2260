package profile

import (
	"time"

	"github.com/coreman2200/arcprogress/internal/easing"
	"github.com/coreman2200/arcprogress/internal/sequence"
)

// Row holds the per-profile constants every rule reads from.
type Row struct {
	Duration     time.Duration
	PeakBeta     float64
	InitialBeta  float64
	InitialAlpha float64
}

var progressTable = map[ProgressID]Row{
	RaceCondition:   {3000 * time.Millisecond, 180, 0.1, 270},
	Swirly:          {6000 * time.Millisecond, 180, 0.1, 270},
	Whirlpool:       {5000 * time.Millisecond, 180, 0.1, 270},
	Hyperloop:       {5000 * time.Millisecond, 90, 0.1, 270},
	Metronome1:      {1000 * time.Millisecond, 60, 0.1, 270},
	Metronome2:      {1000 * time.Millisecond, 60, 0.1, 270},
	Metronome3:      {1000 * time.Millisecond, 60, 0.1, 270},
	Metronome4:      {1000 * time.Millisecond, 60, 0.1, 270},
	ButterflyKnife:  {1000 * time.Millisecond, 270, 0.1, 270},
	Rainbow:         {1000 * time.Millisecond, 360, 0.1, 270},
	Gotcha:          {1500 * time.Millisecond, 360, 0.1, 270},
	OpacityTestStub: {0, 360, 360, 0},
}

// RowOf returns the table row for id. Unknown ids get the test stub row.
func RowOf(id ProgressID) Row {
	if r, ok := progressTable[id]; ok {
		return r
	}
	return progressTable[OpacityTestStub]
}

// ProgressChannel is the pair of angle tracks driving one arc.
type ProgressChannel struct {
	Index int
	Alpha sequence.Track
	Beta  sequence.Track
	// BetaScale multiplies the evaluated beta. 1 for every profile but
	// Hyperloop.
	BetaScale float64
}

// Eval returns the raw (alpha, beta) angles at elapsedMs.
func (c ProgressChannel) Eval(elapsedMs float64) (alpha, beta float64) {
	return c.Alpha.Eval(elapsedMs), c.Beta.Eval(elapsedMs) * c.BetaScale
}

// BuildProgressChannel builds the channel for arc i of n under profile id.
func BuildProgressChannel(id ProgressID, i, n int) ProgressChannel {
	row := RowOf(id)
	a, b, p, d := row.InitialAlpha, row.InitialBeta, row.PeakBeta, row.Duration
	fi := float64(i)
	ch := ProgressChannel{Index: i, BetaScale: 1}

	switch id {
	case Swirly:
		ch.Alpha = sequence.NewTrack(d, easing.DecelerateBy(1-0.05*fi*fi), sequence.Reverse,
			a, 360+a, 720+a, 1080+a, 1260+a)
		ch.Beta = sequence.NewTrack(d, easing.DecelerateBy(1+0.05*fi*fi), sequence.Reverse, b, p, b)

	case Whirlpool:
		alpha := make([]float64, 7)
		for k := range alpha {
			alpha[k] = a + 360*float64(k)
		}
		ch.Alpha = sequence.NewTrack(d, easing.DecelerateBy(1+0.1*(fi+1)), sequence.Restart, alpha...)
		ch.Beta = sequence.NewTrack(d, easing.DecelerateBy(1-0.05*(fi+1)), sequence.Restart, b, p, b)

	case Hyperloop:
		s := 5 / float64(max(n, 1))
		sq := (fi + 1) * (fi + 1)
		curve := easing.AccelerateBy(1 - 0.1*sq*s)
		ch.Alpha = sequence.NewTrack(d, curve, sequence.Reverse, a, 360-a, 720-a, 1080-a, 1440-a)
		ch.Beta = sequence.NewTrack(d, curve, sequence.Reverse, b, p, b)
		ch.BetaScale = 1 + 0.01*sq*s

	case Metronome1, Metronome2, Metronome3, Metronome4:
		var alpha []float64
		switch id {
		case Metronome1:
			alpha = []float64{-0, 0}
		case Metronome2:
			alpha = []float64{-5, 5, -5}
		case Metronome3:
			alpha = []float64{10, b, 10, b, 10}
		default:
			alpha = []float64{b, 20, b}
		}
		ch.Alpha = sequence.NewTrack(d, easing.AccelDecel(), sequence.Reverse, alpha...)
		ch.Beta = sequence.NewTrack(d, easing.AccelDecel(), sequence.Reverse, p, -p)

	case ButterflyKnife:
		ch.Alpha = sequence.NewTrack(d, easing.AccelerateBy(1+0.05*fi*fi), sequence.Reverse, b, 20, b)
		ch.Beta = sequence.NewTrack(d, easing.AccelDecel(), sequence.Reverse, p, -p)

	case Rainbow, Gotcha:
		end := 180.0
		if id == Gotcha {
			end = 360
		}
		ch.Alpha = sequence.NewTrack(d, easing.AccelDecel(), sequence.Reverse, b, end)
		ch.Beta = sequence.NewTrack(d, easing.LinearCurve(), sequence.Restart, 0, p)

	default:
		// RaceCondition and the stub share one shape.
		k := 1 + 0.05*(fi+1)
		if i%2 == 1 {
			k = 1 - 0.05*(fi+1)
		}
		curve := easing.DecelerateBy(k)
		ch.Alpha = sequence.NewTrack(d, curve, sequence.Restart, a, 360+a, 720+a, 1080+a)
		ch.Beta = sequence.NewTrack(d, curve, sequence.Restart, b, p, b)
	}
	return ch
}

// Compose maps raw (alpha, beta) to the drawn (start, sweep) for profile id.
func Compose(id ProgressID, alpha, beta float64) (start, sweep float64) {
	a := RowOf(id).InitialAlpha
	switch id {
	case RaceCondition, Swirly, Whirlpool, Hyperloop:
		return alpha, beta
	case Metronome1, Metronome2:
		return a + alpha, beta
	case Metronome3, Metronome4, ButterflyKnife:
		return a - beta, alpha
	case Rainbow, Gotcha:
		return a + beta, -alpha
	default:
		r := RowOf(OpacityTestStub)
		return r.InitialAlpha, r.InitialBeta
	}
}

// Initial returns the composed angles an arc shows before animation starts.
func Initial(id ProgressID) (start, sweep float64) {
	r := RowOf(id)
	return Compose(id, r.InitialAlpha, r.InitialBeta)
}
