package tests

import "github.com/coreman2200/arcprogress/internal/render"

type Kind string

const (
	None        Kind = ""
	ArcSweep    Kind = "arc_sweep"
	OpacityRamp Kind = "opacity_ramp"
	Quadrants   Kind = "quadrants"
)

// Kinds lists the runnable test patterns.
var Kinds = []Kind{ArcSweep, OpacityRamp, Quadrants}

// Valid reports whether k names a runnable pattern.
func (k Kind) Valid() bool {
	for _, v := range Kinds {
		if v == k {
			return true
		}
	}
	return false
}

type Plan struct {
	Kind Kind
	// Hold repeats every step for this many frames. 0 means 1.
	Hold int
}

type Runner struct {
	plan  Plan
	step  int
	frame int
}

func NewRunner(plan Plan) *Runner { return &Runner{plan: plan} }
func (r *Runner) Kind() Kind      { return r.plan.Kind }

const rampSteps = 16

// Step returns the next test frame for n arcs; ok is false when complete.
func (r *Runner) Step(n int) (f render.Frame, ok bool) {
	f = make(render.Frame, n)
	step := r.step

	switch r.plan.Kind {
	case ArcSweep:
		if step >= n {
			return f, false
		}
		f[step] = render.ArcState{StartAngle: 0, SweepAngle: 360, Opacity: 255}
	case OpacityRamp:
		if step > rampSteps {
			return f, false
		}
		op := uint8(min(255, step*255/rampSteps))
		for i := range f {
			f[i] = render.ArcState{SweepAngle: 360, Opacity: op}
		}
	case Quadrants:
		if step >= 4 {
			return f, false
		}
		for i := range f {
			f[i] = render.ArcState{StartAngle: float64(90 * step), SweepAngle: 90, Opacity: 255}
		}
	default:
		return f, false
	}

	r.frame++
	if r.frame >= max(r.plan.Hold, 1) {
		r.frame = 0
		r.step++
	}
	return f, true
}
