package render

import (
	"math"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/coreman2200/arcprogress/internal/profile"
	"github.com/coreman2200/arcprogress/internal/sequence"
)

// Engine evaluates every arc's channels at a host supplied time. It is not
// safe for concurrent use; hosts serialize access.
type Engine struct {
	arcCount int
	progress profile.ProgressID
	opacity  profile.OpacityID
	bounds   profile.Bounds
	minDelta float64

	clock func() time.Time
	t0    time.Time
	log   zerolog.Logger

	running  bool
	originMs float64
	prog     []profile.ProgressChannel // nil for the test stub
	opac     []profile.OpacityChannel
	filters  []angleFilter

	// Last holds timings of the latest Tick.
	Last struct {
		EvalMS float64
	}
}

type angleFilter struct{ alpha, beta sequence.ChangeFilter }

// Option configures an Engine.
type Option func(*Engine)

// WithClock replaces the wall clock used by Start and Now.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.clock = now
		}
	}
}

func WithLogger(l zerolog.Logger) Option { return func(e *Engine) { e.log = l } }

// WithOpacityBounds overrides the 255 -> 50 opacity swing.
func WithOpacityBounds(b profile.Bounds) Option { return func(e *Engine) { e.bounds = b } }

// WithMinDelta suppresses angle changes smaller than d degrees.
func WithMinDelta(d float64) Option { return func(e *Engine) { e.minDelta = d } }

// NewEngine returns a stopped engine with 5 arcs, RaceCondition and no
// opacity animation.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		arcCount: DefaultSettings.ArcCount,
		progress: DefaultSettings.Progress,
		opacity:  DefaultSettings.Opacity,
		bounds:   profile.DefaultBounds,
		clock:    time.Now,
		log:      log.Logger,
	}
	for _, o := range opts {
		o(e)
	}
	e.t0 = e.clock()
	return e
}

// Now returns milliseconds on the engine clock since construction.
func (e *Engine) Now() float64 {
	return float64(e.clock().Sub(e.t0)) / float64(time.Millisecond)
}

// Configure replaces arc count and profiles in one step. Unknown profile ids
// fall back to the test stub (progress) or None (opacity). A running engine
// restarts with the new settings.
func (e *Engine) Configure(arcCount int, progress profile.ProgressID, opacity profile.OpacityID) error {
	if arcCount < MinArcs || arcCount > MaxArcs {
		return &ConfigError{Op: "configure", Field: "arcCount", Value: arcCount, Err: ErrArcCountRange}
	}
	if !progress.Valid() {
		e.log.Warn().Int("progress", int(progress)).Msg("unknown progress profile, using opacity_test_stub")
		progress = profile.OpacityTestStub
	}
	if !opacity.Valid() {
		e.log.Warn().Int("opacity", int(opacity)).Msg("unknown opacity profile, using none")
		opacity = profile.None
	}
	e.arcCount, e.progress, e.opacity = arcCount, progress, opacity
	if e.running {
		e.Stop()
		e.Start()
	}
	return nil
}

// Apply is Configure taking a Settings value.
func (e *Engine) Apply(s Settings) error { return e.Configure(s.ArcCount, s.Progress, s.Opacity) }

func (e *Engine) SetProgress(id profile.ProgressID) error {
	return e.Configure(e.arcCount, id, e.opacity)
}

func (e *Engine) SetOpacity(id profile.OpacityID) error {
	return e.Configure(e.arcCount, e.progress, id)
}

func (e *Engine) SetArcCount(n int) error {
	return e.Configure(n, e.progress, e.opacity)
}

func (e *Engine) Settings() Settings {
	return Settings{ArcCount: e.arcCount, Progress: e.progress, Opacity: e.opacity}
}

func (e *Engine) ArcCount() int                { return e.arcCount }
func (e *Engine) Progress() profile.ProgressID { return e.progress }
func (e *Engine) Opacity() profile.OpacityID   { return e.opacity }
func (e *Engine) Bounds() profile.Bounds       { return e.bounds }
func (e *Engine) Running() bool                { return e.running }

// Start begins animating at the current clock time.
func (e *Engine) Start() { e.StartAt(e.Now()) }

// StartAt begins animating with nowMs as time zero. Channels are built once
// here; Tick only evaluates them.
func (e *Engine) StartAt(nowMs float64) {
	n := e.arcCount
	e.originMs = nowMs
	e.prog = nil
	if e.progress != profile.OpacityTestStub {
		e.prog = make([]profile.ProgressChannel, n)
		for i := range e.prog {
			e.prog[i] = profile.BuildProgressChannel(e.progress, i, n)
		}
	}
	e.opac = make([]profile.OpacityChannel, n)
	e.filters = make([]angleFilter, n)
	for i := 0; i < n; i++ {
		e.opac[i] = profile.BuildOpacityChannel(e.opacity, i, n, e.bounds)
		e.filters[i] = angleFilter{
			alpha: sequence.ChangeFilter{MinDelta: e.minDelta},
			beta:  sequence.ChangeFilter{MinDelta: e.minDelta},
		}
	}
	e.running = true
	e.log.Debug().
		Str("progress", e.progress.String()).
		Str("opacity", e.opacity.String()).
		Int("arcs", n).
		Msg("engine started")
}

// Stop discards the channels. Calling it on a stopped engine does nothing.
func (e *Engine) Stop() {
	if !e.running {
		return
	}
	e.running = false
	e.prog, e.opac, e.filters = nil, nil, nil
}

// Idle returns the frame shown before Start: initial angles at initial
// opacity.
func (e *Engine) Idle() Frame {
	start, sweep := profile.Initial(e.progress)
	f := make(Frame, e.arcCount)
	for i := range f {
		f[i] = ArcState{StartAngle: start, SweepAngle: sweep, Opacity: e.bounds.Initial}
	}
	return f
}

// Tick evaluates every arc at nowMs and returns one state per arc in index
// order. Times before the start are treated as the start.
func (e *Engine) Tick(nowMs float64) Frame {
	if !e.running {
		return e.Idle()
	}
	t := time.Now()
	elapsed := nowMs - e.originMs
	if !(elapsed > 0) || math.IsInf(elapsed, 0) {
		elapsed = 0
	}
	initStart, initSweep := profile.Initial(e.progress)
	f := make(Frame, e.arcCount)
	for i := range f {
		start, sweep := initStart, initSweep
		if e.prog != nil {
			alpha, beta := e.prog[i].Eval(elapsed)
			alpha = e.filters[i].alpha.Report(alpha)
			beta = e.filters[i].beta.Report(beta)
			start, sweep = profile.Compose(e.progress, alpha, beta)
		}
		f[i] = ArcState{StartAngle: start, SweepAngle: sweep, Opacity: e.opac[i].Eval(elapsed)}
	}
	e.Last.EvalMS = float64(time.Since(t).Microseconds()) / 1000.0
	return f
}
