package app

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/coreman2200/arcprogress/internal/config"
	diag "github.com/coreman2200/arcprogress/internal/diagnostics"
	"github.com/coreman2200/arcprogress/internal/layout"
	"github.com/coreman2200/arcprogress/internal/led"
	"github.com/coreman2200/arcprogress/internal/palette"
	"github.com/coreman2200/arcprogress/internal/profile"
	"github.com/coreman2200/arcprogress/internal/render"
	"github.com/coreman2200/arcprogress/internal/sequence"
	"github.com/coreman2200/arcprogress/internal/tests"
)

// Snapshot is one produced frame: the arc states after fading and the LED
// bytes that went to the driver.
type Snapshot struct {
	FrameID uint64
	Frame   render.Frame
	RGB     []byte
}

// Core owns the engine, the sequencer and the output pipeline. Engine state
// is guarded by mu; the sequencer has its own lock and its hooks take mu, so
// mu is never held while the player runs.
type Core struct {
	Eng  *render.Engine
	Seq  *sequence.SafePlayer
	Diag *diag.Log

	// OnFrame and OnDiag are set before Run and called outside the lock.
	OnFrame func(Snapshot)
	OnDiag  func(diag.Diagnostic)

	mu      sync.Mutex
	cfg     config.Config
	layout  layout.Layout
	colors  []palette.RGB
	gamma   led.LUT
	fade    float64
	rgb     []byte
	frameID uint64
	test    *tests.Runner
	drv     led.Driver
	sinks   []render.Sink
	started time.Time
	log     zerolog.Logger
	clock   func() time.Time
}

type Option func(*Core)

// WithSinks adds frame consumers (terminal, SVG, fake) fed after the driver.
func WithSinks(s ...render.Sink) Option { return func(c *Core) { c.sinks = append(c.sinks, s...) } }

func WithLogger(l zerolog.Logger) Option { return func(c *Core) { c.log = l } }

// WithClock replaces the wall clock for both the core and its engine.
func WithClock(now func() time.Time) Option { return func(c *Core) { c.clock = now } }

// New validates cfg, builds the engine and sequencer and starts animating.
// drv may be nil for headless runs.
func New(cfg *config.Config, drv led.Driver, opts ...Option) (*Core, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	c := &Core{
		Diag:  diag.NewLog(64),
		cfg:   *cfg,
		fade:  1,
		drv:   drv,
		log:   log.Logger,
		clock: time.Now,
	}
	for _, o := range opts {
		o(c)
	}
	c.started = c.clock()
	c.layout = cfg.Layout()
	c.gamma = led.BuildGamma(cfg.Gamma)
	c.rgb = make([]byte, c.layout.Count()*3)

	c.Eng = render.NewEngine(
		render.WithClock(c.clock),
		render.WithLogger(c.log),
		render.WithOpacityBounds(cfg.OpacityBounds),
		render.WithMinDelta(cfg.MinDelta),
	)
	settings, err := cfg.Settings()
	if err != nil {
		c.reportFallbacks(cfg.Progress, cfg.Opacity, settings)
	}
	if err := c.Eng.Apply(settings); err != nil {
		return nil, err
	}
	if c.colors, err = c.paletteFor(settings.ArcCount); err != nil {
		return nil, err
	}

	c.Seq = sequence.NewSafePlayer(c.hooks())
	if cfg.Show != nil {
		if err := c.LoadProgram(*cfg.Show); err != nil {
			return nil, err
		}
	}

	c.Eng.Start()
	c.log.Info().
		Str("progress", settings.Progress.String()).
		Str("opacity", settings.Opacity.String()).
		Int("arcs", settings.ArcCount).
		Int("leds", c.layout.Count()).
		Msg("core ready")
	return c, nil
}

func (c *Core) paletteFor(n int) ([]palette.RGB, error) {
	p, err := palette.Parse(c.cfg.Palette, n)
	if err != nil {
		return nil, err
	}
	return p.Colors(n), nil
}

// reportFallbacks records a diagnostic for each name that did not resolve.
func (c *Core) reportFallbacks(progress, opacity string, used render.Settings) {
	if _, err := profile.ParseProgress(progress); err != nil {
		c.diagnose(diag.ProfileFallback("progress", progress, used.Progress.String()))
	}
	if _, err := profile.ParseOpacity(opacity); err != nil {
		c.diagnose(diag.ProfileFallback("opacity", opacity, used.Opacity.String()))
	}
}

func (c *Core) diagnose(d diag.Diagnostic) {
	d = c.Diag.Add(d)
	c.log.Warn().Str("code", d.Code).Str("detail", d.Detail).Msg(d.Summary)
	if c.OnDiag != nil {
		c.OnDiag(d)
	}
}

// SetProfiles switches profiles by name. Unknown names fall back like the
// engine does and leave a diagnostic; arcCount 0 keeps the current count.
func (c *Core) SetProfiles(progress, opacity string, arcCount int) error {
	var fallback bool
	pid, err := profile.ParseProgress(progress)
	if err != nil {
		pid, fallback = profile.OpacityTestStub, true
	}
	oid, err := profile.ParseOpacity(opacity)
	if err != nil {
		oid, fallback = profile.None, true
	}
	if fallback {
		c.reportFallbacks(progress, opacity, render.Settings{Progress: pid, Opacity: oid})
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if arcCount == 0 {
		arcCount = c.Eng.ArcCount()
	}
	colors, err := c.paletteFor(arcCount)
	if err != nil {
		return err
	}
	if err := c.Eng.Configure(arcCount, pid, oid); err != nil {
		return err
	}
	if !c.Eng.Running() {
		c.Eng.Start()
	}
	c.colors = colors
	c.cfg.ArcCount, c.cfg.Progress, c.cfg.Opacity = arcCount, pid.String(), oid.String()
	return nil
}

// SetFade sets the global opacity level applied on top of the engine.
func (c *Core) SetFade(level float64) {
	c.mu.Lock()
	c.fade = min(1, max(0, level))
	c.mu.Unlock()
}

func (c *Core) SetBrightness(b float64) {
	c.mu.Lock()
	c.cfg.Brightness = min(1, max(0, b))
	c.mu.Unlock()
}

// SetFPS changes the loop rate from the next frame on.
func (c *Core) SetFPS(fps int) error {
	if fps <= 0 || fps > 240 {
		return fmt.Errorf("fps %d outside [1, 240]", fps)
	}
	c.mu.Lock()
	c.cfg.FPS = fps
	c.mu.Unlock()
	return nil
}

// RunTest replaces engine output with a test pattern until it completes.
func (c *Core) RunTest(name string) error {
	k := tests.Kind(name)
	if !k.Valid() {
		c.diagnose(diag.Diagnostic{
			Severity: diag.Warn, Code: "TEST.UNKNOWN", Summary: "Unknown test name",
			Evidence: map[string]any{"name": name},
		})
		return fmt.Errorf("unknown test %q", name)
	}
	c.mu.Lock()
	c.test = tests.NewRunner(tests.Plan{Kind: k, Hold: max(1, c.cfg.FPS/4)})
	c.mu.Unlock()
	c.diagnose(diag.Diagnostic{Severity: diag.Info, Code: "TEST.RUNNING", Summary: "Running test", Detail: name})
	return nil
}

// Config returns the live configuration, including changes made through
// SetProfiles and the setters, for persisting.
func (c *Core) Config() config.Config {
	var prog sequence.Program
	c.Seq.With(func(p *sequence.Player) { prog = p.Program() })

	c.mu.Lock()
	defer c.mu.Unlock()
	out := c.cfg
	if len(prog.Clips) > 0 {
		out.Show = &prog
	}
	return out
}

// Layout returns the physical ring layout.
func (c *Core) Layout() layout.Layout { return c.layout }

// Uptime reports time since New.
func (c *Core) Uptime() time.Duration { return c.clock().Sub(c.started) }

// FrameID is the number of frames rendered so far.
func (c *Core) FrameID() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.frameID
}

// Close stops the engine and releases the driver.
func (c *Core) Close() error {
	c.Seq.With(func(p *sequence.Player) { p.Stop() })
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Eng.Stop()
	var errs []error
	if c.drv != nil {
		errs = append(errs, c.drv.Close())
	}
	return errors.Join(errs...)
}
