package app

import (
	"context"
	"time"

	diag "github.com/coreman2200/arcprogress/internal/diagnostics"
	"github.com/coreman2200/arcprogress/internal/led"
	"github.com/coreman2200/arcprogress/internal/palette"
	"github.com/coreman2200/arcprogress/internal/render"
	"github.com/coreman2200/arcprogress/internal/sequence"
)

// Render advances the sequencer by dt seconds, evaluates the engine at nowMs
// and pushes the result through the LED pipeline and every sink.
func (c *Core) Render(nowMs, dt float64) Snapshot {
	c.Seq.With(func(p *sequence.Player) { p.Tick(dt) })

	c.mu.Lock()
	var f render.Frame
	testDone := false
	if c.test != nil {
		var ok bool
		if f, ok = c.test.Step(c.Eng.ArcCount()); !ok {
			c.test = nil
			testDone = true
		}
	}
	if c.test == nil {
		f = render.Fade(c.Eng.Tick(nowMs), c.fade)
	}
	c.rgb = led.Rasterize(c.rgb, f, c.layout, c.colors, c.cfg.Brightness)
	c.gamma.Apply(c.rgb)
	led.Limit(c.rgb, c.cfg.Power)
	c.frameID++
	snap := Snapshot{FrameID: c.frameID, Frame: f, RGB: append([]byte(nil), c.rgb...)}
	drv, sinks := c.drv, c.sinks
	c.mu.Unlock()

	if testDone {
		c.diagnose(diag.Diagnostic{Severity: diag.Info, Code: "TEST.DONE", Summary: "Test complete"})
	}
	if drv != nil {
		if err := drv.Write(snap.RGB); err != nil {
			c.log.Debug().Err(err).Msg("led write")
		}
	}
	for _, s := range sinks {
		if err := s.Write(snap.Frame); err != nil {
			c.log.Debug().Err(err).Msg("sink write")
		}
	}
	if c.OnFrame != nil {
		c.OnFrame(snap)
	}
	return snap
}

// Run renders frames at the configured rate until ctx is done. The wait
// before each frame is shortened by however long the previous one took.
func (c *Core) Run(ctx context.Context) error {
	last := c.clock()
	timer := time.NewTimer(0)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
		t := c.clock()
		dt := t.Sub(last).Seconds()
		last = t

		c.mu.Lock()
		now := c.Eng.Now()
		period := time.Second / time.Duration(c.cfg.FPS)
		c.mu.Unlock()
		c.Render(now, dt)

		next := period - c.clock().Sub(t)
		if next <= 0 {
			next = time.Millisecond
		}
		timer.Reset(next)
	}
}

// Colors returns the per-arc palette currently in use.
func (c *Core) Colors() []palette.RGB {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]palette.RGB(nil), c.colors...)
}
