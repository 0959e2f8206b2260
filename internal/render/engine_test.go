package render

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/arcprogress/internal/profile"
)

// fakeClock advances only when told to.
type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time      { return c.t }
func (c *fakeClock) Add(d time.Duration) { c.t = c.t.Add(d) }

func newClock() *fakeClock { return &fakeClock{t: time.Unix(1700000000, 0)} }

func quietEngine(opts ...Option) *Engine {
	return NewEngine(append([]Option{WithLogger(zerolog.Nop())}, opts...)...)
}

func TestNewEngineDefaults(t *testing.T) {
	e := quietEngine()
	assert.Equal(t, 5, e.ArcCount())
	assert.Equal(t, profile.RaceCondition, e.Progress())
	assert.Equal(t, profile.None, e.Opacity())
	assert.False(t, e.Running())

	f := e.Tick(1234)
	require.Len(t, f, 5)
	for _, a := range f {
		assert.Equal(t, ArcState{StartAngle: 270, SweepAngle: 0.1, Opacity: 255}, a)
	}
}

func TestConfigureRejectsArcCount(t *testing.T) {
	e := quietEngine()
	for _, n := range []int{0, -3, 31} {
		err := e.Configure(n, profile.Swirly, profile.Blinking)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrArcCountRange))
		assert.True(t, IsConfigError(err))
		var ce *ConfigError
		require.ErrorAs(t, err, &ce)
		assert.Equal(t, "arcCount", ce.Field)
		assert.Equal(t, n, ce.Value)
	}
	// nothing changed
	assert.Equal(t, DefaultSettings, e.Settings())
}

func TestConfigureFallsBackOnUnknownIDs(t *testing.T) {
	var buf bytes.Buffer
	e := NewEngine(WithLogger(zerolog.New(&buf)))
	require.NoError(t, e.Configure(3, profile.ProgressID(77), profile.OpacityID(-4)))
	assert.Equal(t, profile.OpacityTestStub, e.Progress())
	assert.Equal(t, profile.None, e.Opacity())
	assert.Contains(t, buf.String(), "unknown progress profile")
	assert.Contains(t, buf.String(), "unknown opacity profile")

	e.StartAt(0)
	for _, a := range e.Tick(500) {
		assert.Equal(t, ArcState{StartAngle: 0, SweepAngle: 360, Opacity: 255}, a)
	}
}

func TestRaceConditionFirstArcAtStart(t *testing.T) {
	e := quietEngine()
	e.StartAt(1000)
	f := e.Tick(1000)
	require.Len(t, f, 5)
	assert.Equal(t, 270.0, f[0].StartAngle)
	assert.Equal(t, 0.1, f[0].SweepAngle)

	// before the origin behaves as the origin
	assert.Equal(t, f, e.Tick(10))
}

func TestBlinkingOpacityThroughCycle(t *testing.T) {
	e := quietEngine()
	require.NoError(t, e.SetOpacity(profile.Blinking))
	e.StartAt(0)
	for _, a := range e.Tick(0) {
		assert.Equal(t, uint8(255), a.Opacity)
	}
	for _, a := range e.Tick(1000) {
		assert.InDelta(t, 50, int(a.Opacity), 1)
	}
}

func TestRippleFirstArcStartsAtTarget(t *testing.T) {
	e := quietEngine()
	require.NoError(t, e.Configure(10, profile.Rainbow, profile.Ripple))
	e.StartAt(0)
	f := e.Tick(0)
	require.Len(t, f, 10)
	assert.Equal(t, uint8(50), f[0].Opacity)
}

func TestEveryProfileFillsEveryArc(t *testing.T) {
	ids := append(profile.Progressions(), profile.OpacityTestStub)
	for _, id := range ids {
		for _, op := range profile.Opacities() {
			for _, n := range []int{1, 2, 5, 17, 30} {
				e := quietEngine()
				require.NoError(t, e.Configure(n, id, op))
				e.StartAt(0)
				for _, ms := range []float64{0, 333, 1499.5, 7000} {
					f := e.Tick(ms)
					require.Len(t, f, n, "%s/%s n=%d", id, op, n)
				}
			}
		}
	}
}

func TestTickIsDeterministic(t *testing.T) {
	a, b := quietEngine(), quietEngine()
	for _, e := range []*Engine{a, b} {
		require.NoError(t, e.Configure(7, profile.Hyperloop, profile.Aura))
		e.StartAt(250)
	}
	for _, ms := range []float64{250, 900, 4321.5, 12000} {
		assert.Equal(t, a.Tick(ms), b.Tick(ms))
		assert.Equal(t, a.Tick(ms), a.Tick(ms))
	}
}

func TestReconfigureWhileRunningRestarts(t *testing.T) {
	clk := newClock()
	e := quietEngine(WithClock(clk.Now))
	e.Start()
	clk.Add(700 * time.Millisecond)
	require.NoError(t, e.SetArcCount(8))
	assert.True(t, e.Running())

	f := e.Tick(e.Now())
	require.Len(t, f, 8)
	// restarted at the reconfigure time, so arc 0 is back at its first keyframe
	assert.Equal(t, 270.0, f[0].StartAngle)

	e.Stop()
	e.Stop()
	assert.False(t, e.Running())
	assert.Equal(t, e.Idle(), e.Tick(e.Now()))
}

func TestMinDeltaHoldsSmallMoves(t *testing.T) {
	e := quietEngine(WithMinDelta(1000))
	require.NoError(t, e.SetProgress(profile.Whirlpool))
	e.StartAt(0)
	first := e.Tick(0)
	later := e.Tick(400)
	assert.Equal(t, first[0].StartAngle, later[0].StartAngle)
}

func TestOpacityBoundsOption(t *testing.T) {
	e := quietEngine(WithOpacityBounds(profile.Bounds{Initial: 200, Target: 100}))
	require.NoError(t, e.SetOpacity(profile.Blinking))
	assert.Equal(t, uint8(200), e.Idle()[0].Opacity)
	e.StartAt(0)
	assert.InDelta(t, 100, int(e.Tick(1000)[0].Opacity), 1)
}

func TestFade(t *testing.T) {
	f := Frame{{Opacity: 255}, {Opacity: 100}}
	Fade(f, 0.5)
	if f[0].Opacity != 128 || f[1].Opacity != 50 {
		t.Fatalf("expected half opacity, got %#v", f)
	}
	Fade(f, -1)
	if f[0].Opacity != 0 {
		t.Fatalf("expected dark frame, got %#v", f)
	}
}
