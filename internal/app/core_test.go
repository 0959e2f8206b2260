package app

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/arcprogress/internal/config"
	"github.com/coreman2200/arcprogress/internal/driver/fake"
	"github.com/coreman2200/arcprogress/internal/led"
	"github.com/coreman2200/arcprogress/internal/profile"
	"github.com/coreman2200/arcprogress/internal/sequence"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }

func newCore(t *testing.T, cfg *config.Config, opts ...Option) (*Core, *led.Sim, *fakeClock) {
	t.Helper()
	clk := &fakeClock{t: time.Unix(1700000000, 0)}
	sim := led.NewSim()
	opts = append([]Option{WithClock(clk.Now), WithLogger(zerolog.Nop())}, opts...)
	c, err := New(cfg, sim, opts...)
	require.NoError(t, err)
	return c, sim, clk
}

func TestRenderDefaultFrame(t *testing.T) {
	c, sim, _ := newCore(t, nil)
	snap := c.Render(0, 0)

	require.Len(t, snap.Frame, 5)
	assert.Equal(t, 270.0, snap.Frame[0].StartAngle)
	assert.Equal(t, 0.1, snap.Frame[0].SweepAngle)
	assert.Equal(t, uint64(1), snap.FrameID)

	// pixel 0 sits at 270 degrees on every ring, in the default blue
	require.Len(t, snap.RGB, 5*24*3)
	assert.Zero(t, snap.RGB[0])
	assert.Zero(t, snap.RGB[1])
	assert.NotZero(t, snap.RGB[2])
	assert.Zero(t, snap.RGB[3*12+2], "opposite pixel stays dark")

	last, frames := sim.Last()
	assert.Equal(t, snap.RGB, last)
	assert.Equal(t, uint64(1), frames)
}

func TestUnknownConfigProfileFallsBack(t *testing.T) {
	cfg := config.Default()
	cfg.Progress = "spinner"
	c, _, _ := newCore(t, cfg)

	assert.Equal(t, profile.OpacityTestStub, c.Eng.Progress())
	recent := c.Diag.Recent()
	require.Len(t, recent, 1)
	assert.Equal(t, "PROFILE.UNKNOWN", recent[0].Code)

	f := c.Render(0, 0).Frame
	assert.Equal(t, 0.0, f[0].StartAngle)
	assert.Equal(t, 360.0, f[0].SweepAngle)
}

func TestInvalidConfigRejected(t *testing.T) {
	cfg := config.Default()
	cfg.ArcCount = 0
	_, err := New(cfg, nil, WithLogger(zerolog.Nop()))
	assert.Error(t, err)
}

func TestSetProfilesUpdatesConfig(t *testing.T) {
	c, _, _ := newCore(t, nil)
	require.NoError(t, c.SetProfiles("butterfly_knife", "blinking", 8))

	assert.Equal(t, profile.ButterflyKnife, c.Eng.Progress())
	assert.Equal(t, profile.Blinking, c.Eng.Opacity())
	assert.Len(t, c.Colors(), 8)

	cfg := c.Config()
	assert.Equal(t, 8, cfg.ArcCount)
	assert.Equal(t, "butterfly_knife", cfg.Progress)
	assert.Equal(t, "blinking", cfg.Opacity)
	assert.Nil(t, cfg.Show)

	assert.Error(t, c.SetProfiles("rainbow", "", 31))
	assert.Equal(t, 8, c.Eng.ArcCount())
}

func TestProgramDrivesEngine(t *testing.T) {
	c, _, _ := newCore(t, nil)
	require.NoError(t, c.LoadProgram(sequence.Program{
		Version: "seq.v1",
		Clips: []sequence.Clip{
			{Name: "a", Progress: "rainbow", DurationS: 1, XFadeS: 0.5},
			{Name: "b", Progress: "gotcha", Opacity: "shiny", ArcCount: 3, DurationS: 1},
		},
	}))
	require.NoError(t, c.SeqCmd("start"))
	assert.Equal(t, profile.Rainbow, c.Eng.Progress())

	f := c.Render(0, 0.75).Frame
	for _, a := range f {
		assert.Equal(t, uint8(128), a.Opacity, "half way through the fade")
	}

	f = c.Render(0, 0.5).Frame
	assert.Equal(t, profile.Gotcha, c.Eng.Progress())
	assert.Equal(t, profile.Shiny, c.Eng.Opacity())
	assert.Len(t, f, 3)

	st := c.SeqStatus()
	assert.Equal(t, sequence.Running, st.State)
	assert.Equal(t, "b", st.Clip)
	assert.Equal(t, 1, st.Index)

	require.NotNil(t, c.Config().Show)
	assert.Error(t, c.SeqCmd("rewind"))
}

func TestRunTestPattern(t *testing.T) {
	c, _, _ := newCore(t, nil)
	assert.Error(t, c.RunTest("plane_z"))
	assert.Equal(t, "TEST.UNKNOWN", c.Diag.Recent()[0].Code)

	require.NoError(t, c.SetFPS(4)) // hold each step for one frame
	require.NoError(t, c.RunTest("arc_sweep"))
	for i := 0; i < 5; i++ {
		f := c.Render(0, 0).Frame
		assert.Equal(t, uint8(255), f[i].Opacity)
		assert.Equal(t, 360.0, f[i].SweepAngle)
	}
	c.Render(0, 0)
	recent := c.Diag.Recent()
	assert.Equal(t, "TEST.DONE", recent[len(recent)-1].Code)
}

func TestSinksReceiveFrames(t *testing.T) {
	var buf bytes.Buffer
	c, _, _ := newCore(t, nil, WithSinks(&fake.Driver{Out: &buf}))
	c.Render(0, 0)
	c.Render(100, 0)
	assert.Equal(t, 2, strings.Count(buf.String(), "arcs=5"))
}

func TestRunStopsWithContext(t *testing.T) {
	c, err := New(nil, led.NewSim(), WithLogger(zerolog.Nop()))
	require.NoError(t, err)
	frames := make(chan uint64, 1)
	c.OnFrame = func(s Snapshot) {
		select {
		case frames <- s.FrameID:
		default:
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx) }()

	select {
	case id := <-frames:
		assert.Equal(t, uint64(1), id)
	case <-time.After(2 * time.Second):
		t.Fatal("no frame rendered")
	}
	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
	require.NoError(t, c.Close())
}
