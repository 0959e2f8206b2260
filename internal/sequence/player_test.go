package sequence

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/arcprogress/internal/easing"
)

func TestLoadRejectsBadPrograms(t *testing.T) {
	p := NewPlayer(Hooks{})
	assert.Error(t, p.Load(Program{}))
	assert.Error(t, p.Load(Program{Clips: []Clip{{Name: "A", DurationS: 1}}}))
	assert.Error(t, p.Load(Program{Clips: []Clip{{Name: "A", Progress: "swirly"}}}))
	assert.Error(t, p.Load(Program{Clips: []Clip{{Name: "A", Progress: "swirly", DurationS: 1, XFadeS: 2}}}))
	assert.NoError(t, p.Load(Program{Clips: []Clip{{Name: "A", Progress: "swirly", DurationS: 1, XFadeS: 1}}}))
}

func TestSequencerSwitchesAndFades(t *testing.T) {
	log := []string{}
	var levels []float64
	h := Hooks{
		SetProfiles: func(progress, opacity string, arcs int) {
			log = append(log, "Set:"+progress+"/"+opacity)
		},
		SetFade: func(level float64) { levels = append(levels, level) },
	}
	p := NewPlayer(h)
	prog := Program{
		Version: "seq.v1",
		Clips: []Clip{
			{Name: "A", Progress: "race_condition", Opacity: "blinking", DurationS: 4, XFadeS: 2},
			{Name: "B", Progress: "rainbow", DurationS: 4},
		},
	}
	require.NoError(t, p.Load(prog))
	p.Start()
	p.Tick(1.9) // t=1.9, before the fade window
	assert.Empty(t, levels)

	p.Tick(1.1) // t=3.0, halfway through the fade
	require.NotEmpty(t, levels)
	assert.InDelta(t, 0.5, levels[len(levels)-1], 1e-9)

	p.Tick(1.5) // t=4.5 -> switch to B at full level
	assert.Equal(t, []string{"Set:race_condition/blinking", "Set:rainbow/"}, log)
	assert.Equal(t, 1.0, levels[len(levels)-1])

	p.Tick(4.0) // end of program, no loop
	assert.Equal(t, Idle, p.State)
}

func TestFadeFollowsClipCurve(t *testing.T) {
	var levels []float64
	p := NewPlayer(Hooks{SetFade: func(level float64) { levels = append(levels, level) }})
	require.NoError(t, p.Load(Program{Clips: []Clip{
		{Name: "A", Progress: "swirly", DurationS: 4, XFadeS: 2, FadeCurve: easing.AccelerateBy(1)},
		{Name: "B", Progress: "gotcha", DurationS: 4},
	}}))
	p.Start()
	p.Tick(3.0) // halfway through the fade, accelerating
	require.NotEmpty(t, levels)
	assert.InDelta(t, 0.75, levels[len(levels)-1], 1e-9)

	p.Tick(0.5)
	assert.InDelta(t, 1-0.75*0.75, levels[len(levels)-1], 1e-9)
}

func TestSequencerLoopsAndSkipsShortClips(t *testing.T) {
	var seen []string
	p := NewPlayer(Hooks{SetProfiles: func(progress, _ string, _ int) { seen = append(seen, progress) }})
	require.NoError(t, p.Load(Program{
		Loop: true,
		Clips: []Clip{
			{Name: "A", Progress: "swirly", DurationS: 1},
			{Name: "B", Progress: "gotcha", DurationS: 1},
		},
	}))
	p.Start()
	p.Tick(2.5) // crosses B and wraps back into A
	assert.Equal(t, []string{"swirly", "gotcha", "swirly"}, seen)
	now, idx := p.Position()
	assert.InDelta(t, 0.5, now, 1e-9)
	assert.Equal(t, 0, idx)
	assert.Equal(t, Running, p.State)
}

func TestPauseResumeSeek(t *testing.T) {
	var seen []string
	p := NewPlayer(Hooks{SetProfiles: func(progress, _ string, _ int) { seen = append(seen, progress) }})
	require.NoError(t, p.Load(Program{Clips: []Clip{
		{Name: "A", Progress: "swirly", DurationS: 2},
		{Name: "B", Progress: "gotcha", DurationS: 2},
	}}))
	p.Start()
	p.Pause()
	p.Tick(5)
	now, _ := p.Position()
	assert.Zero(t, now)

	p.Resume()
	p.Seek(3)
	clip, ok := p.Current()
	require.True(t, ok)
	assert.Equal(t, "B", clip.Name)

	p.Seek(100)
	now, idx := p.Position()
	assert.Less(t, now, 4.0)
	assert.Equal(t, 1, idx)

	p.Stop()
	now, idx = p.Position()
	assert.Zero(t, now)
	assert.Zero(t, idx)
	assert.Equal(t, []string{"swirly", "gotcha", "gotcha"}, seen)
}
