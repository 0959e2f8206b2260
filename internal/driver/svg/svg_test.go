package svg

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/arcprogress/internal/palette"
	"github.com/coreman2200/arcprogress/internal/render"
)

func TestDrawArcsAndRings(t *testing.T) {
	var buf bytes.Buffer
	f := render.Frame{
		{StartAngle: 0, SweepAngle: 360, Opacity: 255},
		{StartAngle: 270, SweepAngle: 90, Opacity: 128},
		{StartAngle: 0, SweepAngle: 90, Opacity: 0},
	}
	Draw(&buf, f, []palette.RGB{{R: 255}, {G: 255}}, DefaultStyle)
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "<?xml"))
	assert.Contains(t, out, `<circle cx="120" cy="120" r="110"`)
	assert.Contains(t, out, "stroke:rgb(255,0,0)")
	// arc from 12 o'clock to 3 o'clock on the second ring (r=100)
	assert.Contains(t, out, `<path d="M120,20 A100,100 0 0 1 220,120"`)
	assert.Contains(t, out, "stroke-opacity:0.502")
	// invisible arcs are skipped
	assert.NotContains(t, out, "rgb(0,0,200)")
	assert.Equal(t, 1, strings.Count(out, "<path"))
}

func TestRecorderWritesEveryNth(t *testing.T) {
	dir := t.TempDir()
	r := &Recorder{Dir: dir, Every: 2, Style: DefaultStyle}
	for i := 0; i < 5; i++ {
		require.NoError(t, r.Write(render.Frame{{SweepAngle: 45, Opacity: 255}}))
	}
	assert.Equal(t, 3, r.Written())
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "frame_00000.svg", entries[0].Name())
	_, err = os.Stat(filepath.Join(dir, "frame_00004.svg"))
	assert.NoError(t, err)
}

func TestRecorderFollowsPalette(t *testing.T) {
	dir := t.TempDir()
	colors := []palette.RGB{{R: 255}}
	r := &Recorder{Dir: dir, Style: DefaultStyle, Palette: func() []palette.RGB { return colors }}
	f := render.Frame{{SweepAngle: 45, Opacity: 255}, {SweepAngle: 45, Opacity: 255}}

	require.NoError(t, r.Write(f))
	colors = []palette.RGB{{G: 255}, {B: 255}}
	require.NoError(t, r.Write(f))

	first, err := os.ReadFile(filepath.Join(dir, "frame_00000.svg"))
	require.NoError(t, err)
	assert.Contains(t, string(first), "stroke:rgb(255,0,0)")
	assert.Contains(t, string(first), "stroke:rgb(0,0,200)")

	second, err := os.ReadFile(filepath.Join(dir, "frame_00001.svg"))
	require.NoError(t, err)
	assert.Contains(t, string(second), "stroke:rgb(0,255,0)")
	assert.Contains(t, string(second), "stroke:rgb(0,0,255)")
	assert.NotContains(t, string(second), "rgb(255,0,0)")
}
