package fake

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/arcprogress/internal/render"
)

func TestDriverSummarizesFrames(t *testing.T) {
	var buf bytes.Buffer
	d := &Driver{Out: &buf}
	require.NoError(t, d.Write(render.Frame{{StartAngle: 270, SweepAngle: 0.1, Opacity: 255}, {Opacity: 55}}))
	require.NoError(t, d.Write(nil))
	assert.Equal(t, 2, d.Count)
	assert.Equal(t,
		"[frame 0001] arcs=2 avg_opacity=155.0 first=(270.0,0.1,255)\n[frame 0002] empty\n",
		buf.String())
}
