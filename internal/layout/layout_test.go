package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIndexSerpentine(t *testing.T) {
	l := Layout{Rings: 3, PixelsPerRing: 12, Order: Serpentine{FlipEveryRing: true}}
	assert.Equal(t, 36, l.Count())
	assert.Equal(t, 0, l.Index(0, 0))
	assert.Equal(t, 11, l.Index(0, 11))
	assert.Equal(t, 23, l.Index(1, 0))
	assert.Equal(t, 12, l.Index(1, 11))
	assert.Equal(t, 24, l.Index(2, 0))

	l.Order.FlipEveryRing = false
	assert.Equal(t, 12, l.Index(1, 0))
}

func TestPixelAngle(t *testing.T) {
	l := Layout{Rings: 1, PixelsPerRing: 8, OffsetDeg: 270}
	assert.Equal(t, 270.0, l.PixelAngle(0))
	assert.Equal(t, 0.0, l.PixelAngle(2))
	assert.Equal(t, 225.0, l.PixelAngle(7))

	l.OffsetDeg = -90
	assert.Equal(t, 270.0, l.PixelAngle(0))
	assert.Zero(t, Layout{}.PixelAngle(3))
}

func TestRadiusAndGeometry(t *testing.T) {
	l := Layout{Rings: 5, Geometry: DefaultGeometry}
	assert.Equal(t, 90.0, l.Radius(0, 200))
	assert.Equal(t, 50.0, l.Radius(4, 200))
	assert.Zero(t, l.Radius(20, 200))

	assert.NoError(t, DefaultGeometry.Validate())
	assert.Error(t, Geometry{ArcSpacing: 101}.Validate())
	assert.Error(t, Geometry{StrokeWidth: -1}.Validate())
}
