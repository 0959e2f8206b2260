package layout

import (
	"fmt"
	"math"
)

// Serpentine describes how the strip is wired between rings.
type Serpentine struct {
	// FlipEveryRing reverses the pixel order on odd rings (strip runs back
	// along the next ring instead of jumping to its start).
	FlipEveryRing bool `json:"flipEveryRing" yaml:"flip_every_ring"`
}

// Geometry sizes rings for hosts that draw them. Values are in host units
// (pixels, SVG user units, terminal cells).
type Geometry struct {
	ArcSpacing  float64 `json:"arcSpacing" yaml:"arc_spacing"`
	StrokeWidth float64 `json:"strokeWidth" yaml:"stroke_width"`
}

// DefaultGeometry matches the stock progress view.
var DefaultGeometry = Geometry{ArcSpacing: 5, StrokeWidth: 5}

// Validate checks the accepted ranges: spacing [0,100], stroke [0,500].
func (g Geometry) Validate() error {
	if g.ArcSpacing < 0 || g.ArcSpacing > 100 {
		return fmt.Errorf("arc spacing %.1f outside [0, 100]", g.ArcSpacing)
	}
	if g.StrokeWidth < 0 || g.StrokeWidth > 500 {
		return fmt.Errorf("stroke width %.1f outside [0, 500]", g.StrokeWidth)
	}
	return nil
}

// Layout is a set of concentric LED rings, one per arc, chained on a single
// strip. Ring 0 is the outermost.
type Layout struct {
	Rings         int        `json:"rings"`
	PixelsPerRing int        `json:"pixelsPerRing"`
	Order         Serpentine `json:"order"`
	// OffsetDeg is the angle of pixel 0, clockwise from 3 o'clock like the
	// arc angles.
	OffsetDeg float64  `json:"offsetDeg"`
	Geometry  Geometry `json:"geometry"`
}

// Index maps ring,pixel -> linear LED index (0..N-1).
func (l Layout) Index(ring, pixel int) int {
	p := pixel
	if l.Order.FlipEveryRing && ring%2 == 1 {
		p = l.PixelsPerRing - 1 - pixel
	}
	return ring*l.PixelsPerRing + p
}

func (l Layout) Count() int {
	return l.Rings * l.PixelsPerRing
}

// PixelAngle is the angle in [0,360) of a pixel's centre on its ring.
func (l Layout) PixelAngle(pixel int) float64 {
	if l.PixelsPerRing <= 0 {
		return 0
	}
	a := l.OffsetDeg + 360*float64(pixel)/float64(l.PixelsPerRing)
	return math.Mod(math.Mod(a, 360)+360, 360)
}

// Radius returns the radius of ring i inside a square of side size, stepping
// inward by twice the arc spacing per ring.
func (l Layout) Radius(ring int, size float64) float64 {
	r := size/2 - 2*l.Geometry.ArcSpacing*float64(ring+1)
	if r < 0 {
		return 0
	}
	return r
}
