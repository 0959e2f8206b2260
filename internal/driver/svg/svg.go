// Package svg writes frames as SVG snapshots.
package svg

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	svgo "github.com/ajstarks/svgo"

	"github.com/coreman2200/arcprogress/internal/layout"
	"github.com/coreman2200/arcprogress/internal/palette"
	"github.com/coreman2200/arcprogress/internal/render"
)

// Style sizes a snapshot.
type Style struct {
	Size       int // square canvas side
	Geometry   layout.Geometry
	Background string // "" leaves the canvas transparent
}

var DefaultStyle = Style{Size: 240, Geometry: layout.DefaultGeometry, Background: "white"}

// Draw renders one frame. Ring i sits 2*spacing*(i+1) inside the canvas edge.
func Draw(w io.Writer, f render.Frame, colors []palette.RGB, st Style) {
	if st.Size <= 0 {
		st.Size = DefaultStyle.Size
	}
	c := svgo.New(w)
	c.Start(st.Size, st.Size)
	if st.Background != "" {
		c.Rect(0, 0, st.Size, st.Size, "fill:"+st.Background)
	}
	l := layout.Layout{Rings: len(f), Geometry: st.Geometry}
	center := float64(st.Size) / 2
	for i, arc := range f {
		if arc.Opacity == 0 {
			continue
		}
		r := l.Radius(i, float64(st.Size))
		if r <= 0 {
			continue
		}
		style := strokeStyle(colorAt(colors, i), arc.Opacity, st.Geometry.StrokeWidth)
		if math.Abs(arc.SweepAngle) >= 360 {
			c.Circle(int(center), int(center), int(math.Round(r)), style)
			continue
		}
		sx, sy := polar(center, r, arc.StartAngle)
		ex, ey := polar(center, r, arc.StartAngle+arc.SweepAngle)
		large := math.Abs(arc.SweepAngle) > 180
		sweep := arc.SweepAngle > 0
		ri := int(math.Round(r))
		c.Arc(sx, sy, ri, ri, 0, large, sweep, ex, ey, style)
	}
	c.End()
}

func colorAt(colors []palette.RGB, i int) palette.RGB {
	if i < len(colors) {
		return colors[i]
	}
	return palette.RGB{R: 0, G: 0, B: 200}
}

func strokeStyle(c palette.RGB, opacity uint8, width float64) string {
	return fmt.Sprintf("fill:none;stroke:rgb(%d,%d,%d);stroke-opacity:%.3f;stroke-width:%.1f;stroke-linecap:round",
		c.R, c.G, c.B, float64(opacity)/255, width)
}

// polar returns the canvas point at angle degrees (clockwise from 3 o'clock).
func polar(center, r, deg float64) (int, int) {
	rad := deg * math.Pi / 180
	return int(math.Round(center + r*math.Cos(rad))), int(math.Round(center + r*math.Sin(rad)))
}

// Recorder is a render.Sink that writes every Every-th frame to Dir as
// frame_NNNNN.svg.
type Recorder struct {
	Dir   string
	Every int
	Style Style
	// Palette is read for every snapshot so arc-count changes recolour
	// later frames. Nil draws every arc in the fallback blue.
	Palette func() []palette.RGB

	n       int
	written int
}

func (r *Recorder) Write(f render.Frame) error {
	r.n++
	every := max(r.Every, 1)
	if (r.n-1)%every != 0 {
		return nil
	}
	path := filepath.Join(r.Dir, fmt.Sprintf("frame_%05d.svg", r.n-1))
	fh, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("svg snapshot: %w", err)
	}
	var colors []palette.RGB
	if r.Palette != nil {
		colors = r.Palette()
	}
	Draw(fh, f, colors, r.Style)
	r.written++
	return fh.Close()
}

// Written returns how many snapshots were saved.
func (r *Recorder) Written() int { return r.written }
