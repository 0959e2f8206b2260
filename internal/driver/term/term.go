// Package term draws frames as concentric rings of block characters in a
// terminal.
package term

import (
	"math"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/coreman2200/arcprogress/internal/led"
	"github.com/coreman2200/arcprogress/internal/palette"
	"github.com/coreman2200/arcprogress/internal/render"
)

// Cells are roughly twice as tall as they are wide.
const cellAspect = 2.0

// Driver renders into a tcell screen. Each arc becomes one ring; ring 0 is
// the outermost.
type Driver struct {
	mu     sync.Mutex
	screen tcell.Screen
	colors []palette.RGB
	// Caption is printed on the first row when set.
	Caption string
}

func New(s tcell.Screen) *Driver { return &Driver{screen: s} }

// SetColors replaces the per-arc colours. Missing colours draw white.
func (d *Driver) SetColors(c []palette.RGB) {
	d.mu.Lock()
	d.colors = append(d.colors[:0], c...)
	d.mu.Unlock()
}

func (d *Driver) SetCaption(s string) {
	d.mu.Lock()
	d.Caption = s
	d.mu.Unlock()
}

// Write implements render.Sink.
func (d *Driver) Write(f render.Frame) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	s := d.screen
	s.Clear()
	w, h := s.Size()
	cx, cy := float64(w-1)/2, float64(h-1)/2
	outer := math.Min(cx, cy*cellAspect) - 1
	if n := len(f); n > 0 && outer > 0 {
		d.rings(f, w, h, cx, cy, outer)
	}
	for i, r := range d.Caption {
		if i >= w {
			break
		}
		s.SetContent(i, 0, r, nil, tcell.StyleDefault)
	}
	s.Show()
	return nil
}

func (d *Driver) rings(f render.Frame, w, h int, cx, cy, outer float64) {
	n := len(f)
	step := outer / float64(n+1)
	band := math.Max(0.5, step*0.35)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dx := float64(x) - cx
			dy := (float64(y) - cy) * cellAspect
			dist := math.Hypot(dx, dy)
			ring := int(math.Round((outer - dist) / step))
			if ring < 0 || ring >= n {
				continue
			}
			if math.Abs(dist-(outer-float64(ring)*step)) > band {
				continue
			}
			arc := f[ring]
			if arc.Opacity == 0 {
				continue
			}
			angle := math.Mod(math.Atan2(dy, dx)*180/math.Pi+360, 360)
			if !led.InArc(angle, arc.StartAngle, arc.SweepAngle) {
				continue
			}
			d.screen.SetContent(x, y, '█', nil, tcell.StyleDefault.Foreground(d.color(ring, arc.Opacity)))
		}
	}
}

func (d *Driver) color(ring int, opacity uint8) tcell.Color {
	c := palette.RGB{R: 255, G: 255, B: 255}
	if ring < len(d.colors) {
		c = d.colors[ring]
	}
	k := float64(opacity) / 255
	return tcell.NewRGBColor(
		int32(math.Round(float64(c.R)*k)),
		int32(math.Round(float64(c.G)*k)),
		int32(math.Round(float64(c.B)*k)),
	)
}
