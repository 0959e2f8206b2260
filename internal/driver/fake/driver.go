package fake

import (
	"fmt"
	"io"
	"os"

	"github.com/coreman2200/arcprogress/internal/render"
)

// Driver prints a compact summary of the frame (first arc & avg opacity), useful for headless tests.
type Driver struct {
	Out   io.Writer
	Count int
}

func (d *Driver) Write(f render.Frame) error {
	d.Count++
	out := d.Out
	if out == nil {
		out = os.Stdout
	}
	if len(f) == 0 {
		_, err := fmt.Fprintf(out, "[frame %04d] empty\n", d.Count)
		return err
	}
	var sum float64
	for _, a := range f {
		sum += float64(a.Opacity)
	}
	_, err := fmt.Fprintf(out, "[frame %04d] arcs=%d avg_opacity=%.1f first=(%.1f,%.1f,%d)\n",
		d.Count, len(f), sum/float64(len(f)), f[0].StartAngle, f[0].SweepAngle, f[0].Opacity)
	return err
}
