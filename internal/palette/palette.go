// Package palette assigns a colour to every arc. Colours stay with the host;
// the engine only animates angles and opacity.
package palette

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// ErrTooManyColors is returned when a list holds more colours than arcs.
var ErrTooManyColors = errors.New("more colours than arcs")

// DefaultColor is the stock arc blue.
var DefaultColor = colorful.Color{R: 0, G: 0, B: 200.0 / 255.0}

// RGB is a plain 8-bit colour.
type RGB struct{ R, G, B uint8 }

func fromColorful(c colorful.Color) RGB {
	r, g, b := c.Clamped().RGB255()
	return RGB{r, g, b}
}

// Palette yields n arc colours.
type Palette interface {
	Colors(n int) []RGB
}

// Solid paints every arc the same colour.
type Solid struct{ Color colorful.Color }

func (s Solid) Colors(n int) []RGB {
	out := make([]RGB, n)
	c := fromColorful(s.Color)
	for i := range out {
		out[i] = c
	}
	return out
}

// Gray is the demo ramp: arc i gets grey level round(255*i/n).
type Gray struct{}

func (Gray) Colors(n int) []RGB {
	out := make([]RGB, n)
	for i := range out {
		v := uint8(math.Round(255 * float64(i) / float64(n)))
		out[i] = RGB{v, v, v}
	}
	return out
}

// Rainbow spreads hues evenly around the colour wheel.
type Rainbow struct {
	Saturation, Value float64
}

func (r Rainbow) Colors(n int) []RGB {
	s, v := r.Saturation, r.Value
	if s <= 0 {
		s = 1
	}
	if v <= 0 {
		v = 1
	}
	out := make([]RGB, n)
	for i := range out {
		out[i] = fromColorful(colorful.Hsv(360*float64(i)/float64(max(n, 1)), s, v))
	}
	return out
}

// Gradient blends From to To in Lab space across the arcs.
type Gradient struct{ From, To colorful.Color }

func (g Gradient) Colors(n int) []RGB {
	out := make([]RGB, n)
	for i := range out {
		t := 0.0
		if n > 1 {
			t = float64(i) / float64(n-1)
		}
		out[i] = fromColorful(g.From.BlendLab(g.To, t))
	}
	return out
}

// List assigns explicit colours; arcs past the end of the list get Fill.
type List struct {
	Items []colorful.Color
	Fill  colorful.Color
}

// Check reports ErrTooManyColors when the list cannot fit n arcs.
func (l List) Check(n int) error {
	if len(l.Items) > n {
		return fmt.Errorf("%d colours for %d arcs: %w", len(l.Items), n, ErrTooManyColors)
	}
	return nil
}

func (l List) Colors(n int) []RGB {
	out := make([]RGB, n)
	fill := fromColorful(l.Fill)
	for i := range out {
		if i < len(l.Items) {
			out[i] = fromColorful(l.Items[i])
		} else {
			out[i] = fill
		}
	}
	return out
}

// Spec is the serialisable description of a palette.
type Spec struct {
	Kind   string   `json:"kind" yaml:"kind"` // solid | gray | rainbow | gradient | list
	Color  string   `json:"color,omitempty" yaml:"color,omitempty"`
	To     string   `json:"to,omitempty" yaml:"to,omitempty"`
	Colors []string `json:"colors,omitempty" yaml:"colors,omitempty"`
}

// Parse builds a palette from spec. Colours are hex ("#0000c8"). arcs is
// used to validate lists.
func Parse(spec Spec, arcs int) (Palette, error) {
	base := DefaultColor
	if spec.Color != "" {
		c, err := colorful.Hex(spec.Color)
		if err != nil {
			return nil, fmt.Errorf("palette color %q: %w", spec.Color, err)
		}
		base = c
	}
	switch strings.ToLower(spec.Kind) {
	case "", "solid":
		return Solid{Color: base}, nil
	case "gray", "grey":
		return Gray{}, nil
	case "rainbow":
		return Rainbow{}, nil
	case "gradient":
		to, err := colorful.Hex(spec.To)
		if err != nil {
			return nil, fmt.Errorf("palette to %q: %w", spec.To, err)
		}
		return Gradient{From: base, To: to}, nil
	case "list":
		l := List{Fill: base}
		for _, s := range spec.Colors {
			c, err := colorful.Hex(s)
			if err != nil {
				return nil, fmt.Errorf("palette list color %q: %w", s, err)
			}
			l.Items = append(l.Items, c)
		}
		if err := l.Check(arcs); err != nil {
			return nil, err
		}
		return l, nil
	default:
		return nil, fmt.Errorf("unknown palette kind %q", spec.Kind)
	}
}
