// Package easing maps a normalized animation phase onto a motion curve.
//
// Curves take a phase f in [0,1] and return the eased phase. Anticipate may
// return values outside [0,1]; callers that interpolate keyframes extrapolate
// along the end segments in that case.
package easing

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind selects the shape of a curve.
type Kind int

const (
	Linear Kind = iota
	Accelerate
	Decelerate
	AccelerateDecelerate
	Anticipate
)

var kindNames = map[Kind]string{
	Linear:               "linear",
	Accelerate:           "accelerate",
	Decelerate:           "decelerate",
	AccelerateDecelerate: "accelerate_decelerate",
	Anticipate:           "anticipate",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind accepts the names produced by Kind.String, case-insensitive.
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}
	return Linear, fmt.Errorf("easing: unknown kind %q", s)
}

// Curve is a Kind with its shape factor. Factor is ignored by Linear and
// AccelerateDecelerate.
type Curve struct {
	Kind   Kind
	Factor float64
}

func (c Curve) String() string {
	switch c.Kind {
	case Linear, AccelerateDecelerate:
		return c.Kind.String()
	}
	return fmt.Sprintf("%s(%g)", c.Kind, c.factor())
}

// ParseCurve reads the form produced by Curve.String: a bare kind name, or
// "kind(factor)".
func ParseCurve(s string) (Curve, error) {
	s = strings.TrimSpace(s)
	name, arg, hasArg := strings.Cut(s, "(")
	k, err := ParseKind(name)
	if err != nil {
		return Curve{}, err
	}
	c := Curve{Kind: k}
	if !hasArg {
		return c, nil
	}
	arg, ok := strings.CutSuffix(strings.TrimSpace(arg), ")")
	if !ok {
		return Curve{}, fmt.Errorf("easing: unterminated factor in %q", s)
	}
	if c.Factor, err = strconv.ParseFloat(strings.TrimSpace(arg), 64); err != nil {
		return Curve{}, fmt.Errorf("easing: factor in %q: %w", s, err)
	}
	return c, nil
}

// MarshalText lets curves appear as plain strings in YAML and JSON.
func (c Curve) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

func (c *Curve) UnmarshalText(b []byte) error {
	parsed, err := ParseCurve(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// factor treats non-positive (and NaN) factors as 1.
func (c Curve) factor() float64 {
	if !(c.Factor > 0) {
		return 1
	}
	return c.Factor
}

// Apply returns the eased phase for f.
func (c Curve) Apply(f float64) float64 {
	switch c.Kind {
	case Accelerate:
		k := c.factor()
		if k == 1 {
			return f * f
		}
		return math.Pow(f, 2*k)
	case Decelerate:
		k := c.factor()
		if k == 1 {
			return 1 - (1-f)*(1-f)
		}
		return 1 - math.Pow(1-f, 2*k)
	case AccelerateDecelerate:
		return 0.5 * (1 - math.Cos(f*math.Pi))
	case Anticipate:
		k := c.factor()
		return f * f * ((k+1)*f - k)
	default:
		return f
	}
}

// Convenience constructors.

func LinearCurve() Curve                { return Curve{Kind: Linear} }
func AccelerateBy(factor float64) Curve { return Curve{Kind: Accelerate, Factor: factor} }
func DecelerateBy(factor float64) Curve { return Curve{Kind: Decelerate, Factor: factor} }
func AccelDecel() Curve                 { return Curve{Kind: AccelerateDecelerate} }
func AnticipateBy(tension float64) Curve {
	return Curve{Kind: Anticipate, Factor: tension}
}
