package easing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCurveEndpoints(t *testing.T) {
	curves := []Curve{
		LinearCurve(),
		AccelerateBy(1),
		AccelerateBy(1.5),
		DecelerateBy(1),
		DecelerateBy(0.75),
		AccelDecel(),
		AnticipateBy(2),
	}
	for _, c := range curves {
		assert.InDelta(t, 0, c.Apply(0), 1e-12, c.String())
		assert.InDelta(t, 1, c.Apply(1), 1e-12, c.String())
	}
}

func TestCurveShapes(t *testing.T) {
	assert.InDelta(t, 0.25, AccelerateBy(1).Apply(0.5), 1e-12)
	assert.InDelta(t, math.Pow(0.5, 3), AccelerateBy(1.5).Apply(0.5), 1e-12)
	assert.InDelta(t, 0.75, DecelerateBy(1).Apply(0.5), 1e-12)
	assert.InDelta(t, 1-math.Pow(0.5, 2.2), DecelerateBy(1.1).Apply(0.5), 1e-12)
	assert.InDelta(t, 0.5, AccelDecel().Apply(0.5), 1e-12)
	assert.InDelta(t, 0.3, LinearCurve().Apply(0.3), 1e-12)
}

func TestNonPositiveFactorFallsBackToOne(t *testing.T) {
	for _, k := range []float64{0, -0.25, -3, math.NaN()} {
		assert.Equal(t, AccelerateBy(1).Apply(0.4), AccelerateBy(k).Apply(0.4))
		assert.Equal(t, DecelerateBy(1).Apply(0.4), DecelerateBy(k).Apply(0.4))
		assert.Equal(t, AnticipateBy(1).Apply(0.4), AnticipateBy(k).Apply(0.4))
	}
}

func TestAnticipateOvershootsBackward(t *testing.T) {
	c := AnticipateBy(2.6)
	assert.Less(t, c.Apply(0.2), 0.0)
	assert.InDelta(t, 1, c.Apply(1), 1e-12)
}

func TestParseKind(t *testing.T) {
	for k := range kindNames {
		got, err := ParseKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}
	got, err := ParseKind(" Decelerate ")
	require.NoError(t, err)
	assert.Equal(t, Decelerate, got)

	_, err = ParseKind("bounce")
	assert.Error(t, err)
	assert.Equal(t, "Kind(42)", Kind(42).String())
}

func TestCurveString(t *testing.T) {
	assert.Equal(t, "linear", LinearCurve().String())
	assert.Equal(t, "decelerate(1.05)", DecelerateBy(1.05).String())
	assert.Equal(t, "accelerate(1)", AccelerateBy(-2).String())
}

func TestParseCurve(t *testing.T) {
	for _, c := range []Curve{LinearCurve(), AccelerateBy(1.5), DecelerateBy(1.05), AccelDecel(), AnticipateBy(2.6)} {
		got, err := ParseCurve(c.String())
		require.NoError(t, err)
		assert.Equal(t, c, got)
	}
	got, err := ParseCurve(" Accelerate ( 2 ) ")
	require.NoError(t, err)
	assert.Equal(t, AccelerateBy(2), got)

	for _, bad := range []string{"bounce", "accelerate(2", "decelerate(x)"} {
		_, err := ParseCurve(bad)
		assert.Error(t, err, bad)
	}
}

func TestCurveText(t *testing.T) {
	var c Curve
	require.NoError(t, c.UnmarshalText([]byte("decelerate(1.5)")))
	assert.Equal(t, DecelerateBy(1.5), c)
	b, err := c.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "decelerate(1.5)", string(b))
	assert.Error(t, c.UnmarshalText([]byte("wobble")))
	assert.Equal(t, DecelerateBy(1.5), c, "failed decode leaves the curve alone")
}
