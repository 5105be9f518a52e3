package curve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertCubicMonotonic(t *testing.T, c *ConstrainedCubic) {
	t.Helper()
	const n = 200
	for i := range n + 1 {
		x := float64(i) / n
		if d := c.EvalDerivativeAt(x); d < -1e-9 {
			t.Fatalf("P'(%g) = %g", x, d)
		}
	}
}

func TestConstrainedCubicIdentity(t *testing.T) {
	c := NewConstrainedCubic()
	require.Equal(t, 5, c.Len())
	a, b, cc := c.Coefficients()
	assert.Equal(t, [3]float64{1, 0, 0}, [3]float64{a, b, cc})
	for _, x := range []float64{0, 0.1, 0.5, 0.9, 1} {
		assert.InDelta(t, x, c.EvalAt(x), 1e-15)
	}
	assert.Equal(t, 0.0, c.EvalAt(-1))
	assert.Equal(t, 1.0, c.EvalAt(2))
}

func TestConstrainedCubicEdit(t *testing.T) {
	c := NewConstrainedCubic()
	c.SetKeyframe(Pt(0.5, 0.6), 2)

	assert.InDelta(t, 0.6, c.Point(2).Y, 1e-9)
	assert.InDelta(t, 0.0, c.EvalAt(0), 1e-12)
	assert.InDelta(t, 1.0, c.EvalAt(1), 1e-9)
	a, b, cc := c.Coefficients()
	assert.InDelta(t, 1.4, a, 1e-9)
	assert.InDelta(t, -0.4, b, 1e-9)
	assert.InDelta(t, 0, cc, 1e-9)
	for i, p := range c.Points() {
		assert.Equal(t, cubicKnots[i], p.X)
		assert.InDelta(t, c.EvalAt(p.X), p.Y, 1e-12)
	}
	assertCubicMonotonic(t, c)
}

func TestConstrainedCubicDampedEdit(t *testing.T) {
	c := NewConstrainedCubic()
	c.SetKeyframe(Pt(0.25, 2), 1)

	// The requested value would fold P back on itself.
	y := c.Point(1).Y
	assert.Greater(t, y, 0.25)
	assert.Less(t, y, 2.0)
	assert.InDelta(t, 1.0, c.EvalAt(1), 1e-9)
	assertCubicMonotonic(t, c)

	before := c.Points()
	c.SetKeyframe(Pt(0.75, -5), 3)
	assertCubicMonotonic(t, c)
	assert.InDelta(t, 1.0, c.EvalAt(1), 1e-9)
	assert.Greater(t, c.Point(3).Y, before[3].Y-1, "edit should be damped toward the previous value")
}

func TestConstrainedCubicFixedStructure(t *testing.T) {
	c := NewConstrainedCubic()
	assert.False(t, c.DelKeyframe(2))
	assert.Equal(t, 1.0, c.NormalizeX())

	before := c.Points()
	c.MoveKeys(1, 2)
	c.RemoveKeyframeBefore(0.5)
	c.RemoveKeyframeAfter(0.5)
	c.Resample(10)
	assert.Equal(t, before, c.Points())

	// End points cannot be edited.
	c.SetKeyframe(Pt(0, 0.5), 0)
	c.SetKeyframe(Pt(1, 0.5), 4)
	assert.Equal(t, before, c.Points())

	assert.Equal(t, 2, c.AddKeyframe(Pt(0.55, 0.6)))
	assert.InDelta(t, 0.6, c.Point(2).Y, 1e-9)
}

func TestConstrainedCubicRestore(t *testing.T) {
	p := func(x float64) float64 { return 1.4*x - 0.4*x*x }
	var pts []Point
	for _, x := range cubicKnots {
		pts = append(pts, Pt(x, p(x)))
	}
	in := NewInterpolator(KindCubic, pts, nil)
	require.Equal(t, KindCubic, in.Kind())
	for _, x := range []float64{0.1, 0.3, 0.6, 0.95} {
		assert.InDelta(t, p(x), in.EvalAt(x), 1e-9)
	}
}
