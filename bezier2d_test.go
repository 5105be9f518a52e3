package curve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBezier2DControlPoints(t *testing.T) {
	b := NewBezier2D(Pt(0, 0), Pt(1, 2), Pt(3, 2), Pt(4, 0))
	for i, want := range []Point{{0, 0}, {1, 2}, {3, 2}, {4, 0}} {
		assert.Equal(t, want, b.ControlPoint(i))
	}
	assert.Panics(t, func() { b.ControlPoint(4) })
	assert.Panics(t, func() { b.SetControlPoint(-1, Pt(0, 0)) })

	b.SetControlPoint(3, Pt(8, 0))
	assert.Equal(t, Pt(8, 0), b.Cubic().P3)
	assertNear(t, b.EvalArcLength(1), Pt(8, 0), 1e-12)

	clone := b.Clone()
	clone.SetControlPoint(0, Pt(-1, -1))
	assert.Equal(t, Pt(0, 0), b.ControlPoint(0))
	assert.NotEqual(t, b.LUT(), clone.LUT())
}

func TestBezier2DDerivatives(t *testing.T) {
	// x = t, y = t²
	b := NewBezier2D(Pt(0, 0), Pt(1.0/3, 0), Pt(2.0/3, 1.0/3), Pt(1, 1))
	for i := range 11 {
		ts := float64(i) / 10
		diff(t, Vec(1, 2*ts), b.EvalDer(ts), approx(1e-12))
		diff(t, Vec(0, 2), b.EvalDer2(ts), approx(1e-12))
	}
}

func TestBezier2DArclengthLUT(t *testing.T) {
	b := NewBezier2D(Pt(0, 0), Pt(5, 10), Pt(-3, 4), Pt(2, -1))
	lut := b.LUT()
	for row := range 2 {
		require.Equal(t, 0.0, lut[row][0])
		require.Equal(t, 1.0, lut[row][LUTPrecision-1])
		for i := 1; i < LUTPrecision; i++ {
			assert.GreaterOrEqual(t, lut[row][i], lut[row][i-1])
		}
	}
	assert.Equal(t, 0.0, b.Param(-1))
	assert.Equal(t, 1.0, b.Param(2))
	assertNear(t, b.EvalArcLength(0), b.ControlPoint(0), 0)
	assertNear(t, b.EvalArcLength(1), b.ControlPoint(3), 0)
}

func TestBezier2DUniformSpeed(t *testing.T) {
	// A straight segment whose parametrization bunches up near the start.
	b := NewBezier2D(Pt(0, 0), Pt(0.1, 0), Pt(0.2, 0), Pt(3, 0))
	assert.InDelta(t, 3.0, b.Length(), 1e-9)
	for i := range 21 {
		s := float64(i) / 20
		p := b.EvalArcLength(s)
		assert.InDelta(t, 3*s, p.X, 1e-2, "s = %g", s)
	}

	line := NewBezier2D(Pt(0, 0), Pt(1, 4.0/3), Pt(2, 8.0/3), Pt(3, 4))
	assert.InDelta(t, 5.0, line.Length(), 1e-9)
}

func TestBezier2DSplit(t *testing.T) {
	b := NewBezier2D(Pt(0, 0), Pt(5, 10), Pt(-3, 4), Pt(2, -1))
	left, right := b.Split(0.4)
	assertNear(t, left.ControlPoint(3), right.ControlPoint(0), 0)
	for i := range 11 {
		u := float64(i) / 10
		assertNear(t, left.Eval(u), b.Eval(0.4*u), 1e-12)
		assertNear(t, right.Eval(u), b.Eval(0.4+0.6*u), 1e-12)
	}
	assert.InDelta(t, b.Length(), left.Length()+right.Length(), 1e-5)
}

func TestBezier2DFitExtremities(t *testing.T) {
	b := NewBezier2D(Pt(0, 0), Pt(1, 1), Pt(2, 1), Pt(3, 0))
	b.FitExtremities(Pt(1, 1), Pt(1, 7))
	want := []Point{{1, 1}, {-1, 3}, {-1, 5}, {1, 7}}
	for i, p := range want {
		assertNear(t, b.ControlPoint(i), p, 1e-12)
	}
	// End points are pinned exactly.
	assert.Equal(t, Pt(1, 1), b.ControlPoint(0))
	assert.Equal(t, Pt(1, 7), b.ControlPoint(3))

	// A degenerate segment is only translated.
	d := NewBezier2D(Pt(0, 0), Pt(1, 1), Pt(-1, 1), Pt(0, 0))
	d.FitExtremities(Pt(2, 2), Pt(2, 2))
	assertNear(t, d.ControlPoint(1), Pt(3, 3), 1e-12)
	assertNear(t, d.ControlPoint(2), Pt(1, 3), 1e-12)
}

func TestBezier2DTFromX(t *testing.T) {
	linear := NewBezier2D(Pt(0, 0), Pt(1, 2), Pt(2, -1), Pt(3, 1))
	assert.InDelta(t, 0.5, linear.TFromX(1.5), 1e-12)
	assert.InDelta(t, linear.Eval(0.5).Y, linear.EvalYFromX(1.5), 1e-12)

	b := NewBezier2D(Pt(0, 0), Pt(0.1, 1), Pt(0.9, 0), Pt(1, 1))
	for _, x := range []float64{0, 0.05, 0.3, 0.5, 0.8, 0.95, 1} {
		ts := b.TFromX(x)
		assert.InDelta(t, x, b.Eval(ts).X, 1e-9, "x = %g", x)
		assert.Equal(t, b.Eval(ts).Y, b.EvalYFromX(x))
	}
}

func TestBezier2DBoundingBox(t *testing.T) {
	b := NewBezier2D(Pt(0, 0), Pt(0, 1), Pt(1, 1), Pt(1, 0))
	diff(t, Rect{0, 0, 1, 0.75}, b.BoundingBox(), approx(1e-12))
}
