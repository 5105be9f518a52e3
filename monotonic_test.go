package curve

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/interp"
)

func newMonotonic(pts ...Point) *MonotonicCubic {
	return NewInterpolator(KindMonotonicCubic, pts, nil).(*MonotonicCubic)
}

func TestMonotonicCubicExample(t *testing.T) {
	m := newMonotonic(Pt(0, 0), Pt(0.3, 0.2), Pt(0.7, 0.9), Pt(1, 1))
	assert.Equal(t, 0.2, m.EvalAt(0.3))
	assert.Equal(t, 0.9, m.EvalAt(0.7))
	y := m.EvalAt(0.5)
	assert.Greater(t, y, 0.2)
	assert.Less(t, y, 0.9)
	for _, x := range []float64{0, 0.3, 0.7, 1} {
		assert.GreaterOrEqual(t, m.EvalDerivativeAt(x), 0.0, "x=%g", x)
	}
	// The slope at 0.7 is limited to three times the last secant.
	diff(t, []float64{2.0 / 3, 1.2083333333333335, 1, 1.0 / 3}, m.Slopes(), approx(1e-12))
}

func TestMonotonicCubicIsMonotonic(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	for trial := range 200 {
		n := 2 + rng.IntN(10)
		pts := make([]Point, n)
		x, y := 0.0, 0.0
		for i := range pts {
			pts[i] = Pt(x, y)
			x += 0.01 + rng.Float64()
			if rng.IntN(4) > 0 {
				y += rng.ExpFloat64()
			}
		}
		m := newMonotonic(pts...)
		if trial%2 == 1 {
			m.MakeNaturalC2()
		}
		x0, x1 := pts[0].X, pts[n-1].X
		prev := m.EvalAt(x0)
		for i := 1; i <= 2000; i++ {
			y := m.EvalAt(x0 + (x1-x0)*float64(i)/2000)
			require.GreaterOrEqual(t, y, prev-1e-12, "trial %d: %v", trial, pts)
			prev = y
		}
	}
}

func TestMonotonicCubicFlatRun(t *testing.T) {
	m := newMonotonic(Pt(0, 0), Pt(1, 1), Pt(2, 1), Pt(3, 2))
	assert.Equal(t, 0.0, m.Slope(1))
	assert.Equal(t, 0.0, m.Slope(2))
	for _, x := range []float64{1.1, 1.5, 1.9} {
		assert.InDelta(t, 1, m.EvalAt(x), 1e-12)
	}
}

func TestMonotonicCubicExtremum(t *testing.T) {
	m := newMonotonic(Pt(0, 0), Pt(1, 1), Pt(2, 0))
	assert.Equal(t, 0.0, m.Slope(1))
	for i := range 21 {
		assert.LessOrEqual(t, m.EvalAt(float64(i)/10), 1.0)
	}
}

func TestMonotonicCubicSetSlopeLimited(t *testing.T) {
	m := newMonotonic(Pt(0, 0), Pt(1, 1), Pt(2, 2))
	m.SetSlope(1, 10)
	assert.Equal(t, 3.0, m.Slope(1))
	m.SetSlope(1, -1)
	assert.Equal(t, 0.0, m.Slope(1))
}

func TestMonotonicCubicNaturalC2(t *testing.T) {
	pts := []Point{{0, 0}, {1, 0.8}, {2.5, 2}, {3, 2.6}, {4, 3}}
	var xs, ys []float64
	for _, p := range pts {
		xs = append(xs, p.X)
		ys = append(ys, p.Y)
	}
	var oracle interp.NaturalCubic
	require.NoError(t, oracle.Fit(xs, ys))

	// No slope of this data set needs limiting, so the curve is the natural
	// spline.
	m := newMonotonic(pts...)
	m.MakeNaturalC2()
	for i := range 41 {
		x := 4 * float64(i) / 40
		assert.InDelta(t, oracle.Predict(x), m.EvalAt(x), 1e-9, "x=%g", x)
	}
	for i, x := range xs[:len(xs)-1] {
		assert.InDelta(t, oracle.PredictDerivative(x), m.Slope(i), 1e-9, "x=%g", x)
	}
}

func TestMonotonicCubicEvalInverse(t *testing.T) {
	m := newMonotonic(Pt(0, 0), Pt(0.3, 0.2), Pt(0.7, 0.9), Pt(1, 1))
	for i := range 10 {
		y := 0.05 + float64(i)*0.1
		x := m.EvalInverse(y)
		assert.InDelta(t, y, m.EvalAt(x), 1e-6, "y=%g", y)
	}
	assert.Equal(t, 0.0, m.EvalInverse(-1))
	assert.Equal(t, 1.0, m.EvalInverse(2))

	dec := newMonotonic(Pt(0, 1), Pt(1, 0))
	assert.InDelta(t, 0.75, dec.EvalInverse(0.25), 1e-12)
}

func TestMonotonicCubicAddKeyframeKeepsShape(t *testing.T) {
	m := newMonotonic(Pt(0, 0), Pt(0.3, 0.2), Pt(0.7, 0.9), Pt(1, 1))
	ref := m.clone()
	i := m.AddKeyframe(Pt(0.5, m.EvalAt(0.5)))
	require.Equal(t, 2, i)
	require.Len(t, m.Slopes(), 5)
	assert.InDelta(t, ref.EvalDerivativeAt(0.5), m.Slope(2), 1e-12)
	for i := range 101 {
		x := float64(i) / 100
		assert.InDelta(t, ref.EvalAt(x), m.EvalAt(x), 1e-9, "x=%g", x)
	}

	// Appending beyond the domain uses the new secant.
	m.AddKeyframe(Pt(2, 1.5))
	assert.InDelta(t, 0.5, m.Slope(5), 1e-12)
	m.DelKeyframe(2)
	assert.Len(t, m.Slopes(), m.Len())
}

func TestMonotonicCubicTruncateKeepsSlopes(t *testing.T) {
	m := newMonotonic(Pt(0, 0), Pt(1, 1), Pt(2, 3), Pt(3, 3.5), Pt(4, 4))
	m.RemoveKeyframeBefore(1)
	m.RemoveKeyframeAfter(3)
	assert.Equal(t, 3, m.Len())
	assert.Len(t, m.Slopes(), 3)
}

func TestMonotonicCubicResampleDichotomic(t *testing.T) {
	// A straight line needs no interior keyframes.
	var line []Point
	for i := range 11 {
		line = append(line, Pt(float64(i)/10, float64(i)/10))
	}
	m := newMonotonic(line...)
	assert.Equal(t, 2, m.ResampleDichotomic(DefaultDichotomicOptions))

	var smooth []Point
	for i := range 41 {
		x := float64(i) / 40
		smooth = append(smooth, Pt(x, x*x*(3-2*x)))
	}
	m = newMonotonic(smooth...)
	ref := m.clone()
	n := m.ResampleDichotomic(DefaultDichotomicOptions)
	assert.GreaterOrEqual(t, n, 3)
	assert.LessOrEqual(t, n, 1<<DefaultDichotomicOptions.MaxDepth+1)
	assert.True(t, sortedByX(m.Points()))
	assert.Equal(t, 0.0, m.Point(0).X)
	assert.Equal(t, 1.0, m.Point(n-1).X)
	for i := range 201 {
		x := float64(i) / 200
		assert.InDelta(t, ref.EvalAt(x), m.EvalAt(x), 1e-2, "x=%g", x)
	}

	m = newMonotonic(smooth...)
	assert.Equal(t, 2, m.ResampleDichotomic(DichotomicOptions{MaxDepth: 0, Threshold: 1e-3, Samples: 8}))
}

func TestMonotonicCubicResample(t *testing.T) {
	m := newMonotonic(Pt(0, 0), Pt(0.3, 0.2), Pt(0.7, 0.9), Pt(1, 1))
	ref := m.clone()
	m.Resample(8)
	require.Equal(t, 10, m.Len())
	for i := range 51 {
		x := float64(i) / 50
		assert.InDelta(t, ref.EvalAt(x), m.EvalAt(x), 2e-2, "x=%g", x)
	}
	assert.False(t, math.IsNaN(m.EvalDerivativeAt(0.5)))
}

func BenchmarkMonotonicCubicEvalAt(b *testing.B) {
	m := newMonotonic(Pt(0, 0), Pt(0.3, 0.2), Pt(0.7, 0.9), Pt(1, 1))
	for i := range b.N {
		m.EvalAt(float64(i%1000) / 1000)
	}
}
