package curve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHermiteZeroTangentsIsLinear(t *testing.T) {
	h := newSample(KindHermite).(*Hermite)
	l := newSample(KindLinear)
	for i := range 41 {
		x := -0.5 + 5*float64(i)/40
		assert.InDelta(t, l.EvalAt(x), h.EvalAt(x), 1e-9, "x = %g", x)
	}
	assert.InDelta(t, 2.0, h.EvalDerivativeAt(0.5), 1e-9)
	assert.InDelta(t, 1.5, h.EvalDerivativeAt(3), 1e-9)
	// x(t) is stationary at the keyframes.
	assert.InDelta(t, -1.0, h.EvalDerivativeAt(1), 1e-6)
}

func TestHermiteSmoothTangentsLine(t *testing.T) {
	h := NewHermite(Pt(0, 1))
	for _, x := range []float64{0.5, 2, 3, 5} {
		h.AddKeyframe(Pt(x, 2*x+1))
	}
	h.SetSmoothTangents()
	for i := range h.Len() {
		tan := h.Tangent(i)
		if i > 0 {
			assert.InDelta(t, 2*tan.InX, tan.InY, 1e-12)
		}
		if i < h.Len()-1 {
			assert.InDelta(t, 2*tan.OutX, tan.OutY, 1e-12)
		}
	}
	for i := range 51 {
		x := 5 * float64(i) / 50
		assert.InDelta(t, 2*x+1, h.EvalAt(x), 1e-9)
		if x > 0 && x < 5 {
			assert.InDelta(t, 2.0, h.EvalDerivativeAt(x), 1e-6)
		}
	}
}

func TestHermiteFindParam(t *testing.T) {
	h := newSample(KindHermite).(*Hermite)
	h.SetSmoothTangents()
	// Smooth tangents keep x linear in t.
	for i := range h.Len() - 1 {
		x0, x1 := h.Point(i).X, h.Point(i+1).X
		for _, want := range []float64{0, 0.3, 0.5, 0.9, 1} {
			assert.InDelta(t, want, h.FindParam(x0+want*(x1-x0), i), 1e-9)
		}
	}
	assert.Equal(t, 0.0, h.FindParam(-1, 0))
	assert.Equal(t, 1.0, h.FindParam(10, 0))
}

func TestHermiteSmoothIsC1(t *testing.T) {
	h := newSample(KindHermite).(*Hermite)
	h.SetSmoothTangents()
	for i := 1; i < h.Len()-1; i++ {
		x := h.Point(i).X
		const eps = 1e-7
		left := (h.EvalAt(x) - h.EvalAt(x-eps)) / eps
		right := (h.EvalAt(x+eps) - h.EvalAt(x)) / eps
		assert.InDelta(t, left, right, 1e-4, "keyframe %d", i)
	}

	h.SetPiecewiseLinear()
	l := newSample(KindLinear)
	for _, x := range []float64{0.25, 1.5, 3.3} {
		assert.InDelta(t, l.EvalAt(x), h.EvalAt(x), 1e-9)
	}
}

func TestHermiteArcLengthLUT(t *testing.T) {
	h := newSample(KindHermiteArcLength).(*HermiteArcLength)
	require.Len(t, h.luts, h.Len()-1)
	for i := range h.Len() - 1 {
		lut := h.LUT(i)
		for row := range 2 {
			assert.Equal(t, 0.0, lut[row][0])
			assert.Equal(t, 1.0, lut[row][LUTPrecision-1])
			for j := 1; j < LUTPrecision; j++ {
				assert.GreaterOrEqual(t, lut[row][j], lut[row][j-1])
			}
		}
	}

	h.AddKeyframe(Pt(3, 0))
	assert.Len(t, h.luts, h.Len()-1)
	h.DelKeyframe(0)
	assert.Len(t, h.luts, h.Len()-1)
}

func TestHermiteArcLengthEval(t *testing.T) {
	h := newSample(KindHermiteArcLength).(*HermiteArcLength)
	l := newSample(KindLinear)
	for _, p := range h.Points() {
		assert.InDelta(t, p.Y, h.EvalArcLengthAt(p.X), 1e-12)
	}
	// Along a straight segment, uniform arc length is uniform in x.
	for i := range 41 {
		x := 4 * float64(i) / 40
		assert.InDelta(t, l.EvalAt(x), h.EvalArcLengthAt(x), 5e-3, "x = %g", x)
	}

	h.SetSmoothTangents()
	for i := range 41 {
		x := 4 * float64(i) / 40
		y := h.EvalArcLengthAt(x)
		lo, hi := -1.0, 7.0
		assert.True(t, y >= lo && y <= hi, "x = %g, y = %g", x, y)
	}
}

func TestHermiteResampleKeepsSlopes(t *testing.T) {
	h := newSample(KindHermite).(*Hermite)
	h.SetSmoothTangents()
	src := NewHermite(h.Point(0))
	src.restore(h.Points(), h.Tangents())

	h.Resample(15)
	require.Equal(t, 17, h.Len())
	for i := range 81 {
		x := 4 * float64(i) / 80
		assert.InDelta(t, src.EvalAt(x), h.EvalAt(x), 2e-2, "x = %g", x)
	}
}

func TestHermiteFindParamFlatTangents(t *testing.T) {
	// Zero tangents make x(t) stationary at both ends of every segment.
	h := newSample(KindHermite).(*Hermite)
	h.SetPiecewiseLinear()
	for i := range h.Len() - 1 {
		cx, _ := h.segmentCoeffs(i)
		x0, x1 := h.Point(i).X, h.Point(i+1).X
		for _, f := range []float64{1e-6, 0.25, 0.5, 0.75, 1 - 1e-6} {
			x := x0 + f*(x1-x0)
			p := h.FindParam(x, i)
			assert.GreaterOrEqual(t, p, 0.0)
			assert.LessOrEqual(t, p, 1.0)
			assert.InDelta(t, x, evalPoly3(cx, p), 1e-9, "segment %d at %g", i, f)
		}
	}
}
