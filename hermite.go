package curve

import (
	"math"
)

// hermiteFlat is the magnitude of dx/dt under which the derivative of a
// Hermite curve is taken by finite differences.
const hermiteFlat = 1e-9

// Hermite is a piecewise cubic Hermite curve through the keyframes, with
// explicit tangents.
//
// Segment i blends keyframes i and i+1 with the outgoing tangent of i and the
// incoming tangent of i+1. Both coordinates are cubic in the segment
// parameter t; evaluating at x first solves x(t) = x for t. With zero
// tangents, which is the default, the curve is piecewise linear in x.
type Hermite struct {
	keyframes
}

var _ Interpolator = (*Hermite)(nil)

func NewHermite(first Point) *Hermite {
	return &Hermite{keyframes: newKeyframes(first)}
}

func (h *Hermite) Kind() Kind { return KindHermite }

// hermiteCoeffs returns c0..c3 of the cubic through p0, p1 with end
// derivatives m0, m1, in powers of t.
func hermiteCoeffs(p0, m0, p1, m1 float64) [4]float64 {
	return [4]float64{
		p0,
		m0,
		-3*p0 - 2*m0 + 3*p1 - m1,
		2*p0 + m0 - 2*p1 + m1,
	}
}

func evalPoly3(c [4]float64, t float64) float64 {
	return c[0] + t*(c[1]+t*(c[2]+t*c[3]))
}

func derivPoly3(c [4]float64, t float64) float64 {
	return c[1] + t*(2*c[2]+t*3*c[3])
}

// segmentCoeffs returns the x and y polynomials of segment i.
func (h *Hermite) segmentCoeffs(i int) (cx, cy [4]float64) {
	p0, p1 := h.points[i], h.points[i+1]
	m0, m1 := h.tangents[i].Out(), h.tangents[i+1].In()
	return hermiteCoeffs(p0.X, m0.X, p1.X, m1.X), hermiteCoeffs(p0.Y, m0.Y, p1.Y, m1.Y)
}

// segmentPoint returns the point at parameter t of segment i.
func (h *Hermite) segmentPoint(i int, t float64) Point {
	cx, cy := h.segmentCoeffs(i)
	return Pt(evalPoly3(cx, t), evalPoly3(cy, t))
}

// FindParam returns the parameter t of segment i at which x(t) = x.
func (h *Hermite) FindParam(x float64, i int) float64 {
	cx, _ := h.segmentCoeffs(i)
	p0, p1 := h.points[i].X, h.points[i+1].X
	switch {
	case x <= p0:
		return 0
	case x >= p1:
		return 1
	}
	// Vanishing leading coefficients lower the degree instead of being
	// divided by, so flat tangents need no bias.
	return solveUnitPolynomial(cx[0]-x, cx[1], cx[2], cx[3])
}

func (h *Hermite) EvalAt(x float64) float64 {
	if y, ok := h.clamped(x); ok {
		return y
	}
	i := h.segment(x)
	_, cy := h.segmentCoeffs(i)
	return evalPoly3(cy, h.FindParam(x, i))
}

// EvalDerivativeAt returns dy/dx. Where x(t) is stationary, as at the
// keyframes of a curve with zero tangents, a central difference inside the
// segment is used.
func (h *Hermite) EvalDerivativeAt(x float64) float64 {
	if _, ok := h.clamped(x); ok {
		return 0
	}
	i := h.segment(x)
	cx, cy := h.segmentCoeffs(i)
	t := h.FindParam(x, i)
	dx := derivPoly3(cx, t)
	if math.Abs(dx) > hermiteFlat {
		return derivPoly3(cy, t) / dx
	}
	x0, x1 := h.points[i].X, h.points[i+1].X
	step := 1e-6 * (x1 - x0)
	lo, hi := max(x-step, x0), min(x+step, x1)
	ylo := evalPoly3(cy, h.FindParam(lo, i))
	yhi := evalPoly3(cy, h.FindParam(hi, i))
	return (yhi - ylo) / (hi - lo)
}

// SetPiecewiseLinear zeroes all tangents, turning the curve into a polyline.
func (h *Hermite) SetPiecewiseLinear() {
	clear(h.tangents)
	h.changed()
}

// SetSmoothTangents sets Catmull–Rom tangents: at every keyframe both
// tangents follow the chord between its neighbours, scaled to the length of
// the adjoining segments so that x stays linear in t.
func (h *Hermite) SetSmoothTangents() {
	n := len(h.points)
	if n < 2 {
		return
	}
	for i := range n {
		var d Vec2
		switch i {
		case 0:
			d = h.points[1].Sub(h.points[0])
			d = d.Div(d.X)
		case n - 1:
			d = h.points[n-1].Sub(h.points[n-2])
			d = d.Div(d.X)
		default:
			d = h.points[i+1].Sub(h.points[i-1])
			d = d.Div(d.X)
		}
		// d has unit x component.
		var t Tangent
		if i < n-1 {
			hr := h.points[i+1].X - h.points[i].X
			t.OutX, t.OutY = hr, hr*d.Y
		}
		if i > 0 {
			hl := h.points[i].X - h.points[i-1].X
			t.InX, t.InY = hl, hl*d.Y
		}
		h.tangents[i] = t
	}
	h.changed()
}

// slopeInside returns the derivative of in at x, moving x slightly inside
// the domain at the end points where the derivative would be 0.
func slopeInside(in Interpolator, x, x0, x1 float64) float64 {
	step := 1e-6 * (x1 - x0)
	return in.EvalDerivativeAt(min(max(x, x0+step), x1-step))
}

// Resample replaces the keyframes by samples of the curve. The tangents are
// set so that the derivative at every sample matches the previous curve.
func (h *Hermite) Resample(n int) {
	if len(h.points) < 2 {
		return
	}
	src := NewHermite(h.first())
	src.points, src.tangents = h.Points(), h.Tangents()
	x0, x1 := h.first().X, h.last().X

	xs := h.resampleXs(n)
	pts := make([]Point, len(xs))
	for i, x := range xs {
		pts[i] = Pt(x, src.EvalAt(x))
	}
	h.replace(pts)
	for i, x := range xs {
		slope := slopeInside(src, x, x0, x1)
		var t Tangent
		if i < len(xs)-1 {
			t.OutX = xs[i+1] - x
			t.OutY = t.OutX * slope
		}
		if i > 0 {
			t.InX = x - xs[i-1]
			t.InY = t.InX * slope
		}
		h.tangents[i] = t
	}
	h.changed()
}

// HermiteArcLength is a [Hermite] curve that can also be traversed at
// uniform speed through per-segment arc length tables.
type HermiteArcLength struct {
	Hermite
	luts []ArclengthLUT
}

var _ Interpolator = (*HermiteArcLength)(nil)

func NewHermiteArcLength(first Point) *HermiteArcLength {
	h := &HermiteArcLength{Hermite: Hermite{keyframes: newKeyframes(first)}}
	h.update = h.updateLUTs
	h.updateLUTs()
	return h
}

func (h *HermiteArcLength) Kind() Kind { return KindHermiteArcLength }

func (h *HermiteArcLength) updateLUTs() {
	h.luts = h.luts[:0]
	for i := 0; i < len(h.points)-1; i++ {
		h.luts = append(h.luts, newArclengthLUT(func(t float64) Point {
			return h.segmentPoint(i, t)
		}))
	}
}

// LUT returns the arc length table of segment i.
func (h *HermiteArcLength) LUT(i int) ArclengthLUT { return h.luts[i] }

// EvalArcLengthAt maps the position of x within its segment to a fraction
// of the segment's arc length and returns the value at that point of the
// curve.
func (h *HermiteArcLength) EvalArcLengthAt(x float64) float64 {
	if y, ok := h.clamped(x); ok {
		return y
	}
	i := h.segment(x)
	x0, x1 := h.points[i].X, h.points[i+1].X
	t := h.luts[i].Param((x - x0) / (x1 - x0))
	_, cy := h.segmentCoeffs(i)
	return evalPoly3(cy, t)
}
