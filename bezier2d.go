package curve

import (
	"fmt"
)

// Bezier2D is a cubic Bézier segment with an arc length table, so that it
// can be traversed at uniform speed.
//
// The table is rebuilt whenever the control points change through the
// methods of Bezier2D.
type Bezier2D struct {
	c   CubicBez
	lut ArclengthLUT
}

func NewBezier2D(p0, p1, p2, p3 Point) *Bezier2D {
	b := &Bezier2D{}
	b.SetControlPoints(p0, p1, p2, p3)
	return b
}

func newBezier2DFromCubic(c CubicBez) *Bezier2D {
	b := &Bezier2D{c: c}
	b.UpdateArclengthLUT()
	return b
}

// Cubic returns the control points as a [CubicBez].
func (b *Bezier2D) Cubic() CubicBez { return b.c }

func (b *Bezier2D) Clone() *Bezier2D {
	out := *b
	return &out
}

func (b *Bezier2D) ControlPoint(i int) Point {
	switch i {
	case 0:
		return b.c.P0
	case 1:
		return b.c.P1
	case 2:
		return b.c.P2
	case 3:
		return b.c.P3
	default:
		panic(fmt.Sprintf("unhandled case %v", i))
	}
}

func (b *Bezier2D) SetControlPoint(i int, p Point) {
	switch i {
	case 0:
		b.c.P0 = p
	case 1:
		b.c.P1 = p
	case 2:
		b.c.P2 = p
	case 3:
		b.c.P3 = p
	default:
		panic(fmt.Sprintf("unhandled case %v", i))
	}
	b.UpdateArclengthLUT()
}

func (b *Bezier2D) SetControlPoints(p0, p1, p2, p3 Point) {
	b.setCubic(CubicBez{p0, p1, p2, p3})
}

func (b *Bezier2D) setCubic(c CubicBez) {
	b.c = c
	b.UpdateArclengthLUT()
}

func (b *Bezier2D) Eval(t float64) Point { return b.c.Eval(t) }

// EvalDer returns the first derivative at t.
func (b *Bezier2D) EvalDer(t float64) Vec2 {
	return Vec2(b.c.Differentiate().Eval(t))
}

// EvalDer2 returns the second derivative at t.
func (b *Bezier2D) EvalDer2(t float64) Vec2 {
	d0, d1 := b.c.Differentiate().Differentiate()
	return Vec2(d0.Lerp(d1, t))
}

// UpdateArclengthLUT rebuilds the arc length table from the control points.
func (b *Bezier2D) UpdateArclengthLUT() {
	b.lut = newArclengthLUT(b.c.Eval)
}

func (b *Bezier2D) LUT() ArclengthLUT { return b.lut }

// Param returns the parameter t at normalized arc length s.
func (b *Bezier2D) Param(s float64) float64 { return b.lut.Param(s) }

// EvalArcLength returns the point at normalized arc length s.
func (b *Bezier2D) EvalArcLength(s float64) Point {
	return b.c.Eval(b.lut.Param(s))
}

// Length returns the arc length of the segment.
func (b *Bezier2D) Length() float64 {
	return b.c.Arclen(DefaultAccuracy)
}

// Split subdivides the segment at t. The halves cover [0, t] and [t, 1] and
// are each parametrized over [0, 1].
func (b *Bezier2D) Split(t float64) (left, right *Bezier2D) {
	l, r := b.c.Split(t)
	return newBezier2DFromCubic(l), newBezier2DFromCubic(r)
}

// FitExtremities moves the end points to start and end, rotating and
// uniformly scaling the rest of the segment along.
func (b *Bezier2D) FitExtremities(start, end Point) {
	c := b.c.Transform(Similarity(b.c.P0, b.c.P3, start, end))
	c.P0, c.P3 = start, end
	b.setCubic(c)
}

// TFromX returns the parameter at which the segment's x coordinate equals x.
// The x coordinate must be monotonic in t.
func (b *Bezier2D) TFromX(x float64) float64 {
	c0, c1, c2, c3 := cubicBezCoefficients(b.c.P0.X, b.c.P1.X, b.c.P2.X, b.c.P3.X)
	return solveUnitPolynomial(c0-x, c1, c2, c3)
}

// EvalYFromX treats the segment as the graph of a function y = f(x).
func (b *Bezier2D) EvalYFromX(x float64) float64 {
	return b.c.Eval(b.TFromX(x)).Y
}

func (b *Bezier2D) BoundingBox() Rect {
	return b.c.BoundingBox()
}
