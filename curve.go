package curve

import (
	"fmt"
	"io"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// boundingBoxSamples is the number of samples taken by [Curve.BoundingBox]
// in addition to the keyframes.
const boundingBoxSamples = 100

// Curve is an animated 1-D quantity. It owns exactly one [Interpolator],
// which can be replaced by one of another kind at any time without losing
// keyframes or tangents.
type Curve struct {
	in Interpolator
}

// New returns a curve of the given kind with a single keyframe. The legacy
// [KindCubic] ignores first and starts as the identity on [0, 1].
func New(kind Kind, first Point) *Curve {
	if kind == KindCubic {
		return &Curve{in: NewConstrainedCubic()}
	}
	return &Curve{in: NewInterpolator(kind, []Point{first}, nil)}
}

func (c *Curve) Kind() Kind { return c.in.Kind() }

// Interpolator returns the active interpolator. Mutating it directly is
// allowed.
func (c *Curve) Interpolator() Interpolator { return c.in }

// SetInterpolation replaces the interpolator by one of the given kind,
// seeded with the current keyframes and tangents. State specific to the old
// kind, such as slopes or spline coefficients, is re-derived.
func (c *Curve) SetInterpolation(kind Kind) {
	if kind == c.in.Kind() {
		return
	}
	c.in = NewInterpolator(kind, c.in.Points(), c.in.Tangents())
}

func (c *Curve) Len() int { return c.in.Len() }
func (c *Curve) Points() []Point { return c.in.Points() }
func (c *Curve) Point(i int) Point { return c.in.Point(i) }
func (c *Curve) Tangents() []Tangent { return c.in.Tangents() }

// EvalAt returns the value at x. Outside the domain of the keyframes it
// returns the value of the nearest end keyframe.
func (c *Curve) EvalAt(x float64) float64 {
	if first := c.in.Point(0); x <= first.X {
		return first.Y
	}
	if last := c.in.Point(c.in.Len() - 1); x >= last.X {
		return last.Y
	}
	return c.in.EvalAt(x)
}

func (c *Curve) EvalDerivativeAt(x float64) float64 {
	return c.in.EvalDerivativeAt(x)
}

// EvalInverse returns the x at which the curve takes the value y. Only
// monotonic cubic curves can be inverted; for other kinds ok is false.
func (c *Curve) EvalInverse(y float64) (x float64, ok bool) {
	m, ok := c.in.(*MonotonicCubic)
	if !ok {
		return 0, false
	}
	return m.EvalInverse(y), true
}

func (c *Curve) AddKeyframe(pt Point) int { return c.in.AddKeyframe(pt) }
func (c *Curve) SetKeyframe(pt Point, i int) { c.in.SetKeyframe(pt, i) }
func (c *Curve) DelKeyframe(i int) bool { return c.in.DelKeyframe(i) }
func (c *Curve) MoveKeys(first, last float64) { c.in.MoveKeys(first, last) }
func (c *Curve) RemoveKeyframeBefore(x float64) { c.in.RemoveKeyframeBefore(x) }
func (c *Curve) RemoveKeyframeAfter(x float64) { c.in.RemoveKeyframeAfter(x) }
func (c *Curve) NormalizeX() float64 { return c.in.NormalizeX() }
func (c *Curve) Resample(n int) { c.in.Resample(n) }

// RemoveKeys removes the keyframes i through j inclusive. At least one
// keyframe is always kept. It returns the number of removed keyframes.
func (c *Curve) RemoveKeys(i, j int) int {
	n := 0
	for range j - i + 1 {
		if !c.in.DelKeyframe(i) {
			break
		}
		n++
	}
	return n
}

// Cut returns a new curve of the same kind made of the keyframes i through
// j inclusive. With resetXBoundaries, the new curve's domain is rescaled to
// [0, 1]. Monotonic cubic slopes are carried over.
func (c *Curve) Cut(i, j int, resetXBoundaries bool) *Curve {
	if i < 0 || j >= c.in.Len() || i > j {
		panic(fmt.Sprintf("invalid keyframe range [%d, %d] of %d", i, j, c.in.Len()))
	}
	pts := c.in.Points()[i : j+1]
	tangents := c.in.Tangents()[i : j+1]
	out := &Curve{in: NewInterpolator(c.in.Kind(), pts, tangents)}
	if m, ok := c.in.(*MonotonicCubic); ok {
		out.in.(*MonotonicCubic).SetSlopes(m.Slopes()[i : j+1])
	}
	if resetXBoundaries {
		out.NormalizeX()
	}
	return out
}

// SetPiecewiseLinear zeroes the tangents of a Hermite curve so that it
// interpolates linearly. It reports false, doing nothing, for other kinds.
func (c *Curve) SetPiecewiseLinear() bool {
	h, ok := c.in.(interface{ SetPiecewiseLinear() })
	if !ok {
		return false
	}
	h.SetPiecewiseLinear()
	return true
}

// BoundingBox returns the bounding box of the curve's graph over its domain,
// estimated by sampling.
func (c *Curve) BoundingBox() Rect {
	first := c.in.Point(0)
	bbox := NewRectFromPoints(first, first)
	for _, p := range c.in.Points() {
		bbox = bbox.UnionPoint(p)
	}
	if c.in.Len() < 2 {
		return bbox
	}
	xs := floats.Span(make([]float64, boundingBoxSamples), first.X, c.in.Point(c.in.Len()-1).X)
	for _, x := range xs {
		bbox = bbox.UnionPoint(Pt(x, c.EvalAt(x)))
	}
	return bbox
}

// Clone returns a deep copy of the curve.
func (c *Curve) Clone() *Curve {
	out := &Curve{in: NewInterpolator(c.in.Kind(), c.in.Points(), c.in.Tangents())}
	if m, ok := c.in.(*MonotonicCubic); ok {
		out.in.(*MonotonicCubic).SetSlopes(m.Slopes())
	}
	return out
}

func (c *Curve) String() string {
	sb := &strings.Builder{}
	fmt.Fprintf(sb, "Curve(%s,", c.in.Kind())
	for _, p := range c.in.Points() {
		sb.WriteString(" ")
		sb.WriteString(p.String())
	}
	sb.WriteString(")")
	return sb.String()
}

// Print writes a table of the keyframes to w, one per line, with their
// tangents, and slopes for monotonic cubic curves.
func (c *Curve) Print(w io.Writer) error {
	var slopes []float64
	if m, ok := c.in.(*MonotonicCubic); ok {
		slopes = m.Slopes()
	}
	if _, err := fmt.Fprintf(w, "%s curve, %d keyframes\n", c.in.Kind(), c.in.Len()); err != nil {
		return err
	}
	for i, p := range c.in.Points() {
		t := c.in.Tangent(i)
		_, err := fmt.Fprintf(w, "%3d  x=%-10g y=%-10g out=(%g, %g) in=(%g, %g)", i, p.X, p.Y, t.OutX, t.OutY, t.InX, t.InY)
		if err == nil && slopes != nil {
			_, err = fmt.Fprintf(w, " slope=%g", slopes[i])
		}
		if err == nil {
			_, err = io.WriteString(w, "\n")
		}
		if err != nil {
			return err
		}
	}
	return nil
}
