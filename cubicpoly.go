package curve

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/mat"
)

// cubicKnots are the fixed x positions of a [ConstrainedCubic].
var cubicKnots = [...]float64{0, 0.25, 0.5, 0.75, 1}

// maxDampingAttempts bounds the damping of a non-monotonic edit.
const maxDampingAttempts = 20

// ConstrainedCubic is the legacy spacing curve P(x) = a x + b x² + c x³ on
// [0, 1], controlled by five keyframes at fixed x positions.
//
// The curve always passes through (0, 0) and (1, 1). Editing an interior
// keyframe refits P through it by least squares and moves the other
// keyframes onto the result. Edits that would make P non-monotonic are damped
// toward the previous value and, failing that, discarded.
type ConstrainedCubic struct {
	keyframes
	coeffs [3]float64

	// last monotonic state
	good       [3]float64
	goodPoints []Point
}

var _ Interpolator = (*ConstrainedCubic)(nil)

// NewConstrainedCubic returns the identity curve y = x.
func NewConstrainedCubic() *ConstrainedCubic {
	c := &ConstrainedCubic{coeffs: [3]float64{1, 0, 0}}
	c.points = make([]Point, len(cubicKnots))
	c.tangents = make([]Tangent, len(cubicKnots))
	for i, x := range cubicKnots {
		c.points[i] = Pt(x, x)
	}
	c.commit()
	return c
}

func (c *ConstrainedCubic) Kind() Kind { return KindCubic }

// Coefficients returns a, b and c of P(x) = a x + b x² + c x³.
func (c *ConstrainedCubic) Coefficients() (a, b, cc float64) {
	return c.coeffs[0], c.coeffs[1], c.coeffs[2]
}

func (c *ConstrainedCubic) poly(x float64) float64 {
	return x * (c.coeffs[0] + x*(c.coeffs[1]+x*c.coeffs[2]))
}

func (c *ConstrainedCubic) EvalAt(x float64) float64 {
	if y, ok := c.clamped(x); ok {
		return y
	}
	return c.poly(x)
}

func (c *ConstrainedCubic) EvalDerivativeAt(x float64) float64 {
	if _, ok := c.clamped(x); ok {
		return 0
	}
	return c.coeffs[0] + x*(2*c.coeffs[1]+3*x*c.coeffs[2])
}

// monotonic reports whether P' does not change sign on [0, 1].
func monotonic(coeffs [3]float64) bool {
	a, b, cc := coeffs[0], coeffs[1], coeffs[2]
	const eps = 1e-12
	if a < -eps || a+2*b+3*cc < -eps {
		return false
	}
	roots, n := SolveQuadratic(a, 2*b, 3*cc)
	if n < 2 || roots[0] == roots[1] {
		// A double root touches zero without crossing it.
		if n == 1 && math.Abs(cc) < eps && math.Abs(b) > eps {
			// P' is linear.
			return roots[0] <= 0 || roots[0] >= 1
		}
		return true
	}
	for _, r := range roots[:n] {
		if r > 0 && r < 1 {
			return false
		}
	}
	return true
}

// fitCubic fits P to pts by least squares, subject to P passing exactly
// through every point of pinned.
func fitCubic(pts, pinned []Point) ([3]float64, error) {
	m := 3 + len(pinned)
	kkt := mat.NewDense(m, m, nil)
	rhs := mat.NewVecDense(m, nil)
	basis := func(x float64) [3]float64 { return [3]float64{x, x * x, x * x * x} }
	for _, p := range pts {
		phi := basis(p.X)
		for r := range 3 {
			for s := range 3 {
				kkt.Set(r, s, kkt.At(r, s)+2*phi[r]*phi[s])
			}
			rhs.SetVec(r, rhs.AtVec(r)+2*phi[r]*p.Y)
		}
	}
	for k, p := range pinned {
		phi := basis(p.X)
		for s := range 3 {
			kkt.Set(3+k, s, phi[s])
			kkt.Set(s, 3+k, phi[s])
		}
		rhs.SetVec(3+k, p.Y)
	}
	var sol mat.VecDense
	if err := sol.SolveVec(kkt, rhs); err != nil {
		return [3]float64{}, err
	}
	return [3]float64{sol.AtVec(0), sol.AtVec(1), sol.AtVec(2)}, nil
}

// project moves every keyframe onto P.
func (c *ConstrainedCubic) project() {
	for i, x := range cubicKnots {
		c.points[i] = Pt(x, c.poly(x))
	}
}

// commit records the current state as the last monotonic one.
func (c *ConstrainedCubic) commit() {
	c.good = c.coeffs
	c.goodPoints = slices.Clone(c.points)
}

func (c *ConstrainedCubic) revert() {
	c.coeffs = c.good
	c.points = slices.Clone(c.goodPoints)
}

// edit pins keyframe k to value y and refits.
func (c *ConstrainedCubic) edit(k int, y float64) {
	if k <= 0 || k >= len(cubicKnots)-1 {
		Logger().Debug("cubic end points are fixed", "index", k)
		return
	}
	prev := c.points[k].Y
	target := y
	for attempt := range maxDampingAttempts {
		pts := c.Points()
		pts[k].Y = target
		coeffs, err := fitCubic(pts, []Point{{1, 1}, {cubicKnots[k], target}})
		if err == nil && monotonic(coeffs) {
			c.coeffs = coeffs
			c.project()
			c.commit()
			if attempt > 0 {
				Logger().Debug("cubic edit damped", "index", k, "requested", y, "applied", target, "attempts", attempt+1)
			}
			return
		}
		target = prev + 0.5*(target-prev)
	}
	Logger().Debug("cubic edit reverted", "index", k, "requested", y)
	c.revert()
}

// AddKeyframe edits the keyframe whose fixed x is nearest to pt.X.
func (c *ConstrainedCubic) AddKeyframe(pt Point) int {
	i := int(math.Round(min(max(pt.X, 0), 1) * float64(len(cubicKnots)-1)))
	c.edit(i, pt.Y)
	return i
}

// SetKeyframe edits the value of keyframe i. Its x is fixed.
func (c *ConstrainedCubic) SetKeyframe(pt Point, i int) {
	c.edit(i, pt.Y)
}

// DelKeyframe always refuses: the keyframe count is fixed.
func (c *ConstrainedCubic) DelKeyframe(i int) bool { return false }

// MoveKeys does nothing: the domain is fixed to [0, 1].
func (c *ConstrainedCubic) MoveKeys(offsetFirst, offsetLast float64) {}

func (c *ConstrainedCubic) RemoveKeyframeBefore(frame float64) {}

func (c *ConstrainedCubic) RemoveKeyframeAfter(frame float64) {}

// NormalizeX returns 1: the domain is already [0, 1].
func (c *ConstrainedCubic) NormalizeX() float64 { return 1 }

func (c *ConstrainedCubic) Resample(n int) {}

// restore fits P to arbitrary keyframes, keeping P(1) = 1. Keyframes outside
// [0, 1] are ignored. If no monotonic fit exists the identity is kept.
func (c *ConstrainedCubic) restore(pts []Point) {
	var in []Point
	for _, p := range pts {
		if p.X >= 0 && p.X <= 1 {
			in = append(in, p)
		}
	}
	if len(in) == 0 {
		return
	}
	coeffs, err := fitCubic(in, []Point{{1, 1}})
	if err != nil || !monotonic(coeffs) {
		Logger().Debug("cubic restore kept identity", "keyframes", len(in), "err", err)
		return
	}
	c.coeffs = coeffs
	c.project()
	c.commit()
}
