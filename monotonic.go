package curve

import (
	"math"
	"slices"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// flatEpsilon is the value difference under which two consecutive keyframes
// are treated as a flat run.
const flatEpsilon = 1e-5

// MonotonicCubic is a piecewise cubic Hermite interpolant with one slope per
// keyframe. Slopes are limited with the Fritsch–Carlson rule, so the curve
// is monotonic wherever the keyframe values are.
//
// This is the curve type used for spacing (time warping), where a
// non-monotonic curve would make the animation go backwards.
type MonotonicCubic struct {
	keyframes
	slopes []float64
}

var _ Interpolator = (*MonotonicCubic)(nil)

func NewMonotonicCubic(first Point) *MonotonicCubic {
	return &MonotonicCubic{
		keyframes: newKeyframes(first),
		slopes:    []float64{0},
	}
}

func (m *MonotonicCubic) Kind() Kind { return KindMonotonicCubic }

func (m *MonotonicCubic) clone() *MonotonicCubic {
	return &MonotonicCubic{
		keyframes: keyframes{points: m.Points(), tangents: m.Tangents()},
		slopes:    slices.Clone(m.slopes),
	}
}

// Slopes returns a copy of the per-keyframe slopes.
func (m *MonotonicCubic) Slopes() []float64 { return slices.Clone(m.slopes) }

func (m *MonotonicCubic) Slope(i int) float64 { return m.slopes[i] }

// SetSlope sets the slope of keyframe i. The slope is limited like any
// other so that monotonicity is kept.
func (m *MonotonicCubic) SetSlope(i int, slope float64) {
	m.slopes[i] = slope
	m.repair(i)
}

// SetSlopes restores all slopes positionally. If the count does not match
// the keyframes, the slopes are derived with [MonotonicCubic.MakeSlopes].
func (m *MonotonicCubic) SetSlopes(slopes []float64) {
	if len(slopes) != len(m.points) {
		m.MakeSlopes()
		return
	}
	m.slopes = slices.Clone(slopes)
	m.makeMonotonic()
}

// secant returns the slope of segment i.
func (m *MonotonicCubic) secant(i int) float64 {
	p0, p1 := m.points[i], m.points[i+1]
	return (p1.Y - p0.Y) / (p1.X - p0.X)
}

// MakeSlopes sets each slope to the average of the adjacent secants (the
// one-sided secant at the ends) and limits them.
func (m *MonotonicCubic) MakeSlopes() {
	n := len(m.points)
	m.slopes = make([]float64, n)
	if n < 2 {
		return
	}
	m.slopes[0] = m.secant(0)
	m.slopes[n-1] = m.secant(n - 2)
	for k := 1; k < n-1; k++ {
		m.slopes[k] = 0.5 * (m.secant(k-1) + m.secant(k))
	}
	m.makeMonotonic()
}

// MakeNaturalC2 solves for the slopes of the C2 natural spline through the
// keyframes, then limits them. The result is only C2 where no limiting was
// necessary.
func (m *MonotonicCubic) MakeNaturalC2() {
	n := len(m.points)
	if n < 3 {
		m.MakeSlopes()
		return
	}
	a := mat.NewDense(n, n, nil)
	b := mat.NewVecDense(n, nil)
	a.Set(0, 0, 2)
	a.Set(0, 1, 1)
	b.SetVec(0, 3*m.secant(0))
	for k := 1; k < n-1; k++ {
		hl := m.points[k].X - m.points[k-1].X
		hr := m.points[k+1].X - m.points[k].X
		a.Set(k, k-1, hr)
		a.Set(k, k, 2*(hl+hr))
		a.Set(k, k+1, hl)
		b.SetVec(k, 3*(hr*m.secant(k-1)+hl*m.secant(k)))
	}
	a.Set(n-1, n-2, 1)
	a.Set(n-1, n-1, 2)
	b.SetVec(n-1, 3*m.secant(n-2))

	var x mat.VecDense
	if err := x.SolveVec(a, b); err != nil {
		Logger().Warn("singular slope system, using averaged secants", "keyframes", n, "err", err)
		m.MakeSlopes()
		return
	}
	m.slopes = make([]float64, n)
	for k := range n {
		m.slopes[k] = x.AtVec(k)
	}
	m.makeMonotonic()
}

// limitSlope applies the Fritsch–Carlson limits to slope k: zero at
// extrema and sign changes, magnitude at most three times the smaller
// adjacent secant.
func (m *MonotonicCubic) limitSlope(k int) {
	n := len(m.points)
	if n < 2 {
		m.slopes[k] = 0
		return
	}
	s := m.slopes[k]
	var bound float64
	switch k {
	case 0:
		d := m.secant(0)
		if s*d <= 0 {
			m.slopes[k] = 0
			return
		}
		bound = 3 * math.Abs(d)
	case n - 1:
		d := m.secant(n - 2)
		if s*d <= 0 {
			m.slopes[k] = 0
			return
		}
		bound = 3 * math.Abs(d)
	default:
		dl, dr := m.secant(k-1), m.secant(k)
		if dl*dr <= 0 || s*dr <= 0 {
			m.slopes[k] = 0
			return
		}
		bound = 3 * min(math.Abs(dl), math.Abs(dr))
	}
	if math.Abs(s) > bound {
		m.slopes[k] = math.Copysign(bound, s)
	}
}

// flatten zeroes both slopes of segment i if its end values are equal.
func (m *MonotonicCubic) flatten(i int) {
	if math.Abs(m.points[i+1].Y-m.points[i].Y) < flatEpsilon {
		m.slopes[i] = 0
		m.slopes[i+1] = 0
	}
}

func (m *MonotonicCubic) makeMonotonic() {
	for k := range m.slopes {
		m.limitSlope(k)
	}
	for i := 0; i < len(m.points)-1; i++ {
		m.flatten(i)
	}
}

// repair re-limits the slopes around keyframe i.
func (m *MonotonicCubic) repair(i int) {
	n := len(m.points)
	for k := max(i-1, 0); k <= min(i+1, n-1); k++ {
		m.limitSlope(k)
	}
	for j := max(i-1, 0); j <= min(i, n-2); j++ {
		m.flatten(j)
	}
}

// locate returns the segment and local parameter of x, or false outside
// the domain. The domain end points themselves are inside.
func (m *MonotonicCubic) locate(x float64) (int, float64, bool) {
	if len(m.points) < 2 || x < m.first().X || x > m.last().X {
		return 0, 0, false
	}
	i := m.segment(x)
	p0, p1 := m.points[i], m.points[i+1]
	return i, (x - p0.X) / (p1.X - p0.X), true
}

func (m *MonotonicCubic) EvalAt(x float64) float64 {
	i, t, ok := m.locate(x)
	if !ok {
		y, _ := m.clamped(x)
		return y
	}
	p0, p1 := m.points[i], m.points[i+1]
	h := p1.X - p0.X
	t2 := t * t
	t3 := t2 * t
	h00 := 2*t3 - 3*t2 + 1
	h10 := t3 - 2*t2 + t
	h01 := -2*t3 + 3*t2
	h11 := t3 - t2
	return h00*p0.Y + h10*h*m.slopes[i] + h01*p1.Y + h11*h*m.slopes[i+1]
}

func (m *MonotonicCubic) EvalDerivativeAt(x float64) float64 {
	i, t, ok := m.locate(x)
	if !ok {
		return 0
	}
	p0, p1 := m.points[i], m.points[i+1]
	h := p1.X - p0.X
	t2 := t * t
	d00 := 6*t2 - 6*t
	d10 := 3*t2 - 4*t + 1
	d01 := -6*t2 + 6*t
	d11 := 3*t2 - 2*t
	return (d00*p0.Y+d01*p1.Y)/h + d10*m.slopes[i] + d11*m.slopes[i+1]
}

// EvalInverse returns the x at which the curve takes the value y. Values
// beyond the first or last keyframe map to the corresponding end of the
// domain. The result is only meaningful for monotonic keyframe values.
func (m *MonotonicCubic) EvalInverse(y float64) float64 {
	n := len(m.points)
	if n < 2 {
		return m.first().X
	}
	increasing := m.last().Y >= m.first().Y
	// above reports whether y has been reached at keyframe i.
	above := func(i int) bool {
		if increasing {
			return m.points[i].Y >= y
		}
		return m.points[i].Y <= y
	}
	if above(0) {
		return m.first().X
	}
	if !above(n - 1) {
		return m.last().X
	}
	i := sort.Search(n, above) - 1

	p0, p1 := m.points[i], m.points[i+1]
	h := p1.X - p0.X
	m0, m1 := h*m.slopes[i], h*m.slopes[i+1]
	c3 := 2*p0.Y + m0 - 2*p1.Y + m1
	c2 := -3*p0.Y - 2*m0 + 3*p1.Y - m1
	c1 := m0
	c0 := p0.Y - y
	t := solveUnitPolynomial(c0, c1, c2, c3)
	return p0.X + t*h
}

// AddKeyframe inserts pt with the slope the curve had at pt.X, then limits
// the slopes around it.
func (m *MonotonicCubic) AddKeyframe(pt Point) int {
	slope, inside := 0.0, false
	if len(m.points) > 1 && pt.X > m.first().X && pt.X < m.last().X {
		slope, inside = m.EvalDerivativeAt(pt.X), true
	}
	i, added := m.insert(pt)
	if added {
		m.slopes = slices.Insert(m.slopes, i, slope)
		if !inside && len(m.points) > 1 {
			if i == 0 {
				m.slopes[i] = m.secant(0)
			} else {
				m.slopes[i] = m.secant(i - 1)
			}
		}
		Logger().Debug("monotonic keyframe inserted", "index", i, "x", pt.X, "slope", m.slopes[i])
		if len(m.points) == 2 {
			// The slope of a lone keyframe was meaningless.
			m.MakeSlopes()
			return i
		}
	}
	m.repair(i)
	return i
}

func (m *MonotonicCubic) SetKeyframe(pt Point, i int) {
	m.set(pt, i)
	m.repair(i)
}

func (m *MonotonicCubic) DelKeyframe(i int) bool {
	if !m.remove(i) {
		return false
	}
	m.slopes = slices.Delete(m.slopes, i, i+1)
	m.repair(min(i, len(m.points)-1))
	return true
}

// rescaleSlopes follows a change of the x scale by ratio.
func (m *MonotonicCubic) rescaleSlopes(ratio float64) {
	if ratio == 0 || ratio == 1 {
		return
	}
	for k := range m.slopes {
		m.slopes[k] /= ratio
	}
}

func (m *MonotonicCubic) MoveKeys(offsetFirst, offsetLast float64) {
	m.rescaleSlopes(m.moveKeys(offsetFirst, offsetLast))
	m.makeMonotonic()
}

func (m *MonotonicCubic) RemoveKeyframeBefore(frame float64) {
	removed := m.truncateBefore(frame)
	m.slopes = slices.Clone(m.slopes[removed:])
	m.makeMonotonic()
}

func (m *MonotonicCubic) RemoveKeyframeAfter(frame float64) {
	kept := m.truncateAfter(frame)
	m.slopes = slices.Clone(m.slopes[:kept])
	m.makeMonotonic()
}

// NormalizeX rescales the domain to [0, 1]. The slopes are divided by the
// returned ratio so that the curve keeps its shape.
func (m *MonotonicCubic) NormalizeX() float64 {
	r := m.normalizeX()
	m.rescaleSlopes(r)
	m.makeMonotonic()
	return r
}

// Resample replaces the keyframes by samples of the curve, each with the
// curve's derivative at that position as slope.
func (m *MonotonicCubic) Resample(n int) {
	src := m.clone()
	xs := m.resampleXs(n)
	pts := make([]Point, len(xs))
	slopes := make([]float64, len(xs))
	for i, x := range xs {
		pts[i] = Pt(x, src.EvalAt(x))
		slopes[i] = src.EvalDerivativeAt(x)
	}
	m.replace(pts)
	m.slopes = slopes
	m.makeMonotonic()
}

func (m *MonotonicCubic) restore(pts []Point, tangents []Tangent) {
	m.keyframes.restore(pts, tangents)
	m.MakeSlopes()
}

// DichotomicOptions controls [MonotonicCubic.ResampleDichotomic].
type DichotomicOptions struct {
	// MaxDepth bounds the number of bisections of any interval.
	MaxDepth int
	// Threshold is the RMS error above which an interval is bisected.
	Threshold float64
	// Samples is the number of samples used to measure the RMS error of an
	// interval.
	Samples int
}

// DefaultDichotomicOptions are suitable for spacing curves normalized to
// [0, 1].
var DefaultDichotomicOptions = DichotomicOptions{
	MaxDepth:  6,
	Threshold: 1e-3,
	Samples:   16,
}

// ResampleDichotomic rebuilds the curve from its end points, bisecting the
// domain and inserting the midpoint of every interval whose RMS error
// against the original curve exceeds the threshold, until the maximum depth
// is reached. It returns the new number of keyframes.
func (m *MonotonicCubic) ResampleDichotomic(opts DichotomicOptions) int {
	if len(m.points) < 2 {
		return len(m.points)
	}
	if opts.Samples < 2 {
		opts.Samples = DefaultDichotomicOptions.Samples
	}
	src := m.clone()
	x0, x1 := src.first().X, src.last().X
	m.replace([]Point{src.first(), src.last()})
	m.slopes = []float64{src.EvalDerivativeAt(x0), src.EvalDerivativeAt(x1)}
	m.makeMonotonic()

	type interval struct {
		a, b  float64
		depth int
	}
	work := []interval{{x0, x1, 0}}
	xs := make([]float64, opts.Samples)
	for len(work) > 0 {
		iv := work[len(work)-1]
		work = work[:len(work)-1]
		if iv.depth >= opts.MaxDepth {
			continue
		}
		var sum float64
		for _, x := range floats.Span(xs, iv.a, iv.b) {
			d := m.EvalAt(x) - src.EvalAt(x)
			sum += d * d
		}
		if math.Sqrt(sum/float64(len(xs))) <= opts.Threshold {
			continue
		}
		mid := 0.5 * (iv.a + iv.b)
		i, added := m.insert(Pt(mid, src.EvalAt(mid)))
		if added {
			m.slopes = slices.Insert(m.slopes, i, src.EvalDerivativeAt(mid))
		}
		m.repair(i)
		// The left half is popped first.
		work = append(work, interval{mid, iv.b, iv.depth + 1}, interval{iv.a, mid, iv.depth + 1})
	}
	Logger().Debug("dichotomic resampling", "keyframes", len(m.points), "maxDepth", opts.MaxDepth)
	return len(m.points)
}
