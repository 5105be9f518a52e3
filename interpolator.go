package curve

import (
	"fmt"
	"slices"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// Kind selects the interpolation scheme of a [Curve].
//
// The numeric values are stable and used by snapshots.
type Kind int

const (
	KindLinear Kind = iota
	KindStep
	KindShepard
	KindSpline
	KindHermite
	// KindCubic is the legacy constrained cubic polynomial, kept so that
	// older spacing curves keep their shape.
	KindCubic
	KindMonotonicCubic
	KindHermiteArcLength
)

var kindNames = [...]string{
	KindLinear:           "Linear",
	KindStep:             "Step",
	KindShepard:          "Shepard",
	KindSpline:           "Spline",
	KindHermite:          "Hermite",
	KindCubic:            "Cubic",
	KindMonotonicCubic:   "MonotonicCubic",
	KindHermiteArcLength: "HermiteArcLength",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Kinds returns all interpolation kinds in id order.
func Kinds() []Kind {
	out := make([]Kind, len(kindNames))
	for i := range out {
		out[i] = Kind(i)
	}
	return out
}

// ParseKind returns the kind with the given name.
func ParseKind(name string) (Kind, bool) {
	i := slices.Index(kindNames[:], name)
	if i < 0 {
		return 0, false
	}
	return Kind(i), true
}

// Tangent holds the outgoing (right-hand) and incoming (left-hand)
// derivative directions of a keyframe, used by the Hermite interpolators.
type Tangent struct {
	OutX, OutY float64
	InX, InY   float64
}

func (t Tangent) Out() Vec2 { return Vec2{t.OutX, t.OutY} }
func (t Tangent) In() Vec2  { return Vec2{t.InX, t.InY} }

// Interpolator computes a continuous 1-D function through an ordered list of
// keyframes.
//
// Every mutating method leaves the interpolator consistent: cached solutions
// such as spline coefficients, slopes or arc length tables are re-derived
// before the method returns.
type Interpolator interface {
	Kind() Kind
	// Len returns the number of keyframes. It is never less than 1.
	Len() int
	// Points returns a copy of the keyframes, sorted by x.
	Points() []Point
	Point(i int) Point
	// Tangents returns a copy of the per-keyframe tangents.
	Tangents() []Tangent
	Tangent(i int) Tangent
	SetTangent(i int, t Tangent)

	EvalAt(x float64) float64
	EvalDerivativeAt(x float64) float64

	// AddKeyframe inserts pt in x order and returns its index. A keyframe
	// with the same x is overwritten instead.
	AddKeyframe(pt Point) int
	// SetKeyframe replaces keyframe i. Its x is kept strictly between the
	// neighbouring keyframes.
	SetKeyframe(pt Point, i int)
	// DelKeyframe removes keyframe i. It refuses to remove the last
	// keyframe and reports whether a keyframe was removed.
	DelKeyframe(i int) bool
	// MoveKeys moves the first keyframe by offsetFirst and the last one by
	// offsetLast, redistributing the others linearly in between.
	MoveKeys(offsetFirst, offsetLast float64)
	// RemoveKeyframeBefore removes the keyframes with x < frame.
	RemoveKeyframeBefore(frame float64)
	// RemoveKeyframeAfter removes the keyframes with x > frame.
	RemoveKeyframeAfter(frame float64)
	// NormalizeX rescales the x domain to [0, 1] and returns the scale
	// ratio applied to x.
	NormalizeX() float64
	// Resample replaces the keyframes by the two end points and n evenly
	// spaced interior samples of the current curve.
	Resample(n int)
}

// keyframeEpsilon is the distance under which two keyframe positions are
// considered equal.
const keyframeEpsilon = 1e-9

// keyframes is the ordered point list shared by all interpolators.
//
// update, if set, is called after every mutation to re-derive caches.
type keyframes struct {
	points   []Point
	tangents []Tangent
	update   func()
}

func newKeyframes(first Point) keyframes {
	return keyframes{
		points:   []Point{first},
		tangents: []Tangent{{}},
	}
}

func (k *keyframes) changed() {
	if k.update != nil {
		k.update()
	}
}

func (k *keyframes) Len() int { return len(k.points) }

func (k *keyframes) Points() []Point { return slices.Clone(k.points) }

func (k *keyframes) Point(i int) Point { return k.points[i] }

func (k *keyframes) Tangents() []Tangent { return slices.Clone(k.tangents) }

func (k *keyframes) Tangent(i int) Tangent { return k.tangents[i] }

func (k *keyframes) SetTangent(i int, t Tangent) {
	k.tangents[i] = t
	k.changed()
}

func (k *keyframes) first() Point { return k.points[0] }
func (k *keyframes) last() Point  { return k.points[len(k.points)-1] }

// segment returns the index i of the segment [x_i, x_{i+1}] containing x.
// x must lie strictly inside the domain.
func (k *keyframes) segment(x float64) int {
	// First index with points[i].X > x, minus one.
	i := sort.Search(len(k.points), func(i int) bool { return k.points[i].X > x })
	return min(max(i-1, 0), len(k.points)-2)
}

// clamped reports whether x lies outside the domain, and if so, the
// boundary value.
func (k *keyframes) clamped(x float64) (float64, bool) {
	if len(k.points) == 1 || x <= k.first().X {
		return k.first().Y, true
	}
	if x >= k.last().X {
		return k.last().Y, true
	}
	return 0, false
}

// insert adds pt in x order. It reports the index and whether a new
// keyframe was created; otherwise the keyframe at the same x was overwritten.
func (k *keyframes) insert(pt Point) (int, bool) {
	i := sort.Search(len(k.points), func(i int) bool { return k.points[i].X >= pt.X-keyframeEpsilon })
	if i < len(k.points) && k.points[i].X-pt.X <= keyframeEpsilon {
		k.points[i].Y = pt.Y
		return i, false
	}
	k.points = slices.Insert(k.points, i, pt)
	k.tangents = slices.Insert(k.tangents, i, Tangent{})
	return i, true
}

// set replaces point i, keeping x strictly between its neighbours.
func (k *keyframes) set(pt Point, i int) {
	if i > 0 {
		pt.X = max(pt.X, k.points[i-1].X+keyframeEpsilon)
	}
	if i < len(k.points)-1 {
		pt.X = min(pt.X, k.points[i+1].X-keyframeEpsilon)
	}
	k.points[i] = pt
}

func (k *keyframes) remove(i int) bool {
	if len(k.points) <= 1 {
		return false
	}
	k.points = slices.Delete(k.points, i, i+1)
	k.tangents = slices.Delete(k.tangents, i, i+1)
	return true
}

// keep retains the keyframes [i, j).
func (k *keyframes) keep(i, j int) {
	k.points = slices.Clone(k.points[i:j])
	k.tangents = slices.Clone(k.tangents[i:j])
}

// truncateBefore removes keyframes with x < frame but always keeps one.
// It returns the number of removed keyframes.
func (k *keyframes) truncateBefore(frame float64) int {
	i := sort.Search(len(k.points), func(i int) bool { return k.points[i].X >= frame })
	i = min(i, len(k.points)-1)
	k.keep(i, len(k.points))
	return i
}

// truncateAfter removes keyframes with x > frame but always keeps one. It
// returns the number of keyframes kept.
func (k *keyframes) truncateAfter(frame float64) int {
	j := sort.Search(len(k.points), func(i int) bool { return k.points[i].X > frame })
	j = max(j, 1)
	k.keep(0, j)
	return j
}

// rescaleX maps the domain linearly onto [first, last]. Tangent x
// components follow the change. It returns the scale ratio.
//
// A range that is empty or reversed would break the order of the keyframes
// and leaves them untouched, with a ratio of 1.
func (k *keyframes) rescaleX(first, last float64) float64 {
	x0, x1 := k.first().X, k.last().X
	if len(k.points) == 1 || x1 == x0 {
		k.points[0].X = first
		return 1
	}
	if last <= first {
		Logger().Debug("ignoring keyframe rescale to an empty range", "first", first, "last", last)
		return 1
	}
	ratio := (last - first) / (x1 - x0)
	for i := range k.points {
		k.points[i].X = first + (k.points[i].X-x0)*ratio
		k.tangents[i].OutX *= ratio
		k.tangents[i].InX *= ratio
	}
	k.points[len(k.points)-1].X = last
	return ratio
}

func (k *keyframes) moveKeys(offsetFirst, offsetLast float64) float64 {
	return k.rescaleX(k.first().X+offsetFirst, k.last().X+offsetLast)
}

func (k *keyframes) normalizeX() float64 {
	return k.rescaleX(0, 1)
}

// AddKeyframe implements [Interpolator].
func (k *keyframes) AddKeyframe(pt Point) int {
	i, _ := k.insert(pt)
	k.changed()
	return i
}

// SetKeyframe implements [Interpolator].
func (k *keyframes) SetKeyframe(pt Point, i int) {
	k.set(pt, i)
	k.changed()
}

// DelKeyframe implements [Interpolator].
func (k *keyframes) DelKeyframe(i int) bool {
	if !k.remove(i) {
		return false
	}
	k.changed()
	return true
}

// MoveKeys implements [Interpolator].
func (k *keyframes) MoveKeys(offsetFirst, offsetLast float64) {
	k.moveKeys(offsetFirst, offsetLast)
	k.changed()
}

// RemoveKeyframeBefore implements [Interpolator].
func (k *keyframes) RemoveKeyframeBefore(frame float64) {
	k.truncateBefore(frame)
	k.changed()
}

// RemoveKeyframeAfter implements [Interpolator].
func (k *keyframes) RemoveKeyframeAfter(frame float64) {
	k.truncateAfter(frame)
	k.changed()
}

// NormalizeX implements [Interpolator].
func (k *keyframes) NormalizeX() float64 {
	r := k.normalizeX()
	k.changed()
	return r
}

// resampleXs returns the end points of the domain and n evenly spaced
// positions between them.
func (k *keyframes) resampleXs(n int) []float64 {
	if len(k.points) == 1 {
		return []float64{k.first().X}
	}
	return floats.Span(make([]float64, max(n, 0)+2), k.first().X, k.last().X)
}

// replace swaps in a new point list, resetting tangents.
func (k *keyframes) replace(pts []Point) {
	k.points = pts
	k.tangents = make([]Tangent, len(pts))
}

// resampleWith replaces the keyframes with samples of eval.
func (k *keyframes) resampleWith(n int, eval func(float64) float64) {
	xs := k.resampleXs(n)
	pts := make([]Point, len(xs))
	for i, x := range xs {
		pts[i] = Pt(x, eval(x))
	}
	k.replace(pts)
}

// restore seeds the keyframes from another interpolator's data. Points
// already strictly sorted by x are taken as they are.
func (k *keyframes) restore(pts []Point, tangents []Tangent) {
	k.points = k.points[:0]
	k.tangents = k.tangents[:0]
	if sortedByX(pts) {
		k.points = append(k.points, pts...)
		k.tangents = append(k.tangents, make([]Tangent, len(pts))...)
	} else {
		for _, pt := range pts {
			k.insert(pt)
		}
	}
	if len(k.points) == 0 {
		k.points = []Point{{}}
		k.tangents = []Tangent{{}}
	}
	if len(tangents) == len(k.points) {
		copy(k.tangents, tangents)
	}
	k.changed()
}

// NewInterpolator creates an interpolator of the given kind from existing
// keyframes and tangents. Points need not be sorted; tangents are restored
// positionally when their count matches. With no points, a single keyframe at
// the origin is created.
func NewInterpolator(kind Kind, pts []Point, tangents []Tangent) Interpolator {
	var first Point
	if len(pts) > 0 {
		first = pts[0]
	}
	var in Interpolator
	switch kind {
	case KindLinear:
		in = NewLinear(first)
	case KindStep:
		in = NewStep(first)
	case KindShepard:
		in = NewShepard(first)
	case KindSpline:
		in = NewNaturalSpline(first)
	case KindHermite:
		in = NewHermite(first)
	case KindCubic:
		c := NewConstrainedCubic()
		c.restore(pts)
		return c
	case KindMonotonicCubic:
		in = NewMonotonicCubic(first)
	case KindHermiteArcLength:
		in = NewHermiteArcLength(first)
	default:
		panic(fmt.Sprintf("unhandled case %v", kind))
	}
	in.(restorer).restore(pts, tangents)
	return in
}

type restorer interface {
	restore(pts []Point, tangents []Tangent)
}
