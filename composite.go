package curve

import (
	"fmt"
	"math"
	"slices"
)

// Continuity is the order of continuity enforced at the junctions of a
// [CompositeBezier2D].
type Continuity int

const (
	// C0 only joins the segments.
	C0 Continuity = iota
	// C1 makes the tangents at each junction antiparallel.
	C1
	// C2 additionally matches the second derivatives.
	C2
)

func (c Continuity) String() string {
	switch c {
	case C0:
		return "C0"
	case C1:
		return "C1"
	case C2:
		return "C2"
	default:
		return fmt.Sprintf("Continuity(%d)", int(c))
	}
}

// timeEpsilon is the distance under which two control point times are
// considered equal.
const timeEpsilon = 1e-6

// CompositeBezier2D is a chain of cubic Bézier segments through control
// points, each control point having a time in [0, 1].
//
// Segment i starts at control point i and ends at control point i+1. The
// segment of the last control point is a degenerate terminal segment with all
// four points at the control point. Interior points of a segment are at
// thirds of its chord unless they were authored with
// [CompositeBezier2D.SetSegmentControlPoints] or
// [CompositeBezier2D.FitSegment].
//
// Every mutation re-links the segments, enforces the continuity order and
// rebuilds the arc length tables before returning.
type CompositeBezier2D struct {
	times            []float64
	beziers          []*Bezier2D
	trajectoryExists []bool
	breakContinuity  []bool
	continuity       Continuity
}

// NewCompositeBezier2D returns a C1 composite curve with a single control
// point at time t, clamped to [0, 1].
func NewCompositeBezier2D(t float64, p Point) *CompositeBezier2D {
	return &CompositeBezier2D{
		times:            []float64{clampTime(t)},
		beziers:          []*Bezier2D{NewBezier2D(p, p, p, p)},
		trajectoryExists: []bool{false},
		breakContinuity:  []bool{false},
		continuity:       C1,
	}
}

// Len returns the number of control points.
func (cb *CompositeBezier2D) Len() int { return len(cb.times) }

func (cb *CompositeBezier2D) Time(i int) float64 { return cb.times[i] }

// Times returns a copy of the control point times.
func (cb *CompositeBezier2D) Times() []float64 { return slices.Clone(cb.times) }

func (cb *CompositeBezier2D) ControlPoint(i int) Point { return cb.beziers[i].c.P0 }

// Segment returns a copy of the segment starting at control point i.
func (cb *CompositeBezier2D) Segment(i int) *Bezier2D { return cb.beziers[i].Clone() }

// TrajectoryExists reports whether the interior points of segment i were
// authored rather than computed.
func (cb *CompositeBezier2D) TrajectoryExists(i int) bool { return cb.trajectoryExists[i] }

func (cb *CompositeBezier2D) BreakContinuity(i int) bool { return cb.breakContinuity[i] }

func (cb *CompositeBezier2D) Continuity() Continuity { return cb.continuity }

func clampTime(t float64) float64 { return min(max(t, 0), 1) }

// AddControlPoint adds a control point at time t, clamped to [0, 1], and
// returns its index.
//
// A time beyond the last one appends a segment. A time within 1e-6 of an
// existing one moves that control point instead. Otherwise the segment
// containing t is split at the matching arc length and p becomes the
// junction of the halves.
func (cb *CompositeBezier2D) AddControlPoint(t float64, p Point) int {
	t = clampTime(t)
	for i, ti := range cb.times {
		if math.Abs(ti-t) < timeEpsilon {
			cb.MoveControlPoint(i, p)
			return i
		}
	}

	n := len(cb.times)
	var i int
	switch {
	case t > cb.times[n-1]:
		// The terminal segment becomes a real one ending at p.
		i = n
		cb.insertSlot(i, t, NewBezier2D(p, p, p, p), false)
	case t < cb.times[0]:
		i = 0
		cb.insertSlot(i, t, NewBezier2D(p, p, p, p), false)
	default:
		seg := cb.segmentAt(t)
		s := (t - cb.times[seg]) / (cb.times[seg+1] - cb.times[seg])
		left, right := cb.beziers[seg].Split(cb.beziers[seg].Param(s))
		left.c.P3, right.c.P0 = p, p
		cb.beziers[seg] = left
		i = seg + 1
		cb.insertSlot(i, t, right, cb.trajectoryExists[seg])
	}
	cb.finish()
	return i
}

func (cb *CompositeBezier2D) insertSlot(i int, t float64, b *Bezier2D, authored bool) {
	cb.times = slices.Insert(cb.times, i, t)
	cb.beziers = slices.Insert(cb.beziers, i, b)
	cb.trajectoryExists = slices.Insert(cb.trajectoryExists, i, authored)
	cb.breakContinuity = slices.Insert(cb.breakContinuity, i, false)
}

func (cb *CompositeBezier2D) deleteSlot(i int) {
	cb.times = slices.Delete(cb.times, i, i+1)
	cb.beziers = slices.Delete(cb.beziers, i, i+1)
	cb.trajectoryExists = slices.Delete(cb.trajectoryExists, i, i+1)
	cb.breakContinuity = slices.Delete(cb.breakContinuity, i, i+1)
}

// segmentAt returns the index of the segment whose time range contains t.
func (cb *CompositeBezier2D) segmentAt(t float64) int {
	i, _ := slices.BinarySearch(cb.times, t)
	return min(max(i-1, 0), len(cb.times)-2)
}

// MoveControlPoint moves control point i to p. Authored segments starting
// or ending at it are rotated and scaled along; the others are recomputed.
func (cb *CompositeBezier2D) MoveControlPoint(i int, p Point) {
	old := cb.beziers[i].c.P0
	if i > 0 && cb.trajectoryExists[i-1] {
		prev := cb.beziers[i-1]
		reshape(prev, prev.c.P0, old, prev.c.P0, p)
	}
	if i < len(cb.times)-1 && cb.trajectoryExists[i] {
		b := cb.beziers[i]
		reshape(b, old, b.c.P3, p, b.c.P3)
	}
	cb.beziers[i].c.P0 = p
	cb.finish()
}

// DeleteControlPoint removes control point i and its segment, joining its
// neighbours. It refuses to remove the last control point and reports
// whether one was removed.
func (cb *CompositeBezier2D) DeleteControlPoint(i int) bool {
	n := len(cb.times)
	if n <= 1 {
		return false
	}
	if i > 0 && i < n-1 && cb.trajectoryExists[i-1] {
		// Keep the shape of the authored segment, stretched to the next
		// control point.
		prev := cb.beziers[i-1]
		reshape(prev, prev.c.P0, prev.c.P3, prev.c.P0, cb.beziers[i+1].c.P0)
	}
	cb.deleteSlot(i)
	cb.finish()
	return true
}

// reshape carries an authored segment along when its chord moves from
// (from0, from1) to (to0, to1). An empty new chord would collapse the
// handles, so they are left in place and only the ends follow.
func reshape(b *Bezier2D, from0, from1, to0, to1 Point) {
	aff := Similarity(from0, from1, to0, to1)
	if aff.Determinant() == 0 {
		return
	}
	b.c = b.c.Transform(aff)
}

// SetSegmentControlPoints sets the interior points of segment i and marks
// them as authored.
func (cb *CompositeBezier2D) SetSegmentControlPoints(i int, p1, p2 Point) {
	cb.checkSegment(i)
	cb.beziers[i].c.P1 = p1
	cb.beziers[i].c.P2 = p2
	cb.trajectoryExists[i] = true
	cb.finish()
}

// FitSegment fits the interior points of segment i to data, keeping the
// segment's end points, and marks them as authored. It returns the maximum
// fitting error before the end points were restored.
func (cb *CompositeBezier2D) FitSegment(i int, data []Point) float64 {
	cb.checkSegment(i)
	b := cb.beziers[i]
	p0, p3 := b.c.P0, b.c.P3
	err := b.Fit(data, true)
	b.FitExtremities(p0, p3)
	cb.trajectoryExists[i] = true
	cb.finish()
	return err
}

// ClearTrajectory drops authored interior points of segment i, which go back
// to thirds of the chord.
func (cb *CompositeBezier2D) ClearTrajectory(i int) {
	cb.trajectoryExists[i] = false
	cb.finish()
}

func (cb *CompositeBezier2D) checkSegment(i int) {
	if i < 0 || i >= len(cb.times)-1 {
		panic(fmt.Sprintf("segment %d out of range [0, %d)", i, len(cb.times)-1))
	}
}

// SetBreakContinuity suppresses or restores continuity enforcement at
// control point i.
func (cb *CompositeBezier2D) SetBreakContinuity(i int, brk bool) {
	cb.breakContinuity[i] = brk
	cb.finish()
}

// ChangeContinuity sets the continuity order and enforces it.
func (cb *CompositeBezier2D) ChangeContinuity(c Continuity) {
	switch c {
	case C0, C1, C2:
	default:
		panic(fmt.Sprintf("unhandled case %v", c))
	}
	cb.continuity = c
	cb.finish()
}

// relink makes every segment end where the next one starts and collapses
// the terminal segment onto the last control point. The terminal segment
// has no interior to author.
func (cb *CompositeBezier2D) relink() {
	n := len(cb.beziers)
	for i := 0; i < n-1; i++ {
		cb.beziers[i].c.P3 = cb.beziers[i+1].c.P0
	}
	last := cb.beziers[n-1]
	p := last.c.P0
	last.c = CubicBez{p, p, p, p}
	cb.trajectoryExists[n-1] = false
}

// recomputeIntermediatePoint places the interior points of segment i at
// thirds of its chord, unless they are authored.
func (cb *CompositeBezier2D) recomputeIntermediatePoint(i int) {
	if i < 0 || i >= len(cb.beziers)-1 || cb.trajectoryExists[i] {
		return
	}
	b := cb.beziers[i]
	b.c = lineCubic(b.c.P0, b.c.P3)
}

// ApplyContinuity enforces the continuity order at every interior junction
// whose continuity is not broken.
//
// For C1 the two handles at a junction are made antiparallel. An authored
// handle is mirrored exactly onto the other one; otherwise both keep their
// lengths and take the mean direction. For C2 the outgoing handle mirrors the
// incoming one and the next interior point is placed so that the second
// derivatives match. Authored interior points are kept under C2 as well: a
// junction starting an authored segment only gets the C1 mirror, which also
// gives up second derivative matching at the junction before it.
func (cb *CompositeBezier2D) ApplyContinuity() {
	if cb.continuity == C0 {
		return
	}
	for j := 1; j < len(cb.beziers)-1; j++ {
		if cb.breakContinuity[j] {
			continue
		}
		in, out := cb.beziers[j-1], cb.beziers[j]
		joint := out.c.P0
		switch cb.continuity {
		case C1:
			switch {
			case cb.trajectoryExists[j]:
				in.c.P2 = out.c.P1.Reflect(joint)
			case cb.trajectoryExists[j-1]:
				out.c.P1 = in.c.P2.Reflect(joint)
			default:
				alignHandles(&in.c.P2, joint, &out.c.P1)
			}
		case C2:
			if cb.trajectoryExists[j] {
				in.c.P2 = out.c.P1.Reflect(joint)
				continue
			}
			out.c.P1 = in.c.P2.Reflect(joint)
			// P1 - 2 P2 + P3 of the incoming segment equals P0 - 2 P1 + P2 of
			// the outgoing one.
			out.c.P2 = Point(Vec2(in.c.P1).Sub(Vec2(in.c.P2).Mul(2)).Add(Vec2(out.c.P1).Mul(2)))
		default:
			panic(fmt.Sprintf("unhandled case %v", cb.continuity))
		}
	}
}

// alignHandles rotates the handles at joint onto a common line, keeping
// their lengths.
func alignHandles(in *Point, joint Point, out *Point) {
	dIn := joint.Sub(*in)
	dOut := out.Sub(joint)
	lIn, lOut := dIn.Hypot(), dOut.Hypot()
	if lIn == 0 || lOut == 0 {
		return
	}
	dir := dIn.Div(lIn).Add(dOut.Div(lOut))
	if l := dir.Hypot(); l > 1e-12 {
		dir = dir.Div(l)
	} else {
		// Handles on the same side: keep the outgoing direction.
		dir = dOut.Div(lOut)
	}
	*in = joint.Translate(dir.Mul(-lIn))
	*out = joint.Translate(dir.Mul(lOut))
}

// finish restores consistency after a mutation.
func (cb *CompositeBezier2D) finish() {
	cb.relink()
	for i := range cb.beziers {
		cb.recomputeIntermediatePoint(i)
	}
	cb.ApplyContinuity()
	for _, b := range cb.beziers {
		b.UpdateArclengthLUT()
	}
}

// locate returns the segment containing composite time t and the local
// fraction of its time range, or false when t is outside the time range.
func (cb *CompositeBezier2D) locate(t float64) (int, float64, bool) {
	n := len(cb.times)
	if n == 1 || t <= cb.times[0] {
		return 0, 0, false
	}
	if t >= cb.times[n-1] {
		return n - 1, 0, false
	}
	i := cb.segmentAt(t)
	return i, (t - cb.times[i]) / (cb.times[i+1] - cb.times[i]), true
}

// EvalArcLength returns the point at composite time t, traversing each
// segment at uniform speed. Times outside the range map to the first or last
// control point.
func (cb *CompositeBezier2D) EvalArcLength(t float64) Point {
	i, s, ok := cb.locate(t)
	if !ok {
		return cb.ControlPoint(i)
	}
	return cb.beziers[i].EvalArcLength(s)
}

// Eval is like [CompositeBezier2D.EvalArcLength] but uses the segment
// parameter directly.
func (cb *CompositeBezier2D) Eval(t float64) Point {
	i, s, ok := cb.locate(t)
	if !ok {
		return cb.ControlPoint(i)
	}
	return cb.beziers[i].Eval(s)
}

// Cubics returns the real segments as raw Béziers, in order.
func (cb *CompositeBezier2D) Cubics() []CubicBez {
	out := make([]CubicBez, 0, len(cb.beziers)-1)
	for _, b := range cb.beziers[:len(cb.beziers)-1] {
		out = append(out, b.c)
	}
	return out
}

// BoundingBox returns the bounding box of all segments.
func (cb *CompositeBezier2D) BoundingBox() Rect {
	p := cb.ControlPoint(0)
	bbox := NewRectFromPoints(p, p)
	for _, c := range cb.Cubics() {
		bbox = bbox.Union(c.BoundingBox())
	}
	return bbox
}
