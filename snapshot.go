package curve

import (
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

type curveSnapshot struct {
	Interpolation string      `yaml:"interpolation"`
	Points        [][]float64 `yaml:"points,flow"`
	Tangents      [][]float64 `yaml:"tangents,flow"`
	Slopes        []float64   `yaml:"slopes,omitempty,flow"`
}

var (
	_ yaml.Marshaler   = (*Curve)(nil)
	_ yaml.Unmarshaler = (*Curve)(nil)
)

// MarshalYAML stores the kind, keyframes and tangents of the curve, and the
// slopes of a monotonic cubic curve.
func (c *Curve) MarshalYAML() (any, error) {
	snap := curveSnapshot{Interpolation: c.in.Kind().String()}
	for _, p := range c.in.Points() {
		snap.Points = append(snap.Points, []float64{p.X, p.Y})
	}
	for _, t := range c.in.Tangents() {
		snap.Tangents = append(snap.Tangents, []float64{t.OutX, t.OutY, t.InX, t.InY})
	}
	if m, ok := c.in.(*MonotonicCubic); ok {
		snap.Slopes = m.Slopes()
	}
	return snap, nil
}

// UnmarshalYAML restores a curve stored by [Curve.MarshalYAML]. The kind may
// be given by name or by numeric id. Keyframes are sorted on load, tangents
// and slopes are restored positionally, and missing slopes are derived.
func (c *Curve) UnmarshalYAML(node *yaml.Node) error {
	var snap curveSnapshot
	if err := node.Decode(&snap); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedSnapshot, err)
	}
	kind, err := parseKindOrID(snap.Interpolation)
	if err != nil {
		return err
	}
	if len(snap.Points) == 0 {
		return fmt.Errorf("%w: curve without keyframes", ErrMalformedSnapshot)
	}
	pts := make([]Point, len(snap.Points))
	for i, p := range snap.Points {
		if len(p) != 2 {
			return fmt.Errorf("%w: keyframe %d has %d components", ErrMalformedSnapshot, i, len(p))
		}
		pts[i] = Pt(p[0], p[1])
	}
	var tangents []Tangent
	for i, t := range snap.Tangents {
		if len(t) != 4 {
			return fmt.Errorf("%w: tangent %d has %d components", ErrMalformedSnapshot, i, len(t))
		}
		tangents = append(tangents, Tangent{OutX: t[0], OutY: t[1], InX: t[2], InY: t[3]})
	}
	in := NewInterpolator(kind, pts, tangents)
	if m, ok := in.(*MonotonicCubic); ok && snap.Slopes != nil {
		m.SetSlopes(snap.Slopes)
	}
	c.in = in
	return nil
}

func parseKindOrID(s string) (Kind, error) {
	if k, ok := ParseKind(s); ok {
		return k, nil
	}
	if id, err := strconv.Atoi(s); err == nil && id >= 0 && id < len(kindNames) {
		return Kind(id), nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownInterpolation, s)
}

type bezierSnapshot struct {
	Points [][]float64 `yaml:"points,flow"`
}

func (s bezierSnapshot) cubic() (CubicBez, error) {
	if len(s.Points) != 4 {
		return CubicBez{}, fmt.Errorf("%w: segment has %d control points", ErrMalformedSnapshot, len(s.Points))
	}
	var pts [4]Point
	for i, p := range s.Points {
		if len(p) != 2 {
			return CubicBez{}, fmt.Errorf("%w: control point %d has %d components", ErrMalformedSnapshot, i, len(p))
		}
		pts[i] = Pt(p[0], p[1])
	}
	return CubicBez{pts[0], pts[1], pts[2], pts[3]}, nil
}

func snapshotCubic(c CubicBez) bezierSnapshot {
	return bezierSnapshot{Points: [][]float64{
		{c.P0.X, c.P0.Y},
		{c.P1.X, c.P1.Y},
		{c.P2.X, c.P2.Y},
		{c.P3.X, c.P3.Y},
	}}
}

func (b *Bezier2D) MarshalYAML() (any, error) {
	return snapshotCubic(b.c), nil
}

func (b *Bezier2D) UnmarshalYAML(node *yaml.Node) error {
	var snap bezierSnapshot
	if err := node.Decode(&snap); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedSnapshot, err)
	}
	c, err := snap.cubic()
	if err != nil {
		return err
	}
	b.setCubic(c)
	return nil
}

type compositeSnapshot struct {
	Continuity int               `yaml:"continuity"`
	Segments   []segmentSnapshot `yaml:"segments"`
}

type segmentSnapshot struct {
	Time       float64     `yaml:"time"`
	Points     [][]float64 `yaml:"points,flow"`
	Trajectory bool        `yaml:"trajectory,omitempty"`
	Break      bool        `yaml:"break,omitempty"`
}

// MarshalYAML stores the times, segments and flags of the curve.
func (cb *CompositeBezier2D) MarshalYAML() (any, error) {
	snap := compositeSnapshot{Continuity: int(cb.continuity)}
	for i, b := range cb.beziers {
		snap.Segments = append(snap.Segments, segmentSnapshot{
			Time:       cb.times[i],
			Points:     snapshotCubic(b.c).Points,
			Trajectory: cb.trajectoryExists[i],
			Break:      cb.breakContinuity[i],
		})
	}
	return snap, nil
}

// UnmarshalYAML restores the segments verbatim and rebuilds their arc length
// tables.
func (cb *CompositeBezier2D) UnmarshalYAML(node *yaml.Node) error {
	var snap compositeSnapshot
	if err := node.Decode(&snap); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedSnapshot, err)
	}
	if len(snap.Segments) == 0 {
		return fmt.Errorf("%w: composite curve without segments", ErrMalformedSnapshot)
	}
	cont := Continuity(snap.Continuity)
	if cont < C0 || cont > C2 {
		return fmt.Errorf("%w: continuity %d", ErrMalformedSnapshot, snap.Continuity)
	}
	out := CompositeBezier2D{continuity: cont}
	for i, s := range snap.Segments {
		if s.Time < 0 || s.Time > 1 {
			return fmt.Errorf("%w: time %g of segment %d outside [0, 1]", ErrMalformedSnapshot, s.Time, i)
		}
		if i > 0 && s.Time <= snap.Segments[i-1].Time {
			return fmt.Errorf("%w: time %g of segment %d is not increasing", ErrMalformedSnapshot, s.Time, i)
		}
		c, err := bezierSnapshot{Points: s.Points}.cubic()
		if err != nil {
			return err
		}
		out.times = append(out.times, s.Time)
		out.beziers = append(out.beziers, newBezier2DFromCubic(c))
		out.trajectoryExists = append(out.trajectoryExists, s.Trajectory)
		out.breakContinuity = append(out.breakContinuity, s.Break)
	}
	out.trajectoryExists[len(out.trajectoryExists)-1] = false
	*cb = out
	return nil
}
