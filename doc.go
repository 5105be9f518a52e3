// Package curve provides the curves of a 2D keyframe animation tool: 1-D
// animation curves that interpolate a value between keyframes, and 2-D cubic
// Bézier segments fitted to sampled paths.
//
// # Animation curves
//
// A [Curve] maps a parametric position x, usually a frame or normalized
// time, to a value y. It owns one [Interpolator] that can be swapped for one
// of another [Kind] without losing keyframes:
//
//   - [Linear] and [Step]
//   - [Shepard], inverse distance weighting of all keyframes
//   - [NaturalSpline], the C2 cubic spline with natural end conditions
//   - [ConstrainedCubic], a legacy monotonic cubic polynomial on [0, 1]
//   - [MonotonicCubic], a Fritsch–Carlson monotonic cubic Hermite spline,
//     used for spacing curves and invertible with [MonotonicCubic.EvalInverse]
//   - [Hermite] and [HermiteArcLength], cubic Hermite curves with explicit
//     tangents per keyframe
//
// All curves evaluate to the first or last keyframe's value outside their
// domain, and every mutation leaves cached data such as spline coefficients,
// slopes and arc length tables up to date.
//
// # Bézier segments
//
// A [Bezier2D] is a cubic Bézier with an [ArclengthLUT] for uniform speed
// traversal. It can be fitted to data with [Bezier2D.Fit], split, and
// remapped onto new end points. A [CompositeBezier2D] chains segments
// through timed control points and enforces C0, C1 or C2 continuity at the
// junctions.
//
// # Numerical robustness
//
// Nothing in this package fails at evaluation time. Degenerate input falls
// back to lower order formulas, edits that would break monotonicity are
// repaired or discarded, and parametric inversions ([UnitQuadraticRoot],
// [UnitCubicRoot]) return a best-effort root when none lies in [0, 1].
// Diagnostics about such fallbacks are logged through [Logger], which
// discards everything unless [SetLogger] is called.
//
// # Persistence
//
// [Curve], [Bezier2D] and [CompositeBezier2D] implement [yaml.Marshaler] and
// [yaml.Unmarshaler].
//
// [yaml.Marshaler]: https://pkg.go.dev/gopkg.in/yaml.v3#Marshaler
// [yaml.Unmarshaler]: https://pkg.go.dev/gopkg.in/yaml.v3#Unmarshaler
package curve
