package curve

import (
	"gonum.org/v1/gonum/mat"
)

// NaturalSpline is the C2 cubic spline with zero second derivative at both
// ends.
//
// With n ≥ 3 keyframes it solves a dense 4(n-1) × 4(n-1) system for the
// coefficients of every segment. With fewer keyframes, or if the system is
// singular, it evaluates as a constant or linear function instead.
type NaturalSpline struct {
	keyframes

	// coeffs[i] = (a, b, c, d) of a + b u + c u² + d u³, u = x - xᵢ
	coeffs [][4]float64
}

var _ Interpolator = (*NaturalSpline)(nil)

func NewNaturalSpline(first Point) *NaturalSpline {
	s := &NaturalSpline{keyframes: newKeyframes(first)}
	s.update = s.solve
	s.solve()
	return s
}

func (s *NaturalSpline) Kind() Kind { return KindSpline }

// Coefficients returns the per-segment polynomial coefficients (a, b, c, d)
// of a + b u + c u² + d u³ with u = x - xᵢ. It returns nil when the spline
// falls back to linear evaluation.
func (s *NaturalSpline) Coefficients() [][4]float64 {
	if s.coeffs == nil {
		return nil
	}
	out := make([][4]float64, len(s.coeffs))
	copy(out, s.coeffs)
	return out
}

func (s *NaturalSpline) solve() {
	n := len(s.points)
	if n < 3 {
		s.coeffs = nil
		return
	}
	segs := n - 1
	size := 4 * segs
	a := mat.NewDense(size, size, nil)
	b := mat.NewVecDense(size, nil)
	row := 0
	col := func(i, k int) int { return 4*i + k }

	for i := range segs {
		h := s.points[i+1].X - s.points[i].X
		// Interpolation at both ends of the segment.
		a.Set(row, col(i, 0), 1)
		b.SetVec(row, s.points[i].Y)
		row++
		a.Set(row, col(i, 0), 1)
		a.Set(row, col(i, 1), h)
		a.Set(row, col(i, 2), h*h)
		a.Set(row, col(i, 3), h*h*h)
		b.SetVec(row, s.points[i+1].Y)
		row++
		if i == segs-1 {
			continue
		}
		// C1 and C2 continuity with the next segment.
		a.Set(row, col(i, 1), 1)
		a.Set(row, col(i, 2), 2*h)
		a.Set(row, col(i, 3), 3*h*h)
		a.Set(row, col(i+1, 1), -1)
		row++
		a.Set(row, col(i, 2), 2)
		a.Set(row, col(i, 3), 6*h)
		a.Set(row, col(i+1, 2), -2)
		row++
	}
	// Natural boundary conditions.
	a.Set(row, col(0, 2), 2)
	row++
	hLast := s.points[n-1].X - s.points[n-2].X
	a.Set(row, col(segs-1, 2), 2)
	a.Set(row, col(segs-1, 3), 6*hLast)

	var x mat.VecDense
	if err := x.SolveVec(a, b); err != nil {
		Logger().Warn("singular spline system, using linear interpolation", "keyframes", n, "err", err)
		s.coeffs = nil
		return
	}
	s.coeffs = make([][4]float64, segs)
	for i := range segs {
		for k := range 4 {
			s.coeffs[i][k] = x.AtVec(col(i, k))
		}
	}
}

func (s *NaturalSpline) EvalAt(x float64) float64 {
	if y, ok := s.clamped(x); ok {
		return y
	}
	i := s.segment(x)
	if s.coeffs == nil {
		p0, p1 := s.points[i], s.points[i+1]
		return p0.Y + (p1.Y-p0.Y)*(x-p0.X)/(p1.X-p0.X)
	}
	c := s.coeffs[i]
	u := x - s.points[i].X
	return c[0] + u*(c[1]+u*(c[2]+u*c[3]))
}

func (s *NaturalSpline) EvalDerivativeAt(x float64) float64 {
	if _, ok := s.clamped(x); ok {
		return 0
	}
	i := s.segment(x)
	if s.coeffs == nil {
		p0, p1 := s.points[i], s.points[i+1]
		return (p1.Y - p0.Y) / (p1.X - p0.X)
	}
	c := s.coeffs[i]
	u := x - s.points[i].X
	return c[1] + u*(2*c[2]+u*3*c[3])
}

func (s *NaturalSpline) Resample(n int) {
	s.resampleWith(n, s.EvalAt)
	s.changed()
}
