package curve

// Linear interpolates linearly between consecutive keyframes.
type Linear struct {
	keyframes
}

var _ Interpolator = (*Linear)(nil)

func NewLinear(first Point) *Linear {
	return &Linear{keyframes: newKeyframes(first)}
}

func (l *Linear) Kind() Kind { return KindLinear }

func (l *Linear) EvalAt(x float64) float64 {
	if y, ok := l.clamped(x); ok {
		return y
	}
	i := l.segment(x)
	p0, p1 := l.points[i], l.points[i+1]
	return p0.Y + (p1.Y-p0.Y)*(x-p0.X)/(p1.X-p0.X)
}

// EvalDerivativeAt returns the secant slope of the segment containing x.
func (l *Linear) EvalDerivativeAt(x float64) float64 {
	if _, ok := l.clamped(x); ok {
		return 0
	}
	i := l.segment(x)
	p0, p1 := l.points[i], l.points[i+1]
	return (p1.Y - p0.Y) / (p1.X - p0.X)
}

func (l *Linear) Resample(n int) {
	l.resampleWith(n, l.EvalAt)
	l.changed()
}

// Step holds the value of a keyframe until the next one.
type Step struct {
	keyframes
}

var _ Interpolator = (*Step)(nil)

func NewStep(first Point) *Step {
	return &Step{keyframes: newKeyframes(first)}
}

func (s *Step) Kind() Kind { return KindStep }

func (s *Step) EvalAt(x float64) float64 {
	if y, ok := s.clamped(x); ok {
		return y
	}
	return s.points[s.segment(x)].Y
}

// EvalDerivativeAt is always 0.
func (s *Step) EvalDerivativeAt(x float64) float64 {
	return 0
}

func (s *Step) Resample(n int) {
	s.resampleWith(n, s.EvalAt)
	s.changed()
}
