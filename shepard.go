package curve

import (
	"math"

	"github.com/tphakala/simd/f64"
)

const (
	// ShepardPower is the exponent of the inverse distance weights.
	ShepardPower = 2
	// shepardMinDistance keeps weights finite at the keyframes themselves.
	shepardMinDistance = 1e-10
	// shepardStep is the forward difference step of the derivative.
	shepardStep = 1e-4
)

// Shepard blends all keyframe values with inverse distance weights
// |x-xᵢ|^-p.
type Shepard struct {
	keyframes

	// scratch buffers, sized to the keyframe count
	ys      []float64
	weights []float64
}

var _ Interpolator = (*Shepard)(nil)

func NewShepard(first Point) *Shepard {
	s := &Shepard{keyframes: newKeyframes(first)}
	s.update = s.refresh
	s.refresh()
	return s
}

func (s *Shepard) refresh() {
	s.ys = s.ys[:0]
	for _, p := range s.points {
		s.ys = append(s.ys, p.Y)
	}
	s.weights = make([]float64, len(s.points))
}

func (s *Shepard) Kind() Kind { return KindShepard }

func (s *Shepard) EvalAt(x float64) float64 {
	if y, ok := s.clamped(x); ok {
		return y
	}
	for i, p := range s.points {
		d := max(math.Abs(x-p.X), shepardMinDistance)
		s.weights[i] = math.Pow(d, -ShepardPower)
	}
	return f64.DotProduct(s.weights, s.ys) / f64.Sum(s.weights)
}

// EvalDerivativeAt uses a one-sided finite difference, stepping backwards
// at the end of the domain.
func (s *Shepard) EvalDerivativeAt(x float64) float64 {
	if _, ok := s.clamped(x); ok {
		return 0
	}
	if x+shepardStep > s.last().X {
		return (s.EvalAt(x) - s.EvalAt(x-shepardStep)) / shepardStep
	}
	return (s.EvalAt(x+shepardStep) - s.EvalAt(x)) / shepardStep
}

func (s *Shepard) Resample(n int) {
	s.resampleWith(n, s.EvalAt)
	s.changed()
}
