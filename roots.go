package curve

import (
	"math"
)

// rootEpsilon is the slack allowed around [0, 1] when selecting the root of a
// parametric inversion.
const rootEpsilon = 1e-5

// SolveQuadratic finds real roots of a quadratic equation.
//
// Returns values of x for which c0 + c1 x + c2 x² = 0.0
//
// This function tries to be quite numerically robust. If the equation is nearly
// linear, it will return the root ignoring the quadratic term; the other root
// might be out of representable range. In the degenerate case where all
// coefficients are zero, so that all values of x satisfy the equation, a single
// 0.0 is returned.
func SolveQuadratic(c0, c1, c2 float64) ([2]float64, int) {
	sc0 := c0 / c2
	sc1 := c1 / c2
	if math.IsInf(sc0, 0) || math.IsInf(sc1, 0) {
		// c2 is zero or very small, treat as linear eqn
		root := -c0 / c1
		if !math.IsInf(root, 0) {
			return [2]float64{root}, 1
		} else if c0 == 0.0 && c1 == 0.0 {
			// Degenerate case
			return [2]float64{0}, 1
		} else {
			return [2]float64{}, 0
		}
	}
	arg := sc1*sc1 - 4.0*sc0
	var root1 float64
	if math.IsInf(arg, 0) {
		// Likely, calculation of sc1 * sc1 overflowed. Find one root
		// using sc1 x + x² = 0, other root as sc0 / root1.
		root1 = -sc1
	} else {
		if arg < 0.0 {
			return [2]float64{}, 0
		} else if arg == 0.0 {
			return [2]float64{-0.5 * sc1}, 1
		}
		// See https://math.stackexchange.com/questions/866331
		root1 = -0.5 * (sc1 + math.Copysign(math.Sqrt(arg), sc1))
	}
	root2 := sc0 / root1
	if !math.IsInf(root2, 0) {
		// Sort just to be friendly and make results deterministic.
		if root2 > root1 {
			return [2]float64{root1, root2}, 2
		} else {
			return [2]float64{root2, root1}, 2
		}
	} else {
		return [2]float64{root1}, 1
	}
}

func inUnitRange(t float64) bool {
	return t >= -rootEpsilon && t <= 1+rootEpsilon
}

// pickUnitRoot returns the first candidate lying in [-1e-5, 1+1e-5], clamped
// to [0, 1]. If no candidate is in range, the last one is returned as is.
func pickUnitRoot(candidates ...float64) float64 {
	for _, t := range candidates {
		if inUnitRange(t) {
			return min(max(t, 0), 1)
		}
	}
	last := candidates[len(candidates)-1]
	Logger().Debug("no root in unit range", "candidates", candidates, "returned", last)
	return last
}

// UnitQuadraticRoot returns the root of t² + b t + c that lies in [0, 1].
//
// The polynomial must already be divided by its leading coefficient. Callers
// construct the polynomial so that exactly one root is in range. When the
// discriminant is negative only the real part -b/2 is considered. When no
// candidate is in range, the last candidate checked is returned unclamped.
func UnitQuadraticRoot(b, c float64) float64 {
	d := b*b - 4*c
	if d < 0 {
		return pickUnitRoot(-0.5 * b)
	}
	sq := math.Sqrt(d)
	t1 := 0.5 * (-b + sq)
	t2 := 0.5 * (-b - sq)
	return pickUnitRoot(t1, t2)
}

// UnitCubicRoot returns the root of t³ + a t² + b t + c that lies in [0, 1].
//
// Three real roots are found with the trigonometric method, otherwise
// Cardano's formula gives the real root, followed by the real part of the
// complex conjugate pair as a second candidate. Selection follows
// [UnitQuadraticRoot].
func UnitCubicRoot(a, b, c float64) float64 {
	// Depressed cubic u³ + p u + q = 0 with t = u - a/3.
	shift := a / 3
	p := b - a*a/3
	q := 2*a*a*a/27 - a*b/3 + c
	disc := q*q/4 + p*p*p/27

	if disc < 0 {
		// p < 0 is implied.
		r := 2 * math.Sqrt(-p/3)
		arg := 3 * q / (p * r)
		phi := math.Acos(min(max(arg, -1), 1)) / 3
		return pickUnitRoot(
			r*math.Cos(phi)-shift,
			r*math.Cos(phi-2*math.Pi/3)-shift,
			r*math.Cos(phi-4*math.Pi/3)-shift,
		)
	}
	sq := math.Sqrt(disc)
	u := math.Cbrt(-q/2+sq) + math.Cbrt(-q/2-sq)
	return pickUnitRoot(u-shift, -u/2-shift)
}

// solveUnitPolynomial returns the parameter in [0, 1] at which
// c3 t³ + c2 t² + c1 t + c0 = 0, dropping to lower degrees when the leading
// coefficients vanish.
func solveUnitPolynomial(c0, c1, c2, c3 float64) float64 {
	const eps = 1e-12
	switch {
	case math.Abs(c3) > eps:
		return UnitCubicRoot(c2/c3, c1/c3, c0/c3)
	case math.Abs(c2) > eps:
		return UnitQuadraticRoot(c1/c2, c0/c2)
	case math.Abs(c1) > eps:
		return pickUnitRoot(-c0 / c1)
	default:
		return 0
	}
}
