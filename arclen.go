package curve

import (
	"sort"

	"github.com/tphakala/simd/f64"
)

// LUTPrecision is the number of samples in an [ArclengthLUT].
const LUTPrecision = 50

// ArclengthLUT maps normalized arc length to curve parameter.
//
// Row 0 holds the normalized arc length s and row 1 the parameter t of
// LUTPrecision samples. Both rows are non-decreasing, start at 0 and end at 1.
type ArclengthLUT [2][LUTPrecision]float64

// newArclengthLUT samples eval at uniform steps of t and accumulates chord
// lengths.
func newArclengthLUT(eval func(t float64) Point) ArclengthLUT {
	var lut ArclengthLUT
	prev := eval(0)
	total := 0.0
	for i := 1; i < LUTPrecision; i++ {
		t := float64(i) / float64(LUTPrecision-1)
		p := eval(t)
		total += p.Distance(prev)
		prev = p
		lut[0][i] = total
		lut[1][i] = t
	}
	if total > 0 {
		f64.Scale(lut[0][:], lut[0][:], 1/total)
	} else {
		// A curve collapsed onto a point has no length to distribute.
		lut[0] = lut[1]
	}
	lut[0][0], lut[1][0] = 0, 0
	lut[0][LUTPrecision-1], lut[1][LUTPrecision-1] = 1, 1
	return lut
}

// Param returns the curve parameter t at normalized arc length s, linearly
// interpolating between the bracketing table entries.
func (lut *ArclengthLUT) Param(s float64) float64 {
	if s <= 0 {
		return 0
	}
	if s >= 1 {
		return 1
	}
	ss := lut[0][:]
	i := sort.SearchFloat64s(ss, s)
	if i == 0 {
		return lut[1][0]
	}
	s0, s1 := ss[i-1], ss[i]
	t0, t1 := lut[1][i-1], lut[1][i]
	if s1 <= s0 {
		return t0
	}
	return t0 + (t1-t0)*(s-s0)/(s1-s0)
}

// Tables of Legendre-Gauss quadrature coefficients, adapted from:
// <https://pomax.github.io/bezierinfo/legendre-gauss.html>

var gaussLegendreCoeffs8 = [...][2]float64{
	{0.3626837833783620, -0.1834346424956498},
	{0.3626837833783620, 0.1834346424956498},
	{0.3137066458778873, -0.5255324099163290},
	{0.3137066458778873, 0.5255324099163290},
	{0.2223810344533745, -0.7966664774136267},
	{0.2223810344533745, 0.7966664774136267},
	{0.1012285362903763, -0.9602898564975363},
	{0.1012285362903763, 0.9602898564975363},
}

var gaussLegendreCoeffs8Half = [...][2]float64{
	{0.3626837833783620, 0.1834346424956498},
	{0.3137066458778873, 0.5255324099163290},
	{0.2223810344533745, 0.7966664774136267},
	{0.1012285362903763, 0.9602898564975363},
}

var gaussLegendreCoeffs16Half = [...][2]float64{
	{0.1894506104550685, 0.0950125098376374},
	{0.1826034150449236, 0.2816035507792589},
	{0.1691565193950025, 0.4580167776572274},
	{0.1495959888165767, 0.6178762444026438},
	{0.1246289712555339, 0.7554044083550030},
	{0.0951585116824928, 0.8656312023878318},
	{0.0622535239386479, 0.9445750230732326},
	{0.0271524594117541, 0.9894009349916499},
}

var gaussLegendreCoeffs24Half = [...][2]float64{
	{0.1279381953467522, 0.0640568928626056},
	{0.1258374563468283, 0.1911188674736163},
	{0.1216704729278034, 0.3150426796961634},
	{0.1155056680537256, 0.4337935076260451},
	{0.1074442701159656, 0.5454214713888396},
	{0.0976186521041139, 0.6480936519369755},
	{0.0861901615319533, 0.7401241915785544},
	{0.0733464814110803, 0.8200019859739029},
	{0.0592985849154368, 0.8864155270044011},
	{0.0442774388174198, 0.9382745520027328},
	{0.0285313886289337, 0.9747285559713095},
	{0.0123412297999872, 0.9951872199970213},
}
