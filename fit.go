package curve

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// FitIterations is the number of reparametrization passes of
// [Bezier2D.Fit]. The count is fixed; the error is not used to stop early.
const FitIterations = 4

// ChordLengthParams assigns each data point a parameter proportional to the
// length of the polyline up to it.
func ChordLengthParams(data []Point) []float64 {
	params := make([]float64, len(data))
	for i := 1; i < len(data); i++ {
		params[i] = params[i-1] + data[i].Distance(data[i-1])
	}
	total := params[len(params)-1]
	for i := range params {
		if total > 0 {
			params[i] /= total
		} else if len(params) > 1 {
			params[i] = float64(i) / float64(len(params)-1)
		}
	}
	return params
}

// Fit replaces the segment by a least-squares fit of data, using
// [Schneider's algorithm]: chord length parameters are refined by
// [FitIterations] Newton–Raphson passes, refitting after each. With
// constrained, the end points are pinned to the first and last data points.
//
// It returns the maximum distance between a data point and its parameter's
// point on the fit.
//
// One to three data points are interpolated exactly.
//
// [Schneider's algorithm]: https://dl.acm.org/doi/10.5555/90767.90941
func (b *Bezier2D) Fit(data []Point, constrained bool) float64 {
	switch len(data) {
	case 0:
		return 0
	case 1:
		p := data[0]
		b.SetControlPoints(p, p, p, p)
		return 0
	case 2:
		b.setCubic(lineCubic(data[0], data[1]))
		return 0
	case 3:
		t := ChordLengthParams(data)[1]
		b.setCubic(quadThrough(data[0], data[1], data[2], t).Raise())
		return 0
	}
	params := ChordLengthParams(data)
	b.FitWithParam(data, params, constrained)
	for range FitIterations {
		b.Reparameterize(data, params)
		b.FitWithParam(data, params, constrained)
	}
	maxErr, _ := b.MaxError(data, params)
	return maxErr
}

// lineCubic returns the straight cubic with interior points at thirds.
func lineCubic(p0, p3 Point) CubicBez {
	return CubicBez{p0, p0.Lerp(p3, 1.0/3), p0.Lerp(p3, 2.0/3), p3}
}

// quadThrough returns the quadratic passing through p0 at 0, p1 at t and p2
// at 1.
func quadThrough(p0, p1, p2 Point, t float64) QuadBez {
	mt := 1 - t
	if t <= 0 || t >= 1 {
		return QuadBez{p0, p0.Midpoint(p2), p2}
	}
	c := Vec2(p1).Sub(Vec2(p0).Mul(mt * mt)).Sub(Vec2(p2).Mul(t * t)).Div(2 * t * mt)
	return QuadBez{p0, Point(c), p2}
}

// FitWithParam replaces the segment by the least-squares fit of data with
// fixed parameters. With constrained, the end points are pinned to the first
// and last data points.
func (b *Bezier2D) FitWithParam(data []Point, params []float64, constrained bool) {
	n := len(data)
	if n < 2 {
		b.Fit(data, constrained)
		return
	}
	design := mat.NewDense(n, 4, nil)
	rhs := mat.NewDense(n, 2, nil)
	for i, t := range params {
		design.SetRow(i, bernsteinSlice(t))
		rhs.Set(i, 0, data[i].X)
		rhs.Set(i, 1, data[i].Y)
	}

	var sol mat.Dense
	var err error
	if constrained {
		// Bordered normal equations:
		//  [2 BᵀB  Cᵀ] [P]   [2 Bᵀd]
		//  [C      0 ] [λ] = [e    ]
		// with C selecting P0 and P3.
		kkt := mat.NewDense(6, 6, nil)
		var btb mat.Dense
		btb.Mul(design.T(), design)
		btb.Scale(2, &btb)
		kkt.Slice(0, 4, 0, 4).(*mat.Dense).Copy(&btb)
		kkt.Set(4, 0, 1)
		kkt.Set(0, 4, 1)
		kkt.Set(5, 3, 1)
		kkt.Set(3, 5, 1)

		b6 := mat.NewDense(6, 2, nil)
		var btd mat.Dense
		btd.Mul(design.T(), rhs)
		btd.Scale(2, &btd)
		b6.Slice(0, 4, 0, 2).(*mat.Dense).Copy(&btd)
		b6.SetRow(4, []float64{data[0].X, data[0].Y})
		b6.SetRow(5, []float64{data[n-1].X, data[n-1].Y})
		err = sol.Solve(kkt, b6)
	} else {
		err = sol.Solve(design, rhs)
	}
	if err != nil {
		Logger().Warn("singular fit, using a straight segment", "samples", n, "constrained", constrained, "err", err)
		b.setCubic(lineCubic(data[0], data[n-1]))
		return
	}
	c := CubicBez{
		Pt(sol.At(0, 0), sol.At(0, 1)),
		Pt(sol.At(1, 0), sol.At(1, 1)),
		Pt(sol.At(2, 0), sol.At(2, 1)),
		Pt(sol.At(3, 0), sol.At(3, 1)),
	}
	if c.IsNaN() || c.IsInf() {
		Logger().Warn("non-finite fit, using a straight segment", "samples", n, "constrained", constrained)
		c = lineCubic(data[0], data[n-1])
	}
	b.setCubic(c)
}

func bernsteinSlice(t float64) []float64 {
	bs := bernstein(t)
	return bs[:]
}

// Reparameterize improves each parameter with one Newton–Raphson step
// toward the point of the segment closest to its data point.
func (b *Bezier2D) Reparameterize(data []Point, params []float64) {
	for i, t := range params {
		d := b.c.Eval(t).Sub(data[i])
		d1 := b.EvalDer(t)
		d2 := b.EvalDer2(t)
		den := d1.Dot(d1) + d.Dot(d2)
		if math.Abs(den) < 1e-12 {
			continue
		}
		params[i] = min(max(t-d.Dot(d1)/den, 0), 1)
	}
}

// MaxError returns the largest distance between a data point and the point
// of the segment at its parameter, and the index of that data point.
func (b *Bezier2D) MaxError(data []Point, params []float64) (float64, int) {
	maxErr, idx := 0.0, 0
	for i, t := range params {
		if d := b.c.Eval(t).Distance(data[i]); d > maxErr {
			maxErr, idx = d, i
		}
	}
	return maxErr, idx
}
