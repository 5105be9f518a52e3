package curve

import (
	"image"

	"golang.org/x/image/vector"
	"gonum.org/v1/gonum/floats"
)

// PlotOptions specifies settings for [Plot].
type PlotOptions struct {
	// Size of the image in pixels.
	Width, Height int
	// Stroke width in pixels.
	Thickness float64
	// Number of samples of the curve.
	Samples int
}

// DefaultPlotOptions are suitable for thumbnails.
var DefaultPlotOptions = PlotOptions{
	Width:     256,
	Height:    256,
	Thickness: 1.5,
	Samples:   256,
}

// Plot rasterizes the graph of c over its domain into an alpha mask, with y
// pointing up. The bounding box of the graph fills the image.
func Plot(c *Curve, opts PlotOptions) *image.Alpha {
	dst := image.NewAlpha(image.Rect(0, 0, opts.Width, opts.Height))
	if opts.Width <= 0 || opts.Height <= 0 {
		return dst
	}
	samples := max(opts.Samples, 2)
	bbox := c.BoundingBox()
	if bbox.Width() == 0 {
		bbox = bbox.Inflate(0.5, 0)
	}
	if bbox.Height() == 0 {
		bbox = bbox.Inflate(0, 0.5)
	}
	// Leave room for the stroke.
	pad := opts.Thickness
	sx := (float64(opts.Width) - 2*pad) / bbox.Width()
	sy := (float64(opts.Height) - 2*pad) / bbox.Height()
	toPixel := Translate(Vec(-bbox.X0, -bbox.Y1)).
		ThenScale(sx, -sy).
		ThenTranslate(Vec(pad, pad))

	xs := floats.Span(make([]float64, samples), bbox.X0, bbox.X1)
	pts := make([]Point, len(xs))
	for i, x := range xs {
		pts[i] = Pt(x, c.EvalAt(x)).Transform(toPixel)
	}

	r := vector.NewRasterizer(opts.Width, opts.Height)
	half := opts.Thickness / 2
	for i := 1; i < len(pts); i++ {
		p, q := pts[i-1], pts[i]
		d := q.Sub(p)
		if d.Hypot2() == 0 {
			continue
		}
		n := Vec(-d.Y, d.X).Normalize().Mul(half)
		a, b := p.Translate(n), q.Translate(n)
		cc, e := q.Translate(n.Negate()), p.Translate(n.Negate())
		r.MoveTo(float32(a.X), float32(a.Y))
		r.LineTo(float32(b.X), float32(b.Y))
		r.LineTo(float32(cc.X), float32(cc.Y))
		r.LineTo(float32(e.X), float32(e.Y))
		r.ClosePath()
	}
	r.Draw(dst, dst.Bounds(), image.Opaque, image.Point{})
	return dst
}
