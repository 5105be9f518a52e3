package curve

import (
	"fmt"
	"io"
	"iter"
	"slices"
	"strconv"
	"strings"
)

// SVGOptions specifies optional settings for [SVG] and [WriteSVG].
type SVGOptions struct {
	// The maximum precision with which to format coordinates. A value of 0
	// chooses the highest precision necessary to unambiguously represent any
	// given coordinate.
	MaxPrecision int
}

// SVG converts a sequence of cubic Béziers to a string of SVG path commands.
//
// See [WriteSVG] for a version that writes to an [io.Writer] instead of
// returning a string.
func SVG(seq iter.Seq[CubicBez], opts SVGOptions) string {
	sb := &strings.Builder{}
	WriteSVG(sb, seq, opts)
	return sb.String()
}

// WriteSVG converts a sequence of cubic Béziers to SVG path commands and
// writes them to w. A segment that does not start where the previous one
// ended begins a new subpath.
//
// The current implementation doesn't take any special care to produce a
// short string (reducing precision, using relative movement).
func WriteSVG(w io.Writer, seq iter.Seq[CubicBez], opts SVGOptions) error {
	space := []byte(" ")
	var err error
	write := func(s []byte) {
		if err != nil {
			return
		}
		_, err = w.Write(s)
	}
	writef := func(s string, v ...any) {
		if err != nil {
			return
		}
		_, err = fmt.Fprintf(w, s, v...)
	}
	format := func(n float64) string {
		maxPrec := opts.MaxPrecision
		if maxPrec <= 0 {
			return strconv.FormatFloat(n, 'f', -1, 64)
		} else {
			s := strconv.FormatFloat(n, 'f', maxPrec, 64)
			s = strings.TrimRight(s, "0")
			return strings.TrimSuffix(s, ".")
		}
	}
	first := true
	var end Point
	for c := range seq {
		if err != nil {
			return err
		}
		if first || c.P0 != end {
			if !first {
				write(space)
			}
			writef("M%s,%s", format(c.P0.X), format(c.P0.Y))
		}
		first = false
		write(space)
		writef("C%s,%s %s,%s %s,%s",
			format(c.P1.X), format(c.P1.Y),
			format(c.P2.X), format(c.P2.Y),
			format(c.P3.X), format(c.P3.Y))
		end = c.P3
	}
	return err
}

// SVG returns the segment as SVG path commands.
func (b *Bezier2D) SVG(opts SVGOptions) string {
	return SVG(slices.Values([]CubicBez{b.c}), opts)
}

// WriteSVG writes the real segments as SVG path commands to w.
func (cb *CompositeBezier2D) WriteSVG(w io.Writer, opts SVGOptions) error {
	return WriteSVG(w, slices.Values(cb.Cubics()), opts)
}

// SVG returns the real segments as SVG path commands.
func (cb *CompositeBezier2D) SVG(opts SVGOptions) string {
	sb := &strings.Builder{}
	cb.WriteSVG(sb, opts)
	return sb.String()
}
