package curve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestCurveSnapshotRoundTrip(t *testing.T) {
	for _, kind := range Kinds() {
		t.Run(kind.String(), func(t *testing.T) {
			var c *Curve
			if kind == KindCubic {
				c = New(KindCubic, Pt(0, 0))
				c.SetKeyframe(Pt(0.5, 0.6), 2)
			} else {
				c = newCurve(kind, samplePoints...)
			}
			if h, ok := c.Interpolator().(interface{ SetSmoothTangents() }); ok {
				h.SetSmoothTangents()
			}

			data, err := yaml.Marshal(c)
			require.NoError(t, err)

			var got Curve
			require.NoError(t, yaml.Unmarshal(data, &got))
			assert.Equal(t, c.Kind(), got.Kind())
			diff(t, c.Points(), got.Points(), approx(1e-12))
			diff(t, c.Tangents(), got.Tangents())
			for i := range 41 {
				x := -0.5 + 5*float64(i)/40
				assert.InDelta(t, c.EvalAt(x), got.EvalAt(x), 1e-9, "x = %g", x)
			}
		})
	}
}

func TestCurveSnapshotSlopes(t *testing.T) {
	c := newCurve(KindMonotonicCubic, Pt(0, 0), Pt(1, 1), Pt(2, 3))
	m := c.Interpolator().(*MonotonicCubic)
	m.SetSlope(1, 0.25)

	data, err := yaml.Marshal(c)
	require.NoError(t, err)
	assert.Contains(t, string(data), "slopes:")

	var got Curve
	require.NoError(t, yaml.Unmarshal(data, &got))
	diff(t, m.Slopes(), got.Interpolator().(*MonotonicCubic).Slopes())

	// Without stored slopes they are derived from the keyframes.
	const doc = `
interpolation: MonotonicCubic
points: [[2, 3], [0, 0], [1, 1]]
tangents: []
`
	require.NoError(t, yaml.Unmarshal([]byte(doc), &got))
	diff(t, []Point{{0, 0}, {1, 1}, {2, 3}}, got.Points())
	diff(t, []float64{1, 1.5, 2}, got.Interpolator().(*MonotonicCubic).Slopes())
}

func TestCurveSnapshotKindByID(t *testing.T) {
	const doc = `
interpolation: 3
points: [[0, 0], [1, 1], [2, 0]]
`
	var c Curve
	require.NoError(t, yaml.Unmarshal([]byte(doc), &c))
	assert.Equal(t, KindSpline, c.Kind())
	assert.Len(t, c.Tangents(), 3)
}

func TestCurveSnapshotErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want error
	}{
		{"unknown kind", "interpolation: Bogus\npoints: [[0, 0]]\n", ErrUnknownInterpolation},
		{"kind id out of range", "interpolation: 42\npoints: [[0, 0]]\n", ErrUnknownInterpolation},
		{"no keyframes", "interpolation: Linear\npoints: []\n", ErrMalformedSnapshot},
		{"short keyframe", "interpolation: Linear\npoints: [[0]]\n", ErrMalformedSnapshot},
		{"short tangent", "interpolation: Hermite\npoints: [[0, 0]]\ntangents: [[1, 2]]\n", ErrMalformedSnapshot},
		{"wrong type", "interpolation: Linear\npoints: nope\n", ErrMalformedSnapshot},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c Curve
			err := yaml.Unmarshal([]byte(tt.doc), &c)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestBezier2DSnapshot(t *testing.T) {
	b := NewBezier2D(Pt(0, 0), Pt(1, 2.5), Pt(3, -1), Pt(4, 0))
	data, err := yaml.Marshal(b)
	require.NoError(t, err)

	var got Bezier2D
	require.NoError(t, yaml.Unmarshal(data, &got))
	assert.Equal(t, b.Cubic(), got.Cubic())
	assert.Equal(t, b.LUT(), got.LUT())

	err = yaml.Unmarshal([]byte("points: [[0, 0], [1, 1]]\n"), &got)
	assert.ErrorIs(t, err, ErrMalformedSnapshot)
}

func TestCompositeSnapshot(t *testing.T) {
	cb := zigzag(C2)
	cb.SetBreakContinuity(2, true)
	cb.SetSegmentControlPoints(0, Pt(0, 1), Pt(0.5, 2))

	data, err := yaml.Marshal(cb)
	require.NoError(t, err)

	var got CompositeBezier2D
	require.NoError(t, yaml.Unmarshal(data, &got))
	assert.Equal(t, C2, got.Continuity())
	diff(t, cb.Times(), got.Times())
	diff(t, cb.Cubics(), got.Cubics())
	for i := range cb.Len() {
		assert.Equal(t, cb.TrajectoryExists(i), got.TrajectoryExists(i))
		assert.Equal(t, cb.BreakContinuity(i), got.BreakContinuity(i))
		assert.Equal(t, cb.Segment(i).LUT(), got.Segment(i).LUT())
	}
	assert.Equal(t, cb.EvalArcLength(0.6), got.EvalArcLength(0.6))
}

func TestCompositeSnapshotErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"empty", "continuity: 1\nsegments: []\n"},
		{"bad continuity", "continuity: 4\nsegments: [{time: 0, points: [[0, 0], [0, 0], [0, 0], [0, 0]]}]\n"},
		{"times not increasing", `
continuity: 0
segments:
  - {time: 0.5, points: [[0, 0], [1, 0], [2, 0], [3, 0]]}
  - {time: 0.5, points: [[3, 0], [3, 0], [3, 0], [3, 0]]}
`},
		{"short segment", "continuity: 0\nsegments: [{time: 0, points: [[0, 0]]}]\n"},
		{"time out of range", "continuity: 0\nsegments: [{time: 1.5, points: [[0, 0], [0, 0], [0, 0], [0, 0]]}]\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cb CompositeBezier2D
			err := yaml.Unmarshal([]byte(tt.doc), &cb)
			assert.ErrorIs(t, err, ErrMalformedSnapshot)
		})
	}
}
