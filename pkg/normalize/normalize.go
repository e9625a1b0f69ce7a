// Package normalize maps raw layout coordinates onto a pixel canvas.
//
// Each axis is rescaled independently into [Margin, dim-Margin], so the
// result fills the frame and the aspect ratio of the raw layout is not
// preserved. The mapping is the same for every generator and layout.
package normalize

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/netweave/pkg/errors"
	"github.com/matzehuels/netweave/pkg/layout"
)

// Canvas defaults.
const (
	DefaultWidth  = 1200
	DefaultHeight = 1200
	DefaultMargin = 100
)

// Frame is the target rectangle in pixels.
type Frame struct {
	Width  float64 `json:"width" toml:"width"`
	Height float64 `json:"height" toml:"height"`
	Margin float64 `json:"margin" toml:"margin"`
}

// DefaultFrame returns the 1200x1200 canvas with a 100 pixel margin.
func DefaultFrame() Frame {
	return Frame{Width: DefaultWidth, Height: DefaultHeight, Margin: DefaultMargin}
}

// Validate requires positive dimensions and room left inside the margins.
func (f Frame) Validate() error {
	if err := errors.ValidateFinite("margin", f.Margin, 0); err != nil {
		return err
	}
	for _, dim := range []struct {
		name string
		v    float64
	}{{"width", f.Width}, {"height", f.Height}} {
		if err := errors.ValidateFinite(dim.name, dim.v, 0); err != nil {
			return err
		}
		if 2*f.Margin >= dim.v {
			return errors.InvalidParameter("%s=%v leaves no room inside margin=%v", dim.name, dim.v, f.Margin)
		}
	}
	return nil
}

// Normalize rescales p into f. It fails with a DEGENERATE_LAYOUT error when
// all nodes share one coordinate on either axis. An empty map normalizes to
// an empty map. p is never modified.
func Normalize(p layout.Positions, f Frame) (layout.Positions, error) {
	return normalize(p, f, false)
}

// NormalizeLenient is [Normalize] with a fallback for collinear layouts:
// a degenerate axis is placed at the centre of the frame instead of failing.
func NormalizeLenient(p layout.Positions, f Frame) (layout.Positions, error) {
	return normalize(p, f, true)
}

// Degenerate reports whether all of p shares one coordinate on either axis,
// which is when [NormalizeLenient] falls back to centring. A single point is
// degenerate; an empty map is not.
func Degenerate(p layout.Positions) bool {
	if len(p) == 0 {
		return false
	}
	lo, hi := p.Bounds()
	return lo.X == hi.X || lo.Y == hi.Y
}

func normalize(p layout.Positions, f Frame, lenient bool) (layout.Positions, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	if len(p) == 0 {
		return layout.Positions{}, nil
	}

	xs := make([]float64, len(p))
	ys := make([]float64, len(p))
	for i, v := range p {
		xs[i], ys[i] = v.X, v.Y
	}

	xmap, err := axis("x", xs, f.Width, f.Margin, lenient)
	if err != nil {
		return nil, err
	}
	ymap, err := axis("y", ys, f.Height, f.Margin, lenient)
	if err != nil {
		return nil, err
	}

	out := make(layout.Positions, len(p))
	for i, v := range p {
		out[i] = r2.Vec{X: xmap(v.X), Y: ymap(v.Y)}
	}
	return out, nil
}

// axis returns the affine map of one coordinate onto [margin, dim-margin].
func axis(name string, vals []float64, dim, margin float64, lenient bool) (func(float64) float64, error) {
	lo, hi := floats.Min(vals), floats.Max(vals)
	target := dim - 2*margin

	if hi == lo {
		if !lenient {
			return nil, errors.New(errors.ErrCodeDegenerateLayout,
				"all nodes share %s=%v", name, lo)
		}
		mid := dim / 2
		return func(float64) float64 { return mid }, nil
	}
	if lo == margin && hi == dim-margin {
		return func(v float64) float64 { return v }, nil
	}

	scale := target / (hi - lo)
	return func(v float64) float64 {
		if v == hi {
			return dim - margin
		}
		return margin + (v-lo)*scale
	}, nil
}
