package pipeline

import (
	"github.com/matzehuels/netweave/pkg/layout"
	"github.com/matzehuels/netweave/pkg/network"
	"github.com/matzehuels/netweave/pkg/normalize"
	"github.com/matzehuels/netweave/pkg/rng"
)

// =============================================================================
// Layout
// =============================================================================

// ComputeLayout places the nodes of g with the layout selected in opts,
// continuing the stream used to generate g.
func ComputeLayout(g *network.Graph, s *rng.Stream, opts Options) (layout.Positions, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return nil, err
	}
	return layout.Compute(g, layout.Kind(opts.Layout), s, opts.Hints())
}

// =============================================================================
// Normalization
// =============================================================================

// NormalizePositions maps raw positions onto the frame described by opts.
//
// With opts.Strict a collinear layout fails with DEGENERATE_LAYOUT;
// otherwise the collinear axis is centred and degenerate is true.
func NormalizePositions(raw layout.Positions, opts Options) (pos layout.Positions, degenerate bool, err error) {
	if err := opts.ValidateForLayout(); err != nil {
		return nil, false, err
	}
	if opts.Strict {
		pos, err = normalize.Normalize(raw, opts.Frame())
		return pos, false, err
	}
	pos, err = normalize.NormalizeLenient(raw, opts.Frame())
	if err != nil {
		return nil, false, err
	}
	return pos, normalize.Degenerate(raw), nil
}
