package pipeline

import (
	"github.com/matzehuels/netweave/pkg/errors"
	"github.com/matzehuels/netweave/pkg/generate"
	"github.com/matzehuels/netweave/pkg/network"
	"github.com/matzehuels/netweave/pkg/rng"
)

// =============================================================================
// Generation
// =============================================================================

// GenerateGraph builds the network described by opts, drawing from s.
//
// It returns the resolved generator parameters alongside the graph. Derived
// parameters are drawn first, so passing the returned Params back with a
// fresh stream at the same position reproduces the graph. Networks expected
// to exceed [MaxEdges] are rejected before any edge is built.
func GenerateGraph(s *rng.Stream, opts Options) (*network.Graph, generate.Params, error) {
	if err := opts.ValidateForGenerate(); err != nil {
		return nil, generate.Params{}, err
	}
	kind := generate.Kind(opts.Network)

	resolved, err := generate.Resolve(kind, opts.Nodes, s, opts.Params)
	if err != nil {
		return nil, generate.Params{}, err
	}
	if edges := generate.ExpectedEdges(kind, opts.Nodes, resolved); edges > MaxEdges {
		return nil, generate.Params{}, errors.InvalidParameter(
			"%s with %d nodes expects %.0f edges, more than the maximum of %d",
			kind, opts.Nodes, edges, MaxEdges)
	}
	g, err := generate.Generate(kind, opts.Nodes, s, resolved)
	if err != nil {
		return nil, generate.Params{}, err
	}
	return g, resolved, nil
}
