package generate

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/netweave/pkg/errors"
	"github.com/matzehuels/netweave/pkg/network"
	"github.com/matzehuels/netweave/pkg/rng"
)

// RandomGeometric places n nodes uniformly in the unit square (x then y per
// node, in id order) and links every pair whose Euclidean distance is at
// most radius. The positions are kept on the graph as its embedding.
func RandomGeometric(n int, radius float64, s *rng.Stream) (*network.Graph, error) {
	if err := errors.ValidateNodeCount(n); err != nil {
		return nil, err
	}
	if err := errors.ValidateFinite(string(KindRandomGeometric)+": radius", radius, 0); err != nil {
		return nil, err
	}

	pts := make([]r2.Vec, n)
	for i := range pts {
		pts[i] = r2.Vec{X: s.Uniform(), Y: s.Uniform()}
	}

	b := network.NewBuilder(n)
	limit := radius * radius
	for i := range n {
		for j := i + 1; j < n; j++ {
			if r2.Norm2(r2.Sub(pts[i], pts[j])) <= limit {
				b.AddEdge(i, j)
			}
		}
	}
	b.SetEmbedding(pts)
	return b.Build(string(KindRandomGeometric)), nil
}
