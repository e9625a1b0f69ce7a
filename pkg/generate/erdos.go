package generate

import (
	"github.com/matzehuels/netweave/pkg/errors"
	"github.com/matzehuels/netweave/pkg/network"
	"github.com/matzehuels/netweave/pkg/rng"
)

// ErdosRenyi includes each unordered pair (i<j) independently with
// probability p. Pairs are visited in lexicographic order with one draw each.
func ErdosRenyi(n int, p float64, s *rng.Stream) (*network.Graph, error) {
	if err := errors.ValidateNodeCount(n); err != nil {
		return nil, err
	}
	if err := errors.ValidateProbability(string(KindErdosRenyi)+": p", p); err != nil {
		return nil, err
	}

	b := network.NewBuilder(n)
	for i := range n {
		for j := i + 1; j < n; j++ {
			if s.Bernoulli(p) {
				b.AddEdge(i, j)
			}
		}
	}
	return b.Build(string(KindErdosRenyi)), nil
}
