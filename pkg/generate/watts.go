package generate

import (
	"github.com/matzehuels/netweave/pkg/errors"
	"github.com/matzehuels/netweave/pkg/network"
	"github.com/matzehuels/netweave/pkg/rng"
)

// WattsStrogatz builds a small-world graph: a ring lattice where each node
// links to its k nearest neighbors (k/2 on each side), after which every
// lattice edge (u, u+j) is rewired with probability p to (u, w) for a
// uniformly drawn w.
//
// Edges are visited by offset j = 1..k/2, then by node u. A rewire target
// that would create a self-loop or a duplicate is redrawn at most
// [MaxRewireAttempts] times before the edge is left in place. The edge count
// is always n*k/2. k = 0 yields n isolated nodes.
func WattsStrogatz(n, k int, p float64, s *rng.Stream) (*network.Graph, error) {
	if err := errors.ValidateNodeCount(n); err != nil {
		return nil, err
	}
	if k != 0 && (k%2 != 0 || k < 2 || k >= n) {
		return nil, errors.InvalidParameter("%s: k=%d must be even and in [2, %d)", KindWattsStrogatz, k, n)
	}
	if err := errors.ValidateProbability(string(KindWattsStrogatz)+": p", p); err != nil {
		return nil, err
	}

	b := network.NewBuilder(n)
	half := k / 2
	for j := 1; j <= half; j++ {
		for u := range n {
			b.AddEdge(u, (u+j)%n)
		}
	}

	for j := 1; j <= half; j++ {
		for u := range n {
			if !s.Bernoulli(p) {
				continue
			}
			if b.Degree(u) >= n-1 {
				continue
			}
			v := (u + j) % n
			for range MaxRewireAttempts {
				w := s.Int(0, n)
				if w == u || b.HasEdge(u, w) {
					continue
				}
				b.RemoveEdge(u, v)
				b.AddEdge(u, w)
				break
			}
		}
	}
	return b.Build(string(KindWattsStrogatz)), nil
}
