package generate

import (
	"github.com/matzehuels/netweave/pkg/errors"
	"github.com/matzehuels/netweave/pkg/network"
	"github.com/matzehuels/netweave/pkg/rng"
)

// PowerlawCluster grows a graph with a power-law degree distribution and
// tunable clustering (Holme–Kim).
//
// Nodes 0..m-1 start isolated with a selection weight of 1 each. Every new
// node draws m distinct candidate targets by weight and links to the first.
// Each further link is, with probability p, a triangle-closing step to a
// uniformly chosen neighbor of the last target that is not yet linked to the
// new node; otherwise, or when no such neighbor exists, the next candidate is
// used. A node's weight is its degree, plus one for the initial nodes.
//
// A triangle step can reach a node that is still among the new node's
// candidates. That candidate is then already linked when its turn comes, so
// the new node ends up with fewer than m edges and the graph can have fewer
// than m*(n-m) edges.
// m = 0 yields n isolated nodes.
func PowerlawCluster(n, m int, p float64, s *rng.Stream) (*network.Graph, error) {
	if err := errors.ValidateNodeCount(n); err != nil {
		return nil, err
	}
	if m < 0 || (m > 0 && m >= n) {
		return nil, errors.InvalidParameter("%s: m=%d must be in [1, %d)", KindPowerlawCluster, m, n)
	}
	if err := errors.ValidateProbability(string(KindPowerlawCluster)+": p", p); err != nil {
		return nil, err
	}

	b := network.NewBuilder(n)
	if m == 0 {
		return b.Build(string(KindPowerlawCluster)), nil
	}

	w := newAttachment(n, s)
	for i := range m {
		w.add(i, 1)
	}

	var linked []int
	var candidates []int
	for src := m; src < n; src++ {
		pending, err := w.take(m)
		if err != nil {
			return nil, err
		}
		linked = linked[:0]
		link := func(t int) {
			if b.AddEdge(src, t) {
				linked = append(linked, t)
			}
		}

		target := pending[len(pending)-1]
		pending = pending[:len(pending)-1]
		link(target)

		for count := 1; count < m; count++ {
			if s.Bernoulli(p) {
				candidates = candidates[:0]
				for _, nbr := range b.Neighbors(target) {
					if nbr != src && !b.HasEdge(src, nbr) {
						candidates = append(candidates, nbr)
					}
				}
				if len(candidates) > 0 {
					link(candidates[s.Int(0, len(candidates))])
					continue
				}
			}
			target = pending[len(pending)-1]
			pending = pending[:len(pending)-1]
			link(target)
		}

		for _, t := range linked {
			w.add(t, 1)
		}
		w.add(src, float64(len(linked)))
	}
	return b.Build(string(KindPowerlawCluster)), nil
}
