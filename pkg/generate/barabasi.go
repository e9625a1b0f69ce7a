package generate

import (
	"github.com/matzehuels/netweave/pkg/errors"
	"github.com/matzehuels/netweave/pkg/network"
	"github.com/matzehuels/netweave/pkg/rng"
)

// BarabasiAlbert grows a scale-free graph by preferential attachment.
//
// Nodes 0..m-1 start isolated. Node m links to all of them, and every later
// node links to m distinct existing nodes chosen with probability
// proportional to their current degree. The result has m*(n-m) edges.
// m = 0 yields n isolated nodes.
func BarabasiAlbert(n, m int, s *rng.Stream) (*network.Graph, error) {
	if err := errors.ValidateNodeCount(n); err != nil {
		return nil, err
	}
	if m < 0 || (m > 0 && m >= n) {
		return nil, errors.InvalidParameter("%s: m=%d must be in [1, %d)", KindBarabasiAlbert, m, n)
	}

	b := network.NewBuilder(n)
	if m == 0 {
		return b.Build(string(KindBarabasiAlbert)), nil
	}

	w := newAttachment(n, s)
	for t := range m {
		b.AddEdge(m, t)
		w.add(t, 1)
	}
	w.add(m, float64(m))

	for src := m + 1; src < n; src++ {
		targets, err := w.take(m)
		if err != nil {
			return nil, err
		}
		for _, t := range targets {
			b.AddEdge(src, t)
			w.add(t, 1)
		}
		w.add(src, float64(m))
	}
	return b.Build(string(KindBarabasiAlbert)), nil
}
