package network

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
	"gonum.org/v1/gonum/stat"
)

// Stats summarizes the structure of a graph.
type Stats struct {
	Nodes        int     `json:"nodes"`
	Edges        int     `json:"edges"`
	Density      float64 `json:"density"`
	MeanDegree   float64 `json:"mean_degree"`
	StdDevDegree float64 `json:"stddev_degree"`
	MaxDegree    int     `json:"max_degree"`
	Components   int     `json:"components"`
	Clustering   float64 `json:"clustering"` // average local clustering coefficient
}

// toGonum mirrors g into a gonum undirected graph, isolated nodes included.
func (g *Graph) toGonum() *simple.UndirectedGraph {
	ug := simple.NewUndirectedGraph()
	for i := range g.n {
		ug.AddNode(simple.Node(i))
	}
	for _, e := range g.edges {
		ug.SetEdge(simple.Edge{F: simple.Node(e.U), T: simple.Node(e.V)})
	}
	return ug
}

// Components returns the connected components. Each component lists its
// node ids in ascending order and components are ordered by their smallest id.
func (g *Graph) Components() [][]int {
	if g.n == 0 {
		return nil
	}
	cc := topo.ConnectedComponents(g.toGonum())
	out := make([][]int, 0, len(cc))
	for _, comp := range cc {
		ids := make([]int, len(comp))
		for i, n := range comp {
			ids[i] = int(n.ID())
		}
		slices.Sort(ids)
		out = append(out, ids)
	}
	slices.SortFunc(out, func(a, b []int) int { return a[0] - b[0] })
	return out
}

// IsConnected reports whether every node is reachable from every other.
// Graphs with fewer than two nodes are connected.
func (g *Graph) IsConnected() bool {
	if g.n < 2 {
		return true
	}
	return len(g.Components()) == 1
}

// Clustering returns the local clustering coefficient of node i: the share
// of neighbor pairs that are themselves linked. Nodes of degree < 2 score 0.
func (g *Graph) Clustering(i int) float64 {
	nbrs := g.adj[i]
	k := len(nbrs)
	if k < 2 {
		return 0
	}
	links := 0
	for a := 0; a < k; a++ {
		for b := a + 1; b < k; b++ {
			if g.HasEdge(nbrs[a], nbrs[b]) {
				links++
			}
		}
	}
	return 2 * float64(links) / float64(k*(k-1))
}

// Stats computes summary statistics for g.
func (g *Graph) Stats() Stats {
	s := Stats{Nodes: g.n, Edges: len(g.edges)}
	if g.n == 0 {
		return s
	}
	if g.n > 1 {
		s.Density = 2 * float64(s.Edges) / float64(g.n*(g.n-1))
	}

	degrees := make([]float64, g.n)
	clustering := 0.0
	for i := range g.n {
		d := len(g.adj[i])
		degrees[i] = float64(d)
		s.MaxDegree = max(s.MaxDegree, d)
		clustering += g.Clustering(i)
	}
	s.MeanDegree, s.StdDevDegree = stat.MeanStdDev(degrees, nil)
	if math.IsNaN(s.StdDevDegree) {
		s.StdDevDegree = 0
	}
	s.Clustering = clustering / float64(g.n)
	s.Components = len(g.Components())
	return s
}
