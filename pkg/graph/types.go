package graph

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/netweave/pkg/errors"
	"github.com/matzehuels/netweave/pkg/network"
)

// =============================================================================
// Graph - Network Serialization
// =============================================================================

// Graph is the canonical serialization format for generated networks.
// Used for CLI files, cache entries and API responses.
//
// Node ids are implicit: a graph with NumNodes = n has nodes 0..n-1.
type Graph struct {
	Kind      string  `json:"kind"`
	NumNodes  int     `json:"num_nodes"`
	Edges     []Edge  `json:"edges"`
	Embedding []Point `json:"embedding,omitempty"` // Geometric generators only
}

// Edge is an undirected edge with Source < Target.
type Edge struct {
	Source int `json:"source"`
	Target int `json:"target"`
}

// Point is a planar coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// =============================================================================
// network.Graph ↔ Graph Conversion
// =============================================================================

// FromNetwork converts a network to its serialization format.
// Edges keep the network's sorted order, so output is deterministic.
func FromNetwork(g *network.Graph) Graph {
	out := Graph{
		Kind:     g.Kind(),
		NumNodes: g.N(),
		Edges:    edgesFromNetwork(g),
	}
	if emb, ok := g.Embedding(); ok {
		out.Embedding = make([]Point, len(emb))
		for i, v := range emb {
			out.Embedding[i] = Point{X: v.X, Y: v.Y}
		}
	}
	return out
}

// ToNetwork converts a Graph back into a validated network.
// Out-of-range endpoints, self-loops and duplicate edges are rejected.
func ToNetwork(gj Graph) (*network.Graph, error) {
	edges := make([]network.Edge, len(gj.Edges))
	for i, e := range gj.Edges {
		edges[i] = network.Edge{U: e.Source, V: e.Target}
	}
	var emb []r2.Vec
	if gj.Embedding != nil {
		emb = make([]r2.Vec, len(gj.Embedding))
		for i, p := range gj.Embedding {
			emb[i] = r2.Vec{X: p.X, Y: p.Y}
		}
	}
	g, err := network.FromEdges(gj.Kind, gj.NumNodes, edges, emb)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "invalid graph")
	}
	return g, nil
}

func edgesFromNetwork(g *network.Graph) []Edge {
	src := g.Edges()
	out := make([]Edge, len(src))
	for i, e := range src {
		out[i] = Edge{Source: e.U, Target: e.V}
	}
	return out
}

// String returns a short summary such as "erdos_renyi(n=50, m=61)".
func (g Graph) String() string {
	return fmt.Sprintf("%s(n=%d, m=%d)", g.Kind, g.NumNodes, len(g.Edges))
}
