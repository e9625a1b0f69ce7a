package network

import (
	"errors"
	"fmt"
	"slices"

	"gonum.org/v1/gonum/spatial/r2"
)

var (
	// ErrNodeOutOfRange is returned when an edge endpoint is not in [0, N).
	ErrNodeOutOfRange = errors.New("node id out of range")

	// ErrSelfLoop is returned when an edge connects a node to itself.
	ErrSelfLoop = errors.New("self-loop")

	// ErrDuplicateEdge is returned when the same unordered pair appears twice.
	ErrDuplicateEdge = errors.New("duplicate edge")

	// ErrEmbeddingSize is returned when an embedding does not have one
	// point per node.
	ErrEmbeddingSize = errors.New("embedding size does not match node count")
)

// Edge is an undirected connection between two nodes. Edges held by a
// [Graph] are always normalized so that U < V.
type Edge struct {
	U, V int
}

// Normalize returns the edge with its endpoints ordered so that U <= V.
func (e Edge) Normalize() Edge {
	if e.U > e.V {
		return Edge{U: e.V, V: e.U}
	}
	return e
}

// Graph is an immutable undirected simple graph over nodes 0..N-1.
//
// The zero value is an empty graph. Use a [Builder] or [FromEdges] to create
// graphs with nodes.
type Graph struct {
	kind      string
	n         int
	adj       [][]int // sorted neighbor lists
	edges     []Edge  // sorted by (U, V)
	embedding []r2.Vec
}

// Kind returns the generator selector that produced the graph, if any.
func (g *Graph) Kind() string { return g.kind }

// N returns the number of nodes.
func (g *Graph) N() int { return g.n }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Edges returns the edges sorted by (U, V) with U < V.
func (g *Graph) Edges() []Edge { return slices.Clone(g.edges) }

// Degree returns the number of neighbors of node i.
func (g *Graph) Degree(i int) int { return len(g.adj[i]) }

// Degrees returns the degree of every node, indexed by node id.
func (g *Graph) Degrees() []int {
	out := make([]int, g.n)
	for i := range out {
		out[i] = len(g.adj[i])
	}
	return out
}

// Neighbors returns the neighbors of node i in ascending order.
func (g *Graph) Neighbors(i int) []int { return slices.Clone(g.adj[i]) }

// HasEdge reports whether u and v are adjacent.
func (g *Graph) HasEdge(u, v int) bool {
	if u < 0 || v < 0 || u >= g.n || v >= g.n {
		return false
	}
	_, ok := slices.BinarySearch(g.adj[u], v)
	return ok
}

// Embedding returns the geometric position of every node when the generator
// placed nodes in the unit square. The second result is false otherwise.
func (g *Graph) Embedding() ([]r2.Vec, bool) {
	if g.embedding == nil {
		return nil, false
	}
	return slices.Clone(g.embedding), true
}

// HasEmbedding reports whether the graph carries node positions.
func (g *Graph) HasEmbedding() bool { return g.embedding != nil }

// Validate checks structural invariants: endpoints in range, no self-loops,
// no duplicate edges and an embedding of the right size.
func (g *Graph) Validate() error {
	if g.embedding != nil && len(g.embedding) != g.n {
		return fmt.Errorf("%w: %d points for %d nodes", ErrEmbeddingSize, len(g.embedding), g.n)
	}
	seen := make(map[Edge]struct{}, len(g.edges))
	for _, e := range g.edges {
		if e.U < 0 || e.V < 0 || e.U >= g.n || e.V >= g.n {
			return fmt.Errorf("%w: (%d,%d) with n=%d", ErrNodeOutOfRange, e.U, e.V, g.n)
		}
		if e.U == e.V {
			return fmt.Errorf("%w: node %d", ErrSelfLoop, e.U)
		}
		if _, dup := seen[e]; dup {
			return fmt.Errorf("%w: (%d,%d)", ErrDuplicateEdge, e.U, e.V)
		}
		seen[e] = struct{}{}
	}
	return nil
}

// FromEdges builds a graph from an explicit edge list. Edges are normalized;
// self-loops, duplicates and out-of-range endpoints are rejected. embedding
// may be nil.
func FromEdges(kind string, n int, edges []Edge, embedding []r2.Vec) (*Graph, error) {
	if n < 0 {
		return nil, fmt.Errorf("negative node count %d", n)
	}
	if embedding != nil && len(embedding) != n {
		return nil, fmt.Errorf("%w: %d points for %d nodes", ErrEmbeddingSize, len(embedding), n)
	}
	b := NewBuilder(n)
	for _, e := range edges {
		if e.U < 0 || e.V < 0 || e.U >= n || e.V >= n {
			return nil, fmt.Errorf("%w: (%d,%d) with n=%d", ErrNodeOutOfRange, e.U, e.V, n)
		}
		if e.U == e.V {
			return nil, fmt.Errorf("%w: node %d", ErrSelfLoop, e.U)
		}
		if !b.AddEdge(e.U, e.V) {
			return nil, fmt.Errorf("%w: (%d,%d)", ErrDuplicateEdge, e.U, e.V)
		}
	}
	if embedding != nil {
		b.SetEmbedding(embedding)
	}
	return b.Build(kind), nil
}

// =============================================================================
// Builder
// =============================================================================

// Builder is the mutable construction surface used by generators.
// Neighbor lists keep insertion order so that generators which sample from a
// neighborhood stay reproducible.
//
// A Builder is not safe for concurrent use.
type Builder struct {
	n         int
	adj       [][]int
	set       map[uint64]struct{}
	edges     int
	embedding []r2.Vec
}

// NewBuilder returns a builder for n isolated nodes.
func NewBuilder(n int) *Builder {
	return &Builder{
		n:   n,
		adj: make([][]int, n),
		set: make(map[uint64]struct{}),
	}
}

func pairKey(u, v int) uint64 {
	if u > v {
		u, v = v, u
	}
	return uint64(u)<<32 | uint64(uint32(v))
}

// N returns the number of nodes.
func (b *Builder) N() int { return b.n }

// EdgeCount returns the number of edges added so far.
func (b *Builder) EdgeCount() int { return b.edges }

// AddEdge links u and v. It returns false, leaving the builder unchanged,
// for self-loops and pairs that are already linked.
func (b *Builder) AddEdge(u, v int) bool {
	if u == v {
		return false
	}
	k := pairKey(u, v)
	if _, ok := b.set[k]; ok {
		return false
	}
	b.set[k] = struct{}{}
	b.adj[u] = append(b.adj[u], v)
	b.adj[v] = append(b.adj[v], u)
	b.edges++
	return true
}

// RemoveEdge unlinks u and v and reports whether they were linked.
func (b *Builder) RemoveEdge(u, v int) bool {
	k := pairKey(u, v)
	if _, ok := b.set[k]; !ok {
		return false
	}
	delete(b.set, k)
	b.adj[u] = removeValue(b.adj[u], v)
	b.adj[v] = removeValue(b.adj[v], u)
	b.edges--
	return true
}

func removeValue(s []int, x int) []int {
	i := slices.Index(s, x)
	return slices.Delete(s, i, i+1)
}

// HasEdge reports whether u and v are linked.
func (b *Builder) HasEdge(u, v int) bool {
	_, ok := b.set[pairKey(u, v)]
	return ok
}

// Degree returns the current degree of u.
func (b *Builder) Degree(u int) int { return len(b.adj[u]) }

// Neighbors returns the neighbors of u in insertion order.
// The slice is owned by the builder and must not be modified.
func (b *Builder) Neighbors(u int) []int { return b.adj[u] }

// SetEmbedding attaches one position per node.
func (b *Builder) SetEmbedding(points []r2.Vec) {
	b.embedding = slices.Clone(points)
}

// Build freezes the builder into a [Graph] tagged with kind.
func (b *Builder) Build(kind string) *Graph {
	g := &Graph{
		kind:      kind,
		n:         b.n,
		adj:       make([][]int, b.n),
		edges:     make([]Edge, 0, b.edges),
		embedding: slices.Clone(b.embedding),
	}
	for u := range b.n {
		nbrs := slices.Clone(b.adj[u])
		slices.Sort(nbrs)
		g.adj[u] = nbrs
		for _, v := range nbrs {
			if u < v {
				g.edges = append(g.edges, Edge{U: u, V: v})
			}
		}
	}
	return g
}
