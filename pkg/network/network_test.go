package network

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"
)

func TestBuilderRejectsSelfLoopsAndDuplicates(t *testing.T) {
	t.Parallel()
	b := NewBuilder(3)

	assert.True(t, b.AddEdge(0, 1))
	assert.False(t, b.AddEdge(1, 0), "reverse duplicate")
	assert.False(t, b.AddEdge(0, 1), "duplicate")
	assert.False(t, b.AddEdge(2, 2), "self-loop")
	assert.Equal(t, 1, b.EdgeCount())
	assert.Equal(t, 1, b.Degree(0))
	assert.Equal(t, 0, b.Degree(2))
}

func TestBuilderRemoveEdge(t *testing.T) {
	t.Parallel()
	b := NewBuilder(4)
	b.AddEdge(0, 1)
	b.AddEdge(0, 2)
	b.AddEdge(0, 3)

	assert.True(t, b.RemoveEdge(2, 0))
	assert.False(t, b.RemoveEdge(2, 0))
	assert.False(t, b.HasEdge(0, 2))
	assert.Equal(t, []int{1, 3}, b.Neighbors(0), "insertion order kept")
	assert.Empty(t, b.Neighbors(2))
	assert.Equal(t, 2, b.EdgeCount())

	assert.True(t, b.AddEdge(0, 2), "pair can be re-added after removal")
}

func TestBuildSortsEdges(t *testing.T) {
	t.Parallel()
	b := NewBuilder(4)
	b.AddEdge(3, 1)
	b.AddEdge(2, 0)
	b.AddEdge(1, 0)
	g := b.Build("k")

	assert.Equal(t, "k", g.Kind())
	assert.Equal(t, []Edge{{0, 1}, {0, 2}, {1, 3}}, g.Edges())
	assert.Equal(t, []int{0, 3}, g.Neighbors(1))
	assert.True(t, g.HasEdge(3, 1))
	assert.False(t, g.HasEdge(2, 3))
	assert.False(t, g.HasEdge(-1, 3))
	assert.Equal(t, []int{2, 2, 1, 1}, g.Degrees())
	require.NoError(t, g.Validate())
}

func TestBuildIsImmutable(t *testing.T) {
	t.Parallel()
	b := NewBuilder(2)
	b.AddEdge(0, 1)
	g := b.Build("")

	b.RemoveEdge(0, 1)
	assert.Equal(t, 1, g.EdgeCount())

	edges := g.Edges()
	edges[0] = Edge{U: 5, V: 6}
	assert.Equal(t, Edge{U: 0, V: 1}, g.Edges()[0])
}

func TestEmbedding(t *testing.T) {
	t.Parallel()
	b := NewBuilder(2)
	_, ok := b.Build("").Embedding()
	assert.False(t, ok)

	b.SetEmbedding([]r2.Vec{{X: 0.1, Y: 0.2}, {X: 0.3, Y: 0.4}})
	g := b.Build("random_geometric")
	pts, ok := g.Embedding()
	require.True(t, ok)
	assert.Equal(t, r2.Vec{X: 0.3, Y: 0.4}, pts[1])
	assert.True(t, g.HasEmbedding())
}

func TestFromEdges(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		n       int
		edges   []Edge
		emb     []r2.Vec
		wantErr error
	}{
		{name: "valid", n: 3, edges: []Edge{{2, 0}, {1, 2}}},
		{name: "empty", n: 0},
		{name: "out of range", n: 2, edges: []Edge{{0, 2}}, wantErr: ErrNodeOutOfRange},
		{name: "self loop", n: 2, edges: []Edge{{1, 1}}, wantErr: ErrSelfLoop},
		{name: "duplicate", n: 2, edges: []Edge{{0, 1}, {1, 0}}, wantErr: ErrDuplicateEdge},
		{name: "embedding size", n: 2, emb: []r2.Vec{{}}, wantErr: ErrEmbeddingSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := FromEdges("x", tt.n, tt.edges, tt.emb)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.n, g.N())
			assert.Equal(t, len(tt.edges), g.EdgeCount())
		})
	}
}

func TestComponents(t *testing.T) {
	t.Parallel()
	g, err := FromEdges("", 6, []Edge{{0, 1}, {1, 2}, {4, 5}}, nil)
	require.NoError(t, err)

	assert.Equal(t, [][]int{{0, 1, 2}, {3}, {4, 5}}, g.Components())
	assert.False(t, g.IsConnected())

	single := NewBuilder(1).Build("")
	assert.True(t, single.IsConnected())
	assert.Nil(t, NewBuilder(0).Build("").Components())
}

func TestStats(t *testing.T) {
	t.Parallel()
	// Triangle plus a pendant node.
	g, err := FromEdges("", 4, []Edge{{0, 1}, {1, 2}, {0, 2}, {2, 3}}, nil)
	require.NoError(t, err)

	s := g.Stats()
	assert.Equal(t, 4, s.Nodes)
	assert.Equal(t, 4, s.Edges)
	assert.InDelta(t, 4.0/6.0, s.Density, 1e-12)
	assert.InDelta(t, 2.0, s.MeanDegree, 1e-12)
	assert.Equal(t, 3, s.MaxDegree)
	assert.Equal(t, 1, s.Components)
	// Local clustering: 1, 1, 1/3, 0.
	assert.InDelta(t, (1+1+1.0/3)/4, s.Clustering, 1e-12)
}

func TestStatsSingleNode(t *testing.T) {
	t.Parallel()
	s := NewBuilder(1).Build("").Stats()
	assert.Equal(t, 1, s.Nodes)
	assert.Zero(t, s.Edges)
	assert.Zero(t, s.Density)
	assert.Zero(t, s.StdDevDegree)
	assert.Equal(t, 1, s.Components)
}
