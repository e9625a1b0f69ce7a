package layout

import (
	stderrors "errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/netweave/pkg/errors"
	"github.com/matzehuels/netweave/pkg/generate"
	"github.com/matzehuels/netweave/pkg/network"
	"github.com/matzehuels/netweave/pkg/rng"
)

func testGraph(t *testing.T, kind generate.Kind, n int, seed uint64) *network.Graph {
	t.Helper()
	g, err := generate.Generate(kind, n, rng.New(seed), generate.Params{})
	require.NoError(t, err)
	return g
}

func TestComputeEveryKindPlacesEveryNode(t *testing.T) {
	t.Parallel()
	g := testGraph(t, generate.KindBarabasiAlbert, 60, 3)
	for _, kind := range Kinds() {
		t.Run(string(kind), func(t *testing.T) {
			pos, err := Compute(g, kind, rng.New(9), Hints{Shells: 3})
			require.NoError(t, err)
			require.Len(t, pos, 60)
			for i, p := range pos {
				assert.False(t, math.IsNaN(p.X) || math.IsNaN(p.Y), "node %d", i)
				assert.False(t, math.IsInf(p.X, 0) || math.IsInf(p.Y, 0), "node %d", i)
			}
		})
	}
}

func TestComputeDeterministic(t *testing.T) {
	t.Parallel()
	g := testGraph(t, generate.KindWattsStrogatz, 80, 5)
	for _, kind := range Kinds() {
		a, err := Compute(g, kind, rng.New(21), Hints{})
		require.NoError(t, err)
		b, err := Compute(g, kind, rng.New(21), Hints{})
		require.NoError(t, err)
		assert.Equal(t, a, b, string(kind))
	}
}

func TestComputeTrivialGraphs(t *testing.T) {
	t.Parallel()
	empty := network.NewBuilder(0).Build("empty")
	single := network.NewBuilder(1).Build("single")

	for _, kind := range Kinds() {
		pos, err := Compute(empty, kind, rng.New(1), Hints{})
		require.NoError(t, err)
		assert.NotNil(t, pos)
		assert.Empty(t, pos)

		pos, err = Compute(single, kind, rng.New(1), Hints{})
		require.NoError(t, err)
		assert.Equal(t, Positions{{}}, pos, string(kind))
	}
}

func TestComputeErrors(t *testing.T) {
	t.Parallel()
	g := testGraph(t, generate.KindErdosRenyi, 10, 1)
	tests := []struct {
		name  string
		kind  Kind
		hints Hints
		want  error
	}{
		{"unknown kind", "kamada_kawai", Hints{}, errors.ErrUnsupportedKind},
		{"negative iterations", KindSpring, Hints{Iterations: -1}, errors.ErrInvalidParameter},
		{"too many iterations", KindSpring, Hints{Iterations: MaxIterations + 1}, errors.ErrInvalidParameter},
		{"negative workers", KindSpring, Hints{Workers: -2}, errors.ErrInvalidParameter},
		{"negative shells", KindShell, Hints{Shells: -1}, errors.ErrInvalidParameter},
		{"nan k", KindSpring, Hints{K: math.NaN()}, errors.ErrInvalidParameter},
		{"negative temperature", KindSpring, Hints{Temperature: -1}, errors.ErrInvalidParameter},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compute(g, tt.kind, rng.New(1), tt.hints)
			require.Error(t, err)
			assert.True(t, stderrors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestParseKind(t *testing.T) {
	t.Parallel()
	for _, k := range Kinds() {
		got, err := ParseKind(string(k))
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}
	_, err := ParseKind("Spring")
	assert.True(t, errors.Is(err, errors.ErrCodeUnsupportedKind))
}

func TestPreferEmbedding(t *testing.T) {
	t.Parallel()
	g := testGraph(t, generate.KindRandomGeometric, 40, 8)
	emb, ok := g.Embedding()
	require.True(t, ok)

	s := rng.New(4)
	before, err := s.MarshalBinary()
	require.NoError(t, err)

	pos, err := Compute(g, KindSpring, s, Hints{PreferEmbedding: true})
	require.NoError(t, err)
	assert.Equal(t, Positions(emb), pos)

	after, err := s.MarshalBinary()
	require.NoError(t, err)
	assert.Equal(t, before, after, "embedding shortcut draws nothing")

	pos, err = Compute(g, KindCircular, rng.New(4), Hints{})
	require.NoError(t, err)
	assert.NotEqual(t, Positions(emb), pos, "embedding ignored unless preferred")
}

func TestSpringWorkerCountDoesNotChangeResult(t *testing.T) {
	t.Parallel()
	g := testGraph(t, generate.KindBarabasiAlbert, ParallelThreshold+50, 2)
	serial := Spring(g, rng.New(6), Hints{Iterations: 5, Workers: 1})
	parallel := Spring(g, rng.New(6), Hints{Iterations: 5, Workers: 7})
	assert.Equal(t, serial, parallel)
}

func TestSpringSeparatesNodes(t *testing.T) {
	t.Parallel()
	g := testGraph(t, generate.KindWattsStrogatz, 100, 12)
	pos := Spring(g, rng.New(12), Hints{})

	lo, hi := pos.Bounds()
	span := max(hi.X-lo.X, hi.Y-lo.Y)
	require.Greater(t, span, 0.0)
	for i := range pos {
		for j := i + 1; j < len(pos); j++ {
			d := r2.Norm(r2.Sub(pos[i], pos[j]))
			assert.Greater(t, d, 1e-6, "nodes %d and %d overlap", i, j)
		}
	}
}

func TestSpringPullsNeighborsCloser(t *testing.T) {
	t.Parallel()
	g, err := generate.Generate(generate.KindWattsStrogatz, 60, rng.New(30), generate.Params{K: 4, P: generate.Float(0)})
	require.NoError(t, err)
	pos := Spring(g, rng.New(30), Hints{Iterations: 100})

	var edgeSum float64
	for _, e := range g.Edges() {
		edgeSum += r2.Norm(r2.Sub(pos[e.U], pos[e.V]))
	}
	var pairSum float64
	var pairs int
	for i := range pos {
		for j := i + 1; j < len(pos); j++ {
			pairSum += r2.Norm(r2.Sub(pos[i], pos[j]))
			pairs++
		}
	}
	edgeMean := edgeSum / float64(g.EdgeCount())
	pairMean := pairSum / float64(pairs)
	assert.Less(t, edgeMean, pairMean)
}

func TestSeparationCoincidentNodes(t *testing.T) {
	t.Parallel()
	pos := Positions{{X: 0.5, Y: 0.5}, {X: 0.5, Y: 0.5}, {X: 0.5, Y: 0.5}}
	for i := range pos {
		for j := range pos {
			if i == j {
				continue
			}
			a, d := separation(pos, i, j)
			b, _ := separation(pos, j, i)
			assert.Equal(t, minDistance, d)
			assert.InDelta(t, minDistance, r2.Norm(a), 1e-12)
			assert.InDelta(t, 0, r2.Norm(r2.Add(a, b)), 1e-15, "antisymmetric for %d,%d", i, j)
		}
	}
}

func TestSpringEdgelessGraphSpreadsOut(t *testing.T) {
	t.Parallel()
	g := network.NewBuilder(5).Build("edgeless")
	for seed := uint64(0); seed < 20; seed++ {
		pos, err := Compute(g, KindSpring, rng.New(seed), Hints{})
		require.NoError(t, err)
		require.Len(t, pos, 5)
		for i, p := range pos {
			require.False(t, math.IsNaN(p.X) || math.IsNaN(p.Y), "seed %d node %d", seed, i)
			require.False(t, math.IsInf(p.X, 0) || math.IsInf(p.Y, 0), "seed %d node %d", seed, i)
			for j := i + 1; j < len(pos); j++ {
				d := r2.Norm(r2.Sub(pos[i], pos[j]))
				assert.Greater(t, d, minDistance, "seed %d: nodes %d and %d overlap", seed, i, j)
			}
		}
	}
}

func TestCircularAfterErdosRenyi(t *testing.T) {
	t.Parallel()
	s := rng.New(42)
	g, err := generate.Generate(generate.KindErdosRenyi, 10, s, generate.Params{P: generate.Float(0.5)})
	require.NoError(t, err)

	pos, err := Compute(g, KindCircular, s, Hints{})
	require.NoError(t, err)
	require.Len(t, pos, 10)

	assert.InDelta(t, 0, math.Atan2(pos[0].Y, pos[0].X), 1e-12, "node 0 at angle 0")
	assert.InDelta(t, math.Pi, math.Abs(math.Atan2(pos[5].Y, pos[5].X)), 1e-12, "node 5 at angle pi")
	assert.InDelta(t, 1, pos[0].X, 1e-12)
	assert.InDelta(t, -1, pos[5].X, 1e-12)
}

func TestCircular(t *testing.T) {
	t.Parallel()
	pos := Circular(4)
	want := Positions{{X: 1, Y: 0}, {X: 0, Y: 1}, {X: -1, Y: 0}, {X: 0, Y: -1}}
	for i := range want {
		assert.InDelta(t, want[i].X, pos[i].X, 1e-12, "x of %d", i)
		assert.InDelta(t, want[i].Y, pos[i].Y, 1e-12, "y of %d", i)
	}
}

func TestShellSingleRingMatchesCircular(t *testing.T) {
	t.Parallel()
	g := testGraph(t, generate.KindErdosRenyi, 25, 7)
	assert.Equal(t, Circular(25), Shell(g, 1))
}

func TestShellRadiiFollowDegree(t *testing.T) {
	t.Parallel()
	g := testGraph(t, generate.KindBarabasiAlbert, 60, 14)
	pos := Shell(g, 3)

	radius := func(i int) float64 { return r2.Norm(pos[i]) }
	for i := range pos {
		for j := range pos {
			if radius(i) < radius(j)-1e-9 {
				assert.GreaterOrEqual(t, g.Degree(i), g.Degree(j),
					"inner node %d has lower degree than outer node %d", i, j)
			}
		}
	}
	for i := range pos {
		r := radius(i)
		ok := false
		for _, want := range []float64{0, 1.0 / 3, 2.0 / 3, 1} {
			if math.Abs(r-want) < 1e-9 {
				ok = true
			}
		}
		assert.True(t, ok, "node %d at unexpected radius %v", i, r)
	}
}

func TestShellSizes(t *testing.T) {
	t.Parallel()
	tests := []struct {
		n, shells int
		want      []int
	}{
		{10, 3, []int{2, 3, 5}},
		{3, 3, []int{1, 1, 1}},
		{6, 2, []int{2, 4}},
		{100, 4, []int{10, 20, 30, 40}},
	}
	for _, tt := range tests {
		got := shellSizes(tt.n, tt.shells)
		assert.Equal(t, tt.want, got, "n=%d shells=%d", tt.n, tt.shells)
	}
}

func TestShellMoreRingsThanNodes(t *testing.T) {
	t.Parallel()
	g := testGraph(t, generate.KindErdosRenyi, 3, 2)
	pos := Shell(g, 10)
	require.Len(t, pos, 3)
	lo, hi := pos.Bounds()
	assert.LessOrEqual(t, hi.X-lo.X, 2.0+1e-9)
	assert.LessOrEqual(t, hi.Y-lo.Y, 2.0+1e-9)
}

func TestRandomInUnitSquare(t *testing.T) {
	t.Parallel()
	pos := Random(500, rng.New(3))
	lo, hi := pos.Bounds()
	assert.GreaterOrEqual(t, lo.X, 0.0)
	assert.GreaterOrEqual(t, lo.Y, 0.0)
	assert.Less(t, hi.X, 1.0)
	assert.Less(t, hi.Y, 1.0)
}

func TestPositionsClone(t *testing.T) {
	t.Parallel()
	p := Positions{{X: 1, Y: 2}}
	c := p.Clone()
	c[0].X = 9
	assert.Equal(t, 1.0, p[0].X)
	assert.NotNil(t, Positions(nil).Clone())
}
