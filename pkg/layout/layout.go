package layout

import (
	"math"
	"runtime"
	"slices"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/netweave/pkg/errors"
	"github.com/matzehuels/netweave/pkg/network"
	"github.com/matzehuels/netweave/pkg/rng"
)

// Kind selects a layout algorithm.
type Kind string

// Layout selectors.
const (
	KindSpring   Kind = "spring"
	KindCircular Kind = "circular"
	KindShell    Kind = "shell"
	KindRandom   Kind = "random"
)

// Kinds returns every supported layout in a stable order.
func Kinds() []Kind {
	return []Kind{KindSpring, KindCircular, KindShell, KindRandom}
}

// ParseKind converts a selector string into a Kind.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds() {
		if string(k) == s {
			return k, nil
		}
	}
	return "", errors.UnsupportedKind("layout", s)
}

// Defaults for [Hints].
const (
	DefaultIterations = 50

	// MaxIterations bounds Hints.Iterations.
	MaxIterations = 10000

	// ParallelThreshold is the node count from which the spring repulsion
	// pass is split across workers.
	ParallelThreshold = 256
)

// Hints tunes layout computation. Zero values select defaults.
type Hints struct {
	// Iterations is the number of spring-layout steps (default 50).
	Iterations int `json:"iterations,omitempty" toml:"iterations"`

	// K is the ideal spring length (default 1/sqrt(n)).
	K float64 `json:"k,omitempty" toml:"k"`

	// Temperature is the initial displacement cap (default 0.1 times the
	// span of the initial positions).
	Temperature float64 `json:"temperature,omitempty" toml:"temperature"`

	// Workers bounds parallelism of the spring repulsion pass
	// (default GOMAXPROCS). Results do not depend on it.
	Workers int `json:"workers,omitempty" toml:"workers"`

	// Shells is the number of concentric rings for the shell layout
	// (default 1).
	Shells int `json:"shells,omitempty" toml:"shells"`

	// PreferEmbedding returns a graph's geometric embedding, when it has
	// one, instead of running the selected algorithm.
	PreferEmbedding bool `json:"prefer_embedding,omitempty" toml:"prefer_embedding"`
}

// Validate rejects negative or non-finite hints and iteration counts above
// [MaxIterations].
func (h Hints) Validate() error {
	if h.Iterations < 0 || h.Iterations > MaxIterations {
		return errors.InvalidParameter("iterations=%d must be in [0, %d]", h.Iterations, MaxIterations)
	}
	if h.Workers < 0 {
		return errors.InvalidParameter("workers=%d must be >= 0", h.Workers)
	}
	if h.Shells < 0 {
		return errors.InvalidParameter("shells=%d must be >= 0", h.Shells)
	}
	if err := errors.ValidateFinite("k", h.K, 0); err != nil {
		return err
	}
	return errors.ValidateFinite("temperature", h.Temperature, 0)
}

func (h Hints) withDefaults(n int) Hints {
	if h.Iterations == 0 {
		h.Iterations = DefaultIterations
	}
	if h.K == 0 && n > 0 {
		h.K = 1 / math.Sqrt(float64(n))
	}
	if h.Workers == 0 {
		h.Workers = runtime.GOMAXPROCS(0)
	}
	if h.Shells == 0 {
		h.Shells = 1
	}
	return h
}

// Positions maps node ids to planar coordinates; index i holds node i.
type Positions []r2.Vec

// Clone returns an independent copy.
func (p Positions) Clone() Positions {
	if p == nil {
		return Positions{}
	}
	return slices.Clone(p)
}

// Bounds returns the per-axis minimum and maximum. Both are zero vectors
// for an empty map.
func (p Positions) Bounds() (lo, hi r2.Vec) {
	if len(p) == 0 {
		return r2.Vec{}, r2.Vec{}
	}
	lo, hi = p[0], p[0]
	for _, v := range p[1:] {
		lo.X, lo.Y = min(lo.X, v.X), min(lo.Y, v.Y)
		hi.X, hi.Y = max(hi.X, v.X), max(hi.Y, v.Y)
	}
	return lo, hi
}

// Compute places every node of g with the selected algorithm.
//
// Only the spring and random layouts draw from s. An empty graph yields an
// empty map and a single node sits at the origin for every kind.
func Compute(g *network.Graph, kind Kind, s *rng.Stream, h Hints) (Positions, error) {
	if _, err := ParseKind(string(kind)); err != nil {
		return nil, err
	}
	if err := h.Validate(); err != nil {
		return nil, err
	}

	n := g.N()
	switch {
	case n == 0:
		return Positions{}, nil
	case n == 1:
		return Positions{{}}, nil
	}

	if h.PreferEmbedding {
		if emb, ok := g.Embedding(); ok {
			return Positions(emb), nil
		}
	}

	h = h.withDefaults(n)
	switch kind {
	case KindSpring:
		return Spring(g, s, h), nil
	case KindCircular:
		return Circular(n), nil
	case KindShell:
		return Shell(g, h.Shells), nil
	default:
		return Random(n, s), nil
	}
}
