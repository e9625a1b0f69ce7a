package generate

import (
	"fmt"
	"math"

	"github.com/matzehuels/netweave/pkg/errors"
	"github.com/matzehuels/netweave/pkg/network"
	"github.com/matzehuels/netweave/pkg/rng"
)

// Kind selects a generator.
type Kind string

// Generator selectors.
const (
	KindBarabasiAlbert  Kind = "barabasi_albert"
	KindWattsStrogatz   Kind = "watts_strogatz"
	KindRandomGeometric Kind = "random_geometric"
	KindErdosRenyi      Kind = "erdos_renyi"
	KindPowerlawCluster Kind = "powerlaw_cluster"
)

// Kinds returns every supported generator in a stable order.
func Kinds() []Kind {
	return []Kind{
		KindBarabasiAlbert,
		KindWattsStrogatz,
		KindRandomGeometric,
		KindErdosRenyi,
		KindPowerlawCluster,
	}
}

// ParseKind converts a selector string into a Kind.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds() {
		if string(k) == s {
			return k, nil
		}
	}
	return "", errors.UnsupportedKind("network", s)
}

// MaxRewireAttempts bounds the number of target draws when a Watts–Strogatz
// edge is rewired. When every draw hits a self-loop or an existing edge the
// original edge is kept.
const MaxRewireAttempts = 16

// Params holds generator parameters. Unset fields are derived from the node
// count and the shared stream by [Resolve].
type Params struct {
	// M is the number of edges attached per new node (barabasi_albert,
	// powerlaw_cluster). Zero means derive.
	M int `json:"m,omitempty" toml:"m" yaml:"m"`

	// K is the ring-lattice degree (watts_strogatz). Zero means derive.
	K int `json:"k,omitempty" toml:"k" yaml:"k"`

	// P is the rewiring (watts_strogatz), edge (erdos_renyi) or triangle
	// (powerlaw_cluster) probability. Nil means derive.
	P *float64 `json:"p,omitempty" toml:"p" yaml:"p"`

	// Radius is the connection radius (random_geometric). Nil means derive.
	Radius *float64 `json:"radius,omitempty" toml:"radius" yaml:"radius"`
}

// Float returns a pointer to v, for filling optional Params fields.
func Float(v float64) *float64 { return &v }

// Resolve returns params with every field used by kind filled in.
//
// Explicit values are validated and returned unchanged. Missing values are
// derived from n and, for probabilities and radii, drawn from s in a fixed
// order. Derived integer parameters are clamped so that small graphs stay
// valid; a single-node graph resolves to m=0 and k=0.
func Resolve(kind Kind, n int, s *rng.Stream, p Params) (Params, error) {
	if err := errors.ValidateNodeCount(n); err != nil {
		return Params{}, err
	}
	out := Params{}
	var err error
	switch kind {
	case KindBarabasiAlbert:
		out.M, err = resolveM(kind, n, p.M, max(2, n/20))
	case KindWattsStrogatz:
		if out.K, err = resolveK(n, p.K); err == nil {
			out.P, err = resolveProbability(kind, p.P, s, 0.1, 0.3)
		}
	case KindRandomGeometric:
		out.Radius, err = resolveRadius(p.Radius, s)
	case KindErdosRenyi:
		out.P, err = resolveProbability(kind, p.P, s, 0.02, 0.08)
	case KindPowerlawCluster:
		if out.M, err = resolveM(kind, n, p.M, max(2, n/30)); err == nil {
			out.P, err = resolveProbability(kind, p.P, s, 0.1, 0.5)
		}
	default:
		return Params{}, errors.UnsupportedKind("network", string(kind))
	}
	if err != nil {
		return Params{}, err
	}
	return out, nil
}

func resolveM(kind Kind, n, m, derived int) (int, error) {
	if m == 0 {
		return min(derived, n-1), nil
	}
	if m < 1 || m >= n {
		return 0, errors.InvalidParameter("%s: m=%d must be in [1, %d)", kind, m, n)
	}
	return m, nil
}

func resolveK(n, k int) (int, error) {
	if k == 0 {
		k = max(4, n/10)
		k -= k % 2
		limit := (n - 1) - (n-1)%2
		return min(k, limit), nil
	}
	if k%2 != 0 || k < 2 || k >= n {
		return 0, errors.InvalidParameter("%s: k=%d must be even and in [2, %d)", KindWattsStrogatz, k, n)
	}
	return k, nil
}

func resolveProbability(kind Kind, p *float64, s *rng.Stream, lo, hi float64) (*float64, error) {
	if p == nil {
		return Float(s.Range(lo, hi)), nil
	}
	if err := errors.ValidateProbability(string(kind)+": p", *p); err != nil {
		return nil, err
	}
	return Float(*p), nil
}

func resolveRadius(r *float64, s *rng.Stream) (*float64, error) {
	if r == nil {
		return Float(s.Range(0.15, 0.25)), nil
	}
	if err := errors.ValidateFinite(string(KindRandomGeometric)+": radius", *r, 0); err != nil {
		return nil, err
	}
	return Float(*r), nil
}

// ExpectedEdges returns the expected edge count of a kind graph on n nodes
// with resolved params p. It is exact for the growth and lattice models and
// an upper estimate for random_geometric, which ignores boundary effects.
func ExpectedEdges(kind Kind, n int, p Params) float64 {
	pairs := float64(n) * float64(n-1) / 2
	switch kind {
	case KindBarabasiAlbert, KindPowerlawCluster:
		return float64(p.M) * float64(n-p.M)
	case KindWattsStrogatz:
		return float64(n) * float64(p.K) / 2
	case KindRandomGeometric:
		if p.Radius == nil {
			return 0
		}
		return pairs * min(1, math.Pi*(*p.Radius)*(*p.Radius))
	case KindErdosRenyi:
		if p.P == nil {
			return 0
		}
		return pairs * *p.P
	}
	return 0
}

// Generate builds a graph of kind with n nodes, drawing every random
// decision from s. Unset params are resolved first (see [Resolve]).
//
// A failed call returns no graph; the stream may have advanced.
func Generate(kind Kind, n int, s *rng.Stream, p Params) (*network.Graph, error) {
	resolved, err := Resolve(kind, n, s, p)
	if err != nil {
		return nil, err
	}

	var g *network.Graph
	switch kind {
	case KindBarabasiAlbert:
		g, err = BarabasiAlbert(n, resolved.M, s)
	case KindWattsStrogatz:
		g, err = WattsStrogatz(n, resolved.K, *resolved.P, s)
	case KindRandomGeometric:
		g, err = RandomGeometric(n, *resolved.Radius, s)
	case KindErdosRenyi:
		g, err = ErdosRenyi(n, *resolved.P, s)
	case KindPowerlawCluster:
		g, err = PowerlawCluster(n, resolved.M, *resolved.P, s)
	}
	if err != nil {
		return nil, fmt.Errorf("generate %s: %w", kind, err)
	}
	return g, nil
}
