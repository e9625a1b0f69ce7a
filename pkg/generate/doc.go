// Package generate builds synthetic networks from a seeded random stream.
//
// Five generators are available, selected by [Kind]:
//
//   - [KindBarabasiAlbert]: scale-free growth by preferential attachment
//   - [KindWattsStrogatz]: ring lattice with random rewiring (small world)
//   - [KindRandomGeometric]: unit-square points linked within a radius
//   - [KindErdosRenyi]: independent edges with fixed probability
//   - [KindPowerlawCluster]: preferential attachment with triangle closing
//
// [Generate] is the entry point. It derives any parameter the caller left
// unset (see [Resolve]) and then runs the constructor. The constructors are
// exported for callers that already hold fully specified parameters:
//
//	s := rng.New(42)
//	g, err := generate.Generate(generate.KindWattsStrogatz, 120, s, generate.Params{})
//
// # Determinism
//
// Every random decision is drawn from the stream passed in, in a fixed
// order, so identical inputs and seed produce identical edge sets. Derived
// probabilities and radii are drawn before construction starts.
//
// # Errors
//
// Out-of-range parameters fail with an INVALID_PARAMETER error and unknown
// selectors with UNSUPPORTED_KIND (see package errors). No partial graph is
// ever returned.
package generate
