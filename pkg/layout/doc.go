// Package layout assigns planar coordinates to the nodes of a network.
//
// Four algorithms are available, selected by [Kind]:
//
//   - [KindSpring]: force-directed placement, see [Spring]
//   - [KindCircular]: evenly spaced on the unit circle
//   - [KindShell]: concentric rings ordered by degree
//   - [KindRandom]: independent uniform points in the unit square
//
// [Compute] validates the selector and [Hints] and dispatches. Raw
// coordinates are in each algorithm's native range; package normalize maps
// them onto a canvas.
//
// Spring and random layouts draw from the run's [rng.Stream], so the same
// graph and stream state always yield the same positions. The spring
// repulsion pass runs in parallel on large graphs without affecting the
// result.
package layout
