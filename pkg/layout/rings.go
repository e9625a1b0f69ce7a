package layout

import (
	"cmp"
	"math"
	"slices"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/netweave/pkg/network"
	"github.com/matzehuels/netweave/pkg/rng"
)

// Circular spaces n nodes evenly on the unit circle, node i at angle 2πi/n.
func Circular(n int) Positions {
	pos := make(Positions, n)
	if n == 1 {
		return pos
	}
	for i := range pos {
		pos[i] = onCircle(1, 2*math.Pi*float64(i)/float64(n))
	}
	return pos
}

// Shell arranges nodes on concentric rings, highest degree innermost.
//
// Nodes are ordered by degree (descending, ties by id) and cut into rings
// whose sizes grow with the ring index. Ring i has radius (i+1)/shells,
// except that a single-node inner ring sits at the origin. Ring i is rotated
// by iπ/shells. With one shell the result equals [Circular].
func Shell(g *network.Graph, shells int) Positions {
	n := g.N()
	shells = max(1, min(shells, n))
	if shells == 1 {
		return Circular(n)
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return cmp.Compare(g.Degree(b), g.Degree(a))
	})

	pos := make(Positions, n)
	bump := 1 / float64(shells)
	start := 0
	for i, size := range shellSizes(n, shells) {
		ring := slices.Clone(order[start : start+size])
		start += size
		slices.Sort(ring)

		radius := float64(i+1) * bump
		if i == 0 && size == 1 {
			radius = 0
		}
		rotate := float64(i) * math.Pi / float64(shells)
		for j, id := range ring {
			pos[id] = onCircle(radius, rotate+2*math.Pi*float64(j)/float64(size))
		}
	}
	return pos
}

// shellSizes splits n nodes into rings weighted 1, 2, ..., shells. Every
// ring gets at least one node; the last ring absorbs rounding.
func shellSizes(n, shells int) []int {
	total := shells * (shells + 1) / 2
	sizes := make([]int, shells)
	used := 0
	for i := range shells - 1 {
		size := int(math.Round(float64(n*(i+1)) / float64(total)))
		remaining := shells - i - 1
		size = max(1, min(size, n-used-remaining))
		sizes[i] = size
		used += size
	}
	sizes[shells-1] = n - used
	return sizes
}

// Random places every node independently and uniformly in [0,1)², drawing
// x then y per node.
func Random(n int, s *rng.Stream) Positions {
	pos := make(Positions, n)
	for i := range pos {
		pos[i] = r2.Vec{X: s.Uniform(), Y: s.Uniform()}
	}
	return pos
}

func onCircle(radius, theta float64) r2.Vec {
	return r2.Vec{X: radius * math.Cos(theta), Y: radius * math.Sin(theta)}
}
