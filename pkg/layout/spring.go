package layout

import (
	"math"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/netweave/pkg/network"
	"github.com/matzehuels/netweave/pkg/rng"
)

// minDistance floors pair distances so forces stay bounded.
const minDistance = 0.01

// goldenAngle spreads the separation directions of coincident pairs.
var goldenAngle = math.Pi * (3 - math.Sqrt(5))

// Spring runs a force-directed (Fruchterman–Reingold style) simulation.
//
// Nodes start uniformly in [-1,1]² (x then y per node). Each iteration every
// node is pushed away from every other node with magnitude k²/d and pulled
// toward its neighbors with magnitude d-k. The net displacement is capped at
// the current temperature, which cools linearly to near zero. Coordinates
// are not normalized.
//
// Zero-valued hints fall back to the package defaults.
func Spring(g *network.Graph, s *rng.Stream, h Hints) Positions {
	n := g.N()
	h = h.withDefaults(n)
	pos := make(Positions, n)
	for i := range pos {
		pos[i] = r2.Vec{X: s.Range(-1, 1), Y: s.Range(-1, 1)}
	}
	if n < 2 {
		return pos
	}

	t := h.Temperature
	if t == 0 {
		lo, hi := pos.Bounds()
		t = 0.1 * max(hi.X-lo.X, hi.Y-lo.Y)
		if t == 0 {
			t = 0.1
		}
	}
	dt := t / float64(h.Iterations+1)

	k := h.K
	edges := g.Edges()
	disp := make([]r2.Vec, n)

	for range h.Iterations {
		repulse(pos, disp, k, h.Workers)

		for _, e := range edges {
			delta, d := separation(pos, e.U, e.V)
			f := r2.Scale((d-k)/d, delta)
			disp[e.U] = r2.Sub(disp[e.U], f)
			disp[e.V] = r2.Add(disp[e.V], f)
		}

		for i := range pos {
			if l := r2.Norm(disp[i]); l > t {
				disp[i] = r2.Scale(t/l, disp[i])
			}
			pos[i] = r2.Add(pos[i], disp[i])
		}
		t -= dt
	}
	return pos
}

// separation returns the vector from j to i and its length floored at
// minDistance. Coincident nodes get a deterministic direction derived from
// their ids, antisymmetric in (i, j).
func separation(pos Positions, i, j int) (r2.Vec, float64) {
	delta := r2.Sub(pos[i], pos[j])
	d := r2.Norm(delta)
	if d == 0 {
		lo, hi := min(i, j), max(i, j)
		theta := goldenAngle * float64(lo*len(pos)+hi)
		delta = r2.Vec{X: minDistance * math.Cos(theta), Y: minDistance * math.Sin(theta)}
		if i > j {
			delta = r2.Scale(-1, delta)
		}
		return delta, minDistance
	}
	if d < minDistance {
		return r2.Scale(minDistance/d, delta), minDistance
	}
	return delta, d
}

// repulse writes the total repulsive displacement of every node into disp.
// Node ranges are split across workers; each node sums its partners in id
// order, so the result is identical for any worker count.
func repulse(pos Positions, disp []r2.Vec, k float64, workers int) {
	n := len(pos)
	k2 := k * k
	body := func(lo, hi int) {
		for i := lo; i < hi; i++ {
			var acc r2.Vec
			for j := range n {
				if i == j {
					continue
				}
				delta, d := separation(pos, i, j)
				acc = r2.Add(acc, r2.Scale(k2/(d*d), delta))
			}
			disp[i] = acc
		}
	}

	if workers <= 1 || n < ParallelThreshold {
		body(0, n)
		return
	}
	chunk := (n + workers - 1) / workers
	var eg errgroup.Group
	for lo := 0; lo < n; lo += chunk {
		hi := min(lo+chunk, n)
		eg.Go(func() error {
			body(lo, hi)
			return nil
		})
	}
	_ = eg.Wait()
}
