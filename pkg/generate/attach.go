package generate

import (
	"gonum.org/v1/gonum/stat/sampleuv"

	"github.com/matzehuels/netweave/pkg/errors"
	"github.com/matzehuels/netweave/pkg/rng"
)

// attachment picks preferential-attachment targets. Node weights are whole
// numbers (degrees, plus smoothing), so the sums kept by the gonum weight
// heap stay exact and draws depend on the stream alone.
type attachment struct {
	weights []float64
	sampler sampleuv.Weighted
}

// newAttachment returns an attachment over n nodes of weight zero that
// draws from s.
func newAttachment(n int, s *rng.Stream) *attachment {
	return &attachment{
		weights: make([]float64, n),
		sampler: sampleuv.NewWeighted(make([]float64, n), s.Source()),
	}
}

// add increases the weight of node i by delta.
func (a *attachment) add(i int, delta float64) {
	a.weights[i] += delta
	a.sampler.Reweight(i, a.weights[i])
}

// take draws k distinct nodes by weight. Drawn nodes are restored to their
// weight before take returns, also on failure.
func (a *attachment) take(k int) ([]int, error) {
	chosen := make([]int, 0, k)
	defer func() {
		for _, id := range chosen {
			a.sampler.Reweight(id, a.weights[id])
		}
	}()

	for len(chosen) < k {
		id, ok := a.sampler.Take()
		if !ok {
			return nil, errors.New(errors.ErrCodeInternal,
				"only %d of %d targets have positive weight", len(chosen), k)
		}
		chosen = append(chosen, id)
	}
	return chosen, nil
}
