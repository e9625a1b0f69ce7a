package rng

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSameSeedSameSequence(t *testing.T) {
	t.Parallel()
	a, b := New(42), New(42)
	for range 1000 {
		require.Equal(t, a.Uniform(), b.Uniform())
	}
}

func TestDifferentSeedsDiverge(t *testing.T) {
	t.Parallel()
	a, b := New(1), New(2)
	same := 0
	for range 100 {
		if a.Uniform() == b.Uniform() {
			same++
		}
	}
	assert.Less(t, same, 100)
}

func TestRanges(t *testing.T) {
	t.Parallel()
	s := New(7)
	for range 10000 {
		u := s.Uniform()
		require.GreaterOrEqual(t, u, 0.0)
		require.Less(t, u, 1.0)

		r := s.Range(0.1, 0.3)
		require.GreaterOrEqual(t, r, 0.1)
		require.Less(t, r, 0.3)

		i := s.Int(50, 200)
		require.GreaterOrEqual(t, i, 50)
		require.Less(t, i, 200)
	}
}

func TestIntPanicsOnEmptyRange(t *testing.T) {
	t.Parallel()
	s := New(1)
	assert.Panics(t, func() { s.Int(3, 3) })
}

func TestBernoulliExtremes(t *testing.T) {
	t.Parallel()
	s := New(3)
	for range 100 {
		assert.False(t, s.Bernoulli(0))
		assert.True(t, s.Bernoulli(1))
	}
}

func TestSnapshotResumesStream(t *testing.T) {
	t.Parallel()
	s := New(99)
	for range 17 {
		s.Uniform()
	}
	snap, err := s.MarshalBinary()
	require.NoError(t, err)

	want := make([]float64, 50)
	for i := range want {
		want[i] = s.Uniform()
	}

	var restored Stream
	require.NoError(t, restored.UnmarshalBinary(snap))
	assert.Equal(t, uint64(99), restored.Seed())
	for i := range want {
		require.Equal(t, want[i], restored.Uniform(), "draw %d", i)
	}
}

func TestUnmarshalRejectsShortInput(t *testing.T) {
	t.Parallel()
	var s Stream
	assert.Error(t, s.UnmarshalBinary([]byte{1, 2, 3}))
}

func TestSourceAdvancesStream(t *testing.T) {
	t.Parallel()
	a, b := New(8), New(8)
	a.Source().Uint64()
	b.Uniform()
	for range 10 {
		require.Equal(t, b.Uniform(), a.Uniform())
	}
}
