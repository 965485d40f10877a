package trainer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func labels(nNeg, nPos int) []float64 {
	y := make([]float64, 0, nNeg+nPos)
	for i := 0; i < nNeg; i++ {
		y = append(y, 0)
	}
	for i := 0; i < nPos; i++ {
		y = append(y, 1)
	}
	return y
}

func TestSplitIsDeterministic(t *testing.T) {
	y := labels(80, 20)
	a, err := StratifiedSplit(y, 0.2, 42)
	require.NoError(t, err)
	b, err := StratifiedSplit(y, 0.2, 42)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestSplitChangesWithSeed(t *testing.T) {
	y := labels(80, 20)
	a, err := StratifiedSplit(y, 0.2, 1)
	require.NoError(t, err)
	b, err := StratifiedSplit(y, 0.2, 2)
	require.NoError(t, err)
	assert.NotEqual(t, a.Test, b.Test)
}

func TestSplitCoversAllRowsExactlyOnce(t *testing.T) {
	y := labels(75, 25)
	s, err := StratifiedSplit(y, 0.2, 42)
	require.NoError(t, err)

	seen := map[int]int{}
	for _, i := range s.Train {
		seen[i]++
	}
	for _, i := range s.Test {
		seen[i]++
	}
	require.Len(t, seen, len(y))
	for i, n := range seen {
		assert.Equal(t, 1, n, "row %d", i)
	}
}

func TestSplitPreservesClassProportions(t *testing.T) {
	y := labels(80, 20)
	s, err := StratifiedSplit(y, 0.2, 42)
	require.NoError(t, err)

	assert.Len(t, s.Test, 20)
	var posInTest int
	for _, i := range s.Test {
		if y[i] == 1 {
			posInTest++
		}
	}
	assert.Equal(t, 4, posInTest)
}

func TestSplitRejectsSingletonClass(t *testing.T) {
	_, err := StratifiedSplit(labels(10, 1), 0.2, 42)
	assert.ErrorContains(t, err, "at least 2")
}

func TestSplitRejectsBadFraction(t *testing.T) {
	for _, frac := range []float64{0, 1, -0.2, 1.5} {
		_, err := StratifiedSplit(labels(10, 10), frac, 42)
		assert.Error(t, err, "fraction %v", frac)
	}
}

func TestSplitKeepsBothSidesNonEmptyPerClass(t *testing.T) {
	// A tiny class still lands one row on each side.
	y := labels(10, 2)
	s, err := StratifiedSplit(y, 0.2, 42)
	require.NoError(t, err)

	var posTrain, posTest int
	for _, i := range s.Train {
		if y[i] == 1 {
			posTrain++
		}
	}
	for _, i := range s.Test {
		if y[i] == 1 {
			posTest++
		}
	}
	assert.Equal(t, 1, posTrain)
	assert.Equal(t, 1, posTest)
}
