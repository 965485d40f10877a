package classifier

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// Two well-separated clusters on a single feature, with the positive
// class deliberately rare to exercise the class reweighting.
func separableData() (*mat.Dense, []float64) {
	rows := [][]float64{
		{-2.0}, {-1.8}, {-2.2}, {-1.9}, {-2.1}, {-1.7}, {-2.3}, {-2.0},
		{2.0}, {2.2},
	}
	y := []float64{0, 0, 0, 0, 0, 0, 0, 0, 1, 1}
	X := mat.NewDense(len(rows), 1, nil)
	for i, r := range rows {
		X.SetRow(i, r)
	}
	return X, y
}

func TestFitSeparatesClasses(t *testing.T) {
	X, y := separableData()
	c, err := Fit(X, y, DefaultOptions())
	require.NoError(t, err)

	pred, err := c.Predict(X)
	require.NoError(t, err)
	for i, p := range pred {
		assert.Equal(t, int(y[i]), p, "row %d", i)
	}
}

func TestProbabilitiesAreBounded(t *testing.T) {
	X, y := separableData()
	c, err := Fit(X, y, DefaultOptions())
	require.NoError(t, err)

	proba, err := c.PredictProba(X)
	require.NoError(t, err)
	for _, p := range proba {
		assert.GreaterOrEqual(t, p, 0.0)
		assert.LessOrEqual(t, p, 1.0)
	}
}

func TestFitIsDeterministic(t *testing.T) {
	X, y := separableData()
	a, err := Fit(X, y, DefaultOptions())
	require.NoError(t, err)
	b, err := Fit(X, y, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, a.Weights, b.Weights)
	assert.Equal(t, a.Bias, b.Bias)
}

func TestReweightingLiftsMinorityClass(t *testing.T) {
	// With 8 negatives and 2 positives, an unweighted fit would bias the
	// intercept toward the majority. The reweighted fit should give the
	// midpoint (x = 0) a probability close to one half.
	X, y := separableData()
	c, err := Fit(X, y, DefaultOptions())
	require.NoError(t, err)

	mid := mat.NewDense(1, 1, []float64{0})
	proba, err := c.PredictProba(mid)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, proba[0], 0.15)
}

func TestFitRejectsSingleClass(t *testing.T) {
	X := mat.NewDense(3, 1, []float64{1, 2, 3})
	_, err := Fit(X, []float64{0, 0, 0}, DefaultOptions())
	assert.ErrorIs(t, err, errSingleClass)
}

func TestFitRejectsNonBinaryLabels(t *testing.T) {
	X := mat.NewDense(2, 1, []float64{1, 2})
	_, err := Fit(X, []float64{0, 2}, DefaultOptions())
	assert.Error(t, err)
}

func TestFitRejectsLabelCountMismatch(t *testing.T) {
	X := mat.NewDense(2, 1, []float64{1, 2})
	_, err := Fit(X, []float64{0}, DefaultOptions())
	assert.Error(t, err)
}

func TestPredictRejectsWidthMismatch(t *testing.T) {
	X, y := separableData()
	c, err := Fit(X, y, DefaultOptions())
	require.NoError(t, err)

	wide := mat.NewDense(1, 2, []float64{1, 2})
	_, err = c.PredictProba(wide)
	assert.Error(t, err)
}

func TestClassifierRoundTripsThroughJSON(t *testing.T) {
	X, y := separableData()
	c, err := Fit(X, y, DefaultOptions())
	require.NoError(t, err)

	raw, err := json.Marshal(c)
	require.NoError(t, err)
	var back Classifier
	require.NoError(t, json.Unmarshal(raw, &back))

	p1, err := c.PredictProba(X)
	require.NoError(t, err)
	p2, err := back.PredictProba(X)
	require.NoError(t, err)
	assert.Equal(t, p1, p2)
}
