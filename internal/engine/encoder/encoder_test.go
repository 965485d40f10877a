package encoder

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/crimson-sun/tenure/internal/frame"
)

var travelOrder = map[string][]string{
	"frequence_deplacement": {"Aucun", "Occasionnel", "Frequent"},
}

func fitFrame(t *testing.T) *frame.Frame {
	t.Helper()
	f := frame.New()
	require.NoError(t, f.AddFloats("age", []float64{30, 40, 50, 0}, []bool{false, false, false, true}))
	require.NoError(t, f.AddStrings("departement", []string{"Commercial", "Consulting", "Commercial", "Commercial"}, nil))
	require.NoError(t, f.AddStrings("frequence_deplacement", []string{"Aucun", "Frequent", "Occasionnel", "Aucun"}, nil))
	return f
}

func TestFitProducesStableLayout(t *testing.T) {
	f := fitFrame(t)
	X, ft, err := Fit(f, []string{"age"}, []string{"departement"}, []string{"frequence_deplacement"}, travelOrder)
	require.NoError(t, err)

	// 1 numeric + (2 levels − 1 reference) + 1 ordinal.
	assert.Equal(t, []string{"age", "departement_Consulting", "frequence_deplacement"}, ft.FeatureNames())
	assert.Equal(t, 3, ft.Width())

	r, c := X.Dims()
	assert.Equal(t, 4, r)
	assert.Equal(t, 3, c)
}

func TestNumericImputationAndScaling(t *testing.T) {
	f := fitFrame(t)
	X, ft, err := Fit(f, []string{"age"}, nil, nil, nil)
	require.NoError(t, err)

	spec := ft.Numeric[0]
	assert.Equal(t, 40.0, spec.Median, "median of {30,40,50}")

	// Imputed column is {30,40,50,40}: mean 40, population std sqrt(50).
	assert.InDelta(t, 40.0, spec.Mean, 1e-12)
	assert.InDelta(t, math.Sqrt(50), spec.Std, 1e-12)

	// The null row was imputed to the median, then standardized to 0.
	assert.InDelta(t, 0.0, X.At(3, 0), 1e-12)
	assert.InDelta(t, (30.0-40.0)/math.Sqrt(50), X.At(0, 0), 1e-12)
}

func TestModeTieBreaksLexicographically(t *testing.T) {
	f := frame.New()
	require.NoError(t, f.AddStrings("departement", []string{"Consulting", "Commercial", "Consulting", "Commercial"}, nil))
	_, ft, err := Fit(f, nil, []string{"departement"}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "Commercial", ft.Nominal[0].Mode, "tied counts pick the smallest value regardless of row order")
}

func TestMedianOfEvenCount(t *testing.T) {
	f := frame.New()
	require.NoError(t, f.AddFloats("age", []float64{10, 20, 40, 80}, nil))
	_, ft, err := Fit(f, []string{"age"}, nil, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 30.0, ft.Numeric[0].Median, "mean of the two middle values")
}

func TestFitIsIdempotent(t *testing.T) {
	a, fta, err := Fit(fitFrame(t), []string{"age"}, []string{"departement"}, []string{"frequence_deplacement"}, travelOrder)
	require.NoError(t, err)
	b, ftb, err := Fit(fitFrame(t), []string{"age"}, []string{"departement"}, []string{"frequence_deplacement"}, travelOrder)
	require.NoError(t, err)

	assert.Equal(t, fta.FeatureNames(), ftb.FeatureNames())
	assert.True(t, mat.Equal(a, b), "same input must encode identically")
}

func TestTransformKeepsWidthAndOrder(t *testing.T) {
	_, ft, err := Fit(fitFrame(t), []string{"age"}, []string{"departement"}, []string{"frequence_deplacement"}, travelOrder)
	require.NoError(t, err)

	g := frame.New()
	require.NoError(t, g.AddFloats("age", []float64{44}, nil))
	require.NoError(t, g.AddStrings("departement", []string{"Consulting"}, nil))
	require.NoError(t, g.AddStrings("frequence_deplacement", []string{"Frequent"}, nil))

	X, err := ft.Transform(g)
	require.NoError(t, err)
	_, c := X.Dims()
	assert.Equal(t, ft.Width(), c)
	assert.Equal(t, 1.0, X.At(0, 1))
	assert.Equal(t, 2.0, X.At(0, 2))
}

func TestUnseenNominalEncodesAllZeros(t *testing.T) {
	_, ft, err := Fit(fitFrame(t), nil, []string{"departement"}, nil, nil)
	require.NoError(t, err)

	g := frame.New()
	require.NoError(t, g.AddStrings("departement", []string{"Ressources Humaines"}, nil))

	X, err := ft.Transform(g)
	require.NoError(t, err, "unseen category must never error")
	assert.Equal(t, 0.0, X.At(0, 0))
}

func TestReferenceLevelEncodesAllZeros(t *testing.T) {
	_, ft, err := Fit(fitFrame(t), nil, []string{"departement"}, nil, nil)
	require.NoError(t, err)

	g := frame.New()
	require.NoError(t, g.AddStrings("departement", []string{"Commercial"}, nil))

	X, err := ft.Transform(g)
	require.NoError(t, err)
	assert.Equal(t, 0.0, X.At(0, 0), "dropped reference level has no indicator")
}

func TestUnseenOrdinalGetsSentinel(t *testing.T) {
	_, ft, err := Fit(fitFrame(t), nil, nil, []string{"frequence_deplacement"}, travelOrder)
	require.NoError(t, err)

	g := frame.New()
	require.NoError(t, g.AddStrings("frequence_deplacement", []string{"Permanent"}, nil))

	X, err := ft.Transform(g)
	require.NoError(t, err)
	assert.Equal(t, float64(UnknownOrdinal), X.At(0, 0))
}

func TestOrdinalFollowsDeclaredOrderNotAlphabetical(t *testing.T) {
	_, ft, err := Fit(fitFrame(t), nil, nil, []string{"frequence_deplacement"}, travelOrder)
	require.NoError(t, err)

	g := frame.New()
	// Alphabetically "Frequent" < "Occasionnel", but the declared order
	// ranks it highest.
	require.NoError(t, g.AddStrings("frequence_deplacement", []string{"Frequent", "Occasionnel", "Aucun"}, nil))

	X, err := ft.Transform(g)
	require.NoError(t, err)
	assert.Equal(t, 2.0, X.At(0, 0))
	assert.Equal(t, 1.0, X.At(1, 0))
	assert.Equal(t, 0.0, X.At(2, 0))
}

func TestMissingValuesImputedByMode(t *testing.T) {
	f := frame.New()
	require.NoError(t, f.AddStrings("departement",
		[]string{"Commercial", "Commercial", "Consulting", ""},
		[]bool{false, false, false, true}))

	_, ft, err := Fit(f, nil, []string{"departement"}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "Commercial", ft.Nominal[0].Mode)

	g := frame.New()
	require.NoError(t, g.AddStrings("departement", []string{""}, []bool{true}))
	X, err := ft.Transform(g)
	require.NoError(t, err)
	// Mode is the reference level here, so the imputed row is all zeros.
	assert.Equal(t, 0.0, X.At(0, 0))
}

func TestTransformFailsOnMissingColumn(t *testing.T) {
	_, ft, err := Fit(fitFrame(t), []string{"age"}, nil, nil, nil)
	require.NoError(t, err)

	g := frame.New()
	require.NoError(t, g.AddFloats("other", []float64{1}, nil))
	_, err = ft.Transform(g)
	require.Error(t, err, "structurally absent column is a programming error")
}

func TestFitFailsWithoutOrdinalOrder(t *testing.T) {
	_, _, err := Fit(fitFrame(t), nil, nil, []string{"frequence_deplacement"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no declared order")
}

func TestZeroVarianceColumnDoesNotDivideByZero(t *testing.T) {
	f := frame.New()
	require.NoError(t, f.AddFloats("flat", []float64{7, 7, 7}, nil))

	X, _, err := Fit(f, []string{"flat"}, nil, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 0.0, X.At(0, 0))
	assert.False(t, math.IsNaN(X.At(1, 0)))
}

func TestFittedRoundTripsThroughJSON(t *testing.T) {
	_, ft, err := Fit(fitFrame(t), []string{"age"}, []string{"departement"}, []string{"frequence_deplacement"}, travelOrder)
	require.NoError(t, err)

	data, err := json.Marshal(ft)
	require.NoError(t, err)

	var back Fitted
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, ft.FeatureNames(), back.FeatureNames())

	g := frame.New()
	require.NoError(t, g.AddFloats("age", []float64{40}, nil))
	require.NoError(t, g.AddStrings("departement", []string{"Consulting"}, nil))
	require.NoError(t, g.AddStrings("frequence_deplacement", []string{"Aucun"}, nil))

	want, err := ft.Transform(g)
	require.NoError(t, err)
	got, err := back.Transform(g)
	require.NoError(t, err)
	assert.True(t, mat.Equal(want, got))
}
