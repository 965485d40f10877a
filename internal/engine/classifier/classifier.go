// Package classifier implements the binary attrition model: a logistic
// regression trained by full-batch gradient descent with class-frequency
// loss reweighting. Reweighting (rather than resampling) keeps the
// encoder's feature layout independent of how imbalance is handled.
package classifier

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Options are the training hyperparameters.
type Options struct {
	LearningRate float64
	Epochs       int
}

// DefaultOptions returns the hyperparameters used by the trainer.
func DefaultOptions() Options {
	return Options{LearningRate: 0.1, Epochs: 500}
}

// Classifier is a fitted binary logistic regression. Immutable after
// fitting; serializes as part of the pipeline artifact.
type Classifier struct {
	Weights   []float64 `json:"weights"`
	Bias      float64   `json:"bias"`
	Threshold float64   `json:"threshold"`
}

var errSingleClass = errors.New("classifier: training data contains a single class")

// Fit trains a logistic regression on X (rows are samples) against binary
// labels y. The loss is reweighted per class so the rare positive class
// (attrition) contributes proportionally: weight_c = n / (2 * count_c).
// Weights start at zero, so fitting is deterministic.
func Fit(X *mat.Dense, y []float64, o Options) (*Classifier, error) {
	n, d := X.Dims()
	if len(y) != n {
		return nil, fmt.Errorf("classifier: %d rows but %d labels", n, len(y))
	}
	if o.Epochs <= 0 || o.LearningRate <= 0 {
		return nil, fmt.Errorf("classifier: invalid options %+v", o)
	}

	var nPos, nNeg int
	for _, v := range y {
		switch v {
		case 1:
			nPos++
		case 0:
			nNeg++
		default:
			return nil, fmt.Errorf("classifier: label %v is not 0 or 1", v)
		}
	}
	if nPos == 0 || nNeg == 0 {
		return nil, errSingleClass
	}
	wPos := float64(n) / (2 * float64(nPos))
	wNeg := float64(n) / (2 * float64(nNeg))

	w := mat.NewVecDense(d, nil)
	bias := 0.0

	z := mat.NewVecDense(n, nil)
	resid := mat.NewVecDense(n, nil)
	grad := mat.NewVecDense(d, nil)

	for epoch := 0; epoch < o.Epochs; epoch++ {
		z.MulVec(X, w)

		var gBias float64
		for i := 0; i < n; i++ {
			p := sigmoid(z.AtVec(i) + bias)
			cw := wNeg
			if y[i] == 1 {
				cw = wPos
			}
			r := cw * (p - y[i]) / float64(n)
			resid.SetVec(i, r)
			gBias += r
		}

		grad.MulVec(X.T(), resid)
		w.AddScaledVec(w, -o.LearningRate, grad)
		bias -= o.LearningRate * gBias
	}

	weights := make([]float64, d)
	copy(weights, w.RawVector().Data)
	return &Classifier{Weights: weights, Bias: bias, Threshold: 0.5}, nil
}

// PredictProba returns the positive-class probability for each row of X.
func (c *Classifier) PredictProba(X *mat.Dense) ([]float64, error) {
	n, d := X.Dims()
	if d != len(c.Weights) {
		return nil, fmt.Errorf("classifier: input has %d features, model expects %d", d, len(c.Weights))
	}
	w := mat.NewVecDense(len(c.Weights), c.Weights)
	z := mat.NewVecDense(n, nil)
	z.MulVec(X, w)

	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = sigmoid(z.AtVec(i) + c.Bias)
	}
	return out, nil
}

// Predict returns the 0/1 class for each row of X using the fitted
// decision threshold.
func (c *Classifier) Predict(X *mat.Dense) ([]int, error) {
	proba, err := c.PredictProba(X)
	if err != nil {
		return nil, err
	}
	out := make([]int, len(proba))
	for i, p := range proba {
		if p >= c.Threshold {
			out[i] = 1
		}
	}
	return out, nil
}

func sigmoid(z float64) float64 {
	// Exp overflows float64 well before |z| reaches 500.
	if z < -500 {
		return 0
	}
	if z > 500 {
		return 1
	}
	return 1 / (1 + math.Exp(-z))
}
