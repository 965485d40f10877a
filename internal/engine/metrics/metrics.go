// Package metrics computes the holdout evaluation reported after each
// training run: confusion matrix, per-class precision/recall/F1, and a
// recall-weighted F-beta summary for the positive (attrition) class.
package metrics

import "fmt"

// Confusion is the 2x2 confusion matrix for the binary attrition task.
type Confusion struct {
	TruePositive  int `json:"true_positive"`
	TrueNegative  int `json:"true_negative"`
	FalsePositive int `json:"false_positive"`
	FalseNegative int `json:"false_negative"`
}

// ClassReport holds precision, recall and F1 for one class.
type ClassReport struct {
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
	Support   int     `json:"support"`
}

// Report aggregates the evaluation of one holdout set.
type Report struct {
	Confusion Confusion   `json:"confusion"`
	Negative  ClassReport `json:"negative"`
	Positive  ClassReport `json:"positive"`
	Accuracy  float64     `json:"accuracy"`
	FBeta     float64     `json:"fbeta"`
	Beta      float64     `json:"beta"`
}

// AttritionBeta weights recall over precision in the headline score.
// Missing a departure costs more than a false alarm.
const AttritionBeta = 2.0

// NewConfusion tallies predictions against true labels. Labels and
// predictions must be 0 or 1.
func NewConfusion(yTrue, yPred []int) (Confusion, error) {
	if len(yTrue) != len(yPred) {
		return Confusion{}, fmt.Errorf("metrics: %d labels but %d predictions", len(yTrue), len(yPred))
	}
	var c Confusion
	for i := range yTrue {
		if yTrue[i] != 0 && yTrue[i] != 1 {
			return Confusion{}, fmt.Errorf("metrics: label %d at row %d is not 0 or 1", yTrue[i], i)
		}
		if yPred[i] != 0 && yPred[i] != 1 {
			return Confusion{}, fmt.Errorf("metrics: prediction %d at row %d is not 0 or 1", yPred[i], i)
		}
		switch {
		case yTrue[i] == 1 && yPred[i] == 1:
			c.TruePositive++
		case yTrue[i] == 0 && yPred[i] == 0:
			c.TrueNegative++
		case yTrue[i] == 0 && yPred[i] == 1:
			c.FalsePositive++
		default:
			c.FalseNegative++
		}
	}
	return c, nil
}

// Evaluate builds the full report for a holdout set.
func Evaluate(yTrue, yPred []int) (Report, error) {
	c, err := NewConfusion(yTrue, yPred)
	if err != nil {
		return Report{}, err
	}

	pos := classReport(c.TruePositive, c.FalsePositive, c.FalseNegative)
	pos.Support = c.TruePositive + c.FalseNegative
	// For the negative class the roles swap: a true negative is a correct
	// "stays" call, a false negative of the model is a false positive here.
	neg := classReport(c.TrueNegative, c.FalseNegative, c.FalsePositive)
	neg.Support = c.TrueNegative + c.FalsePositive

	total := pos.Support + neg.Support
	var acc float64
	if total > 0 {
		acc = float64(c.TruePositive+c.TrueNegative) / float64(total)
	}

	return Report{
		Confusion: c,
		Positive:  pos,
		Negative:  neg,
		Accuracy:  acc,
		FBeta:     FBeta(pos.Precision, pos.Recall, AttritionBeta),
		Beta:      AttritionBeta,
	}, nil
}

// FBeta combines precision and recall, weighting recall beta times as
// much as precision. Returns 0 when both are 0 instead of dividing by
// zero, which happens when a degenerate model predicts a single class.
func FBeta(precision, recall, beta float64) float64 {
	b2 := beta * beta
	denom := b2*precision + recall
	if denom == 0 {
		return 0
	}
	return (1 + b2) * precision * recall / denom
}

func classReport(tp, fp, fn int) ClassReport {
	var r ClassReport
	if tp+fp > 0 {
		r.Precision = float64(tp) / float64(tp+fp)
	}
	if tp+fn > 0 {
		r.Recall = float64(tp) / float64(tp+fn)
	}
	r.F1 = FBeta(r.Precision, r.Recall, 1)
	return r
}
