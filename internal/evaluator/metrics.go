package evaluator

import (
	pkgerrors "github.com/mini-maxit/modelboard/pkg/errors"
	"github.com/mini-maxit/modelboard/pkg/models"
)

// ComputeMetrics scores predictions against ground-truth labels. Precision, recall
// and F1 are macro-averaged over every class seen in either slice.
func ComputeMetrics(predictions, labels []string) (models.Metrics, error) {
	if len(predictions) == 0 || len(predictions) != len(labels) {
		return models.Metrics{}, pkgerrors.ErrDatasetMismatch
	}

	type counts struct{ tp, fp, fn int }
	perClass := make(map[string]*counts)
	get := func(class string) *counts {
		c, ok := perClass[class]
		if !ok {
			c = &counts{}
			perClass[class] = c
		}
		return c
	}

	correct := 0
	for i, predicted := range predictions {
		actual := labels[i]
		if predicted == actual {
			correct++
			get(actual).tp++
			continue
		}
		get(predicted).fp++
		get(actual).fn++
	}

	var precisionSum, recallSum, f1Sum float64
	for _, c := range perClass {
		var precision, recall, f1 float64
		if c.tp+c.fp > 0 {
			precision = float64(c.tp) / float64(c.tp+c.fp)
		}
		if c.tp+c.fn > 0 {
			recall = float64(c.tp) / float64(c.tp+c.fn)
		}
		if precision+recall > 0 {
			f1 = 2 * precision * recall / (precision + recall)
		}
		precisionSum += precision
		recallSum += recall
		f1Sum += f1
	}

	classes := float64(len(perClass))
	return models.Metrics{
		F1Score:   f1Sum / classes,
		Accuracy:  float64(correct) / float64(len(labels)),
		Precision: precisionSum / classes,
		Recall:    recallSum / classes,
	}, nil
}
