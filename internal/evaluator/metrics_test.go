package evaluator_test

import (
	"testing"

	"github.com/mini-maxit/modelboard/internal/evaluator"
	pkgerrors "github.com/mini-maxit/modelboard/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeMetrics(t *testing.T) {
	tests := []struct {
		name        string
		predictions []string
		labels      []string
		accuracy    float64
		precision   float64
		recall      float64
		f1          float64
	}{
		{
			name:        "perfect predictions",
			predictions: []string{"a", "b", "a", "c"},
			labels:      []string{"a", "b", "a", "c"},
			accuracy:    1, precision: 1, recall: 1, f1: 1,
		},
		{
			name:        "all wrong binary",
			predictions: []string{"1", "1", "0", "0"},
			labels:      []string{"0", "0", "1", "1"},
			accuracy:    0, precision: 0, recall: 0, f1: 0,
		},
		{
			// class 1: tp=2 fp=1 fn=0 -> p=2/3 r=1 f1=0.8
			// class 0: tp=1 fp=0 fn=1 -> p=1 r=1/2 f1=2/3
			name:        "binary mixed",
			predictions: []string{"1", "1", "1", "0"},
			labels:      []string{"1", "1", "0", "0"},
			accuracy:    0.75,
			precision:   (2.0/3.0 + 1.0) / 2,
			recall:      (1.0 + 0.5) / 2,
			f1:          (0.8 + 2.0/3.0) / 2,
		},
		{
			// "b" is never predicted, so it contributes zero precision.
			name:        "class never predicted",
			predictions: []string{"a", "a"},
			labels:      []string{"a", "b"},
			accuracy:    0.5,
			precision:   (0.5 + 0) / 2,
			recall:      (1.0 + 0) / 2,
			f1:          (2 * 0.5 * 1.0 / 1.5) / 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := evaluator.ComputeMetrics(tt.predictions, tt.labels)
			require.NoError(t, err)
			assert.InDelta(t, tt.accuracy, m.Accuracy, 1e-9)
			assert.InDelta(t, tt.precision, m.Precision, 1e-9)
			assert.InDelta(t, tt.recall, m.Recall, 1e-9)
			assert.InDelta(t, tt.f1, m.F1Score, 1e-9)
		})
	}
}

func TestComputeMetrics_DatasetMismatch(t *testing.T) {
	_, err := evaluator.ComputeMetrics([]string{"a"}, []string{"a", "b"})
	assert.ErrorIs(t, err, pkgerrors.ErrDatasetMismatch)
	assert.ErrorIs(t, err, pkgerrors.ErrEvaluationFailed)

	_, err = evaluator.ComputeMetrics(nil, nil)
	assert.ErrorIs(t, err, pkgerrors.ErrDatasetMismatch)
}
