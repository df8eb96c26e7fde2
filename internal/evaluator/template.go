package evaluator

import (
	_ "embed"
)

//go:embed sample_model.py
var sampleModel []byte

// Requirements lists what a submission must satisfy, in display order.
var Requirements = []string{
	"File must be a Python (.py) file",
	"Must contain a train_model() function",
	"Model must be scikit-learn compatible",
	"Should return a trained model object",
}

// SampleModel returns a copy of the downloadable starter template.
func SampleModel() []byte {
	out := make([]byte, len(sampleModel))
	copy(out, sampleModel)
	return out
}
