package evaluator

import (
	"context"
	"errors"
	"fmt"

	"github.com/mini-maxit/modelboard/pkg/constants"
	pkgerrors "github.com/mini-maxit/modelboard/pkg/errors"
	"github.com/mini-maxit/modelboard/pkg/models"
)

// Evaluator turns submitted source into a metrics quadruple. Every failure wraps
// pkgerrors.ErrEvaluationFailed; cancellation wraps pkgerrors.ErrEvaluatorUnavailable
// together with ctx.Err().
type Evaluator interface {
	Evaluate(ctx context.Context, source string) (models.Metrics, error)
}

type staticEvaluator struct{}

// NewStaticEvaluator returns an evaluator that scores every input identically.
func NewStaticEvaluator() Evaluator {
	return staticEvaluator{}
}

func (staticEvaluator) Evaluate(ctx context.Context, _ string) (models.Metrics, error) {
	if err := ctx.Err(); err != nil {
		return models.Metrics{}, fmt.Errorf("%w: %w", pkgerrors.ErrEvaluatorUnavailable, err)
	}
	return StaticMetrics(), nil
}

func StaticMetrics() models.Metrics {
	return models.Metrics{
		F1Score:   constants.StaticF1Score,
		Accuracy:  constants.StaticAccuracy,
		Precision: constants.StaticPrecision,
		Recall:    constants.StaticRecall,
	}
}

var failureKinds = []struct {
	code string
	err  error
}{
	{constants.EvaluationErrorSyntax, pkgerrors.ErrSourceSyntax},
	{constants.EvaluationErrorMissingEntry, pkgerrors.ErrMissingEntryPoint},
	{constants.EvaluationErrorEntryPointFailed, pkgerrors.ErrEntryPointFailed},
	{constants.EvaluationErrorTimeout, pkgerrors.ErrEvaluationTimeout},
	{constants.EvaluationErrorNotAClassifier, pkgerrors.ErrNotAClassifier},
	{constants.EvaluationErrorDatasetMismatch, pkgerrors.ErrDatasetMismatch},
}

// CodeFromError names the failure kind of err for the wire.
func CodeFromError(err error) string {
	for _, kind := range failureKinds {
		if errors.Is(err, kind.err) {
			return kind.code
		}
	}
	return constants.EvaluationErrorInternal
}

// ErrorFromCode rebuilds an evaluation error received over the wire.
func ErrorFromCode(code, message string) error {
	for _, kind := range failureKinds {
		if kind.code == code {
			if message == "" || message == kind.err.Error() {
				return kind.err
			}
			return fmt.Errorf("%w (%s)", kind.err, message)
		}
	}
	return fmt.Errorf("%w: %s", pkgerrors.ErrEvaluatorUnavailable, message)
}
