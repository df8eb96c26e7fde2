package errors

import (
	"errors"
	"fmt"
)

// Validation errors.
var (
	ErrNameTooShort     = errors.New("model name must be longer than 2 characters")
	ErrSourceMissing    = errors.New("a model file or inline code is required")
	ErrAmbiguousSource  = errors.New("provide either a model file or inline code, not both")
	ErrInvalidFileType  = errors.New("model file must be a Python (.py) file")
	ErrArtifactTooLarge = errors.New("model file is too large")
	ErrInvalidEmail     = errors.New("invalid email address")
	ErrPasswordTooWeak  = errors.New("password must be at least 6 characters long")
)

// Identity errors.
var (
	ErrUnauthenticated      = errors.New("please sign in to continue")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrInvalidToken         = errors.New("invalid or expired session token")
	ErrEmailTaken           = errors.New("email is already registered")
	ErrUserNotFound         = errors.New("user not found")
	ErrNotOwner             = errors.New("model belongs to another user")
	ErrConfirmationRequired = errors.New("deletion must be confirmed")
)

// Evaluation errors. Every kind wraps ErrEvaluationFailed.
var (
	ErrEvaluationFailed     = errors.New("model evaluation failed")
	ErrSourceSyntax         = fmt.Errorf("%w: submitted code has a syntax error", ErrEvaluationFailed)
	ErrMissingEntryPoint    = fmt.Errorf("%w: train_model() function not found", ErrEvaluationFailed)
	ErrEntryPointFailed     = fmt.Errorf("%w: train_model() raised an error", ErrEvaluationFailed)
	ErrEvaluationTimeout    = fmt.Errorf("%w: evaluation timed out", ErrEvaluationFailed)
	ErrNotAClassifier       = fmt.Errorf("%w: train_model() must return an object with fit and predict", ErrEvaluationFailed)
	ErrDatasetMismatch      = fmt.Errorf("%w: predictions do not match the evaluation dataset", ErrEvaluationFailed)
	ErrEvaluatorUnavailable = fmt.Errorf("%w: evaluator is unavailable", ErrEvaluationFailed)
)

// Storage and record store errors.
var (
	ErrArtifactNotFound   = errors.New("artifact not found")
	ErrModelNotFound      = errors.New("model not found")
	ErrFailedToUpload     = errors.New("failed to upload model file")
	ErrFailedToStoreModel = errors.New("failed to store model record")
	ErrEmptyArtifactPath  = errors.New("artifact path is empty")
)

// Queue and worker errors.
var (
	ErrFailedToGetFreeWorker = errors.New("failed to get free worker")
	ErrUnknownMessageType    = errors.New("unknown message type")
	ErrContainerTimeout      = errors.New("container runtime timed out")
	ErrContainerFailed       = errors.New("container failed to execute")
	ErrUnknownBackend        = errors.New("unknown backend")
)

// ValidationError scopes a validation failure to one request field.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func NewValidationError(field string, err error) *ValidationError {
	return &ValidationError{Field: field, Err: err}
}
