package pipeline_test

import (
	"context"
	"testing"

	"github.com/mini-maxit/modelboard/internal/pipeline"
	"github.com/mini-maxit/modelboard/pkg/constants"
	pkgerrors "github.com/mini-maxit/modelboard/pkg/errors"
	"github.com/mini-maxit/modelboard/pkg/messages"
	"github.com/mini-maxit/modelboard/pkg/models"
	mocks "github.com/mini-maxit/modelboard/tests/mocks"
	"go.uber.org/mock/gomock"
)

func TestProcessEvaluation_SuccessFlow(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockEvaluator := mocks.NewMockEvaluator(ctrl)
	mockResponder := mocks.NewMockResponder(ctrl)

	metrics := models.Metrics{F1Score: 0.8, Accuracy: 0.7, Precision: 0.6, Recall: 0.5}
	mockEvaluator.EXPECT().Evaluate(gomock.Any(), "source").Return(metrics, nil)
	mockResponder.EXPECT().
		PublishSuccessEvaluateRespond(constants.QueueMessageTypeEvaluate, "msg-1", "respQ", metrics).
		Return(nil)

	w := pipeline.NewWorker(1, mockEvaluator, mockResponder)
	w.ProcessEvaluation("msg-1", "respQ", &messages.EvaluateQueueMessage{Source: "source"})

	if got := w.GetProcessingMessageID(); got != "" {
		t.Fatalf("expected processingMessageID to be cleared, got %q", got)
	}
}

func TestProcessEvaluation_EvaluationErrorFlow(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockEvaluator := mocks.NewMockEvaluator(ctrl)
	mockResponder := mocks.NewMockResponder(ctrl)

	mockEvaluator.EXPECT().Evaluate(gomock.Any(), gomock.Any()).Return(models.Metrics{}, pkgerrors.ErrSourceSyntax)
	mockResponder.EXPECT().
		PublishErrorToResponseQueue(constants.QueueMessageTypeEvaluate, "msg-2", "respQ", pkgerrors.ErrSourceSyntax)

	w := pipeline.NewWorker(2, mockEvaluator, mockResponder)
	w.ProcessEvaluation("msg-2", "respQ", &messages.EvaluateQueueMessage{Source: "def"})
}

func TestProcessEvaluation_PanicIsReported(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockEvaluator := mocks.NewMockEvaluator(ctrl)
	mockResponder := mocks.NewMockResponder(ctrl)

	mockEvaluator.EXPECT().Evaluate(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, _ string) (models.Metrics, error) {
			panic("boom")
		})
	mockResponder.EXPECT().
		PublishErrorToResponseQueue(constants.QueueMessageTypeEvaluate, "msg-3", "respQ", gomock.Any())

	w := pipeline.NewWorker(3, mockEvaluator, mockResponder)
	w.ProcessEvaluation("msg-3", "respQ", &messages.EvaluateQueueMessage{})
}

func TestWorkerStatus(t *testing.T) {
	w := pipeline.NewWorker(7, nil, nil)

	if w.GetId() != 7 {
		t.Fatalf("expected id 7, got %d", w.GetId())
	}
	if w.GetStatus() != constants.WorkerStatusIdle {
		t.Fatalf("expected new worker to be idle")
	}
	w.UpdateStatus(constants.WorkerStatusBusy)
	if w.GetStatus() != constants.WorkerStatusBusy {
		t.Fatalf("expected worker to be busy after update")
	}
}
