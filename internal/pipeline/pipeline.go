package pipeline

import (
	"context"
	"fmt"
	"sync"

	"github.com/mini-maxit/modelboard/internal/evaluator"
	"github.com/mini-maxit/modelboard/internal/logger"
	"github.com/mini-maxit/modelboard/internal/rabbitmq/responder"
	"github.com/mini-maxit/modelboard/pkg/constants"
	"github.com/mini-maxit/modelboard/pkg/messages"
	"go.uber.org/zap"
)

type Worker interface {
	ProcessEvaluation(messageID, responseQueue string, request *messages.EvaluateQueueMessage)
	GetStatus() constants.WorkerStatus
	UpdateStatus(status constants.WorkerStatus)
	GetProcessingMessageID() string
	GetId() int
}

type WorkerState struct {
	Status              constants.WorkerStatus `json:"status"`
	ProcessingMessageID string                 `json:"processing_message_id"`
}

type worker struct {
	id        int
	mu        sync.Mutex
	state     WorkerState
	evaluator evaluator.Evaluator
	responder responder.Responder
	logger    *zap.SugaredLogger
}

func NewWorker(id int, eval evaluator.Evaluator, responder responder.Responder) Worker {
	logger := logger.NewNamedLogger(fmt.Sprintf("worker-%d", id))

	return &worker{
		id:        id,
		state:     WorkerState{Status: constants.WorkerStatusIdle},
		evaluator: eval,
		responder: responder,
		logger:    logger,
	}
}

func (ws *worker) GetId() int {
	return ws.id
}

func (ws *worker) GetStatus() constants.WorkerStatus {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	return ws.state.Status
}

func (ws *worker) UpdateStatus(status constants.WorkerStatus) {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	ws.state.Status = status
}

func (ws *worker) GetProcessingMessageID() string {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	return ws.state.ProcessingMessageID
}

func (ws *worker) setProcessingMessageID(messageID string) {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	ws.state.ProcessingMessageID = messageID
}

func (ws *worker) ProcessEvaluation(messageID, responseQueue string, request *messages.EvaluateQueueMessage) {
	defer func() {
		if r := recover(); r != nil {
			ws.logger.Errorf("Recovered from panic [MsgID: %s]: %v", messageID, r)
			ws.responder.PublishErrorToResponseQueue(
				constants.QueueMessageTypeEvaluate,
				messageID,
				responseQueue,
				fmt.Errorf("evaluation panicked: %v", r),
			)
		}
	}()

	ws.logger.Infof("Processing evaluation [MsgID: %s]", messageID)
	ws.setProcessingMessageID(messageID)
	defer ws.setProcessingMessageID("")

	metrics, err := ws.evaluator.Evaluate(context.Background(), request.Source)
	if err != nil {
		ws.logger.Infof("Evaluation failed [MsgID: %s]: %s", messageID, err)
		ws.responder.PublishErrorToResponseQueue(
			constants.QueueMessageTypeEvaluate,
			messageID,
			responseQueue,
			err,
		)
		return
	}

	err = ws.responder.PublishSuccessEvaluateRespond(
		constants.QueueMessageTypeEvaluate,
		messageID,
		responseQueue,
		metrics,
	)
	if err != nil {
		ws.logger.Errorf("Failed to publish evaluation result [MsgID: %s]: %s", messageID, err)
		return
	}
	ws.logger.Infof("Finished processing evaluation [MsgID: %s]", messageID)
}
