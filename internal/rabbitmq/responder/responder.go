package responder

import (
	"encoding/json"
	"sync"

	"github.com/mini-maxit/modelboard/internal/evaluator"
	"github.com/mini-maxit/modelboard/internal/logger"
	"github.com/mini-maxit/modelboard/internal/rabbitmq/channel"
	"github.com/mini-maxit/modelboard/pkg/messages"
	"github.com/mini-maxit/modelboard/pkg/models"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

type Responder interface {
	PublishErrorToResponseQueue(
		messageType, messageID, responseQueue string,
		err error,
	)
	PublishSuccessStatusRespond(
		messageType, messageID, responseQueue string,
		statusMap map[string]interface{},
	) error
	PublishSuccessEvaluateRespond(
		messageType, messageID, responseQueue string,
		metrics models.Metrics,
	) error
}

type responder struct {
	// amqp channels are not safe for concurrent publishing.
	mu      sync.Mutex
	logger  *zap.SugaredLogger
	channel channel.Channel
}

func NewResponder(ch channel.Channel) Responder {
	return &responder{
		logger:  logger.NewNamedLogger("responder"),
		channel: ch,
	}
}

func (r *responder) PublishErrorToResponseQueue(messageType, messageID, responseQueue string, err error) {
	errorPayload := messages.ErrorResponsePayload{
		Error: err.Error(),
		Code:  evaluator.CodeFromError(err),
	}
	payload, jsonErr := json.Marshal(errorPayload)
	if jsonErr != nil {
		r.logger.Errorf("Failed to marshal error payload: %s", jsonErr)
		return
	}

	if pubErr := r.publish(messageType, messageID, responseQueue, false, payload); pubErr != nil {
		r.logger.Errorf("Failed to publish error message: %s", pubErr)
		return
	}

	r.logger.Infof("Published error message to response queue: %s", messageID)
}

func (r *responder) PublishSuccessEvaluateRespond(
	messageType, messageID, responseQueue string,
	metrics models.Metrics,
) error {
	payload, err := json.Marshal(messages.EvaluateResponsePayload{Metrics: metrics})
	if err != nil {
		return err
	}

	return r.publish(messageType, messageID, responseQueue, true, payload)
}

func (r *responder) PublishSuccessStatusRespond(
	messageType, messageID, responseQueue string,
	statusMap map[string]interface{},
) error {
	payload, err := json.Marshal(statusMap)
	if err != nil {
		return err
	}

	return r.publish(messageType, messageID, responseQueue, true, payload)
}

func (r *responder) publish(messageType, messageID, responseQueue string, ok bool, payload []byte) error {
	queueMessage := messages.ResponseQueueMessage{
		Type:      messageType,
		MessageID: messageID,
		Ok:        ok,
		Payload:   payload,
	}

	responseJSON, err := json.Marshal(queueMessage)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.logger.Infof("Publishing response message to response queue: %s", responseQueue)
	return r.channel.Publish("", responseQueue, false, false, amqp.Publishing{
		ContentType:   "application/json",
		CorrelationId: messageID,
		Body:          responseJSON,
	})
}
