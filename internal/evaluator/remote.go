package evaluator

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/mini-maxit/modelboard/internal/logger"
	"github.com/mini-maxit/modelboard/internal/rabbitmq/channel"
	"github.com/mini-maxit/modelboard/pkg/constants"
	pkgerrors "github.com/mini-maxit/modelboard/pkg/errors"
	"github.com/mini-maxit/modelboard/pkg/messages"
	"github.com/mini-maxit/modelboard/pkg/models"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

type remoteEvaluator struct {
	channel    channel.Channel
	queueName  string
	replyQueue string

	mu      sync.Mutex
	pending map[string]chan messages.ResponseQueueMessage
	closed  bool

	logger *zap.SugaredLogger
}

// NewRemoteEvaluator sends evaluation requests to queueName and waits for replies on
// an exclusive, server-named reply queue. Concurrent callers are matched by correlation id.
// The request queue is declared with the same arguments the evaluator worker uses, so
// requests published before the worker starts are held rather than dropped.
func NewRemoteEvaluator(ch channel.Channel, queueName string) (Evaluator, error) {
	log := logger.NewNamedLogger("remote-evaluator")

	args := make(amqp.Table)
	args["x-max-priority"] = constants.RabbitMQMaxPriority
	if _, err := ch.QueueDeclare(queueName, true, false, false, false, args); err != nil {
		return nil, fmt.Errorf("failed to declare queue %s: %w", queueName, err)
	}

	replyQueue, err := ch.QueueDeclare("", false, true, true, false, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to declare reply queue: %w", err)
	}

	deliveries, err := ch.Consume(replyQueue.Name, "", true, true, false, false, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to consume reply queue %s: %w", replyQueue.Name, err)
	}

	e := &remoteEvaluator{
		channel:    ch,
		queueName:  queueName,
		replyQueue: replyQueue.Name,
		pending:    make(map[string]chan messages.ResponseQueueMessage),
		logger:     log,
	}
	go e.dispatch(deliveries)

	log.Infof("Remote evaluator ready [queue: %s, reply queue: %s]", queueName, replyQueue.Name)
	return e, nil
}

func (e *remoteEvaluator) Evaluate(ctx context.Context, source string) (models.Metrics, error) {
	messageID := uuid.NewString()

	payload, err := json.Marshal(messages.EvaluateQueueMessage{Source: source})
	if err != nil {
		return models.Metrics{}, err
	}
	body, err := json.Marshal(messages.QueueMessage{
		Type:      constants.QueueMessageTypeEvaluate,
		MessageID: messageID,
		Payload:   payload,
	})
	if err != nil {
		return models.Metrics{}, err
	}

	replyCh := make(chan messages.ResponseQueueMessage, 1)
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return models.Metrics{}, pkgerrors.ErrEvaluatorUnavailable
	}
	e.pending[messageID] = replyCh
	e.mu.Unlock()
	defer e.forget(messageID)

	err = e.channel.Publish("", e.queueName, false, false, amqp.Publishing{
		ContentType:   "application/json",
		CorrelationId: messageID,
		ReplyTo:       e.replyQueue,
		Body:          body,
		Priority:      1,
	})
	if err != nil {
		e.logger.Errorf("Failed to publish evaluation request [MsgID: %s]: %s", messageID, err)
		return models.Metrics{}, fmt.Errorf("%w: %w", pkgerrors.ErrEvaluatorUnavailable, err)
	}

	select {
	case <-ctx.Done():
		return models.Metrics{}, fmt.Errorf("%w: %w", pkgerrors.ErrEvaluatorUnavailable, ctx.Err())
	case reply, ok := <-replyCh:
		if !ok {
			return models.Metrics{}, pkgerrors.ErrEvaluatorUnavailable
		}
		return decodeReply(reply)
	}
}

func decodeReply(reply messages.ResponseQueueMessage) (models.Metrics, error) {
	if !reply.Ok {
		var failure messages.ErrorResponsePayload
		if err := json.Unmarshal(reply.Payload, &failure); err != nil {
			return models.Metrics{}, fmt.Errorf("%w: malformed error reply", pkgerrors.ErrEvaluatorUnavailable)
		}
		return models.Metrics{}, ErrorFromCode(failure.Code, failure.Error)
	}

	var result messages.EvaluateResponsePayload
	if err := json.Unmarshal(reply.Payload, &result); err != nil {
		return models.Metrics{}, fmt.Errorf("%w: malformed reply", pkgerrors.ErrEvaluatorUnavailable)
	}
	return result.Metrics, nil
}

func (e *remoteEvaluator) dispatch(deliveries <-chan amqp.Delivery) {
	for d := range deliveries {
		var reply messages.ResponseQueueMessage
		if err := json.Unmarshal(d.Body, &reply); err != nil {
			e.logger.Errorf("Failed to unmarshal reply: %s", err)
			continue
		}

		id := d.CorrelationId
		if id == "" {
			id = reply.MessageID
		}

		e.mu.Lock()
		replyCh, ok := e.pending[id]
		delete(e.pending, id)
		e.mu.Unlock()

		if !ok {
			e.logger.Warnf("Dropping reply for unknown request [MsgID: %s]", id)
			continue
		}
		replyCh <- reply
	}

	e.logger.Warn("Reply queue closed, failing pending evaluations")
	e.mu.Lock()
	e.closed = true
	for id, replyCh := range e.pending {
		close(replyCh)
		delete(e.pending, id)
	}
	e.mu.Unlock()
}

func (e *remoteEvaluator) forget(messageID string) {
	e.mu.Lock()
	delete(e.pending, messageID)
	e.mu.Unlock()
}
