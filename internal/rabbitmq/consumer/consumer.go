package consumer

import (
	"context"
	"encoding/json"

	"github.com/mini-maxit/modelboard/internal/logger"
	"github.com/mini-maxit/modelboard/internal/rabbitmq/channel"
	"github.com/mini-maxit/modelboard/internal/rabbitmq/responder"
	"github.com/mini-maxit/modelboard/internal/scheduler"
	"github.com/mini-maxit/modelboard/pkg/constants"
	"github.com/mini-maxit/modelboard/pkg/errors"
	"github.com/mini-maxit/modelboard/pkg/messages"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	e "errors"
)

type Consumer interface {
	// Listen consumes the evaluator queue until ctx is done or the broker closes the delivery channel.
	Listen(ctx context.Context) error
	ProcessMessage(msg amqp.Delivery)
}

type consumer struct {
	channel         channel.Channel
	workerQueueName string
	scheduler       scheduler.Scheduler
	responder       responder.Responder
	logger          *zap.SugaredLogger
}

func NewConsumer(
	mainChannel channel.Channel,
	workerQueueName string,
	scheduler scheduler.Scheduler,
	responder responder.Responder,
) Consumer {
	logger := logger.NewNamedLogger("consumer")

	return &consumer{
		channel:         mainChannel,
		workerQueueName: workerQueueName,
		scheduler:       scheduler,
		responder:       responder,
		logger:          logger,
	}
}

func (c *consumer) Listen(ctx context.Context) error {
	c.logger.Infof("Declaring queue %s", c.workerQueueName)

	args := make(amqp.Table)
	args["x-max-priority"] = constants.RabbitMQMaxPriority
	_, err := c.channel.QueueDeclare(c.workerQueueName, true, false, false, false, args)
	if err != nil {
		c.logger.Errorf("Failed to declare queue %s: %s", c.workerQueueName, err)
		return err
	}

	c.logger.Infof("Listening for messages on queue %s", c.workerQueueName)

	msgs, err := c.channel.Consume(c.workerQueueName, "", true, false, false, false, nil)
	if err != nil {
		c.logger.Errorf("Failed to consume messages from queue %s: %s", c.workerQueueName, err)
		return err
	}

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("Stopping consumer")
			return nil
		case msg, ok := <-msgs:
			if !ok {
				c.logger.Warn("Delivery channel closed")
				return nil
			}
			c.ProcessMessage(msg)
		}
	}
}

func (c *consumer) ProcessMessage(msg amqp.Delivery) {
	var queueMessage messages.QueueMessage
	err := json.Unmarshal(msg.Body, &queueMessage)
	if err != nil {
		c.logger.Errorf("Failed to unmarshal message: %s", err)
		c.responder.PublishErrorToResponseQueue(queueMessage.Type, msg.CorrelationId, msg.ReplyTo, err)
		return
	}

	if msg.ReplyTo == "" {
		c.logger.Warnf("Dropping message without reply queue [MsgID: %s]", queueMessage.MessageID)
		return
	}

	switch queueMessage.Type {
	case constants.QueueMessageTypeEvaluate:
		c.logger.Infof("Received evaluate message: %s", queueMessage.MessageID)
		c.handleEvaluateMessage(queueMessage, msg.ReplyTo)
	case constants.QueueMessageTypeStatus:
		c.logger.Infof("Received status message: %s", queueMessage.MessageID)
		c.handleStatusMessage(queueMessage, msg.ReplyTo)
	default:
		c.logger.Errorf("Unknown message type: %s", queueMessage.Type)
		c.responder.PublishErrorToResponseQueue(
			queueMessage.Type,
			queueMessage.MessageID,
			msg.ReplyTo,
			errors.ErrUnknownMessageType)
	}
}

func (c *consumer) requeueWithPriority2(queueMessage messages.QueueMessage, replyTo string) error {
	queueMessageJSON, err := json.Marshal(queueMessage)
	if err != nil {
		c.logger.Errorf("Failed to marshal queue message: %s", err)
		return err
	}

	err = c.channel.Publish("", c.workerQueueName, false, false, amqp.Publishing{
		ContentType:   "application/json",
		CorrelationId: queueMessage.MessageID,
		ReplyTo:       replyTo,
		Body:          queueMessageJSON,
		Priority:      constants.RabbitMQRequeuePriority,
	})

	if err != nil {
		c.logger.Errorf("Failed to requeue message with higher priority: %s", err)
		return err
	}

	return nil
}

func (c *consumer) handleEvaluateMessage(queueMessage messages.QueueMessage, replyTo string) {
	c.logger.Infof("Processing evaluate message")

	var request messages.EvaluateQueueMessage
	if err := json.Unmarshal(queueMessage.Payload, &request); err != nil {
		c.logger.Errorf("Failed to unmarshal evaluate message: %s", err)
		c.responder.PublishErrorToResponseQueue(
			queueMessage.Type,
			queueMessage.MessageID,
			replyTo,
			err)
		return
	}

	err := c.scheduler.ProcessEvaluation(replyTo, queueMessage.MessageID, &request)
	if err == nil {
		return
	}

	if e.Is(err, errors.ErrFailedToGetFreeWorker) {
		c.logger.Infof("All workers busy, requeueing [MsgID: %s]", queueMessage.MessageID)
		if requeueErr := c.requeueWithPriority2(queueMessage, replyTo); requeueErr != nil {
			c.responder.PublishErrorToResponseQueue(queueMessage.Type, queueMessage.MessageID, replyTo, requeueErr)
		}
		return
	}

	c.logger.Errorf("Failed to process evaluate message: %s", err)
	c.responder.PublishErrorToResponseQueue(
		queueMessage.Type,
		queueMessage.MessageID,
		replyTo,
		err)
}

func (c *consumer) handleStatusMessage(queueMessage messages.QueueMessage, replyTo string) {
	c.logger.Infof("Processing status message")
	status := c.scheduler.GetWorkersStatus()

	err := c.responder.PublishSuccessStatusRespond(queueMessage.Type, queueMessage.MessageID, replyTo, status)
	if err != nil {
		c.logger.Errorf("Failed to publish status message: %s", err)
		c.responder.PublishErrorToResponseQueue(queueMessage.Type, queueMessage.MessageID, replyTo, err)
	}
}
