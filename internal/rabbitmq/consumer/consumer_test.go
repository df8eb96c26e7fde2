package consumer_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/mini-maxit/modelboard/internal/rabbitmq/consumer"
	"github.com/mini-maxit/modelboard/pkg/constants"
	pkgerrors "github.com/mini-maxit/modelboard/pkg/errors"
	"github.com/mini-maxit/modelboard/pkg/messages"
	"github.com/mini-maxit/modelboard/tests/mocks"
)

const workerQueue = "evaluator_queue"

func delivery(t *testing.T, msgType, msgID string, payload interface{}, replyTo string) amqp.Delivery {
	t.Helper()
	raw, err := json.Marshal(payload)
	require.NoError(t, err)

	body, err := json.Marshal(messages.QueueMessage{
		Type:      msgType,
		MessageID: msgID,
		Payload:   raw,
	})
	require.NoError(t, err)

	return amqp.Delivery{Body: body, ReplyTo: replyTo, CorrelationId: msgID}
}

func newConsumer(ctrl *gomock.Controller) (
	consumer.Consumer, *mocks.MockChannel, *mocks.MockScheduler, *mocks.MockResponder,
) {
	ch := mocks.NewMockChannel(ctrl)
	sched := mocks.NewMockScheduler(ctrl)
	resp := mocks.NewMockResponder(ctrl)
	return consumer.NewConsumer(ch, workerQueue, sched, resp), ch, sched, resp
}

func TestProcessMessage_Evaluate(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	cons, _, sched, _ := newConsumer(ctrl)

	sched.EXPECT().
		ProcessEvaluation("reply", "msg-1", &messages.EvaluateQueueMessage{Source: "code"}).
		Return(nil)

	cons.ProcessMessage(delivery(t, constants.QueueMessageTypeEvaluate, "msg-1",
		messages.EvaluateQueueMessage{Source: "code"}, "reply"))
}

func TestProcessMessage_EvaluateRequeuedWhenWorkersBusy(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	cons, ch, sched, _ := newConsumer(ctrl)

	sched.EXPECT().ProcessEvaluation(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(pkgerrors.ErrFailedToGetFreeWorker)
	ch.EXPECT().Publish("", workerQueue, false, false, gomock.AssignableToTypeOf(amqp.Publishing{})).
		Do(func(_ string, _ string, _ bool, _ bool, pub amqp.Publishing) {
			assert.Equal(t, uint8(constants.RabbitMQRequeuePriority), pub.Priority)
			assert.Equal(t, "reply", pub.ReplyTo)

			var msg messages.QueueMessage
			require.NoError(t, json.Unmarshal(pub.Body, &msg))
			assert.Equal(t, "msg-2", msg.MessageID)
		}).Return(nil)

	cons.ProcessMessage(delivery(t, constants.QueueMessageTypeEvaluate, "msg-2",
		messages.EvaluateQueueMessage{Source: "code"}, "reply"))
}

func TestProcessMessage_EvaluateRequeueFailureIsReported(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	cons, ch, sched, resp := newConsumer(ctrl)
	publishErr := errors.New("channel closed")

	sched.EXPECT().ProcessEvaluation(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(pkgerrors.ErrFailedToGetFreeWorker)
	ch.EXPECT().Publish(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(publishErr)
	resp.EXPECT().PublishErrorToResponseQueue(constants.QueueMessageTypeEvaluate, "msg-3", "reply", publishErr)

	cons.ProcessMessage(delivery(t, constants.QueueMessageTypeEvaluate, "msg-3",
		messages.EvaluateQueueMessage{}, "reply"))
}

func TestProcessMessage_EvaluateBadPayload(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	cons, _, _, resp := newConsumer(ctrl)
	resp.EXPECT().PublishErrorToResponseQueue(constants.QueueMessageTypeEvaluate, "msg-4", "reply", gomock.Any())

	cons.ProcessMessage(delivery(t, constants.QueueMessageTypeEvaluate, "msg-4", []int{1, 2}, "reply"))
}

func TestProcessMessage_Status(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	cons, _, sched, resp := newConsumer(ctrl)
	status := map[string]interface{}{"busy_workers": 0, "total_workers": 1}

	sched.EXPECT().GetWorkersStatus().Return(status)
	resp.EXPECT().PublishSuccessStatusRespond(constants.QueueMessageTypeStatus, "msg-5", "reply", status).Return(nil)

	cons.ProcessMessage(delivery(t, constants.QueueMessageTypeStatus, "msg-5", struct{}{}, "reply"))
}

func TestProcessMessage_UnknownType(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	cons, _, _, resp := newConsumer(ctrl)
	resp.EXPECT().PublishErrorToResponseQueue("handshake", "msg-6", "reply", pkgerrors.ErrUnknownMessageType)

	cons.ProcessMessage(delivery(t, "handshake", "msg-6", struct{}{}, "reply"))
}

func TestProcessMessage_MissingReplyToIsDropped(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	cons, _, _, _ := newConsumer(ctrl)

	cons.ProcessMessage(delivery(t, constants.QueueMessageTypeEvaluate, "msg-7", messages.EvaluateQueueMessage{}, ""))
}

func TestProcessMessage_InvalidJSON(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	cons, _, _, resp := newConsumer(ctrl)
	resp.EXPECT().PublishErrorToResponseQueue(gomock.Any(), "corr", "reply", gomock.Any())

	cons.ProcessMessage(amqp.Delivery{Body: []byte("{"), ReplyTo: "reply", CorrelationId: "corr"})
}

func TestListen_DeclaresPriorityQueueAndStopsOnClose(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	cons, ch, sched, _ := newConsumer(ctrl)
	deliveries := make(chan amqp.Delivery, 1)

	ch.EXPECT().QueueDeclare(workerQueue, true, false, false, false, gomock.Any()).
		DoAndReturn(func(name string, _, _, _, _ bool, args amqp.Table) (amqp.Queue, error) {
			assert.Equal(t, constants.RabbitMQMaxPriority, args["x-max-priority"])
			return amqp.Queue{Name: name}, nil
		})
	ch.EXPECT().Consume(workerQueue, "", true, false, false, false, nil).
		Return((<-chan amqp.Delivery)(deliveries), nil)
	sched.EXPECT().ProcessEvaluation("reply", "msg-8", gomock.Any()).Return(nil)

	deliveries <- delivery(t, constants.QueueMessageTypeEvaluate, "msg-8", messages.EvaluateQueueMessage{}, "reply")
	close(deliveries)

	done := make(chan error, 1)
	go func() { done <- cons.Listen(context.Background()) }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Listen did not return after the delivery channel closed")
	}
}

func TestListen_QueueDeclareError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	cons, ch, _, _ := newConsumer(ctrl)
	declareErr := errors.New("access refused")

	ch.EXPECT().QueueDeclare(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(amqp.Queue{}, declareErr)

	err := cons.Listen(context.Background())
	require.ErrorIs(t, err, declareErr)
}

func TestListen_StopsOnContextCancel(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	cons, ch, _, _ := newConsumer(ctrl)
	deliveries := make(chan amqp.Delivery)

	ch.EXPECT().QueueDeclare(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(amqp.Queue{}, nil)
	ch.EXPECT().Consume(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return((<-chan amqp.Delivery)(deliveries), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, cons.Listen(ctx))
}
