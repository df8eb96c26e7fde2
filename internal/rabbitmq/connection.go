package rabbitmq

import (
	"time"

	"github.com/mini-maxit/modelboard/internal/config"
	"github.com/mini-maxit/modelboard/internal/logger"
	"github.com/mini-maxit/modelboard/pkg/constants"
	amqp "github.com/rabbitmq/amqp091-go"
)

// NewRabbitMqConnection dials the broker, retrying with a linear backoff before giving up.
func NewRabbitMqConnection(cfg *config.Config) *amqp.Connection {
	logger := logger.NewNamedLogger("rabbitmq")

	var conn *amqp.Connection
	var err error
	for attempt := 1; attempt <= constants.RabbitMQReconnectTries; attempt++ {
		conn, err = amqp.Dial(cfg.RabbitMQURL)
		if err == nil {
			logger.Infof("Connected to RabbitMQ after %d attempt(s)", attempt)
			return conn
		}
		logger.Warnf("Failed to connect to RabbitMQ (attempt %d/%d): %s",
			attempt, constants.RabbitMQReconnectTries, err)
		time.Sleep(time.Duration(attempt) * time.Second)
	}

	logger.Fatalf("Failed to connect to RabbitMQ: %s", err)
	return nil
}

func NewRabbitMQChannel(conn *amqp.Connection) *amqp.Channel {
	logger := logger.NewNamedLogger("rabbitmq")

	ch, err := conn.Channel()
	if err != nil {
		logger.Fatalf("Failed to open RabbitMQ channel: %s", err)
	}
	return ch
}
