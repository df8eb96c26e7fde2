package main

import (
	"fmt"

	"github.com/mini-maxit/modelboard/internal/config"
	"github.com/mini-maxit/modelboard/internal/logger"
	"github.com/mini-maxit/modelboard/internal/rabbitmq"
	"github.com/mini-maxit/modelboard/internal/rabbitmq/channel"
	"github.com/mini-maxit/modelboard/internal/rabbitmq/consumer"
	"github.com/mini-maxit/modelboard/internal/rabbitmq/responder"
	"github.com/mini-maxit/modelboard/internal/scheduler"
	"github.com/spf13/cobra"
)

func newEvaluatorCmd() *cobra.Command {
	var maxWorkers int

	cmd := &cobra.Command{
		Use:   "evaluator",
		Short: "Run the sandboxed evaluation worker on the evaluator queue",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("workers") && maxWorkers < 1 {
				return fmt.Errorf("--workers must be at least 1, got %d", maxWorkers)
			}
			logger := logger.NewNamedLogger("evaluator")
			cfg := config.NewConfig()
			if maxWorkers > 0 {
				cfg.MaxWorkers = maxWorkers
			}

			eval, err := newSandboxEvaluator(cfg)
			if err != nil {
				return err
			}

			conn := rabbitmq.NewRabbitMqConnection(cfg)
			defer func() {
				if err := conn.Close(); err != nil {
					logger.Errorf("Failed to close RabbitMQ connection: %s", err)
				}
			}()
			ch := channel.NewAmqpChannel(rabbitmq.NewRabbitMQChannel(conn))

			resp := responder.NewResponder(ch)
			sched := scheduler.NewScheduler(cfg.MaxWorkers, eval, resp)
			queueConsumer := consumer.NewConsumer(ch, cfg.EvaluatorQueueName, sched, resp)

			ctx, stop := signalContext(cmd.Context())
			defer stop()

			logger.Infof("Listening for evaluation requests on %s with %d workers", cfg.EvaluatorQueueName, cfg.MaxWorkers)
			return queueConsumer.Listen(ctx)
		},
	}
	cmd.Flags().IntVarP(&maxWorkers, "workers", "w", 0, "number of workers, overrides MAX_WORKERS")
	return cmd
}
