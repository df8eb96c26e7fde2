package scheduler

import (
	"sync"

	"github.com/mini-maxit/modelboard/internal/evaluator"
	"github.com/mini-maxit/modelboard/internal/logger"
	"github.com/mini-maxit/modelboard/internal/pipeline"
	"github.com/mini-maxit/modelboard/internal/rabbitmq/responder"
	"github.com/mini-maxit/modelboard/pkg/constants"
	"github.com/mini-maxit/modelboard/pkg/errors"
	"github.com/mini-maxit/modelboard/pkg/messages"
	"go.uber.org/zap"
)

type Scheduler interface {
	GetWorkersStatus() map[string]interface{}
	// ProcessEvaluation hands the request to an idle worker, or fails with ErrFailedToGetFreeWorker.
	ProcessEvaluation(responseQueueName, messageID string, request *messages.EvaluateQueueMessage) error
}

type scheduler struct {
	mu               sync.Mutex
	busyWorkersCount int
	workers          map[int]pipeline.Worker
	maxWorkers       int
	logger           *zap.SugaredLogger
}

func NewScheduler(maxWorkers int, eval evaluator.Evaluator, responder responder.Responder) Scheduler {
	workers := make(map[int]pipeline.Worker, maxWorkers)
	for i := 0; i < maxWorkers; i++ {
		workers[i] = pipeline.NewWorker(i, eval, responder)
	}

	return NewSchedulerWithWorkers(maxWorkers, workers)
}

func NewSchedulerWithWorkers(maxWorkers int, workers map[int]pipeline.Worker) Scheduler {
	return &scheduler{
		workers:    workers,
		maxWorkers: maxWorkers,
		logger:     logger.NewNamedLogger("workerPool"),
	}
}

func (s *scheduler) GetWorkersStatus() map[string]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	statuses := make(map[int]string, len(s.workers))

	for id, worker := range s.workers {
		status := worker.GetStatus()
		if status == constants.WorkerStatusBusy {
			statuses[id] = status.String() + " Processing message: " + worker.GetProcessingMessageID()
			continue
		}
		statuses[id] = status.String()
	}

	return map[string]interface{}{
		"busy_workers":  s.busyWorkersCount,
		"total_workers": s.maxWorkers,
		"worker_status": statuses,
	}
}

func (s *scheduler) getFreeWorker() (pipeline.Worker, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, worker := range s.workers {
		if worker.GetStatus() == constants.WorkerStatusIdle {
			worker.UpdateStatus(constants.WorkerStatusBusy)
			s.busyWorkersCount++
			return worker, nil
		}
	}

	return nil, errors.ErrFailedToGetFreeWorker
}

func (s *scheduler) ProcessEvaluation(
	responseQueueName, messageID string,
	request *messages.EvaluateQueueMessage,
) error {
	s.logger.Infof("Processing evaluation [MsgID: %s]", messageID)

	worker, err := s.getFreeWorker()
	if err != nil {
		s.logger.Warnf("No available workers: %s", err)
		return err
	}

	go func(w pipeline.Worker) {
		defer s.markWorkerAsIdle(w)
		defer func() {
			if r := recover(); r != nil {
				s.logger.Errorf("Worker panicked: %v", r)
			}
		}()

		w.ProcessEvaluation(messageID, responseQueueName, request)
	}(worker)

	return nil
}

func (s *scheduler) markWorkerAsIdle(worker pipeline.Worker) {
	s.logger.Infof("Marking worker as idle [WorkerID: %d]", worker.GetId())
	s.mu.Lock()
	defer s.mu.Unlock()

	worker.UpdateStatus(constants.WorkerStatusIdle)
	s.busyWorkersCount--

	s.logger.Infof("Worker marked as idle [WorkerID: %d]", worker.GetId())
}
