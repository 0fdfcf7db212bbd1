package cron

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"dutynotify/config"
	"dutynotify/models"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// DutyHandler handles duty creation events.
type DutyHandler interface {
	Handle(ctx context.Context, ev models.DutyCreatedEvent) models.Outcome
}

// StatusHandler handles faculty status update events.
type StatusHandler interface {
	Handle(ctx context.Context, ev models.FacultyStatusUpdatedEvent) models.Outcome
}

// RedisOpt builds the asynq Redis connection from configuration.
func RedisOpt(cfg config.Config) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisQueueDB,
	}
}

// NewServeMux routes trigger tasks to their handlers.
func NewServeMux(duties DutyHandler, statuses StatusHandler, logger *zap.Logger) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeDutyCreated, handleDutyTask(duties, logger))
	mux.HandleFunc(TypeFacultyStatusUpdated, handleStatusTask(statuses, logger))
	return mux
}

// Domain failures are swallowed inside the handlers, so only an undecodable
// payload fails a task, and retrying it would not help.
func handleDutyTask(h DutyHandler, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var ev models.DutyCreatedEvent
		if err := json.Unmarshal(task.Payload(), &ev); err != nil {
			logger.Error("invalid duty task payload", zap.Error(err))
			return fmt.Errorf("decode %s: %v: %w", task.Type(), err, asynq.SkipRetry)
		}
		outcome := h.Handle(ctx, ev)
		logger.Debug("duty task processed", zap.String("dutyId", ev.DutyID), zap.String("outcome", string(outcome)))
		return nil
	}
}

func handleStatusTask(h StatusHandler, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var ev models.FacultyStatusUpdatedEvent
		if err := json.Unmarshal(task.Payload(), &ev); err != nil {
			logger.Error("invalid status task payload", zap.Error(err))
			return fmt.Errorf("decode %s: %v: %w", task.Type(), err, asynq.SkipRetry)
		}
		outcome := h.Handle(ctx, ev)
		logger.Debug("status task processed", zap.String("facultyId", ev.FacultyID), zap.String("outcome", string(outcome)))
		return nil
	}
}

// Worker runs the asynq server that consumes trigger tasks.
type Worker struct {
	srv    *asynq.Server
	mux    *asynq.ServeMux
	logger *zap.Logger
}

func NewWorker(cfg config.Config, mux *asynq.ServeMux, logger *zap.Logger) *Worker {
	srv := asynq.NewServer(
		RedisOpt(cfg),
		asynq.Config{
			Concurrency: cfg.QueueConcurrency,
			Queues: map[string]int{
				"default": 1,
			},
			Logger: logger.Sugar(),
		},
	)
	return &Worker{srv: srv, mux: mux, logger: logger}
}

// Start launches the worker in the background, retrying startup with backoff.
func (w *Worker) Start() {
	go func() {
		w.logger.Info("starting trigger worker")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			err := w.srv.Start(w.mux)
			if err == nil {
				return
			}
			w.logger.Error("failed to start trigger worker", zap.Int("attempt", attempts), zap.Error(err))
			if attempts == maxAttempts {
				w.logger.Fatal("max retry attempts reached starting trigger worker")
			}
			time.Sleep(time.Duration(attempts*2) * time.Second)
		}
	}()
}

// Shutdown waits for in-flight tasks and stops the worker.
func (w *Worker) Shutdown() {
	w.srv.Shutdown()
}
