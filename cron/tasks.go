package cron

import (
	"context"
	"encoding/json"
	"fmt"

	"dutynotify/metrics"
	"dutynotify/models"

	"github.com/hibiken/asynq"
)

const (
	TypeDutyCreated          = "duty:created"
	TypeFacultyStatusUpdated = "faculty_status:updated"
)

// TaskEnqueuer is the subset of *asynq.Client used to publish trigger tasks.
type TaskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Publisher turns store mutations into trigger tasks.
type Publisher struct {
	client   TaskEnqueuer
	maxRetry int
}

func NewPublisher(client TaskEnqueuer, maxRetry int) *Publisher {
	return &Publisher{client: client, maxRetry: maxRetry}
}

func (p *Publisher) PublishDutyCreated(ctx context.Context, ev models.DutyCreatedEvent, source string) error {
	return p.publish(ctx, TypeDutyCreated, ev, source)
}

func (p *Publisher) PublishFacultyStatusUpdated(ctx context.Context, ev models.FacultyStatusUpdatedEvent, source string) error {
	return p.publish(ctx, TypeFacultyStatusUpdated, ev, source)
}

func (p *Publisher) publish(ctx context.Context, taskType string, payload any, source string) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode %s payload: %w", taskType, err)
	}
	if _, err := p.client.EnqueueContext(ctx, asynq.NewTask(taskType, data), asynq.MaxRetry(p.maxRetry)); err != nil {
		return fmt.Errorf("failed to enqueue %s: %w", taskType, err)
	}
	metrics.TriggerTasksEnqueuedTotal.WithLabelValues(taskType, source).Inc()
	return nil
}
