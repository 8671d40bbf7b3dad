package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
)

// TypeSendEmail is the task type handled by the worker
const TypeSendEmail = "email:send"

// Queue names served by the worker, with their priorities
const (
	QueueCritical = "critical"
	QueueDefault  = "default"
	QueueLow      = "low"
)

// Queues maps queue names to the worker's priority weights
var Queues = map[string]int{
	QueueCritical: 6,
	QueueDefault:  3,
	QueueLow:      1,
}

// TaskClient is the part of asynq.Client used to enqueue tasks
type TaskClient interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// NewSendEmailTask wraps an email into a queue task
func NewSendEmailTask(email *Email) (*asynq.Task, error) {
	payload, err := json.Marshal(email)
	if err != nil {
		return nil, fmt.Errorf("failed to encode email task: %w", err)
	}
	return asynq.NewTask(TypeSendEmail, payload, asynq.MaxRetry(5), asynq.Timeout(30*time.Second)), nil
}

// ParseSendEmailTask decodes the email carried by a task
func ParseSendEmailTask(task *asynq.Task) (*Email, error) {
	var email Email
	if err := json.Unmarshal(task.Payload(), &email); err != nil {
		return nil, fmt.Errorf("failed to decode email task: %w", err)
	}
	if email.To == "" {
		return nil, fmt.Errorf("email task has no recipient")
	}
	return &email, nil
}

// QueueMailer hands emails to the worker instead of sending them inline
type QueueMailer struct {
	client TaskClient
	queue  string
}

// NewQueueMailer creates a mailer that enqueues emails on the given queue
func NewQueueMailer(client TaskClient, queue string) *QueueMailer {
	return &QueueMailer{client: client, queue: queue}
}

// SendEmail enqueues the email for delivery by the worker
func (q *QueueMailer) SendEmail(ctx context.Context, to, subject, body string) error {
	task, err := NewSendEmailTask(&Email{To: to, Subject: subject, Body: body})
	if err != nil {
		return err
	}

	if _, err := q.client.EnqueueContext(ctx, task, asynq.Queue(q.queue)); err != nil {
		return fmt.Errorf("failed to enqueue email: %w", err)
	}

	return nil
}
