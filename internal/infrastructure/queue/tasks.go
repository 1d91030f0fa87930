package queue

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"library-backend/internal/shared"
)

// Enqueuer is the part of *asynq.Client the API needs
type Enqueuer interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// NewReconcileAvailabilityTask builds the availability repair task
func NewReconcileAvailabilityTask(p shared.ReconcileAvailabilityPayload) (*asynq.Task, error) {
	payload, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("marshal reconcile payload: %w", err)
	}
	return asynq.NewTask(shared.TypeReconcileAvailability, payload), nil
}

// NewOverdueScanTask builds the overdue summary task
func NewOverdueScanTask() (*asynq.Task, error) {
	payload, err := json.Marshal(shared.OverdueScanPayload{})
	if err != nil {
		return nil, fmt.Errorf("marshal overdue payload: %w", err)
	}
	return asynq.NewTask(shared.TypeOverdueScan, payload), nil
}

// EnqueueReconcile submits an on-demand repair. Only one may be queued at a time
func EnqueueReconcile(client Enqueuer, p shared.ReconcileAvailabilityPayload) (*asynq.TaskInfo, error) {
	task, err := NewReconcileAvailabilityTask(p)
	if err != nil {
		return nil, err
	}

	return client.Enqueue(task,
		asynq.Queue(shared.QueueLoans),
		asynq.MaxRetry(2),
		asynq.Timeout(5*time.Minute),
		asynq.Unique(time.Minute),
	)
}
