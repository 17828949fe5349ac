package application

import (
	"context"
	"time"

	"github.com/oksasatya/go-task-manager/internal/domain/entity"
)

// StatsCache memoizes per-owner statistics. Implementations must be safe to call
// on every mutation; failures are swallowed by the caller.
type StatsCache interface {
	Get(ctx context.Context, ownerID string) (*TaskStats, bool)
	Set(ctx context.Context, ownerID string, stats TaskStats)
	Invalidate(ctx context.Context, ownerID string)
}

type TaskEventType string

const (
	TaskCreated TaskEventType = "task.created"
	TaskUpdated TaskEventType = "task.updated"
	TaskDeleted TaskEventType = "task.deleted"
)

// TaskEvent is emitted after a task mutation succeeds
type TaskEvent struct {
	Type       TaskEventType `json:"type"`
	TaskID     string        `json:"task_id"`
	OwnerID    string        `json:"owner_id"`
	Title      string        `json:"title,omitempty"`
	Status     string        `json:"status,omitempty"`
	Priority   string        `json:"priority,omitempty"`
	OccurredAt time.Time     `json:"occurred_at"`
}

// TaskEventPublisher delivers task events to an external broker
type TaskEventPublisher interface {
	Publish(ctx context.Context, ev TaskEvent) error
}

// TaskIndexer mirrors tasks into an external search index
type TaskIndexer interface {
	Index(ctx context.Context, t *entity.Task) error
	Remove(ctx context.Context, taskID string) error
}
