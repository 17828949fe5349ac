package rabbitmq

import (
	"context"
	"time"

	"github.com/oksasatya/go-task-manager/internal/application"
	"github.com/oksasatya/go-task-manager/pkg/helpers"
)

// Publisher is the subset of helpers.RabbitPublisher used for task events
type Publisher interface {
	PublishJSON(ctx context.Context, msgType string, body any) error
}

// TaskEventPublisher puts task events on the configured queue
type TaskEventPublisher struct {
	pub     Publisher
	timeout time.Duration
}

func NewTaskEventPublisher(pub Publisher) *TaskEventPublisher {
	return &TaskEventPublisher{pub: pub, timeout: 3 * time.Second}
}

func (p *TaskEventPublisher) Publish(ctx context.Context, ev application.TaskEvent) error {
	c, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	return p.pub.PublishJSON(c, string(ev.Type), ev)
}

var (
	_ application.TaskEventPublisher = (*TaskEventPublisher)(nil)
	_ Publisher                      = (*helpers.RabbitPublisher)(nil)
)
