package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/oksasatya/go-task-manager/internal/domain/entity"
	"github.com/oksasatya/go-task-manager/internal/domain/repository"
)

// TaskRepository keeps tasks in process memory, in insertion order.
// Reads hand out clones so sorting or filtering never touches stored records.
type TaskRepository struct {
	mu    sync.RWMutex
	tasks map[string]*entity.Task
	order []string
}

func NewTaskRepository() *TaskRepository {
	return &TaskRepository{tasks: map[string]*entity.Task{}}
}

func (r *TaskRepository) Create(_ context.Context, t *entity.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.CreatedAt.IsZero() {
		now := time.Now()
		t.CreatedAt, t.UpdatedAt = now, now
	}
	if t.Tags == nil {
		t.Tags = []string{}
	}
	r.tasks[t.ID] = t.Clone()
	r.order = append(r.order, t.ID)
	return nil
}

func (r *TaskRepository) GetByID(_ context.Context, id string) (*entity.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tasks[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return t.Clone(), nil
}

// Update replaces the stored record; concurrent writers are last-write-wins.
// Owner, identity and creation time of the stored record are preserved.
func (r *TaskRepository) Update(_ context.Context, t *entity.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.tasks[t.ID]
	if !ok {
		return repository.ErrNotFound
	}
	next := t.Clone()
	next.OwnerID = existing.OwnerID
	next.CreatedAt = existing.CreatedAt
	r.tasks[t.ID] = next
	return nil
}

func (r *TaskRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tasks[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.tasks, id)
	for i, v := range r.order {
		if v == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *TaskRepository) ListByOwner(_ context.Context, ownerID string) ([]*entity.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*entity.Task, 0)
	for _, id := range r.order {
		if t := r.tasks[id]; t.OwnerID == ownerID {
			out = append(out, t.Clone())
		}
	}
	return out, nil
}

var _ repository.TaskRepository = (*TaskRepository)(nil)
