package application

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-task-manager/internal/domain/entity"
	repo "github.com/oksasatya/go-task-manager/internal/domain/repository"
	"github.com/oksasatya/go-task-manager/pkg/helpers"
)

type TaskService struct {
	Repo    repo.TaskRepository
	Users   repo.UserRepository
	Cache   StatsCache
	Events  TaskEventPublisher
	Indexer TaskIndexer
	Logger  *logrus.Logger

	now func() time.Time
	// per-owner mutation counters; Stats only caches a result no mutation raced with
	generations sync.Map
}

func NewTaskService(tasks repo.TaskRepository, users repo.UserRepository, logger *logrus.Logger) *TaskService {
	return &TaskService{Repo: tasks, Users: users, Logger: logger, now: time.Now}
}

func (s *TaskService) generation(ownerID string) *atomic.Uint64 {
	v, _ := s.generations.LoadOrStore(ownerID, new(atomic.Uint64))
	return v.(*atomic.Uint64)
}

func (s *TaskService) clock() time.Time {
	if s.now == nil {
		return time.Now()
	}
	return s.now()
}

type CreateTaskInput struct {
	Title       string
	Description string
	Status      entity.Status
	Priority    entity.Priority
	DueDate     *time.Time
	Tags        []string
}

// UpdateTaskInput holds a partial update; nil fields are left unchanged.
// DueDateSet distinguishes "clear the due date" (DueDate nil) from "not provided".
type UpdateTaskInput struct {
	Title       *string
	Description *string
	Status      *entity.Status
	Priority    *entity.Priority
	DueDateSet  bool
	DueDate     *time.Time
	Tags        *[]string
}

// Create stores a new task owned by ownerID, applying defaults for omitted fields
func (s *TaskService) Create(ctx context.Context, ownerID string, in CreateTaskInput) (*entity.Task, error) {
	if _, err := s.Users.GetByID(ctx, ownerID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, err
	}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, newValidationError("Title is required", map[string]string{"title": "is required"})
	}
	t := &entity.Task{
		Title:       title,
		Description: in.Description,
		Status:      in.Status,
		Priority:    in.Priority,
		Tags:        cleanTags(in.Tags),
		OwnerID:     ownerID,
	}
	if t.Status == "" {
		t.Status = entity.StatusTodo
	}
	if t.Priority == "" {
		t.Priority = entity.PriorityMedium
	}
	if in.DueDate != nil {
		d := entity.DateOnly(*in.DueDate)
		t.DueDate = &d
	}
	if err := validateEnums(t); err != nil {
		return nil, err
	}

	now := s.clock()
	t.CreatedAt, t.UpdatedAt = now, now
	if err := s.Repo.Create(ctx, t); err != nil {
		return nil, err
	}
	s.afterMutation(ctx, TaskCreated, t)
	return t, nil
}

// Get returns a task visible to requesterID
func (s *TaskService) Get(ctx context.Context, requesterID, taskID string) (*entity.Task, error) {
	return s.authorize(ctx, requesterID, taskID)
}

// Update merges the provided fields into the task and refreshes UpdatedAt
func (s *TaskService) Update(ctx context.Context, requesterID, taskID string, in UpdateTaskInput) (*entity.Task, error) {
	current, err := s.authorize(ctx, requesterID, taskID)
	if err != nil {
		return nil, err
	}

	t := current.Clone()
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, newValidationError("Title is required", map[string]string{"title": "is required"})
		}
		t.Title = title
	}
	if in.Description != nil {
		t.Description = *in.Description
	}
	if in.Status != nil {
		t.Status = *in.Status
	}
	if in.Priority != nil {
		t.Priority = *in.Priority
	}
	if in.DueDateSet {
		t.DueDate = nil
		if in.DueDate != nil {
			d := entity.DateOnly(*in.DueDate)
			t.DueDate = &d
		}
	}
	if in.Tags != nil {
		t.Tags = cleanTags(*in.Tags)
	}
	if err := validateEnums(t); err != nil {
		return nil, err
	}

	now := s.clock()
	if !now.After(current.UpdatedAt) {
		now = current.UpdatedAt.Add(time.Microsecond)
	}
	t.UpdatedAt = now
	if err := s.Repo.Update(ctx, t); err != nil {
		return nil, err
	}
	s.afterMutation(ctx, TaskUpdated, t)
	return t, nil
}

// Delete removes a task owned by requesterID
func (s *TaskService) Delete(ctx context.Context, requesterID, taskID string) error {
	t, err := s.authorize(ctx, requesterID, taskID)
	if err != nil {
		return err
	}
	if err := s.Repo.Delete(ctx, taskID); err != nil {
		return err
	}
	s.afterMutation(ctx, TaskDeleted, t)
	return nil
}

// List returns the owner's tasks filtered and sorted by q
func (s *TaskService) List(ctx context.Context, ownerID string, q TaskQuery) ([]*entity.Task, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	tasks, err := s.Repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return ApplyQuery(tasks, q), nil
}

// Stats summarises all of the owner's tasks, served from cache when one is configured
func (s *TaskService) Stats(ctx context.Context, ownerID string) (TaskStats, error) {
	if s.Cache != nil {
		if st, ok := s.Cache.Get(ctx, ownerID); ok {
			return *st, nil
		}
	}
	gen := s.generation(ownerID)
	seen := gen.Load()
	tasks, err := s.Repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return TaskStats{}, err
	}
	st := ComputeStats(tasks, s.clock())
	if s.Cache != nil && gen.Load() == seen {
		s.Cache.Set(ctx, ownerID, st)
		// a mutation may have invalidated between the check and the write
		if gen.Load() != seen {
			s.Cache.Invalidate(ctx, ownerID)
		}
	}
	return st, nil
}

// Owner returns the task owner's account, nil when it can't be resolved
func (s *TaskService) Owner(ctx context.Context, ownerID string) *entity.User {
	u, err := s.Users.GetByID(ctx, ownerID)
	if err != nil {
		return nil
	}
	return u
}

// authorize resolves the task and enforces exclusive ownership
func (s *TaskService) authorize(ctx context.Context, requesterID, taskID string) (*entity.Task, error) {
	t, err := s.Repo.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if t.OwnerID != requesterID {
		helpers.LogWarn(s.Logger, "task access denied", nil, logrus.Fields{"task_id": taskID, "user_id": requesterID})
		return nil, ErrForbidden
	}
	return t, nil
}

func (s *TaskService) afterMutation(ctx context.Context, typ TaskEventType, t *entity.Task) {
	s.generation(t.OwnerID).Add(1)
	if s.Cache != nil {
		s.Cache.Invalidate(ctx, t.OwnerID)
	}
	if s.Indexer != nil {
		var err error
		if typ == TaskDeleted {
			err = s.Indexer.Remove(ctx, t.ID)
		} else {
			err = s.Indexer.Index(ctx, t)
		}
		if err != nil {
			helpers.LogWarn(s.Logger, "task index sync failed", err, logrus.Fields{"task_id": t.ID})
		}
	}
	if s.Events != nil {
		ev := TaskEvent{
			Type:       typ,
			TaskID:     t.ID,
			OwnerID:    t.OwnerID,
			Title:      t.Title,
			Status:     string(t.Status),
			Priority:   string(t.Priority),
			OccurredAt: s.clock().UTC(),
		}
		if err := s.Events.Publish(ctx, ev); err != nil {
			helpers.LogWarn(s.Logger, "publish task event failed", err, logrus.Fields{"task_id": t.ID, "event": ev.Type})
		}
	}
}

func validateEnums(t *entity.Task) error {
	fields := map[string]string{}
	if !t.Status.Valid() {
		fields["status"] = "must be one of: todo, in-progress, completed"
	}
	if !t.Priority.Valid() {
		fields["priority"] = "must be one of: low, medium, high"
	}
	if len(fields) > 0 {
		return newValidationError("Validation failed", fields)
	}
	return nil
}

// cleanTags trims entries and drops empty ones, preserving order
func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			out = append(out, tag)
		}
	}
	return out
}
