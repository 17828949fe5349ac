package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/go-task-manager/internal/domain/entity"
	"github.com/oksasatya/go-task-manager/internal/domain/repository"
)

type TaskRepository struct {
	pool *pgxpool.Pool
}

func NewTaskRepository(pool *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{pool: pool}
}

const taskColumns = `id::text, title, description, status, priority, due_date, tags, owner_id::text, created_at, updated_at`

func dueDateParam(t *entity.Task) pgtype.Date {
	if t.DueDate == nil {
		return pgtype.Date{}
	}
	return pgtype.Date{Time: *t.DueDate, Valid: true}
}

func tagsParam(t *entity.Task) []string {
	if t.Tags == nil {
		return []string{}
	}
	return t.Tags
}

func (r *TaskRepository) Create(ctx context.Context, t *entity.Task) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO tasks (title, description, status, priority, due_date, tags, owner_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7::uuid, $8, $9)
		RETURNING id::text
	`, t.Title, t.Description, string(t.Status), string(t.Priority), dueDateParam(t), tagsParam(t),
		t.OwnerID, t.CreatedAt, t.UpdatedAt)
	return row.Scan(&t.ID)
}

func (r *TaskRepository) GetByID(ctx context.Context, id string) (*entity.Task, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id::text = $1`, id)
	t, err := scanTask(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	return t, err
}

// Update writes every mutable column; owner_id and created_at are never touched
func (r *TaskRepository) Update(ctx context.Context, t *entity.Task) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE tasks
		SET title = $1, description = $2, status = $3, priority = $4, due_date = $5, tags = $6, updated_at = $7
		WHERE id::text = $8
	`, t.Title, t.Description, string(t.Status), string(t.Priority), dueDateParam(t), tagsParam(t), t.UpdatedAt, t.ID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	res, err := r.pool.Exec(ctx, `DELETE FROM tasks WHERE id::text = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *TaskRepository) ListByOwner(ctx context.Context, ownerID string) ([]*entity.Task, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+taskColumns+`
		FROM tasks
		WHERE owner_id::text = $1
		ORDER BY created_at, id
	`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*entity.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func scanTask(row pgx.Row) (*entity.Task, error) {
	var (
		t                entity.Task
		status, priority string
		due              pgtype.Date
	)
	if err := row.Scan(&t.ID, &t.Title, &t.Description, &status, &priority, &due, &t.Tags,
		&t.OwnerID, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	t.Status = entity.Status(status)
	t.Priority = entity.Priority(priority)
	if due.Valid {
		d := entity.DateOnly(due.Time)
		t.DueDate = &d
	}
	if t.Tags == nil {
		t.Tags = []string{}
	}
	return &t, nil
}

var _ repository.TaskRepository = (*TaskRepository)(nil)
