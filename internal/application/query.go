package application

import (
	"slices"
	"strings"

	"github.com/oksasatya/go-task-manager/internal/domain/entity"
)

type SortField string

const (
	SortByCreatedAt SortField = "createdAt"
	SortByUpdatedAt SortField = "updatedAt"
	SortByDueDate   SortField = "dueDate"
	SortByTitle     SortField = "title"
	SortByPriority  SortField = "priority"
	SortByStatus    SortField = "status"
)

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// TaskQuery narrows and orders a task list. Zero values mean "no constraint"
// for filters and the defaults (createdAt, desc) for sorting.
type TaskQuery struct {
	Status    entity.Status
	Priority  entity.Priority
	Search    string
	SortBy    SortField
	SortOrder SortOrder
}

// Normalize fills sort defaults. An all-blank search term means no constraint;
// any other term is matched as given, surrounding spaces included.
func (q TaskQuery) Normalize() TaskQuery {
	if q.SortBy == "" {
		q.SortBy = SortByCreatedAt
	}
	if q.SortOrder == "" {
		q.SortOrder = SortDesc
	}
	if strings.TrimSpace(q.Search) == "" {
		q.Search = ""
	}
	return q
}

// Validate rejects unknown enum values
func (q TaskQuery) Validate() error {
	fields := map[string]string{}
	if q.Status != "" && !q.Status.Valid() {
		fields["status"] = "must be one of: todo, in-progress, completed"
	}
	if q.Priority != "" && !q.Priority.Valid() {
		fields["priority"] = "must be one of: low, medium, high"
	}
	switch q.SortBy {
	case "", SortByCreatedAt, SortByUpdatedAt, SortByDueDate, SortByTitle, SortByPriority, SortByStatus:
	default:
		fields["sortBy"] = "must be one of: createdAt, updatedAt, dueDate, title, priority, status"
	}
	switch q.SortOrder {
	case "", SortAsc, SortDesc:
	default:
		fields["sortOrder"] = "must be one of: asc, desc"
	}
	if len(fields) > 0 {
		return newValidationError("Invalid query parameters", fields)
	}
	return nil
}

// ApplyQuery filters and sorts tasks into a new slice; the input is left untouched.
// Tasks without a due date are placed last when sorting by dueDate, whatever the order.
func ApplyQuery(tasks []*entity.Task, q TaskQuery) []*entity.Task {
	q = q.Normalize()
	term := strings.ToLower(q.Search)

	out := make([]*entity.Task, 0, len(tasks))
	for _, t := range tasks {
		if q.Status != "" && t.Status != q.Status {
			continue
		}
		if q.Priority != "" && t.Priority != q.Priority {
			continue
		}
		if term != "" && !t.Matches(term) {
			continue
		}
		out = append(out, t)
	}

	slices.SortStableFunc(out, func(a, b *entity.Task) int {
		if q.SortBy == SortByDueDate {
			switch {
			case a.DueDate == nil && b.DueDate == nil:
				return 0
			case a.DueDate == nil:
				return 1
			case b.DueDate == nil:
				return -1
			}
		}
		c := compareBy(q.SortBy, a, b)
		if q.SortOrder == SortDesc {
			return -c
		}
		return c
	})
	return out
}

func compareBy(field SortField, a, b *entity.Task) int {
	switch field {
	case SortByUpdatedAt:
		return a.UpdatedAt.Compare(b.UpdatedAt)
	case SortByDueDate:
		return a.DueDate.Compare(*b.DueDate)
	case SortByTitle:
		return strings.Compare(a.Title, b.Title)
	case SortByPriority:
		return strings.Compare(string(a.Priority), string(b.Priority))
	case SortByStatus:
		return strings.Compare(string(a.Status), string(b.Status))
	default:
		return a.CreatedAt.Compare(b.CreatedAt)
	}
}
