package application

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-task-manager/internal/domain/entity"
)

var base = time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

func day(n int) *time.Time {
	d := base.AddDate(0, 0, n)
	d = entity.DateOnly(d)
	return &d
}

func fixture() []*entity.Task {
	return []*entity.Task{
		{ID: "1", Title: "Buy milk", Status: entity.StatusTodo, Priority: entity.PriorityLow, DueDate: day(3), Tags: []string{"home"}, CreatedAt: base, UpdatedAt: base.Add(5 * time.Hour)},
		{ID: "2", Title: "Fix prod", Description: "URGENT outage", Status: entity.StatusInProgress, Priority: entity.PriorityHigh, CreatedAt: base.Add(time.Hour), UpdatedAt: base.Add(time.Hour)},
		{ID: "3", Title: "Write report", Status: entity.StatusCompleted, Priority: entity.PriorityMedium, DueDate: day(1), Tags: []string{"work", "Urgent-ish"}, CreatedAt: base.Add(2 * time.Hour), UpdatedAt: base.Add(2 * time.Hour)},
		{ID: "4", Title: "Urgent call", Status: entity.StatusTodo, Priority: entity.PriorityHigh, DueDate: day(2), CreatedAt: base.Add(3 * time.Hour), UpdatedAt: base.Add(3 * time.Hour)},
	}
}

func ids(tasks []*entity.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func TestApplyQuery_DefaultSortIsCreatedAtDesc(t *testing.T) {
	got := ApplyQuery(fixture(), TaskQuery{})
	assert.Equal(t, []string{"4", "3", "2", "1"}, ids(got))
}

func TestApplyQuery_Filters(t *testing.T) {
	tests := []struct {
		name string
		q    TaskQuery
		want []string
	}{
		{"status", TaskQuery{Status: entity.StatusTodo, SortOrder: SortAsc}, []string{"1", "4"}},
		{"priority", TaskQuery{Priority: entity.PriorityHigh, SortOrder: SortAsc}, []string{"2", "4"}},
		{"status and priority", TaskQuery{Status: entity.StatusTodo, Priority: entity.PriorityHigh}, []string{"4"}},
		{"search title/description/tags", TaskQuery{Search: "urgent", SortOrder: SortAsc}, []string{"2", "3", "4"}},
		{"search is case-insensitive", TaskQuery{Search: "HOME", SortOrder: SortAsc}, []string{"1"}},
		{"search keeps surrounding spaces", TaskQuery{Search: " call", SortOrder: SortAsc}, []string{"4"}},
		{"blank search matches all", TaskQuery{Search: "   ", SortOrder: SortAsc}, []string{"1", "2", "3", "4"}},
		{"no match", TaskQuery{Search: "nothing"}, []string{}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ids(ApplyQuery(fixture(), tc.q)))
		})
	}
}

func TestApplyQuery_Sorts(t *testing.T) {
	tests := []struct {
		name string
		q    TaskQuery
		want []string
	}{
		{"title asc", TaskQuery{SortBy: SortByTitle, SortOrder: SortAsc}, []string{"1", "2", "4", "3"}},
		{"updatedAt desc", TaskQuery{SortBy: SortByUpdatedAt}, []string{"1", "4", "3", "2"}},
		{"priority desc", TaskQuery{SortBy: SortByPriority}, []string{"3", "1", "2", "4"}},
		{"status asc", TaskQuery{SortBy: SortByStatus, SortOrder: SortAsc}, []string{"3", "2", "1", "4"}},
		{"dueDate asc puts missing last", TaskQuery{SortBy: SortByDueDate, SortOrder: SortAsc}, []string{"3", "4", "1", "2"}},
		{"dueDate desc puts missing last", TaskQuery{SortBy: SortByDueDate, SortOrder: SortDesc}, []string{"1", "4", "3", "2"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ids(ApplyQuery(fixture(), tc.q)))
		})
	}
}

func TestApplyQuery_DueDateAscendingIsNonDecreasing(t *testing.T) {
	got := ApplyQuery(fixture(), TaskQuery{SortBy: SortByDueDate, SortOrder: SortAsc})
	for i := 1; i < len(got); i++ {
		if got[i].DueDate == nil {
			continue
		}
		require.NotNil(t, got[i-1].DueDate)
		assert.False(t, got[i].DueDate.Before(*got[i-1].DueDate))
	}
}

func TestApplyQuery_DoesNotMutateInput(t *testing.T) {
	in := fixture()
	_ = ApplyQuery(in, TaskQuery{SortBy: SortByTitle, SortOrder: SortAsc, Status: entity.StatusTodo})
	assert.Equal(t, []string{"1", "2", "3", "4"}, ids(in))
}

func TestTaskQuery_Validate(t *testing.T) {
	require.NoError(t, TaskQuery{}.Validate())
	require.NoError(t, TaskQuery{Status: entity.StatusCompleted, SortBy: SortByDueDate, SortOrder: SortAsc}.Validate())

	err := TaskQuery{Status: "done", Priority: "urgent", SortBy: "owner", SortOrder: "up"}.Validate()
	require.ErrorIs(t, err, ErrValidation)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Len(t, ve.Fields, 4)
}
