package application

import (
	"math"
	"time"

	"github.com/oksasatya/go-task-manager/internal/domain/entity"
)

// StatCount is one bucket of a grouped count
type StatCount struct {
	ID    string `json:"_id"`
	Count int    `json:"count"`
}

// TaskStats summarises one owner's tasks
type TaskStats struct {
	StatusStats    []StatCount `json:"statusStats"`
	PriorityStats  []StatCount `json:"priorityStats"`
	TotalTasks     int         `json:"totalTasks"`
	CompletedTasks int         `json:"completedTasks"`
	OverdueTasks   int         `json:"overdueTasks"`
	CompletionRate float64     `json:"completionRate"`
}

// ComputeStats aggregates the full, unfiltered task list of one owner
func ComputeStats(tasks []*entity.Task, now time.Time) TaskStats {
	statusCounts := map[string]int{}
	priorityCounts := map[string]int{}
	var statusSeen, prioritySeen []string

	st := TaskStats{TotalTasks: len(tasks)}
	for _, t := range tasks {
		s, p := string(t.Status), string(t.Priority)
		if statusCounts[s] == 0 {
			statusSeen = append(statusSeen, s)
		}
		statusCounts[s]++
		if priorityCounts[p] == 0 {
			prioritySeen = append(prioritySeen, p)
		}
		priorityCounts[p]++

		if t.IsCompleted() {
			st.CompletedTasks++
		}
		if t.IsOverdue(now) {
			st.OverdueTasks++
		}
	}

	st.StatusStats = buckets(statusCounts, statusSeen, enumNames(entity.Statuses))
	st.PriorityStats = buckets(priorityCounts, prioritySeen, enumNames(entity.Priorities))
	st.CompletionRate = completionRate(st.CompletedTasks, st.TotalTasks)
	return st
}

func completionRate(completed, total int) float64 {
	if total == 0 {
		return 0
	}
	rate := float64(completed) / float64(total) * 100
	return math.Round(rate*10) / 10
}

// buckets emits present values in canonical order, then anything unknown in first-seen order
func buckets(counts map[string]int, seen []string, canonical []string) []StatCount {
	out := make([]StatCount, 0, len(counts))
	known := make(map[string]bool, len(canonical))
	for _, name := range canonical {
		known[name] = true
		if n := counts[name]; n > 0 {
			out = append(out, StatCount{ID: name, Count: n})
		}
	}
	for _, name := range seen {
		if !known[name] {
			out = append(out, StatCount{ID: name, Count: counts[name]})
		}
	}
	return out
}

func enumNames[T ~string](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}
