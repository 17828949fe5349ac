package handlers

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/oksasatya/go-task-manager/internal/domain/entity"
	"github.com/oksasatya/go-task-manager/pkg/validation"
)

// OptionalDate decodes a due date that may be absent, null, "" or a date.
// Set is true whenever the key appears in the payload.
type OptionalDate struct {
	Set  bool
	Time *time.Time
}

func (d *OptionalDate) UnmarshalJSON(b []byte) error {
	d.Set = true
	d.Time = nil
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return &validation.FieldError{Field: "dueDate", Message: "must be a date string (YYYY-MM-DD)"}
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range []string{time.DateOnly, time.RFC3339Nano} {
		if t, err := time.Parse(layout, s); err == nil {
			t = entity.DateOnly(t)
			d.Time = &t
			return nil
		}
	}
	return &validation.FieldError{Field: "dueDate", Message: "must be a date string (YYYY-MM-DD)"}
}

// TagList decodes tags given either as a JSON array or a comma-separated string
type TagList struct {
	Set    bool
	Values []string
}

func (l *TagList) UnmarshalJSON(b []byte) error {
	l.Set = true
	l.Values = nil
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		return nil
	}
	var arr []string
	if err := json.Unmarshal(b, &arr); err == nil {
		l.Values = arr
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return &validation.FieldError{Field: "tags", Message: "must be an array of strings or a comma-separated string"}
	}
	l.Values = strings.Split(s, ",")
	return nil
}

type registerRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type createTaskRequest struct {
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Status      string       `json:"status" binding:"omitempty,oneof=todo in-progress completed"`
	Priority    string       `json:"priority" binding:"omitempty,oneof=low medium high"`
	DueDate     OptionalDate `json:"dueDate"`
	Tags        TagList      `json:"tags"`
}

type updateTaskRequest struct {
	Title       *string      `json:"title"`
	Description *string      `json:"description"`
	Status      *string      `json:"status" binding:"omitempty,oneof=todo in-progress completed"`
	Priority    *string      `json:"priority" binding:"omitempty,oneof=low medium high"`
	DueDate     OptionalDate `json:"dueDate"`
	Tags        TagList      `json:"tags"`
}

type listTasksQuery struct {
	Status    string `form:"status" binding:"omitempty,oneof=todo in-progress completed"`
	Priority  string `form:"priority" binding:"omitempty,oneof=low medium high"`
	Search    string `form:"search"`
	SortBy    string `form:"sortBy" binding:"omitempty,oneof=createdAt updatedAt dueDate title priority status"`
	SortOrder string `form:"sortOrder" binding:"omitempty,oneof=asc desc"`
}

type userResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

func toUserResponse(u *entity.User) userResponse {
	return userResponse{ID: u.ID, Username: u.Username, Email: u.Email}
}

type authorResponse struct {
	ID       string `json:"id,omitempty"`
	Username string `json:"username"`
}

type taskResponse struct {
	ID          string         `json:"_id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Status      string         `json:"status"`
	Priority    string         `json:"priority"`
	DueDate     *string        `json:"dueDate"`
	Tags        []string       `json:"tags"`
	User        string         `json:"user"`
	Author      authorResponse `json:"author"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

// toTaskResponse renders a task; owner may be nil when the account can't be resolved
func toTaskResponse(t *entity.Task, owner *entity.User) taskResponse {
	resp := taskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		Priority:    string(t.Priority),
		Tags:        t.Tags,
		User:        t.OwnerID,
		Author:      authorResponse{Username: "Unknown"},
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
	if resp.Tags == nil {
		resp.Tags = []string{}
	}
	if t.DueDate != nil {
		s := t.DueDate.Format(time.DateOnly)
		resp.DueDate = &s
	}
	if owner != nil {
		resp.Author = authorResponse{ID: owner.ID, Username: owner.Username}
	}
	return resp
}
