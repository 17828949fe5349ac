package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-task-manager/internal/application"
	"github.com/oksasatya/go-task-manager/internal/domain/entity"
	"github.com/oksasatya/go-task-manager/internal/interface/middleware"
	"github.com/oksasatya/go-task-manager/pkg/response"
)

type TaskHandler struct {
	Svc    *application.TaskService
	Logger *logrus.Logger
}

func NewTaskHandler(svc *application.TaskService, logger *logrus.Logger) *TaskHandler {
	return &TaskHandler{Svc: svc, Logger: logger}
}

// render attaches the owner's public profile to each task
func (h *TaskHandler) render(c *gin.Context, tasks ...*entity.Task) []taskResponse {
	owners := map[string]*entity.User{}
	out := make([]taskResponse, 0, len(tasks))
	for _, t := range tasks {
		owner, ok := owners[t.OwnerID]
		if !ok {
			owner = h.Svc.Owner(c.Request.Context(), t.OwnerID)
			owners[t.OwnerID] = owner
		}
		out = append(out, toTaskResponse(t, owner))
	}
	return out
}

// List GET /api/tasks
func (h *TaskHandler) List(c *gin.Context) {
	var q listTasksQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindFailed(c, err, "Invalid query parameters")
		return
	}
	tasks, err := h.Svc.List(c.Request.Context(), c.GetString(middleware.CtxUserIDKey), application.TaskQuery{
		Status:    entity.Status(q.Status),
		Priority:  entity.Priority(q.Priority),
		Search:    q.Search,
		SortBy:    application.SortField(q.SortBy),
		SortOrder: application.SortOrder(q.SortOrder),
	})
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"tasks": h.render(c, tasks...)})
}

// Get GET /api/tasks/:id
func (h *TaskHandler) Get(c *gin.Context) {
	t, err := h.Svc.Get(c.Request.Context(), c.GetString(middleware.CtxUserIDKey), c.Param("id"))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"task": h.render(c, t)[0]})
}

// Create POST /api/tasks
func (h *TaskHandler) Create(c *gin.Context) {
	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err, "Validation failed")
		return
	}
	t, err := h.Svc.Create(c.Request.Context(), c.GetString(middleware.CtxUserIDKey), application.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      entity.Status(req.Status),
		Priority:    entity.Priority(req.Priority),
		DueDate:     req.DueDate.Time,
		Tags:        req.Tags.Values,
	})
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"task": h.render(c, t)[0]})
}

// Update PUT /api/tasks/:id; only fields present in the body change
func (h *TaskHandler) Update(c *gin.Context) {
	var req updateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err, "Validation failed")
		return
	}
	in := application.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		DueDateSet:  req.DueDate.Set,
		DueDate:     req.DueDate.Time,
	}
	if req.Status != nil {
		s := entity.Status(*req.Status)
		in.Status = &s
	}
	if req.Priority != nil {
		p := entity.Priority(*req.Priority)
		in.Priority = &p
	}
	if req.Tags.Set {
		tags := req.Tags.Values
		in.Tags = &tags
	}

	t, err := h.Svc.Update(c.Request.Context(), c.GetString(middleware.CtxUserIDKey), c.Param("id"), in)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"task": h.render(c, t)[0]})
}

// Delete DELETE /api/tasks/:id
func (h *TaskHandler) Delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), c.GetString(middleware.CtxUserIDKey), c.Param("id")); err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, response.Message{Message: msgTaskDeleted})
}

// Stats GET /api/tasks/stats/overview
func (h *TaskHandler) Stats(c *gin.Context) {
	st, err := h.Svc.Stats(c.Request.Context(), c.GetString(middleware.CtxUserIDKey))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, st)
}
