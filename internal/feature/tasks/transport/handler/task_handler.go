// Package handler provides HTTP handlers for the tasks feature.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"task_backend/internal/feature/tasks/domain/entity"
	"task_backend/internal/feature/tasks/transport/http/dto"
	"task_backend/internal/platform/http/httperror"
	jwtmw "task_backend/internal/platform/jwt"
	"task_backend/internal/shared/apperr"
)

// TaskUsecase defines the use cases for task operations.
// The ownerID argument always comes from the authenticated identity.
type TaskUsecase interface {
	Create(ctx context.Context, ownerID string, in entity.NewTask) (*entity.Task, error)
	List(ctx context.Context, ownerID string) ([]entity.Task, error)
	Get(ctx context.Context, ownerID, id string) (*entity.Task, error)
	Update(ctx context.Context, ownerID, id string, upd entity.TaskUpdate) (*entity.Task, error)
	Delete(ctx context.Context, ownerID, id string) error
	Search(ctx context.Context, ownerID, fragment string) ([]entity.Task, error)
}

var errMissingTitleParam = apperr.Validation("query parameter 'title' is required")

// TaskHandler handles HTTP requests for task operations.
// Every route must sit behind jwtmw.AuthRequired.
type TaskHandler struct {
	tasks TaskUsecase
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(tasks TaskUsecase) *TaskHandler {
	return &TaskHandler{tasks: tasks}
}

// Create handles POST /tasks.
func (h *TaskHandler) Create(c *gin.Context) {
	owner, ok := identity(c)
	if !ok {
		return
	}
	var req dto.CreateTaskReq
	if err := c.ShouldBindJSON(&req); err != nil {
		httperror.RespondBind(c, err)
		return
	}
	in, err := req.ToNewTask()
	if err != nil {
		httperror.RespondBind(c, err)
		return
	}
	task, err := h.tasks.Create(c.Request.Context(), owner, in)
	if err != nil {
		httperror.Respond(c, err)
		return
	}
	slog.Info("task created", "task_id", task.ID, "user_id", owner)
	c.JSON(http.StatusCreated, dto.TaskEnvelope{Task: dto.FromEntity(task)})
}

// List handles GET /tasks.
func (h *TaskHandler) List(c *gin.Context) {
	owner, ok := identity(c)
	if !ok {
		return
	}
	tasks, err := h.tasks.List(c.Request.Context(), owner)
	if err != nil {
		httperror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.TaskListRes{Tasks: dto.FromEntities(tasks)})
}

// Get handles GET /tasks/:taskId. Another user's task is reported as 404.
func (h *TaskHandler) Get(c *gin.Context) {
	owner, ok := identity(c)
	if !ok {
		return
	}
	task, err := h.tasks.Get(c.Request.Context(), owner, c.Param("taskId"))
	if err != nil {
		httperror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.TaskEnvelope{Task: dto.FromEntity(task)})
}

// Update handles PUT /tasks/:taskId.
//   - 400 when any of title, description, dueDate, status is missing or invalid
//   - 404 when the task does not exist or belongs to someone else
//   - 200 with the updated task on success
func (h *TaskHandler) Update(c *gin.Context) {
	owner, ok := identity(c)
	if !ok {
		return
	}
	var req dto.UpdateTaskReq
	if err := c.ShouldBindJSON(&req); err != nil {
		httperror.RespondBind(c, err)
		return
	}
	upd, err := req.ToTaskUpdate()
	if err != nil {
		httperror.RespondBind(c, err)
		return
	}
	taskID := c.Param("taskId")
	task, err := h.tasks.Update(c.Request.Context(), owner, taskID, upd)
	if err != nil {
		httperror.Respond(c, err)
		return
	}
	slog.Info("task updated", "task_id", taskID, "user_id", owner)
	c.JSON(http.StatusOK, dto.TaskEnvelope{Task: dto.FromEntity(task)})
}

// Delete handles DELETE /tasks/:taskId.
func (h *TaskHandler) Delete(c *gin.Context) {
	owner, ok := identity(c)
	if !ok {
		return
	}
	taskID := c.Param("taskId")
	if err := h.tasks.Delete(c.Request.Context(), owner, taskID); err != nil {
		httperror.Respond(c, err)
		return
	}
	slog.Info("task deleted", "task_id", taskID, "user_id", owner)
	c.JSON(http.StatusOK, dto.MessageRes{Message: dto.MsgTaskDeleted})
}

// Search handles GET /tasks/search?title=<fragment>.
// The parameter must be present; an empty value matches every task.
func (h *TaskHandler) Search(c *gin.Context) {
	owner, ok := identity(c)
	if !ok {
		return
	}
	fragment, present := c.GetQuery("title")
	if !present {
		httperror.Respond(c, errMissingTitleParam)
		return
	}
	tasks, err := h.tasks.Search(c.Request.Context(), owner, fragment)
	if err != nil {
		httperror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.TaskListRes{Tasks: dto.FromEntities(tasks)})
}

// identity returns the caller's user ID, answering 401 when the gate did not run.
func identity(c *gin.Context) (string, bool) {
	id, ok := jwtmw.IdentityFrom(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, httperror.ErrorResponse{Error: jwtmw.MsgUnauthorized})
		return "", false
	}
	return id.UserID, true
}
