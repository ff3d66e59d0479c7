package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/vipul43/classmate-sync/internal/models"
)

// TaskService is the tasks half of the sync service.
type TaskService interface {
	ListTaskLists(ctx context.Context, userID string) ([]models.TaskList, error)
	ListTasks(ctx context.Context, userID, listID string, showCompleted bool) ([]models.Task, error)
	CreateTask(ctx context.Context, userID, listID string, task models.Task) (models.Task, error)
	UpdateTask(ctx context.Context, userID, listID, taskID string, task models.Task) (models.Task, error)
	DeleteTask(ctx context.Context, userID, listID, taskID string) error
}

// TasksHandler serves /tasks routes.
type TasksHandler struct {
	svc    TaskService
	logger *zap.Logger
}

func NewTasksHandler(svc TaskService, logger *zap.Logger) *TasksHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TasksHandler{svc: svc, logger: logger}
}

type taskRequest struct {
	ListID string      `json:"list_id" form:"list_id"`
	TaskID string      `json:"task_id" form:"task_id"`
	Task   models.Task `json:"task" form:"-"`
}

func (h *TasksHandler) ListTaskLists(c *gin.Context) {
	userID, ok := currentUser(c, h.logger)
	if !ok {
		return
	}

	lists, err := h.svc.ListTaskLists(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if lists == nil {
		lists = []models.TaskList{}
	}
	c.JSON(http.StatusOK, gin.H{"taskLists": lists})
}

func (h *TasksHandler) ListTasks(c *gin.Context) {
	userID, ok := currentUser(c, h.logger)
	if !ok {
		return
	}

	showCompleted := true
	if raw := c.Query("showCompleted"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			badRequest(c, h.logger, "showCompleted must be true or false")
			return
		}
		showCompleted = v
	}

	items, err := h.svc.ListTasks(c.Request.Context(), userID, c.Query("list_id"), showCompleted)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if items == nil {
		items = []models.Task{}
	}
	c.JSON(http.StatusOK, gin.H{"tasks": items})
}

func (h *TasksHandler) CreateTask(c *gin.Context) {
	userID, ok := currentUser(c, h.logger)
	if !ok {
		return
	}

	var req taskRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}

	task, err := h.svc.CreateTask(c.Request.Context(), userID, req.ListID, req.Task)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"task": task})
}

func (h *TasksHandler) UpdateTask(c *gin.Context) {
	userID, ok := currentUser(c, h.logger)
	if !ok {
		return
	}

	var req taskRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}

	task, err := h.svc.UpdateTask(c.Request.Context(), userID, req.ListID, req.TaskID, req.Task)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"task": task})
}

func (h *TasksHandler) DeleteTask(c *gin.Context) {
	userID, ok := currentUser(c, h.logger)
	if !ok {
		return
	}

	var req taskRequest
	if !bindDeleteRequest(c, h.logger, &req) {
		return
	}

	if err := h.svc.DeleteTask(c.Request.Context(), userID, req.ListID, req.TaskID); err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondSuccess(c)
}
