package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	. "taskhub/internal/adapter/http/helper"
	"taskhub/internal/core/domain"
	"taskhub/internal/core/model/request"
	"taskhub/internal/core/model/response"
	"taskhub/internal/core/port"
	"taskhub/pkg/logger"
)

type TaskHandler struct {
	svc    port.TaskService
	logger *logger.Logger
}

func NewTaskHandler(svc port.TaskService, log *logger.Logger) *TaskHandler {
	if log == nil {
		log = logger.NewNop()
	}

	return &TaskHandler{
		svc:    svc,
		logger: log,
	}
}

func (h *TaskHandler) CreateTask(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	params, ok := bind[request.CreateTaskRequest](c)
	if !ok {
		return
	}

	draft, err := params.ToTask(userID, time.Now())
	if err != nil {
		_ = c.Error(err)
		return
	}

	task, err := h.svc.Create(c.Request.Context(), draft)
	if err != nil {
		_ = c.Error(err)
		return
	}

	h.logger.Ctx(c.Request.Context()).Debug("TaskHandler#CreateTask",
		zap.String("task_id", task.ID.String()))

	SendSuccess(c, http.StatusCreated, response.NewTaskResponse(task))
}

func (h *TaskHandler) GetTasks(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	tasks, err := h.svc.ListOwned(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	SendSuccess(c, http.StatusOK, response.NewTaskResponses(tasks))
}

func (h *TaskHandler) GetCollaborativeTasks(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	tasks, err := h.svc.ListCollaborative(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	SendSuccess(c, http.StatusOK, response.NewTaskResponses(tasks))
}

func (h *TaskHandler) GetTask(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	id, ok := pathID(c, "id", domain.ErrTaskNotFound)
	if !ok {
		return
	}

	task, err := h.svc.Get(c.Request.Context(), id, userID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	SendSuccess(c, http.StatusOK, response.NewTaskResponse(task))
}

func (h *TaskHandler) UpdateTask(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	id, ok := pathID(c, "id", domain.ErrTaskNotFound)
	if !ok {
		return
	}

	params, ok := bind[request.UpdateTaskRequest](c)
	if !ok {
		return
	}

	patch, err := params.ToPatch()
	if err != nil {
		_ = c.Error(err)
		return
	}

	task, err := h.svc.Update(c.Request.Context(), id, userID, patch)
	if err != nil {
		_ = c.Error(err)
		return
	}

	SendSuccess(c, http.StatusOK, response.NewTaskResponse(task))
}

func (h *TaskHandler) DeleteTask(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	id, ok := pathID(c, "id", domain.ErrTaskNotFound)
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id, userID); err != nil {
		_ = c.Error(err)
		return
	}

	SendMessage(c, http.StatusOK, "Task removed")
}
