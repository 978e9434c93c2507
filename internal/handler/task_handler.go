package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"taskflow/internal/middleware"
	"taskflow/internal/model"
	"taskflow/internal/repository"
	"taskflow/internal/service"
)

type TaskHandler struct {
	svc *service.TaskService
}

func NewTaskHandler(svc *service.TaskService) *TaskHandler {
	return &TaskHandler{svc: svc}
}

type CreateTaskRequest struct {
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	Assignee    *string    `json:"assignee" binding:"omitempty,uuid"`
	Priority    string     `json:"priority" binding:"omitempty,oneof=low medium high critical"`
	DueDate     *time.Time `json:"due_date"`
	Labels      []string   `json:"labels"`
	Status      string     `json:"status" binding:"omitempty,oneof=todo in_progress in_review done"`
}

// UpdateTaskRequest is a partial update. A present-but-empty assignee or
// due date clears the field; an absent one leaves it alone.
type UpdateTaskRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Assignee    *string    `json:"assignee"`
	Priority    *string    `json:"priority" binding:"omitempty,oneof=low medium high critical"`
	DueDate     *time.Time `json:"due_date"`
	ClearDue    bool       `json:"clear_due_date"`
	Labels      *[]string  `json:"labels"`
	Status      *string    `json:"status" binding:"omitempty,oneof=todo in_progress in_review done"`
	Order       *int       `json:"order"`
}

type AssignTaskRequest struct {
	UserID string `json:"user_id" binding:"required,uuid"`
}

type ReorderEntry struct {
	ID     string `json:"id" binding:"required,uuid"`
	Status string `json:"status" binding:"required,oneof=todo in_progress in_review done"`
	Order  int    `json:"order"`
}

type ReorderRequest struct {
	Tasks []ReorderEntry `json:"tasks" binding:"required,min=1,dive"`
}

// List godoc
// @Summary List tasks in a project
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Param projectId path string true "Project ID"
// @Param status query string false "Filter by status" Enums(todo, in_progress, in_review, done)
// @Param priority query string false "Filter by priority" Enums(low, medium, high, critical)
// @Param assignee query string false "Filter by assignee user ID"
// @Param search query string false "Substring match on title and description"
// @Param sort query string false "Sort key" Enums(order, createdAt, -createdAt, dueDate, priority)
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} map[string]interface{}
// @Router /api/projects/{projectId}/tasks [get]
func (h *TaskHandler) List(c *gin.Context) {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Not authenticated")
		return
	}
	projectID, err := uuid.Parse(c.Param("projectId"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid project ID")
		return
	}

	filter := repository.TaskFilter{
		Status:   model.TaskStatus(c.Query("status")),
		Priority: model.TaskPriority(c.Query("priority")),
		Search:   c.Query("search"),
		Sort:     c.Query("sort"),
	}
	if raw := c.Query("assignee"); raw != "" {
		assigneeID, err := uuid.Parse(raw)
		if err != nil {
			respondError(c, http.StatusBadRequest, "Invalid assignee ID")
			return
		}
		filter.Assignee = &assigneeID
	}
	filter.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	filter.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "50"))

	tasks, pagination, err := h.svc.List(c.Request.Context(), p, projectID, filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "OK", gin.H{
		"tasks":      toTaskResponses(tasks),
		"pagination": pagination,
	})
}

// Create godoc
// @Summary Create a task at the end of its column
// @Tags tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param projectId path string true "Project ID"
// @Param request body CreateTaskRequest true "Task data"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /api/projects/{projectId}/tasks [post]
func (h *TaskHandler) Create(c *gin.Context) {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Not authenticated")
		return
	}
	projectID, err := uuid.Parse(c.Param("projectId"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid project ID")
		return
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	in := service.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    model.TaskPriority(req.Priority),
		DueDate:     req.DueDate,
		Labels:      req.Labels,
		Status:      model.TaskStatus(req.Status),
	}
	if req.Assignee != nil {
		assigneeID, err := uuid.Parse(*req.Assignee)
		if err != nil {
			respondError(c, http.StatusBadRequest, "Invalid assignee ID")
			return
		}
		in.Assignee = &assigneeID
	}

	task, err := h.svc.Create(c.Request.Context(), p, projectID, in)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, "Task created successfully", gin.H{"task": toTaskResponse(task)})
}

// Get godoc
// @Summary Get one task with its comments
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Param projectId path string true "Project ID"
// @Param taskId path string true "Task ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/projects/{projectId}/tasks/{taskId} [get]
func (h *TaskHandler) Get(c *gin.Context) {
	p, projectID, taskID, ok := h.taskScope(c)
	if !ok {
		return
	}

	task, comments, err := h.svc.Get(c.Request.Context(), p, projectID, taskID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "OK", gin.H{
		"task":     toTaskResponse(task),
		"comments": toCommentResponses(comments),
	})
}

// Update godoc
// @Summary Partially update a task
// @Tags tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param projectId path string true "Project ID"
// @Param taskId path string true "Task ID"
// @Param request body UpdateTaskRequest true "Fields to update"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /api/projects/{projectId}/tasks/{taskId} [put]
func (h *TaskHandler) Update(c *gin.Context) {
	p, projectID, taskID, ok := h.taskScope(c)
	if !ok {
		return
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	patch := service.TaskPatch{
		Title:        req.Title,
		Description:  req.Description,
		DueDate:      req.DueDate,
		ClearDueDate: req.ClearDue,
		Labels:       req.Labels,
		Order:        req.Order,
	}
	if req.Priority != nil {
		priority := model.TaskPriority(*req.Priority)
		patch.Priority = &priority
	}
	if req.Status != nil {
		status := model.TaskStatus(*req.Status)
		patch.Status = &status
	}
	if req.Assignee != nil {
		if *req.Assignee == "" {
			patch.ClearAssignee = true
		} else {
			assigneeID, err := uuid.Parse(*req.Assignee)
			if err != nil {
				respondError(c, http.StatusBadRequest, "Invalid assignee ID")
				return
			}
			patch.Assignee = &assigneeID
		}
	}

	task, err := h.svc.Update(c.Request.Context(), p, projectID, taskID, patch)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Task updated successfully", gin.H{"task": toTaskResponse(task)})
}

// Delete godoc
// @Summary Delete a task with its comments and attachments
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Param projectId path string true "Project ID"
// @Param taskId path string true "Task ID"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Router /api/projects/{projectId}/tasks/{taskId} [delete]
func (h *TaskHandler) Delete(c *gin.Context) {
	p, projectID, taskID, ok := h.taskScope(c)
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), p, projectID, taskID); err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Task deleted successfully", nil)
}

// Assign godoc
// @Summary Assign a task to a user
// @Tags tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param projectId path string true "Project ID"
// @Param taskId path string true "Task ID"
// @Param request body AssignTaskRequest true "Assignee"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/projects/{projectId}/tasks/{taskId}/assign [post]
func (h *TaskHandler) Assign(c *gin.Context) {
	p, projectID, taskID, ok := h.taskScope(c)
	if !ok {
		return
	}

	var req AssignTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	assigneeID, err := uuid.Parse(req.UserID)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid user ID")
		return
	}

	task, err := h.svc.Assign(c.Request.Context(), p, projectID, taskID, assigneeID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Task assigned successfully", gin.H{"task": toTaskResponse(task)})
}

// Reorder godoc
// @Summary Apply a bulk drag-and-drop reorder
// @Tags tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param projectId path string true "Project ID"
// @Param request body ReorderRequest true "New (status, order) per task"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /api/projects/{projectId}/tasks/reorder [patch]
func (h *TaskHandler) Reorder(c *gin.Context) {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Not authenticated")
		return
	}
	projectID, err := uuid.Parse(c.Param("projectId"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid project ID")
		return
	}

	var req ReorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	items := make([]repository.ReorderItem, len(req.Tasks))
	for i, entry := range req.Tasks {
		taskID, err := uuid.Parse(entry.ID)
		if err != nil {
			respondError(c, http.StatusBadRequest, "Invalid task ID in reorder list")
			return
		}
		items[i] = repository.ReorderItem{
			TaskID: taskID,
			Status: model.TaskStatus(entry.Status),
			Order:  entry.Order,
		}
	}

	applied, err := h.svc.Reorder(c.Request.Context(), p, projectID, items)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Tasks reordered", gin.H{"applied": applied})
}

// UploadAttachment godoc
// @Summary Attach an uploaded file to a task
// @Tags tasks
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param projectId path string true "Project ID"
// @Param taskId path string true "Task ID"
// @Param file formData file true "File to upload"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /api/projects/{projectId}/tasks/{taskId}/attachments [post]
func (h *TaskHandler) UploadAttachment(c *gin.Context) {
	p, projectID, taskID, ok := h.taskScope(c)
	if !ok {
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		respondError(c, http.StatusBadRequest, "No file provided")
		return
	}
	file, err := header.Open()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to read upload")
		return
	}
	defer file.Close()

	attachment, err := h.svc.UploadAttachment(
		c.Request.Context(), p, projectID, taskID,
		header.Filename, header.Header.Get("Content-Type"), file,
	)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, "File uploaded successfully", gin.H{"attachment": toAttachmentResponse(attachment)})
}

// DeleteAttachment godoc
// @Summary Remove an attachment from a task
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Param projectId path string true "Project ID"
// @Param taskId path string true "Task ID"
// @Param attachmentId path string true "Attachment ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/projects/{projectId}/tasks/{taskId}/attachments/{attachmentId} [delete]
func (h *TaskHandler) DeleteAttachment(c *gin.Context) {
	p, projectID, taskID, ok := h.taskScope(c)
	if !ok {
		return
	}
	attachmentID, err := uuid.Parse(c.Param("attachmentId"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid attachment ID")
		return
	}

	if err := h.svc.DeleteAttachment(c.Request.Context(), p, projectID, taskID, attachmentID); err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Attachment deleted successfully", nil)
}

// taskScope pulls the principal and both path ids, writing the error
// response itself when any of them is unusable.
func (h *TaskHandler) taskScope(c *gin.Context) (service.Principal, uuid.UUID, uuid.UUID, bool) {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Not authenticated")
		return service.Principal{}, uuid.Nil, uuid.Nil, false
	}
	projectID, err := uuid.Parse(c.Param("projectId"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid project ID")
		return service.Principal{}, uuid.Nil, uuid.Nil, false
	}
	taskID, err := uuid.Parse(c.Param("taskId"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid task ID")
		return service.Principal{}, uuid.Nil, uuid.Nil, false
	}
	return p, projectID, taskID, true
}
