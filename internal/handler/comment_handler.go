package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"taskflow/internal/middleware"
	"taskflow/internal/service"
)

type CommentHandler struct {
	svc *service.CommentService
}

func NewCommentHandler(svc *service.CommentService) *CommentHandler {
	return &CommentHandler{svc: svc}
}

type CommentRequest struct {
	Content string `json:"content" binding:"required"`
}

// List godoc
// @Summary List a task's comments in creation order
// @Tags comments
// @Produce json
// @Security BearerAuth
// @Param taskId path string true "Task ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/tasks/{taskId}/comments [get]
func (h *CommentHandler) List(c *gin.Context) {
	p, taskID, ok := h.commentScope(c)
	if !ok {
		return
	}

	comments, err := h.svc.List(c.Request.Context(), p, taskID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "OK", gin.H{
		"comments": toCommentResponses(comments),
		"count":    len(comments),
	})
}

// Add godoc
// @Summary Add a comment to a task
// @Tags comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param taskId path string true "Task ID"
// @Param request body CommentRequest true "Comment content"
// @Success 201 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/tasks/{taskId}/comments [post]
func (h *CommentHandler) Add(c *gin.Context) {
	p, taskID, ok := h.commentScope(c)
	if !ok {
		return
	}

	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	comment, err := h.svc.Add(c.Request.Context(), p, taskID, req.Content)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, "Comment added successfully", gin.H{"comment": toCommentResponse(comment)})
}

// Edit godoc
// @Summary Edit a comment; author only
// @Tags comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param taskId path string true "Task ID"
// @Param commentId path string true "Comment ID"
// @Param request body CommentRequest true "New content"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Router /api/tasks/{taskId}/comments/{commentId} [put]
func (h *CommentHandler) Edit(c *gin.Context) {
	p, taskID, ok := h.commentScope(c)
	if !ok {
		return
	}
	commentID, err := uuid.Parse(c.Param("commentId"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid comment ID")
		return
	}

	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	comment, err := h.svc.Edit(c.Request.Context(), p, taskID, commentID, req.Content)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Comment updated successfully", gin.H{"comment": toCommentResponse(comment)})
}

// Delete godoc
// @Summary Delete a comment; author or admin
// @Tags comments
// @Produce json
// @Security BearerAuth
// @Param taskId path string true "Task ID"
// @Param commentId path string true "Comment ID"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Router /api/tasks/{taskId}/comments/{commentId} [delete]
func (h *CommentHandler) Delete(c *gin.Context) {
	p, taskID, ok := h.commentScope(c)
	if !ok {
		return
	}
	commentID, err := uuid.Parse(c.Param("commentId"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid comment ID")
		return
	}

	if err := h.svc.Delete(c.Request.Context(), p, taskID, commentID); err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Comment deleted successfully", nil)
}

func (h *CommentHandler) commentScope(c *gin.Context) (service.Principal, uuid.UUID, bool) {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Not authenticated")
		return service.Principal{}, uuid.Nil, false
	}
	taskID, err := uuid.Parse(c.Param("taskId"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid task ID")
		return service.Principal{}, uuid.Nil, false
	}
	return p, taskID, true
}
