package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"taskflow/internal/middleware"
	"taskflow/internal/model"
	"taskflow/internal/service"
)

type ProjectHandler struct {
	svc *service.ProjectService
}

func NewProjectHandler(svc *service.ProjectService) *ProjectHandler {
	return &ProjectHandler{svc: svc}
}

type CreateProjectRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Color       string `json:"color"`
}

type UpdateProjectRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Color       *string `json:"color"`
	Status      *string `json:"status" binding:"omitempty,oneof=active archived"`
}

type AddMemberRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// List godoc
// @Summary List projects visible to the caller
// @Tags projects
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status" Enums(active, archived)
// @Success 200 {object} map[string]interface{}
// @Router /api/projects [get]
func (h *ProjectHandler) List(c *gin.Context) {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Not authenticated")
		return
	}

	status := model.ProjectStatus(c.Query("status"))
	projects, err := h.svc.List(c.Request.Context(), p, status)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	out := make([]ProjectResponse, len(projects))
	for i := range projects {
		out[i] = toProjectResponse(&projects[i])
	}
	respondOK(c, http.StatusOK, "OK", gin.H{"projects": out, "count": len(out)})
}

// Create godoc
// @Summary Create a project
// @Tags projects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateProjectRequest true "Project data"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /api/projects [post]
func (h *ProjectHandler) Create(c *gin.Context) {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	project, err := h.svc.Create(c.Request.Context(), p, service.CreateProjectInput{
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, http.StatusCreated, "Project created successfully", gin.H{"project": toProjectResponse(project)})
}

// Get godoc
// @Summary Get one project
// @Tags projects
// @Produce json
// @Security BearerAuth
// @Param projectId path string true "Project ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/projects/{projectId} [get]
func (h *ProjectHandler) Get(c *gin.Context) {
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

	project, taskCount, err := h.svc.Get(c.Request.Context(), p, projectID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "OK", gin.H{
		"project":   toProjectResponse(project),
		"taskCount": taskCount,
	})
}

// Update godoc
// @Summary Update a project
// @Tags projects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param projectId path string true "Project ID"
// @Param request body UpdateProjectRequest true "Fields to update"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Router /api/projects/{projectId} [put]
func (h *ProjectHandler) Update(c *gin.Context) {
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

	var req UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	patch := service.ProjectPatch{
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
	}
	if req.Status != nil {
		status := model.ProjectStatus(*req.Status)
		patch.Status = &status
	}

	project, err := h.svc.Update(c.Request.Context(), p, projectID, patch)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "Project updated successfully", gin.H{"project": toProjectResponse(project)})
}

// Delete godoc
// @Summary Delete a project and everything under it
// @Tags projects
// @Produce json
// @Security BearerAuth
// @Param projectId path string true "Project ID"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Router /api/projects/{projectId} [delete]
func (h *ProjectHandler) Delete(c *gin.Context) {
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

	if err := h.svc.Delete(c.Request.Context(), p, projectID); err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Project deleted successfully", nil)
}

// AddMember godoc
// @Summary Add a member by email
// @Tags projects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param projectId path string true "Project ID"
// @Param request body AddMemberRequest true "Member email"
// @Success 200 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /api/projects/{projectId}/members [post]
func (h *ProjectHandler) AddMember(c *gin.Context) {
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

	var req AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	project, err := h.svc.AddMember(c.Request.Context(), p, projectID, req.Email)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Member added successfully", gin.H{"project": toProjectResponse(project)})
}

// RemoveMember godoc
// @Summary Remove a member
// @Tags projects
// @Produce json
// @Security BearerAuth
// @Param projectId path string true "Project ID"
// @Param memberId path string true "Member user ID"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /api/projects/{projectId}/members/{memberId} [delete]
func (h *ProjectHandler) RemoveMember(c *gin.Context) {
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
	memberID, err := uuid.Parse(c.Param("memberId"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid member ID")
		return
	}

	project, err := h.svc.RemoveMember(c.Request.Context(), p, projectID, memberID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Member removed successfully", gin.H{"project": toProjectResponse(project)})
}

// Activity godoc
// @Summary Project activity feed, newest first
// @Tags projects
// @Produce json
// @Security BearerAuth
// @Param projectId path string true "Project ID"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} map[string]interface{}
// @Router /api/projects/{projectId}/activity [get]
func (h *ProjectHandler) Activity(c *gin.Context) {
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

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	logs, pagination, err := h.svc.Activity(c.Request.Context(), p, projectID, page, limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "OK", gin.H{
		"logs":       toActivityResponses(logs),
		"pagination": pagination,
	})
}
