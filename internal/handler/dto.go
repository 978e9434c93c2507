package handler

import (
	"time"

	"taskflow/internal/model"
)

// Response shapes shared by the handlers.

type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func toUserResponse(u *model.User) UserResponse {
	return UserResponse{
		ID:        u.ID.String(),
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}

type ProjectResponse struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	OwnerID     string         `json:"owner_id"`
	Status      string         `json:"status"`
	Color       string         `json:"color"`
	Members     []UserResponse `json:"members"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

func toProjectResponse(p *model.Project) ProjectResponse {
	members := make([]UserResponse, len(p.Members))
	for i := range p.Members {
		members[i] = toUserResponse(&p.Members[i])
	}
	return ProjectResponse{
		ID:          p.ID.String(),
		Name:        p.Name,
		Description: p.Description,
		OwnerID:     p.OwnerID.String(),
		Status:      string(p.Status),
		Color:       p.Color,
		Members:     members,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

type AttachmentResponse struct {
	ID          string    `json:"id"`
	URL         string    `json:"url"`
	Name        string    `json:"name"`
	Size        int64     `json:"size"`
	ContentType string    `json:"content_type"`
	UploadedBy  string    `json:"uploaded_by"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

func toAttachmentResponse(a *model.Attachment) AttachmentResponse {
	return AttachmentResponse{
		ID:          a.ID.String(),
		URL:         a.URL,
		Name:        a.Name,
		Size:        a.Size,
		ContentType: a.ContentType,
		UploadedBy:  a.UploadedBy.String(),
		UploadedAt:  a.UploadedAt,
	}
}

type TaskResponse struct {
	ID          string               `json:"id"`
	ProjectID   string               `json:"project_id"`
	Title       string               `json:"title"`
	Description string               `json:"description"`
	AssigneeID  *string              `json:"assignee_id,omitempty"`
	CreatedBy   string               `json:"created_by"`
	Status      string               `json:"status"`
	Priority    string               `json:"priority"`
	DueDate     *time.Time           `json:"due_date,omitempty"`
	Labels      []string             `json:"labels"`
	Attachments []AttachmentResponse `json:"attachments"`
	Order       int                  `json:"order"`
	CompletedAt *time.Time           `json:"completed_at,omitempty"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

func toTaskResponse(t *model.Task) TaskResponse {
	resp := TaskResponse{
		ID:          t.ID.String(),
		ProjectID:   t.ProjectID.String(),
		Title:       t.Title,
		Description: t.Description,
		CreatedBy:   t.CreatedBy.String(),
		Status:      string(t.Status),
		Priority:    string(t.Priority),
		DueDate:     t.DueDate,
		Labels:      t.Labels,
		Order:       t.Order,
		CompletedAt: t.CompletedAt,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
	if resp.Labels == nil {
		resp.Labels = []string{}
	}
	if t.AssigneeID != nil {
		id := t.AssigneeID.String()
		resp.AssigneeID = &id
	}
	resp.Attachments = make([]AttachmentResponse, len(t.Attachments))
	for i := range t.Attachments {
		resp.Attachments[i] = toAttachmentResponse(&t.Attachments[i])
	}
	return resp
}

func toTaskResponses(tasks []model.Task) []TaskResponse {
	out := make([]TaskResponse, len(tasks))
	for i := range tasks {
		out[i] = toTaskResponse(&tasks[i])
	}
	return out
}

type CommentResponse struct {
	ID         string    `json:"id"`
	TaskID     string    `json:"task_id"`
	AuthorID   string    `json:"author_id"`
	AuthorName string    `json:"author_name,omitempty"`
	Content    string    `json:"content"`
	IsEdited   bool      `json:"is_edited"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func toCommentResponse(cm *model.Comment) CommentResponse {
	return CommentResponse{
		ID:         cm.ID.String(),
		TaskID:     cm.TaskID.String(),
		AuthorID:   cm.AuthorID.String(),
		AuthorName: cm.Author.Name,
		Content:    cm.Content,
		IsEdited:   cm.IsEdited,
		CreatedAt:  cm.CreatedAt,
		UpdatedAt:  cm.UpdatedAt,
	}
}

func toCommentResponses(comments []model.Comment) []CommentResponse {
	out := make([]CommentResponse, len(comments))
	for i := range comments {
		out[i] = toCommentResponse(&comments[i])
	}
	return out
}

type ActivityResponse struct {
	ID        string         `json:"id"`
	ProjectID string         `json:"project_id"`
	TaskID    *string        `json:"task_id,omitempty"`
	UserID    string         `json:"user_id"`
	UserName  string         `json:"user_name,omitempty"`
	Action    string         `json:"action"`
	Meta      map[string]any `json:"meta"`
	CreatedAt time.Time      `json:"created_at"`
}

func toActivityResponses(logs []model.ActivityLog) []ActivityResponse {
	out := make([]ActivityResponse, len(logs))
	for i := range logs {
		entry := &logs[i]
		out[i] = ActivityResponse{
			ID:        entry.ID.String(),
			ProjectID: entry.ProjectID.String(),
			UserID:    entry.UserID.String(),
			UserName:  entry.User.Name,
			Action:    string(entry.Action),
			Meta:      entry.Meta,
			CreatedAt: entry.CreatedAt,
		}
		if entry.TaskID != nil {
			id := entry.TaskID.String()
			out[i].TaskID = &id
		}
	}
	return out
}
