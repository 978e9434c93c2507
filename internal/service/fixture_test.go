package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"taskflow/internal/model"
)

// fixture wires the three services over shared in-memory fakes with one
// seeded project: owner plus one member, one outsider, one admin.
type fixture struct {
	projects    *fakeProjectStore
	tasks       *fakeTaskStore
	comments    *fakeCommentStore
	attachments *fakeAttachmentStore
	activity    *fakeActivityStore
	users       *fakeUserStore
	files       *fakeFileStore
	recorder    *recorderSpy

	taskSvc    *TaskService
	projectSvc *ProjectService
	commentSvc *CommentService

	owner    Principal
	member   Principal
	outsider Principal
	admin    Principal

	project *model.Project
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		tasks:       newFakeTaskStore(),
		comments:    newFakeCommentStore(),
		attachments: newFakeAttachmentStore(),
		activity:    &fakeActivityStore{},
		users:       newFakeUserStore(),
		files:       newFakeFileStore(),
		recorder:    &recorderSpy{},
	}
	f.projects = newFakeProjectStore(f.tasks)

	f.owner = Principal{UserID: uuid.New(), Role: model.RoleMember, IsActive: true}
	f.member = Principal{UserID: uuid.New(), Role: model.RoleMember, IsActive: true}
	f.outsider = Principal{UserID: uuid.New(), Role: model.RoleMember, IsActive: true}
	f.admin = Principal{UserID: uuid.New(), Role: model.RoleAdmin, IsActive: true}

	f.users.add(&model.User{ID: f.owner.UserID, Email: "owner@example.com", Name: "Owner", Role: model.RoleMember, IsActive: true})
	f.users.add(&model.User{ID: f.member.UserID, Email: "member@example.com", Name: "Member", Role: model.RoleMember, IsActive: true})
	f.users.add(&model.User{ID: f.outsider.UserID, Email: "outsider@example.com", Name: "Outsider", Role: model.RoleMember, IsActive: true})
	f.users.add(&model.User{ID: f.admin.UserID, Email: "admin@example.com", Name: "Admin", Role: model.RoleAdmin, IsActive: true})

	f.project = &model.Project{
		ID:      uuid.New(),
		Name:    "Launch",
		OwnerID: f.owner.UserID,
		Status:  model.ProjectActive,
		Color:   "#6c63ff",
		Members: []model.User{
			{ID: f.owner.UserID},
			{ID: f.member.UserID},
		},
	}
	f.projects.byID[f.project.ID] = f.project

	log := zap.NewNop()
	board := NewBoardEngine(f.tasks)
	f.taskSvc = NewTaskService(f.projects, f.tasks, f.comments, f.attachments, f.users, f.files, board, f.recorder, log)
	f.projectSvc = NewProjectService(f.projects, f.tasks, f.users, f.activity, f.recorder, log)
	f.commentSvc = NewCommentService(f.projects, f.tasks, f.comments, f.recorder)
	return f
}

// seedTask inserts a task directly into the store, bypassing the service.
func (f *fixture) seedTask(createdBy uuid.UUID, status model.TaskStatus, order int) *model.Task {
	task := &model.Task{
		ID:        uuid.New(),
		ProjectID: f.project.ID,
		Title:     "Seeded task",
		CreatedBy: createdBy,
		Status:    status,
		Priority:  model.PriorityMedium,
		Order:     order,
		CreatedAt: time.Now(),
	}
	f.tasks.byID[task.ID] = task
	return task
}

func ctxb() context.Context { return context.Background() }
