package service

import (
	"context"
	"errors"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"taskflow/internal/model"
	"taskflow/internal/repository"
)

// In-memory store fakes. They mirror the repository contracts closely
// enough for service-level tests, including the sentinel errors.

type fakeProjectStore struct {
	byID  map[uuid.UUID]*model.Project
	tasks *fakeTaskStore
}

func newFakeProjectStore(tasks *fakeTaskStore) *fakeProjectStore {
	return &fakeProjectStore{byID: make(map[uuid.UUID]*model.Project), tasks: tasks}
}

func (f *fakeProjectStore) Create(ctx context.Context, project *model.Project) error {
	f.byID[project.ID] = project
	return nil
}

func (f *fakeProjectStore) GetByID(ctx context.Context, id uuid.UUID) (*model.Project, error) {
	project, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrProjectNotFound
	}
	return project, nil
}

func (f *fakeProjectStore) ListForUser(ctx context.Context, userID uuid.UUID, status model.ProjectStatus) ([]model.Project, error) {
	var out []model.Project
	for _, p := range f.byID {
		if p.OwnerID != userID && !p.HasMember(userID) {
			continue
		}
		if status != "" && p.Status != status {
			continue
		}
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakeProjectStore) Save(ctx context.Context, project *model.Project) error {
	if _, ok := f.byID[project.ID]; !ok {
		return repository.ErrProjectNotFound
	}
	f.byID[project.ID] = project
	return nil
}

func (f *fakeProjectStore) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := f.byID[id]; !ok {
		return repository.ErrProjectNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeProjectStore) AddMember(ctx context.Context, projectID, userID uuid.UUID) error {
	project, ok := f.byID[projectID]
	if !ok {
		return repository.ErrProjectNotFound
	}
	if !project.HasMember(userID) {
		project.Members = append(project.Members, model.User{ID: userID})
	}
	return nil
}

func (f *fakeProjectStore) RemoveMember(ctx context.Context, projectID, userID uuid.UUID) error {
	project, ok := f.byID[projectID]
	if !ok {
		return repository.ErrProjectNotFound
	}
	members := project.Members[:0]
	for _, m := range project.Members {
		if m.ID != userID {
			members = append(members, m)
		}
	}
	project.Members = members
	return nil
}

func (f *fakeProjectStore) CountTasks(ctx context.Context, projectID uuid.UUID) (int64, error) {
	var count int64
	for _, t := range f.tasks.byID {
		if t.ProjectID == projectID {
			count++
		}
	}
	return count, nil
}

type fakeTaskStore struct {
	byID       map[uuid.UUID]*model.Task
	reorderErr error
}

func newFakeTaskStore() *fakeTaskStore {
	return &fakeTaskStore{byID: make(map[uuid.UUID]*model.Task)}
}

func (f *fakeTaskStore) Create(ctx context.Context, task *model.Task) error {
	if task.CreatedAt.IsZero() {
		task.CreatedAt = time.Now()
	}
	f.byID[task.ID] = task
	return nil
}

func (f *fakeTaskStore) GetByID(ctx context.Context, id uuid.UUID) (*model.Task, error) {
	task, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrTaskNotFound
	}
	return task, nil
}

func (f *fakeTaskStore) GetByProjectAndID(ctx context.Context, projectID, taskID uuid.UUID) (*model.Task, error) {
	task, ok := f.byID[taskID]
	if !ok || task.ProjectID != projectID {
		return nil, repository.ErrTaskNotFound
	}
	return task, nil
}

func (f *fakeTaskStore) ListByProject(ctx context.Context, projectID uuid.UUID, filter repository.TaskFilter) ([]model.Task, int64, error) {
	var matched []model.Task
	for _, t := range f.byID {
		if t.ProjectID != projectID {
			continue
		}
		if filter.Status != "" && t.Status != filter.Status {
			continue
		}
		if filter.Priority != "" && t.Priority != filter.Priority {
			continue
		}
		if filter.Assignee != nil && (t.AssigneeID == nil || *t.AssigneeID != *filter.Assignee) {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(t.Title), strings.ToLower(filter.Search)) {
			continue
		}
		matched = append(matched, *t)
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].Order != matched[j].Order {
			return matched[i].Order < matched[j].Order
		}
		return matched[i].CreatedAt.Before(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	start := (filter.Page - 1) * filter.Limit
	if start > len(matched) {
		start = len(matched)
	}
	end := start + filter.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (f *fakeTaskStore) MaxOrder(ctx context.Context, projectID uuid.UUID, status model.TaskStatus) (int, error) {
	max := -1
	for _, t := range f.byID {
		if t.ProjectID == projectID && t.Status == status && t.Order > max {
			max = t.Order
		}
	}
	return max, nil
}

func (f *fakeTaskStore) Save(ctx context.Context, task *model.Task) error {
	if _, ok := f.byID[task.ID]; !ok {
		return repository.ErrTaskNotFound
	}
	f.byID[task.ID] = task
	return nil
}

func (f *fakeTaskStore) BulkReorder(ctx context.Context, projectID uuid.UUID, items []repository.ReorderItem) (int64, error) {
	if f.reorderErr != nil {
		return 0, f.reorderErr
	}
	var applied int64
	for _, item := range items {
		task, ok := f.byID[item.TaskID]
		if !ok || task.ProjectID != projectID {
			continue
		}
		task.Status = item.Status
		task.Order = item.Order
		if item.Status == model.StatusDone {
			if task.CompletedAt == nil {
				now := time.Now()
				task.CompletedAt = &now
			}
		} else {
			task.CompletedAt = nil
		}
		applied++
	}
	return applied, nil
}

func (f *fakeTaskStore) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := f.byID[id]; !ok {
		return repository.ErrTaskNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeTaskStore) DeleteByProject(ctx context.Context, projectID uuid.UUID) error {
	for id, t := range f.byID {
		if t.ProjectID == projectID {
			delete(f.byID, id)
		}
	}
	return nil
}

type fakeCommentStore struct {
	byID map[uuid.UUID]*model.Comment
}

func newFakeCommentStore() *fakeCommentStore {
	return &fakeCommentStore{byID: make(map[uuid.UUID]*model.Comment)}
}

func (f *fakeCommentStore) Create(ctx context.Context, comment *model.Comment) error {
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = time.Now()
	}
	f.byID[comment.ID] = comment
	return nil
}

func (f *fakeCommentStore) GetByID(ctx context.Context, id uuid.UUID) (*model.Comment, error) {
	comment, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrCommentNotFound
	}
	return comment, nil
}

func (f *fakeCommentStore) ListByTask(ctx context.Context, taskID uuid.UUID) ([]model.Comment, error) {
	var out []model.Comment
	for _, c := range f.byID {
		if c.TaskID == taskID {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeCommentStore) Save(ctx context.Context, comment *model.Comment) error {
	if _, ok := f.byID[comment.ID]; !ok {
		return repository.ErrCommentNotFound
	}
	f.byID[comment.ID] = comment
	return nil
}

func (f *fakeCommentStore) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := f.byID[id]; !ok {
		return repository.ErrCommentNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeCommentStore) DeleteByTask(ctx context.Context, taskID uuid.UUID) error {
	for id, c := range f.byID {
		if c.TaskID == taskID {
			delete(f.byID, id)
		}
	}
	return nil
}

type fakeAttachmentStore struct {
	byID map[uuid.UUID]*model.Attachment
}

func newFakeAttachmentStore() *fakeAttachmentStore {
	return &fakeAttachmentStore{byID: make(map[uuid.UUID]*model.Attachment)}
}

func (f *fakeAttachmentStore) Create(ctx context.Context, attachment *model.Attachment) error {
	f.byID[attachment.ID] = attachment
	return nil
}

func (f *fakeAttachmentStore) GetByTaskAndID(ctx context.Context, taskID, id uuid.UUID) (*model.Attachment, error) {
	attachment, ok := f.byID[id]
	if !ok || attachment.TaskID != taskID {
		return nil, repository.ErrAttachmentNotFound
	}
	return attachment, nil
}

func (f *fakeAttachmentStore) ListByTask(ctx context.Context, taskID uuid.UUID) ([]model.Attachment, error) {
	var out []model.Attachment
	for _, a := range f.byID {
		if a.TaskID == taskID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeAttachmentStore) Delete(ctx context.Context, id uuid.UUID) error {
	delete(f.byID, id)
	return nil
}

func (f *fakeAttachmentStore) DeleteByTask(ctx context.Context, taskID uuid.UUID) error {
	for id, a := range f.byID {
		if a.TaskID == taskID {
			delete(f.byID, id)
		}
	}
	return nil
}

type fakeActivityStore struct {
	entries []model.ActivityLog
}

func (f *fakeActivityStore) Create(ctx context.Context, entry *model.ActivityLog) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeActivityStore) ListByProject(ctx context.Context, projectID uuid.UUID, page, limit int) ([]model.ActivityLog, int64, error) {
	var matched []model.ActivityLog
	for _, e := range f.entries {
		if e.ProjectID == projectID {
			matched = append(matched, e)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })

	total := int64(len(matched))
	start := (page - 1) * limit
	if start > len(matched) {
		start = len(matched)
	}
	end := start + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (f *fakeActivityStore) DeleteByProject(ctx context.Context, projectID uuid.UUID) error {
	kept := f.entries[:0]
	for _, e := range f.entries {
		if e.ProjectID != projectID {
			kept = append(kept, e)
		}
	}
	f.entries = kept
	return nil
}

type fakeUserStore struct {
	byID map[uuid.UUID]*model.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{byID: make(map[uuid.UUID]*model.User)}
}

func (f *fakeUserStore) add(user *model.User) { f.byID[user.ID] = user }

func (f *fakeUserStore) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return f.byID[id], nil
}

func (f *fakeUserStore) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	for _, u := range f.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

type fakeFileStore struct {
	stored   map[string]string
	deleted  []string
	storeErr error
	delErr   error
}

func newFakeFileStore() *fakeFileStore {
	return &fakeFileStore{stored: make(map[string]string)}
}

func (f *fakeFileStore) Store(ctx context.Context, name string, content io.Reader) (StoredFile, error) {
	if f.storeErr != nil {
		return StoredFile{}, f.storeErr
	}
	data, err := io.ReadAll(content)
	if err != nil {
		return StoredFile{}, err
	}
	externalID := uuid.New().String()
	f.stored[externalID] = name
	return StoredFile{
		URL:        "/uploads/" + externalID,
		ExternalID: externalID,
		Size:       int64(len(data)),
	}, nil
}

func (f *fakeFileStore) Delete(ctx context.Context, externalID string) error {
	f.deleted = append(f.deleted, externalID)
	if f.delErr != nil {
		return f.delErr
	}
	delete(f.stored, externalID)
	return nil
}

// recorderSpy captures audit events instead of persisting them.
type recordedEvent struct {
	ProjectID uuid.UUID
	TaskID    *uuid.UUID
	UserID    uuid.UUID
	Action    model.Action
	Meta      map[string]any
}

type recorderSpy struct {
	events []recordedEvent
}

func (r *recorderSpy) Record(ctx context.Context, projectID uuid.UUID, taskID *uuid.UUID, userID uuid.UUID, action model.Action, meta map[string]any) {
	r.events = append(r.events, recordedEvent{
		ProjectID: projectID,
		TaskID:    taskID,
		UserID:    userID,
		Action:    action,
		Meta:      meta,
	})
}

func (r *recorderSpy) last() recordedEvent {
	return r.events[len(r.events)-1]
}

func (r *recorderSpy) actions() []model.Action {
	out := make([]model.Action, len(r.events))
	for i, e := range r.events {
		out[i] = e.Action
	}
	return out
}

var errBoom = errors.New("boom")
