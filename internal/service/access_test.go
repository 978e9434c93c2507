package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"taskflow/internal/model"
)

func TestResolveProjectAccess(t *testing.T) {
	owner := uuid.New()
	member := uuid.New()
	project := &model.Project{
		ID:      uuid.New(),
		OwnerID: owner,
		Members: []model.User{{ID: member}},
	}

	tests := []struct {
		name string
		p    Principal
		want AccessLevel
	}{
		{"owner", Principal{UserID: owner, Role: model.RoleMember}, AccessOwner},
		{"member", Principal{UserID: member, Role: model.RoleMember}, AccessMember},
		{"outsider", Principal{UserID: uuid.New(), Role: model.RoleMember}, AccessNone},
		{"admin outsider", Principal{UserID: uuid.New(), Role: model.RoleAdmin}, AccessAdmin},
		{"owner who is also admin", Principal{UserID: owner, Role: model.RoleAdmin}, AccessAdmin},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveProjectAccess(project, tt.p))
		})
	}
}

func TestOwnerNotInMemberListStillOwner(t *testing.T) {
	// The owner counts even when the member rows were never written.
	owner := uuid.New()
	project := &model.Project{ID: uuid.New(), OwnerID: owner}

	level := ResolveProjectAccess(project, Principal{UserID: owner, Role: model.RoleMember})
	assert.Equal(t, AccessOwner, level)
	assert.True(t, CanMutateProject(project, Principal{UserID: owner, Role: model.RoleMember}))
}

func TestCanDeleteTask(t *testing.T) {
	owner := uuid.New()
	creator := uuid.New()
	bystander := uuid.New()
	project := &model.Project{
		ID:      uuid.New(),
		OwnerID: owner,
		Members: []model.User{{ID: creator}, {ID: bystander}},
	}
	task := &model.Task{ID: uuid.New(), ProjectID: project.ID, CreatedBy: creator}

	assert.True(t, CanDeleteTask(project, task, Principal{UserID: owner, Role: model.RoleMember}))
	assert.True(t, CanDeleteTask(project, task, Principal{UserID: creator, Role: model.RoleMember}))
	assert.True(t, CanDeleteTask(project, task, Principal{UserID: uuid.New(), Role: model.RoleAdmin}))
	assert.False(t, CanDeleteTask(project, task, Principal{UserID: bystander, Role: model.RoleMember}))
}

func TestCommentPermissions(t *testing.T) {
	author := uuid.New()
	comment := &model.Comment{ID: uuid.New(), AuthorID: author}

	assert.True(t, CanEditComment(comment, Principal{UserID: author, Role: model.RoleMember}))
	assert.False(t, CanEditComment(comment, Principal{UserID: uuid.New(), Role: model.RoleAdmin}))

	assert.True(t, CanDeleteComment(comment, Principal{UserID: author, Role: model.RoleMember}))
	assert.True(t, CanDeleteComment(comment, Principal{UserID: uuid.New(), Role: model.RoleAdmin}))
	assert.False(t, CanDeleteComment(comment, Principal{UserID: uuid.New(), Role: model.RoleMember}))
}

func TestResolveProjectHidesExistence(t *testing.T) {
	f := newFixture(t)

	// A project the caller cannot see errors exactly like one that does
	// not exist.
	_, _, errInvisible := resolveProject(ctxb(), f.projects, f.outsider, f.project.ID)
	_, _, errMissing := resolveProject(ctxb(), f.projects, f.outsider, uuid.New())

	assert.ErrorIs(t, errInvisible, ErrNotFound)
	assert.ErrorIs(t, errMissing, ErrNotFound)
	assert.Equal(t, errMissing.Error(), errInvisible.Error())
}
