package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskflow/internal/model"
	"taskflow/internal/repository"
)

func TestNextOrderEmptyColumn(t *testing.T) {
	tasks := newFakeTaskStore()
	engine := NewBoardEngine(tasks)

	order, err := engine.NextOrder(ctxb(), uuid.New(), model.StatusTodo)
	require.NoError(t, err)
	assert.Equal(t, 0, order)
}

func TestNextOrderAppendsPastMax(t *testing.T) {
	tasks := newFakeTaskStore()
	engine := NewBoardEngine(tasks)
	projectID := uuid.New()

	for i := 0; i < 3; i++ {
		tasks.byID[uuid.New()] = &model.Task{ID: uuid.New(), ProjectID: projectID, Status: model.StatusTodo, Order: i}
	}
	// A different column does not influence the append position.
	tasks.byID[uuid.New()] = &model.Task{ID: uuid.New(), ProjectID: projectID, Status: model.StatusDone, Order: 9}

	order, err := engine.NextOrder(ctxb(), projectID, model.StatusTodo)
	require.NoError(t, err)
	assert.Equal(t, 3, order)
}

func TestApplyPatchStatusChangeSetsCompletedAt(t *testing.T) {
	engine := NewBoardEngine(newFakeTaskStore())
	now := time.Now().UTC()
	task := &model.Task{Status: model.StatusInProgress}

	done := model.StatusDone
	change := engine.ApplyPatch(task, TaskPatch{Status: &done}, now)

	assert.True(t, change.Changed)
	assert.Equal(t, model.StatusInProgress, change.From)
	assert.Equal(t, model.StatusDone, change.To)
	require.NotNil(t, task.CompletedAt)
	assert.Equal(t, now, *task.CompletedAt)
}

func TestApplyPatchCompletedAtSetOnce(t *testing.T) {
	engine := NewBoardEngine(newFakeTaskStore())
	first := time.Now().UTC().Add(-time.Hour)
	task := &model.Task{Status: model.StatusDone, CompletedAt: &first}

	// Leaving done clears the timestamp.
	todo := model.StatusTodo
	engine.ApplyPatch(task, TaskPatch{Status: &todo}, time.Now().UTC())
	assert.Nil(t, task.CompletedAt)

	// Re-entering done stamps again with the new time.
	later := time.Now().UTC()
	done := model.StatusDone
	engine.ApplyPatch(task, TaskPatch{Status: &done}, later)
	require.NotNil(t, task.CompletedAt)
	assert.Equal(t, later, *task.CompletedAt)
}

func TestApplyPatchSameStatusIsNotAChange(t *testing.T) {
	engine := NewBoardEngine(newFakeTaskStore())
	stamp := time.Now().UTC().Add(-time.Hour)
	task := &model.Task{Status: model.StatusDone, CompletedAt: &stamp}

	done := model.StatusDone
	change := engine.ApplyPatch(task, TaskPatch{Status: &done}, time.Now().UTC())

	assert.False(t, change.Changed)
	// The original completion timestamp survives a repeated done.
	require.NotNil(t, task.CompletedAt)
	assert.Equal(t, stamp, *task.CompletedAt)
}

func TestApplyPatchClearFlags(t *testing.T) {
	engine := NewBoardEngine(newFakeTaskStore())
	assignee := uuid.New()
	due := time.Now().Add(24 * time.Hour)
	task := &model.Task{Status: model.StatusTodo, AssigneeID: &assignee, DueDate: &due}

	engine.ApplyPatch(task, TaskPatch{ClearAssignee: true, ClearDueDate: true}, time.Now())
	assert.Nil(t, task.AssigneeID)
	assert.Nil(t, task.DueDate)

	// An empty patch leaves everything alone.
	other := uuid.New()
	task.AssigneeID = &other
	engine.ApplyPatch(task, TaskPatch{}, time.Now())
	assert.Equal(t, &other, task.AssigneeID)
}

func TestReorderValidation(t *testing.T) {
	engine := NewBoardEngine(newFakeTaskStore())
	projectID := uuid.New()

	_, err := engine.Reorder(ctxb(), projectID, nil)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = engine.Reorder(ctxb(), projectID, []repository.ReorderItem{
		{TaskID: uuid.New(), Status: "blocked", Order: 0},
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestReorderCountsOnlyMatchedTuples(t *testing.T) {
	tasks := newFakeTaskStore()
	engine := NewBoardEngine(tasks)
	projectID := uuid.New()

	mine := &model.Task{ID: uuid.New(), ProjectID: projectID, Status: model.StatusTodo, Order: 0}
	foreign := &model.Task{ID: uuid.New(), ProjectID: uuid.New(), Status: model.StatusTodo, Order: 0}
	tasks.byID[mine.ID] = mine
	tasks.byID[foreign.ID] = foreign

	applied, err := engine.Reorder(ctxb(), projectID, []repository.ReorderItem{
		{TaskID: mine.ID, Status: model.StatusDone, Order: 2},
		{TaskID: foreign.ID, Status: model.StatusDone, Order: 3},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), applied)

	// The matched task moved and picked up a completion timestamp.
	assert.Equal(t, model.StatusDone, mine.Status)
	assert.Equal(t, 2, mine.Order)
	assert.NotNil(t, mine.CompletedAt)

	// The foreign task is untouched.
	assert.Equal(t, model.StatusTodo, foreign.Status)
	assert.Nil(t, foreign.CompletedAt)
}
