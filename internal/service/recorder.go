package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"taskflow/internal/metrics"
	"taskflow/internal/model"
)

// Recorder appends audit events describing state transitions. Recording is
// fire-and-forget: the triggering operation is already committed when Record
// runs, so a failed append must never surface to the caller. The interface
// exists so tests can capture events instead of hitting a store.
type Recorder interface {
	Record(ctx context.Context, projectID uuid.UUID, taskID *uuid.UUID, userID uuid.UUID, action model.Action, meta map[string]any)
}

type activityRecorder struct {
	store ActivityStore
	log   *zap.Logger
}

func NewRecorder(store ActivityStore, log *zap.Logger) Recorder {
	return &activityRecorder{store: store, log: log}
}

func (r *activityRecorder) Record(ctx context.Context, projectID uuid.UUID, taskID *uuid.UUID, userID uuid.UUID, action model.Action, meta map[string]any) {
	entry := &model.ActivityLog{
		ID:        uuid.New(),
		ProjectID: projectID,
		TaskID:    taskID,
		UserID:    userID,
		Action:    action,
		Meta:      meta,
	}
	if err := r.store.Create(ctx, entry); err != nil {
		// Don't fail the request if the activity log fails.
		r.log.Error("activity log append failed",
			zap.String("project_id", projectID.String()),
			zap.String("action", string(action)),
			zap.Error(err),
		)
		return
	}
	metrics.IncrementActivityRecorded(string(action))
}
