// internal/executors/blocked.go
package executors

import (
	"context"
	"strings"
	"time"

	stderrors "voice-assistant/internal/common/errors"
	"voice-assistant/internal/common/logger"
	"voice-assistant/internal/match"
	"voice-assistant/internal/models"
	"voice-assistant/internal/store"

	"github.com/google/uuid"
)

// BlockedExecutor handles blocked-task records.
type BlockedExecutor struct {
	blocked store.BlockedTaskStore
	log     logger.Logger
}

func NewBlockedExecutor(blocked store.BlockedTaskStore, log logger.Logger) *BlockedExecutor {
	return &BlockedExecutor{blocked: blocked, log: log}
}

// MarkBlocked records a task as blocked. Re-blocking a title that is already
// blocked is idempotent: the existing record is returned unchanged and
// alreadyBlocked is true. A title that was blocked and then unblocked can be
// blocked again as a fresh record.
func (e *BlockedExecutor) MarkBlocked(ctx context.Context, userID, title, reason string) (*models.BlockedTask, bool, error) {
	title = strings.TrimSpace(title)
	existing, err := e.blocked.FindByTitle(ctx, userID, title, models.StatusBlocked)
	if err != nil {
		return nil, false, stderrors.NewStoreQueryFailedError(err)
	}
	if existing != nil {
		return existing, true, nil
	}

	task := &models.BlockedTask{
		ID:        uuid.NewString(),
		UserID:    userID,
		TaskTitle: title,
		Reason:    strings.TrimSpace(reason),
		Status:    models.StatusBlocked,
		BlockedAt: time.Now().UTC(),
	}
	if err := e.blocked.Insert(ctx, task); err != nil {
		return nil, false, stderrors.NewStoreInsertFailedError(err)
	}
	e.log.Info("task marked blocked", map[string]interface{}{
		"user_id": userID,
		"task_id": task.ID,
		"title":   task.TaskTitle,
	})
	return task, false, nil
}

// List returns the caller's currently blocked tasks, newest first.
func (e *BlockedExecutor) List(ctx context.Context, userID string) ([]models.BlockedTask, error) {
	tasks, err := e.blocked.Query(ctx, models.BlockedTaskFilter{
		UserID: userID,
		Status: models.StatusBlocked,
	})
	if err != nil {
		return nil, stderrors.NewStoreQueryFailedError(err)
	}
	return tasks, nil
}

// Filter returns blocked-task records matching arbitrary filter fields.
func (e *BlockedExecutor) Filter(ctx context.Context, filter models.BlockedTaskFilter) ([]models.BlockedTask, error) {
	tasks, err := e.blocked.Query(ctx, filter)
	if err != nil {
		return nil, stderrors.NewStoreQueryFailedError(err)
	}
	return tasks, nil
}

// UnblockResult reports the outcome of an unblock attempt. Exactly one case
// holds: Unblocked is set, AlreadyUnblocked is set, Suggestions is non-empty,
// or all are empty (no record resembled the title).
type UnblockResult struct {
	Unblocked        *models.BlockedTask
	AlreadyUnblocked *models.BlockedTask
	Suggestions      []models.BlockedTask
}

// Unblock resolves the title against the caller's blocked tasks. The lookup
// is exact ignoring case; when that misses, a record that was already
// unblocked under the same title gets a distinct answer, and finally the
// remaining blocked titles are fuzzily matched into suggestions.
func (e *BlockedExecutor) Unblock(ctx context.Context, userID, title string) (UnblockResult, error) {
	title = strings.TrimSpace(title)

	blocked, err := e.blocked.FindByTitle(ctx, userID, title, models.StatusBlocked)
	if err != nil {
		return UnblockResult{}, stderrors.NewStoreQueryFailedError(err)
	}
	if blocked != nil {
		unblocked, err := e.blocked.Unblock(ctx, blocked.ID, time.Now().UTC())
		if err != nil {
			return UnblockResult{}, stderrors.NewStoreQueryFailedError(err)
		}
		e.log.Info("task unblocked", map[string]interface{}{
			"user_id": userID,
			"task_id": unblocked.ID,
		})
		return UnblockResult{Unblocked: unblocked}, nil
	}

	already, err := e.blocked.FindByTitle(ctx, userID, title, models.StatusUnblocked)
	if err != nil {
		return UnblockResult{}, stderrors.NewStoreQueryFailedError(err)
	}
	if already != nil {
		return UnblockResult{AlreadyUnblocked: already}, nil
	}

	candidates, err := e.List(ctx, userID)
	if err != nil {
		return UnblockResult{}, err
	}
	byID := make(map[string]models.BlockedTask, len(candidates))
	matchable := make([]match.Candidate, 0, len(candidates))
	for _, task := range candidates {
		byID[task.ID] = task
		matchable = append(matchable, match.Candidate{ID: task.ID, Text: task.TaskTitle})
	}

	resolved := match.Resolve(title, matchable)
	var suggestions []models.BlockedTask
	if resolved.Match != nil {
		suggestions = append(suggestions, byID[resolved.Match.ID])
	}
	for _, c := range resolved.Suggestions {
		suggestions = append(suggestions, byID[c.ID])
	}
	return UnblockResult{Suggestions: suggestions}, nil
}

// UpdateReason replaces the blocking reason on a record by id.
func (e *BlockedExecutor) UpdateReason(ctx context.Context, id, reason string) (*models.BlockedTask, error) {
	task, err := e.blocked.UpdateReason(ctx, id, strings.TrimSpace(reason))
	if err != nil {
		if err == store.ErrNotFound {
			return nil, stderrors.NewTaskNotFoundError(id)
		}
		return nil, stderrors.NewStoreQueryFailedError(err)
	}
	return task, nil
}

// Delete removes a blocked-task record by id.
func (e *BlockedExecutor) Delete(ctx context.Context, id string) (*models.BlockedTask, error) {
	task, err := e.blocked.DeleteByID(ctx, id)
	if err != nil {
		if err == store.ErrNotFound {
			return nil, stderrors.NewTaskNotFoundError(id)
		}
		return nil, stderrors.NewStoreQueryFailedError(err)
	}
	return task, nil
}
