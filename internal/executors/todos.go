// Package executors implements the action side of the dispatch pipeline: one
// narrow executor per record family, all speaking store interfaces so the
// in-memory and postgres backends are interchangeable. Executors return
// structured outcomes; turning those into spoken responses is the
// dispatcher's job.
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

// TodoExecutor handles the caller's personal todo list.
type TodoExecutor struct {
	todos store.TodoStore
	log   logger.Logger
}

func NewTodoExecutor(todos store.TodoStore, log logger.Logger) *TodoExecutor {
	return &TodoExecutor{todos: todos, log: log}
}

// Create stores a new todo for the caller.
func (e *TodoExecutor) Create(ctx context.Context, userID, text string) (*models.TodoItem, error) {
	item := &models.TodoItem{
		ID:        uuid.NewString(),
		UserID:    userID,
		Text:      strings.TrimSpace(text),
		CreatedAt: time.Now().UTC(),
	}
	if err := e.todos.Insert(ctx, item); err != nil {
		return nil, stderrors.NewStoreInsertFailedError(err)
	}
	e.log.Info("todo created", map[string]interface{}{
		"user_id": userID,
		"todo_id": item.ID,
	})
	return item, nil
}

// List returns the caller's todos in creation order.
func (e *TodoExecutor) List(ctx context.Context, userID string) ([]models.TodoItem, error) {
	items, err := e.todos.ListByUser(ctx, userID)
	if err != nil {
		return nil, stderrors.NewStoreQueryFailedError(err)
	}
	return items, nil
}

// CompleteResult reports the outcome of resolving a spoken fragment against
// the caller's todo list. Exactly one of the cases holds: Completed is set,
// Suggestions is non-empty, or both are empty (nothing resembled the
// fragment).
type CompleteResult struct {
	Completed   *models.TodoItem
	Suggestions []models.TodoItem
}

// Complete resolves the fragment against the caller's todos and removes the
// match. Completion is deletion; there is no completed state on todos.
func (e *TodoExecutor) Complete(ctx context.Context, userID, fragment string) (CompleteResult, error) {
	items, err := e.todos.ListByUser(ctx, userID)
	if err != nil {
		return CompleteResult{}, stderrors.NewStoreQueryFailedError(err)
	}

	byID := make(map[string]models.TodoItem, len(items))
	candidates := make([]match.Candidate, 0, len(items))
	for _, item := range items {
		byID[item.ID] = item
		candidates = append(candidates, match.Candidate{ID: item.ID, Text: item.Text})
	}

	resolved := match.Resolve(fragment, candidates)
	if resolved.Match != nil {
		deleted, err := e.todos.DeleteByID(ctx, userID, resolved.Match.ID)
		if err != nil {
			if err == store.ErrNotFound {
				return CompleteResult{}, nil
			}
			return CompleteResult{}, stderrors.NewStoreQueryFailedError(err)
		}
		e.log.Info("todo completed", map[string]interface{}{
			"user_id": userID,
			"todo_id": deleted.ID,
		})
		return CompleteResult{Completed: deleted}, nil
	}

	var suggestions []models.TodoItem
	for _, c := range resolved.Suggestions {
		suggestions = append(suggestions, byID[c.ID])
	}
	return CompleteResult{Suggestions: suggestions}, nil
}
