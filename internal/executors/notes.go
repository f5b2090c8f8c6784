// internal/executors/notes.go
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

// NoteExecutor handles the caller's saved notes.
type NoteExecutor struct {
	notes store.NoteStore
	log   logger.Logger
}

func NewNoteExecutor(notes store.NoteStore, log logger.Logger) *NoteExecutor {
	return &NoteExecutor{notes: notes, log: log}
}

// Create stores a new note for the caller.
func (e *NoteExecutor) Create(ctx context.Context, userID, text string) (*models.NoteItem, error) {
	item := &models.NoteItem{
		ID:        uuid.NewString(),
		UserID:    userID,
		Text:      strings.TrimSpace(text),
		CreatedAt: time.Now().UTC(),
	}
	if err := e.notes.Insert(ctx, item); err != nil {
		return nil, stderrors.NewStoreInsertFailedError(err)
	}
	e.log.Info("note created", map[string]interface{}{
		"user_id": userID,
		"note_id": item.ID,
	})
	return item, nil
}

// List returns the caller's notes, newest first.
func (e *NoteExecutor) List(ctx context.Context, userID string) ([]models.NoteItem, error) {
	items, err := e.notes.ListByUser(ctx, userID)
	if err != nil {
		return nil, stderrors.NewStoreQueryFailedError(err)
	}
	return items, nil
}

// DeleteResult mirrors CompleteResult for notes.
type DeleteResult struct {
	Deleted     *models.NoteItem
	Suggestions []models.NoteItem
}

// Delete resolves the fragment against the caller's notes and removes the
// match.
func (e *NoteExecutor) Delete(ctx context.Context, userID, fragment string) (DeleteResult, error) {
	items, err := e.notes.ListByUser(ctx, userID)
	if err != nil {
		return DeleteResult{}, stderrors.NewStoreQueryFailedError(err)
	}

	byID := make(map[string]models.NoteItem, len(items))
	candidates := make([]match.Candidate, 0, len(items))
	for _, item := range items {
		byID[item.ID] = item
		candidates = append(candidates, match.Candidate{ID: item.ID, Text: item.Text})
	}

	resolved := match.Resolve(fragment, candidates)
	if resolved.Match != nil {
		deleted, err := e.notes.DeleteByID(ctx, userID, resolved.Match.ID)
		if err != nil {
			if err == store.ErrNotFound {
				return DeleteResult{}, nil
			}
			return DeleteResult{}, stderrors.NewStoreQueryFailedError(err)
		}
		e.log.Info("note deleted", map[string]interface{}{
			"user_id": userID,
			"note_id": deleted.ID,
		})
		return DeleteResult{Deleted: deleted}, nil
	}

	var suggestions []models.NoteItem
	for _, c := range resolved.Suggestions {
		suggestions = append(suggestions, byID[c.ID])
	}
	return DeleteResult{Suggestions: suggestions}, nil
}
