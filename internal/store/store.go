// Package store defines the keyed record stores behind the action executors.
// Two implementations exist: an in-memory store for tests and development,
// and a PostgreSQL store for deployment. Both honor the same ordering and
// case-insensitivity contracts.
package store

import (
	"context"
	"errors"
	"time"

	"voice-assistant/internal/models"
)

// ErrNotFound is returned by id-scoped operations when no record matches.
var ErrNotFound = errors.New("record not found")

// TodoStore persists todo items. ListByUser returns items in creation order.
type TodoStore interface {
	Insert(ctx context.Context, item *models.TodoItem) error
	ListByUser(ctx context.Context, userID string) ([]models.TodoItem, error)
	DeleteByID(ctx context.Context, userID, id string) (*models.TodoItem, error)
}

// NoteStore persists notes. ListByUser returns items newest first.
type NoteStore interface {
	Insert(ctx context.Context, item *models.NoteItem) error
	ListByUser(ctx context.Context, userID string) ([]models.NoteItem, error)
	DeleteByID(ctx context.Context, userID, id string) (*models.NoteItem, error)
}

// AssignedTaskStore persists tasks assigned by one user to a named teammate.
// Query matches AssignedTo case-insensitively and exactly; results are
// newest first.
type AssignedTaskStore interface {
	Insert(ctx context.Context, task *models.AssignedTask) error
	Query(ctx context.Context, filter models.AssignedTaskFilter) ([]models.AssignedTask, error)
	UpdateStatus(ctx context.Context, id string, status models.TaskStatus, completedAt *time.Time) (*models.AssignedTask, error)
	DeleteByID(ctx context.Context, id string) (*models.AssignedTask, error)
}

// BlockedTaskStore persists blocked-task records. FindByTitle matches the
// title case-insensitively and exactly within one owner and status, and
// returns (nil, nil) when nothing matches.
type BlockedTaskStore interface {
	Insert(ctx context.Context, task *models.BlockedTask) error
	FindByTitle(ctx context.Context, userID, title string, status models.BlockedStatus) (*models.BlockedTask, error)
	Query(ctx context.Context, filter models.BlockedTaskFilter) ([]models.BlockedTask, error)
	Unblock(ctx context.Context, id string, at time.Time) (*models.BlockedTask, error)
	UpdateReason(ctx context.Context, id, reason string) (*models.BlockedTask, error)
	DeleteByID(ctx context.Context, id string) (*models.BlockedTask, error)
}

// Stores bundles the four record stores for wiring.
type Stores struct {
	Todos    TodoStore
	Notes    NoteStore
	Assigned AssignedTaskStore
	Blocked  BlockedTaskStore
}
