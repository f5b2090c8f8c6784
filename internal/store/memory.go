// internal/store/memory.go
package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"voice-assistant/internal/models"
)

// MemoryStores is an in-process implementation of all four stores. Every
// operation takes the shared lock, so concurrent requests see
// delete-if-present semantics: the second of two identical deletes reports
// ErrNotFound.
type MemoryStores struct {
	mu       sync.Mutex
	todos    []models.TodoItem
	notes    []models.NoteItem
	assigned []models.AssignedTask
	blocked  []models.BlockedTask
}

func NewMemoryStores() *MemoryStores {
	return &MemoryStores{}
}

// Bundle returns the store set backed by this instance.
func (m *MemoryStores) Bundle() Stores {
	return Stores{
		Todos:    &memTodoStore{m},
		Notes:    &memNoteStore{m},
		Assigned: &memAssignedStore{m},
		Blocked:  &memBlockedStore{m},
	}
}

// --- TodoStore ---

type memTodoStore struct{ m *MemoryStores }

func (s *memTodoStore) Insert(ctx context.Context, item *models.TodoItem) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	s.m.todos = append(s.m.todos, *item)
	return nil
}

func (s *memTodoStore) ListByUser(ctx context.Context, userID string) ([]models.TodoItem, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	var out []models.TodoItem
	for _, t := range s.m.todos {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *memTodoStore) DeleteByID(ctx context.Context, userID, id string) (*models.TodoItem, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	for i, t := range s.m.todos {
		if t.UserID == userID && t.ID == id {
			deleted := t
			s.m.todos = append(s.m.todos[:i], s.m.todos[i+1:]...)
			return &deleted, nil
		}
	}
	return nil, ErrNotFound
}

// --- NoteStore ---

type memNoteStore struct{ m *MemoryStores }

func (s *memNoteStore) Insert(ctx context.Context, item *models.NoteItem) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	s.m.notes = append(s.m.notes, *item)
	return nil
}

func (s *memNoteStore) ListByUser(ctx context.Context, userID string) ([]models.NoteItem, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	var out []models.NoteItem
	for _, n := range s.m.notes {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	// Notes list newest first
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *memNoteStore) DeleteByID(ctx context.Context, userID, id string) (*models.NoteItem, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	for i, n := range s.m.notes {
		if n.UserID == userID && n.ID == id {
			deleted := n
			s.m.notes = append(s.m.notes[:i], s.m.notes[i+1:]...)
			return &deleted, nil
		}
	}
	return nil, ErrNotFound
}

// --- AssignedTaskStore ---

type memAssignedStore struct{ m *MemoryStores }

func (s *memAssignedStore) Insert(ctx context.Context, task *models.AssignedTask) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	s.m.assigned = append(s.m.assigned, *task)
	return nil
}

func (s *memAssignedStore) Query(ctx context.Context, filter models.AssignedTaskFilter) ([]models.AssignedTask, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	var out []models.AssignedTask
	for _, t := range s.m.assigned {
		if filter.AssignedTo != "" && !strings.EqualFold(t.AssignedTo, filter.AssignedTo) {
			continue
		}
		if filter.AssignedBy != "" && t.AssignedBy != filter.AssignedBy {
			continue
		}
		if filter.Status != "" && t.Status != filter.Status {
			continue
		}
		out = append(out, t)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *memAssignedStore) UpdateStatus(ctx context.Context, id string, status models.TaskStatus, completedAt *time.Time) (*models.AssignedTask, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	for i := range s.m.assigned {
		if s.m.assigned[i].ID == id {
			s.m.assigned[i].Status = status
			s.m.assigned[i].CompletedAt = completedAt
			updated := s.m.assigned[i]
			return &updated, nil
		}
	}
	return nil, ErrNotFound
}

func (s *memAssignedStore) DeleteByID(ctx context.Context, id string) (*models.AssignedTask, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	for i, t := range s.m.assigned {
		if t.ID == id {
			deleted := t
			s.m.assigned = append(s.m.assigned[:i], s.m.assigned[i+1:]...)
			return &deleted, nil
		}
	}
	return nil, ErrNotFound
}

// --- BlockedTaskStore ---

type memBlockedStore struct{ m *MemoryStores }

func (s *memBlockedStore) Insert(ctx context.Context, task *models.BlockedTask) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	s.m.blocked = append(s.m.blocked, *task)
	return nil
}

func (s *memBlockedStore) FindByTitle(ctx context.Context, userID, title string, status models.BlockedStatus) (*models.BlockedTask, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	for _, t := range s.m.blocked {
		if t.UserID == userID && t.Status == status && strings.EqualFold(t.TaskTitle, title) {
			found := t
			return &found, nil
		}
	}
	return nil, nil
}

func (s *memBlockedStore) Query(ctx context.Context, filter models.BlockedTaskFilter) ([]models.BlockedTask, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	var out []models.BlockedTask
	for _, t := range s.m.blocked {
		if filter.UserID != "" && t.UserID != filter.UserID {
			continue
		}
		if filter.Status != "" && t.Status != filter.Status {
			continue
		}
		out = append(out, t)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].BlockedAt.After(out[j].BlockedAt) })
	return out, nil
}

func (s *memBlockedStore) Unblock(ctx context.Context, id string, at time.Time) (*models.BlockedTask, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	for i := range s.m.blocked {
		if s.m.blocked[i].ID == id && s.m.blocked[i].Status == models.StatusBlocked {
			s.m.blocked[i].Status = models.StatusUnblocked
			s.m.blocked[i].UnblockedAt = &at
			updated := s.m.blocked[i]
			return &updated, nil
		}
	}
	return nil, ErrNotFound
}

func (s *memBlockedStore) UpdateReason(ctx context.Context, id, reason string) (*models.BlockedTask, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	for i := range s.m.blocked {
		if s.m.blocked[i].ID == id {
			s.m.blocked[i].Reason = reason
			updated := s.m.blocked[i]
			return &updated, nil
		}
	}
	return nil, ErrNotFound
}

func (s *memBlockedStore) DeleteByID(ctx context.Context, id string) (*models.BlockedTask, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	for i, t := range s.m.blocked {
		if t.ID == id {
			deleted := t
			s.m.blocked = append(s.m.blocked[:i], s.m.blocked[i+1:]...)
			return &deleted, nil
		}
	}
	return nil, ErrNotFound
}
