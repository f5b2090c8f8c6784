// internal/store/postgres.go
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"voice-assistant/internal/models"
)

// NewPostgresStores returns the store set backed by the given database.
// Schema is in migrations/001_init.sql.
func NewPostgresStores(db *sql.DB) Stores {
	return Stores{
		Todos:    &pgTodoStore{db},
		Notes:    &pgNoteStore{db},
		Assigned: &pgAssignedStore{db},
		Blocked:  &pgBlockedStore{db},
	}
}

// --- TodoStore ---

type pgTodoStore struct{ db *sql.DB }

func (s *pgTodoStore) Insert(ctx context.Context, item *models.TodoItem) error {
	query := `INSERT INTO todos (id, user_id, text, created_at) VALUES ($1, $2, $3, $4)`
	if _, err := s.db.ExecContext(ctx, query, item.ID, item.UserID, item.Text, item.CreatedAt); err != nil {
		return fmt.Errorf("insert todo: %w", err)
	}
	return nil
}

func (s *pgTodoStore) ListByUser(ctx context.Context, userID string) ([]models.TodoItem, error) {
	query := `SELECT id, user_id, text, created_at FROM todos WHERE user_id = $1 ORDER BY created_at ASC`
	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	defer rows.Close()

	var out []models.TodoItem
	for rows.Next() {
		var t models.TodoItem
		if err := rows.Scan(&t.ID, &t.UserID, &t.Text, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan todo: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *pgTodoStore) DeleteByID(ctx context.Context, userID, id string) (*models.TodoItem, error) {
	query := `DELETE FROM todos WHERE user_id = $1 AND id = $2 RETURNING id, user_id, text, created_at`
	var t models.TodoItem
	err := s.db.QueryRowContext(ctx, query, userID, id).Scan(&t.ID, &t.UserID, &t.Text, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("delete todo: %w", err)
	}
	return &t, nil
}

// --- NoteStore ---

type pgNoteStore struct{ db *sql.DB }

func (s *pgNoteStore) Insert(ctx context.Context, item *models.NoteItem) error {
	query := `INSERT INTO notes (id, user_id, text, created_at) VALUES ($1, $2, $3, $4)`
	if _, err := s.db.ExecContext(ctx, query, item.ID, item.UserID, item.Text, item.CreatedAt); err != nil {
		return fmt.Errorf("insert note: %w", err)
	}
	return nil
}

func (s *pgNoteStore) ListByUser(ctx context.Context, userID string) ([]models.NoteItem, error) {
	query := `SELECT id, user_id, text, created_at FROM notes WHERE user_id = $1 ORDER BY created_at DESC`
	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	defer rows.Close()

	var out []models.NoteItem
	for rows.Next() {
		var n models.NoteItem
		if err := rows.Scan(&n.ID, &n.UserID, &n.Text, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (s *pgNoteStore) DeleteByID(ctx context.Context, userID, id string) (*models.NoteItem, error) {
	query := `DELETE FROM notes WHERE user_id = $1 AND id = $2 RETURNING id, user_id, text, created_at`
	var n models.NoteItem
	err := s.db.QueryRowContext(ctx, query, userID, id).Scan(&n.ID, &n.UserID, &n.Text, &n.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("delete note: %w", err)
	}
	return &n, nil
}

// --- AssignedTaskStore ---

type pgAssignedStore struct{ db *sql.DB }

func (s *pgAssignedStore) Insert(ctx context.Context, task *models.AssignedTask) error {
	query := `INSERT INTO assigned_tasks (id, assigned_by, assigned_to, task_description, status, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := s.db.ExecContext(ctx, query,
		task.ID, task.AssignedBy, task.AssignedTo, task.TaskDescription, string(task.Status), task.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert assigned task: %w", err)
	}
	return nil
}

func (s *pgAssignedStore) Query(ctx context.Context, filter models.AssignedTaskFilter) ([]models.AssignedTask, error) {
	query := `SELECT id, assigned_by, assigned_to, task_description, status, created_at, completed_at
	          FROM assigned_tasks WHERE 1=1`
	var args []interface{}
	if filter.AssignedTo != "" {
		args = append(args, filter.AssignedTo)
		query += fmt.Sprintf(" AND LOWER(assigned_to) = LOWER($%d)", len(args))
	}
	if filter.AssignedBy != "" {
		args = append(args, filter.AssignedBy)
		query += fmt.Sprintf(" AND assigned_by = $%d", len(args))
	}
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	query += " ORDER BY created_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query assigned tasks: %w", err)
	}
	defer rows.Close()

	var out []models.AssignedTask
	for rows.Next() {
		var t models.AssignedTask
		var completedAt sql.NullTime
		if err := rows.Scan(&t.ID, &t.AssignedBy, &t.AssignedTo, &t.TaskDescription, &t.Status, &t.CreatedAt, &completedAt); err != nil {
			return nil, fmt.Errorf("scan assigned task: %w", err)
		}
		if completedAt.Valid {
			t.CompletedAt = &completedAt.Time
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *pgAssignedStore) UpdateStatus(ctx context.Context, id string, status models.TaskStatus, completedAt *time.Time) (*models.AssignedTask, error) {
	query := `UPDATE assigned_tasks SET status = $2, completed_at = $3 WHERE id = $1
	          RETURNING id, assigned_by, assigned_to, task_description, status, created_at, completed_at`
	var t models.AssignedTask
	var done sql.NullTime
	err := s.db.QueryRowContext(ctx, query, id, string(status), completedAt).
		Scan(&t.ID, &t.AssignedBy, &t.AssignedTo, &t.TaskDescription, &t.Status, &t.CreatedAt, &done)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update task status: %w", err)
	}
	if done.Valid {
		t.CompletedAt = &done.Time
	}
	return &t, nil
}

func (s *pgAssignedStore) DeleteByID(ctx context.Context, id string) (*models.AssignedTask, error) {
	query := `DELETE FROM assigned_tasks WHERE id = $1
	          RETURNING id, assigned_by, assigned_to, task_description, status, created_at, completed_at`
	var t models.AssignedTask
	var done sql.NullTime
	err := s.db.QueryRowContext(ctx, query, id).
		Scan(&t.ID, &t.AssignedBy, &t.AssignedTo, &t.TaskDescription, &t.Status, &t.CreatedAt, &done)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("delete assigned task: %w", err)
	}
	if done.Valid {
		t.CompletedAt = &done.Time
	}
	return &t, nil
}

// --- BlockedTaskStore ---

type pgBlockedStore struct{ db *sql.DB }

func (s *pgBlockedStore) Insert(ctx context.Context, task *models.BlockedTask) error {
	query := `INSERT INTO blocked_tasks (id, user_id, task_title, reason, status, blocked_at, original_task_ref)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := s.db.ExecContext(ctx, query,
		task.ID, task.UserID, task.TaskTitle, task.Reason, string(task.Status), task.BlockedAt, task.OriginalTaskRef)
	if err != nil {
		return fmt.Errorf("insert blocked task: %w", err)
	}
	return nil
}

func (s *pgBlockedStore) FindByTitle(ctx context.Context, userID, title string, status models.BlockedStatus) (*models.BlockedTask, error) {
	query := `SELECT id, user_id, task_title, reason, status, blocked_at, unblocked_at, original_task_ref
	          FROM blocked_tasks
	          WHERE user_id = $1 AND LOWER(task_title) = LOWER($2) AND status = $3
	          LIMIT 1`
	t, err := scanBlocked(s.db.QueryRowContext(ctx, query, userID, title, string(status)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find blocked task: %w", err)
	}
	return t, nil
}

func (s *pgBlockedStore) Query(ctx context.Context, filter models.BlockedTaskFilter) ([]models.BlockedTask, error) {
	query := `SELECT id, user_id, task_title, reason, status, blocked_at, unblocked_at, original_task_ref
	          FROM blocked_tasks WHERE 1=1`
	var args []interface{}
	if filter.UserID != "" {
		args = append(args, filter.UserID)
		query += fmt.Sprintf(" AND user_id = $%d", len(args))
	}
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	query += " ORDER BY blocked_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query blocked tasks: %w", err)
	}
	defer rows.Close()

	var out []models.BlockedTask
	for rows.Next() {
		var t models.BlockedTask
		var unblockedAt sql.NullTime
		var ref sql.NullString
		if err := rows.Scan(&t.ID, &t.UserID, &t.TaskTitle, &t.Reason, &t.Status, &t.BlockedAt, &unblockedAt, &ref); err != nil {
			return nil, fmt.Errorf("scan blocked task: %w", err)
		}
		if unblockedAt.Valid {
			t.UnblockedAt = &unblockedAt.Time
		}
		t.OriginalTaskRef = ref.String
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *pgBlockedStore) Unblock(ctx context.Context, id string, at time.Time) (*models.BlockedTask, error) {
	query := `UPDATE blocked_tasks SET status = 'unblocked', unblocked_at = $2
	          WHERE id = $1 AND status = 'blocked'
	          RETURNING id, user_id, task_title, reason, status, blocked_at, unblocked_at, original_task_ref`
	t, err := scanBlocked(s.db.QueryRowContext(ctx, query, id, at))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("unblock task: %w", err)
	}
	return t, nil
}

func (s *pgBlockedStore) UpdateReason(ctx context.Context, id, reason string) (*models.BlockedTask, error) {
	query := `UPDATE blocked_tasks SET reason = $2 WHERE id = $1
	          RETURNING id, user_id, task_title, reason, status, blocked_at, unblocked_at, original_task_ref`
	t, err := scanBlocked(s.db.QueryRowContext(ctx, query, id, reason))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update blocked reason: %w", err)
	}
	return t, nil
}

func (s *pgBlockedStore) DeleteByID(ctx context.Context, id string) (*models.BlockedTask, error) {
	query := `DELETE FROM blocked_tasks WHERE id = $1
	          RETURNING id, user_id, task_title, reason, status, blocked_at, unblocked_at, original_task_ref`
	t, err := scanBlocked(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("delete blocked task: %w", err)
	}
	return t, nil
}

func scanBlocked(row *sql.Row) (*models.BlockedTask, error) {
	var t models.BlockedTask
	var unblockedAt sql.NullTime
	var ref sql.NullString
	if err := row.Scan(&t.ID, &t.UserID, &t.TaskTitle, &t.Reason, &t.Status, &t.BlockedAt, &unblockedAt, &ref); err != nil {
		return nil, err
	}
	if unblockedAt.Valid {
		t.UnblockedAt = &unblockedAt.Time
	}
	t.OriginalTaskRef = ref.String
	return &t, nil
}
