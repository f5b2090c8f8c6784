// internal/models/todo.go
package models

import "time"

// TodoItem is a single todo owned by a caller.
type TodoItem struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

// NoteItem is a single note owned by a caller.
type NoteItem struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}
