// internal/models/blocked_task.go
package models

import "time"

// BlockedStatus is the closed status enum for blocked tasks.
type BlockedStatus string

const (
	StatusBlocked   BlockedStatus = "blocked"
	StatusUnblocked BlockedStatus = "unblocked"
)

// BlockedTask records why a caller's task is stuck. A title can be re-blocked
// freely after it has been unblocked.
type BlockedTask struct {
	ID              string        `json:"id"`
	UserID          string        `json:"userId"`
	TaskTitle       string        `json:"taskTitle"`
	Reason          string        `json:"reason"`
	Status          BlockedStatus `json:"status"`
	BlockedAt       time.Time     `json:"blockedAt"`
	UnblockedAt     *time.Time    `json:"unblockedAt,omitempty"`
	OriginalTaskRef string        `json:"originalTaskRef,omitempty"`
}

// BlockedTaskFilter narrows blocked-task queries.
type BlockedTaskFilter struct {
	UserID string
	Status BlockedStatus
}
