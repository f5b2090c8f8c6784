// internal/models/assigned_task.go
package models

import "time"

// TaskStatus is the closed status enum for assigned tasks.
type TaskStatus string

const (
	StatusPending    TaskStatus = "pending"
	StatusInProgress TaskStatus = "in-progress"
	StatusCompleted  TaskStatus = "completed"
)

// Valid reports whether the status is a member of the closed enum.
func (s TaskStatus) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// AssignedTask is a task handed to a teammate by display name. AssignedTo is
// an unvalidated free-text name, not a resolved identity.
type AssignedTask struct {
	ID              string     `json:"id"`
	AssignedBy      string     `json:"assignedBy"`
	AssignedTo      string     `json:"assignedTo"`
	TaskDescription string     `json:"taskDescription"`
	Status          TaskStatus `json:"status"`
	CreatedAt       time.Time  `json:"createdAt"`
	CompletedAt     *time.Time `json:"completedAt,omitempty"`
}

// AssignedTaskFilter narrows assigned-task queries. AssignedTo matches
// case-insensitively and exactly when set.
type AssignedTaskFilter struct {
	AssignedTo string
	AssignedBy string
	Status     TaskStatus
}
