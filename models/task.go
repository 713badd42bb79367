package models

import (
	"time"

	"github.com/google/uuid"
)

type TaskStatus string

const (
	StatusTodo       TaskStatus = "TODO"
	StatusInProgress TaskStatus = "IN_PROGRESS"
	StatusDone       TaskStatus = "DONE"
)

// Task belongs to one project. Position defines the board order: new tasks
// get a millisecond-timestamp position so they sort after everything
// existing, and a reorder rewrites positions to the dense sequence 0..N-1.
type Task struct {
	ID          uuid.UUID  `json:"id"`
	ProjectID   uuid.UUID  `json:"projectId"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Status      TaskStatus `json:"status"`
	Position    int64      `json:"position"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

type CreateTaskRequest struct {
	Title       string     `json:"title" binding:"required,min=1,max=200"`
	Description *string    `json:"description"`
	Status      TaskStatus `json:"status" binding:"omitempty,oneof=TODO IN_PROGRESS DONE"`
}

type UpdateTaskRequest struct {
	Title       *string     `json:"title" binding:"omitempty,min=1,max=200"`
	Description *string     `json:"description"`
	Status      *TaskStatus `json:"status" binding:"omitempty,oneof=TODO IN_PROGRESS DONE"`
	Position    *int64      `json:"position"`
}

type ReorderTasksRequest struct {
	OrderedIDs []uuid.UUID `json:"orderedIds" binding:"required"`
}
