package models

import (
	"time"

	"github.com/google/uuid"
)

type Milestone struct {
	ID          uuid.UUID  `json:"id"`
	ProjectID   uuid.UUID  `json:"projectId"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	DueDate     *time.Time `json:"dueDate"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

type CreateMilestoneRequest struct {
	Title       string  `json:"title" binding:"required,min=1,max=200"`
	Description *string `json:"description"`
	DueDate     *string `json:"dueDate"`
}

// UpdateMilestoneRequest has tri-state fields: an omitted field keeps the
// stored value, an explicit null (or empty date string) clears it.
type UpdateMilestoneRequest struct {
	Title       *string          `json:"title" binding:"omitempty,min=1,max=200"`
	Description Optional[string] `json:"description"`
	DueDate     Optional[string] `json:"dueDate"`
}
