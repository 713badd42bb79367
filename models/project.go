package models

import (
	"time"

	"github.com/google/uuid"
)

// Project is the root of the ownership chain. Every task, milestone, idea
// dump and Q&A record hangs off exactly one project, and every query that
// touches them filters by the owning user through this row.
type Project struct {
	ID            uuid.UUID `json:"id"`
	UserID        uuid.UUID `json:"userId"`
	Name          string    `json:"name"`
	SummaryBanner *string   `json:"summaryBanner"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type CreateProjectRequest struct {
	Name string `json:"name" binding:"required,min=1,max=100"`
}

type UpdateProjectRequest struct {
	Name *string `json:"name" binding:"omitempty,min=1,max=100"`
}

// UpdateSummaryRequest sets the project banner shown above the board.
type UpdateSummaryRequest struct {
	SummaryBanner string `json:"summaryBanner" binding:"max=220"`
}
