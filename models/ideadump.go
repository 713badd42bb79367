package models

import (
	"time"

	"github.com/google/uuid"
)

// IdeaDump is a raw text or transcribed-audio input that seeds an Insight.
// Exactly one of ContentText or Transcript is expected to be present.
// UserID is denormalized from the project for direct auditing.
type IdeaDump struct {
	ID          uuid.UUID `json:"id"`
	ProjectID   uuid.UUID `json:"projectId"`
	UserID      uuid.UUID `json:"userId"`
	ContentText *string   `json:"contentText"`
	AudioURL    *string   `json:"audioUrl"`
	Transcript  *string   `json:"transcript"`
	CreatedAt   time.Time `json:"createdAt"`
}

// SuggestedTask is one actionable item proposed by the analyst model.
type SuggestedTask struct {
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
}

// Insight holds the AI-derived analysis of one idea dump.
type Insight struct {
	ID              uuid.UUID       `json:"id"`
	IdeaDumpID      uuid.UUID       `json:"ideaDumpId"`
	ShortSummary    []string        `json:"shortSummary"`
	Recommendations []string        `json:"recommendations"`
	SuggestedTasks  []SuggestedTask `json:"suggestedTasks"`
	Pinned          *bool           `json:"pinned"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// InsightData is the payload returned by the summarization collaborator.
type InsightData struct {
	ShortSummary    []string        `json:"shortSummary"`
	Recommendations []string        `json:"recommendations"`
	SuggestedTasks  []SuggestedTask `json:"suggestedTasks"`
}

// InsightWithSource pairs an insight with the idea-dump content it came
// from, for the project insights listing.
type InsightWithSource struct {
	Insight
	Source InsightSource `json:"ideaDump"`
}

type InsightSource struct {
	ContentText *string   `json:"contentText"`
	Transcript  *string   `json:"transcript"`
	AudioURL    *string   `json:"audioUrl"`
	CreatedAt   time.Time `json:"createdAt"`
}

type CreateTextIdeaDumpRequest struct {
	ContentText string `json:"contentText" binding:"required,min=1"`
}

type PinInsightRequest struct {
	Pinned *bool `json:"pinned" binding:"required"`
}

// IdeaDumpResult is the response for both ingestion endpoints.
type IdeaDumpResult struct {
	IdeaDump IdeaDump `json:"ideaDump"`
	Insight  Insight  `json:"insight"`
}
