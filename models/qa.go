package models

import (
	"time"

	"github.com/google/uuid"
)

// QAQuestion is a persisted question/answer pair for one project.
// Helpful starts null and is set once by the feedback endpoint.
type QAQuestion struct {
	ID          uuid.UUID `json:"id"`
	ProjectID   uuid.UUID `json:"projectId"`
	Question    string    `json:"question"`
	Answer      string    `json:"answer"`
	Suggestions []string  `json:"suggestions"`
	Examples    []string  `json:"examples"`
	Helpful     *bool     `json:"helpful"`
	CreatedAt   time.Time `json:"createdAt"`
}

type AskQuestionRequest struct {
	Question        string `json:"question" binding:"required,min=5,max=500"`
	IncludeExamples *bool  `json:"includeExamples"`
}

type QAFeedbackRequest struct {
	Helpful *bool `json:"helpful" binding:"required"`
}

// QAResponse is what the advisor collaborator returns for one question.
type QAResponse struct {
	Answer         string          `json:"answer"`
	Suggestions    []string        `json:"suggestions"`
	Examples       []string        `json:"examples,omitempty"`
	SuggestedTasks []SuggestedTask `json:"suggestedTasks,omitempty"`
}

// ProjectStats are the aggregate counts included in the Q&A context.
type ProjectStats struct {
	TotalTasks         int `json:"totalTasks"`
	CompletedTasks     int `json:"completedTasks"`
	TotalInsights      int `json:"totalInsights"`
	UpcomingMilestones int `json:"upcomingMilestones"`
}

type ContextTask struct {
	Title       string  `json:"title"`
	Status      string  `json:"status"`
	Description *string `json:"description,omitempty"`
}

type ContextMilestone struct {
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
}

type ContextInsight struct {
	Summary         []string        `json:"summary"`
	Recommendations []string        `json:"recommendations"`
	SuggestedTasks  []SuggestedTask `json:"suggestedTasks"`
	Source          *string         `json:"source,omitempty"`
	Date            time.Time       `json:"date"`
}

// ProjectContext is the snapshot of owned data handed to the advisor
// model with each question. Built purely from the caller's own rows.
type ProjectContext struct {
	Name               string             `json:"name"`
	Summary            string             `json:"summary"`
	Stats              ProjectStats       `json:"stats"`
	RecentTasks        []ContextTask      `json:"recentTasks"`
	UpcomingMilestones []ContextMilestone `json:"upcomingMilestones"`
	RecentInsights     []ContextInsight   `json:"recentInsights"`
}
