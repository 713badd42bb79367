package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/timfmjones/project-manager-backend/metrics"
	"github.com/timfmjones/project-manager-backend/models"
)

// GenerateQAResponse answers a question about the caller's project. When
// the model call fails the caller still gets a usable degraded answer
// built from the project's own numbers, never an error.
func (c *Client) GenerateQAResponse(ctx context.Context, question string, pc models.ProjectContext, includeExamples bool) *models.QAResponse {
	summary := pc.Summary
	if summary == "" {
		summary = "No summary provided"
	}

	exampleLine := "Real-world examples from successful projects/companies"
	if !includeExamples {
		exampleLine = "Focus only on their specific project"
	}

	systemPrompt := fmt.Sprintf(`You are an expert project management advisor with deep knowledge of best practices from companies like Google, Amazon, and successful startups.

Given a project's context and a user's question, provide:
1. A direct, actionable answer based on their project data
2. 2-3 follow-up suggestions or questions
3. %s
4. If relevant, suggest 1-2 specific tasks they should create

Project Context:
- Project: %s
- Summary: %s
- Progress: %d/%d tasks completed
- Insights generated: %d
- Upcoming milestones: %d

Be specific, practical, and reference their actual project data when answering.`,
		exampleLine, pc.Name, summary,
		pc.Stats.CompletedTasks, pc.Stats.TotalTasks,
		pc.Stats.TotalInsights, pc.Stats.UpcomingMilestones)

	contextJSON, _ := json.MarshalIndent(pc, "", "  ")
	userPrompt := fmt.Sprintf(`Project Details:
%s

User Question: %s

Provide a response in JSON format:
{
  "answer": "Direct answer to their question with specific references to their project",
  "suggestions": ["Follow-up question 1", "Follow-up question 2", "Follow-up question 3"],
  "examples": ["Real example 1", "Real example 2"] (only if includeExamples is true),
  "suggestedTasks": [{"title": "Task title", "description": "Brief description"}] (only if relevant)
}`, contextJSON, question)

	var result models.QAResponse
	err := c.completeJSON(ctx, systemPrompt, userPrompt, 1500, &result)
	metrics.AICallsTotal.WithLabelValues("qa", callStatus(err)).Inc()
	if err != nil || result.Answer == "" {
		log.Printf("QA generation error: %v", err)
		return fallbackQAResponse(pc, includeExamples)
	}

	if result.Suggestions == nil {
		result.Suggestions = []string{}
	}
	if !includeExamples {
		result.Examples = nil
	}
	return &result
}

func fallbackQAResponse(pc models.ProjectContext, includeExamples bool) *models.QAResponse {
	resp := &models.QAResponse{
		Answer: fmt.Sprintf("I'm having trouble analyzing your project right now. Based on what I can see, "+
			"you have %d tasks with %d completed. "+
			"Try asking about specific aspects of your project like task prioritization or milestone planning.",
			pc.Stats.TotalTasks, pc.Stats.CompletedTasks),
		Suggestions: []string{
			"What are my highest priority tasks?",
			"How can I improve my project velocity?",
			"What should I focus on this week?",
		},
	}
	if includeExamples {
		resp.Examples = []string{
			"Many successful teams use weekly sprints to maintain momentum",
			"Google's OKR system helps align tasks with larger goals",
		}
	}
	return resp
}
