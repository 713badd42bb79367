package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/timfmjones/project-manager-backend/metrics"
	"github.com/timfmjones/project-manager-backend/models"
)

func callStatus(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

const insightSystemPrompt = `You are an expert product & business analyst. Given a raw idea dump, return:
shortSummary: 2-4 crisp bullets of the core ideas (no fluff),
recommendations: 2-5 practical business suggestions tailored to an ongoing project,
suggestedTasks: 2-6 atomic tasks with actionable titles, keep scope to 1-2 hours each.
Return strict JSON: { shortSummary: string[], recommendations: string[], suggestedTasks: {title: string, description?: string}[] }`

// GenerateInsight analyzes one idea dump. Failures propagate so the
// caller can surface an upstream error instead of persisting a canned
// insight.
func (c *Client) GenerateInsight(ctx context.Context, content string) (*models.InsightData, error) {
	if len(strings.TrimSpace(content)) < 10 {
		return nil, fmt.Errorf("content too short to generate insights")
	}

	var data models.InsightData
	err := c.completeJSON(ctx, insightSystemPrompt,
		"Analyze this idea dump: "+content, 1000, &data)
	metrics.AICallsTotal.WithLabelValues("insight", callStatus(err)).Inc()
	if err != nil {
		return nil, fmt.Errorf("insight generation failed: %w", err)
	}

	if data.ShortSummary == nil || data.Recommendations == nil {
		return nil, fmt.Errorf("invalid response structure from AI")
	}
	if data.SuggestedTasks == nil {
		data.SuggestedTasks = []models.SuggestedTask{}
	}

	return &data, nil
}

const summarySystemPrompt = `Given the project's recent insights (most recent 5), propose a single concise banner paragraph (max 220 chars) that captures direction & key ongoing items. No bullets, no extra text. Return: { suggestedSummary: string }`

// SuggestSummary proposes a banner from recent insights. A collaborator
// failure degrades to an empty suggestion rather than an error, since a
// missing banner suggestion is still a usable outcome.
func (c *Client) SuggestSummary(ctx context.Context, insights []models.InsightWithSource) (string, error) {
	if len(insights) == 0 {
		return "", nil
	}

	var parts []string
	for _, i := range insights {
		parts = append(parts, strings.Join(i.ShortSummary, " "))
	}

	var result struct {
		SuggestedSummary string `json:"suggestedSummary"`
	}
	err := c.completeJSON(ctx, summarySystemPrompt,
		"Recent insights: "+strings.Join(parts, " "), 100, &result)
	metrics.AICallsTotal.WithLabelValues("summary", callStatus(err)).Inc()
	if err != nil {
		return "", nil
	}
	return result.SuggestedSummary, nil
}
