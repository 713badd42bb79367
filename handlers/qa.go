package handlers

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/timfmjones/project-manager-backend/database"
	"github.com/timfmjones/project-manager-backend/models"
)

const (
	qaContextTasks      = 10
	qaContextMilestones = 5
	qaContextInsights   = 10
	maxSuggestions      = 5
)

func GetQAHistory(db *database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := callerID(c)
		if !ok {
			return
		}
		projectID, ok := pathID(c, "id", "invalid project ID")
		if !ok {
			return
		}

		ctx := c.Request.Context()
		if _, err := db.GetProject(ctx, userID, projectID); err != nil {
			respondDBError(c, err, "Project not found")
			return
		}

		questions, err := db.ListQAHistory(ctx, userID, projectID, 0)
		if err != nil {
			respondDBError(c, err, "Project not found")
			return
		}

		c.JSON(http.StatusOK, questions)
	}
}

// AskQuestion answers a question about one project. It snapshots the
// caller's own rows into a context bundle, asks the advisor model, stores
// the exchange, and spawns any tasks the answer proposed. The advisor
// never fails outright; on upstream trouble it degrades to a canned
// answer built from the stats.
func AskQuestion(db *database.DB, ai AIService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := callerID(c)
		if !ok {
			return
		}
		projectID, ok := pathID(c, "id", "invalid project ID")
		if !ok {
			return
		}

		var req models.AskQuestionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}
		includeExamples := req.IncludeExamples == nil || *req.IncludeExamples

		ctx := c.Request.Context()
		project, err := db.GetProject(ctx, userID, projectID)
		if err != nil {
			respondDBError(c, err, "Project not found")
			return
		}

		pc, err := buildProjectContext(c, db, userID, project)
		if err != nil {
			respondDBError(c, err, "Project not found")
			return
		}

		resp := ai.GenerateQAResponse(ctx, req.Question, *pc, includeExamples)

		record, err := db.CreateQAQuestion(ctx, projectID, req.Question, resp.Answer, resp.Suggestions, resp.Examples)
		if err != nil {
			respondDBError(c, err, "Project not found")
			return
		}

		if len(resp.SuggestedTasks) > 0 {
			spawned := make([]models.SuggestedTask, len(resp.SuggestedTasks))
			for i, t := range resp.SuggestedTasks {
				if t.Description == nil {
					desc := fmt.Sprintf("Suggested from Q&A: %s...", truncate(req.Question, 50))
					t.Description = &desc
				}
				spawned[i] = t
			}
			if err := db.CreateTasksBatch(ctx, projectID, spawned, time.Now().UnixMilli()); err != nil {
				log.Printf("Failed to spawn suggested tasks for question %s: %v", record.ID, err)
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"id":             record.ID,
			"question":       record.Question,
			"answer":         record.Answer,
			"suggestions":    record.Suggestions,
			"examples":       record.Examples,
			"suggestedTasks": emptyIfNil(resp.SuggestedTasks),
			"createdAt":      record.CreatedAt,
		})
	}
}

func QAFeedback(db *database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := callerID(c)
		if !ok {
			return
		}
		questionID, ok := pathID(c, "id", "invalid question ID")
		if !ok {
			return
		}

		var req models.QAFeedbackRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx := c.Request.Context()
		if err := db.SetQAFeedback(ctx, userID, questionID, *req.Helpful); err != nil {
			respondDBError(c, err, "Question not found")
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

// GetQASuggestions proposes questions worth asking. State-aware
// suggestions (a piled-up backlog, a milestone due soon) lead, the
// static pool fills the remainder.
func GetQASuggestions(db *database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := callerID(c)
		if !ok {
			return
		}
		projectID, ok := pathID(c, "id", "invalid project ID")
		if !ok {
			return
		}

		ctx := c.Request.Context()
		if _, err := db.GetProject(ctx, userID, projectID); err != nil {
			respondDBError(c, err, "Project not found")
			return
		}

		var suggestions []string

		backlog, err := db.CountTasksByStatus(ctx, projectID, models.StatusTodo)
		if err != nil {
			respondDBError(c, err, "Project not found")
			return
		}
		if backlog > 5 {
			suggestions = append(suggestions, "How can I better manage my task backlog?")
		}

		dueSoon, err := db.CountMilestonesDueWithin(ctx, projectID, 7*24*time.Hour)
		if err != nil {
			respondDBError(c, err, "Project not found")
			return
		}
		if dueSoon > 0 {
			suggestions = append(suggestions, "What do I need to complete for my upcoming milestone?")
		}

		static := []string{
			"What should I focus on next?",
			"Are there any bottlenecks in my project?",
			"How can I improve my project's progress?",
			"What are similar projects doing differently?",
			"What tasks should I prioritize this week?",
		}
		for _, s := range static {
			if len(suggestions) >= maxSuggestions {
				break
			}
			suggestions = append(suggestions, s)
		}

		c.JSON(http.StatusOK, gin.H{"suggestions": suggestions[:min(len(suggestions), maxSuggestions)]})
	}
}

// buildProjectContext assembles the advisor's view of a project from
// rows the caller owns.
func buildProjectContext(c *gin.Context, db *database.DB, userID uuid.UUID, project *models.Project) (*models.ProjectContext, error) {
	ctx := c.Request.Context()

	tasks, err := db.ListRecentTasks(ctx, project.ID, qaContextTasks)
	if err != nil {
		return nil, err
	}
	milestones, err := db.ListUpcomingMilestones(ctx, project.ID, qaContextMilestones)
	if err != nil {
		return nil, err
	}
	insights, err := db.ListInsights(ctx, userID, project.ID, qaContextInsights)
	if err != nil {
		return nil, err
	}
	stats, err := db.GetProjectStats(ctx, project.ID)
	if err != nil {
		return nil, err
	}
	stats.UpcomingMilestones = len(milestones)

	pc := models.ProjectContext{
		Name:               project.Name,
		Stats:              *stats,
		RecentTasks:        make([]models.ContextTask, len(tasks)),
		UpcomingMilestones: make([]models.ContextMilestone, len(milestones)),
		RecentInsights:     make([]models.ContextInsight, len(insights)),
	}
	if project.SummaryBanner != nil {
		pc.Summary = *project.SummaryBanner
	}

	for i, t := range tasks {
		pc.RecentTasks[i] = models.ContextTask{
			Title:       t.Title,
			Status:      string(t.Status),
			Description: t.Description,
		}
	}
	for i, m := range milestones {
		pc.UpcomingMilestones[i] = models.ContextMilestone{
			Title:       m.Title,
			Description: m.Description,
			DueDate:     m.DueDate,
		}
	}
	for i, ins := range insights {
		source := ins.Source.ContentText
		if source == nil {
			source = ins.Source.Transcript
		}
		pc.RecentInsights[i] = models.ContextInsight{
			Summary:         ins.ShortSummary,
			Recommendations: ins.Recommendations,
			SuggestedTasks:  ins.SuggestedTasks,
			Source:          source,
			Date:            ins.CreatedAt,
		}
	}

	return &pc, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func emptyIfNil(tasks []models.SuggestedTask) []models.SuggestedTask {
	if tasks == nil {
		return []models.SuggestedTask{}
	}
	return tasks
}
